package images

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"regexp"
	"strings"
	"time"

	"imagen-gateway/internal/core"
	cErr "imagen-gateway/internal/pkg/error"
	"imagen-gateway/internal/service/translate"
	"imagen-gateway/internal/telemetry"
	"imagen-gateway/internal/vertex"

	"go.uber.org/zap"
)

var (
	dataURIPrefix = regexp.MustCompile(`^data:image/\w+;base64,`)
	modelName     = regexp.MustCompile(`^[A-Za-z0-9._@-]+$`)
)

// StripDataURI 去掉 data:image/...;base64, 前綴
func StripDataURI(s string) string {
	return dataURIPrefix.ReplaceAllString(s, "")
}

func ValidModelName(model string) bool {
	return modelName.MatchString(model)
}

type ImagenService struct {
	factory    *vertex.Factory
	translator *translate.Translator
	logger     *zap.Logger
	trace      *telemetry.Trace
	metric     *telemetry.Metric
}

func NewImagenService(
	factory *vertex.Factory,
	translator *translate.Translator,
	logger *zap.Logger,
	trace *telemetry.Trace,
	metric *telemetry.Metric,
) Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	if translator == nil {
		translator = translate.New(nil, 0, logger, trace, metric)
	}
	return &ImagenService{
		factory:    factory,
		translator: translator,
		logger:     logger,
		trace:      trace,
		metric:     metric,
	}
}

func (s *ImagenService) Generate(ctx context.Context, req *GenerationRequest) (*GenerationResult, error) {
	return s.predict(ctx, ModeTextToImage, req)
}

func (s *ImagenService) ImageToImage(ctx context.Context, req *GenerationRequest) (*GenerationResult, error) {
	if strings.TrimSpace(req.ImageBase64) == "" {
		return nil, cErr.InvalidArgument("imageBase64 is required for image-to-image")
	}
	return s.predict(ctx, ModeImageToImage, req)
}

func (s *ImagenService) ListModels(ctx context.Context) (*ModelsResult, error) {
	ctx, _, end := s.trace.WithSpan(ctx, string(core.SpanImagenListModels))

	client, err := s.factory.NewDefaultClient()
	if err != nil {
		end(err)
		return nil, err
	}
	var models any
	if err := client.GetJSON(ctx, core.VertexPublisherModelsPath, &models); err != nil {
		end(err)
		return nil, err
	}
	end(nil)
	return &ModelsResult{
		Project:  s.factory.ProjectID(),
		Location: s.factory.Location(),
		Models:   models,
	}, nil
}

func (s *ImagenService) predict(ctx context.Context, mode Mode, req *GenerationRequest) (*GenerationResult, error) {
	if strings.TrimSpace(req.Prompt) == "" {
		return nil, cErr.InvalidArgument("Prompt is required and must be a string")
	}
	model := req.Model
	if model == "" {
		model = core.DefaultImagenModel
	}
	if !ValidModelName(model) {
		return nil, cErr.InvalidArgument("Invalid model name: " + model)
	}
	aspectRatio := req.AspectRatio
	if aspectRatio == "" {
		aspectRatio = core.DefaultAspectRatio
	}
	count := core.DefaultNumberOfImages
	if req.NumberOfImages != nil {
		count = *req.NumberOfImages
	}

	ctx, span, end := s.trace.WithSpan(ctx, string(core.SpanImagenPredict))
	meta := core.TraceImagenMeta{
		Mode:           string(mode),
		Model:          model,
		AspectRatio:    aspectRatio,
		NumberOfImages: count,
		HasNegative:    req.NegativePrompt != "",
		Seed:           req.Seed,
	}

	// 正向與反向提示詞各自翻譯
	prompt := s.translator.DetectAndTranslate(ctx, req.Prompt)
	negative := req.NegativePrompt
	if negative != "" {
		negative = s.translator.DetectAndTranslate(ctx, negative)
	}
	meta.Translated = prompt != req.Prompt || negative != req.NegativePrompt

	instance := predictInstance{Prompt: prompt, NegativePrompt: negative}
	if mode == ModeImageToImage {
		instance.Image = &predictImage{BytesBase64Encoded: StripDataURI(req.ImageBase64)}
	}
	body := PredictRequest{
		Instances: []predictInstance{instance},
		Parameters: predictParameters{
			AspectRatio:    aspectRatio,
			NumberOfImages: count,
			Seed:           req.Seed,
		},
	}

	s.logger.Info("[Imagen] predict",
		zap.String("mode", string(mode)),
		zap.String("model", model),
		zap.String("aspectRatio", aspectRatio),
		zap.Int("numberOfImages", count),
		zap.Bool("translated", meta.Translated),
	)

	client, err := s.factory.NewDefaultClient()
	if err != nil {
		s.trace.ApplyTraceAttributes(span, meta)
		end(err)
		return nil, err
	}

	start := time.Now()
	var out PredictResponse
	err = client.PostJSON(ctx, fmt.Sprintf(core.VertexPredictPathFormat, model), body, &out)
	elapsed := time.Since(start)
	s.metric.ObserveImagen(string(mode), statusOf(err), elapsed)
	if err != nil {
		s.logger.Warn("[Imagen] predict failed", zap.String("model", model), zap.Error(err))
		s.trace.ApplyTraceAttributes(span, meta)
		end(err)
		return nil, err
	}

	images := make([]any, 0, len(out.Predictions))
	for _, p := range out.Predictions {
		images = append(images, toDataURI(p))
	}
	meta.ImageCount = len(images)
	s.trace.ApplyTraceAttributes(span, meta)
	end(nil)

	s.logger.Info("[Imagen] predict ok", zap.String("model", model), zap.Int("predictions", len(images)))

	return &GenerationResult{
		Images:      images,
		Count:       len(images),
		Model:       model,
		Mode:        mode,
		AspectRatio: aspectRatio,
		Requested:   count,
		Translated:  meta.Translated,
		Upstream:    elapsed,
	}, nil
}

// toDataURI 只轉換帶 bytesBase64Encoded 的 prediction
func toDataURI(p any) any {
	m, ok := p.(map[string]any)
	if !ok {
		return p
	}
	b64, ok := m["bytesBase64Encoded"].(string)
	if !ok || b64 == "" {
		return p
	}
	return "data:image/png;base64," + b64
}

func statusOf(err error) int {
	if err == nil {
		return http.StatusOK
	}
	var appErr *cErr.Error
	if errors.As(err, &appErr) {
		return appErr.HttpCode()
	}
	return http.StatusInternalServerError
}
