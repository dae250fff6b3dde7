package handler

import (
	"context"

	"imagen-gateway/config"
	"imagen-gateway/internal/core"
	"imagen-gateway/internal/database/fluentd/model"
	"imagen-gateway/internal/database/fluentd/repository"
	"imagen-gateway/internal/dto"
	"imagen-gateway/internal/middleware"
	"imagen-gateway/internal/pkg/request"
	"imagen-gateway/internal/pkg/response"
	"imagen-gateway/internal/service/images"
	"imagen-gateway/internal/telemetry"
	"imagen-gateway/internal/vertex"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type ImagenHandler struct {
	trace         *telemetry.Trace
	logger        *zap.Logger
	config        *config.Configuration
	imagenService images.Service
	factory       *vertex.Factory
	logRepository *repository.LogRepository
}

func NewImagenHandler(
	trace *telemetry.Trace,
	logger *zap.Logger,
	config *config.Configuration,
	imagenService images.Service,
	factory *vertex.Factory,
	logRepository *repository.LogRepository,
) *ImagenHandler {
	return &ImagenHandler{
		trace:         trace,
		logger:        logger,
		config:        config,
		imagenService: imagenService,
		factory:       factory,
		logRepository: logRepository,
	}
}

// Generate 文字生圖
// @Summary Imagen 文字生圖
// @Description 中文提示詞會先翻譯為英文
// @Tags Imagen
// @Accept json
// @Produce json
// @Param body body dto.GenerateImageDto true "生成參數"
// @Success 200 {object} response.Response{data=dto.GenerationResponseDto}
// @Failure 400 {object} response.Response
// @Failure 401 {object} response.Response
// @Failure 429 {object} response.Response
// @Failure 500 {object} response.Response
// @Router /api/ai/imagen/generate [post]
func (h *ImagenHandler) Generate(c *gin.Context) {
	ctx, _, end := h.trace.WithSpan(c)

	var body dto.GenerateImageDto
	if err := c.ShouldBindJSON(&body); err != nil {
		appErr := request.GetError(body, err)
		end(appErr)
		response.AbortWithError(c, appErr)
		return
	}

	result, err := h.imagenService.Generate(ctx, body.ToRequest())
	if err != nil {
		end(err)
		response.AbortWithError(c, err)
		return
	}
	h.logUsage(ctx, c, result)
	end(nil)
	response.Success(c, result)
}

// ImageToImage 以圖生圖
// @Summary Imagen 以圖生圖
// @Tags Imagen
// @Accept json
// @Produce json
// @Param body body dto.ImageToImageDto true "生成參數與輸入圖片"
// @Success 200 {object} response.Response{data=dto.GenerationResponseDto}
// @Failure 400 {object} response.Response
// @Failure 401 {object} response.Response
// @Failure 500 {object} response.Response
// @Router /api/ai/imagen/image-to-image [post]
func (h *ImagenHandler) ImageToImage(c *gin.Context) {
	ctx, _, end := h.trace.WithSpan(c)

	var body dto.ImageToImageDto
	if err := c.ShouldBindJSON(&body); err != nil {
		appErr := request.GetError(body, err)
		end(appErr)
		response.AbortWithError(c, appErr)
		return
	}

	result, err := h.imagenService.ImageToImage(ctx, body.ToRequest())
	if err != nil {
		end(err)
		response.AbortWithError(c, err)
		return
	}
	h.logUsage(ctx, c, result)
	end(nil)
	response.Success(c, result)
}

// TestModels 列出 publisher models，確認憑證可用
// @Summary 測試 Vertex AI 連線
// @Tags Imagen
// @Produce json
// @Success 200 {object} response.Response{data=images.ModelsResult}
// @Failure 401 {object} response.Response
// @Failure 500 {object} response.Response
// @Router /api/ai/imagen/test [get]
func (h *ImagenHandler) TestModels(c *gin.Context) {
	ctx, _, end := h.trace.WithSpan(c)

	result, err := h.imagenService.ListModels(ctx)
	if err != nil {
		end(err)
		response.AbortWithError(c, err)
		return
	}
	end(nil)
	response.Success(c, result)
}

// TestAuth 回報 session 使用者與 Google 憑證狀態
// @Summary 測試 session 與 Google 認證
// @Tags Imagen
// @Produce json
// @Success 200 {object} response.Response{data=dto.TestAuthResponseDto}
// @Failure 401 {object} response.Response
// @Failure 500 {object} response.Response
// @Router /api/ai/imagen/test-auth [get]
func (h *ImagenHandler) TestAuth(c *gin.Context) {
	ctx, _, end := h.trace.WithSpan(c)

	user, _ := middleware.SessionUser(c)
	token, cred, err := h.factory.AccessToken(ctx)
	if err != nil {
		end(err)
		response.AbortWithError(c, err)
		return
	}
	end(nil)
	response.Success(c, dto.TestAuthResponseDto{
		User: user,
		Google: dto.TestAuthGoogleDto{
			ProjectID:         h.factory.ProjectID(),
			Location:          h.factory.Location(),
			HasCredentials:    h.factory.HasCredentials(),
			AccessTokenPrefix: token.Prefix(30),
			CredentialsType:   cred.Type,
			ClientEmail:       cred.ClientEmail,
		},
	})
}

func (h *ImagenHandler) logUsage(ctx context.Context, c *gin.Context, result *images.GenerationResult) {
	usage := model.ImageUsageLog{
		RequestID:      c.GetString(core.ContextRequestIDKey),
		ProjectName:    h.config.App.Name,
		Mode:           string(result.Mode),
		Model:          result.Model,
		Endpoint:       c.FullPath(),
		AspectRatio:    result.AspectRatio,
		NumberOfImages: result.Requested,
		ImageCount:     result.Count,
		Translated:     result.Translated,
		UpstreamMs:     float64(result.Upstream.Milliseconds()),
	}
	if user, ok := middleware.SessionUser(c); ok {
		usage.UserEmail = user.Email
	}
	if err := h.logRepository.LogImageUsage(ctx, usage); err != nil {
		h.logger.Warn("[Fluentd] usage log failed", zap.Error(err))
	}
}
