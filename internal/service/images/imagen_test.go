package images

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"imagen-gateway/config"
	cErr "imagen-gateway/internal/pkg/error"
	"imagen-gateway/internal/service/translate"
	"imagen-gateway/internal/vertex"
	"imagen-gateway/internal/vertex/vertextest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeVertex struct {
	*httptest.Server
	calls  atomic.Int32
	status int
	reply  string
	path   string
	body   map[string]any
	auth   string
}

func newFakeVertex(t *testing.T) *fakeVertex {
	fv := &fakeVertex{status: http.StatusOK, reply: `{"predictions":[{"bytesBase64Encoded":"AAA"}]}`}
	fv.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fv.calls.Add(1)
		fv.path = r.URL.Path
		fv.auth = r.Header.Get("Authorization")
		fv.body = nil
		if r.Body != nil {
			_ = json.NewDecoder(r.Body).Decode(&fv.body)
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(fv.status)
		_, _ = w.Write([]byte(fv.reply))
	}))
	t.Cleanup(fv.Close)
	return fv
}

// zhStrategy 把任何輸入翻成固定英文
type zhStrategy struct{ calls atomic.Int32 }

func (z *zhStrategy) Name() string { return "fake" }
func (z *zhStrategy) Translate(_ context.Context, text string) (string, error) {
	z.calls.Add(1)
	return "EN(" + text + ")", nil
}

func newService(t *testing.T, fv *fakeVertex, strategies ...translate.Strategy) Service {
	t.Helper()
	tokens := vertextest.NewTokenServer(t)
	raw := vertextest.ServiceAccountJSON(t, tokens.TokenURI())

	conf := &config.Configuration{}
	conf.Google.ProjectID = "demo-project"
	conf.ApplyDefaults()

	factory := vertex.NewFactoryWith(conf, nil, nil, nil, nil,
		vertex.WithCredentialSource(vertex.StaticSource(raw)),
		vertex.WithBaseURL(fv.URL),
	)
	tr := translate.New(strategies, time.Second, nil, nil, nil)
	return NewImagenService(factory, tr, nil, nil, nil)
}

func intPtr(i int) *int { return &i }

func TestGenerateMapsPredictions(t *testing.T) {
	fv := newFakeVertex(t)
	svc := newService(t, fv)

	res, err := svc.Generate(context.Background(), &GenerationRequest{Prompt: "a cat"})
	require.NoError(t, err)

	assert.Equal(t, []any{"data:image/png;base64,AAA"}, res.Images)
	assert.Equal(t, 1, res.Count)
	assert.Equal(t, "imagen-3.0-generate-001", res.Model)
	assert.Equal(t, "/publishers/google/models/imagen-3.0-generate-001:predict", fv.path)
	assert.Equal(t, "Bearer "+vertextest.AccessToken, fv.auth)

	instances := fv.body["instances"].([]any)
	require.Len(t, instances, 1)
	inst := instances[0].(map[string]any)
	assert.Equal(t, "a cat", inst["prompt"])
	assert.NotContains(t, inst, "image")
	assert.NotContains(t, inst, "negativePrompt")

	params := fv.body["parameters"].(map[string]any)
	assert.Equal(t, "1:1", params["aspectRatio"])
	assert.Equal(t, float64(1), params["numberOfImages"])
	assert.NotContains(t, params, "seed")
}

func TestGenerateParameters(t *testing.T) {
	fv := newFakeVertex(t)
	fv.reply = `{"predictions":[{"bytesBase64Encoded":"AAA"},{"bytesBase64Encoded":"BBB"},{"raiFilteredReason":"blocked"}]}`
	svc := newService(t, fv)

	seed := int64(42)
	res, err := svc.Generate(context.Background(), &GenerationRequest{
		Prompt:         "a dog",
		Model:          "imagen-3.0-fast-generate-001",
		AspectRatio:    "16:9",
		NumberOfImages: intPtr(3),
		NegativePrompt: "blurry",
		Seed:           &seed,
	})
	require.NoError(t, err)

	assert.Equal(t, 3, res.Count)
	assert.Equal(t, "data:image/png;base64,BBB", res.Images[1])
	assert.Equal(t, map[string]any{"raiFilteredReason": "blocked"}, res.Images[2])
	assert.Equal(t, "/publishers/google/models/imagen-3.0-fast-generate-001:predict", fv.path)

	inst := fv.body["instances"].([]any)[0].(map[string]any)
	assert.Equal(t, "blurry", inst["negativePrompt"])
	params := fv.body["parameters"].(map[string]any)
	assert.Equal(t, "16:9", params["aspectRatio"])
	assert.Equal(t, float64(3), params["numberOfImages"])
	assert.Equal(t, float64(42), params["seed"])
}

func TestGenerateTranslatesPromptAndNegative(t *testing.T) {
	fv := newFakeVertex(t)
	zh := &zhStrategy{}
	svc := newService(t, fv, zh)

	res, err := svc.Generate(context.Background(), &GenerationRequest{Prompt: "一只猫", NegativePrompt: "模糊"})
	require.NoError(t, err)
	assert.True(t, res.Translated)
	assert.Equal(t, int32(2), zh.calls.Load())

	inst := fv.body["instances"].([]any)[0].(map[string]any)
	assert.Equal(t, "EN(一只猫)", inst["prompt"])
	assert.Equal(t, "EN(模糊)", inst["negativePrompt"])
}

func TestGenerateEnglishSkipsTranslation(t *testing.T) {
	fv := newFakeVertex(t)
	zh := &zhStrategy{}
	svc := newService(t, fv, zh)

	res, err := svc.Generate(context.Background(), &GenerationRequest{Prompt: "a cat", NegativePrompt: "blurry"})
	require.NoError(t, err)
	assert.False(t, res.Translated)
	assert.Equal(t, int32(0), zh.calls.Load())
}

func TestGenerateValidation(t *testing.T) {
	fv := newFakeVertex(t)
	svc := newService(t, fv)

	_, err := svc.Generate(context.Background(), &GenerationRequest{Prompt: "  "})
	require.Error(t, err)
	assert.True(t, cErr.IsKind(err, cErr.KindInvalidArgument))
	assert.Equal(t, "Prompt is required and must be a string", cErr.From(err).Message())

	_, err = svc.Generate(context.Background(), &GenerationRequest{Prompt: "x", Model: "../../evil"})
	require.Error(t, err)
	assert.Equal(t, http.StatusBadRequest, cErr.From(err).HttpCode())

	assert.Equal(t, int32(0), fv.calls.Load())
}

func TestImageToImage(t *testing.T) {
	fv := newFakeVertex(t)
	svc := newService(t, fv)

	_, err := svc.ImageToImage(context.Background(), &GenerationRequest{Prompt: "x"})
	require.Error(t, err)
	assert.Equal(t, "imageBase64 is required for image-to-image", cErr.From(err).Message())
	assert.Equal(t, int32(0), fv.calls.Load())

	res, err := svc.ImageToImage(context.Background(), &GenerationRequest{
		Prompt:      "make it blue",
		ImageBase64: "data:image/jpeg;base64,QUJD",
	})
	require.NoError(t, err)
	assert.Equal(t, ModeImageToImage, res.Mode)

	inst := fv.body["instances"].([]any)[0].(map[string]any)
	assert.Equal(t, map[string]any{"bytesBase64Encoded": "QUJD"}, inst["image"])
}

func TestUpstreamErrorPassthrough(t *testing.T) {
	fv := newFakeVertex(t)
	fv.status = http.StatusTooManyRequests
	fv.reply = `{"error":{"code":429,"message":"quota exceeded","status":"RESOURCE_EXHAUSTED"}}`
	svc := newService(t, fv)

	_, err := svc.Generate(context.Background(), &GenerationRequest{Prompt: "a cat"})
	require.Error(t, err)
	appErr := cErr.From(err)
	assert.Equal(t, http.StatusTooManyRequests, appErr.HttpCode())
	assert.Equal(t, 429, appErr.ErrorCode())
	assert.Equal(t, "quota exceeded", appErr.Message())
	detail := appErr.Detail().(map[string]any)
	assert.Equal(t, "RESOURCE_EXHAUSTED", detail["error"].(map[string]any)["status"])
}

func TestListModels(t *testing.T) {
	fv := newFakeVertex(t)
	fv.reply = `{"publisherModels":[{"name":"publishers/google/models/imagen-3.0-generate-001"}]}`
	svc := newService(t, fv)

	res, err := svc.ListModels(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "/publishers/google/models", fv.path)
	assert.Equal(t, "demo-project", res.Project)
	assert.Equal(t, "us-central1", res.Location)
	assert.Contains(t, res.Models.(map[string]any), "publisherModels")
}

func TestStripDataURI(t *testing.T) {
	assert.Equal(t, "AAA", StripDataURI("data:image/png;base64,AAA"))
	assert.Equal(t, "AAA", StripDataURI("data:image/webp;base64,AAA"))
	assert.Equal(t, "AAA", StripDataURI("AAA"))
	assert.Equal(t, "xdata:image/png;base64,AAA", StripDataURI("xdata:image/png;base64,AAA"))
}

func TestValidModelName(t *testing.T) {
	assert.True(t, ValidModelName("imagen-3.0-generate-001"))
	assert.True(t, ValidModelName("imagegeneration@006"))
	assert.False(t, ValidModelName("a/b"))
	assert.False(t, ValidModelName("x:predict?y"))
	assert.False(t, ValidModelName(""))
}
