package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"imagen-gateway/config"
	"imagen-gateway/internal/core"
	fluentdRepo "imagen-gateway/internal/database/fluentd/repository"
	"imagen-gateway/internal/middleware"
	"imagen-gateway/internal/pkg/session"
	"imagen-gateway/internal/service"
	"imagen-gateway/internal/service/images"
	"imagen-gateway/internal/service/translate"
	"imagen-gateway/internal/vertex"
	"imagen-gateway/internal/vertex/vertextest"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const testSecret = "handler-test-secret"

type upstream struct {
	*httptest.Server
	calls  atomic.Int32
	status int
	reply  string
}

func newUpstream(t *testing.T) *upstream {
	u := &upstream{status: http.StatusOK, reply: `{"predictions":[{"bytesBase64Encoded":"AAA"}]}`}
	u.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		u.calls.Add(1)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(u.status)
		_, _ = w.Write([]byte(u.reply))
	}))
	t.Cleanup(u.Close)
	return u
}

func newTestEngine(t *testing.T, u *upstream, raw string) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	conf := &config.Configuration{}
	conf.App.Env = "test"
	conf.Auth.Secret = testSecret
	conf.Google.ProjectID = "demo-project"
	conf.ApplyDefaults()

	logger := zap.NewNop()
	logRepo := fluentdRepo.NewLogRepository(conf, nil)
	factory := vertex.NewFactoryWith(conf, logger, nil, nil, nil,
		vertex.WithCredentialSource(vertex.StaticSource(raw)),
		vertex.WithBaseURL(u.URL),
	)
	tr := translate.New(nil, time.Second, logger, nil, nil)
	h := NewImagenHandler(nil, logger, conf, images.NewImagenService(factory, tr, logger, nil, nil), factory, logRepo)

	r := gin.New()
	r.Use(middleware.NewRecovery(logger, nil, conf, logRepo).ErrorHandler())
	r.Use(middleware.NewResponse(logger, nil, nil, conf, logRepo).FormatHandler())
	g := r.Group("/api/ai/imagen", middleware.NewSession(logger, nil, conf).Handler())
	g.POST("/generate", h.Generate)
	g.POST("/image-to-image", h.ImageToImage)
	g.GET("/test", h.TestModels)
	g.GET("/test-auth", h.TestAuth)

	health := service.NewHealthService()
	hh := NewHealthHandler(health, conf, nil)
	r.GET("/health-check", hh.HealthCheck)
	return r
}

func credentials(t *testing.T) string {
	tokens := vertextest.NewTokenServer(t)
	return vertextest.ServiceAccountJSON(t, tokens.TokenURI())
}

func authed(t *testing.T, method, path, body string) *http.Request {
	t.Helper()
	token, err := session.Issue(testSecret, core.SessionUser{Email: "a@b.c", Name: "A"}, time.Hour, time.Now())
	require.NoError(t, err)
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, bytes.NewBufferString(body))
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Authorization", "Bearer "+token)
	return req
}

func serve(r http.Handler, req *http.Request) (int, map[string]any) {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	var body map[string]any
	_ = json.Unmarshal(w.Body.Bytes(), &body)
	return w.Code, body
}

func TestGenerateSuccessEnvelope(t *testing.T) {
	u := newUpstream(t)
	r := newTestEngine(t, u, credentials(t))

	code, body := serve(r, authed(t, http.MethodPost, "/api/ai/imagen/generate", `{"prompt":"a cat"}`))
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, float64(1000), body["code"])
	assert.Equal(t, "success", body["message"])
	assert.Equal(t, map[string]any{
		"images": []any{"data:image/png;base64,AAA"},
		"count":  float64(1),
		"model":  "imagen-3.0-generate-001",
	}, body["data"])
}

func TestImagenRoutesRequireSession(t *testing.T) {
	u := newUpstream(t)
	r := newTestEngine(t, u, credentials(t))

	for _, tc := range []struct {
		method string
		path   string
		body   string
	}{
		{http.MethodPost, "/api/ai/imagen/generate", `{"prompt":"a cat"}`},
		{http.MethodPost, "/api/ai/imagen/image-to-image", `{"prompt":"a cat","image":"AAA"}`},
		{http.MethodGet, "/api/ai/imagen/test", ""},
		{http.MethodGet, "/api/ai/imagen/test-auth", ""},
	} {
		t.Run(tc.path, func(t *testing.T) {
			req := httptest.NewRequest(tc.method, tc.path, strings.NewReader(tc.body))
			code, body := serve(r, req)
			assert.Equal(t, http.StatusUnauthorized, code)
			assert.EqualValues(t, 401, body["code"])
			assert.Equal(t, "未登录", body["message"])
		})
	}
	assert.Equal(t, int32(0), u.calls.Load())
}

func TestGenerateValidation(t *testing.T) {
	u := newUpstream(t)
	r := newTestEngine(t, u, credentials(t))

	for _, tc := range []struct {
		name string
		body string
		msg  string
	}{
		{"missing prompt", `{}`, "Prompt is required and must be a string"},
		{"prompt not a string", `{"prompt":12}`, "Prompt is required and must be a string"},
		{"invalid json", `{"prompt":`, "Invalid JSON body"},
	} {
		t.Run(tc.name, func(t *testing.T) {
			code, body := serve(r, authed(t, http.MethodPost, "/api/ai/imagen/generate", tc.body))
			assert.Equal(t, http.StatusBadRequest, code)
			assert.Equal(t, float64(400), body["code"])
			assert.Equal(t, tc.msg, body["message"])
		})
	}
	assert.Equal(t, int32(0), u.calls.Load())
}

func TestImageToImageRequiresImage(t *testing.T) {
	u := newUpstream(t)
	r := newTestEngine(t, u, credentials(t))

	code, body := serve(r, authed(t, http.MethodPost, "/api/ai/imagen/image-to-image", `{"prompt":"blue"}`))
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "imageBase64 is required for image-to-image", body["message"])

	code, _ = serve(r, authed(t, http.MethodPost, "/api/ai/imagen/image-to-image", `{"prompt":"blue","imageBase64":"data:image/png;base64,QUJD"}`))
	assert.Equal(t, http.StatusOK, code)
}

func TestGenerateUpstreamPassthrough(t *testing.T) {
	u := newUpstream(t)
	u.status = http.StatusTooManyRequests
	u.reply = `{"error":{"code":429,"message":"quota exceeded","status":"RESOURCE_EXHAUSTED"}}`
	r := newTestEngine(t, u, credentials(t))

	code, body := serve(r, authed(t, http.MethodPost, "/api/ai/imagen/generate", `{"prompt":"a cat"}`))
	assert.Equal(t, http.StatusTooManyRequests, code)
	assert.Equal(t, float64(429), body["code"])
	assert.Equal(t, "quota exceeded", body["message"])
	assert.Equal(t, "RESOURCE_EXHAUSTED", body["error"].(map[string]any)["error"].(map[string]any)["status"])
}

func TestGenerateWithoutCredentials(t *testing.T) {
	u := newUpstream(t)
	r := newTestEngine(t, u, "")

	code, body := serve(r, authed(t, http.MethodPost, "/api/ai/imagen/generate", `{"prompt":"a cat"}`))
	assert.Equal(t, http.StatusInternalServerError, code)
	assert.Contains(t, body["message"], "GOOGLE_CREDENTIALS")
	assert.Equal(t, int32(0), u.calls.Load())
}

func TestTestAuth(t *testing.T) {
	u := newUpstream(t)
	r := newTestEngine(t, u, credentials(t))

	code, body := serve(r, authed(t, http.MethodGet, "/api/ai/imagen/test-auth", ""))
	require.Equal(t, http.StatusOK, code)
	data := body["data"].(map[string]any)
	assert.Equal(t, "a@b.c", data["user"].(map[string]any)["email"])
	google := data["google"].(map[string]any)
	assert.Equal(t, "demo-project", google["projectId"])
	assert.Equal(t, "us-central1", google["location"])
	assert.Equal(t, true, google["hasCredentials"])
	assert.Equal(t, vertextest.AccessToken[:30]+"...", google["accessTokenPrefix"])
	assert.Equal(t, "service_account", google["credentialsType"])
}

func TestTestModels(t *testing.T) {
	u := newUpstream(t)
	u.reply = `{"publisherModels":[]}`
	r := newTestEngine(t, u, credentials(t))

	code, body := serve(r, authed(t, http.MethodGet, "/api/ai/imagen/test", ""))
	require.Equal(t, http.StatusOK, code)
	data := body["data"].(map[string]any)
	assert.Equal(t, "demo-project", data["project"])
	assert.Equal(t, map[string]any{"publisherModels": []any{}}, data["models"])
}

func TestHealthCheck(t *testing.T) {
	r := newTestEngine(t, newUpstream(t), "")
	code, body := serve(r, httptest.NewRequest(http.MethodGet, "/health-check", nil))
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "service is alive", body["message"])
	assert.Equal(t, "ok", body["data"])
}
