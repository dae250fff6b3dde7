package vertex

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"imagen-gateway/config"
	cErr "imagen-gateway/internal/pkg/error"
	"imagen-gateway/internal/vertex/vertextest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"
)

func testConfig() *config.Configuration {
	conf := &config.Configuration{}
	conf.Google.ProjectID = "demo-project"
	conf.ApplyDefaults()
	return conf
}

type countingTransport struct {
	calls atomic.Int32
	base  http.RoundTripper
}

func (c *countingTransport) RoundTrip(r *http.Request) (*http.Response, error) {
	c.calls.Add(1)
	return c.base.RoundTrip(r)
}

func TestBaseURL(t *testing.T) {
	u, err := BaseURL("demo-project", "europe-west4")
	require.NoError(t, err)
	assert.Equal(t, "https://europe-west4-aiplatform.googleapis.com/v1/projects/demo-project/locations/europe-west4", u)

	u, err = BaseURL("demo-project", "")
	require.NoError(t, err)
	assert.Equal(t, "https://us-central1-aiplatform.googleapis.com/v1/projects/demo-project/locations/us-central1", u)

	_, err = BaseURL("", "us-central1")
	require.Error(t, err)
	assert.True(t, cErr.IsKind(err, cErr.KindConfiguration))
	assert.Equal(t, "Google Vertex AI credentials not configured", cErr.From(err).Message())
}

func TestNewClientRequiresBaseURL(t *testing.T) {
	f := NewFactory(testConfig(), nil, nil, nil, nil)
	_, err := f.NewClient("  ")
	require.Error(t, err)
	assert.True(t, cErr.IsKind(err, cErr.KindConfiguration))

	c, err := f.NewClient("https://example.com/v1/")
	require.NoError(t, err)
	assert.Equal(t, "https://example.com/v1", c.BaseURL())
	assert.Equal(t, DefaultTimeout, c.Timeout())
}

func TestClientAttachesBearerToken(t *testing.T) {
	tokens := vertextest.NewTokenServer(t)
	raw := vertextest.ServiceAccountJSON(t, tokens.TokenURI())

	var gotAuth, gotType string
	var gotBody map[string]any
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotType = r.Header.Get("Content-Type")
		_ = json.NewDecoder(r.Body).Decode(&gotBody)
		assert.Equal(t, "/publishers/google/models/imagen-3.0-generate-001:predict", r.URL.Path)
		_, _ = w.Write([]byte(`{"predictions":[{"bytesBase64Encoded":"AAA"}]}`))
	}))
	defer upstream.Close()

	f := NewFactoryWith(testConfig(), nil, nil, nil, nil, WithCredentialSource(StaticSource(raw)))
	c, err := f.NewClient(upstream.URL)
	require.NoError(t, err)

	var out map[string]any
	err = c.PostJSON(context.Background(), "/publishers/google/models/imagen-3.0-generate-001:predict", map[string]any{"instances": []any{}}, &out)
	require.NoError(t, err)

	assert.Equal(t, "Bearer "+vertextest.AccessToken, gotAuth)
	assert.Equal(t, "application/json", gotType)
	assert.Contains(t, gotBody, "instances")
	assert.Len(t, out["predictions"], 1)

	// 沒有快取時每個請求都重新取得 token
	require.NoError(t, c.GetJSON(context.Background(), "/publishers/google/models/imagen-3.0-generate-001:predict", nil))
	assert.Equal(t, 2, tokens.Calls())
}

func TestMissingCredentialsFailBeforeNetwork(t *testing.T) {
	base := &countingTransport{base: http.DefaultTransport}
	f := NewFactoryWith(testConfig(), nil, nil, nil, nil,
		WithCredentialSource(StaticSource("")),
		WithBaseTransport(base),
	)
	c, err := f.NewClient("https://us-central1-aiplatform.googleapis.com/v1")
	require.NoError(t, err)

	err = c.PostJSON(context.Background(), "/x", map[string]any{}, nil)
	require.Error(t, err)
	assert.True(t, cErr.IsKind(err, cErr.KindConfiguration))
	assert.Equal(t, "GOOGLE_CREDENTIALS environment variable is not set", cErr.From(err).Message())
	assert.Equal(t, int32(0), base.calls.Load())
}

func TestTokenFailureFailsBeforeUpstream(t *testing.T) {
	tokens := vertextest.NewTokenServer(t)
	tokens.Fail(http.StatusBadRequest)
	raw := vertextest.ServiceAccountJSON(t, tokens.TokenURI())

	var hits atomic.Int32
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
	}))
	defer upstream.Close()

	f := NewFactoryWith(testConfig(), nil, nil, nil, nil, WithCredentialSource(StaticSource(raw)))
	c, err := f.NewClient(upstream.URL)
	require.NoError(t, err)

	err = c.GetJSON(context.Background(), "/publishers/google/models", nil)
	require.Error(t, err)
	assert.Equal(t, "Failed to get access token", cErr.From(err).Message())
	var retrieveErr *oauth2.RetrieveError
	assert.True(t, errors.As(err, &retrieveErr))
	assert.Equal(t, int32(0), hits.Load())
}

func TestUpstreamErrorPassthrough(t *testing.T) {
	tokens := vertextest.NewTokenServer(t)
	raw := vertextest.ServiceAccountJSON(t, tokens.TokenURI())

	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"error":{"code":429,"message":"quota exceeded","status":"RESOURCE_EXHAUSTED"}}`))
	}))
	defer upstream.Close()

	f := NewFactoryWith(testConfig(), nil, nil, nil, nil, WithCredentialSource(StaticSource(raw)))
	c, err := f.NewClient(upstream.URL)
	require.NoError(t, err)

	err = c.PostJSON(context.Background(), "/p", map[string]any{}, nil)
	require.Error(t, err)
	appErr := cErr.From(err)
	assert.Equal(t, cErr.KindUpstream, appErr.Kind())
	assert.Equal(t, http.StatusTooManyRequests, appErr.HttpCode())
	assert.Equal(t, 429, appErr.ErrorCode())
	assert.Equal(t, "quota exceeded", appErr.Message())
	detail := appErr.Detail().(map[string]any)
	assert.Equal(t, "RESOURCE_EXHAUSTED", detail["error"].(map[string]any)["status"])
}

func TestTransportErrorIs500(t *testing.T) {
	tokens := vertextest.NewTokenServer(t)
	raw := vertextest.ServiceAccountJSON(t, tokens.TokenURI())

	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	addr := upstream.URL
	upstream.Close()

	f := NewFactoryWith(testConfig(), nil, nil, nil, nil, WithCredentialSource(StaticSource(raw)))
	c, err := f.NewClient(addr)
	require.NoError(t, err)

	err = c.GetJSON(context.Background(), "/x", nil)
	require.Error(t, err)
	appErr := cErr.From(err)
	assert.Equal(t, cErr.KindUpstream, appErr.Kind())
	assert.Equal(t, 500, appErr.HttpCode())
	assert.Equal(t, map[string]any{}, appErr.Detail())
}

func TestContextCancellationPropagates(t *testing.T) {
	tokens := vertextest.NewTokenServer(t)
	raw := vertextest.ServiceAccountJSON(t, tokens.TokenURI())

	release := make(chan struct{})
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-release:
		}
	}))
	defer upstream.Close()
	defer close(release)

	f := NewFactoryWith(testConfig(), nil, nil, nil, nil, WithCredentialSource(StaticSource(raw)))
	c, err := f.NewClient(upstream.URL)
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()
	start := time.Now()
	err = c.GetJSON(ctx, "/slow", nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Less(t, time.Since(start), 5*time.Second)
}

func TestTokenCacheReusesToken(t *testing.T) {
	tokens := vertextest.NewTokenServer(t)
	raw := vertextest.ServiceAccountJSON(t, tokens.TokenURI())

	var unauthorized atomic.Bool
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if unauthorized.Load() {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"error":{"message":"Request had invalid authentication credentials."}}`))
			return
		}
		_, _ = w.Write([]byte(`{}`))
	}))
	defer upstream.Close()

	f := NewFactoryWith(testConfig(), nil, nil, nil, NewMemoryTokenCache(), WithCredentialSource(StaticSource(raw)))
	c, err := f.NewClient(upstream.URL)
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(t, c.GetJSON(context.Background(), "/x", nil))
		}()
	}
	wg.Wait()
	first := tokens.Calls()
	assert.GreaterOrEqual(t, first, 1)
	assert.LessOrEqual(t, first, 8)

	require.NoError(t, c.GetJSON(context.Background(), "/x", nil))
	assert.Equal(t, first, tokens.Calls())

	// 401 會清掉快取，下一次重新簽發
	unauthorized.Store(true)
	err = c.GetJSON(context.Background(), "/x", nil)
	require.Error(t, err)
	assert.Equal(t, 401, cErr.From(err).HttpCode())
	assert.Equal(t, "Request had invalid authentication credentials.", cErr.From(err).Message())

	unauthorized.Store(false)
	require.NoError(t, c.GetJSON(context.Background(), "/x", nil))
	assert.Equal(t, first+1, tokens.Calls())
}

func TestFactoryAccessToken(t *testing.T) {
	tokens := vertextest.NewTokenServer(t)
	raw := vertextest.ServiceAccountJSON(t, tokens.TokenURI())

	f := NewFactoryWith(testConfig(), nil, nil, nil, nil, WithCredentialSource(StaticSource(raw)))
	assert.True(t, f.HasCredentials())

	tok, cred, err := f.AccessToken(context.Background())
	require.NoError(t, err)
	assert.Equal(t, AccessToken(vertextest.AccessToken), tok)
	assert.Equal(t, "service_account", cred.Type)
	assert.Equal(t, vertextest.AccessToken[:30]+"...", tok.Prefix(30))
}

func TestUpstreamMessage(t *testing.T) {
	assert.Equal(t, "quota", UpstreamMessage(map[string]any{"error": map[string]any{"message": "quota"}}))
	assert.Equal(t, "生成失败", UpstreamMessage(map[string]any{"error": map[string]any{"code": 1}}))
	assert.Equal(t, "bad model", UpstreamMessage(map[string]any{"message": "bad model"}))
	assert.Equal(t, "生成失败", UpstreamMessage("<html>502</html>"))
	assert.Equal(t, "生成失败", UpstreamMessage(map[string]any{}))
}
