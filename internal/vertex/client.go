package vertex

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"imagen-gateway/config"
	"imagen-gateway/internal/core"
	cErr "imagen-gateway/internal/pkg/error"
	"imagen-gateway/internal/pkg/httpbody"
	"imagen-gateway/internal/telemetry"

	"go.uber.org/zap"
)

const (
	DefaultTimeout = 300 * time.Second

	errNotConfigured       = "Google Vertex AI credentials not configured"
	defaultUpstreamMessage = "生成失败"
)

// BaseURL location 空白時使用 us-central1
func BaseURL(project, location string) (string, error) {
	project = strings.TrimSpace(project)
	location = strings.TrimSpace(location)
	if project == "" {
		return "", cErr.Configuration(errNotConfigured)
	}
	if location == "" {
		location = config.DefaultGoogleLocation
	}
	return fmt.Sprintf(core.VertexAIBaseURLFormat, location, project, location), nil
}

// Factory 建立帶 Bearer token 的 Vertex AI client
type Factory struct {
	conf    *config.Configuration
	source  CredentialSource
	cleanup core.CredentialsCleanup
	tokens  *TokenProvider
	base    http.RoundTripper
	baseURL string
	timeout time.Duration
	logger  *zap.Logger
	trace   *telemetry.Trace
}

type FactoryOption func(*Factory)

func WithCredentialSource(src CredentialSource) FactoryOption {
	return func(f *Factory) { f.source = src }
}

// WithBaseTransport 送往 Vertex AI 的底層 transport
func WithBaseTransport(rt http.RoundTripper) FactoryOption {
	return func(f *Factory) { f.base = rt }
}

// WithBaseURL 取代由 project / location 組出的 base URL
func WithBaseURL(u string) FactoryOption {
	return func(f *Factory) { f.baseURL = u }
}

func WithTimeout(d time.Duration) FactoryOption {
	return func(f *Factory) { f.timeout = d }
}

func WithTokenProvider(p *TokenProvider) FactoryOption {
	return func(f *Factory) { f.tokens = p }
}

func NewFactory(
	conf *config.Configuration,
	logger *zap.Logger,
	trace *telemetry.Trace,
	metric *telemetry.Metric,
	cache TokenCache,
) *Factory {
	return NewFactoryWith(conf, logger, trace, metric, cache)
}

func NewFactoryWith(
	conf *config.Configuration,
	logger *zap.Logger,
	trace *telemetry.Trace,
	metric *telemetry.Metric,
	cache TokenCache,
	opts ...FactoryOption,
) *Factory {
	if logger == nil {
		logger = zap.NewNop()
	}
	f := &Factory{
		conf:    conf,
		source:  EnvSource(conf),
		cleanup: ParseCleanup(conf.Google.CredentialsCleanup),
		timeout: DefaultTimeout,
		logger:  logger,
		trace:   trace,
	}
	if s := conf.Google.RequestTimeoutSeconds; s > 0 {
		f.timeout = time.Duration(s) * time.Second
	}
	for _, opt := range opts {
		opt(f)
	}
	if f.tokens == nil {
		f.tokens = NewTokenProvider(NewOAuth2Fetcher(), cache, logger, trace, metric)
	}
	return f
}

// BaseURL 依目前設定組出 Vertex AI base URL
func (f *Factory) BaseURL() (string, error) {
	if f.baseURL != "" {
		return f.baseURL, nil
	}
	return BaseURL(f.conf.Google.ProjectID, f.conf.Google.Location)
}

// ProjectID 與 Location 供診斷端點使用
func (f *Factory) ProjectID() string { return f.conf.Google.ProjectID }

func (f *Factory) Location() string {
	if f.conf.Google.Location == "" {
		return config.DefaultGoogleLocation
	}
	return f.conf.Google.Location
}

// HasCredentials 只檢查是否有設定，不解析
func (f *Factory) HasCredentials() bool {
	raw, err := f.source()
	return err == nil && strings.TrimSpace(raw) != ""
}

// ResolveCredentials 依設定的清理策略解析憑證
func (f *Factory) ResolveCredentials() (*ServiceAccountCredential, error) {
	raw, err := f.source()
	if err != nil {
		return nil, err
	}
	return ResolveWith(raw, f.cleanup)
}

// AccessToken 不經過 HTTP client 直接取得 token
func (f *Factory) AccessToken(ctx context.Context) (AccessToken, *ServiceAccountCredential, error) {
	cred, err := f.ResolveCredentials()
	if err != nil {
		return "", nil, err
	}
	tok, err := f.tokens.Token(ctx, cred)
	if err != nil {
		return "", cred, err
	}
	return tok, cred, nil
}

func (f *Factory) NewClient(baseURL string) (*Client, error) {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		return nil, cErr.Configuration(errNotConfigured)
	}
	return &Client{
		baseURL: baseURL,
		logger:  f.logger,
		http: &http.Client{
			Timeout: f.timeout,
			Transport: &AuthTransport{
				Base:    f.base,
				Source:  f.source,
				Cleanup: f.cleanup,
				Tokens:  f.tokens,
				Trace:   f.trace,
				Logger:  f.logger,
			},
		},
	}, nil
}

// NewDefaultClient 以設定的 project / location 建立 client
func (f *Factory) NewDefaultClient() (*Client, error) {
	baseURL, err := f.BaseURL()
	if err != nil {
		return nil, err
	}
	return f.NewClient(baseURL)
}

type Client struct {
	baseURL string
	http    *http.Client
	logger  *zap.Logger
}

func (c *Client) BaseURL() string { return c.baseURL }

func (c *Client) Timeout() time.Duration { return c.http.Timeout }

func (c *Client) PostJSON(ctx context.Context, path string, body, out any) error {
	return c.do(ctx, http.MethodPost, path, body, out)
}

func (c *Client) GetJSON(ctx context.Context, path string, out any) error {
	return c.do(ctx, http.MethodGet, path, nil, out)
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return cErr.InternalServer("marshal request body failed").Wrap(err)
		}
		reader = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return cErr.Configuration(err.Error()).Wrap(err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		var appErr *cErr.Error
		if errors.As(err, &appErr) {
			return appErr
		}
		c.logger.Warn("[Vertex] request failed", zap.String("path", path), zap.Error(err))
		return cErr.Upstream(http.StatusInternalServerError, err.Error(), map[string]any{}).Wrap(err)
	}
	defer resp.Body.Close()

	raw, err := httpbody.Read(resp)
	if err != nil {
		return cErr.Upstream(http.StatusInternalServerError, err.Error(), map[string]any{}).Wrap(err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		detail := decodeDetail(raw)
		c.logger.Warn("[Vertex] upstream error",
			zap.String("path", path),
			zap.Int("status", resp.StatusCode),
			zap.String("body", httpbody.TruncateRunes(string(raw), 2000)),
		)
		return cErr.Upstream(resp.StatusCode, UpstreamMessage(detail), detail)
	}

	if out == nil || len(raw) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return cErr.Upstream(http.StatusInternalServerError, "invalid upstream response: "+err.Error(), httpbody.TruncateRunes(string(raw), 2000)).Wrap(err)
	}
	return nil
}

// decodeDetail 非 JSON 時保留原始字串
func decodeDetail(raw []byte) any {
	if len(bytes.TrimSpace(raw)) == 0 {
		return map[string]any{}
	}
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return string(raw)
	}
	return v
}

// UpstreamMessage 依序取 error.message、message，都沒有時回預設訊息
func UpstreamMessage(detail any) string {
	m, ok := detail.(map[string]any)
	if !ok {
		return defaultUpstreamMessage
	}
	if e, ok := m["error"]; ok && e != nil {
		if em, ok := e.(map[string]any); ok {
			if s, ok := em["message"].(string); ok && s != "" {
				return s
			}
		}
		return defaultUpstreamMessage
	}
	if s, ok := m["message"].(string); ok && s != "" {
		return s
	}
	return defaultUpstreamMessage
}
