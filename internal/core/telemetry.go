package core

const ContextTraceKey = "telemetry_trace_ctx"

// ==== 型別安全 span name ====
type TraceSpanName string

const (
	SpanHttpRequest         TraceSpanName = "http_request"
	SpanLoggerMiddleware    TraceSpanName = "logger_middleware"
	SpanRecoveryMiddleware  TraceSpanName = "recovery_middleware"
	SpanCorsMiddleware      TraceSpanName = "cors_middleware"
	SpanResponseMiddleware  TraceSpanName = "response_middleware"
	SpanSessionMiddleware   TraceSpanName = "session_middleware"
	SpanRateLimitMiddleware TraceSpanName = "ratelimit_middleware"

	SpanResolveCredentials TraceSpanName = "vertex.resolve_credentials"
	SpanFetchAccessToken   TraceSpanName = "vertex.fetch_access_token"
	SpanVertexRoundTrip    TraceSpanName = "vertex.round_trip"
	SpanImagenPredict      TraceSpanName = "imagen.predict"
	SpanImagenListModels   TraceSpanName = "imagen.list_models"
	SpanTranslatePrompt    TraceSpanName = "translate.prompt"
)

// 指標名稱常數
type MetricName string

const (
	MetricHttpRequestsTotal     MetricName = "requests_total"
	MetricHttpRequestDuration   MetricName = "request_duration_seconds"
	MetricImagenRequestsTotal   MetricName = "imagen_requests_total"
	MetricImagenUpstreamLatency MetricName = "imagen_upstream_duration_seconds"
	MetricTranslateTotal        MetricName = "translate_total"
	MetricTokenFetchTotal       MetricName = "token_fetch_total"
	MetricRateLimitTotal        MetricName = "rate_limited_total"
)

// label name 常數
type MetricLabelName string

const (
	MetricLabelEndpoint MetricLabelName = "endpoint"
	MetricLabelStatus   MetricLabelName = "status"
	MetricLabelReason   MetricLabelName = "reason"
	MetricLabelProvider MetricLabelName = "provider"
	MetricLabelSource   MetricLabelName = "source"
)

type LoggerRequestMeta struct {
	Method     string            `trace:"request.method"`
	Path       string            `trace:"request.path"`
	FullPath   string            `trace:"request.full_path"`
	Query      string            `trace:"request.query"`
	Body       string            `trace:"request.body"`
	Scheme     string            `trace:"http.scheme"`
	Host       string            `trace:"http.host"`
	UserAgent  string            `trace:"http.user_agent"`
	ContentLen int64             `trace:"http.request_content_length"`
	Proto      string            `trace:"http.flavor"`
	ClientIP   string            `trace:"net.peer.ip"`
	Headers    map[string]string `trace:"http.request.header"`
	Params     map[string]string `trace:"http.request.param"`
}

type TraceSessionMeta struct {
	Where  string `trace:"session.where"`
	Email  string `trace:"session.email,omitempty"`
	Status string `trace:"session.status"`
}

type TraceRateLimitMeta struct {
	Subject   string `trace:"rl.subject"`
	Limit     int    `trace:"rl.limit_count"`
	WindowSec int64  `trace:"rl.window_sec"`
	Remaining int    `trace:"rl.remaining,omitempty"`
	TTL       int64  `trace:"rl.ttl_sec,omitempty"`
	Blocked   bool   `trace:"rl.blocked"`
}

type TraceCredentialMeta struct {
	Source       string `trace:"credentials.source"`
	Cleanup      string `trace:"credentials.cleanup"`
	ClientEmail  string `trace:"credentials.client_email,omitempty"`
	ProjectID    string `trace:"credentials.project_id,omitempty"`
	PrivateKeyID string `trace:"credentials.private_key_id,omitempty"`
}

type TraceTokenMeta struct {
	Cache     string `trace:"token.cache"`
	CacheHit  bool   `trace:"token.cache_hit"`
	Shape     string `trace:"token.shape"`
	ExpiresIn int64  `trace:"token.expires_in_sec,omitempty"`
}

type TraceVertexMeta struct {
	Method string `trace:"http.method"`
	URL    string `trace:"http.url"`
	Status int    `trace:"http.status_code,omitempty"`
}

type TraceImagenMeta struct {
	Mode           string `trace:"imagen.mode"`
	Model          string `trace:"imagen.model"`
	AspectRatio    string `trace:"imagen.aspect_ratio"`
	NumberOfImages int    `trace:"imagen.number_of_images"`
	Translated     bool   `trace:"imagen.prompt_translated"`
	HasNegative    bool   `trace:"imagen.has_negative_prompt"`
	Seed           *int64 `trace:"imagen.seed,omitempty"`
	ImageCount     int    `trace:"imagen.image_count,omitempty"`
}

type TraceTranslateMeta struct {
	Provider   string `trace:"translate.provider"`
	InputLen   int    `trace:"translate.input_len"`
	OutputLen  int    `trace:"translate.output_len,omitempty"`
	Translated bool   `trace:"translate.translated"`
}

type TracePanicMeta struct {
	Path       string  `trace:"http.path"`
	Method     string  `trace:"http.method"`
	ClientIP   string  `trace:"net.peer.ip"`
	UserAgent  string  `trace:"http.user_agent"`
	DurationMs float64 `trace:"response.latency_ms"`
	Status     int     `trace:"http.status_code"`
	Message    string  `trace:"error.message"`
	Stack      string  `trace:"error.stack"`
}

type TraceErrorMeta struct {
	Code       int     `trace:"error.code"`
	Kind       string  `trace:"error.kind"`
	Message    string  `trace:"error.message"`
	Detail     string  `trace:"error.detail"`
	Status     int     `trace:"http.status_code"`
	DurationMs float64 `trace:"response.latency_ms"`
}

type TraceResponseMeta struct {
	Path       string  `trace:"http.path"`
	Method     string  `trace:"http.method"`
	Status     int     `trace:"http.status_code"`
	Message    string  `trace:"response.message"`
	Code       int     `trace:"response.code"`
	DurationMs float64 `trace:"response.latency_ms"`
	Data       string  `trace:"response.data_preview"`
}

type TraceHttpServerMeta struct {
	ClientAddr        string `trace:"client.address"`
	HttpRequestMethod string `trace:"http.request.method"`
	HttpRoute         string `trace:"http.route"`
	UrlPath           string `trace:"http.request.path"`
	UrlScheme         string `trace:"http.request.url.scheme"`
	UserAgent         string `trace:"user_agent.original"`
	ServerAddress     string `trace:"server.address"`
	NetworkPeerAddr   string `trace:"network.peer.address"`
	NetworkPeerPort   int    `trace:"network.peer.port"`
	NetworkProtoVer   string `trace:"network.protocol.version"`
	SpanKind          string `trace:"span.kind"`
	SpanTraceID       string `trace:"span.trace_id"`
	HttpStatusCode    int    `trace:"http.response.status_code"`
}

type TraceRequestLogMeta struct {
	RequestID   string `trace:"http.request.request_id"`
	Path        string `trace:"http.request.path"`
	Method      string `trace:"http.request.method"`
	ProjectName string `trace:"project.name"`
	IPHash      string `trace:"http.request.net.peer.ip_hash"`
	UserAgent   string `trace:"http.request.user_agent"`
	Version     string `trace:"log.version"`
	LoggedAt    string `trace:"http.logged_at"`
}

type TraceResponseLogMeta struct {
	RequestID   string `trace:"http.request.request_id"`
	ProjectName string `trace:"project.name"`
	Code        int    `trace:"http.response.code"`
	StatusCode  int    `trace:"http.response.status_code"`
	Error       string `trace:"http.response.error_message,omitempty"`
	Version     string `trace:"log.version"`
	LoggedAt    string `trace:"http.logged_at"`
}

type TraceUsageLogMeta struct {
	RequestID   string `trace:"http.request.request_id"`
	Email       string `trace:"user.email,omitempty"`
	ProjectName string `trace:"project.name"`
	Mode        string `trace:"imagen.mode"`
	Model       string `trace:"imagen.model"`
	ImageCount  int    `trace:"imagen.image_count"`
	Translated  bool   `trace:"imagen.prompt_translated"`
	Version     string `trace:"log.version"`
	LoggedAt    string `trace:"http.logged_at"`
}
