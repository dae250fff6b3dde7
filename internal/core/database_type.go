package core

type RedisKey string
type FluentdSubTag string

// ─── Redis Keys ────────────────────────────────────────────────────────────────

const (
	RedisKeyServerName  RedisKey = "imagen_gateway" // 預設前綴
	RedisKeyAccessToken RedisKey = "gcp_access_token"
	RedisKeyRateLimit   RedisKey = "ratelimit"
)

const (
	FluentdRequest  FluentdSubTag = "request_log"
	FluentdResponse FluentdSubTag = "response_log"
	FluentdUsage    FluentdSubTag = "imagen_usage_log"
)
