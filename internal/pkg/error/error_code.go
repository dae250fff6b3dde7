package error

// 錯誤分類，決定對外狀態碼語意
type Kind string

const (
	KindConfiguration   Kind = "configuration"
	KindAuthentication  Kind = "authentication"
	KindInvalidArgument Kind = "invalid-argument"
	KindUpstream        Kind = "upstream"
	KindRateLimited     Kind = "rate-limited"
	KindInternal        Kind = "internal"
)

const (
	// 1000: 成功
	SUCCESS = 1000

	// 400 系列直接沿用 HTTP 狀態碼作為回應 code
	BAD_REQUEST         = 400
	UNAUTHORIZED        = 401
	NOT_FOUND           = 404
	PAYLOAD_TOO_LARGE   = 413
	RATE_LIMIT_EXCEEDED = 429

	// 500 系列
	INTERNAL_ERROR      = 500
	SERVICE_UNAVAILABLE = 503
)
