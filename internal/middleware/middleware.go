package middleware

import (
	"strings"

	"imagen-gateway/internal/core"
	"imagen-gateway/internal/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/google/wire"
)

var ProviderSet = wire.NewSet(
	NewTraceEntry,
	NewCors,
	NewLogger,
	NewRecovery,
	NewResponse,
	NewSession,
	NewRateLimit,
)

const contextStartKey = "requestDuration"

// 不做 tracing 與 envelope 的路徑
func skipPath(endpoint string) bool {
	return strings.HasPrefix(endpoint, "/swagger") ||
		strings.HasPrefix(endpoint, "/metrics") ||
		strings.HasPrefix(endpoint, "/version") ||
		strings.HasPrefix(endpoint, "/health-check") ||
		strings.HasPrefix(endpoint, "/debug/pprof")
}

// requestID 每個請求產生一次 uuid v7，並回寫 X-Request-ID
func requestID(c *gin.Context) string {
	if v, ok := c.Get(core.ContextRequestIDKey); ok {
		if s, ok := v.(string); ok && s != "" {
			return s
		}
	}
	id, err := uuid.NewV7()
	if err != nil {
		id = uuid.New()
	}
	rid := id.String()
	c.Set(core.ContextRequestIDKey, rid)
	c.Header(response.HeaderRequestID, rid)
	return rid
}
