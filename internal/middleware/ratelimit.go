package middleware

import (
	"errors"
	"strconv"

	"imagen-gateway/config"
	"imagen-gateway/internal/core"
	"imagen-gateway/internal/database/redis/repository"
	cErr "imagen-gateway/internal/pkg/error"
	"imagen-gateway/internal/pkg/response"
	"imagen-gateway/internal/telemetry"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const defaultRateLimitWindow int64 = 60

type RateLimit struct {
	logger                *zap.Logger
	trace                 *telemetry.Trace
	metric                *telemetry.Metric
	config                *config.Configuration
	rateLimiterRepository *repository.RateLimiterRepository
}

func NewRateLimit(
	logger *zap.Logger,
	trace *telemetry.Trace,
	metric *telemetry.Metric,
	config *config.Configuration,
	rateLimiterRepository *repository.RateLimiterRepository,
) *RateLimit {
	return &RateLimit{
		logger:                logger,
		trace:                 trace,
		metric:                metric,
		config:                config,
		rateLimiterRepository: rateLimiterRepository,
	}
}

// Guard 必須放在 Session 之後；Redis 未設定或 LIMIT<=0 時直接放行
func (middleware *RateLimit) Guard() gin.HandlerFunc {
	return func(c *gin.Context) {
		limit := middleware.config.RateLimit.Limit
		if limit <= 0 || !middleware.rateLimiterRepository.Enabled() {
			c.Next()
			return
		}
		window := middleware.config.RateLimit.WindowSeconds
		if window <= 0 {
			window = defaultRateLimitWindow
		}

		ctx, span, end := middleware.trace.WithSpan(c.Request.Context(), string(core.SpanRateLimitMiddleware))
		subject := sessionSubject(c)
		remaining, ttl, err := middleware.rateLimiterRepository.Consume(ctx, subject, window, limit)
		blocked := errors.Is(err, repository.ErrRateLimitExceeded)
		middleware.trace.ApplyTraceAttributes(span, core.TraceRateLimitMeta{
			Subject:   subject,
			Limit:     limit,
			WindowSec: window,
			Remaining: remaining,
			TTL:       ttl,
			Blocked:   blocked,
		})

		if err != nil && !blocked {
			// Redis 錯誤不阻斷生成
			middleware.logger.Warn("[RateLimit] consume failed", zap.String("subject", subject), zap.Error(err))
			end(nil)
			c.Next()
			return
		}

		c.Header("X-RateLimit-Limit", strconv.Itoa(limit))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(remaining))
		if ttl > 0 {
			c.Header("X-RateLimit-Reset", strconv.FormatInt(ttl, 10))
		}

		if blocked {
			if ttl > 0 {
				c.Header("Retry-After", strconv.FormatInt(ttl, 10))
			}
			middleware.metric.IncRateLimited(c.FullPath())
			appErr := cErr.RateLimitExceeded("rate limit exceeded")
			response.AbortWithError(c, appErr)
			end(appErr)
			return
		}
		end(nil)
		c.Next()
	}
}
