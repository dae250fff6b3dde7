package middleware

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"runtime/debug"
	"time"
	"unicode/utf8"

	"imagen-gateway/config"
	"imagen-gateway/internal/core"
	"imagen-gateway/internal/database/fluentd/model"
	"imagen-gateway/internal/database/fluentd/repository"
	cErr "imagen-gateway/internal/pkg/error"
	res "imagen-gateway/internal/pkg/response"
	"imagen-gateway/internal/telemetry"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Recovery struct {
	logger            *zap.Logger
	trace             *telemetry.Trace
	config            *config.Configuration
	fluentdRepository *repository.LogRepository
}

func NewRecovery(
	logger *zap.Logger,
	trace *telemetry.Trace,
	config *config.Configuration,
	fluentdRepository *repository.LogRepository,
) *Recovery {
	return &Recovery{
		logger:            logger,
		trace:             trace,
		config:            config,
		fluentdRepository: fluentdRepository,
	}
}

// ErrorHandler 統一輸出錯誤 envelope，並攔截 panic
func (middleware *Recovery) ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestTime := time.Now()
		if startTime, exists := c.Get(contextStartKey); exists {
			if t, ok := startTime.(time.Time); ok {
				requestTime = t
			}
		}
		rid := requestID(c)

		// panic recover 必須在 c.Next() 之前註冊
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}
			duration := time.Since(requestTime)
			ctx, span, end := middleware.trace.WithSpan(c.Request.Context(), string(core.SpanRecoveryMiddleware))
			meta := core.TracePanicMeta{
				Path:       c.Request.URL.Path,
				Method:     c.Request.Method,
				ClientIP:   c.ClientIP(),
				UserAgent:  c.Request.UserAgent(),
				DurationMs: float64(duration.Milliseconds()),
				Message:    toSafeString(fmt.Sprint(rec)),
				Stack:      toSafeStack(debug.Stack()),
				Status:     http.StatusInternalServerError,
			}
			middleware.trace.ApplyTraceAttributes(span, meta)

			middleware.logger.Error("[PANIC] Recovered",
				zap.String("path", meta.Path),
				zap.String("method", meta.Method),
				zap.String("client_ip", meta.ClientIP),
				zap.Duration("duration", duration),
				zap.String("panic", meta.Message),
				zap.String("stacktrace", meta.Stack),
				zap.String("requestId", rid),
			)

			err := cErr.InternalServer("unexpected panic")
			end(err)
			if !c.Writer.Written() {
				res.Fail(c, rid, err)
			}
			middleware.logResponse(ctx, rid, c.Request.URL.Path, err, meta.Message, duration)
			c.Abort()
		}()

		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}

		duration := time.Since(requestTime)
		ctx, span, end := middleware.trace.WithSpan(c.Request.Context(), string(core.SpanRecoveryMiddleware))

		// 取第一個 *cErr.Error；其餘視為 internal
		var appErr *cErr.Error
		for _, e := range c.Errors {
			if errors.As(e.Err, &appErr) {
				break
			}
		}
		if appErr == nil {
			appErr = cErr.InternalServer("unknown-error").WithDetail(toSafeString(c.Errors.String()))
		}

		middleware.trace.ApplyTraceAttributes(span, core.TraceErrorMeta{
			Code:       appErr.ErrorCode(),
			Kind:       string(appErr.Kind()),
			Message:    appErr.Message(),
			Detail:     safePreviewJSON(appErr.Detail(), bodyPreviewLimit),
			Status:     appErr.HttpCode(),
			DurationMs: float64(duration.Milliseconds()),
		})
		fields := []zap.Field{
			zap.Int("code", appErr.ErrorCode()),
			zap.String("kind", string(appErr.Kind())),
			zap.Int("status", appErr.HttpCode()),
			zap.Duration("duration", duration),
			zap.String("requestId", rid),
		}
		if appErr.Detail() != nil {
			fields = append(fields, zap.String("detail", safePreviewJSON(appErr.Detail(), bodyPreviewLimit)))
		}
		if appErr.HttpCode() >= http.StatusInternalServerError {
			middleware.logger.Error(appErr.Error(), fields...)
		} else {
			middleware.logger.Warn(appErr.Error(), fields...)
		}

		res.Fail(c, rid, appErr)
		middleware.logResponse(ctx, rid, c.Request.URL.Path, appErr, appErr.Error(), duration)
		end(appErr)
	}
}

func (middleware *Recovery) logResponse(ctx context.Context, rid, path string, appErr *cErr.Error, message string, duration time.Duration) {
	err := middleware.fluentdRepository.LogResponse(ctx, model.ResponseLog{
		RequestID:   rid,
		ProjectName: middleware.config.App.Name,
		Path:        path,
		Code:        appErr.ErrorCode(),
		StatusCode:  appErr.HttpCode(),
		Error:       message,
		DurationMs:  float64(duration.Milliseconds()),
		ResponseTS:  time.Now().UTC().Format("2006-01-02 15:04:05.999999 UTC"),
	})
	if err != nil {
		middleware.logger.Warn("[Fluentd] response log failed", zap.Error(err))
	}
}

func toSafeString(s string) string {
	const max = 8000
	if utf8.ValidString(s) {
		if len(s) > max {
			return s[:max] + "…"
		}
		return s
	}
	b := []byte(s)
	if len(b) > max {
		b = b[:max]
	}
	return "b64:" + base64.StdEncoding.EncodeToString(b)
}

func toSafeStack(b []byte) string {
	const max = 16000
	if len(b) > max {
		b = b[:max]
	}
	if utf8.Valid(b) {
		return string(b)
	}
	return "b64:" + base64.StdEncoding.EncodeToString(b)
}
