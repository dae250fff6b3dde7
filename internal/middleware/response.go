package middleware

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"imagen-gateway/config"
	"imagen-gateway/internal/core"
	"imagen-gateway/internal/database/fluentd/model"
	"imagen-gateway/internal/database/fluentd/repository"
	cErr "imagen-gateway/internal/pkg/error"
	"imagen-gateway/internal/pkg/response"
	"imagen-gateway/internal/telemetry"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Response struct {
	logger            *zap.Logger
	trace             *telemetry.Trace
	metric            *telemetry.Metric
	config            *config.Configuration
	fluentdRepository *repository.LogRepository
}

func NewResponse(
	logger *zap.Logger,
	trace *telemetry.Trace,
	metric *telemetry.Metric,
	config *config.Configuration,
	fluentdRepository *repository.LogRepository,
) *Response {
	return &Response{
		logger:            logger,
		trace:             trace,
		metric:            metric,
		config:            config,
		fluentdRepository: fluentdRepository,
	}
}

// FormatHandler 將 handler 透過 response.Success / response.Raw 設定的資料寫成 JSON
func (middleware *Response) FormatHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		if skipPath(c.FullPath()) {
			c.Next()
			return
		}

		requestTime := time.Now()
		if startTime, exists := c.Get(contextStartKey); exists {
			if t, ok := startTime.(time.Time); ok {
				requestTime = t
			}
		}

		c.Next()

		// 錯誤交給 Recovery；handler 已自行寫出就不處理
		if len(c.Errors) > 0 || c.Writer.Written() {
			return
		}

		statusCode := c.Writer.Status()
		if statusCode >= http.StatusBadRequest {
			response.AbortWithError(c, cErr.New(cErr.KindInternal, statusCode, statusCode, http.StatusText(statusCode)))
			return
		}

		ctx, span, end := middleware.trace.WithSpan(c.Request.Context(), string(core.SpanResponseMiddleware))
		defer end(nil)

		data, _ := c.Get(response.ContextDataKey)
		message, _ := c.Get(response.ContextMessageKey)
		msg, _ := message.(string)
		passthrough := c.GetBool(response.ContextPassthroughKey)

		var body any = response.Envelope(msg, data)
		if passthrough {
			body = data
		}
		jsonBytes, err := json.Marshal(body)
		if err != nil {
			response.AbortWithError(c, cErr.InternalServer("marshal response failed").Wrap(err))
			return
		}

		rid := requestID(c)
		duration := time.Since(requestTime)
		code := core.ResponseCodeSuccess
		if passthrough {
			code = 0
		}
		middleware.trace.ApplyTraceAttributes(span, core.TraceResponseMeta{
			Path:       c.Request.URL.Path,
			Method:     c.Request.Method,
			Status:     statusCode,
			Message:    msg,
			Code:       code,
			DurationMs: float64(duration.Milliseconds()),
			Data:       safePreviewJSON(data, bodyPreviewLimit),
		})
		middleware.logger.Info("[Response] success",
			zap.String("path", c.Request.URL.Path),
			zap.String("method", c.Request.Method),
			zap.Int("status", statusCode),
			zap.Duration("duration", duration),
			zap.String("requestId", rid),
		)
		if err := middleware.fluentdRepository.LogResponse(ctx, model.ResponseLog{
			RequestID:   rid,
			ProjectName: middleware.config.App.Name,
			Path:        c.Request.URL.Path,
			Code:        code,
			StatusCode:  statusCode,
			DurationMs:  float64(duration.Milliseconds()),
			ResponseTS:  time.Now().UTC().Format("2006-01-02 15:04:05.999999 UTC"),
		}); err != nil {
			middleware.logger.Warn("[Fluentd] response log failed", zap.Error(err))
		}

		c.Data(statusCode, "application/json; charset=utf-8", jsonBytes)
	}
}

// safePreviewJSON 序列化後限制長度；data URI 圖片不展開
func safePreviewJSON(data any, max int) string {
	if data == nil {
		return ""
	}
	var out string
	switch v := data.(type) {
	case string:
		out = v
	default:
		b, err := json.Marshal(v)
		if err != nil {
			return fmt.Sprintf("[marshal error: %v]", err)
		}
		out = summarizeJSON(b, max)
	}
	return toSafePreview([]byte(out), max)
}
