package middleware

import (
	"bytes"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strings"
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

const (
	bodyPreviewLimit = 2000
	// 記錄用最多預讀的 body 長度，其餘留給下游串流讀取
	bodyPeekLimit = 64 << 10
)

// 這些欄位只記錄長度
var imageFields = map[string]struct{}{
	"imageBase64":        {},
	"bytesBase64Encoded": {},
}

type Logger struct {
	logger            *zap.Logger
	trace             *telemetry.Trace
	config            *config.Configuration
	fluentdRepository *repository.LogRepository
}

func NewLogger(
	logger *zap.Logger,
	trace *telemetry.Trace,
	config *config.Configuration,
	fluentdRepository *repository.LogRepository,
) *Logger {
	return &Logger{
		logger:            logger,
		trace:             trace,
		config:            config,
		fluentdRepository: fluentdRepository,
	}
}

type peekedBody struct {
	io.Reader
	io.Closer
}

// LoggerHandler 記錄請求並限制 body 大小；二進位 body 不讀取，JSON 中的圖片只留摘要
func (m *Logger) LoggerHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		endpoint := c.FullPath()
		if skipPath(endpoint) {
			c.Next()
			return
		}

		if limit := m.config.App.MaxBodyBytes; limit > 0 && c.Request.Body != nil {
			if c.Request.ContentLength > limit {
				m.logger.Warn("[Request] body too large",
					zap.String("path", c.Request.URL.Path),
					zap.Int64("content_length", c.Request.ContentLength),
					zap.Int64("limit", limit),
				)
				res.Fail(c, requestID(c), cErr.PayloadTooLarge("Request body too large"))
				return
			}
			// chunked 請求沒有 Content-Length，讀到上限時回 *http.MaxBytesError
			c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, limit)
		}

		ctx, span, end := m.trace.WithSpan(c.Request.Context(), string(core.SpanLoggerMiddleware))

		requestTime := time.Now().UTC()
		if startTime, exists := c.Get(contextStartKey); exists {
			if t, ok := startTime.(time.Time); ok {
				requestTime = t
			}
		}

		mediaType, _, _ := mime.ParseMediaType(c.GetHeader("Content-Type"))
		var bodyRaw string
		switch {
		case isBinaryContent(mediaType):
			if c.Request.ContentLength > 0 {
				bodyRaw = fmt.Sprintf("(binary %s, %d bytes)", mediaType, c.Request.ContentLength)
			} else {
				bodyRaw = fmt.Sprintf("(binary %s)", mediaType)
			}
		case c.Request.Body != nil && c.Request.ContentLength != 0:
			// 只預讀開頭，接回原 body 後下游仍可完整讀取
			head, _ := io.ReadAll(io.LimitReader(c.Request.Body, bodyPeekLimit+1))
			c.Request.Body = peekedBody{Reader: io.MultiReader(bytes.NewReader(head), c.Request.Body), Closer: c.Request.Body}
			switch {
			case len(head) > bodyPeekLimit && strings.HasPrefix(mediaType, "application/json"):
				bodyRaw = fmt.Sprintf("(json, over %d bytes)", bodyPeekLimit)
			case strings.HasPrefix(mediaType, "application/json"):
				bodyRaw = summarizeJSON(head, bodyPreviewLimit)
			default:
				bodyRaw = toSafePreview(head, bodyPreviewLimit)
			}
		}

		headerMap := make(map[string]string, len(c.Request.Header))
		for k, v := range c.Request.Header {
			lk := strings.ToLower(k)
			if lk == "authorization" || lk == "cookie" {
				headerMap[lk] = "(redacted)"
				continue
			}
			headerMap[lk] = strings.Join(v, ",")
		}
		paramsMap := make(map[string]string, len(c.Params))
		for _, p := range c.Params {
			paramsMap[p.Key] = p.Value
		}

		method := c.Request.Method
		path := c.Request.URL.Path
		query := c.Request.URL.RawQuery
		m.trace.ApplyTraceAttributes(span, core.LoggerRequestMeta{
			Method:     method,
			Path:       path,
			FullPath:   endpoint,
			Query:      query,
			Body:       bodyRaw,
			Scheme:     c.Request.URL.Scheme,
			Host:       c.Request.Host,
			UserAgent:  c.Request.UserAgent(),
			ContentLen: c.Request.ContentLength,
			Proto:      c.Request.Proto,
			ClientIP:   c.ClientIP(),
			Headers:    headerMap,
			Params:     paramsMap,
		})

		rid := requestID(c)
		traceID := span.SpanContext().TraceID()
		logFields := []zap.Field{
			zap.String("method", method),
			zap.String("path", path),
			zap.Any("headers", headerMap),
			zap.String("requestId", rid),
			zap.String("traceId", traceID.String()),
		}
		if query != "" {
			logFields = append(logFields, zap.String("query", query))
		}
		if len(paramsMap) > 0 {
			logFields = append(logFields, zap.Any("params", paramsMap))
		}
		if bodyRaw != "" {
			logFields = append(logFields, zap.String("body", bodyRaw))
		}
		m.logger.Info("[Request] logging middleware message", logFields...)

		if err := m.fluentdRepository.LogRequest(ctx, model.RequestLog{
			RequestID:   rid,
			Method:      method,
			Path:        path,
			ProjectName: m.config.App.Name,
			RequestTS:   requestTime.Format("2006-01-02 15:04:05.999999 UTC"),
			Body:        bodyRaw,
			IPHash:      hashIP(c.ClientIP()),
			UserAgent:   c.Request.UserAgent(),
		}); err != nil {
			m.logger.Warn("[Fluentd] request log failed", zap.Error(err))
		}
		end(nil)
		c.Next()
	}
}

// summarizeJSON 圖片欄位改為長度摘要後再截斷
func summarizeJSON(data []byte, max int) string {
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return toSafePreview(data, max)
	}
	b, err := json.Marshal(redactImages(v))
	if err != nil {
		return toSafePreview(data, max)
	}
	return toSafePreview(b, max)
}

func redactImages(v any) any {
	switch t := v.(type) {
	case map[string]any:
		for k, val := range t {
			if _, ok := imageFields[k]; ok {
				if s, ok := val.(string); ok {
					t[k] = fmt.Sprintf("(image, %d chars)", len(s))
					continue
				}
			}
			t[k] = redactImages(val)
		}
		return t
	case []any:
		for i := range t {
			t[i] = redactImages(t[i])
		}
		return t
	case string:
		if strings.HasPrefix(t, "data:image/") {
			return fmt.Sprintf("(image, %d chars)", len(t))
		}
		return t
	default:
		return v
	}
}

// UTF-8 直接截斷；非 UTF-8 以 Base64 表示
func toSafePreview(b []byte, max int) string {
	if len(b) == 0 {
		return ""
	}
	if utf8.Valid(b) {
		if len(b) > max {
			cut := max
			for cut > 0 && !utf8.RuneStart(b[cut]) {
				cut--
			}
			return string(b[:cut]) + "…"
		}
		return string(b)
	}
	if len(b) > max {
		b = b[:max]
	}
	return "b64:" + base64.StdEncoding.EncodeToString(b)
}

func isBinaryContent(mediaType string) bool {
	return strings.HasPrefix(mediaType, "multipart/") ||
		strings.HasPrefix(mediaType, "image/") ||
		strings.HasPrefix(mediaType, "audio/") ||
		strings.HasPrefix(mediaType, "video/") ||
		mediaType == "application/octet-stream"
}

func hashIP(ip string) string {
	sum := sha256.Sum256([]byte(ip))
	return base64.RawStdEncoding.EncodeToString(sum[:12])
}
