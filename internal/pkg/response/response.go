package response

import (
	"errors"
	"net/http"

	"imagen-gateway/internal/core"
	cErr "imagen-gateway/internal/pkg/error"

	"github.com/gin-gonic/gin"
)

const (
	HeaderRequestID = "X-Request-ID"

	ContextDataKey        = "data"
	ContextMessageKey     = "message"
	ContextPassthroughKey = "passthrough_raw"
)

type Response struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
	Error   any    `json:"error,omitempty"`
}

func Success(c *gin.Context, data any) {
	message := "success"
	if msg, ok := data.(gin.H); ok {
		if s, ok := msg["message"].(string); ok && s != "" {
			message = s
			delete(msg, "message")
		}
	}
	c.Set(ContextDataKey, data)
	c.Set(ContextMessageKey, message)
	c.Abort()
}

// Raw 不包 envelope，Response middleware 直接輸出 data
func Raw(c *gin.Context, data any) {
	c.Set(ContextDataKey, data)
	c.Set(ContextPassthroughKey, true)
	c.Abort()
}

func AbortWithError(c *gin.Context, err error) {
	_ = c.Error(err)
	c.Abort()
}

// Envelope 成功回應
func Envelope(message string, data any) Response {
	if message == "" {
		message = "success"
	}
	return Response{Code: core.ResponseCodeSuccess, Message: message, Data: data}
}

// ErrorEnvelope 錯誤回應與對應 HTTP 狀態碼
func ErrorEnvelope(err error) (int, Response) {
	var appErr *cErr.Error
	if !errors.As(err, &appErr) {
		return http.StatusInternalServerError, Response{
			Code:    cErr.INTERNAL_ERROR,
			Message: err.Error(),
		}
	}
	return appErr.HttpCode(), Response{
		Code:    appErr.ErrorCode(),
		Message: appErr.Message(),
		Error:   appErr.Detail(),
	}
}

func Fail(c *gin.Context, requestID string, err error) {
	status, body := ErrorEnvelope(err)
	if requestID != "" {
		c.Header(HeaderRequestID, requestID)
	}
	c.JSON(status, body)
	c.Abort()
}
