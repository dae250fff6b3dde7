package error

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

type Error struct {
	httpCode  int
	errorCode int
	errorMsg  string
	kind      Kind
	detail    any
	cause     error
}

func New(kind Kind, httpCode, errorCode int, errorMsg string) *Error {
	return &Error{
		httpCode:  httpCode,
		errorCode: errorCode,
		errorMsg:  errorMsg,
		kind:      kind,
	}
}

// From 非 *Error 一律包成 internal
func From(err error) *Error {
	if err == nil {
		return nil
	}
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr
	}
	return InternalServer(err.Error()).Wrap(err)
}

// IsKind 判斷錯誤鏈中是否有指定分類
func IsKind(err error, kind Kind) bool {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.kind == kind
	}
	return false
}

// ✅ 設定錯誤 (500)
func Configuration(msg string) *Error {
	return New(KindConfiguration, http.StatusInternalServerError, INTERNAL_ERROR, msg)
}

func Configurationf(format string, args ...any) *Error {
	return Configuration(fmt.Sprintf(format, args...))
}

// ✅ 權限錯誤 (401)
func Unauthorized(msg ...string) *Error {
	m := "未登录"
	if len(msg) > 0 && msg[0] != "" {
		m = msg[0]
	}
	return New(KindAuthentication, http.StatusUnauthorized, UNAUTHORIZED, m)
}

// ✅ 用戶請求錯誤 (400)
func InvalidArgument(msg string) *Error {
	return New(KindInvalidArgument, http.StatusBadRequest, BAD_REQUEST, msg)
}

// ✅ 上游錯誤，status 與 detail 原樣回傳給呼叫端
func Upstream(status int, msg string, detail any) *Error {
	if status < 400 || status > 599 {
		status = http.StatusInternalServerError
	}
	e := New(KindUpstream, status, status, msg)
	e.detail = detail
	return e
}

// 請求 body 超過 APP__MAX_BODY_BYTES (413)
func PayloadTooLarge(msg string) *Error {
	return New(KindInvalidArgument, http.StatusRequestEntityTooLarge, PAYLOAD_TOO_LARGE, msg)
}

func RateLimitExceeded(msg string) *Error {
	return New(KindRateLimited, http.StatusTooManyRequests, RATE_LIMIT_EXCEEDED, msg)
}

func ServiceUnavailable(msg string) *Error {
	return New(KindInternal, http.StatusServiceUnavailable, SERVICE_UNAVAILABLE, msg)
}

func NotFound(msg string) *Error {
	return New(KindInternal, http.StatusNotFound, NOT_FOUND, msg)
}

// ✅ 伺服器內部錯誤 (500)
func InternalServer(msg string) *Error {
	return New(KindInternal, http.StatusInternalServerError, INTERNAL_ERROR, msg)
}

// Wrap 保留原始錯誤供 errors.Is / errors.As
func (e *Error) Wrap(cause error) *Error {
	cp := *e
	cp.cause = cause
	return &cp
}

func (e *Error) WithDetail(detail any) *Error {
	cp := *e
	cp.detail = detail
	return &cp
}

func (e *Error) HttpCode() int {
	return e.httpCode
}

func (e *Error) ErrorCode() int {
	return e.errorCode
}

func (e *Error) Kind() Kind {
	return e.kind
}

func (e *Error) Detail() any {
	return e.detail
}

func (e *Error) Message() string {
	return e.errorMsg
}

func (e *Error) Error() string {
	if e.cause != nil && !strings.Contains(e.errorMsg, e.cause.Error()) {
		return e.errorMsg + ": " + e.cause.Error()
	}
	return e.errorMsg
}

func (e *Error) Unwrap() error {
	return e.cause
}
