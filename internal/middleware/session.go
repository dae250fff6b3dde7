package middleware

import (
	"errors"
	"strings"

	"imagen-gateway/config"
	"imagen-gateway/internal/core"
	cErr "imagen-gateway/internal/pkg/error"
	"imagen-gateway/internal/pkg/response"
	"imagen-gateway/internal/pkg/session"
	"imagen-gateway/internal/telemetry"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Session struct {
	logger *zap.Logger
	trace  *telemetry.Trace
	config *config.Configuration
}

func NewSession(logger *zap.Logger, trace *telemetry.Trace, config *config.Configuration) *Session {
	return &Session{logger: logger, trace: trace, config: config}
}

// Handler 驗證 session token，成功後把 core.SessionUser 放進 gin.Context
func (m *Session) Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		_, span, end := m.trace.WithSpan(c.Request.Context(), string(core.SpanSessionMiddleware))
		token, where := m.readToken(c)
		meta := core.TraceSessionMeta{Where: where}

		if token == "" {
			meta.Status = "missing_session"
			m.trace.ApplyTraceAttributes(span, meta)
			err := cErr.Unauthorized()
			response.AbortWithError(c, err)
			end(err)
			return
		}

		user, err := session.Parse(m.config.Auth.Secret, token)
		if err != nil {
			meta.Status = "invalid_session"
			m.trace.ApplyTraceAttributes(span, meta)
			if errors.Is(err, session.ErrMissingSecret) {
				m.logger.Error("[Session] AUTH_SECRET is not configured")
			}
			appErr := cErr.Unauthorized().Wrap(err)
			response.AbortWithError(c, appErr)
			end(appErr)
			return
		}

		meta.Email = user.Email
		meta.Status = "success"
		m.trace.ApplyTraceAttributes(span, meta)
		c.Set(core.ContextSessionUserKey, user)
		end(nil)
		c.Next()
	}
}

// readToken 依序讀取 cookie、__Secure- cookie、Authorization: Bearer
func (m *Session) readToken(c *gin.Context) (string, string) {
	name := m.config.Auth.CookieName
	for _, n := range []string{name, session.SecureCookiePrefix + name} {
		if v, err := c.Cookie(n); err == nil && v != "" {
			return v, "cookie"
		}
	}
	if h := c.GetHeader("Authorization"); h != "" {
		if len(h) > 7 && strings.EqualFold(h[:7], "Bearer ") {
			return strings.TrimSpace(h[7:]), "header"
		}
	}
	return "", "none"
}

// SessionUser 取出 Session middleware 放入的使用者
func SessionUser(c *gin.Context) (*core.SessionUser, bool) {
	v, ok := c.Get(core.ContextSessionUserKey)
	if !ok {
		return nil, false
	}
	u, ok := v.(*core.SessionUser)
	return u, ok && u != nil
}

// sessionSubject 限流用的主體；沒有 session 時退回 client IP
func sessionSubject(c *gin.Context) string {
	if u, ok := SessionUser(c); ok {
		return "user:" + strings.ToLower(u.Email)
	}
	return "ip:" + c.ClientIP()
}
