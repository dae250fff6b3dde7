package middleware

import (
	"strings"

	"imagen-gateway/config"
	"imagen-gateway/internal/core"
	"imagen-gateway/internal/pkg/response"
	"imagen-gateway/internal/telemetry"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

type Cors struct {
	trace   *telemetry.Trace
	origins []string
}

func NewCors(trace *telemetry.Trace, config *config.Configuration) *Cors {
	return &Cors{trace: trace, origins: allowedOrigins(config.App.CorsAllowOrigins)}
}

// allowedOrigins 只保留 http(s) 來源；出現 "*" 視同未設定
func allowedOrigins(raw []string) []string {
	var out []string
	for _, o := range raw {
		o = strings.TrimRight(strings.TrimSpace(o), "/")
		switch {
		case o == "*":
			return nil
		case strings.HasPrefix(o, "http://"), strings.HasPrefix(o, "https://"):
			out = append(out, o)
		}
	}
	return out
}

// CorsHandler session cookie 需要 credentials，只對白名單來源開放
func (m *Cors) CorsHandler() gin.HandlerFunc {
	cfg := cors.Config{
		AllowMethods:  []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:  []string{"Content-Type", "Authorization"},
		ExposeHeaders: []string{response.HeaderRequestID, "X-RateLimit-Limit", "X-RateLimit-Remaining", "X-RateLimit-Reset", "Retry-After"},
	}
	if len(m.origins) == 0 {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = m.origins
		cfg.AllowCredentials = true
	}
	corsHandler := cors.New(cfg)

	type corsMeta struct {
		AllowOrigins []string `trace:"http.cors.allow_origins"`
		AllowMethods []string `trace:"http.cors.allow_methods"`
		AllowHeaders []string `trace:"http.cors.allow_headers"`
		AllowCreds   bool     `trace:"http.cors.allow_credentials"`
	}

	return func(c *gin.Context) {
		// 不追蹤的路徑仍需套用 CORS，避免 preflight 失敗
		if skipPath(c.FullPath()) {
			corsHandler(c)
			return
		}

		_, span, end := m.trace.WithSpan(c.Request.Context(), string(core.SpanCorsMiddleware))
		m.trace.ApplyTraceAttributes(span, corsMeta{
			AllowOrigins: cfg.AllowOrigins,
			AllowMethods: cfg.AllowMethods,
			AllowHeaders: cfg.AllowHeaders,
			AllowCreds:   cfg.AllowCredentials,
		})
		end(nil)

		corsHandler(c)
	}
}
