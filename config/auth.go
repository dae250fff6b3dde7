package config

type Auth struct {
	// HS256 簽章密鑰，與發放 session 的登入服務共用
	Secret     string `mapstructure:"SECRET" json:"-" yaml:"secret" env:"AUTH_SECRET"`
	CookieName string `mapstructure:"COOKIE_NAME" json:"cookie_name" yaml:"cookie_name"`
	// CLI 發放測試 session 的有效秒數
	SessionTTLSeconds int64 `mapstructure:"SESSION_TTL_SECONDS" json:"session_ttl_seconds" yaml:"session_ttl_seconds"`
}

func (a *Auth) applyDefaults() {
	if a.CookieName == "" {
		a.CookieName = "session_token"
	}
	if a.SessionTTLSeconds <= 0 {
		a.SessionTTLSeconds = 30 * 24 * 3600
	}
}
