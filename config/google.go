package config

const (
	DefaultGoogleLocation = "us-central1"

	TokenCacheNone   = "none"
	TokenCacheMemory = "memory"
	TokenCacheRedis  = "redis"
)

type Google struct {
	ProjectID string `mapstructure:"PROJECT_ID" json:"project_id" yaml:"project_id" env:"GOOGLE_PROJECT_ID"`
	Location  string `mapstructure:"LOCATION" json:"location" yaml:"location" env:"GOOGLE_LOCATION"`
	// Service account JSON（平台環境變數可能把換行存成字面 \n）
	Credentials string `mapstructure:"CREDENTIALS" json:"-" yaml:"credentials" env:"GOOGLE_CREDENTIALS"`
	// global：整段字串把字面 \n 換成換行；trailing：只去除結尾 \n 並修正 private_key
	CredentialsCleanup string `mapstructure:"CREDENTIALS_CLEANUP" json:"credentials_cleanup" yaml:"credentials_cleanup"`
	// none / memory / redis
	TokenCache            string `mapstructure:"TOKEN_CACHE" json:"token_cache" yaml:"token_cache"`
	RequestTimeoutSeconds int    `mapstructure:"REQUEST_TIMEOUT_SECONDS" json:"request_timeout_seconds" yaml:"request_timeout_seconds"`
}

func (g *Google) applyDefaults() {
	if g.Location == "" {
		g.Location = DefaultGoogleLocation
	}
	if g.CredentialsCleanup == "" {
		g.CredentialsCleanup = "global"
	}
	if g.TokenCache == "" {
		g.TokenCache = TokenCacheNone
	}
	if g.RequestTimeoutSeconds <= 0 {
		g.RequestTimeoutSeconds = 300
	}
}
