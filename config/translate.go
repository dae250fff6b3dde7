package config

type Translate struct {
	Enabled bool `mapstructure:"ENABLED" json:"enabled" yaml:"enabled"`
	// MyMemory（GET /get?q=...&langpair=zh|en）
	PrimaryURL string `mapstructure:"PRIMARY_URL" json:"primary_url" yaml:"primary_url"`
	// LibreTranslate（POST /translate）
	FallbackURL    string `mapstructure:"FALLBACK_URL" json:"fallback_url" yaml:"fallback_url"`
	FallbackAPIKey string `mapstructure:"FALLBACK_API_KEY" json:"-" yaml:"fallback_api_key"`
	TimeoutSeconds int    `mapstructure:"TIMEOUT_SECONDS" json:"timeout_seconds" yaml:"timeout_seconds"`
}

func (t *Translate) applyDefaults() {
	if t.PrimaryURL == "" {
		t.PrimaryURL = "https://api.mymemory.translated.net"
	}
	if t.FallbackURL == "" {
		t.FallbackURL = "https://libretranslate.com"
	}
	if t.TimeoutSeconds <= 0 {
		t.TimeoutSeconds = 10
	}
}
