package config

type RateLimit struct {
	// 每位登入使用者在視窗內可呼叫生成 API 的次數；0 表示不限制
	Limit         int   `mapstructure:"LIMIT" json:"limit" yaml:"limit"`
	WindowSeconds int64 `mapstructure:"WINDOW_SECONDS" json:"window_seconds" yaml:"window_seconds"`
}
