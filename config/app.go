package config

type App struct {
	// 當前開發環境
	Env string `mapstructure:"ENV" json:"env" yaml:"env"`
	// 服務端口
	Port uint32 `mapstructure:"PORT" json:"port" yaml:"port"`
	// 服務名稱
	Name string `mapstructure:"NAME" json:"name" yaml:"name"`
	// 服務版本
	Version        string `mapstructure:"VERSION" json:"version" yaml:"version"`
	SwaggerEnabled bool   `mapstructure:"SWAGGER_ENABLED" json:"swagger_enabled" yaml:"swagger_enabled"`
	PprofEnabled   bool   `mapstructure:"PPROF_ENABLED" json:"pprof_enabled" yaml:"pprof_enabled"`
	// 開啟 /api/debug/env（只回報環境變數是否設定，不回傳內容）
	DebugEnabled bool `mapstructure:"DEBUG_ENABLED" json:"debug_enabled" yaml:"debug_enabled"`
	// 允許帶 credentials 的跨域來源，逗號分隔；空值時回 "*" 且不允許 credentials
	CorsAllowOrigins []string `mapstructure:"CORS_ALLOW_ORIGINS" json:"cors_allow_origins" yaml:"cors_allow_origins"`
	// 請求 body 上限（bytes），需容納 base64 圖片
	MaxBodyBytes int64 `mapstructure:"MAX_BODY_BYTES" json:"max_body_bytes" yaml:"max_body_bytes"`
}
