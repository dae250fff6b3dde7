package config

type Redis struct {
	// 未設定 Host 時停用 Redis（token 快取與限流都會退回不使用）
	Host      string `mapstructure:"HOST" json:"host" yaml:"host"`
	Port      int    `mapstructure:"PORT" json:"port" yaml:"port"`
	Password  string `mapstructure:"PASSWORD" json:"password" yaml:"password"`
	DB        int    `mapstructure:"DB" json:"db" yaml:"db"`
	KeyPrefix string `mapstructure:"KEY_PREFIX" json:"key_prefix" yaml:"key_prefix"`
}
