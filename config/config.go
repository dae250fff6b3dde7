package config

type Configuration struct {
	App       App             `mapstructure:"APP" json:"app" yaml:"app"`
	Log       Log             `mapstructure:"LOG" json:"log" yaml:"log"`
	Google    Google          `mapstructure:"GOOGLE" json:"google" yaml:"google"`
	Translate Translate       `mapstructure:"TRANSLATE" json:"translate" yaml:"translate"`
	Auth      Auth            `mapstructure:"AUTH" json:"auth" yaml:"auth"`
	Redis     Redis           `mapstructure:"REDIS" json:"redis" yaml:"redis"`
	RateLimit RateLimit       `mapstructure:"RATE_LIMIT" json:"rate_limit" yaml:"rate_limit"`
	Telemetry TelemetryConfig `mapstructure:"TELEMETRY" yaml:"telemetry"`
	Fluentd   Fluentd         `mapstructure:"FLUENTD" yaml:"fluentd"`
	Cron      Cron            `mapstructure:"CRON" json:"cron" yaml:"cron"`
}

// ApplyDefaults 補上未設定的預設值
func (c *Configuration) ApplyDefaults() {
	if c.App.Name == "" {
		c.App.Name = "imagen_gateway"
	}
	if c.App.Port == 0 {
		c.App.Port = 3000
	}
	if c.App.MaxBodyBytes <= 0 {
		c.App.MaxBodyBytes = 20 << 20
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	c.Google.applyDefaults()
	c.Translate.applyDefaults()
	c.Auth.applyDefaults()
	if c.RateLimit.WindowSeconds <= 0 {
		c.RateLimit.WindowSeconds = 60
	}
	if c.Cron.CredentialCheck == "" {
		c.Cron.CredentialCheck = "0 */5 * * * *"
	}
}
