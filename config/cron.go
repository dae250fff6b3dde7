package config

type Cron struct {
	// 憑證檢查排程（含秒），空字串使用預設每 5 分鐘
	CredentialCheck string `mapstructure:"CREDENTIAL_CHECK" json:"credential_check" yaml:"credential_check"`
}
