package envreport

import (
	"time"

	"imagen-gateway/config"
)

// EnvStatus 只記錄是否設定與長度或前綴
type EnvStatus struct {
	Set    bool   `json:"set"`
	Prefix string `json:"prefix,omitempty"`
	Length int    `json:"length,omitempty"`
}

type Report struct {
	Environment string               `json:"environment"`
	Timestamp   string               `json:"timestamp"`
	EnvStatus   map[string]any       `json:"envStatus"`
	Config      map[string]EnvStatus `json:"config"`
}

// Build lookup 通常為 os.LookupEnv
func Build(conf *config.Configuration, lookup func(string) (string, bool), now time.Time) Report {
	get := func(k string) string {
		v, _ := lookup(k)
		return v
	}
	env := conf.App.Env
	if env == "" {
		env = "unknown"
	}
	nullable := func(v string) any {
		if v == "" {
			return nil
		}
		return v
	}
	return Report{
		Environment: env,
		Timestamp:   now.UTC().Format("2006-01-02T15:04:05.000Z07:00"),
		EnvStatus: map[string]any{
			"authGoogleId":      prefixStatus(get("AUTH_GOOGLE_ID"), 20),
			"authGoogleSecret":  lengthStatus(get("AUTH_GOOGLE_SECRET")),
			"authSecret":        lengthStatus(get("AUTH_SECRET")),
			"googleProjectId":   nullable(get("GOOGLE_PROJECT_ID")),
			"googleLocation":    nullable(get("GOOGLE_LOCATION")),
			"googleCredentials": lengthStatus(get("GOOGLE_CREDENTIALS")),
			"nodeEnv":           conf.App.Env,
		},
		Config: map[string]EnvStatus{
			"GOOGLE__PROJECT_ID":  prefixStatus(conf.Google.ProjectID, 64),
			"GOOGLE__LOCATION":    prefixStatus(conf.Google.Location, 64),
			"GOOGLE__CREDENTIALS": lengthStatus(conf.Google.Credentials),
			"AUTH__SECRET":        lengthStatus(conf.Auth.Secret),
		},
	}
}

func prefixStatus(v string, n int) EnvStatus {
	if v == "" {
		return EnvStatus{}
	}
	r := []rune(v)
	if len(r) > n {
		return EnvStatus{Set: true, Prefix: string(r[:n]) + "..."}
	}
	return EnvStatus{Set: true, Prefix: v}
}

func lengthStatus(v string) EnvStatus {
	if v == "" {
		return EnvStatus{}
	}
	return EnvStatus{Set: true, Length: len(v)}
}
