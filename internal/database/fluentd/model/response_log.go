package model

type ResponseLog struct {
	RequestID   string  `json:"request_id"`
	ProjectName string  `json:"project_name,omitempty"`
	Path        string  `json:"path,omitempty"`
	Code        int     `json:"code"`
	StatusCode  int     `json:"status_code"`
	Error       string  `json:"error,omitempty"`
	DurationMs  float64 `json:"duration_ms"`
	Version     string  `json:"version,omitempty"`
	ResponseTS  string  `json:"response_ts"`
	LoggedAt    string  `json:"logged_at"`
}
