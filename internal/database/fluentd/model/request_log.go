package model

type RequestLog struct {
	RequestID   string `json:"request_id"`
	Path        string `json:"path"`
	Method      string `json:"method"`
	ProjectName string `json:"project_name,omitempty"`
	UserEmail   string `json:"user_email,omitempty"`
	// 已截斷並遮蔽圖片內容
	Body      string `json:"body,omitempty"`
	IPHash    string `json:"ip_hash,omitempty"`
	UserAgent string `json:"user_agent,omitempty"`
	Version   string `json:"version,omitempty"`
	RequestTS string `json:"request_ts"`
	LoggedAt  string `json:"logged_at"`
}
