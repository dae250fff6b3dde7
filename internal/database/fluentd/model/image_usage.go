package model

// ImageUsageLog 每次成功生成的圖片用量
type ImageUsageLog struct {
	RequestID      string  `json:"request_id"`
	UserEmail      string  `json:"user_email,omitempty"`
	ProjectName    string  `json:"project_name,omitempty"`
	Mode           string  `json:"mode"`
	Model          string  `json:"model"`
	Endpoint       string  `json:"endpoint"`
	AspectRatio    string  `json:"aspect_ratio,omitempty"`
	NumberOfImages int     `json:"number_of_images"`
	ImageCount     int     `json:"image_count"`
	Translated     bool    `json:"prompt_translated"`
	UpstreamMs     float64 `json:"upstream_ms"`
	Version        string  `json:"version"`
	LoggedAt       string  `json:"logged_at"`
}
