package images

import (
	"context"
	"time"
)

type Mode string

const (
	ModeTextToImage  Mode = "text-to-image"
	ModeImageToImage Mode = "image-to-image"
)

// GenerationRequest 由 handler 綁定並驗證後傳入；空字串欄位使用預設值
type GenerationRequest struct {
	Prompt         string `json:"prompt"`
	Model          string `json:"model,omitempty"`
	AspectRatio    string `json:"aspectRatio,omitempty"`
	NumberOfImages *int   `json:"numberOfImages,omitempty"`
	NegativePrompt string `json:"negativePrompt,omitempty"`
	Seed           *int64 `json:"seed,omitempty"`
	ImageBase64    string `json:"imageBase64,omitempty"`
}

// GenerationResult images 內為 data URI；無法辨識的 prediction 原樣保留
type GenerationResult struct {
	Images []any  `json:"images"`
	Count  int    `json:"count"`
	Model  string `json:"model"`

	Mode        Mode          `json:"-"`
	AspectRatio string        `json:"-"`
	Requested   int           `json:"-"`
	Translated  bool          `json:"-"`
	Upstream    time.Duration `json:"-"`
}

// ModelsResult GET /publishers/google/models 的結果
type ModelsResult struct {
	Project  string `json:"project"`
	Location string `json:"location"`
	Models   any    `json:"models"`
}

// Vertex AI :predict 請求與回應
type predictImage struct {
	BytesBase64Encoded string `json:"bytesBase64Encoded"`
}

type predictInstance struct {
	Prompt         string        `json:"prompt"`
	Image          *predictImage `json:"image,omitempty"`
	NegativePrompt string        `json:"negativePrompt,omitempty"`
}

type predictParameters struct {
	AspectRatio    string `json:"aspectRatio"`
	NumberOfImages int    `json:"numberOfImages"`
	Seed           *int64 `json:"seed,omitempty"`
}

type PredictRequest struct {
	Instances  []predictInstance `json:"instances"`
	Parameters predictParameters `json:"parameters"`
}

type PredictResponse struct {
	Predictions []any `json:"predictions"`
}

type Service interface {
	// 文字生圖
	Generate(ctx context.Context, req *GenerationRequest) (*GenerationResult, error)
	// 以輸入圖片為條件生成
	ImageToImage(ctx context.Context, req *GenerationRequest) (*GenerationResult, error)
	// 列出 publisher models，驗證憑證與連線
	ListModels(ctx context.Context) (*ModelsResult, error)
}
