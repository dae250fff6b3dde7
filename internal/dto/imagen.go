package dto

import (
	"imagen-gateway/internal/pkg/request"
	"imagen-gateway/internal/service/images"
)

const (
	msgPromptRequired = "Prompt is required and must be a string"
	msgImageRequired  = "imageBase64 is required for image-to-image"
)

// 文字生圖
type GenerateImageDto struct {
	Prompt         string `json:"prompt" binding:"required" example:"一只在月球上的猫"`
	Model          string `json:"model,omitempty" example:"imagen-3.0-generate-001"`
	AspectRatio    string `json:"aspectRatio,omitempty" example:"1:1"`
	NumberOfImages *int   `json:"numberOfImages,omitempty" example:"1"`
	NegativePrompt string `json:"negativePrompt,omitempty"`
	Seed           *int64 `json:"seed,omitempty"`
}

func (d GenerateImageDto) GetMessages() request.ValidatorMessages {
	return request.ValidatorMessages{
		"Prompt.required":     msgPromptRequired,
		"prompt.type":         msgPromptRequired,
		"numberOfImages.type": "numberOfImages must be a number",
		"seed.type":           "seed must be a number",
	}
}

func (d GenerateImageDto) ToRequest() *images.GenerationRequest {
	return &images.GenerationRequest{
		Prompt:         d.Prompt,
		Model:          d.Model,
		AspectRatio:    d.AspectRatio,
		NumberOfImages: d.NumberOfImages,
		NegativePrompt: d.NegativePrompt,
		Seed:           d.Seed,
	}
}

// 以圖生圖，imageBase64 可帶 data URI 前綴
type ImageToImageDto struct {
	GenerateImageDto
	ImageBase64 string `json:"imageBase64" binding:"required"`
}

func (d ImageToImageDto) GetMessages() request.ValidatorMessages {
	m := d.GenerateImageDto.GetMessages()
	m["ImageBase64.required"] = msgImageRequired
	m["imageBase64.type"] = msgImageRequired
	return m
}

func (d ImageToImageDto) ToRequest() *images.GenerationRequest {
	req := d.GenerateImageDto.ToRequest()
	req.ImageBase64 = d.ImageBase64
	return req
}

type GenerationResponseDto struct {
	Images []string `json:"images" example:"data:image/png;base64,iVBORw0KGgo..."`
	Count  int      `json:"count" example:"1"`
	Model  string   `json:"model" example:"imagen-3.0-generate-001"`
}

type TestAuthGoogleDto struct {
	ProjectID         string `json:"projectId"`
	Location          string `json:"location"`
	HasCredentials    bool   `json:"hasCredentials"`
	AccessTokenPrefix string `json:"accessTokenPrefix"`
	CredentialsType   string `json:"credentialsType"`
	ClientEmail       string `json:"clientEmail"`
}

type TestAuthResponseDto struct {
	User   any               `json:"user"`
	Google TestAuthGoogleDto `json:"google"`
}
