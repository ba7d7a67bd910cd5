package provider

import (
	"context"
	"time"
)

// ImageRequest 图像生成请求。
type ImageRequest struct {
	Prompt         string            `json:"prompt"`
	NegativePrompt string            `json:"negative_prompt,omitempty"`
	Model          string            `json:"model,omitempty"`
	N              int               `json:"n,omitempty"`
	Size           string            `json:"size,omitempty"`    // 1024x1024, 1792x1024, etc.
	Quality        string            `json:"quality,omitempty"` // standard, hd
	Style          string            `json:"style,omitempty"`
	ResponseFormat string            `json:"response_format,omitempty"` // url, b64_json
	Seed           int64             `json:"seed,omitempty"`
	Metadata       map[string]string `json:"metadata,omitempty"`
}

type ImageData struct {
	URL           string `json:"url,omitempty"`
	B64JSON       string `json:"b64_json,omitempty"`
	RevisedPrompt string `json:"revised_prompt,omitempty"`
}

type ImageResponse struct {
	Provider  string      `json:"provider"`
	Model     string      `json:"model"`
	Images    []ImageData `json:"images"`
	Cost      float64     `json:"cost,omitempty"`
	CreatedAt time.Time   `json:"created_at"`
}

type ImageCapability interface {
	Generate(ctx context.Context, req *ImageRequest) (*ImageResponse, error)
}
