package provider

import (
	"context"
	"time"
)

// VideoRequest represents a video generation request.
type VideoRequest struct {
	Prompt         string            `json:"prompt"`
	NegativePrompt string            `json:"negative_prompt,omitempty"`
	Model          string            `json:"model,omitempty"`
	Duration       float64           `json:"duration,omitempty"`     // seconds
	AspectRatio    string            `json:"aspect_ratio,omitempty"` // 16:9, 9:16, 1:1
	Resolution     string            `json:"resolution,omitempty"`   // 720p, 1080p
	FPS            int               `json:"fps,omitempty"`
	Seed           int64             `json:"seed,omitempty"`
	ImageURL       string            `json:"image_url,omitempty"` // image-to-video
	ResponseFormat string            `json:"response_format,omitempty"`
	Metadata       map[string]string `json:"metadata,omitempty"`
}

type VideoData struct {
	URL      string  `json:"url,omitempty"`
	B64JSON  string  `json:"b64_json,omitempty"`
	Duration float64 `json:"duration,omitempty"`
	Width    int     `json:"width,omitempty"`
	Height   int     `json:"height,omitempty"`
}

type VideoResponse struct {
	Provider  string      `json:"provider"`
	Model     string      `json:"model"`
	Videos    []VideoData `json:"videos"`
	Cost      float64     `json:"cost,omitempty"`
	CreatedAt time.Time   `json:"created_at"`
}

type VideoCapability interface {
	Generate(ctx context.Context, req *VideoRequest) (*VideoResponse, error)
}
