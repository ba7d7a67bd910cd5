package provider

import (
	"context"
	"time"
)

// InputType 指定嵌入优化的输入类型.
type InputType string

const (
	InputTypeQuery      InputType = "query"
	InputTypeDocument   InputType = "document"
	InputTypeClassify   InputType = "classification"
	InputTypeClustering InputType = "clustering"
)

// EmbeddingRequest 表示生成嵌入的请求.
type EmbeddingRequest struct {
	Input          []string          `json:"input"`
	Model          string            `json:"model,omitempty"`
	Dimensions     int               `json:"dimensions,omitempty"`
	EncodingFormat string            `json:"encoding_format,omitempty"` // float or base64
	InputType      InputType         `json:"input_type,omitempty"`
	Metadata       map[string]string `json:"metadata,omitempty"`
}

type EmbeddingData struct {
	Index     int       `json:"index"`
	Embedding []float64 `json:"embedding"`
}

type EmbeddingUsage struct {
	PromptTokens int     `json:"prompt_tokens"`
	TotalTokens  int     `json:"total_tokens"`
	Cost         float64 `json:"cost,omitempty"`
}

// EmbeddingResponse 表示嵌入请求的响应.
type EmbeddingResponse struct {
	ID         string          `json:"id,omitempty"`
	Provider   string          `json:"provider"`
	Model      string          `json:"model"`
	Embeddings []EmbeddingData `json:"embeddings"`
	Usage      EmbeddingUsage  `json:"usage"`
	CreatedAt  time.Time       `json:"created_at,omitempty"`
}

type EmbeddingCapability interface {
	Embed(ctx context.Context, req *EmbeddingRequest) (*EmbeddingResponse, error)
}
