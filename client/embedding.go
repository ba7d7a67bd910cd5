package client

import (
	"context"

	"github.com/BaSui01/synax/provider"
	"github.com/BaSui01/synax/types"
)

type EmbeddingClient struct {
	runner Runner
}

func NewEmbeddingClient(runner Runner) *EmbeddingClient {
	return &EmbeddingClient{runner: runner}
}

func (c *EmbeddingClient) Embed(ctx context.Context, modelID string, req *provider.EmbeddingRequest) (*provider.EmbeddingResponse, error) {
	return call(ctx, c.runner, modelID, types.CapabilityEmbedding,
		func(ctx context.Context, p *provider.Provider, model string) (*provider.EmbeddingResponse, error) {
			if p.Embedding == nil {
				return nil, notSupported(p, types.CapabilityEmbedding)
			}
			r := *req
			r.Model = model
			return p.Embedding.Embed(ctx, &r)
		})
}
