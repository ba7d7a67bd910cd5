package client

import (
	"context"

	"github.com/BaSui01/synax/provider"
	"github.com/BaSui01/synax/types"
)

// LanguageClient routes text generation calls.
type LanguageClient struct {
	runner    Runner
	providers ProviderLister
}

func NewLanguageClient(runner Runner, providers ProviderLister) *LanguageClient {
	return &LanguageClient{runner: runner, providers: providers}
}

// Generate dispatches a unary generation for modelID.
func (c *LanguageClient) Generate(ctx context.Context, modelID string, req *provider.LanguageRequest) (*provider.LanguageResponse, error) {
	return call(ctx, c.runner, modelID, types.CapabilityLanguage,
		func(ctx context.Context, p *provider.Provider, model string) (*provider.LanguageResponse, error) {
			if p.Language == nil {
				return nil, notSupported(p, types.CapabilityLanguage)
			}
			r := *req
			r.Model = model
			resp, err := p.Language.Generate(ctx, &r)
			if err == nil && resp != nil && resp.Provider == "" {
				resp.Provider = p.ID
			}
			return resp, err
		})
}

// Stream dispatches a streaming generation. A failure of every candidate
// arrives as a final chunk with Err set.
func (c *LanguageClient) Stream(ctx context.Context, modelID string, req *provider.LanguageRequest) (<-chan provider.LanguageStreamChunk, error) {
	return stream(ctx, c.runner, modelID, types.CapabilityLanguage,
		func(ctx context.Context, p *provider.Provider, model string) (<-chan provider.LanguageStreamChunk, error) {
			if p.Language == nil {
				return nil, notSupported(p, types.CapabilityLanguage)
			}
			r := *req
			r.Model = model
			return p.Language.Stream(ctx, &r)
		},
		func(ch provider.LanguageStreamChunk) error { return ch.Err },
		func(err error) provider.LanguageStreamChunk { return provider.LanguageStreamChunk{Err: err} })
}

// Models lists the language models declared by registered providers.
// Entries without a type count as language models.
func (c *LanguageClient) Models() []provider.ModelInfo {
	if c.providers == nil {
		return nil
	}
	var out []provider.ModelInfo
	for _, p := range c.providers.List() {
		if p.Language == nil {
			continue
		}
		for _, m := range p.Models {
			if m.Type == "" || m.Type == provider.ModelTypeLanguage {
				out = append(out, m)
			}
		}
	}
	return out
}
