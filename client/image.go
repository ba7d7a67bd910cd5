package client

import (
	"context"

	"github.com/BaSui01/synax/provider"
	"github.com/BaSui01/synax/types"
)

type ImageClient struct {
	runner Runner
}

func NewImageClient(runner Runner) *ImageClient {
	return &ImageClient{runner: runner}
}

func (c *ImageClient) Generate(ctx context.Context, modelID string, req *provider.ImageRequest) (*provider.ImageResponse, error) {
	return call(ctx, c.runner, modelID, types.CapabilityImage,
		func(ctx context.Context, p *provider.Provider, model string) (*provider.ImageResponse, error) {
			if p.Image == nil {
				return nil, notSupported(p, types.CapabilityImage)
			}
			r := *req
			r.Model = model
			return p.Image.Generate(ctx, &r)
		})
}
