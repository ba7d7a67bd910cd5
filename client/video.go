package client

import (
	"context"

	"github.com/BaSui01/synax/provider"
	"github.com/BaSui01/synax/types"
)

type VideoClient struct {
	runner Runner
}

func NewVideoClient(runner Runner) *VideoClient {
	return &VideoClient{runner: runner}
}

func (c *VideoClient) Generate(ctx context.Context, modelID string, req *provider.VideoRequest) (*provider.VideoResponse, error) {
	return call(ctx, c.runner, modelID, types.CapabilityVideo,
		func(ctx context.Context, p *provider.Provider, model string) (*provider.VideoResponse, error) {
			if p.Video == nil {
				return nil, notSupported(p, types.CapabilityVideo)
			}
			r := *req
			r.Model = model
			return p.Video.Generate(ctx, &r)
		})
}
