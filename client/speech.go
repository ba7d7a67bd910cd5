package client

import (
	"context"

	"github.com/BaSui01/synax/provider"
	"github.com/BaSui01/synax/types"
)

// SpeechClient routes both synthesis and transcription calls.
type SpeechClient struct {
	runner Runner
}

func NewSpeechClient(runner Runner) *SpeechClient {
	return &SpeechClient{runner: runner}
}

func (c *SpeechClient) Synthesize(ctx context.Context, modelID string, req *provider.SpeechRequest) (*provider.SpeechResponse, error) {
	return call(ctx, c.runner, modelID, types.CapabilitySpeech,
		func(ctx context.Context, p *provider.Provider, model string) (*provider.SpeechResponse, error) {
			if p.Speech == nil {
				return nil, notSupported(p, types.CapabilitySpeech)
			}
			r := *req
			r.Model = model
			return p.Speech.Synthesize(ctx, &r)
		})
}

func (c *SpeechClient) SynthesizeStream(ctx context.Context, modelID string, req *provider.SpeechRequest) (<-chan provider.AudioChunk, error) {
	return stream(ctx, c.runner, modelID, types.CapabilitySpeech,
		func(ctx context.Context, p *provider.Provider, model string) (<-chan provider.AudioChunk, error) {
			if p.Speech == nil {
				return nil, notSupported(p, types.CapabilitySpeech)
			}
			r := *req
			r.Model = model
			return p.Speech.SynthesizeStream(ctx, &r)
		},
		func(ch provider.AudioChunk) error { return ch.Err },
		func(err error) provider.AudioChunk { return provider.AudioChunk{Err: err} })
}

func (c *SpeechClient) Transcribe(ctx context.Context, modelID string, req *provider.TranscriptionRequest) (*provider.TranscriptionResponse, error) {
	return call(ctx, c.runner, modelID, types.CapabilitySpeech,
		func(ctx context.Context, p *provider.Provider, model string) (*provider.TranscriptionResponse, error) {
			if p.Speech == nil {
				return nil, notSupported(p, types.CapabilitySpeech)
			}
			r := *req
			r.Model = model
			return p.Speech.Transcribe(ctx, &r)
		})
}
