package mocks

import (
	"context"

	"github.com/BaSui01/synax/provider"
)

// 以下函数适配器让测试用一个闭包即可实现单个能力接口。

type EmbedFunc func(ctx context.Context, req *provider.EmbeddingRequest) (*provider.EmbeddingResponse, error)

func (f EmbedFunc) Embed(ctx context.Context, req *provider.EmbeddingRequest) (*provider.EmbeddingResponse, error) {
	return f(ctx, req)
}

type ImageFunc func(ctx context.Context, req *provider.ImageRequest) (*provider.ImageResponse, error)

func (f ImageFunc) Generate(ctx context.Context, req *provider.ImageRequest) (*provider.ImageResponse, error) {
	return f(ctx, req)
}

type VideoFunc func(ctx context.Context, req *provider.VideoRequest) (*provider.VideoResponse, error)

func (f VideoFunc) Generate(ctx context.Context, req *provider.VideoRequest) (*provider.VideoResponse, error) {
	return f(ctx, req)
}

// MockSpeech implements provider.SpeechCapability with optional hooks.
// A nil hook returns an empty response echoing the model.
type MockSpeech struct {
	SynthesizeFunc       func(ctx context.Context, req *provider.SpeechRequest) (*provider.SpeechResponse, error)
	SynthesizeStreamFunc func(ctx context.Context, req *provider.SpeechRequest) (<-chan provider.AudioChunk, error)
	TranscribeFunc       func(ctx context.Context, req *provider.TranscriptionRequest) (*provider.TranscriptionResponse, error)
}

func (m *MockSpeech) Synthesize(ctx context.Context, req *provider.SpeechRequest) (*provider.SpeechResponse, error) {
	if m.SynthesizeFunc != nil {
		return m.SynthesizeFunc(ctx, req)
	}
	return &provider.SpeechResponse{Model: req.Model, Format: "mp3"}, nil
}

func (m *MockSpeech) SynthesizeStream(ctx context.Context, req *provider.SpeechRequest) (<-chan provider.AudioChunk, error) {
	if m.SynthesizeStreamFunc != nil {
		return m.SynthesizeStreamFunc(ctx, req)
	}
	ch := make(chan provider.AudioChunk, 1)
	ch <- provider.AudioChunk{Data: []byte(req.Model), Final: true}
	close(ch)
	return ch, nil
}

func (m *MockSpeech) Transcribe(ctx context.Context, req *provider.TranscriptionRequest) (*provider.TranscriptionResponse, error) {
	if m.TranscribeFunc != nil {
		return m.TranscribeFunc(ctx, req)
	}
	return &provider.TranscriptionResponse{Model: req.Model}, nil
}
