package provider

import (
	"context"
	"time"
)

// SpeechRequest 文本转语音请求。
type SpeechRequest struct {
	Text           string            `json:"text"`
	Model          string            `json:"model,omitempty"`
	Voice          string            `json:"voice,omitempty"`
	Speed          float64           `json:"speed,omitempty"`           // 0.25-4.0
	ResponseFormat string            `json:"response_format,omitempty"` // mp3, opus, aac, flac, wav, pcm
	Language       string            `json:"language,omitempty"`
	Metadata       map[string]string `json:"metadata,omitempty"`
}

type SpeechResponse struct {
	Provider  string        `json:"provider"`
	Model     string        `json:"model"`
	Audio     []byte        `json:"audio,omitempty"`
	Format    string        `json:"format"`
	Duration  time.Duration `json:"duration,omitempty"`
	CreatedAt time.Time     `json:"created_at"`
}

// AudioChunk is one piece of streamed synthesized audio.
type AudioChunk struct {
	Data   []byte `json:"data,omitempty"`
	Format string `json:"format,omitempty"`
	Final  bool   `json:"final,omitempty"`
	Err    error  `json:"-"`
}

// TranscriptionRequest 语音转文本请求。
type TranscriptionRequest struct {
	Audio          []byte            `json:"-"`
	AudioURL       string            `json:"audio_url,omitempty"`
	Model          string            `json:"model,omitempty"`
	Language       string            `json:"language,omitempty"` // ISO-639-1
	Prompt         string            `json:"prompt,omitempty"`
	ResponseFormat string            `json:"response_format,omitempty"`
	Metadata       map[string]string `json:"metadata,omitempty"`
}

type Segment struct {
	ID    int           `json:"id"`
	Start time.Duration `json:"start"`
	End   time.Duration `json:"end"`
	Text  string        `json:"text"`
}

type TranscriptionResponse struct {
	Provider  string        `json:"provider"`
	Model     string        `json:"model"`
	Text      string        `json:"text"`
	Language  string        `json:"language,omitempty"`
	Duration  time.Duration `json:"duration,omitempty"`
	Segments  []Segment     `json:"segments,omitempty"`
	CreatedAt time.Time     `json:"created_at"`
}

// SpeechCapability covers both directions (TTS and STT).
type SpeechCapability interface {
	Synthesize(ctx context.Context, req *SpeechRequest) (*SpeechResponse, error)
	SynthesizeStream(ctx context.Context, req *SpeechRequest) (<-chan AudioChunk, error)
	Transcribe(ctx context.Context, req *TranscriptionRequest) (*TranscriptionResponse, error)
}
