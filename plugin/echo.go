package plugin

import (
	"context"
	"fmt"
	"time"

	"github.com/BaSui01/synax/provider"
)

// echoLanguage replies with the last user message, optionally prefixed.
// It lets a configuration be exercised end to end without a backend.
type echoLanguage struct {
	id     string
	prefix string
}

// NewEchoProvider is the factory behind builtin/echo.
// Options: "prefix" (string), "models" (list of model ids).
func NewEchoProvider(_ context.Context, fc FactoryContext) (*provider.Provider, error) {
	prefix, _ := fc.Options["prefix"].(string)
	p := &provider.Provider{
		ID:       fc.InstanceID,
		Name:     fc.InstanceID,
		Language: &echoLanguage{id: fc.InstanceID, prefix: prefix},
	}

	switch models := fc.Options["models"].(type) {
	case nil:
	case []any:
		for _, m := range models {
			id, ok := m.(string)
			if !ok {
				return nil, fmt.Errorf("echo: models entries must be strings, got %T", m)
			}
			p.Models = append(p.Models, provider.ModelInfo{
				ID:           id,
				Type:         provider.ModelTypeLanguage,
				OwnedBy:      "echo",
				Capabilities: provider.ModelCapabilities{Streaming: true},
			})
		}
	default:
		return nil, fmt.Errorf("echo: models must be a list, got %T", models)
	}
	return p, nil
}

func (e *echoLanguage) reply(req *provider.LanguageRequest) string {
	for i := len(req.Messages) - 1; i >= 0; i-- {
		if req.Messages[i].Role == provider.RoleUser {
			return e.prefix + req.Messages[i].Content
		}
	}
	return e.prefix
}

func (e *echoLanguage) Generate(ctx context.Context, req *provider.LanguageRequest) (*provider.LanguageResponse, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return &provider.LanguageResponse{
		Provider: e.id,
		Model:    req.Model,
		Choices: []provider.Choice{{
			FinishReason: "stop",
			Message:      provider.Message{Role: provider.RoleAssistant, Content: e.reply(req)},
		}},
		CreatedAt: time.Now(),
	}, nil
}

func (e *echoLanguage) Stream(ctx context.Context, req *provider.LanguageRequest) (<-chan provider.LanguageStreamChunk, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	ch := make(chan provider.LanguageStreamChunk, 1)
	ch <- provider.LanguageStreamChunk{
		Provider:     e.id,
		Model:        req.Model,
		Delta:        provider.Message{Role: provider.RoleAssistant, Content: e.reply(req)},
		FinishReason: "stop",
	}
	close(ch)
	return ch, nil
}
