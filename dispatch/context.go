package dispatch

import (
	"context"

	"go.uber.org/zap"

	"github.com/BaSui01/synax/provider"
	"github.com/BaSui01/synax/types"
)

// Context is the per-call record threaded through a dispatch.
// State is scratch space owned by the active strategy.
type Context struct {
	RequestID     string
	GroupID       string
	Strategy      string
	Capability    types.Capability
	RequiredModel string
	State         map[string]any
	Logger        *zap.Logger
	Metrics       Metrics
}

func (dc *Context) logger() *zap.Logger {
	if dc == nil || dc.Logger == nil {
		return zap.NewNop()
	}
	return dc.Logger
}

func (dc *Context) set(key string, v any) {
	if dc.State == nil {
		dc.State = make(map[string]any)
	}
	dc.State[key] = v
}

func (dc *Context) record(a Attempt) {
	if dc == nil || dc.Metrics == nil {
		return
	}
	a.RequestID = dc.RequestID
	a.GroupID = dc.GroupID
	a.Capability = dc.Capability
	dc.Metrics.RecordAttempt(a)
}

// Candidate pairs a group member with its live provider.
type Candidate struct {
	Provider *provider.Provider
	// Model is the pinned model; it restricts the member to exactly one model.
	Model        string
	DefaultModel string
	Options      map[string]any
}

// ProviderID returns the id of the underlying provider.
func (c Candidate) ProviderID() string {
	if c.Provider == nil {
		return ""
	}
	return c.Provider.ID
}

// EffectiveModel picks the model to send for an attempt:
// the required model, then the pinned model, then the default model.
func (c Candidate) EffectiveModel(required string) string {
	switch {
	case required != "":
		return required
	case c.Model != "":
		return c.Model
	default:
		return c.DefaultModel
	}
}

// Execute invokes one capability call against a provider/model pair.
type Execute func(ctx context.Context, p *provider.Provider, model string) (any, error)

// StreamExecute opens a chunk stream against a provider/model pair.
type StreamExecute func(ctx context.Context, p *provider.Provider, model string) (<-chan Chunk, error)

// Chunk is one element of a type-erased stream. Err marks a failure;
// the producer closes the channel after it.
type Chunk struct {
	Value any
	Err   error
}

// Dispatcher is a pluggable execution strategy.
type Dispatcher interface {
	Dispatch(ctx context.Context, dc *Context, candidates []Candidate, exec Execute) (any, error)
	DispatchStream(ctx context.Context, dc *Context, candidates []Candidate, exec StreamExecute) <-chan Chunk
}
