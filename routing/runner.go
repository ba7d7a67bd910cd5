package routing

import (
	"context"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/BaSui01/synax/dispatch"
	"github.com/BaSui01/synax/internal/ctxkeys"
	"github.com/BaSui01/synax/provider"
	"github.com/BaSui01/synax/types"
)

const instrumentationName = "github.com/BaSui01/synax/routing"

// ProviderSource looks up live providers by id.
type ProviderSource interface {
	Get(id string) (*provider.Provider, bool)
}

// GroupSource looks up groups by id.
type GroupSource interface {
	Get(id string) (*Group, bool)
}

// DispatcherSource looks up strategies by name.
type DispatcherSource interface {
	Get(name string) (dispatch.Dispatcher, bool)
	Names() []string
}

// RunnerDeps are the collaborators of a Runner.
type RunnerDeps struct {
	Providers   ProviderSource
	Groups      GroupSource
	Dispatchers DispatcherSource
	Logger      *zap.Logger
	Metrics     dispatch.Metrics
	Tracer      trace.Tracer
}

// Runner resolves a model identifier to candidates and hands them to the
// selected strategy. It never mutates the registries it reads.
type Runner struct {
	providers   ProviderSource
	groups      GroupSource
	dispatchers DispatcherSource
	logger      *zap.Logger
	metrics     dispatch.Metrics
	tracer      trace.Tracer
}

// NewRunner creates a Runner.
func NewRunner(deps RunnerDeps) *Runner {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	tracer := deps.Tracer
	if tracer == nil {
		tracer = otel.Tracer(instrumentationName)
	}
	return &Runner{
		providers:   deps.Providers,
		groups:      deps.Groups,
		dispatchers: deps.Dispatchers,
		logger:      logger.With(zap.String("component", "runner")),
		metrics:     deps.Metrics,
		tracer:      tracer,
	}
}

type plan struct {
	dc         *dispatch.Context
	dispatcher dispatch.Dispatcher
	candidates []dispatch.Candidate
}

func (r *Runner) prepare(modelID string, capability types.Capability) (*plan, error) {
	group, mid, err := Resolve(modelID, r.groups)
	if err != nil {
		return nil, err
	}

	candidates := BuildCandidates(group, r.providers, r.logger)
	if len(candidates) == 0 {
		return nil, types.Errorf(types.ErrNoAvailableProviders, "no available providers in group %q", group.ID)
	}

	if mid.RequiredModel != "" {
		candidates = FilterByModel(candidates, mid.RequiredModel)
		if len(candidates) == 0 {
			return nil, types.Errorf(types.ErrNoProviderForModel, "no provider in group %q serves model %q", group.ID, mid.RequiredModel)
		}
	}

	name, d, err := r.selectDispatcher(group.Use)
	if err != nil {
		return nil, err
	}

	requestID := uuid.NewString()
	dc := &dispatch.Context{
		RequestID:     requestID,
		GroupID:       group.ID,
		Strategy:      name,
		Capability:    capability,
		RequiredModel: mid.RequiredModel,
		State:         make(map[string]any),
		Logger: r.logger.With(
			zap.String("request_id", requestID),
			zap.String("group", group.ID),
			zap.String("strategy", name)),
		Metrics: r.metrics,
	}
	return &plan{dc: dc, dispatcher: d, candidates: candidates}, nil
}

// selectDispatcher applies the selection rule: an explicit reference wins,
// otherwise a single registered strategy is used, otherwise the call fails.
func (r *Runner) selectDispatcher(use string) (string, dispatch.Dispatcher, error) {
	if use == "" {
		names := r.dispatchers.Names()
		if len(names) != 1 {
			return "", nil, types.Errorf(types.ErrDispatcherNotFound,
				"dispatcher %q not found: group declares none and %d are registered", use, len(names))
		}
		use = names[0]
	}
	d, ok := r.dispatchers.Get(use)
	if !ok || d == nil {
		return "", nil, types.Errorf(types.ErrDispatcherNotFound, "dispatcher %q not found", use)
	}
	return use, d, nil
}

func (r *Runner) startSpan(ctx context.Context, name, modelID string, capability types.Capability) (context.Context, trace.Span) {
	return r.tracer.Start(ctx, name, trace.WithAttributes(
		attribute.String("synax.model_id", modelID),
		attribute.String("synax.capability", string(capability)),
	))
}

func annotate(span trace.Span, dc *dispatch.Context) {
	span.SetAttributes(
		attribute.String("synax.request_id", dc.RequestID),
		attribute.String("synax.group", dc.GroupID),
		attribute.String("synax.strategy", dc.Strategy),
		attribute.String("synax.required_model", dc.RequiredModel),
	)
}

func fail(span trace.Span, err error) {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	if code := types.GetErrorCode(err); code != "" {
		span.SetAttributes(attribute.String("error.code", string(code)))
	}
}

// Dispatch runs a unary call for modelID.
func (r *Runner) Dispatch(ctx context.Context, modelID string, capability types.Capability, exec dispatch.Execute) (any, error) {
	ctx, span := r.startSpan(ctx, "synax.dispatch", modelID, capability)
	defer span.End()

	p, err := r.prepare(modelID, capability)
	if err != nil {
		fail(span, err)
		return nil, err
	}
	annotate(span, p.dc)
	ctx = ctxkeys.WithGroupID(ctxkeys.WithRequestID(ctx, p.dc.RequestID), p.dc.GroupID)

	r.logger.Info("dispatching",
		zap.String("request_id", p.dc.RequestID),
		zap.String("group", p.dc.GroupID),
		zap.String("strategy", p.dc.Strategy),
		zap.String("capability", string(capability)),
		zap.Int("candidates", len(p.candidates)))

	result, err := p.dispatcher.Dispatch(ctx, p.dc, p.candidates, exec)
	if err != nil {
		fail(span, err)
		return nil, err
	}
	span.SetStatus(codes.Ok, "")
	return result, nil
}

// DispatchStream runs a streaming call for modelID. Orchestration failures
// are returned directly; candidate failures arrive as the final chunk.
func (r *Runner) DispatchStream(ctx context.Context, modelID string, capability types.Capability, exec dispatch.StreamExecute) (<-chan dispatch.Chunk, error) {
	spanCtx, span := r.startSpan(ctx, "synax.dispatch_stream", modelID, capability)
	defer span.End()

	p, err := r.prepare(modelID, capability)
	if err != nil {
		fail(span, err)
		return nil, err
	}
	annotate(span, p.dc)

	// the stream outlives the span; keep its trace linkage but not its end
	ctx = trace.ContextWithSpanContext(ctx, trace.SpanContextFromContext(spanCtx))
	ctx = ctxkeys.WithGroupID(ctxkeys.WithRequestID(ctx, p.dc.RequestID), p.dc.GroupID)

	r.logger.Info("dispatching stream",
		zap.String("request_id", p.dc.RequestID),
		zap.String("group", p.dc.GroupID),
		zap.String("strategy", p.dc.Strategy),
		zap.String("capability", string(capability)),
		zap.Int("candidates", len(p.candidates)))

	return p.dispatcher.DispatchStream(ctx, p.dc, p.candidates, exec), nil
}
