package dispatch

import (
	"context"

	"go.uber.org/zap"
)

// HealthAware moves candidates whose provider the metrics sink reports as
// unhealthy to the back of the list, then fails over in order.
type HealthAware struct{}

func NewHealthAware() *HealthAware { return &HealthAware{} }

func (h *HealthAware) Dispatch(ctx context.Context, dc *Context, candidates []Candidate, exec Execute) (any, error) {
	return runSequential(ctx, dc, h.reorder(dc, candidates), exec)
}

func (h *HealthAware) DispatchStream(ctx context.Context, dc *Context, candidates []Candidate, exec StreamExecute) <-chan Chunk {
	return streamSequential(ctx, dc, h.reorder(dc, candidates), exec)
}

func (h *HealthAware) reorder(dc *Context, candidates []Candidate) []Candidate {
	if dc.Metrics == nil {
		return candidates
	}
	healthy := make([]Candidate, 0, len(candidates))
	var unhealthy []Candidate
	for _, c := range candidates {
		if dc.Metrics.IsHealthy(c.ProviderID()) {
			healthy = append(healthy, c)
			continue
		}
		unhealthy = append(unhealthy, c)
	}
	if len(unhealthy) > 0 {
		dc.logger().Info("deprioritized unhealthy candidates", zap.Int("count", len(unhealthy)))
	}
	return append(healthy, unhealthy...)
}
