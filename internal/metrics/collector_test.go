package metrics

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"github.com/BaSui01/synax/dispatch"
	"github.com/BaSui01/synax/provider"
	"github.com/BaSui01/synax/types"
)

func newTestCollector(opts Options) *Collector {
	opts.Namespace = "test"
	opts.Registerer = prometheus.NewRegistry()
	return NewCollector(opts, zap.NewNop())
}

// =============================================================================
// 🧪 Collector 测试
// =============================================================================

func TestCollector_RecordAttempt(t *testing.T) {
	c := newTestCollector(Options{})

	c.RecordAttempt(dispatch.Attempt{GroupID: "chat", Capability: types.CapabilityLanguage, ProviderID: "p1", Index: 0, Err: errors.New("x")})
	c.RecordAttempt(dispatch.Attempt{GroupID: "chat", Capability: types.CapabilityLanguage, ProviderID: "p2", Index: 1, Latency: time.Second})

	assert.Equal(t, 1.0, testutil.ToFloat64(c.attemptsTotal.WithLabelValues("language", "p1", "error")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.attemptsTotal.WithLabelValues("language", "p2", "success")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.failoversTotal.WithLabelValues("chat")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.providerHealthy.WithLabelValues("p2")))
	assert.Equal(t, 2, testutil.CollectAndCount(c.attemptDuration))
}

func TestCollector_Health(t *testing.T) {
	c := newTestCollector(Options{Window: 10, MaxErrorRate: 0.5, MinSamples: 4})

	assert.True(t, c.IsHealthy("unknown"))
	assert.Zero(t, c.ErrorRate("unknown"))

	for i := 0; i < 3; i++ {
		c.RecordAttempt(dispatch.Attempt{ProviderID: "p", Err: errors.New("x"), Latency: 10 * time.Millisecond})
	}
	// below MinSamples
	assert.True(t, c.IsHealthy("p"))

	c.RecordAttempt(dispatch.Attempt{ProviderID: "p", Latency: 30 * time.Millisecond})
	assert.InDelta(t, 0.75, c.ErrorRate("p"), 1e-9)
	assert.False(t, c.IsHealthy("p"))
	assert.Equal(t, 15*time.Millisecond, c.Latency("p"))
	assert.Equal(t, 0.0, testutil.ToFloat64(c.providerHealthy.WithLabelValues("p")))

	// the window slides: ten successes push every failure out
	for i := 0; i < 10; i++ {
		c.RecordAttempt(dispatch.Attempt{ProviderID: "p"})
	}
	assert.Zero(t, c.ErrorRate("p"))
	assert.True(t, c.IsHealthy("p"))
}

func TestCollector_RaceLosersStayHealthy(t *testing.T) {
	c := newTestCollector(Options{Window: 10, MaxErrorRate: 0.5, MinSamples: 2})

	exec := func(ctx context.Context, p *provider.Provider, _ string) (any, error) {
		if p.ID == "fast" {
			return "ok", nil
		}
		<-ctx.Done()
		return nil, ctx.Err()
	}
	cands := []dispatch.Candidate{
		{Provider: &provider.Provider{ID: "fast"}, Model: "m"},
		{Provider: &provider.Provider{ID: "slow"}, Model: "m"},
	}

	for i := 0; i < 5; i++ {
		dc := &dispatch.Context{GroupID: "chat", Capability: types.CapabilityLanguage, Metrics: c}
		got, err := dispatch.NewRace().Dispatch(context.Background(), dc, cands, exec)
		assert.NoError(t, err)
		assert.Equal(t, "ok", got)
	}

	assert.Zero(t, c.ErrorRate("slow"))
	assert.True(t, c.IsHealthy("slow"))
	assert.Equal(t, 5.0, testutil.ToFloat64(c.attemptsTotal.WithLabelValues("language", "fast", "success")))
	assert.Zero(t, testutil.CollectAndCount(c.failoversTotal))
}

func TestCollector_ConcurrentAttemptIsNotFailover(t *testing.T) {
	c := newTestCollector(Options{})

	c.RecordAttempt(dispatch.Attempt{GroupID: "chat", ProviderID: "p2", Index: 1, Concurrent: true})
	assert.Zero(t, testutil.CollectAndCount(c.failoversTotal))

	c.RecordAttempt(dispatch.Attempt{GroupID: "chat", ProviderID: "p2", Index: 1})
	assert.Equal(t, 1.0, testutil.ToFloat64(c.failoversTotal.WithLabelValues("chat")))
}

func TestCollector_RecordHTTPRequest(t *testing.T) {
	c := newTestCollector(Options{})

	c.RecordHTTPRequest("GET", "/health", 200, 100*time.Millisecond)
	c.RecordHTTPRequest("GET", "/health", 204, 50*time.Millisecond)

	assert.Equal(t, 2.0, testutil.ToFloat64(c.httpRequestsTotal.WithLabelValues("GET", "/health", "2xx")))
}

func TestStatusCode(t *testing.T) {
	assert.Equal(t, "2xx", statusCode(201))
	assert.Equal(t, "3xx", statusCode(304))
	assert.Equal(t, "4xx", statusCode(404))
	assert.Equal(t, "5xx", statusCode(502))
	assert.Equal(t, "100", statusCode(100))
}
