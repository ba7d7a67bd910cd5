package dispatch

import (
	"time"

	"github.com/BaSui01/synax/types"
)

// Attempt is the per-attempt record emitted to a Metrics sink.
type Attempt struct {
	RequestID  string
	GroupID    string
	Capability types.Capability
	ProviderID string
	Model      string
	Index      int
	// Concurrent marks attempts started side by side (race); Index is then
	// the candidate position, not a retry sequence.
	Concurrent bool
	Latency    time.Duration
	Err        error
}

// Success reports whether the attempt succeeded.
func (a Attempt) Success() bool { return a.Err == nil }

// Fallback reports whether the attempt only ran because earlier ones failed.
func (a Attempt) Fallback() bool { return a.Index > 0 && !a.Concurrent }

// Metrics is the optional sink a dispatch reports to and strategies may query.
type Metrics interface {
	RecordAttempt(a Attempt)
	Latency(providerID string) time.Duration
	ErrorRate(providerID string) float64
	IsHealthy(providerID string) bool
}

// MultiMetrics fans attempts out to every sink. Health queries are answered
// by the first sink.
type MultiMetrics []Metrics

func (m MultiMetrics) RecordAttempt(a Attempt) {
	for _, s := range m {
		if s != nil {
			s.RecordAttempt(a)
		}
	}
}

func (m MultiMetrics) Latency(providerID string) time.Duration {
	if len(m) == 0 || m[0] == nil {
		return 0
	}
	return m[0].Latency(providerID)
}

func (m MultiMetrics) ErrorRate(providerID string) float64 {
	if len(m) == 0 || m[0] == nil {
		return 0
	}
	return m[0].ErrorRate(providerID)
}

func (m MultiMetrics) IsHealthy(providerID string) bool {
	if len(m) == 0 || m[0] == nil {
		return true
	}
	return m[0].IsHealthy(providerID)
}

// CombineMetrics drops nil sinks and returns nil, the single sink, or a
// MultiMetrics.
func CombineMetrics(sinks ...Metrics) Metrics {
	var out MultiMetrics
	for _, s := range sinks {
		if s != nil {
			out = append(out, s)
		}
	}
	switch len(out) {
	case 0:
		return nil
	case 1:
		return out[0]
	}
	return out
}
