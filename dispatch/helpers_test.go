package dispatch

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/BaSui01/synax/provider"
)

func candidates(ids ...string) []Candidate {
	out := make([]Candidate, 0, len(ids))
	for _, id := range ids {
		out = append(out, Candidate{Provider: &provider.Provider{ID: id}, Model: id + "-model"})
	}
	return out
}

// scriptedExec fails for providers listed in failing and returns "ok:<id>"
// otherwise. Calls are recorded in order.
type scriptedExec struct {
	mu      sync.Mutex
	failing map[string]error
	calls   []string
}

func newScriptedExec(failing ...string) *scriptedExec {
	s := &scriptedExec{failing: make(map[string]error)}
	for _, id := range failing {
		s.failing[id] = errors.New(id + " down")
	}
	return s
}

func (s *scriptedExec) exec(_ context.Context, p *provider.Provider, model string) (any, error) {
	s.mu.Lock()
	s.calls = append(s.calls, p.ID+"|"+model)
	s.mu.Unlock()
	if err, ok := s.failing[p.ID]; ok {
		return nil, err
	}
	return "ok:" + p.ID, nil
}

func (s *scriptedExec) callCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.calls)
}

// chunkStream emits values then, if err is non-nil, an error chunk.
func chunkStream(err error, values ...any) <-chan Chunk {
	ch := make(chan Chunk, len(values)+1)
	for _, v := range values {
		ch <- Chunk{Value: v}
	}
	if err != nil {
		ch <- Chunk{Err: err}
	}
	close(ch)
	return ch
}

type fakeMetrics struct {
	mu        sync.Mutex
	attempts  []Attempt
	unhealthy map[string]bool
}

func (f *fakeMetrics) RecordAttempt(a Attempt) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.attempts = append(f.attempts, a)
}

func (f *fakeMetrics) Latency(string) time.Duration { return 0 }
func (f *fakeMetrics) ErrorRate(string) float64     { return 0 }
func (f *fakeMetrics) IsHealthy(id string) bool     { return !f.unhealthy[id] }

func (f *fakeMetrics) recorded() []Attempt {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]Attempt(nil), f.attempts...)
}
