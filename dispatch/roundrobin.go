package dispatch

import (
	"context"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"
)

// StateRoundRobinStart is the scratch key holding the rotation offset.
const StateRoundRobinStart = "round_robin.start"

// Cursor hands out per-key tickets starting at 0.
type Cursor interface {
	Next(ctx context.Context, key string) (uint64, error)
}

// MemoryCursor keeps one atomic counter per key in process memory.
type MemoryCursor struct {
	mu       sync.RWMutex
	counters map[string]*uint64
}

func NewMemoryCursor() *MemoryCursor {
	return &MemoryCursor{counters: make(map[string]*uint64)}
}

func (m *MemoryCursor) Next(_ context.Context, key string) (uint64, error) {
	return atomic.AddUint64(m.counter(key), 1) - 1, nil
}

func (m *MemoryCursor) counter(key string) *uint64 {
	m.mu.RLock()
	c, ok := m.counters[key]
	m.mu.RUnlock()
	if ok {
		return c
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if c, ok = m.counters[key]; ok {
		return c
	}
	c = new(uint64)
	m.counters[key] = c
	return c
}

// RoundRobin rotates the starting candidate per group, then fails over
// through the rotated list.
type RoundRobin struct {
	cursor Cursor
}

// NewRoundRobin creates a round-robin strategy. A nil cursor uses a
// MemoryCursor.
func NewRoundRobin(cursor Cursor) *RoundRobin {
	if cursor == nil {
		cursor = NewMemoryCursor()
	}
	return &RoundRobin{cursor: cursor}
}

func (r *RoundRobin) Dispatch(ctx context.Context, dc *Context, candidates []Candidate, exec Execute) (any, error) {
	return runSequential(ctx, dc, r.rotate(ctx, dc, candidates), exec)
}

func (r *RoundRobin) DispatchStream(ctx context.Context, dc *Context, candidates []Candidate, exec StreamExecute) <-chan Chunk {
	return streamSequential(ctx, dc, r.rotate(ctx, dc, candidates), exec)
}

func (r *RoundRobin) rotate(ctx context.Context, dc *Context, candidates []Candidate) []Candidate {
	start := 0
	if len(candidates) > 1 {
		n, err := r.cursor.Next(ctx, cursorKey(dc))
		if err != nil {
			dc.logger().Warn("round robin cursor failed, starting at first candidate", zap.Error(err))
		} else {
			start = int(n % uint64(len(candidates)))
		}
	}
	dc.set(StateRoundRobinStart, start)
	if start == 0 {
		return candidates
	}

	rotated := make([]Candidate, 0, len(candidates))
	rotated = append(rotated, candidates[start:]...)
	return append(rotated, candidates[:start]...)
}

func cursorKey(dc *Context) string {
	return dc.GroupID + ":" + string(dc.Capability)
}
