package metrics

import (
	"sync"
	"time"
)

// window is a fixed-size ring of recent attempt outcomes for one provider.
type window struct {
	mu        sync.Mutex
	latencies []time.Duration
	failed    []bool
	next      int
	filled    int
}

func newWindow(n int) *window {
	return &window{latencies: make([]time.Duration, n), failed: make([]bool, n)}
}

func (w *window) add(latency time.Duration, failed bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.latencies[w.next] = latency
	w.failed[w.next] = failed
	w.next = (w.next + 1) % len(w.latencies)
	if w.filled < len(w.latencies) {
		w.filled++
	}
}

func (w *window) size() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.filled
}

func (w *window) errorRate() float64 {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.filled == 0 {
		return 0
	}
	n := 0
	for i := 0; i < w.filled; i++ {
		if w.failed[i] {
			n++
		}
	}
	return float64(n) / float64(w.filled)
}

func (w *window) avgLatency() time.Duration {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.filled == 0 {
		return 0
	}
	var sum time.Duration
	for i := 0; i < w.filled; i++ {
		sum += w.latencies[i]
	}
	return sum / time.Duration(w.filled)
}
