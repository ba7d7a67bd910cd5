package dispatch

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Race starts every candidate concurrently; the first success wins and the
// others are cancelled. Streams fall back to sequential failover so partial
// output is never interleaved.
type Race struct{}

func NewRace() *Race { return &Race{} }

func (r *Race) Dispatch(ctx context.Context, dc *Context, candidates []Candidate, exec Execute) (any, error) {
	log := dc.logger()

	type entry struct {
		c     Candidate
		model string
	}
	entries := make([]entry, 0, len(candidates))
	for _, c := range candidates {
		model := c.EffectiveModel(dc.RequiredModel)
		if model == "" {
			log.Warn("candidate has no effective model, skipping",
				zap.String("provider", c.ProviderID()))
			continue
		}
		entries = append(entries, entry{c: c, model: model})
	}
	if len(entries) == 0 {
		return nil, &AllCandidatesFailedError{}
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	errs := make([]error, len(entries))
	g, gctx := errgroup.WithContext(ctx)

	var (
		winOnce sync.Once
		winner  any
		won     bool
		decided atomic.Bool
	)

	for i, e := range entries {
		g.Go(func() error {
			log.Info("dispatch race attempt",
				zap.String("provider", e.c.ProviderID()),
				zap.String("model", e.model),
				zap.Int("attempt", i))

			start := time.Now()
			result, err := exec(gctx, e.c.Provider, e.model)
			if err != nil && decided.Load() {
				// Cancelled by the winner; says nothing about this provider's health.
				log.Debug("dispatch race attempt cancelled",
					zap.String("provider", e.c.ProviderID()),
					zap.Int("attempt", i))
				return nil
			}
			dc.record(Attempt{ProviderID: e.c.ProviderID(), Model: e.model, Index: i, Concurrent: true, Latency: time.Since(start), Err: err})
			if err != nil {
				errs[i] = err
				// Never fail the group; failures are collected per candidate.
				return nil
			}
			winOnce.Do(func() {
				winner, won = result, true
				decided.Store(true)
				cancel()
			})
			return nil
		})
	}
	_ = g.Wait()

	if won {
		return winner, nil
	}

	failed := make([]CandidateError, 0, len(entries))
	for i, e := range entries {
		log.Warn("dispatch race attempt failed",
			zap.String("provider", e.c.ProviderID()),
			zap.String("model", e.model),
			zap.Int("attempt", i),
			zap.Error(errs[i]))
		failed = append(failed, CandidateError{ProviderID: e.c.ProviderID(), ModelID: e.model, Err: errs[i], AttemptIndex: i})
	}
	return nil, &AllCandidatesFailedError{Errors: failed}
}

func (r *Race) DispatchStream(ctx context.Context, dc *Context, candidates []Candidate, exec StreamExecute) <-chan Chunk {
	return streamSequential(ctx, dc, candidates, exec)
}
