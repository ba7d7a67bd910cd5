package dispatch

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// DefaultName is the registry name of the sequential failover strategy.
const DefaultName = "default"

// Failover tries candidates strictly in order, one at a time, and returns
// the first success.
type Failover struct{}

// NewFailover creates the default sequential failover strategy.
func NewFailover() *Failover { return &Failover{} }

func (f *Failover) Dispatch(ctx context.Context, dc *Context, candidates []Candidate, exec Execute) (any, error) {
	return runSequential(ctx, dc, candidates, exec)
}

func (f *Failover) DispatchStream(ctx context.Context, dc *Context, candidates []Candidate, exec StreamExecute) <-chan Chunk {
	return streamSequential(ctx, dc, candidates, exec)
}

// runSequential is the unary failover loop shared by the order-based strategies.
func runSequential(ctx context.Context, dc *Context, candidates []Candidate, exec Execute) (any, error) {
	log := dc.logger()
	var errs []CandidateError
	attempt := 0

	for _, c := range candidates {
		model := c.EffectiveModel(dc.RequiredModel)
		if model == "" {
			log.Warn("candidate has no effective model, skipping",
				zap.String("provider", c.ProviderID()))
			continue
		}
		idx := attempt
		attempt++

		log.Info("dispatch attempt",
			zap.String("provider", c.ProviderID()),
			zap.String("model", model),
			zap.Int("attempt", idx))

		start := time.Now()
		result, err := exec(ctx, c.Provider, model)
		dc.record(Attempt{ProviderID: c.ProviderID(), Model: model, Index: idx, Latency: time.Since(start), Err: err})
		if err == nil {
			return result, nil
		}

		log.Warn("dispatch attempt failed",
			zap.String("provider", c.ProviderID()),
			zap.String("model", model),
			zap.Int("attempt", idx),
			zap.Error(err))
		errs = append(errs, CandidateError{ProviderID: c.ProviderID(), ModelID: model, Err: err, AttemptIndex: idx})
	}

	return nil, &AllCandidatesFailedError{Errors: errs}
}

// streamSequential is the streaming twin of runSequential. A chunk with Err
// set fails the active candidate exactly like a synchronous error; chunks
// already forwarded stay delivered.
func streamSequential(ctx context.Context, dc *Context, candidates []Candidate, exec StreamExecute) <-chan Chunk {
	out := make(chan Chunk)

	go func() {
		defer close(out)

		log := dc.logger()
		var errs []CandidateError
		attempt := 0

		for _, c := range candidates {
			model := c.EffectiveModel(dc.RequiredModel)
			if model == "" {
				log.Warn("candidate has no effective model, skipping",
					zap.String("provider", c.ProviderID()))
				continue
			}
			idx := attempt
			attempt++

			log.Info("dispatch stream attempt",
				zap.String("provider", c.ProviderID()),
				zap.String("model", model),
				zap.Int("attempt", idx))

			start := time.Now()
			delivered := 0
			in, err := exec(ctx, c.Provider, model)
			if err == nil {
				delivered, err = forward(ctx, in, out)
			}
			dc.record(Attempt{ProviderID: c.ProviderID(), Model: model, Index: idx, Latency: time.Since(start), Err: err})
			if err == nil {
				return
			}

			log.Warn("dispatch stream attempt failed",
				zap.String("provider", c.ProviderID()),
				zap.String("model", model),
				zap.Int("attempt", idx),
				zap.Int("delivered_chunks", delivered),
				zap.Error(err))
			errs = append(errs, CandidateError{ProviderID: c.ProviderID(), ModelID: model, Err: err, AttemptIndex: idx})
		}

		send(ctx, out, Chunk{Err: &AllCandidatesFailedError{Errors: errs}})
	}()

	return out
}

// forward copies chunks from in to out until in closes (success) or yields
// an error chunk. It returns the number of chunks delivered.
func forward(ctx context.Context, in <-chan Chunk, out chan<- Chunk) (int, error) {
	n := 0
	for {
		select {
		case <-ctx.Done():
			return n, ctx.Err()
		case ch, ok := <-in:
			if !ok {
				return n, nil
			}
			if ch.Err != nil {
				return n, ch.Err
			}
			if !send(ctx, out, ch) {
				return n, ctx.Err()
			}
			n++
		}
	}
}

func send(ctx context.Context, out chan<- Chunk, ch Chunk) bool {
	select {
	case out <- ch:
		return true
	case <-ctx.Done():
		return false
	}
}
