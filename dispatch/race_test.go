package dispatch

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BaSui01/synax/provider"
)

func TestRace_FastestSuccessWins(t *testing.T) {
	delays := map[string]time.Duration{"slow": 500 * time.Millisecond, "fast": 5 * time.Millisecond}
	var cancelled atomic.Int32

	exec := func(ctx context.Context, p *provider.Provider, _ string) (any, error) {
		select {
		case <-time.After(delays[p.ID]):
			return p.ID, nil
		case <-ctx.Done():
			cancelled.Add(1)
			return nil, ctx.Err()
		}
	}

	start := time.Now()
	got, err := NewRace().Dispatch(context.Background(), &Context{}, candidates("slow", "fast"), exec)
	require.NoError(t, err)
	assert.Equal(t, "fast", got)
	assert.Less(t, time.Since(start), 400*time.Millisecond)
	assert.Equal(t, int32(1), cancelled.Load())
}

func TestRace_CancelledLoserNotRecorded(t *testing.T) {
	exec := func(ctx context.Context, p *provider.Provider, _ string) (any, error) {
		if p.ID == "fast" {
			return p.ID, nil
		}
		<-ctx.Done()
		return nil, ctx.Err()
	}

	m := &fakeMetrics{}
	got, err := NewRace().Dispatch(context.Background(), &Context{Metrics: m}, candidates("slow", "fast"), exec)
	require.NoError(t, err)
	assert.Equal(t, "fast", got)

	attempts := m.recorded()
	require.Len(t, attempts, 1)
	assert.Equal(t, "fast", attempts[0].ProviderID)
	assert.True(t, attempts[0].Concurrent)
	assert.Equal(t, 1, attempts[0].Index)
	assert.False(t, attempts[0].Fallback())
}

func TestRace_GenuineFailuresRecorded(t *testing.T) {
	m := &fakeMetrics{}
	_, err := NewRace().Dispatch(context.Background(), &Context{Metrics: m}, candidates("a", "b"), newScriptedExec("a", "b").exec)
	require.Error(t, err)

	attempts := m.recorded()
	require.Len(t, attempts, 2)
	for _, a := range attempts {
		assert.Error(t, a.Err)
		assert.True(t, a.Concurrent)
	}
}

func TestRace_AllFailedOrderedByCandidate(t *testing.T) {
	exec := func(_ context.Context, p *provider.Provider, _ string) (any, error) {
		if p.ID == "a" {
			time.Sleep(20 * time.Millisecond)
		}
		return nil, errors.New(p.ID)
	}

	_, err := NewRace().Dispatch(context.Background(), &Context{}, candidates("a", "b", "c"), exec)
	var all *AllCandidatesFailedError
	require.ErrorAs(t, err, &all)
	require.Len(t, all.Errors, 3)
	for i, id := range []string{"a", "b", "c"} {
		assert.Equal(t, id, all.Errors[i].ProviderID)
		assert.Equal(t, i, all.Errors[i].AttemptIndex)
		assert.EqualError(t, all.Errors[i].Err, id)
	}
}

func TestRace_NoEligibleCandidates(t *testing.T) {
	cands := []Candidate{{Provider: &provider.Provider{ID: "bare"}}}
	_, err := NewRace().Dispatch(context.Background(), &Context{}, cands, newScriptedExec().exec)

	var all *AllCandidatesFailedError
	require.ErrorAs(t, err, &all)
	assert.Empty(t, all.Errors)
}

func TestRace_StreamUsesSequentialFailover(t *testing.T) {
	var opened []string
	exec := func(_ context.Context, p *provider.Provider, _ string) (<-chan Chunk, error) {
		opened = append(opened, p.ID)
		if p.ID == "a" {
			return nil, errors.New("no")
		}
		return chunkStream(nil, p.ID), nil
	}

	vals, err := Collect(NewRace().DispatchStream(context.Background(), &Context{}, candidates("a", "b", "c"), exec))
	require.NoError(t, err)
	assert.Equal(t, []any{"b"}, vals)
	assert.Equal(t, []string{"a", "b"}, opened)
}
