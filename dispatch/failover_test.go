package dispatch

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BaSui01/synax/provider"
	"github.com/BaSui01/synax/types"
)

func TestFailover_FirstSuccessWins(t *testing.T) {
	s := newScriptedExec("p1")
	dc := &Context{RequestID: "r1", GroupID: "chat"}

	got, err := NewFailover().Dispatch(context.Background(), dc, candidates("p1", "p2", "p3"), s.exec)
	require.NoError(t, err)
	assert.Equal(t, "ok:p2", got)
	assert.Equal(t, []string{"p1|p1-model", "p2|p2-model"}, s.calls)
}

func TestFailover_AllFailed(t *testing.T) {
	s := newScriptedExec("p1", "p2", "p3")
	dc := &Context{}

	_, err := NewFailover().Dispatch(context.Background(), dc, candidates("p1", "p2", "p3"), s.exec)
	require.Error(t, err)

	var all *AllCandidatesFailedError
	require.True(t, errors.As(err, &all))
	require.Len(t, all.Errors, 3)
	for i, ce := range all.Errors {
		assert.Equal(t, i, ce.AttemptIndex)
		assert.Equal(t, []string{"p1", "p2", "p3"}[i], ce.ProviderID)
	}
	assert.Equal(t, types.ErrAllCandidatesFailed, types.GetErrorCode(err))
	assert.ErrorIs(t, err, s.failing["p2"])
	assert.Contains(t, err.Error(), "all 3 candidate(s) failed")
}

func TestFailover_ConcreteChatScenario(t *testing.T) {
	p1 := &provider.Provider{ID: "p1"}
	p2 := &provider.Provider{ID: "p2"}
	cands := []Candidate{{Provider: p1, Model: "gpt"}, {Provider: p2, Model: "claude"}}

	var models []string
	exec := func(_ context.Context, p *provider.Provider, model string) (any, error) {
		models = append(models, model)
		if p.ID == "p1" {
			return nil, errors.New("boom")
		}
		return map[string]bool{"ok": true}, nil
	}

	m := &fakeMetrics{}
	got, err := NewFailover().Dispatch(context.Background(), &Context{Metrics: m}, cands, exec)
	require.NoError(t, err)
	assert.Equal(t, map[string]bool{"ok": true}, got)
	assert.Equal(t, []string{"gpt", "claude"}, models)

	attempts := m.recorded()
	require.Len(t, attempts, 2)
	assert.Error(t, attempts[0].Err)
	assert.Equal(t, "p1", attempts[0].ProviderID)
	assert.True(t, attempts[1].Success())
}

func TestFailover_SkipsCandidateWithoutModel(t *testing.T) {
	cands := []Candidate{
		{Provider: &provider.Provider{ID: "bare"}},
		{Provider: &provider.Provider{ID: "p2"}, DefaultModel: "d"},
	}
	s := newScriptedExec("p2")

	_, err := NewFailover().Dispatch(context.Background(), &Context{}, cands, s.exec)
	var all *AllCandidatesFailedError
	require.ErrorAs(t, err, &all)
	require.Len(t, all.Errors, 1)
	assert.Equal(t, "p2", all.Errors[0].ProviderID)
	assert.Equal(t, 0, all.Errors[0].AttemptIndex)
	assert.Equal(t, []string{"p2|d"}, s.calls)
}

func TestFailover_RequiredModelOverridesPin(t *testing.T) {
	s := newScriptedExec()
	cands := []Candidate{{Provider: &provider.Provider{ID: "p"}, Model: "pinned", DefaultModel: "def"}}

	_, err := NewFailover().Dispatch(context.Background(), &Context{RequiredModel: "req"}, cands, s.exec)
	require.NoError(t, err)
	assert.Equal(t, []string{"p|req"}, s.calls)
}

func TestFailover_CancelledAttemptIsCandidateError(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	exec := func(ctx context.Context, p *provider.Provider, _ string) (any, error) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		return p.ID, nil
	}
	_, err := NewFailover().Dispatch(ctx, &Context{}, candidates("a", "b"), exec)

	var all *AllCandidatesFailedError
	require.ErrorAs(t, err, &all)
	assert.Len(t, all.Errors, 2)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestCandidate_EffectiveModel(t *testing.T) {
	tests := []struct {
		name     string
		c        Candidate
		required string
		want     string
	}{
		{"required wins", Candidate{Model: "pin", DefaultModel: "def"}, "req", "req"},
		{"pinned over default", Candidate{Model: "pin", DefaultModel: "def"}, "", "pin"},
		{"default", Candidate{DefaultModel: "def"}, "", "def"},
		{"none", Candidate{}, "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.c.EffectiveModel(tt.required))
		})
	}
}
