package dispatch

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHealthAware_UnhealthyAttemptedLast(t *testing.T) {
	m := &fakeMetrics{unhealthy: map[string]bool{"a": true, "c": true}}
	s := newScriptedExec("b", "d")

	res, err := NewHealthAware().Dispatch(context.Background(), &Context{Metrics: m}, candidates("a", "b", "c", "d"), s.exec)
	require.NoError(t, err)
	assert.Equal(t, "ok:a", res)
	assert.Equal(t, []string{"b|b-model", "d|d-model", "a|a-model"}, s.calls)
}

func TestHealthAware_WithoutMetricsKeepsOrder(t *testing.T) {
	s := newScriptedExec()
	res, err := NewHealthAware().Dispatch(context.Background(), &Context{}, candidates("a", "b"), s.exec)
	require.NoError(t, err)
	assert.Equal(t, "ok:a", res)
}

func TestMultiMetrics(t *testing.T) {
	first := &fakeMetrics{unhealthy: map[string]bool{"x": true}}
	second := &fakeMetrics{}

	m := CombineMetrics(nil, first, second)
	m.RecordAttempt(Attempt{ProviderID: "x"})

	assert.Len(t, first.recorded(), 1)
	assert.Len(t, second.recorded(), 1)
	assert.False(t, m.IsHealthy("x"))
	assert.Nil(t, CombineMetrics(nil, nil))
	assert.Same(t, first, CombineMetrics(first))
}
