package cache

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/BaSui01/synax/dispatch"
	"github.com/BaSui01/synax/provider"
)

// =============================================================================
// 🧪 Manager 测试
// =============================================================================

func setupTestRedis(t *testing.T) (*miniredis.Miniredis, *Manager) {
	mr, err := miniredis.Run()
	require.NoError(t, err)

	config := Config{
		Addr:      mr.Addr(),
		KeyPrefix: "test:",
		CursorTTL: time.Minute,
	}

	manager, err := NewManager(config, zap.NewNop())
	require.NoError(t, err)

	t.Cleanup(func() {
		_ = manager.Close()
		mr.Close()
	})
	return mr, manager
}

func TestManager_Next(t *testing.T) {
	mr, m := setupTestRedis(t)
	ctx := context.Background()

	for want := uint64(0); want < 3; want++ {
		n, err := m.Next(ctx, "chat:language")
		require.NoError(t, err)
		assert.Equal(t, want, n)
	}

	v, err := mr.Get("test:rr:chat:language")
	require.NoError(t, err)
	assert.Equal(t, "3", v)
	assert.Equal(t, time.Minute, mr.TTL("test:rr:chat:language"))

	require.NoError(t, m.Reset(ctx, "chat:language"))
	n, err := m.Next(ctx, "chat:language")
	require.NoError(t, err)
	assert.Equal(t, uint64(0), n)
}

func TestManager_ConnectFailure(t *testing.T) {
	_, err := NewManager(Config{Addr: "127.0.0.1:1"}, zap.NewNop())
	assert.Error(t, err)
}

func TestManager_TLSAgainstPlainServer(t *testing.T) {
	mr := miniredis.RunT(t)
	_, err := NewManager(Config{Addr: mr.Addr(), TLS: true, MaxRetries: -1}, zap.NewNop())
	assert.Error(t, err)
}

func TestManager_Closed(t *testing.T) {
	_, m := setupTestRedis(t)
	require.NoError(t, m.Close())
	require.NoError(t, m.Close())

	_, err := m.Next(context.Background(), "k")
	assert.Error(t, err)
	assert.Error(t, m.Ping(context.Background()))
}

func TestManager_RoundRobinAcrossInstances(t *testing.T) {
	mr, m1 := setupTestRedis(t)
	m2, err := NewManager(Config{Addr: mr.Addr(), KeyPrefix: "test:"}, zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = m2.Close() })

	cands := []dispatch.Candidate{
		{Provider: &provider.Provider{ID: "a"}, Model: "m"},
		{Provider: &provider.Provider{ID: "b"}, Model: "m"},
	}
	exec := func(_ context.Context, p *provider.Provider, _ string) (any, error) { return p.ID, nil }

	// two processes sharing one cursor alternate
	var got []any
	for i, rr := range []*dispatch.RoundRobin{dispatch.NewRoundRobin(m1), dispatch.NewRoundRobin(m2), dispatch.NewRoundRobin(m1)} {
		res, err := rr.Dispatch(context.Background(), &dispatch.Context{GroupID: "g"}, cands, exec)
		require.NoError(t, err, i)
		got = append(got, res)
	}
	assert.Equal(t, []any{"a", "b", "a"}, got)
}

func TestManager_ConcurrentNext(t *testing.T) {
	_, m := setupTestRedis(t)

	var wg sync.WaitGroup
	var mu sync.Mutex
	seen := make(map[uint64]bool)
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			n, err := m.Next(context.Background(), "k")
			assert.NoError(t, err)
			mu.Lock()
			seen[n] = true
			mu.Unlock()
		}()
	}
	wg.Wait()
	assert.Len(t, seen, 20)
}
