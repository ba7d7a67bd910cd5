package main

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BaSui01/synax/config"
	"github.com/BaSui01/synax/testutil"
)

const testConfigYAML = `
log:
  level: debug
server:
  http_port: 18080
  rate_limit_rps: 0
routing:
  providers:
    - id: e1
      use: builtin/echo
      options:
        models: [small]
  groups:
    - id: chat
      members:
        - provider: e1
          model: small
`

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "synax.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func newTestApp(t *testing.T, mutate func(*config.Config)) *app {
	t.Helper()
	cfg, err := loadConfig("serve", []string{"--config", writeConfig(t, testConfigYAML)})
	require.NoError(t, err)
	if mutate != nil {
		mutate(cfg)
	}

	a, err := buildApp(testutil.TestContext(t), cfg, testutil.TestLogger(t))
	require.NoError(t, err)
	t.Cleanup(func() { a.close(context.Background()) })
	return a
}

func get(t *testing.T, h http.Handler, path string) *httptest.ResponseRecorder {
	t.Helper()
	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
	return w
}

func TestHandler_Health(t *testing.T) {
	a := newTestApp(t, nil)
	h := newHandler(testutil.TestContext(t), a)

	w := get(t, h, "/health")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))

	w = get(t, h, "/ready")
	assert.Equal(t, http.StatusOK, w.Code)

	w = get(t, h, "/version")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), Version)
}

func TestHandler_Models(t *testing.T) {
	a := newTestApp(t, nil)
	h := newHandler(testutil.TestContext(t), a)

	w := get(t, h, "/v1/models")
	require.Equal(t, http.StatusOK, w.Code)

	var body modelList
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "list", body.Object)
	require.Len(t, body.Data, 2)
	assert.Equal(t, "chat", body.Data[0].ID)
	assert.Equal(t, "chat/small", body.Data[1].ID)
}

func TestHandler_Metrics(t *testing.T) {
	a := newTestApp(t, nil)
	h := newHandler(testutil.TestContext(t), a)

	get(t, h, "/health")
	w := get(t, h, "/metrics")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "synax_http_requests_total")
	assert.Contains(t, w.Body.String(), "go_goroutines")
}

func TestHandler_ReadyWithRedis(t *testing.T) {
	mr := miniredis.RunT(t)
	a := newTestApp(t, func(cfg *config.Config) {
		cfg.Redis.Enabled = true
		cfg.Redis.Addr = mr.Addr()
	})
	require.NotNil(t, a.cache)
	h := newHandler(testutil.TestContext(t), a)

	assert.Equal(t, http.StatusOK, get(t, h, "/ready").Code)

	mr.Close()
	w := get(t, h, "/ready")
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Contains(t, w.Body.String(), "redis")
}

func TestBuildApp_Database(t *testing.T) {
	a := newTestApp(t, func(cfg *config.Config) {
		cfg.Database.Enabled = true
		cfg.Database.Driver = "sqlite"
		cfg.Database.Name = filepath.Join(t.TempDir(), "synax.db")
	})
	require.NotNil(t, a.db)
	assert.NoError(t, a.ready(testutil.TestContext(t)))
	// 空库不影响配置中的分组
	assert.Len(t, a.synax.ListGroups(), 1)
}

func TestBuildApp_RedisUnavailable(t *testing.T) {
	cfg, err := loadConfig("serve", []string{"--config", writeConfig(t, testConfigYAML)})
	require.NoError(t, err)
	cfg.Redis.Enabled = true
	cfg.Redis.Addr = "127.0.0.1:1"

	_, err = buildApp(testutil.TestContext(t), cfg, testutil.TestLogger(t))
	assert.Error(t, err)
}

func TestRunValidate(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, runValidate([]string{"--config", writeConfig(t, testConfigYAML)}, &out))
	assert.Equal(t, "OK: 1 providers, 1 groups, 1 dispatchers\n", out.String())

	bad := `
routing:
  providers:
    - id: e1
      use: builtin/missing
`
	err := runValidate([]string{"--config", writeConfig(t, bad)}, &out)
	assert.Error(t, err)
}

func TestRunModels(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, runModels([]string{"--config", writeConfig(t, testConfigYAML)}, &out))
	assert.Contains(t, out.String(), `"id": "chat/small"`)
}

func TestInitLogger(t *testing.T) {
	logger := initLogger(config.LogConfig{Level: "nope", Format: "json"})
	require.NotNil(t, logger)
	assert.True(t, logger.Core().Enabled(0))

	logger = initLogger(config.LogConfig{Level: "warn", Format: "console", OutputPaths: []string{"stderr"}})
	assert.False(t, logger.Core().Enabled(0))
}
