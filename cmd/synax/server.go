package main

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/BaSui01/synax/catalog"
	"github.com/BaSui01/synax/internal/server"
)

// modelList 是 /v1/models 的响应体
type modelList struct {
	Object string          `json:"object"`
	Data   []catalog.Entry `json:"data"`
}

// newHandler 组装路由与中间件链
func newHandler(ctx context.Context, a *app) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	mux.HandleFunc("GET /ready", func(w http.ResponseWriter, r *http.Request) {
		rctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
		defer cancel()
		if err := a.ready(rctx); err != nil {
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable", "error": err.Error()})
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
	})
	mux.HandleFunc("GET /version", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{
			"version":    Version,
			"build_time": BuildTime,
			"git_commit": GitCommit,
		})
	})
	mux.HandleFunc("GET /v1/models", func(w http.ResponseWriter, r *http.Request) {
		entries := a.synax.ListModels()
		if entries == nil {
			entries = []catalog.Entry{}
		}
		writeJSON(w, http.StatusOK, modelList{Object: "list", Data: entries})
	})
	mux.Handle("GET /metrics", promhttp.HandlerFor(a.registry, promhttp.HandlerOpts{}))

	chain := []Middleware{
		Recovery(a.logger),
		RequestID(),
		OTelTracing(),
		RequestLogger(a.logger),
	}
	if a.collector != nil {
		chain = append(chain, MetricsMiddleware(a.collector))
	}
	chain = append(chain, RateLimiter(ctx, a.cfg.Server.RateLimitRPS, a.cfg.Server.RateLimitBurst, a.logger))

	return Chain(mux, chain...)
}

// serve 阻塞运行 HTTP 服务直到 ctx 结束
func serve(ctx context.Context, a *app) error {
	handlerCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	m := server.NewManager(newHandler(handlerCtx, a), server.ConfigFrom(a.cfg.Server), a.logger)
	a.logger.Info("serving",
		zap.Int("http_port", a.cfg.Server.HTTPPort),
		zap.Int("groups", len(a.synax.ListGroups())),
		zap.Int("providers", len(a.synax.ListProviders())))
	return m.Run(ctx)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
