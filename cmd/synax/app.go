package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"

	"github.com/BaSui01/synax"
	"github.com/BaSui01/synax/config"
	"github.com/BaSui01/synax/dispatch"
	"github.com/BaSui01/synax/internal/cache"
	"github.com/BaSui01/synax/internal/database"
	"github.com/BaSui01/synax/internal/metrics"
	"github.com/BaSui01/synax/internal/telemetry"
	"github.com/BaSui01/synax/observability"
	"github.com/BaSui01/synax/store"
)

// app 持有进程级依赖，close 按创建的逆序释放
type app struct {
	cfg       *config.Config
	logger    *zap.Logger
	synax     *synax.Synax
	registry  *prometheus.Registry
	collector *metrics.Collector
	telemetry *telemetry.Providers
	cache     *cache.Manager
	db        *database.PoolManager
}

// buildApp 按配置组装：遥测 → 指标 → Redis 游标 → 路由 → 数据库分组
func buildApp(ctx context.Context, cfg *config.Config, logger *zap.Logger) (_ *app, err error) {
	a := &app{cfg: cfg, logger: logger, registry: prometheus.NewRegistry()}
	defer func() {
		if err != nil {
			a.close(context.Background())
		}
	}()

	a.telemetry, err = telemetry.Init(cfg.Telemetry, logger)
	if err != nil {
		return nil, fmt.Errorf("init telemetry: %w", err)
	}

	a.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	var sinks []dispatch.Metrics
	if cfg.Metrics.Enabled {
		a.collector = metrics.NewCollector(metrics.Options{
			Namespace:    cfg.Metrics.Namespace,
			Registerer:   a.registry,
			Window:       cfg.Metrics.Window,
			MaxErrorRate: cfg.Metrics.MaxErrorRate,
			MinSamples:   cfg.Metrics.MinSamples,
		}, logger)
		// 健康查询由首个 sink 回答
		sinks = append(sinks, a.collector)
	}
	if a.telemetry.Enabled() {
		otelMetrics, err := observability.NewMetrics(a.telemetry.MeterProvider())
		if err != nil {
			return nil, fmt.Errorf("init otel metrics: %w", err)
		}
		sinks = append(sinks, otelMetrics)
	}

	var cursor dispatch.Cursor
	if cfg.Redis.Enabled {
		a.cache, err = cache.NewManager(cache.Config{
			Addr:                cfg.Redis.Addr,
			Password:            cfg.Redis.Password,
			DB:                  cfg.Redis.DB,
			KeyPrefix:           cfg.Redis.KeyPrefix,
			CursorTTL:           cfg.Redis.CursorTTL,
			PoolSize:            cfg.Redis.PoolSize,
			MinIdleConns:        cfg.Redis.MinIdleConns,
			HealthCheckInterval: cache.DefaultConfig().HealthCheckInterval,
			TLS:                 cfg.Redis.TLS,
		}, logger)
		if err != nil {
			return nil, fmt.Errorf("init redis cursor: %w", err)
		}
		cursor = a.cache
	}

	a.synax, err = synax.FromConfig(ctx, cfg.Routing, synax.Options{
		Logger:  logger,
		Metrics: dispatch.CombineMetrics(sinks...),
		Tracer:  a.telemetry.Tracer(),
		Cursor:  cursor,
	})
	if err != nil {
		return nil, fmt.Errorf("build routing: %w", err)
	}

	if cfg.Database.Enabled {
		a.db, err = database.Open(cfg.Database, logger)
		if err != nil {
			return nil, err
		}
		groups := store.NewGroupStore(a.db.DB(), logger)
		if err := groups.Migrate(ctx); err != nil {
			return nil, err
		}
		n, err := a.synax.LoadGroups(ctx, groups)
		if err != nil {
			return nil, fmt.Errorf("load stored groups: %w", err)
		}
		logger.Info("stored groups loaded", zap.Int("groups", n))
	}

	return a, nil
}

// ready 检查外部依赖
func (a *app) ready(ctx context.Context) error {
	var errs []error
	if a.cache != nil {
		if err := a.cache.Ping(ctx); err != nil {
			errs = append(errs, fmt.Errorf("redis: %w", err))
		}
	}
	if a.db != nil {
		if err := a.db.Ping(ctx); err != nil {
			errs = append(errs, fmt.Errorf("database: %w", err))
		}
	}
	return errors.Join(errs...)
}

func (a *app) close(ctx context.Context) {
	if a.db != nil {
		if err := a.db.Close(); err != nil {
			a.logger.Error("database close error", zap.Error(err))
		}
	}
	if a.cache != nil {
		if err := a.cache.Close(); err != nil {
			a.logger.Error("redis close error", zap.Error(err))
		}
	}
	if err := a.telemetry.Shutdown(ctx); err != nil {
		a.logger.Error("telemetry shutdown error", zap.Error(err))
	}
}
