// Package metrics provides internal metrics collection.
// This package is internal and should not be imported by external projects.
package metrics

import (
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.uber.org/zap"

	"github.com/BaSui01/synax/dispatch"
)

// =============================================================================
// 📊 指标收集器
// =============================================================================

// Options 收集器配置
type Options struct {
	Namespace  string
	Registerer prometheus.Registerer // nil 时使用 prometheus.DefaultRegisterer

	// 健康判定：最近 Window 次尝试中错误率 >= MaxErrorRate 视为不健康，
	// 样本数少于 MinSamples 时一律视为健康
	Window       int
	MaxErrorRate float64
	MinSamples   int
}

func (o *Options) applyDefaults() {
	if o.Registerer == nil {
		o.Registerer = prometheus.DefaultRegisterer
	}
	if o.Window <= 0 {
		o.Window = 50
	}
	if o.MaxErrorRate <= 0 {
		o.MaxErrorRate = 0.5
	}
	if o.MinSamples <= 0 {
		o.MinSamples = 5
	}
}

// Collector 指标收集器，同时实现 dispatch.Metrics
type Collector struct {
	// HTTP 指标
	httpRequestsTotal   *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	// 调度指标
	attemptsTotal   *prometheus.CounterVec
	attemptDuration *prometheus.HistogramVec
	failoversTotal  *prometheus.CounterVec
	providerHealthy *prometheus.GaugeVec

	opts   Options
	logger *zap.Logger

	mu     sync.RWMutex
	health map[string]*window
}

var _ dispatch.Metrics = (*Collector)(nil)

// NewCollector 创建指标收集器
func NewCollector(opts Options, logger *zap.Logger) *Collector {
	if logger == nil {
		logger = zap.NewNop()
	}
	opts.applyDefaults()
	factory := promauto.With(opts.Registerer)

	c := &Collector{
		opts:   opts,
		logger: logger.With(zap.String("component", "metrics")),
		health: make(map[string]*window),
	}

	// HTTP 指标
	c.httpRequestsTotal = factory.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: opts.Namespace,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	c.httpRequestDuration = factory.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: opts.Namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	// 调度指标
	c.attemptsTotal = factory.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: opts.Namespace,
			Name:      "dispatch_attempts_total",
			Help:      "Total number of candidate attempts",
		},
		[]string{"capability", "provider", "status"},
	)

	c.attemptDuration = factory.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: opts.Namespace,
			Name:      "dispatch_attempt_duration_seconds",
			Help:      "Candidate attempt duration in seconds",
			Buckets:   []float64{0.1, 0.5, 1, 2, 5, 10, 30, 60},
		},
		[]string{"capability", "provider"},
	)

	c.failoversTotal = factory.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: opts.Namespace,
			Name:      "dispatch_failovers_total",
			Help:      "Attempts made after the first candidate of a call",
		},
		[]string{"group"},
	)

	c.providerHealthy = factory.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: opts.Namespace,
			Name:      "provider_healthy",
			Help:      "1 when the provider is considered healthy",
		},
		[]string{"provider"},
	)

	return c
}

// =============================================================================
// 📝 记录方法
// =============================================================================

// RecordHTTPRequest 记录 HTTP 请求
func (c *Collector) RecordHTTPRequest(method, path string, status int, duration time.Duration) {
	c.httpRequestsTotal.WithLabelValues(method, path, statusCode(status)).Inc()
	c.httpRequestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
}

// RecordAttempt 记录一次候选尝试
func (c *Collector) RecordAttempt(a dispatch.Attempt) {
	status := "success"
	if a.Err != nil {
		status = "error"
	}
	capability := string(a.Capability)
	c.attemptsTotal.WithLabelValues(capability, a.ProviderID, status).Inc()
	c.attemptDuration.WithLabelValues(capability, a.ProviderID).Observe(a.Latency.Seconds())
	if a.Fallback() {
		c.failoversTotal.WithLabelValues(a.GroupID).Inc()
	}

	healthy := c.observe(a)
	v := 0.0
	if healthy {
		v = 1
	}
	c.providerHealthy.WithLabelValues(a.ProviderID).Set(v)
}

// =============================================================================
// 🩺 健康查询
// =============================================================================

// Latency 返回最近窗口内的平均延迟
func (c *Collector) Latency(providerID string) time.Duration {
	w := c.window(providerID)
	if w == nil {
		return 0
	}
	return w.avgLatency()
}

// ErrorRate 返回最近窗口内的错误率
func (c *Collector) ErrorRate(providerID string) float64 {
	w := c.window(providerID)
	if w == nil {
		return 0
	}
	return w.errorRate()
}

// IsHealthy 样本不足或错误率低于阈值时视为健康
func (c *Collector) IsHealthy(providerID string) bool {
	w := c.window(providerID)
	if w == nil {
		return true
	}
	return c.healthy(w)
}

func (c *Collector) healthy(w *window) bool {
	if w.size() < c.opts.MinSamples {
		return true
	}
	return w.errorRate() < c.opts.MaxErrorRate
}

func (c *Collector) window(providerID string) *window {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.health[providerID]
}

func (c *Collector) observe(a dispatch.Attempt) bool {
	c.mu.Lock()
	w, ok := c.health[a.ProviderID]
	if !ok {
		w = newWindow(c.opts.Window)
		c.health[a.ProviderID] = w
	}
	c.mu.Unlock()

	was := c.healthy(w)
	w.add(a.Latency, a.Err != nil)
	now := c.healthy(w)
	if was != now {
		c.logger.Warn("provider health changed",
			zap.String("provider", a.ProviderID),
			zap.Bool("healthy", now),
			zap.Float64("error_rate", w.errorRate()))
	}
	return now
}

// =============================================================================
// 🔧 辅助函数
// =============================================================================

func statusCode(code int) string {
	switch {
	case code >= 200 && code < 300:
		return "2xx"
	case code >= 300 && code < 400:
		return "3xx"
	case code >= 400 && code < 500:
		return "4xx"
	case code >= 500:
		return "5xx"
	default:
		return strconv.Itoa(code)
	}
}
