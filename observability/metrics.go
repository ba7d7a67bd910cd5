package observability

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/BaSui01/synax/dispatch"
	"github.com/BaSui01/synax/types"
)

const instrumentationName = "github.com/BaSui01/synax"

// Metrics 调度指标收集器，实现 dispatch.Metrics。
// 它只负责导出，不保存状态，因此健康查询一律回答健康。
type Metrics struct {
	meter metric.Meter
	// 计数器
	attemptTotal  metric.Int64Counter
	errorTotal    metric.Int64Counter
	fallbackTotal metric.Int64Counter
	// 直方图
	attemptDuration metric.Float64Histogram
}

var _ dispatch.Metrics = (*Metrics)(nil)

// NewMetrics 创建指标收集器，mp 为 nil 时使用全局 MeterProvider
func NewMetrics(mp metric.MeterProvider) (*Metrics, error) {
	if mp == nil {
		mp = otel.GetMeterProvider()
	}
	meter := mp.Meter(instrumentationName)
	m := &Metrics{meter: meter}

	var err error

	// 尝试计数
	m.attemptTotal, err = meter.Int64Counter("synax.attempt.total",
		metric.WithDescription("Total number of dispatch attempts"),
		metric.WithUnit("{attempt}"))
	if err != nil {
		return nil, err
	}

	// 错误计数
	m.errorTotal, err = meter.Int64Counter("synax.attempt.error.total",
		metric.WithDescription("Total number of failed dispatch attempts"),
		metric.WithUnit("{error}"))
	if err != nil {
		return nil, err
	}

	// 降级计数
	m.fallbackTotal, err = meter.Int64Counter("synax.fallback.total",
		metric.WithDescription("Total number of attempts made after a previous candidate failed"),
		metric.WithUnit("{fallback}"))
	if err != nil {
		return nil, err
	}

	// 尝试延迟
	m.attemptDuration, err = meter.Float64Histogram("synax.attempt.duration",
		metric.WithDescription("Attempt duration in seconds"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30))
	if err != nil {
		return nil, err
	}

	return m, nil
}

// RecordAttempt 记录一次尝试
func (m *Metrics) RecordAttempt(a dispatch.Attempt) {
	ctx := context.Background()
	status := "success"
	if !a.Success() {
		status = "error"
	}
	common := metric.WithAttributes(
		attribute.String("group", a.GroupID),
		attribute.String("capability", string(a.Capability)),
		attribute.String("provider", a.ProviderID),
		attribute.String("model", a.Model),
		attribute.String("status", status),
	)

	m.attemptTotal.Add(ctx, 1, common)
	m.attemptDuration.Record(ctx, a.Latency.Seconds(), common)

	if a.Err != nil {
		code := string(types.GetErrorCode(a.Err))
		if code == "" {
			code = "UNKNOWN"
		}
		m.errorTotal.Add(ctx, 1, metric.WithAttributes(
			attribute.String("provider", a.ProviderID),
			attribute.String("error_code", code)))
	}

	// 顺序尝试中的第二个及以后才算降级，race 并发尝试不计
	if a.Fallback() {
		m.fallbackTotal.Add(ctx, 1, metric.WithAttributes(
			attribute.String("group", a.GroupID),
			attribute.String("provider", a.ProviderID),
			attribute.Int("level", a.Index)))
	}
}

func (m *Metrics) Latency(string) time.Duration { return 0 }

func (m *Metrics) ErrorRate(string) float64 { return 0 }

func (m *Metrics) IsHealthy(string) bool { return true }
