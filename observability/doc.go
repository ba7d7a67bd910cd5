/*
包 observability 提供基于 OpenTelemetry metric API 的调度指标。

# 指标

  - synax.attempt.total       每次候选尝试
  - synax.attempt.error.total 失败尝试，按错误码
  - synax.attempt.duration    尝试耗时（秒）
  - synax.fallback.total      非首个候选的尝试

Metrics 可与 internal/metrics.Collector 通过 dispatch.CombineMetrics 组合，
健康查询由排在首位的 sink 回答。
*/
package observability
