/*
包 metrics 提供基于 Prometheus 的调度指标采集，并基于滑动窗口回答
Provider 健康查询。

# 核心类型

  - Collector：实现 dispatch.Metrics，记录每次候选尝试，
    同时维护每个 Provider 最近 N 次尝试的延迟与失败情况。

# 指标

  - dispatch_attempts_total{capability,provider,status}
  - dispatch_attempt_duration_seconds{capability,provider}
  - dispatch_failovers_total{group}
  - provider_healthy{provider}
  - http_requests_total / http_request_duration_seconds（serve 命令）

所有指标通过 promauto.With(Registerer) 注册，测试可传入独立 Registry。
*/
package metrics
