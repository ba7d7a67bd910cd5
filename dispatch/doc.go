/*
Package dispatch 定义调度策略契约与内置策略实现。

Dispatcher 只决定"按什么顺序、以什么并发度尝试哪些候选"，
真正调用 Provider 的逻辑由能力客户端以 Execute / StreamExecute 闭包注入。

# 内置策略

  - Failover    严格按顺序逐个尝试，首个成功即返回（默认策略 "default"）
  - RoundRobin  按分组轮转起始候选，再顺序故障转移
  - Race        并发尝试全部候选，首个成功者胜出并取消其余
  - HealthAware 健康候选优先，再顺序故障转移

# 流式语义

流是一个整体的故障转移单元：候选流中途出错等同于该候选同步失败，
策略会切换到下一个候选并从头开始新流。已转发给调用方的分片不会撤回，
调用方需要容忍"流重新开始"的情况。
*/
package dispatch
