/*
包 cache 提供基于 Redis 的共享调度状态。

Manager 实现 dispatch.Cursor：轮询策略通过 INCR 取号，
使多个进程共享同一分组的起始候选轮转。键形如
"<prefix>rr:<group>:<capability>"，可配置过期时间。
*/
package cache
