/*
Package types 提供 synax 各包共享的基础类型。

types 不依赖任何内部包，dispatch、routing、client 与 facade 都从这里取
能力枚举和错误码，以避免循环依赖。

# 核心类型

  - Capability        能力种类（language / embedding / image / speech / video）
  - Error / ErrorCode 结构化错误，带默认 HTTP 状态、Retryable 与 Provider 标记

# 错误码

调度期错误：GROUP_NOT_FOUND、NO_AVAILABLE_PROVIDERS、NO_PROVIDER_FOR_MODEL、
DISPATCHER_NOT_FOUND、CAPABILITY_NOT_SUPPORTED、ALL_CANDIDATES_FAILED。
注册与装配期错误：DUPLICATE_ID、INVALID_CONFIG、PLUGIN_NOT_FOUND。

GetErrorCode 沿错误链查找，既识别 *Error，也识别实现了 ErrorCode() 的
外部错误类型（如 dispatch.AllCandidatesFailedError）。
*/
package types
