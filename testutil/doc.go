/*
Package testutil 提供 synax 测试的共享工具和辅助函数。

# 核心能力

  - 上下文辅助: TestContext / TestContextWithTimeout / CancelledContext，
    自动注册 Cleanup 防止泄漏
  - 日志: TestLogger 将 zap 输出接到 t.Log
  - 异步断言: AssertEventuallyTrue
  - 流式辅助: CollectStreamContent

# 子包

  - testutil/mocks: MockLanguage（Builder 模式与错误注入）、MockSpeech，
    以及 EmbedFunc / ImageFunc / VideoFunc 函数适配器
  - testutil/fixtures: 预置分组与带模型目录的 Provider
*/
package testutil
