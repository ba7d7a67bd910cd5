/*
包 server 提供 HTTP 服务器生命周期管理，支持非阻塞启动与优雅关闭。

Manager 封装 net/http.Server：Start 在后台运行服务，Run 阻塞到
ctx 结束（通常来自 signal.NotifyContext）后在 ShutdownTimeout 内
排空请求，Errors 暴露异步服务错误。
*/
package server
