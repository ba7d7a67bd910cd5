// Package main 是 synax 命令行入口。
//
// 子命令 serve 启动 HTTP 服务（/health、/ready、/version、/metrics、
// /v1/models），validate 与 models 只加载配置并构建路由，不访问上游。
package main
