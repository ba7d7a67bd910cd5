// Package config 提供 Synax 的配置管理功能。
//
// 配置按 默认值 → YAML 文件 → SYNAX_ 前缀环境变量 的顺序加载，
// routing 段（提供方、调度器、分组）只能来自文件。
package config
