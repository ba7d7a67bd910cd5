package config

import (
	"github.com/BaSui01/synax/routing"
)

// RoutingConfig 路由定义，仅从配置文件读取
type RoutingConfig struct {
	// 提供方实例，use 为插件引用（如 builtin/echo）
	Providers []PluginSpec `yaml:"providers"`
	// 调度器实例
	Dispatchers []PluginSpec `yaml:"dispatchers"`
	// 分组
	Groups []routing.Group `yaml:"groups"`
}

// PluginSpec 通过插件工厂创建的实例
type PluginSpec struct {
	ID      string         `yaml:"id"`
	Use     string         `yaml:"use"`
	Options map[string]any `yaml:"options,omitempty"`
}
