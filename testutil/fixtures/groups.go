// Package fixtures 提供路由测试用的预置分组与 Provider。
package fixtures

import (
	"github.com/BaSui01/synax/provider"
	"github.com/BaSui01/synax/routing"
)

// ChatGroup 两个成员各自固定模型的分组
func ChatGroup() *routing.Group {
	return &routing.Group{
		ID:   "chat",
		Name: "Chat",
		Members: []routing.Member{
			{Provider: "p1", Model: "gpt"},
			{Provider: "p2", Model: "claude"},
		},
	}
}

// EmptyGroup 没有成员的分组
func EmptyGroup() *routing.Group {
	return &routing.Group{ID: "empty"}
}

// MixedGroup 一个固定模型成员加一个"由分组决定"成员
func MixedGroup() *routing.Group {
	return &routing.Group{
		ID: "mixed",
		Members: []routing.Member{
			{Provider: "providerA", Model: "x"},
			{Provider: "providerB", Default: "fallback"},
		},
	}
}

// GPTModel 带完整目录信息的模型
func GPTModel() provider.ModelInfo {
	return provider.ModelInfo{
		ID:      "gpt",
		Name:    "GPT",
		Type:    provider.ModelTypeLanguage,
		Family:  "gpt",
		OwnedBy: "openai",
		Limits:  provider.ModelLimits{Context: 200000, Output: 16000},
		Capabilities: provider.ModelCapabilities{
			Tools:       true,
			Streaming:   true,
			Temperature: true,
		},
		Cost: &provider.ModelCost{Input: 2.5, Output: 10},
	}
}

// ClaudeModel 带推理能力的模型
func ClaudeModel() provider.ModelInfo {
	return provider.ModelInfo{
		ID:      "claude",
		Name:    "Claude",
		Type:    provider.ModelTypeLanguage,
		OwnedBy: "anthropic",
		Limits:  provider.ModelLimits{Context: 100000, Output: 64000},
		Capabilities: provider.ModelCapabilities{
			Reasoning:  true,
			Attachment: true,
		},
	}
}
