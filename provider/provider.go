// Package provider 定义路由层消费的 Provider 实例与各能力接口。
//
// Provider 只是能力实现的容器：dispatch 引擎从不关心它如何访问后端，
// 只通过 LanguageCapability / EmbeddingCapability 等窄接口调用。
package provider

import "github.com/BaSui01/synax/types"

// Provider is a capability-bearing backend instance.
// A nil capability field means the provider does not support that kind.
type Provider struct {
	ID        string
	Name      string
	Language  LanguageCapability
	Embedding EmbeddingCapability
	Image     ImageCapability
	Speech    SpeechCapability
	Video     VideoCapability

	// Models is the optional declared model catalog.
	Models []ModelInfo
}

// DisplayName returns Name, falling back to ID.
func (p *Provider) DisplayName() string {
	if p.Name != "" {
		return p.Name
	}
	return p.ID
}

// Supports reports whether p carries an implementation of the capability.
func (p *Provider) Supports(c types.Capability) bool {
	if p == nil {
		return false
	}
	switch c {
	case types.CapabilityLanguage:
		return p.Language != nil
	case types.CapabilityEmbedding:
		return p.Embedding != nil
	case types.CapabilityImage:
		return p.Image != nil
	case types.CapabilitySpeech:
		return p.Speech != nil
	case types.CapabilityVideo:
		return p.Video != nil
	}
	return false
}

// Capabilities lists the kinds p supports, in canonical order.
func (p *Provider) Capabilities() []types.Capability {
	var out []types.Capability
	for _, c := range types.Capabilities() {
		if p.Supports(c) {
			out = append(out, c)
		}
	}
	return out
}

// FindModel returns the declared catalog entry for id.
func (p *Provider) FindModel(id string) (ModelInfo, bool) {
	for _, m := range p.Models {
		if m.ID == id {
			return m, true
		}
	}
	return ModelInfo{}, false
}

// ModelType classifies a catalog entry.
type ModelType string

const (
	ModelTypeLanguage  ModelType = "language"
	ModelTypeEmbedding ModelType = "embedding"
	ModelTypeImage     ModelType = "image"
	ModelTypeSpeech    ModelType = "speech"
	ModelTypeVideo     ModelType = "video"
)

// ModelLimits 模型的上下文与输出 token 上限。
type ModelLimits struct {
	Context int `json:"context" yaml:"context"`
	Output  int `json:"output" yaml:"output"`
}

// ModelCapabilities 模型功能标记。
type ModelCapabilities struct {
	Tools       bool `json:"tools" yaml:"tools"`
	Streaming   bool `json:"streaming" yaml:"streaming"`
	Reasoning   bool `json:"reasoning" yaml:"reasoning"`
	Temperature bool `json:"temperature" yaml:"temperature"`
	JSONSchema  bool `json:"json_schema" yaml:"json_schema"`
	Attachment  bool `json:"attachment" yaml:"attachment"`
}

// ModelCost is the price per million tokens, in USD.
type ModelCost struct {
	Input  float64 `json:"input" yaml:"input"`
	Output float64 `json:"output" yaml:"output"`
}

// ModelInfo is a declared model catalog entry.
type ModelInfo struct {
	ID           string            `json:"id" yaml:"id"`
	Name         string            `json:"name,omitempty" yaml:"name,omitempty"`
	Type         ModelType         `json:"type,omitempty" yaml:"type,omitempty"`
	Family       string            `json:"family,omitempty" yaml:"family,omitempty"`
	OwnedBy      string            `json:"owned_by,omitempty" yaml:"owned_by,omitempty"`
	Limits       ModelLimits       `json:"limits" yaml:"limits"`
	Capabilities ModelCapabilities `json:"capabilities" yaml:"capabilities"`
	Cost         *ModelCost        `json:"cost,omitempty" yaml:"cost,omitempty"`
}
