// Package catalog projects groups and provider model declarations into a
// flat, read-only model list.
package catalog

import (
	"slices"

	"github.com/BaSui01/synax/provider"
	"github.com/BaSui01/synax/routing"
)

const (
	DefaultContextLimit = 128000
	DefaultOutputLimit  = 4096
)

// Entry is one listed model. ID is "<group>" for the group aggregate and
// "<group>/<model>" for member models.
type Entry struct {
	ID           string                     `json:"id"`
	Name         string                     `json:"name"`
	Group        string                     `json:"group"`
	Provider     string                     `json:"provider,omitempty"`
	Model        string                     `json:"model,omitempty"`
	Type         provider.ModelType         `json:"type"`
	Family       string                     `json:"family,omitempty"`
	OwnedBy      string                     `json:"owned_by,omitempty"`
	Limits       provider.ModelLimits       `json:"limits"`
	Capabilities provider.ModelCapabilities `json:"capabilities"`
	Cost         *provider.ModelCost        `json:"cost,omitempty"`
}

// GroupLister lists groups in registry order.
type GroupLister interface {
	List() []*routing.Group
}

// ProviderSource looks up providers by id.
type ProviderSource interface {
	Get(id string) (*provider.Provider, bool)
}

// ListModels builds the catalog. Group aggregates come first, most recently
// registered group first, followed by every member entry in registry and
// member order. Members without a pinned or default model are not listed.
func ListModels(groups GroupLister, providers ProviderSource) []Entry {
	var aggregates, members []Entry
	for _, g := range groups.List() {
		entries := memberEntries(g, providers)
		if len(entries) == 0 {
			continue
		}
		aggregates = append(aggregates, aggregate(g, entries))
		members = append(members, entries...)
	}
	slices.Reverse(aggregates)
	return append(aggregates, members...)
}

func memberEntries(g *routing.Group, providers ProviderSource) []Entry {
	var out []Entry
	for _, m := range g.Members {
		model := m.Model
		if model == "" {
			model = m.Default
		}
		if model == "" {
			continue
		}

		e := Entry{
			ID:       g.ID + routing.ModelSeparator + model,
			Name:     model,
			Group:    g.ID,
			Provider: m.Provider,
			Model:    model,
			Type:     provider.ModelTypeLanguage,
			Limits:   provider.ModelLimits{Context: DefaultContextLimit, Output: DefaultOutputLimit},
		}
		if p, ok := providers.Get(m.Provider); ok && p != nil {
			if info, ok := p.FindModel(model); ok {
				merge(&e, info)
			}
		}
		out = append(out, e)
	}
	return out
}

func merge(e *Entry, info provider.ModelInfo) {
	if info.Name != "" {
		e.Name = info.Name
	}
	if info.Type != "" {
		e.Type = info.Type
	}
	e.Family = info.Family
	e.OwnedBy = info.OwnedBy
	if info.Limits.Context > 0 {
		e.Limits.Context = info.Limits.Context
	}
	if info.Limits.Output > 0 {
		e.Limits.Output = info.Limits.Output
	}
	e.Capabilities = info.Capabilities
	e.Cost = info.Cost
}

func aggregate(g *routing.Group, members []Entry) Entry {
	agg := Entry{
		ID:    g.ID,
		Name:  g.DisplayName(),
		Group: g.ID,
		Type:  members[0].Type,
	}
	for _, m := range members {
		agg.Limits.Context = max(agg.Limits.Context, m.Limits.Context)
		agg.Limits.Output = max(agg.Limits.Output, m.Limits.Output)

		c := m.Capabilities
		agg.Capabilities.Tools = agg.Capabilities.Tools || c.Tools
		agg.Capabilities.Streaming = agg.Capabilities.Streaming || c.Streaming
		agg.Capabilities.Reasoning = agg.Capabilities.Reasoning || c.Reasoning
		agg.Capabilities.Temperature = agg.Capabilities.Temperature || c.Temperature
		agg.Capabilities.JSONSchema = agg.Capabilities.JSONSchema || c.JSONSchema
		agg.Capabilities.Attachment = agg.Capabilities.Attachment || c.Attachment
	}
	return agg
}
