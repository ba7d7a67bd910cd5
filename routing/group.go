package routing

import (
	"github.com/BaSui01/synax/types"
)

// Member is one routing target inside a Group.
type Member struct {
	Provider string         `json:"provider" yaml:"provider"`
	Default  string         `json:"default,omitempty" yaml:"default,omitempty"`
	Model    string         `json:"model,omitempty" yaml:"model,omitempty"`
	Options  map[string]any `json:"options,omitempty" yaml:"options,omitempty"`
}

// Group is a named, ordered set of members plus an optional strategy reference.
type Group struct {
	ID      string         `json:"id" yaml:"id"`
	Name    string         `json:"name,omitempty" yaml:"name,omitempty"`
	Use     string         `json:"use,omitempty" yaml:"use,omitempty"`
	Options map[string]any `json:"options,omitempty" yaml:"options,omitempty"`
	Members []Member       `json:"members" yaml:"members"`
}

// Validate checks the structural invariants of a group.
func (g *Group) Validate() error {
	if g.ID == "" {
		return types.NewError(types.ErrInvalidConfig, "group id must not be empty")
	}
	for i, m := range g.Members {
		if m.Provider == "" {
			return types.Errorf(types.ErrInvalidConfig, "group %q member %d has no provider", g.ID, i)
		}
	}
	return nil
}

// DisplayName returns Name, falling back to ID.
func (g *Group) DisplayName() string {
	if g.Name != "" {
		return g.Name
	}
	return g.ID
}
