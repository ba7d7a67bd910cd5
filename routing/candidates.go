package routing

import (
	"go.uber.org/zap"

	"github.com/BaSui01/synax/dispatch"
)

// BuildCandidates turns the members of g into candidates in declaration
// order. Members whose provider is not registered are skipped with a warning.
func BuildCandidates(g *Group, providers ProviderSource, logger *zap.Logger) []dispatch.Candidate {
	if logger == nil {
		logger = zap.NewNop()
	}
	out := make([]dispatch.Candidate, 0, len(g.Members))
	for _, m := range g.Members {
		p, ok := providers.Get(m.Provider)
		if !ok || p == nil {
			logger.Warn("provider not registered, skipping member",
				zap.String("group", g.ID),
				zap.String("provider", m.Provider))
			continue
		}
		out = append(out, dispatch.Candidate{
			Provider:     p,
			Model:        m.Model,
			DefaultModel: m.Default,
			Options:      m.Options,
		})
	}
	return out
}

// FilterByModel keeps candidates that declare no pinned model or whose
// pinned model equals required. An empty required model keeps everything.
func FilterByModel(candidates []dispatch.Candidate, required string) []dispatch.Candidate {
	if required == "" {
		return candidates
	}
	out := make([]dispatch.Candidate, 0, len(candidates))
	for _, c := range candidates {
		if c.Model == "" || c.Model == required {
			out = append(out, c)
		}
	}
	return out
}
