package routing

import (
	"fmt"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BaSui01/synax/dispatch"
	"github.com/BaSui01/synax/provider"
	"github.com/BaSui01/synax/registry"
	"github.com/BaSui01/synax/types"
)

func TestBuildCandidates_SkipsUnregistered(t *testing.T) {
	f := newFixture("p1", "p3")
	g := &Group{ID: "g", Members: []Member{
		{Provider: "p1", Model: "m1"},
		{Provider: "p2", Model: "m2"},
		{Provider: "p3", Default: "d3", Options: map[string]any{"k": "v"}},
	}}

	got := BuildCandidates(g, f.providers, nil)
	require.Len(t, got, 2)
	assert.Equal(t, "p1", got[0].ProviderID())
	assert.Equal(t, "m1", got[0].Model)
	assert.Equal(t, "p3", got[1].ProviderID())
	assert.Equal(t, "d3", got[1].DefaultModel)
	assert.Equal(t, "v", got[1].Options["k"])
}

func TestFilterByModel(t *testing.T) {
	a := &provider.Provider{ID: "providerA"}
	b := &provider.Provider{ID: "providerB"}
	cands := []dispatch.Candidate{{Provider: a, Model: "x"}, {Provider: b}}

	x := FilterByModel(cands, "x")
	require.Len(t, x, 2)

	y := FilterByModel(cands, "y")
	require.Len(t, y, 1)
	assert.Equal(t, "providerB", y[0].ProviderID())

	assert.Len(t, FilterByModel(cands, ""), 2)
}

func TestGroup_Validate(t *testing.T) {
	assert.True(t, types.IsCode((&Group{}).Validate(), types.ErrInvalidConfig))
	assert.True(t, types.IsCode((&Group{ID: "g", Members: []Member{{}}}).Validate(), types.ErrInvalidConfig))
	assert.NoError(t, (&Group{ID: "g", Members: []Member{{Provider: "p"}}}).Validate())
}

func TestProperty_BuildCandidatesPreservesOrder(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100

	properties := gopter.NewProperties(parameters)

	properties.Property("output is the registered members in declaration order", prop.ForAll(
		func(registered []bool) bool {
			providers := registry.New[*provider.Provider]("provider")
			g := &Group{ID: "g"}
			var want []string
			for i, ok := range registered {
				id := fmt.Sprintf("p%d", i)
				g.Members = append(g.Members, Member{Provider: id, Model: "m"})
				if ok {
					_ = providers.Add(id, &provider.Provider{ID: id})
					want = append(want, id)
				}
			}

			got := BuildCandidates(g, providers, nil)
			if len(got) > len(g.Members) || len(got) != len(want) {
				return false
			}
			for i, c := range got {
				if c.ProviderID() != want[i] {
					return false
				}
			}
			return true
		},
		gen.SliceOf(gen.Bool()),
	))

	properties.TestingRun(t)
}
