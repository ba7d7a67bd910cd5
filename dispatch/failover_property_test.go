package dispatch

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"github.com/BaSui01/synax/provider"
)

func TestProperty_FailoverStopsAtFirstSuccess(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100

	properties := gopter.NewProperties(parameters)

	properties.Property("k failures then success yields k+1 calls and the k-th result", prop.ForAll(
		func(n, k int) bool {
			k = k % n
			cands := make([]Candidate, n)
			for i := range cands {
				cands[i] = Candidate{Provider: &provider.Provider{ID: fmt.Sprintf("p%d", i)}, Model: "m"}
			}

			calls := 0
			exec := func(_ context.Context, p *provider.Provider, _ string) (any, error) {
				calls++
				if calls-1 < k {
					return nil, errors.New("fail")
				}
				return p.ID, nil
			}

			m := &fakeMetrics{}
			got, err := NewFailover().Dispatch(context.Background(), &Context{Metrics: m}, cands, exec)
			if err != nil {
				t.Logf("unexpected error: %v", err)
				return false
			}
			failed := 0
			for _, a := range m.recorded() {
				if a.Err != nil {
					failed++
				}
			}
			return calls == k+1 && got == fmt.Sprintf("p%d", k) && failed == k
		},
		gen.IntRange(1, 12),
		gen.IntRange(0, 50),
	))

	properties.Property("all failing yields N errors indexed 0..N-1", prop.ForAll(
		func(n int) bool {
			cands := make([]Candidate, n)
			for i := range cands {
				cands[i] = Candidate{Provider: &provider.Provider{ID: fmt.Sprintf("p%d", i)}, Model: "m"}
			}
			exec := func(_ context.Context, p *provider.Provider, _ string) (any, error) {
				return nil, errors.New(p.ID)
			}

			_, err := NewFailover().Dispatch(context.Background(), &Context{}, cands, exec)
			var all *AllCandidatesFailedError
			if !errors.As(err, &all) || len(all.Errors) != n {
				return false
			}
			for i, ce := range all.Errors {
				if ce.AttemptIndex != i || ce.ProviderID != fmt.Sprintf("p%d", i) || ce.Err.Error() != ce.ProviderID {
					return false
				}
			}
			return true
		},
		gen.IntRange(1, 12),
	))

	properties.TestingRun(t)
}
