package routing

import (
	"context"
	"errors"

	"github.com/BaSui01/synax/dispatch"
	"github.com/BaSui01/synax/provider"
	"github.com/BaSui01/synax/registry"
)

type fixture struct {
	providers   *registry.Registry[*provider.Provider]
	groups      *registry.Registry[*Group]
	dispatchers *registry.Registry[dispatch.Dispatcher]
}

func newFixture(providerIDs ...string) *fixture {
	f := &fixture{
		providers:   registry.New[*provider.Provider]("provider"),
		groups:      registry.New[*Group]("group"),
		dispatchers: registry.New[dispatch.Dispatcher]("dispatcher"),
	}
	for _, id := range providerIDs {
		_ = f.providers.Add(id, &provider.Provider{ID: id})
	}
	_ = f.dispatchers.Add(dispatch.DefaultName, dispatch.NewFailover())
	return f
}

func (f *fixture) runner() *Runner {
	return NewRunner(RunnerDeps{Providers: f.providers, Groups: f.groups, Dispatchers: f.dispatchers})
}

// failing returns an execute closure that fails for the given providers.
func failing(ids ...string) (dispatch.Execute, *[]string) {
	set := make(map[string]bool)
	for _, id := range ids {
		set[id] = true
	}
	var calls []string
	return func(_ context.Context, p *provider.Provider, model string) (any, error) {
		calls = append(calls, p.ID+"|"+model)
		if set[p.ID] {
			return nil, errors.New(p.ID + " failed")
		}
		return "ok:" + p.ID, nil
	}, &calls
}

func (f *fixture) dispatchersWith(name string, d dispatch.Dispatcher) *registry.Registry[dispatch.Dispatcher] {
	r := registry.New[dispatch.Dispatcher]("dispatcher")
	_ = r.Add(name, d)
	return r
}
