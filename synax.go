// Package synax routes capability calls (language, embedding, image,
// speech, video) across groups of providers.
//
// Usage:
//
//	s := synax.New(synax.Options{Logger: logger})
//	_ = s.AddProvider(myProvider)
//	_ = s.AddGroup(routing.Group{ID: "chat", Members: []routing.Member{{Provider: "openai", Model: "gpt-4o"}}})
//	resp, err := s.Language().Generate(ctx, "chat", req)
//
// Model identifiers are "<group>" or "<group>/<required-model>".
package synax

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/BaSui01/synax/catalog"
	"github.com/BaSui01/synax/client"
	"github.com/BaSui01/synax/config"
	"github.com/BaSui01/synax/dispatch"
	"github.com/BaSui01/synax/plugin"
	"github.com/BaSui01/synax/provider"
	"github.com/BaSui01/synax/registry"
	"github.com/BaSui01/synax/routing"
	"github.com/BaSui01/synax/types"
)

// Options configures a Synax instance. Every field is optional.
type Options struct {
	Logger  *zap.Logger
	Metrics dispatch.Metrics
	Tracer  trace.Tracer

	// Plugins resolves "use" references. nil means a fresh registry with
	// the built-ins registered against Cursor.
	Plugins *plugin.Registry
	// Cursor backs built-in round-robin instances when Plugins is nil.
	Cursor dispatch.Cursor
}

// Synax owns the provider, group and dispatcher registries and the clients
// built on top of them.
type Synax struct {
	providers   *registry.Registry[*provider.Provider]
	groups      *registry.Registry[*routing.Group]
	dispatchers *registry.Registry[dispatch.Dispatcher]
	plugins     *plugin.Registry
	runner      *routing.Runner
	logger      *zap.Logger

	language  *client.LanguageClient
	embedding *client.EmbeddingClient
	image     *client.ImageClient
	speech    *client.SpeechClient
	video     *client.VideoClient
}

// New creates a Synax with the default failover strategy registered.
func New(opts Options) *Synax {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	plugins := opts.Plugins
	if plugins == nil {
		plugins = plugin.NewRegistry(logger)
		if err := plugin.RegisterBuiltins(plugins, opts.Cursor); err != nil {
			// fresh registry, refs cannot collide
			panic(fmt.Sprintf("register builtin plugins: %v", err))
		}
	}

	s := &Synax{
		providers:   registry.New[*provider.Provider]("provider"),
		groups:      registry.New[*routing.Group]("group"),
		dispatchers: registry.New[dispatch.Dispatcher]("dispatcher"),
		plugins:     plugins,
		logger:      logger.With(zap.String("component", "synax")),
	}
	s.dispatchers.Put(dispatch.DefaultName, dispatch.NewFailover())

	s.runner = routing.NewRunner(routing.RunnerDeps{
		Providers:   s.providers,
		Groups:      s.groups,
		Dispatchers: s.dispatchers,
		Logger:      logger,
		Metrics:     opts.Metrics,
		Tracer:      opts.Tracer,
	})

	s.language = client.NewLanguageClient(s.runner, s.providers)
	s.embedding = client.NewEmbeddingClient(s.runner)
	s.image = client.NewImageClient(s.runner)
	s.speech = client.NewSpeechClient(s.runner)
	s.video = client.NewVideoClient(s.runner)
	return s
}

// FromConfig builds a Synax from a loaded routing section: providers and
// dispatchers come from the plugin registry, then groups are added.
func FromConfig(ctx context.Context, rc config.RoutingConfig, opts Options) (*Synax, error) {
	s := New(opts)
	for _, p := range rc.Providers {
		if _, err := s.AddProviderFromPlugin(ctx, p.Use, p.ID, p.Options); err != nil {
			return nil, err
		}
	}
	for _, d := range rc.Dispatchers {
		if _, err := s.AddDispatcherFromPlugin(ctx, d.Use, d.ID, d.Options); err != nil {
			return nil, err
		}
	}
	for _, g := range rc.Groups {
		if err := s.AddGroup(g); err != nil {
			return nil, err
		}
	}
	s.logger.Info("routing configured",
		zap.Int("providers", s.providers.Len()),
		zap.Int("dispatchers", s.dispatchers.Len()),
		zap.Int("groups", s.groups.Len()))
	return s, nil
}

// GroupLoader supplies persisted groups, e.g. store.GroupStore.
type GroupLoader interface {
	LoadGroups(ctx context.Context) ([]routing.Group, error)
}

// LoadGroups adds every group from src, replacing groups with the same id.
func (s *Synax) LoadGroups(ctx context.Context, src GroupLoader) (int, error) {
	groups, err := src.LoadGroups(ctx)
	if err != nil {
		return 0, err
	}
	for _, g := range groups {
		if err := s.AddGroup(g); err != nil {
			return 0, err
		}
	}
	return len(groups), nil
}

// --- providers ---

// AddProvider registers p; a duplicate id fails with DUPLICATE_ID.
func (s *Synax) AddProvider(p *provider.Provider) error {
	if p == nil {
		return types.NewError(types.ErrInvalidConfig, "provider must not be nil")
	}
	if err := s.providers.Add(p.ID, p); err != nil {
		return err
	}
	s.logger.Info("provider added", zap.String("provider", p.ID),
		zap.Strings("capabilities", capabilityNames(p)))
	return nil
}

// AddProviderFromPlugin creates a provider through the plugin registry and adds it.
func (s *Synax) AddProviderFromPlugin(ctx context.Context, ref, id string, options map[string]any) (*provider.Provider, error) {
	p, err := s.plugins.CreateProvider(ctx, ref, id, options)
	if err != nil {
		return nil, err
	}
	if err := s.AddProvider(p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *Synax) GetProvider(id string) (*provider.Provider, bool) { return s.providers.Get(id) }

func (s *Synax) ListProviders() []*provider.Provider { return s.providers.List() }

func (s *Synax) RemoveProvider(id string) bool { return s.providers.Remove(id) }

// --- groups ---

// AddGroup validates g and stores a copy, replacing any group with the same id.
func (s *Synax) AddGroup(g routing.Group) error {
	if err := g.Validate(); err != nil {
		return err
	}
	cp := g
	cp.Members = append([]routing.Member(nil), g.Members...)
	s.groups.Put(cp.ID, &cp)
	s.logger.Info("group added", zap.String("group", cp.ID), zap.Int("members", len(cp.Members)))
	return nil
}

func (s *Synax) GetGroup(id string) (*routing.Group, bool) { return s.groups.Get(id) }

func (s *Synax) ListGroups() []*routing.Group { return s.groups.List() }

func (s *Synax) RemoveGroup(id string) bool { return s.groups.Remove(id) }

// --- dispatchers ---

// AddDispatcher registers d under name; duplicates fail with DUPLICATE_ID.
func (s *Synax) AddDispatcher(name string, d dispatch.Dispatcher) error {
	if d == nil {
		return types.Errorf(types.ErrInvalidConfig, "dispatcher %q must not be nil", name)
	}
	if err := s.dispatchers.Add(name, d); err != nil {
		return err
	}
	s.logger.Info("dispatcher added", zap.String("dispatcher", name))
	return nil
}

// AddDispatcherFromPlugin creates a dispatcher through the plugin registry and adds it.
func (s *Synax) AddDispatcherFromPlugin(ctx context.Context, ref, name string, options map[string]any) (dispatch.Dispatcher, error) {
	d, err := s.plugins.CreateDispatcher(ctx, ref, name, options)
	if err != nil {
		return nil, err
	}
	if err := s.AddDispatcher(name, d); err != nil {
		return nil, err
	}
	return d, nil
}

func (s *Synax) GetDispatcher(name string) (dispatch.Dispatcher, bool) { return s.dispatchers.Get(name) }

// ListDispatchers returns registered strategy names in registration order.
func (s *Synax) ListDispatchers() []string { return s.dispatchers.Names() }

// --- catalog & clients ---

// ListModels projects every group into model catalog entries.
func (s *Synax) ListModels() []catalog.Entry {
	return catalog.ListModels(s.groups, s.providers)
}

func (s *Synax) Plugins() *plugin.Registry { return s.plugins }

func (s *Synax) Runner() *routing.Runner { return s.runner }

func (s *Synax) Language() *client.LanguageClient { return s.language }

func (s *Synax) Embedding() *client.EmbeddingClient { return s.embedding }

func (s *Synax) Image() *client.ImageClient { return s.image }

func (s *Synax) Speech() *client.SpeechClient { return s.speech }

func (s *Synax) Video() *client.VideoClient { return s.video }

func capabilityNames(p *provider.Provider) []string {
	caps := p.Capabilities()
	out := make([]string, len(caps))
	for i, c := range caps {
		out[i] = string(c)
	}
	return out
}
