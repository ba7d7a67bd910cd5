// Package plugin maps reference strings to provider and dispatcher
// constructors. The registry is an explicit object; there is no
// process-wide singleton.
package plugin

import (
	"context"
	"fmt"
	"sort"

	"go.uber.org/zap"

	"github.com/BaSui01/synax/dispatch"
	"github.com/BaSui01/synax/provider"
	"github.com/BaSui01/synax/registry"
	"github.com/BaSui01/synax/types"
)

// Kind distinguishes the two plugin families.
type Kind string

const (
	KindProvider   Kind = "provider"
	KindDispatcher Kind = "dispatcher"
)

// FactoryContext is handed to every factory.
type FactoryContext struct {
	InstanceID string
	Options    map[string]any
	Logger     *zap.Logger
}

type ProviderFactory func(ctx context.Context, fc FactoryContext) (*provider.Provider, error)

type DispatcherFactory func(ctx context.Context, fc FactoryContext) (dispatch.Dispatcher, error)

// Registry holds plugin factories keyed by reference.
type Registry struct {
	providers   *registry.Registry[ProviderFactory]
	dispatchers *registry.Registry[DispatcherFactory]
	logger      *zap.Logger
}

func NewRegistry(logger *zap.Logger) *Registry {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Registry{
		providers:   registry.New[ProviderFactory]("provider plugin"),
		dispatchers: registry.New[DispatcherFactory]("dispatcher plugin"),
		logger:      logger.With(zap.String("component", "plugin_registry")),
	}
}

// RegisterProvider adds a provider factory; duplicate refs fail with DUPLICATE_ID.
func (r *Registry) RegisterProvider(ref string, f ProviderFactory) error {
	if f == nil {
		return types.Errorf(types.ErrInvalidConfig, "provider plugin %q has nil factory", ref)
	}
	return r.providers.Add(ref, f)
}

// RegisterDispatcher adds a dispatcher factory; duplicate refs fail with DUPLICATE_ID.
func (r *Registry) RegisterDispatcher(ref string, f DispatcherFactory) error {
	if f == nil {
		return types.Errorf(types.ErrInvalidConfig, "dispatcher plugin %q has nil factory", ref)
	}
	return r.dispatchers.Add(ref, f)
}

// CreateProvider builds a provider instance. The returned provider's ID is
// always instanceID.
func (r *Registry) CreateProvider(ctx context.Context, ref, instanceID string, options map[string]any) (*provider.Provider, error) {
	f, ok := r.providers.Get(ref)
	if !ok {
		return nil, types.Errorf(types.ErrPluginNotFound, "provider plugin %q not found", ref)
	}
	p, err := f(ctx, r.factoryContext(instanceID, options))
	if err != nil {
		return nil, fmt.Errorf("create provider %q from %q: %w", instanceID, ref, err)
	}
	if p == nil {
		return nil, types.Errorf(types.ErrInvalidConfig, "provider plugin %q returned nil", ref)
	}
	p.ID = instanceID
	if p.Name == "" {
		p.Name = instanceID
	}
	r.logger.Info("provider created", zap.String("plugin", ref), zap.String("id", instanceID))
	return p, nil
}

// CreateDispatcher builds a dispatcher instance.
func (r *Registry) CreateDispatcher(ctx context.Context, ref, instanceID string, options map[string]any) (dispatch.Dispatcher, error) {
	f, ok := r.dispatchers.Get(ref)
	if !ok {
		return nil, types.Errorf(types.ErrPluginNotFound, "dispatcher plugin %q not found", ref)
	}
	d, err := f(ctx, r.factoryContext(instanceID, options))
	if err != nil {
		return nil, fmt.Errorf("create dispatcher %q from %q: %w", instanceID, ref, err)
	}
	if d == nil {
		return nil, types.Errorf(types.ErrInvalidConfig, "dispatcher plugin %q returned nil", ref)
	}
	r.logger.Info("dispatcher created", zap.String("plugin", ref), zap.String("id", instanceID))
	return d, nil
}

// Has reports whether a factory is registered for ref.
func (r *Registry) Has(kind Kind, ref string) bool {
	switch kind {
	case KindProvider:
		_, ok := r.providers.Get(ref)
		return ok
	case KindDispatcher:
		_, ok := r.dispatchers.Get(ref)
		return ok
	}
	return false
}

// List returns the sorted refs of one kind.
func (r *Registry) List(kind Kind) []string {
	var refs []string
	switch kind {
	case KindProvider:
		refs = r.providers.Names()
	case KindDispatcher:
		refs = r.dispatchers.Names()
	}
	sort.Strings(refs)
	return refs
}

func (r *Registry) factoryContext(instanceID string, options map[string]any) FactoryContext {
	if options == nil {
		options = map[string]any{}
	}
	return FactoryContext{
		InstanceID: instanceID,
		Options:    options,
		Logger:     r.logger.With(zap.String("instance", instanceID)),
	}
}
