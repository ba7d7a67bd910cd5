package plugin

import (
	"context"
	"errors"

	"github.com/BaSui01/synax/dispatch"
)

// Built-in plugin references.
const (
	RefFailover   = "builtin/failover"
	RefRoundRobin = "builtin/round-robin"
	RefRace       = "builtin/race"
	RefHealth     = "builtin/health"
	RefEcho       = "builtin/echo"
)

// RegisterBuiltins registers the shipped strategies and the echo provider.
// cursor backs round-robin instances unless an instance asks for
// "cursor: memory"; a nil cursor means in-process counters.
func RegisterBuiltins(r *Registry, cursor dispatch.Cursor) error {
	return errors.Join(
		r.RegisterDispatcher(RefFailover, func(context.Context, FactoryContext) (dispatch.Dispatcher, error) {
			return dispatch.NewFailover(), nil
		}),
		r.RegisterDispatcher(RefRoundRobin, func(_ context.Context, fc FactoryContext) (dispatch.Dispatcher, error) {
			c := cursor
			if v, _ := fc.Options["cursor"].(string); v == "memory" || c == nil {
				c = dispatch.NewMemoryCursor()
			}
			return dispatch.NewRoundRobin(c), nil
		}),
		r.RegisterDispatcher(RefRace, func(context.Context, FactoryContext) (dispatch.Dispatcher, error) {
			return dispatch.NewRace(), nil
		}),
		r.RegisterDispatcher(RefHealth, func(context.Context, FactoryContext) (dispatch.Dispatcher, error) {
			return dispatch.NewHealthAware(), nil
		}),
		r.RegisterProvider(RefEcho, NewEchoProvider),
	)
}
