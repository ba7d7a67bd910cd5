// Package client 提供按能力划分的类型化客户端。
//
// 每个操作把类型化请求包装成 Execute 闭包交给 Runner；
// 闭包在 Provider 缺少该能力时返回 CAPABILITY_NOT_SUPPORTED，
// 该错误和其它失败一样进入故障转移。
package client

import (
	"context"
	"fmt"

	"github.com/BaSui01/synax/dispatch"
	"github.com/BaSui01/synax/provider"
	"github.com/BaSui01/synax/types"
)

// Runner is the slice of routing.Runner the clients depend on.
type Runner interface {
	Dispatch(ctx context.Context, modelID string, capability types.Capability, exec dispatch.Execute) (any, error)
	DispatchStream(ctx context.Context, modelID string, capability types.Capability, exec dispatch.StreamExecute) (<-chan dispatch.Chunk, error)
}

// ProviderLister lists registered providers.
type ProviderLister interface {
	List() []*provider.Provider
}

func notSupported(p *provider.Provider, capability types.Capability) error {
	return types.Errorf(types.ErrCapabilityNotSupported, "provider %q does not support %s", p.ID, capability).
		WithProvider(p.ID)
}

// call runs a unary dispatch and restores the static result type.
func call[T any](ctx context.Context, r Runner, modelID string, capability types.Capability,
	exec func(ctx context.Context, p *provider.Provider, model string) (T, error)) (T, error) {
	var zero T
	res, err := r.Dispatch(ctx, modelID, capability, func(ctx context.Context, p *provider.Provider, model string) (any, error) {
		return exec(ctx, p, model)
	})
	if err != nil {
		return zero, err
	}
	v, ok := res.(T)
	if !ok {
		return zero, fmt.Errorf("unexpected %s result type %T", capability, res)
	}
	return v, nil
}

// stream runs a streaming dispatch over typed provider channels.
func stream[T any](ctx context.Context, r Runner, modelID string, capability types.Capability,
	open func(ctx context.Context, p *provider.Provider, model string) (<-chan T, error),
	errOf func(T) error, wrapErr func(error) T) (<-chan T, error) {
	out, err := r.DispatchStream(ctx, modelID, capability, func(ctx context.Context, p *provider.Provider, model string) (<-chan dispatch.Chunk, error) {
		in, err := open(ctx, p, model)
		if err != nil {
			return nil, err
		}
		return dispatch.Erase(ctx, in, errOf), nil
	})
	if err != nil {
		return nil, err
	}
	return dispatch.Typed(ctx, out, wrapErr), nil
}
