package dispatch

import (
	"context"
	"fmt"
)

// Erase adapts a typed provider stream into a Chunk stream. errOf extracts
// the in-band error of an element; nil means the element carries none.
func Erase[T any](ctx context.Context, in <-chan T, errOf func(T) error) <-chan Chunk {
	out := make(chan Chunk)
	go func() {
		defer close(out)
		for {
			select {
			case <-ctx.Done():
				return
			case v, ok := <-in:
				if !ok {
					return
				}
				ch := Chunk{Value: v}
				if errOf != nil {
					if err := errOf(v); err != nil {
						ch = Chunk{Err: err}
					}
				}
				if !send(ctx, out, ch) {
					return
				}
				if ch.Err != nil {
					return
				}
			}
		}
	}()
	return out
}

// Typed restores a typed stream from a Chunk stream. Error chunks, and
// values of an unexpected type, are converted with onErr.
func Typed[T any](ctx context.Context, in <-chan Chunk, onErr func(error) T) <-chan T {
	out := make(chan T)
	go func() {
		defer close(out)
		for {
			select {
			case <-ctx.Done():
				return
			case ch, ok := <-in:
				if !ok {
					return
				}
				var v T
				switch {
				case ch.Err != nil:
					v = onErr(ch.Err)
				default:
					tv, ok := ch.Value.(T)
					if !ok {
						v = onErr(fmt.Errorf("unexpected stream value %T", ch.Value))
					} else {
						v = tv
					}
				}
				select {
				case out <- v:
				case <-ctx.Done():
					return
				}
			}
		}
	}()
	return out
}

// Collect drains a Chunk stream, returning the values and the first error.
func Collect(in <-chan Chunk) ([]any, error) {
	var vals []any
	for ch := range in {
		if ch.Err != nil {
			for range in {
			}
			return vals, ch.Err
		}
		vals = append(vals, ch.Value)
	}
	return vals, nil
}
