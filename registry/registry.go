// Package registry provides the keyed, insertion-ordered registry used for
// providers, groups and dispatchers.
package registry

import (
	"sync"

	"github.com/BaSui01/synax/types"
)

// Registry is a thread-safe map that remembers insertion order.
type Registry[T any] struct {
	kind  string
	mu    sync.RWMutex
	items map[string]T
	order []string
}

// New creates an empty registry. kind names the stored entity in errors.
func New[T any](kind string) *Registry[T] {
	return &Registry[T]{kind: kind, items: make(map[string]T)}
}

// Add registers v under id and fails with DUPLICATE_ID if id is taken.
func (r *Registry[T]) Add(id string, v T) error {
	if id == "" {
		return types.Errorf(types.ErrInvalidConfig, "%s id must not be empty", r.kind)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[id]; ok {
		return types.Errorf(types.ErrDuplicateID, "%s %q already registered", r.kind, id)
	}
	r.items[id] = v
	r.order = append(r.order, id)
	return nil
}

// Put registers v under id, replacing any existing entry in place.
func (r *Registry[T]) Put(id string, v T) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[id]; !ok {
		r.order = append(r.order, id)
	}
	r.items[id] = v
}

// Get retrieves an entry by id.
func (r *Registry[T]) Get(id string) (T, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	v, ok := r.items[id]
	return v, ok
}

// List returns all entries in insertion order.
func (r *Registry[T]) List() []T {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]T, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.items[id])
	}
	return out
}

// Names returns all ids in insertion order.
func (r *Registry[T]) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]string(nil), r.order...)
}

// Remove deletes id and reports whether it was present.
func (r *Registry[T]) Remove(id string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[id]; !ok {
		return false
	}
	delete(r.items, id)
	for i, n := range r.order {
		if n == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return true
}

// Len returns the number of entries.
func (r *Registry[T]) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.items)
}
