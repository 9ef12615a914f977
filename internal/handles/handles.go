// Package handles provides the token registry and owned-pointer bookkeeping
// used to route engine callbacks back to Go objects.
//
// The engine cannot hold Go pointers. Instead, every managed object is
// registered and receives a small integer token which is passed through the
// user_data slot of its callback table. Callbacks look the token up and reach
// the object, or find nothing if the object was already torn down.
package handles

import (
	"sync"
)

// Registry maps tokens to live Go objects.
//
// A Registry is owned by a single engine context; there is no package-level
// instance.
type Registry struct {
	mu      sync.RWMutex
	objects map[uintptr]any
	nextID  uintptr
}

// NewRegistry returns an empty registry. Tokens start at 1 so that 0 can
// stand for "no object" in user_data slots.
func NewRegistry() *Registry {
	return &Registry{
		objects: make(map[uintptr]any),
		nextID:  1,
	}
}

// Register stores v and returns its token.
//
// Thread-safe.
func (r *Registry) Register(v any) uintptr {
	r.mu.Lock()
	defer r.mu.Unlock()
	id := r.nextID
	r.nextID++
	r.objects[id] = v
	return id
}

// Lookup returns the object registered under id, or nil.
//
// Thread-safe. The read lock is held only for the map access.
func (r *Registry) Lookup(id uintptr) any {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.objects[id]
}

// Unregister removes id.
//
// Thread-safe.
func (r *Registry) Unregister(id uintptr) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.objects, id)
}

// Release drops one owner of h. When that was the last owner, the pointer is
// tombstoned and id removed under the write lock, so a concurrent Lookup
// sees either a live object or nothing. The native delete runs after the
// lock is dropped; the engine may call back from inside a delete, and such a
// callback finds nothing. Reports whether the object was deleted.
func (r *Registry) Release(id uintptr, h *Owned) bool {
	r.mu.Lock()
	ptr := h.drop()
	if ptr != 0 {
		delete(r.objects, id)
	}
	r.mu.Unlock()

	if ptr == 0 {
		return false
	}
	if h.delete != nil {
		h.delete(ptr)
	}
	return true
}

// Snapshot returns the registered objects at the time of the call.
func (r *Registry) Snapshot() []any {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]any, 0, len(r.objects))
	for _, v := range r.objects {
		out = append(out, v)
	}
	return out
}

// Count returns the number of registered objects.
// Useful for debugging and testing leaks.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.objects)
}

// Lookup returns the object registered under id if it has type T.
func Lookup[T any](r *Registry, id uintptr) (T, bool) {
	v, ok := r.Lookup(id).(T)
	return v, ok
}
