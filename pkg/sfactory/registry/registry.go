package registry

import "sync"

// entry is a single key/value pair in registration order.
type entry[K comparable, V any] struct {
	key   K
	value V
}

// Registry is a thread-safe, insertion-ordered registry for values indexed
// by key. Registering an existing key overwrites the value in place, keeping
// the original position; new keys are appended. There is no removal: the
// registry only grows or overwrites.
type Registry[K comparable, V any] struct {
	mu      sync.RWMutex
	index   map[K]int
	entries []entry[K, V]
}

// New creates a new empty registry.
func New[K comparable, V any]() *Registry[K, V] {
	return &Registry[K, V]{
		index: make(map[K]int),
	}
}

// Register adds a value under key, or overwrites the existing value in place
// if the key is already present.
func (r *Registry[K, V]) Register(key K, value V) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if i, ok := r.index[key]; ok {
		r.entries[i].value = value
		return
	}
	r.index[key] = len(r.entries)
	r.entries = append(r.entries, entry[K, V]{key: key, value: value})
}

// Get returns the value for a key and whether it exists.
func (r *Registry[K, V]) Get(key K) (V, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if i, ok := r.index[key]; ok {
		return r.entries[i].value, true
	}
	var zero V
	return zero, false
}

// Has returns true if the key exists in the registry.
func (r *Registry[K, V]) Has(key K) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.index[key]
	return ok
}

// Keys returns all keys in registration order.
func (r *Registry[K, V]) Keys() []K {
	r.mu.RLock()
	defer r.mu.RUnlock()
	keys := make([]K, len(r.entries))
	for i, e := range r.entries {
		keys[i] = e.key
	}
	return keys
}

// Len returns the number of entries in the registry.
func (r *Registry[K, V]) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.entries)
}

// Range iterates over all entries in registration order. The function fn is
// called for each entry. If fn returns false, iteration stops.
//
// Range iterates over a snapshot of the registry, so it is safe to call
// Register during iteration without affecting the current iteration.
func (r *Registry[K, V]) Range(fn func(K, V) bool) {
	r.mu.RLock()
	snapshot := make([]entry[K, V], len(r.entries))
	copy(snapshot, r.entries)
	r.mu.RUnlock()

	for _, e := range snapshot {
		if !fn(e.key, e.value) {
			return
		}
	}
}
