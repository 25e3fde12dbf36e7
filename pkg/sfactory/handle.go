package sfactory

import (
	"io"
	"sync"
	"sync/atomic"
)

// closeValue closes v if it implements io.Closer.
func closeValue(v any) error {
	if c, ok := v.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

// sharedState is the reference-counted core that a Shared handle and all of
// its views point at. The count tracks owning handles; the held instance is
// closed (if it implements io.Closer) when the last owner releases.
type sharedState struct {
	mu   sync.Mutex
	refs int
	val  any
}

// Shared is a shared-ownership handle over an instance produced by a
// factory. Clone adds an owner; Close drops one. When the last owner closes,
// the underlying instance's Close is invoked if it implements io.Closer.
//
// The zero Shared and a nil *Shared are inert: Value returns the zero value
// and Close is a no-op.
type Shared[T any] struct {
	state  *sharedState
	closed atomic.Bool
}

// newShared wraps a freshly constructed instance in a handle owning it.
func newShared[T any](v T) *Shared[T] {
	return &Shared[T]{state: &sharedState{refs: 1, val: v}}
}

// Value returns the held instance, or the zero value if the handle has been
// closed or is nil.
func (h *Shared[T]) Value() T {
	var zero T
	if h == nil || h.state == nil || h.closed.Load() {
		return zero
	}
	h.state.mu.Lock()
	defer h.state.mu.Unlock()
	v, ok := h.state.val.(T)
	if !ok {
		return zero
	}
	return v
}

// Clone returns a new handle sharing ownership of the same instance.
// Cloning a closed or nil handle returns nil.
func (h *Shared[T]) Clone() *Shared[T] {
	if h == nil || h.state == nil || h.closed.Load() {
		return nil
	}
	h.state.mu.Lock()
	defer h.state.mu.Unlock()
	if h.state.refs == 0 {
		return nil
	}
	h.state.refs++
	return &Shared[T]{state: h.state}
}

// Refs returns the current number of owning handles.
func (h *Shared[T]) Refs() int {
	if h == nil || h.state == nil {
		return 0
	}
	h.state.mu.Lock()
	defer h.state.mu.Unlock()
	return h.state.refs
}

// Close drops this handle's ownership. The underlying instance is closed
// (if it implements io.Closer) when the last owner goes away. Close is
// idempotent per handle.
func (h *Shared[T]) Close() error {
	if h == nil || h.state == nil || h.closed.Swap(true) {
		return nil
	}
	h.state.mu.Lock()
	defer h.state.mu.Unlock()
	h.state.refs--
	if h.state.refs > 0 {
		return nil
	}
	v := h.state.val
	h.state.val = nil
	return closeValue(v)
}

// sharedViewAs rebinds a base-typed shared handle to a concrete-typed view
// over the same ownership state. The source handle's ownership transfers to
// the view; the source must not be closed afterwards.
func sharedViewAs[T, B any](h *Shared[B]) (*Shared[T], bool) {
	if h == nil || h.state == nil {
		return nil, false
	}
	h.state.mu.Lock()
	_, ok := h.state.val.(T)
	h.state.mu.Unlock()
	if !ok {
		return nil, false
	}
	h.closed.Store(true) // the view takes over this handle's reference
	return &Shared[T]{state: h.state}, true
}

// Unique is an exclusive-ownership handle over an instance produced by a
// factory. There is exactly one owner at a time: Release transfers the
// instance out, Close releases and closes it. A released or closed handle
// is empty.
type Unique[T any] struct {
	mu  sync.Mutex
	val T
	ok  bool
}

// newUnique wraps a freshly constructed instance in an exclusive handle.
func newUnique[T any](v T) *Unique[T] {
	return &Unique[T]{val: v, ok: true}
}

// Value returns the held instance without transferring ownership, or the
// zero value if the handle is empty or nil.
func (u *Unique[T]) Value() T {
	var zero T
	if u == nil {
		return zero
	}
	u.mu.Lock()
	defer u.mu.Unlock()
	if !u.ok {
		return zero
	}
	return u.val
}

// Valid reports whether the handle still owns an instance.
func (u *Unique[T]) Valid() bool {
	if u == nil {
		return false
	}
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.ok
}

// Release transfers the instance out of the handle, leaving it empty.
// The caller becomes responsible for any release of the instance.
func (u *Unique[T]) Release() (T, bool) {
	var zero T
	if u == nil {
		return zero, false
	}
	u.mu.Lock()
	defer u.mu.Unlock()
	if !u.ok {
		return zero, false
	}
	v := u.val
	u.val = zero
	u.ok = false
	return v, true
}

// Close releases the instance and closes it if it implements io.Closer.
// Close is idempotent.
func (u *Unique[T]) Close() error {
	v, ok := u.Release()
	if !ok {
		return nil
	}
	return closeValue(v)
}
