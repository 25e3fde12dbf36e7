// Package registry provides a generic thread-safe registry that remembers
// registration order.
//
// Registry differs from a plain map in two ways that matter for factory-style
// lookups: re-registering a key overwrites the value without moving it, and
// Range visits entries in the order they were first registered. Both
// properties keep "first registered wins" iteration deterministic.
//
// # Basic Usage
//
// Create a registry and register values:
//
//	r := registry.New[uint64, string]()
//	r.Register(1, "one")
//	r.Register(2, "two")
//
//	value, ok := r.Get(1)
//	if ok {
//	    fmt.Println(value) // Output: one
//	}
//
// # Ordered Iteration
//
// Range visits a snapshot in registration order, so mutations during
// iteration are safe and do not affect the current pass:
//
//	r.Range(func(key uint64, value string) bool {
//	    fmt.Println(key, value)
//	    return true // continue iteration
//	})
//
// # No Removal
//
// The registry deliberately has no Delete: it models a table that only grows
// or overwrites for the lifetime of the process. Callers needing eviction
// should use a different structure.
//
// # Thread Safety
//
// All Registry methods are safe for concurrent use.
package registry
