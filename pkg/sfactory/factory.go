package sfactory

import (
	"fmt"
	"log/slog"
	"reflect"
	"strconv"
	"strings"
	"sync"

	"github.com/cespare/xxhash/v2"

	"github.com/yosriayed/sfactory/pkg/sfactory/observability"
	"github.com/yosriayed/sfactory/pkg/sfactory/registry"
)

// mode is an ownership mode: the kind of handle a creation call returns.
type mode uint8

const (
	modeValue mode = iota
	modePtr
	modeShared
	modeUnique
)

// String returns the mode name used in errors, logs, and metrics.
func (m mode) String() string {
	switch m {
	case modeValue:
		return "value"
	case modePtr:
		return "ptr"
	case modeShared:
		return "shared"
	case modeUnique:
		return "unique"
	default:
		return "unknown"
	}
}

// constructor is a type-erased closure stored in a partition. invoke returns
// the partition's result shape (B, *Shared[B], or *Unique[B]) boxed in any.
type constructor struct {
	invoke func(args []any) (any, error)
	// produces is the constructor's declared result type, for diagnostics.
	produces reflect.Type
}

// partitionKey addresses one (ownership mode, argument signature) partition.
type partitionKey struct {
	mode mode
	sig  string
}

// Factory is a keyed object-creation registry for a base type B addressed by
// keys of type K. Concrete constructors are registered under a key (or under
// their type identity) and instances are later produced by key, without the
// call site naming the concrete type.
//
// If B is an interface type, registrations populate the raw, shared, and
// unique partition families; if B is a non-interface type, registrations
// populate the value family. See the package documentation for the full
// contract.
//
// A Factory is safe for concurrent use. One mutex serializes every public
// operation, including the invocation of the registered constructor, so a
// blocking constructor stalls all other traffic on the same factory.
// Separate Factory instances are fully independent.
type Factory[B any, K comparable] struct {
	mu         sync.Mutex
	hash       func(K) uint64
	partitions map[partitionKey]*registry.Registry[uint64, constructor]

	// typeIDs interns reflect.Types into small stable ids used to build
	// exact argument signatures. id 0 is reserved for "no type" (untyped
	// nil arguments), which never matches a registration.
	typeIDs    map[reflect.Type]uint64
	nextTypeID uint64

	logger  *slog.Logger
	metrics observability.Recorder
}

// New creates an empty factory for base type B and key type K.
//
// Configuration is chainable:
//
//	f := sfactory.New[Shape, string]().
//	    WithLogger(logger).
//	    WithMetrics(observability.NewRecorder())
func New[B any, K comparable]() *Factory[B, K] {
	return &Factory[B, K]{
		hash:       defaultHash[K],
		partitions: make(map[partitionKey]*registry.Registry[uint64, constructor]),
		typeIDs:    make(map[reflect.Type]uint64),
		nextTypeID: 1,
		metrics:    observability.NoopRecorder{},
	}
}

// WithHash replaces the key hash function. The default hashes the key's
// fmt representation with xxhash. A nil fn is ignored.
func (f *Factory[B, K]) WithHash(fn func(K) uint64) *Factory[B, K] {
	if fn != nil {
		f.mu.Lock()
		f.hash = fn
		f.mu.Unlock()
	}
	return f
}

// WithLogger attaches a structured logger for registration and creation
// events. A nil logger disables logging (the default).
func (f *Factory[B, K]) WithLogger(logger *slog.Logger) *Factory[B, K] {
	f.mu.Lock()
	f.logger = logger
	f.mu.Unlock()
	return f
}

// WithMetrics attaches a metrics recorder. The default is a no-op recorder.
// A nil recorder is ignored.
func (f *Factory[B, K]) WithMetrics(rec observability.Recorder) *Factory[B, K] {
	if rec != nil {
		f.mu.Lock()
		f.metrics = rec
		f.mu.Unlock()
	}
	return f
}

// Count returns the total number of registrations across all partitions.
// A concrete type registered against an interface base counts once per
// partition it populates.
func (f *Factory[B, K]) Count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, part := range f.partitions {
		n += part.Len()
	}
	return n
}

// defaultHash hashes a key's fmt representation with xxhash.
func defaultHash[K comparable](key K) uint64 {
	return xxhash.Sum64String(fmt.Sprint(key))
}

// typeKeyHash derives the registration hash for type-keyed entries from the
// concrete type's identity. It shares the 64-bit keyspace with key hashes.
func typeKeyHash(t reflect.Type) uint64 {
	return xxhash.Sum64String(t.PkgPath() + "|" + t.String())
}

// typeID interns t, assigning a fresh id on first sight. Caller holds f.mu.
func (f *Factory[B, K]) typeID(t reflect.Type) uint64 {
	if id, ok := f.typeIDs[t]; ok {
		return id
	}
	id := f.nextTypeID
	f.nextTypeID++
	f.typeIDs[t] = id
	return id
}

// sigOfTypes builds the canonical signature for declared parameter types.
// Caller holds f.mu.
func (f *Factory[B, K]) sigOfTypes(types []reflect.Type) string {
	if len(types) == 0 {
		return ""
	}
	var b strings.Builder
	for _, t := range types {
		b.WriteString(strconv.FormatUint(f.typeID(t), 36))
		b.WriteByte(',')
	}
	return b.String()
}

// sigOfArgs builds the canonical signature from the dynamic types of call
// arguments. Matching is by exact type identity: no conversions, no
// interface satisfaction. An untyped nil argument has no dynamic type and
// yields a signature no registration can carry. Caller holds f.mu.
func (f *Factory[B, K]) sigOfArgs(args []any) string {
	if len(args) == 0 {
		return ""
	}
	var b strings.Builder
	for _, a := range args {
		t := reflect.TypeOf(a)
		if t == nil {
			b.WriteString("0,")
			continue
		}
		b.WriteString(strconv.FormatUint(f.typeID(t), 36))
		b.WriteByte(',')
	}
	return b.String()
}

// partition returns the registry for (m, sig), creating it lazily.
// Partitions persist for the lifetime of the factory. Caller holds f.mu.
func (f *Factory[B, K]) partition(m mode, sig string) *registry.Registry[uint64, constructor] {
	pk := partitionKey{mode: m, sig: sig}
	part, ok := f.partitions[pk]
	if !ok {
		part = registry.New[uint64, constructor]()
		f.partitions[pk] = part
	}
	return part
}

// lookupPartition returns the registry for (m, sig) if it exists, without
// creating it. Caller holds f.mu.
func (f *Factory[B, K]) lookupPartition(m mode, sig string) (*registry.Registry[uint64, constructor], bool) {
	part, ok := f.partitions[partitionKey{mode: m, sig: sig}]
	return part, ok
}

// isNilResult reports whether a boxed creation result is absent: either nil
// itself or a nil pointer/map/slice/chan/func boxed in an interface.
func isNilResult(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Chan, reflect.Func, reflect.Interface, reflect.UnsafePointer:
		return rv.IsNil()
	default:
		return false
	}
}
