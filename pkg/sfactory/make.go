package sfactory

import (
	"context"
	"fmt"
	"reflect"
	"time"

	"github.com/yosriayed/sfactory/pkg/sfactory/observability"
)

// msToDuration converts a millisecond reading back to a time.Duration.
func msToDuration(ms float64) time.Duration {
	return time.Duration(ms * float64(time.Millisecond))
}

// Make produces an instance of B from the value partition matching the
// exact dynamic types of args, by key. Arguments are forwarded to the
// registered constructor as-is: a registration taking (int) does not match
// a call passing (int32), even though the conversion would be legal at the
// call site.
//
// Returns ErrNotFound (wrapped) when no entry matches key and signature.
// A constructor failure is returned verbatim.
func (f *Factory[B, K]) Make(key K, args ...any) (B, error) {
	return assertResult[B](f.makeByKey(modeValue, key, args))
}

// MakePtr produces a caller-owned instance of B from the raw partition.
// The factory retains no reference to the result; any release (such as
// Close on an io.Closer) is the caller's responsibility.
func (f *Factory[B, K]) MakePtr(key K, args ...any) (B, error) {
	return assertResult[B](f.makeByKey(modePtr, key, args))
}

// MakeShared produces a shared-ownership handle over a fresh instance of B.
func (f *Factory[B, K]) MakeShared(key K, args ...any) (*Shared[B], error) {
	return assertResult[*Shared[B]](f.makeByKey(modeShared, key, args))
}

// MakeUnique produces an exclusive-ownership handle over a fresh instance of B.
func (f *Factory[B, K]) MakeUnique(key K, args ...any) (*Unique[B], error) {
	return assertResult[*Unique[B]](f.makeByKey(modeUnique, key, args))
}

// makeByKey hashes the key and runs a direct lookup-and-invoke.
func (f *Factory[B, K]) makeByKey(m mode, key K, args []any) (any, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.makeLocked(m, f.hash(key), fmt.Sprint(key), args)
}

// makeLocked is the direct creation path shared by every Make* operation:
// point lookup in the (mode, signature) partition, then constructor
// invocation under the facade lock. Caller holds f.mu.
func (f *Factory[B, K]) makeLocked(m mode, hash uint64, keyStr string, args []any) (any, error) {
	done := observability.TimedOperation()

	sig := f.sigOfArgs(args)
	part, ok := f.lookupPartition(m, sig)
	if !ok {
		err := &OpError{Op: "make", Mode: m.String(), Key: keyStr, Err: ErrNotFound}
		observability.LogCreationError(f.logger, m.String(), keyStr, err)
		f.metrics.RecordCreation(context.Background(), m.String(), 0, err)
		return nil, err
	}
	ctor, ok := part.Get(hash)
	if !ok {
		err := &OpError{Op: "make", Mode: m.String(), Key: keyStr, Err: ErrNotFound}
		observability.LogCreationError(f.logger, m.String(), keyStr, err)
		f.metrics.RecordCreation(context.Background(), m.String(), 0, err)
		return nil, err
	}

	res, err := ctor.invoke(args)
	elapsed := done()
	f.metrics.RecordCreation(context.Background(), m.String(), msToDuration(elapsed), err)
	if err != nil {
		observability.LogCreationError(f.logger, m.String(), keyStr, err)
		return nil, err
	}
	observability.LogCreation(f.logger, m.String(), keyStr, elapsed)
	return res, nil
}

// assertResult narrows a boxed creation result to the mode's return shape.
func assertResult[T any](res any, err error) (T, error) {
	var zero T
	if err != nil {
		return zero, err
	}
	v, ok := res.(T)
	if !ok {
		// Only reachable if a stored closure violated its partition's
		// contract; surfaced rather than panicking.
		return zero, fmt.Errorf("sfactory: %w", ErrWrongConcreteType)
	}
	return v, nil
}

// MakeOf produces an instance of B from the value partition, addressed by
// C's type identity instead of a caller-supplied key. The concrete type
// must have been registered with RegisterTypeOf (or under the same derived
// key).
func MakeOf[C any, B any, K comparable](f *Factory[B, K], args ...any) (B, error) {
	res, err := makeByType[C](f, modeValue, args)
	return assertResult[B](res, err)
}

// MakePtrOf produces a caller-owned instance addressed by C's type identity,
// returned as *C. If the entry under C's type key produced an instance of a
// different concrete type, ErrWrongConcreteType is returned (the source of
// undefined behavior in a blind downcast, made observable).
func MakePtrOf[C any, B any, K comparable](f *Factory[B, K], args ...any) (*C, error) {
	res, err := makeByType[C](f, modePtr, args)
	if err != nil {
		return nil, err
	}
	b, err := assertResult[B](res, nil)
	if err != nil {
		return nil, err
	}
	c, ok := any(b).(*C)
	if !ok {
		return nil, &OpError{Op: "make", Mode: modePtr.String(), Key: reflect.TypeFor[C]().String(),
			Err: ErrWrongConcreteType}
	}
	return c, nil
}

// MakeSharedOf produces a shared-ownership handle addressed by C's type
// identity, rebound to the concrete view *Shared[*C]. The view shares
// ownership state with the handle the registration produced.
func MakeSharedOf[C any, B any, K comparable](f *Factory[B, K], args ...any) (*Shared[*C], error) {
	res, err := makeByType[C](f, modeShared, args)
	if err != nil {
		return nil, err
	}
	h, err := assertResult[*Shared[B]](res, nil)
	if err != nil {
		return nil, err
	}
	view, ok := sharedViewAs[*C](h)
	if !ok {
		_ = h.Close() // release the freshly built instance
		return nil, &OpError{Op: "make", Mode: modeShared.String(), Key: reflect.TypeFor[C]().String(),
			Err: ErrWrongConcreteType}
	}
	return view, nil
}

// MakeUniqueOf produces an exclusive-ownership handle addressed by C's type
// identity, rebound to the concrete view *Unique[*C]. Ownership transfers
// out of the handle the registration produced, mirroring a release-and-recast.
func MakeUniqueOf[C any, B any, K comparable](f *Factory[B, K], args ...any) (*Unique[*C], error) {
	res, err := makeByType[C](f, modeUnique, args)
	if err != nil {
		return nil, err
	}
	u, err := assertResult[*Unique[B]](res, nil)
	if err != nil {
		return nil, err
	}
	b, ok := u.Release()
	if !ok {
		return nil, &OpError{Op: "make", Mode: modeUnique.String(), Key: reflect.TypeFor[C]().String(),
			Err: ErrWrongConcreteType}
	}
	c, ok := any(b).(*C)
	if !ok {
		_ = closeValue(b)
		return nil, &OpError{Op: "make", Mode: modeUnique.String(), Key: reflect.TypeFor[C]().String(),
			Err: ErrWrongConcreteType}
	}
	return newUnique(c), nil
}

// makeByType runs a direct creation addressed by C's type-identity hash.
func makeByType[C any, B any, K comparable](f *Factory[B, K], m mode, args []any) (any, error) {
	cT := reflect.TypeFor[C]()
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.makeLocked(m, typeKeyHash(cT), cT.String(), args)
}
