package sfactory

import (
	"context"

	"github.com/yosriayed/sfactory/pkg/sfactory/observability"
)

// TryMake enumerates every value-partition entry matching the exact dynamic
// types of args, in registration order, and returns the first result whose
// constructor did not fail. Failures of earlier candidates are suppressed;
// if every candidate fails, the last failure is returned.
//
// With no matching registrations at all, TryMake returns the zero value of
// B with a nil error: every Go type is default-constructible via its zero
// value, so the empty-partition case always produces a default instance.
func (f *Factory[B, K]) TryMake(args ...any) (B, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	done := observability.TimedOperation()
	res, found, attempts, lastErr := f.tryLocked(modeValue, args, false)
	switch {
	case found:
		f.observeTry(modeValue, attempts, true, done())
		return assertResult[B](res, nil)
	case lastErr != nil:
		f.observeTry(modeValue, attempts, false, done())
		var zero B
		return zero, lastErr
	default:
		// Empty partition: default-construct the base.
		f.observeTry(modeValue, attempts, true, done())
		var zero B
		return zero, nil
	}
}

// TryMakePtr is TryMake against the raw partition. A candidate succeeds only
// if its constructor returned a non-nil instance without failing; nil
// results are skipped like failures. With no registrations (or an empty
// partition), ErrNoValidRegistration is returned.
func (f *Factory[B, K]) TryMakePtr(args ...any) (B, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	res, err := f.tryHandleLocked(modePtr, args)
	return assertResult[B](res, err)
}

// TryMakeShared is TryMakePtr against the shared partition.
func (f *Factory[B, K]) TryMakeShared(args ...any) (*Shared[B], error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	res, err := f.tryHandleLocked(modeShared, args)
	return assertResult[*Shared[B]](res, err)
}

// TryMakeUnique is TryMakePtr against the unique partition.
func (f *Factory[B, K]) TryMakeUnique(args ...any) (*Unique[B], error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	res, err := f.tryHandleLocked(modeUnique, args)
	return assertResult[*Unique[B]](res, err)
}

// tryLocked walks the (m, signature) partition in registration order,
// invoking each constructor until one succeeds. When requireNonNil is set,
// a nil result counts as a miss rather than a success. It returns the first
// successful boxed result, whether one was found, the number of
// constructors attempted, and the most recent failure. Caller holds f.mu.
func (f *Factory[B, K]) tryLocked(m mode, args []any, requireNonNil bool) (res any, found bool, attempts int, lastErr error) {
	sig := f.sigOfArgs(args)
	part, ok := f.lookupPartition(m, sig)
	if !ok {
		return nil, false, 0, nil
	}

	part.Range(func(_ uint64, c constructor) bool {
		attempts++
		out, err := c.invoke(args)
		if err != nil {
			lastErr = err
			return true
		}
		if requireNonNil && isNilResult(out) {
			return true
		}
		res = out
		found = true
		return false
	})
	return res, found, attempts, lastErr
}

// tryHandleLocked is the fallback path shared by the three handle modes:
// the first success with a non-nil handle wins, an exhausted partition
// reproduces its last failure, and an empty partition reports
// ErrNoValidRegistration. Caller holds f.mu.
func (f *Factory[B, K]) tryHandleLocked(m mode, args []any) (any, error) {
	done := observability.TimedOperation()
	res, found, attempts, lastErr := f.tryLocked(m, args, true)
	switch {
	case found:
		f.observeTry(m, attempts, true, done())
		return res, nil
	case lastErr != nil:
		f.observeTry(m, attempts, false, done())
		return nil, lastErr
	default:
		f.observeTry(m, attempts, false, done())
		return nil, &OpError{Op: "try", Mode: m.String(), Err: ErrNoValidRegistration}
	}
}

// observeTry emits the fallback log line and metric. Caller holds f.mu.
func (f *Factory[B, K]) observeTry(m mode, attempts int, success bool, durationMs float64) {
	observability.LogFallback(f.logger, m.String(), attempts, success, durationMs)
	f.metrics.RecordFallback(context.Background(), m.String(), attempts, success)
}
