package sfactory

import (
	"errors"
	"fmt"
)

// Sentinel errors for registration.
var (
	// ErrUnrelatedType indicates an attempt to register a type that is
	// neither convertible to a value base nor a satisfier of an interface base.
	ErrUnrelatedType = errors.New("type is not related to the factory base type")

	// ErrInvalidConstructor indicates RegisterFunc was given something other
	// than a non-variadic function returning T or (T, error) with a supported
	// return type.
	ErrInvalidConstructor = errors.New("unsupported constructor shape")
)

// Sentinel errors for creation.
var (
	// ErrNotFound indicates a direct Make* call found no entry for the
	// key, argument signature, and ownership mode. Absence is always an
	// error, for every mode; a nil result with a nil error is never produced.
	ErrNotFound = errors.New("registration not found")

	// ErrNoValidRegistration indicates a TryMake* call exhausted an empty
	// handle-mode partition.
	ErrNoValidRegistration = errors.New("no valid registration found")

	// ErrWrongConcreteType indicates a type-keyed Make*Of[C] call found an
	// entry under C's type key, but it produced an instance of a different
	// concrete type.
	ErrWrongConcreteType = errors.New("registration produced a different concrete type")
)

// OpError wraps a failed factory operation with the ownership mode and the
// key (or type name, for type-keyed operations) it was addressed to.
type OpError struct {
	// Op is the operation that failed ("register", "make", "try").
	Op string
	// Mode is the ownership mode ("value", "ptr", "shared", "unique").
	Mode string
	// Key is the formatted registration key, or the concrete type name for
	// type-keyed operations.
	Key string
	// Err is the underlying error.
	Err error
}

// Error implements the error interface.
func (e *OpError) Error() string {
	if e.Key == "" {
		return fmt.Sprintf("sfactory: %s %s: %v", e.Op, e.Mode, e.Err)
	}
	return fmt.Sprintf("sfactory: %s %s %q: %v", e.Op, e.Mode, e.Key, e.Err)
}

// Unwrap returns the underlying error for errors.Is/As support.
func (e *OpError) Unwrap() error {
	return e.Err
}
