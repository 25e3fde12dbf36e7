package sfactory

import (
	"context"
	"fmt"
	"reflect"

	"github.com/yosriayed/sfactory/pkg/sfactory/observability"
	"github.com/yosriayed/sfactory/pkg/sfactory/traits"
)

var errType = reflect.TypeFor[error]()

// RegisterFunc registers an arbitrary constructor function under key.
//
// ctor must be a non-variadic function returning RT or (RT, error). RT
// selects exactly one partition:
//
//   - *Shared[B]                      -> shared partition
//   - *Unique[B]                      -> unique partition
//   - assignable to interface B      -> raw partition (this covers both
//     functions returning B and functions returning a concrete *C that
//     satisfies B)
//   - convertible to non-interface B -> value partition
//
// Any other return shape is rejected with ErrInvalidConstructor. The
// function's parameter types form the exact argument signature later
// creation calls must match.
//
// Registering a different constructor under an already-used key within the
// same partition overwrites the prior entry; this is not an error.
func (f *Factory[B, K]) RegisterFunc(key K, ctor any) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.registerFunc(f.hash(key), fmt.Sprint(key), ctor)
}

// registerFunc validates ctor, infers its partition, and installs the
// type-erased closure. Caller holds f.mu.
func (f *Factory[B, K]) registerFunc(hash uint64, keyStr string, ctor any) error {
	reject := func(cause error) error {
		err := &OpError{Op: "register", Mode: "func", Key: keyStr, Err: cause}
		observability.LogRegistrationError(f.logger, "func", keyStr, err)
		return err
	}

	fv := reflect.ValueOf(ctor)
	if !fv.IsValid() || fv.Kind() != reflect.Func {
		return reject(fmt.Errorf("not a function: %w", ErrInvalidConstructor))
	}
	ft := fv.Type()
	if ft.IsVariadic() {
		return reject(fmt.Errorf("variadic constructors have no exact signature: %w", ErrInvalidConstructor))
	}
	switch ft.NumOut() {
	case 1:
	case 2:
		if ft.Out(1) != errType {
			return reject(fmt.Errorf("second return value must be error: %w", ErrInvalidConstructor))
		}
	default:
		return reject(fmt.Errorf("constructor must return T or (T, error): %w", ErrInvalidConstructor))
	}

	bT := reflect.TypeFor[B]()
	rt := ft.Out(0)

	var m mode
	var convertResult bool
	switch {
	case rt == reflect.TypeFor[*Shared[B]]():
		m = modeShared
	case rt == reflect.TypeFor[*Unique[B]]():
		m = modeUnique
	case bT.Kind() == reflect.Interface && rt.AssignableTo(bT):
		m = modePtr
	case bT.Kind() != reflect.Interface && rt.ConvertibleTo(bT):
		m = modeValue
		convertResult = rt != bT
	default:
		return reject(fmt.Errorf("return type %s matches no ownership mode of base %s: %w",
			rt, bT, ErrInvalidConstructor))
	}

	ins := make([]reflect.Type, ft.NumIn())
	for i := range ins {
		ins[i] = ft.In(i)
	}
	sig := f.sigOfTypes(ins)

	hasErr := ft.NumOut() == 2
	invoke := func(args []any) (any, error) {
		in := make([]reflect.Value, len(args))
		for i, a := range args {
			in[i] = reflect.ValueOf(a)
		}
		out := fv.Call(in)
		if hasErr && !out[1].IsNil() {
			return nil, out[1].Interface().(error)
		}
		res := out[0]
		if convertResult {
			res = res.Convert(bT)
		}
		return res.Interface(), nil
	}

	f.partition(m, sig).Register(hash, constructor{invoke: invoke, produces: rt})

	observability.LogRegistration(f.logger, m.String(), keyStr)
	f.metrics.RecordRegistration(context.Background(), m.String())
	return nil
}

// RegisterType registers synthesized zero-argument constructors for the
// concrete type C under key, populating every partition C qualifies for.
//
// Against an interface base B, a fresh *C (or zero C, when C itself
// satisfies B but *C does not make sense, e.g. C is already a pointer type)
// is allocated per creation call, and the raw, shared, and unique partitions
// are populated simultaneously with three independent constructors. Against
// a non-interface base B, the value partition receives a constructor
// converting C's zero value to B.
//
// A type with no relation to B is rejected with ErrUnrelatedType.
// Constructors taking arguments are registered through RegisterFunc.
func RegisterType[C any, B any, K comparable](f *Factory[B, K], key K) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return registerType[C](f, f.hash(key), fmt.Sprint(key))
}

// RegisterTypeOf is RegisterType with the key derived from C's type
// identity instead of a caller-supplied key. Instances are later produced
// with the type-keyed creation functions (MakeOf, MakePtrOf, ...).
func RegisterTypeOf[C any, B any, K comparable](f *Factory[B, K]) error {
	cT := reflect.TypeFor[C]()
	f.mu.Lock()
	defer f.mu.Unlock()
	return registerType[C](f, typeKeyHash(cT), cT.String())
}

// registerType synthesizes and installs zero-argument constructors for C.
// Caller holds f.mu.
func registerType[C any, B any, K comparable](f *Factory[B, K], hash uint64, keyStr string) error {
	bT := reflect.TypeFor[B]()
	cT := reflect.TypeFor[C]()
	sig := f.sigOfTypes(nil)

	switch {
	case traits.ValueEligible(bT, cT):
		invoke := func([]any) (any, error) {
			return reflect.Zero(cT).Convert(bT).Interface(), nil
		}
		f.partition(modeValue, sig).Register(hash, constructor{invoke: invoke, produces: cT})

		observability.LogRegistration(f.logger, modeValue.String(), keyStr)
		f.metrics.RecordRegistration(context.Background(), modeValue.String())
		return nil

	case traits.PointerEligible(bT, cT):
		// Prefer a heap-allocated *C; fall back to a zero C for types whose
		// value form already satisfies B while *C does not.
		usePtr := reflect.PointerTo(cT).Implements(bT)
		alloc := func() (B, error) {
			var inst any
			if usePtr {
				inst = new(C)
			} else {
				var c C
				inst = c
			}
			b, ok := inst.(B)
			if !ok {
				var zero B
				return zero, fmt.Errorf("sfactory: instance of %s does not satisfy %s: %w", cT, bT, ErrUnrelatedType)
			}
			return b, nil
		}

		produces := cT
		if usePtr {
			produces = reflect.PointerTo(cT)
		}
		f.partition(modePtr, sig).Register(hash, constructor{
			invoke: func([]any) (any, error) {
				return alloc()
			},
			produces: produces,
		})
		f.partition(modeShared, sig).Register(hash, constructor{
			invoke: func([]any) (any, error) {
				b, err := alloc()
				if err != nil {
					return nil, err
				}
				return newShared(b), nil
			},
			produces: produces,
		})
		f.partition(modeUnique, sig).Register(hash, constructor{
			invoke: func([]any) (any, error) {
				b, err := alloc()
				if err != nil {
					return nil, err
				}
				return newUnique(b), nil
			},
			produces: produces,
		})

		for _, m := range []mode{modePtr, modeShared, modeUnique} {
			observability.LogRegistration(f.logger, m.String(), keyStr)
			f.metrics.RecordRegistration(context.Background(), m.String())
		}
		return nil

	default:
		err := &OpError{Op: "register", Mode: "type", Key: keyStr,
			Err: fmt.Errorf("%s against base %s: %w", cT, bT, ErrUnrelatedType)}
		observability.LogRegistrationError(f.logger, "type", keyStr, err)
		return err
	}
}
