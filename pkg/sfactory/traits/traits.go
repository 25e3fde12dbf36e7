// Package traits holds the capability predicates that decide which
// ownership modes a concrete type qualifies for against a factory base type.
//
// All predicates are pure functions over reflect.Type values with no state.
// A polymorphic base is an interface type; a value base is any non-interface
// type that concrete types convert into.
package traits

import "reflect"

// ValueEligible reports whether t can be registered against base in value
// mode: base is a non-interface type and t is convertible to it.
func ValueEligible(base, t reflect.Type) bool {
	if base == nil || t == nil {
		return false
	}
	if base.Kind() == reflect.Interface {
		return false
	}
	return t.ConvertibleTo(base)
}

// PointerEligible reports whether t can be registered against base in the
// pointer-family modes: base is an interface type satisfied by t or by *t.
func PointerEligible(base, t reflect.Type) bool {
	if base == nil || t == nil {
		return false
	}
	if base.Kind() != reflect.Interface {
		return false
	}
	return t.Implements(base) || reflect.PointerTo(t).Implements(base)
}

// Related reports whether t has any registrable relationship to base.
// A type that is neither convertible to a value base nor a satisfier of an
// interface base can never be registered.
func Related(base, t reflect.Type) bool {
	return ValueEligible(base, t) || PointerEligible(base, t)
}

// ValueEligibleFor is the generic form of ValueEligible.
func ValueEligibleFor[B, T any]() bool {
	return ValueEligible(reflect.TypeFor[B](), reflect.TypeFor[T]())
}

// PointerEligibleFor is the generic form of PointerEligible.
func PointerEligibleFor[B, T any]() bool {
	return PointerEligible(reflect.TypeFor[B](), reflect.TypeFor[T]())
}

// RelatedTo is the generic form of Related.
func RelatedTo[B, T any]() bool {
	return Related(reflect.TypeFor[B](), reflect.TypeFor[T]())
}
