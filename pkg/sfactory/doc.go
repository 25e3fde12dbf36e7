/*
Package sfactory provides a generic keyed object-creation factory.

# Overview

A Factory[B, K] lets packages register named or type-keyed constructors for
concrete types related to a common base B, then produce instances of B by
key without the call site ever naming the concrete type. One factory serves
four ownership modes simultaneously, each backed by its own partition of
registrations:

  - value:  Make returns B itself (for non-interface bases that concrete
    types convert into)
  - ptr:    MakePtr returns a caller-owned B (for interface bases)
  - shared: MakeShared returns a reference-counted *Shared[B]
  - unique: MakeUnique returns an exclusive *Unique[B]

Registering a concrete type against an interface base populates the ptr,
shared, and unique partitions at once, with three independent constructors
that each allocate a fresh instance.

# Basic Usage

Register concrete types under keys, then create by key:

	type Shape interface {
	    Area() float64
	}

	type Circle struct{ Radius float64 }

	func (c *Circle) Area() float64 { return math.Pi * c.Radius * c.Radius }

	func main() {
	    shapes := sfactory.New[Shape, string]()

	    _ = sfactory.RegisterType[Circle](shapes, "circle")
	    _ = shapes.RegisterFunc("circle/2", func(r float64) *Circle {
	        return &Circle{Radius: r}
	    })

	    s, err := shapes.MakePtr("circle/2", 2.0)
	    if err != nil {
	        log.Fatal(err)
	    }
	    fmt.Println(s.Area())
	}

# Constructor Functions

RegisterFunc accepts any non-variadic function returning T or (T, error).
The return type selects the partition; the parameter types form the exact
argument signature creation calls must match. There is no coercion: a
constructor registered as func(int) is not reachable by a call passing an
int32, and a constructor declaring an interface parameter is not reachable
at all, because arguments match by their dynamic types. Pass concrete types
on both sides.

# Type-Keyed Registration

RegisterTypeOf registers a concrete type under a key derived from its own
type identity, and the Make*Of functions create by naming the type instead
of a key:

	_ = sfactory.RegisterTypeOf[Circle](shapes)

	c, err := sfactory.MakePtrOf[Circle](shapes) // *Circle, not Shape

The Make*Of functions also narrow the result to the concrete type, and
report ErrWrongConcreteType if the entry under that type key produced
something else.

# Fallback Creation

The TryMake family walks every registration in the matching partition in
registration order and returns the first success, suppressing earlier
failures. If all candidates fail, the last failure is returned. With no
candidates at all, TryMake returns B's zero value (value mode) and the
handle modes report ErrNoValidRegistration.

# Ownership

The factory retains no reference to anything it creates. Raw results are
owned by the caller alone. Shared and Unique handles close the underlying
instance, if it implements io.Closer, when the last owner releases it.

# Thread Safety

All operations on a Factory are safe for concurrent use. A single mutex
serializes every operation, including the registered constructor's
execution, so a blocking constructor stalls other traffic on the same
factory. Distinct factories are fully independent. The registry only grows
or overwrites; nothing is ever deregistered.
*/
package sfactory
