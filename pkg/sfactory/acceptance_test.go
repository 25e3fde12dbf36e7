package sfactory

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestAcceptanceCriteria walks the full lifecycle on an interface base:
// register by function and by type, create in every ownership mode, and
// fall back when the key is unknown.
func TestAcceptanceCriteria(t *testing.T) {
	f := New[shape, string]()

	require.NoError(t, f.RegisterFunc("circle", func(r float64) (*circle, error) {
		if r <= 0 {
			return nil, fmt.Errorf("radius %v out of range", r)
		}
		return &circle{Radius: r}, nil
	}))
	require.NoError(t, RegisterType[square](f, "square"))

	// Keyed creation returns the base type.
	s, err := f.MakePtr("circle", 2.5)
	require.NoError(t, err, "known key with matching arguments should succeed")
	assert.Equal(t, "circle", s.Name())

	s, err = f.MakePtr("square")
	require.NoError(t, err)
	assert.Equal(t, "square", s.Name())

	// Shared and unique handles wrap the same registrations.
	sh, err := f.MakeShared("square")
	require.NoError(t, err)
	assert.Equal(t, "square", sh.Value().Name())
	require.NoError(t, sh.Close())

	uq, err := f.MakeUnique("square")
	require.NoError(t, err)
	assert.Equal(t, "square", uq.Value().Name())
	require.NoError(t, uq.Close())

	// Constructor failures surface verbatim.
	_, err = f.MakePtr("circle", -1.0)
	assert.ErrorContains(t, err, "out of range")

	// Unknown keys fail keyed creation but the fallback still finds a
	// zero-argument registration.
	_, err = f.MakePtr("triangle")
	assert.ErrorIs(t, err, ErrNotFound)

	s, err = f.TryMakePtr()
	require.NoError(t, err)
	assert.Equal(t, "square", s.Name())
}

// TestAcceptanceCriteria_ValueBase exercises the value ownership family
// on a non-interface base with convertible named types.
func TestAcceptanceCriteria_ValueBase(t *testing.T) {
	f := New[amount, string]()

	require.NoError(t, f.RegisterFunc("fee", func(v float64) fee { return fee(v * 0.05) }))
	require.NoError(t, f.RegisterFunc("tax", func(v float64) (tax, error) {
		if v < 0 {
			return 0, errors.New("negative base")
		}
		return tax(v * 0.2), nil
	}))

	a, err := f.Make("fee", 100.0)
	require.NoError(t, err)
	assert.InDelta(t, 5.0, float64(a), 1e-9)

	a, err = f.Make("tax", 100.0)
	require.NoError(t, err)
	assert.InDelta(t, 20.0, float64(a), 1e-9)

	_, err = f.Make("tax", -1.0)
	assert.ErrorContains(t, err, "negative base")

	// Arguments must match the registered signature exactly.
	_, err = f.Make("fee", 100)
	assert.ErrorIs(t, err, ErrNotFound)
}

// TestAcceptanceCriteria_TypeKeys registers and resolves constructors
// keyed by concrete type instead of a caller-chosen key.
func TestAcceptanceCriteria_TypeKeys(t *testing.T) {
	f := New[shape, uint64]()

	require.NoError(t, RegisterTypeOf[circle](f))
	require.NoError(t, RegisterTypeOf[square](f))

	c, err := MakePtrOf[circle](f)
	require.NoError(t, err)
	assert.Equal(t, 0.0, c.Radius)

	sh, err := MakeSharedOf[circle](f)
	require.NoError(t, err)
	assert.IsType(t, &circle{}, sh.Value())
	require.NoError(t, sh.Close())

	uq, err := MakeUniqueOf[square](f)
	require.NoError(t, err)
	assert.Equal(t, "square", uq.Value().Name())
	require.NoError(t, uq.Close())

	// Value bases resolve type keys through the value partition.
	vf := New[amount, uint64]()
	require.NoError(t, RegisterTypeOf[fee](vf))
	a, err := MakeOf[fee](vf)
	require.NoError(t, err)
	assert.Equal(t, amount(0), a)
}

// TestAcceptanceCriteria_Overwrite re-registers a key and confirms the
// newest constructor wins while enumeration order is preserved.
func TestAcceptanceCriteria_Overwrite(t *testing.T) {
	f := New[shape, string]()

	require.NoError(t, f.RegisterFunc("s", func() *circle { return &circle{Radius: 1} }))
	require.NoError(t, f.RegisterFunc("later", func() (*square, error) {
		return nil, errors.New("always fails")
	}))
	require.NoError(t, f.RegisterFunc("s", func() *square { return &square{Side: 9} }))

	s, err := f.MakePtr("s")
	require.NoError(t, err)
	assert.Equal(t, "square", s.Name())

	// "s" kept its original slot, so the fallback tries it before "later".
	s, err = f.TryMakePtr()
	require.NoError(t, err)
	assert.Equal(t, 9.0, s.(*square).Side)
}
