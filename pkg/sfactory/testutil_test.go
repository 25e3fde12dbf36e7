package sfactory

import "fmt"

// shape is the polymorphic base used across the pointer-mode tests.
type shape interface {
	Name() string
}

type circle struct {
	Radius float64
}

func (c *circle) Name() string { return "circle" }

type square struct {
	Side float64
}

func (s *square) Name() string { return "square" }

// conn is a closable shape for ownership-handle tests.
type conn struct {
	addr   string
	closed bool
}

func (c *conn) Name() string { return "conn:" + c.addr }

func (c *conn) Close() error {
	if c.closed {
		return fmt.Errorf("already closed")
	}
	c.closed = true
	return nil
}

// unrelated satisfies nothing and converts to nothing.
type unrelated struct{}

// amount is the value-mode base; fee and tax convert into it.
type amount float64

type fee float64

type tax float64

func newShapeFactory() *Factory[shape, string] {
	return New[shape, string]()
}

func newAmountFactory() *Factory[amount, string] {
	return New[amount, string]()
}
