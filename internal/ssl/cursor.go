package ssl

import "fmt"

// Cursor tracks the scan position within a bounded range of an input string.
// A cursor belongs to a single parse invocation and must not be shared.
type Cursor struct {
	lowerBound int
	upperBound int
	pos        int
}

// NewCursor creates a cursor positioned at lowerBound.
// It panics when the bounds are negative or inverted.
func NewCursor(lowerBound, upperBound int) *Cursor {
	if lowerBound < 0 {
		panic(fmt.Sprintf("cursor: lower bound %d is negative", lowerBound))
	}

	if lowerBound > upperBound {
		panic(fmt.Sprintf("cursor: lower bound %d is greater than upper bound %d", lowerBound, upperBound))
	}

	return &Cursor{
		lowerBound: lowerBound,
		upperBound: upperBound,
		pos:        lowerBound,
	}
}

// LowerBound returns the first position the cursor may occupy.
func (c *Cursor) LowerBound() int {
	return c.lowerBound
}

// UpperBound returns the exclusive end of the scan range.
func (c *Cursor) UpperBound() int {
	return c.upperBound
}

// Pos returns the current position.
func (c *Cursor) Pos() int {
	return c.pos
}

// UpdatePos moves the cursor. It panics when pos leaves the scan range.
func (c *Cursor) UpdatePos(pos int) {
	if pos < c.lowerBound || pos > c.upperBound {
		panic(fmt.Sprintf("cursor: position %d is out of range [%d, %d]", pos, c.lowerBound, c.upperBound))
	}

	c.pos = pos
}

// AtEnd reports whether the cursor reached its upper bound.
func (c *Cursor) AtEnd() bool {
	return c.pos >= c.upperBound
}

// String returns the cursor state in "[lower>pos>upper]" form.
func (c *Cursor) String() string {
	return fmt.Sprintf("[%d>%d>%d]", c.lowerBound, c.pos, c.upperBound)
}
