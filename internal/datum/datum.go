// Package datum implements the value model: the tagged datum a tile
// or the accumulator can hold (spec §3 "Datum", §4.1), plus the Floor
// it lives on. Mirrors the teacher's internal/vm.Value shape (a
// narrow interface with a handful of concrete implementers) rather
// than a Rust-style closed enum, since Go has no sum types.
package datum

import (
	"fmt"

	hrmerrors "hrmopt/internal/errors"
)

// Datum is either a Number or a Letter. The interface is sealed by an
// unexported method so no other package can introduce a third case.
type Datum interface {
	fmt.Stringer
	datum()
}

// Number is an integer in [-999, 999].
type Number int16

func (Number) datum() {}

func (n Number) String() string { return fmt.Sprintf("%d", int16(n)) }

// Letter is an uppercase ASCII letter.
type Letter byte

func (Letter) datum() {}

func (l Letter) String() string { return fmt.Sprintf("'%c'", byte(l)) }

// NewNumber validates the range invariant from spec §3.
func NewNumber(n int) (Datum, error) {
	if n < -999 || n > 999 {
		return nil, hrmerrors.ErrOverflow
	}
	return Number(n), nil
}

// NewLetter validates that c is an uppercase ASCII letter.
func NewLetter(c byte) (Datum, error) {
	if c < 'A' || c > 'Z' {
		return nil, fmt.Errorf("datum: %q is not an uppercase letter", c)
	}
	return Letter(c), nil
}

// Add implements the ADD instruction's operand semantics: both
// operands must be numbers.
func Add(acc, tile Datum) (Datum, error) {
	a, aok := acc.(Number)
	b, bok := tile.(Number)
	if !aok || !bok {
		return nil, hrmerrors.ErrLetterMath
	}
	return NewNumber(int(a) + int(b))
}

// Sub implements the SUB instruction. Number-Number and Letter-Letter
// are both defined (the latter yields the numeric difference of code
// points); Number-Letter and Letter-Number are not.
func Sub(acc, tile Datum) (Datum, error) {
	switch a := acc.(type) {
	case Number:
		b, ok := tile.(Number)
		if !ok {
			return nil, hrmerrors.ErrLetterMath
		}
		return NewNumber(int(a) - int(b))
	case Letter:
		b, ok := tile.(Letter)
		if !ok {
			return nil, hrmerrors.ErrLetterMath
		}
		return NewNumber(int(a) - int(b))
	default:
		return nil, hrmerrors.ErrLetterMath
	}
}

// Bump adds delta (+1 or -1) to a number tile, failing on a letter or
// on crossing the range boundary.
func Bump(tile Datum, delta int) (Datum, error) {
	n, ok := tile.(Number)
	if !ok {
		return nil, hrmerrors.ErrLetterMath
	}
	return NewNumber(int(n) + delta)
}

// Floor is a fixed-length sequence of tiles; a nil entry is an empty
// tile (spec §3 "Memory tile"). Using the Datum interface's own nil
// as the empty marker avoids a separate Option-shaped wrapper type.
type Floor []Datum

// NewFloor returns a floor of the given length with every tile empty.
func NewFloor(length int) Floor {
	return make(Floor, length)
}

// Clone returns an independent copy, used by the simulator to avoid
// mutating a Program's initial image across runs (spec §5).
func (f Floor) Clone() Floor {
	out := make(Floor, len(f))
	copy(out, f)
	return out
}

// Get bounds-checks and returns the tile at i.
func (f Floor) Get(i int) (Datum, error) {
	if i < 0 || i >= len(f) {
		return nil, hrmerrors.ErrBadTileAddress
	}
	return f[i], nil
}

// Set bounds-checks and writes the tile at i.
func (f Floor) Set(i int, d Datum) error {
	if i < 0 || i >= len(f) {
		return hrmerrors.ErrBadTileAddress
	}
	f[i] = d
	return nil
}

// Equal is structural equality, used by tests, including those that
// compare simulator outputs before and after optimization.
func Equal(a, b Datum) bool {
	switch av := a.(type) {
	case Number:
		bv, ok := b.(Number)
		return ok && av == bv
	case Letter:
		bv, ok := b.(Letter)
		return ok && av == bv
	default:
		return a == nil && b == nil
	}
}
