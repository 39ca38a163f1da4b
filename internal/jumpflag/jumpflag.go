// Package jumpflag implements the 3-bit jump-condition lattice from
// spec §3/§4.5/§4.6: the set of sign atoms {IsZero, IsNegative,
// IsPositive} a block's outgoing edge can be conditioned on, closed
// under AND/OR/NOT. Ported from the bitwise representation in
// optimize/jump_flag.rs rather than a growing case table, per the
// teacher's own preference for small closed-domain types (see
// internal/bytecode.OpCode) over ad hoc enumerations.
package jumpflag

// Flag is a 3-bit set over {IsZero, IsNegative, IsPositive}.
type Flag uint8

const (
	bitZero Flag = 1 << iota
	bitNegative
	bitPositive
)

const (
	Never         Flag = 0
	IfZero             = bitZero
	IfNegative         = bitNegative
	IfNotPositive      = bitZero | bitNegative
	IfPositive         = bitPositive
	IfNotNegative      = bitZero | bitPositive
	IfNotZero          = bitNegative | bitPositive
	Always        Flag = bitZero | bitNegative | bitPositive
)

// And is lattice intersection.
func (f Flag) And(g Flag) Flag { return f & g }

// Or is lattice union.
func (f Flag) Or(g Flag) Flag { return f | g }

// Not is complement within Always.
func (f Flag) Not() Flag { return ^f & Always }

// IsNever reports whether the flag matches no atom.
func (f Flag) IsNever() bool { return f == Never }

// IsAlways reports whether the flag matches every atom.
func (f Flag) IsAlways() bool { return f == Always }

func (f Flag) String() string {
	switch f {
	case Never:
		return "Never"
	case IfZero:
		return "IfZero"
	case IfNegative:
		return "IfNegative"
	case IfNotPositive:
		return "IfNotPositive"
	case IfPositive:
		return "IfPositive"
	case IfNotNegative:
		return "IfNotNegative"
	case IfNotZero:
		return "IfNotZero"
	case Always:
		return "Always"
	default:
		return "Flag(invalid)"
	}
}

// SignOf classifies a number's sign as the single matching atom.
// There is no letter case here deliberately: letters never appear in
// a jump-flag lattice position (see spec §3's invariant); the
// simulator's JUMPZ/JUMPN handling checks the accumulator's dynamic
// type directly instead of going through this lattice.
func SignOf(n int) Flag {
	switch {
	case n == 0:
		return IfZero
	case n < 0:
		return IfNegative
	default:
		return IfPositive
	}
}
