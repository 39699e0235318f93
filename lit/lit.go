package lit

import "fmt"

// Undef is the absent literal, used for unconditional arcs and mandatory
// variables.
const Undef = Lit(-1)

// Lit is a literal represented by an integer. The sign of the literal is
// represented by the least significant bit, and the variable is obtained by
// performing a right bit shift. This encoding makes L and ~L adjacent, so a
// literal can index dense per-literal tables directly through Slot().
type Lit int

// New returns a new literal given a 0-index variable, v, and whether the
// literal is negative.
func New(v int, neg bool) Lit {
	if neg {
		return Lit(v + v + 1)
	}
	return Lit(v + v)
}

// Not negates a literal.
func (l Lit) Not() Lit {
	return Lit(l ^ 1)
}

// Sign returns true if the literal is negative.
func (l Lit) Sign() bool {
	return l&1 == 1
}

// Index returns the literal's 0-indexed variable.
func (l Lit) Index() int {
	return int(l >> 1)
}

// Slot returns the position of the literal in a table holding both polarities
// of every variable.
func (l Lit) Slot() int {
	return int(l)
}

// Defined returns false for Undef.
func (l Lit) Defined() bool {
	return l >= 0
}

// String implements the Stringer interface.
func (l Lit) String() string {
	switch {
	case l == Undef:
		return "undef"
	case l.Sign():
		return fmt.Sprintf("~b%d", l.Index())
	default:
		return fmt.Sprintf("b%d", l.Index())
	}
}
