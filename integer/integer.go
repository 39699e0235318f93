// Package integer holds the handles shared by the bound store and the
// propagators built on top of it: integer variables, the two lower-bound
// views ("quantities") each variable exposes, bound literals and reasons.
package integer

import (
	"fmt"
	"math"
)

// MaxValue is the largest magnitude a variable domain may have. It leaves
// room to negate any bound without overflow.
const MaxValue = int64(1) << 62

// Var is a dense index of an integer variable.
type Var int

// NoVar marks the absence of a variable.
const NoVar = Var(-1)

// Quantity is the lower bound of a signed view of a variable: 2v is the lower
// bound of v and 2v+1 is the lower bound of -v, which is minus the upper bound
// of v. Quantities are dense and usable as slice indices.
type Quantity int

// NoQuantity marks the absence of a quantity, e.g. an arc without a variable
// offset.
const NoQuantity = Quantity(-1)

// LowerBound returns the quantity tracking the lower bound of v.
func (v Var) LowerBound() Quantity {
	return Quantity(v + v)
}

// MinusUpperBound returns the quantity tracking the lower bound of -v.
func (v Var) MinusUpperBound() Quantity {
	return Quantity(v + v + 1)
}

// String implements the Stringer interface.
func (v Var) String() string {
	return fmt.Sprintf("x%d", int(v))
}

// Negation returns the paired quantity of the same variable.
func (q Quantity) Negation() Quantity {
	return q ^ 1
}

// Var returns the variable the quantity is a view of.
func (q Quantity) Var() Var {
	return Var(q >> 1)
}

// Negated returns true for the -v view.
func (q Quantity) Negated() bool {
	return q&1 == 1
}

// String implements the Stringer interface.
func (q Quantity) String() string {
	if q == NoQuantity {
		return "none"
	}
	if q.Negated() {
		return "-" + q.Var().String()
	}
	return q.Var().String()
}

// BoundLit is the fact lb(Q) >= Value.
type BoundLit struct {
	Q     Quantity
	Value int64
}

// GreaterOrEqual returns the bound literal q >= value.
func GreaterOrEqual(q Quantity, value int64) BoundLit {
	return BoundLit{Q: q, Value: value}
}

// String implements the Stringer interface.
func (b BoundLit) String() string {
	if b.Q.Negated() {
		return fmt.Sprintf("%s <= %d", b.Q.Var(), -b.Value)
	}
	return fmt.Sprintf("%s >= %d", b.Q.Var(), b.Value)
}

// CapAdd adds a and b, saturating at the int64 limits instead of wrapping.
func CapAdd(a, b int64) int64 {
	s := a + b
	switch {
	case b > 0 && s < a:
		return math.MaxInt64
	case b < 0 && s > a:
		return math.MinInt64
	}
	return s
}
