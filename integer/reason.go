package integer

import (
	"strings"

	"github.com/ericr/precedences/lit"
)

// Reason is the set of true literals and current bounds that justify a
// derived bound, a derived literal or a conflict.
type Reason struct {
	Literals []lit.Lit
	Bounds   []BoundLit
}

// Reset empties the reason while keeping its buffers.
func (r *Reason) Reset() {
	r.Literals = r.Literals[:0]
	r.Bounds = r.Bounds[:0]
}

// AddLiteral appends p unless it is lit.Undef.
func (r *Reason) AddLiteral(p lit.Lit) {
	if p.Defined() {
		r.Literals = append(r.Literals, p)
	}
}

// AddBound appends the bound q >= value unless q is NoQuantity.
func (r *Reason) AddBound(q Quantity, value int64) {
	if q != NoQuantity {
		r.Bounds = append(r.Bounds, GreaterOrEqual(q, value))
	}
}

// Clone returns a copy that does not share buffers with r, so a store can
// keep it while the caller reuses r.
func (r Reason) Clone() Reason {
	out := Reason{}
	if len(r.Literals) > 0 {
		out.Literals = append([]lit.Lit(nil), r.Literals...)
	}
	if len(r.Bounds) > 0 {
		out.Bounds = append([]BoundLit(nil), r.Bounds...)
	}
	return out
}

// Empty returns true if nothing justifies the fact, i.e. it holds at the root.
func (r Reason) Empty() bool {
	return len(r.Literals) == 0 && len(r.Bounds) == 0
}

// String implements the Stringer interface.
func (r Reason) String() string {
	parts := []string{}

	for _, p := range r.Literals {
		parts = append(parts, p.String())
	}
	for _, b := range r.Bounds {
		parts = append(parts, b.String())
	}
	return "{" + strings.Join(parts, ", ") + "}"
}
