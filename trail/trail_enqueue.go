package trail

import (
	"fmt"

	"github.com/ericr/precedences/integer"
	"github.com/ericr/precedences/lit"
)

// LowerBound returns the current lower bound of q.
func (t *Trail) LowerBound(q integer.Quantity) int64 {
	return t.lbs[t.checkQuantity(q)]
}

// UpperBound returns the current upper bound of v.
func (t *Trail) UpperBound(v integer.Var) int64 {
	return -t.LowerBound(v.MinusUpperBound())
}

// Bounds returns the current domain of v.
func (t *Trail) Bounds(v integer.Var) (int64, int64) {
	return t.LowerBound(v.LowerBound()), t.UpperBound(v)
}

// Enqueue records b with reason r. It returns false and records a conflict if
// b empties the domain of its variable.
func (t *Trail) Enqueue(b integer.BoundLit, r integer.Reason) bool {
	return t.enqueue(b, r, false)
}

// enqueue puts a new lower bound on the trail.
func (t *Trail) enqueue(b integer.BoundLit, r integer.Reason, decision bool) bool {
	q := t.checkQuantity(b.Q)

	// Check if the bound is new first.
	if b.Value <= t.lbs[q] {
		return true
	}
	if neg := q.Negation(); b.Value > -t.lbs[neg] {
		// Conflicting bound.
		t.conflict = r.Clone()
		t.conflict.AddBound(neg, t.lbs[neg])
		t.logger.Debugf("bound %s crosses %s", b, integer.GreaterOrEqual(neg, t.lbs[neg]))

		return false
	}
	t.bounds = append(t.bounds, boundEntry{
		q:        q,
		value:    b.Value,
		prev:     t.lbs[q],
		prevIdx:  t.latest[q],
		level:    t.DecisionLevel(),
		decision: decision,
		reason:   r.Clone(),
	})
	t.latest[q] = len(t.bounds) - 1
	t.lbs[q] = b.Value

	for _, w := range t.watchers {
		w.Set(q)
	}
	return true
}

// ReportConflict records r as the reason of a conflict found by a propagator.
// It always returns false.
func (t *Trail) ReportConflict(r integer.Reason) bool {
	t.conflict = r.Clone()
	t.logger.Debugf("conflict reported: %s", t.conflict)

	return false
}

// Value returns p's value.
func (t *Trail) Value(p lit.Lit) Value {
	return t.litValue(p)
}

// IsTrue returns true if p is assigned true.
func (t *Trail) IsTrue(p lit.Lit) bool {
	return t.litValue(p) == True
}

// IsFalse returns true if p is assigned false.
func (t *Trail) IsFalse(p lit.Lit) bool {
	return t.litValue(p) == False
}

// EnqueueLiteral assigns p to true with reason r. It returns false and records
// a conflict if p is already false.
func (t *Trail) EnqueueLiteral(p lit.Lit, r integer.Reason) bool {
	return t.enqueueLiteral(p, r, false)
}

// enqueueLiteral puts a new fact, p, on the trail.
func (t *Trail) enqueueLiteral(p lit.Lit, r integer.Reason, decision bool) bool {
	// Check if the fact isn't new first.
	switch t.litValue(p) {
	case False:
		// Conflicting assignment.
		t.conflict = r.Clone()
		t.conflict.AddLiteral(p.Not())
		t.logger.Debugf("literal %s already false", p)

		return false
	case True:
		// Consistent assignment already exists.
		return true
	}
	// Fact is new, store it.
	t.assigns[p.Index()] = valueOf(!p.Sign())
	t.level[p.Index()] = t.DecisionLevel()
	t.reason[p.Index()] = r.Clone()
	t.decision[p.Index()] = decision
	t.lits = append(t.lits, p)

	return true
}

// NumAssigned returns the number of literals on the trail.
func (t *Trail) NumAssigned() int {
	return len(t.lits)
}

// Assigned returns the i-th literal assigned.
func (t *Trail) Assigned(i int) lit.Lit {
	return t.lits[i]
}

// litValue returns p's value.
func (t *Trail) litValue(p lit.Lit) Value {
	if !p.Defined() {
		return Unassigned
	}
	if p.Index() >= len(t.assigns) {
		panic(fmt.Sprintf("literal %s refers to an unknown boolean variable", p))
	}
	return t.assigns[p.Index()].as(p.Sign())
}

// checkQuantity panics on quantities of unknown variables.
func (t *Trail) checkQuantity(q integer.Quantity) integer.Quantity {
	if q < 0 || int(q) >= len(t.lbs) {
		panic(fmt.Sprintf("quantity %d refers to an unknown variable", int(q)))
	}
	return q
}
