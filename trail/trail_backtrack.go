package trail

import (
	"github.com/ericr/precedences/integer"
	"github.com/ericr/precedences/lit"
)

// Assume opens a new decision level and assigns p, returning false on
// immediate conflict.
func (t *Trail) Assume(p lit.Lit) bool {
	t.newDecisionLevel()
	t.decisions++

	return t.enqueueLiteral(p, integer.Reason{}, true)
}

// Decide opens a new decision level and enqueues b, returning false on
// immediate conflict.
func (t *Trail) Decide(b integer.BoundLit) bool {
	t.newDecisionLevel()
	t.decisions++

	return t.enqueue(b, integer.Reason{}, true)
}

// DecisionLevel returns the trail's decision level.
func (t *Trail) DecisionLevel() int {
	return len(t.trailLim)
}

// CancelUntil reverts all changes made after the given decision level.
func (t *Trail) CancelUntil(level int) {
	if t.DecisionLevel() <= level {
		return
	}
	lim := t.trailLim[level]

	for _, p := range t.propagators {
		p.Untrail(lim.lits)
	}
	for len(t.lits) > lim.lits {
		t.undoOneLiteral()
	}
	for len(t.bounds) > lim.bounds {
		t.undoOneBound()
	}
	t.trailLim = t.trailLim[:level]
}

func (t *Trail) newDecisionLevel() {
	t.trailLim = append(t.trailLim, limit{lits: len(t.lits), bounds: len(t.bounds)})
}

// undoOneLiteral unbinds the last assigned boolean variable.
func (t *Trail) undoOneLiteral() {
	p := t.lits[len(t.lits)-1]

	t.assigns[p.Index()] = Unassigned
	t.reason[p.Index()] = integer.Reason{}
	t.level[p.Index()] = -1
	t.decision[p.Index()] = false
	t.lits = t.lits[:len(t.lits)-1]
}

// undoOneBound restores the lower bound overwritten by the last change.
func (t *Trail) undoOneBound() {
	e := t.bounds[len(t.bounds)-1]

	t.lbs[e.q] = e.prev
	t.latest[e.q] = e.prevIdx
	t.bounds = t.bounds[:len(t.bounds)-1]
}
