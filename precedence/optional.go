package precedence

import (
	"github.com/sirupsen/logrus"

	"github.com/ericr/precedences/integer"
	"github.com/ericr/precedences/lit"
	"github.com/ericr/precedences/metrics"
)

// propagateOptionalArcs inspects the arcs whose presence depends on a literal
// and that are impacted by a modified quantity. If such an arc would push its
// head above its upper bound, the literal controlling it is forced to false.
// Bounds are never raised here; an arc only propagates once active.
//
// An arc is controlled by its own literal and by the presence of its tail.
// With a single unassigned controlling literal, that literal is pruned. With
// none, the arc is active and the crossing is a conflict.
func (p *Propagator) propagateOptionalArcs() bool {
	for _, q := range p.modified.Positions() {
		if int(q) >= len(p.impactedPotential) {
			continue
		}
		// An arc may be inspected up to three times, once for each of its
		// tail, negated head and offset variable.
		for _, i := range p.impactedPotential[q] {
			if !p.propagateOptionalArc(i) {
				return false
			}
		}
	}
	return true
}

func (p *Propagator) propagateOptionalArc(i int) bool {
	a := &p.arcs[i]

	// Nothing can be deduced about the arc when the head itself may be
	// absent: either of them could be.
	if !p.isPresent(a.Head) {
		return true
	}
	r := &p.reason
	r.Reset()
	unassigned := lit.Undef

	for _, l := range []lit.Lit{a.Literal, p.optionalLiteral(a.Tail)} {
		switch {
		case !l.Defined():
		case p.assigns.IsFalse(l):
			return true
		case p.assigns.IsTrue(l):
			r.AddLiteral(l)
		case unassigned.Defined():
			// Two undecided literals, nothing to prune.
			return true
		default:
			unassigned = l
		}
	}

	neg := a.Head.Negation()
	candidate := p.candidate(a)
	if candidate <= -p.store.LowerBound(neg) {
		return true
	}
	r.AddBound(a.Tail, p.store.LowerBound(a.Tail))
	r.AddBound(neg, p.store.LowerBound(neg))
	if a.OffsetVar != integer.NoQuantity {
		r.AddBound(a.OffsetVar, p.store.LowerBound(a.OffsetVar))
	}
	r.AddLiteral(p.optionalLiteral(a.Head))

	if !unassigned.Defined() {
		p.countConflict(metrics.Optional)
		p.logger.WithFields(logrus.Fields{
			"arc":    i,
			"reason": *r,
		}).Debug("active arc crosses the bounds of its head")

		return p.store.ReportConflict(*r)
	}
	p.countPruning()
	p.logger.WithFields(logrus.Fields{
		"arc":     i,
		"literal": unassigned,
	}).Debug("arc cannot be present")

	return p.assigns.EnqueueLiteral(unassigned.Not(), *r)
}
