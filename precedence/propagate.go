package precedence

import (
	"github.com/sirupsen/logrus"

	"github.com/ericr/precedences/integer"
	"github.com/ericr/precedences/metrics"
)

// Propagate pushes the lower bounds through all active arcs starting from the
// quantities modified since the last call, then prunes the literals of arcs
// that can no longer be present. It returns false on conflict, after the
// conflict was reported to the store.
func (p *Propagator) Propagate() bool {
	p.propagations++
	if p.config.Metrics {
		metrics.Propagations.Inc()
	}
	defer p.modified.Clear()

	p.activateNewLiterals()
	p.initializeQueueWithModifiedNodes()

	if !p.bellmanFordTarjan() {
		return false
	}
	if !p.propagateOptionalArcs() {
		return false
	}
	if p.config.CheckInvariants && !p.NoPropagationLeft() {
		panic("precedence propagation did not reach a fixed point")
	}
	return true
}

// Untrail moves the arcs activated by the literals being undone back to the
// pending tables.
func (p *Propagator) Untrail(trailIndex int) {
	if p.propagationTrailIndex > trailIndex {
		// Everything at level trailIndex was already propagated.
		p.modified.Clear()
	}
	for p.propagationTrailIndex > trailIndex {
		p.propagationTrailIndex--
		l := p.assigns.Assigned(p.propagationTrailIndex)

		if l.Slot() >= len(p.potentialArcs) {
			continue
		}
		arcs := p.potentialArcs[l.Slot()]
		for i := len(arcs) - 1; i >= 0; i-- {
			p.deactivate(arcs[i])
		}
	}
}

// activateNewLiterals looks at the literals assigned since the last call:
// their conditional arcs join the impact index and their optional nodes are
// marked as modified so that they propagate.
func (p *Propagator) activateNewLiterals() {
	for p.propagationTrailIndex < p.assigns.NumAssigned() {
		l := p.assigns.Assigned(p.propagationTrailIndex)
		p.propagationTrailIndex++

		if l.Slot() >= len(p.potentialArcs) {
			continue
		}
		for _, q := range p.potentialNodes[l.Slot()] {
			p.modified.Set(q)
		}
		for _, i := range p.potentialArcs[l.Slot()] {
			p.activate(i)
			p.modified.Set(p.arcs[i].Tail)
		}
	}
}

// arcOffset returns the resolved offset of a.
func (p *Propagator) arcOffset(a *Arc) int64 {
	if a.OffsetVar == integer.NoQuantity {
		return a.Offset
	}
	return integer.CapAdd(a.Offset, p.store.LowerBound(a.OffsetVar))
}

// candidate returns the lower bound a forces on its head.
func (p *Propagator) candidate(a *Arc) int64 {
	return integer.CapAdd(p.store.LowerBound(a.Tail), p.arcOffset(a))
}

// enqueueAndCheck raises the head of arc i to candidate. When the head is
// optional and would cross its upper bound, its presence literal is forced to
// false instead. It returns whether there was no conflict and whether the
// head bound was raised.
func (p *Propagator) enqueueAndCheck(i int, candidate int64) (bool, bool) {
	a := &p.arcs[i]

	r := &p.reason
	r.Reset()
	r.AddLiteral(a.Literal)
	r.AddLiteral(p.optionalLiteral(a.Tail))
	r.AddBound(a.Tail, p.store.LowerBound(a.Tail))
	if a.OffsetVar != integer.NoQuantity {
		r.AddBound(a.OffsetVar, p.store.LowerBound(a.OffsetVar))
	}

	if present := p.optionalLiteral(a.Head); present.Defined() {
		if p.assigns.IsFalse(present) {
			return true, false
		}
		neg := a.Head.Negation()
		if negLb := p.store.LowerBound(neg); candidate > -negLb {
			r.AddBound(neg, negLb)

			if p.assigns.IsTrue(present) {
				r.AddLiteral(present)
				p.countConflict(metrics.Optional)
				p.logger.WithFields(logrus.Fields{
					"var":    a.Head.Var(),
					"reason": *r,
				}).Debug("present optional variable has crossing bounds")

				return p.store.ReportConflict(*r), false
			}
			p.countPruning()
			p.logger.WithFields(logrus.Fields{
				"var":     a.Head.Var(),
				"literal": present,
			}).Debug("optional variable cannot be present")

			return p.assigns.EnqueueLiteral(present.Not(), *r), false
		}
	}
	if !p.store.Enqueue(integer.GreaterOrEqual(a.Head, candidate), *r) {
		p.countConflict(metrics.Store)
		return false, false
	}
	p.countTightening()

	return true, true
}

// propagateMaxOffsetIfNeeded lowers the upper bound of the offset variable of
// arc i to what its tail and head still allow:
//
//	offsetVar <= ub(head) - lb(tail) - offset
//
// Each variable offset precedence has two arcs, one for each end, so calling
// this when the tail of either changed covers both bounds.
func (p *Propagator) propagateMaxOffsetIfNeeded(i int) bool {
	a := &p.arcs[i]

	if !p.isPresent(a.Head) {
		return true
	}
	headNeg := a.Head.Negation()
	offsetNeg := a.OffsetVar.Negation()
	bound := integer.CapAdd(integer.CapAdd(p.store.LowerBound(a.Tail), a.Offset), p.store.LowerBound(headNeg))
	if bound <= p.store.LowerBound(offsetNeg) {
		return true
	}

	r := &p.reason
	r.Reset()
	r.AddLiteral(a.Literal)
	r.AddLiteral(p.optionalLiteral(a.Tail))
	r.AddLiteral(p.optionalLiteral(a.Head))
	r.AddBound(a.Tail, p.store.LowerBound(a.Tail))
	r.AddBound(headNeg, p.store.LowerBound(headNeg))

	if !p.store.Enqueue(integer.GreaterOrEqual(offsetNeg, bound), *r) {
		p.countConflict(metrics.Store)
		return false
	}
	p.countTightening()

	// Not a tree arc push: offsetNeg leaves the forest and propagates later.
	p.disassembleSubtree(offsetNeg, integer.NoQuantity)
	if parent := p.parentArc[offsetNeg]; parent != -1 {
		p.marked[parent] = false
		p.parentArc[offsetNeg] = -1
	}
	p.canBeSkipped[offsetNeg] = false
	p.queue.Insert(offsetNeg)

	return true
}

// NoPropagationLeft returns true if every active arc is satisfied. It scans
// the whole graph and is meant for checks and tests.
func (p *Propagator) NoPropagationLeft() bool {
	for i := range p.arcs {
		a := &p.arcs[i]

		if a.Literal.Defined() && !p.assigns.IsTrue(a.Literal) {
			continue
		}
		if !p.isPresent(a.Tail) || p.isAbsent(a.Head) {
			continue
		}
		if p.candidate(a) > p.store.LowerBound(a.Head) {
			p.logger.WithField("arc", i).Debug("arc not propagated")
			return false
		}
		if a.OffsetVar == integer.NoQuantity || !p.isPresent(a.Head) {
			continue
		}
		maxOffset := integer.CapAdd(integer.CapAdd(p.store.LowerBound(a.Tail), a.Offset), p.store.LowerBound(a.Head.Negation()))
		if maxOffset > p.store.LowerBound(a.OffsetVar.Negation()) {
			p.logger.WithField("arc", i).Debug("arc offset not bounded")
			return false
		}
	}
	return true
}
