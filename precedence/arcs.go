package precedence

import (
	"fmt"

	"github.com/pkg/errors"

	"github.com/ericr/precedences/integer"
	"github.com/ericr/precedences/lit"
)

// AddPrecedence adds tail <= head.
func (p *Propagator) AddPrecedence(tail, head integer.Var) {
	p.addArc(tail, head, 0, integer.NoVar, lit.Undef)
}

// AddPrecedenceWithOffset adds tail + offset <= head.
func (p *Propagator) AddPrecedenceWithOffset(tail, head integer.Var, offset int64) {
	p.addArc(tail, head, offset, integer.NoVar, lit.Undef)
}

// AddConditionalPrecedence adds tail <= head, enforced only once l is true.
func (p *Propagator) AddConditionalPrecedence(tail, head integer.Var, l lit.Lit) {
	p.addArc(tail, head, 0, integer.NoVar, l)
}

// AddConditionalPrecedenceWithOffset adds tail + offset <= head, enforced only
// once l is true.
func (p *Propagator) AddConditionalPrecedenceWithOffset(tail, head integer.Var, offset int64, l lit.Lit) {
	p.addArc(tail, head, offset, integer.NoVar, l)
}

// AddPrecedenceWithVariableOffset adds tail + offsetVar <= head, where the
// lower bound of offsetVar is read at propagation time. offsetVar cannot be
// optional.
func (p *Propagator) AddPrecedenceWithVariableOffset(tail, head, offsetVar integer.Var) {
	p.addArc(tail, head, 0, offsetVar, lit.Undef)
}

// MarkVariableAsOptional makes v present only when present is true: its
// bounds are not propagated to its neighbours before that, and a bound
// crossing on v forces present to false instead of failing.
func (p *Propagator) MarkVariableAsOptional(v integer.Var, present lit.Lit) error {
	if !present.Defined() {
		return errors.Errorf("optional variable %s needs a presence literal", v)
	}
	p.adjustSizeFor(v)
	p.adjustSizeForLiteral(present)

	if p.isOffsetVar[v] {
		return errors.Errorf("variable %s is an arc offset and cannot be optional", v)
	}
	if old := p.optionalLiterals[v]; old.Defined() {
		return errors.Errorf("variable %s is already optional with presence %s", v, old)
	}
	p.optionalLiterals[v] = present

	for _, q := range []integer.Quantity{v.LowerBound(), v.MinusUpperBound()} {
		p.potentialNodes[present.Slot()] = append(p.potentialNodes[present.Slot()], q)
		p.modified.Set(q)
	}
	// Unconditional arcs leaving v now depend on its presence.
	for i, a := range p.arcs {
		if a.Tail.Var() == v && !a.Literal.Defined() {
			p.addPotential(i)
		}
	}
	return nil
}

// adjustSizeFor grows the quantity indexed tables to hold v.
func (p *Propagator) adjustSizeFor(v integer.Var) {
	n := int(v.MinusUpperBound()) + 1
	if v < 0 || n > p.store.NumQuantities() {
		panic(fmt.Sprintf("variable %s is unknown to the bound store", v))
	}
	for len(p.impacted) < n {
		p.impacted = append(p.impacted, nil)
		p.impactedPotential = append(p.impactedPotential, nil)
		p.canBeSkipped = append(p.canBeSkipped, false)
		p.parentArc = append(p.parentArc, -1)
	}
	for len(p.optionalLiterals) <= int(v) {
		p.optionalLiterals = append(p.optionalLiterals, lit.Undef)
		p.isOffsetVar = append(p.isOffsetVar, false)
	}
}

// adjustSizeForLiteral grows the literal indexed tables to hold both
// polarities of l.
func (p *Propagator) adjustSizeForLiteral(l lit.Lit) {
	for len(p.potentialArcs) <= l.Index()*2+1 {
		p.potentialArcs = append(p.potentialArcs, nil)
		p.potentialNodes = append(p.potentialNodes, nil)
	}
}

// addArc adds the two arcs of tail + offset + offsetVar <= head: one between
// the lower bounds, one between the negated upper bounds.
func (p *Propagator) addArc(tail, head integer.Var, offset int64, offsetVar integer.Var, l lit.Lit) {
	p.adjustSizeFor(tail)
	p.adjustSizeFor(head)

	offsetQ := integer.NoQuantity
	if offsetVar != integer.NoVar {
		p.adjustSizeFor(offsetVar)
		if p.optionalLiterals[offsetVar].Defined() {
			panic(fmt.Sprintf("optional variable %s cannot be used as an arc offset", offsetVar))
		}
		p.isOffsetVar[offsetVar] = true
		offsetQ = offsetVar.LowerBound()
	}
	if l.Defined() {
		p.adjustSizeForLiteral(l)
	}

	for _, a := range []Arc{
		{Tail: tail.LowerBound(), Head: head.LowerBound()},
		{Tail: head.MinusUpperBound(), Head: tail.MinusUpperBound()},
	} {
		i := len(p.arcs)
		p.arcs = append(p.arcs, Arc{
			Tail:      a.Tail,
			Head:      a.Head,
			Offset:    offset,
			OffsetVar: offsetQ,
			Literal:   l,
		})
		p.marked = append(p.marked, false)

		switch {
		case !l.Defined():
			p.activate(i)
		case p.alreadyActivated(l):
			p.potentialArcs[l.Slot()] = append(p.potentialArcs[l.Slot()], i)
			p.activate(i)
		default:
			p.potentialArcs[l.Slot()] = append(p.potentialArcs[l.Slot()], i)
		}
		if l.Defined() || p.optionalLiteral(a.Tail).Defined() {
			p.addPotential(i)
		}
		// The new arc must be looked at by the next propagation.
		p.modified.Set(a.Tail)
	}
}

// alreadyActivated returns true if l is on the part of the trail that was
// already propagated, in which case its arcs must be active.
func (p *Propagator) alreadyActivated(l lit.Lit) bool {
	if !p.assigns.IsTrue(l) {
		return false
	}
	for i := 0; i < p.propagationTrailIndex; i++ {
		if p.assigns.Assigned(i) == l {
			return true
		}
	}
	return false
}

// activate adds arc i to the impact index.
func (p *Propagator) activate(i int) {
	a := &p.arcs[i]

	p.impacted[a.Tail] = append(p.impacted[a.Tail], i)
	if a.OffsetVar != integer.NoQuantity {
		p.impacted[a.OffsetVar] = append(p.impacted[a.OffsetVar], i)
	}
}

// deactivate removes arc i from the impact index. Arcs may have been
// activated after i on the same quantities, so i is looked up from the end.
func (p *Propagator) deactivate(i int) {
	a := &p.arcs[i]

	if a.OffsetVar != integer.NoQuantity {
		p.impacted[a.OffsetVar] = removeArc(p.impacted[a.OffsetVar], i)
	}
	p.impacted[a.Tail] = removeArc(p.impacted[a.Tail], i)
}

// removeArc removes the last occurrence of i from arcs, keeping the order of
// the others.
func removeArc(arcs []int, i int) []int {
	for j := len(arcs) - 1; j >= 0; j-- {
		if arcs[j] == i {
			return append(arcs[:j], arcs[j+1:]...)
		}
	}
	panic(fmt.Sprintf("arc %d is not active", i))
}

// addPotential indexes arc i for the optional arc sweep.
func (p *Propagator) addPotential(i int) {
	a := &p.arcs[i]

	p.impactedPotential[a.Tail] = append(p.impactedPotential[a.Tail], i)
	p.impactedPotential[a.Head.Negation()] = append(p.impactedPotential[a.Head.Negation()], i)
	if a.OffsetVar != integer.NoQuantity {
		p.impactedPotential[a.OffsetVar] = append(p.impactedPotential[a.OffsetVar], i)
	}
}

// optionalLiteral returns the presence literal of q's variable, or lit.Undef.
func (p *Propagator) optionalLiteral(q integer.Quantity) lit.Lit {
	if v := int(q.Var()); v < len(p.optionalLiterals) {
		return p.optionalLiterals[v]
	}
	return lit.Undef
}

// isPresent returns true if q's variable is mandatory or known to be present.
func (p *Propagator) isPresent(q integer.Quantity) bool {
	l := p.optionalLiteral(q)
	return !l.Defined() || p.assigns.IsTrue(l)
}

// isAbsent returns true if q's variable is optional and known to be absent.
func (p *Propagator) isAbsent(q integer.Quantity) bool {
	l := p.optionalLiteral(q)
	return l.Defined() && p.assigns.IsFalse(l)
}
