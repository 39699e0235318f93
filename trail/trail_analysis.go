package trail

import (
	"sort"

	"github.com/ericr/precedences/integer"
	"github.com/ericr/precedences/lit"
)

// Explain expands r down to the decisions it depends on: the literals set by
// Assume and the bounds set by Decide. Facts holding at decision level 0 are
// dropped. The result is sorted for stable output.
func (t *Trail) Explain(r integer.Reason) integer.Reason {
	out := integer.Reason{}
	seenLits := map[lit.Lit]bool{}
	seenBounds := map[int]bool{}
	lits := append([]lit.Lit(nil), r.Literals...)
	bounds := append([]integer.BoundLit(nil), r.Bounds...)

	for len(lits) > 0 || len(bounds) > 0 {
		if n := len(lits); n > 0 {
			p := lits[n-1]
			lits = lits[:n-1]

			if seenLits[p] || !t.IsTrue(p) {
				continue
			}
			seenLits[p] = true

			switch idx := p.Index(); {
			case t.level[idx] == 0:
			case t.decision[idx]:
				out.AddLiteral(p)
			default:
				lits = append(lits, t.reason[idx].Literals...)
				bounds = append(bounds, t.reason[idx].Bounds...)
			}
			continue
		}
		b := bounds[len(bounds)-1]
		bounds = bounds[:len(bounds)-1]

		i := t.implyingEntry(b)
		if i < 0 || seenBounds[i] {
			continue
		}
		seenBounds[i] = true

		switch e := t.bounds[i]; {
		case e.level == 0:
		case e.decision:
			out.AddBound(e.q, e.value)
		default:
			lits = append(lits, e.reason.Literals...)
			bounds = append(bounds, e.reason.Bounds...)
		}
	}
	sort.Slice(out.Literals, func(i, j int) bool {
		return out.Literals[i] < out.Literals[j]
	})
	sort.Slice(out.Bounds, func(i, j int) bool {
		return out.Bounds[i].Q < out.Bounds[j].Q
	})
	return out
}

// implyingEntry returns the index of the earliest bound change that implies b,
// or -1 if b already held when its quantity was created.
func (t *Trail) implyingEntry(b integer.BoundLit) int {
	if b.Value <= t.rootLbs[b.Q] {
		return -1
	}
	found := -1
	for i := t.latest[b.Q]; i >= 0 && t.bounds[i].value >= b.Value; i = t.bounds[i].prevIdx {
		found = i
	}
	return found
}
