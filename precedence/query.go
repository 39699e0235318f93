package precedence

import (
	"github.com/ericr/precedences/integer"
	"github.com/ericr/precedences/lit"
)

// After is a quantity known to be greater or equal to the subject of an
// Entry, through a single arc that depends on Literal (lit.Undef if none).
type After struct {
	Var     integer.Quantity
	Literal lit.Lit
}

// Entry lists the direct successors of one quantity of a query.
type Entry struct {
	// Index is the position of Var in the query.
	Index int
	Var   integer.Quantity
	After []After
}

// ComputePrecedences returns, for each distinct quantity of toConsider, the
// quantities directly after it: the heads of its active arcs with a
// non-negative constant offset. Only direct precedences are returned, not the
// transitive closure.
//
// Entries are in topological order of the arcs between queried quantities, the
// ties being broken by smallest lower bound then position in toConsider, so a
// caller can process them in one pass.
func (p *Propagator) ComputePrecedences(toConsider []integer.Quantity) []Entry {
	index := map[integer.Quantity]int{}
	entries := []Entry{}

	for i, q := range toConsider {
		if _, ok := index[q]; ok {
			continue
		}
		index[q] = len(entries)
		entries = append(entries, Entry{Index: i, Var: q})
	}

	n := len(entries)
	degree := make([]int, n)
	successors := make([][]int, n)

	p.queryKeys = p.queryKeys[:0]
	for m := range entries {
		e := &entries[m]
		p.queryKeys = append(p.queryKeys, p.store.LowerBound(e.Var))

		if int(e.Var) >= len(p.impacted) || !p.isPresent(e.Var) {
			continue
		}
		seen := map[integer.Quantity]int{}
		for _, i := range p.impacted[e.Var] {
			a := &p.arcs[i]

			if a.Tail != e.Var || a.Head == e.Var || a.OffsetVar != integer.NoQuantity || a.Offset < 0 {
				continue
			}
			l, ok := p.precedenceLiteral(a)
			if !ok {
				continue
			}
			if j, dup := seen[a.Head]; dup {
				// Keep the weakest dependency.
				if !l.Defined() {
					e.After[j].Literal = l
				}
				continue
			}
			seen[a.Head] = len(e.After)
			e.After = append(e.After, After{Var: a.Head, Literal: l})

			if k, ok := index[a.Head]; ok {
				successors[m] = append(successors[m], k)
				degree[k]++
			}
		}
	}

	ord := p.queryOrder
	ord.Reset()
	for m := 0; m < n; m++ {
		if degree[m] == 0 {
			ord.Push(m)
		}
	}
	done := make([]bool, n)
	out := make([]Entry, 0, n)

	for len(out) < n {
		m := ord.Pop()
		if m == -1 {
			// Only zero-length cycles are left.
			m = smallestRemaining(p.queryKeys, done)
		}
		done[m] = true
		out = append(out, entries[m])

		for _, k := range successors[m] {
			if done[k] {
				continue
			}
			if degree[k]--; degree[k] == 0 {
				ord.Push(k)
			}
		}
	}
	return out
}

// precedenceLiteral returns the only literal the relation of the active arc a
// depends on. It fails when the relation does not hold currently or depends on
// more than one literal.
func (p *Propagator) precedenceLiteral(a *Arc) (lit.Lit, bool) {
	out := lit.Undef

	for _, l := range []lit.Lit{a.Literal, p.optionalLiteral(a.Tail), p.optionalLiteral(a.Head)} {
		if !l.Defined() {
			continue
		}
		if !p.assigns.IsTrue(l) || out.Defined() {
			return lit.Undef, false
		}
		out = l
	}
	return out, true
}

func smallestRemaining(keys []int64, done []bool) int {
	best := -1
	for m := range keys {
		if done[m] {
			continue
		}
		if best == -1 || keys[m] < keys[best] {
			best = m
		}
	}
	return best
}
