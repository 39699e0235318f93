package precedence

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/ericr/precedences/integer"
	"github.com/ericr/precedences/metrics"
)

// initializeQueueWithModifiedNodes seeds the queue with the quantities
// modified since the last call.
func (p *Propagator) initializeQueueWithModifiedNodes() {
	p.queue.Clear()

	for _, q := range p.modified.Positions() {
		if int(q) < len(p.impacted) {
			p.queue.Insert(q)
		}
	}
}

// bellmanFordTarjan relaxes arcs from the queued quantities until a fixed
// point or a conflict.
//
// Each raised head records the arc that raised it as its parent, which builds
// a forest whose arcs are marked. When a head is raised again, the subtree
// below it is disassembled: its nodes are stale and are skipped until raised
// again. Finding the tail of the relaxed arc in that subtree means the arc
// closes a positive cycle. The cost of the disassembly is amortized over the
// relaxations that built the subtree.
func (p *Propagator) bellmanFordTarjan() bool {
	defer p.cleanUpMarkedArcsAndParents()

	for p.queue.Size() > 0 {
		node := p.queue.Dequeue()

		if p.canBeSkipped[node] {
			continue
		}
		// Optional nodes only propagate to their neighbours once present.
		if !p.isPresent(node) {
			continue
		}
		for _, i := range p.impacted[node] {
			a := &p.arcs[i]

			// Arcs reached through their offset variable still need a
			// present tail.
			if a.Tail != node && !p.isPresent(a.Tail) {
				continue
			}
			if a.OffsetVar != integer.NoQuantity && a.Tail == node {
				if !p.propagateMaxOffsetIfNeeded(i) {
					return false
				}
			}
			candidate := p.candidate(a)
			if candidate <= p.store.LowerBound(a.Head) {
				continue
			}
			if a.Tail == a.Head {
				p.reportPositiveCycle(i)
				return false
			}
			ok, pushed := p.enqueueAndCheck(i, candidate)
			if !ok {
				return false
			}
			if !pushed {
				continue
			}
			head := a.Head

			if a.Tail == node {
				if p.disassembleSubtree(head, a.Tail) {
					p.reportPositiveCycle(i)
					return false
				}
			} else {
				p.disassembleSubtree(head, integer.NoQuantity)
			}

			// Only the arcs in parentArc are marked.
			if parent := p.parentArc[head]; parent != -1 {
				p.marked[parent] = false
			}
			if a.Tail == node && p.store.LowerBound(head) == candidate {
				p.parentArc[head] = i
				p.marked[i] = true
			} else {
				// The head is not justified by a tree arc, e.g. it was pushed
				// through a variable offset or further than candidate by the
				// store. It must not take part in cycle detection.
				p.parentArc[head] = -1
			}
			p.canBeSkipped[head] = false
			p.queue.Insert(head)
		}
	}
	return true
}

// disassembleSubtree unmarks the subtree of marked arcs rooted at source and
// flags its nodes as skippable. It returns true as soon as target is found in
// it, which means a positive cycle. The walk uses an explicit stack.
func (p *Propagator) disassembleSubtree(source, target integer.Quantity) bool {
	if source == target {
		return true
	}
	p.stack = append(p.stack[:0], source)

	for len(p.stack) > 0 {
		tail := p.stack[len(p.stack)-1]
		p.stack = p.stack[:len(p.stack)-1]

		for _, i := range p.impacted[tail] {
			a := &p.arcs[i]

			// Arcs listed through their offset variable are not tree arcs of
			// this node.
			if !p.marked[i] || a.Tail != tail {
				continue
			}
			p.marked[i] = false

			if a.Head == target {
				return true
			}
			p.canBeSkipped[a.Head] = true
			p.stack = append(p.stack, a.Head)
		}
	}
	return false
}

// reportPositiveCycle reports the cycle closed by arc first, found by walking
// parent arcs back from its tail to its head.
func (p *Propagator) reportPositiveCycle(first int) {
	head := p.arcs[first].Head
	limit := len(p.impacted)

	p.cycle = p.cycle[:0]
	for i := first; len(p.cycle) <= limit; {
		p.cycle = append(p.cycle, i)

		tail := p.arcs[i].Tail
		if tail == head {
			break
		}
		if i = p.parentArc[tail]; i == -1 {
			panic(fmt.Sprintf("quantity %s on a positive cycle has no parent arc", tail))
		}
	}
	if len(p.cycle) > limit {
		panic("infinite loop while walking a positive cycle")
	}

	r := &p.reason
	r.Reset()
	sum := int64(0)
	for _, i := range p.cycle {
		a := &p.arcs[i]

		sum = integer.CapAdd(sum, p.arcOffset(a))
		r.AddLiteral(a.Literal)
		r.AddLiteral(p.optionalLiteral(a.Tail))
		if a.OffsetVar != integer.NoQuantity {
			r.AddBound(a.OffsetVar, p.store.LowerBound(a.OffsetVar))
		}
	}
	if sum <= 0 {
		panic(fmt.Sprintf("cycle of %d arcs has non positive length %d", len(p.cycle), sum))
	}
	p.countConflict(metrics.Cycle)
	p.logger.WithFields(logrus.Fields{
		"arcs":   len(p.cycle),
		"length": sum,
		"reason": *r,
	}).Debug("positive cycle")

	p.store.ReportConflict(*r)
}

// cleanUpMarkedArcsAndParents resets the scratch state. Every node with a
// parent was raised during this call, so it is in the modified set.
func (p *Propagator) cleanUpMarkedArcsAndParents() {
	for _, q := range p.modified.Positions() {
		if int(q) >= len(p.parentArc) {
			continue
		}
		if i := p.parentArc[q]; i != -1 {
			p.marked[i] = false
			p.parentArc[q] = -1
		}
		p.canBeSkipped[q] = false
	}
	p.queue.Clear()
}
