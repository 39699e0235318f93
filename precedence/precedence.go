// Package precedence propagates difference constraints between integer
// variables of the form
//
//	tail + offset <= head
//
// where offset is a constant or the lower bound of a third variable. A
// constraint may be conditioned on a literal, and a variable may be optional,
// in which case it only propagates to its neighbours once its presence literal
// is true and a bound crossing on it makes it absent instead of failing.
//
// Each variable contributes two nodes to a graph, its lower bound and the
// lower bound of its negation, and each constraint two arcs. The fixed point
// is computed with an incremental variant of the Bellman-Ford-Tarjan
// algorithm that only looks at the nodes modified since the previous call and
// detects positive cycles, i.e. infeasible constraint sets, while it runs.
//
// A good reference for the cycle detection is "Negative-cycle detection
// algorithms", Boris V. Cherkassky, Andrew V. Goldberg, 1996.
package precedence

import (
	"github.com/sirupsen/logrus"

	"github.com/ericr/precedences/config"
	"github.com/ericr/precedences/integer"
	"github.com/ericr/precedences/lit"
	"github.com/ericr/precedences/metrics"
	"github.com/ericr/precedences/order"
)

// BoundStore holds the lower bound of every quantity.
type BoundStore interface {
	// NumQuantities returns the number of quantities the store knows about.
	NumQuantities() int
	// LowerBound returns the current lower bound of q.
	LowerBound(q integer.Quantity) int64
	// Enqueue raises a lower bound with a reason. False means conflict.
	Enqueue(b integer.BoundLit, r integer.Reason) bool
	// ReportConflict records the reason of a conflict and returns false.
	ReportConflict(r integer.Reason) bool
	// RegisterWatcher makes the store insert every changed quantity into s.
	RegisterWatcher(s *integer.SparseSet)
}

// Assignment is the boolean side of the search.
type Assignment interface {
	IsTrue(p lit.Lit) bool
	IsFalse(p lit.Lit) bool
	// EnqueueLiteral sets p to true with a reason. False means conflict.
	EnqueueLiteral(p lit.Lit, r integer.Reason) bool
	// NumAssigned and Assigned give access to the trail of assigned literals.
	NumAssigned() int
	Assigned(i int) lit.Lit
}

// Arc is the constraint lb(Tail) + Offset + lb(OffsetVar) <= lb(Head), active
// when Literal is true or undefined.
type Arc struct {
	Tail      integer.Quantity
	Head      integer.Quantity
	Offset    int64
	OffsetVar integer.Quantity
	Literal   lit.Lit
}

// Propagator is the precedence propagator.
type Propagator struct {
	config  *config.Config
	logger  logrus.FieldLogger
	store   BoundStore
	assigns Assignment

	// modified is filled by the store with every quantity changed since the
	// end of the last Propagate().
	modified *integer.SparseSet
	// propagationTrailIndex is the number of literals of the trail already
	// looked at.
	propagationTrailIndex int

	// Arc Store Fields

	// arcs is append-only; everything else refers to arcs by index.
	arcs []Arc
	// optionalLiterals is the presence literal of each variable, or lit.Undef.
	optionalLiterals []lit.Lit
	// isOffsetVar flags variables used as a variable offset.
	isOffsetVar []bool

	// Impact Index Fields

	// impacted lists the active arcs to inspect when a quantity changes: the
	// ones it is the tail or the offset of.
	impacted [][]int
	// impactedPotential lists the arcs whose presence depends on a literal
	// that may be pruned when a quantity changes: the ones it is the tail, the
	// offset or the negated head of.
	impactedPotential [][]int
	// potentialArcs lists, by literal slot, the arcs activated by a literal.
	potentialArcs [][]int
	// potentialNodes lists, by literal slot, the quantities made live by a
	// presence literal.
	potentialNodes [][]integer.Quantity

	// Bellman-Ford Scratch Fields

	queue        *integer.Queue
	canBeSkipped []bool
	parentArc    []int
	marked       []bool
	stack        []integer.Quantity
	cycle        []int
	reason       integer.Reason

	// Query Scratch Fields

	// queryKeys holds the lower bounds of the entries of the current query,
	// read by queryOrder.
	queryKeys  []int64
	queryOrder *order.Order

	// Stats Fields

	propagations   int
	tightenings    int
	conflicts      int
	prunedLiterals int
}

// New returns a propagator reading and writing bounds in store and literals in
// assigns.
func New(store BoundStore, assigns Assignment, c *config.Config) *Propagator {
	p := &Propagator{
		config:   c,
		logger:   c.Logger,
		store:    store,
		assigns:  assigns,
		modified: integer.NewSparseSet(),
		queue:    integer.NewQueue(),
	}
	p.queryOrder = order.New(&p.queryKeys)
	store.RegisterWatcher(p.modified)

	return p
}

// NumArcs returns the number of arcs, two per precedence.
func (p *Propagator) NumArcs() int {
	return len(p.arcs)
}

// Arc returns the i-th arc.
func (p *Propagator) Arc(i int) Arc {
	return p.arcs[i]
}

// NPropagations returns the number of Propagate() calls.
func (p *Propagator) NPropagations() int {
	return p.propagations
}

// NTightenings returns the number of lower bounds raised.
func (p *Propagator) NTightenings() int {
	return p.tightenings
}

// NConflicts returns the number of conflicts found.
func (p *Propagator) NConflicts() int {
	return p.conflicts
}

// NPrunedLiterals returns the number of literals forced to false.
func (p *Propagator) NPrunedLiterals() int {
	return p.prunedLiterals
}

func (p *Propagator) countConflict(kind string) {
	p.conflicts++
	if p.config.Metrics {
		metrics.Conflicts.WithLabelValues(kind).Inc()
	}
}

func (p *Propagator) countTightening() {
	p.tightenings++
	if p.config.Metrics {
		metrics.Tightenings.Inc()
	}
}

func (p *Propagator) countPruning() {
	p.prunedLiterals++
	if p.config.Metrics {
		metrics.PrunedLiterals.Inc()
	}
}
