// Package trail is a reference implementation of the bound store and literal
// assignment that propagators run against. It keeps the lower bound of every
// quantity and the value of every boolean variable on a trail split into
// decision levels, so that everything can be undone on backtrack.
//
// It does not search: callers take decisions with Assume and Decide, run
// Propagate and backtrack with CancelUntil.
package trail

import (
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/ericr/precedences/config"
	"github.com/ericr/precedences/integer"
	"github.com/ericr/precedences/lit"
)

// Propagator is implemented by constraints that react to literal and bound
// changes.
type Propagator interface {
	// Propagate pushes the consequences of the changes since its last call.
	// It returns false on conflict, after reporting it to the trail.
	Propagate() bool
	// Untrail is called on backtrack with the number of literals that stay
	// on the trail.
	Untrail(trailIndex int)
}

// boundEntry is one lower bound change on the trail.
type boundEntry struct {
	q        integer.Quantity
	value    int64
	prev     int64
	prevIdx  int
	level    int
	decision bool
	reason   integer.Reason
}

// limit separates decision levels on both trails.
type limit struct {
	lits   int
	bounds int
}

// Trail is the bound store and literal assignment.
type Trail struct {
	// logger is the trail's logger
	logger logrus.FieldLogger

	// Integer Fields

	// lbs is the current lower bound of each quantity.
	lbs []int64
	// rootLbs is the lower bound of each quantity when it was created.
	rootLbs []int64
	// latest is the index in bounds of the last change of each quantity, or -1.
	latest []int
	// bounds is a list of lower bound changes in chronological order.
	bounds []boundEntry
	// watchers are filled with every quantity whose lower bound changes.
	watchers []*integer.SparseSet

	// Assignment Fields

	// assigns contains the current assignments indexed on boolean variables.
	assigns []Value
	// lits is a list of assigned literals in chronological order.
	lits []lit.Lit
	// reason is the reason of each boolean variable's value.
	reason []integer.Reason
	// level is the decision level at which each boolean variable was assigned.
	level []int
	// decision flags boolean variables assigned by Assume.
	decision []bool

	// trailLim separates decision levels.
	trailLim []limit

	// propagators are run in registration order by Propagate.
	propagators []Propagator
	// conflict is the reason of the last conflict.
	conflict integer.Reason

	// Stats Fields

	decisions int
	conflicts int
}

// New returns a new empty trail.
func New(c *config.Config) *Trail {
	return &Trail{
		logger: c.Logger,
	}
}

// NewVar adds an integer variable with domain [min, max].
func (t *Trail) NewVar(min, max int64) (integer.Var, error) {
	if min > max {
		return integer.NoVar, errors.Errorf("empty domain [%d, %d]", min, max)
	}
	if min < -integer.MaxValue || max > integer.MaxValue {
		return integer.NoVar, errors.Errorf("domain [%d, %d] exceeds +/-%d", min, max, integer.MaxValue)
	}
	v := integer.Var(len(t.lbs) / 2)

	t.lbs = append(t.lbs, min, -max)
	t.rootLbs = append(t.rootLbs, min, -max)
	t.latest = append(t.latest, -1, -1)

	for _, w := range t.watchers {
		w.Resize(len(t.lbs))
	}
	return v, nil
}

// NewBoolVar adds a boolean variable and returns its positive literal.
func (t *Trail) NewBoolVar() lit.Lit {
	p := lit.New(len(t.assigns), false)

	t.assigns = append(t.assigns, Unassigned)
	t.reason = append(t.reason, integer.Reason{})
	t.level = append(t.level, -1)
	t.decision = append(t.decision, false)

	return p
}

// Register adds a propagator run by Propagate.
func (t *Trail) Register(p Propagator) {
	t.propagators = append(t.propagators, p)
}

// RegisterWatcher makes the trail insert every quantity whose lower bound
// increases into s. The owner of s clears it.
func (t *Trail) RegisterWatcher(s *integer.SparseSet) {
	s.Resize(len(t.lbs))
	t.watchers = append(t.watchers, s)
}

// Propagate runs all registered propagators until none of them changes
// anything, returning false on conflict.
func (t *Trail) Propagate() bool {
	for {
		stamp := len(t.lits) + len(t.bounds)

		for _, p := range t.propagators {
			if !p.Propagate() {
				t.conflicts++
				return false
			}
		}
		if stamp == len(t.lits)+len(t.bounds) {
			return true
		}
	}
}

// Conflict returns the reason of the last reported conflict.
func (t *Trail) Conflict() integer.Reason {
	return t.conflict
}

// NumQuantities returns the number of quantities, twice the number of
// integer variables.
func (t *Trail) NumQuantities() int {
	return len(t.lbs)
}

// NVars returns the number of integer variables.
func (t *Trail) NVars() int {
	return len(t.lbs) / 2
}

// NBoolVars returns the number of boolean variables.
func (t *Trail) NBoolVars() int {
	return len(t.assigns)
}

// NBoundChanges returns the number of bound changes currently on the trail.
func (t *Trail) NBoundChanges() int {
	return len(t.bounds)
}

// NDecisions returns the number of decisions taken.
func (t *Trail) NDecisions() int {
	return t.decisions
}

// NConflicts returns the number of conflicts found by Propagate.
func (t *Trail) NConflicts() int {
	return t.conflicts
}
