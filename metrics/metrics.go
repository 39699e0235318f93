package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

const (
	KindLabel = "kind"

	// Conflict kinds.
	Cycle    = "cycle"
	Optional = "optional"
	Store    = "store"
)

// To add new metrics:
// 1. Declare them below.
// 2. Register them in Register().
var (
	Propagations = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "precedences_propagations_total",
			Help: "Number of calls to the precedence propagator",
		},
	)

	Tightenings = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "precedences_tightenings_total",
			Help: "Number of lower bounds raised through precedence arcs",
		},
	)

	Conflicts = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "precedences_conflicts_total",
			Help: "Number of conflicts found by the precedence propagator",
		},
		[]string{KindLabel},
	)

	PrunedLiterals = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "precedences_pruned_literals_total",
			Help: "Number of presence or arc literals forced to false",
		},
	)
)

// Register registers all counters with r.
func Register(r prometheus.Registerer) error {
	for _, c := range []prometheus.Collector{Propagations, Tightenings, Conflicts, PrunedLiterals} {
		if err := r.Register(c); err != nil {
			return err
		}
	}
	return nil
}
