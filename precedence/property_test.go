package precedence

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ericr/precedences/integer"
)

type testArc struct {
	tail, head int
	offset     int64
}

// hasPositiveCycle runs Floyd-Warshall on the longest paths of the graph.
func hasPositiveCycle(n int, arcs []testArc) bool {
	const none = int64(-1 << 40)

	dist := make([][]int64, n)
	for i := range dist {
		dist[i] = make([]int64, n)
		for j := range dist[i] {
			dist[i][j] = none
		}
		dist[i][i] = 0
	}
	for _, a := range arcs {
		if a.offset > dist[a.tail][a.head] {
			dist[a.tail][a.head] = a.offset
		}
	}
	for k := 0; k < n; k++ {
		for i := 0; i < n; i++ {
			for j := 0; j < n; j++ {
				if dist[i][k] == none || dist[k][j] == none {
					continue
				}
				if d := dist[i][k] + dist[k][j]; d > dist[i][j] {
					dist[i][j] = d
				}
			}
		}
	}
	for i := 0; i < n; i++ {
		if dist[i][i] > 0 {
			return true
		}
	}
	return false
}

func TestConflictIffPositiveCycle(t *testing.T) {
	rng := rand.New(rand.NewSource(42))

	for run := 0; run < 300; run++ {
		n := 2 + rng.Intn(5)
		arcs := []testArc{}
		for i := rng.Intn(3 * n); i >= 0; i-- {
			arcs = append(arcs, testArc{
				tail:   rng.Intn(n),
				head:   rng.Intn(n),
				offset: int64(rng.Intn(9) - 6),
			})
		}

		tr, p := newTestPropagator(t)
		vars := make([]integer.Var, n)
		for i := range vars {
			vars[i] = newVar(t, tr, -integer.MaxValue, integer.MaxValue)
		}
		for _, a := range arcs {
			p.AddPrecedenceWithOffset(vars[a.tail], vars[a.head], a.offset)
		}

		want := hasPositiveCycle(n, arcs)
		got := tr.Propagate()
		require.Equal(t, want, !got, "run %d: %+v", run, arcs)

		if got {
			for _, a := range arcs {
				assert.GreaterOrEqual(t, lb(tr, vars[a.head]), lb(tr, vars[a.tail])+a.offset)
			}
		} else {
			// Only unconditional arcs, found by the cycle check and not by a
			// domain wipe out.
			assert.True(t, tr.Conflict().Empty(), "run %d", run)
		}
	}
}

func TestBatchEqualsOneByOne(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	const n = 8

	for run := 0; run < 50; run++ {
		arcs := []testArc{}
		for i := 0; i < n; i++ {
			for j := i + 1; j < n; j++ {
				switch rng.Intn(4) {
				case 0:
					arcs = append(arcs, testArc{tail: i, head: j, offset: int64(rng.Intn(6))})
				case 1:
					// Backward arcs close cycles of non positive length.
					arcs = append(arcs, testArc{tail: j, head: i, offset: -50})
				}
			}
		}
		type change struct {
			v     int
			upper bool
			value int64
		}
		changes := []change{}
		for i := 0; i < 6; i++ {
			c := change{v: rng.Intn(n), upper: rng.Intn(2) == 0}
			if c.upper {
				c.value = -int64(150 + rng.Intn(50))
			} else {
				c.value = int64(rng.Intn(50))
			}
			changes = append(changes, c)
		}

		bounds := [2][]int64{}
		for k, oneByOne := range []bool{false, true} {
			tr, p := newTestPropagator(t)
			vars := make([]integer.Var, n)
			for i := range vars {
				vars[i] = newVar(t, tr, 0, 200)
			}
			for _, a := range arcs {
				p.AddPrecedenceWithOffset(vars[a.tail], vars[a.head], a.offset)
			}
			require.True(t, tr.Propagate())

			for _, c := range changes {
				q := vars[c.v].LowerBound()
				if c.upper {
					q = vars[c.v].MinusUpperBound()
				}
				require.True(t, tr.Enqueue(integer.GreaterOrEqual(q, c.value), integer.Reason{}))
				if oneByOne {
					require.True(t, tr.Propagate())
				}
			}
			require.True(t, tr.Propagate())
			require.True(t, p.NoPropagationLeft())

			for q := 0; q < tr.NumQuantities(); q++ {
				bounds[k] = append(bounds[k], tr.LowerBound(integer.Quantity(q)))
			}
		}
		assert.Equal(t, bounds[0], bounds[1], "run %d", run)
	}
}
