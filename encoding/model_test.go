package encoding

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ericr/precedences/config"
	"github.com/ericr/precedences/integer"
	"github.com/ericr/precedences/lit"
)

const jobs = `
variables:
  - {name: start, min: 0, max: 100}
  - {name: end, min: 0, max: 100, optional: used}
  - {name: duration, min: 2, max: 10}
literals: [used, before]
precedences:
  - {tail: start, head: end, offsetVar: duration}
  - {tail: end, head: start, offset: -20, when: "~before"}
  - {tail: start, head: end, offset: 30, when: before}
assume: [used, "~before"]
query: [start, end, -end]
`

func TestParseModel(t *testing.T) {
	m, err := ParseModel(strings.NewReader(jobs))
	require.NoError(t, err)

	want := &Model{
		Variables: []Variable{
			{Name: "start", Min: 0, Max: 100},
			{Name: "end", Min: 0, Max: 100, Optional: "used"},
			{Name: "duration", Min: 2, Max: 10},
		},
		Literals: []string{"used", "before"},
		Precedences: []Precedence{
			{Tail: "start", Head: "end", OffsetVar: "duration"},
			{Tail: "end", Head: "start", Offset: -20, When: "~before"},
			{Tail: "start", Head: "end", Offset: 30, When: "before"},
		},
		Assume: []string{"used", "~before"},
		Query:  []string{"start", "end", "-end"},
	}
	if diff := cmp.Diff(want, m); diff != "" {
		t.Errorf("ParseModel() mismatch (-want +got):\n%s", diff)
	}
}

func TestParseModelErrors(t *testing.T) {
	tests := []struct {
		name  string
		model string
		err   string
	}{
		{
			name:  "empty",
			model: "",
			err:   "empty model",
		},
		{
			name:  "unknown field",
			model: "variables: [{name: x, min: 0, max: 1, step: 2}]",
			err:   "decoding model",
		},
		{
			name:  "duplicate variable",
			model: "variables: [{name: x, max: 1}, {name: x, max: 1}]",
			err:   `variable "x" declared twice`,
		},
		{
			name:  "empty domain",
			model: "variables: [{name: x, min: 2, max: 1}]",
			err:   "empty domain",
		},
		{
			name:  "bad name",
			model: "variables: [{name: -x, max: 1}]",
			err:   "cannot start with",
		},
		{
			name:  "unknown presence",
			model: "variables: [{name: x, max: 1, optional: p}]",
			err:   "unknown presence literal",
		},
		{
			name: "unknown head",
			model: `
variables: [{name: x, max: 1}]
precedences: [{tail: x, head: y}]`,
			err: `unknown variable "y"`,
		},
		{
			name: "optional offset",
			model: `
variables: [{name: x, max: 1}, {name: d, max: 1, optional: p}]
literals: [p]
precedences: [{tail: x, head: x, offsetVar: d}]`,
			err: "cannot be an offset",
		},
		{
			name: "unknown assumption",
			model: `
variables: [{name: x, max: 1}]
assume: [l]`,
			err: `unknown literal "l"`,
		},
		{
			name: "unknown query",
			model: `
variables: [{name: x, max: 1}]
query: [-y]`,
			err: `unknown variable "-y"`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseModel(strings.NewReader(tt.model))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.err)
		})
	}
}

func TestBuild(t *testing.T) {
	m, err := ParseModel(strings.NewReader(jobs))
	require.NoError(t, err)
	in, err := m.Build(config.Quiet())
	require.NoError(t, err)

	start, end := in.Vars["start"], in.Vars["end"]
	used, before := in.Lits["used"], in.Lits["before"]

	assert.Equal(t, []lit.Lit{used, before.Not()}, in.Assumptions)
	assert.Equal(t, []integer.Quantity{start.LowerBound(), end.LowerBound(), end.MinusUpperBound()}, in.Query)
	assert.Equal(t, 6, in.Propagator.NumArcs())

	tr := in.Trail
	require.True(t, tr.Propagate())
	assert.Equal(t, int64(2), tr.LowerBound(end.LowerBound()))

	for _, l := range in.Assumptions {
		require.True(t, tr.Assume(l))
		require.True(t, tr.Propagate())
	}
	// end <= start + 20 and start + 2 <= end.
	assert.Equal(t, int64(98), tr.UpperBound(start))

	require.True(t, tr.Decide(integer.GreaterOrEqual(end.MinusUpperBound(), -10)))
	require.True(t, tr.Propagate())
	assert.False(t, tr.Decide(integer.GreaterOrEqual(start.LowerBound(), 9)))
	assert.Equal(t, "start <= 8", in.BoundString(integer.GreaterOrEqual(start.MinusUpperBound(), -8)))
}

func TestNames(t *testing.T) {
	m, err := ParseModel(strings.NewReader(jobs))
	require.NoError(t, err)
	in, err := m.Build(config.Quiet())
	require.NoError(t, err)

	end := in.Vars["end"]
	before := in.Lits["before"]

	assert.Equal(t, "end", in.QuantityName(end.LowerBound()))
	assert.Equal(t, "-end", in.QuantityName(end.MinusUpperBound()))
	assert.Equal(t, "~before", in.LitName(before.Not()))
	assert.Equal(t, "true", in.LitName(lit.Undef))
	assert.Equal(t, "before, end >= 3, end <= 7", in.ReasonString(integer.Reason{
		Literals: []lit.Lit{before},
		Bounds: []integer.BoundLit{
			integer.GreaterOrEqual(end.LowerBound(), 3),
			integer.GreaterOrEqual(end.MinusUpperBound(), -7),
		},
	}))
}
