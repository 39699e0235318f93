package integer

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ericr/precedences/lit"
)

func TestQuantityPairing(t *testing.T) {
	v := Var(7)

	assert.Equal(t, Quantity(14), v.LowerBound())
	assert.Equal(t, Quantity(15), v.MinusUpperBound())
	assert.Equal(t, v.MinusUpperBound(), v.LowerBound().Negation())
	assert.Equal(t, v, v.MinusUpperBound().Var())
	assert.True(t, v.MinusUpperBound().Negated())
	assert.Equal(t, "-x7", v.MinusUpperBound().String())
}

func TestBoundLitString(t *testing.T) {
	assert.Equal(t, "x2 >= 5", GreaterOrEqual(Var(2).LowerBound(), 5).String())
	assert.Equal(t, "x2 <= 9", GreaterOrEqual(Var(2).MinusUpperBound(), -9).String())
}

func TestCapAdd(t *testing.T) {
	tests := []struct {
		a, b, want int64
	}{
		{3, 4, 7},
		{-3, 4, 1},
		{math.MaxInt64, 1, math.MaxInt64},
		{math.MaxInt64 - 2, 5, math.MaxInt64},
		{math.MinInt64, -1, math.MinInt64},
		{math.MinInt64 + 1, -7, math.MinInt64},
		{math.MinInt64, math.MaxInt64, -1},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, CapAdd(tt.a, tt.b), "CapAdd(%d, %d)", tt.a, tt.b)
	}
}

func TestReason(t *testing.T) {
	r := Reason{}
	r.AddLiteral(lit.Undef)
	r.AddLiteral(lit.New(1, false))
	r.AddBound(NoQuantity, 4)
	r.AddBound(Var(0).LowerBound(), 4)

	c := r.Clone()
	r.Reset()

	assert.True(t, r.Empty())
	assert.Equal(t, []lit.Lit{lit.New(1, false)}, c.Literals)
	assert.Equal(t, []BoundLit{{Q: 0, Value: 4}}, c.Bounds)
	assert.Equal(t, "{b1, x0 >= 4}", c.String())
}

func TestSparseSet(t *testing.T) {
	s := NewSparseSet()
	s.Set(5)
	s.Set(2)
	s.Set(5)

	assert.Equal(t, []Quantity{5, 2}, s.Positions())

	s.Clear()
	assert.Equal(t, 0, s.Len())

	// Cleared members can be inserted again, beyond the initial universe too.
	s.Set(5)
	s.Set(100)
	assert.Equal(t, []Quantity{5, 100}, s.Positions())
}

func TestQueue(t *testing.T) {
	q := NewQueue()

	assert.True(t, q.Insert(3))
	assert.True(t, q.Insert(1))
	assert.False(t, q.Insert(3))
	assert.Equal(t, 2, q.Size())

	assert.Equal(t, Quantity(3), q.Dequeue())
	assert.True(t, q.Insert(3))
	assert.Equal(t, Quantity(1), q.Dequeue())
	assert.Equal(t, Quantity(3), q.Dequeue())
	assert.Equal(t, NoQuantity, q.Dequeue())

	q.Insert(4)
	q.Clear()
	assert.Equal(t, 0, q.Size())
	assert.True(t, q.Insert(4))
}
