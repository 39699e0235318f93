package order

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOrderPopsSmallestKeyFirst(t *testing.T) {
	keys := []int64{5, 1, 3, 1, 0}

	ord := New(&keys)
	for v := range keys {
		ord.Push(v)
	}

	got := []int{}
	for ord.Len() > 0 {
		got = append(got, ord.Pop())
	}
	// Ties on key 1 are broken by the item index.
	assert.Equal(t, []int{4, 1, 3, 2, 0}, got)
	assert.Equal(t, -1, ord.Pop())
}

func TestOrderPushIsIdempotent(t *testing.T) {
	keys := []int64{2, 1}

	ord := New(&keys)
	ord.Push(0)
	ord.Push(0)
	ord.Push(1)

	assert.Equal(t, 2, ord.Len())
	assert.Equal(t, 1, ord.Pop())
	assert.Equal(t, 0, ord.Pop())
	assert.Equal(t, -1, ord.Pop())
}

func TestOrderReset(t *testing.T) {
	keys := []int64{2, 1, 0}

	ord := New(&keys)
	ord.Push(0)
	ord.Push(2)
	ord.Reset()

	assert.Equal(t, 0, ord.Len())

	// Items removed by Reset can be pushed again.
	ord.Push(2)
	ord.Push(1)
	assert.Equal(t, 2, ord.Len())
	assert.Equal(t, 2, ord.Pop())
	assert.Equal(t, 1, ord.Pop())
}
