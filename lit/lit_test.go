package lit

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNot(t *testing.T) {
	assert.Equal(t, New(12, true), New(12, false).Not())
	assert.Equal(t, New(12, false), New(12, true).Not())
}

func TestSign(t *testing.T) {
	assert.True(t, New(12, true).Sign())
	assert.False(t, New(12, false).Sign())
}

func TestIndex(t *testing.T) {
	assert.Equal(t, 23, New(23, false).Index())
	assert.Equal(t, 23, New(23, true).Index())
}

func TestSlotsAreAdjacent(t *testing.T) {
	p := New(4, false)

	assert.Equal(t, 8, p.Slot())
	assert.Equal(t, 9, p.Not().Slot())
}

func TestUndef(t *testing.T) {
	assert.False(t, Undef.Defined())
	assert.True(t, New(0, false).Defined())
	assert.Equal(t, "undef", Undef.String())
	assert.Equal(t, "~b3", New(3, true).String())
}
