package integer

// SparseSet is a set of quantities that remembers the order in which its
// members were first inserted and can be cleared in time proportional to its
// size. Bound stores fill it with every quantity whose lower bound changed.
type SparseSet struct {
	in        []bool
	positions []Quantity
}

// NewSparseSet returns an empty set.
func NewSparseSet() *SparseSet {
	return &SparseSet{}
}

// Resize grows the universe of the set to n quantities.
func (s *SparseSet) Resize(n int) {
	for len(s.in) < n {
		s.in = append(s.in, false)
	}
}

// Set inserts q, growing the universe when needed.
func (s *SparseSet) Set(q Quantity) {
	if int(q) >= len(s.in) {
		s.Resize(int(q) + 1)
	}
	if s.in[q] {
		return
	}
	s.in[q] = true
	s.positions = append(s.positions, q)
}

// Positions returns the members in insertion order. The slice is owned by the
// set and is only valid until the next Set or Clear.
func (s *SparseSet) Positions() []Quantity {
	return s.positions
}

// Len returns the number of members.
func (s *SparseSet) Len() int {
	return len(s.positions)
}

// Clear removes every member.
func (s *SparseSet) Clear() {
	for _, q := range s.positions {
		s.in[q] = false
	}
	s.positions = s.positions[:0]
}
