package order

// Order is a min-heap of dense item indices, ordered by a key looked up in a
// shared slice and then by the index itself, so that extraction order is fully
// deterministic.
type Order struct {
	items   []int
	indices []int
	keys    *[]int64
}

// New returns a new Order reading keys from the given slice, indexed by item.
func New(keys *[]int64) *Order {
	return &Order{
		items:   []int{},
		indices: []int{},
		keys:    keys,
	}
}

// Reset empties the heap while keeping its buffers.
func (o *Order) Reset() {
	for _, v := range o.items {
		o.indices[v] = -1
	}
	o.items = o.items[:0]
}

// Push pushes an item onto the heap. Pushing an item already on it is a no-op.
func (o *Order) Push(v int) {
	for len(o.indices) <= v {
		o.indices = append(o.indices, -1)
	}
	if o.indices[v] != -1 {
		return
	}
	o.indices[v] = len(o.items)
	o.items = append(o.items, v)
	o.up(o.Len() - 1)
}

// Pop removes and returns the item with the smallest key, or -1 when empty.
func (o *Order) Pop() int {
	if o.Len() == 0 {
		return -1
	}
	n := len(o.items) - 1
	o.swap(0, n)
	o.down(0, n)
	v := o.items[n]
	o.items = o.items[:n]
	o.indices[v] = -1

	return v
}

// Len returns the number of items on the heap.
func (o *Order) Len() int {
	return len(o.items)
}

// less compares the items at two heap positions.
func (o *Order) less(i, j int) bool {
	vi, vj := o.items[i], o.items[j]
	ki, kj := (*o.keys)[vi], (*o.keys)[vj]

	if ki != kj {
		return ki < kj
	}
	return vi < vj
}

// swap swaps the items at two heap positions.
func (o *Order) swap(i, j int) {
	k, l := o.items[i], o.items[j]

	o.items[i], o.items[j] = l, k
	o.indices[k], o.indices[l] = j, i
}

// up percolates an element from the heap up, as adopted from Go's
// container/heap package.
func (o *Order) up(j int) {
	for {
		i := (j - 1) / 2
		if i == j || !o.less(j, i) {
			break
		}
		o.swap(i, j)
		j = i
	}
}

// down percolates an element from the heap down, as adopted from Go's
// container/heap package.
func (o *Order) down(i0, n int) bool {
	i := i0
	for {
		j1 := 2*i + 1
		if j1 >= n || j1 < 0 {
			break
		}
		j := j1
		if j2 := j1 + 1; j2 < n && o.less(j2, j1) {
			j = j2
		}
		if !o.less(j, i) {
			break
		}
		o.swap(i, j)
		i = j
	}
	return i > i0
}
