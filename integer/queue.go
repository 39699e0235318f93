package integer

// Queue is a FIFO of quantities that refuses duplicates. Note that this is not
// async-safe.
type Queue struct {
	items   []Quantity
	head    int
	inQueue []bool
}

// NewQueue returns a new queue.
func NewQueue() *Queue {
	return &Queue{}
}

// Insert appends q unless it is already queued. It returns false when q was
// already there.
func (q *Queue) Insert(v Quantity) bool {
	for int(v) >= len(q.inQueue) {
		q.inQueue = append(q.inQueue, false)
	}
	if q.inQueue[v] {
		return false
	}
	q.inQueue[v] = true
	q.items = append(q.items, v)

	return true
}

// Dequeue pops the first quantity off the queue, or NoQuantity when empty.
func (q *Queue) Dequeue() Quantity {
	if q.head == len(q.items) {
		return NoQuantity
	}
	first := q.items[q.head]
	q.inQueue[first] = false
	q.head++

	if q.head == len(q.items) {
		q.items = q.items[:0]
		q.head = 0
	}
	return first
}

// Clear clears the queue.
func (q *Queue) Clear() {
	for _, v := range q.items[q.head:] {
		q.inQueue[v] = false
	}
	q.items = q.items[:0]
	q.head = 0
}

// Size returns the size of the queue.
func (q *Queue) Size() int {
	return len(q.items) - q.head
}
