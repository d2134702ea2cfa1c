package route

import "github.com/katalvlaran/pnroute/arch"

// QueuedWire is one search-frontier record: a wire, the pip used to arrive at
// it (the none sentinel for source wires), the accumulated cost so far, the
// admissible remaining estimate, and a randomized tiebreak tag.
//
// Frontier ordering is by (Delay + Togo) ascending; ties break by Randtag
// ascending, so equal-cost alternatives are explored in an order that varies
// with the RNG stream rather than with device enumeration order.
type QueuedWire struct {
	Wire arch.WireId
	Pip  arch.PipId

	Delay   arch.Delay
	Togo    arch.Delay
	Randtag int
}

// wireQueue is a min-heap of QueuedWire ordered by (Delay+Togo, Randtag).
// The search uses the lazy decrease-key pattern: relaxations push fresh
// entries, and entries made stale by a later relaxation are filtered against
// the visited map when popped.
type wireQueue []QueuedWire

// Len returns the number of items in the heap.
func (q wireQueue) Len() int { return len(q) }

// Less defines the comparison: smaller Delay+Togo first, Randtag on ties.
func (q wireQueue) Less(i, j int) bool {
	li, lj := q[i].Delay+q[i].Togo, q[j].Delay+q[j].Togo
	if li == lj {
		return q[i].Randtag < q[j].Randtag
	}

	return li < lj
}

// Swap swaps two elements in the heap.
func (q wireQueue) Swap(i, j int) { q[i], q[j] = q[j], q[i] }

// Push adds a new element x onto the heap. Called by heap.Push.
func (q *wireQueue) Push(x interface{}) { *q = append(*q, x.(QueuedWire)) }

// Pop removes and returns the least element. Called by heap.Pop.
func (q *wireQueue) Pop() interface{} {
	old := *q
	n := len(old)
	item := old[n-1]
	*q = old[:n-1]

	return item
}
