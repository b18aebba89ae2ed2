package intrinsic

import "container/heap"

type edgeHeap []int

func (p edgeHeap) Len() int           { return len(p) }
func (p edgeHeap) Less(i, j int) bool { return p[i] < p[j] }
func (p edgeHeap) Swap(i, j int)      { p[i], p[j] = p[j], p[i] }

func (p *edgeHeap) Push(x interface{}) {
	*p = append(*p, x.(int))
}

func (p *edgeHeap) Pop() interface{} {
	old := *p
	x := old[len(old)-1]
	*p = old[:len(old)-1]
	return x
}

// edgeQueue is an ordered set of edge ids. pop always yields the smallest id
// and an id is held at most once.
type edgeQueue struct {
	heap   edgeHeap
	queued []bool
}

// newEdgeQueue returns a queue holding every edge in [0, n).
func newEdgeQueue(n int) *edgeQueue {
	q := &edgeQueue{
		heap:   make(edgeHeap, n),
		queued: make([]bool, n),
	}
	for e := range q.heap {
		q.heap[e] = e
		q.queued[e] = true
	}
	heap.Init(&q.heap)
	return q
}

func (q *edgeQueue) push(e int) {
	if q.queued[e] {
		return
	}
	q.queued[e] = true
	heap.Push(&q.heap, e)
}

func (q *edgeQueue) pop() (int, bool) {
	if len(q.heap) == 0 {
		return NullID, false
	}
	e := heap.Pop(&q.heap).(int)
	q.queued[e] = false
	return e, true
}

func (q *edgeQueue) len() int {
	return len(q.heap)
}
