package intrinsic

import "testing"

func TestEdgeQueueOrder(t *testing.T) {
	q := newEdgeQueue(5)
	if q.len() != 5 {
		t.Fatalf("len() = %d, want 5", q.len())
	}

	var got []int
	e, _ := q.pop()
	got = append(got, e)
	e, _ = q.pop()
	got = append(got, e)

	// 0 was popped and may come back, 3 is still queued
	q.push(3)
	q.push(0)
	q.push(3)
	for {
		e, ok := q.pop()
		if !ok {
			break
		}
		got = append(got, e)
	}

	want := []int{0, 1, 0, 2, 3, 4}
	if len(got) != len(want) {
		t.Fatalf("popped %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("popped %v, want %v", got, want)
		}
	}
	if e, ok := q.pop(); ok || e != NullID {
		t.Errorf("pop() on empty queue = %d, %v", e, ok)
	}
}

func TestEdgeQueueEmpty(t *testing.T) {
	q := newEdgeQueue(0)
	if _, ok := q.pop(); ok {
		t.Error("pop() on empty queue reported an edge")
	}
}
