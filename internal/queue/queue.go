// Package queue provides the timestamp-ordered event queue driving the
// simulation. Ordering is total: ascending timestamp, ties broken by
// insertion order so that replays are deterministic.
package queue

import (
	"container/heap"
	"errors"

	"github.com/example/ride-sim/internal/event"
)

// ErrEmpty is returned by RemoveMin when no events remain.
var ErrEmpty = errors.New("queue: empty")

type entry struct {
	ev  event.Event
	seq uint64
}

type entryHeap []entry

func (h entryHeap) Len() int { return len(h) }

func (h entryHeap) Less(i, j int) bool {
	if h[i].ev.Timestamp() != h[j].ev.Timestamp() {
		return h[i].ev.Timestamp() < h[j].ev.Timestamp()
	}
	return h[i].seq < h[j].seq
}

func (h entryHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }

func (h *entryHeap) Push(x any) { *h = append(*h, x.(entry)) }

func (h *entryHeap) Pop() any {
	old := *h
	n := len(old)
	item := old[n-1]
	old[n-1] = entry{} // avoid holding the popped event
	*h = old[:n-1]
	return item
}

// EventQueue is a stable min-heap of events. The zero value is not usable;
// call New.
type EventQueue struct {
	entries entryHeap
	seq     uint64
}

func New() *EventQueue {
	return &EventQueue{entries: make(entryHeap, 0)}
}

// Add inserts ev in O(log n).
func (q *EventQueue) Add(ev event.Event) {
	heap.Push(&q.entries, entry{ev: ev, seq: q.seq})
	q.seq++
}

// RemoveMin removes and returns the event with the smallest timestamp.
// Events sharing a timestamp come out in insertion order.
func (q *EventQueue) RemoveMin() (event.Event, error) {
	if q.entries.Len() == 0 {
		return nil, ErrEmpty
	}
	e := heap.Pop(&q.entries).(entry)
	return e.ev, nil
}

func (q *EventQueue) Len() int { return q.entries.Len() }

func (q *EventQueue) IsEmpty() bool { return q.entries.Len() == 0 }
