package event

import "sync"

// Queue buffers events raised during a tick so the host can handle them
// after collision resolution has finished.
type Queue struct {
	mu     sync.Mutex
	events []Event
	limit  int
	drops  uint64
}

// NewQueue creates a queue holding at most limit events. A non-positive
// limit means unbounded. Events pushed past the limit are dropped and
// counted.
func NewQueue(limit int) *Queue {
	return &Queue{limit: limit}
}

// Push appends e.
func (q *Queue) Push(e Event) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.limit > 0 && len(q.events) >= q.limit {
		q.drops++
		return
	}
	q.events = append(q.events, e)
}

// Len returns the number of queued events.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.events)
}

// Dropped returns how many events were discarded because the queue was full.
func (q *Queue) Dropped() uint64 {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.drops
}

// Drain removes and returns every queued event in push order.
func (q *Queue) Drain() []Event {
	q.mu.Lock()
	defer q.mu.Unlock()

	out := q.events
	q.events = nil
	return out
}

// Forward drains the queue into bus and returns how many events were
// published.
func (q *Queue) Forward(bus *Bus) int {
	events := q.Drain()
	for _, e := range events {
		bus.Publish(e)
	}
	return len(events)
}
