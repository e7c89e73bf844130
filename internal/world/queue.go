package world

import (
	"sync"

	"worldforge/internal/chunk"
)

// Ticket identifies one scheduling of a chunk. Entries whose ticket no longer
// matches the chunk's current ticket are stale and skipped.
type Ticket uint64

type request struct {
	coord  chunk.Coord
	ticket Ticket
}

// Queue is a FIFO of chunk work requests.
type Queue struct {
	mu      sync.Mutex
	pending []request
}

func NewQueue() *Queue {
	return &Queue{
		pending: make([]request, 0),
	}
}

func (q *Queue) Enqueue(coord chunk.Coord, ticket Ticket) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.pending = append(q.pending, request{coord: coord, ticket: ticket})
}

// Drain removes up to max live requests from the head of the queue, in order.
// Stale requests met on the way are discarded without counting toward max.
// max <= 0 drains everything.
func (q *Queue) Drain(max int, live func(chunk.Coord, Ticket) bool) []chunk.Coord {
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.pending) == 0 {
		return nil
	}
	var batch []chunk.Coord
	i := 0
	for ; i < len(q.pending); i++ {
		if max > 0 && len(batch) >= max {
			break
		}
		r := q.pending[i]
		if live(r.coord, r.ticket) {
			batch = append(batch, r.coord)
		}
	}
	if i >= len(q.pending) {
		q.pending = nil
		return batch
	}
	q.pending = append([]request(nil), q.pending[i:]...)
	return batch
}

// Prune drops every stale request and returns how many were removed.
func (q *Queue) Prune(live func(chunk.Coord, Ticket) bool) int {
	q.mu.Lock()
	defer q.mu.Unlock()
	n := 0
	for _, r := range q.pending {
		if live(r.coord, r.ticket) {
			q.pending[n] = r
			n++
		}
	}
	removed := len(q.pending) - n
	q.pending = q.pending[:n]
	return removed
}

func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.pending)
}
