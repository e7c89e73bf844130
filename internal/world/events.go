package world

import (
	"time"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/google/uuid"

	"worldforge/internal/chunk"
)

type storedEvent struct {
	seq     uint64
	event   chunk.WorldEvent
	applied time.Time
}

// EventStore keeps applied events so that chunks created or reinstated later
// still receive the events covering them. Sequence numbers start at 1.
type EventStore struct {
	events   []storedEvent
	next     uint64
	max      int
	lifetime time.Duration
}

func NewEventStore(max int, lifetime time.Duration) *EventStore {
	return &EventStore{next: 1, max: max, lifetime: lifetime}
}

// Add records e and returns its sequence number. The oldest event is dropped
// once the store holds max events.
func (s *EventStore) Add(e chunk.WorldEvent, now time.Time) uint64 {
	seq := s.next
	s.next++
	if s.max <= 0 {
		return seq
	}
	if len(s.events) >= s.max {
		copy(s.events, s.events[1:])
		s.events = s.events[:len(s.events)-1]
	}
	s.events = append(s.events, storedEvent{seq: seq, event: e, applied: now})
	return seq
}

// Next is the sequence number the next event will receive.
func (s *EventStore) Next() uint64 {
	return s.next
}

// Covering returns the events with seq >= since whose radius covers p, oldest
// first.
func (s *EventStore) Covering(since uint64, p mgl64.Vec3) []chunk.WorldEvent {
	var out []chunk.WorldEvent
	for _, st := range s.events {
		if st.seq >= since && st.event.Covers(p) {
			out = append(out, st.event)
		}
	}
	return out
}

// Expire drops events older than the lifetime and returns their IDs. A zero
// lifetime keeps events forever.
func (s *EventStore) Expire(now time.Time) map[uuid.UUID]struct{} {
	if s.lifetime <= 0 {
		return nil
	}
	gone := make(map[uuid.UUID]struct{})
	n := 0
	for _, st := range s.events {
		if now.Sub(st.applied) >= s.lifetime {
			gone[st.event.ID] = struct{}{}
			continue
		}
		s.events[n] = st
		n++
	}
	clear(s.events[n:])
	s.events = s.events[:n]
	if len(gone) == 0 {
		return nil
	}
	return gone
}

func (s *EventStore) Len() int {
	return len(s.events)
}

// Events returns a copy of the stored events, oldest first.
func (s *EventStore) Events() []chunk.WorldEvent {
	out := make([]chunk.WorldEvent, len(s.events))
	for i, st := range s.events {
		out[i] = st.event
	}
	return out
}
