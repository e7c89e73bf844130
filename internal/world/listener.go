package world

import "worldforge/internal/chunk"

// Listener receives lifecycle notifications. Calls are made while the
// manager holds its lock: implementations must return quickly and must not
// call back into the manager.
type Listener interface {
	ChunkCompleted(s chunk.Summary)
	ChunkEvicted(coord chunk.Coord, cached bool)
	ChunkDisposed(coord chunk.Coord)
	EventApplied(e chunk.WorldEvent, affected []chunk.Coord)
}

// NopListener ignores every notification.
type NopListener struct{}

func (NopListener) ChunkCompleted(chunk.Summary) {}
func (NopListener) ChunkEvicted(chunk.Coord, bool) {}
func (NopListener) ChunkDisposed(chunk.Coord) {}
func (NopListener) EventApplied(chunk.WorldEvent, []chunk.Coord) {}

// Listeners fans notifications out to several listeners in order.
type Listeners []Listener

func (l Listeners) ChunkCompleted(s chunk.Summary) {
	for _, x := range l {
		x.ChunkCompleted(s)
	}
}

func (l Listeners) ChunkEvicted(coord chunk.Coord, cached bool) {
	for _, x := range l {
		x.ChunkEvicted(coord, cached)
	}
}

func (l Listeners) ChunkDisposed(coord chunk.Coord) {
	for _, x := range l {
		x.ChunkDisposed(coord)
	}
}

func (l Listeners) EventApplied(e chunk.WorldEvent, affected []chunk.Coord) {
	for _, x := range l {
		x.EventApplied(e, affected)
	}
}
