package world

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"worldforge/internal/chunk"
)

// Get returns a snapshot of the active chunk at coord. Layers of a Complete
// chunk are shared with the manager and must be treated as read-only.
func (m *Manager) Get(coord chunk.Coord) (*chunk.Chunk, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.active[coord]
	if !ok {
		return nil, false
	}
	return s.chunk.Clone(), true
}

// IsLoaded reports whether coord is active and fully generated.
func (m *Manager) IsLoaded(coord chunk.Coord) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.active[coord]
	return ok && s.chunk.Complete()
}

// IsCached reports whether coord currently sits in the cache.
func (m *Manager) IsCached(coord chunk.Coord) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.cache.entries[coord]
	return ok
}

// Active returns snapshots of every active chunk ordered by coordinate. The
// slice is taken under a single lock, so it never mixes states from two
// ticks.
func (m *Manager) Active() []*chunk.Chunk {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*chunk.Chunk, 0, len(m.active))
	for _, coord := range m.sortedActive() {
		out = append(out, m.active[coord].chunk.Clone())
	}
	return out
}

// Summaries is Active reduced to chunk summaries.
func (m *Manager) Summaries() []chunk.Summary {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]chunk.Summary, 0, len(m.active))
	for _, coord := range m.sortedActive() {
		out = append(out, m.active[coord].chunk.Summary())
	}
	return out
}

// ChunkAt returns the active chunk containing world position pos.
func (m *Manager) ChunkAt(pos mgl64.Vec3) (*chunk.Chunk, bool) {
	return m.Get(chunk.WorldToCoord(pos, m.world.ChunkSize))
}

// Sample is the layer data of one vertex.
type Sample struct {
	Coord       chunk.Coord   `json:"coord"`
	X           int           `json:"x"`
	Z           int           `json:"z"`
	Height      float32       `json:"height"`
	Moisture    float32       `json:"moisture"`
	Temperature float32       `json:"temperature"`
	Biome       chunk.BiomeID `json:"biome"`
}

// SampleAt reads the vertex nearest to pos. It reports false unless the
// containing chunk is active and Complete.
func (m *Manager) SampleAt(pos mgl64.Vec3) (Sample, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	coord := chunk.WorldToCoord(pos, m.world.ChunkSize)
	s, ok := m.active[coord]
	if !ok || !s.chunk.Complete() {
		return Sample{}, false
	}
	c := s.chunk
	origin := coord.Origin(m.world.ChunkSize)
	step := c.Spacing(m.world.ChunkSize)
	x := nearestVertex(pos.X()-origin.X(), step, c.Resolution)
	z := nearestVertex(pos.Z()-origin.Z(), step, c.Resolution)
	i := c.Index(x, z)
	return Sample{
		Coord:       coord,
		X:           x,
		Z:           z,
		Height:      c.Height[i],
		Moisture:    c.Moisture[i],
		Temperature: c.Temperature[i],
		Biome:       c.Biome[i],
	}, true
}

func nearestVertex(offset, step float64, res int) int {
	v := int(math.Round(offset / step))
	return max(0, min(v, res-1))
}

// Viewpoint returns the last position passed to SetViewpoint.
func (m *Manager) Viewpoint() (mgl64.Vec3, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.viewpoint, m.hasViewpoint
}

// Events returns the stored world events, oldest first.
func (m *Manager) Events() []chunk.WorldEvent {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.events.Events()
}

// Stats is a point-in-time view of the manager's bookkeeping.
type Stats struct {
	Active       int    `json:"active"`
	Complete     int    `json:"complete"`
	Cached       int    `json:"cached"`
	NearQueue    int    `json:"nearQueue"`
	FarQueue     int    `json:"farQueue"`
	StoredEvents int    `json:"storedEvents"`
	Ticks        uint64 `json:"ticks"`
	Advanced     uint64 `json:"advanced"`
	Generated    uint64 `json:"generated"`
	Evicted      uint64 `json:"evicted"`
	Disposed     uint64 `json:"disposed"`
	Events       uint64 `json:"events"`
}

func (m *Manager) Stats() Stats {
	m.mu.RLock()
	defer m.mu.RUnlock()
	st := Stats{
		Active:       len(m.active),
		Cached:       m.cache.len(),
		NearQueue:    m.near.Len(),
		FarQueue:     m.far.Len(),
		StoredEvents: m.events.Len(),
		Ticks:        m.counters.ticks,
		Advanced:     m.counters.advanced,
		Generated:    m.counters.generated,
		Evicted:      m.counters.evicted,
		Disposed:     m.counters.disposed,
		Events:       m.counters.events,
	}
	for _, s := range m.active {
		if s.chunk.Complete() {
			st.Complete++
		}
	}
	return st
}
