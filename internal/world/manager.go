package world

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"sort"
	"sync"
	"time"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/google/uuid"

	"worldforge/internal/chunk"
	"worldforge/internal/config"
)

// ErrNoViewpoint is returned by Tick before the first SetViewpoint call.
var ErrNoViewpoint = errors.New("world: no viewpoint set")

// Advancer moves every given chunk forward by exactly one stage. Chunks in a
// batch are distinct and may be processed concurrently.
type Advancer interface {
	AdvanceAll(ctx context.Context, chunks []*chunk.Chunk) error
}

type tier uint8

const (
	tierNear tier = iota
	tierFar
)

func (t tier) String() string {
	if t == tierNear {
		return "near"
	}
	return "far"
}

// slot is the manager's bookkeeping around an owned chunk.
type slot struct {
	chunk  *chunk.Chunk
	tier   tier
	ticket Ticket
	queued bool
	// cursor is the first event sequence the chunk has not been checked
	// against. Only meaningful while the chunk is cached.
	cursor uint64
}

// Manager owns every active and cached chunk, decides which chunks should
// exist around the viewpoint and drives them through the pipeline.
type Manager struct {
	world    config.WorldConfig
	lods     chunk.LODTable
	advancer Advancer
	log      *slog.Logger
	listener Listener
	now      func() time.Time

	mu           sync.RWMutex
	active       map[chunk.Coord]*slot
	cache        *cache
	near         *Queue
	far          *Queue
	events       *EventStore
	viewpoint    mgl64.Vec3
	center       chunk.Coord
	hasViewpoint bool
	nextTicket   Ticket
	started      time.Time
	lastSweep    time.Time
	counters     counters
}

type counters struct {
	ticks     uint64
	advanced  uint64
	generated uint64
	evicted   uint64
	disposed  uint64
	events    uint64
}

// Option configures a Manager.
type Option func(*Manager)

// WithClock replaces time.Now, mainly for tests.
func WithClock(now func() time.Time) Option {
	return func(m *Manager) {
		m.now = now
	}
}

func WithLogger(log *slog.Logger) Option {
	return func(m *Manager) {
		if log != nil {
			m.log = log
		}
	}
}

func WithListener(l Listener) Option {
	return func(m *Manager) {
		if l != nil {
			m.listener = l
		}
	}
}

// NewManager validates the resolution table and returns an empty manager.
// Errors wrap chunk.ErrInvalidLOD for invalid resolutions or rings.
func NewManager(cfg *config.Config, advancer Advancer, opts ...Option) (*Manager, error) {
	if advancer == nil {
		return nil, errors.New("world: nil advancer")
	}
	lods, err := chunk.NewLODTable(cfg.World.BaseResolution, cfg.World.ViewDistances)
	if err != nil {
		return nil, err
	}
	if cfg.World.MaxChunksPerTick <= 0 {
		return nil, fmt.Errorf("world: max chunks per tick must be positive, got %d", cfg.World.MaxChunksPerTick)
	}
	m := &Manager{
		world:    cfg.World,
		lods:     lods,
		advancer: advancer,
		log:      slog.Default(),
		listener: NopListener{},
		now:      time.Now,
		active:   make(map[chunk.Coord]*slot),
		cache:    newCache(cfg.World.CacheCapacity),
		near:     NewQueue(),
		far:      NewQueue(),
		events:   NewEventStore(cfg.Events.MaxStored, cfg.Events.Lifetime.Duration()),
	}
	for _, opt := range opts {
		opt(m)
	}
	m.started = m.now()
	m.lastSweep = m.started
	return m, nil
}

// LODs returns the resolution and ring table.
func (m *Manager) LODs() chunk.LODTable {
	return m.lods
}

// SetViewpoint recomputes the desired chunk set around pos. Chunks leaving
// every ring are evicted to the cache, new chunks are created or reinstated
// and scheduled nearest first.
func (m *Manager) SetViewpoint(pos mgl64.Vec3) {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	m.viewpoint = pos
	m.hasViewpoint = true
	m.center = chunk.WorldToCoord(pos, m.world.ChunkSize)

	desired := desiredSet(m.center, m.lods)

	var leaving []chunk.Coord
	for coord := range m.active {
		if _, ok := desired[coord]; !ok {
			leaving = append(leaving, coord)
		}
	}
	byDistance(m.center, leaving)
	for _, coord := range leaving {
		s := m.active[coord]
		delete(m.active, coord)
		m.evict(s)
	}

	ordered := make([]chunk.Coord, 0, len(desired))
	for coord := range desired {
		ordered = append(ordered, coord)
	}
	byDistance(m.center, ordered)

	for _, coord := range ordered {
		lod := desired[coord]
		res := m.lods.Resolution(lod)
		s, ok := m.active[coord]
		if !ok {
			s = m.activate(coord, lod, now)
		} else {
			s.chunk.LastAccess = now
			s.chunk.SetLOD(lod, res)
		}
		m.reschedule(s)
	}
}

// activate reinstates coord from the cache or creates it, and registers it
// as active.
func (m *Manager) activate(coord chunk.Coord, lod chunk.LOD, now time.Time) *slot {
	res := m.lods.Resolution(lod)
	s, ok := m.cache.take(coord)
	if ok {
		s.chunk.SetLOD(lod, res)
	} else {
		s = &slot{chunk: chunk.New(coord, lod, res)}
	}
	s.chunk.LastAccess = now
	for _, e := range m.events.Covering(s.cursor, coord.Center(m.world.ChunkSize)) {
		s.chunk.AddEvent(e)
	}
	m.active[coord] = s
	return s
}

// reschedule queues an incomplete active chunk on the tier matching its
// distance, unless it is already queued there.
func (m *Manager) reschedule(s *slot) {
	if s.chunk.Complete() {
		return
	}
	t := m.tierFor(s.chunk.Coord)
	if s.queued && s.tier == t {
		return
	}
	m.schedule(s, t)
}

func (m *Manager) schedule(s *slot, t tier) {
	m.nextTicket++
	s.ticket = m.nextTicket
	s.tier = t
	s.queued = true
	m.queue(t).Enqueue(s.chunk.Coord, s.ticket)
}

func (m *Manager) queue(t tier) *Queue {
	if t == tierNear {
		return m.near
	}
	return m.far
}

func (m *Manager) tierFor(coord chunk.Coord) tier {
	if m.center.Chebyshev(coord) <= m.lods.ViewDistance(chunk.LODFull) {
		return tierNear
	}
	return tierFar
}

// live reports whether a queue entry still refers to the current scheduling
// of an active chunk on tier t.
func (m *Manager) live(t tier) func(chunk.Coord, Ticket) bool {
	return func(coord chunk.Coord, ticket Ticket) bool {
		s, ok := m.active[coord]
		return ok && s.queued && s.tier == t && s.ticket == ticket
	}
}

// evict moves s to the cache, or disposes it when the cache is full. The
// cache timeout counts from the eviction.
func (m *Manager) evict(s *slot) {
	s.queued = false
	s.chunk.LastAccess = m.now()
	s.cursor = m.events.Next()
	coord := s.chunk.Coord
	m.counters.evicted++
	if m.cache.put(s) {
		m.listener.ChunkEvicted(coord, true)
		return
	}
	m.listener.ChunkEvicted(coord, false)
	m.dispose(s)
}

func (m *Manager) dispose(s *slot) {
	s.chunk.Release()
	m.counters.disposed++
	m.listener.ChunkDisposed(s.chunk.Coord)
}

// Tick advances up to MaxChunksPerTick near chunks and FarChunksPerTick far
// chunks by one stage each. Chunks that are still incomplete go back to the
// tail of their queue. The periodic cache and event sweep also runs here.
func (m *Manager) Tick(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.hasViewpoint {
		return ErrNoViewpoint
	}
	m.counters.ticks++

	coords := m.near.Drain(m.world.MaxChunksPerTick, m.live(tierNear))
	if m.world.FarChunksPerTick > 0 {
		coords = append(coords, m.far.Drain(m.world.FarChunksPerTick, m.live(tierFar))...)
	}

	batch := make([]*slot, 0, len(coords))
	chunks := make([]*chunk.Chunk, 0, len(coords))
	for _, coord := range coords {
		s := m.active[coord]
		s.queued = false
		batch = append(batch, s)
		chunks = append(chunks, s.chunk)
	}

	var err error
	if len(chunks) > 0 {
		err = m.advancer.AdvanceAll(ctx, chunks)
		m.counters.advanced += uint64(len(chunks))
	}

	for _, s := range batch {
		if s.chunk.Complete() {
			m.counters.generated++
			m.listener.ChunkCompleted(s.chunk.Summary())
			continue
		}
		m.schedule(s, s.tier)
	}

	now := m.now()
	if now.Sub(m.lastSweep) >= m.world.SweepInterval.Duration() {
		m.sweep(now)
	}

	if err != nil {
		return fmt.Errorf("world: tick: %w", err)
	}
	return nil
}

// Sweep runs the cache and event expiry immediately.
func (m *Manager) Sweep() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sweep(m.now())
}

func (m *Manager) sweep(now time.Time) {
	m.lastSweep = now

	for _, s := range m.cache.expire(now, m.world.CacheTimeout.Duration()) {
		m.dispose(s)
	}

	if gone := m.events.Expire(now); len(gone) > 0 {
		keep := func(e chunk.WorldEvent) bool {
			_, expired := gone[e.ID]
			return !expired
		}
		for _, s := range m.active {
			if s.chunk.Events.Filter(keep) > 0 {
				s.chunk.Redirty()
				m.reschedule(s)
			}
		}
		for _, s := range m.cache.entries {
			if s.chunk.Events.Filter(keep) > 0 {
				s.chunk.Redirty()
			}
		}
		m.log.Debug("world events expired", "count", len(gone))
	}

	m.near.Prune(m.live(tierNear))
	m.far.Prune(m.live(tierFar))
}

// EventReport describes the outcome of ApplyEvent.
type EventReport struct {
	Event    chunk.WorldEvent
	Affected []chunk.Coord
}

// ApplyEvent records a new world event and attaches it to every active chunk
// whose center lies within radius of pos. Chunks whose event list is full
// are skipped. Applying the same parameters twice creates two events.
func (m *Manager) ApplyEvent(kind chunk.EventKind, pos mgl64.Vec3, radius, intensity float64) (EventReport, error) {
	if kind == chunk.EventNone || kind > chunk.EventNaturalDisaster {
		return EventReport{}, fmt.Errorf("world: invalid event kind %s", kind)
	}
	if !(radius >= 0) || math.IsInf(radius, 0) || math.IsNaN(intensity) || math.IsInf(intensity, 0) {
		return EventReport{}, fmt.Errorf("world: invalid event radius %v or intensity %v", radius, intensity)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	e := chunk.WorldEvent{
		ID:        uuid.New(),
		Kind:      kind,
		Epicenter: pos,
		Radius:    radius,
		Intensity: intensity,
		Timestamp: now.Sub(m.started).Seconds(),
	}
	m.events.Add(e, now)
	m.counters.events++

	report := EventReport{Event: e}
	for _, coord := range m.sortedActive() {
		s := m.active[coord]
		if !e.Covers(coord.Center(m.world.ChunkSize)) {
			continue
		}
		if !s.chunk.AddEvent(e) {
			continue
		}
		report.Affected = append(report.Affected, coord)
		m.reschedule(s)
	}
	m.listener.EventApplied(e, report.Affected)
	m.log.Debug("world event applied", "kind", kind, "epicenter", pos, "radius", radius, "affected", len(report.Affected))
	return report, nil
}

func (m *Manager) sortedActive() []chunk.Coord {
	coords := make([]chunk.Coord, 0, len(m.active))
	for coord := range m.active {
		coords = append(coords, coord)
	}
	sort.Slice(coords, func(i, j int) bool { return coords[i].Less(coords[j]) })
	return coords
}
