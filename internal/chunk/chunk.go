package chunk

import (
	"time"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/go-gl/mathgl/mgl64"
)

// POI is a point of interest in local grid coordinates.
type POI struct {
	X int `json:"x"`
	Z int `json:"z"`
}

// Spawn is an entity placement produced by the entity stage.
type Spawn struct {
	Position mgl32.Vec3 `json:"position"`
	TypeID   uint32     `json:"typeId"`
	Threat   float32    `json:"threat"`
	IsLoot   bool       `json:"isLoot"`
}

// Chunk holds every generation layer of one grid cell plus its lifecycle
// state. A chunk is owned by a single manager; readers receive clones.
type Chunk struct {
	Coord      Coord
	LOD        LOD
	Stage      Stage
	Resolution int
	LastAccess time.Time
	Dirty      bool

	// Per-vertex layers, row-major, indexed x + z*Resolution.
	Height      []float32 // world units
	Moisture    []float32
	Temperature []float32
	Biome       []BiomeID

	HasRiver bool
	HasRoad  bool
	POIs     Bounded[POI]

	HasSettlement   bool
	SettlementSize  uint8
	SettlementScore float64

	HasDungeon    bool
	DungeonDepth  int
	DungeonChance float64

	Threat   float64
	Entities Bounded[Spawn]
	Events   Bounded[WorldEvent]
}

// New returns an empty chunk in StageQueued. Layers are allocated by the
// queued stage handler.
func New(coord Coord, lod LOD, resolution int) *Chunk {
	return &Chunk{
		Coord:      coord,
		LOD:        lod,
		Resolution: resolution,
		Stage:      StageQueued,
		POIs:       NewBounded[POI](MaxPOIs),
		Entities:   NewBounded[Spawn](MaxEntities),
		Events:     NewBounded[WorldEvent](MaxEvents),
	}
}

// Index returns the layer index of local vertex (x, z).
func (c *Chunk) Index(x, z int) int {
	return x + z*c.Resolution
}

// Allocated reports whether every layer is sized for the current resolution.
func (c *Chunk) Allocated() bool {
	n := c.Resolution * c.Resolution
	return len(c.Height) == n && len(c.Moisture) == n && len(c.Temperature) == n && len(c.Biome) == n
}

// Allocate replaces every layer with zeroed buffers sized Resolution².
func (c *Chunk) Allocate() {
	n := c.Resolution * c.Resolution
	c.Height = make([]float32, n)
	c.Moisture = make([]float32, n)
	c.Temperature = make([]float32, n)
	c.Biome = make([]BiomeID, n)
}

// Release drops every owned buffer.
func (c *Chunk) Release() {
	c.Height = nil
	c.Moisture = nil
	c.Temperature = nil
	c.Biome = nil
	c.POIs.Reset()
	c.Entities.Reset()
	c.Events.Reset()
}

// Spacing is the world distance between neighbouring vertices. Edge vertices
// coincide with the neighbouring chunk's edge.
func (c *Chunk) Spacing(size float64) float64 {
	if c.Resolution <= 1 {
		return size
	}
	return size / float64(c.Resolution-1)
}

// VertexPosition returns the world position of local vertex (x, z) at y = 0.
func (c *Chunk) VertexPosition(x, z int, size float64) mgl64.Vec3 {
	step := c.Spacing(size)
	o := c.Coord.Origin(size)
	return mgl64.Vec3{o.X() + float64(x)*step, 0, o.Z() + float64(z)*step}
}

// Redirty schedules the chunk for a fresh terrain pass. Chunks that have not
// yet passed BaseTerrain keep their stage. Layers are reallocated so that
// clones handed out earlier keep their contents.
func (c *Chunk) Redirty() {
	c.Dirty = true
	if c.Stage <= StageBaseTerrain {
		return
	}
	c.Stage = StageBaseTerrain
	c.Allocate()
}

// SetLOD moves the chunk to another tier and schedules a re-run.
func (c *Chunk) SetLOD(lod LOD, resolution int) {
	if c.LOD == lod && c.Resolution == resolution {
		return
	}
	c.LOD = lod
	c.Resolution = resolution
	c.Dirty = true
	if c.Stage > StageBaseTerrain {
		c.Stage = StageBaseTerrain
	}
	if c.Stage >= StageBaseTerrain {
		c.Allocate()
	}
}

// AddEvent stores e in the first free slot and marks the chunk dirty. It is a
// no-op returning false when every slot is taken.
func (c *Chunk) AddEvent(e WorldEvent) bool {
	if !c.Events.Push(e) {
		return false
	}
	c.Redirty()
	return true
}

// Complete reports whether every stage has run.
func (c *Chunk) Complete() bool {
	return c.Stage == StageComplete
}

// Clone returns a snapshot safe to hand to readers. Layers of a Complete
// chunk are shared since they are never written again; everything else is
// copied.
func (c *Chunk) Clone() *Chunk {
	out := *c
	out.POIs = c.POIs.Clone()
	out.Entities = c.Entities.Clone()
	out.Events = c.Events.Clone()
	if c.Stage != StageComplete {
		out.Height = cloneSlice(c.Height)
		out.Moisture = cloneSlice(c.Moisture)
		out.Temperature = cloneSlice(c.Temperature)
		out.Biome = cloneSlice(c.Biome)
	}
	return &out
}

// BiomeFractions returns the share of vertices in each biome.
func (c *Chunk) BiomeFractions() [BiomeCount]float64 {
	var out [BiomeCount]float64
	if len(c.Biome) == 0 {
		return out
	}
	for _, b := range c.Biome {
		if int(b) < BiomeCount {
			out[b]++
		}
	}
	n := float64(len(c.Biome))
	for i := range out {
		out[i] /= n
	}
	return out
}

// EventIntensity sums the intensity of the active events of kind k.
func (c *Chunk) EventIntensity(k EventKind) float64 {
	var sum float64
	for _, e := range c.Events.Items() {
		if e.Kind == k {
			sum += e.Intensity
		}
	}
	return sum
}

func cloneSlice[T any](s []T) []T {
	if s == nil {
		return nil
	}
	out := make([]T, len(s))
	copy(out, s)
	return out
}
