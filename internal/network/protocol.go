package network

import (
	"encoding/json"
	"time"

	"worldforge/internal/chunk"
)

type MessageType string

const (
	MessageHello          MessageType = "hello"
	MessageViewpoint      MessageType = "viewpoint"
	MessageTriggerEvent   MessageType = "triggerEvent"
	MessageChunkRequest   MessageType = "chunkRequest"
	MessageChunkSummaries MessageType = "chunkSummaries"
	MessageChunkLayers    MessageType = "chunkLayers"
	MessageEventApplied   MessageType = "eventApplied"
	MessageEnvironment    MessageType = "environment"
	MessageError          MessageType = "error"
)

type Envelope struct {
	Type      MessageType     `json:"type"`
	Timestamp time.Time       `json:"timestamp"`
	Seq       uint64          `json:"seq"`
	Payload   json.RawMessage `json:"payload"`
}

// Hello is sent to every observer right after the upgrade.
type Hello struct {
	ServerID      string  `json:"serverId"`
	ChunkSize     float64 `json:"chunkSize"`
	Resolutions   []int   `json:"resolutions"`
	ViewDistances []int   `json:"viewDistances"`
}

// Viewpoint moves the generation center.
type Viewpoint struct {
	Position [3]float64 `json:"position"`
}

type TriggerEvent struct {
	Kind      string     `json:"kind"`
	Position  [3]float64 `json:"position"`
	Radius    float64    `json:"radius"`
	Intensity float64    `json:"intensity"`
}

type ChunkRequest struct {
	X int `json:"x"`
	Z int `json:"z"`
}

type ChunkSummaries struct {
	Viewpoint [3]float64      `json:"viewpoint"`
	Summaries []chunk.Summary `json:"summaries"`
}

// ChunkLayers carries the full vertex layers of a Complete chunk, row-major.
type ChunkLayers struct {
	Coord       chunk.Coord     `json:"coord"`
	LOD         chunk.LOD       `json:"lod"`
	Resolution  int             `json:"resolution"`
	Height      []float32       `json:"height"`
	Moisture    []float32       `json:"moisture"`
	Temperature []float32       `json:"temperature"`
	Biome       []chunk.BiomeID `json:"biome"`
	POIs        []chunk.POI     `json:"pois,omitempty"`
	Entities    []chunk.Spawn   `json:"entities,omitempty"`
	Summary     chunk.Summary   `json:"summary"`
	Events      []EventApplied  `json:"events,omitempty"`
}

type EventApplied struct {
	ID        string        `json:"id"`
	Kind      string        `json:"kind"`
	Epicenter [3]float64    `json:"epicenter"`
	Radius    float64       `json:"radius"`
	Intensity float64       `json:"intensity"`
	Timestamp float64       `json:"timestamp"`
	Affected  []chunk.Coord `json:"affected,omitempty"`
}

type ErrorMessage struct {
	Request MessageType `json:"request,omitempty"`
	Seq     uint64      `json:"seq,omitempty"`
	Message string      `json:"message"`
}

// NewEventApplied converts a world event for the wire.
func NewEventApplied(e chunk.WorldEvent, affected []chunk.Coord) EventApplied {
	return EventApplied{
		ID:        e.ID.String(),
		Kind:      e.Kind.String(),
		Epicenter: [3]float64(e.Epicenter),
		Radius:    e.Radius,
		Intensity: e.Intensity,
		Timestamp: e.Timestamp,
		Affected:  affected,
	}
}

// NewChunkLayers copies the layers of a Complete chunk for the wire.
func NewChunkLayers(c *chunk.Chunk) ChunkLayers {
	out := ChunkLayers{
		Coord:       c.Coord,
		LOD:         c.LOD,
		Resolution:  c.Resolution,
		Height:      c.Height,
		Moisture:    c.Moisture,
		Temperature: c.Temperature,
		Biome:       c.Biome,
		POIs:        c.POIs.Items(),
		Entities:    c.Entities.Items(),
		Summary:     c.Summary(),
	}
	for _, e := range c.Events.Items() {
		out.Events = append(out.Events, NewEventApplied(e, nil))
	}
	return out
}

func Encode(msg Envelope) ([]byte, error) {
	return json.Marshal(msg)
}

func Decode(data []byte) (Envelope, error) {
	var env Envelope
	err := json.Unmarshal(data, &env)
	return env, err
}
