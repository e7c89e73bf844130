package chunk

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/google/uuid"
)

// EventKind selects how a world event perturbs generation.
type EventKind uint8

const (
	EventNone EventKind = iota
	EventMagicalExplosion
	EventCrystallizedTerrain
	EventFactionInfluence
	EventNaturalDisaster
)

var eventKindNames = [...]string{
	"none", "magical_explosion", "crystallized_terrain", "faction_influence", "natural_disaster",
}

func (k EventKind) String() string {
	if int(k) < len(eventKindNames) {
		return eventKindNames[k]
	}
	return fmt.Sprintf("event(%d)", uint8(k))
}

// ParseEventKind maps a name such as "magical_explosion" to its kind. EventNone
// is never accepted.
func ParseEventKind(s string) (EventKind, error) {
	for i := 1; i < len(eventKindNames); i++ {
		if eventKindNames[i] == s {
			return EventKind(i), nil
		}
	}
	return EventNone, fmt.Errorf("unknown event kind %q", s)
}

func (k EventKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

func (k *EventKind) UnmarshalText(text []byte) error {
	v, err := ParseEventKind(string(text))
	if err != nil {
		return err
	}
	*k = v
	return nil
}

// WorldEvent is an immutable, radius-bounded perturbation. Chunks hold copies.
type WorldEvent struct {
	ID        uuid.UUID  `json:"id"`
	Kind      EventKind  `json:"kind"`
	Epicenter mgl64.Vec3 `json:"epicenter"`
	Radius    float64    `json:"radius"`
	Intensity float64    `json:"intensity"`
	Timestamp float64    `json:"timestamp"` // seconds since the manager started
}

// Covers reports whether p lies within the event radius, measured horizontally.
func (e WorldEvent) Covers(p mgl64.Vec3) bool {
	return HorizontalDistance(e.Epicenter, p) <= e.Radius
}

// Falloff is the influence of e at p: intensity scaled by 1 - d/r, zero outside.
func (e WorldEvent) Falloff(p mgl64.Vec3) float64 {
	if e.Radius <= 0 {
		return 0
	}
	d := HorizontalDistance(e.Epicenter, p)
	if d > e.Radius {
		return 0
	}
	return (1 - d/e.Radius) * e.Intensity
}
