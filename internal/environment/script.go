package environment

import (
	"fmt"
	"os"
	"sort"
	"time"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/pelletier/go-toml"

	"worldforge/internal/chunk"
)

// scriptFile is the on-disk layout of a scenario:
//
//	[[event]]
//	at = "30s"
//	kind = "magical_explosion"
//	position = [0.0, 0.0, 0.0]
//	radius = 48.0
//	intensity = 1.0
//
//	[[waypoint]]
//	at = "1m"
//	position = [256.0, 0.0, 0.0]
type scriptFile struct {
	Events    []scriptEvent    `toml:"event"`
	Waypoints []scriptWaypoint `toml:"waypoint"`
}

type scriptEvent struct {
	At        string    `toml:"at"`
	Kind      string    `toml:"kind"`
	Position  []float64 `toml:"position"`
	Radius    float64   `toml:"radius"`
	Intensity float64   `toml:"intensity"`
}

type scriptWaypoint struct {
	At       string    `toml:"at"`
	Position []float64 `toml:"position"`
}

// ScriptedEvent is a world event scheduled at an offset from scenario start.
type ScriptedEvent struct {
	At        time.Duration
	Kind      chunk.EventKind
	Position  mgl64.Vec3
	Radius    float64
	Intensity float64
}

type Waypoint struct {
	At       time.Duration
	Position mgl64.Vec3
}

// Script is a parsed scenario. Events and waypoints are sorted by time.
type Script struct {
	Events    []ScriptedEvent
	Waypoints []Waypoint
}

// LoadScript reads a TOML scenario file.
func LoadScript(path string) (*Script, error) {
	contents, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read script: %w", err)
	}
	s, err := ParseScript(contents)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}

func ParseScript(contents []byte) (*Script, error) {
	var data scriptFile
	if err := toml.Unmarshal(contents, &data); err != nil {
		return nil, fmt.Errorf("decode script: %w", err)
	}

	s := &Script{}
	for i, raw := range data.Events {
		at, err := parseOffset(raw.At)
		if err != nil {
			return nil, fmt.Errorf("event %d: %w", i, err)
		}
		kind, err := chunk.ParseEventKind(raw.Kind)
		if err != nil {
			return nil, fmt.Errorf("event %d: %w", i, err)
		}
		pos, err := parsePosition(raw.Position)
		if err != nil {
			return nil, fmt.Errorf("event %d: %w", i, err)
		}
		if raw.Radius < 0 {
			return nil, fmt.Errorf("event %d: radius must be non-negative", i)
		}
		s.Events = append(s.Events, ScriptedEvent{At: at, Kind: kind, Position: pos, Radius: raw.Radius, Intensity: raw.Intensity})
	}
	for i, raw := range data.Waypoints {
		at, err := parseOffset(raw.At)
		if err != nil {
			return nil, fmt.Errorf("waypoint %d: %w", i, err)
		}
		pos, err := parsePosition(raw.Position)
		if err != nil {
			return nil, fmt.Errorf("waypoint %d: %w", i, err)
		}
		s.Waypoints = append(s.Waypoints, Waypoint{At: at, Position: pos})
	}

	sort.SliceStable(s.Events, func(i, j int) bool { return s.Events[i].At < s.Events[j].At })
	sort.SliceStable(s.Waypoints, func(i, j int) bool { return s.Waypoints[i].At < s.Waypoints[j].At })
	return s, nil
}

func parseOffset(v string) (time.Duration, error) {
	if v == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("at: %w", err)
	}
	if d < 0 {
		return 0, fmt.Errorf("at must be non-negative, got %s", v)
	}
	return d, nil
}

func parsePosition(v []float64) (mgl64.Vec3, error) {
	switch len(v) {
	case 2:
		return mgl64.Vec3{v[0], 0, v[1]}, nil
	case 3:
		return mgl64.Vec3{v[0], v[1], v[2]}, nil
	}
	return mgl64.Vec3{}, fmt.Errorf("position must have 2 or 3 components, got %d", len(v))
}

// ViewpointAt interpolates linearly between waypoints. Before the first
// waypoint the viewpoint stays at the first position, after the last it
// stays at the last. It reports false when the script has no waypoints.
func (s *Script) ViewpointAt(t time.Duration) (mgl64.Vec3, bool) {
	n := len(s.Waypoints)
	if n == 0 {
		return mgl64.Vec3{}, false
	}
	if t <= s.Waypoints[0].At {
		return s.Waypoints[0].Position, true
	}
	for i := 1; i < n; i++ {
		next := s.Waypoints[i]
		if t > next.At {
			continue
		}
		prev := s.Waypoints[i-1]
		span := next.At - prev.At
		if span <= 0 {
			return next.Position, true
		}
		frac := float64(t-prev.At) / float64(span)
		return prev.Position.Add(next.Position.Sub(prev.Position).Mul(frac)), true
	}
	return s.Waypoints[n-1].Position, true
}

// Duration is the time of the last scripted entry.
func (s *Script) Duration() time.Duration {
	var last time.Duration
	if n := len(s.Events); n > 0 {
		last = s.Events[n-1].At
	}
	if n := len(s.Waypoints); n > 0 && s.Waypoints[n-1].At > last {
		last = s.Waypoints[n-1].At
	}
	return last
}
