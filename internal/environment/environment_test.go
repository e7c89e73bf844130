package environment

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-gl/mathgl/mgl64"

	"worldforge/internal/chunk"
	"worldforge/internal/config"
	"worldforge/internal/world"
)

func stormyConfig() *config.Config {
	cfg := config.Default()
	cfg.Environment.StormChance = 1
	cfg.Environment.RainChance = 0
	cfg.Environment.WeatherMinDuration = config.Duration(time.Minute)
	cfg.Environment.WeatherMaxDuration = config.Duration(2 * time.Minute)
	return cfg
}

func TestEnvironmentDeterministic(t *testing.T) {
	a := New(config.Default())
	b := New(config.Default())
	for i := 0; i < 500; i++ {
		sa := a.Step(5 * time.Second)
		sb := b.Step(5 * time.Second)
		if sa.Weather != sb.Weather || sa.Phase != sb.Phase {
			t.Fatalf("step %d diverged: %+v vs %+v", i, sa.Weather, sb.Weather)
		}
	}
}

func TestDayCycleWraps(t *testing.T) {
	env := New(config.Default())
	day := config.Default().Environment.DayLength.Duration()
	state := env.Step(day / 4)
	if math.Abs(state.TimeOfDay-18) > 1e-6 {
		t.Fatalf("expected 18h after a quarter day from noon, got %f", state.TimeOfDay)
	}
	if state.Phase != PhaseDusk {
		t.Fatalf("expected dusk, got %s", state.Phase)
	}
	state = env.Step(day / 2)
	if math.Abs(state.TimeOfDay-6) > 1e-6 || state.Phase != PhaseDawn {
		t.Fatalf("expected dawn at 6h, got %f %s", state.TimeOfDay, state.Phase)
	}
}

func TestDeterminePhase(t *testing.T) {
	cases := []struct {
		hour float64
		want Phase
	}{
		{0, PhaseNight},
		{5, PhaseDawn},
		{6.9, PhaseDawn},
		{7, PhaseDay},
		{17.9, PhaseDay},
		{18, PhaseDusk},
		{21, PhaseNight},
	}
	for _, tc := range cases {
		if got := determinePhase(tc.hour); got != tc.want {
			t.Fatalf("hour %v: expected %s, got %s", tc.hour, tc.want, got)
		}
	}
}

func TestStormFrontOnlyWhenStormBegins(t *testing.T) {
	cfg := stormyConfig()
	env := New(cfg)
	fronts := 0
	for i := 0; i < 10; i++ {
		state := env.Step(2 * time.Minute)
		if state.Weather.Kind != WeatherStorm {
			t.Fatalf("step %d: expected storm, got %s", i, state.Weather.Kind)
		}
		if state.Storm == nil {
			continue
		}
		fronts++
		if state.Storm.Radius != cfg.Environment.DisasterRadius {
			t.Fatalf("unexpected storm radius %f", state.Storm.Radius)
		}
		offset := math.Hypot(state.Storm.Offset.X(), state.Storm.Offset.Z())
		if offset > cfg.Environment.DisasterSpread+1e-9 {
			t.Fatalf("storm offset %f beyond spread", offset)
		}
		if state.Storm.Intensity < 0.65 || state.Storm.Intensity > 1 {
			t.Fatalf("storm intensity %f out of range", state.Storm.Intensity)
		}
	}
	if fronts != 1 {
		t.Fatalf("expected a single storm front, got %d", fronts)
	}
}

func TestApplyDefaultsNormalizesChances(t *testing.T) {
	cfg := applyDefaults(config.EnvironmentConfig{StormChance: 3, RainChance: 1}, 7)
	if math.Abs(cfg.StormChance-0.75) > 1e-9 || math.Abs(cfg.RainChance-0.25) > 1e-9 {
		t.Fatalf("unexpected chances %f %f", cfg.StormChance, cfg.RainChance)
	}
	if cfg.Seed != 7 {
		t.Fatalf("expected world seed fallback, got %d", cfg.Seed)
	}
	if cfg.DayLength <= 0 || cfg.WeatherMaxDuration < cfg.WeatherMinDuration {
		t.Fatalf("durations not defaulted: %+v", cfg)
	}
}

const scenario = `
[[event]]
at = "10s"
kind = "natural_disaster"
position = [64.0, 0.0, 64.0]
radius = 32.0
intensity = 0.5

[[event]]
at = "2s"
kind = "magical_explosion"
position = [0.0, 0.0]
radius = 48.0
intensity = 1.0

[[waypoint]]
at = "0s"
position = [0.0, 0.0, 0.0]

[[waypoint]]
at = "10s"
position = [100.0, 0.0, -50.0]
`

func TestParseScript(t *testing.T) {
	s, err := ParseScript([]byte(scenario))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(s.Events) != 2 || len(s.Waypoints) != 2 {
		t.Fatalf("expected 2 events and 2 waypoints, got %d and %d", len(s.Events), len(s.Waypoints))
	}
	first := s.Events[0]
	if first.At != 2*time.Second || first.Kind != chunk.EventMagicalExplosion {
		t.Fatalf("events not sorted by time: %+v", first)
	}
	if first.Position != (mgl64.Vec3{0, 0, 0}) || first.Radius != 48 {
		t.Fatalf("unexpected first event %+v", first)
	}
	if s.Duration() != 10*time.Second {
		t.Fatalf("expected 10s duration, got %s", s.Duration())
	}
}

func TestParseScriptErrors(t *testing.T) {
	cases := map[string]string{
		"kind":     "[[event]]\nat = \"1s\"\nkind = \"meteor\"\nposition = [0.0, 0.0]\n",
		"at":       "[[event]]\nat = \"soon\"\nkind = \"natural_disaster\"\nposition = [0.0, 0.0]\n",
		"position": "[[waypoint]]\nat = \"1s\"\nposition = [1.0]\n",
		"radius":   "[[event]]\nkind = \"natural_disaster\"\nposition = [0.0, 0.0]\nradius = -1.0\n",
		"syntax":   "[[event]\n",
	}
	for name, src := range cases {
		if _, err := ParseScript([]byte(src)); err == nil {
			t.Fatalf("%s: expected error", name)
		}
	}
}

func TestLoadScript(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scenario.toml")
	if err := os.WriteFile(path, []byte(scenario), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := LoadScript(path); err != nil {
		t.Fatalf("load: %v", err)
	}
	if _, err := LoadScript(filepath.Join(t.TempDir(), "missing.toml")); err == nil {
		t.Fatalf("expected error for missing file")
	}
}

func TestViewpointInterpolation(t *testing.T) {
	s, err := ParseScript([]byte(scenario))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	pos, ok := s.ViewpointAt(5 * time.Second)
	if !ok {
		t.Fatalf("expected a viewpoint")
	}
	if !pos.ApproxEqual(mgl64.Vec3{50, 0, -25}) {
		t.Fatalf("expected midpoint, got %v", pos)
	}
	pos, _ = s.ViewpointAt(time.Minute)
	if pos != (mgl64.Vec3{100, 0, -50}) {
		t.Fatalf("expected last waypoint, got %v", pos)
	}
	if _, ok := (&Script{}).ViewpointAt(time.Second); ok {
		t.Fatalf("empty script should not yield a viewpoint")
	}
}

type appliedEvent struct {
	kind      chunk.EventKind
	pos       mgl64.Vec3
	radius    float64
	intensity float64
}

type fakeWorld struct {
	viewpoint mgl64.Vec3
	hasView   bool
	moves     int
	applied   []appliedEvent
	fail      bool
}

func (w *fakeWorld) ApplyEvent(kind chunk.EventKind, pos mgl64.Vec3, radius, intensity float64) (world.EventReport, error) {
	if w.fail {
		return world.EventReport{}, errors.New("rejected")
	}
	w.applied = append(w.applied, appliedEvent{kind, pos, radius, intensity})
	return world.EventReport{}, nil
}

func (w *fakeWorld) SetViewpoint(pos mgl64.Vec3) {
	w.viewpoint = pos
	w.hasView = true
	w.moves++
}

func (w *fakeWorld) Viewpoint() (mgl64.Vec3, bool) {
	return w.viewpoint, w.hasView
}

func TestDirectorRunsScript(t *testing.T) {
	s, err := ParseScript([]byte(scenario))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	w := &fakeWorld{}
	d := NewDirector(nil, s, w, nil)

	if _, err := d.Step(time.Second); err != nil {
		t.Fatalf("step: %v", err)
	}
	if len(w.applied) != 0 {
		t.Fatalf("no event is due after 1s, got %d", len(w.applied))
	}
	if !w.viewpoint.ApproxEqual(mgl64.Vec3{10, 0, -5}) {
		t.Fatalf("unexpected viewpoint %v", w.viewpoint)
	}

	for i := 0; i < 20; i++ {
		if _, err := d.Step(time.Second); err != nil {
			t.Fatalf("step: %v", err)
		}
	}
	if len(w.applied) != 2 {
		t.Fatalf("expected both events to fire once, got %d", len(w.applied))
	}
	if w.applied[0].kind != chunk.EventMagicalExplosion || w.applied[1].kind != chunk.EventNaturalDisaster {
		t.Fatalf("events fired out of order: %+v", w.applied)
	}
	// The viewpoint stops moving after the last waypoint.
	if w.moves != 10 {
		t.Fatalf("expected 10 viewpoint moves, got %d", w.moves)
	}
}

func TestDirectorStormAroundViewpoint(t *testing.T) {
	cfg := stormyConfig()
	w := &fakeWorld{viewpoint: mgl64.Vec3{1000, 0, 1000}, hasView: true}
	d := NewDirector(New(cfg), nil, w, nil)
	for i := 0; i < 5; i++ {
		if _, err := d.Step(2 * time.Minute); err != nil {
			t.Fatalf("step: %v", err)
		}
	}
	if len(w.applied) != 1 {
		t.Fatalf("expected one disaster, got %d", len(w.applied))
	}
	e := w.applied[0]
	if e.kind != chunk.EventNaturalDisaster {
		t.Fatalf("expected natural disaster, got %s", e.kind)
	}
	if chunk.HorizontalDistance(e.pos, w.viewpoint) > cfg.Environment.DisasterSpread+1e-9 {
		t.Fatalf("disaster at %v too far from viewpoint", e.pos)
	}
}

func TestDirectorReportsEventErrors(t *testing.T) {
	s, err := ParseScript([]byte(scenario))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	w := &fakeWorld{fail: true}
	d := NewDirector(nil, s, w, nil)
	if _, err := d.Step(time.Minute); err == nil {
		t.Fatalf("expected rejected events to surface an error")
	}
	if _, err := d.Step(time.Minute); err != nil {
		t.Fatalf("events must not be retried: %v", err)
	}
}
