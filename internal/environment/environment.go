package environment

import (
	"math"
	"sync"
	"time"

	"github.com/go-gl/mathgl/mgl64"

	"worldforge/internal/config"
	"worldforge/internal/mathutil"
	"worldforge/internal/rng"
)

type WeatherKind string

const (
	WeatherClear WeatherKind = "clear"
	WeatherRain  WeatherKind = "rain"
	WeatherStorm WeatherKind = "storm"
)

type Phase string

const (
	PhaseDawn  Phase = "dawn"
	PhaseDay   Phase = "day"
	PhaseDusk  Phase = "dusk"
	PhaseNight Phase = "night"
)

type State struct {
	TimeOfDay float64       `json:"timeOfDay"`
	Phase     Phase         `json:"phase"`
	Lighting  LightingState `json:"lighting"`
	Weather   WeatherState  `json:"weather"`
	// Storm is set only on the step a storm front moves in.
	Storm *StormFront `json:"storm,omitempty"`
}

type LightingState struct {
	Ambient    float64 `json:"ambient"`
	SunAngle   float64 `json:"sunAngle"`
	FogDensity float64 `json:"fogDensity"`
}

type WeatherState struct {
	Kind          WeatherKind `json:"kind"`
	Intensity     float64     `json:"intensity"`
	WindSpeed     float64     `json:"windSpeed"`
	WindDirection float64     `json:"windDirection"`
	Precipitation float64     `json:"precipitation"`
}

// StormFront describes where a new storm lands, relative to the viewpoint.
type StormFront struct {
	Offset    mgl64.Vec3 `json:"offset"`
	Radius    float64    `json:"radius"`
	Intensity float64    `json:"intensity"`
}

// Environment advances the world clock and rolls weather. Every roll comes
// from a seeded stream, so two environments with the same configuration and
// step sequence agree.
type Environment struct {
	mu           sync.Mutex
	cfg          config.EnvironmentConfig
	rng          *rng.Source
	state        State
	dayProgress  float64
	weatherTimer time.Duration
}

func New(cfg *config.Config) *Environment {
	env := &Environment{cfg: applyDefaults(cfg.Environment, cfg.Seeds.Terrain)}
	env.rng = rng.New(uint64(env.cfg.Seed))
	env.dayProgress = 0.5
	env.state.TimeOfDay = 12.0
	env.state.Phase = PhaseDay
	env.state.Weather = WeatherState{Kind: WeatherClear, WindSpeed: env.cfg.WindBase}
	env.state.Lighting = computeLighting(env.dayProgress, env.state.Weather, env.state.Phase)
	env.weatherTimer = env.randomWeatherDuration()
	return env
}

func applyDefaults(cfg config.EnvironmentConfig, worldSeed int64) config.EnvironmentConfig {
	if cfg.DayLength <= 0 {
		cfg.DayLength = config.Duration(20 * time.Minute)
	}
	if cfg.WeatherMinDuration <= 0 {
		cfg.WeatherMinDuration = config.Duration(90 * time.Second)
	}
	if cfg.WeatherMaxDuration < cfg.WeatherMinDuration {
		cfg.WeatherMaxDuration = cfg.WeatherMinDuration + config.Duration(2*time.Minute)
	}
	cfg.StormChance = math.Max(cfg.StormChance, 0)
	cfg.RainChance = math.Max(cfg.RainChance, 0)
	if total := cfg.StormChance + cfg.RainChance; total > 1 {
		cfg.StormChance /= total
		cfg.RainChance /= total
	}
	cfg.WindBase = math.Max(cfg.WindBase, 0)
	cfg.WindVariance = math.Max(cfg.WindVariance, 0)
	cfg.DisasterRadius = math.Max(cfg.DisasterRadius, 0)
	cfg.DisasterSpread = math.Max(cfg.DisasterSpread, 0)
	if cfg.Seed == 0 {
		cfg.Seed = worldSeed
	}
	return cfg
}

// Step advances the clock by delta and rolls new weather when the current
// spell runs out.
func (e *Environment) Step(delta time.Duration) State {
	if delta <= 0 {
		delta = 16 * time.Millisecond
	}
	e.mu.Lock()
	defer e.mu.Unlock()

	e.dayProgress += float64(delta) / float64(e.cfg.DayLength.Duration())
	e.dayProgress -= math.Floor(e.dayProgress)
	hours := e.dayProgress * 24
	phase := determinePhase(hours)

	e.state.Storm = nil
	e.weatherTimer -= delta
	if e.weatherTimer <= 0 {
		previous := e.state.Weather.Kind
		e.state.Weather = e.rollWeather()
		e.weatherTimer = e.randomWeatherDuration()
		if e.state.Weather.Kind == WeatherStorm && previous != WeatherStorm {
			e.state.Storm = e.rollStormFront(e.state.Weather.Intensity)
		}
	}

	e.state.TimeOfDay = hours
	e.state.Phase = phase
	e.state.Lighting = computeLighting(e.dayProgress, e.state.Weather, phase)
	return e.state
}

func (e *Environment) CurrentState() State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state
}

func (e *Environment) rollWeather() WeatherState {
	roll := e.rng.Float64()
	var kind WeatherKind
	switch {
	case roll < e.cfg.StormChance:
		kind = WeatherStorm
	case roll < e.cfg.StormChance+e.cfg.RainChance:
		kind = WeatherRain
	default:
		kind = WeatherClear
	}

	intensity := 0.0
	wind := e.cfg.WindBase + e.rng.Float64()*e.cfg.WindVariance
	switch kind {
	case WeatherRain:
		intensity = 0.35 + e.rng.Float64()*0.4
	case WeatherStorm:
		intensity = 0.65 + e.rng.Float64()*0.35
		wind += e.cfg.WindVariance * 0.7
	}
	intensity = mathutil.Clamp(intensity, 0, 1)
	return WeatherState{
		Kind:          kind,
		Intensity:     intensity,
		WindSpeed:     wind,
		WindDirection: e.rng.Float64() * 2 * math.Pi,
		Precipitation: intensity,
	}
}

func (e *Environment) rollStormFront(intensity float64) *StormFront {
	angle := e.rng.Float64() * 2 * math.Pi
	dist := e.rng.Float64() * e.cfg.DisasterSpread
	return &StormFront{
		Offset:    mgl64.Vec3{math.Cos(angle) * dist, 0, math.Sin(angle) * dist},
		Radius:    e.cfg.DisasterRadius,
		Intensity: intensity,
	}
}

func (e *Environment) randomWeatherDuration() time.Duration {
	lo, hi := e.cfg.WeatherMinDuration.Duration(), e.cfg.WeatherMaxDuration.Duration()
	if hi <= lo {
		return lo
	}
	return lo + time.Duration(e.rng.Float64()*float64(hi-lo))
}

func determinePhase(hour float64) Phase {
	switch {
	case hour >= 5 && hour < 7:
		return PhaseDawn
	case hour >= 7 && hour < 18:
		return PhaseDay
	case hour >= 18 && hour < 21:
		return PhaseDusk
	default:
		return PhaseNight
	}
}

func computeLighting(progress float64, weather WeatherState, phase Phase) LightingState {
	sunHeight := math.Max(math.Cos((progress-0.5)*2*math.Pi), 0)
	ambient := 0.12 + 0.88*sunHeight
	if phase == PhaseNight {
		ambient = 0.08 + 0.12*sunHeight
	}
	ambient *= 1 - 0.35*weather.Intensity
	return LightingState{
		Ambient:    mathutil.Clamp(ambient, 0, 1),
		SunAngle:   progress * 2 * math.Pi,
		FogDensity: mathutil.Clamp(0.02+0.25*weather.Intensity, 0, 1),
	}
}
