package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"worldforge/internal/chunk"
)

// Duration is a config-friendly wrapper around time.Duration that accepts human
// readable strings such as "150ms" in configuration files while still
// allowing numeric representations when necessary.
type Duration time.Duration

// Duration returns the underlying time.Duration value.
func (d Duration) Duration() time.Duration {
	return time.Duration(d)
}

// MarshalJSON encodes the duration using the canonical string representation.
func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Duration(d).String())
}

// UnmarshalJSON decodes a duration from either a string (e.g. "250ms") or a
// numeric value representing nanoseconds. Empty strings and null values decode
// to zero.
func (d *Duration) UnmarshalJSON(b []byte) error {
	if len(b) == 0 {
		return fmt.Errorf("duration: empty value")
	}
	if string(b) == "null" {
		*d = 0
		return nil
	}
	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return fmt.Errorf("duration: decode string: %w", err)
		}
		return d.parse(s)
	}
	var n int64
	if err := json.Unmarshal(b, &n); err == nil {
		*d = Duration(time.Duration(n))
		return nil
	}
	var f float64
	if err := json.Unmarshal(b, &f); err == nil {
		*d = Duration(time.Duration(f))
		return nil
	}
	return fmt.Errorf("duration: invalid value %s", string(b))
}

// MarshalYAML encodes the duration as its string form.
func (d Duration) MarshalYAML() (any, error) {
	return time.Duration(d).String(), nil
}

// UnmarshalYAML accepts the same forms as UnmarshalJSON.
func (d *Duration) UnmarshalYAML(node *yaml.Node) error {
	if node.Tag == "!!int" {
		var n int64
		if err := node.Decode(&n); err != nil {
			return fmt.Errorf("duration: %w", err)
		}
		*d = Duration(time.Duration(n))
		return nil
	}
	var s string
	if err := node.Decode(&s); err != nil {
		return fmt.Errorf("duration: %w", err)
	}
	return d.parse(s)
}

func (d *Duration) parse(s string) error {
	if s == "" {
		*d = 0
		return nil
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("duration: parse %q: %w", s, err)
	}
	*d = Duration(parsed)
	return nil
}

// Config captures every tunable of the world generator and the process that
// drives it.
type Config struct {
	World       WorldConfig       `json:"world" yaml:"world"`
	Seeds       SeedConfig        `json:"seeds" yaml:"seeds"`
	Terrain     TerrainConfig     `json:"terrain" yaml:"terrain"`
	Biomes      BiomeConfig       `json:"biomes" yaml:"biomes"`
	Events      EventConfig       `json:"events" yaml:"events"`
	Features    FeatureConfig     `json:"features" yaml:"features"`
	Settlements SettlementConfig  `json:"settlements" yaml:"settlements"`
	Dungeons    DungeonConfig     `json:"dungeons" yaml:"dungeons"`
	Entities    EntityConfig      `json:"entities" yaml:"entities"`
	Server      ServerConfig      `json:"server" yaml:"server"`
	Environment EnvironmentConfig `json:"environment" yaml:"environment"`
}

type WorldConfig struct {
	ChunkSize        float64  `json:"chunkSize" yaml:"chunkSize"`               // world units per chunk side
	BaseResolution   int      `json:"baseResolution" yaml:"baseResolution"`     // vertices per side at Full LOD
	ViewDistances    []int    `json:"viewDistances" yaml:"viewDistances"`       // chunks, indexed Full, High, Medium, Low
	MaxChunksPerTick int      `json:"maxChunksPerTick" yaml:"maxChunksPerTick"` // near queue budget
	FarChunksPerTick int      `json:"farChunksPerTick" yaml:"farChunksPerTick"` // pre-generation budget, at most one
	CacheCapacity    int      `json:"cacheCapacity" yaml:"cacheCapacity"`
	CacheTimeout     Duration `json:"cacheTimeout" yaml:"cacheTimeout"`
	SweepInterval    Duration `json:"sweepInterval" yaml:"sweepInterval"`
	Workers          int      `json:"workers" yaml:"workers"` // 0 derives from GOMAXPROCS
}

type SeedConfig struct {
	Terrain     int64 `json:"terrain" yaml:"terrain"`
	Moisture    int64 `json:"moisture" yaml:"moisture"`
	Temperature int64 `json:"temperature" yaml:"temperature"`
	Features    int64 `json:"features" yaml:"features"`
	Settlements int64 `json:"settlements" yaml:"settlements"`
	Dungeons    int64 `json:"dungeons" yaml:"dungeons"`
	Entities    int64 `json:"entities" yaml:"entities"`
}

type TerrainConfig struct {
	Scale            float64 `json:"scale" yaml:"scale"`
	Octaves          int     `json:"octaves" yaml:"octaves"`
	Persistence      float64 `json:"persistence" yaml:"persistence"`
	Lacunarity       float64 `json:"lacunarity" yaml:"lacunarity"`
	RidgeScale       float64 `json:"ridgeScale" yaml:"ridgeScale"`
	RidgeWeight      float64 `json:"ridgeWeight" yaml:"ridgeWeight"`
	Contrast         float64 `json:"contrast" yaml:"contrast"` // stretch of the fractal sum around 0.5
	HeightMultiplier float64 `json:"heightMultiplier" yaml:"heightMultiplier"`
	MoistureScale    float64 `json:"moistureScale" yaml:"moistureScale"`
	TemperatureScale float64 `json:"temperatureScale" yaml:"temperatureScale"`
	LatitudePeriod   float64 `json:"latitudePeriod" yaml:"latitudePeriod"` // world units between equators
	LapseRate        float64 `json:"lapseRate" yaml:"lapseRate"`           // temperature lost per normalized height above sea
	CoastalMoisture  float64 `json:"coastalMoisture" yaml:"coastalMoisture"`
}

type BiomeConfig struct {
	OceanLevel           float64 `json:"oceanLevel" yaml:"oceanLevel"`
	BeachLevel           float64 `json:"beachLevel" yaml:"beachLevel"`
	MountainLevel        float64 `json:"mountainLevel" yaml:"mountainLevel"`
	SnowLevel            float64 `json:"snowLevel" yaml:"snowLevel"`
	SnowTemperature      float64 `json:"snowTemperature" yaml:"snowTemperature"`
	ColdTemperature      float64 `json:"coldTemperature" yaml:"coldTemperature"`
	TemperateTemperature float64 `json:"temperateTemperature" yaml:"temperateTemperature"`
	WarmTemperature      float64 `json:"warmTemperature" yaml:"warmTemperature"`
	DryMoisture          float64 `json:"dryMoisture" yaml:"dryMoisture"`
	WetMoisture          float64 `json:"wetMoisture" yaml:"wetMoisture"`
	ColdWetMoisture      float64 `json:"coldWetMoisture" yaml:"coldWetMoisture"`
}

type EventConfig struct {
	MaxStored          int      `json:"maxStored" yaml:"maxStored"`
	Lifetime           Duration `json:"lifetime" yaml:"lifetime"` // 0 keeps events forever
	ExplosionLift      float64  `json:"explosionLift" yaml:"explosionLift"`
	ExplosionShards    float64  `json:"explosionShards" yaml:"explosionShards"`
	ExplosionDrying    float64  `json:"explosionDrying" yaml:"explosionDrying"`
	CrystalRelief      float64  `json:"crystalRelief" yaml:"crystalRelief"`
	CrystalCellSize    float64  `json:"crystalCellSize" yaml:"crystalCellSize"`
	CrystalDrying      float64  `json:"crystalDrying" yaml:"crystalDrying"`
	DisasterRoughness  float64  `json:"disasterRoughness" yaml:"disasterRoughness"`
	DisasterFlooding   float64  `json:"disasterFlooding" yaml:"disasterFlooding"`
	DisasterNoiseScale float64  `json:"disasterNoiseScale" yaml:"disasterNoiseScale"` // flood patches per chunk side
}

type FeatureConfig struct {
	RiverMoisture    float64 `json:"riverMoisture" yaml:"riverMoisture"`
	RiverThreshold   float64 `json:"riverThreshold" yaml:"riverThreshold"`
	RoadLandFraction float64 `json:"roadLandFraction" yaml:"roadLandFraction"`
	RoadChance       float64 `json:"roadChance" yaml:"roadChance"`
	MaxPOIs          int     `json:"maxPois" yaml:"maxPois"`
}

type SettlementConfig struct {
	FlatnessRange      float64            `json:"flatnessRange" yaml:"flatnessRange"` // world units
	FlatnessThreshold  float64            `json:"flatnessThreshold" yaml:"flatnessThreshold"`
	OptimalMoisture    float64            `json:"optimalMoisture" yaml:"optimalMoisture"`
	OptimalTemperature float64            `json:"optimalTemperature" yaml:"optimalTemperature"`
	RoadBonus          float64            `json:"roadBonus" yaml:"roadBonus"`
	RiverBonus         float64            `json:"riverBonus" yaml:"riverBonus"`
	FactionMultiplier  float64            `json:"factionMultiplier" yaml:"factionMultiplier"`
	BaseChance         float64            `json:"baseChance" yaml:"baseChance"`
	TierThresholds     []float64          `json:"tierThresholds" yaml:"tierThresholds"` // quotient limits for metropolis..village
	BiomeSuitability   map[string]float64 `json:"biomeSuitability" yaml:"biomeSuitability"`
}

type DungeonConfig struct {
	BaseChance        float64 `json:"baseChance" yaml:"baseChance"`
	MountainWeight    float64 `json:"mountainWeight" yaml:"mountainWeight"`
	ForestWeight      float64 `json:"forestWeight" yaml:"forestWeight"`
	DesertWeight      float64 `json:"desertWeight" yaml:"desertWeight"`
	SettlementPenalty float64 `json:"settlementPenalty" yaml:"settlementPenalty"`
	ExplosionBonus    float64 `json:"explosionBonus" yaml:"explosionBonus"`
	MinDepth          int     `json:"minDepth" yaml:"minDepth"`
	MaxDepth          int     `json:"maxDepth" yaml:"maxDepth"`
	MountainFraction  float64 `json:"mountainFraction" yaml:"mountainFraction"`
	ExplosionDepth    float64 `json:"explosionDepth" yaml:"explosionDepth"`
}

type EntityConfig struct {
	BaseThreat       float64 `json:"baseThreat" yaml:"baseThreat"`
	ThreatPerChunk   float64 `json:"threatPerChunk" yaml:"threatPerChunk"`
	NPCMin           int     `json:"npcMin" yaml:"npcMin"`
	NPCMax           int     `json:"npcMax" yaml:"npcMax"`
	MonstersPerDepth [2]int  `json:"monstersPerDepth" yaml:"monstersPerDepth"` // min, max multipliers
	MonsterVariance  float64 `json:"monsterVariance" yaml:"monsterVariance"`
	WildlifePerChunk float64 `json:"wildlifePerChunk" yaml:"wildlifePerChunk"`
	HostileChance    float64 `json:"hostileChance" yaml:"hostileChance"`
	LootPerChunk     float64 `json:"lootPerChunk" yaml:"lootPerChunk"`
	SpawnAttempts    int     `json:"spawnAttempts" yaml:"spawnAttempts"`
}

type ServerConfig struct {
	ID              string      `json:"id" yaml:"id"`
	Listen          string      `json:"listen" yaml:"listen"`                   // websocket observer endpoint, empty disables
	TickRate        Duration    `json:"tickRate" yaml:"tickRate"`               // e.g. "50ms"
	BroadcastRate   Duration    `json:"broadcastRate" yaml:"broadcastRate"`     // chunk summary stream
	EnvironmentRate Duration    `json:"environmentRate" yaml:"environmentRate"` // weather/clock step
	Spawn           [3]float64  `json:"spawn" yaml:"spawn"`                     // initial viewpoint
	JournalDir      string      `json:"journalDir" yaml:"journalDir"`
	ScriptPath      string      `json:"scriptPath" yaml:"scriptPath"`
	MaxObservers    int         `json:"maxObservers" yaml:"maxObservers"`
	Debug           DebugConfig `json:"debug" yaml:"debug"`
}

type DebugConfig struct {
	AllowRemote bool `json:"allowRemote" yaml:"allowRemote"` // accept non-loopback observers
}

type EnvironmentConfig struct {
	Enabled            bool     `json:"enabled" yaml:"enabled"`
	DayLength          Duration `json:"dayLength" yaml:"dayLength"`
	WeatherMinDuration Duration `json:"weatherMinDuration" yaml:"weatherMinDuration"`
	WeatherMaxDuration Duration `json:"weatherMaxDuration" yaml:"weatherMaxDuration"`
	StormChance        float64  `json:"stormChance" yaml:"stormChance"`
	RainChance         float64  `json:"rainChance" yaml:"rainChance"`
	WindBase           float64  `json:"windBase" yaml:"windBase"`
	WindVariance       float64  `json:"windVariance" yaml:"windVariance"`
	DisasterRadius     float64  `json:"disasterRadius" yaml:"disasterRadius"`
	DisasterSpread     float64  `json:"disasterSpread" yaml:"disasterSpread"` // max offset from the viewpoint
	Seed               int64    `json:"seed" yaml:"seed"`
}

// Load reads configuration from a YAML or JSON file if provided. An empty path
// returns defaults.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open config: %w", err)
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, cfg)
	default:
		err = json.Unmarshal(data, cfg)
	}
	if err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return cfg, nil
}

func Default() *Config {
	return &Config{
		World: WorldConfig{
			ChunkSize:        64,
			BaseResolution:   64,
			ViewDistances:    []int{2, 4, 6, 8},
			MaxChunksPerTick: 4,
			FarChunksPerTick: 1,
			CacheCapacity:    64,
			CacheTimeout:     Duration(30 * time.Second),
			SweepInterval:    Duration(5 * time.Second),
			Workers:          0,
		},
		Seeds: SeedConfig{
			Terrain:     12345,
			Moisture:    12346,
			Temperature: 12347,
			Features:    22345,
			Settlements: 32345,
			Dungeons:    42345,
			Entities:    52345,
		},
		Terrain: TerrainConfig{
			Scale:            0.004,
			Octaves:          5,
			Persistence:      0.5,
			Lacunarity:       2.0,
			RidgeScale:       0.002,
			RidgeWeight:      0.3,
			Contrast:         1.8,
			HeightMultiplier: 100,
			MoistureScale:    0.003,
			TemperatureScale: 0.002,
			LatitudePeriod:   20000,
			LapseRate:        0.5,
			CoastalMoisture:  0.3,
		},
		Biomes: BiomeConfig{
			OceanLevel:           0.3,
			BeachLevel:           0.35,
			MountainLevel:        0.7,
			SnowLevel:            0.85,
			SnowTemperature:      0.3,
			ColdTemperature:      0.2,
			TemperateTemperature: 0.5,
			WarmTemperature:      0.8,
			DryMoisture:          0.33,
			WetMoisture:          0.66,
			ColdWetMoisture:      0.5,
		},
		Events: EventConfig{
			MaxStored:          256,
			Lifetime:           0,
			ExplosionLift:      0.35,
			ExplosionShards:    0.12,
			ExplosionDrying:    0.4,
			CrystalRelief:      0.2,
			CrystalCellSize:    6,
			CrystalDrying:      0.25,
			DisasterRoughness:  0.15,
			DisasterFlooding:   0.35,
			DisasterNoiseScale: 4,
		},
		Features: FeatureConfig{
			RiverMoisture:    0.6,
			RiverThreshold:   0.6,
			RoadLandFraction: 0.5,
			RoadChance:       0.3,
			MaxPOIs:          6,
		},
		Settlements: SettlementConfig{
			FlatnessRange:      10,
			FlatnessThreshold:  0.5,
			OptimalMoisture:    0.5,
			OptimalTemperature: 0.55,
			RoadBonus:          1.5,
			RiverBonus:         1.3,
			FactionMultiplier:  0.5,
			BaseChance:         0.6,
			TierThresholds:     []float64{0.1, 0.25, 0.5, 1.0},
			BiomeSuitability: map[string]float64{
				"grassland":  1.0,
				"savanna":    0.8,
				"forest":     0.7,
				"rainforest": 0.45,
				"taiga":      0.4,
				"desert":     0.3,
				"beach":      0.2,
				"tundra":     0.2,
			},
		},
		Dungeons: DungeonConfig{
			BaseChance:        0.1,
			MountainWeight:    0.3,
			ForestWeight:      0.15,
			DesertWeight:      0.2,
			SettlementPenalty: 0.3,
			ExplosionBonus:    0.4,
			MinDepth:          1,
			MaxDepth:          10,
			MountainFraction:  0.5,
			ExplosionDepth:    5,
		},
		Entities: EntityConfig{
			BaseThreat:       1,
			ThreatPerChunk:   0.1,
			NPCMin:           5,
			NPCMax:           20,
			MonstersPerDepth: [2]int{2, 5},
			MonsterVariance:  0.2,
			WildlifePerChunk: 12,
			HostileChance:    0.4,
			LootPerChunk:     4,
			SpawnAttempts:    10,
		},
		Server: ServerConfig{
			ID:              "worldforge-0",
			Listen:          "127.0.0.1:18080",
			TickRate:        Duration(50 * time.Millisecond),
			BroadcastRate:   Duration(500 * time.Millisecond),
			EnvironmentRate: Duration(time.Second),
			Spawn:           [3]float64{0, 0, 0},
			MaxObservers:    8,
		},
		Environment: EnvironmentConfig{
			Enabled:            true,
			DayLength:          Duration(20 * time.Minute),
			WeatherMinDuration: Duration(2 * time.Minute),
			WeatherMaxDuration: Duration(5 * time.Minute),
			StormChance:        0.15,
			RainChance:         0.35,
			WindBase:           3.0,
			WindVariance:       5.0,
			DisasterRadius:     96,
			DisasterSpread:     256,
			Seed:               1337,
		},
	}
}

func (c *Config) Validate() error {
	if err := c.World.validate(); err != nil {
		return err
	}
	if err := c.Terrain.validate(); err != nil {
		return err
	}
	if err := c.Biomes.validate(); err != nil {
		return err
	}
	if c.Events.MaxStored < 0 {
		return errors.New("events.maxStored cannot be negative")
	}
	if c.Events.CrystalCellSize <= 0 {
		return errors.New("events.crystalCellSize must be positive")
	}
	if c.Features.MaxPOIs < 0 || c.Features.MaxPOIs > 16 {
		return errors.New("features.maxPois must be within [0,16]")
	}
	if c.Settlements.FlatnessRange <= 0 {
		return errors.New("settlements.flatnessRange must be positive")
	}
	if len(c.Settlements.TierThresholds) != 4 {
		return errors.New("settlements.tierThresholds must list 4 limits")
	}
	for i := 1; i < len(c.Settlements.TierThresholds); i++ {
		if c.Settlements.TierThresholds[i] <= c.Settlements.TierThresholds[i-1] {
			return errors.New("settlements.tierThresholds must be strictly increasing")
		}
	}
	for name, v := range c.Settlements.BiomeSuitability {
		if _, err := chunk.ParseBiome(name); err != nil {
			return fmt.Errorf("settlements.biomeSuitability: unknown biome %q", name)
		}
		if v < 0 || math.IsNaN(v) {
			return fmt.Errorf("settlements.biomeSuitability[%s] cannot be negative", name)
		}
	}
	if c.Dungeons.MinDepth < 0 || c.Dungeons.MaxDepth > 10 || c.Dungeons.MinDepth > c.Dungeons.MaxDepth {
		return errors.New("dungeons depth range must satisfy 0 <= minDepth <= maxDepth <= 10")
	}
	if c.Entities.NPCMin < 0 || c.Entities.NPCMin > c.Entities.NPCMax {
		return errors.New("entities npc range must satisfy 0 <= npcMin <= npcMax")
	}
	if c.Entities.MonstersPerDepth[0] < 0 || c.Entities.MonstersPerDepth[0] > c.Entities.MonstersPerDepth[1] {
		return errors.New("entities.monstersPerDepth must be an ordered non-negative pair")
	}
	if c.Entities.SpawnAttempts <= 0 {
		return errors.New("entities.spawnAttempts must be positive")
	}
	if c.Server.TickRate <= 0 {
		return errors.New("server.tickRate must be positive")
	}
	if c.Environment.WeatherMaxDuration > 0 && c.Environment.WeatherMaxDuration < c.Environment.WeatherMinDuration {
		return errors.New("environment.weatherMaxDuration must be >= weatherMinDuration")
	}
	if c.Environment.StormChance < 0 || c.Environment.RainChance < 0 {
		return errors.New("environment storm/rain chances cannot be negative")
	}
	if c.Environment.StormChance+c.Environment.RainChance > 1.0 {
		return errors.New("environment storm+rain chance must be <= 1")
	}
	return nil
}

func (w WorldConfig) validate() error {
	if !(w.ChunkSize > 0) || math.IsInf(w.ChunkSize, 0) {
		return errors.New("world.chunkSize must be positive")
	}
	if w.BaseResolution <= 0 {
		return fmt.Errorf("%w: world.baseResolution must be positive", chunk.ErrInvalidLOD)
	}
	// The coarsest tier still needs an edge on each side of the chunk.
	if w.BaseResolution>>(chunk.LODCount-1) < 2 {
		return fmt.Errorf("%w: world.baseResolution must be at least %d", chunk.ErrInvalidLOD, 2<<(chunk.LODCount-1))
	}
	if len(w.ViewDistances) != chunk.LODCount {
		return fmt.Errorf("%w: world.viewDistances must list %d rings", chunk.ErrInvalidLOD, chunk.LODCount)
	}
	for i, d := range w.ViewDistances {
		if d < 0 {
			return fmt.Errorf("%w: world.viewDistances[%d] cannot be negative", chunk.ErrInvalidLOD, i)
		}
		if i > 0 && d < w.ViewDistances[i-1] {
			return fmt.Errorf("%w: world.viewDistances must be non-decreasing", chunk.ErrInvalidLOD)
		}
	}
	if w.MaxChunksPerTick <= 0 {
		return errors.New("world.maxChunksPerTick must be positive")
	}
	if w.FarChunksPerTick < 0 || w.FarChunksPerTick > 1 {
		return errors.New("world.farChunksPerTick must be 0 or 1")
	}
	if w.CacheCapacity < 0 {
		return errors.New("world.cacheCapacity cannot be negative")
	}
	if w.CacheTimeout < 0 {
		return errors.New("world.cacheTimeout cannot be negative")
	}
	if w.Workers < 0 {
		return errors.New("world.workers cannot be negative")
	}
	return nil
}

func (t TerrainConfig) validate() error {
	for name, v := range map[string]float64{
		"terrain.scale":            t.Scale,
		"terrain.lacunarity":       t.Lacunarity,
		"terrain.ridgeScale":       t.RidgeScale,
		"terrain.heightMultiplier": t.HeightMultiplier,
		"terrain.moistureScale":    t.MoistureScale,
		"terrain.temperatureScale": t.TemperatureScale,
		"terrain.latitudePeriod":   t.LatitudePeriod,
		"terrain.contrast":         t.Contrast,
	} {
		if !(v > 0) || math.IsInf(v, 0) {
			return fmt.Errorf("%s must be positive", name)
		}
	}
	if t.Octaves <= 0 {
		return errors.New("terrain.octaves must be positive")
	}
	if !(t.Persistence > 0 && t.Persistence <= 1) {
		return errors.New("terrain.persistence must be within (0,1]")
	}
	if t.RidgeWeight < 0 || t.RidgeWeight > 1 {
		return errors.New("terrain.ridgeWeight must be within [0,1]")
	}
	return nil
}

func (b BiomeConfig) validate() error {
	if !(b.OceanLevel > 0 && b.OceanLevel < b.BeachLevel && b.BeachLevel < b.MountainLevel &&
		b.MountainLevel < b.SnowLevel && b.SnowLevel <= 1) {
		return errors.New("biomes thresholds must satisfy 0 < ocean < beach < mountain < snow <= 1")
	}
	if !(b.ColdTemperature < b.TemperateTemperature && b.TemperateTemperature < b.WarmTemperature) {
		return errors.New("biomes temperature bands must be increasing")
	}
	if !(b.DryMoisture < b.WetMoisture) {
		return errors.New("biomes.dryMoisture must be below wetMoisture")
	}
	return nil
}

