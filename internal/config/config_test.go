package config

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"

	"worldforge/internal/chunk"
)

func TestValidateDefaultConfig(t *testing.T) {
	cfg := Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default configuration should be valid: %v", err)
	}
}

func TestValidateDetectsInvalidConfigurations(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name: "non positive chunk size",
			mutate: func(cfg *Config) {
				cfg.World.ChunkSize = 0
			},
			wantErr: "world.chunkSize must be positive",
		},
		{
			name: "resolution too small for coarsest lod",
			mutate: func(cfg *Config) {
				cfg.World.BaseResolution = 8
			},
			wantErr: "invalid lod table: world.baseResolution must be at least 16",
		},
		{
			name: "decreasing view distances",
			mutate: func(cfg *Config) {
				cfg.World.ViewDistances = []int{4, 2, 6, 8}
			},
			wantErr: "invalid lod table: world.viewDistances must be non-decreasing",
		},
		{
			name: "zero tick budget",
			mutate: func(cfg *Config) {
				cfg.World.MaxChunksPerTick = 0
			},
			wantErr: "world.maxChunksPerTick must be positive",
		},
		{
			name: "far budget above one chunk",
			mutate: func(cfg *Config) {
				cfg.World.FarChunksPerTick = 2
			},
			wantErr: "world.farChunksPerTick must be 0 or 1",
		},
		{
			name: "persistence out of range",
			mutate: func(cfg *Config) {
				cfg.Terrain.Persistence = 1.5
			},
			wantErr: "terrain.persistence must be within (0,1]",
		},
		{
			name: "zero octaves",
			mutate: func(cfg *Config) {
				cfg.Terrain.Octaves = 0
			},
			wantErr: "terrain.octaves must be positive",
		},
		{
			name: "unordered biome thresholds",
			mutate: func(cfg *Config) {
				cfg.Biomes.BeachLevel = 0.2
			},
			wantErr: "biomes thresholds must satisfy 0 < ocean < beach < mountain < snow <= 1",
		},
		{
			name: "too many points of interest",
			mutate: func(cfg *Config) {
				cfg.Features.MaxPOIs = 17
			},
			wantErr: "features.maxPois must be within [0,16]",
		},
		{
			name: "unknown suitability biome",
			mutate: func(cfg *Config) {
				cfg.Settlements.BiomeSuitability["swamp"] = 1
			},
			wantErr: `settlements.biomeSuitability: unknown biome "swamp"`,
		},
		{
			name: "inverted dungeon depth",
			mutate: func(cfg *Config) {
				cfg.Dungeons.MinDepth = 6
				cfg.Dungeons.MaxDepth = 3
			},
			wantErr: "dungeons depth range must satisfy 0 <= minDepth <= maxDepth <= 10",
		},
		{
			name: "storm and rain exceed one",
			mutate: func(cfg *Config) {
				cfg.Environment.StormChance = 0.7
				cfg.Environment.RainChance = 0.5
			},
			wantErr: "environment storm+rain chance must be <= 1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatalf("expected an error, got nil")
			}
			if err.Error() != tt.wantErr {
				t.Fatalf("unexpected error: got %q want %q", err.Error(), tt.wantErr)
			}
		})
	}
}

func TestLODErrorsWrapSentinel(t *testing.T) {
	cfg := Default()
	cfg.World.ViewDistances = []int{1, 2}
	if err := cfg.Validate(); !errors.Is(err, chunk.ErrInvalidLOD) {
		t.Fatalf("expected ErrInvalidLOD, got %v", err)
	}
}

func TestLoadEmptyPathReturnsDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("load default config: %v", err)
	}
	if want := Default(); !reflect.DeepEqual(cfg, want) {
		t.Fatalf("default configuration mismatch:\nwant: %#v\n got: %#v", want, cfg)
	}
}

func TestLoadReadsJSONFileAndValidates(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.json")

	cfg := Default()
	cfg.Server.Listen = ":9999"
	cfg.Seeds.Terrain = 99

	data, err := json.Marshal(cfg)
	if err != nil {
		t.Fatalf("marshal config: %v", err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	got, err := Load(path)
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if !reflect.DeepEqual(got, cfg) {
		t.Fatalf("loaded configuration mismatch:\nwant: %#v\n got: %#v", cfg, got)
	}
}

func TestLoadYAMLOverlaysDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "world.yaml")
	doc := `
world:
  chunkSize: 32
  cacheTimeout: 45s
seeds:
  terrain: 7
server:
  tickRate: 100ms
`
	if err := os.WriteFile(path, []byte(doc), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	got, err := Load(path)
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if got.World.ChunkSize != 32 {
		t.Fatalf("chunkSize = %v, want 32", got.World.ChunkSize)
	}
	if got.World.CacheTimeout.Duration() != 45*time.Second {
		t.Fatalf("cacheTimeout = %v, want 45s", got.World.CacheTimeout.Duration())
	}
	if got.Server.TickRate.Duration() != 100*time.Millisecond {
		t.Fatalf("tickRate = %v, want 100ms", got.Server.TickRate.Duration())
	}
	if got.Seeds.Terrain != 7 {
		t.Fatalf("terrain seed = %d, want 7", got.Seeds.Terrain)
	}
	if got.Seeds.Moisture != Default().Seeds.Moisture {
		t.Fatalf("untouched seeds should keep defaults")
	}
	if got.World.BaseResolution != Default().World.BaseResolution {
		t.Fatalf("untouched world fields should keep defaults")
	}
}

func TestLoadInvalidConfiguration(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.json")

	cfg := Default()
	cfg.World.ChunkSize = 0

	data, err := json.Marshal(cfg)
	if err != nil {
		t.Fatalf("marshal config: %v", err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	_, err = Load(path)
	if err == nil {
		t.Fatalf("expected load to fail")
	}
	if !strings.Contains(err.Error(), "validate config: world.chunkSize must be positive") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestDurationAcceptsNumbersAndStrings(t *testing.T) {
	var d Duration
	if err := json.Unmarshal([]byte(`"250ms"`), &d); err != nil {
		t.Fatalf("decode string: %v", err)
	}
	if d.Duration() != 250*time.Millisecond {
		t.Fatalf("got %v, want 250ms", d.Duration())
	}
	if err := json.Unmarshal([]byte(`1000`), &d); err != nil {
		t.Fatalf("decode number: %v", err)
	}
	if d.Duration() != time.Microsecond {
		t.Fatalf("got %v, want 1µs", d.Duration())
	}
	if err := json.Unmarshal([]byte(`"soon"`), &d); err == nil {
		t.Fatalf("expected invalid duration to fail")
	}
}
