package terrain

import (
	"math"
	"testing"

	"worldforge/internal/config"
)

func TestSamplerFieldsStayNormalized(t *testing.T) {
	cfg := config.Default()
	s := NewSampler(cfg.Seeds, cfg.Terrain)
	for x := -2000.0; x <= 2000; x += 97 {
		for z := -2000.0; z <= 2000; z += 89 {
			h := s.Height(x, z)
			if h < 0 || h > 1 || math.IsNaN(h) {
				t.Fatalf("height(%v,%v) = %v", x, z, h)
			}
			if m := s.Moisture(x, z, h, cfg.Biomes.OceanLevel); m < 0 || m > 1 {
				t.Fatalf("moisture(%v,%v) = %v", x, z, m)
			}
			if tt := s.Temperature(x, z, h, cfg.Biomes.OceanLevel); tt < 0 || tt > 1 {
				t.Fatalf("temperature(%v,%v) = %v", x, z, tt)
			}
			if c := s.Cell(x, z, 6); c < 0 || c >= 1 {
				t.Fatalf("cell(%v,%v) = %v", x, z, c)
			}
		}
	}
}

func TestSamplerDependsOnSeed(t *testing.T) {
	cfg := config.Default()
	a := NewSampler(cfg.Seeds, cfg.Terrain)
	seeds := cfg.Seeds
	seeds.Terrain++
	b := NewSampler(seeds, cfg.Terrain)
	same := 0
	for i := 0; i < 50; i++ {
		x, z := float64(i*37), float64(i*53)
		if a.Height(x, z) == b.Height(x, z) {
			same++
		}
	}
	if same == 50 {
		t.Fatalf("changing the terrain seed did not change heights")
	}
}

func TestTemperatureCoolsWithAltitude(t *testing.T) {
	cfg := config.Default()
	s := NewSampler(cfg.Seeds, cfg.Terrain)
	low := s.Temperature(100, 100, 0.3, 0.3)
	high := s.Temperature(100, 100, 0.9, 0.3)
	if !(high < low) {
		t.Fatalf("expected colder peaks: low=%v high=%v", low, high)
	}
}

func TestHash3IsStable(t *testing.T) {
	if hash3(1, 2, 3) != hash3(1, 2, 3) {
		t.Fatalf("hash3 not stable")
	}
	if hash3(1, 2, 3) == hash3(2, 1, 3) {
		t.Fatalf("hash3 symmetric in x and y")
	}
}
