package terrain

import (
	"context"
	"fmt"

	"worldforge/internal/chunk"
	"worldforge/internal/config"
)

// Classify maps a normalized height and the climate at a vertex to a biome.
// Each height threshold is inclusive on its upper side: a height exactly at
// the ocean level is already land.
func Classify(height, temperature, moisture float64, cfg config.BiomeConfig) chunk.BiomeID {
	switch {
	case height < cfg.OceanLevel:
		return chunk.BiomeOcean
	case height < cfg.BeachLevel:
		return chunk.BiomeBeach
	case height < cfg.MountainLevel:
		return whittaker(temperature, moisture, cfg)
	case height > cfg.SnowLevel || temperature < cfg.SnowTemperature:
		return chunk.BiomeSnow
	default:
		return chunk.BiomeMountain
	}
}

func whittaker(t, m float64, cfg config.BiomeConfig) chunk.BiomeID {
	switch {
	case t < cfg.ColdTemperature:
		if m < cfg.ColdWetMoisture {
			return chunk.BiomeTundra
		}
		return chunk.BiomeTaiga
	case t < cfg.TemperateTemperature:
		if m < cfg.DryMoisture {
			return chunk.BiomeGrassland
		}
		return chunk.BiomeForest
	case t < cfg.WarmTemperature:
		switch {
		case m < cfg.DryMoisture:
			return chunk.BiomeSavanna
		case m < cfg.WetMoisture:
			return chunk.BiomeForest
		default:
			return chunk.BiomeRainforest
		}
	default:
		switch {
		case m < cfg.DryMoisture:
			return chunk.BiomeDesert
		case m < cfg.WetMoisture:
			return chunk.BiomeSavanna
		default:
			return chunk.BiomeRainforest
		}
	}
}

// Biomes classifies every vertex of a chunk whose terrain layers are filled.
func (g *Generator) Biomes(ctx context.Context, c *chunk.Chunk) error {
	if !c.Allocated() {
		return fmt.Errorf("chunk %v: biomes before terrain", c.Coord)
	}
	mult := g.terrain.HeightMultiplier
	return g.forRows(ctx, c.Resolution, func(z int) {
		for x := 0; x < c.Resolution; x++ {
			i := c.Index(x, z)
			c.Biome[i] = Classify(float64(c.Height[i])/mult, float64(c.Temperature[i]), float64(c.Moisture[i]), g.biomes)
		}
	})
}
