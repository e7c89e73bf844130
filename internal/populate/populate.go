// Package populate runs the placement stages that follow terrain: features,
// settlements, dungeons and entities. Each stage draws from its own stream
// derived from the stage seed and the chunk coordinate.
package populate

import (
	"worldforge/internal/chunk"
	"worldforge/internal/config"
)

type Populator struct {
	chunkSize        float64
	heightMultiplier float64
	mountainLevel    float64
	seeds            config.SeedConfig
	features         config.FeatureConfig
	settlements      config.SettlementConfig
	dungeons         config.DungeonConfig
	entities         config.EntityConfig
	suitability      [chunk.BiomeCount]float64
}

func New(cfg *config.Config) *Populator {
	p := &Populator{
		chunkSize:        cfg.World.ChunkSize,
		heightMultiplier: cfg.Terrain.HeightMultiplier,
		mountainLevel:    cfg.Biomes.MountainLevel,
		seeds:            cfg.Seeds,
		features:         cfg.Features,
		settlements:      cfg.Settlements,
		dungeons:         cfg.Dungeons,
		entities:         cfg.Entities,
	}
	for name, v := range cfg.Settlements.BiomeSuitability {
		if b, err := chunk.ParseBiome(name); err == nil {
			p.suitability[b] = v
		}
	}
	return p
}

func landFraction(fr [chunk.BiomeCount]float64) float64 {
	return 1 - fr[chunk.BiomeOcean]
}

func habitableFraction(fr [chunk.BiomeCount]float64) float64 {
	return 1 - fr[chunk.BiomeOcean] - fr[chunk.BiomeMountain] - fr[chunk.BiomeSnow]
}
