package populate

import (
	"context"

	"worldforge/internal/chunk"
	"worldforge/internal/mathutil"
	"worldforge/internal/rng"
)

// Dungeons computes the dungeon chance from terrain, settlements and
// explosions, then rolls for a dungeon and its depth.
func (p *Populator) Dungeons(_ context.Context, c *chunk.Chunk) error {
	c.HasDungeon = false
	c.DungeonDepth = 0

	cfg := p.dungeons
	fr := c.BiomeFractions()
	c.DungeonChance = p.DungeonChance(c, fr)

	r := rng.ForChunk(p.seeds.Dungeons, c.Coord)
	if r.Float64() >= c.DungeonChance {
		return nil
	}
	depth := r.IntRange(cfg.MinDepth, cfg.MaxDepth)
	if fr[chunk.BiomeMountain] > cfg.MountainFraction {
		depth += r.IntRange(1, 3)
	}
	for _, e := range c.Events.Items() {
		if e.Kind == chunk.EventMagicalExplosion {
			depth += int(e.Intensity * cfg.ExplosionDepth)
		}
	}
	c.HasDungeon = true
	c.DungeonDepth = mathutil.Clamp(depth, cfg.MinDepth, cfg.MaxDepth)
	return nil
}

// DungeonChance is the spawn probability for a chunk with the given biome
// fractions. It is not capped at one.
func (p *Populator) DungeonChance(c *chunk.Chunk, fr [chunk.BiomeCount]float64) float64 {
	cfg := p.dungeons
	chance := cfg.BaseChance +
		fr[chunk.BiomeMountain]*cfg.MountainWeight +
		(fr[chunk.BiomeForest]+fr[chunk.BiomeRainforest]+fr[chunk.BiomeTaiga])*cfg.ForestWeight +
		fr[chunk.BiomeDesert]*cfg.DesertWeight
	if c.HasSettlement {
		chance *= cfg.SettlementPenalty
	}
	chance += c.EventIntensity(chunk.EventMagicalExplosion) * cfg.ExplosionBonus
	return chance
}
