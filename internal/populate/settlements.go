package populate

import (
	"context"
	"math"

	"worldforge/internal/chunk"
	"worldforge/internal/mathutil"
	"worldforge/internal/rng"
)

// Settlements scores the chunk and may place a settlement of tier 1..5.
func (p *Populator) Settlements(_ context.Context, c *chunk.Chunk) error {
	c.HasSettlement = false
	c.SettlementSize = 0

	cfg := p.settlements
	suitability := p.Suitability(c)
	if c.HasRoad {
		suitability *= cfg.RoadBonus
	}
	if c.HasRiver {
		suitability *= cfg.RiverBonus
	}
	faction := c.EventIntensity(chunk.EventFactionInfluence)
	suitability *= 1 + faction*cfg.FactionMultiplier
	c.SettlementScore = suitability

	r := rng.ForChunk(p.seeds.Settlements, c.Coord)
	spawn := r.Float64()
	size := r.Float64()
	if spawn < suitability*cfg.BaseChance {
		c.HasSettlement = true
		c.SettlementSize = SettlementTier(size, suitability, faction, cfg.TierThresholds)
	}
	return nil
}

// Suitability is the mean habitability over flat, habitable vertices before
// any road, river or faction bonus.
func (p *Populator) Suitability(c *chunk.Chunk) float64 {
	cfg := p.settlements
	res := c.Resolution
	var sum float64
	n := 0
	for z := 0; z < res; z++ {
		for x := 0; x < res; x++ {
			i := c.Index(x, z)
			b := c.Biome[i]
			if !b.Habitable() {
				continue
			}
			flatness := 1 - math.Min(maxNeighbourDiff(c, x, z)/cfg.FlatnessRange, 1)
			if flatness < cfg.FlatnessThreshold {
				continue
			}
			sum += flatness *
				mathutil.Closeness(float64(c.Moisture[i]), cfg.OptimalMoisture) *
				mathutil.Closeness(float64(c.Temperature[i]), cfg.OptimalTemperature) *
				p.suitability[b]
			n++
		}
	}
	if n == 0 {
		return 0
	}
	return sum / float64(n)
}

// SettlementTier buckets draw / (suitability + faction/2) into tiers 5
// (smallest quotients) down to 1. Raising faction never lowers the tier.
func SettlementTier(draw, suitability, faction float64, thresholds []float64) uint8 {
	denom := suitability + 0.5*faction
	if denom <= 0 {
		return 1
	}
	q := draw / denom
	for i, limit := range thresholds {
		if q < limit {
			return uint8(5 - i)
		}
	}
	return 1
}

func maxNeighbourDiff(c *chunk.Chunk, x, z int) float64 {
	res := c.Resolution
	h := c.Height[c.Index(x, z)]
	var best float64
	for dz := -1; dz <= 1; dz++ {
		for dx := -1; dx <= 1; dx++ {
			nx, nz := x+dx, z+dz
			if (dx == 0 && dz == 0) || nx < 0 || nz < 0 || nx >= res || nz >= res {
				continue
			}
			best = math.Max(best, math.Abs(float64(c.Height[c.Index(nx, nz)]-h)))
		}
	}
	return best
}
