package populate

import (
	"context"

	"worldforge/internal/chunk"
	"worldforge/internal/rng"
)

// Features decides river and road presence and scatters points of interest
// over non-ocean cells. Duplicate points are allowed.
func (p *Populator) Features(_ context.Context, c *chunk.Chunk) error {
	c.HasRiver = false
	c.HasRoad = false
	c.POIs.Reset()

	r := rng.ForChunk(p.seeds.Features, c.Coord)
	c.HasRiver = p.river(c, r.Split("river"))

	frac := habitableFraction(c.BiomeFractions())
	roll := r.Split("road").Float64()
	c.HasRoad = frac > p.features.RoadLandFraction && roll < frac*p.features.RoadChance

	poi := r.Split("poi")
	n := poi.Intn(p.features.MaxPOIs + 1)
	if n == 0 {
		return nil
	}
	cells := make([]int, 0, len(c.Biome))
	for i, b := range c.Biome {
		if b != chunk.BiomeOcean {
			cells = append(cells, i)
		}
	}
	if len(cells) == 0 {
		return nil
	}
	for i := 0; i < n; i++ {
		idx := cells[poi.Intn(len(cells))]
		c.POIs.Push(chunk.POI{X: idx % c.Resolution, Z: idx / c.Resolution})
	}
	return nil
}

func (p *Populator) river(c *chunk.Chunk, r *rng.Source) bool {
	count := 0
	var sum float64
	for _, m := range c.Moisture {
		if float64(m) > p.features.RiverMoisture {
			count++
			sum += float64(m)
		}
	}
	if count <= 2*c.Resolution {
		return false
	}
	mean := sum / float64(count)
	return mean*r.Float64() > p.features.RiverThreshold
}
