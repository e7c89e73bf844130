package terrain

import (
	"math"

	"worldforge/internal/chunk"
	"worldforge/internal/mathutil"
)

// Explosions warm the ground slightly.
const explosionHeat = 0.1

// applyEvents perturbs the normalized height map and the climate layers of c
// with every attached event, in slot order.
func (g *Generator) applyEvents(c *chunk.Chunk, norm []float64) {
	for _, e := range c.Events.Items() {
		switch e.Kind {
		case chunk.EventMagicalExplosion:
			g.applyExplosion(c, norm, e)
		case chunk.EventCrystallizedTerrain:
			g.applyCrystals(c, norm, e)
		case chunk.EventFactionInfluence:
			g.applyFaction(c, norm, e)
		case chunk.EventNaturalDisaster:
			g.applyDisaster(c, norm, e)
		}
	}
	for i := range norm {
		norm[i] = mathutil.Clamp(norm[i], 0, 1)
	}
}

// eachVertex calls fn with the falloff of e for every vertex it reaches.
func (g *Generator) eachVertex(c *chunk.Chunk, e chunk.WorldEvent, fn func(i int, x, z float64, f float64)) {
	for z := 0; z < c.Resolution; z++ {
		for x := 0; x < c.Resolution; x++ {
			p := c.VertexPosition(x, z, g.chunkSize)
			f := e.Falloff(p)
			if f <= 0 {
				continue
			}
			fn(c.Index(x, z), p.X(), p.Z(), f)
		}
	}
}

func (g *Generator) applyExplosion(c *chunk.Chunk, norm []float64, e chunk.WorldEvent) {
	cfg := g.events
	g.eachVertex(c, e, func(i int, x, z, f float64) {
		shard := 1 - math.Abs(2*g.sampler.Detail(x, z, 0.35)-1)
		norm[i] += f*cfg.ExplosionLift + f*cfg.ExplosionShards*shard*shard*shard
		c.Moisture[i] = climate(c.Moisture[i], -f*cfg.ExplosionDrying)
		c.Temperature[i] = climate(c.Temperature[i], f*explosionHeat)
	})
}

func (g *Generator) applyCrystals(c *chunk.Chunk, norm []float64, e chunk.WorldEvent) {
	cfg := g.events
	g.eachVertex(c, e, func(i int, x, z, f float64) {
		cell := g.sampler.Cell(x, z, cfg.CrystalCellSize)
		norm[i] += f * cfg.CrystalRelief * (cell - 0.5)
		c.Moisture[i] = climate(c.Moisture[i], -f*cfg.CrystalDrying)
	})
}

// applyFaction pulls every vertex toward the mean of its 3x3 neighbourhood,
// read from a snapshot so the result does not depend on visiting order.
func (g *Generator) applyFaction(c *chunk.Chunk, norm []float64, e chunk.WorldEvent) {
	src := append([]float64(nil), norm...)
	res := c.Resolution
	g.eachVertex(c, e, func(i int, _, _ float64, f float64) {
		vx, vz := i%res, i/res
		sum, n := 0.0, 0
		for dz := -1; dz <= 1; dz++ {
			for dx := -1; dx <= 1; dx++ {
				nx, nz := vx+dx, vz+dz
				if nx < 0 || nz < 0 || nx >= res || nz >= res {
					continue
				}
				sum += src[nx+nz*res]
				n++
			}
		}
		norm[i] = mathutil.Lerp(src[i], sum/float64(n), math.Min(f, 1))
	})
}

func (g *Generator) applyDisaster(c *chunk.Chunk, norm []float64, e chunk.WorldEvent) {
	cfg := g.events
	g.eachVertex(c, e, func(i int, x, z, f float64) {
		jitter := g.sampler.Jitter(int(math.Floor(x)), int(math.Floor(z)))
		norm[i] += f * cfg.DisasterRoughness * (jitter - 0.5)
		if g.sampler.Detail(x, z, cfg.DisasterNoiseScale/g.chunkSize) > 0.5 {
			c.Moisture[i] = climate(c.Moisture[i], f*cfg.DisasterFlooding)
		}
	})
}

func climate(v float32, delta float64) float32 {
	return float32(mathutil.Clamp(float64(v)+delta, 0, 1))
}
