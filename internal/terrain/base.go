package terrain

import (
	"context"
	"fmt"
	"runtime"

	"golang.org/x/sync/errgroup"

	"worldforge/internal/chunk"
	"worldforge/internal/config"
)

// minParallelRows keeps small chunks on the calling goroutine.
const minParallelRows = 32

// Generator runs the BaseTerrain and Biomes stages.
type Generator struct {
	sampler   *Sampler
	chunkSize float64
	terrain   config.TerrainConfig
	biomes    config.BiomeConfig
	events    config.EventConfig
	workers   int
}

func NewGenerator(cfg *config.Config) *Generator {
	workers := cfg.World.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	return &Generator{
		sampler:   NewSampler(cfg.Seeds, cfg.Terrain),
		chunkSize: cfg.World.ChunkSize,
		terrain:   cfg.Terrain,
		biomes:    cfg.Biomes,
		events:    cfg.Events,
		workers:   workers,
	}
}

// Sampler exposes the noise fields used by the generator.
func (g *Generator) Sampler() *Sampler {
	return g.sampler
}

// BaseTerrain fills height, moisture and temperature from world position and
// then applies the chunk's active events. Heights are stored in world units.
func (g *Generator) BaseTerrain(ctx context.Context, c *chunk.Chunk) error {
	if c.Resolution <= 0 {
		return fmt.Errorf("chunk %v: resolution %d", c.Coord, c.Resolution)
	}
	if !c.Allocated() {
		c.Allocate()
	}

	norm := make([]float64, len(c.Height))
	if err := g.forRows(ctx, c.Resolution, func(z int) {
		g.fillRow(c, norm, z)
	}); err != nil {
		return err
	}

	if c.Events.Len() > 0 {
		g.applyEvents(c, norm)
	}

	for i, h := range norm {
		c.Height[i] = float32(h * g.terrain.HeightMultiplier)
	}
	return nil
}

func (g *Generator) fillRow(c *chunk.Chunk, norm []float64, z int) {
	sea := g.biomes.OceanLevel
	for x := 0; x < c.Resolution; x++ {
		p := c.VertexPosition(x, z, g.chunkSize)
		i := c.Index(x, z)
		h := g.sampler.Height(p.X(), p.Z())
		norm[i] = h
		c.Moisture[i] = float32(g.sampler.Moisture(p.X(), p.Z(), h, sea))
		c.Temperature[i] = float32(g.sampler.Temperature(p.X(), p.Z(), h, sea))
	}
}

// forRows runs fn for every row, split into bands across workers when the
// chunk is large enough. Rows never share writes.
func (g *Generator) forRows(ctx context.Context, rows int, fn func(z int)) error {
	workers := g.workers
	if workers > rows {
		workers = rows
	}
	if workers <= 1 || rows < minParallelRows {
		for z := 0; z < rows; z++ {
			fn(z)
		}
		return ctx.Err()
	}

	group, ctx := errgroup.WithContext(ctx)
	band := (rows + workers - 1) / workers
	for start := 0; start < rows; start += band {
		start := start
		end := min(start+band, rows)
		group.Go(func() error {
			for z := start; z < end; z++ {
				if err := ctx.Err(); err != nil {
					return err
				}
				fn(z)
			}
			return nil
		})
	}
	return group.Wait()
}
