// Package pipeline maps each generation stage to its handler and advances
// chunks through them.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"

	"golang.org/x/sync/errgroup"

	"worldforge/internal/chunk"
	"worldforge/internal/config"
	"worldforge/internal/populate"
	"worldforge/internal/terrain"
)

// Handler computes the output of one stage for c.
type Handler func(ctx context.Context, c *chunk.Chunk) error

// Dispatcher advances chunks one stage per call. It keeps no per-chunk state,
// so distinct chunks may be advanced concurrently.
type Dispatcher struct {
	handlers [chunk.StageComplete]Handler
	terrain  *terrain.Generator
	log      *slog.Logger
	workers  int
}

func New(cfg *config.Config, log *slog.Logger) *Dispatcher {
	if log == nil {
		log = slog.Default()
	}
	workers := cfg.World.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	gen := terrain.NewGenerator(cfg)
	pop := populate.New(cfg)
	d := &Dispatcher{terrain: gen, log: log, workers: workers}
	d.handlers = [chunk.StageComplete]Handler{
		chunk.StageQueued:      allocate,
		chunk.StageBaseTerrain: gen.BaseTerrain,
		chunk.StageBiomes:      gen.Biomes,
		chunk.StageFeatures:    pop.Features,
		chunk.StageSettlements: pop.Settlements,
		chunk.StageDungeons:    pop.Dungeons,
		chunk.StageEntities:    pop.Entities,
	}
	return d
}

// Terrain exposes the terrain generator, mainly for sampling.
func (d *Dispatcher) Terrain() *terrain.Generator {
	return d.terrain
}

// Advance runs the handler of the chunk's current stage and moves it to the
// next stage. A chunk in StageNone is treated as queued, so its first step
// allocates. Complete chunks are left untouched. On error the stage is not
// advanced.
func (d *Dispatcher) Advance(ctx context.Context, c *chunk.Chunk) error {
	if c.Stage >= chunk.StageComplete {
		return nil
	}
	if c.Stage == chunk.StageNone {
		c.Stage = chunk.StageQueued
	}
	if err := d.handlers[c.Stage](ctx, c); err != nil {
		return fmt.Errorf("chunk %v stage %s: %w", c.Coord, c.Stage, err)
	}
	c.Stage = c.Stage.Next()
	if c.Stage == chunk.StageComplete {
		c.Dirty = false
		d.log.Debug("chunk generated", "coord", c.Coord, "lod", c.LOD, "resolution", c.Resolution)
	}
	return nil
}

// AdvanceAll advances every chunk by one stage, spreading chunks across
// workers. Each chunk is handled by exactly one goroutine and all writes are
// visible when AdvanceAll returns.
func (d *Dispatcher) AdvanceAll(ctx context.Context, chunks []*chunk.Chunk) error {
	if len(chunks) == 1 {
		return d.Advance(ctx, chunks[0])
	}
	group, ctx := errgroup.WithContext(ctx)
	group.SetLimit(d.workers)
	for _, c := range chunks {
		c := c
		group.Go(func() error {
			return d.Advance(ctx, c)
		})
	}
	return group.Wait()
}

// Generate advances c until it is Complete.
func (d *Dispatcher) Generate(ctx context.Context, c *chunk.Chunk) error {
	for c.Stage != chunk.StageComplete {
		if err := d.Advance(ctx, c); err != nil {
			return err
		}
	}
	return nil
}

func allocate(_ context.Context, c *chunk.Chunk) error {
	if c.Resolution <= 0 {
		return fmt.Errorf("resolution %d", c.Resolution)
	}
	c.Allocate()
	return nil
}
