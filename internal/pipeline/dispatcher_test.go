package pipeline

import (
	"context"
	"reflect"
	"testing"

	"worldforge/internal/chunk"
	"worldforge/internal/config"
)

func testConfig() *config.Config {
	cfg := config.Default()
	cfg.World.BaseResolution = 16
	cfg.World.Workers = 2
	return cfg
}

func TestAdvanceMovesExactlyOneStage(t *testing.T) {
	d := New(testConfig(), nil)
	c := chunk.New(chunk.Coord{X: 1, Z: -1}, chunk.LODFull, 16)
	ctx := context.Background()
	if c.Stage != chunk.StageQueued {
		t.Fatalf("new chunk starts in %s, want queued", c.Stage)
	}
	for want := chunk.StageBaseTerrain; want <= chunk.StageComplete; want++ {
		prev := c.Stage
		if err := d.Advance(ctx, c); err != nil {
			t.Fatalf("advance from %s: %v", prev, err)
		}
		if c.Stage != want {
			t.Fatalf("advance from %s landed on %s, want %s", prev, c.Stage, want)
		}
	}
	if err := d.Advance(ctx, c); err != nil || c.Stage != chunk.StageComplete {
		t.Fatalf("complete chunk should stay complete, got %s err %v", c.Stage, err)
	}
	if !c.Allocated() {
		t.Fatalf("complete chunk lacks layers")
	}
}

func TestUnqueuedChunkAllocatesOnFirstStep(t *testing.T) {
	d := New(testConfig(), nil)
	c := chunk.New(chunk.Coord{}, chunk.LODFull, 16)
	c.Stage = chunk.StageNone
	if err := d.Advance(context.Background(), c); err != nil {
		t.Fatalf("advance: %v", err)
	}
	if c.Stage != chunk.StageBaseTerrain || !c.Allocated() {
		t.Fatalf("expected allocated base_terrain chunk, got %s allocated=%v", c.Stage, c.Allocated())
	}
}

func TestGenerateIsDeterministic(t *testing.T) {
	cfg := testConfig()
	cfg.Seeds.Terrain = 12345
	ctx := context.Background()
	build := func() *chunk.Chunk {
		c := chunk.New(chunk.Coord{}, chunk.LODFull, 16)
		if err := New(cfg, nil).Generate(ctx, c); err != nil {
			t.Fatalf("generate: %v", err)
		}
		return c
	}
	a, b := build(), build()
	if !reflect.DeepEqual(a.Height, b.Height) || !reflect.DeepEqual(a.Moisture, b.Moisture) ||
		!reflect.DeepEqual(a.Temperature, b.Temperature) || !reflect.DeepEqual(a.Biome, b.Biome) {
		t.Fatalf("layers differ between runs")
	}
	if !reflect.DeepEqual(a.Entities.Items(), b.Entities.Items()) {
		t.Fatalf("entities differ between runs")
	}
}

func TestAdvanceAllMatchesSequentialAdvance(t *testing.T) {
	cfg := testConfig()
	ctx := context.Background()
	d := New(cfg, nil)

	var batch, single []*chunk.Chunk
	for x := 0; x < 6; x++ {
		batch = append(batch, chunk.New(chunk.Coord{X: x, Z: 2}, chunk.LODHigh, 8))
		single = append(single, chunk.New(chunk.Coord{X: x, Z: 2}, chunk.LODHigh, 8))
	}
	for step := 0; step < 7; step++ {
		if err := d.AdvanceAll(ctx, batch); err != nil {
			t.Fatalf("advance all: %v", err)
		}
		for _, c := range single {
			if err := d.Advance(ctx, c); err != nil {
				t.Fatalf("advance: %v", err)
			}
		}
	}
	for i := range batch {
		if batch[i].Stage != chunk.StageComplete {
			t.Fatalf("chunk %v not complete after seven steps", batch[i].Coord)
		}
		if !reflect.DeepEqual(batch[i].Height, single[i].Height) || !reflect.DeepEqual(batch[i].Biome, single[i].Biome) {
			t.Fatalf("chunk %v differs between batch and sequential runs", batch[i].Coord)
		}
	}
}

func TestExplosionRedirtyRaisesDungeonChance(t *testing.T) {
	cfg := testConfig()
	cfg.Seeds.Terrain = 12345
	ctx := context.Background()
	d := New(cfg, nil)

	for x := -2; x <= 2; x++ {
		c := chunk.New(chunk.Coord{X: x, Z: 0}, chunk.LODFull, 16)
		if err := d.Generate(ctx, c); err != nil {
			t.Fatalf("generate: %v", err)
		}
		before := c.DungeonChance

		e := chunk.WorldEvent{
			Kind:      chunk.EventMagicalExplosion,
			Epicenter: c.Coord.Center(cfg.World.ChunkSize),
			Radius:    cfg.World.ChunkSize,
			Intensity: 1.5,
		}
		if !c.AddEvent(e) {
			t.Fatalf("event rejected")
		}
		if c.Stage != chunk.StageBaseTerrain || !c.Dirty {
			t.Fatalf("expected dirty base_terrain after event, got %s", c.Stage)
		}
		for i := 0; i < 6; i++ {
			if c.Stage == chunk.StageComplete {
				t.Fatalf("chunk completed after only %d ticks", i)
			}
			if err := d.Advance(ctx, c); err != nil {
				t.Fatalf("advance: %v", err)
			}
		}
		if c.Stage != chunk.StageComplete || c.Dirty {
			t.Fatalf("expected clean complete chunk after six ticks, got %s dirty=%v", c.Stage, c.Dirty)
		}
		if !(c.DungeonChance > before) {
			t.Fatalf("chunk %v dungeon chance %v did not exceed %v", c.Coord, c.DungeonChance, before)
		}
	}
}
