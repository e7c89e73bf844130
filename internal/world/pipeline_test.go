package world_test

import (
	"context"
	"testing"

	"github.com/go-gl/mathgl/mgl64"

	"worldforge/internal/chunk"
	"worldforge/internal/config"
	"worldforge/internal/pipeline"
	"worldforge/internal/world"
)

func TestManagerWithDispatcherRegeneratesAfterExplosion(t *testing.T) {
	cfg := config.Default()
	cfg.Seeds.Terrain = 12345
	cfg.World.BaseResolution = 16
	cfg.World.ViewDistances = []int{1, 1, 1, 2}
	cfg.World.Workers = 2

	m, err := world.NewManager(cfg, pipeline.New(cfg, nil))
	if err != nil {
		t.Fatalf("new manager: %v", err)
	}
	m.SetViewpoint(mgl64.Vec3{32, 0, 32})

	ctx := context.Background()
	for i := 0; i < 1000 && m.Stats().Complete < m.Stats().Active; i++ {
		if err := m.Tick(ctx); err != nil {
			t.Fatalf("tick: %v", err)
		}
	}
	if !m.IsLoaded(chunk.Coord{}) {
		t.Fatalf("origin chunk not generated")
	}
	before, _ := m.Get(chunk.Coord{})

	sample, ok := m.SampleAt(mgl64.Vec3{0.2, 0, 0.2})
	if !ok || sample.X != 0 || sample.Z != 0 || sample.Height != before.Height[0] {
		t.Fatalf("sample at the chunk origin = %+v, %v", sample, ok)
	}

	report, err := m.ApplyEvent(chunk.EventMagicalExplosion, mgl64.Vec3{32, 0, 32}, 10, 1.5)
	if err != nil {
		t.Fatalf("apply event: %v", err)
	}
	if len(report.Affected) != 1 || report.Affected[0] != (chunk.Coord{}) {
		t.Fatalf("expected only the origin chunk affected, got %v", report.Affected)
	}
	if c, _ := m.Get(chunk.Coord{}); c.Stage != chunk.StageBaseTerrain {
		t.Fatalf("expected base_terrain after the event, got %s", c.Stage)
	}

	for i := 0; i < 6; i++ {
		if m.IsLoaded(chunk.Coord{}) {
			t.Fatalf("chunk complete after %d ticks", i)
		}
		if err := m.Tick(ctx); err != nil {
			t.Fatalf("tick: %v", err)
		}
	}
	after, _ := m.Get(chunk.Coord{})
	if !after.Complete() {
		t.Fatalf("chunk not complete after six ticks: %s", after.Stage)
	}
	if !(after.DungeonChance > before.DungeonChance) {
		t.Fatalf("dungeon chance %v did not exceed %v", after.DungeonChance, before.DungeonChance)
	}
	if _, ok := m.ChunkAt(mgl64.Vec3{-1, 0, -1}); !ok {
		t.Fatalf("chunk (-1,-1) should be active")
	}
}
