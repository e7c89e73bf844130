package survey

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	"worldforge/internal/chunk"
	"worldforge/internal/config"
	"worldforge/internal/pipeline"
)

func generateArea(t *testing.T, radius int) []*chunk.Chunk {
	t.Helper()
	cfg := config.Default()
	cfg.World.BaseResolution = 32
	lods, err := chunk.NewLODTable(cfg.World.BaseResolution, cfg.World.ViewDistances)
	if err != nil {
		t.Fatalf("lods: %v", err)
	}
	area := Area{Center: chunk.Coord{X: 3, Z: -2}, Radius: radius, LOD: chunk.LODHigh}
	chunks, err := Generate(context.Background(), pipeline.New(cfg, nil), lods, area, 7)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	return chunks
}

func TestGenerateArea(t *testing.T) {
	chunks := generateArea(t, 2)
	if len(chunks) != 25 {
		t.Fatalf("expected 25 chunks, got %d", len(chunks))
	}
	for i, c := range chunks {
		if !c.Complete() {
			t.Fatalf("chunk %v not complete", c.Coord)
		}
		if c.Resolution != 16 {
			t.Fatalf("expected high LOD resolution 16, got %d", c.Resolution)
		}
		if i > 0 && !chunks[i-1].Coord.Less(c.Coord) {
			t.Fatalf("chunks not in row-major order at %d", i)
		}
	}
	if chunks[0].Coord != (chunk.Coord{X: 1, Z: -4}) {
		t.Fatalf("unexpected first chunk %v", chunks[0].Coord)
	}
}

func TestGenerateRejectsNegativeRadius(t *testing.T) {
	cfg := config.Default()
	lods, _ := chunk.NewLODTable(cfg.World.BaseResolution, cfg.World.ViewDistances)
	if _, err := Generate(context.Background(), pipeline.New(cfg, nil), lods, Area{Radius: -1}, 0); err == nil {
		t.Fatalf("expected error")
	}
}

func TestIndexRecordsSummaries(t *testing.T) {
	ctx := context.Background()
	chunks := generateArea(t, 2)

	ix, err := Open(filepath.Join(t.TempDir(), "db", "survey.db"))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer ix.Close()

	if err := ix.Record(ctx, chunks...); err != nil {
		t.Fatalf("record: %v", err)
	}
	// Recording again replaces rows instead of duplicating them.
	if err := ix.Record(ctx, chunks[:5]...); err != nil {
		t.Fatalf("record again: %v", err)
	}

	totals, err := ix.Totals(ctx)
	if err != nil {
		t.Fatalf("totals: %v", err)
	}
	var want Totals
	want.Chunks = len(chunks)
	for _, c := range chunks {
		if c.HasSettlement {
			want.Settlements++
		}
		if c.HasDungeon {
			want.Dungeons++
		}
		if c.HasRiver {
			want.Rivers++
		}
		if c.HasRoad {
			want.Roads++
		}
		want.POIs += c.POIs.Len()
		want.Entities += c.Entities.Len()
	}
	if totals != want {
		t.Fatalf("expected totals %+v, got %+v", want, totals)
	}

	counts, err := ix.BiomeCounts(ctx)
	if err != nil {
		t.Fatalf("biome counts: %v", err)
	}
	sum := 0
	for _, n := range counts {
		sum += n
	}
	if sum != len(chunks) {
		t.Fatalf("biome counts cover %d chunks, expected %d", sum, len(chunks))
	}

	settlements, err := ix.Settlements(ctx, 1)
	if err != nil {
		t.Fatalf("settlements: %v", err)
	}
	if len(settlements) != want.Settlements {
		t.Fatalf("expected %d settlements, got %d", want.Settlements, len(settlements))
	}
	for i := 1; i < len(settlements); i++ {
		if settlements[i].Size > settlements[i-1].Size {
			t.Fatalf("settlements not ordered by size")
		}
	}
}

func TestIndexRejectsIncompleteChunks(t *testing.T) {
	ix, err := Open(filepath.Join(t.TempDir(), "survey.db"))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer ix.Close()
	if err := ix.Record(context.Background(), chunk.New(chunk.Coord{}, chunk.LODFull, 16)); err == nil {
		t.Fatalf("expected error for an incomplete chunk")
	}
	totals, err := ix.Totals(context.Background())
	if err != nil {
		t.Fatalf("totals: %v", err)
	}
	if totals.Chunks != 0 {
		t.Fatalf("failed record must roll back, got %d chunks", totals.Chunks)
	}
}

func TestIndexMeta(t *testing.T) {
	ctx := context.Background()
	ix, err := Open(filepath.Join(t.TempDir(), "survey.db"))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer ix.Close()

	if _, ok, err := ix.Meta(ctx, "seed"); err != nil || ok {
		t.Fatalf("expected missing key, got ok=%v err=%v", ok, err)
	}
	for _, v := range []string{"1", "42"} {
		if err := ix.SetMeta(ctx, "seed", v); err != nil {
			t.Fatalf("set meta: %v", err)
		}
	}
	v, ok, err := ix.Meta(ctx, "seed")
	if err != nil || !ok || v != "42" {
		t.Fatalf("expected 42, got %q ok=%v err=%v", v, ok, err)
	}
	if _, err := Open(""); err == nil {
		t.Fatalf("expected error for empty path")
	}
}

func TestBiomeMap(t *testing.T) {
	chunks := generateArea(t, 1)
	out := BiomeMap(chunks, 4)
	lines := strings.Split(strings.TrimSuffix(out, "\n"), "\n")
	if len(lines) != 12 {
		t.Fatalf("expected 12 rows, got %d", len(lines))
	}
	for i, line := range lines {
		if len(line) != 12 {
			t.Fatalf("row %d: expected 12 columns, got %d", i, len(line))
		}
		if strings.Contains(line, " ") {
			t.Fatalf("row %d has a gap for a complete chunk: %q", i, line)
		}
	}
	for _, c := range chunks {
		if c.HasSettlement && !strings.ContainsRune(out, rune('0'+c.SettlementSize)) {
			t.Fatalf("settlement tier %d missing from map", c.SettlementSize)
		}
	}
	if BiomeMap(nil, 4) != "" {
		t.Fatalf("empty input should render nothing")
	}
	if !strings.Contains(Legend(), "^ mountain") {
		t.Fatalf("legend missing mountain glyph")
	}
}
