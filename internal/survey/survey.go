// Package survey generates a block of chunks outside the live manager,
// indexes their summaries and renders them as text.
package survey

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"worldforge/internal/chunk"
)

// Advancer is satisfied by the pipeline dispatcher.
type Advancer interface {
	AdvanceAll(ctx context.Context, chunks []*chunk.Chunk) error
}

// Area is a square of chunks around Center.
type Area struct {
	Center chunk.Coord
	Radius int
	LOD    chunk.LOD
}

func (a Area) Coords() []chunk.Coord {
	side := 2*a.Radius + 1
	coords := make([]chunk.Coord, 0, side*side)
	for dz := -a.Radius; dz <= a.Radius; dz++ {
		for dx := -a.Radius; dx <= a.Radius; dx++ {
			coords = append(coords, chunk.Coord{X: a.Center.X + dx, Z: a.Center.Z + dz})
		}
	}
	return coords
}

// Generate runs every chunk of the area to Complete in batches of batch
// chunks and returns them in row-major order.
func Generate(ctx context.Context, adv Advancer, lods chunk.LODTable, area Area, batch int) ([]*chunk.Chunk, error) {
	if area.Radius < 0 {
		return nil, fmt.Errorf("survey: negative radius %d", area.Radius)
	}
	if batch <= 0 {
		batch = 64
	}
	res := lods.Resolution(area.LOD)
	coords := area.Coords()
	chunks := make([]*chunk.Chunk, len(coords))
	for i, coord := range coords {
		chunks[i] = chunk.New(coord, area.LOD, res)
	}

	for start := 0; start < len(chunks); start += batch {
		group := chunks[start:min(start+batch, len(chunks))]
		for !group[0].Complete() {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			if err := adv.AdvanceAll(ctx, group); err != nil {
				return nil, err
			}
		}
	}
	sort.Slice(chunks, func(i, j int) bool { return chunks[i].Coord.Less(chunks[j].Coord) })
	return chunks, nil
}

// BiomeMap renders each chunk as cells x cells glyphs sampled from its biome
// layer. Settlements replace the centre glyph with their tier digit and
// dungeons with 'D'. Rows run north (low z) to south.
func BiomeMap(chunks []*chunk.Chunk, cells int) string {
	if len(chunks) == 0 {
		return ""
	}
	if cells <= 0 {
		cells = 1
	}
	byCoord := make(map[chunk.Coord]*chunk.Chunk, len(chunks))
	minX, maxX := chunks[0].Coord.X, chunks[0].Coord.X
	minZ, maxZ := chunks[0].Coord.Z, chunks[0].Coord.Z
	for _, c := range chunks {
		byCoord[c.Coord] = c
		minX, maxX = min(minX, c.Coord.X), max(maxX, c.Coord.X)
		minZ, maxZ = min(minZ, c.Coord.Z), max(maxZ, c.Coord.Z)
	}

	var b strings.Builder
	for cz := minZ; cz <= maxZ; cz++ {
		for row := 0; row < cells; row++ {
			for cx := minX; cx <= maxX; cx++ {
				c, ok := byCoord[chunk.Coord{X: cx, Z: cz}]
				for col := 0; col < cells; col++ {
					if !ok || !c.Complete() {
						b.WriteByte(' ')
						continue
					}
					b.WriteByte(glyph(c, col, row, cells))
				}
			}
			b.WriteByte('\n')
		}
	}
	return b.String()
}

func glyph(c *chunk.Chunk, col, row, cells int) byte {
	mid := cells / 2
	if col == mid && row == mid {
		if c.HasSettlement {
			return '0' + c.SettlementSize
		}
		if c.HasDungeon {
			return 'D'
		}
	}
	x := sampleIndex(col, cells, c.Resolution)
	z := sampleIndex(row, cells, c.Resolution)
	return c.Biome[c.Index(x, z)].Glyph()
}

func sampleIndex(cell, cells, res int) int {
	if cells == 1 {
		return res / 2
	}
	return cell * (res - 1) / (cells - 1)
}

// Legend describes the glyphs used by BiomeMap.
func Legend() string {
	var b strings.Builder
	for i := 0; i < chunk.BiomeCount; i++ {
		id := chunk.BiomeID(i)
		fmt.Fprintf(&b, "%c %s\n", id.Glyph(), id)
	}
	b.WriteString("1-5 settlement tier\nD dungeon\n")
	return b.String()
}
