package world

import (
	"sort"

	"worldforge/internal/chunk"
)

// desiredSet returns the LOD every chunk around center should have, using
// square rings. Overlapping rings resolve to the more detailed LOD.
func desiredSet(center chunk.Coord, lods chunk.LODTable) map[chunk.Coord]chunk.LOD {
	r := lods.MaxDistance()
	out := make(map[chunk.Coord]chunk.LOD, (2*r+1)*(2*r+1))
	for dz := -r; dz <= r; dz++ {
		for dx := -r; dx <= r; dx++ {
			c := chunk.Coord{X: center.X + dx, Z: center.Z + dz}
			if lod, ok := lods.ForDistance(center.Chebyshev(c)); ok {
				out[c] = lod
			}
		}
	}
	return out
}

// byDistance orders coordinates nearest first, ties broken row by row.
func byDistance(center chunk.Coord, coords []chunk.Coord) {
	sort.Slice(coords, func(i, j int) bool {
		di, dj := center.Distance(coords[i]), center.Distance(coords[j])
		if di != dj {
			return di < dj
		}
		return coords[i].Less(coords[j])
	})
}
