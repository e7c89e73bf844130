package chunk

import (
	"errors"
	"fmt"
)

// LOD is a resolution tier. Lower values carry more detail.
type LOD uint8

const (
	LODFull LOD = iota
	LODHigh
	LODMedium
	LODLow

	// LODCount is the number of tiers.
	LODCount = int(LODLow) + 1
)

// ErrInvalidLOD is wrapped by every validation failure of the resolution/LOD table.
var ErrInvalidLOD = errors.New("invalid lod table")

var lodNames = [...]string{"full", "high", "medium", "low"}

func (l LOD) String() string {
	if int(l) < len(lodNames) {
		return lodNames[l]
	}
	return fmt.Sprintf("lod(%d)", uint8(l))
}

// ParseLOD accepts the names produced by String.
func ParseLOD(s string) (LOD, error) {
	for i, n := range lodNames {
		if n == s {
			return LOD(i), nil
		}
	}
	return 0, fmt.Errorf("unknown lod %q", s)
}

// LODTable binds every LOD to a resolution and a view-distance ring.
type LODTable struct {
	base      int
	distances [LODCount]int
}

// NewLODTable validates the resolution and ring configuration. Errors wrap
// ErrInvalidLOD.
func NewLODTable(base int, distances []int) (LODTable, error) {
	var t LODTable
	if base <= 0 || base>>(LODCount-1) < 2 {
		return t, fmt.Errorf("%w: base resolution %d leaves fewer than 2 vertices at %s", ErrInvalidLOD, base, LODLow)
	}
	if len(distances) != LODCount {
		return t, fmt.Errorf("%w: expected %d view distances, got %d", ErrInvalidLOD, LODCount, len(distances))
	}
	for i, d := range distances {
		if d < 0 || (i > 0 && d < distances[i-1]) {
			return t, fmt.Errorf("%w: view distances must be non-negative and non-decreasing", ErrInvalidLOD)
		}
		t.distances[i] = d
	}
	t.base = base
	return t, nil
}

// Resolution returns vertices per side for l.
func (t LODTable) Resolution(l LOD) int {
	return t.base >> l
}

func (t LODTable) ViewDistance(l LOD) int {
	return t.distances[l]
}

// MaxDistance is the radius of the outermost ring.
func (t LODTable) MaxDistance() int {
	return t.distances[LODLow]
}

// ForDistance picks the most detailed LOD whose ring contains a chunk at ring
// distance d. The second result is false beyond every ring.
func (t LODTable) ForDistance(d int) (LOD, bool) {
	for l := LODFull; l <= LODLow; l++ {
		if d <= t.distances[l] {
			return l, true
		}
	}
	return LODLow, false
}
