package chunk

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Coord identifies a chunk on the infinite horizontal grid.
type Coord struct {
	X int `json:"x"`
	Z int `json:"z"`
}

func (c Coord) String() string {
	return fmt.Sprintf("(%d,%d)", c.X, c.Z)
}

// WorldToCoord returns the chunk containing the horizontal part of pos.
func WorldToCoord(pos mgl64.Vec3, size float64) Coord {
	return Coord{
		X: int(math.Floor(pos.X() / size)),
		Z: int(math.Floor(pos.Z() / size)),
	}
}

// Origin is the world-space corner of the chunk with the smallest x and z.
func (c Coord) Origin(size float64) mgl64.Vec3 {
	return mgl64.Vec3{float64(c.X) * size, 0, float64(c.Z) * size}
}

func (c Coord) Center(size float64) mgl64.Vec3 {
	return mgl64.Vec3{(float64(c.X) + 0.5) * size, 0, (float64(c.Z) + 0.5) * size}
}

// Chebyshev is the ring distance between two chunks.
func (c Coord) Chebyshev(o Coord) int {
	return max(abs(c.X-o.X), abs(c.Z-o.Z))
}

// Distance is the Euclidean distance in chunks.
func (c Coord) Distance(o Coord) float64 {
	dx := float64(c.X - o.X)
	dz := float64(c.Z - o.Z)
	return math.Sqrt(dx*dx + dz*dz)
}

// Less orders coordinates row by row so that batches are processed in a
// reproducible order.
func (c Coord) Less(o Coord) bool {
	if c.Z != o.Z {
		return c.Z < o.Z
	}
	return c.X < o.X
}

// HorizontalDistance ignores the vertical axis.
func HorizontalDistance(a, b mgl64.Vec3) float64 {
	dx := a.X() - b.X()
	dz := a.Z() - b.Z()
	return math.Sqrt(dx*dx + dz*dz)
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
