// Package rng derives per-chunk random streams from stage seeds. Nothing in
// this package keeps global state: every stage call owns its Source.
package rng

import (
	"encoding/binary"

	"github.com/cespare/xxhash/v2"

	"worldforge/internal/chunk"
)

const fallbackState = 0x9e3779b97f4a7c15

// Derive maps a stage seed and a chunk coordinate to a stream seed.
func Derive(stageSeed int64, coord chunk.Coord) uint64 {
	var buf [24]byte
	binary.LittleEndian.PutUint64(buf[0:], uint64(stageSeed))
	binary.LittleEndian.PutUint64(buf[8:], uint64(int64(coord.X)))
	binary.LittleEndian.PutUint64(buf[16:], uint64(int64(coord.Z)))
	return xxhash.Sum64(buf[:])
}

// Source is a small xorshift generator. It is not safe for concurrent use.
type Source struct {
	state uint64
}

func New(seed uint64) *Source {
	if seed == 0 {
		seed = fallbackState
	}
	return &Source{state: seed}
}

// ForChunk is New(Derive(stageSeed, coord)).
func ForChunk(stageSeed int64, coord chunk.Coord) *Source {
	return New(Derive(stageSeed, coord))
}

func (r *Source) Uint64() uint64 {
	r.state ^= r.state << 7
	r.state ^= r.state >> 9
	r.state ^= r.state << 8
	return r.state
}

// Float64 returns a value in [0,1).
func (r *Source) Float64() float64 {
	return float64(r.Uint64()>>11) * (1.0 / (1 << 53))
}

// Intn returns a value in [0,n). It returns 0 for n <= 0.
func (r *Source) Intn(n int) int {
	if n <= 0 {
		return 0
	}
	return int(r.Uint64() % uint64(n))
}

// IntRange returns a value in [lo,hi]. Swapped bounds are reordered.
func (r *Source) IntRange(lo, hi int) int {
	if hi < lo {
		lo, hi = hi, lo
	}
	return lo + r.Intn(hi-lo+1)
}

// Range returns a value in [lo,hi).
func (r *Source) Range(lo, hi float64) float64 {
	return lo + (hi-lo)*r.Float64()
}

// Split derives an independent stream for a named sub-task so that adding
// draws to one sub-task does not shift the others.
func (r *Source) Split(label string) *Source {
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], r.state)
	d := xxhash.New()
	_, _ = d.Write(buf[:])
	_, _ = d.WriteString(label)
	return New(d.Sum64())
}
