// Package mathutil holds the small numeric helpers shared by the generation
// stages.
package mathutil

import "golang.org/x/exp/constraints"

// Clamp limits v to [lo, hi].
func Clamp[T constraints.Ordered](v, lo, hi T) T {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Lerp interpolates between a and b.
func Lerp[T constraints.Float](a, b, t T) T {
	return a + t*(b-a)
}

// Closeness is 1 - |v - optimum|, floored at zero.
func Closeness[T constraints.Float](v, optimum T) T {
	d := v - optimum
	if d < 0 {
		d = -d
	}
	return max(0, 1-d)
}
