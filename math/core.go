// math/core.go
// Copyright(c) 2025 skyroute contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package math

import (
	gomath "math"

	"golang.org/x/exp/constraints"
)

// Degrees converts an angle expressed in radians to degrees
func Degrees[T constraints.Float](r T) T {
	return r * 180 / gomath.Pi
}

// A couple of utility functions for evaluating transcendentals follow;
// raster cell values are float32, so it's handy to be able to call these
// directly rather than with all of the casts that are required when using
// the math package.

func Atan2(y, x float32) float32 {
	return float32(gomath.Atan2(float64(y), float64(x)))
}

func Sqrt(a float32) float32 {
	return float32(gomath.Sqrt(float64(a)))
}

func Mod[T constraints.Float](a, b T) T {
	return T(gomath.Mod(float64(a), float64(b)))
}

func Abs[V constraints.Integer | constraints.Float](x V) V {
	if x < 0 {
		return -x
	}
	return x
}

func Clamp[T constraints.Ordered](x T, low T, high T) T {
	if x < low {
		return low
	} else if x > high {
		return high
	}
	return x
}
