// math/heading.go
// Copyright(c) 2025 skyroute contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package math

import (
	"golang.org/x/exp/constraints"
)

///////////////////////////////////////////////////////////////////////////
// headings and directions

// Headings are compass bearings: degrees clockwise from north, reduced to
// [0,360). Both terrain aspect and wind direction are expressed this way.

// Reduces it to [0,360).
func NormalizeHeading[T constraints.Float](h T) T {
	return Mod(Mod(h, 360)+360, 360)
}

// HeadingDifference returns the minimum difference between two
// headings. (i.e., the result is always in the range [0,180].)
func HeadingDifference[T constraints.Float](a T, b T) T {
	var d T
	if a > b {
		d = a - b
	} else {
		d = b - a
	}
	if d > 180 {
		d = 360 - d
	}
	return d
}

// ShortCompass converts a heading expressed in degrees into an abbreviated
// string corresponding to the closest compass direction.
func ShortCompass(heading float64) string {
	h := NormalizeHeading(heading + 22.5) // now [0,45] is north, etc...
	idx := int(h / 45)
	return [...]string{"N", "NE", "E", "SE", "S", "SW", "W", "NW"}[idx]
}
