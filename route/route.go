// route/route.go
// Copyright(c) 2025 skyroute contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

// Package route computes least-cost routes over a cost surface: a
// Dijkstra-style cost-distance search with back-link reconstruction,
// plus the validation and fallback policy applied to its results.
package route

import (
	gomath "math"

	"github.com/mmp/skyroute/grid"
)

// Route is an ordered polyline of map-coordinate vertices from source to
// destination. A Route and the 3D route draped from it are distinct
// artifacts; draping never replaces the 2D route.
type Route []grid.Point

// Length returns the total planar length of the route: the sum of the
// Euclidean lengths of its segments. This is the single authoritative
// length metric; cumulative traversal cost is a different unit entirely
// and must not be conflated with it.
func (r Route) Length() float64 {
	var sum float64
	for i := 1; i < len(r); i++ {
		dx := r[i][0] - r[i-1][0]
		dy := r[i][1] - r[i-1][1]
		sum += gomath.Sqrt(dx*dx + dy*dy)
	}
	return sum
}

// Route3 is a route with a height coordinate per vertex, produced by
// draping a Route onto a flight surface.
type Route3 [][3]float64
