// obstacle/obstacle.go
// Copyright(c) 2025 skyroute contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

// Package obstacle rasterizes obstacle polygons (buildings, restricted
// zones) into binary occupancy masks on a given grid geometry.
package obstacle

import (
	gomath "math"

	"github.com/mmp/skyroute/grid"
)

// Polygon is a planar polygon in map coordinates. The first ring is the
// exterior boundary; any further rings are holes. Rings need not be
// explicitly closed: an edge from the last vertex back to the first is
// implied.
type Polygon struct {
	Rings [][]grid.Point
}

// Contains reports whether the point is inside the polygon, using the
// even-odd rule across all rings so that holes are excluded.
func (p Polygon) Contains(pt grid.Point) bool {
	inside := false
	for _, ring := range p.Rings {
		n := len(ring)
		for i := 0; i < n; i++ {
			a, b := ring[i], ring[(i+1)%n]
			if (a[1] > pt[1]) != (b[1] > pt[1]) {
				xCross := a[0] + (pt[1]-a[1])/(b[1]-a[1])*(b[0]-a[0])
				if pt[0] < xCross {
					inside = !inside
				}
			}
		}
	}
	return inside
}

// Distance returns the distance from the point to the nearest polygon
// boundary; it does not consider containment, so interior points get the
// distance to the nearest edge, not zero.
func (p Polygon) Distance(pt grid.Point) float64 {
	d := gomath.Inf(1)
	for _, ring := range p.Rings {
		n := len(ring)
		for i := 0; i < n; i++ {
			d = gomath.Min(d, segmentDistance(pt, ring[i], ring[(i+1)%n]))
		}
	}
	return d
}

func segmentDistance(p, a, b grid.Point) float64 {
	ab := [2]float64{b[0] - a[0], b[1] - a[1]}
	ap := [2]float64{p[0] - a[0], p[1] - a[1]}

	lenSq := ab[0]*ab[0] + ab[1]*ab[1]
	t := 0.0
	if lenSq > 0 {
		t = gomath.Min(gomath.Max((ap[0]*ab[0]+ap[1]*ab[1])/lenSq, 0), 1)
	}

	dx := p[0] - (a[0] + t*ab[0])
	dy := p[1] - (a[1] + t*ab[1])
	return gomath.Sqrt(dx*dx + dy*dy)
}

func (p Polygon) bounds() (lo, hi grid.Point) {
	lo = grid.Point{gomath.Inf(1), gomath.Inf(1)}
	hi = grid.Point{gomath.Inf(-1), gomath.Inf(-1)}
	for _, ring := range p.Rings {
		for _, v := range ring {
			lo[0], lo[1] = gomath.Min(lo[0], v[0]), gomath.Min(lo[1], v[1])
			hi[0], hi[1] = gomath.Max(hi[0], v[0]), gomath.Max(hi[1], v[1])
		}
	}
	return
}

// Rasterize marks every cell of the given geometry whose center lies
// inside one of the polygons, or within buffer map units of a polygon
// boundary when buffer > 0 (the polygons are effectively expanded outward
// before rasterizing). Covered cells are 1, all others 0.
func Rasterize(polys []Polygon, g grid.Geometry, buffer float64) *grid.Raster[uint8] {
	mask := grid.New[uint8](g, 255)
	buffer = gomath.Max(buffer, 0)

	for _, poly := range polys {
		if len(poly.Rings) == 0 {
			continue
		}

		lo, hi := poly.bounds()
		x0, y0, _ := clampedCell(g, grid.Point{lo[0] - buffer, hi[1] + buffer})
		x1, y1, _ := clampedCell(g, grid.Point{hi[0] + buffer, lo[1] - buffer})

		for y := y0; y <= y1; y++ {
			for x := x0; x <= x1; x++ {
				if mask.At(x, y) != 0 {
					continue
				}
				c := g.CellCenter(x, y)
				if poly.Contains(c) || (buffer > 0 && poly.Distance(c) <= buffer) {
					mask.Set(x, y, 1)
				}
			}
		}
	}
	return mask
}

// clampedCell maps a point to grid indices, clamping points beyond the
// extent to the nearest edge cell.
func clampedCell(g grid.Geometry, p grid.Point) (int, int, bool) {
	fx := (p[0] - g.Origin[0]) / g.CellSize
	fy := (p[1] - g.Origin[1]) / g.CellSize
	x := int(gomath.Floor(fx))
	y := g.Height - 1 - int(gomath.Floor(fy))
	cx := min(max(x, 0), g.Width-1)
	cy := min(max(y, 0), g.Height-1)
	return cx, cy, cx == x && cy == y
}
