// grid/raster.go
// Copyright(c) 2025 skyroute contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package grid

import (
	"fmt"
	gomath "math"

	"golang.org/x/exp/constraints"
)

// Point is an (x, y) map coordinate in the same (projected) coordinate
// reference system as the rasters; x increases eastward and y northward.
type Point [2]float64

// Scalar constrains the cell types that a Raster may hold.
type Scalar interface {
	constraints.Integer | constraints.Float
}

// Geometry describes the placement of a uniform square-celled grid in map
// coordinates. Two rasters are co-registered exactly when their Geometries
// are equal; every multi-raster computation in this module requires that
// and rejects mismatches rather than silently misaligning cells.
type Geometry struct {
	Width, Height int
	CellSize      float64 // map units per cell edge
	Origin        Point   // map coordinate of the lower-left grid corner
}

func (g Geometry) NumCells() int {
	return g.Width * g.Height
}

// Cell (x, y) indices address columns left to right and rows north to
// south: row 0 is the northernmost, matching the storage order of the
// common grid interchange formats.

func (g Geometry) InBounds(x, y int) bool {
	return x >= 0 && x < g.Width && y >= 0 && y < g.Height
}

func (g Geometry) Index(x, y int) int {
	return y*g.Width + x
}

// CellForPoint maps a map coordinate to the cell containing it; ok is
// false if the point is outside the grid extent.
func (g Geometry) CellForPoint(p Point) (x, y int, ok bool) {
	fx := (p[0] - g.Origin[0]) / g.CellSize
	fy := (p[1] - g.Origin[1]) / g.CellSize
	if fx < 0 || fy < 0 {
		return 0, 0, false
	}
	x = int(gomath.Floor(fx))
	y = g.Height - 1 - int(gomath.Floor(fy))
	return x, y, g.InBounds(x, y)
}

// CellCenter returns the map coordinate of the center of cell (x, y).
func (g Geometry) CellCenter(x, y int) Point {
	return Point{
		g.Origin[0] + (float64(x)+0.5)*g.CellSize,
		g.Origin[1] + (float64(g.Height-y)-0.5)*g.CellSize,
	}
}

func (g Geometry) Equal(o Geometry) bool {
	return g.Width == o.Width && g.Height == o.Height &&
		g.CellSize == o.CellSize && g.Origin == o.Origin
}

func (g Geometry) String() string {
	return fmt.Sprintf("%dx%d cell %g origin (%g, %g)", g.Width, g.Height,
		g.CellSize, g.Origin[0], g.Origin[1])
}

// MismatchError reports rasters that do not share a common Geometry.
type MismatchError struct {
	Want, Got Geometry
}

func (e MismatchError) Error() string {
	return fmt.Sprintf("raster geometry mismatch: %s vs %s", e.Want, e.Got)
}

// CheckRegistration verifies that all of the given Geometries are equal to
// the first one.
func CheckRegistration(gs ...Geometry) error {
	for _, g := range gs[1:] {
		if !gs[0].Equal(g) {
			return MismatchError{Want: gs[0], Got: g}
		}
	}
	return nil
}

// Raster is a uniform 2D grid of scalar cell values, stored flat in
// row-major order with row 0 northernmost. Cells equal to NoData carry no
// valid measurement. Rasters are built once and treated as read-only
// afterwards, which is what makes it safe to hand them to concurrent
// consumers.
type Raster[T Scalar] struct {
	Geometry
	NoData T
	Values []T
}

func New[T Scalar](g Geometry, noData T) *Raster[T] {
	return &Raster[T]{
		Geometry: g,
		NoData:   noData,
		Values:   make([]T, g.NumCells()),
	}
}

func (r *Raster[T]) At(x, y int) T {
	return r.Values[r.Index(x, y)]
}

func (r *Raster[T]) Set(x, y int, v T) {
	r.Values[r.Index(x, y)] = v
}

func (r *Raster[T]) IsNoData(v T) bool {
	return v == r.NoData
}

func (r *Raster[T]) Fill(v T) {
	for i := range r.Values {
		r.Values[i] = v
	}
}

func (r *Raster[T]) Clone() *Raster[T] {
	c := *r
	c.Values = make([]T, len(r.Values))
	copy(c.Values, r.Values)
	return &c
}

// Bilinear samples the raster at the given map coordinate, interpolating
// between the four surrounding cell centers; coordinates beyond the
// outermost cell centers are clamped to the edge. ok is false if the point
// is outside the grid extent or any contributing cell is NoData.
func (r *Raster[T]) Bilinear(p Point) (float64, bool) {
	if _, _, ok := r.CellForPoint(p); !ok {
		return 0, false
	}

	fx := (p[0]-r.Origin[0])/r.CellSize - 0.5
	fy := float64(r.Height) - 0.5 - (p[1]-r.Origin[1])/r.CellSize
	fx = gomath.Min(gomath.Max(fx, 0), float64(r.Width-1))
	fy = gomath.Min(gomath.Max(fy, 0), float64(r.Height-1))

	x0, y0 := int(fx), int(fy)
	x1, y1 := min(x0+1, r.Width-1), min(y0+1, r.Height-1)
	dx, dy := fx-float64(x0), fy-float64(y0)

	v00, v10 := r.At(x0, y0), r.At(x1, y0)
	v01, v11 := r.At(x0, y1), r.At(x1, y1)
	if r.IsNoData(v00) || r.IsNoData(v10) || r.IsNoData(v01) || r.IsNoData(v11) {
		return 0, false
	}

	v0 := float64(v00)*(1-dx) + float64(v10)*dx
	v1 := float64(v01)*(1-dx) + float64(v11)*dx
	return v0*(1-dy) + v1*dy, true
}
