// terrain/terrain.go
// Copyright(c) 2025 skyroute contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

// Package terrain derives per-cell metrics from elevation rasters: slope,
// aspect, and canopy height above ground.
package terrain

import (
	"github.com/mmp/skyroute/grid"
	"github.com/mmp/skyroute/math"
)

// FlatAspect marks cells where the terrain has no downslope direction.
const FlatAspect = -1

const noData = -9999

// SlopeAspect estimates the local gradient of the elevation raster with
// the Horn 3x3 finite-difference stencil and returns the slope (degrees
// above horizontal) and aspect (compass bearing of the downslope
// direction, FlatAspect where the gradient vanishes) rasters.
//
// Boundary cells use a clamped neighborhood: reads past the grid edge
// replicate the nearest valid cell, so every cell gets a defined value.
// Cells with NoData elevation produce NoData slope and aspect; NoData
// neighbors of valid cells are replaced by the center elevation.
func SlopeAspect(elev *grid.Raster[float32]) (slope, aspect *grid.Raster[float32]) {
	slope = grid.New[float32](elev.Geometry, noData)
	aspect = grid.New[float32](elev.Geometry, noData)

	for y := 0; y < elev.Height; y++ {
		for x := 0; x < elev.Width; x++ {
			center := elev.At(x, y)
			if elev.IsNoData(center) {
				slope.Set(x, y, noData)
				aspect.Set(x, y, noData)
				continue
			}

			z := func(dx, dy int) float32 {
				nx := math.Clamp(x+dx, 0, elev.Width-1)
				ny := math.Clamp(y+dy, 0, elev.Height-1)
				if v := elev.At(nx, ny); !elev.IsNoData(v) {
					return v
				}
				return center
			}

			// Row y-1 is the northern neighbor row; x+1 is east.
			zNW, zN, zNE := z(-1, -1), z(0, -1), z(1, -1)
			zW, zE := z(-1, 0), z(1, 0)
			zSW, zS, zSE := z(-1, 1), z(0, 1), z(1, 1)

			cell := float32(elev.CellSize)
			gx := ((zNE + 2*zE + zSE) - (zNW + 2*zW + zSW)) / (8 * cell)
			gy := ((zNW + 2*zN + zNE) - (zSW + 2*zS + zSE)) / (8 * cell)

			rise := math.Sqrt(gx*gx + gy*gy)
			slope.Set(x, y, math.Degrees(math.Atan2(rise, 1)))

			if gx == 0 && gy == 0 {
				aspect.Set(x, y, FlatAspect)
			} else {
				// The gradient points uphill; aspect faces downslope.
				aspect.Set(x, y, math.NormalizeHeading(math.Degrees(math.Atan2(-gx, -gy))))
			}
		}
	}
	return
}

// CanopyHeight returns the per-cell height of the canopy surface above
// ground level, clamped to be non-negative. Cells with no canopy data are
// treated as zero height rather than excluded.
func CanopyHeight(canopy, ground *grid.Raster[float32]) (*grid.Raster[float32], error) {
	if err := grid.CheckRegistration(ground.Geometry, canopy.Geometry); err != nil {
		return nil, err
	}

	h := grid.New[float32](ground.Geometry, noData)
	for i, c := range canopy.Values {
		g := ground.Values[i]
		if canopy.IsNoData(c) || ground.IsNoData(g) {
			h.Values[i] = 0
		} else {
			h.Values[i] = max(0, c-g)
		}
	}
	return h, nil
}
