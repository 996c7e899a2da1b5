// cost/cost.go
// Copyright(c) 2025 skyroute contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

// Package cost fuses terrain, wind, vegetation, and obstacle layers into
// a single cost surface: a raster whose cells give the cost per unit
// distance of traversing them.
package cost

import (
	"errors"
	"fmt"
	"runtime"

	"github.com/mmp/skyroute/grid"
	"github.com/mmp/skyroute/log"
	"github.com/mmp/skyroute/math"
	"github.com/mmp/skyroute/obstacle"
	"github.com/mmp/skyroute/terrain"
	"github.com/mmp/skyroute/wx"
	"golang.org/x/sync/errgroup"
)

// DefaultBuildingPenalty is the multiplier applied to obstacle-covered
// cells when none is specified. It is large enough that routes avoid
// obstacles whenever any detour exists, but finite, so the search graph
// stays fully connected: even a destination walled in by obstacles gets a
// (very expensive) route rather than an unreachable verdict.
const DefaultBuildingPenalty = 1000

// NoData marks cost cells with no valid value (NoData source elevation).
// All valid costs are >= 0.6, so a negative sentinel cannot collide.
const NoData = -1

type Params struct {
	Wind              wx.Reading
	BuildingPenalty   float64 // obstacle cell multiplier; 0 selects DefaultBuildingPenalty
	VegetationPenalty float64 // cost increase per map unit of canopy height
	BufferDistance    float64 // outward obstacle expansion in map units
}

// Surface is a built cost surface. It is write-once: after Build returns
// it must not be modified, which is what makes it safe to share with the
// solver and validator.
type Surface struct {
	grid.Geometry
	Cost *grid.Raster[float64]
	Wind wx.Reading
}

var ErrMissingElevation = errors.New("no elevation raster provided")

// EndpointError reports a route endpoint that does not resolve to a
// usable cost cell.
type EndpointError struct {
	Label         string     // "start" or "end"
	Point         grid.Point // map coordinate as given by the user
	OutsideExtent bool       // else: NoData cell
}

func (e EndpointError) Error() string {
	if e.OutsideExtent {
		return fmt.Sprintf("%s point (%g, %g) is outside the grid extent",
			e.Label, e.Point[0], e.Point[1])
	}
	return fmt.Sprintf("%s point (%g, %g) has no data in the cost surface",
		e.Label, e.Point[0], e.Point[1])
}

// Build derives the cost surface from the elevation raster, an optional
// canopy-height surface, and the obstacle polygons. All rasters must be
// co-registered with the elevation grid; mismatches are rejected rather
// than silently misaligned.
//
// The layers multiply together per cell, in a fixed order for
// reproducibility:
//
//  1. slope cost, a step function of the slope in degrees:
//     [0,5) -> 1, [5,15) -> 2, [15,30) -> 4, [30,90] -> 8
//     (boundaries belong to the lower-cost bracket);
//  2. wind penalty, from the angle between the cell's downslope aspect
//     and the wind bearing -- exactly 1 in calm air;
//  3. vegetation penalty, 1 + canopyHeight * VegetationPenalty;
//  4. obstacle penalty, BuildingPenalty on covered cells.
func Build(elev, canopy *grid.Raster[float32], obstacles []obstacle.Polygon,
	p Params, lg *log.Logger) (*Surface, error) {
	if elev == nil {
		return nil, ErrMissingElevation
	}

	penalty := p.BuildingPenalty
	if penalty == 0 {
		penalty = DefaultBuildingPenalty
	}

	slope, aspect := terrain.SlopeAspect(elev)

	var veg *grid.Raster[float32]
	if canopy != nil {
		var err error
		if veg, err = terrain.CanopyHeight(canopy, elev); err != nil {
			return nil, err
		}
	}

	mask := obstacle.Rasterize(obstacles, elev.Geometry, p.BufferDistance)

	s := &Surface{
		Geometry: elev.Geometry,
		Cost:     grid.New[float64](elev.Geometry, NoData),
		Wind:     p.Wind,
	}

	// Per-cell fusion has no cross-cell dependencies, so fan the rows out
	// across the available CPUs.
	var eg errgroup.Group
	nWorkers := runtime.GOMAXPROCS(0)
	rowsPer := max(1, (elev.Height+nWorkers-1)/nWorkers)
	for first := 0; first < elev.Height; first += rowsPer {
		y0, y1 := first, min(first+rowsPer, elev.Height)
		eg.Go(func() error {
			for y := y0; y < y1; y++ {
				for x := 0; x < elev.Width; x++ {
					i := s.Index(x, y)

					sl := slope.Values[i]
					if slope.IsNoData(sl) {
						s.Cost.Values[i] = NoData
						continue
					}

					c := slopeStepCost(sl)
					c *= WindFactor(p.Wind, float64(aspect.Values[i]))
					if veg != nil {
						c *= 1 + float64(veg.Values[i])*p.VegetationPenalty
					}
					if mask.Values[i] != 0 {
						c *= penalty
					}
					s.Cost.Values[i] = c
				}
			}
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	lg.Debugf("cost: built %s surface, wind %s, penalty %g, buffer %g",
		s.Geometry, p.Wind, penalty, p.BufferDistance)
	return s, nil
}

// slopeStepCost reclassifies a slope in degrees into the traversal cost
// brackets. The intervals are half-open ascending, so a cell at exactly
// 5 degrees pays 2, not 1.
func slopeStepCost(deg float32) float64 {
	switch {
	case deg < 5:
		return 1
	case deg < 15:
		return 2
	case deg < 30:
		return 4
	default:
		return 8
	}
}

// WindFactor is the multiplicative wind-exposure penalty for a cell with
// the given downslope aspect. Facing into the wind is most expensive; the
// factor scales with wind speed and is clamped from below at 0.6. Calm
// air gives exactly 1 for any aspect, as do flat cells (no aspect).
func WindFactor(wind wx.Reading, aspect float64) float64 {
	if wind.Speed == 0 {
		return 1
	}

	var diff float64
	if aspect >= 0 {
		diff = math.HeadingDifference(aspect, wind.Bearing)
	}
	return max(0.6, 1+(wind.Speed/15)*(diff/180))
}

// CheckEndpoint verifies that a route endpoint resolves to a cell with a
// finite, valid cost. label ("start", "end") identifies the offender in
// the returned error.
func (s *Surface) CheckEndpoint(p grid.Point, label string) error {
	x, y, ok := s.CellForPoint(p)
	if !ok {
		return EndpointError{Label: label, Point: p, OutsideExtent: true}
	}
	if s.Cost.IsNoData(s.Cost.At(x, y)) {
		return EndpointError{Label: label, Point: p}
	}
	return nil
}
