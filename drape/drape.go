// drape/drape.go
// Copyright(c) 2025 skyroute contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

// Package drape projects a planar route onto a height surface to produce
// elevation-aware 3D vertices. Draping is a best-effort enrichment: when
// it fails, the 2D route is still the valid result, so callers report
// drape errors as warnings rather than failing the computation.
package drape

import (
	"fmt"
	gomath "math"

	"github.com/mmp/skyroute/grid"
	"github.com/mmp/skyroute/route"
)

// Draper assigns a height to each vertex of a route by sampling a height
// surface. It is the pluggable 3D-interpolation primitive; Bilinear is
// the native implementation.
type Draper interface {
	Drape(r route.Route, surface *grid.Raster[float32]) (route.Route3, error)
}

// FlightSurface lifts the ground elevation by a uniform altitude offset;
// an offset of 0 means hugging the ground. NoData cells stay NoData.
func FlightSurface(elev *grid.Raster[float32], altitude float64) *grid.Raster[float32] {
	s := elev.Clone()
	for i, v := range s.Values {
		if !s.IsNoData(v) {
			s.Values[i] = v + float32(altitude)
		}
	}
	return s
}

// Drape samples the flight surface (elevation plus altitude) along the
// route and returns the resulting 3D route.
func Drape(r route.Route, elev *grid.Raster[float32], altitude float64, d Draper) (route.Route3, error) {
	return d.Drape(r, FlightSurface(elev, altitude))
}

// Bilinear drapes a route by bilinear interpolation of the surface at
// each vertex. When MaxSpacing > 0, segments longer than it are
// densified with evenly spaced intermediate samples, so the 3D route
// follows the surface between the original vertices too.
type Bilinear struct {
	MaxSpacing float64
}

func (b Bilinear) Drape(r route.Route, surface *grid.Raster[float32]) (route.Route3, error) {
	var out route.Route3

	sample := func(p grid.Point) error {
		z, ok := surface.Bilinear(p)
		if !ok {
			return fmt.Errorf("drape: no height at (%g, %g)", p[0], p[1])
		}
		out = append(out, [3]float64{p[0], p[1], z})
		return nil
	}

	for i, v := range r {
		if i > 0 && b.MaxSpacing > 0 {
			prev := r[i-1]
			dx, dy := v[0]-prev[0], v[1]-prev[1]
			length := gomath.Sqrt(dx*dx + dy*dy)
			for n := 1; float64(n)*b.MaxSpacing < length; n++ {
				t := float64(n) * b.MaxSpacing / length
				if err := sample(grid.Point{prev[0] + t*dx, prev[1] + t*dy}); err != nil {
					return nil, err
				}
			}
		}
		if err := sample(v); err != nil {
			return nil, err
		}
	}
	return out, nil
}
