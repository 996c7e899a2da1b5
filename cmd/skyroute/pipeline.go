// cmd/skyroute/pipeline.go
// Copyright(c) 2025 skyroute contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package main

import (
	"context"
	"fmt"
	"os"

	"github.com/mmp/skyroute/cost"
	"github.com/mmp/skyroute/drape"
	"github.com/mmp/skyroute/grid"
	"github.com/mmp/skyroute/log"
	"github.com/mmp/skyroute/obstacle"
	"github.com/mmp/skyroute/route"
	"github.com/mmp/skyroute/store"
	"github.com/mmp/skyroute/wx"
)

type planConfig struct {
	ElevationFile, CanopyFile, ObstacleFile string

	Start, End grid.Point

	BuildingPenalty   float64
	VegetationPenalty float64
	BufferDistance    float64
	MaxRange          float64

	Altitude   float64
	MaxSpacing float64
	Drape      bool

	WeatherAPIKey  string
	WeatherLatLong string

	// Rasters, when set, resolves raster inputs that name no local file
	// as objects in the artifact store.
	Rasters *store.RasterCache
}

type planResult struct {
	Surface *cost.Surface
	Field   *route.Field
	Route   route.Route
	Route3  route.Route3 // nil when draping was skipped or failed
	Wind    wx.Reading
}

func readRaster(path string) (*grid.Raster[float32], error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r, err := grid.ReadASCII(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return r, nil
}

// loadRaster reads an input raster from the local filesystem; a path
// that names no local file is resolved as a store object when a store is
// configured.
func loadRaster(path string, rasters *store.RasterCache) (*grid.Raster[float32], error) {
	if _, err := os.Stat(path); err == nil || rasters == nil {
		return readRaster(path)
	}
	return rasters.Raster(path)
}

func readObstacles(path string) ([]obstacle.Polygon, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	polys, err := obstacle.ReadGeoJSON(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return polys, nil
}

// plan runs the full pipeline: load layers, fetch wind, build the cost
// surface, solve, validate (falling back to an isotropic solve when the
// first answer degenerates), and optionally drape to 3D.
func plan(ctx context.Context, cfg planConfig, lg *log.Logger) (*planResult, error) {
	elev, err := loadRaster(cfg.ElevationFile, cfg.Rasters)
	if err != nil {
		return nil, err
	}
	lg.Info("elevation loaded", "geometry", elev.Geometry.String())

	var canopy *grid.Raster[float32]
	if cfg.CanopyFile != "" {
		if canopy, err = loadRaster(cfg.CanopyFile, cfg.Rasters); err != nil {
			return nil, err
		}
	}

	var obstacles []obstacle.Polygon
	if cfg.ObstacleFile != "" {
		if obstacles, err = readObstacles(cfg.ObstacleFile); err != nil {
			return nil, err
		}
		lg.Info("obstacles loaded", "count", len(obstacles))
	}

	var wind wx.Reading
	if cfg.WeatherLatLong != "" {
		ll, err := grid.ParsePoint(cfg.WeatherLatLong)
		if err != nil {
			return nil, fmt.Errorf("-wxlatlong: %w", err)
		}
		wind = wx.NewClient(cfg.WeatherAPIKey, lg).CurrentWind(ctx, ll[0], ll[1])
		lg.Info("wind", "reading", wind.String())
	}

	params := cost.Params{
		Wind:              wind,
		BuildingPenalty:   cfg.BuildingPenalty,
		VegetationPenalty: cfg.VegetationPenalty,
		BufferDistance:    cfg.BufferDistance,
	}
	surface, err := cost.Build(elev, canopy, obstacles, params, lg)
	if err != nil {
		return nil, err
	}

	var ec route.EdgeCost = route.Isotropic{}
	if !wind.IsCalm() {
		ec = route.AnisotropicWind{Wind: wind}
	}
	r, field, err := route.Solve(surface, cfg.Start, cfg.End, ec)
	if err != nil {
		return nil, err
	}

	// The fallback drops the wind layer entirely: calm cost surface,
	// direction-neutral edges.
	solveIsotropic := func() (route.Route, error) {
		calm := params
		calm.Wind = wx.Reading{}
		s, err := cost.Build(elev, canopy, obstacles, calm, lg)
		if err != nil {
			return nil, err
		}
		r, f, err := route.Solve(s, cfg.Start, cfg.End, route.Isotropic{})
		if err == nil {
			surface, field = s, f
		}
		return r, err
	}
	if r, err = route.ValidateAndRetry(r, solveIsotropic, cfg.MaxRange, lg); err != nil {
		return nil, err
	}

	result := &planResult{
		Surface: surface,
		Field:   field,
		Route:   r,
		Wind:    wind,
	}

	if cfg.Drape {
		spacing := cfg.MaxSpacing
		if spacing == 0 {
			spacing = elev.CellSize
		}
		r3, err := drape.Drape(r, elev, cfg.Altitude, drape.Bilinear{MaxSpacing: spacing})
		if err != nil {
			// The 2D route is still good; deliver it without the 3D view.
			lg.Warnf("draping failed: %v", err)
		} else {
			result.Route3 = r3
		}
	}

	return result, nil
}

func writeOutputs(result *planResult, outFile, out3File string) error {
	props := map[string]any{
		"length": result.Route.Length(),
		"wind":   result.Wind.String(),
	}

	f, err := os.Create(outFile)
	if err != nil {
		return err
	}
	if err := route.WriteGeoJSON(f, result.Route, props); err != nil {
		f.Close()
		return fmt.Errorf("%s: %w", outFile, err)
	}
	if err := f.Close(); err != nil {
		return err
	}

	if out3File == "" || result.Route3 == nil {
		return nil
	}
	f3, err := os.Create(out3File)
	if err != nil {
		return err
	}
	if err := route.WriteGeoJSON3(f3, result.Route3, props); err != nil {
		f3.Close()
		return fmt.Errorf("%s: %w", out3File, err)
	}
	return f3.Close()
}
