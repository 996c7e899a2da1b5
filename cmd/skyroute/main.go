// cmd/skyroute/main.go
// Copyright(c) 2025 skyroute contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

// skyroute plans a least-effort aerial route between two map points:
// it fuses terrain, wind, vegetation, and obstacle layers into a cost
// surface, runs a cost-distance search over it, and drapes the result
// to a 3D flight path at a fixed altitude above ground.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/mmp/skyroute/grid"
	"github.com/mmp/skyroute/log"
	"github.com/mmp/skyroute/store"
	"golang.org/x/sync/errgroup"
)

var (
	elevFile      = flag.String("elevation", "", "Elevation raster (ESRI ASCII grid); required")
	canopyFile    = flag.String("canopy", "", "Canopy surface raster (ESRI ASCII grid), co-registered with elevation")
	obstacleFile  = flag.String("obstacles", "", "Obstacle polygons (GeoJSON, map coordinates)")
	startArg      = flag.String("start", "", "Start point as \"x, y\" in map coordinates; required")
	endArg        = flag.String("end", "", "End point as \"x, y\" in map coordinates; required")
	penalty       = flag.Float64("penalty", 0, "Obstacle cell cost multiplier (0 selects the default)")
	vegPenalty    = flag.Float64("vegpenalty", 0, "Cost increase per map unit of canopy height")
	buffer        = flag.Float64("buffer", 0, "Outward obstacle buffer distance in map units")
	maxRange      = flag.Float64("maxrange", 0, "Maximum allowed route length in map units (0 disables the check)")
	altitude      = flag.Float64("altitude", 120, "Flight altitude above ground in elevation units")
	maxSpacing    = flag.Float64("spacing", 0, "Max 3D vertex spacing in map units when draping (0 uses the cell size)")
	owmKey        = flag.String("owmkey", "", "OpenWeatherMap API key (default $SKYROUTE_OWM_KEY)")
	wxLatLong     = flag.String("wxlatlong", "", "Weather query point as \"lat, long\" (empty skips the wind layer)")
	outFile       = flag.String("out", "route.geojson", "Output path for the 2D route GeoJSON")
	out3File      = flag.String("out3", "", "Output path for the draped 3D route GeoJSON (empty skips draping)")
	storeKind     = flag.String("store", "", "Artifact store: local, gcs, or s3; enables store raster inputs and artifact upload")
	storeLocation = flag.String("storeloc", "", "Store root directory (local) or bucket name (gcs, s3)")
	runName       = flag.String("name", "route", "Run name; prefixes stored artifact paths")
	logLevel      = flag.String("loglevel", "info", "Log level: debug, info, warn, error")
	logDir        = flag.String("logdir", "", "Log directory (default: Skyroute under the user config directory)")
)

func main() {
	flag.Parse()

	usage := func(msg string) {
		if msg != "" {
			fmt.Fprintf(os.Stderr, "skyroute: %s\n", msg)
		}
		fmt.Fprintf(os.Stderr, "usage: skyroute [flags]\nwhere [flags] may be:\n")
		flag.PrintDefaults()
		os.Exit(1)
	}

	if *elevFile == "" {
		usage("-elevation is required")
	}
	if *startArg == "" || *endArg == "" {
		usage("-start and -end are required")
	}

	lg := log.New(*logLevel, *logDir)

	start, err := grid.ParsePoint(*startArg)
	if err != nil {
		usage(fmt.Sprintf("-start: %v", err))
	}
	end, err := grid.ParsePoint(*endArg)
	if err != nil {
		usage(fmt.Sprintf("-end: %v", err))
	}

	apiKey := *owmKey
	if apiKey == "" {
		apiKey = os.Getenv("SKYROUTE_OWM_KEY")
	}

	ctx := context.Background()

	var backend store.Backend
	if *storeKind != "" {
		if *storeLocation == "" {
			usage("-storeloc is required with -store")
		}
		var err error
		if backend, err = makeBackend(ctx, *storeKind, *storeLocation); err != nil {
			lg.Errorf("store: %v", err)
			fmt.Fprintf(os.Stderr, "skyroute: %v\n", err)
			os.Exit(1)
		}
		defer backend.Close()
	}

	var rasters *store.RasterCache
	if backend != nil {
		rasters = store.MakeRasterCache(backend, 16, time.Hour)
	}

	result, err := plan(ctx, planConfig{
		ElevationFile:     *elevFile,
		CanopyFile:        *canopyFile,
		ObstacleFile:      *obstacleFile,
		Start:             start,
		End:               end,
		BuildingPenalty:   *penalty,
		VegetationPenalty: *vegPenalty,
		BufferDistance:    *buffer,
		MaxRange:          *maxRange,
		Altitude:          *altitude,
		MaxSpacing:        *maxSpacing,
		WeatherAPIKey:     apiKey,
		WeatherLatLong:    *wxLatLong,
		Drape:             *out3File != "",
		Rasters:           rasters,
	}, lg)
	if err != nil {
		lg.Errorf("planning failed: %v", err)
		fmt.Fprintf(os.Stderr, "skyroute: %v\n", err)
		os.Exit(1)
	}

	if err := writeOutputs(result, *outFile, *out3File); err != nil {
		lg.Errorf("writing outputs: %v", err)
		fmt.Fprintf(os.Stderr, "skyroute: %v\n", err)
		os.Exit(1)
	}
	lg.Info("route written", "path", *outFile, "length", result.Route.Length(),
		"vertices", len(result.Route))

	if backend != nil {
		if err := uploadArtifacts(result, backend, *runName, lg); err != nil {
			lg.Errorf("uploading artifacts: %v", err)
			fmt.Fprintf(os.Stderr, "skyroute: upload: %v\n", err)
			os.Exit(1)
		}
	}
}

func makeBackend(ctx context.Context, kind, location string) (store.Backend, error) {
	switch kind {
	case "local":
		return store.MakeLocalBackend(location)
	case "gcs":
		return store.MakeGCSBackend(ctx, location)
	case "s3":
		return store.MakeS3Backend(ctx, location)
	default:
		return nil, fmt.Errorf("%s: unknown store (want local, gcs, or s3)", kind)
	}
}

// uploadArtifacts stores the run's layers and routes concurrently as
// compressed objects.
func uploadArtifacts(result *planResult, backend store.Backend, name string,
	lg *log.Logger) error {
	var eg errgroup.Group
	put := func(path string, object any) {
		eg.Go(func() error {
			n, err := backend.StoreObject(path, object)
			if err != nil {
				return fmt.Errorf("%s: %w", path, err)
			}
			lg.Info("stored artifact", "path", path, "bytes", n)
			return nil
		})
	}

	put(name+"/cost.bin", result.Surface.Cost)
	put(name+"/field.bin", result.Field)
	put(name+"/route.bin", result.Route)
	if result.Route3 != nil {
		put(name+"/route3.bin", result.Route3)
	}

	return eg.Wait()
}
