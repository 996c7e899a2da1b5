// cmd/skyroute/pipeline_test.go
// Copyright(c) 2025 skyroute contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	fpath "path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/mmp/skyroute/grid"
	"github.com/mmp/skyroute/store"
)

// writeFlatGrid writes a w x h ASCII grid with every cell at the given
// elevation, cell size 1, origin (0, 0).
func writeFlatGrid(t *testing.T, path string, w, h int, elev float64) {
	t.Helper()

	var sb strings.Builder
	fmt.Fprintf(&sb, "ncols %d\nnrows %d\nxllcorner 0\nyllcorner 0\ncellsize 1\nnodata_value -9999\n", w, h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if x > 0 {
				sb.WriteByte(' ')
			}
			fmt.Fprintf(&sb, "%g", elev)
		}
		sb.WriteByte('\n')
	}
	if err := os.WriteFile(path, []byte(sb.String()), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestPlanEndToEnd(t *testing.T) {
	dir := t.TempDir()
	elevFile := fpath.Join(dir, "elev.asc")
	writeFlatGrid(t, elevFile, 10, 10, 50)

	obstacleFile := fpath.Join(dir, "obstacles.geojson")
	// A block in the middle of the grid; the route must go around it.
	geojson := `{"type": "FeatureCollection", "features": [
		{"type": "Feature", "geometry": {"type": "Polygon",
		 "coordinates": [[[4, 3], [6, 3], [6, 7], [4, 7], [4, 3]]]}}]}`
	if err := os.WriteFile(obstacleFile, []byte(geojson), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg := planConfig{
		ElevationFile: elevFile,
		ObstacleFile:  obstacleFile,
		Start:         grid.Point{0.5, 0.5},
		End:           grid.Point{9.5, 9.5},
		Altitude:      120,
		Drape:         true,
	}
	result, err := plan(context.Background(), cfg, nil)
	if err != nil {
		t.Fatalf("plan: %v", err)
	}

	if len(result.Route) < 2 {
		t.Fatalf("route has %d vertices", len(result.Route))
	}
	first, last := result.Route[0], result.Route[len(result.Route)-1]
	if first != cfg.Start {
		t.Errorf("route starts at %v, want %v", first, cfg.Start)
	}
	if last != cfg.End {
		t.Errorf("route ends at %v, want %v", last, cfg.End)
	}

	if result.Route3 == nil {
		t.Fatal("no draped route")
	}
	for i, v := range result.Route3 {
		if v[2] != 170 { // 50 ground + 120 altitude
			t.Errorf("draped vertex %d at z=%g, want 170", i, v[2])
		}
	}

	// Every 2D vertex must stay out of the obstacle block.
	for _, v := range result.Route {
		if v[0] > 4 && v[0] < 6 && v[1] > 3 && v[1] < 7 {
			t.Errorf("route vertex %v crosses the obstacle", v)
		}
	}
}

func TestPlanStoreRaster(t *testing.T) {
	// The elevation input can name a store object instead of a local
	// file when a store is configured.
	backend, err := store.MakeLocalBackend(t.TempDir())
	if err != nil {
		t.Fatalf("MakeLocalBackend: %v", err)
	}
	defer backend.Close()

	g := grid.Geometry{Width: 8, Height: 8, CellSize: 1}
	elev := grid.New[float32](g, -9999)
	elev.Fill(25)
	if _, err := backend.StoreObject("tiles/elev.bin", elev); err != nil {
		t.Fatalf("StoreObject: %v", err)
	}

	cfg := planConfig{
		ElevationFile: "tiles/elev.bin",
		Start:         grid.Point{0.5, 0.5},
		End:           grid.Point{7.5, 7.5},
		Rasters:       store.MakeRasterCache(backend, 4, time.Minute),
	}
	result, err := plan(context.Background(), cfg, nil)
	if err != nil {
		t.Fatalf("plan: %v", err)
	}
	if len(result.Route) < 2 {
		t.Errorf("route has %d vertices", len(result.Route))
	}

	// Without a store, the same path is a missing local file.
	cfg.Rasters = nil
	if _, err := plan(context.Background(), cfg, nil); err == nil {
		t.Error("plan without a store resolved a store-only path")
	}
}

func TestPlanMaxRange(t *testing.T) {
	dir := t.TempDir()
	elevFile := fpath.Join(dir, "elev.asc")
	writeFlatGrid(t, elevFile, 10, 10, 0)

	cfg := planConfig{
		ElevationFile: elevFile,
		Start:         grid.Point{0.5, 0.5},
		End:           grid.Point{9.5, 9.5},
		MaxRange:      1, // far shorter than any 9-cell diagonal
	}
	if _, err := plan(context.Background(), cfg, nil); err == nil {
		t.Error("plan with an unreachable range limit did not return an error")
	}
}

func TestWriteOutputs(t *testing.T) {
	dir := t.TempDir()
	elevFile := fpath.Join(dir, "elev.asc")
	writeFlatGrid(t, elevFile, 5, 5, 10)

	cfg := planConfig{
		ElevationFile: elevFile,
		Start:         grid.Point{0.5, 0.5},
		End:           grid.Point{4.5, 4.5},
		Altitude:      80,
		Drape:         true,
	}
	result, err := plan(context.Background(), cfg, nil)
	if err != nil {
		t.Fatalf("plan: %v", err)
	}

	out := fpath.Join(dir, "route.geojson")
	out3 := fpath.Join(dir, "route3.geojson")
	if err := writeOutputs(result, out, out3); err != nil {
		t.Fatalf("writeOutputs: %v", err)
	}

	for _, path := range []string{out, out3} {
		data, err := os.ReadFile(path)
		if err != nil {
			t.Fatalf("%s: %v", path, err)
		}
		var doc struct {
			Type     string `json:"type"`
			Geometry struct {
				Type        string      `json:"type"`
				Coordinates [][]float64 `json:"coordinates"`
			} `json:"geometry"`
		}
		if err := json.Unmarshal(data, &doc); err != nil {
			t.Fatalf("%s: %v", path, err)
		}
		if doc.Type != "Feature" || doc.Geometry.Type != "LineString" {
			t.Errorf("%s: got %s/%s, want Feature/LineString", path, doc.Type, doc.Geometry.Type)
		}
		if len(doc.Geometry.Coordinates) < 2 {
			t.Errorf("%s: %d coordinates", path, len(doc.Geometry.Coordinates))
		}
	}
}
