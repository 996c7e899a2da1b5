// route/geojson.go
// Copyright(c) 2025 skyroute contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package route

import (
	"encoding/json"
	"io"

	"github.com/mmp/skyroute/grid"
	"github.com/mmp/skyroute/util"
)

type geoJSONFeature struct {
	Type       string          `json:"type"`
	Properties map[string]any  `json:"properties"`
	Geometry   geoJSONGeometry `json:"geometry"`
}

type geoJSONGeometry struct {
	Type        string      `json:"type"`
	Coordinates [][]float64 `json:"coordinates"`
}

// WriteGeoJSON writes the route as a GeoJSON LineString feature, in the
// same coordinate reference as the input rasters.
func WriteGeoJSON(w io.Writer, r Route, properties map[string]any) error {
	return writeFeature(w, util.MapSlice(r, func(p grid.Point) []float64 {
		return []float64{p[0], p[1]}
	}), properties)
}

// WriteGeoJSON3 writes a draped route with per-vertex heights.
func WriteGeoJSON3(w io.Writer, r Route3, properties map[string]any) error {
	return writeFeature(w, util.MapSlice(r, func(v [3]float64) []float64 {
		return []float64{v[0], v[1], v[2]}
	}), properties)
}

func writeFeature(w io.Writer, coords [][]float64, properties map[string]any) error {
	if properties == nil {
		properties = make(map[string]any)
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(geoJSONFeature{
		Type:       "Feature",
		Properties: properties,
		Geometry:   geoJSONGeometry{Type: "LineString", Coordinates: coords},
	})
}
