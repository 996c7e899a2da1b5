// obstacle/geojson.go
// Copyright(c) 2025 skyroute contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package obstacle

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"

	"github.com/mmp/skyroute/grid"
)

// ReadGeoJSON extracts obstacle polygons from a GeoJSON document: a
// FeatureCollection, a single Feature, or a bare geometry. Polygon and
// MultiPolygon geometries are collected; other geometry types are
// ignored. Coordinates must be in the same reference system as the
// rasters (no reprojection happens here).
func ReadGeoJSON(r io.Reader) ([]Polygon, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	var doc struct {
		Type        string            `json:"type"`
		Features    []json.RawMessage `json:"features"`
		Geometry    json.RawMessage   `json:"geometry"`
		Coordinates json.RawMessage   `json:"coordinates"`
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("GeoJSON: %w", err)
	}

	switch doc.Type {
	case "FeatureCollection":
		var polys []Polygon
		for i, f := range doc.Features {
			p, err := ReadGeoJSON(bytes.NewReader(f))
			if err != nil {
				return nil, fmt.Errorf("feature %d: %w", i, err)
			}
			polys = append(polys, p...)
		}
		return polys, nil

	case "Feature":
		if doc.Geometry == nil {
			return nil, nil
		}
		return ReadGeoJSON(bytes.NewReader(doc.Geometry))

	case "Polygon":
		p, err := parsePolygon(doc.Coordinates)
		if err != nil {
			return nil, err
		}
		return []Polygon{p}, nil

	case "MultiPolygon":
		var multi [][][][2]float64
		if err := json.Unmarshal(doc.Coordinates, &multi); err != nil {
			return nil, fmt.Errorf("MultiPolygon coordinates: %w", err)
		}
		var polys []Polygon
		for _, rings := range multi {
			polys = append(polys, makePolygon(rings))
		}
		return polys, nil

	case "Point", "MultiPoint", "LineString", "MultiLineString", "GeometryCollection":
		return nil, nil

	default:
		return nil, fmt.Errorf("unsupported GeoJSON type %q", doc.Type)
	}
}

func parsePolygon(coords json.RawMessage) (Polygon, error) {
	var rings [][][2]float64
	if err := json.Unmarshal(coords, &rings); err != nil {
		return Polygon{}, fmt.Errorf("Polygon coordinates: %w", err)
	}
	return makePolygon(rings), nil
}

func makePolygon(rings [][][2]float64) Polygon {
	var p Polygon
	for _, ring := range rings {
		pts := make([]grid.Point, len(ring))
		for i, c := range ring {
			pts[i] = grid.Point{c[0], c[1]}
		}
		p.Rings = append(p.Rings, pts)
	}
	return p
}
