// route/validate_test.go
// Copyright(c) 2025 skyroute contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package route

import (
	"bytes"
	"encoding/json"
	"errors"
	gomath "math"
	"testing"

	"github.com/mmp/skyroute/grid"
)

func TestRouteLength(t *testing.T) {
	// Two unit segments at a right angle measure 2, not sqrt(2): length
	// is summed per segment, never taken point-to-point.
	r := Route{{0, 0}, {1, 0}, {1, 1}}
	if got := r.Length(); got != 2.0 {
		t.Errorf("right-angle route length = %v, want 2.0", got)
	}

	if got := (Route{}).Length(); got != 0 {
		t.Errorf("empty route length = %v, want 0", got)
	}
	if got := (Route{{3, 4}}).Length(); got != 0 {
		t.Errorf("single-vertex route length = %v, want 0", got)
	}

	r = Route{{0, 0}, {3, 4}}
	if got := r.Length(); got != 5 {
		t.Errorf("length = %v, want 5", got)
	}
}

func TestValidateAcceptsGoodRoute(t *testing.T) {
	r := Route{{0, 0}, {10, 0}}
	got, err := ValidateAndRetry(r, func() (Route, error) {
		t.Fatalf("fallback should not run for a non-degenerate route")
		return nil, nil
	}, 0, nil)
	if err != nil {
		t.Fatalf("ValidateAndRetry: %v", err)
	}
	if got.Length() != 10 {
		t.Errorf("accepted route length %v, want 10", got.Length())
	}
}

func TestValidateRetriesOnceOnZeroLength(t *testing.T) {
	fallback := Route{{0, 0}, {5, 0}}
	calls := 0
	got, err := ValidateAndRetry(Route{}, func() (Route, error) {
		calls++
		return fallback, nil
	}, 0, nil)
	if err != nil {
		t.Fatalf("ValidateAndRetry: %v", err)
	}
	if calls != 1 {
		t.Errorf("fallback ran %d times, want exactly 1", calls)
	}
	if got.Length() != 5 {
		t.Errorf("fallback route length %v, want 5", got.Length())
	}
}

func TestValidateNoViableRoute(t *testing.T) {
	_, err := ValidateAndRetry(Route{}, func() (Route, error) {
		return Route{{1, 1}}, nil // still zero length
	}, 0, nil)
	var nv NoViableRouteError
	if !errors.As(err, &nv) {
		t.Errorf("got %v, want NoViableRouteError", err)
	}

	// A fallback solve error propagates as-is.
	boom := errors.New("boom")
	_, err = ValidateAndRetry(Route{}, func() (Route, error) { return nil, boom }, 0, nil)
	if !errors.Is(err, boom) {
		t.Errorf("got %v, want fallback error", err)
	}
}

func TestValidateRangeExceeded(t *testing.T) {
	// A 49-cell diagonal: about 69.3 map units against a limit of 10.
	var r Route
	for i := 0; i <= 49; i++ {
		r = append(r, grid.Point{float64(i), float64(i)})
	}

	_, err := ValidateAndRetry(r, nil, 10, nil)
	var re RangeExceededError
	if !errors.As(err, &re) {
		t.Fatalf("got %v, want RangeExceededError", err)
	}
	if gomath.Abs(re.Length-49*gomath.Sqrt2) > 1e-6 {
		t.Errorf("reported length %v, want %v", re.Length, 49*gomath.Sqrt2)
	}
	if re.Limit != 10 {
		t.Errorf("reported limit %v, want 10", re.Limit)
	}

	// maxRange 0 disables the check.
	if _, err := ValidateAndRetry(r, nil, 0, nil); err != nil {
		t.Errorf("no range limit: unexpected error %v", err)
	}
}

func TestWriteGeoJSON(t *testing.T) {
	var buf bytes.Buffer
	r := Route{{1, 2}, {3, 4}, {5, 6}}
	if err := WriteGeoJSON(&buf, r, map[string]any{"name": "flight"}); err != nil {
		t.Fatalf("WriteGeoJSON: %v", err)
	}

	var doc struct {
		Type     string `json:"type"`
		Geometry struct {
			Type        string      `json:"type"`
			Coordinates [][]float64 `json:"coordinates"`
		} `json:"geometry"`
		Properties map[string]any `json:"properties"`
	}
	if err := json.Unmarshal(buf.Bytes(), &doc); err != nil {
		t.Fatalf("invalid JSON produced: %v", err)
	}
	if doc.Type != "Feature" || doc.Geometry.Type != "LineString" {
		t.Errorf("unexpected GeoJSON types: %s/%s", doc.Type, doc.Geometry.Type)
	}
	if len(doc.Geometry.Coordinates) != 3 || len(doc.Geometry.Coordinates[0]) != 2 {
		t.Errorf("unexpected coordinates %v", doc.Geometry.Coordinates)
	}
	if doc.Properties["name"] != "flight" {
		t.Errorf("properties not preserved: %v", doc.Properties)
	}

	buf.Reset()
	r3 := Route3{{1, 2, 120}, {3, 4, 121}}
	if err := WriteGeoJSON3(&buf, r3, nil); err != nil {
		t.Fatalf("WriteGeoJSON3: %v", err)
	}
	if err := json.Unmarshal(buf.Bytes(), &doc); err != nil {
		t.Fatalf("invalid JSON produced: %v", err)
	}
	if len(doc.Geometry.Coordinates[0]) != 3 {
		t.Errorf("3D coordinates missing height: %v", doc.Geometry.Coordinates)
	}
}
