// math/math_test.go
// Copyright(c) 2025 skyroute contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package math

import (
	"testing"
)

func TestNormalizeHeading(t *testing.T) {
	for _, tc := range []struct {
		in, want float64
	}{
		{0, 0},
		{360, 0},
		{720, 0},
		{725, 5},
		{-90, 270},
		{-360, 0},
		{-720, 0},
		{-725, 355},
		{180, 180},
	} {
		if got := NormalizeHeading(tc.in); Abs(got-tc.want) > 1e-9 {
			t.Errorf("NormalizeHeading(%v) = %v, want %v", tc.in, got, tc.want)
		}
	}

	// The result is always in [0,360), including at exact multiples of 360.
	for h := -1080.0; h <= 1080; h += 45 {
		if got := NormalizeHeading(h); got < 0 || got >= 360 {
			t.Errorf("NormalizeHeading(%v) = %v, outside [0,360)", h, got)
		}
	}
}

func TestHeadingDifference(t *testing.T) {
	for _, tc := range []struct {
		a, b, want float64
	}{
		{0, 0, 0},
		{10, 350, 20},
		{350, 10, 20},
		{90, 270, 180},
		{45, 225, 180},
		{5, 355, 10},
	} {
		if got := HeadingDifference(tc.a, tc.b); Abs(got-tc.want) > 1e-9 {
			t.Errorf("HeadingDifference(%v, %v) = %v, want %v", tc.a, tc.b, got, tc.want)
		}
	}
}

func TestShortCompass(t *testing.T) {
	for _, tc := range []struct {
		h    float64
		want string
	}{
		{0, "N"},
		{44, "NE"},
		{90, "E"},
		{359, "N"},
		{181, "S"},
		{-90, "W"},
	} {
		if got := ShortCompass(tc.h); got != tc.want {
			t.Errorf("ShortCompass(%v) = %q, want %q", tc.h, got, tc.want)
		}
	}
}

func TestClamp(t *testing.T) {
	if got := Clamp(0.3, 0.6, 2.0); got != 0.6 {
		t.Errorf("Clamp(0.3, 0.6, 2) = %v", got)
	}
	if got := Clamp(5, 0, 3); got != 3 {
		t.Errorf("Clamp(5, 0, 3) = %v", got)
	}
	if got := Clamp(1, 0, 3); got != 1 {
		t.Errorf("Clamp(1, 0, 3) = %v", got)
	}
}
