// grid/parse.go
// Copyright(c) 2025 skyroute contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package grid

import (
	"fmt"
	"strconv"
	"strings"
)

// ParsePoint parses a user-supplied "x, y" map coordinate; '.' is the
// decimal separator and ',' separates the two fields.
func ParsePoint(s string) (Point, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 2 {
		return Point{}, fmt.Errorf("%q: expected \"x, y\"", s)
	}

	var p Point
	for i, part := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(part), 64)
		if err != nil {
			return Point{}, fmt.Errorf("%q: %w", s, err)
		}
		p[i] = v
	}
	return p, nil
}
