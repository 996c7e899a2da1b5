// route/validate.go
// Copyright(c) 2025 skyroute contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package route

import (
	"fmt"

	"github.com/mmp/skyroute/log"
)

// NoViableRouteError means both the primary search and the isotropic
// fallback produced a degenerate (zero-length) route.
type NoViableRouteError struct{}

func (NoViableRouteError) Error() string {
	return "no viable route was found (length 0): check that the start and end " +
		"points lie on the cost surface and are not cut off by the obstacle " +
		"buffer or by NoData cells"
}

// RangeExceededError means a route was found but is longer than the
// configured maximum.
type RangeExceededError struct {
	Length, Limit float64
}

func (e RangeExceededError) Error() string {
	return fmt.Sprintf("computed route of %.1f map units exceeds the %.1f limit",
		e.Length, e.Limit)
}

// ValidateAndRetry applies the acceptance policy to a raw solver result:
//
//   - a zero-length route triggers exactly one retry via solveIsotropic,
//     which should re-run the search with all directional and wind terms
//     stripped; if that is also zero-length, NoViableRouteError;
//   - if maxRange > 0 and the accepted route is longer, RangeExceededError.
//
// Both checks share one length computation (Route.Length); the returned
// route is the one the length was measured on.
func ValidateAndRetry(r Route, solveIsotropic func() (Route, error), maxRange float64,
	lg *log.Logger) (Route, error) {
	length := r.Length()
	if length <= 0 {
		lg.Warnf("route: primary search returned a zero-length route, retrying isotropically")
		var err error
		if r, err = solveIsotropic(); err != nil {
			return nil, err
		}
		if length = r.Length(); length <= 0 {
			return nil, NoViableRouteError{}
		}
	}

	if maxRange > 0 && length > maxRange {
		return nil, RangeExceededError{Length: length, Limit: maxRange}
	}

	lg.Debugf("route: accepted route with %d vertices, length %.1f", len(r), length)
	return r, nil
}
