// wx/wx.go
// Copyright(c) 2025 skyroute contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

// Package wx provides the current surface wind for a location. Weather is
// a non-critical input to route planning: one bounded fetch is attempted
// per computation and every failure mode degrades to the zero Reading,
// which the cost model treats as calm air.
package wx

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/mmp/skyroute/log"
	"github.com/mmp/skyroute/math"
)

// Reading is a surface wind observation: speed in meters per second and
// the compass bearing the wind blows from, reduced to [0,360). The zero
// Reading means calm air and is always a safe substitute.
type Reading struct {
	Speed   float64
	Bearing float64
}

func (r Reading) IsCalm() bool {
	return r.Speed == 0
}

func (r Reading) String() string {
	if r.IsCalm() {
		return "calm"
	}
	return fmt.Sprintf("%.1f m/s from %s (%.0f°)", r.Speed, math.ShortCompass(r.Bearing), r.Bearing)
}

const fetchTimeout = 10 * time.Second

const defaultBaseURL = "https://api.openweathermap.org/data/2.5/weather"

type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	lg         *log.Logger
}

func NewClient(apiKey string, lg *log.Logger) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: fetchTimeout},
		baseURL:    defaultBaseURL,
		apiKey:     apiKey,
		lg:         lg,
	}
}

// CurrentWind fetches the current wind at the given latitude/longitude.
// It never returns an error: a missing API key, HTTP failure, timeout, or
// malformed response all degrade to the zero Reading, with the reason
// logged. Exactly one attempt is made; retrying a non-critical input
// risks unbounded latency for no benefit.
func (c *Client) CurrentWind(ctx context.Context, lat, long float64) Reading {
	if c.apiKey == "" {
		c.lg.Info("wx: no API key provided, assuming calm wind")
		return Reading{}
	}

	ctx, cancel := context.WithTimeout(ctx, fetchTimeout)
	defer cancel()

	u := fmt.Sprintf("%s?lat=%s&lon=%s&appid=%s", c.baseURL,
		url.QueryEscape(fmt.Sprintf("%.5f", lat)),
		url.QueryEscape(fmt.Sprintf("%.5f", long)),
		url.QueryEscape(c.apiKey))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		c.lg.Warnf("wx: %v; assuming calm wind", err)
		return Reading{}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.lg.Warnf("wx: fetch failed: %v; assuming calm wind", err)
		return Reading{}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.lg.Warnf("wx: fetch returned %s; assuming calm wind", resp.Status)
		return Reading{}
	}

	var body struct {
		Wind struct {
			Speed float64 `json:"speed"`
			Deg   float64 `json:"deg"`
		} `json:"wind"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		c.lg.Warnf("wx: decoding response: %v; assuming calm wind", err)
		return Reading{}
	}

	r := Reading{
		Speed:   max(body.Wind.Speed, 0),
		Bearing: math.NormalizeHeading(body.Wind.Deg),
	}
	c.lg.Info("wx: current wind", "speed", r.Speed, "bearing", r.Bearing)
	return r
}
