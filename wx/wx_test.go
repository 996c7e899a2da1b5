// wx/wx_test.go
// Copyright(c) 2025 skyroute contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package wx

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func testClient(ts *httptest.Server, key string) *Client {
	c := NewClient(key, nil)
	c.baseURL = ts.URL
	return c
}

func TestCurrentWind(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("appid") != "testkey" {
			http.Error(w, "bad key", http.StatusUnauthorized)
			return
		}
		w.Write([]byte(`{"wind": {"speed": 7.5, "deg": 225}, "main": {"temp": 281}}`))
	}))
	defer ts.Close()

	r := testClient(ts, "testkey").CurrentWind(context.Background(), 51.25, 22.57)
	if r.Speed != 7.5 || r.Bearing != 225 {
		t.Errorf("got %+v, want speed 7.5 bearing 225", r)
	}
	if r.IsCalm() {
		t.Errorf("reading should not be calm")
	}
}

func TestCurrentWindBearingReduced(t *testing.T) {
	// A station reporting 360 still yields a bearing in [0,360).
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"wind": {"speed": 3, "deg": 360}}`))
	}))
	defer ts.Close()

	r := testClient(ts, "k").CurrentWind(context.Background(), 0, 0)
	if r.Bearing != 0 {
		t.Errorf("bearing = %v, want 0", r.Bearing)
	}
	if r.Speed != 3 {
		t.Errorf("speed = %v, want 3", r.Speed)
	}
}

func TestCurrentWindDegradesToCalm(t *testing.T) {
	// No API key: no request is made at all.
	r := NewClient("", nil).CurrentWind(context.Background(), 0, 0)
	if !r.IsCalm() || r.Bearing != 0 {
		t.Errorf("missing key: got %+v, want zero reading", r)
	}

	// Server error.
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer ts.Close()
	if r := testClient(ts, "k").CurrentWind(context.Background(), 0, 0); !r.IsCalm() {
		t.Errorf("server error: got %+v, want zero reading", r)
	}

	// Malformed body.
	ts2 := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{{{`))
	}))
	defer ts2.Close()
	if r := testClient(ts2, "k").CurrentWind(context.Background(), 0, 0); !r.IsCalm() {
		t.Errorf("bad body: got %+v, want zero reading", r)
	}

	// Unreachable server.
	ts3 := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	ts3.Close()
	if r := testClient(ts3, "k").CurrentWind(context.Background(), 0, 0); !r.IsCalm() {
		t.Errorf("unreachable server: got %+v, want zero reading", r)
	}
}

func TestCurrentWindHonorsContext(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(5 * time.Second):
		}
	}))
	defer ts.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	start := time.Now()
	if r := testClient(ts, "k").CurrentWind(ctx, 0, 0); !r.IsCalm() {
		t.Errorf("canceled fetch: got %+v, want zero reading", r)
	}
	if elapsed := time.Since(start); elapsed > 2*time.Second {
		t.Errorf("fetch did not respect context deadline (took %s)", elapsed)
	}
}

func TestReadingString(t *testing.T) {
	if s := (Reading{}).String(); s != "calm" {
		t.Errorf("zero reading String() = %q", s)
	}
	if s := (Reading{Speed: 5, Bearing: 90}).String(); s == "calm" {
		t.Errorf("non-calm reading reported as calm")
	}
}
