// store/cache.go
// Copyright(c) 2025 skyroute contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package store

import (
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/mmp/skyroute/grid"
)

// RasterCache fronts a Backend with an expiring LRU of decoded rasters
// so that repeated planning runs over the same tiles don't redecode
// them each time.
type RasterCache struct {
	backend Backend
	lru     *expirable.LRU[string, *grid.Raster[float32]]
}

func MakeRasterCache(backend Backend, size int, ttl time.Duration) *RasterCache {
	return &RasterCache{
		backend: backend,
		lru:     expirable.NewLRU[string, *grid.Raster[float32]](size, nil, ttl),
	}
}

// Raster returns the raster stored at path, decoding it from the
// backend on a cache miss.
func (c *RasterCache) Raster(path string) (*grid.Raster[float32], error) {
	if r, ok := c.lru.Get(path); ok {
		return r, nil
	}

	var r grid.Raster[float32]
	if err := c.backend.LoadObject(path, &r); err != nil {
		return nil, err
	}

	c.lru.Add(path, &r)
	return &r, nil
}

// StoreRaster writes the raster to the backend and primes the cache.
func (c *RasterCache) StoreRaster(path string, r *grid.Raster[float32]) (int64, error) {
	n, err := c.backend.StoreObject(path, r)
	if err == nil {
		c.lru.Add(path, r)
	}
	return n, err
}
