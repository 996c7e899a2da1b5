// store/store.go
// Copyright(c) 2025 skyroute contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

// Package store persists computed layers and routes -- cost surfaces,
// cost-distance fields, route polylines -- as zstd-compressed msgpack
// objects, on local disk or in a cloud bucket.
package store

import (
	"io"

	"github.com/klauspost/compress/zstd"
	"github.com/vmihailenco/msgpack/v5"
)

type Backend interface {
	List(path string) (map[string]int64, error)
	OpenRead(path string) (io.ReadCloser, error)
	Store(path string, r io.Reader) (int64, error)
	StoreObject(path string, object any) (int64, error)
	LoadObject(path string, object any) error
	Delete(path string) error
	Close()
}

// Pool a limited number of zstd encoders to keep memory use under control.
var zstdEncoders chan *zstd.Encoder

func init() {
	const nenc = 8
	zstdEncoders = make(chan *zstd.Encoder, nenc)
	for i := 0; i < nenc; i++ {
		ze, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedBestCompression),
			zstd.WithEncoderConcurrency(1))
		if err != nil {
			panic(err)
		}
		zstdEncoders <- ze
	}
}

type CountingWriter struct {
	io.Writer
	N int64
}

func (w *CountingWriter) Write(b []byte) (int, error) {
	n, err := w.Writer.Write(b)
	w.N += int64(n)
	return n, err
}

// encodeObject msgpack-encodes object through a pooled zstd encoder into
// w, returning the number of compressed bytes written.
func encodeObject(w io.Writer, object any) (int64, error) {
	cw := &CountingWriter{Writer: w}

	zw := <-zstdEncoders
	defer func() { zstdEncoders <- zw }()
	zw.Reset(cw)

	if err := msgpack.NewEncoder(zw).Encode(object); err != nil {
		return 0, err
	} else if err := zw.Close(); err != nil {
		return 0, err
	}

	return cw.N, nil
}

func decodeObject(r io.Reader, object any) error {
	zr, err := zstd.NewReader(r)
	if err != nil {
		return err
	}
	defer zr.Close()

	return msgpack.NewDecoder(zr).Decode(object)
}
