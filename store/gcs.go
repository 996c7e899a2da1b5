// store/gcs.go
// Copyright(c) 2025 skyroute contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package store

import (
	"context"
	"fmt"
	"io"
	"os"
	fpath "path/filepath"

	"cloud.google.com/go/storage"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"
)

// GCSBackend stores objects in a Google Cloud Storage bucket. Service
// account credentials are taken from the SKYROUTE_GCS_CREDENTIALS
// environment variable (JSON).
type GCSBackend struct {
	ctx    context.Context
	client *storage.Client
	bucket *storage.BucketHandle
}

func MakeGCSBackend(ctx context.Context, bucketName string) (*GCSBackend, error) {
	credsJSON := os.Getenv("SKYROUTE_GCS_CREDENTIALS")
	if credsJSON == "" {
		return nil, fmt.Errorf("SKYROUTE_GCS_CREDENTIALS environment variable not set")
	}

	client, err := storage.NewClient(ctx, option.WithCredentialsJSON([]byte(credsJSON)))
	if err != nil {
		return nil, err
	}

	return &GCSBackend{
		ctx:    ctx,
		client: client,
		bucket: client.Bucket(bucketName),
	}, nil
}

func (g *GCSBackend) List(path string) (map[string]int64, error) {
	path = fpath.Clean(path)
	query := storage.Query{
		Projection: storage.ProjectionNoACL,
		Prefix:     path,
	}

	m := make(map[string]int64)
	it := g.bucket.Objects(g.ctx, &query)
	for {
		if obj, err := it.Next(); err == iterator.Done {
			break
		} else if err != nil {
			return nil, err
		} else if fpath.Clean(obj.Name) != path { // don't return the root ~folder
			m[obj.Name] = obj.Size
		}
	}

	return m, nil
}

func (g *GCSBackend) OpenRead(path string) (io.ReadCloser, error) {
	return g.bucket.Object(path).NewReader(g.ctx)
}

func (g *GCSBackend) Store(path string, r io.Reader) (int64, error) {
	objw := g.bucket.Object(path).NewWriter(g.ctx)
	n, err := io.Copy(objw, r)
	if err != nil {
		return n, err
	}
	return n, objw.Close()
}

func (g *GCSBackend) StoreObject(path string, object any) (int64, error) {
	objw := g.bucket.Object(path).NewWriter(g.ctx)
	n, err := encodeObject(objw, object)
	if err != nil {
		return n, err
	}
	return n, objw.Close()
}

func (g *GCSBackend) LoadObject(path string, object any) error {
	r, err := g.OpenRead(path)
	if err != nil {
		return err
	}
	defer r.Close()
	return decodeObject(r, object)
}

func (g *GCSBackend) Delete(path string) error {
	return g.bucket.Object(path).Delete(g.ctx)
}

func (g *GCSBackend) Close() { g.client.Close() }
