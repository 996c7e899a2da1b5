// store/local.go
// Copyright(c) 2025 skyroute contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package store

import (
	"fmt"
	"io"
	"os"
	fpath "path/filepath"
	"strings"
)

// LocalBackend stores objects under a root directory in the local
// filesystem.
type LocalBackend struct {
	root string
}

func MakeLocalBackend(root string) (*LocalBackend, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, err
	}
	return &LocalBackend{root: root}, nil
}

// resolve maps a store path to a filesystem path, refusing paths that
// would escape the root.
func (l *LocalBackend) resolve(path string) (string, error) {
	p := fpath.Join(l.root, fpath.FromSlash(path))
	if !strings.HasPrefix(fpath.Clean(p), fpath.Clean(l.root)) {
		return "", fmt.Errorf("%s: path escapes store root", path)
	}
	return p, nil
}

func (l *LocalBackend) List(path string) (map[string]int64, error) {
	dir, err := l.resolve(path)
	if err != nil {
		return nil, err
	}

	m := make(map[string]int64)
	entries, err := os.ReadDir(dir)
	if os.IsNotExist(err) {
		return m, nil
	} else if err != nil {
		return nil, err
	}
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		info, err := e.Info()
		if err != nil {
			return nil, err
		}
		m[fpath.ToSlash(fpath.Join(path, e.Name()))] = info.Size()
	}
	return m, nil
}

func (l *LocalBackend) OpenRead(path string) (io.ReadCloser, error) {
	p, err := l.resolve(path)
	if err != nil {
		return nil, err
	}
	return os.Open(p)
}

func (l *LocalBackend) Store(path string, r io.Reader) (int64, error) {
	p, err := l.resolve(path)
	if err != nil {
		return 0, err
	}
	if err := os.MkdirAll(fpath.Dir(p), 0o755); err != nil {
		return 0, err
	}

	f, err := os.Create(p)
	if err != nil {
		return 0, err
	}
	n, err := io.Copy(f, r)
	if err != nil {
		f.Close()
		return n, err
	}
	return n, f.Close()
}

func (l *LocalBackend) StoreObject(path string, object any) (int64, error) {
	p, err := l.resolve(path)
	if err != nil {
		return 0, err
	}
	if err := os.MkdirAll(fpath.Dir(p), 0o755); err != nil {
		return 0, err
	}

	f, err := os.Create(p)
	if err != nil {
		return 0, err
	}
	n, err := encodeObject(f, object)
	if err != nil {
		f.Close()
		return n, err
	}
	return n, f.Close()
}

func (l *LocalBackend) LoadObject(path string, object any) error {
	f, err := l.OpenRead(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return decodeObject(f, object)
}

func (l *LocalBackend) Delete(path string) error {
	p, err := l.resolve(path)
	if err != nil {
		return err
	}
	return os.Remove(p)
}

func (l *LocalBackend) Close() {}
