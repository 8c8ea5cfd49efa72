//go:build !errgen

// Package cache is a small file-backed key/value store whose errors are
// generated by errgen from errors.go.
package cache

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"errgen/errkit"
)

// maxEntry bounds the size of one entry in bytes.
const maxEntry = 1 << 16

// Cache stores one file per key under a directory.
type Cache struct {
	dir string

	mu     sync.Mutex
	sizes  map[string]int
	closed bool
}

// Open creates dir if needed and returns a cache rooted there.
func Open(dir string) (*Cache, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, errkit.Context(err, Write{Path: dir})
	}
	return &Cache{dir: dir, sizes: make(map[string]int)}, nil
}

func (c *Cache) path(key string) string {
	return filepath.Join(c.dir, key+".entry")
}

// Get returns the entry stored under key.
func (c *Cache) Get(key string) ([]byte, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return nil, NewCacheErrorClosed()
	}
	data, err := c.load(key)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return nil, errkit.Context(err, NotFound{Key: key})
	case err != nil:
		return nil, errkit.ContextAs(err, Load{Key: key}.Bind)
	}
	return data, nil
}

func (c *Cache) load(key string) ([]byte, error) {
	p := c.path(key)
	data, err := os.ReadFile(p)
	if err != nil {
		return nil, Read{Path: p}.Bind(err)
	}
	if len(data) > maxEntry {
		return nil, NewStoreErrorCorrupt(key, data)
	}
	return data, nil
}

// Put stores data under key.
func (c *Cache) Put(key string, data []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return NewCacheErrorClosed()
	}
	p := c.path(key)
	if err := os.WriteFile(p, data, 0o644); err != nil {
		return Write{Path: p}.Bind(err)
	}
	c.sizes[key] = len(data)
	return nil
}

// Size returns the size of an entry written through this cache.
func (c *Cache) Size(key string) (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	n, ok := c.sizes[key]
	return errkit.Value(n, ok, NotFound{Key: key})
}

// Close makes every later call fail. Closing twice is an error.
func (c *Cache) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return NewCacheErrorClosed()
	}
	c.closed = true
	return nil
}
