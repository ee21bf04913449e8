// Copyright 2023 Gustavo C. Viegas. All rights reserved.

package gpb

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sync"
)

// Cache shares open bundles by path.
// Each Open must be paired with a call to Bundle.Close;
// the bundle's stream is closed when the last user closes it.
type Cache struct {
	fsys    fs.FS
	mu      sync.Mutex
	bundles map[string]*Bundle
}

// NewCache creates a new Cache that opens bundles from fsys.
// A nil fsys opens bundles from the operating system's file
// system, with paths relative to the working directory.
func NewCache(fsys fs.FS) *Cache {
	return &Cache{fsys: fsys, bundles: make(map[string]*Bundle)}
}

var defaultCache = NewCache(nil)

// Open opens a bundle through the default cache.
func Open(path string) (*Bundle, error) { return defaultCache.Open(path) }

// Open returns the bundle at path, opening it if it is not
// already open.
func (c *Cache) Open(p string) (*Bundle, error) {
	p = path.Clean(filepath.ToSlash(p))
	c.mu.Lock()
	defer c.mu.Unlock()
	if b, ok := c.bundles[p]; ok {
		b.users++
		return b, nil
	}
	f, err := c.open(p)
	if err != nil {
		Logger().Warn("gpb: open failed", "path", p, "err", err)
		return nil, err
	}
	b, err := newBundle(c, p, f, *cfg.Load())
	if err != nil {
		f.Close()
		Logger().Warn("gpb: invalid bundle", "path", p, "err", err)
		return nil, err
	}
	c.bundles[p] = b
	Logger().Debug("gpb: opened bundle", "path", p, "version", b.version.String(), "refs", len(b.table))
	return b, nil
}

// Len returns the number of open bundles in c.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.bundles)
}

type file interface {
	io.ReadSeeker
	io.Closer
}

func (c *Cache) open(p string) (file, error) {
	if c.fsys == nil {
		return os.Open(filepath.FromSlash(p))
	}
	f, err := c.fsys.Open(p)
	if err != nil {
		return nil, err
	}
	rs, ok := f.(file)
	if !ok {
		f.Close()
		return nil, fmt.Errorf("%s%s: file is not seekable", prefix, p)
	}
	return rs, nil
}

func (c *Cache) exists(p string) bool {
	var err error
	if c.fsys == nil {
		_, err = os.Stat(filepath.FromSlash(p))
	} else {
		_, err = fs.Stat(c.fsys, p)
	}
	return err == nil
}

func (c *Cache) release(b *Bundle) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	switch {
	case b.users <= 0:
		return errors.New(prefix + "bundle already closed")
	case b.users > 1:
		b.users--
		return nil
	}
	b.users = 0
	delete(c.bundles, b.path)
	Logger().Debug("gpb: closed bundle", "path", b.path)
	return b.file.Close()
}
