// Copyright 2023 Gustavo C. Viegas. All rights reserved.

package gpb

import (
	"bytes"
	"fmt"
	"path"
	"slices"
	"strings"
	"sync"

	"github.com/Masterminds/semver/v3"

	"github.com/gviegas/gpb/internal/bitvec"
	"github.com/gviegas/gpb/internal/stream"
	"github.com/gviegas/gpb/mesh"
)

var (
	supportedVersions   = mustConstraint(">= 1.2, < 2")
	fontFormatVersion   = semver.MustParse("1.3.0")
	fontSizesVersion    = semver.MustParse("1.4.0")
	glyphMetricsVersion = semver.MustParse("1.5.0")
)

func mustConstraint(s string) *semver.Constraints {
	c, err := semver.NewConstraint(s)
	if err != nil {
		panic(err)
	}
	return c
}

// Bundle is an open bundle.
// Loads from the same bundle are serialized.
type Bundle struct {
	cache *Cache
	path  string
	users int
	file  file
	cfg   Config

	mu      sync.Mutex
	r       *stream.Reader
	version *semver.Version
	table   []Reference
	visited bitvec.V[uint64]
	meshes  map[string]*mesh.Mesh
	matPath string
	matDone bool
}

func newBundle(c *Cache, p string, f file, config Config) (*Bundle, error) {
	r, err := stream.NewReader(f, config.MaxStringLength)
	if err != nil {
		return nil, err
	}
	magic, err := r.ReadBytes(len(Magic))
	if err != nil {
		return nil, formatErr("%s: short header: %v", p, err)
	}
	if !bytes.Equal(magic, Magic[:]) {
		return nil, formatErr("%s: bad magic % x", p, magic)
	}
	var ver [2]uint8
	for i := range ver {
		if ver[i], err = r.ReadUint8(); err != nil {
			return nil, formatErr("%s: short header: %v", p, err)
		}
	}
	v := semver.New(uint64(ver[0]), uint64(ver[1]), 0, "", "")
	if !supportedVersions.Check(v) {
		return nil, fmt.Errorf("%w: %s: %d.%d", ErrVersion, p, ver[0], ver[1])
	}
	n, err := r.ReadUint32()
	if err != nil {
		return nil, formatErr("%s: missing reference count: %v", p, err)
	}
	// Each reference takes at least 12 bytes.
	if pos, _ := r.Pos(); int64(n)*12 > r.Size()-pos {
		return nil, formatErr("%s: reference count %d exceeds file size", p, n)
	}
	table := make([]Reference, n)
	for i := range table {
		ref := &table[i]
		var typ uint32
		if ref.ID, err = r.ReadString(); err == nil {
			if typ, err = r.ReadUint32(); err == nil {
				ref.Offset, err = r.ReadUint32()
			}
		}
		if err != nil {
			return nil, formatErr("%s: reference %d: %v", p, i, err)
		}
		ref.Type = Type(typ)
		if int64(ref.Offset) >= r.Size() {
			return nil, formatErr("%s: reference %q offset %d out of bounds", p, ref.ID, ref.Offset)
		}
	}
	return &Bundle{
		cache:   c,
		path:    p,
		users:   1,
		file:    f,
		cfg:     config,
		r:       r,
		version: v,
		table:   table,
		meshes:  make(map[string]*mesh.Mesh),
	}, nil
}

// Close releases b.
// The underlying stream is closed once every Open of b's
// path was matched by a Close.
func (b *Bundle) Close() error { return b.cache.release(b) }

// Path returns the path of b.
func (b *Bundle) Path() string { return b.path }

// VersionMajor returns the major version of b.
func (b *Bundle) VersionMajor() int { return int(b.version.Major()) }

// VersionMinor returns the minor version of b.
func (b *Bundle) VersionMinor() int { return int(b.version.Minor()) }

func (b *Bundle) atLeast(v *semver.Version) bool { return !b.version.LessThan(v) }

// ObjectCount returns the number of references in b.
func (b *Bundle) ObjectCount() int { return len(b.table) }

// ObjectID returns the identifier of the ith reference.
func (b *Bundle) ObjectID(i int) string { return b.table[i].ID }

// ObjectType returns the type of the ith reference.
func (b *Bundle) ObjectType(i int) Type { return b.table[i].Type }

// References returns a copy of b's reference table.
func (b *Bundle) References() []Reference { return slices.Clone(b.table) }

// Contains checks whether b has a reference with the given
// identifier.
func (b *Bundle) Contains(id string) bool { return b.find(id) >= 0 }

// find returns the index of the first reference whose
// identifier is id, or -1.
func (b *Bundle) find(id string) int {
	for i := range b.table {
		if b.table[i].ID == id {
			return i
		}
	}
	return -1
}

// seekTo moves the stream to the record of the given
// reference.
func (b *Bundle) seekTo(id string, typ Type) (*Reference, error) {
	i := b.find(id)
	if i < 0 {
		return nil, fmt.Errorf("%w: %s#%s", ErrNotFound, b.path, id)
	}
	ref := &b.table[i]
	if ref.Type != typ {
		return nil, fmt.Errorf("%w: %s#%s is %v, not %v", ErrTypeMismatch, b.path, id, ref.Type, typ)
	}
	if err := b.r.Seek(int64(ref.Offset)); err != nil {
		return nil, err
	}
	return ref, nil
}

// seekToFirstType moves the stream to the first record of
// the given type.
func (b *Bundle) seekToFirstType(typ Type) (*Reference, error) {
	for i := range b.table {
		if ref := &b.table[i]; ref.Type == typ {
			if err := b.r.Seek(int64(ref.Offset)); err != nil {
				return nil, err
			}
			return ref, nil
		}
	}
	return nil, fmt.Errorf("%w: %s has no %v", ErrNotFound, b.path, typ)
}

// idFromOffset returns the identifier of the reference that
// starts at offset, or the empty string.
func (b *Bundle) idFromOffset(offset uint32) string {
	for i := range b.table {
		if b.table[i].Offset == offset {
			return b.table[i].ID
		}
	}
	return ""
}

func (b *Bundle) idAtCursor() (string, error) {
	pos, err := b.r.Pos()
	if err != nil {
		return "", err
	}
	return b.idFromOffset(uint32(pos)), nil
}

// storedParentID reads the parent identifier stored in the
// record of the ith reference, which must be a node.
func (b *Bundle) storedParentID(i int) (string, error) {
	if err := b.r.Seek(int64(b.table[i].Offset)); err != nil {
		return "", err
	}
	if err := b.r.Skip(4 + 64); err != nil {
		return "", err
	}
	return b.r.ReadString()
}

// resolvePath resolves a path relative to b's directory.
func (b *Bundle) resolvePath(p string) string {
	if path.IsAbs(p) {
		return path.Clean(p)
	}
	return path.Join(path.Dir(b.path), p)
}

// MaterialPath returns the path of the material file that
// accompanies b, or the empty string if there is none.
// The file system is checked only once.
func (b *Bundle) MaterialPath() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.materialPath()
}

func (b *Bundle) materialPath() string {
	if !b.matDone {
		b.matDone = true
		p := strings.TrimSuffix(b.path, path.Ext(b.path)) + b.cfg.MaterialExt
		if b.cache.exists(p) {
			b.matPath = p
		}
	}
	return b.matPath
}

// parseXref splits a cross reference of the form "#id" or
// "file#id".
func parseXref(s string) (file, id string, ok bool) {
	file, id, ok = strings.Cut(s, "#")
	return file, id, ok && id != ""
}
