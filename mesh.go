// Copyright 2023 Gustavo C. Viegas. All rights reserved.

package gpb

import (
	"fmt"

	"github.com/gviegas/gpb/mesh"
)

// LoadMesh loads the mesh with the given identifier.
// Meshes are shared by every load of the same bundle.
func (b *Bundle) LoadMesh(id string) (*mesh.Mesh, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	m, err := b.loadMesh(id)
	if err != nil {
		err = loadErr(err)
		Logger().Warn("gpb: LoadMesh failed", "bundle", b.path, "id", id, "err", err)
		return nil, err
	}
	return m, nil
}

// meshFromXref loads the mesh that a model references.
// External meshes are loaded through b's cache.
func (b *Bundle) meshFromXref(xref string) (*mesh.Mesh, error) {
	file, id, ok := parseXref(xref)
	if !ok {
		return nil, formatErr("invalid mesh reference %q", xref)
	}
	if file == "" {
		return b.loadMesh(id)
	}
	p := b.resolvePath(file)
	if p == b.path {
		return b.loadMesh(id)
	}
	ext, err := b.cache.Open(p)
	if err != nil {
		return nil, err
	}
	defer ext.Close()
	return ext.LoadMesh(id)
}

// loadMesh loads a mesh without disturbing the cursor.
func (b *Bundle) loadMesh(id string) (m *mesh.Mesh, err error) {
	if m, ok := b.meshes[id]; ok {
		return m, nil
	}
	pos, err := b.r.Pos()
	if err != nil {
		return nil, err
	}
	defer func() {
		if serr := b.r.Seek(pos); serr != nil && err == nil {
			m, err = nil, serr
		}
	}()
	if _, err = b.seekTo(id, TypeMesh); err != nil {
		return nil, err
	}
	if m, err = b.readMesh(id); err != nil {
		return nil, err
	}
	b.meshes[id] = m
	return m, nil
}

func (b *Bundle) readMesh(id string) (*mesh.Mesh, error) {
	r := b.r
	n, err := r.ReadUint32()
	if err != nil {
		return nil, err
	}
	if pos, _ := r.Pos(); n == 0 || int64(n)*8 > r.Size()-pos {
		return nil, formatErr("mesh %q has %d vertex elements", id, n)
	}
	elems := make([]mesh.Element, n)
	for i := range elems {
		usage, err := r.ReadUint32()
		if err != nil {
			return nil, err
		}
		size, err := r.ReadUint32()
		if err != nil {
			return nil, err
		}
		if usage < uint32(mesh.Position) || usage > uint32(mesh.TexCoord7) {
			return nil, formatErr("mesh %q has undefined vertex usage %d", id, usage)
		}
		elems[i] = mesh.Element{Usage: mesh.Usage(usage), Size: int(size)}
	}
	vn, err := r.ReadUint32()
	if err != nil {
		return nil, err
	}
	vertices, err := r.ReadBytes(int(vn))
	if err != nil {
		return nil, err
	}

	var bounds [10]float32
	if err := r.ReadFloats(bounds[:]); err != nil {
		return nil, err
	}
	data := mesh.Data{
		ID:       id,
		URL:      b.path + "#" + id,
		Format:   mesh.NewVertexFormat(elems),
		Vertices: vertices,
	}
	copy(data.Box.Min[:], bounds[0:3])
	copy(data.Box.Max[:], bounds[3:6])
	copy(data.Sphere.Center[:], bounds[6:9])
	data.Sphere.Radius = bounds[9]

	pn, err := r.ReadUint32()
	if err != nil {
		return nil, err
	}
	// Each part takes at least 12 bytes.
	if pos, _ := r.Pos(); int64(pn)*12 > r.Size()-pos {
		return nil, formatErr("mesh %q part count %d exceeds file size", id, pn)
	}
	data.Parts = make([]mesh.Part, pn)
	for i := range data.Parts {
		var hdr [3]uint32
		for j := range hdr {
			if hdr[j], err = r.ReadUint32(); err != nil {
				return nil, err
			}
		}
		p := &data.Parts[i]
		p.Primitive = mesh.PrimitiveType(hdr[0])
		p.IndexFormat = mesh.IndexFormat(hdr[1])
		if p.Indices, err = r.ReadBytes(int(hdr[2])); err != nil {
			return nil, err
		}
	}

	m, err := mesh.New(&data)
	if err != nil {
		return nil, fmt.Errorf("%w: mesh %q: %w", ErrFormat, id, err)
	}
	return m, nil
}
