// Copyright 2022 Gustavo C. Viegas. All rights reserved.

// Package mesh defines vertex and index data loaded from
// bundles.
package mesh

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"
)

const prefix = "mesh: "

// Usage specifies the intended use of a vertex element.
type Usage uint32

// Usages.
const (
	Position Usage = iota + 1
	Normal
	Color
	Tangent
	Binormal
	BlendWeights
	BlendIndices
	TexCoord0
	TexCoord1
	TexCoord2
	TexCoord3
	TexCoord4
	TexCoord5
	TexCoord6
	TexCoord7
)

// String implements fmt.Stringer.
func (u Usage) String() string {
	switch u {
	case Position:
		return "Position"
	case Normal:
		return "Normal"
	case Color:
		return "Color"
	case Tangent:
		return "Tangent"
	case Binormal:
		return "Binormal"
	case BlendWeights:
		return "BlendWeights"
	case BlendIndices:
		return "BlendIndices"
	}
	if u >= TexCoord0 && u <= TexCoord7 {
		return fmt.Sprintf("TexCoord%d", u-TexCoord0)
	}
	return "!mesh.Usage"
}

// Element describes one vertex attribute.
// Size is the number of float32 components.
type Element struct {
	Usage Usage
	Size  int
}

// VertexFormat describes the interleaved layout of a vertex.
type VertexFormat struct {
	elems []Element
	size  int
}

// NewVertexFormat creates a new VertexFormat from a list of
// elements, in the order they appear in each vertex.
func NewVertexFormat(elems []Element) VertexFormat {
	f := VertexFormat{elems: append([]Element(nil), elems...)}
	for _, e := range elems {
		f.size += e.Size * 4
	}
	return f
}

// Elements returns the elements of f.
func (f *VertexFormat) Elements() []Element { return f.elems }

// VertexSize returns the size in bytes of one vertex.
func (f *VertexFormat) VertexSize() int { return f.size }

// Offset returns the byte offset of the first element with
// the given usage, or -1 if f has no such element.
func (f *VertexFormat) Offset(u Usage) (off int, size int) {
	for _, e := range f.elems {
		if e.Usage == u {
			return off, e.Size
		}
		off += e.Size * 4
	}
	return -1, 0
}

// PrimitiveType is the topology of a mesh or part.
type PrimitiveType uint32

// Primitive types.
const (
	Points        PrimitiveType = 0
	Lines         PrimitiveType = 1
	LineStrip     PrimitiveType = 3
	Triangles     PrimitiveType = 4
	TriangleStrip PrimitiveType = 5
)

// IndexFormat is the storage format of part indices.
type IndexFormat uint32

// Index formats.
const (
	Index8  IndexFormat = 0x1401
	Index16 IndexFormat = 0x1403
	Index32 IndexFormat = 0x1405
)

// Size returns the size in bytes of one index, or 0 if f is
// not a valid constant.
func (f IndexFormat) Size() int {
	switch f {
	case Index8:
		return 1
	case Index16:
		return 2
	case Index32:
		return 4
	}
	return 0
}

// Part is an indexed subset of a mesh's vertices.
type Part struct {
	Primitive   PrimitiveType
	IndexFormat IndexFormat
	Indices     []byte
}

// IndexCount returns the number of indices in p.
func (p *Part) IndexCount() int {
	if n := p.IndexFormat.Size(); n > 0 {
		return len(p.Indices) / n
	}
	return 0
}

// Index returns the ith index of p.
func (p *Part) Index(i int) uint32 {
	switch p.IndexFormat {
	case Index8:
		return uint32(p.Indices[i])
	case Index16:
		return uint32(binary.LittleEndian.Uint16(p.Indices[i*2:]))
	default:
		return binary.LittleEndian.Uint32(p.Indices[i*4:])
	}
}

// Mesh is interleaved vertex data plus optional parts.
// A Mesh without parts is drawn with Primitive over all of
// its vertices.
type Mesh struct {
	ID        string
	URL       string
	Format    VertexFormat
	Vertices  []byte
	Primitive PrimitiveType
	Parts     []Part
	Box       BoundingBox
	Sphere    BoundingSphere
}

// Data is the input for New.
type Data struct {
	ID       string
	URL      string
	Format   VertexFormat
	Vertices []byte
	Parts    []Part
	Box      BoundingBox
	Sphere   BoundingSphere
}

// New creates a new Mesh from validated data.
func New(data *Data) (*Mesh, error) {
	if err := validate(data); err != nil {
		return nil, err
	}
	return &Mesh{
		ID:        data.ID,
		URL:       data.URL,
		Format:    data.Format,
		Vertices:  data.Vertices,
		Primitive: Triangles,
		Parts:     data.Parts,
		Box:       data.Box,
		Sphere:    data.Sphere,
	}, nil
}

// VertexCount returns the number of vertices in m.
func (m *Mesh) VertexCount() int {
	if n := m.Format.VertexSize(); n > 0 {
		return len(m.Vertices) / n
	}
	return 0
}

// PartCount returns the number of parts in m.
func (m *Mesh) PartCount() int { return len(m.Parts) }

// Attribute returns the float32 components of every vertex's
// element with the given usage, de-interleaved.
// It returns nil if m has no such element.
func (m *Mesh) Attribute(u Usage) []float32 {
	off, size := m.Format.Offset(u)
	if off < 0 {
		return nil
	}
	stride := m.Format.VertexSize()
	n := m.VertexCount()
	s := make([]float32, 0, n*size)
	for i := range n {
		p := m.Vertices[i*stride+off:]
		for j := range size {
			s = append(s, math.Float32frombits(binary.LittleEndian.Uint32(p[j*4:])))
		}
	}
	return s
}

func validate(data *Data) error {
	newErr := func(reason string) error { return errors.New(prefix + reason) }

	switch {
	case data == nil:
		return newErr("nil data")
	case len(data.Format.elems) == 0:
		return newErr("no vertex elements")
	case len(data.Vertices) == 0:
		return newErr("no vertex data")
	case len(data.Vertices)%data.Format.VertexSize() != 0:
		return newErr("vertex data not a multiple of vertex size")
	}
	for _, e := range data.Format.elems {
		if e.Size < 1 || e.Size > 4 {
			return newErr("invalid element size for " + e.Usage.String())
		}
	}
	vertCnt := len(data.Vertices) / data.Format.VertexSize()

	for i := range data.Parts {
		p := &data.Parts[i]
		isz := p.IndexFormat.Size()
		switch {
		case isz == 0:
			return newErr("undefined IndexFormat constant")
		case len(p.Indices)%isz != 0:
			return newErr("index data not a multiple of index size")
		}
		cnt := len(p.Indices) / isz
		switch p.Primitive {
		case Points:
		case Lines:
			if cnt&1 != 0 {
				return newErr("invalid count for Lines")
			}
		case LineStrip:
			if cnt < 2 {
				return newErr("invalid count for LineStrip")
			}
		case Triangles:
			if cnt%3 != 0 {
				return newErr("invalid count for Triangles")
			}
		case TriangleStrip:
			if cnt < 3 {
				return newErr("invalid count for TriangleStrip")
			}
		default:
			return newErr("undefined PrimitiveType constant")
		}
		for j := range cnt {
			if int(p.Index(j)) >= vertCnt {
				return newErr("index out of bounds")
			}
		}
	}
	return nil
}
