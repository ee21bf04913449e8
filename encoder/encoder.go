// Copyright 2023 Gustavo C. Viegas. All rights reserved.

// Package encoder writes bundles that package gpb can load.
package encoder

import (
	"io"

	"github.com/gviegas/gpb"
	"github.com/gviegas/gpb/internal/stream"
)

// Camera describes a camera record.
// Type is 1 for perspective and 2 for orthographic.
type Camera struct {
	Type        uint8
	AspectRatio float32
	Near, Far   float32
	FieldOfView float32
	ZoomX       float32
	ZoomY       float32
}

// Light describes a light record.
// Type is 1 for directional, 2 for point and 3 for spot.
// Cone angles are in degrees.
type Light struct {
	Type         uint8
	Color        [3]float32
	Range        float32
	Inner, Outer float32
}

// Skin describes a mesh skin record.
// Joints are cross references ("#id").
// InverseBindPoses is either empty or has one matrix per
// joint.
type Skin struct {
	BindShape        [16]float32
	Joints           []string
	InverseBindPoses [][16]float32
}

// Model describes a model record.
// Mesh is a cross reference ("#id" or "file#id").
type Model struct {
	Mesh      string
	Skin      *Skin
	Materials []string
}

// Node describes a node record.
// A zero Transform is written as the identity.
type Node struct {
	ID        string
	Joint     bool
	Transform [16]float32
	Parent    string
	Children  []Node
	Camera    *Camera
	Light     *Light
	Model     *Model
}

// Scene describes a scene record.
// ActiveCamera is a cross reference ("#id") or empty.
type Scene struct {
	ID           string
	Nodes        []Node
	ActiveCamera string
	Ambient      [3]float32
}

// Element is a vertex element.
type Element struct {
	Usage uint32
	Size  uint32
}

// Part is a mesh part.
type Part struct {
	Primitive   uint32
	IndexFormat uint32
	Indices     []byte
}

// Mesh describes a mesh record.
type Mesh struct {
	ID           string
	Elements     []Element
	Vertices     []byte
	BoxMin       [3]float32
	BoxMax       [3]float32
	SphereCenter [3]float32
	SphereRadius float32
	Parts        []Part
}

// Channel describes an animation channel.
type Channel struct {
	Target        string
	Attribute     uint32
	KeyTimes      []uint32
	Values        []float32
	TangentsIn    []float32
	TangentsOut   []float32
	Interpolation []uint32
}

// Animation describes an animation.
type Animation struct {
	ID       string
	Channels []Channel
}

// Animations describes an animations record.
type Animations struct {
	ID         string
	Animations []Animation
}

// Glyph describes a font glyph.
// BearingX and Advance are only written from version 1.5 on.
type Glyph struct {
	Code     uint32
	Width    uint32
	BearingX int32
	Advance  uint32
	UV       [4]float32
}

// FontSize describes one size of a font.
// Atlas must have Width*Height bytes.
type FontSize struct {
	Size    uint32
	Charset string
	Glyphs  []Glyph
	Width   uint32
	Height  uint32
	Atlas   []byte
	Format  uint32
}

// Font describes a font record.
// Before version 1.4, only the first size is written.
type Font struct {
	ID     string
	Family string
	Style  uint32
	Sizes  []FontSize
}

type reference struct {
	id     string
	typ    gpb.Type
	offset int
}

// Encoder accumulates records and produces a bundle.
type Encoder struct {
	major, minor uint8
	refs         []reference
	body         stream.Writer
}

// New creates a new Encoder for the given bundle version.
func New(major, minor uint8) *Encoder { return &Encoder{major: major, minor: minor} }

func (e *Encoder) addRef(id string, typ gpb.Type) {
	if id != "" {
		e.refs = append(e.refs, reference{id, typ, e.body.Len()})
	}
}

// AddRecord adds a reference to a record with arbitrary
// contents.
func (e *Encoder) AddRecord(id string, typ gpb.Type, data []byte) {
	e.refs = append(e.refs, reference{id, typ, e.body.Len()})
	e.body.WriteBytes(data)
}

// AddScene adds a scene record.
// The scene is referenced even if its identifier is empty.
// Every node in the scene gets a reference of its own.
func (e *Encoder) AddScene(s *Scene) {
	e.refs = append(e.refs, reference{s.ID, gpb.TypeScene, e.body.Len()})
	w := &e.body
	w.WriteUint32(uint32(len(s.Nodes)))
	for i := range s.Nodes {
		e.writeNode(&s.Nodes[i])
	}
	w.WriteString(s.ActiveCamera)
	w.WriteFloats(s.Ambient[:])
}

// AddNode adds a standalone node record.
func (e *Encoder) AddNode(n *Node) { e.writeNode(n) }

func (e *Encoder) writeNode(n *Node) {
	e.addRef(n.ID, gpb.TypeNode)
	w := &e.body
	if n.Joint {
		w.WriteUint32(2)
	} else {
		w.WriteUint32(1)
	}
	if n.Transform == ([16]float32{}) {
		w.WriteFloats([]float32{1, 0, 0, 0, 0, 1, 0, 0, 0, 0, 1, 0, 0, 0, 0, 1})
	} else {
		w.WriteFloats(n.Transform[:])
	}
	w.WriteString(n.Parent)
	w.WriteUint32(uint32(len(n.Children)))
	for i := range n.Children {
		e.writeNode(&n.Children[i])
	}
	e.writeCamera(n.Camera)
	e.writeLight(n.Light)
	e.writeModel(n.Model)
}

func (e *Encoder) writeCamera(c *Camera) {
	w := &e.body
	if c == nil {
		w.WriteUint8(0)
		return
	}
	w.WriteUint8(c.Type)
	w.WriteFloats([]float32{c.AspectRatio, c.Near, c.Far})
	if c.Type == 1 {
		w.WriteFloat32(c.FieldOfView)
	} else {
		w.WriteFloats([]float32{c.ZoomX, c.ZoomY})
	}
}

func (e *Encoder) writeLight(l *Light) {
	w := &e.body
	if l == nil {
		w.WriteUint8(0)
		return
	}
	w.WriteUint8(l.Type)
	w.WriteFloats(l.Color[:])
	switch l.Type {
	case 2:
		w.WriteFloat32(l.Range)
	case 3:
		w.WriteFloats([]float32{l.Range, l.Inner, l.Outer})
	}
}

func (e *Encoder) writeModel(m *Model) {
	w := &e.body
	if m == nil {
		w.WriteString("")
		return
	}
	w.WriteString(m.Mesh)
	if m.Skin == nil {
		w.WriteUint8(0)
	} else {
		w.WriteUint8(1)
		s := m.Skin
		w.WriteFloats(s.BindShape[:])
		w.WriteUint32(uint32(len(s.Joints)))
		for _, j := range s.Joints {
			w.WriteString(j)
		}
		w.WriteUint32(uint32(len(s.InverseBindPoses) * 16))
		for i := range s.InverseBindPoses {
			w.WriteFloats(s.InverseBindPoses[i][:])
		}
	}
	w.WriteUint32(uint32(len(m.Materials)))
	for _, s := range m.Materials {
		w.WriteString(s)
	}
}

// AddMesh adds a mesh record.
func (e *Encoder) AddMesh(m *Mesh) {
	e.addRef(m.ID, gpb.TypeMesh)
	w := &e.body
	w.WriteUint32(uint32(len(m.Elements)))
	for _, x := range m.Elements {
		w.WriteUint32(x.Usage)
		w.WriteUint32(x.Size)
	}
	w.WriteUint32(uint32(len(m.Vertices)))
	w.WriteBytes(m.Vertices)
	w.WriteFloats(m.BoxMin[:])
	w.WriteFloats(m.BoxMax[:])
	w.WriteFloats(m.SphereCenter[:])
	w.WriteFloat32(m.SphereRadius)
	w.WriteUint32(uint32(len(m.Parts)))
	for _, p := range m.Parts {
		w.WriteUint32(p.Primitive)
		w.WriteUint32(p.IndexFormat)
		w.WriteUint32(uint32(len(p.Indices)))
		w.WriteBytes(p.Indices)
	}
}

// AddAnimations adds an animations record.
func (e *Encoder) AddAnimations(a *Animations) {
	e.addRef(a.ID, gpb.TypeAnimations)
	w := &e.body
	w.WriteUint32(uint32(len(a.Animations)))
	for _, x := range a.Animations {
		w.WriteString(x.ID)
		w.WriteUint32(uint32(len(x.Channels)))
		for _, c := range x.Channels {
			w.WriteString(c.Target)
			w.WriteUint32(c.Attribute)
			stream.WriteArray(w, c.KeyTimes)
			stream.WriteArray(w, c.Values)
			stream.WriteArray(w, c.TangentsIn)
			stream.WriteArray(w, c.TangentsOut)
			stream.WriteArray(w, c.Interpolation)
		}
	}
}

// AddFont adds a font record.
func (e *Encoder) AddFont(f *Font) {
	e.addRef(f.ID, gpb.TypeFont)
	w := &e.body
	w.WriteString(f.Family)
	w.WriteUint32(f.Style)
	sizes := f.Sizes
	if e.minor >= 4 {
		w.WriteUint32(uint32(len(sizes)))
	} else if len(sizes) > 1 {
		sizes = sizes[:1]
	}
	for _, s := range sizes {
		w.WriteUint32(s.Size)
		w.WriteString(s.Charset)
		w.WriteUint32(uint32(len(s.Glyphs)))
		for _, g := range s.Glyphs {
			w.WriteUint32(g.Code)
			w.WriteUint32(g.Width)
			if e.minor >= 5 {
				w.WriteInt32(g.BearingX)
				w.WriteUint32(g.Advance)
			}
			w.WriteFloats(g.UV[:])
		}
		w.WriteUint32(s.Width)
		w.WriteUint32(s.Height)
		w.WriteUint32(uint32(len(s.Atlas)))
		w.WriteBytes(s.Atlas)
		if e.minor >= 3 {
			w.WriteUint32(s.Format)
		}
	}
}

// Bytes returns the encoded bundle.
func (e *Encoder) Bytes() []byte {
	hdr := len(gpb.Magic) + 2 + 4
	for _, r := range e.refs {
		hdr += 4 + len(r.id) + 8
	}
	var w stream.Writer
	w.WriteBytes(gpb.Magic[:])
	w.WriteUint8(e.major)
	w.WriteUint8(e.minor)
	w.WriteUint32(uint32(len(e.refs)))
	for _, r := range e.refs {
		w.WriteString(r.id)
		w.WriteUint32(uint32(r.typ))
		w.WriteUint32(uint32(hdr + r.offset))
	}
	w.WriteBytes(e.body.Bytes())
	return w.Bytes()
}

// Encode writes the encoded bundle to w.
func (e *Encoder) Encode(w io.Writer) error {
	_, err := w.Write(e.Bytes())
	return err
}
