// Copyright 2023 Gustavo C. Viegas. All rights reserved.

package node

import (
	"github.com/gviegas/gpb/mesh"
)

// Drawable is implemented by objects that can be attached
// to a node for drawing.
type Drawable interface {
	Node() *Node
	SetNode(n *Node)
}

// MaterialRef names a material within a material file.
// Materials themselves are loaded elsewhere.
type MaterialRef struct {
	Path string
	Name string
}

// URL returns r as "path#name".
func (r MaterialRef) URL() string { return r.Path + "#" + r.Name }

// Model is a drawable mesh with an optional skin and
// material bindings.
type Model struct {
	mesh   *mesh.Mesh
	skin   *MeshSkin
	shared *MaterialRef
	parts  []*MaterialRef
	node   *Node
}

// NewModel creates a new model drawing m.
func NewModel(m *mesh.Mesh) *Model { return &Model{mesh: m} }

// Mesh returns the mesh of m.
func (m *Model) Mesh() *mesh.Mesh { return m.mesh }

// Skin returns the skin of m.
func (m *Model) Skin() *MeshSkin { return m.skin }

// SetSkin sets the skin of m. s may be nil.
func (m *Model) SetSkin(s *MeshSkin) {
	if m.skin != nil {
		m.skin.model = nil
	}
	m.skin = s
	if s != nil {
		s.model = m
	}
}

// SetMaterial binds ref to the given mesh part.
// A negative part binds the material shared by every part.
func (m *Model) SetMaterial(ref MaterialRef, part int) {
	if part < 0 {
		m.shared = &ref
		return
	}
	if m.mesh == nil || part >= m.mesh.PartCount() {
		return
	}
	if len(m.parts) < m.mesh.PartCount() {
		m.parts = append(m.parts, make([]*MaterialRef, m.mesh.PartCount()-len(m.parts))...)
	}
	m.parts[part] = &ref
}

// Material returns the material bound to the given part,
// falling back to the shared material.
func (m *Model) Material(part int) (MaterialRef, bool) {
	if part >= 0 && part < len(m.parts) && m.parts[part] != nil {
		return *m.parts[part], true
	}
	if m.shared != nil {
		return *m.shared, true
	}
	return MaterialRef{}, false
}

// Node implements Drawable.
func (m *Model) Node() *Node { return m.node }

// SetNode implements Drawable.
func (m *Model) SetNode(n *Node) { m.node = n }
