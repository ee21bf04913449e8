// Copyright 2023 Gustavo C. Viegas. All rights reserved.

package node

import (
	"iter"

	"github.com/gviegas/gpb/anim"
	"github.com/gviegas/gpb/linear"
)

// Scene is an ordered list of top-level nodes plus the
// scene-wide state.
type Scene struct {
	id          string
	first, last *Node
	count       int
	active      *Camera
	ambient     linear.V3
	anims       []*anim.Animation
}

// NewScene creates a new, empty scene.
func NewScene() *Scene { return new(Scene) }

// ID returns the identifier of s.
func (s *Scene) ID() string { return s.id }

// SetID sets the identifier of s.
func (s *Scene) SetID(id string) { s.id = id }

// AddNode appends n to the top-level nodes of s.
// n is removed from its current parent or scene first.
func (s *Scene) AddNode(n *Node) {
	if n == nil || n.scene == s {
		return
	}
	n.Remove()
	n.scene = s
	link(&s.first, &s.last, n)
	s.count++
}

// InsertNode inserts n in the top-level nodes of s, right
// before next. If next is not a top-level node of s, n is
// appended instead.
func (s *Scene) InsertNode(n, next *Node) {
	if n == nil || n.scene == s || n == next {
		return
	}
	n.Remove()
	if next != nil && next.scene != s {
		next = nil
	}
	n.scene = s
	linkBefore(&s.first, &s.last, n, next)
	s.count++
}

// RemoveNode removes n from the top-level nodes of s.
// It does nothing unless n is a direct top-level node of s.
func (s *Scene) RemoveNode(n *Node) {
	if n == nil || n.scene != s {
		return
	}
	unlink(&s.first, &s.last, n)
	n.scene = nil
	s.count--
}

// RemoveAllNodes removes every top-level node of s.
func (s *Scene) RemoveAllNodes() {
	for s.first != nil {
		s.RemoveNode(s.first)
	}
}

// NodeCount returns the number of top-level nodes in s.
func (s *Scene) NodeCount() int { return s.count }

// FirstNode returns the first top-level node of s.
func (s *Scene) FirstNode() *Node { return s.first }

// Nodes returns an iterator over the top-level nodes of s.
func (s *Scene) Nodes() iter.Seq[*Node] {
	return func(yield func(*Node) bool) {
		for n := s.first; n != nil; {
			next := n.next
			if !yield(n) {
				return
			}
			n = next
		}
	}
}

// FindNode returns the first node in s whose identifier is
// id (if exact) or begins with id.
// Top-level nodes are checked before their descendants.
func (s *Scene) FindNode(id string, recursive, exact bool) *Node {
	for n := s.first; n != nil; n = n.next {
		if match(n, id, exact) {
			return n
		}
	}
	if recursive {
		for n := s.first; n != nil; n = n.next {
			if m := n.FindNode(id, true, exact); m != nil {
				return m
			}
		}
	}
	return nil
}

// FindNodes returns every node that FindNode would
// consider a match.
func (s *Scene) FindNodes(id string, recursive, exact bool) (nodes []*Node) {
	for n := s.first; n != nil; n = n.next {
		if match(n, id, exact) {
			nodes = append(nodes, n)
		}
	}
	if recursive {
		for n := s.first; n != nil; n = n.next {
			nodes = append(nodes, n.FindNodes(id, true, exact)...)
		}
	}
	return
}

// Visit calls f for every node of s, depth first, parents
// before children. Detached joint hierarchies of skinned
// models are visited right after their model's node.
// If f returns false, Visit returns immediately.
func (s *Scene) Visit(f func(*Node) bool) {
	for n := s.first; n != nil; n = n.next {
		if !visit(n, f) {
			return
		}
	}
}

func visit(n *Node, f func(*Node) bool) bool {
	if !f(n) {
		return false
	}
	if r := n.detachedSkinRoot(); r != nil {
		if !visit(r, f) {
			return false
		}
	}
	for c := n.first; c != nil; c = c.next {
		if !visit(c, f) {
			return false
		}
	}
	return true
}

// ActiveCamera returns the active camera of s.
func (s *Scene) ActiveCamera() *Camera { return s.active }

// SetActiveCamera sets the active camera of s.
func (s *Scene) SetActiveCamera(c *Camera) { s.active = c }

// AmbientColor returns the ambient light color of s.
func (s *Scene) AmbientColor() linear.V3 { return s.ambient }

// SetAmbientColor sets the ambient light color of s.
func (s *Scene) SetAmbientColor(c *linear.V3) { s.ambient = *c }

// Animations returns the animations of s.
func (s *Scene) Animations() []*anim.Animation { return s.anims }

// AddAnimation adds a to s.
func (s *Scene) AddAnimation(a *anim.Animation) { s.anims = append(s.anims, a) }

// Animation returns the animation of s with the given
// identifier, or nil.
func (s *Scene) Animation(id string) *anim.Animation {
	for _, a := range s.anims {
		if a.ID() == id {
			return a
		}
	}
	return nil
}
