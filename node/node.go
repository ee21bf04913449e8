// Copyright 2023 Gustavo C. Viegas. All rights reserved.

// Package node implements the scene's graph.
package node

import (
	"strings"

	"github.com/gviegas/gpb/anim"
	"github.com/gviegas/gpb/linear"
	"github.com/gviegas/gpb/mesh"
)

// Type is the type of a node.
type Type int

// Node types.
const (
	TypeNode  Type = 1
	TypeJoint Type = 2
)

type dirtyBits uint8

const (
	dirtyWorld dirtyBits = 1 << iota
	dirtyBounds
)

// TransformListener is notified whenever the transform of a
// node it listens to changes.
type TransformListener interface {
	TransformChanged(n *Node, cookie int)
}

type listener struct {
	l      TransformListener
	cookie int
}

// Node represents a single node in a scene graph.
// Nodes have at most one immediate ancestor and
// an arbitrary number of immediate descendants, kept in
// insertion order. Node identifiers need not be unique.
type Node struct {
	id    string
	typ   Type
	joint *Joint

	parent      *Node
	scene       *Scene
	first, last *Node
	next, prev  *Node
	childCount  int

	scale, trans linear.V3
	rot          linear.Q
	world        linear.M4
	bounds       mesh.BoundingSphere
	dirty        dirtyBits
	listeners    []listener

	camera    *Camera
	light     *Light
	drawable  Drawable
	collision *CollisionObject
	enabled   bool
	tags      map[string]string
	anims     []*anim.Animation
}

// New creates a new node.
func New(id string) *Node {
	n := new(Node)
	n.init(id, TypeNode)
	return n
}

func (n *Node) init(id string, typ Type) {
	n.id = id
	n.typ = typ
	n.scale = linear.V3{1, 1, 1}
	n.rot.I()
	n.world.I()
	n.dirty = dirtyWorld | dirtyBounds
	n.enabled = true
}

// ID returns the identifier of n.
func (n *Node) ID() string { return n.id }

// SetID sets the identifier of n.
func (n *Node) SetID(id string) { n.id = id }

// Type returns the type of n.
func (n *Node) Type() Type { return n.typ }

// Joint returns the joint that n is part of, or nil if n
// is not a joint.
func (n *Node) Joint() *Joint { return n.joint }

// Parent returns the immediate ancestor of n.
func (n *Node) Parent() *Node { return n.parent }

// FirstChild returns the first immediate descendant of n.
func (n *Node) FirstChild() *Node { return n.first }

// NextSibling returns the next sibling of n.
// For top-level scene nodes, this is the next node in the
// scene.
func (n *Node) NextSibling() *Node { return n.next }

// PrevSibling returns the previous sibling of n.
func (n *Node) PrevSibling() *Node { return n.prev }

// ChildCount returns the number of immediate descendants of n.
func (n *Node) ChildCount() int { return n.childCount }

// Root returns the topmost ancestor of n, or n itself.
func (n *Node) Root() *Node {
	for n.parent != nil {
		n = n.parent
	}
	return n
}

// Scene returns the scene that contains n's hierarchy.
func (n *Node) Scene() *Scene { return n.Root().scene }

// IsAncestorOf checks whether n is an ancestor of m.
func (n *Node) IsAncestorOf(m *Node) bool {
	for p := m.parent; p != nil; p = p.parent {
		if p == n {
			return true
		}
	}
	return false
}

func unlink(first, last **Node, n *Node) {
	if n.prev != nil {
		n.prev.next = n.next
	} else {
		*first = n.next
	}
	if n.next != nil {
		n.next.prev = n.prev
	} else {
		*last = n.prev
	}
	n.next, n.prev = nil, nil
}

// linkBefore links n right before next, or last if next
// is nil.
func linkBefore(first, last **Node, n, next *Node) {
	if next == nil {
		link(first, last, n)
		return
	}
	n.next = next
	n.prev = next.prev
	if next.prev != nil {
		next.prev.next = n
	} else {
		*first = n
	}
	next.prev = n
}

func link(first, last **Node, n *Node) {
	n.prev = *last
	n.next = nil
	if *last != nil {
		(*last).next = n
	} else {
		*first = n
	}
	*last = n
}

// AddChild appends c as the last immediate descendant of n.
// c is removed from its current parent or scene first.
// c must not be n or an ancestor of n; such calls are
// ignored.
func (n *Node) AddChild(c *Node) {
	if c == nil || c == n || c.parent == n || c.IsAncestorOf(n) {
		return
	}
	c.Remove()
	c.parent = n
	link(&n.first, &n.last, c)
	n.childCount++
	c.parentChanged(nil)
	c.transformChanged()
}

// RemoveChild removes c from n's immediate descendants.
// It does nothing if c is not a child of n.
func (n *Node) RemoveChild(c *Node) {
	if c != nil && c.parent == n {
		c.Remove()
	}
}

// RemoveAllChildren removes every immediate descendant of n.
func (n *Node) RemoveAllChildren() {
	for n.first != nil {
		n.first.Remove()
	}
}

// Remove detaches n from its parent, or from its scene if n
// is a top-level node.
func (n *Node) Remove() {
	switch {
	case n.parent != nil:
		p := n.parent
		unlink(&p.first, &p.last, n)
		p.childCount--
		n.parent = nil
		n.parentChanged(p)
		n.transformChanged()
		p.invalidateBounds()
	case n.scene != nil:
		n.scene.RemoveNode(n)
	}
}

// parentChanged moves the listeners of skins rooted at n
// from old to n's current parent.
func (n *Node) parentChanged(old *Node) {
	if n.joint == nil {
		return
	}
	for _, s := range n.joint.Skins() {
		if s.rootJoint != n.joint {
			continue
		}
		if old != nil {
			old.RemoveListener(s, rootJointCookie)
		}
		if n.parent != nil {
			n.parent.AddListener(s, rootJointCookie)
		}
	}
}

// detachedSkinRoot returns the root node of n's skin when
// it is not reachable through the regular hierarchy.
func (n *Node) detachedSkinRoot() *Node {
	m := n.Model()
	if m == nil || m.skin == nil {
		return nil
	}
	r := m.skin.rootNode
	if r == nil || r.parent != nil || r.scene != nil || n.Root() == r {
		return nil
	}
	return r
}

func match(n *Node, id string, exact bool) bool {
	if exact {
		return n.id == id
	}
	return strings.HasPrefix(n.id, id)
}

// FindNode returns the first descendant of n whose
// identifier is id (if exact) or begins with id.
// Immediate descendants are checked before deeper ones.
// The joint hierarchy of a skinned model is searched
// as well.
func (n *Node) FindNode(id string, recursive, exact bool) *Node {
	if r := n.detachedSkinRoot(); r != nil {
		if match(r, id, exact) {
			return r
		}
		if m := r.FindNode(id, true, exact); m != nil {
			return m
		}
	}
	for c := n.first; c != nil; c = c.next {
		if match(c, id, exact) {
			return c
		}
	}
	if recursive {
		for c := n.first; c != nil; c = c.next {
			if m := c.FindNode(id, true, exact); m != nil {
				return m
			}
		}
	}
	return nil
}

// FindNodes returns every descendant of n that FindNode
// would consider a match, in the same order.
func (n *Node) FindNodes(id string, recursive, exact bool) (nodes []*Node) {
	if r := n.detachedSkinRoot(); r != nil {
		if match(r, id, exact) {
			nodes = append(nodes, r)
		}
		nodes = append(nodes, r.FindNodes(id, true, exact)...)
	}
	for c := n.first; c != nil; c = c.next {
		if match(c, id, exact) {
			nodes = append(nodes, c)
		}
	}
	if recursive {
		for c := n.first; c != nil; c = c.next {
			nodes = append(nodes, c.FindNodes(id, true, exact)...)
		}
	}
	return
}

// ForEach calls f for each descendant of node n.
// Ancestors are processed first. If f returns false,
// ForEach returns immediately.
// The graph must not be changed until this method returns.
func (n *Node) ForEach(f func(*Node) bool) {
	if n.first == nil {
		return
	}
	que := []*Node{n.first}
	for len(que) > 0 {
		for nd := que[0]; nd != nil; nd = nd.next {
			if !f(nd) {
				return
			}
			if sub := nd.first; sub != nil {
				que = append(que, sub)
			}
		}
		que = que[1:]
	}
}

// Camera returns the camera attached to n.
func (n *Node) Camera() *Camera { return n.camera }

// SetCamera attaches c to n, detaching it from any other
// node. c may be nil.
func (n *Node) SetCamera(c *Camera) {
	if n.camera == c {
		return
	}
	if n.camera != nil {
		n.camera.node = nil
	}
	if c != nil && c.node != nil {
		c.node.camera = nil
	}
	n.camera = c
	if c != nil {
		c.node = n
	}
}

// Light returns the light attached to n.
func (n *Node) Light() *Light { return n.light }

// SetLight attaches l to n, detaching it from any other
// node. l may be nil.
func (n *Node) SetLight(l *Light) {
	if n.light == l {
		return
	}
	if n.light != nil {
		n.light.node = nil
	}
	if l != nil && l.node != nil {
		l.node.light = nil
	}
	n.light = l
	if l != nil {
		l.node = n
	}
}

// Drawable returns the drawable attached to n.
func (n *Node) Drawable() Drawable { return n.drawable }

// SetDrawable attaches d to n. d may be nil.
func (n *Node) SetDrawable(d Drawable) {
	if n.drawable != nil {
		n.drawable.SetNode(nil)
	}
	n.drawable = d
	if d != nil {
		if o := d.Node(); o != nil && o != n {
			o.drawable = nil
			o.invalidateBounds()
		}
		d.SetNode(n)
	}
	n.invalidateBounds()
}

// Model returns the drawable of n if it is a Model.
func (n *Node) Model() *Model {
	m, _ := n.drawable.(*Model)
	return m
}

// CollisionObject returns the collision object of n.
func (n *Node) CollisionObject() *CollisionObject { return n.collision }

// SetCollisionObject sets the collision object of n.
func (n *Node) SetCollisionObject(c *CollisionObject) {
	if n.collision != nil {
		n.collision.node = nil
	}
	n.collision = c
	if c != nil {
		c.node = n
	}
}

// Enabled returns whether n is enabled.
func (n *Node) Enabled() bool { return n.enabled }

// SetEnabled enables or disables n.
func (n *Node) SetEnabled(enabled bool) { n.enabled = enabled }

// Tag returns the value of a tag.
func (n *Node) Tag(name string) (value string, ok bool) {
	value, ok = n.tags[name]
	return
}

// SetTag sets the value of a tag.
func (n *Node) SetTag(name, value string) {
	if n.tags == nil {
		n.tags = make(map[string]string)
	}
	n.tags[name] = value
}

// RemoveTag removes a tag.
func (n *Node) RemoveTag(name string) { delete(n.tags, name) }

// Animations returns the animations that were loaded
// alongside n.
func (n *Node) Animations() []*anim.Animation { return n.anims }

// AddAnimation adds a to n's animations.
func (n *Node) AddAnimation(a *anim.Animation) { n.anims = append(n.anims, a) }
