// Copyright 2023 Gustavo C. Viegas. All rights reserved.

package node

import (
	"github.com/gviegas/gpb/anim"
	"github.com/gviegas/gpb/linear"
	"github.com/gviegas/gpb/mesh"
)

// Scale returns the local scale of n.
func (n *Node) Scale() linear.V3 { return n.scale }

// Rotation returns the local rotation of n.
func (n *Node) Rotation() linear.Q { return n.rot }

// Translation returns the local translation of n.
func (n *Node) Translation() linear.V3 { return n.trans }

// SetScale sets the local scale of n.
func (n *Node) SetScale(s *linear.V3) {
	n.scale = *s
	n.transformChanged()
}

// SetRotation sets the local rotation of n.
func (n *Node) SetRotation(r *linear.Q) {
	n.rot = *r
	n.transformChanged()
}

// SetTranslation sets the local translation of n.
func (n *Node) SetTranslation(t *linear.V3) {
	n.trans = *t
	n.transformChanged()
}

// SetTransform sets the local transform of n from m.
func (n *Node) SetTransform(m *linear.M4) {
	n.trans, n.rot, n.scale = m.Decompose()
	n.transformChanged()
}

// Local returns the local transform of n.
func (n *Node) Local() (m linear.M4) {
	m.Compose(&n.trans, &n.rot, &n.scale)
	return
}

// World returns the world transform of n.
func (n *Node) World() linear.M4 {
	if n.dirty&dirtyWorld != 0 {
		l := n.Local()
		if n.parent != nil {
			w := n.parent.World()
			n.world.Mul(&w, &l)
		} else {
			n.world = l
		}
		n.dirty &^= dirtyWorld
	}
	return n.world
}

// AddListener registers l to be notified of transform changes
// of n, with the given cookie.
func (n *Node) AddListener(l TransformListener, cookie int) {
	n.listeners = append(n.listeners, listener{l, cookie})
}

// RemoveListener unregisters the l/cookie pair.
func (n *Node) RemoveListener(l TransformListener, cookie int) {
	for i, x := range n.listeners {
		if x.l == l && x.cookie == cookie {
			n.listeners = append(n.listeners[:i], n.listeners[i+1:]...)
			return
		}
	}
}

// HasListener checks whether the l/cookie pair is registered.
func (n *Node) HasListener(l TransformListener, cookie int) bool {
	for _, x := range n.listeners {
		if x.l == l && x.cookie == cookie {
			return true
		}
	}
	return false
}

func (n *Node) transformChanged() {
	n.dirty |= dirtyWorld
	n.invalidateBounds()
	if n.joint != nil {
		n.joint.matrixDirty = true
	}
	for c := n.first; c != nil; c = c.next {
		c.transformChanged()
	}
	for _, x := range n.listeners {
		x.l.TransformChanged(n, x.cookie)
	}
}

// invalidateBounds marks the bounds of n and every ancestor
// of n as out of date.
func (n *Node) invalidateBounds() {
	for p := n; p != nil; p = p.parent {
		p.dirty |= dirtyBounds
	}
}

// BoundsDirty returns whether n's bounding sphere needs to
// be recomputed.
func (n *Node) BoundsDirty() bool { return n.dirty&dirtyBounds != 0 }

// BoundingSphere returns the world-space bounding sphere of
// n's model merged with those of its descendants.
// Skinned models are placed by their root joint's parent.
func (n *Node) BoundingSphere() mesh.BoundingSphere {
	if n.dirty&dirtyBounds == 0 {
		return n.bounds
	}
	var s mesh.BoundingSphere
	if m := n.Model(); m != nil && m.mesh != nil {
		var w linear.M4
		if sk := m.skin; sk != nil && sk.rootJoint != nil {
			if p := sk.rootJoint.parent; p != nil {
				w = p.World()
			} else {
				w.I()
			}
		} else {
			w = n.World()
		}
		s = m.mesh.Sphere.Transform(&w)
	}
	for c := n.first; c != nil; c = c.next {
		cs := c.BoundingSphere()
		s = s.Merge(&cs)
	}
	n.bounds = s
	n.dirty &^= dirtyBounds
	return s
}

// SetAnimationValue implements anim.Target.
func (n *Node) SetAnimationValue(a anim.Attribute, v []float32) {
	q := func(v []float32) linear.Q { return linear.Q{V: linear.V3{v[0], v[1], v[2]}, R: v[3]} }
	v3 := func(v []float32) linear.V3 { return linear.V3{v[0], v[1], v[2]} }
	switch a {
	case anim.ScaleUnit:
		n.scale = linear.V3{v[0], v[0], v[0]}
	case anim.Scale:
		n.scale = v3(v)
	case anim.ScaleX, anim.ScaleY, anim.ScaleZ:
		n.scale[a-anim.ScaleX] = v[0]
	case anim.Rotate:
		n.rot = q(v)
	case anim.Translate:
		n.trans = v3(v)
	case anim.TranslateX, anim.TranslateY, anim.TranslateZ:
		n.trans[a-anim.TranslateX] = v[0]
	case anim.RotateTranslate:
		n.rot, n.trans = q(v), v3(v[4:])
	case anim.ScaleRotateTranslate:
		n.scale, n.rot, n.trans = v3(v), q(v[3:]), v3(v[7:])
	case anim.ScaleTranslate:
		n.scale, n.trans = v3(v), v3(v[3:])
	case anim.ScaleRotate:
		n.scale, n.rot = v3(v), q(v[3:])
	default:
		return
	}
	n.transformChanged()
}
