// Copyright 2023 Gustavo C. Viegas. All rights reserved.

package scene

import (
	"maps"
	"slices"
	"strings"

	"github.com/chewxy/math32"

	"github.com/gviegas/gpb"
	"github.com/gviegas/gpb/linear"
	"github.com/gviegas/gpb/node"
)

var (
	lightTypes = map[string]node.LightType{
		"directional": node.Directional,
		"point":       node.Point,
		"spot":        node.Spot,
	}
	cameraTypes = map[string]node.CameraType{
		"perspective":  node.Perspective,
		"orthographic": node.Orthographic,
	}
	collisionTypes = map[string]node.CollisionType{
		"rigidbody": node.RigidBody,
		"ghost":     node.GhostObject,
		"character": node.Character,
	}
	shapeTypes = map[string]node.ShapeType{
		"box":     node.Box,
		"sphere":  node.Sphere,
		"capsule": node.Capsule,
		"mesh":    node.MeshShape,
	}
)

const deg = math32.Pi / 180

// applyProperties applies every property of b's description
// except collision.
func (c *composer) applyProperties(b binding) {
	nd, n := b.desc, b.node
	if t := nd.Transform; t != nil {
		if t.Translate != nil {
			v := n.Translation()
			v.Add(&v, (*linear.V3)(t.Translate))
			n.SetTranslation(&v)
		}
		if t.Rotate != nil {
			var q linear.Q
			axis := linear.V3(t.Rotate.Axis)
			q.Rotate(t.Rotate.Angle*deg, &axis)
			r := n.Rotation()
			r.Mul(&r, &q)
			n.SetRotation(&r)
		}
		if t.Scale != nil {
			s := n.Scale()
			s.Mul(&s, (*linear.V3)(t.Scale))
			n.SetScale(&s)
		}
	}
	if nd.Material != "" {
		c.applyMaterial(n, nd.Material)
	}
	if l := nd.Light; l != nil {
		color := linear.V3(l.Color)
		switch lightTypes[l.Type] {
		case node.Directional:
			n.SetLight(node.NewDirectional(&color))
		case node.Point:
			n.SetLight(node.NewPoint(&color, l.Range))
		case node.Spot:
			n.SetLight(node.NewSpot(&color, l.Range, l.Inner*deg, l.Outer*deg))
		}
	}
	if k := nd.Camera; k != nil {
		if cameraTypes[k.Type] == node.Perspective {
			n.SetCamera(node.NewPerspective(k.FieldOfView, k.AspectRatio, k.Near, k.Far))
		} else {
			n.SetCamera(node.NewOrthographic(k.ZoomX, k.ZoomY, k.AspectRatio, k.Near, k.Far))
		}
	}
	if nd.Enabled != nil {
		n.SetEnabled(*nd.Enabled)
	}
	for k, v := range nd.Tags {
		n.SetTag(k, v)
	}
	for _, kind := range slices.Sorted(maps.Keys(nd.Components)) {
		f, ok := c.l.components[kind]
		if !ok {
			gpb.Logger().Warn("scene: no handler for component", "node", n.ID(), "kind", kind)
			continue
		}
		if err := f(n, nd.Components[kind]); err != nil {
			gpb.Logger().Warn("scene: component failed", "node", n.ID(), "kind", kind, "err", err)
		}
	}
}

// applyMaterial binds a material to every part of n's
// model. A bare name refers to the base bundle's material
// file.
func (c *composer) applyMaterial(n *node.Node, url string) {
	m := n.Model()
	if m == nil {
		gpb.Logger().Warn("scene: material set on a node without model", "node", n.ID(), "material", url)
		return
	}
	path, name, ok := strings.Cut(url, "#")
	if !ok {
		name, path = url, ""
		if c.base != nil {
			path = c.base.MaterialPath()
		}
		if path == "" {
			gpb.Logger().Warn("scene: no material file for material", "node", n.ID(), "material", url)
			return
		}
	}
	m.SetMaterial(node.MaterialRef{Path: path, Name: name}, -1)
}

func (c *composer) applyCollision(b binding) {
	cd, n := b.desc.Collision, b.node
	shape, ok := collisionShape(n, cd)
	if !ok {
		gpb.Logger().Warn("scene: collision shape needs mesh bounds", "node", n.ID(), "shape", cd.Shape)
		return
	}
	n.SetCollisionObject(&node.CollisionObject{
		Type:  collisionTypes[cd.Type],
		Shape: shape,
		Mass:  cd.Mass,
	})
}

// collisionShape derives the dimensions that cd does not
// give from the bounds of n's mesh, scaled by n's world
// scale.
func collisionShape(n *node.Node, cd *Collision) (shape node.CollisionShape, ok bool) {
	shape.Type = shapeTypes[cd.Shape]
	world := n.World()
	_, _, scale := world.Decompose()

	m := n.Model()
	hasMesh := m != nil && m.Mesh() != nil
	var size, boxCenter, sphereCenter linear.V3
	var radius float32
	if hasMesh {
		msh := m.Mesh()
		size = msh.Box.Size()
		size.Mul(&size, &scale)
		boxCenter = msh.Box.Center()
		boxCenter.Mul(&boxCenter, &scale)
		sphereCenter.Mul(&msh.Sphere.Center, &scale)
		radius = msh.Sphere.Radius * scale.Max()
	}

	derived := false
	switch shape.Type {
	case node.Box:
		shape.Center = boxCenter
		shape.Extents = size
		derived = cd.Extents == nil
	case node.Sphere:
		shape.Center = sphereCenter
		shape.Radius = radius
		derived = cd.Radius == nil
	case node.Capsule:
		shape.Center = boxCenter
		shape.Radius = max(size[0], size[2]) / 2
		shape.Height = size[1]
		derived = cd.Radius == nil || cd.Height == nil
	case node.MeshShape:
		derived = true
	}
	if derived && !hasMesh {
		return shape, false
	}
	if cd.Center != nil {
		shape.Center = linear.V3(*cd.Center)
	}
	if cd.Extents != nil {
		shape.Extents = linear.V3(*cd.Extents)
	}
	if cd.Radius != nil {
		shape.Radius = *cd.Radius
	}
	if cd.Height != nil {
		shape.Height = *cd.Height
	}
	return shape, true
}
