// Copyright 2023 Gustavo C. Viegas. All rights reserved.

package node

import (
	"github.com/gviegas/gpb/linear"
)

// CollisionType is the kind of a collision object.
type CollisionType int

// Collision types.
const (
	RigidBody CollisionType = iota
	GhostObject
	Character
)

// ShapeType is the kind of a collision shape.
type ShapeType int

// Shape types.
const (
	Box ShapeType = iota
	Sphere
	Capsule
	MeshShape
)

// CollisionShape describes the volume of a collision object
// in the space of its node.
type CollisionShape struct {
	Type    ShapeType
	Center  linear.V3
	Extents linear.V3
	Radius  float32
	Height  float32
}

// CollisionObject describes how a node takes part in
// physics simulation. Simulation happens elsewhere.
type CollisionObject struct {
	Type  CollisionType
	Shape CollisionShape
	Mass  float32
	node  *Node
}

// Node returns the node that c is attached to.
func (c *CollisionObject) Node() *Node { return c.node }
