// Copyright 2023 Gustavo C. Viegas. All rights reserved.

package node

import (
	"github.com/chewxy/math32"

	"github.com/gviegas/gpb/linear"
)

// LightType is the type of a light source.
type LightType uint8

// Light types.
const (
	Directional LightType = 1
	Point       LightType = 2
	Spot        LightType = 3
)

// Light defines a light source.
// Directional and spot lights shine along -Z of the node
// they are attached to.
type Light struct {
	typ          LightType
	color        linear.V3
	rng          float32
	inner, outer float32
	node         *Node
}

// NewDirectional creates a directional light.
func NewDirectional(color *linear.V3) *Light {
	return &Light{typ: Directional, color: *color}
}

// NewPoint creates a point light.
// A range of 0 or less indicates an infinite range.
func NewPoint(color *linear.V3, rng float32) *Light {
	return &Light{typ: Point, color: *color, rng: rng}
}

// NewSpot creates a spot light.
// The cone angles are in radians and are adjusted as per
// Light.SetConeAngles.
func NewSpot(color *linear.V3, rng, inner, outer float32) *Light {
	l := &Light{typ: Spot, color: *color, rng: rng}
	l.SetConeAngles(inner, outer)
	return l
}

// Type returns the type of l.
func (l *Light) Type() LightType { return l.typ }

// Color returns the RGB color of l.
func (l *Light) Color() linear.V3 { return l.color }

// SetColor sets the RGB color of l.
func (l *Light) SetColor(c *linear.V3) { l.color = *c }

// Range returns the falloff range of l.
// Only applies to point and spot lights.
func (l *Light) Range() float32 { return l.rng }

// SetRange sets the falloff range of l.
// Only applies to point and spot lights.
func (l *Light) SetRange(r float32) { l.rng = r }

// SetConeAngles sets the inner/outer cone angles of l.
// Cone angles that exceed π/2, or that are less
// than zero, will be clamped. The inner angle will be
// adjusted such that it is less than the outer angle.
// Only applies to spot lights.
func (l *Light) SetConeAngles(inner, outer float32) {
	l.inner = max(0, min(inner, math32.Pi/2-1e-6))
	l.outer = max(l.inner+1e-6, min(outer, math32.Pi/2))
}

// ConeAngles returns the clamped inner/outer cone angles of l.
func (l *Light) ConeAngles() (inner, outer float32) { return l.inner, l.outer }

// Node returns the node that l is attached to.
func (l *Light) Node() *Node { return l.node }

// Direction returns the world-space direction of l.
func (l *Light) Direction() linear.V3 {
	if l.node == nil {
		return linear.V3{0, 0, -1}
	}
	w := l.node.World()
	d := linear.V3{-w[2][0], -w[2][1], -w[2][2]}
	d.Norm(&d)
	return d
}

// Position returns the world-space position of l.
func (l *Light) Position() linear.V3 {
	if l.node == nil {
		return linear.V3{}
	}
	w := l.node.World()
	return linear.V3{w[3][0], w[3][1], w[3][2]}
}
