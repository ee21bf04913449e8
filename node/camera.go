// Copyright 2023 Gustavo C. Viegas. All rights reserved.

package node

import (
	"github.com/chewxy/math32"

	"github.com/gviegas/gpb/linear"
)

// CameraType is the projection type of a camera.
type CameraType uint8

// Camera types.
const (
	Perspective  CameraType = 1
	Orthographic CameraType = 2
)

// Camera defines a view projection.
// It views along -Z of the node it is attached to.
type Camera struct {
	typ          CameraType
	fov          float32
	zoomX, zoomY float32
	aspect       float32
	near, far    float32
	node         *Node
}

// NewPerspective creates a perspective camera.
// fov is the vertical field of view in degrees.
func NewPerspective(fov, aspect, near, far float32) *Camera {
	return &Camera{typ: Perspective, fov: fov, aspect: aspect, near: near, far: far}
}

// NewOrthographic creates an orthographic camera.
func NewOrthographic(zoomX, zoomY, aspect, near, far float32) *Camera {
	return &Camera{typ: Orthographic, zoomX: zoomX, zoomY: zoomY, aspect: aspect, near: near, far: far}
}

// Type returns the projection type of c.
func (c *Camera) Type() CameraType { return c.typ }

// FieldOfView returns the vertical field of view of a
// perspective camera, in degrees.
func (c *Camera) FieldOfView() float32 { return c.fov }

// Zoom returns the zoom factors of an orthographic camera.
func (c *Camera) Zoom() (x, y float32) { return c.zoomX, c.zoomY }

// AspectRatio returns the aspect ratio of c.
func (c *Camera) AspectRatio() float32 { return c.aspect }

// SetAspectRatio sets the aspect ratio of c.
func (c *Camera) SetAspectRatio(a float32) { c.aspect = a }

// Clip returns the near and far clip distances of c.
func (c *Camera) Clip() (near, far float32) { return c.near, c.far }

// Node returns the node that c is attached to.
func (c *Camera) Node() *Node { return c.node }

// Projection returns the projection matrix of c.
func (c *Camera) Projection() (m linear.M4) {
	n, f := c.near, c.far
	switch c.typ {
	case Perspective:
		t := 1 / math32.Tan(c.fov*math32.Pi/360)
		m[0][0] = t / c.aspect
		m[1][1] = t
		m[2][2] = (f + n) / (n - f)
		m[2][3] = -1
		m[3][2] = 2 * f * n / (n - f)
	case Orthographic:
		m[0][0] = 2 / c.zoomX
		m[1][1] = 2 / c.zoomY
		m[2][2] = 2 / (n - f)
		m[3][2] = (f + n) / (n - f)
		m[3][3] = 1
	default:
		m.I()
	}
	return
}
