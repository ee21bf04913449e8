// Copyright 2022 Gustavo C. Viegas. All rights reserved.

package mesh

import (
	"github.com/chewxy/math32"

	"github.com/gviegas/gpb/linear"
)

// BoundingBox is an axis-aligned box.
type BoundingBox struct {
	Min, Max linear.V3
}

// IsEmpty checks whether b has no volume and sits at the origin.
func (b *BoundingBox) IsEmpty() bool { return b.Min == b.Max && b.Min == (linear.V3{}) }

// Size returns the extents of b.
func (b *BoundingBox) Size() (s linear.V3) {
	s.Sub(&b.Max, &b.Min)
	return
}

// Center returns the center of b.
func (b *BoundingBox) Center() (c linear.V3) {
	c.Add(&b.Min, &b.Max)
	c.Scale(0.5, &c)
	return
}

// BoundingSphere is a sphere given by its center and radius.
type BoundingSphere struct {
	Center linear.V3
	Radius float32
}

// IsEmpty checks whether s has zero radius and sits at the
// origin.
func (s *BoundingSphere) IsEmpty() bool { return s.Radius == 0 && s.Center == (linear.V3{}) }

// Transform returns s transformed by m.
// The radius is scaled by the largest scale factor of m.
func (s *BoundingSphere) Transform(m *linear.M4) BoundingSphere {
	return BoundingSphere{
		Center: m.Point(&s.Center),
		Radius: s.Radius * m.MaxScale(),
	}
}

// Merge returns the smallest sphere enclosing both s and t.
// Empty spheres are ignored.
func (s *BoundingSphere) Merge(t *BoundingSphere) BoundingSphere {
	switch {
	case t.IsEmpty():
		return *s
	case s.IsEmpty():
		return *t
	}
	var d linear.V3
	d.Sub(&t.Center, &s.Center)
	dist := d.Len()
	if dist+t.Radius <= s.Radius {
		return *s
	}
	if dist+s.Radius <= t.Radius {
		return *t
	}
	r := (dist + s.Radius + t.Radius) * 0.5
	var c linear.V3
	c.Scale((r-s.Radius)/dist, &d)
	c.Add(&s.Center, &c)
	return BoundingSphere{Center: c, Radius: math32.Max(r, 0)}
}
