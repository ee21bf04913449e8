// Copyright 2022 Gustavo C. Viegas. All rights reserved.

package linear

import (
	"github.com/chewxy/math32"
)

// Q is a quaternion of float32.
type Q struct {
	V V3
	R float32
}

// I makes q an identity quaternion.
func (q *Q) I() { *q = Q{R: 1} }

// Mul sets q to contain l ⋅ r.
func (q *Q) Mul(l, r *Q) {
	var v, w V3
	v.Scale(r.R, &l.V)
	w.Scale(l.R, &r.V)
	v.Add(&v, &w)
	w.Cross(&l.V, &r.V)
	d := l.V.Dot(&r.V)
	q.V.Add(&v, &w)
	q.R = l.R*r.R - d
}

// Dot returns q ⋅ p.
func (q *Q) Dot(p *Q) float32 { return q.V.Dot(&p.V) + q.R*p.R }

// Norm sets q to contain p normalized.
// A zero p yields the identity.
func (q *Q) Norm(p *Q) {
	l := math32.Sqrt(p.Dot(p))
	if l == 0 {
		q.I()
		return
	}
	q.V.Scale(1/l, &p.V)
	q.R = p.R / l
}

// Rotate sets q to contain a rotation of angle radians
// about axis.
func (q *Q) Rotate(angle float32, axis *V3) {
	var n V3
	n.Norm(axis)
	s, c := math32.Sincos(angle * 0.5)
	q.V.Scale(s, &n)
	q.R = c
}

// FromM4 sets q to contain the rotation of the upper-left
// 3x3 part of m, which must be orthonormal.
func (q *Q) FromM4(m *M4) {
	tr := m[0][0] + m[1][1] + m[2][2]
	switch {
	case tr > 0:
		s := 0.5 / math32.Sqrt(tr+1)
		q.R = 0.25 / s
		q.V = V3{(m[1][2] - m[2][1]) * s, (m[2][0] - m[0][2]) * s, (m[0][1] - m[1][0]) * s}
	case m[0][0] > m[1][1] && m[0][0] > m[2][2]:
		s := 2 * math32.Sqrt(1+m[0][0]-m[1][1]-m[2][2])
		q.R = (m[1][2] - m[2][1]) / s
		q.V = V3{0.25 * s, (m[1][0] + m[0][1]) / s, (m[2][0] + m[0][2]) / s}
	case m[1][1] > m[2][2]:
		s := 2 * math32.Sqrt(1+m[1][1]-m[0][0]-m[2][2])
		q.R = (m[2][0] - m[0][2]) / s
		q.V = V3{(m[1][0] + m[0][1]) / s, 0.25 * s, (m[2][1] + m[1][2]) / s}
	default:
		s := 2 * math32.Sqrt(1+m[2][2]-m[0][0]-m[1][1])
		q.R = (m[0][1] - m[1][0]) / s
		q.V = V3{(m[2][0] + m[0][2]) / s, (m[2][1] + m[1][2]) / s, 0.25 * s}
	}
	q.Norm(q)
}

// Nlerp sets q to contain the normalized linear interpolation
// between l and r at t, taking the shortest path.
func (q *Q) Nlerp(l, r *Q, t float32) {
	s := float32(1)
	if l.Dot(r) < 0 {
		s = -1
	}
	var p Q
	for i := range p.V {
		p.V[i] = l.V[i] + (s*r.V[i]-l.V[i])*t
	}
	p.R = l.R + (s*r.R-l.R)*t
	q.Norm(&p)
}
