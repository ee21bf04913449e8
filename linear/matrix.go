// Copyright 2022 Gustavo C. Viegas. All rights reserved.

package linear

import (
	"github.com/chewxy/math32"
)

// M4 is a column-major 4x4 matrix of float32.
type M4 [4]V4

// FromArray returns the matrix whose column-major elements
// are given by a.
func FromArray(a *[16]float32) (m M4) {
	for i := range m {
		copy(m[i][:], a[i*4:i*4+4])
	}
	return
}

// Array returns the column-major elements of m.
func (m *M4) Array() (a [16]float32) {
	for i := range m {
		copy(a[i*4:i*4+4], m[i][:])
	}
	return
}

// I makes m an identity matrix.
func (m *M4) I() { *m = M4{{1}, {0, 1}, {0, 0, 1}, {0, 0, 0, 1}} }

// IsI checks whether m is an identity matrix.
func (m *M4) IsI() bool {
	var i M4
	i.I()
	return *m == i
}

// Mul sets m to contain l ⋅ r.
func (m *M4) Mul(l, r *M4) {
	var n M4
	for i := range n {
		for j := range n {
			for k := range n {
				n[i][j] += l[k][j] * r[i][k]
			}
		}
	}
	*m = n
}

// MulV returns m ⋅ v.
func (m *M4) MulV(v *V4) (u V4) {
	for i := range m {
		for j := range u {
			u[j] += m[i][j] * v[i]
		}
	}
	return
}

// Point returns the point p transformed by m.
func (m *M4) Point(p *V3) V3 {
	u := m.MulV(&V4{p[0], p[1], p[2], 1})
	return V3{u[0], u[1], u[2]}
}

// Transpose sets m to contain the transpose of n.
func (m *M4) Transpose(n *M4) {
	var t M4
	for i := range t {
		for j := range t {
			t[i][j] = n[j][i]
		}
	}
	*m = t
}

// Invert sets m to contain the inverse of n.
// n must be invertible.
func (m *M4) Invert(n *M4) {
	s0 := n[0][0]*n[1][1] - n[0][1]*n[1][0]
	s1 := n[0][0]*n[1][2] - n[0][2]*n[1][0]
	s2 := n[0][0]*n[1][3] - n[0][3]*n[1][0]
	s3 := n[0][1]*n[1][2] - n[0][2]*n[1][1]
	s4 := n[0][1]*n[1][3] - n[0][3]*n[1][1]
	s5 := n[0][2]*n[1][3] - n[0][3]*n[1][2]
	c0 := n[2][0]*n[3][1] - n[2][1]*n[3][0]
	c1 := n[2][0]*n[3][2] - n[2][2]*n[3][0]
	c2 := n[2][0]*n[3][3] - n[2][3]*n[3][0]
	c3 := n[2][1]*n[3][2] - n[2][2]*n[3][1]
	c4 := n[2][1]*n[3][3] - n[2][3]*n[3][1]
	c5 := n[2][2]*n[3][3] - n[2][3]*n[3][2]
	idet := 1 / (s0*c5 - s1*c4 + s2*c3 + s3*c2 - s4*c1 + s5*c0)
	var r M4
	r[0][0] = (c5*n[1][1] - c4*n[1][2] + c3*n[1][3]) * idet
	r[0][1] = (-c5*n[0][1] + c4*n[0][2] - c3*n[0][3]) * idet
	r[0][2] = (s5*n[3][1] - s4*n[3][2] + s3*n[3][3]) * idet
	r[0][3] = (-s5*n[2][1] + s4*n[2][2] - s3*n[2][3]) * idet
	r[1][0] = (-c5*n[1][0] + c2*n[1][2] - c1*n[1][3]) * idet
	r[1][1] = (c5*n[0][0] - c2*n[0][2] + c1*n[0][3]) * idet
	r[1][2] = (-s5*n[3][0] + s2*n[3][2] - s1*n[3][3]) * idet
	r[1][3] = (s5*n[2][0] - s2*n[2][2] + s1*n[2][3]) * idet
	r[2][0] = (c4*n[1][0] - c2*n[1][1] + c0*n[1][3]) * idet
	r[2][1] = (-c4*n[0][0] + c2*n[0][1] - c0*n[0][3]) * idet
	r[2][2] = (s4*n[3][0] - s2*n[3][1] + s0*n[3][3]) * idet
	r[2][3] = (-s4*n[2][0] + s2*n[2][1] - s0*n[2][3]) * idet
	r[3][0] = (-c3*n[1][0] + c1*n[1][1] - c0*n[1][2]) * idet
	r[3][1] = (c3*n[0][0] - c1*n[0][1] + c0*n[0][2]) * idet
	r[3][2] = (-s3*n[3][0] + s1*n[3][1] - s0*n[3][2]) * idet
	r[3][3] = (s3*n[2][0] - s1*n[2][1] + s0*n[2][2]) * idet
	*m = r
}

// Translate sets m to contain a translation matrix.
func (m *M4) Translate(t *V3) {
	m.I()
	m[3] = V4{t[0], t[1], t[2], 1}
}

// Scale sets m to contain a scale matrix.
func (m *M4) Scale(s *V3) {
	*m = M4{{s[0]}, {0, s[1]}, {0, 0, s[2]}, {0, 0, 0, 1}}
}

// Rotate sets m to contain the rotation matrix of q.
// q must be a unit quaternion.
func (m *M4) Rotate(q *Q) {
	x, y, z, w := q.V[0], q.V[1], q.V[2], q.R
	xx, yy, zz := x*x, y*y, z*z
	xy, xz, yz := x*y, x*z, y*z
	wx, wy, wz := w*x, w*y, w*z
	*m = M4{
		{1 - 2*(yy+zz), 2 * (xy + wz), 2 * (xz - wy), 0},
		{2 * (xy - wz), 1 - 2*(xx+zz), 2 * (yz + wx), 0},
		{2 * (xz + wy), 2 * (yz - wx), 1 - 2*(xx+yy), 0},
		{0, 0, 0, 1},
	}
}

// Compose sets m to contain T ⋅ R ⋅ S.
func (m *M4) Compose(t *V3, r *Q, s *V3) {
	m.Rotate(r)
	for i := range 3 {
		for j := range 3 {
			m[i][j] *= s[i]
		}
	}
	m[3] = V4{t[0], t[1], t[2], 1}
}

// Decompose extracts translation, rotation and scale from m.
// m must not contain shear or projection.
func (m *M4) Decompose() (t V3, r Q, s V3) {
	t = V3{m[3][0], m[3][1], m[3][2]}
	var cols [3]V3
	for i := range cols {
		cols[i] = V3{m[i][0], m[i][1], m[i][2]}
		s[i] = cols[i].Len()
	}
	var x V3
	x.Cross(&cols[0], &cols[1])
	if x.Dot(&cols[2]) < 0 {
		s[0] = -s[0]
	}
	var rm M4
	rm.I()
	for i := range cols {
		if s[i] == 0 {
			r.I()
			return
		}
		for j := range 3 {
			rm[i][j] = cols[i][j] / s[i]
		}
	}
	r.FromM4(&rm)
	return
}

// MaxScale returns the largest scale factor along the basis
// vectors of m.
func (m *M4) MaxScale() float32 {
	var s float32
	for i := range 3 {
		v := V3{m[i][0], m[i][1], m[i][2]}
		s = max(s, v.Len())
	}
	return s
}

// Near checks whether every element of m is within eps of
// the corresponding element of n.
func (m *M4) Near(n *M4, eps float32) bool {
	for i := range m {
		for j := range m[i] {
			if math32.Abs(m[i][j]-n[i][j]) > eps {
				return false
			}
		}
	}
	return true
}
