// Copyright 2022 Gustavo C. Viegas. All rights reserved.

package linear

import (
	"testing"
)

func BenchmarkMul(b *testing.B) {
	var q Q
	q.Rotate(1, &V3{0, 1, 0})
	var l, r M4
	l.Compose(&V3{1, 2, 3}, &q, &V3{1, 1, 1})
	r.Invert(&l)
	b.Run("M4.Mul", func(b *testing.B) {
		for i := 0; i < b.N; i++ {
			l.Mul(&l, &r)
		}
	})
	b.Run("M4.Compose", func(b *testing.B) {
		for i := 0; i < b.N; i++ {
			l.Compose(&V3{1, 2, 3}, &q, &V3{1, 1, 1})
		}
	})
	b.Log(l)
}
