// Copyright 2023 Gustavo C. Viegas. All rights reserved.

package anim

import (
	"math"
	"testing"
)

type target struct {
	id   string
	attr Attribute
	v    []float32
}

func (t *target) ID() string { return t.id }

func (t *target) SetAnimationValue(a Attribute, v []float32) {
	t.attr = a
	t.v = append(t.v[:0], v...)
}

func TestComponents(t *testing.T) {
	for _, x := range [...]struct {
		a    Attribute
		want int
	}{
		{ScaleUnit, 1},
		{Scale, 3},
		{ScaleZ, 1},
		{Rotate, 4},
		{Translate, 3},
		{TranslateY, 1},
		{RotateTranslate, 7},
		{ScaleRotateTranslate, 10},
		{ScaleTranslate, 6},
		{ScaleRotate, 7},
		{5, 0},
	} {
		if n := x.a.Components(); n != x.want {
			t.Fatalf("Attribute(%d).Components:\nhave %d\nwant %d", x.a, n, x.want)
		}
	}
}

func TestNewChannel(t *testing.T) {
	tg := &target{id: "n"}
	for _, x := range [...]struct {
		keys   []uint64
		values []float32
		interp []uint32
		reason string
	}{
		{nil, nil, nil, "no keys"},
		{[]uint64{0, 10}, []float32{0, 0, 0}, nil, "value count mismatch"},
		{[]uint64{10, 0}, make([]float32, 6), nil, "key times out of order"},
		{[]uint64{0, 5, 10}, make([]float32, 9), []uint32{4, 4}, "interpolation count mismatch"},
	} {
		_, err := NewChannel(tg, Translate, x.keys, x.values, nil, nil, x.interp)
		if err == nil || err.Error() != prefix+x.reason {
			t.Fatalf("NewChannel:\nhave %v\nwant %s%s", err, prefix, x.reason)
		}
	}
	if _, err := NewChannel(nil, Translate, []uint64{0}, make([]float32, 3), nil, nil, nil); err == nil {
		t.Fatal("NewChannel(nil target):\nhave nil\nwant error")
	}
}

func TestEvaluate(t *testing.T) {
	tg := &target{id: "n"}
	c, err := NewChannel(tg, Translate, []uint64{0, 100, 200}, []float32{
		0, 0, 0,
		10, 20, 30,
		10, 20, 30,
	}, nil, nil, []uint32{uint32(Linear), uint32(Step), uint32(Linear)})
	if err != nil {
		t.Fatalf("NewChannel:\nhave %v\nwant nil", err)
	}
	dst := make([]float32, 3)
	for _, x := range [...]struct {
		t    uint64
		want [3]float32
	}{
		{0, [3]float32{0, 0, 0}},
		{50, [3]float32{5, 10, 15}},
		{100, [3]float32{10, 20, 30}},
		{150, [3]float32{10, 20, 30}},
		{1000, [3]float32{10, 20, 30}},
	} {
		c.Evaluate(x.t, dst)
		if [3]float32(dst) != x.want {
			t.Fatalf("Channel.Evaluate(%d):\nhave %v\nwant %v", x.t, dst, x.want)
		}
	}
	if d := c.Duration(); d != 200 {
		t.Fatalf("Channel.Duration:\nhave %d\nwant 200", d)
	}
}

func TestEvaluateRotation(t *testing.T) {
	tg := &target{id: "n"}
	s := float32(math.Sqrt2 / 2)
	c, err := NewChannel(tg, Rotate, []uint64{0, 10}, []float32{
		0, 0, 0, 1,
		0, 0, 1, 0,
	}, nil, nil, nil)
	if err != nil {
		t.Fatalf("NewChannel:\nhave %v\nwant nil", err)
	}
	c.Apply(5)
	if tg.attr != Rotate || len(tg.v) != 4 {
		t.Fatalf("Channel.Apply:\nhave %v %v\nwant Rotate [4]float32", tg.attr, tg.v)
	}
	if math.Abs(float64(tg.v[2]-s)) > 1e-5 || math.Abs(float64(tg.v[3]-s)) > 1e-5 {
		t.Fatalf("Channel.Apply(5):\nhave %v\nwant [0 0 %v %v]", tg.v, s, s)
	}
}

func TestClip(t *testing.T) {
	tg := &target{id: "n"}
	c, _ := NewChannel(tg, TranslateX, []uint64{0, 100}, []float32{0, 100}, nil, nil, nil)
	a := New("walk")
	a.AddChannel(c)
	if d := a.Duration(); d != 100 {
		t.Fatalf("Animation.Duration:\nhave %d\nwant 100", d)
	}
	clip, err := a.CreateClip("mid", 20, 40)
	if err != nil {
		t.Fatalf("Animation.CreateClip:\nhave %v\nwant nil", err)
	}
	if _, err := a.CreateClip("mid", 0, 1); err == nil {
		t.Fatal("Animation.CreateClip(duplicate):\nhave nil\nwant error")
	}
	if _, err := a.CreateClip("bad", 10, 5); err == nil {
		t.Fatal("Animation.CreateClip(end < begin):\nhave nil\nwant error")
	}
	if a.Clip("mid") != clip {
		t.Fatal("Animation.Clip:\nhave other\nwant mid")
	}
	clip.Apply(5)
	if tg.v[0] != 25 {
		t.Fatalf("Clip.Apply(5):\nhave %v\nwant 25", tg.v[0])
	}
	clip.Apply(26)
	if tg.v[0] != 25 {
		t.Fatalf("Clip.Apply(26):\nhave %v\nwant 25", tg.v[0])
	}
}
