// Copyright 2023 Gustavo C. Viegas. All rights reserved.

package node

import (
	"strings"
	"testing"

	"github.com/gviegas/gpb/anim"
	"github.com/gviegas/gpb/linear"
)

// childIDs returns the identifiers of n's immediate
// descendants, space-separated.
func (n *Node) childIDs() string {
	var s []string
	for c := n.first; c != nil; c = c.next {
		s = append(s, c.id)
	}
	return strings.Join(s, " ")
}

func sceneIDs(s *Scene) string {
	var ids []string
	for n := range s.Nodes() {
		ids = append(ids, n.id)
	}
	return strings.Join(ids, " ")
}

func TestAddChild(t *testing.T) {
	a, b, c, d := New("a"), New("b"), New("c"), New("d")
	a.AddChild(b)
	a.AddChild(c)
	a.AddChild(d)
	if s := a.childIDs(); s != "b c d" {
		t.Fatalf("Node.AddChild:\nhave %s\nwant b c d", s)
	}
	if n := a.ChildCount(); n != 3 {
		t.Fatalf("Node.ChildCount:\nhave %d\nwant 3", n)
	}
	if b.Parent() != a || c.PrevSibling() != b || c.NextSibling() != d {
		t.Fatal("Node.AddChild: bad links")
	}

	c.AddChild(a)
	if a.Parent() != nil || c.Parent() != a {
		t.Fatal("Node.AddChild: ancestor was inserted as descendant")
	}

	b.AddChild(d)
	if s := a.childIDs(); s != "b c" {
		t.Fatalf("Node.AddChild (reparent):\nhave %s\nwant b c", s)
	}
	if d.Parent() != b || d.Root() != a {
		t.Fatal("Node.AddChild (reparent): bad links")
	}

	a.RemoveChild(d)
	if d.Parent() != b {
		t.Fatal("Node.RemoveChild: removed non-child")
	}
	a.RemoveChild(b)
	if s := a.childIDs(); s != "c" || b.Parent() != nil || a.ChildCount() != 1 {
		t.Fatalf("Node.RemoveChild:\nhave %s\nwant c", s)
	}
	a.RemoveAllChildren()
	if a.FirstChild() != nil || a.ChildCount() != 0 {
		t.Fatal("Node.RemoveAllChildren: children remain")
	}
}

func TestFindNode(t *testing.T) {
	root := New("root")
	e1, e2, x := New("enemy_1"), New("enemy_2"), New("x")
	deep := New("enemy_deep")
	root.AddChild(x)
	root.AddChild(e1)
	x.AddChild(deep)
	root.AddChild(e2)

	for _, c := range [...]struct {
		id               string
		recursive, exact bool
		want             *Node
	}{
		{"enemy_1", false, true, e1},
		{"enemy_", false, false, e1},
		{"enemy_deep", false, true, nil},
		{"enemy_deep", true, true, deep},
		{"enemy", true, true, nil},
		{"root", true, true, nil},
	} {
		if n := root.FindNode(c.id, c.recursive, c.exact); n != c.want {
			t.Fatalf("Node.FindNode(%q, %t, %t):\nhave %v\nwant %v", c.id, c.recursive, c.exact, n, c.want)
		}
	}
	ns := root.FindNodes("enemy_", true, false)
	if len(ns) != 3 || ns[0] != e1 || ns[1] != e2 || ns[2] != deep {
		t.Fatalf("Node.FindNodes:\nhave %v\nwant [enemy_1 enemy_2 enemy_deep]", ns)
	}

	var ids []string
	root.ForEach(func(n *Node) bool {
		ids = append(ids, n.id)
		return true
	})
	if s := strings.Join(ids, " "); s != "x enemy_1 enemy_2 enemy_deep" {
		t.Fatalf("Node.ForEach:\nhave %s\nwant x enemy_1 enemy_2 enemy_deep", s)
	}
}

func TestScene(t *testing.T) {
	s := NewScene()
	a, b, c := New("a"), New("b"), New("c")
	s.AddNode(a)
	s.AddNode(b)
	s.AddNode(c)
	if ids := sceneIDs(s); ids != "a b c" || s.NodeCount() != 3 {
		t.Fatalf("Scene.AddNode:\nhave %s\nwant a b c", ids)
	}

	a.AddChild(b)
	if ids := sceneIDs(s); ids != "a c" || s.NodeCount() != 2 {
		t.Fatalf("Node.AddChild of top-level node:\nhave %s\nwant a c", ids)
	}
	if b.Scene() != s {
		t.Fatal("Node.Scene:\nhave other\nwant s")
	}

	s.RemoveNode(b)
	if b.Parent() != a || s.NodeCount() != 2 {
		t.Fatal("Scene.RemoveNode: removed non-top-level node")
	}
	s.RemoveNode(c)
	if ids := sceneIDs(s); ids != "a" || c.Scene() != nil {
		t.Fatalf("Scene.RemoveNode:\nhave %s\nwant a", ids)
	}
	if n := s.FindNode("b", true, true); n != b {
		t.Fatalf("Scene.FindNode:\nhave %v\nwant %v", n, b)
	}
	if n := s.FindNode("b", false, true); n != nil {
		t.Fatalf("Scene.FindNode (non-recursive):\nhave %v\nwant nil", n)
	}
	b.Remove()
	if b.Parent() != nil || a.ChildCount() != 0 {
		t.Fatal("Node.Remove: still attached")
	}
	a.Remove()
	if s.NodeCount() != 0 || s.FirstNode() != nil {
		t.Fatal("Node.Remove of top-level node: still in scene")
	}
}

func TestWorld(t *testing.T) {
	a, b := New("a"), New("b")
	a.AddChild(b)
	a.SetTranslation(&linear.V3{1, 2, 3})
	b.SetTranslation(&linear.V3{10, 0, 0})
	w := b.World()
	if p := w.Point(&linear.V3{}); p != (linear.V3{11, 2, 3}) {
		t.Fatalf("Node.World:\nhave %v\nwant [11 2 3]", p)
	}
	a.SetScale(&linear.V3{2, 2, 2})
	w = b.World()
	if p := w.Point(&linear.V3{}); p != (linear.V3{21, 2, 3}) {
		t.Fatalf("Node.World after parent change:\nhave %v\nwant [21 2 3]", p)
	}

	var m linear.M4
	m.Translate(&linear.V3{0, -4, 0})
	b.SetTransform(&m)
	if tr := b.Translation(); tr != (linear.V3{0, -4, 0}) {
		t.Fatalf("Node.SetTransform:\nhave %v\nwant [0 -4 0]", tr)
	}
}

func TestSetAnimationValue(t *testing.T) {
	n := New("n")
	var tg anim.Target = n
	tg.SetAnimationValue(anim.Translate, []float32{1, 2, 3})
	if tr := n.Translation(); tr != (linear.V3{1, 2, 3}) {
		t.Fatalf("Node.SetAnimationValue(Translate):\nhave %v\nwant [1 2 3]", tr)
	}
	tg.SetAnimationValue(anim.TranslateY, []float32{7})
	if tr := n.Translation(); tr != (linear.V3{1, 7, 3}) {
		t.Fatalf("Node.SetAnimationValue(TranslateY):\nhave %v\nwant [1 7 3]", tr)
	}
	tg.SetAnimationValue(anim.ScaleUnit, []float32{4})
	if s := n.Scale(); s != (linear.V3{4, 4, 4}) {
		t.Fatalf("Node.SetAnimationValue(ScaleUnit):\nhave %v\nwant [4 4 4]", s)
	}
	tg.SetAnimationValue(anim.ScaleRotateTranslate, []float32{1, 2, 3, 0, 0, 0, 1, 9, 8, 7})
	if s, r, tr := n.Scale(), n.Rotation(), n.Translation(); s != (linear.V3{1, 2, 3}) || r.R != 1 || tr != (linear.V3{9, 8, 7}) {
		t.Fatalf("Node.SetAnimationValue(ScaleRotateTranslate):\nhave %v %v %v", s, r, tr)
	}
}

type recorder struct{ calls []int }

func (r *recorder) TransformChanged(n *Node, cookie int) { r.calls = append(r.calls, cookie) }

func TestListener(t *testing.T) {
	a, b := New("a"), New("b")
	a.AddChild(b)
	r := new(recorder)
	b.AddListener(r, 7)
	a.SetTranslation(&linear.V3{1})
	if len(r.calls) != 1 || r.calls[0] != 7 {
		t.Fatalf("TransformListener:\nhave %v\nwant [7]", r.calls)
	}
	b.RemoveListener(r, 7)
	if b.HasListener(r, 7) {
		t.Fatal("Node.RemoveListener: listener remains")
	}
	a.SetTranslation(&linear.V3{2})
	if len(r.calls) != 1 {
		t.Fatalf("TransformListener after removal:\nhave %v\nwant [7]", r.calls)
	}
}

func TestLight(t *testing.T) {
	l := NewSpot(&linear.V3{1, 1, 1}, 10, -1, 4)
	i, o := l.ConeAngles()
	if i != 0 || o != 3.1415927/2 {
		t.Fatalf("Light.ConeAngles:\nhave %v %v\nwant 0 π/2", i, o)
	}
	l.SetConeAngles(1, 0.5)
	if i, o := l.ConeAngles(); i != 1 || o <= i {
		t.Fatalf("Light.SetConeAngles:\nhave %v %v\nwant 1 >1", i, o)
	}
	n := New("lamp")
	n.SetLight(l)
	n.SetTranslation(&linear.V3{0, 5, 0})
	if p := l.Position(); p != (linear.V3{0, 5, 0}) {
		t.Fatalf("Light.Position:\nhave %v\nwant [0 5 0]", p)
	}
	if d := l.Direction(); d != (linear.V3{0, 0, -1}) {
		t.Fatalf("Light.Direction:\nhave %v\nwant [0 0 -1]", d)
	}
	m := New("other")
	m.SetLight(l)
	if n.Light() != nil || l.Node() != m {
		t.Fatal("Node.SetLight: light attached to two nodes")
	}
}

func TestCamera(t *testing.T) {
	c := NewOrthographic(4, 2, 2, 1, 3)
	p := c.Projection()
	if p[0][0] != 0.5 || p[1][1] != 1 || p[2][2] != -1 || p[3][2] != -2 {
		t.Fatalf("Camera.Projection (orthographic):\nhave %v", p)
	}
	c = NewPerspective(90, 1, 1, 3)
	p = c.Projection()
	if p[2][3] != -1 || p[2][2] != -2 || p[3][2] != -3 {
		t.Fatalf("Camera.Projection (perspective):\nhave %v", p)
	}
}

func TestInsertNode(t *testing.T) {
	s := NewScene()
	a, b, c := New("a"), New("b"), New("c")
	s.AddNode(a)
	s.AddNode(c)
	ids := func() (x string) {
		for n := range s.Nodes() {
			x += n.ID()
		}
		return
	}
	s.InsertNode(b, c)
	if x := ids(); x != "abc" {
		t.Fatalf("Scene.InsertNode:\nhave %s\nwant abc", x)
	}
	a.AddChild(c)
	s.InsertNode(c, New("d"))
	if x := ids(); x != "abc" || c.Parent() != nil {
		t.Fatalf("Scene.InsertNode (stale next):\nhave %s\nwant abc", x)
	}
	b.AddChild(c)
	s.InsertNode(c, a)
	if x := ids(); x != "cab" {
		t.Fatalf("Scene.InsertNode (first):\nhave %s\nwant cab", x)
	}
	if n := s.NodeCount(); n != 3 {
		t.Fatalf("Scene.NodeCount:\nhave %d\nwant 3", n)
	}
}
