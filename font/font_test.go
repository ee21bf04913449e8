// Copyright 2023 Gustavo C. Viegas. All rights reserved.

package font

import (
	"image"
	"testing"
)

func newFont(t *testing.T, size uint32, glyphs ...Glyph) *Font {
	t.Helper()
	f, err := New(&Data{
		Family: "Sans",
		Size:   size,
		Glyphs: glyphs,
		Atlas:  image.NewAlpha(image.Rect(0, 0, 8, 8)),
	})
	if err != nil {
		t.Fatalf("New: unexpected error: %v", err)
	}
	return f
}

func TestNew(t *testing.T) {
	atlas := image.NewAlpha(image.Rect(0, 0, 1, 1))
	for _, x := range [...]struct {
		data   *Data
		reason string
	}{
		{nil, "nil data"},
		{&Data{Atlas: atlas}, "zero size"},
		{&Data{Size: 10}, "nil atlas"},
		{&Data{Size: 10, Atlas: atlas, Format: 2}, "undefined Format constant"},
		{&Data{Size: 10, Atlas: atlas, Glyphs: []Glyph{{Code: 'a'}, {Code: 'a'}}}, "duplicate glyph code"},
	} {
		_, err := New(x.data)
		if err == nil || err.Error() != prefix+x.reason {
			t.Fatalf("New:\nhave %v\nwant %s", err, prefix+x.reason)
		}
	}
}

func TestGlyph(t *testing.T) {
	f := newFont(t, 16, Glyph{Code: 'a', Width: 7}, Glyph{Code: 'b', Width: 8, Advance: 9})
	if g, ok := f.Glyph('b'); !ok || g.Width != 8 {
		t.Fatalf("Font.Glyph('b'):\nhave %v, %t\nwant width 8, true", g, ok)
	}
	if _, ok := f.Glyph('c'); ok {
		t.Fatal("Font.Glyph('c'):\nhave true\nwant false")
	}
	if n := f.GlyphCount(); n != 2 {
		t.Fatalf("Font.GlyphCount:\nhave %d\nwant 2", n)
	}
}

func TestMeasure(t *testing.T) {
	f := newFont(t, 10,
		Glyph{Code: 'a', Width: 5},
		Glyph{Code: 'b', Width: 6, Advance: 7},
		Glyph{Code: ' ', Width: 3})
	for _, x := range [...]struct {
		text string
		w, h int
	}{
		{"", 0, 0},
		{"a", 5, 10},
		{"ab", 12, 10},
		{"a?b", 15, 10},
		{"ab\na", 12, 20},
	} {
		if w, h := f.Measure(x.text); w != x.w || h != x.h {
			t.Fatalf("Font.Measure(%q):\nhave %d, %d\nwant %d, %d", x.text, w, h, x.w, x.h)
		}
	}
}

func TestSizes(t *testing.T) {
	f := newFont(t, 16)
	s8, s32 := newFont(t, 8), newFont(t, 32)
	for _, s := range []*Font{s32, s8} {
		if err := f.AddSize(s); err != nil {
			t.Fatalf("Font.AddSize: unexpected error: %v", err)
		}
	}
	if err := f.AddSize(f); err == nil {
		t.Fatal("Font.AddSize(f): unexpected nil error")
	}
	bold := newFont(t, 20)
	bold.style = Bold
	if err := f.AddSize(bold); err == nil {
		t.Fatal("Font.AddSize(bold): unexpected nil error")
	}
	if n := len(f.Sizes()); n != 2 {
		t.Fatalf("len(Font.Sizes()):\nhave %d\nwant 2", n)
	}
	for _, x := range [...]struct {
		size uint32
		want *Font
	}{
		{16, f},
		{4, s8},
		{9, f},
		{20, s32},
		{64, s32},
	} {
		if g := f.ForSize(x.size); g != x.want {
			t.Fatalf("Font.ForSize(%d):\nhave size %d\nwant size %d", x.size, g.Size(), x.want.Size())
		}
	}
}
