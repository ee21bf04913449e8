// Copyright 2023 Gustavo C. Viegas. All rights reserved.

// Package font implements bitmap fonts backed by an alpha
// atlas.
package font

import (
	"errors"
	"image"
	"slices"
	"strings"
)

const prefix = "font: "

// Style is the style of a font.
type Style uint32

// Font styles.
const (
	Plain Style = iota
	Bold
	Italic
	BoldItalic
)

// String implements fmt.Stringer.
func (s Style) String() string {
	switch s {
	case Plain:
		return "Plain"
	case Bold:
		return "Bold"
	case Italic:
		return "Italic"
	case BoldItalic:
		return "BoldItalic"
	}
	return "Style(?)"
}

// Format is the format of a font's atlas.
type Format uint32

// Atlas formats.
const (
	Bitmap Format = iota
	DistanceField
)

// Glyph describes a single character in the atlas.
// UV is {u1, v1, u2, v2}.
// Bundles that do not store BearingX and Advance leave
// BearingX zero and set Advance to Width.
type Glyph struct {
	Code     uint32
	Width    uint32
	BearingX int32
	Advance  uint32
	UV       [4]float32
}

// Font is a glyph table and its atlas at one size.
// A master font holds its other sizes.
type Font struct {
	family  string
	style   Style
	size    uint32
	charset string
	format  Format
	glyphs  []Glyph
	index   map[uint32]int
	atlas   *image.Alpha
	sizes   []*Font
}

// Data is the input for New.
type Data struct {
	Family  string
	Style   Style
	Size    uint32
	Charset string
	Format  Format
	Glyphs  []Glyph
	Atlas   *image.Alpha
}

// New creates a new Font.
func New(data *Data) (*Font, error) {
	newErr := func(reason string) error { return errors.New(prefix + reason) }

	switch {
	case data == nil:
		return nil, newErr("nil data")
	case data.Size == 0:
		return nil, newErr("zero size")
	case data.Atlas == nil:
		return nil, newErr("nil atlas")
	case data.Format > DistanceField:
		return nil, newErr("undefined Format constant")
	}
	index := make(map[uint32]int, len(data.Glyphs))
	for i, g := range data.Glyphs {
		if _, dup := index[g.Code]; dup {
			return nil, newErr("duplicate glyph code")
		}
		index[g.Code] = i
	}
	return &Font{
		family:  data.Family,
		style:   data.Style,
		size:    data.Size,
		charset: data.Charset,
		format:  data.Format,
		glyphs:  data.Glyphs,
		index:   index,
		atlas:   data.Atlas,
	}, nil
}

// Family returns the family name of f.
func (f *Font) Family() string { return f.family }

// Style returns the style of f.
func (f *Font) Style() Style { return f.style }

// Size returns the size of f, in pixels.
func (f *Font) Size() uint32 { return f.size }

// Charset returns the characters that f covers.
func (f *Font) Charset() string { return f.charset }

// Format returns the atlas format of f.
func (f *Font) Format() Format { return f.format }

// Atlas returns the atlas of f.
func (f *Font) Atlas() *image.Alpha { return f.atlas }

// GlyphCount returns the number of glyphs in f.
func (f *Font) GlyphCount() int { return len(f.glyphs) }

// Glyphs returns the glyphs of f in storage order.
func (f *Font) Glyphs() []Glyph { return f.glyphs }

// Glyph returns the glyph for the given code.
func (f *Font) Glyph(code rune) (Glyph, bool) {
	i, ok := f.index[uint32(code)]
	if !ok {
		return Glyph{}, false
	}
	return f.glyphs[i], true
}

// AddSize adds s as an additional size of f.
// s must have the same family and style, and it cannot have
// sizes of its own.
func (f *Font) AddSize(s *Font) error {
	switch {
	case s == f:
		return errors.New(prefix + "font added to itself")
	case s.family != f.family || s.style != f.style:
		return errors.New(prefix + "size of a different font")
	case len(s.sizes) != 0:
		return errors.New(prefix + "size has sizes")
	}
	f.sizes = append(f.sizes, s)
	return nil
}

// Sizes returns the additional sizes of f.
func (f *Font) Sizes() []*Font { return f.sizes }

// ForSize returns the font among f and its sizes that best
// fits the given size: an exact match, else the smallest
// larger one, else the largest.
func (f *Font) ForSize(size uint32) *Font {
	all := append([]*Font{f}, f.sizes...)
	slices.SortFunc(all, func(a, b *Font) int { return int(a.size) - int(b.size) })
	for _, x := range all {
		if x.size >= size {
			return x
		}
	}
	return all[len(all)-1]
}

func (g *Glyph) advance() int {
	if g.Advance != 0 {
		return int(g.Advance)
	}
	return int(g.Width)
}

// Measure returns the extent of text drawn with f.
// Lines are separated by '\n'. Characters with no glyph
// advance by the width of a space, if present.
func (f *Font) Measure(text string) (width, height int) {
	if text == "" {
		return 0, 0
	}
	space, hasSpace := f.Glyph(' ')
	lines := strings.Split(text, "\n")
	for _, line := range lines {
		w := 0
		for _, r := range line {
			if g, ok := f.Glyph(r); ok {
				w += g.advance()
			} else if hasSpace {
				w += space.advance()
			}
		}
		width = max(width, w)
	}
	return width, len(lines) * int(f.size)
}
