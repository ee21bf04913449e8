// Copyright 2023 Gustavo C. Viegas. All rights reserved.

package gpb

import (
	"fmt"
	"image"

	"github.com/gviegas/gpb/font"
)

// LoadFont loads the font with the given identifier.
// Bundles from version 1.4 on may store several sizes of a
// font; the first one is returned and the others are
// available through its Sizes method.
func (b *Bundle) LoadFont(id string) (*font.Font, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	f, err := b.loadFont(id)
	if err != nil {
		err = loadErr(err)
		Logger().Warn("gpb: LoadFont failed", "bundle", b.path, "id", id, "err", err)
		return nil, err
	}
	return f, nil
}

func (b *Bundle) loadFont(id string) (*font.Font, error) {
	if _, err := b.seekTo(id, TypeFont); err != nil {
		return nil, err
	}
	r := b.r
	family, err := r.ReadString()
	if err != nil {
		return nil, err
	}
	style, err := r.ReadUint32()
	if err != nil {
		return nil, err
	}
	count := uint32(1)
	if b.atLeast(fontSizesVersion) {
		if count, err = r.ReadUint32(); err != nil {
			return nil, err
		}
		if count == 0 {
			return nil, formatErr("font %q has no sizes", id)
		}
	}
	var master *font.Font
	for range count {
		f, err := b.readFontSize(id, family, font.Style(style))
		if err != nil {
			return nil, err
		}
		if master == nil {
			master = f
			continue
		}
		if err := master.AddSize(f); err != nil {
			return nil, fmt.Errorf("%w: font %q: %w", ErrFormat, id, err)
		}
	}
	return master, nil
}

func (b *Bundle) readFontSize(id, family string, style font.Style) (*font.Font, error) {
	r := b.r
	size, err := r.ReadUint32()
	if err != nil {
		return nil, err
	}
	charset, err := r.ReadString()
	if err != nil {
		return nil, err
	}
	n, err := r.ReadUint32()
	if err != nil {
		return nil, err
	}
	metrics := b.atLeast(glyphMetricsVersion)
	glyphSize := int64(24)
	if metrics {
		glyphSize += 8
	}
	if pos, _ := r.Pos(); int64(n)*glyphSize > r.Size()-pos {
		return nil, formatErr("font %q glyph count %d exceeds file size", id, n)
	}
	glyphs := make([]font.Glyph, n)
	for i := range glyphs {
		g := &glyphs[i]
		if g.Code, err = r.ReadUint32(); err != nil {
			return nil, err
		}
		if g.Width, err = r.ReadUint32(); err != nil {
			return nil, err
		}
		if metrics {
			if g.BearingX, err = r.ReadInt32(); err != nil {
				return nil, err
			}
			if g.Advance, err = r.ReadUint32(); err != nil {
				return nil, err
			}
		} else {
			g.Advance = g.Width
		}
		if err = r.ReadFloats(g.UV[:]); err != nil {
			return nil, err
		}
	}

	var dim [2]uint32
	for i := range dim {
		if dim[i], err = r.ReadUint32(); err != nil {
			return nil, err
		}
	}
	texLen, err := r.ReadUint32()
	if err != nil {
		return nil, err
	}
	if uint64(texLen) != uint64(dim[0])*uint64(dim[1]) {
		return nil, formatErr("font %q atlas is %d bytes, want %dx%d", id, texLen, dim[0], dim[1])
	}
	pix, err := r.ReadBytes(int(texLen))
	if err != nil {
		return nil, err
	}
	format := font.Bitmap
	if b.atLeast(fontFormatVersion) {
		var x uint32
		if x, err = r.ReadUint32(); err != nil {
			return nil, err
		}
		format = font.Format(x)
	}

	atlas := &image.Alpha{
		Pix:    pix,
		Stride: int(dim[0]),
		Rect:   image.Rect(0, 0, int(dim[0]), int(dim[1])),
	}
	f, err := font.New(&font.Data{
		Family:  family,
		Style:   style,
		Size:    size,
		Charset: charset,
		Format:  format,
		Glyphs:  glyphs,
		Atlas:   atlas,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: font %q: %w", ErrFormat, id, err)
	}
	return f, nil
}
