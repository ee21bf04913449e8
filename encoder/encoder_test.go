// Copyright 2023 Gustavo C. Viegas. All rights reserved.

package encoder

import (
	"bytes"
	"encoding/binary"
	"testing"

	"github.com/gviegas/gpb"
)

func TestBytes(t *testing.T) {
	e := New(1, 5)
	e.AddNode(&Node{ID: "n", Children: []Node{{ID: "c"}, {}}})
	b := e.Bytes()

	if !bytes.Equal(b[:9], gpb.Magic[:]) {
		t.Fatalf("Encoder.Bytes: magic\nhave % x\nwant % x", b[:9], gpb.Magic)
	}
	if b[9] != 1 || b[10] != 5 {
		t.Fatalf("Encoder.Bytes: version\nhave %d.%d\nwant 1.5", b[9], b[10])
	}
	if n := binary.LittleEndian.Uint32(b[11:]); n != 2 {
		t.Fatalf("Encoder.Bytes: reference count\nhave %d\nwant 2", n)
	}
	// Two references of 4+1+4+4 bytes each.
	hdr := uint32(15 + 2*13)
	if off := binary.LittleEndian.Uint32(b[15+4+1+4:]); off != hdr {
		t.Fatalf("Encoder.Bytes: first offset\nhave %d\nwant %d", off, hdr)
	}
	if typ := binary.LittleEndian.Uint32(b[hdr:]); typ != 1 {
		t.Fatalf("Encoder.Bytes: node type\nhave %d\nwant 1", typ)
	}
	// type + transform + empty parent + child count.
	child := hdr + 4 + 64 + 4 + 4
	if off := binary.LittleEndian.Uint32(b[15+13+4+1+4:]); off != child {
		t.Fatalf("Encoder.Bytes: second offset\nhave %d\nwant %d", off, child)
	}
}

func TestFontVersion(t *testing.T) {
	f := &Font{ID: "f", Sizes: []FontSize{{Size: 8}, {Size: 16}}}
	old, cur := New(1, 2), New(1, 5)
	old.AddFont(f)
	cur.AddFont(f)
	// Size count, format and the second size are absent.
	if n, m := len(old.body.Bytes()), len(cur.body.Bytes()); m-n != 4+4+28 {
		t.Fatalf("Encoder.AddFont: size difference\nhave %d\nwant %d", m-n, 4+4+28)
	}
}
