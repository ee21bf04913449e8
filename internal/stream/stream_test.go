// Copyright 2023 Gustavo C. Viegas. All rights reserved.

package stream

import (
	"bytes"
	"errors"
	"io"
	"testing"
)

func newReader(t *testing.T, w *Writer, maxString int) *Reader {
	t.Helper()
	r, err := NewReader(bytes.NewReader(w.Bytes()), maxString)
	if err != nil {
		t.Fatalf("NewReader:\nhave %v\nwant nil", err)
	}
	return r
}

func TestScalars(t *testing.T) {
	var w Writer
	w.WriteUint8(0xab)
	w.WriteUint32(0xdeadbeef)
	w.WriteInt32(-7)
	w.WriteFloat32(1.5)
	var m [16]float32
	for i := range m {
		m[i] = float32(i)
	}
	w.WriteFloats(m[:])
	w.WriteString("node")
	w.WriteString("")

	r := newReader(t, &w, 16)
	if x, err := r.ReadUint8(); err != nil || x != 0xab {
		t.Fatalf("Reader.ReadUint8:\nhave %#x, %v\nwant 0xab, nil", x, err)
	}
	if x, err := r.ReadUint32(); err != nil || x != 0xdeadbeef {
		t.Fatalf("Reader.ReadUint32:\nhave %#x, %v\nwant 0xdeadbeef, nil", x, err)
	}
	if x, err := r.ReadInt32(); err != nil || x != -7 {
		t.Fatalf("Reader.ReadInt32:\nhave %d, %v\nwant -7, nil", x, err)
	}
	if x, err := r.ReadFloat32(); err != nil || x != 1.5 {
		t.Fatalf("Reader.ReadFloat32:\nhave %v, %v\nwant 1.5, nil", x, err)
	}
	if x, err := r.ReadMatrix(); err != nil || x != m {
		t.Fatalf("Reader.ReadMatrix:\nhave %v, %v\nwant %v, nil", x, err, m)
	}
	if s, err := r.ReadString(); err != nil || s != "node" {
		t.Fatalf("Reader.ReadString:\nhave %q, %v\nwant \"node\", nil", s, err)
	}
	if s, err := r.ReadString(); err != nil || s != "" {
		t.Fatalf("Reader.ReadString:\nhave %q, %v\nwant \"\", nil", s, err)
	}
	if _, err := r.ReadUint8(); !errors.Is(err, io.ErrUnexpectedEOF) {
		t.Fatalf("Reader.ReadUint8 at end:\nhave %v\nwant %v", err, io.ErrUnexpectedEOF)
	}
}

func TestString(t *testing.T) {
	var w Writer
	w.WriteString("0123456789")
	w.WriteString("abc")

	r := newReader(t, &w, 9)
	if _, err := r.ReadString(); !errors.Is(err, ErrStringLength) {
		t.Fatalf("Reader.ReadString:\nhave %v\nwant %v", err, ErrStringLength)
	}

	r = newReader(t, &w, 10)
	if err := r.SkipString(); err != nil {
		t.Fatalf("Reader.SkipString:\nhave %v\nwant nil", err)
	}
	if s, err := r.ReadString(); err != nil || s != "abc" {
		t.Fatalf("Reader.ReadString:\nhave %q, %v\nwant \"abc\", nil", s, err)
	}
}

func TestArray(t *testing.T) {
	var w Writer
	WriteArray(&w, []uint32{1, 2, 0xffffffff})
	WriteArray(&w, []float32{0.5, -2})
	WriteArray[uint32](&w, nil)

	r := newReader(t, &w, 0)
	wide, err := ReadArray[uint64](r, 4)
	if err != nil {
		t.Fatalf("ReadArray[uint64](4):\nhave %v\nwant nil", err)
	}
	if len(wide) != 3 || wide[0] != 1 || wide[1] != 2 || wide[2] != 0xffffffff {
		t.Fatalf("ReadArray[uint64](4):\nhave %v\nwant [1 2 4294967295]", wide)
	}
	f, err := ReadArray[float32](r, 4)
	if err != nil || len(f) != 2 || f[0] != 0.5 || f[1] != -2 {
		t.Fatalf("ReadArray[float32](4):\nhave %v, %v\nwant [0.5 -2], nil", f, err)
	}
	if e, err := ReadArray[uint32](r, 4); err != nil || e != nil {
		t.Fatalf("ReadArray[uint32](4):\nhave %v, %v\nwant [], nil", e, err)
	}
	if _, err := ReadArray[uint8](r, 4); err == nil {
		t.Fatal("ReadArray[uint8](4):\nhave nil\nwant error")
	}
}

func TestArrayLength(t *testing.T) {
	var w Writer
	w.WriteUint32(1 << 30)
	w.WriteFloat32(1)

	r := newReader(t, &w, 0)
	if _, err := ReadArray[float32](r, 4); !errors.Is(err, ErrArrayLength) {
		t.Fatalf("ReadArray:\nhave %v\nwant %v", err, ErrArrayLength)
	}
	r = newReader(t, &w, 0)
	if err := SkipArray(r, 4); !errors.Is(err, ErrArrayLength) {
		t.Fatalf("SkipArray:\nhave %v\nwant %v", err, ErrArrayLength)
	}
}

func TestSeek(t *testing.T) {
	var w Writer
	w.WriteUint32(1)
	w.WriteUint32(2)
	w.WriteUint32(3)

	r := newReader(t, &w, 0)
	if err := r.Skip(8); err != nil {
		t.Fatalf("Reader.Skip:\nhave %v\nwant nil", err)
	}
	if x, _ := r.ReadUint32(); x != 3 {
		t.Fatalf("Reader.ReadUint32 after Skip:\nhave %d\nwant 3", x)
	}
	if err := r.Seek(4); err != nil {
		t.Fatalf("Reader.Seek:\nhave %v\nwant nil", err)
	}
	if pos, _ := r.Pos(); pos != 4 {
		t.Fatalf("Reader.Pos:\nhave %d\nwant 4", pos)
	}
	if x, _ := r.ReadUint32(); x != 2 {
		t.Fatalf("Reader.ReadUint32 after Seek:\nhave %d\nwant 2", x)
	}
	if err := r.Seek(13); err == nil {
		t.Fatal("Reader.Seek past end:\nhave nil\nwant error")
	}
	if n := r.Size(); n != 12 {
		t.Fatalf("Reader.Size:\nhave %d\nwant 12", n)
	}
}
