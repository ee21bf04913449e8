// Copyright 2023 Gustavo C. Viegas. All rights reserved.

package stream

import (
	"bytes"
	"encoding/binary"
	"math"
)

// Writer accumulates typed values in memory.
// It mirrors the reads of Reader.
type Writer struct {
	buf bytes.Buffer
	tmp [4]byte
}

// Len returns the number of bytes written so far.
func (w *Writer) Len() int { return w.buf.Len() }

// Bytes returns the bytes written so far.
func (w *Writer) Bytes() []byte { return w.buf.Bytes() }

// WriteUint8 writes an uint8.
func (w *Writer) WriteUint8(x uint8) { w.buf.WriteByte(x) }

// WriteUint32 writes an uint32.
func (w *Writer) WriteUint32(x uint32) {
	binary.LittleEndian.PutUint32(w.tmp[:], x)
	w.buf.Write(w.tmp[:])
}

// WriteInt32 writes an int32.
func (w *Writer) WriteInt32(x int32) { w.WriteUint32(uint32(x)) }

// WriteFloat32 writes a float32.
func (w *Writer) WriteFloat32(x float32) { w.WriteUint32(math.Float32bits(x)) }

// WriteFloats writes consecutive float32 values.
func (w *Writer) WriteFloats(s []float32) {
	for _, x := range s {
		w.WriteFloat32(x)
	}
}

// WriteBytes writes p verbatim.
func (w *Writer) WriteBytes(p []byte) { w.buf.Write(p) }

// WriteString writes a length-prefixed string.
func (w *Writer) WriteString(s string) {
	w.WriteUint32(uint32(len(s)))
	w.buf.WriteString(s)
}

// WriteArray writes a length-prefixed array.
func WriteArray[T Fixed](w *Writer, s []T) {
	w.WriteUint32(uint32(len(s)))
	binary.Write(&w.buf, binary.LittleEndian, s)
}
