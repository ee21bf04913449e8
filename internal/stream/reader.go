// Copyright 2023 Gustavo C. Viegas. All rights reserved.

// Package stream implements typed little-endian reads and
// writes over bundle streams.
package stream

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
	"unsafe"
)

const prefix = "stream: "

var (
	// ErrStringLength means that a string's length prefix
	// exceeds the configured maximum.
	ErrStringLength = errors.New(prefix + "string length exceeds limit")

	// ErrArrayLength means that an array's length prefix
	// does not fit in the remaining stream.
	ErrArrayLength = errors.New(prefix + "array length exceeds stream")
)

// Fixed is the set of element types that arrays can hold.
type Fixed interface {
	~uint8 | ~uint16 | ~uint32 | ~uint64 | ~int8 | ~int16 | ~int32 | ~int64 | ~float32 | ~float64
}

// Reader reads typed values from a seekable stream.
// Values are little-endian.
type Reader struct {
	rs     io.ReadSeeker
	size   int64
	maxStr int
	buf    [64]byte
}

// NewReader creates a new Reader.
// Strings longer than maxString bytes are rejected.
func NewReader(rs io.ReadSeeker, maxString int) (*Reader, error) {
	size, err := rs.Seek(0, io.SeekEnd)
	if err != nil {
		return nil, err
	}
	if _, err = rs.Seek(0, io.SeekStart); err != nil {
		return nil, err
	}
	return &Reader{rs: rs, size: size, maxStr: maxString}, nil
}

// Size returns the size of the stream in bytes.
func (r *Reader) Size() int64 { return r.size }

// Pos returns the current position in the stream.
func (r *Reader) Pos() (int64, error) { return r.rs.Seek(0, io.SeekCurrent) }

// Seek moves to the absolute position off.
func (r *Reader) Seek(off int64) error {
	if off < 0 || off > r.size {
		return fmt.Errorf("%sseek to %d outside [0, %d]: %w", prefix, off, r.size, io.ErrUnexpectedEOF)
	}
	_, err := r.rs.Seek(off, io.SeekStart)
	return err
}

// Skip moves n bytes forward.
func (r *Reader) Skip(n int64) error {
	pos, err := r.Pos()
	if err != nil {
		return err
	}
	return r.Seek(pos + n)
}

func (r *Reader) fill(p []byte) error {
	if _, err := io.ReadFull(r.rs, p); err != nil {
		if err == io.EOF {
			err = io.ErrUnexpectedEOF
		}
		return err
	}
	return nil
}

// ReadUint8 reads an uint8.
func (r *Reader) ReadUint8() (uint8, error) {
	if err := r.fill(r.buf[:1]); err != nil {
		return 0, err
	}
	return r.buf[0], nil
}

// ReadUint32 reads an uint32.
func (r *Reader) ReadUint32() (uint32, error) {
	if err := r.fill(r.buf[:4]); err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(r.buf[:4]), nil
}

// ReadInt32 reads an int32.
func (r *Reader) ReadInt32() (int32, error) {
	x, err := r.ReadUint32()
	return int32(x), err
}

// ReadFloat32 reads a float32.
func (r *Reader) ReadFloat32() (float32, error) {
	x, err := r.ReadUint32()
	return math.Float32frombits(x), err
}

// ReadFloats fills dst with consecutive float32 values.
func (r *Reader) ReadFloats(dst []float32) error {
	for i := range dst {
		x, err := r.ReadFloat32()
		if err != nil {
			return err
		}
		dst[i] = x
	}
	return nil
}

// ReadMatrix reads sixteen float32 values.
func (r *Reader) ReadMatrix() (m [16]float32, err error) {
	if err = r.fill(r.buf[:64]); err != nil {
		return
	}
	for i := range m {
		m[i] = math.Float32frombits(binary.LittleEndian.Uint32(r.buf[i*4:]))
	}
	return
}

// ReadBytes reads n bytes.
func (r *Reader) ReadBytes(n int) ([]byte, error) {
	if err := r.checkRemaining(int64(n)); err != nil {
		return nil, err
	}
	p := make([]byte, n)
	if err := r.fill(p); err != nil {
		return nil, err
	}
	return p, nil
}

// ReadString reads a length-prefixed string.
func (r *Reader) ReadString() (string, error) {
	n, err := r.stringLen()
	if err != nil || n == 0 {
		return "", err
	}
	p := make([]byte, n)
	if err := r.fill(p); err != nil {
		return "", err
	}
	return string(p), nil
}

// SkipString skips a length-prefixed string.
func (r *Reader) SkipString() error {
	n, err := r.stringLen()
	if err != nil {
		return err
	}
	return r.Skip(int64(n))
}

func (r *Reader) stringLen() (int, error) {
	n, err := r.ReadUint32()
	if err != nil {
		return 0, err
	}
	if int64(n) > int64(r.maxStr) {
		return 0, fmt.Errorf("%w (%d > %d)", ErrStringLength, n, r.maxStr)
	}
	return int(n), nil
}

func (r *Reader) checkRemaining(n int64) error {
	pos, err := r.Pos()
	if err != nil {
		return err
	}
	if n < 0 || n > r.size-pos {
		return fmt.Errorf("%w (%d bytes at %d of %d)", ErrArrayLength, n, pos, r.size)
	}
	return nil
}

// ReadArray reads a length-prefixed array whose elements take
// elemSize bytes each in the stream.
// elemSize must not exceed the size of T; narrower elements are
// zero-extended into T byte for byte.
// The array is allocated only after its length is checked
// against the remaining stream.
func ReadArray[T Fixed](r *Reader, elemSize int) ([]T, error) {
	var zero T
	tsize := int(unsafe.Sizeof(zero))
	if elemSize <= 0 || elemSize > tsize {
		return nil, fmt.Errorf("%sinvalid element size %d for %T", prefix, elemSize, zero)
	}
	n, err := r.ReadUint32()
	if err != nil {
		return nil, err
	}
	if n == 0 {
		return nil, nil
	}
	raw, err := r.ReadBytes(int(n) * elemSize)
	if err != nil {
		return nil, err
	}
	s := make([]T, n)
	if elemSize == tsize {
		if _, err := binary.Decode(raw, binary.LittleEndian, s); err != nil {
			return nil, err
		}
		return s, nil
	}
	elem := make([]byte, tsize)
	for i := range s {
		clear(elem)
		copy(elem, raw[i*elemSize:(i+1)*elemSize])
		if _, err := binary.Decode(elem, binary.LittleEndian, &s[i]); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// SkipArray skips a length-prefixed array whose elements take
// elemSize bytes each.
func SkipArray(r *Reader, elemSize int) error {
	n, err := r.ReadUint32()
	if err != nil {
		return err
	}
	sz := int64(n) * int64(elemSize)
	if err := r.checkRemaining(sz); err != nil {
		return err
	}
	return r.Skip(sz)
}
