// Copyright 2023 Gustavo C. Viegas. All rights reserved.

// Package gpb loads binary asset bundles into scene graphs.
//
// A bundle starts with a reference table that maps object
// identifiers to typed records. Scenes, nodes, meshes,
// animations and fonts are read on demand from those records.
// Joints of mesh skins may be referenced before they are read;
// they are resolved once the requested objects were loaded.
package gpb

import (
	"errors"
	"fmt"
	"io"

	"github.com/gviegas/gpb/internal/stream"
)

const prefix = "gpb: "

var (
	// ErrFormat means that a record is malformed.
	ErrFormat = errors.New(prefix + "malformed bundle")

	// ErrVersion means that the bundle version is not
	// supported.
	ErrVersion = errors.New(prefix + "unsupported bundle version")

	// ErrNotFound means that no reference has the
	// requested identifier.
	ErrNotFound = errors.New(prefix + "reference not found")

	// ErrTypeMismatch means that a reference exists but
	// its type is not the requested one.
	ErrTypeMismatch = errors.New(prefix + "reference type mismatch")
)

// Magic is the identifier at the start of every bundle.
var Magic = [9]byte{0xab, 'G', 'P', 'B', 0xbb, '\r', '\n', 0x1a, '\n'}

// Type is the type of a referenced object.
type Type uint32

// Object types.
const (
	TypeScene            Type = 1
	TypeNode             Type = 2
	TypeAnimations       Type = 3
	TypeAnimation        Type = 4
	TypeAnimationChannel Type = 5
	TypeModel            Type = 10
	TypeMaterial         Type = 16
	TypeEffect           Type = 18
	TypeCamera           Type = 32
	TypeLight            Type = 33
	TypeMesh             Type = 34
	TypeMeshPart         Type = 35
	TypeMeshSkin         Type = 36
	TypeFont             Type = 128
)

// String implements fmt.Stringer.
func (t Type) String() string {
	switch t {
	case TypeScene:
		return "Scene"
	case TypeNode:
		return "Node"
	case TypeAnimations:
		return "Animations"
	case TypeAnimation:
		return "Animation"
	case TypeAnimationChannel:
		return "AnimationChannel"
	case TypeModel:
		return "Model"
	case TypeMaterial:
		return "Material"
	case TypeEffect:
		return "Effect"
	case TypeCamera:
		return "Camera"
	case TypeLight:
		return "Light"
	case TypeMesh:
		return "Mesh"
	case TypeMeshPart:
		return "MeshPart"
	case TypeMeshSkin:
		return "MeshSkin"
	case TypeFont:
		return "Font"
	}
	return fmt.Sprintf("Type(%d)", uint32(t))
}

// Reference locates an object within a bundle.
type Reference struct {
	ID     string
	Type   Type
	Offset uint32
}

func formatErr(format string, args ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{ErrFormat}, args...)...)
}

// loadErr makes stream errors that come from malformed
// records match ErrFormat.
func loadErr(err error) error {
	switch {
	case err == nil, errors.Is(err, ErrFormat):
		return err
	case errors.Is(err, stream.ErrStringLength),
		errors.Is(err, stream.ErrArrayLength),
		errors.Is(err, io.ErrUnexpectedEOF):
		return fmt.Errorf("%w: %w", ErrFormat, err)
	}
	return err
}
