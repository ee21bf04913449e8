// Copyright 2023 Gustavo C. Viegas. All rights reserved.

package node

import (
	"github.com/gviegas/gpb/linear"
)

// rootJointCookie identifies the listener that a skin
// registers on its root joint's parent.
const rootJointCookie = 1

// MeshSkin binds a model's mesh to a set of joints.
// The joint hierarchy rooted at RootNode belongs to the
// skin.
type MeshSkin struct {
	bindShape linear.M4
	joints    []*Joint
	rootJoint *Joint
	rootNode  *Node
	palette   []linear.V4
	model     *Model
}

// NewMeshSkin creates a new skin with no joints.
func NewMeshSkin() *MeshSkin {
	s := new(MeshSkin)
	s.bindShape.I()
	return s
}

// BindShape returns the bind shape matrix of s.
func (s *MeshSkin) BindShape() linear.M4 { return s.bindShape }

// SetBindShape sets the bind shape matrix of s.
func (s *MeshSkin) SetBindShape(m *linear.M4) {
	s.bindShape = *m
	for _, j := range s.joints {
		if j != nil {
			j.matrixDirty = true
		}
	}
}

// JointCount returns the number of joint slots in s.
func (s *MeshSkin) JointCount() int { return len(s.joints) }

// SetJointCount resizes s to n empty joint slots.
// Every palette row is reset to the identity.
func (s *MeshSkin) SetJointCount(n int) {
	for _, j := range s.joints {
		if j != nil {
			j.removeSkin(s)
		}
	}
	s.joints = make([]*Joint, n)
	s.palette = make([]linear.V4, 3*n)
	for i := range n {
		s.resetRows(i)
	}
}

func (s *MeshSkin) resetRows(i int) {
	s.palette[i*3] = linear.V4{1, 0, 0, 0}
	s.palette[i*3+1] = linear.V4{0, 1, 0, 0}
	s.palette[i*3+2] = linear.V4{0, 0, 1, 0}
}

// Joint returns the joint in slot i, or nil.
func (s *MeshSkin) Joint(i int) *Joint {
	if i < 0 || i >= len(s.joints) {
		return nil
	}
	return s.joints[i]
}

// SetJoint places j in slot i. j may be nil.
func (s *MeshSkin) SetJoint(j *Joint, i int) {
	if i < 0 || i >= len(s.joints) {
		return
	}
	old := s.joints[i]
	if old == j {
		if j != nil {
			j.matrixDirty = true
		}
		return
	}
	if old != nil {
		old.removeSkin(s)
	}
	s.joints[i] = j
	if j == nil {
		s.resetRows(i)
		return
	}
	j.addSkin(s)
	j.matrixDirty = true
}

// JointIndex returns the first slot holding j, or -1.
func (s *MeshSkin) JointIndex(j *Joint) int {
	for i, x := range s.joints {
		if x == j && j != nil {
			return i
		}
	}
	return -1
}

// RootJoint returns the root joint of s.
func (s *MeshSkin) RootJoint() *Joint { return s.rootJoint }

// RootNode returns the topmost ancestor of the root joint,
// excluding the node of s's model and its ancestors.
func (s *MeshSkin) RootNode() *Node { return s.rootNode }

// SetRootJoint sets the root joint of s and recomputes its
// root node.
// s listens to transform changes of the root joint's parent.
func (s *MeshSkin) SetRootJoint(j *Joint) {
	if r := s.rootJoint; r != nil && r.parent != nil {
		r.parent.RemoveListener(s, rootJointCookie)
	}
	s.rootJoint = j
	s.rootNode = nil
	if j == nil {
		return
	}
	if j.parent != nil {
		j.parent.AddListener(s, rootJointCookie)
	}
	var stop *Node
	if s.model != nil {
		stop = s.model.node
	}
	n := &j.Node
	for p := n.parent; p != nil && p != stop; p = p.parent {
		n = p
	}
	s.rootNode = n
}

// TransformChanged implements TransformListener.
func (s *MeshSkin) TransformChanged(n *Node, cookie int) {
	if cookie == rootJointCookie && s.model != nil && s.model.node != nil {
		s.model.node.invalidateBounds()
	}
}

// Model returns the model that s belongs to.
func (s *MeshSkin) Model() *Model { return s.model }

// MatrixPalette computes and returns the matrix palette of s.
// It holds three rows per joint slot, taken from
// world ⋅ inverse bind pose ⋅ bind shape. Empty slots hold
// identity rows.
func (s *MeshSkin) MatrixPalette() []linear.V4 {
	for i, j := range s.joints {
		if j != nil {
			j.updateJointMatrix(&s.bindShape, s.palette[i*3:i*3+3])
		}
	}
	return s.palette
}

// MatrixPaletteSize returns the number of rows in the
// matrix palette of s.
func (s *MeshSkin) MatrixPaletteSize() int { return len(s.palette) }
