// Copyright 2023 Gustavo C. Viegas. All rights reserved.

package node

import (
	"weak"

	"github.com/gviegas/gpb/linear"
)

// Joint is a node that deforms skinned meshes.
// A joint may be shared by any number of skins; it only
// keeps weak references to them.
type Joint struct {
	Node
	ibp         linear.M4
	skins       []skinRef
	matrixDirty bool
}

// skinRef counts the slots of a skin that hold a joint.
type skinRef struct {
	p weak.Pointer[MeshSkin]
	n int
}

// NewJoint creates a new joint.
func NewJoint(id string) *Joint {
	j := new(Joint)
	j.init(id, TypeJoint)
	j.joint = j
	j.ibp.I()
	j.matrixDirty = true
	return j
}

// InverseBindPose returns the inverse bind pose of j.
func (j *Joint) InverseBindPose() linear.M4 { return j.ibp }

// SetInverseBindPose sets the inverse bind pose of j.
func (j *Joint) SetInverseBindPose(m *linear.M4) {
	j.ibp = *m
	j.matrixDirty = true
}

// Skins returns the live skins that reference j.
func (j *Joint) Skins() []*MeshSkin {
	s := make([]*MeshSkin, 0, len(j.skins))
	k := 0
	for _, r := range j.skins {
		if v := r.p.Value(); v != nil {
			s = append(s, v)
			j.skins[k] = r
			k++
		}
	}
	clear(j.skins[k:])
	j.skins = j.skins[:k]
	return s
}

func (j *Joint) addSkin(s *MeshSkin) {
	p := weak.Make(s)
	for i := range j.skins {
		if j.skins[i].p == p {
			j.skins[i].n++
			return
		}
	}
	j.skins = append(j.skins, skinRef{p, 1})
}

// removeSkin drops one slot reference of s.
func (j *Joint) removeSkin(s *MeshSkin) {
	p := weak.Make(s)
	for i := range j.skins {
		if j.skins[i].p != p {
			continue
		}
		if j.skins[i].n--; j.skins[i].n == 0 {
			j.skins = append(j.skins[:i], j.skins[i+1:]...)
		}
		return
	}
}

// slotCount returns the number of skin slots holding j.
func (j *Joint) slotCount() (n int) {
	j.Skins()
	for _, r := range j.skins {
		n += r.n
	}
	return
}

// updateJointMatrix writes the three palette rows of j into
// dst, unless j is clean and fills a single skin slot.
func (j *Joint) updateJointMatrix(bindShape *linear.M4, dst []linear.V4) {
	if j.slotCount() > 1 {
		j.matrixDirty = true
	}
	if !j.matrixDirty {
		return
	}
	j.matrixDirty = false
	w := j.World()
	var t linear.M4
	t.Mul(&w, &j.ibp)
	t.Mul(&t, bindShape)
	for r := range 3 {
		dst[r] = linear.V4{t[0][r], t[1][r], t[2][r], t[3][r]}
	}
}
