// Copyright 2023 Gustavo C. Viegas. All rights reserved.

package gpb

import (
	"github.com/gviegas/gpb/node"
)

// resolveJoints resolves the joints of every pending skin.
func (s *session) resolveJoints() {
	for _, sd := range s.skins {
		s.resolveSkin(sd)
	}
	clear(s.skins)
	s.skins = s.skins[:0]
}

func (s *session) resolveSkin(sd *skinData) {
	log := Logger()
	for i, xref := range sd.joints {
		file, id, ok := parseXref(xref)
		switch {
		case !ok:
			log.Warn("gpb: invalid joint reference", "bundle", s.b.path, "xref", xref)
			continue
		case file != "":
			log.Warn("gpb: external joint references are not supported", "bundle", s.b.path, "xref", xref)
			continue
		}
		n, err := s.loadNode(id)
		if err != nil {
			log.Warn("gpb: joint not loaded", "bundle", s.b.path, "id", id, "err", err)
			continue
		}
		j := n.Joint()
		if j == nil {
			log.Warn("gpb: skin references a node that is not a joint", "bundle", s.b.path, "id", id)
			continue
		}
		if i < len(sd.poses) {
			j.SetInverseBindPose(&sd.poses[i])
		}
		sd.skin.SetJoint(j, i)
	}

	var root *node.Joint
	for i := range sd.skin.JointCount() {
		if root = sd.skin.Joint(i); root != nil {
			break
		}
	}
	if root == nil {
		log.Warn("gpb: skin has no joints", "bundle", s.b.path)
		return
	}
	// Promote ancestors that are joints of the same skin,
	// discovering ancestors that were not loaded yet.
	for n := &root.Node; ; {
		p := n.Parent()
		if p == nil {
			if !s.attachAncestors(n) {
				break
			}
			p = n.Parent()
		}
		if j := p.Joint(); j != nil && sd.skin.JointIndex(j) >= 0 {
			root = j
		}
		n = p
	}
	sd.skin.SetRootJoint(root)
	if s.scene != nil {
		s.scene.RemoveNode(sd.skin.RootNode())
	}
}

// attachAncestors loads the topmost stored ancestor of n so
// that n gets attached to its stored parent.
// It returns whether n has a parent afterwards.
func (s *session) attachAncestors(n *node.Node) bool {
	b := s.b
	b.visited.Reset(len(b.table))
	id, top := n.ID(), ""
	for {
		i := b.find(id)
		if i < 0 || b.table[i].Type != TypeNode {
			break
		}
		if b.visited.TestAndSet(i) {
			Logger().Warn("gpb: node ancestry has a cycle", "bundle", b.path, "id", id)
			break
		}
		pid, err := b.storedParentID(i)
		if err != nil {
			Logger().Warn("gpb: stored parent not read", "bundle", b.path, "id", id, "err", err)
			break
		}
		if pid == "" {
			break
		}
		top, id = pid, pid
	}
	if top == "" {
		return false
	}
	if _, err := s.loadNode(top); err != nil {
		Logger().Warn("gpb: ancestor not loaded", "bundle", b.path, "id", top, "err", err)
		return false
	}
	return n.Parent() != nil
}
