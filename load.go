// Copyright 2023 Gustavo C. Viegas. All rights reserved.

package gpb

import (
	"github.com/gviegas/gpb/anim"
	"github.com/gviegas/gpb/internal/stream"
	"github.com/gviegas/gpb/linear"
	"github.com/gviegas/gpb/node"
)

// LoadScene loads the scene with the given identifier, or
// the first scene in b if id is empty.
// The scene's animations and mesh skins are resolved before
// it is returned.
func (b *Bundle) LoadScene(id string) (*node.Scene, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	sc, err := b.newSession(false).loadScene(id)
	if err != nil {
		err = loadErr(err)
		Logger().Warn("gpb: LoadScene failed", "bundle", b.path, "id", id, "err", err)
		return nil, err
	}
	return sc, nil
}

func (s *session) loadScene(id string) (*node.Scene, error) {
	var (
		ref *Reference
		err error
	)
	if id == "" {
		ref, err = s.b.seekToFirstType(TypeScene)
	} else {
		ref, err = s.b.seekTo(id, TypeScene)
	}
	if err != nil {
		return nil, err
	}
	sc := node.NewScene()
	sc.SetID(ref.ID)
	s.scene = sc

	n, err := s.r.ReadUint32()
	if err != nil {
		return nil, err
	}
	for range n {
		nd, err := s.readNode(true)
		if err != nil {
			return nil, err
		}
		sc.AddNode(nd)
	}

	xref, err := s.r.ReadString()
	if err != nil {
		return nil, err
	}
	var ambient [3]float32
	if err := s.r.ReadFloats(ambient[:]); err != nil {
		return nil, err
	}
	sc.SetAmbientColor(&linear.V3{ambient[0], ambient[1], ambient[2]})
	if xref != "" {
		s.setActiveCamera(xref)
	}

	anims, err := s.loadAnimations(func(id string) *node.Node { return sc.FindNode(id, true, true) })
	if err != nil {
		return nil, err
	}
	for _, a := range anims {
		sc.AddAnimation(a)
	}
	s.resolveJoints()
	Logger().Debug("gpb: loaded scene", "bundle", s.b.path, "id", sc.ID(), "nodes", sc.NodeCount(), "animations", len(anims))
	return sc, nil
}

func (s *session) setActiveCamera(xref string) {
	file, id, ok := parseXref(xref)
	if !ok || file != "" {
		Logger().Warn("gpb: unsupported camera reference", "bundle", s.b.path, "xref", xref)
		return
	}
	n := s.scene.FindNode(id, true, true)
	if n == nil || n.Camera() == nil {
		Logger().Warn("gpb: active camera not found", "bundle", s.b.path, "id", id)
		return
	}
	s.scene.SetActiveCamera(n.Camera())
}

// LoadNode loads the node with the given identifier and its
// descendants.
// Mesh skins in the hierarchy are resolved, and animations
// that target nodes of the hierarchy are added to the
// returned node. Each call creates new nodes.
func (b *Bundle) LoadNode(id string) (*node.Node, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	s := b.newSession(true)
	n, err := s.loadNode(id)
	if err != nil {
		err = loadErr(err)
		Logger().Warn("gpb: LoadNode failed", "bundle", b.path, "id", id, "err", err)
		return nil, err
	}
	s.ctx = n
	s.resolveJoints()

	anims, err := s.loadAnimations(func(id string) *node.Node {
		if x := s.findLoaded(id); x != nil {
			return x
		}
		return s.tracked[id]
	})
	if err != nil {
		err = loadErr(err)
		Logger().Warn("gpb: LoadNode failed", "bundle", b.path, "id", id, "err", err)
		return nil, err
	}
	for _, a := range anims {
		n.AddAnimation(a)
	}
	return n, nil
}

// LoadAnimations loads every animation in b whose channels
// target nodes of sc.
// Channels whose targets are missing are dropped. The
// animations are not added to sc.
func (b *Bundle) LoadAnimations(sc *node.Scene) ([]*anim.Animation, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	s := b.newSession(false)
	s.scene = sc
	anims, err := s.loadAnimations(func(id string) *node.Node { return sc.FindNode(id, true, true) })
	if err != nil {
		err = loadErr(err)
		Logger().Warn("gpb: LoadAnimations failed", "bundle", b.path, "err", err)
		return nil, err
	}
	return anims, nil
}

// loadAnimations reads every ANIMATIONS record in b.
// Animations with no resolved channels are discarded.
func (s *session) loadAnimations(find func(id string) *node.Node) ([]*anim.Animation, error) {
	var anims []*anim.Animation
	for i := range s.b.table {
		ref := &s.b.table[i]
		if ref.Type != TypeAnimations {
			continue
		}
		if err := s.r.Seek(int64(ref.Offset)); err != nil {
			return nil, err
		}
		x, err := s.readAnimations(find)
		if err != nil {
			return nil, err
		}
		anims = append(anims, x...)
	}
	return anims, nil
}

func (s *session) readAnimations(find func(id string) *node.Node) ([]*anim.Animation, error) {
	n, err := s.r.ReadUint32()
	if err != nil {
		return nil, err
	}
	var anims []*anim.Animation
	for range n {
		id, err := s.r.ReadString()
		if err != nil {
			return nil, err
		}
		cn, err := s.r.ReadUint32()
		if err != nil {
			return nil, err
		}
		a := anim.New(id)
		for range cn {
			c, err := s.readChannel(id, find)
			if err != nil {
				return nil, err
			}
			if c != nil {
				a.AddChannel(c)
			}
		}
		if len(a.Channels()) > 0 {
			anims = append(anims, a)
		}
	}
	return anims, nil
}

// readChannel reads an animation channel.
// It returns a nil channel if the target cannot be found or
// the channel data is inconsistent.
func (s *session) readChannel(animID string, find func(id string) *node.Node) (*anim.Channel, error) {
	targetID, err := s.r.ReadString()
	if err != nil {
		return nil, err
	}
	attr, err := s.r.ReadUint32()
	if err != nil {
		return nil, err
	}
	target := find(targetID)
	if target == nil {
		Logger().Warn("gpb: animation target not found", "bundle", s.b.path, "animation", animID, "target", targetID)
		for range 5 {
			if err := stream.SkipArray(s.r, 4); err != nil {
				return nil, err
			}
		}
		return nil, nil
	}

	keyTimes, err := stream.ReadArray[uint64](s.r, 4)
	if err != nil {
		return nil, err
	}
	values, err := stream.ReadArray[float32](s.r, 4)
	if err != nil {
		return nil, err
	}
	tangentsIn, err := stream.ReadArray[float32](s.r, 4)
	if err != nil {
		return nil, err
	}
	tangentsOut, err := stream.ReadArray[float32](s.r, 4)
	if err != nil {
		return nil, err
	}
	interp, err := stream.ReadArray[uint32](s.r, 4)
	if err != nil {
		return nil, err
	}
	c, err := anim.NewChannel(target, anim.Attribute(attr), keyTimes, values, tangentsIn, tangentsOut, interp)
	if err != nil {
		Logger().Warn("gpb: dropping animation channel", "bundle", s.b.path, "animation", animID, "target", targetID, "err", err)
		return nil, nil
	}
	return c, nil
}
