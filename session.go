// Copyright 2023 Gustavo C. Viegas. All rights reserved.

package gpb

import (
	"github.com/chewxy/math32"

	"github.com/gviegas/gpb/internal/stream"
	"github.com/gviegas/gpb/linear"
	"github.com/gviegas/gpb/node"
)

// session holds the state of a single load.
// It is discarded when the load completes.
type session struct {
	b     *Bundle
	r     *stream.Reader
	scene *node.Scene
	ctx   *node.Node

	// tracked is only used when loading standalone nodes.
	tracked map[string]*node.Node
	order   []string

	skins []*skinData

	// moved records loaded nodes that a read attached to
	// its new node, so a failed read can put them back.
	moved []placement
}

// placement is where a loaded node was before a read
// attached it elsewhere.
type placement struct {
	n     *node.Node
	scene *node.Scene
	next  *node.Node
}

// skinData is a skin whose joints were not resolved yet.
type skinData struct {
	skin   *node.MeshSkin
	joints []string
	poses  []linear.M4
}

func (b *Bundle) newSession(tracking bool) *session {
	s := &session{b: b, r: b.r}
	if tracking {
		s.tracked = make(map[string]*node.Node)
	}
	return s
}

type mark struct{ tracked, skins, moved int }

func (s *session) mark() mark { return mark{len(s.order), len(s.skins), len(s.moved)} }

// rollback discards the tracked nodes and pending skins
// registered since m, and returns the loaded nodes moved
// since m to their previous place.
func (s *session) rollback(m mark) {
	for i := len(s.moved) - 1; i >= m.moved; i-- {
		p := s.moved[i]
		p.n.Remove()
		if p.scene != nil {
			p.scene.InsertNode(p.n, p.next)
		}
	}
	clear(s.moved[m.moved:])
	s.moved = s.moved[:m.moved]
	for _, id := range s.order[m.tracked:] {
		delete(s.tracked, id)
	}
	s.order = s.order[:m.tracked]
	clear(s.skins[m.skins:])
	s.skins = s.skins[:m.skins]
}

// findLoaded looks for a node with the given identifier in
// the session's contexts.
func (s *session) findLoaded(id string) *node.Node {
	if s.scene != nil {
		if n := s.scene.FindNode(id, true, true); n != nil {
			return n
		}
	}
	if s.ctx != nil {
		if s.ctx.ID() == id {
			return s.ctx
		}
		return s.ctx.FindNode(id, true, true)
	}
	return nil
}

// loadNode returns the node with the given identifier,
// reading it from the bundle if it is not in the contexts.
func (s *session) loadNode(id string) (*node.Node, error) {
	if n := s.findLoaded(id); n != nil {
		return n, nil
	}
	if _, err := s.b.seekTo(id, TypeNode); err != nil {
		return nil, err
	}
	return s.readNode(true)
}

// attach makes x, a node that was already loaded, a child
// of n and records where x was.
func (s *session) attach(n, x *node.Node) {
	p := placement{n: x}
	if sc := x.Scene(); sc != nil && x.Parent() == nil {
		p.scene, p.next = sc, x.NextSibling()
	}
	n.AddChild(x)
	if x.Parent() == n {
		s.moved = append(s.moved, p)
	}
}

// readNode reads the node record at the cursor.
// If materialize is false, the record is only consumed and
// the returned node is nil.
func (s *session) readNode(materialize bool) (n *node.Node, err error) {
	id, err := s.b.idAtCursor()
	if err != nil {
		return nil, err
	}
	if materialize && s.tracked != nil {
		if t, ok := s.tracked[id]; ok {
			if _, err = s.readNode(false); err != nil {
				return nil, err
			}
			return t, nil
		}
	}

	m := s.mark()
	defer func() {
		if err != nil {
			s.rollback(m)
			if n != nil {
				n.RemoveAllChildren()
				n = nil
			}
		}
	}()

	typ, err := s.r.ReadUint32()
	if err != nil {
		return nil, err
	}
	switch node.Type(typ) {
	case node.TypeNode, node.TypeJoint:
	default:
		return nil, formatErr("node %q has undefined type %d", id, typ)
	}
	if materialize {
		if node.Type(typ) == node.TypeJoint {
			n = &node.NewJoint(id).Node
		} else {
			n = node.New(id)
		}
		if s.tracked != nil {
			s.tracked[id] = n
			s.order = append(s.order, id)
		}
		var a [16]float32
		if a, err = s.r.ReadMatrix(); err != nil {
			return
		}
		xform := linear.FromArray(&a)
		n.SetTransform(&xform)
	} else if err = s.r.Skip(64); err != nil {
		return
	}
	// The stored parent is only used by the resolver.
	if err = s.r.SkipString(); err != nil {
		return
	}

	var count uint32
	if count, err = s.r.ReadUint32(); err != nil {
		return
	}
	for range count {
		if !materialize {
			if _, err = s.readNode(false); err != nil {
				return
			}
			continue
		}
		var cid string
		if cid, err = s.b.idAtCursor(); err != nil {
			return
		}
		if cid != "" {
			if x := s.findLoaded(cid); x != nil {
				if _, err = s.readNode(false); err != nil {
					return
				}
				if x.Parent() == nil {
					s.attach(n, x)
				}
				continue
			}
		}
		var c *node.Node
		if c, err = s.readNode(true); err != nil {
			return
		}
		// Tracked nodes keep their first parent.
		if c.Parent() == nil {
			n.AddChild(c)
		}
	}

	var (
		cam   *node.Camera
		light *node.Light
		model *node.Model
	)
	if cam, err = s.readCamera(materialize); err != nil {
		return
	}
	if light, err = s.readLight(materialize); err != nil {
		return
	}
	if model, err = s.readModel(materialize); err != nil {
		return
	}
	if !materialize {
		return nil, nil
	}
	if cam != nil {
		n.SetCamera(cam)
	}
	if light != nil {
		n.SetLight(light)
	}
	if model != nil {
		n.SetDrawable(model)
	}
	return n, nil
}

func (s *session) readCamera(materialize bool) (*node.Camera, error) {
	typ, err := s.r.ReadUint8()
	if err != nil || typ == 0 {
		return nil, err
	}
	var v [5]float32
	var n int
	switch node.CameraType(typ) {
	case node.Perspective:
		n = 4
	case node.Orthographic:
		n = 5
	default:
		return nil, formatErr("undefined camera type %d", typ)
	}
	if err := s.r.ReadFloats(v[:n]); err != nil || !materialize {
		return nil, err
	}
	aspect, near, far := v[0], v[1], v[2]
	if node.CameraType(typ) == node.Perspective {
		return node.NewPerspective(v[3], aspect, near, far), nil
	}
	return node.NewOrthographic(v[3], v[4], aspect, near, far), nil
}

func (s *session) readLight(materialize bool) (*node.Light, error) {
	typ, err := s.r.ReadUint8()
	if err != nil || typ == 0 {
		return nil, err
	}
	var v [6]float32
	var n int
	switch node.LightType(typ) {
	case node.Directional:
		n = 3
	case node.Point:
		n = 4
	case node.Spot:
		n = 6
	default:
		return nil, formatErr("undefined light type %d", typ)
	}
	if err := s.r.ReadFloats(v[:n]); err != nil || !materialize {
		return nil, err
	}
	color := linear.V3{v[0], v[1], v[2]}
	switch node.LightType(typ) {
	case node.Directional:
		return node.NewDirectional(&color), nil
	case node.Point:
		return node.NewPoint(&color, v[3]), nil
	}
	const rad = math32.Pi / 180
	return node.NewSpot(&color, v[3], v[4]*rad, v[5]*rad), nil
}

// readModel reads a model record.
// The record is consumed entirely even if its mesh cannot
// be loaded, in which case no model is returned.
func (s *session) readModel(materialize bool) (*node.Model, error) {
	xref, err := s.r.ReadString()
	if err != nil || xref == "" {
		return nil, err
	}
	hasSkin, err := s.r.ReadUint8()
	if err != nil {
		return nil, err
	}
	var sd *skinData
	if hasSkin != 0 {
		if sd, err = s.readSkin(materialize); err != nil {
			return nil, err
		}
	}
	count, err := s.r.ReadUint32()
	if err != nil {
		return nil, err
	}
	var names []string
	for range count {
		if !materialize {
			if err := s.r.SkipString(); err != nil {
				return nil, err
			}
			continue
		}
		name, err := s.r.ReadString()
		if err != nil {
			return nil, err
		}
		names = append(names, name)
	}
	if !materialize {
		return nil, nil
	}

	m, err := s.b.meshFromXref(xref)
	if err != nil {
		Logger().Warn("gpb: dropping model", "bundle", s.b.path, "mesh", xref, "err", err)
		return nil, nil
	}
	model := node.NewModel(m)
	if sd != nil {
		model.SetSkin(sd.skin)
		s.skins = append(s.skins, sd)
	}
	if len(names) > 0 {
		if p := s.b.materialPath(); p != "" {
			for i, name := range names {
				part := i
				if m.PartCount() == 0 {
					part = -1
				}
				model.SetMaterial(node.MaterialRef{Path: p, Name: name}, part)
			}
		} else {
			Logger().Debug("gpb: no material file", "bundle", s.b.path, "mesh", xref)
		}
	}
	return model, nil
}

func (s *session) readSkin(materialize bool) (*skinData, error) {
	bind, err := s.r.ReadMatrix()
	if err != nil {
		return nil, err
	}
	n, err := s.r.ReadUint32()
	if err != nil {
		return nil, err
	}
	if n == 0 || int64(n) > int64(s.b.cfg.MaxJointCount) {
		return nil, formatErr("invalid joint count %d", n)
	}
	var joints []string
	if materialize {
		joints = make([]string, 0, n)
	}
	for range n {
		if !materialize {
			if err := s.r.SkipString(); err != nil {
				return nil, err
			}
			continue
		}
		xref, err := s.r.ReadString()
		if err != nil {
			return nil, err
		}
		joints = append(joints, xref)
	}
	poseCount, err := s.r.ReadUint32()
	if err != nil {
		return nil, err
	}
	if poseCount != 0 && poseCount != n*16 {
		return nil, formatErr("inverse bind pose count %d does not match %d joints", poseCount, n)
	}
	if !materialize {
		return nil, s.r.Skip(int64(poseCount) * 4)
	}
	poses := make([]linear.M4, poseCount/16)
	for i := range poses {
		a, err := s.r.ReadMatrix()
		if err != nil {
			return nil, err
		}
		poses[i] = linear.FromArray(&a)
	}

	skin := node.NewMeshSkin()
	bs := linear.FromArray(&bind)
	skin.SetBindShape(&bs)
	skin.SetJointCount(int(n))
	return &skinData{skin: skin, joints: joints, poses: poses}, nil
}
