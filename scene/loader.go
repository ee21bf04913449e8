// Copyright 2023 Gustavo C. Viegas. All rights reserved.

package scene

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/samber/lo"

	"github.com/gviegas/gpb"
	"github.com/gviegas/gpb/anim"
	"github.com/gviegas/gpb/linear"
	"github.com/gviegas/gpb/node"
)

// ComponentFunc attaches a component of some kind to n.
// url is the value given in the node's description.
type ComponentFunc func(n *node.Node, url string) error

// Loader composes scenes.
type Loader struct {
	fsys       fs.FS
	cache      *gpb.Cache
	components map[string]ComponentFunc
}

// NewLoader creates a new Loader that reads descriptions
// and bundles from fsys.
// A nil fsys reads from the operating system's file system.
func NewLoader(fsys fs.FS) *Loader {
	return &Loader{
		fsys:       fsys,
		cache:      gpb.NewCache(fsys),
		components: make(map[string]ComponentFunc),
	}
}

// RegisterComponent sets the function that handles
// components of the given kind, such as "audio",
// "particle", "terrain", "script", "sprite", "tileset"
// or "text". A nil f removes the handler.
func (l *Loader) RegisterComponent(kind string, f ComponentFunc) {
	if f == nil {
		delete(l.components, kind)
		return
	}
	l.components[kind] = f
}

// LoadFile parses the description at name and loads it.
func (l *Loader) LoadFile(name string) (*node.Scene, error) {
	var (
		data []byte
		err  error
	)
	if l.fsys == nil {
		data, err = os.ReadFile(filepath.FromSlash(name))
	} else {
		data, err = fs.ReadFile(l.fsys, name)
	}
	if err != nil {
		return nil, fmt.Errorf("%s%w", prefix, err)
	}
	d, err := Parse(strings.NewReader(string(data)))
	if err != nil {
		return nil, fmt.Errorf("%w (%s)", err, name)
	}
	return l.Load(d)
}

type binding struct {
	desc *Node
	node *node.Node
}

type composer struct {
	l        *Loader
	d        *Description
	sc       *node.Scene
	base     *gpb.Bundle
	bindings []binding
}

// Load composes the scene that d describes.
// Only failing to load the base scene is an error; other
// problems are logged and the offending entries skipped.
func (l *Loader) Load(d *Description) (*node.Scene, error) {
	if err := d.validate(); err != nil {
		return nil, err
	}
	c := &composer{l: l, d: d}
	if d.Path != "" {
		b, err := l.cache.Open(d.Path)
		if err != nil {
			return nil, err
		}
		defer b.Close()
		c.base = b
		if c.sc, err = b.LoadScene(d.ID); err != nil {
			return nil, err
		}
		if d.ID != "" {
			c.sc.SetID(d.ID)
		}
	} else {
		c.sc = node.NewScene()
		c.sc.SetID(d.ID)
	}

	c.stitch(d.Nodes, nil)
	c.loadAnimations()
	for _, b := range c.bindings {
		c.applyProperties(b)
	}
	// Collision shapes depend on committed transforms.
	for _, b := range c.bindings {
		if b.desc.Collision != nil {
			c.applyCollision(b)
		}
	}
	if d.ActiveCamera != "" {
		n := c.sc.FindNode(d.ActiveCamera, true, true)
		if n == nil || n.Camera() == nil {
			c.warn("active camera not found", d.ActiveCamera, c.sceneIDs())
		} else {
			c.sc.SetActiveCamera(n.Camera())
		}
	}
	if d.AmbientColor != nil {
		c.sc.SetAmbientColor((*linear.V3)(d.AmbientColor))
	}
	gpb.Logger().Debug("scene: composed", "id", c.sc.ID(), "nodes", c.sc.NodeCount(), "bindings", len(c.bindings))
	return c.sc, nil
}

func (c *composer) warn(msg, id string, candidates []string) {
	if s := suggest(id, candidates); len(s) > 0 {
		gpb.Logger().Warn("scene: "+msg, "id", id, "suggestions", s)
	} else {
		gpb.Logger().Warn("scene: "+msg, "id", id)
	}
}

func (c *composer) sceneIDs() (ids []string) {
	c.sc.Visit(func(n *node.Node) bool {
		ids = append(ids, n.ID())
		return true
	})
	return lo.Uniq(ids)
}

// stitch binds node descriptions to nodes of the scene.
func (c *composer) stitch(descs []Node, parent *node.Node) {
	for i := range descs {
		nd := &descs[i]
		nodes, fresh := c.match(nd)
		for _, n := range nodes {
			switch {
			case parent != nil:
				if n.Parent() != parent {
					parent.AddChild(n)
				}
			case fresh:
				c.sc.AddNode(n)
			}
			if fresh {
				for _, a := range n.Animations() {
					if c.sc.Animation(a.ID()) == nil {
						c.sc.AddAnimation(a)
					}
				}
			}
			c.bindings = append(c.bindings, binding{nd, n})
			c.stitch(nd.Children, n)
		}
	}
}

// match returns the nodes that nd applies to, and whether
// they were created rather than found in the scene.
func (c *composer) match(nd *Node) (nodes []*node.Node, fresh bool) {
	if nd.URL == "" {
		if n := c.sc.FindNode(nd.ID, true, true); n != nil {
			return []*node.Node{n}, false
		}
		return []*node.Node{node.New(nd.ID)}, true
	}
	file, id, ok := strings.Cut(nd.URL, "#")
	if !ok || id == "" {
		gpb.Logger().Warn("scene: invalid node url", "url", nd.URL)
		return nil, false
	}
	isPrefix := strings.HasSuffix(id, "*")
	id = strings.TrimSuffix(id, "*")
	rename := func(n *node.Node, remainder string) {
		if nd.ID != "" {
			n.SetID(nd.ID + remainder)
		}
	}

	if file == "" || file == c.d.Path {
		if c.base == nil {
			gpb.Logger().Warn("scene: url refers to a missing base bundle", "url", nd.URL)
			return nil, false
		}
		if !isPrefix {
			n := c.sc.FindNode(id, true, true)
			if n == nil {
				c.warn("node not found", id, c.sceneIDs())
				return nil, false
			}
			rename(n, "")
			return []*node.Node{n}, false
		}
		nodes = c.sc.FindNodes(id, true, false)
		if len(nodes) == 0 {
			c.warn("no node matches prefix", id, c.sceneIDs())
		}
		for _, n := range nodes {
			rename(n, strings.TrimPrefix(n.ID(), id))
		}
		return nodes, false
	}

	b, err := c.l.cache.Open(file)
	if err != nil {
		gpb.Logger().Warn("scene: bundle not opened", "url", nd.URL, "err", err)
		return nil, false
	}
	defer b.Close()
	ids := objectIDs(b, gpb.TypeNode)
	if !isPrefix {
		if !lo.Contains(ids, id) {
			c.warn("node not found in "+file, id, ids)
			return nil, false
		}
		n, err := b.LoadNode(id)
		if err != nil {
			return nil, false
		}
		rename(n, "")
		return []*node.Node{n}, true
	}
	ids = lo.Filter(ids, func(s string, _ int) bool { return strings.HasPrefix(s, id) })
	if len(ids) == 0 {
		c.warn("no node matches prefix in "+file, id, objectIDs(b, gpb.TypeNode))
		return nil, false
	}
	for _, x := range ids {
		// Descendants of a previous match come with it.
		if lo.ContainsBy(nodes, func(n *node.Node) bool { return n.FindNode(x, true, true) != nil }) {
			continue
		}
		n, err := b.LoadNode(x)
		if err != nil {
			continue
		}
		nodes = append(nodes, n)
	}
	for _, n := range nodes {
		rename(n, strings.TrimPrefix(n.ID(), id))
	}
	return nodes, true
}

// objectIDs returns the distinct identifiers of b's
// references of the given type.
func objectIDs(b *gpb.Bundle, typ gpb.Type) []string {
	ids := make([]string, 0, b.ObjectCount())
	for i := range b.ObjectCount() {
		if b.ObjectType(i) == typ {
			ids = append(ids, b.ObjectID(i))
		}
	}
	return lo.Uniq(ids)
}

func (c *composer) loadAnimations() {
	for _, ad := range c.d.Animations {
		var anims []*anim.Animation
		if ad.URL == "" || ad.URL == c.d.Path {
			if c.base == nil {
				gpb.Logger().Warn("scene: animation refers to a missing base bundle", "id", ad.ID)
				continue
			}
			anims = c.sc.Animations()
		} else {
			b, err := c.l.cache.Open(ad.URL)
			if err != nil {
				gpb.Logger().Warn("scene: bundle not opened", "url", ad.URL, "err", err)
				continue
			}
			anims, err = b.LoadAnimations(c.sc)
			b.Close()
			if err != nil {
				continue
			}
			for _, a := range anims {
				if c.sc.Animation(a.ID()) == nil {
					c.sc.AddAnimation(a)
				}
			}
		}
		if ad.ID != "" {
			all := lo.Map(anims, func(a *anim.Animation, _ int) string { return a.ID() })
			anims = lo.Filter(anims, func(a *anim.Animation, _ int) bool { return a.ID() == ad.ID })
			if len(anims) == 0 {
				c.warn("animation not found", ad.ID, all)
				continue
			}
		}
		for _, a := range anims {
			for _, cd := range ad.Clips {
				if _, err := a.CreateClip(cd.ID, cd.Begin, cd.End); err != nil {
					gpb.Logger().Warn("scene: clip not created", "animation", a.ID(), "clip", cd.ID, "err", err)
				}
			}
		}
	}
}
