// Copyright 2023 Gustavo C. Viegas. All rights reserved.

// Package scene composes scenes from bundles and
// declarative descriptions.
package scene

import (
	"errors"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

const prefix = "scene: "

// Description describes a scene.
//
// Path names the bundle whose scene is used as the base;
// ID selects a scene within it (the first one if empty).
// Without a Path, the scene starts empty.
type Description struct {
	Path         string      `yaml:"path"`
	ID           string      `yaml:"id"`
	ActiveCamera string      `yaml:"activeCamera"`
	AmbientColor *[3]float32 `yaml:"ambientColor"`
	Nodes        []Node      `yaml:"nodes"`
	Animations   []Animation `yaml:"animations"`
}

// Node describes a node of the scene.
//
// URL selects which nodes the description applies to:
// "#id" and "#prefix*" match nodes of the base scene, while
// "file#id" and "file#prefix*" load nodes from another
// bundle. Matched nodes are renamed to ID, or to ID followed
// by the unmatched remainder for prefix matches.
// Without a URL, the node named ID is used, and created if
// it does not exist.
type Node struct {
	ID         string            `yaml:"id"`
	URL        string            `yaml:"url"`
	Material   string            `yaml:"material"`
	Transform  *Transform        `yaml:"transform"`
	Light      *Light            `yaml:"light"`
	Camera     *Camera           `yaml:"camera"`
	Collision  *Collision        `yaml:"collision"`
	Enabled    *bool             `yaml:"enabled"`
	Tags       map[string]string `yaml:"tags"`
	Components map[string]string `yaml:"components"`
	Children   []Node            `yaml:"children"`
}

// Transform is applied on top of a node's transform.
// Translation is added, rotation is composed and scale is
// multiplied.
type Transform struct {
	Translate *[3]float32 `yaml:"translate"`
	Rotate    *Rotation   `yaml:"rotate"`
	Scale     *[3]float32 `yaml:"scale"`
}

// Rotation is an axis-angle rotation in degrees.
type Rotation struct {
	Axis  [3]float32 `yaml:"axis"`
	Angle float32    `yaml:"angle"`
}

// Light describes a light.
// Type is one of "directional", "point" or "spot".
// Cone angles are in degrees.
type Light struct {
	Type  string     `yaml:"type"`
	Color [3]float32 `yaml:"color"`
	Range float32    `yaml:"range"`
	Inner float32    `yaml:"innerAngle"`
	Outer float32    `yaml:"outerAngle"`
}

// Camera describes a camera.
// Type is either "perspective" or "orthographic".
type Camera struct {
	Type        string  `yaml:"type"`
	FieldOfView float32 `yaml:"fieldOfView"`
	ZoomX       float32 `yaml:"zoomX"`
	ZoomY       float32 `yaml:"zoomY"`
	AspectRatio float32 `yaml:"aspectRatio"`
	Near        float32 `yaml:"near"`
	Far         float32 `yaml:"far"`
}

// Collision describes a collision object.
// Type is one of "rigidbody", "ghost" or "character" and
// Shape is one of "box", "sphere", "capsule" or "mesh".
// Dimensions that are not given are derived from the
// node's mesh bounds and world scale.
type Collision struct {
	Type    string      `yaml:"type"`
	Shape   string      `yaml:"shape"`
	Mass    float32     `yaml:"mass"`
	Center  *[3]float32 `yaml:"center"`
	Extents *[3]float32 `yaml:"extents"`
	Radius  *float32    `yaml:"radius"`
	Height  *float32    `yaml:"height"`
}

// Animation selects animations of a bundle.
// URL names the bundle (the base bundle if empty) and ID
// the animation (every animation if empty).
type Animation struct {
	ID    string `yaml:"id"`
	URL   string `yaml:"url"`
	Clips []Clip `yaml:"clips"`
}

// Clip describes an animation clip, in milliseconds.
type Clip struct {
	ID    string `yaml:"id"`
	Begin uint64 `yaml:"begin"`
	End   uint64 `yaml:"end"`
}

// Parse decodes a YAML description from r.
// Unknown fields are an error.
func Parse(r io.Reader) (*Description, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	var d Description
	if err := dec.Decode(&d); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.New(prefix + "empty description")
		}
		return nil, fmt.Errorf("%sparse: %w", prefix, err)
	}
	if err := d.validate(); err != nil {
		return nil, err
	}
	return &d, nil
}

func (d *Description) validate() error {
	var check func(nodes []Node) error
	check = func(nodes []Node) error {
		for i := range nodes {
			n := &nodes[i]
			if n.ID == "" && n.URL == "" {
				return errors.New(prefix + "node has neither id nor url")
			}
			if n.Light != nil {
				if _, ok := lightTypes[n.Light.Type]; !ok {
					return fmt.Errorf("%snode %q: undefined light type %q", prefix, n.ID, n.Light.Type)
				}
			}
			if n.Camera != nil {
				if _, ok := cameraTypes[n.Camera.Type]; !ok {
					return fmt.Errorf("%snode %q: undefined camera type %q", prefix, n.ID, n.Camera.Type)
				}
			}
			if c := n.Collision; c != nil {
				if _, ok := collisionTypes[c.Type]; !ok {
					return fmt.Errorf("%snode %q: undefined collision type %q", prefix, n.ID, c.Type)
				}
				if _, ok := shapeTypes[c.Shape]; !ok {
					return fmt.Errorf("%snode %q: undefined collision shape %q", prefix, n.ID, c.Shape)
				}
			}
			if err := check(n.Children); err != nil {
				return err
			}
		}
		return nil
	}
	if err := check(d.Nodes); err != nil {
		return err
	}
	for _, a := range d.Animations {
		for _, c := range a.Clips {
			if c.End < c.Begin {
				return fmt.Errorf("%sclip %q ends before it begins", prefix, c.ID)
			}
		}
	}
	return nil
}
