// Copyright 2023 Gustavo C. Viegas. All rights reserved.

// Package anim implements keyframe animations over
// animation targets.
package anim

import (
	"errors"
	"fmt"
	"sort"

	"github.com/gviegas/gpb/linear"
)

const prefix = "anim: "

// Attribute identifies the animated property of a target.
type Attribute uint32

// Attributes.
const (
	ScaleUnit            Attribute = 0
	Scale                Attribute = 1
	ScaleX               Attribute = 2
	ScaleY               Attribute = 3
	ScaleZ               Attribute = 4
	Rotate               Attribute = 8
	Translate            Attribute = 9
	TranslateX           Attribute = 10
	TranslateY           Attribute = 11
	TranslateZ           Attribute = 12
	RotateTranslate      Attribute = 16
	ScaleRotateTranslate Attribute = 17
	ScaleTranslate       Attribute = 18
	ScaleRotate          Attribute = 19
)

// Components returns the number of float32 values that one
// key of a holds, or 0 if a is not a valid constant.
func (a Attribute) Components() int {
	switch a {
	case ScaleUnit, ScaleX, ScaleY, ScaleZ, TranslateX, TranslateY, TranslateZ:
		return 1
	case Scale, Translate:
		return 3
	case Rotate:
		return 4
	case RotateTranslate, ScaleRotate:
		return 7
	case ScaleRotateTranslate:
		return 10
	case ScaleTranslate:
		return 6
	}
	return 0
}

// rotation returns the offset of the quaternion within a key
// of a, or -1 if a has no rotation.
func (a Attribute) rotation() int {
	switch a {
	case Rotate, RotateTranslate:
		return 0
	case ScaleRotateTranslate, ScaleRotate:
		return 3
	}
	return -1
}

// Interpolation is the interpolation type of a key.
type Interpolation uint32

// Interpolation types.
// Types other than Step and Flat are sampled linearly.
const (
	Bezier  Interpolation = 0
	BSpline Interpolation = 1
	Flat    Interpolation = 2
	Hermite Interpolation = 3
	Linear  Interpolation = 4
	Smooth  Interpolation = 5
	Step    Interpolation = 6
)

// Target is implemented by animatable objects.
type Target interface {
	ID() string
	SetAnimationValue(a Attribute, v []float32)
}

// Channel animates one attribute of a target.
type Channel struct {
	target        Target
	attr          Attribute
	keyTimes      []uint64
	values        []float32
	tangentsIn    []float32
	tangentsOut   []float32
	interpolation []uint32
	scratch       []float32
}

// NewChannel creates a new Channel.
// keyTimes must be non-decreasing and values must hold
// Components values per key.
// interpolation holds either one entry per key or a single
// entry for every key.
func NewChannel(target Target, attr Attribute, keyTimes []uint64, values, tangentsIn, tangentsOut []float32, interpolation []uint32) (*Channel, error) {
	newErr := func(reason string) error { return errors.New(prefix + reason) }

	n := attr.Components()
	switch {
	case target == nil:
		return nil, newErr("nil target")
	case n == 0:
		return nil, fmt.Errorf("%sundefined Attribute constant %d", prefix, attr)
	case len(keyTimes) == 0:
		return nil, newErr("no keys")
	case len(values) != len(keyTimes)*n:
		return nil, newErr("value count mismatch")
	case len(interpolation) > 1 && len(interpolation) != len(keyTimes):
		return nil, newErr("interpolation count mismatch")
	case !sort.SliceIsSorted(keyTimes, func(i, j int) bool { return keyTimes[i] < keyTimes[j] }):
		return nil, newErr("key times out of order")
	}
	return &Channel{
		target:        target,
		attr:          attr,
		keyTimes:      keyTimes,
		values:        values,
		tangentsIn:    tangentsIn,
		tangentsOut:   tangentsOut,
		interpolation: interpolation,
		scratch:       make([]float32, n),
	}, nil
}

// Target returns the target of c.
func (c *Channel) Target() Target { return c.target }

// Attribute returns the attribute that c animates.
func (c *Channel) Attribute() Attribute { return c.attr }

// KeyCount returns the number of keys in c.
func (c *Channel) KeyCount() int { return len(c.keyTimes) }

// Duration returns the time of the last key of c.
func (c *Channel) Duration() uint64 { return c.keyTimes[len(c.keyTimes)-1] }

func (c *Channel) interp(i int) Interpolation {
	switch len(c.interpolation) {
	case 0:
		return Linear
	case 1:
		return Interpolation(c.interpolation[0])
	}
	return Interpolation(c.interpolation[i])
}

// Evaluate writes the value of c at time t into dst, which
// must hold c.Attribute().Components() values.
// Times outside the keys clamp to the first or last key.
func (c *Channel) Evaluate(t uint64, dst []float32) {
	n := c.attr.Components()
	i := sort.Search(len(c.keyTimes), func(i int) bool { return c.keyTimes[i] > t })
	switch {
	case i == 0:
		copy(dst, c.values[:n])
		return
	case i == len(c.keyTimes):
		copy(dst, c.values[(i-1)*n:i*n])
		return
	}
	k := i - 1
	a := c.values[k*n : k*n+n]
	b := c.values[i*n : i*n+n]
	switch c.interp(k) {
	case Step, Flat:
		copy(dst, a)
		return
	}
	span := c.keyTimes[i] - c.keyTimes[k]
	s := float32(t-c.keyTimes[k]) / float32(span)
	for j := range n {
		dst[j] = a[j] + (b[j]-a[j])*s
	}
	if r := c.attr.rotation(); r >= 0 {
		p := linear.Q{V: linear.V3{a[r], a[r+1], a[r+2]}, R: a[r+3]}
		q := linear.Q{V: linear.V3{b[r], b[r+1], b[r+2]}, R: b[r+3]}
		var o linear.Q
		o.Nlerp(&p, &q, s)
		dst[r], dst[r+1], dst[r+2], dst[r+3] = o.V[0], o.V[1], o.V[2], o.R
	}
}

// Apply evaluates c at time t and sets the value on its target.
func (c *Channel) Apply(t uint64) {
	c.Evaluate(t, c.scratch)
	c.target.SetAnimationValue(c.attr, c.scratch)
}

// Animation is a named set of channels.
type Animation struct {
	id       string
	channels []*Channel
	clips    []*Clip
}

// New creates a new, empty Animation.
func New(id string) *Animation { return &Animation{id: id} }

// ID returns the identifier of a.
func (a *Animation) ID() string { return a.id }

// AddChannel adds c to a.
func (a *Animation) AddChannel(c *Channel) { a.channels = append(a.channels, c) }

// Channels returns the channels of a.
func (a *Animation) Channels() []*Channel { return a.channels }

// Duration returns the largest channel duration of a.
func (a *Animation) Duration() (d uint64) {
	for _, c := range a.channels {
		d = max(d, c.Duration())
	}
	return
}

// Apply applies every channel of a at time t.
func (a *Animation) Apply(t uint64) {
	for _, c := range a.channels {
		c.Apply(t)
	}
}

// Clip is a named time span of an animation.
type Clip struct {
	id         string
	begin, end uint64
	anim       *Animation
}

// CreateClip creates a new clip of a spanning [begin, end].
// The clip id must be unique within a.
func (a *Animation) CreateClip(id string, begin, end uint64) (*Clip, error) {
	if end < begin {
		return nil, errors.New(prefix + "clip ends before it begins")
	}
	if a.Clip(id) != nil {
		return nil, fmt.Errorf("%sduplicate clip %q", prefix, id)
	}
	c := &Clip{id: id, begin: begin, end: end, anim: a}
	a.clips = append(a.clips, c)
	return c, nil
}

// Clip returns the clip of a with the given id, or nil.
func (a *Animation) Clip(id string) *Clip {
	for _, c := range a.clips {
		if c.id == id {
			return c
		}
	}
	return nil
}

// Clips returns the clips of a.
func (a *Animation) Clips() []*Clip { return a.clips }

// ID returns the identifier of c.
func (c *Clip) ID() string { return c.id }

// Span returns the begin and end times of c.
func (c *Clip) Span() (begin, end uint64) { return c.begin, c.end }

// Apply applies c's animation at elapsed time into the clip,
// looping over its span.
func (c *Clip) Apply(elapsed uint64) {
	t := c.begin
	if span := c.end - c.begin; span > 0 {
		t += elapsed % (span + 1)
	}
	c.anim.Apply(t)
}
