// Copyright 2023 Gustavo C. Viegas. All rights reserved.

package main

import (
	"bytes"
	"image"
	"os"
	"path/filepath"
	"testing"

	"github.com/ftrvxmtrx/tga"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gviegas/gpb"
	"github.com/gviegas/gpb/encoder"
)

func TestLoadConfig(t *testing.T) {
	c, err := loadConfig("")
	require.NoError(t, err)
	assert.Equal(t, defaultConfig(), c)

	dir := t.TempDir()
	path := filepath.Join(dir, "gpbinfo.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
[log]
level = "debug"

[bundle]
max_string_length = 256
material_ext = ".mtl"
`), 0o644))
	c, err = loadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "debug", c.Log.Level)
	assert.Equal(t, 256, c.Bundle.MaxStringLength)
	assert.Equal(t, gpb.MaxJointCount, c.Bundle.MaxJointCount)
	assert.Equal(t, ".mtl", c.Bundle.MaterialExt)

	require.NoError(t, c.resolve("error"))
	assert.Equal(t, "error", c.Log.Level)
	assert.Error(t, c.resolve("loud"))

	bad := filepath.Join(dir, "bad.toml")
	require.NoError(t, os.WriteFile(bad, []byte("[bundle]\nmax_joints = 3\n"), 0o644))
	_, err = loadConfig(bad)
	assert.Error(t, err)
	_, err = loadConfig(filepath.Join(dir, "none.toml"))
	assert.Error(t, err)

	c = defaultConfig()
	c.Bundle.MaxJointCount = 0
	assert.Error(t, c.resolve(""))
}

func writeBundle(t *testing.T) string {
	t.Helper()
	e := encoder.New(1, 5)
	e.AddMesh(&encoder.Mesh{
		ID:       "tri",
		Elements: []encoder.Element{{Usage: 1, Size: 3}},
		Vertices: make([]byte, 36),
	})
	e.AddScene(&encoder.Scene{ID: "main", Nodes: []encoder.Node{
		{ID: "root", Children: []encoder.Node{{ID: "leaf", Model: &encoder.Model{Mesh: "#tri"}}}},
		{ID: "cam", Camera: &encoder.Camera{Type: 1, FieldOfView: 45, AspectRatio: 1, Near: 1, Far: 2}},
	}, ActiveCamera: "#cam"})
	e.AddFont(&encoder.Font{ID: "sans", Family: "Sans", Sizes: []encoder.FontSize{
		{Size: 12, Width: 2, Height: 2, Atlas: []byte{0, 64, 128, 255}, Glyphs: []encoder.Glyph{{Code: 'a', Width: 2}}},
	}})
	path := filepath.Join(t.TempDir(), "x.gpb")
	require.NoError(t, os.WriteFile(path, e.Bytes(), 0o644))
	return path
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Cleanup(func() {
		gpb.Configure(nil)
		gpb.SetLogger(nil)
	})
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestRefs(t *testing.T) {
	path := writeBundle(t)
	out, err := run(t, "refs", path)
	require.NoError(t, err)
	assert.Contains(t, out, "version 1.5")
	for _, s := range []string{"tri", "main", "root", "leaf", "cam", "sans"} {
		assert.Contains(t, out, s)
	}

	out, err = run(t, "refs", path, "--match", "r*")
	require.NoError(t, err)
	assert.Contains(t, out, " root\n")
	assert.NotContains(t, out, " leaf\n")

	out, err = run(t, "refs", path, "--type", "mesh")
	require.NoError(t, err)
	assert.Contains(t, out, " tri\n")
	assert.NotContains(t, out, " root\n")

	_, err = run(t, "refs", path, "--match", "[")
	assert.Error(t, err)
}

func TestTree(t *testing.T) {
	path := writeBundle(t)
	out, err := run(t, "tree", path)
	require.NoError(t, err)
	assert.Contains(t, out, `scene "main": 2 nodes, camera "cam"`)
	assert.Contains(t, out, `    node "leaf" mesh="tri"`)

	out, err = run(t, "tree", path, "--node", "root")
	require.NoError(t, err)
	assert.Contains(t, out, `node "root"`)

	_, err = run(t, "tree", path, "--node", "tri")
	assert.ErrorIs(t, err, gpb.ErrTypeMismatch)
}

func TestFont(t *testing.T) {
	path := writeBundle(t)
	dir := t.TempDir()
	out, err := run(t, "font", path, "sans", "-o", filepath.Join(dir, "a.tga"))
	require.NoError(t, err)
	assert.Contains(t, out, "Sans Plain size=12 glyphs=1 atlas=2x2")

	f, err := os.Open(filepath.Join(dir, "a.tga"))
	require.NoError(t, err)
	defer f.Close()
	img, err := tga.Decode(f)
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 2, 2), img.Bounds())

	_, err = run(t, "font", path, "sans", "-o", filepath.Join(dir, "a.webp"))
	require.NoError(t, err)
	st, err := os.Stat(filepath.Join(dir, "a.webp"))
	require.NoError(t, err)
	assert.NotZero(t, st.Size())

	_, err = run(t, "font", path, "sans", "-o", filepath.Join(dir, "a.png"))
	assert.Error(t, err)
}

func TestCompose(t *testing.T) {
	path := writeBundle(t)
	desc := filepath.Join(t.TempDir(), "s.yaml")
	require.NoError(t, os.WriteFile(desc, []byte("path: \""+filepath.ToSlash(path)+"\"\nnodes: [{id: top, url: \"#root\"}]\n"), 0o644))
	out, err := run(t, "compose", desc, "--log-level", "error")
	require.NoError(t, err)
	assert.Contains(t, out, `node "top"`)
}
