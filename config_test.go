// Copyright 2023 Gustavo C. Viegas. All rights reserved.

package gpb

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig(t *testing.T) {
	c, err := LoadConfig(strings.NewReader("max_joint_count = 64\n"))
	require.NoError(t, err)
	want := DefaultConfig()
	want.MaxJointCount = 64
	assert.Equal(t, want, c)

	for _, s := range []string{
		"max_string_length = 0",
		"material_ext = \"\"",
		"unknown = 1",
		"max_joint_count = \"many\"",
	} {
		_, err := LoadConfig(strings.NewReader(s))
		assert.Error(t, err, s)
	}
}

func TestConfigure(t *testing.T) {
	defer Configure(nil)
	c := DefaultConfig()
	c.MaxStringLength = 8
	require.NoError(t, Configure(&c))
	c.MaxStringLength = 9
	assert.Equal(t, 8, cfg.Load().MaxStringLength)

	assert.Error(t, Configure(&Config{}))
	assert.Equal(t, 8, cfg.Load().MaxStringLength)
	c = DefaultConfig()
	c.MaxJointCount = 0
	assert.Error(t, Configure(&c))
	assert.Equal(t, MaxJointCount, cfg.Load().MaxJointCount)

	require.NoError(t, Configure(nil))
	assert.Equal(t, DefaultConfig(), *cfg.Load())
}

func TestParseXref(t *testing.T) {
	for _, x := range [...]struct {
		s        string
		file, id string
		ok       bool
	}{
		{"#a", "", "a", true},
		{"dir/b.gpb#a", "dir/b.gpb", "a", true},
		{"a", "a", "", false},
		{"b.gpb#", "b.gpb", "", false},
		{"#a#b", "", "a#b", true},
	} {
		file, id, ok := parseXref(x.s)
		assert.Equal(t, x.ok, ok, x.s)
		if ok {
			assert.Equal(t, x.file, file, x.s)
			assert.Equal(t, x.id, id, x.s)
		}
	}
}
