// Copyright 2023 Gustavo C. Viegas. All rights reserved.

package gpb

import (
	"fmt"
	"io"
	"sync/atomic"

	"github.com/pelletier/go-toml/v2"
)

const (
	// MaxStringLength is the default limit for strings read
	// from bundles.
	MaxStringLength = 5000

	// MaxJointCount is the default limit for joints in a skin.
	MaxJointCount = 1024

	dflMaterialExt = ".material"
)

// Config is used to configure bundle loading.
type Config struct {
	// The maximum length of strings in bundles.
	//
	// Default is MaxStringLength.
	MaxStringLength int `toml:"max_string_length"`

	// The maximum number of joints in a skin.
	//
	// Default is MaxJointCount.
	MaxJointCount int `toml:"max_joint_count"`

	// The extension that replaces a bundle's extension
	// to form its material path.
	//
	// Default is ".material".
	MaterialExt string `toml:"material_ext"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		MaxStringLength: MaxStringLength,
		MaxJointCount:   MaxJointCount,
		MaterialExt:     dflMaterialExt,
	}
}

// LoadConfig decodes a TOML configuration from r.
// Fields absent from r keep their default values.
func LoadConfig(r io.Reader) (Config, error) {
	config := DefaultConfig()
	if err := toml.NewDecoder(r).DisallowUnknownFields().Decode(&config); err != nil {
		return Config{}, fmt.Errorf("%sdecode config: %w", prefix, err)
	}
	if err := config.Validate(); err != nil {
		return Config{}, err
	}
	return config, nil
}

// Validate checks whether c holds usable values.
func (c *Config) Validate() error {
	switch {
	case c.MaxStringLength < 1:
		return fmt.Errorf("%sinvalid max_string_length %d", prefix, c.MaxStringLength)
	case c.MaxJointCount < 1:
		return fmt.Errorf("%sinvalid max_joint_count %d", prefix, c.MaxJointCount)
	case c.MaterialExt == "":
		return fmt.Errorf("%sempty material_ext", prefix)
	}
	return nil
}

var cfg atomic.Pointer[Config]

// Configure replaces the configuration used by bundles
// opened from now on. A nil config restores the defaults.
// An invalid config is rejected and the current one kept.
func Configure(config *Config) error {
	var c Config
	if config == nil {
		c = DefaultConfig()
	} else {
		c = *config
		if err := c.Validate(); err != nil {
			return err
		}
	}
	cfg.Store(&c)
	return nil
}

func init() { Configure(nil) }
