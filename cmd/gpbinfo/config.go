// Copyright 2023 Gustavo C. Viegas. All rights reserved.

package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/pelletier/go-toml/v2"

	"github.com/gviegas/gpb"
)

// config is the contents of a configuration file.
type config struct {
	Log struct {
		Level string `toml:"level"`
	} `toml:"log"`
	Bundle gpb.Config `toml:"bundle"`
}

func defaultConfig() config {
	var c config
	c.Log.Level = "warn"
	c.Bundle = gpb.DefaultConfig()
	return c
}

// loadConfig reads the configuration file at path over the
// defaults. An empty path yields the defaults.
func loadConfig(path string) (config, error) {
	c := defaultConfig()
	if path == "" {
		return c, nil
	}
	f, err := os.Open(path)
	if err != nil {
		return config{}, fmt.Errorf("config: %w", err)
	}
	defer f.Close()
	if err := toml.NewDecoder(f).DisallowUnknownFields().Decode(&c); err != nil {
		return config{}, fmt.Errorf("config: parse %s: %w", path, err)
	}
	return c, nil
}

// resolve applies flag values over c and validates the
// result. Empty flags keep the values of c.
func (c *config) resolve(logLevel string) error {
	if logLevel != "" {
		c.Log.Level = logLevel
	}
	if _, err := parseLevel(c.Log.Level); err != nil {
		return err
	}
	return c.Bundle.Validate()
}

func parseLevel(s string) (slog.Level, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(s)); err != nil {
		return 0, fmt.Errorf("config: invalid log level %q", s)
	}
	return l, nil
}

// install makes c the configuration of package gpb.
func (c *config) install(w io.Writer) error {
	l, err := parseLevel(c.Log.Level)
	if err != nil {
		return err
	}
	if err := gpb.Configure(&c.Bundle); err != nil {
		return err
	}
	gpb.SetLogger(slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: l})))
	return nil
}
