// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) 2023-2026 Nicholas R. Perez

package ascript

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"autonomine.net/ascript/internal/eval"
	"autonomine.net/ascript/internal/scanner"
)

// DefaultConfigFile is read by the CLI when present in the working directory.
const DefaultConfigFile = "ascript.yaml"

// Config is the file form of the runtime options.
type Config struct {
	DB        string `yaml:"db,omitempty"`
	Memory    bool   `yaml:"memory,omitempty"`
	MaxDepth  int    `yaml:"max_depth,omitempty"`
	LoopLimit int    `yaml:"loop_limit,omitempty"`
	NoPrelude bool   `yaml:"no_prelude,omitempty"`
	Verbose   bool   `yaml:"verbose,omitempty"`
	History   string `yaml:"history,omitempty"`
	Ignore    string `yaml:"ignore,omitempty"`
}

// DefaultConfig returns the configuration used when no file is given.
func DefaultConfig() *Config {
	return &Config{
		DB:       "ascript.db",
		MaxDepth: eval.DefaultMaxDepth,
		Ignore:   scanner.DefaultIgnore,
	}
}

// LoadConfig reads a YAML config file. Fields missing from the file keep
// their defaults; unknown fields are an error.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config: empty path")
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("config: resolve %s: %w", path, err)
	}
	file, err := os.Open(abs)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	cfg := DefaultConfig()
	decoder := yaml.NewDecoder(file)
	decoder.KnownFields(true)
	if err := decoder.Decode(cfg); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", abs, err)
	}
	if cfg.MaxDepth < 0 || cfg.LoopLimit < 0 {
		return nil, fmt.Errorf("config: %s: max_depth and loop_limit must not be negative", abs)
	}
	return cfg, nil
}

// WriteConfig serialises cfg to path.
func WriteConfig(cfg *Config, path string) error {
	if cfg == nil {
		return fmt.Errorf("config: nil config")
	}
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(cfg); err != nil {
		return fmt.Errorf("config: marshal %s: %w", path, err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("config: encoder close: %w", err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("config: write %s: %w", path, err)
	}
	return nil
}

// Options converts the config to runtime options. Memory wins over DB.
func (c *Config) Options() []Option {
	var opts []Option
	switch {
	case c.Memory:
		opts = append(opts, WithMemoryStore())
	case c.DB != "":
		opts = append(opts, WithSQLiteStore(c.DB))
	}
	if c.MaxDepth > 0 {
		opts = append(opts, WithMaxDepth(c.MaxDepth))
	}
	if c.LoopLimit > 0 {
		opts = append(opts, WithLoopLimit(c.LoopLimit))
	}
	if c.NoPrelude {
		opts = append(opts, WithNoPrelude())
	}
	if c.Ignore != "" {
		opts = append(opts, WithIgnore(c.Ignore))
	}
	return opts
}

// WithConfig applies every option of cfg.
func WithConfig(cfg *Config) Option {
	return func(r *Runtime) {
		for _, opt := range cfg.Options() {
			opt(r)
		}
	}
}
