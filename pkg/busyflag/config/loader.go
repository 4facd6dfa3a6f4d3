package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/randalmurphal/busyflag/pkg/busyflag"
)

// FromFile loads configuration from a file, auto-detecting format by extension.
// Supported extensions: .yaml, .yml, .json
func FromFile(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config file: %w", err)
	}

	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".yaml", ".yml":
		return FromYAML(data)
	case ".json":
		return FromJSON(data)
	default:
		return Config{}, fmt.Errorf("unsupported config file extension: %s", ext)
	}
}

// FromYAML parses YAML data into a Config.
func FromYAML(data []byte) (Config, error) {
	var m map[string]any
	if err := yaml.Unmarshal(data, &m); err != nil {
		return Config{}, fmt.Errorf("parse yaml: %w", err)
	}
	return New(m), nil
}

// FromJSON parses JSON data into a Config.
func FromJSON(data []byte) (Config, error) {
	var m map[string]any
	if err := json.Unmarshal(data, &m); err != nil {
		return Config{}, fmt.Errorf("parse json: %w", err)
	}
	return New(m), nil
}

// Options translates a Config into manager options. Recognized keys:
//
//	strict: bool            — strict mode (default false)
//	create_on_access: bool  — auto-register on strict reads (default true)
//	flags: map              — initial entries
//
// Missing keys fall back to the registry defaults, so a partial config
// section is fine:
//
//	cfg, err := config.FromFile("app.yaml")
//	if err != nil { ... }
//	busyflag.Configure(config.Options(cfg)...)
func Options(cfg Config) []busyflag.Option {
	opts := []busyflag.Option{
		busyflag.WithStrict(cfg.Bool("strict", false)),
		busyflag.WithCreateOnAccess(cfg.Bool("create_on_access", true)),
	}
	if flags := cfg.Map("flags", nil); flags != nil {
		opts = append(opts, busyflag.WithInitialEntries(flags))
	}
	return opts
}
