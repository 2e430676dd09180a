// Package config loads cxxlens settings from TOML, YAML or JSON files.
package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Config holds all configuration options for cxxlens.
type Config struct {
	// Front end settings
	Frontend FrontendConfig `koanf:"frontend" json:"frontend" toml:"frontend"`

	// Operation counting queries
	Queries QueriesConfig `koanf:"queries" json:"queries" toml:"queries"`

	// File exclusion patterns
	Exclude ExcludeConfig `koanf:"exclude" json:"exclude" toml:"exclude"`

	// Output settings
	Output OutputConfig `koanf:"output" json:"output" toml:"output"`

	// Files analyzed concurrently, 0 for 2x NumCPU
	Workers int `koanf:"workers" json:"workers" toml:"workers"`
}

// FrontendConfig controls how translation units are built.
type FrontendConfig struct {
	IncludeDirs     []string `koanf:"include_dirs" json:"include_dirs" toml:"include_dirs"`
	MaxIncludeDepth int      `koanf:"max_include_depth" json:"max_include_depth" toml:"max_include_depth"`
}

// QueriesConfig controls which operation counting queries run and how.
type QueriesConfig struct {
	Flops           bool `koanf:"flops" json:"flops" toml:"flops"`
	Memops          bool `koanf:"memops" json:"memops" toml:"memops"`
	SeparatePasses  bool `koanf:"separate_passes" json:"separate_passes" toml:"separate_passes"`
	PrimaryFileOnly bool `koanf:"primary_file_only" json:"primary_file_only" toml:"primary_file_only"`
	Dump            bool `koanf:"dump" json:"dump" toml:"dump"`
}

// ExcludeConfig defines file exclusion patterns.
type ExcludeConfig struct {
	Patterns  []string `koanf:"patterns" json:"patterns" toml:"patterns"`
	Dirs      []string `koanf:"dirs" json:"dirs" toml:"dirs"`
	Gitignore bool     `koanf:"gitignore" json:"gitignore" toml:"gitignore"`
}

// OutputConfig controls output formatting.
type OutputConfig struct {
	Format  string `koanf:"format" json:"format" toml:"format"` // text, json, markdown, toon
	Color   bool   `koanf:"color" json:"color" toml:"color"`
	Verbose bool   `koanf:"verbose" json:"verbose" toml:"verbose"`
}

// DefaultMaxIncludeDepth matches the front end's default nesting limit.
const DefaultMaxIncludeDepth = 32

// DefaultConfig returns a config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Frontend: FrontendConfig{
			IncludeDirs:     []string{},
			MaxIncludeDepth: DefaultMaxIncludeDepth,
		},
		Queries: QueriesConfig{
			Flops:  true,
			Memops: true,
		},
		Exclude: ExcludeConfig{
			Patterns: []string{
				"*.pb.h",
				"*.pb.cc",
				"*_generated.h",
			},
			Dirs: []string{
				".git",
				"build",
				"cmake-build-debug",
				"cmake-build-release",
				"third_party",
				"external",
				"vendor",
			},
			Gitignore: true,
		},
		Output: OutputConfig{
			Format: "text",
			Color:  true,
		},
	}
}

// Load loads configuration from a file, applies it over the defaults and
// validates the result.
func Load(path string) (*Config, error) {
	k := koanf.New(".")
	cfg := DefaultConfig()

	// Determine parser based on extension
	var parser koanf.Parser
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		parser = yaml.Parser()
	case ".json":
		parser = json.Parser()
	default:
		parser = toml.Parser()
	}

	if err := k.Load(file.Provider(path), parser); err != nil {
		return nil, err
	}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ConfigNames are the file names searched by LoadOrDefault, in order.
var ConfigNames = []string{
	"cxxlens.toml",
	"cxxlens.yaml",
	"cxxlens.yml",
	"cxxlens.json",
	".cxxlens.toml",
	".cxxlens.yaml",
	".cxxlens.yml",
	".cxxlens.json",
}

// Find returns the first config file in dir, or "" when there is none.
func Find(dir string) string {
	for _, name := range ConfigNames {
		path := filepath.Join(dir, name)
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// LoadOrDefault loads the config file in the current directory, or returns
// defaults when there is none or it cannot be loaded.
func LoadOrDefault() *Config {
	if path := Find("."); path != "" {
		if cfg, err := Load(path); err == nil {
			return cfg
		}
	}
	return DefaultConfig()
}

// ShouldExclude checks if a path should be excluded from analysis.
func (c *Config) ShouldExclude(path string) bool {
	sep := string(filepath.Separator)
	for _, dir := range c.Exclude.Dirs {
		if strings.Contains(path, sep+dir+sep) || strings.HasPrefix(path, dir+sep) {
			return true
		}
	}

	base := filepath.Base(path)
	for _, pattern := range c.Exclude.Patterns {
		if matched, _ := filepath.Match(pattern, base); matched {
			return true
		}
	}
	return false
}
