package config

import (
	"errors"
	"os"
	"path/filepath"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write config file: %v", err)
	}
	return path
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg == nil {
		t.Fatal("DefaultConfig() returned nil")
	}

	if !cfg.Queries.Flops || !cfg.Queries.Memops {
		t.Error("both queries should be enabled by default")
	}
	if cfg.Queries.SeparatePasses {
		t.Error("Queries.SeparatePasses should be false by default")
	}
	if cfg.Frontend.MaxIncludeDepth != 32 {
		t.Errorf("Frontend.MaxIncludeDepth = %d, want 32", cfg.Frontend.MaxIncludeDepth)
	}
	if !cfg.Exclude.Gitignore {
		t.Error("Exclude.Gitignore should be true by default")
	}
	if cfg.Output.Format != "text" {
		t.Errorf("Output.Format = %s, want text", cfg.Output.Format)
	}
	if !cfg.Output.Color {
		t.Error("Output.Color should be true by default")
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config is invalid: %v", err)
	}
}

func TestLoadTOML(t *testing.T) {
	path := writeConfig(t, "cxxlens.toml", `
workers = 4

[frontend]
include_dirs = ["include", "third_party/eigen"]
max_include_depth = 8

[queries]
memops = false
primary_file_only = true

[exclude]
dirs = ["build", "out"]

[output]
format = "json"
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if cfg.Workers != 4 {
		t.Errorf("Workers = %d, want 4", cfg.Workers)
	}
	if !slices.Equal(cfg.Frontend.IncludeDirs, []string{"include", "third_party/eigen"}) {
		t.Errorf("Frontend.IncludeDirs = %v", cfg.Frontend.IncludeDirs)
	}
	if cfg.Frontend.MaxIncludeDepth != 8 {
		t.Errorf("Frontend.MaxIncludeDepth = %d, want 8", cfg.Frontend.MaxIncludeDepth)
	}
	if cfg.Queries.Memops {
		t.Error("Queries.Memops should be false")
	}
	if !cfg.Queries.Flops {
		t.Error("Queries.Flops should keep its default")
	}
	if !cfg.Queries.PrimaryFileOnly {
		t.Error("Queries.PrimaryFileOnly should be true")
	}
	if cfg.Output.Format != "json" {
		t.Errorf("Output.Format = %s, want json", cfg.Output.Format)
	}
}

func TestLoadYAML(t *testing.T) {
	path := writeConfig(t, "cxxlens.yaml", `
queries:
  separate_passes: true
  dump: true

output:
  format: markdown
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if !cfg.Queries.SeparatePasses {
		t.Error("Queries.SeparatePasses should be true")
	}
	if !cfg.Queries.Dump {
		t.Error("Queries.Dump should be true")
	}
	if cfg.Output.Format != "markdown" {
		t.Errorf("Output.Format = %s, want markdown", cfg.Output.Format)
	}
}

func TestLoadJSON(t *testing.T) {
	path := writeConfig(t, "cxxlens.json", `{
  "frontend": {"max_include_depth": 2},
  "output": {"format": "toon", "color": false}
}`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 2, cfg.Frontend.MaxIncludeDepth)
	assert.Equal(t, "toon", cfg.Output.Format)
	assert.False(t, cfg.Output.Color)
}

func TestLoadNonExistentFile(t *testing.T) {
	_, err := Load("/nonexistent/path/cxxlens.toml")
	if err == nil {
		t.Error("Load() should return error for non-existent file")
	}
}

func TestLoadInvalidFile(t *testing.T) {
	path := writeConfig(t, "cxxlens.toml", `[frontend
invalid toml`)

	_, err := Load(path)
	if err == nil {
		t.Error("Load() should return error for invalid config")
	}
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{name: "unknown format", content: "[output]\nformat = \"xml\"\n"},
		{name: "negative workers", content: "workers = -1\n"},
		{name: "negative include depth", content: "[frontend]\nmax_include_depth = -3\n"},
		{name: "empty include dir", content: "[frontend]\ninclude_dirs = [\"\"]\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, "cxxlens.toml", tt.content))
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalidConfig), "got %v", err)
		})
	}
}

func TestLoadOrDefault(t *testing.T) {
	tmpDir := t.TempDir()
	t.Chdir(tmpDir)

	cfg := LoadOrDefault()
	if cfg == nil {
		t.Fatal("LoadOrDefault() returned nil")
	}
	if cfg.Frontend.MaxIncludeDepth != DefaultMaxIncludeDepth {
		t.Errorf("LoadOrDefault() returned non-default MaxIncludeDepth: %d", cfg.Frontend.MaxIncludeDepth)
	}
}

func TestLoadOrDefaultWithConfigFile(t *testing.T) {
	tmpDir := t.TempDir()
	content := "[frontend]\nmax_include_depth = 5\n"
	if err := os.WriteFile(filepath.Join(tmpDir, ".cxxlens.toml"), []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write config file: %v", err)
	}
	t.Chdir(tmpDir)

	assert.Equal(t, ".cxxlens.toml", Find("."))
	cfg := LoadOrDefault()
	if cfg.Frontend.MaxIncludeDepth != 5 {
		t.Errorf("LoadOrDefault() should load from file, got MaxIncludeDepth=%d", cfg.Frontend.MaxIncludeDepth)
	}
}

func TestShouldExclude(t *testing.T) {
	cfg := DefaultConfig()

	tests := []struct {
		path string
		want bool
	}{
		// Excluded directories
		{"build/gen/file.cpp", true},
		{"third_party/lib/x.h", true},
		{filepath.Join("src", "external", "y.cc"), true},

		// Excluded patterns
		{"msg.pb.h", true},
		{"msg.pb.cc", true},
		{"schema_generated.h", true},

		// Not excluded
		{"main.cpp", false},
		{"src/shape.h", false},
		{filepath.Join("src", "build_utils.cpp"), false},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			got := cfg.ShouldExclude(tt.path)
			if got != tt.want {
				t.Errorf("ShouldExclude(%q) = %v, want %v", tt.path, got, tt.want)
			}
		})
	}
}

func TestSchemaIsEmbedded(t *testing.T) {
	assert.Contains(t, string(Schema()), `"max_include_depth"`)
}
