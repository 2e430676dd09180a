package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/panbanda/cxxlens/pkg/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v2"
)

// runApp runs the CLI in a fresh working directory holding files and
// returns what the command wrote to its --output file and to the app writer.
func runApp(t *testing.T, files map[string]string, args ...string) (string, string, error) {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		path := filepath.Join(dir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
	t.Chdir(dir)

	out := filepath.Join(dir, "out.txt")
	var stdout, stderr bytes.Buffer
	app := newApp()
	app.Writer = &stdout
	app.ErrWriter = &stderr

	err := app.Run(append([]string{"cxxlens", "--no-color", "-o", out}, args...))
	data, _ := os.ReadFile(out)
	return string(data), stdout.String(), err
}

const shapes = `struct Shape {};
struct Circle : Shape {};
class Widget : public Unknown {};
`

func TestGetPaths(t *testing.T) {
	tests := []struct {
		name     string
		args     []string
		expected []string
	}{
		{"no args defaults to current dir", nil, []string{"."}},
		{"single path", []string{"a.cpp"}, []string{"a.cpp"}},
		{"multiple paths", []string{"a.cpp", "src"}, []string{"a.cpp", "src"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got []string
			app := &cli.App{
				Action: func(c *cli.Context) error {
					got = getPaths(c)
					return nil
				},
			}
			require.NoError(t, app.Run(append([]string{"test"}, tt.args...)))
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestOpsCommand(t *testing.T) {
	out, _, err := runApp(t, map[string]string{
		"kernel.cpp": "double d; int i; int r = (d * 2) + i;\n",
	}, "ops", "kernel.cpp")
	require.NoError(t, err)
	assert.Equal(t, "flops: 2\nmemops: 2\n", out)
}

func TestOpsCommandAlias(t *testing.T) {
	out, _, err := runApp(t, map[string]string{
		"a.cpp": "int y; int x = y + y;\n",
	}, "matchers", "--separate-passes", "a.cpp")
	require.NoError(t, err)
	assert.Equal(t, "flops: 0\nmemops: 2\n", out)
}

func TestOpsCommandDump(t *testing.T) {
	out, _, err := runApp(t, map[string]string{
		"a.cpp": "int y; int x = y;\n",
	}, "ops", "--dump", "--query", "memops", "a.cpp")
	require.NoError(t, err)
	assert.Equal(t, "DeclRefExpr <line:1:16> 'y' -> VarDecl 'int'\nflops: 0\nmemops: 1\n", out)
}

func TestOpsCommandPrimaryOnly(t *testing.T) {
	files := map[string]string{
		"vec.h":    "inline double scale(double v) { return v * 2; }\n",
		"main.cpp": "#include \"vec.h\"\ndouble d; double e = d * 3;\n",
	}

	out, _, err := runApp(t, files, "ops", "main.cpp")
	require.NoError(t, err)
	assert.Equal(t, "flops: 2\nmemops: 2\n", out)

	out, _, err = runApp(t, files, "ops", "--primary-only", "main.cpp")
	require.NoError(t, err)
	assert.Equal(t, "flops: 1\nmemops: 1\n", out)
}

func TestOpsCommandJSON(t *testing.T) {
	out, _, err := runApp(t, map[string]string{
		"a.cpp": "double d; int i; float f = d + i;\n",
		"b.cpp": "int y; int x = y + y;\n",
	}, "-f", "json", "ops", ".")
	require.NoError(t, err)

	var got struct {
		Files []struct {
			Path string `json:"path"`
		} `json:"files"`
		Summary struct {
			TotalFiles int `json:"total_files"`
			Flops      int `json:"flops"`
			Memops     int `json:"memops"`
		} `json:"summary"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, 2, got.Summary.TotalFiles)
	assert.Equal(t, 1, got.Summary.Flops)
	assert.Equal(t, 4, got.Summary.Memops)
	assert.Equal(t, "a.cpp", filepath.Base(got.Files[0].Path))
}

func TestOpsCommandErrors(t *testing.T) {
	_, _, err := runApp(t, map[string]string{"a.cpp": "int x;\n"}, "ops", "--query", "intops", "a.cpp")
	assert.ErrorContains(t, err, "unknown query")

	_, _, err = runApp(t, map[string]string{"notes.txt": "hello\n"}, "ops", ".")
	assert.ErrorIs(t, err, errNoFiles)

	_, _, err = runApp(t, nil, "ops", "missing.cpp")
	assert.Error(t, err)
}

func TestClassesCommand(t *testing.T) {
	out, _, err := runApp(t, map[string]string{"shapes.cpp": shapes}, "classes", "shapes.cpp")
	require.NoError(t, err)

	assert.Contains(t, out, "Found class declaration: Shape <1, ")
	assert.Contains(t, out, "Circle derives from class: Shape\n")
	assert.Contains(t, out, "Widget has 1 base class(es) and derives from class(es) outside main file\n")
	assert.Contains(t, out, "Shape is a base class\n")
}

func TestClassesCommandMarkdown(t *testing.T) {
	out, _, err := runApp(t, map[string]string{"shapes.cpp": shapes}, "-f", "markdown", "inheritance", "shapes.cpp")
	require.NoError(t, err)
	assert.Contains(t, out, "# Inheritance")
	assert.Contains(t, out, "| Class | Kind | Location | Category | Derives From |")
	assert.Contains(t, out, "- Shape\n  - Circle\n")
}

func TestInvalidFormat(t *testing.T) {
	_, _, err := runApp(t, map[string]string{"a.cpp": "int x;\n"}, "-f", "xml", "ops", "a.cpp")
	assert.ErrorIs(t, err, config.ErrInvalidConfig)
}

func TestConfigFlag(t *testing.T) {
	files := map[string]string{
		"cfg.yaml": "queries:\n  flops: false\n",
		"a.cpp":    "double d; double e = d * d;\n",
	}
	out, _, err := runApp(t, files, "-c", "cfg.yaml", "ops", "a.cpp")
	require.NoError(t, err)
	assert.Equal(t, "flops: 0\nmemops: 2\n", out)

	_, _, err = runApp(t, nil, "-c", "missing.toml", "ops")
	assert.ErrorContains(t, err, "load config")
}

func TestDumpCommand(t *testing.T) {
	files := map[string]string{
		"util.h":   "int helper;\n",
		"main.cpp": "#include \"util.h\"\ndouble d;\n",
	}

	out, _, err := runApp(t, files, "dump", "main.cpp")
	require.NoError(t, err)
	assert.Contains(t, out, " helper 'int'")
	assert.Contains(t, out, " d 'double'")

	out, _, err = runApp(t, files, "dump", "--primary-only", "main.cpp")
	require.NoError(t, err)
	assert.NotContains(t, out, "helper")
	assert.Contains(t, out, " d 'double'")

	_, _, err = runApp(t, files, "dump")
	assert.ErrorContains(t, err, "exactly one file")
}

func TestInitCommand(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	path := filepath.Join(dir, "conf", "cxxlens.toml")

	var stdout bytes.Buffer
	app := newApp()
	app.Writer = &stdout
	require.NoError(t, app.Run([]string{"cxxlens", "--no-color", "init", "--path", path}))
	assert.Contains(t, stdout.String(), "Created ")

	cfg, err := config.Load(path)
	require.NoError(t, err)
	defaults := config.DefaultConfig()
	assert.Equal(t, defaults.Frontend.MaxIncludeDepth, cfg.Frontend.MaxIncludeDepth)
	assert.Equal(t, defaults.Queries, cfg.Queries)
	assert.Equal(t, defaults.Exclude.Dirs, cfg.Exclude.Dirs)
	assert.Equal(t, defaults.Output, cfg.Output)

	err = newApp().Run([]string{"cxxlens", "init", "--path", path})
	assert.ErrorContains(t, err, "already exists")

	require.NoError(t, newApp().Run([]string{"cxxlens", "init", "--path", path, "--force"}))
}

func TestMCPManifestCommand(t *testing.T) {
	_, stdout, err := runApp(t, nil, "mcp", "manifest")
	require.NoError(t, err)

	var m map[string]any
	require.NoError(t, json.Unmarshal([]byte(stdout), &m))
	assert.Equal(t, "io.github.panbanda/cxxlens", m["name"])
}
