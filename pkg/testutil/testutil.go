// Package testutil holds helpers for tests that parse C and C++ sources from
// an in-memory file system.
package testutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/afero"
)

// MemFS creates an in-memory filesystem for testing.
func MemFS() afero.Fs {
	return afero.NewMemMapFs()
}

// WriteFile writes content to a file in the given filesystem.
func WriteFile(t *testing.T, fs afero.Fs, path, content string) {
	t.Helper()
	dir := filepath.Dir(path)
	if err := fs.MkdirAll(dir, 0755); err != nil {
		t.Fatalf("MkdirAll(%s) error: %v", dir, err)
	}
	if err := afero.WriteFile(fs, path, []byte(content), 0644); err != nil {
		t.Fatalf("WriteFile(%s) error: %v", path, err)
	}
}

// Sources creates an in-memory filesystem holding files, keyed by path
// relative to root.
func Sources(t *testing.T, root string, files map[string]string) afero.Fs {
	t.Helper()
	fs := MemFS()
	for name, content := range files {
		WriteFile(t, fs, filepath.Join(root, name), content)
	}
	return fs
}

// CopyDir copies every regular file under dir on the OS file system into a
// new in-memory filesystem at the same paths, so fixtures can be edited by a
// test without touching testdata.
func CopyDir(t *testing.T, dir string) afero.Fs {
	t.Helper()
	src := afero.NewOsFs()
	dst := MemFS()
	err := afero.Walk(src, dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			return nil
		}
		data, err := afero.ReadFile(src, path)
		if err != nil {
			return err
		}
		WriteFile(t, dst, path, string(data))
		return nil
	})
	if err != nil {
		t.Fatalf("Walk(%s) error: %v", dir, err)
	}
	return dst
}
