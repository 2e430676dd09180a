package fileproc

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/panbanda/cxxlens/pkg/analyzer"
	"github.com/panbanda/cxxlens/pkg/ast"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errNotFound = errors.New("not found")

// fakeProvider builds an empty unit per path and fails on paths containing
// "missing".
type fakeProvider struct {
	closed *atomic.Int32
	inUse  *atomic.Int32
}

func (p *fakeProvider) ParseFile(path string) (*ast.Unit, error) {
	if p.inUse.Add(1) != 1 {
		return nil, fmt.Errorf("provider shared between goroutines")
	}
	defer p.inUse.Add(-1)
	if strings.Contains(path, "missing") {
		return nil, errNotFound
	}
	return ast.NewUnit(path, ast.LangCPP), nil
}

func (p *fakeProvider) Language(string) ast.Language { return ast.LangCPP }

func (p *fakeProvider) Close() { p.closed.Add(1) }

type factory struct {
	mu        sync.Mutex
	created   int
	closed    atomic.Int32
	providers []*fakeProvider
}

func (f *factory) New() ast.Provider {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.created++
	p := &fakeProvider{closed: &f.closed, inUse: &atomic.Int32{}}
	f.providers = append(f.providers, p)
	return p
}

func paths(n int) []string {
	files := make([]string, n)
	for i := range files {
		files[i] = fmt.Sprintf("/src/file%02d.cpp", i)
	}
	return files
}

func unitPath(u *ast.Unit) (string, error) {
	return u.Path, nil
}

func TestMapUnitsPreservesInputOrder(t *testing.T) {
	f := &factory{}
	files := paths(25)

	results, errs := MapUnits(context.Background(), files, 4, f.New, unitPath)

	assert.Nil(t, errs)
	assert.Equal(t, files, results)
	assert.Equal(t, 4, f.created)
	assert.Equal(t, int32(4), f.closed.Load())
}

func TestMapUnitsEmpty(t *testing.T) {
	f := &factory{}
	results, errs := MapUnits(context.Background(), nil, 4, f.New, unitPath)

	assert.Nil(t, results)
	assert.Nil(t, errs)
	assert.Equal(t, 0, f.created)
}

func TestMapUnitsWorkersCappedByFiles(t *testing.T) {
	f := &factory{}
	_, errs := MapUnits(context.Background(), paths(2), 16, f.New, unitPath)

	assert.Nil(t, errs)
	assert.Equal(t, 2, f.created)
}

func TestMapUnitsDefaultWorkers(t *testing.T) {
	f := &factory{}
	results, errs := MapUnits(context.Background(), paths(3), 0, f.New, unitPath)

	assert.Nil(t, errs)
	assert.Len(t, results, 3)
	assert.LessOrEqual(t, f.created, 3)
}

func TestMapUnitsCollectsErrors(t *testing.T) {
	f := &factory{}
	files := []string{"/src/a.cpp", "/src/missing.cpp", "/src/b.cpp", "/src/bad.cpp"}

	results, errs := MapUnits(context.Background(), files, 2, f.New, func(u *ast.Unit) (string, error) {
		if strings.HasSuffix(u.Path, "bad.cpp") {
			return "", errors.New("analysis failed")
		}
		return u.Path, nil
	})

	assert.Equal(t, []string{"/src/a.cpp", "/src/b.cpp"}, results)
	require.NotNil(t, errs)
	require.True(t, errs.HasErrors())
	assert.Len(t, errs.Errors, 2)
	assert.ErrorIs(t, errs, errNotFound)
	assert.Contains(t, errs.Error(), "2 files failed to process")

	var pe ProcessingError
	require.ErrorAs(t, errs, &pe)
	assert.NotEmpty(t, pe.Path)
}

func TestMapUnitsCancelled(t *testing.T) {
	f := &factory{}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var calls atomic.Int32
	results, errs := MapUnits(ctx, paths(5), 2, f.New, func(u *ast.Unit) (string, error) {
		calls.Add(1)
		return u.Path, nil
	})

	assert.Empty(t, results)
	require.NotNil(t, errs)
	assert.ErrorIs(t, errs, context.Canceled)
	assert.Equal(t, int32(0), calls.Load())
	assert.Equal(t, int32(f.created), f.closed.Load())
}

func TestMapUnitsTracksProgress(t *testing.T) {
	f := &factory{}
	var seen sync.Map
	tracker := analyzer.NewTracker(func(p analyzer.Progress) {
		seen.Store(p.Path, p)
	})
	ctx := analyzer.WithTracker(context.Background(), tracker)

	files := append(paths(6), "/src/missing.cpp")
	_, errs := MapUnits(ctx, files, 3, f.New, unitPath)

	require.NotNil(t, errs)
	s := tracker.Snapshot()
	assert.Equal(t, len(files), s.Total)
	assert.Equal(t, len(files), s.Done)
	assert.Equal(t, 1, s.Failed)
	for _, path := range files {
		v, ok := seen.Load(path)
		require.True(t, ok, "no progress for %s", path)
		p := v.(analyzer.Progress)
		assert.Equal(t, len(files), p.Total)
		assert.Equal(t, path == "/src/missing.cpp", p.Err != nil, path)
	}
}

func TestProcessingErrors(t *testing.T) {
	var nilErrs *ProcessingErrors
	assert.False(t, nilErrs.HasErrors())

	errs := &ProcessingErrors{}
	assert.False(t, errs.HasErrors())
	assert.Equal(t, "no errors", errs.Error())

	errs.Add("/src/a.cpp", errNotFound)
	assert.True(t, errs.HasErrors())
	assert.Equal(t, "/src/a.cpp: not found", errs.Error())
	assert.ErrorIs(t, errs, errNotFound)
}
