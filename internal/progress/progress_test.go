package progress

import (
	"bytes"
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/panbanda/cxxlens/pkg/analyzer"
)

func TestNewBar(t *testing.T) {
	tests := []struct {
		name  string
		label string
	}{
		{name: "standard label", label: "Classifying"},
		{name: "empty label", label: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bar := NewBar(tt.label, &bytes.Buffer{})

			if bar == nil {
				t.Fatal("NewBar() returned nil")
			}
			if bar.bar == nil {
				t.Error("bar.bar should not be nil")
			}
			if bar.label != tt.label {
				t.Errorf("bar.label = %q, want %q", bar.label, tt.label)
			}
		})
	}
}

func TestBarReport(t *testing.T) {
	bar := NewBar("Counting", &bytes.Buffer{})

	bar.Report(analyzer.Progress{Path: "/src/a.cpp", Done: 1, Total: 3})
	bar.Report(analyzer.Progress{Path: "/src/b.cpp", Done: 2, Failed: 1, Total: 3})

	if got := bar.Current(); got != 2 {
		t.Errorf("Current() = %d, want 2", got)
	}
	if bar.max != 3 {
		t.Errorf("max = %d, want 3", bar.max)
	}
	bar.FinishSuccess()
}

func TestBarAttach(t *testing.T) {
	bar := NewBar("Attached", &bytes.Buffer{})
	ctx := bar.Attach(context.Background())

	tracker := analyzer.TrackerFromContext(ctx)
	if tracker == nil {
		t.Fatal("Attach() context carries no tracker")
	}

	tracker.Add(4)
	var wg sync.WaitGroup
	for _, path := range []string{"a.cpp", "b.cpp", "c.cpp", "d.cpp"} {
		wg.Add(1)
		go func() {
			defer wg.Done()
			tracker.Finish(path, nil)
		}()
	}
	wg.Wait()

	if got := tracker.Snapshot().Done; got != 4 {
		t.Errorf("tracker done = %d, want 4", got)
	}
	if bar.max != 4 {
		t.Errorf("max = %d, want 4", bar.max)
	}
	bar.FinishSuccess()
}

func TestBarFinishError(t *testing.T) {
	var buf bytes.Buffer
	bar := NewBar("Error test", &buf)
	bar.Report(analyzer.Progress{Path: "x.cpp", Done: 1, Total: 10})
	bar.FinishError(errors.New("parse failed"))

	if !bytes.Contains(buf.Bytes(), []byte("Error test error: parse failed")) {
		t.Errorf("output %q does not contain the error message", buf.String())
	}
}

func TestBarFinishSuccessMultipleCalls(t *testing.T) {
	bar := NewBar("Multiple finish", &bytes.Buffer{})
	bar.Report(analyzer.Progress{Path: "a.cpp", Done: 1, Total: 1})

	bar.FinishSuccess()
	bar.FinishSuccess()
}
