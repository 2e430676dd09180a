// Package progress draws a terminal progress bar for multi-file analyses.
package progress

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"sync"

	"github.com/panbanda/cxxlens/pkg/analyzer"
	"github.com/schollz/progressbar/v3"
)

// Bar renders per-file analysis progress.
type Bar struct {
	mu    sync.Mutex
	bar   *progressbar.ProgressBar
	w     io.Writer
	label string
	max   int
}

// NewBar creates a bar that shows a spinner until the number of files is
// known.
func NewBar(label string, w io.Writer) *Bar {
	bar := progressbar.NewOptions(-1,
		progressbar.OptionSetWriter(w),
		progressbar.OptionShowCount(),
		progressbar.OptionSetWidth(30),
		progressbar.OptionSetDescription(label),
		progressbar.OptionSpinnerType(14),
		progressbar.OptionSetElapsedTime(false),
		progressbar.OptionSetPredictTime(false),
		progressbar.OptionClearOnFinish(),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "=",
			SaucerHead:    ">",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}),
	)
	return &Bar{bar: bar, w: w, label: label}
}

// Report is an analyzer.ProgressFunc. The description names the last
// finished file and how many failed so far.
func (b *Bar) Report(p analyzer.Progress) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if p.Total > 0 && p.Total != b.max {
		b.max = p.Total
		b.bar.ChangeMax(p.Total)
	}
	desc := fmt.Sprintf("%s %s", b.label, filepath.Base(p.Path))
	if p.Failed > 0 {
		desc += fmt.Sprintf(" (%d failed)", p.Failed)
	}
	b.bar.Describe(desc)
	_ = b.bar.Set(p.Done)
}

// Attach returns a context whose tracker drives the bar.
func (b *Bar) Attach(ctx context.Context) context.Context {
	return analyzer.WithTracker(ctx, analyzer.NewTracker(b.Report))
}

// Current returns the number of files reported so far.
func (b *Bar) Current() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return int(b.bar.State().CurrentNum)
}

// FinishSuccess clears the bar completely (no output).
func (b *Bar) FinishSuccess() {
	b.mu.Lock()
	defer b.mu.Unlock()
	_ = b.bar.Finish()
	_ = b.bar.Clear()
}

// FinishError clears the bar and prints an error message.
func (b *Bar) FinishError(err error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	_ = b.bar.Finish()
	_ = b.bar.Clear()
	fmt.Fprintf(b.w, "  %s error: %v\n", b.label, err)
}
