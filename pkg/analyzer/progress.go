package analyzer

import (
	"context"
	"sync"
)

// Progress is a snapshot of a multi-file run, taken after a translation
// unit finished.
type Progress struct {
	// Path is the primary file of the unit that just finished.
	Path   string
	Err    error
	Done   int
	Failed int
	Total  int
}

// Remaining returns the number of units not finished yet.
func (p Progress) Remaining() int {
	return max(p.Total-p.Done, 0)
}

// ProgressFunc receives a snapshot each time a unit finishes. Calls are
// serialized.
type ProgressFunc func(Progress)

// Tracker counts translation units as workers finish them. Safe for
// concurrent use.
type Tracker struct {
	mu     sync.Mutex
	state  Progress
	report ProgressFunc
}

// NewTracker creates a tracker reporting to fn, which may be nil.
func NewTracker(fn ProgressFunc) *Tracker {
	return &Tracker{report: fn}
}

// Add grows the number of units expected by n.
func (t *Tracker) Add(n int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.state.Total += n
}

// Finish records that the unit for path is done. A non-nil err marks it
// failed; it still counts as done.
func (t *Tracker) Finish(path string, err error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.state.Path = path
	t.state.Err = err
	t.state.Done++
	if err != nil {
		t.state.Failed++
	}
	if t.report != nil {
		t.report(t.state)
	}
}

// Snapshot returns the current state. Path and Err describe the last
// finished unit.
func (t *Tracker) Snapshot() Progress {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.state
}

type trackerKey struct{}

// WithTracker returns a context carrying t for the file processing layer.
func WithTracker(ctx context.Context, t *Tracker) context.Context {
	return context.WithValue(ctx, trackerKey{}, t)
}

// TrackerFromContext returns the tracker carried by ctx, or nil.
func TrackerFromContext(ctx context.Context) *Tracker {
	if t, ok := ctx.Value(trackerKey{}).(*Tracker); ok {
		return t
	}
	return nil
}
