package executor

import (
	"math"
	"sync"
)

// ProgressFunc is called after each barcode finishes (success or failure)
// with the running completion count and the percentage complete. Calls are
// serialized and the count grows by one per call, so an implementation can
// drive a progress bar or log a status line without its own locking.
type ProgressFunc func(completed, total int, pct float64)

// Tracker counts finished barcodes across all workers. The count is
// monotonically increasing for the lifetime of a run; success and failure
// both count as completed.
type Tracker struct {
	mu    sync.Mutex
	total int
	done  int
}

// NewTracker returns a tracker for a run of total barcodes.
func NewTracker(total int) *Tracker {
	return &Tracker{total: total}
}

// Record marks one more barcode as finished and returns the new completion
// count together with the percentage complete, rounded to one decimal.
func (t *Tracker) Record() (completed int, pct float64) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.done++
	return t.done, t.percentage()
}

// Completed returns the number of barcodes finished so far.
func (t *Tracker) Completed() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.done
}

// Total returns the number of barcodes in the run.
func (t *Tracker) Total() int {
	return t.total
}

// percentage computes the completion percentage rounded to one decimal.
// Callers must hold t.mu.
func (t *Tracker) percentage() float64 {
	if t.total == 0 {
		return 0
	}
	pct := float64(t.done) / float64(t.total) * 100
	return math.Round(pct*10) / 10
}
