package executor

import (
	"sync"
	"time"
)

// Outcome is the recorded result of one barcode. Exactly one outcome is
// produced per barcode in a run, by whichever worker processed it.
type Outcome struct {
	// Barcode identifies the asset this outcome is for.
	Barcode string

	// Err is nil on success and describes the failure otherwise.
	Err error

	// Duration is how long the apply took. Zero for barcodes that were
	// never dispatched (cancelled run, no session available).
	Duration time.Duration
}

// Failed reports whether the barcode could not be added.
func (o Outcome) Failed() bool {
	return o.Err != nil
}

// aggregator collects outcomes from all workers. It keeps a running success
// count and the failures in completion order, plus the most recent
// session-creation error so unclaimed barcodes can be resolved when every
// worker died before reaching the queue.
type aggregator struct {
	mu         sync.Mutex
	successful int
	failures   []Outcome
	sessionErr error
}

func newAggregator() *aggregator {
	return &aggregator{}
}

// record stores one outcome. Safe for concurrent use.
func (a *aggregator) record(o Outcome) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if o.Err != nil {
		a.failures = append(a.failures, o)
		return
	}
	a.successful++
}

// noteSessionFailure remembers the latest failed session start.
func (a *aggregator) noteSessionFailure(err error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.sessionErr = err
}

// lastSessionFailure returns the most recent session-creation error, or nil
// if every session started cleanly.
func (a *aggregator) lastSessionFailure() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.sessionErr
}

// report assembles the final report. Only valid once every worker has
// terminated; the pool guarantees that ordering.
func (a *aggregator) report(runID string, total int, elapsed time.Duration) Report {
	a.mu.Lock()
	defer a.mu.Unlock()

	failures := make([]Outcome, len(a.failures))
	copy(failures, a.failures)

	return Report{
		RunID:      runID,
		Total:      total,
		Successful: a.successful,
		Failures:   failures,
		Elapsed:    elapsed,
	}
}
