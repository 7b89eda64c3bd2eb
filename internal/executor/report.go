package executor

import (
	"fmt"
	"time"
)

// Report is the end-of-run summary assembled after every worker has
// terminated. Failures appear in completion order, which is not the input
// order: whichever worker finishes a barcode first records it first.
type Report struct {
	// RunID correlates the report with the run's log lines.
	RunID string

	// Total is the number of barcodes in the run.
	Total int

	// Successful is the number of barcodes added to the reservation.
	Successful int

	// Failures holds one outcome per barcode that could not be added.
	Failures []Outcome

	// Elapsed is the wall-clock duration of the run.
	Elapsed time.Duration
}

// Failed returns the number of barcodes that could not be added.
func (r Report) Failed() int {
	return len(r.Failures)
}

// AllSuccessful reports whether every barcode was added.
func (r Report) AllSuccessful() bool {
	return len(r.Failures) == 0
}

// SuccessRate returns the percentage of barcodes added (0.0 to 100.0).
func (r Report) SuccessRate() float64 {
	if r.Total == 0 {
		return 0
	}
	return float64(r.Successful) / float64(r.Total) * 100
}

// String returns a one-line human-readable summary.
func (r Report) String() string {
	s := fmt.Sprintf("added %d/%d assets", r.Successful, r.Total)
	if n := r.Failed(); n > 0 {
		s += fmt.Sprintf(", %d failed", n)
	}
	if r.Elapsed > 0 {
		s += fmt.Sprintf(" in %s", r.Elapsed.Round(time.Millisecond))
	}
	return s
}
