// Package executor provides a session-affinity worker pool for adding assets
// to a reservation through a bounded set of remote browser sessions.
//
// The package implements a worker pool where each worker owns at most one
// Session for the lifetime of a run. Sessions are expensive to create, so they
// are created lazily, reused for every barcode the worker claims, and released
// exactly once.
//
// # Key Guarantees
//
//   - At most Size sessions exist at any moment
//   - A session is never used by two workers, so implementations need no locking
//   - A worker that never claims a barcode never creates a session
//   - Every created session is released exactly once, even on panic or cancellation
//   - Every barcode ends in exactly one Outcome; one failure never aborts the run
//
// # Basic Usage
//
// Create a pool with a session factory and run it over a batch of barcodes:
//
//	pool, err := executor.New(3, factory, logger)
//	if err != nil {
//	    return err
//	}
//
//	report := pool.Run(ctx, barcodes, nil)
//	fmt.Println(report.String())
//
// # Progress Reporting
//
// Track completion with a callback. The callback is invoked once per finished
// barcode, successful or not, and never concurrently with itself. The
// completed count it receives only grows:
//
//	report := pool.Run(ctx, barcodes, func(done, total int, pct float64) {
//	    fmt.Printf("\r%d/%d (%.1f%%)", done, total, pct)
//	})
//
// # Work Distribution
//
// Workers claim barcodes greedily from a shared queue, so a fast session
// processes more items than a slow one. When the batch is smaller than the
// pool, surplus workers exit without ever creating a session.
//
// # Session Failures
//
// A barcode claimed by a worker whose session creation fails is returned to
// the queue for another worker. If session creation fails for the same barcode
// twice it is recorded as failed rather than retried forever. Barcodes left in
// the queue after every worker has stopped are reported as failed with the
// cause that stopped the run.
//
// # Cancellation
//
// Cancelling the context stops workers from claiming further barcodes.
// Barcodes already dispatched to a session run to completion, queued ones are
// failed with the context's error, and Run still blocks until every session
// has been released:
//
//	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
//	defer cancel()
//
//	report := pool.Run(ctx, barcodes, nil)
//
// # Result Inspection
//
// Run returns a Report once all outcomes are in:
//
//	for _, f := range report.Failures {
//	    log.Printf("asset %s failed: %v", f.Barcode, f.Err)
//	}
package executor
