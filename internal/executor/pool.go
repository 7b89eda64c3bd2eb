package executor

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Pool runs a fixed-size set of workers over a shared queue of asset
// barcodes. Each worker owns at most one Session, created lazily when the
// worker claims its first barcode and released exactly once when the worker
// terminates. Barcodes are claimed greedily: whichever worker finishes first
// takes the next one, so slow remote operations never stall the whole run.
type Pool struct {
	size    int
	factory Factory
	logger  *slog.Logger

	// progressMu pairs each tracker count with its callback delivery, so
	// implementations never run concurrently and see the completed count
	// in increasing order.
	progressMu sync.Mutex
}

// New creates a pool of size workers backed by factory. Size must be at
// least 1; sizing is validated up front so a misconfigured run fails before
// any session is started.
func New(size int, factory Factory, logger *slog.Logger) (*Pool, error) {
	if size < 1 {
		return nil, fmt.Errorf("pool size must be at least 1, got %d", size)
	}
	if factory == nil {
		return nil, errors.New("pool requires a session factory")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &Pool{
		size:    size,
		factory: factory,
		logger:  logger,
	}, nil
}

// Size returns the configured number of workers.
func (p *Pool) Size() int {
	return p.size
}

// Run processes every barcode and returns the final report. It starts at
// most min(size, len(barcodes)) workers, so a run never creates more
// sessions than it has work. Run returns only after every worker has
// terminated and every session has been released.
//
// Barcodes claimed by a worker whose session could not be started are
// requeued once for another worker; on the second failure they are recorded
// as failed with the session error. Barcodes left unclaimed when all
// workers have terminated (cancelled run, or no worker ever got a session)
// are resolved to failures as well, so every barcode yields exactly one
// outcome.
func (p *Pool) Run(ctx context.Context, barcodes []string, progress ProgressFunc) Report {
	start := time.Now()
	runID := uuid.NewString()
	total := len(barcodes)

	if total == 0 {
		p.logger.Debug("nothing to add", "run_id", runID)
		return Report{RunID: runID, Total: 0}
	}

	workers := p.size
	if workers > total {
		// Extra workers would terminate without ever claiming a
		// barcode; don't start them (or their sessions) at all.
		workers = total
	}

	p.logger.Info("starting bulk add",
		"run_id", runID,
		"assets", total,
		"sessions", workers)

	q := newQueue(barcodes)
	agg := newAggregator()
	tracker := NewTracker(total)

	var wg sync.WaitGroup
	for i := 1; i <= workers; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			p.runWorker(ctx, id, q, agg, tracker, progress)
		}(i)
	}
	wg.Wait()

	// Anything still queued was never claimed: the run was cancelled or
	// every worker terminated without a session.
	p.failRemaining(ctx, q, agg, tracker, progress)

	report := agg.report(runID, total, time.Since(start))
	p.logger.Info("bulk add finished",
		"run_id", runID,
		"total", report.Total,
		"successful", report.Successful,
		"failed", report.Failed(),
		"duration", report.Elapsed.Round(time.Millisecond))

	return report
}

// runWorker is one worker's life: claim barcodes until the queue is empty
// or the run is cancelled, lazily starting a session on the first claim and
// always releasing it on the way out.
func (p *Pool) runWorker(ctx context.Context, id int, q *queue, agg *aggregator, tracker *Tracker, progress ProgressFunc) {
	var sess Session
	defer func() {
		if sess == nil {
			return
		}
		if err := sess.Close(); err != nil {
			p.logger.Warn("error closing session", "worker", id, "error", err)
		}
		p.logger.Debug("session released", "worker", id)
	}()

	for {
		if ctx.Err() != nil {
			p.logger.Debug("worker stopping, shutdown requested", "worker", id)
			return
		}

		e, ok := q.claim()
		if !ok {
			p.logger.Debug("worker finished, queue drained", "worker", id)
			return
		}

		if sess == nil {
			s, err := p.factory.New(ctx)
			if err != nil {
				p.logger.Error("could not start session",
					"worker", id,
					"error", err)
				agg.noteSessionFailure(err)

				if !e.requeued {
					// Give the barcode one more chance on
					// a worker that has a session.
					q.requeue(e)
				} else {
					p.finish(e.barcode, fmt.Errorf("no session available: %w", err), 0, agg, tracker, progress)
				}
				return
			}
			sess = s
			p.logger.Info("session ready", "worker", id)
		}

		applyStart := time.Now()
		err := p.applyOne(ctx, sess, e.barcode)
		p.finish(e.barcode, err, time.Since(applyStart), agg, tracker, progress)

		if err != nil {
			p.logger.Warn("asset failed",
				"worker", id,
				"barcode", e.barcode,
				"error", err)
		} else {
			done := tracker.Completed()
			p.logger.Debug("asset added",
				"worker", id,
				"barcode", e.barcode,
				"progress", fmt.Sprintf("%d/%d", done, tracker.Total()))
		}
	}
}

// applyOne applies a single barcode, converting a panic in the session
// driver into an ordinary failure so one bad barcode never takes down the
// worker or the rest of its session's work.
func (p *Pool) applyOne(ctx context.Context, sess Session, barcode string) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic while adding %s: %v", barcode, r)
		}
	}()
	return sess.Apply(ctx, barcode)
}

// finish records the outcome for one barcode and reports progress.
func (p *Pool) finish(barcode string, err error, dur time.Duration, agg *aggregator, tracker *Tracker, progress ProgressFunc) {
	agg.record(Outcome{Barcode: barcode, Err: err, Duration: dur})

	if progress == nil {
		tracker.Record()
		return
	}

	// Count and deliver under one lock, so a callback never sees the
	// completed count go down.
	p.progressMu.Lock()
	done, pct := tracker.Record()
	progress(done, tracker.Total(), pct)
	p.progressMu.Unlock()
}

// failRemaining resolves barcodes that no worker ever claimed. A cancelled
// run attributes them to the cancellation; otherwise every worker died
// before getting a session and the last session error is the cause.
func (p *Pool) failRemaining(ctx context.Context, q *queue, agg *aggregator, tracker *Tracker, progress ProgressFunc) {
	remaining := q.drain()
	if len(remaining) == 0 {
		return
	}

	reason := ctx.Err()
	if reason == nil {
		reason = agg.lastSessionFailure()
	}
	if reason == nil {
		reason = errors.New("no worker available")
	}

	p.logger.Warn("assets were never attempted",
		"count", len(remaining),
		"reason", reason)

	for _, e := range remaining {
		p.finish(e.barcode, fmt.Errorf("not attempted: %w", reason), 0, agg, tracker, progress)
	}
}
