package executor

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

// fakeSession records everything the pool does to it.
type fakeSession struct {
	id int

	mu      sync.Mutex
	applied []string

	inUse     atomic.Bool
	reentries atomic.Int32
	closes    atomic.Int32

	apply func(barcode string) error
	delay time.Duration
}

func (s *fakeSession) Apply(ctx context.Context, barcode string) error {
	if !s.inUse.CompareAndSwap(false, true) {
		s.reentries.Add(1)
	}
	defer s.inUse.Store(false)

	if s.delay > 0 {
		time.Sleep(s.delay)
	}

	s.mu.Lock()
	s.applied = append(s.applied, barcode)
	s.mu.Unlock()

	if s.apply != nil {
		return s.apply(barcode)
	}
	return nil
}

func (s *fakeSession) Close() error {
	s.closes.Add(1)
	return nil
}

func (s *fakeSession) appliedBarcodes() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.applied...)
}

// fakeFactory hands out fakeSessions and can be told to fail the first
// calls, or all of them.
type fakeFactory struct {
	mu       sync.Mutex
	sessions []*fakeSession
	calls    int

	failFirst int
	failErr   error

	apply func(barcode string) error
	delay time.Duration
}

func (f *fakeFactory) New(ctx context.Context) (Session, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.calls++
	if f.calls <= f.failFirst {
		err := f.failErr
		if err == nil {
			err = errors.New("session start failed")
		}
		return nil, err
	}

	s := &fakeSession{id: len(f.sessions) + 1, apply: f.apply, delay: f.delay}
	f.sessions = append(f.sessions, s)
	return s, nil
}

func (f *fakeFactory) created() []*fakeSession {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]*fakeSession(nil), f.sessions...)
}

func (f *fakeFactory) newCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

// verifyAppliedOnce checks that every barcode went through exactly one
// session exactly one time.
func verifyAppliedOnce(t *testing.T, f *fakeFactory, barcodes []string) {
	t.Helper()

	seen := make(map[string]int)
	for _, s := range f.created() {
		for _, b := range s.appliedBarcodes() {
			seen[b]++
		}
	}

	for _, b := range barcodes {
		if seen[b] != 1 {
			t.Errorf("barcode %s applied %d times, want 1", b, seen[b])
		}
	}
	if len(seen) != len(barcodes) {
		t.Errorf("applied %d distinct barcodes, want %d", len(seen), len(barcodes))
	}
}

// verifyClosedOnce checks that every created session was released exactly
// once.
func verifyClosedOnce(t *testing.T, f *fakeFactory) {
	t.Helper()

	for _, s := range f.created() {
		if n := s.closes.Load(); n != 1 {
			t.Errorf("session %d closed %d times, want 1", s.id, n)
		}
	}
}

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		size    int
		factory Factory
		wantErr bool
	}{
		{
			name:    "valid",
			size:    3,
			factory: &fakeFactory{},
			wantErr: false,
		},
		{
			name:    "zero size",
			size:    0,
			factory: &fakeFactory{},
			wantErr: true,
		},
		{
			name:    "negative size",
			size:    -5,
			factory: &fakeFactory{},
			wantErr: true,
		},
		{
			name:    "nil factory",
			size:    3,
			factory: nil,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pool, err := New(tt.size, tt.factory, testLogger())

			if tt.wantErr {
				if err == nil {
					t.Error("expected error, got nil")
				}
				return
			}

			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if pool == nil {
				t.Fatal("New returned nil pool")
			}
			if pool.Size() != tt.size {
				t.Errorf("expected size %d, got %d", tt.size, pool.Size())
			}
		})
	}
}

func TestNew_NilLoggerDefaults(t *testing.T) {
	pool, err := New(1, &fakeFactory{}, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if pool.logger == nil {
		t.Error("expected pool to fall back to the default logger")
	}
}

func TestPool_Run(t *testing.T) {
	failAsset3 := func(barcode string) error {
		if barcode == "A3" {
			return errors.New("asset not found")
		}
		return nil
	}

	tests := []struct {
		name           string
		size           int
		barcodes       []string
		apply          func(barcode string) error
		wantSuccessful int
		wantFailed     int
		check          func(t *testing.T, r Report, f *fakeFactory)
	}{
		{
			name:           "single barcode",
			size:           1,
			barcodes:       []string{"A1"},
			wantSuccessful: 1,
			wantFailed:     0,
		},
		{
			name:           "more barcodes than sessions",
			size:           2,
			barcodes:       []string{"A1", "A2", "A3", "A4", "A5"},
			wantSuccessful: 5,
			wantFailed:     0,
		},
		{
			name:           "more sessions than barcodes",
			size:           10,
			barcodes:       []string{"A1", "A2"},
			wantSuccessful: 2,
			wantFailed:     0,
			check: func(t *testing.T, r Report, f *fakeFactory) {
				if n := f.newCalls(); n > 2 {
					t.Errorf("expected at most 2 sessions for 2 barcodes, got %d", n)
				}
			},
		},
		{
			name:           "one barcode fails",
			size:           2,
			barcodes:       []string{"A1", "A2", "A3", "A4", "A5"},
			apply:          failAsset3,
			wantSuccessful: 4,
			wantFailed:     1,
			check: func(t *testing.T, r Report, f *fakeFactory) {
				if r.Failures[0].Barcode != "A3" {
					t.Errorf("expected A3 to fail, got %s", r.Failures[0].Barcode)
				}
				if !strings.Contains(r.Failures[0].Err.Error(), "asset not found") {
					t.Errorf("unexpected failure error: %v", r.Failures[0].Err)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			factory := &fakeFactory{apply: tt.apply}
			pool, err := New(tt.size, factory, testLogger())
			if err != nil {
				t.Fatalf("failed to create pool: %v", err)
			}

			report := pool.Run(context.Background(), tt.barcodes, nil)

			if report.RunID == "" {
				t.Error("expected a run ID")
			}
			if report.Total != len(tt.barcodes) {
				t.Errorf("expected total %d, got %d", len(tt.barcodes), report.Total)
			}
			if report.Successful != tt.wantSuccessful {
				t.Errorf("expected %d successful, got %d", tt.wantSuccessful, report.Successful)
			}
			if report.Failed() != tt.wantFailed {
				t.Errorf("expected %d failed, got %d", tt.wantFailed, report.Failed())
			}
			if report.Successful+report.Failed() != report.Total {
				t.Errorf("outcomes don't add up: %d successful + %d failed != %d total",
					report.Successful, report.Failed(), report.Total)
			}

			verifyAppliedOnce(t, factory, tt.barcodes)
			verifyClosedOnce(t, factory)

			if tt.check != nil {
				tt.check(t, report, factory)
			}
		})
	}
}

func TestPool_Run_Empty(t *testing.T) {
	factory := &fakeFactory{}
	pool, err := New(5, factory, testLogger())
	if err != nil {
		t.Fatalf("failed to create pool: %v", err)
	}

	called := false
	report := pool.Run(context.Background(), nil, func(completed, total int, pct float64) {
		called = true
	})

	if report.Total != 0 {
		t.Errorf("expected total 0, got %d", report.Total)
	}
	if report.RunID == "" {
		t.Error("expected a run ID even for an empty run")
	}
	if !report.AllSuccessful() {
		t.Error("empty run should count as all successful")
	}
	if called {
		t.Error("progress callback should not fire for an empty run")
	}
	if n := factory.newCalls(); n != 0 {
		t.Errorf("expected no sessions for an empty run, got %d", n)
	}
}

func TestPool_Run_SingleSessionProcessesAll(t *testing.T) {
	factory := &fakeFactory{}
	pool, err := New(1, factory, testLogger())
	if err != nil {
		t.Fatalf("failed to create pool: %v", err)
	}

	barcodes := []string{"R1", "R2", "R3", "R4", "R5", "R6"}
	report := pool.Run(context.Background(), barcodes, nil)

	if report.Successful != len(barcodes) {
		t.Fatalf("expected %d successful, got %d", len(barcodes), report.Successful)
	}
	if n := factory.newCalls(); n != 1 {
		t.Fatalf("expected exactly 1 session, got %d", n)
	}

	// A single worker claims in queue order.
	got := factory.created()[0].appliedBarcodes()
	if len(got) != len(barcodes) {
		t.Fatalf("expected %d applied barcodes, got %d", len(barcodes), len(got))
	}
	for i, b := range barcodes {
		if got[i] != b {
			t.Errorf("position %d: expected %s, got %s", i, b, got[i])
		}
	}

	verifyClosedOnce(t, factory)
}

func TestPool_Run_LazySessionCreation(t *testing.T) {
	// Workers beyond the number of barcodes must never start a session.
	factory := &fakeFactory{delay: 5 * time.Millisecond}
	pool, err := New(8, factory, testLogger())
	if err != nil {
		t.Fatalf("failed to create pool: %v", err)
	}

	barcodes := []string{"R1", "R2", "R3"}
	report := pool.Run(context.Background(), barcodes, nil)

	if report.Successful != 3 {
		t.Errorf("expected 3 successful, got %d", report.Successful)
	}
	if n := factory.newCalls(); n > len(barcodes) {
		t.Errorf("created %d sessions for %d barcodes", n, len(barcodes))
	}
	verifyClosedOnce(t, factory)
}

func TestPool_Run_NoSessionSharing(t *testing.T) {
	factory := &fakeFactory{delay: time.Millisecond}
	pool, err := New(4, factory, testLogger())
	if err != nil {
		t.Fatalf("failed to create pool: %v", err)
	}

	barcodes := make([]string, 48)
	for i := range barcodes {
		barcodes[i] = fmt.Sprintf("R%03d", i+1)
	}

	report := pool.Run(context.Background(), barcodes, nil)

	if report.Successful != len(barcodes) {
		t.Errorf("expected %d successful, got %d", len(barcodes), report.Successful)
	}
	for _, s := range factory.created() {
		if n := s.reentries.Load(); n != 0 {
			t.Errorf("session %d used concurrently %d times", s.id, n)
		}
	}
	verifyAppliedOnce(t, factory, barcodes)
	verifyClosedOnce(t, factory)
}

func TestPool_Run_SessionStartFailsOnce(t *testing.T) {
	errBoot := errors.New("webdriver unreachable")
	// The surviving worker stays busy long enough for the requeued
	// barcode to land back in the queue before it drains.
	factory := &fakeFactory{failFirst: 1, failErr: errBoot, delay: 50 * time.Millisecond}
	pool, err := New(2, factory, testLogger())
	if err != nil {
		t.Fatalf("failed to create pool: %v", err)
	}

	barcodes := []string{"R1", "R2", "R3"}
	report := pool.Run(context.Background(), barcodes, nil)

	// The barcode claimed by the failed worker is requeued and picked up
	// by the worker that did get a session.
	if report.Successful != 3 {
		t.Errorf("expected 3 successful, got %d", report.Successful)
	}
	if report.Failed() != 0 {
		t.Errorf("expected no failures, got %d: %v", report.Failed(), report.Failures)
	}
	if n := factory.newCalls(); n != 2 {
		t.Errorf("expected 2 session attempts, got %d", n)
	}
	if n := len(factory.created()); n != 1 {
		t.Errorf("expected 1 live session, got %d", n)
	}
	verifyAppliedOnce(t, factory, barcodes)
	verifyClosedOnce(t, factory)
}

func TestPool_Run_AllSessionsFail(t *testing.T) {
	errBoot := errors.New("webdriver unreachable")
	factory := &fakeFactory{failFirst: 999, failErr: errBoot}
	pool, err := New(3, factory, testLogger())
	if err != nil {
		t.Fatalf("failed to create pool: %v", err)
	}

	barcodes := []string{"R1", "R2", "R3", "R4", "R5"}
	report := pool.Run(context.Background(), barcodes, nil)

	if report.Successful != 0 {
		t.Errorf("expected 0 successful, got %d", report.Successful)
	}
	if report.Failed() != len(barcodes) {
		t.Errorf("expected %d failures, got %d", len(barcodes), report.Failed())
	}
	for _, f := range report.Failures {
		if !errors.Is(f.Err, errBoot) {
			t.Errorf("failure for %s should wrap the session error, got: %v", f.Barcode, f.Err)
		}
	}
	if n := len(factory.created()); n != 0 {
		t.Errorf("expected no live sessions, got %d", n)
	}
}

func TestPool_Run_ApplyPanic(t *testing.T) {
	factory := &fakeFactory{apply: func(barcode string) error {
		if barcode == "P1" {
			panic("element vanished")
		}
		return nil
	}}
	pool, err := New(1, factory, testLogger())
	if err != nil {
		t.Fatalf("failed to create pool: %v", err)
	}

	report := pool.Run(context.Background(), []string{"P1", "P2"}, nil)

	if report.Successful != 1 {
		t.Errorf("expected 1 successful, got %d", report.Successful)
	}
	if report.Failed() != 1 {
		t.Fatalf("expected 1 failure, got %d", report.Failed())
	}

	f := report.Failures[0]
	if f.Barcode != "P1" {
		t.Errorf("expected P1 to fail, got %s", f.Barcode)
	}
	if !strings.Contains(f.Err.Error(), "panic") || !strings.Contains(f.Err.Error(), "element vanished") {
		t.Errorf("panic not captured in outcome: %v", f.Err)
	}

	// The worker and its session survive the panic.
	if n := factory.newCalls(); n != 1 {
		t.Errorf("expected 1 session, got %d", n)
	}
	verifyClosedOnce(t, factory)
}

func TestPool_Run_ContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	factory := &fakeFactory{apply: func(barcode string) error {
		if barcode == "C1" {
			cancel()
		}
		return nil
	}}
	pool, err := New(1, factory, testLogger())
	if err != nil {
		t.Fatalf("failed to create pool: %v", err)
	}

	barcodes := []string{"C1", "C2", "C3", "C4"}
	report := pool.Run(ctx, barcodes, nil)

	// The in-flight barcode completes, the queued ones are failed with
	// the cancellation error.
	if report.Successful != 1 {
		t.Errorf("expected 1 successful, got %d", report.Successful)
	}
	if report.Failed() != 3 {
		t.Fatalf("expected 3 failures, got %d", report.Failed())
	}
	for _, f := range report.Failures {
		if !errors.Is(f.Err, context.Canceled) {
			t.Errorf("failure for %s should wrap context.Canceled, got: %v", f.Barcode, f.Err)
		}
	}
	verifyClosedOnce(t, factory)
}

func TestPool_Run_PreCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	factory := &fakeFactory{}
	pool, err := New(2, factory, testLogger())
	if err != nil {
		t.Fatalf("failed to create pool: %v", err)
	}

	barcodes := []string{"R1", "R2", "R3"}
	report := pool.Run(ctx, barcodes, nil)

	if report.Successful != 0 {
		t.Errorf("expected 0 successful, got %d", report.Successful)
	}
	if report.Failed() != len(barcodes) {
		t.Errorf("expected %d failures, got %d", len(barcodes), report.Failed())
	}
	for _, f := range report.Failures {
		if !errors.Is(f.Err, context.Canceled) {
			t.Errorf("failure for %s should wrap context.Canceled, got: %v", f.Barcode, f.Err)
		}
	}
	if n := factory.newCalls(); n != 0 {
		t.Errorf("expected no session attempts after cancellation, got %d", n)
	}
}

func TestPool_Run_Progress(t *testing.T) {
	factory := &fakeFactory{delay: time.Millisecond, apply: func(barcode string) error {
		if barcode == "R007" {
			return errors.New("asset not found")
		}
		return nil
	}}
	pool, err := New(3, factory, testLogger())
	if err != nil {
		t.Fatalf("failed to create pool: %v", err)
	}

	total := 10
	barcodes := make([]string, total)
	for i := range barcodes {
		barcodes[i] = fmt.Sprintf("R%03d", i+1)
	}

	type update struct {
		completed, total int
		pct              float64
	}
	var mu sync.Mutex
	var updates []update

	report := pool.Run(context.Background(), barcodes, func(completed, total int, pct float64) {
		mu.Lock()
		updates = append(updates, update{completed, total, pct})
		mu.Unlock()
	})

	if report.Successful != total-1 || report.Failed() != 1 {
		t.Errorf("expected %d successful and 1 failed, got %d and %d",
			total-1, report.Successful, report.Failed())
	}

	// Failures count as progress too: one update per barcode, delivered
	// in completion order.
	if len(updates) != total {
		t.Fatalf("expected %d progress updates, got %d", total, len(updates))
	}

	for i, u := range updates {
		if u.completed != i+1 {
			t.Errorf("update %d: expected completion count %d, got %d", i, i+1, u.completed)
		}
		if u.total != total {
			t.Errorf("update %d: expected total %d, got %d", i, total, u.total)
		}
		if u.completed == total && u.pct != 100.0 {
			t.Errorf("final update should report 100%%, got %.1f", u.pct)
		}
	}
}

func TestPool_Run_ProgressMonotonic(t *testing.T) {
	// Instant applies across many workers make finishes pile up on the
	// callback; the delivered counts must still only grow.
	factory := &fakeFactory{}
	pool, err := New(16, factory, testLogger())
	if err != nil {
		t.Fatalf("failed to create pool: %v", err)
	}

	total := 2000
	barcodes := make([]string, total)
	for i := range barcodes {
		barcodes[i] = fmt.Sprintf("R%04d", i+1)
	}

	var mu sync.Mutex
	counts := make([]int, 0, total)
	report := pool.Run(context.Background(), barcodes, func(completed, total int, pct float64) {
		mu.Lock()
		counts = append(counts, completed)
		mu.Unlock()
	})

	if report.Successful != total {
		t.Fatalf("expected %d successful, got %d", total, report.Successful)
	}
	if len(counts) != total {
		t.Fatalf("expected %d progress updates, got %d", total, len(counts))
	}

	prev := 0
	for i, c := range counts {
		if c != prev+1 {
			t.Fatalf("update %d: completed count %d delivered after %d", i, c, prev)
		}
		prev = c
	}
}

func TestPool_Run_Elapsed(t *testing.T) {
	factory := &fakeFactory{delay: 2 * time.Millisecond}
	pool, err := New(2, factory, testLogger())
	if err != nil {
		t.Fatalf("failed to create pool: %v", err)
	}

	report := pool.Run(context.Background(), []string{"R1", "R2", "R3"}, nil)

	if report.Elapsed <= 0 {
		t.Errorf("expected positive elapsed time, got %v", report.Elapsed)
	}
	for _, f := range report.Failures {
		t.Errorf("unexpected failure: %v", f)
	}
}
