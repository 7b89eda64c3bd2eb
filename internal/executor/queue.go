package executor

import "sync"

// entry is a queued barcode plus a flag recording whether it has already
// been handed back after a failed session start. Each barcode gets at most
// one second chance.
type entry struct {
	barcode  string
	requeued bool
}

// queue is the shared work queue the workers claim barcodes from. Claiming
// never blocks: a worker either gets the next barcode immediately or learns
// the queue is empty and terminates.
type queue struct {
	mu      sync.Mutex
	entries []entry
	next    int
}

func newQueue(barcodes []string) *queue {
	entries := make([]entry, len(barcodes))
	for i, b := range barcodes {
		entries[i] = entry{barcode: b}
	}
	return &queue{entries: entries}
}

// claim returns the next unclaimed entry, or ok=false when none remain.
func (q *queue) claim() (entry, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.next >= len(q.entries) {
		return entry{}, false
	}
	e := q.entries[q.next]
	q.next++
	return e, true
}

// requeue puts a claimed entry back at the tail so another worker can pick
// it up. The entry is marked so it is requeued at most once.
func (q *queue) requeue(e entry) {
	e.requeued = true

	q.mu.Lock()
	defer q.mu.Unlock()
	q.entries = append(q.entries, e)
}

// drain removes and returns every unclaimed entry. Used after all workers
// have terminated to resolve barcodes nobody processed.
func (q *queue) drain() []entry {
	q.mu.Lock()
	defer q.mu.Unlock()

	remaining := q.entries[q.next:]
	q.next = len(q.entries)
	return remaining
}

// pending reports how many entries are still unclaimed.
func (q *queue) pending() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.entries) - q.next
}
