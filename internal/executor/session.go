package executor

import "context"

// Session is an exclusively-owned handle to one authenticated Trail browser
// session. A session is expensive to create and must never be used by two
// operations at once; the pool guarantees each session belongs to exactly
// one worker for its entire lifetime.
type Session interface {
	// Apply adds a single asset barcode to the reservation using this
	// session. It returns nil on success and a descriptive error on
	// failure. Apply must leave the session usable for the next barcode
	// even when it fails.
	Apply(ctx context.Context, barcode string) error

	// Close releases the session and its underlying resources. Close is
	// idempotent: calling it more than once must not fail.
	Close() error
}

// Factory creates ready-to-use sessions on demand. Implementations perform
// the full setup (launch, authenticate, prepare for repeated use) and must
// release any partially-created resources before returning an error.
type Factory interface {
	New(ctx context.Context) (Session, error)
}
