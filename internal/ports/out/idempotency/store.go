package idempotency

import (
	"context"
	"time"

	"github.com/Meridian-Yachting/brokerage-api/internal/domain"
)

// Key is the caller-provided idempotency key (Idempotency-Key header).
type Key string

// Fingerprint identifies a request uniquely for idempotency purposes.
//
// Strategy: key + route + subject + request body hash.
// Route is represented as HTTP method + path template (e.g. "POST /bookings").
// A fingerprint with an empty BodyHash is the per-key "meta" record that remembers
// which body hash first claimed the key.
type Fingerprint struct {
	Key      Key
	Subject  domain.SubjectID
	Method   string
	Route    string
	BodyHash string
}

// Meta returns the fingerprint of the per-key meta record.
func (fp Fingerprint) Meta() Fingerprint {
	fp.BodyHash = ""
	return fp
}

// Record is the stored response we can replay for a duplicate request.
type Record struct {
	StatusCode  int
	ContentType string
	Body        []byte
	CreatedAt   time.Time
}

// Store persists idempotency records for replaying safe responses on retries.
//
// Reserve writes rec only when no record exists for fp and reports whether it
// did; it is atomic across every caller sharing the store. Delete removes the
// record for fp, and deleting a missing record is not an error.
type Store interface {
	Get(ctx context.Context, fp Fingerprint) (Record, bool, error)
	Put(ctx context.Context, fp Fingerprint, rec Record) error
	Reserve(ctx context.Context, fp Fingerprint, rec Record) (bool, error)
	Delete(ctx context.Context, fp Fingerprint) error
}
