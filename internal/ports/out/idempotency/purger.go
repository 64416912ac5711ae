package idempotency

import (
	"context"
	"time"
)

// Purger is implemented by stores that can expire old records.
type Purger interface {
	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}
