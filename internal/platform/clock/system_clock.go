package clock

import (
	"time"

	clockport "github.com/Meridian-Yachting/brokerage-api/internal/ports/out/clock"
)

var _ clockport.Clock = SystemClock{}

// SystemClock returns the current UTC time truncated to microseconds, the
// precision Postgres timestamptz and MySQL DATETIME(6) keep. Values therefore
// compare equal after a round trip through any storage backend.
type SystemClock struct{}

func NewSystemClock() SystemClock { return SystemClock{} }

func (SystemClock) Now() time.Time { return time.Now().UTC().Truncate(time.Microsecond) }
