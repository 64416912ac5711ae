package clock

import "time"

// Clock provides time to the application.
// Services stamp webhook mirrors, leads and booking submissions with it; tests swap in a manual clock.
type Clock interface {
	Now() time.Time
}
