// Package logack acknowledges booking requests by logging them.
// It is the default hand-off for local development.
package logack

import (
	"context"
	"log"

	"github.com/Meridian-Yachting/brokerage-api/internal/adapters/handoff"
	"github.com/Meridian-Yachting/brokerage-api/internal/ports/out/bookinghandoff"
)

const Provider = "log"

type Handoff struct {
	logger *log.Logger
}

// New returns a Handoff writing to logger, or to the standard logger when nil.
func New(logger *log.Logger) *Handoff {
	if logger == nil {
		logger = log.Default()
	}
	return &Handoff{logger: logger}
}

func (h *Handoff) Submit(ctx context.Context, req bookinghandoff.Request) (bookinghandoff.Receipt, error) {
	if err := ctx.Err(); err != nil {
		return bookinghandoff.Receipt{}, err
	}
	b, err := handoff.Encode(req)
	if err != nil {
		return bookinghandoff.Receipt{}, err
	}
	h.logger.Printf("booking handoff: %s", b)
	return bookinghandoff.Receipt{Provider: Provider, ExternalID: req.Reference}, nil
}
