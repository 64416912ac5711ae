package bookinghandoff

import (
	"context"
	"time"

	"github.com/Meridian-Yachting/brokerage-api/internal/domain"
)

// Request is a validated booking submission handed to the fulfilment side.
type Request struct {
	Reference string
	Subject   domain.SubjectID

	PassageIDs []domain.PassageID
	GuestCount int

	// TotalPrice is in whole currency units.
	TotalPrice int64
	Currency   string

	RequiresOffshoreCompetency bool
	SubmittedAt                time.Time

	// IdempotencyKey is forwarded so downstream systems can dedupe retries.
	IdempotencyKey string
}

// Receipt identifies the hand-off in the downstream system.
type Receipt struct {
	Provider   string
	ExternalID string
}

// Handoff delivers booking requests to whatever fulfils them (message bus, payment provider, ...).
type Handoff interface {
	Submit(ctx context.Context, req Request) (Receipt, error)
}
