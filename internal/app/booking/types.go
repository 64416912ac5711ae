package booking

import (
	"time"

	"github.com/Meridian-Yachting/brokerage-api/internal/domain"
)

type SubmitInput struct {
	PassageIDs []domain.PassageID
	GuestCount int

	// IdempotencyKey is forwarded to the hand-off.
	IdempotencyKey string
}

// Confirmation is the server-side record of a submitted booking.
type Confirmation struct {
	Reference string
	Subject   domain.SubjectID

	PassageIDs []domain.PassageID
	GuestCount int
	TotalPrice int64
	Currency   string

	RequiresOffshoreCompetency bool
	SubmittedAt                time.Time

	Provider   string
	ExternalID string
}
