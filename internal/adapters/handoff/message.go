// Package handoff holds the wire shape shared by booking hand-off publishers.
package handoff

import (
	"encoding/json"
	"time"

	"github.com/Meridian-Yachting/brokerage-api/internal/ports/out/bookinghandoff"
)

// EventType names booking hand-off messages on the bus.
const EventType = "booking.requested"

// Message is the JSON payload published for a booking request.
type Message struct {
	Type                       string    `json:"type"`
	Reference                  string    `json:"reference"`
	Subject                    string    `json:"subject"`
	PassageIDs                 []string  `json:"passageIds"`
	GuestCount                 int       `json:"guestCount"`
	TotalPrice                 int64     `json:"totalPrice"`
	Currency                   string    `json:"currency"`
	RequiresOffshoreCompetency bool      `json:"requiresOffshoreCompetency"`
	SubmittedAt                time.Time `json:"submittedAt"`
	IdempotencyKey             string    `json:"idempotencyKey,omitempty"`
}

func NewMessage(req bookinghandoff.Request) Message {
	ids := make([]string, 0, len(req.PassageIDs))
	for _, id := range req.PassageIDs {
		ids = append(ids, string(id))
	}
	return Message{
		Type:                       EventType,
		Reference:                  req.Reference,
		Subject:                    string(req.Subject),
		PassageIDs:                 ids,
		GuestCount:                 req.GuestCount,
		TotalPrice:                 req.TotalPrice,
		Currency:                   req.Currency,
		RequiresOffshoreCompetency: req.RequiresOffshoreCompetency,
		SubmittedAt:                req.SubmittedAt.UTC(),
		IdempotencyKey:             req.IdempotencyKey,
	}
}

// Encode returns the JSON body for req.
func Encode(req bookinghandoff.Request) ([]byte, error) {
	return json.Marshal(NewMessage(req))
}
