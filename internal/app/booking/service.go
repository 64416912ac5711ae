package booking

import (
	"context"
	"fmt"
	"log"

	"github.com/lithammer/shortuuid/v3"

	"github.com/Meridian-Yachting/brokerage-api/internal/domain"
	"github.com/Meridian-Yachting/brokerage-api/internal/ports/out/bookinghandoff"
	"github.com/Meridian-Yachting/brokerage-api/internal/ports/out/clock"
	"github.com/Meridian-Yachting/brokerage-api/internal/ports/out/passagecatalog"
)

type Service struct {
	passages passagecatalog.Catalog
	handoff  bookinghandoff.Handoff
	clock    clock.Clock

	newReference func() string
}

func NewService(passages passagecatalog.Catalog, handoff bookinghandoff.Handoff, clk clock.Clock) *Service {
	return &Service{
		passages:     passages,
		handoff:      handoff,
		clock:        clk,
		newReference: shortuuid.New,
	}
}

// SetNewReferenceForTest overrides booking reference generation for deterministic tests.
// It should not be used in production code.
func (s *Service) SetNewReferenceForTest(fn func() string) {
	if fn != nil {
		s.newReference = fn
	}
}

func (s *Service) ListPassages(ctx context.Context) ([]domain.Passage, error) {
	ps, err := s.passages.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list passages: %w", err)
	}
	return ps, nil
}

// Submit replays the request through the wizard, recomputes the price and hands the
// booking off. Callers own idempotency; a hand-off failure is a 502 and safe to retry.
func (s *Service) Submit(ctx context.Context, caller domain.SubjectID, in SubmitInput) (Confirmation, error) {
	itinerary, err := s.passages.List(ctx)
	if err != nil {
		return Confirmation{}, fmt.Errorf("list passages: %w", err)
	}

	selected, details := ValidateSelection(itinerary, in.PassageIDs, in.GuestCount)
	if details != nil {
		return Confirmation{}, &Error{Status: 422, Code: "VALIDATION_ERROR", Message: "invalid booking", Details: details}
	}

	for _, p := range selected {
		if p.MaxGuests > 0 && in.GuestCount > p.MaxGuests {
			return Confirmation{}, &Error{
				Status:  422,
				Code:    "PASSAGE_CAPACITY_EXCEEDED",
				Message: "guest count exceeds passage capacity",
				Details: map[string]any{"passageId": string(p.ID), "maxGuests": p.MaxGuests},
			}
		}
	}

	currency := selected[0].Currency
	for _, p := range selected[1:] {
		if p.Currency != currency {
			return Confirmation{}, &Error{Status: 422, Code: "VALIDATION_ERROR", Message: "invalid booking", Details: map[string]any{"passageIds": "passages are priced in different currencies"}}
		}
	}

	ids := make([]domain.PassageID, 0, len(selected))
	for _, p := range selected {
		ids = append(ids, p.ID)
	}
	c := Confirmation{
		Reference:                  s.newReference(),
		Subject:                    caller,
		PassageIDs:                 ids,
		GuestCount:                 in.GuestCount,
		TotalPrice:                 TotalPrice(selected, in.GuestCount),
		Currency:                   currency,
		RequiresOffshoreCompetency: RequiresOffshoreCompetency(selected),
		SubmittedAt:                s.clock.Now().UTC(),
	}

	receipt, err := s.handoff.Submit(ctx, bookinghandoff.Request{
		Reference:                  c.Reference,
		Subject:                    c.Subject,
		PassageIDs:                 append([]domain.PassageID(nil), c.PassageIDs...),
		GuestCount:                 c.GuestCount,
		TotalPrice:                 c.TotalPrice,
		Currency:                   c.Currency,
		RequiresOffshoreCompetency: c.RequiresOffshoreCompetency,
		SubmittedAt:                c.SubmittedAt,
		IdempotencyKey:             in.IdempotencyKey,
	})
	if err != nil {
		log.Printf("booking: hand-off %s failed: %v", c.Reference, err)
		return Confirmation{}, &Error{Status: 502, Code: "HANDOFF_FAILED", Message: "booking could not be submitted; retry with the same Idempotency-Key"}
	}
	c.Provider = receipt.Provider
	c.ExternalID = receipt.ExternalID
	return c, nil
}
