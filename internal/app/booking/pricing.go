package booking

import (
	"fmt"

	"github.com/Meridian-Yachting/brokerage-api/internal/domain"
)

// TotalPrice is the sum of pricePerPerson × guests over passages.
func TotalPrice(passages []domain.Passage, guests int) int64 {
	var total int64
	for _, p := range passages {
		total += p.PricePerPerson * int64(guests)
	}
	return total
}

func RequiresOffshoreCompetency(passages []domain.Passage) bool {
	for _, p := range passages {
		if p.RequiresOffshoreCompetency {
			return true
		}
	}
	return false
}

// ValidateSelection checks a requested booking against the itinerary and returns
// the selected passages in itinerary order. Problems are reported per field.
func ValidateSelection(itinerary []domain.Passage, ids []domain.PassageID, guests int) ([]domain.Passage, map[string]any) {
	details := map[string]any{}

	w := NewWizard(itinerary)
	seen := make(map[domain.PassageID]struct{}, len(ids))
	for _, id := range ids {
		if _, dup := seen[id]; dup {
			details["passageIds"] = fmt.Sprintf("duplicate passage %q", id)
			continue
		}
		seen[id] = struct{}{}
		w.TogglePassage(id)
		if !w.IsSelected(id) {
			if _, known := w.byID[id]; !known {
				details["passageIds"] = fmt.Sprintf("unknown passage %q", id)
			} else {
				details["passageIds"] = fmt.Sprintf("at most %d passages may be selected", MaxSelectedPassages)
			}
		}
	}
	if len(ids) == 0 {
		details["passageIds"] = "select at least one passage"
	}
	w.Advance()

	if guests < MinGuests || guests > MaxGuests {
		details["guestCount"] = fmt.Sprintf("must be between %d and %d", MinGuests, MaxGuests)
	}
	w.SetGuestCount(guests)
	w.Advance()

	if len(details) > 0 {
		return nil, details
	}
	if w.Step() != StepReview {
		details["passageIds"] = "selection is incomplete"
		return nil, details
	}
	return w.Selected(), nil
}
