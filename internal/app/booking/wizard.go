package booking

import (
	"errors"

	"github.com/Meridian-Yachting/brokerage-api/internal/domain"
)

type Step int

const (
	StepSelectPassages Step = iota
	StepGuestCount
	StepReview
)

const lastStep = StepReview

const (
	MaxSelectedPassages = 4
	MinGuests           = 1
	MaxGuests           = 4
)

// ErrNotAtReview is returned by Submission before the wizard reaches StepReview.
var ErrNotAtReview = errors.New("booking: submission is only available from the review step")

// Submission is what the review step hands off.
type Submission struct {
	PassageIDs []domain.PassageID
	GuestCount int
	TotalPrice int64
}

// Wizard is the in-progress state of a passage booking.
// It is not safe for concurrent use.
type Wizard struct {
	passages []domain.Passage
	byID     map[domain.PassageID]domain.Passage

	step     Step
	selected map[domain.PassageID]struct{}
	guests   int
}

// NewWizard starts a booking over the published passages.
func NewWizard(passages []domain.Passage) *Wizard {
	w := &Wizard{
		passages: append([]domain.Passage(nil), passages...),
		byID:     make(map[domain.PassageID]domain.Passage, len(passages)),
		selected: make(map[domain.PassageID]struct{}),
		guests:   MinGuests,
	}
	for _, p := range passages {
		w.byID[p.ID] = p
	}
	return w
}

func (w *Wizard) Step() Step { return w.step }

func (w *Wizard) GuestCount() int { return w.guests }

// CanAdvance reports whether the current step's validity predicate holds.
func (w *Wizard) CanAdvance() bool {
	switch w.step {
	case StepSelectPassages:
		return len(w.selected) >= 1
	case StepGuestCount:
		return w.guests >= MinGuests && w.guests <= MaxGuests
	default:
		return true
	}
}

func (w *Wizard) Advance() {
	if w.step >= lastStep || !w.CanAdvance() {
		return
	}
	w.step++
}

func (w *Wizard) Retreat() {
	if w.step > StepSelectPassages {
		w.step--
	}
}

// TogglePassage adds or removes id. Outside StepSelectPassages, for unknown ids,
// or when adding would exceed MaxSelectedPassages, it does nothing.
func (w *Wizard) TogglePassage(id domain.PassageID) {
	if w.step != StepSelectPassages {
		return
	}
	if _, ok := w.byID[id]; !ok {
		return
	}
	if _, ok := w.selected[id]; ok {
		delete(w.selected, id)
		return
	}
	if len(w.selected) >= MaxSelectedPassages {
		return
	}
	w.selected[id] = struct{}{}
}

// SetGuestCount clamps n into [MinGuests, MaxGuests].
func (w *Wizard) SetGuestCount(n int) {
	w.guests = clampGuests(n)
}

func (w *Wizard) IsSelected(id domain.PassageID) bool {
	_, ok := w.selected[id]
	return ok
}

// Selected returns the selected passages in itinerary order.
func (w *Wizard) Selected() []domain.Passage {
	out := make([]domain.Passage, 0, len(w.selected))
	for _, p := range w.passages {
		if _, ok := w.selected[p.ID]; ok {
			out = append(out, p)
		}
	}
	return out
}

func (w *Wizard) TotalPrice() int64 {
	return TotalPrice(w.Selected(), w.guests)
}

func (w *Wizard) RequiresOffshoreCompetency() bool {
	return RequiresOffshoreCompetency(w.Selected())
}

func (w *Wizard) Submission() (Submission, error) {
	if w.step != StepReview {
		return Submission{}, ErrNotAtReview
	}
	sel := w.Selected()
	ids := make([]domain.PassageID, 0, len(sel))
	for _, p := range sel {
		ids = append(ids, p.ID)
	}
	return Submission{
		PassageIDs: ids,
		GuestCount: w.guests,
		TotalPrice: TotalPrice(sel, w.guests),
	}, nil
}

func clampGuests(n int) int {
	if n < MinGuests {
		return MinGuests
	}
	if n > MaxGuests {
		return MaxGuests
	}
	return n
}
