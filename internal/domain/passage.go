package domain

import "time"

// Passage is one leg of the multi-leg circumnavigation itinerary.
type Passage struct {
	ID          PassageID
	Name        string
	Description string

	StartDate time.Time // date-only semantics at the edges
	EndDate   time.Time // date-only semantics at the edges

	DistanceNM int

	// PricePerPerson is expressed in whole units of Currency.
	PricePerPerson int64
	Currency       string

	MaxGuests int

	RequiresOffshoreCompetency bool
}
