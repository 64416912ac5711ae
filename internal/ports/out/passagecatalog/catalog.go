package passagecatalog

import (
	"context"

	"github.com/Meridian-Yachting/brokerage-api/internal/domain"
)

// Catalog exposes the published passage itinerary.
type Catalog interface {
	// List returns passages ordered by start date.
	List(ctx context.Context) ([]domain.Passage, error)
}
