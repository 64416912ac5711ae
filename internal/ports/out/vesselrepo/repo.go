package vesselrepo

import (
	"context"
	"time"

	"github.com/Meridian-Yachting/brokerage-api/internal/domain"
)

// Vessel is the persistence shape used by the vessel repository.
// It is not an HTTP DTO.
//
// Price and LengthMeters are carried in their stored decimal form (e.g. "1250000.00")
// and parsed at the application layer.
type Vessel struct {
	ID   domain.VesselID
	Slug domain.VesselSlug

	Name         string
	Manufacturer string
	Model        string
	Variant      *string
	Year         int

	Price    string
	Currency string

	LengthMeters string
	BeamMeters   *float64
	DraftMeters  *float64

	Guests int
	Cabins int
	Crew   int

	MaxSpeedKnots      *float64
	CruisingSpeedKnots *float64
	RangeNM            *int
	FuelCapacityL      *int
	WaterCapacityL     *int

	Status domain.VesselStatus

	IsVisible        bool
	IsAdventureYacht bool
	Featured         bool
	SortOrder        *int

	Availability     *string
	AvailabilityDate *time.Time

	Description      *string
	ShortDescription *string

	Images []domain.GalleryImage
	Specs  domain.VesselSpecs

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Filter is a conjunctive predicate over visible vessels.
// A nil field means "no constraint": adapters must omit the clause entirely.
// Bounds are inclusive.
type Filter struct {
	Manufacturer *string

	MinPrice *float64
	MaxPrice *float64

	MinLength *float64
	MaxLength *float64
}

// Repository provides read access to the vessel catalog.
//
// Every read method returns visible rows only.
type Repository interface {
	// ListVisible returns visible vessels matching f. Result order is unspecified;
	// the catalog pipeline owns ordering.
	ListVisible(ctx context.Context, f Filter) ([]Vessel, error)

	// ListVisibleAdventureYachts returns visible adventure yachts ordered by
	// sort order ascending (nil as 0), then availability date ascending (nil last), then slug.
	ListVisibleAdventureYachts(ctx context.Context) ([]Vessel, error)

	GetVisibleBySlug(ctx context.Context, slug domain.VesselSlug) (Vessel, error)

	// ListVisibleManufacturers returns distinct manufacturers of visible vessels, ascending.
	ListVisibleManufacturers(ctx context.Context) ([]string, error)

	// Upsert inserts or replaces a vessel by slug. It backs seeding and tests;
	// back-office data entry is handled elsewhere.
	Upsert(ctx context.Context, v Vessel) error
}
