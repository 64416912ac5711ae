package domain

import "time"

type VesselStatus string

const (
	VesselStatusAvailable     VesselStatus = "available"
	VesselStatusUnderContract VesselStatus = "under_contract"
	VesselStatusSold          VesselStatus = "sold"
	VesselStatusReserved      VesselStatus = "reserved"
)

// External returns the status label exposed to API consumers.
// Stored values use underscores; consumers expect "under-contract".
func (s VesselStatus) External() string {
	if s == VesselStatusUnderContract {
		return "under-contract"
	}
	return string(s)
}

// Valid reports whether s is one of the enumerated stored statuses.
func (s VesselStatus) Valid() bool {
	switch s {
	case VesselStatusAvailable, VesselStatusUnderContract, VesselStatusSold, VesselStatusReserved:
		return true
	default:
		return false
	}
}

type GalleryImage struct {
	URL     string  `json:"url" yaml:"url"`
	Alt     string  `json:"alt" yaml:"alt"`
	Caption *string `json:"caption,omitempty" yaml:"caption,omitempty"`
	Width   *int    `json:"width,omitempty" yaml:"width,omitempty"`
	Height  *int    `json:"height,omitempty" yaml:"height,omitempty"`
}

// Vessel is the shaped read model of a catalog entry.
// Numeric fields are already parsed from their stored decimal form.
type Vessel struct {
	ID   VesselID
	Slug VesselSlug

	Name         string
	Manufacturer string
	Model        string
	Variant      *string
	Year         int

	Price    float64
	Currency string

	LengthMeters float64
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

	Status VesselStatus

	IsVisible        bool
	IsAdventureYacht bool
	Featured         bool
	// SortOrder only ranks vessels inside the adventure-yacht partition; nil sorts as 0.
	SortOrder *int

	Availability     *string
	AvailabilityDate *time.Time // date-only semantics at the edges

	Description      *string
	ShortDescription *string

	Images []GalleryImage
	Specs  VesselSpecs

	CreatedAt time.Time
	UpdatedAt time.Time
}

// EffectiveSortOrder returns SortOrder with nil treated as 0.
func (v Vessel) EffectiveSortOrder() int {
	if v.SortOrder == nil {
		return 0
	}
	return *v.SortOrder
}
