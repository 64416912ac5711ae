// Package wire holds the JSON request and response bodies of the HTTP API.
// The API adapter and the catalog client share these shapes.
package wire

import (
	"time"

	"github.com/oapi-codegen/nullable"
	openapi_types "github.com/oapi-codegen/runtime/types"

	"github.com/Meridian-Yachting/brokerage-api/internal/domain"
)

// ErrorResponse is the body of every non-2xx JSON response.
type ErrorResponse struct {
	Error     string                             `json:"error"`
	Code      string                             `json:"code"`
	Details   nullable.Nullable[map[string]any] `json:"details,omitempty"`
	RequestId nullable.Nullable[string]          `json:"requestId,omitempty"`
}

type Vessel struct {
	Id           string                    `json:"id"`
	Slug         string                    `json:"slug"`
	Name         string                    `json:"name"`
	Manufacturer string                    `json:"manufacturer"`
	Model        string                    `json:"model"`
	Variant      nullable.Nullable[string] `json:"variant,omitempty"`
	Year         int                       `json:"year"`

	Price    float64 `json:"price"`
	Currency string  `json:"currency"`

	LengthMeters float64                    `json:"lengthMeters"`
	BeamMeters   nullable.Nullable[float64] `json:"beamMeters,omitempty"`
	DraftMeters  nullable.Nullable[float64] `json:"draftMeters,omitempty"`

	Guests int `json:"guests"`
	Cabins int `json:"cabins"`
	Crew   int `json:"crew"`

	MaxSpeedKnots      nullable.Nullable[float64] `json:"maxSpeedKnots,omitempty"`
	CruisingSpeedKnots nullable.Nullable[float64] `json:"cruisingSpeedKnots,omitempty"`
	RangeNm            nullable.Nullable[int]     `json:"rangeNm,omitempty"`
	FuelCapacityL      nullable.Nullable[int]     `json:"fuelCapacityL,omitempty"`
	WaterCapacityL     nullable.Nullable[int]     `json:"waterCapacityL,omitempty"`

	// Status is the external label: available, under-contract, sold or reserved.
	Status string `json:"status"`

	IsAdventureYacht bool                   `json:"isAdventureYacht"`
	Featured         bool                   `json:"featured"`
	SortOrder        nullable.Nullable[int] `json:"sortOrder,omitempty"`

	Availability     nullable.Nullable[string]             `json:"availability,omitempty"`
	AvailabilityDate nullable.Nullable[openapi_types.Date] `json:"availabilityDate,omitempty"`

	Description      nullable.Nullable[string] `json:"description,omitempty"`
	ShortDescription nullable.Nullable[string] `json:"shortDescription,omitempty"`

	Images []domain.GalleryImage `json:"images"`
	Specs  domain.VesselSpecs    `json:"specs"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type ManufacturersResponse struct {
	Manufacturers []string `json:"manufacturers"`
}

type Passage struct {
	Id                         string             `json:"id"`
	Name                       string             `json:"name"`
	Description                string             `json:"description"`
	StartDate                  openapi_types.Date `json:"startDate"`
	EndDate                    openapi_types.Date `json:"endDate"`
	DistanceNm                 int                `json:"distanceNm"`
	PricePerPerson             int64              `json:"pricePerPerson"`
	Currency                   string             `json:"currency"`
	MaxGuests                  int                `json:"maxGuests"`
	RequiresOffshoreCompetency bool               `json:"requiresOffshoreCompetency"`
}

type PassagesResponse struct {
	Passages []Passage `json:"passages"`
}

type CreateBookingRequest struct {
	PassageIds []string `json:"passageIds"`
	GuestCount int      `json:"guestCount"`
}

type Booking struct {
	Reference                  string    `json:"reference"`
	PassageIds                 []string  `json:"passageIds"`
	GuestCount                 int       `json:"guestCount"`
	TotalPrice                 int64     `json:"totalPrice"`
	Currency                   string    `json:"currency"`
	RequiresOffshoreCompetency bool      `json:"requiresOffshoreCompetency"`
	SubmittedAt                time.Time `json:"submittedAt"`
	Provider                   string    `json:"provider"`
	ExternalId                 string    `json:"externalId"`
}

type CreateBookingResponse struct {
	Booking Booking `json:"booking"`
}

type UploadResponse struct {
	Url         string    `json:"url"`
	Pathname    string    `json:"pathname"`
	ContentType string    `json:"contentType"`
	Size        int64     `json:"size"`
	UploadedAt  time.Time `json:"uploadedAt"`
}

type CreateLeadRequest struct {
	Email      openapi_types.Email `json:"email"`
	Name       *string             `json:"name,omitempty"`
	Phone      *string             `json:"phone,omitempty"`
	Source     string              `json:"source"`
	VesselSlug *string             `json:"vesselSlug,omitempty"`
	Message    *string             `json:"message,omitempty"`
}

type CreateLeadResponse struct {
	LeadId string `json:"leadId"`
}

type Me struct {
	ExternalId  string                    `json:"externalId"`
	Email       string                    `json:"email"`
	DisplayName string                    `json:"displayName"`
	FirstName   nullable.Nullable[string] `json:"firstName,omitempty"`
	LastName    nullable.Nullable[string] `json:"lastName,omitempty"`
	ImageUrl    nullable.Nullable[string] `json:"imageUrl,omitempty"`
	CreatedAt   time.Time                 `json:"createdAt"`
	UpdatedAt   time.Time                 `json:"updatedAt"`
}

// IdentityEvent is the identity provider's webhook envelope.
type IdentityEvent struct {
	Type string           `json:"type"`
	Data IdentityUserData `json:"data"`
}

type IdentityUserData struct {
	Id                    string                 `json:"id"`
	EmailAddresses        []IdentityEmailAddress `json:"email_addresses"`
	PrimaryEmailAddressId *string                `json:"primary_email_address_id"`
	FirstName             *string                `json:"first_name"`
	LastName              *string                `json:"last_name"`
	ImageUrl              *string                `json:"image_url"`
}

type IdentityEmailAddress struct {
	Id           string `json:"id"`
	EmailAddress string `json:"email_address"`
}

// PrimaryEmail returns the address flagged as primary, else the first one.
func (d IdentityUserData) PrimaryEmail() string {
	if d.PrimaryEmailAddressId != nil {
		for _, e := range d.EmailAddresses {
			if e.Id == *d.PrimaryEmailAddressId {
				return e.EmailAddress
			}
		}
	}
	if len(d.EmailAddresses) > 0 {
		return d.EmailAddresses[0].EmailAddress
	}
	return ""
}

type WebhookAck struct {
	Outcome string `json:"outcome"`
}

// NullableString sets null when p is nil so the field is always present.
func NullableString(p *string) nullable.Nullable[string] {
	return nullableOf(p)
}

func NullableFloat(p *float64) nullable.Nullable[float64] {
	return nullableOf(p)
}

func NullableInt(p *int) nullable.Nullable[int] {
	return nullableOf(p)
}

func NullableDate(p *time.Time) nullable.Nullable[openapi_types.Date] {
	if p == nil {
		return nullable.NewNullNullable[openapi_types.Date]()
	}
	return nullable.NewNullableWithValue(openapi_types.Date{Time: p.UTC()})
}

func nullableOf[T any](p *T) nullable.Nullable[T] {
	if p == nil {
		return nullable.NewNullNullable[T]()
	}
	return nullable.NewNullableWithValue(*p)
}

// PtrFromNullable returns nil for unspecified or null values.
func PtrFromNullable[T any](n nullable.Nullable[T]) *T {
	if !n.IsSpecified() || n.IsNull() {
		return nil
	}
	v, err := n.Get()
	if err != nil {
		return nil
	}
	return &v
}
