package wire

import (
	"time"

	openapi_types "github.com/oapi-codegen/runtime/types"

	"github.com/Meridian-Yachting/brokerage-api/internal/domain"
)

func VesselFromDomain(v domain.Vessel) Vessel {
	images := v.Images
	if images == nil {
		images = []domain.GalleryImage{}
	}
	return Vessel{
		Id:                 string(v.ID),
		Slug:               string(v.Slug),
		Name:               v.Name,
		Manufacturer:       v.Manufacturer,
		Model:              v.Model,
		Variant:            NullableString(v.Variant),
		Year:               v.Year,
		Price:              v.Price,
		Currency:           v.Currency,
		LengthMeters:       v.LengthMeters,
		BeamMeters:         NullableFloat(v.BeamMeters),
		DraftMeters:        NullableFloat(v.DraftMeters),
		Guests:             v.Guests,
		Cabins:             v.Cabins,
		Crew:               v.Crew,
		MaxSpeedKnots:      NullableFloat(v.MaxSpeedKnots),
		CruisingSpeedKnots: NullableFloat(v.CruisingSpeedKnots),
		RangeNm:            NullableInt(v.RangeNM),
		FuelCapacityL:      NullableInt(v.FuelCapacityL),
		WaterCapacityL:     NullableInt(v.WaterCapacityL),
		Status:             v.Status.External(),
		IsAdventureYacht:   v.IsAdventureYacht,
		Featured:           v.Featured,
		SortOrder:          NullableInt(v.SortOrder),
		Availability:       NullableString(v.Availability),
		AvailabilityDate:   NullableDate(v.AvailabilityDate),
		Description:        NullableString(v.Description),
		ShortDescription:   NullableString(v.ShortDescription),
		Images:             images,
		Specs:              v.Specs,
		CreatedAt:          v.CreatedAt.UTC(),
		UpdatedAt:          v.UpdatedAt.UTC(),
	}
}

func VesselsFromDomain(vs []domain.Vessel) []Vessel {
	out := make([]Vessel, 0, len(vs))
	for _, v := range vs {
		out = append(out, VesselFromDomain(v))
	}
	return out
}

// VesselToDomain maps a response record back to the domain read model.
// The external status label is mapped back to its stored form.
func VesselToDomain(w Vessel) domain.Vessel {
	status := domain.VesselStatus(w.Status)
	if w.Status == domain.VesselStatusUnderContract.External() {
		status = domain.VesselStatusUnderContract
	}
	var availDate *time.Time
	if d := PtrFromNullable(w.AvailabilityDate); d != nil {
		t := d.Time
		availDate = &t
	}
	return domain.Vessel{
		ID:                 domain.VesselID(w.Id),
		Slug:               domain.VesselSlug(w.Slug),
		Name:               w.Name,
		Manufacturer:       w.Manufacturer,
		Model:              w.Model,
		Variant:            PtrFromNullable(w.Variant),
		Year:               w.Year,
		Price:              w.Price,
		Currency:           w.Currency,
		LengthMeters:       w.LengthMeters,
		BeamMeters:         PtrFromNullable(w.BeamMeters),
		DraftMeters:        PtrFromNullable(w.DraftMeters),
		Guests:             w.Guests,
		Cabins:             w.Cabins,
		Crew:               w.Crew,
		MaxSpeedKnots:      PtrFromNullable(w.MaxSpeedKnots),
		CruisingSpeedKnots: PtrFromNullable(w.CruisingSpeedKnots),
		RangeNM:            PtrFromNullable(w.RangeNm),
		FuelCapacityL:      PtrFromNullable(w.FuelCapacityL),
		WaterCapacityL:     PtrFromNullable(w.WaterCapacityL),
		Status:             status,
		IsVisible:          true,
		IsAdventureYacht:   w.IsAdventureYacht,
		Featured:           w.Featured,
		SortOrder:          PtrFromNullable(w.SortOrder),
		Availability:       PtrFromNullable(w.Availability),
		AvailabilityDate:   availDate,
		Description:        PtrFromNullable(w.Description),
		ShortDescription:   PtrFromNullable(w.ShortDescription),
		Images:             w.Images,
		Specs:              w.Specs,
		CreatedAt:          w.CreatedAt,
		UpdatedAt:          w.UpdatedAt,
	}
}

func PassageFromDomain(p domain.Passage) Passage {
	return Passage{
		Id:                         string(p.ID),
		Name:                       p.Name,
		Description:                p.Description,
		StartDate:                  openapi_types.Date{Time: p.StartDate.UTC()},
		EndDate:                    openapi_types.Date{Time: p.EndDate.UTC()},
		DistanceNm:                 p.DistanceNM,
		PricePerPerson:             p.PricePerPerson,
		Currency:                   p.Currency,
		MaxGuests:                  p.MaxGuests,
		RequiresOffshoreCompetency: p.RequiresOffshoreCompetency,
	}
}

func MeFromDomain(u domain.User) Me {
	return Me{
		ExternalId:  string(u.ExternalID),
		Email:       u.Email,
		DisplayName: u.DisplayName(),
		FirstName:   NullableString(u.FirstName),
		LastName:    NullableString(u.LastName),
		ImageUrl:    NullableString(u.ImageURL),
		CreatedAt:   u.CreatedAt.UTC(),
		UpdatedAt:   u.UpdatedAt.UTC(),
	}
}
