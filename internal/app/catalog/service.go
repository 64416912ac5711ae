package catalog

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strconv"

	"github.com/Meridian-Yachting/brokerage-api/internal/domain"
	"github.com/Meridian-Yachting/brokerage-api/internal/ports/out/vesselrepo"
)

type Service struct {
	vessels vesselrepo.Repository
}

func NewService(vesselsRepo vesselrepo.Repository) *Service {
	return &Service{vessels: vesselsRepo}
}

// ListVessels returns visible vessels matching q, adventure yachts first.
// On any store failure it returns a FETCH_FAILED error and no rows.
func (s *Service) ListVessels(ctx context.Context, q Query) ([]domain.Vessel, error) {
	rows, err := s.vessels.ListVisible(ctx, toFilter(q))
	if err != nil {
		log.Printf("catalog: list vessels: %v", err)
		return nil, fetchFailed()
	}
	vs, err := shapeAll(rows)
	if err != nil {
		log.Printf("catalog: list vessels: %v", err)
		return nil, fetchFailed()
	}
	key := q.Sort
	if !key.Valid() {
		key = DefaultSort
	}
	return Order(vs, key), nil
}

// ListAdventureYachts returns every visible adventure yacht regardless of listing filters.
func (s *Service) ListAdventureYachts(ctx context.Context) ([]domain.Vessel, error) {
	rows, err := s.vessels.ListVisibleAdventureYachts(ctx)
	if err != nil {
		log.Printf("catalog: list adventure yachts: %v", err)
		return nil, fetchFailed()
	}
	vs, err := shapeAll(rows)
	if err != nil {
		log.Printf("catalog: list adventure yachts: %v", err)
		return nil, fetchFailed()
	}
	orderAdventureListing(vs)
	return vs, nil
}

func (s *Service) GetVessel(ctx context.Context, slug domain.VesselSlug) (domain.Vessel, error) {
	row, err := s.vessels.GetVisibleBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, vesselrepo.ErrNotFound) {
			return domain.Vessel{}, &Error{Status: 404, Code: "VESSEL_NOT_FOUND", Message: "Vessel not found"}
		}
		log.Printf("catalog: get vessel %q: %v", slug, err)
		return domain.Vessel{}, &Error{Status: 500, Code: "FETCH_FAILED", Message: "Failed to fetch vessel"}
	}
	v, err := shape(row)
	if err != nil {
		log.Printf("catalog: get vessel %q: %v", slug, err)
		return domain.Vessel{}, &Error{Status: 500, Code: "FETCH_FAILED", Message: "Failed to fetch vessel"}
	}
	return v, nil
}

// ListManufacturers feeds the manufacturer filter.
func (s *Service) ListManufacturers(ctx context.Context) ([]string, error) {
	ms, err := s.vessels.ListVisibleManufacturers(ctx)
	if err != nil {
		log.Printf("catalog: list manufacturers: %v", err)
		return nil, &Error{Status: 500, Code: "FETCH_FAILED", Message: "Failed to fetch manufacturers"}
	}
	return ms, nil
}

func toFilter(q Query) vesselrepo.Filter {
	return vesselrepo.Filter{
		Manufacturer: q.Manufacturer,
		MinPrice:     q.MinPrice,
		MaxPrice:     q.MaxPrice,
		MinLength:    q.MinLength,
		MaxLength:    q.MaxLength,
	}
}

func shapeAll(rows []vesselrepo.Vessel) ([]domain.Vessel, error) {
	out := make([]domain.Vessel, 0, len(rows))
	for _, r := range rows {
		if !r.IsVisible {
			continue
		}
		v, err := shape(r)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

func shape(r vesselrepo.Vessel) (domain.Vessel, error) {
	price, err := strconv.ParseFloat(r.Price, 64)
	if err != nil {
		return domain.Vessel{}, fmt.Errorf("vessel %s: price %q: %w", r.Slug, r.Price, err)
	}
	length, err := strconv.ParseFloat(r.LengthMeters, 64)
	if err != nil {
		return domain.Vessel{}, fmt.Errorf("vessel %s: length %q: %w", r.Slug, r.LengthMeters, err)
	}
	currency := r.Currency
	if currency == "" {
		currency = "USD"
	}
	return domain.Vessel{
		ID:                 r.ID,
		Slug:               r.Slug,
		Name:               r.Name,
		Manufacturer:       r.Manufacturer,
		Model:              r.Model,
		Variant:            r.Variant,
		Year:               r.Year,
		Price:              price,
		Currency:           currency,
		LengthMeters:       length,
		BeamMeters:         r.BeamMeters,
		DraftMeters:        r.DraftMeters,
		Guests:             r.Guests,
		Cabins:             r.Cabins,
		Crew:               r.Crew,
		MaxSpeedKnots:      r.MaxSpeedKnots,
		CruisingSpeedKnots: r.CruisingSpeedKnots,
		RangeNM:            r.RangeNM,
		FuelCapacityL:      r.FuelCapacityL,
		WaterCapacityL:     r.WaterCapacityL,
		Status:             r.Status,
		IsVisible:          r.IsVisible,
		IsAdventureYacht:   r.IsAdventureYacht,
		Featured:           r.Featured,
		SortOrder:          r.SortOrder,
		Availability:       r.Availability,
		AvailabilityDate:   r.AvailabilityDate,
		Description:        r.Description,
		ShortDescription:   r.ShortDescription,
		Images:             r.Images,
		Specs:              r.Specs,
		CreatedAt:          r.CreatedAt,
		UpdatedAt:          r.UpdatedAt,
	}, nil
}
