// Package static loads reference data (the passage itinerary and the seed catalog)
// from YAML.
package static

import (
	"bytes"
	"context"
	"embed"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"
	"time"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/Meridian-Yachting/brokerage-api/internal/domain"
	"github.com/Meridian-Yachting/brokerage-api/internal/ports/out/vesselrepo"
)

//go:embed data/*.yaml
var files embed.FS

const dateLayout = "2006-01-02"

type passageFile struct {
	Passages []passageDoc `yaml:"passages"`
}

type passageDoc struct {
	ID                         string `yaml:"id"`
	Name                       string `yaml:"name"`
	Description                string `yaml:"description"`
	StartDate                  string `yaml:"startDate"`
	EndDate                    string `yaml:"endDate"`
	DistanceNM                 int    `yaml:"distanceNM"`
	PricePerPerson             int64  `yaml:"pricePerPerson"`
	Currency                   string `yaml:"currency"`
	MaxGuests                  int    `yaml:"maxGuests"`
	RequiresOffshoreCompetency bool   `yaml:"requiresOffshoreCompetency"`
}

// PassageCatalog is an immutable passagecatalog.Catalog.
type PassageCatalog struct {
	passages []domain.Passage
}

func NewPassageCatalog(ps []domain.Passage) *PassageCatalog {
	cp := append([]domain.Passage(nil), ps...)
	sort.SliceStable(cp, func(i, j int) bool { return cp[i].StartDate.Before(cp[j].StartDate) })
	return &PassageCatalog{passages: cp}
}

func (c *PassageCatalog) List(ctx context.Context) ([]domain.Passage, error) {
	_ = ctx
	return append([]domain.Passage(nil), c.passages...), nil
}

// LoadPassageCatalog reads the itinerary from path, or the embedded default when path is empty.
func LoadPassageCatalog(path string) (*PassageCatalog, error) {
	var (
		b   []byte
		err error
	)
	if path == "" {
		b, err = files.ReadFile("data/passages.yaml")
	} else {
		b, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, fmt.Errorf("read passages: %w", err)
	}
	ps, err := DecodePassages(bytes.NewReader(b))
	if err != nil {
		return nil, err
	}
	return NewPassageCatalog(ps), nil
}

func DecodePassages(r io.Reader) ([]domain.Passage, error) {
	var f passageFile
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil {
		return nil, fmt.Errorf("decode passages: %w", err)
	}

	seen := make(map[string]struct{}, len(f.Passages))
	out := make([]domain.Passage, 0, len(f.Passages))
	for i, d := range f.Passages {
		if d.ID == "" || d.Name == "" {
			return nil, fmt.Errorf("passage %d: id and name are required", i)
		}
		if _, dup := seen[d.ID]; dup {
			return nil, fmt.Errorf("passage %q: duplicate id", d.ID)
		}
		seen[d.ID] = struct{}{}
		if d.PricePerPerson < 0 || d.MaxGuests < 0 {
			return nil, fmt.Errorf("passage %q: price and capacity must be non-negative", d.ID)
		}
		start, err := time.Parse(dateLayout, d.StartDate)
		if err != nil {
			return nil, fmt.Errorf("passage %q: startDate: %w", d.ID, err)
		}
		end, err := time.Parse(dateLayout, d.EndDate)
		if err != nil {
			return nil, fmt.Errorf("passage %q: endDate: %w", d.ID, err)
		}
		if end.Before(start) {
			return nil, fmt.Errorf("passage %q: endDate before startDate", d.ID)
		}
		currency := d.Currency
		if currency == "" {
			currency = "USD"
		}
		out = append(out, domain.Passage{
			ID:                         domain.PassageID(d.ID),
			Name:                       d.Name,
			Description:                d.Description,
			StartDate:                  start,
			EndDate:                    end,
			DistanceNM:                 d.DistanceNM,
			PricePerPerson:             d.PricePerPerson,
			Currency:                   currency,
			MaxGuests:                  d.MaxGuests,
			RequiresOffshoreCompetency: d.RequiresOffshoreCompetency,
		})
	}
	return out, nil
}

type vesselFile struct {
	Vessels []vesselDoc `yaml:"vessels"`
}

type vesselDoc struct {
	Slug               string                `yaml:"slug"`
	Name               string                `yaml:"name"`
	Manufacturer       string                `yaml:"manufacturer"`
	Model              string                `yaml:"model"`
	Variant            *string               `yaml:"variant"`
	Year               int                   `yaml:"year"`
	Price              string                `yaml:"price"`
	Currency           string                `yaml:"currency"`
	LengthMeters       string                `yaml:"lengthMeters"`
	BeamMeters         *float64              `yaml:"beamMeters"`
	DraftMeters        *float64              `yaml:"draftMeters"`
	Guests             int                   `yaml:"guests"`
	Cabins             int                   `yaml:"cabins"`
	Crew               int                   `yaml:"crew"`
	MaxSpeedKnots      *float64              `yaml:"maxSpeedKnots"`
	CruisingSpeedKnots *float64              `yaml:"cruisingSpeedKnots"`
	RangeNM            *int                  `yaml:"rangeNM"`
	FuelCapacityL      *int                  `yaml:"fuelCapacityL"`
	WaterCapacityL     *int                  `yaml:"waterCapacityL"`
	Status             string                `yaml:"status"`
	IsVisible          bool                  `yaml:"isVisible"`
	IsAdventureYacht   bool                  `yaml:"isAdventureYacht"`
	Featured           bool                  `yaml:"featured"`
	SortOrder          *int                  `yaml:"sortOrder"`
	Availability       *string               `yaml:"availability"`
	AvailabilityDate   *string               `yaml:"availabilityDate"`
	Description        *string               `yaml:"description"`
	ShortDescription   *string               `yaml:"shortDescription"`
	Images             []domain.GalleryImage `yaml:"images"`
	Specs              map[string]any        `yaml:"specs"`
}

// SeedVessels returns the embedded seed catalog.
func SeedVessels(now time.Time) ([]vesselrepo.Vessel, error) {
	b, err := files.ReadFile("data/vessels.yaml")
	if err != nil {
		return nil, fmt.Errorf("read vessels: %w", err)
	}
	return DecodeVessels(bytes.NewReader(b), now)
}

func DecodeVessels(r io.Reader, now time.Time) ([]vesselrepo.Vessel, error) {
	var f vesselFile
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil {
		return nil, fmt.Errorf("decode vessels: %w", err)
	}

	out := make([]vesselrepo.Vessel, 0, len(f.Vessels))
	for _, d := range f.Vessels {
		status := domain.VesselStatus(d.Status)
		if !status.Valid() {
			return nil, fmt.Errorf("vessel %q: invalid status %q", d.Slug, d.Status)
		}
		var specs domain.VesselSpecs
		if len(d.Specs) > 0 {
			// Specs share the JSON codec so that known keys are typed the same way everywhere.
			raw, err := json.Marshal(d.Specs)
			if err != nil {
				return nil, fmt.Errorf("vessel %q: specs: %w", d.Slug, err)
			}
			if err := json.Unmarshal(raw, &specs); err != nil {
				return nil, fmt.Errorf("vessel %q: %w", d.Slug, err)
			}
		}
		var availDate *time.Time
		if d.AvailabilityDate != nil {
			t, err := time.Parse(dateLayout, *d.AvailabilityDate)
			if err != nil {
				return nil, fmt.Errorf("vessel %q: availabilityDate: %w", d.Slug, err)
			}
			availDate = &t
		}
		currency := d.Currency
		if currency == "" {
			currency = "USD"
		}
		out = append(out, vesselrepo.Vessel{
			ID:                 domain.VesselID(uuid.NewSHA1(uuid.NameSpaceURL, []byte("vessel:"+d.Slug)).String()),
			Slug:               domain.VesselSlug(d.Slug),
			Name:               d.Name,
			Manufacturer:       d.Manufacturer,
			Model:              d.Model,
			Variant:            d.Variant,
			Year:               d.Year,
			Price:              d.Price,
			Currency:           currency,
			LengthMeters:       d.LengthMeters,
			BeamMeters:         d.BeamMeters,
			DraftMeters:        d.DraftMeters,
			Guests:             d.Guests,
			Cabins:             d.Cabins,
			Crew:               d.Crew,
			MaxSpeedKnots:      d.MaxSpeedKnots,
			CruisingSpeedKnots: d.CruisingSpeedKnots,
			RangeNM:            d.RangeNM,
			FuelCapacityL:      d.FuelCapacityL,
			WaterCapacityL:     d.WaterCapacityL,
			Status:             status,
			IsVisible:          d.IsVisible,
			IsAdventureYacht:   d.IsAdventureYacht,
			Featured:           d.Featured,
			SortOrder:          d.SortOrder,
			Availability:       d.Availability,
			AvailabilityDate:   availDate,
			Description:        d.Description,
			ShortDescription:   d.ShortDescription,
			Images:             d.Images,
			Specs:              specs,
			CreatedAt:          now.UTC(),
			UpdatedAt:          now.UTC(),
		})
	}
	return out, nil
}
