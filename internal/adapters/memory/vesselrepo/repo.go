package vesselrepo

import (
	"context"
	"sort"
	"strconv"
	"sync"
	"time"

	"github.com/Meridian-Yachting/brokerage-api/internal/domain"
	"github.com/Meridian-Yachting/brokerage-api/internal/ports/out/vesselrepo"
)

// Repo is an in-memory implementation of vesselrepo.Repository.
// It is safe for concurrent use.
type Repo struct {
	mu     sync.RWMutex
	bySlug map[domain.VesselSlug]vesselrepo.Vessel
}

func NewRepo() *Repo {
	return &Repo{
		bySlug: make(map[domain.VesselSlug]vesselrepo.Vessel),
	}
}

// NewSeededRepo returns a repo pre-populated with vs.
func NewSeededRepo(vs []vesselrepo.Vessel) *Repo {
	r := NewRepo()
	for _, v := range vs {
		r.bySlug[v.Slug] = cloneVessel(v)
	}
	return r
}

func (r *Repo) Upsert(ctx context.Context, v vesselrepo.Vessel) error {
	_ = ctx
	if v.Slug == "" {
		return vesselrepo.ErrSlugRequired
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if prev, ok := r.bySlug[v.Slug]; ok && !prev.CreatedAt.IsZero() {
		v.CreatedAt = prev.CreatedAt
	}
	r.bySlug[v.Slug] = cloneVessel(v)
	return nil
}

func (r *Repo) ListVisible(ctx context.Context, f vesselrepo.Filter) ([]vesselrepo.Vessel, error) {
	_ = ctx
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]vesselrepo.Vessel, 0)
	for _, v := range r.bySlug {
		if v.IsVisible && matches(v, f) {
			out = append(out, cloneVessel(v))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Slug < out[j].Slug })
	return out, nil
}

func (r *Repo) ListVisibleAdventureYachts(ctx context.Context) ([]vesselrepo.Vessel, error) {
	_ = ctx
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]vesselrepo.Vessel, 0)
	for _, v := range r.bySlug {
		if v.IsVisible && v.IsAdventureYacht {
			out = append(out, cloneVessel(v))
		}
	}
	sortAdventure(out)
	return out, nil
}

func (r *Repo) GetVisibleBySlug(ctx context.Context, slug domain.VesselSlug) (vesselrepo.Vessel, error) {
	_ = ctx
	r.mu.RLock()
	defer r.mu.RUnlock()
	v, ok := r.bySlug[slug]
	if !ok || !v.IsVisible {
		return vesselrepo.Vessel{}, vesselrepo.ErrNotFound
	}
	return cloneVessel(v), nil
}

func (r *Repo) ListVisibleManufacturers(ctx context.Context) ([]string, error) {
	_ = ctx
	r.mu.RLock()
	defer r.mu.RUnlock()
	seen := make(map[string]struct{})
	out := make([]string, 0)
	for _, v := range r.bySlug {
		if !v.IsVisible {
			continue
		}
		if _, ok := seen[v.Manufacturer]; ok {
			continue
		}
		seen[v.Manufacturer] = struct{}{}
		out = append(out, v.Manufacturer)
	}
	sort.Strings(out)
	return out, nil
}

func matches(v vesselrepo.Vessel, f vesselrepo.Filter) bool {
	if f.Manufacturer != nil && v.Manufacturer != *f.Manufacturer {
		return false
	}
	if f.MinPrice != nil || f.MaxPrice != nil {
		price, err := strconv.ParseFloat(v.Price, 64)
		if err != nil {
			return false
		}
		if f.MinPrice != nil && price < *f.MinPrice {
			return false
		}
		if f.MaxPrice != nil && price > *f.MaxPrice {
			return false
		}
	}
	if f.MinLength != nil || f.MaxLength != nil {
		length, err := strconv.ParseFloat(v.LengthMeters, 64)
		if err != nil {
			return false
		}
		if f.MinLength != nil && length < *f.MinLength {
			return false
		}
		if f.MaxLength != nil && length > *f.MaxLength {
			return false
		}
	}
	return true
}

// sortAdventure orders by sort order (nil as 0), then availability date with undated last, then slug.
func sortAdventure(vs []vesselrepo.Vessel) {
	sort.SliceStable(vs, func(i, j int) bool {
		a, b := vs[i], vs[j]
		ao, bo := sortOrder(a), sortOrder(b)
		if ao != bo {
			return ao < bo
		}
		ad, bd := a.AvailabilityDate, b.AvailabilityDate
		switch {
		case ad != nil && bd != nil:
			if !ad.Equal(*bd) {
				return ad.Before(*bd)
			}
		case ad != nil:
			return true
		case bd != nil:
			return false
		}
		return a.Slug < b.Slug
	})
}

func sortOrder(v vesselrepo.Vessel) int {
	if v.SortOrder == nil {
		return 0
	}
	return *v.SortOrder
}

func cloneVessel(v vesselrepo.Vessel) vesselrepo.Vessel {
	cp := v
	cp.Variant = cloneStringPtr(v.Variant)
	cp.BeamMeters = cloneFloatPtr(v.BeamMeters)
	cp.DraftMeters = cloneFloatPtr(v.DraftMeters)
	cp.MaxSpeedKnots = cloneFloatPtr(v.MaxSpeedKnots)
	cp.CruisingSpeedKnots = cloneFloatPtr(v.CruisingSpeedKnots)
	cp.RangeNM = cloneIntPtr(v.RangeNM)
	cp.FuelCapacityL = cloneIntPtr(v.FuelCapacityL)
	cp.WaterCapacityL = cloneIntPtr(v.WaterCapacityL)
	cp.SortOrder = cloneIntPtr(v.SortOrder)
	cp.Availability = cloneStringPtr(v.Availability)
	cp.AvailabilityDate = cloneTimePtr(v.AvailabilityDate)
	cp.Description = cloneStringPtr(v.Description)
	cp.ShortDescription = cloneStringPtr(v.ShortDescription)
	if v.Images != nil {
		cp.Images = append([]domain.GalleryImage(nil), v.Images...)
	}
	if v.Specs.Extra != nil {
		cp.Specs.Extra = make(map[string]any, len(v.Specs.Extra))
		for k, val := range v.Specs.Extra {
			cp.Specs.Extra[k] = val
		}
	}
	return cp
}

func cloneStringPtr(p *string) *string {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

func cloneIntPtr(p *int) *int {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

func cloneFloatPtr(p *float64) *float64 {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

func cloneTimePtr(p *time.Time) *time.Time {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
