package catalog

import (
	"sort"

	"github.com/Meridian-Yachting/brokerage-api/internal/domain"
)

// compare orders a before b (negative), after b (positive) or neither (zero) for key.
// Unknown keys behave like DefaultSort.
func compare(key SortKey, a, b domain.Vessel) int {
	switch key {
	case SortPriceAsc:
		return cmpFloat(a.Price, b.Price)
	case SortPriceDesc:
		return cmpFloat(b.Price, a.Price)
	case SortLength:
		return cmpFloat(b.LengthMeters, a.LengthMeters)
	default:
		return b.Year - a.Year
	}
}

func cmpFloat(a, b float64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

func lessBy(key SortKey, a, b domain.Vessel) bool {
	if c := compare(key, a, b); c != 0 {
		return c < 0
	}
	return a.Slug < b.Slug
}

// Order partitions vs into adventure yachts and the rest and returns the adventure
// group first. The adventure group sorts by sort order (nil as 0) and then by key;
// the rest sorts by key alone. Slug breaks any remaining tie.
func Order(vs []domain.Vessel, key SortKey) []domain.Vessel {
	adventure := make([]domain.Vessel, 0, len(vs))
	rest := make([]domain.Vessel, 0, len(vs))
	for _, v := range vs {
		if v.IsAdventureYacht {
			adventure = append(adventure, v)
		} else {
			rest = append(rest, v)
		}
	}

	sort.SliceStable(adventure, func(i, j int) bool {
		a, b := adventure[i], adventure[j]
		if ao, bo := a.EffectiveSortOrder(), b.EffectiveSortOrder(); ao != bo {
			return ao < bo
		}
		return lessBy(key, a, b)
	})
	sort.SliceStable(rest, func(i, j int) bool {
		return lessBy(key, rest[i], rest[j])
	})

	return append(adventure, rest...)
}

// orderAdventureListing orders the adventure listing: sort order (nil as 0), then
// availability date ascending with undated last, then slug.
func orderAdventureListing(vs []domain.Vessel) {
	sort.SliceStable(vs, func(i, j int) bool {
		a, b := vs[i], vs[j]
		if ao, bo := a.EffectiveSortOrder(), b.EffectiveSortOrder(); ao != bo {
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
