package catalog

import (
	"math"
	"net/url"
	"strconv"
	"strings"
)

type SortKey string

const (
	SortPriceAsc  SortKey = "price-asc"
	SortPriceDesc SortKey = "price-desc"
	SortNewest    SortKey = "newest"
	SortLength    SortKey = "length"
)

// DefaultSort applies when the sort parameter is absent or unrecognized.
const DefaultSort = SortNewest

func (k SortKey) Valid() bool {
	switch k {
	case SortPriceAsc, SortPriceDesc, SortNewest, SortLength:
		return true
	default:
		return false
	}
}

// Query is a parsed catalog listing request.
// A nil filter field means the filter was not provided.
type Query struct {
	Sort SortKey

	Manufacturer *string

	MinPrice *float64
	MaxPrice *float64

	MinLength *float64
	MaxLength *float64
}

// Encode renders q as URL query parameters, omitting absent filters.
func (q Query) Encode() url.Values {
	v := url.Values{}
	if q.Sort != "" {
		v.Set("sort", string(q.Sort))
	}
	if q.Manufacturer != nil {
		v.Set("manufacturer", *q.Manufacturer)
	}
	setFloat(v, "minPrice", q.MinPrice)
	setFloat(v, "maxPrice", q.MaxPrice)
	setFloat(v, "minLength", q.MinLength)
	setFloat(v, "maxLength", q.MaxLength)
	return v
}

func setFloat(v url.Values, key string, f *float64) {
	if f != nil {
		v.Set(key, strconv.FormatFloat(*f, 'f', -1, 64))
	}
}

// ParseQuery reads sort and filter parameters.
//
// Sentinels: manufacturer "" or "all" is absent; numeric bounds "" or "any" are absent;
// upper bounds additionally treat "Infinity" and "max" as unbounded.
// Any other non-numeric bound is a 400.
func ParseQuery(v url.Values) (Query, error) {
	q := Query{Sort: SortKey(strings.TrimSpace(v.Get("sort")))}
	if !q.Sort.Valid() {
		q.Sort = DefaultSort
	}

	if m := strings.TrimSpace(v.Get("manufacturer")); m != "" && !strings.EqualFold(m, "all") {
		q.Manufacturer = &m
	}

	details := map[string]any{}
	q.MinPrice = parseBound(v, "minPrice", false, details)
	q.MaxPrice = parseBound(v, "maxPrice", true, details)
	q.MinLength = parseBound(v, "minLength", false, details)
	q.MaxLength = parseBound(v, "maxLength", true, details)
	if len(details) > 0 {
		return Query{}, &Error{Status: 400, Code: "INVALID_QUERY", Message: "invalid query parameters", Details: details}
	}
	return q, nil
}

func parseBound(v url.Values, key string, upper bool, details map[string]any) *float64 {
	raw := strings.TrimSpace(v.Get(key))
	if raw == "" || strings.EqualFold(raw, "any") {
		return nil
	}
	if upper && (raw == "Infinity" || strings.EqualFold(raw, "max")) {
		return nil
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(f) {
		details[key] = "must be a number"
		return nil
	}
	if math.IsInf(f, 0) {
		if upper && f > 0 {
			return nil
		}
		details[key] = "must be finite"
		return nil
	}
	return &f
}
