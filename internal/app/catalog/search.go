package catalog

import (
	"strings"

	"github.com/Meridian-Yachting/brokerage-api/internal/domain"
)

// Search keeps vessels whose name, manufacturer or model contains q, case-insensitively.
// q is trimmed first; an empty q returns vs unchanged. Order is preserved.
func Search(vs []domain.Vessel, q string) []domain.Vessel {
	q = strings.ToLower(strings.TrimSpace(q))
	if q == "" {
		return vs
	}
	out := make([]domain.Vessel, 0, len(vs))
	for _, v := range vs {
		if strings.Contains(strings.ToLower(v.Name), q) ||
			strings.Contains(strings.ToLower(v.Manufacturer), q) ||
			strings.Contains(strings.ToLower(v.Model), q) {
			out = append(out, v)
		}
	}
	return out
}
