package vesselrepo

import (
	"strings"
	"testing"

	"github.com/Meridian-Yachting/brokerage-api/internal/ports/out/vesselrepo"
)

func TestFilterClause_OmitsAbsentFilters(t *testing.T) {
	t.Parallel()

	where, args := filterClause(vesselrepo.Filter{})
	if where != "is_visible" || len(args) != 0 {
		t.Fatalf("where=%q args=%v", where, args)
	}
}

func TestFilterClause_NumbersArePlaceholders(t *testing.T) {
	t.Parallel()

	mfr := "Nordhavn"
	minPrice, maxLength := 1500000.5, 30.0
	where, args := filterClause(vesselrepo.Filter{Manufacturer: &mfr, MinPrice: &minPrice, MaxLength: &maxLength})

	want := "is_visible AND manufacturer = $1 AND price >= $2::text::numeric AND length_meters <= $3::text::numeric"
	if where != want {
		t.Fatalf("where=%q, want %q", where, want)
	}
	if len(args) != 3 || args[0] != "Nordhavn" || args[1] != "1500000.5" || args[2] != "30" {
		t.Fatalf("args=%v", args)
	}
	if strings.Contains(where, "Nordhavn") {
		t.Fatalf("values must not be interpolated")
	}
}
