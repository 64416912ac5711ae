package vesselrepo

import (
	"context"
	"database/sql/driver"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/Meridian-Yachting/brokerage-api/internal/domain"
	"github.com/Meridian-Yachting/brokerage-api/internal/ports/out/vesselrepo"
)

func newMock(t *testing.T) (*Repo, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return NewRepo(db), mock
}

func vesselRow(slug string, adventure bool, sortOrder any) []driver.Value {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	return []driver.Value{
		"0b6f7a4e-5f7e-4d4b-9a55-6c9d0f1e2a3b", slug, "Meridian", "Nordhavn", "N68", nil, int64(2019),
		"4250000.00", "USD", "20.88", 5.8, nil,
		int64(6), int64(3), int64(2),
		nil, 9.0, int64(3000), nil, nil,
		"under_contract", true, adventure, false, sortOrder,
		"Spring", time.Date(2026, 4, 15, 0, 0, 0, 0, time.UTC), nil, "Trawler",
		[]byte(`[{"url":"https://img.example.com/a.jpg","alt":"bow"}]`), []byte(`{"hullMaterial":"fibreglass","stabilizers":"zero-speed"}`), now, now,
	}
}

func TestRepo_ListVisible_BuildsConjunctiveFilter(t *testing.T) {
	t.Parallel()

	repo, mock := newMock(t)
	mfr := "Nordhavn"
	minPrice := 1000000.0
	maxLength := 25.5

	mock.ExpectQuery(`SELECT .* FROM vessels WHERE is_visible = TRUE AND manufacturer = \? AND price >= CAST\(\? AS DECIMAL\(14,2\)\) AND length_meters <= CAST\(\? AS DECIMAL\(7,2\)\) ORDER BY slug ASC`).
		WithArgs("Nordhavn", "1000000", "25.5").
		WillReturnRows(sqlmock.NewRows(Columns).AddRow(vesselRow("meridian", true, int64(1))...))

	got, err := repo.ListVisible(context.Background(), vesselrepo.Filter{Manufacturer: &mfr, MinPrice: &minPrice, MaxLength: &maxLength})
	if err != nil {
		t.Fatalf("ListVisible: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("rows=%d", len(got))
	}
	v := got[0]
	if v.Price != "4250000.00" || v.LengthMeters != "20.88" || v.Status != domain.VesselStatusUnderContract {
		t.Fatalf("scalar columns: %+v", v)
	}
	if v.Variant != nil || v.BeamMeters == nil || *v.BeamMeters != 5.8 || v.SortOrder == nil || *v.SortOrder != 1 {
		t.Fatalf("nullable columns: %+v", v)
	}
	if v.AvailabilityDate == nil || v.AvailabilityDate.Day() != 15 {
		t.Fatalf("availabilityDate=%v", v.AvailabilityDate)
	}
	if len(v.Images) != 1 || v.Images[0].Alt != "bow" {
		t.Fatalf("images=%+v", v.Images)
	}
	if v.Specs.HullMaterial == nil || v.Specs.Extra["stabilizers"] != "zero-speed" {
		t.Fatalf("specs=%+v", v.Specs)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestRepo_ListVisible_NoFilters(t *testing.T) {
	t.Parallel()

	repo, mock := newMock(t)
	mock.ExpectQuery(`FROM vessels WHERE is_visible = TRUE ORDER BY slug ASC`).
		WithArgs().
		WillReturnRows(sqlmock.NewRows(Columns))

	got, err := repo.ListVisible(context.Background(), vesselrepo.Filter{})
	if err != nil || len(got) != 0 {
		t.Fatalf("got=%v err=%v", got, err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestRepo_ListVisibleAdventureYachts_OrdersInSQL(t *testing.T) {
	t.Parallel()

	repo, mock := newMock(t)
	mock.ExpectQuery(`WHERE is_visible = TRUE AND is_adventure_yacht = TRUE\s+ORDER BY COALESCE\(sort_order, 0\) ASC, availability_date IS NULL ASC, availability_date ASC, slug ASC`).
		WillReturnRows(sqlmock.NewRows(Columns).
			AddRow(vesselRow("a", true, nil)...).
			AddRow(vesselRow("b", true, int64(2))...))

	got, err := repo.ListVisibleAdventureYachts(context.Background())
	if err != nil {
		t.Fatalf("ListVisibleAdventureYachts: %v", err)
	}
	if len(got) != 2 || got[0].Slug != "a" || got[0].SortOrder != nil {
		t.Fatalf("got=%+v", got)
	}
}

func TestRepo_GetVisibleBySlug_NotFound(t *testing.T) {
	t.Parallel()

	repo, mock := newMock(t)
	mock.ExpectQuery(`FROM vessels WHERE slug = \? AND is_visible = TRUE`).
		WithArgs("ghost").
		WillReturnRows(sqlmock.NewRows(Columns))

	if _, err := repo.GetVisibleBySlug(context.Background(), "ghost"); !errors.Is(err, vesselrepo.ErrNotFound) {
		t.Fatalf("err=%v, want ErrNotFound", err)
	}
}

func TestRepo_ListVisible_QueryError(t *testing.T) {
	t.Parallel()

	repo, mock := newMock(t)
	mock.ExpectQuery(`FROM vessels`).WillReturnError(errors.New("connection reset"))

	if _, err := repo.ListVisible(context.Background(), vesselrepo.Filter{}); err == nil {
		t.Fatalf("expected error")
	}
}

func TestRepo_ListVisibleManufacturers(t *testing.T) {
	t.Parallel()

	repo, mock := newMock(t)
	mock.ExpectQuery(`SELECT DISTINCT manufacturer FROM vessels WHERE is_visible = TRUE ORDER BY manufacturer ASC`).
		WillReturnRows(sqlmock.NewRows([]string{"manufacturer"}).AddRow("Arksen").AddRow("Nordhavn"))

	got, err := repo.ListVisibleManufacturers(context.Background())
	if err != nil || len(got) != 2 || got[0] != "Arksen" {
		t.Fatalf("got=%v err=%v", got, err)
	}
}

func TestRepo_Upsert(t *testing.T) {
	t.Parallel()

	repo, mock := newMock(t)
	args := make([]driver.Value, len(Columns))
	for i := range args {
		args[i] = sqlmock.AnyArg()
	}
	mock.ExpectExec(`INSERT INTO vessels \(id, slug, .*\) VALUES \(.*\) ON DUPLICATE KEY UPDATE name = VALUES\(name\)`).
		WithArgs(args...).
		WillReturnResult(sqlmock.NewResult(0, 1))

	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	err := repo.Upsert(context.Background(), vesselrepo.Vessel{
		ID: "0b6f7a4e-5f7e-4d4b-9a55-6c9d0f1e2a3b", Slug: "meridian", Name: "Meridian",
		Price: "4250000.00", LengthMeters: "20.88", Status: domain.VesselStatusAvailable,
		IsVisible: true, CreatedAt: now, UpdatedAt: now,
	})
	if err != nil {
		t.Fatalf("Upsert: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestRepo_Upsert_RequiresSlug(t *testing.T) {
	t.Parallel()

	repo, mock := newMock(t)
	err := repo.Upsert(context.Background(), vesselrepo.Vessel{ID: "0b6f7a4e-5f7e-4d4b-9a55-6c9d0f1e2a3b", Name: "Nameless"})
	if !errors.Is(err, vesselrepo.ErrSlugRequired) {
		t.Fatalf("err=%v, want ErrSlugRequired", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unexpected SQL: %v", err)
	}
}
