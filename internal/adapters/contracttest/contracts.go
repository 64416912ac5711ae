package contracttest

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/Meridian-Yachting/brokerage-api/internal/domain"
	idempotencyport "github.com/Meridian-Yachting/brokerage-api/internal/ports/out/idempotency"
	leadrepoport "github.com/Meridian-Yachting/brokerage-api/internal/ports/out/leadrepo"
	userrepoport "github.com/Meridian-Yachting/brokerage-api/internal/ports/out/userrepo"
	vesselrepoport "github.com/Meridian-Yachting/brokerage-api/internal/ports/out/vesselrepo"
)

type CleanupFunc = func()

type VesselRepoFactory func(t *testing.T) (vesselrepoport.Repository, CleanupFunc)
type UserRepoFactory func(t *testing.T) (userrepoport.Repository, CleanupFunc)
type LeadRepoFactory func(t *testing.T) (leadrepoport.Repository, CleanupFunc)
type IdemStoreFactory func(t *testing.T) (idempotencyport.Store, CleanupFunc)

func RunIdempotencyStore(t *testing.T, newStore IdemStoreFactory) {
	t.Helper()
	ctx := context.Background()

	store, cleanup := newStore(t)
	if cleanup != nil {
		t.Cleanup(cleanup)
	}

	fp := idempotencyport.Fingerprint{
		Key:      idempotencyport.Key("k-" + uuid.NewString()),
		Subject:  domain.SubjectID("sub-1"),
		Method:   "POST",
		Route:    "/bookings",
		BodyHash: "",
	}
	rec := idempotencyport.Record{
		StatusCode:  0,
		ContentType: "text/plain",
		Body:        []byte("hash-abc"),
		CreatedAt:   time.Unix(123, 0).UTC(),
	}
	if _, ok, err := store.Get(ctx, fp); err != nil || ok {
		t.Fatalf("Get before Put: ok=%v err=%v", ok, err)
	}
	if err := store.Put(ctx, fp, rec); err != nil {
		t.Fatalf("Put: %v", err)
	}
	got, ok, err := store.Get(ctx, fp)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if !ok {
		t.Fatalf("expected ok=true")
	}
	if string(got.Body) != "hash-abc" || got.ContentType != "text/plain" || got.StatusCode != 0 {
		t.Fatalf("unexpected record: %+v", got)
	}

	// Overwrite semantics.
	rec2 := rec
	rec2.Body = []byte("hash-def")
	if err := store.Put(ctx, fp, rec2); err != nil {
		t.Fatalf("Put overwrite: %v", err)
	}
	got, ok, err = store.Get(ctx, fp)
	if err != nil || !ok || string(got.Body) != "hash-def" {
		t.Fatalf("expected overwritten record, got ok=%v err=%v body=%q", ok, err, string(got.Body))
	}

	// Subject is part of the fingerprint.
	other := fp
	other.Subject = "sub-2"
	if _, ok, err := store.Get(ctx, other); err != nil || ok {
		t.Fatalf("expected no record for other subject, ok=%v err=%v", ok, err)
	}

	// Reserve only claims a free fingerprint.
	if reserved, err := store.Reserve(ctx, fp, rec); err != nil || reserved {
		t.Fatalf("Reserve on taken fingerprint: reserved=%v err=%v", reserved, err)
	}
	got, _, _ = store.Get(ctx, fp)
	if string(got.Body) != "hash-def" {
		t.Fatalf("Reserve overwrote record: body=%q", string(got.Body))
	}
	if reserved, err := store.Reserve(ctx, other, rec); err != nil || !reserved {
		t.Fatalf("Reserve on free fingerprint: reserved=%v err=%v", reserved, err)
	}

	if err := store.Delete(ctx, other); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, ok, err := store.Get(ctx, other); err != nil || ok {
		t.Fatalf("expected record deleted, ok=%v err=%v", ok, err)
	}
	if err := store.Delete(ctx, other); err != nil {
		t.Fatalf("Delete missing: %v", err)
	}
	if reserved, err := store.Reserve(ctx, other, rec); err != nil || !reserved {
		t.Fatalf("Reserve after Delete: reserved=%v err=%v", reserved, err)
	}
}

func RunVesselRepo(t *testing.T, newRepo VesselRepoFactory) {
	t.Helper()
	ctx := context.Background()

	repo, cleanup := newRepo(t)
	if cleanup != nil {
		t.Cleanup(cleanup)
	}

	// Rows are namespaced so that suites can share a database.
	run := uuid.NewString()[:8]
	mfr := "Contract " + run
	slug := func(s string) domain.VesselSlug { return domain.VesselSlug(run + "-" + s) }
	now := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	june := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	may := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)
	one := 1
	hull := "aluminium"
	caption := "Aft deck"

	seed := []vesselrepoport.Vessel{
		{Slug: slug("explorer"), Name: "Explorer", Model: "X1", Price: "4500000.00", LengthMeters: "28.50", IsAdventureYacht: true, SortOrder: &one, AvailabilityDate: &june},
		{Slug: slug("nomad"), Name: "Nomad", Model: "N2", Price: "3900000.00", LengthMeters: "24.00", IsAdventureYacht: true, SortOrder: &one, AvailabilityDate: &may},
		{Slug: slug("drifter"), Name: "Drifter", Model: "D3", Price: "2100000.00", LengthMeters: "22.00", IsAdventureYacht: true},
		{Slug: slug("classic"), Name: "Classic", Model: "C4", Price: "1200000.00", LengthMeters: "18.00",
			Specs:  domain.VesselSpecs{HullMaterial: &hull, Extra: map[string]any{"stabilizers": "zero-speed"}},
			Images: []domain.GalleryImage{{URL: "https://img.example.com/c.jpg", Alt: "Classic", Caption: &caption}},
		},
		{Slug: slug("hidden"), Name: "Hidden", Model: "H5", Price: "900000.00", LengthMeters: "15.00", IsVisible: false},
	}
	for i := range seed {
		v := seed[i]
		v.ID = domain.VesselID(uuid.NewString())
		v.Manufacturer = mfr
		v.Currency = "USD"
		v.Year = 2020 + i
		v.Guests, v.Cabins, v.Crew = 8, 4, 3
		v.Status = domain.VesselStatusAvailable
		v.IsVisible = v.Slug != slug("hidden")
		v.CreatedAt, v.UpdatedAt = now, now
		if err := repo.Upsert(ctx, v); err != nil {
			t.Fatalf("Upsert %s: %v", v.Slug, err)
		}
	}

	if err := repo.Upsert(ctx, vesselrepoport.Vessel{ID: domain.VesselID(uuid.NewString()), Manufacturer: mfr}); !errors.Is(err, vesselrepoport.ErrSlugRequired) {
		t.Fatalf("Upsert without slug: err=%v, want ErrSlugRequired", err)
	}

	all, err := repo.ListVisible(ctx, vesselrepoport.Filter{Manufacturer: &mfr})
	if err != nil {
		t.Fatalf("ListVisible: %v", err)
	}
	if len(all) != 4 {
		t.Fatalf("ListVisible: got %d rows, want 4 visible", len(all))
	}

	minPrice, maxPrice := 2100000.0, 4500000.0
	maxLength := 24.0
	filtered, err := repo.ListVisible(ctx, vesselrepoport.Filter{
		Manufacturer: &mfr,
		MinPrice:     &minPrice,
		MaxPrice:     &maxPrice,
		MaxLength:    &maxLength,
	})
	if err != nil {
		t.Fatalf("ListVisible filtered: %v", err)
	}
	if got := slugSet(filtered); len(got) != 2 || !got[slug("nomad")] || !got[slug("drifter")] {
		t.Fatalf("unexpected filtered rows: %v", got)
	}

	adv, err := repo.ListVisibleAdventureYachts(ctx)
	if err != nil {
		t.Fatalf("ListVisibleAdventureYachts: %v", err)
	}
	var order []domain.VesselSlug
	for _, v := range adv {
		if strings.HasPrefix(string(v.Slug), run+"-") {
			order = append(order, v.Slug)
		}
	}
	want := []domain.VesselSlug{slug("drifter"), slug("nomad"), slug("explorer")}
	if len(order) != len(want) {
		t.Fatalf("adventure rows: got %v, want %v", order, want)
	}
	for i := range want {
		if order[i] != want[i] {
			t.Fatalf("adventure order: got %v, want %v", order, want)
		}
	}

	got, err := repo.GetVisibleBySlug(ctx, slug("classic"))
	if err != nil {
		t.Fatalf("GetVisibleBySlug: %v", err)
	}
	if got.Price != "1200000.00" || got.LengthMeters != "18.00" {
		t.Fatalf("decimal round-trip: price=%q length=%q", got.Price, got.LengthMeters)
	}
	if got.Specs.HullMaterial == nil || *got.Specs.HullMaterial != hull || got.Specs.Extra["stabilizers"] != "zero-speed" {
		t.Fatalf("specs round-trip: %+v", got.Specs)
	}
	if len(got.Images) != 1 || got.Images[0].Caption == nil || *got.Images[0].Caption != caption {
		t.Fatalf("images round-trip: %+v", got.Images)
	}

	if _, err := repo.GetVisibleBySlug(ctx, slug("hidden")); !errors.Is(err, vesselrepoport.ErrNotFound) {
		t.Fatalf("hidden vessel: err=%v, want ErrNotFound", err)
	}
	if _, err := repo.GetVisibleBySlug(ctx, slug("missing")); !errors.Is(err, vesselrepoport.ErrNotFound) {
		t.Fatalf("missing vessel: err=%v, want ErrNotFound", err)
	}

	mfrs, err := repo.ListVisibleManufacturers(ctx)
	if err != nil {
		t.Fatalf("ListVisibleManufacturers: %v", err)
	}
	count := 0
	for i, m := range mfrs {
		if m == mfr {
			count++
		}
		if i > 0 && mfrs[i-1] > m {
			t.Fatalf("manufacturers not sorted: %v", mfrs)
		}
	}
	if count != 1 {
		t.Fatalf("manufacturer %q appears %d times, want 1", mfr, count)
	}
}

func RunUserRepo(t *testing.T, newRepo UserRepoFactory) {
	t.Helper()
	ctx := context.Background()

	repo, cleanup := newRepo(t)
	if cleanup != nil {
		t.Cleanup(cleanup)
	}

	id := domain.ExternalUserID("user_" + uuid.NewString())
	created := time.Date(2026, 2, 1, 10, 0, 0, 0, time.UTC)
	first := "Ada"
	if err := repo.Upsert(ctx, userrepoport.User{
		ExternalID: id,
		Email:      "ada@example.com",
		FirstName:  &first,
		CreatedAt:  created,
		UpdatedAt:  created,
	}); err != nil {
		t.Fatalf("Upsert create: %v", err)
	}

	// Replayed delivery with newer values: latest wins, CreatedAt kept.
	later := created.Add(time.Hour)
	last := "Lovelace"
	if err := repo.Upsert(ctx, userrepoport.User{
		ExternalID: id,
		Email:      "ada@lovelace.example.com",
		FirstName:  &first,
		LastName:   &last,
		CreatedAt:  later,
		UpdatedAt:  later,
	}); err != nil {
		t.Fatalf("Upsert update: %v", err)
	}

	got, err := repo.GetByExternalID(ctx, id)
	if err != nil {
		t.Fatalf("GetByExternalID: %v", err)
	}
	if got.Email != "ada@lovelace.example.com" || got.LastName == nil || *got.LastName != last {
		t.Fatalf("unexpected user after update: %+v", got)
	}
	if !got.CreatedAt.Equal(created) || !got.UpdatedAt.Equal(later) {
		t.Fatalf("timestamps: createdAt=%v updatedAt=%v", got.CreatedAt, got.UpdatedAt)
	}

	users, err := repo.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	n := 0
	for _, u := range users {
		if u.ExternalID == id {
			n++
		}
	}
	if n != 1 {
		t.Fatalf("expected exactly one row for %s, got %d", id, n)
	}

	if err := repo.DeleteByExternalID(ctx, id); err != nil {
		t.Fatalf("DeleteByExternalID: %v", err)
	}
	if _, err := repo.GetByExternalID(ctx, id); !errors.Is(err, userrepoport.ErrNotFound) {
		t.Fatalf("after delete: err=%v, want ErrNotFound", err)
	}
	if err := repo.DeleteByExternalID(ctx, id); !errors.Is(err, userrepoport.ErrNotFound) {
		t.Fatalf("second delete: err=%v, want ErrNotFound", err)
	}
}

func RunLeadRepo(t *testing.T, newRepo LeadRepoFactory) {
	t.Helper()
	ctx := context.Background()

	repo, cleanup := newRepo(t)
	if cleanup != nil {
		t.Cleanup(cleanup)
	}

	now := time.Date(2026, 3, 3, 8, 0, 0, 0, time.UTC)
	name := "Grace Hopper"
	vessel := domain.VesselSlug("nordhavn-68")
	first := domain.Lead{
		ID:         domain.LeadID(uuid.NewString()),
		Email:      "grace@example.com",
		Name:       &name,
		Source:     "brochure-popup",
		VesselSlug: &vessel,
		CreatedAt:  now,
	}
	second := domain.Lead{
		ID:        domain.LeadID(uuid.NewString()),
		Email:     "alan@example.com",
		Source:    "newsletter",
		CreatedAt: now.Add(time.Minute),
	}
	if err := repo.Create(ctx, second); err != nil {
		t.Fatalf("Create second: %v", err)
	}
	if err := repo.Create(ctx, first); err != nil {
		t.Fatalf("Create first: %v", err)
	}
	if err := repo.Create(ctx, first); !errors.Is(err, leadrepoport.ErrAlreadyExists) {
		t.Fatalf("duplicate Create: err=%v, want ErrAlreadyExists", err)
	}

	leads, err := repo.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	fi, si := -1, -1
	for i, l := range leads {
		switch l.ID {
		case first.ID:
			fi = i
			if l.Name == nil || *l.Name != name || l.VesselSlug == nil || *l.VesselSlug != vessel {
				t.Fatalf("lead round-trip: %+v", l)
			}
		case second.ID:
			si = i
		}
	}
	if fi < 0 || si < 0 || fi > si {
		t.Fatalf("expected leads ordered by createdAt: first=%d second=%d", fi, si)
	}
}

func slugSet(vs []vesselrepoport.Vessel) map[domain.VesselSlug]bool {
	out := make(map[domain.VesselSlug]bool, len(vs))
	for _, v := range vs {
		out[v.Slug] = true
	}
	return out
}
