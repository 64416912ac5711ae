package catalogclient

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Meridian-Yachting/brokerage-api/internal/adapters/httpapi/wire"
	"github.com/Meridian-Yachting/brokerage-api/internal/app/catalog"
	"github.com/Meridian-Yachting/brokerage-api/internal/domain"
)

func TestClient_ListVessels_EncodesParamsAndDecodes(t *testing.T) {
	t.Parallel()

	var gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/vessels" {
			http.NotFound(w, r)
			return
		}
		gotQuery = r.URL.RawQuery
		now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
		rows := []wire.Vessel{{
			Id:           "v1",
			Slug:         "azimut-grande-27-solstice",
			Name:         "Solstice",
			Manufacturer: "Azimut",
			Model:        "Grande 27",
			Year:         2022,
			Price:        12500000,
			Currency:     "EUR",
			LengthMeters: 26.8,
			Status:       "under-contract",
			CreatedAt:    now,
			UpdatedAt:    now,
		}}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(rows)
	}))
	t.Cleanup(srv.Close)

	maxPrice := 20000000.0
	c := New(srv.URL+"/", nil)
	vs, err := c.ListVessels(context.Background(), Params{Sort: catalog.SortPriceDesc, MaxPrice: &maxPrice})
	if err != nil {
		t.Fatalf("ListVessels: %v", err)
	}
	if gotQuery != "maxPrice=20000000&sort=price-desc" {
		t.Fatalf("unexpected query %q", gotQuery)
	}
	if len(vs) != 1 || vs[0].Slug != "azimut-grande-27-solstice" {
		t.Fatalf("unexpected vessels %+v", vs)
	}
	if vs[0].Status != domain.VesselStatusUnderContract {
		t.Fatalf("expected stored status form, got %q", vs[0].Status)
	}
}

func TestClient_ListVessels_ServerError(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":"Failed to fetch vessels","code":"FETCH_FAILED"}`))
	}))
	t.Cleanup(srv.Close)

	if _, err := New(srv.URL, srv.Client()).ListVessels(context.Background(), Params{}); err == nil {
		t.Fatalf("expected error")
	}
}
