package httpapi

import (
	"bytes"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/Meridian-Yachting/brokerage-api/internal/adapters/httpapi/wire"
	"github.com/Meridian-Yachting/brokerage-api/internal/app/catalog"
	"github.com/Meridian-Yachting/brokerage-api/internal/domain"
)

// SpecSheetRenderer writes a printable spec sheet for a vessel.
type SpecSheetRenderer interface {
	Render(w io.Writer, v domain.Vessel) error
}

func (s *Server) ListVessels(w http.ResponseWriter, r *http.Request) {
	q, err := catalog.ParseQuery(r.URL.Query())
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	vs, err := s.Catalog.ListVessels(r.Context(), q)
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, wire.VesselsFromDomain(vs))
}

func (s *Server) ListAdventureYachts(w http.ResponseWriter, r *http.Request) {
	vs, err := s.Catalog.ListAdventureYachts(r.Context())
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, wire.VesselsFromDomain(vs))
}

func (s *Server) ListManufacturers(w http.ResponseWriter, r *http.Request) {
	ms, err := s.Catalog.ListManufacturers(r.Context())
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	if ms == nil {
		ms = []string{}
	}
	writeJSON(w, http.StatusOK, wire.ManufacturersResponse{Manufacturers: ms})
}

func (s *Server) GetVessel(w http.ResponseWriter, r *http.Request) {
	v, err := s.Catalog.GetVessel(r.Context(), domain.VesselSlug(chi.URLParam(r, "slug")))
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, wire.VesselFromDomain(v))
}

func (s *Server) GetVesselSpecSheet(w http.ResponseWriter, r *http.Request) {
	if s.SpecSheets == nil {
		writeError(w, r, http.StatusNotFound, "NOT_FOUND", "spec sheets are not available", nil)
		return
	}
	v, err := s.Catalog.GetVessel(r.Context(), domain.VesselSlug(chi.URLParam(r, "slug")))
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	var buf bytes.Buffer
	if err := s.SpecSheets.Render(&buf, v); err != nil {
		writeAppError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `inline; filename="`+string(v.Slug)+`-spec-sheet.pdf"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}
