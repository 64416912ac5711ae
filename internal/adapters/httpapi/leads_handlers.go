package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	openapi_types "github.com/oapi-codegen/runtime/types"

	"github.com/Meridian-Yachting/brokerage-api/internal/adapters/httpapi/wire"
	"github.com/Meridian-Yachting/brokerage-api/internal/app/leads"
)

const maxLeadBody = 16 << 10

func (s *Server) CreateLead(w http.ResponseWriter, r *http.Request) {
	var body wire.CreateLeadRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxLeadBody)).Decode(&body); err != nil {
		if errors.Is(err, openapi_types.ErrValidationEmail) {
			writeError(w, r, http.StatusUnprocessableEntity, "VALIDATION_ERROR", "invalid lead", map[string]any{"email": "must be a valid email address"})
			return
		}
		writeError(w, r, http.StatusUnprocessableEntity, "VALIDATION_ERROR", "invalid request body", nil)
		return
	}

	l, err := s.Leads.Capture(r.Context(), leads.CaptureInput{
		Email:      string(body.Email),
		Name:       body.Name,
		Phone:      body.Phone,
		Source:     body.Source,
		VesselSlug: body.VesselSlug,
		Message:    body.Message,
	})
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, wire.CreateLeadResponse{LeadId: string(l.ID)})
}
