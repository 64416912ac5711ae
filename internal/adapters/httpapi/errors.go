package httpapi

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/oapi-codegen/nullable"

	"github.com/Meridian-Yachting/brokerage-api/internal/adapters/httpapi/wire"
	"github.com/Meridian-Yachting/brokerage-api/internal/app/booking"
	"github.com/Meridian-Yachting/brokerage-api/internal/app/catalog"
	"github.com/Meridian-Yachting/brokerage-api/internal/app/leads"
	"github.com/Meridian-Yachting/brokerage-api/internal/app/uploads"
	"github.com/Meridian-Yachting/brokerage-api/internal/app/users"
)

func writeError(w http.ResponseWriter, r *http.Request, status int, code string, message string, details map[string]any) {
	er := wire.ErrorResponse{Error: message, Code: code}
	if details != nil {
		er.Details = nullable.NewNullableWithValue(details)
	}
	if rid := middleware.GetReqID(r.Context()); rid != "" {
		er.RequestId = nullable.NewNullableWithValue(rid)
	}
	writeJSON(w, status, er)
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

// writeAppError maps application errors to responses. Anything unrecognized is a 500
// whose message never leaks the underlying cause.
func writeAppError(w http.ResponseWriter, r *http.Request, err error) {
	var (
		ce *catalog.Error
		be *booking.Error
		ue *users.Error
		le *leads.Error
		pe *uploads.Error
	)
	switch {
	case errors.As(err, &ce):
		writeError(w, r, ce.Status, ce.Code, ce.Message, ce.Details)
	case errors.As(err, &be):
		writeError(w, r, be.Status, be.Code, be.Message, be.Details)
	case errors.As(err, &ue):
		writeError(w, r, ue.Status, ue.Code, ue.Message, ue.Details)
	case errors.As(err, &le):
		writeError(w, r, le.Status, le.Code, le.Message, le.Details)
	case errors.As(err, &pe):
		writeError(w, r, pe.Status, pe.Code, pe.Message, pe.Details)
	default:
		log.Printf("request_id=%s %s %s: %v", middleware.GetReqID(r.Context()), r.Method, r.URL.Path, err)
		writeError(w, r, http.StatusInternalServerError, "INTERNAL", "internal error", nil)
	}
}
