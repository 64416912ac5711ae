package httpapi

import (
	"encoding/json"
	"io"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/Meridian-Yachting/brokerage-api/internal/adapters/httpapi/wire"
	"github.com/Meridian-Yachting/brokerage-api/internal/app/users"
	"github.com/Meridian-Yachting/brokerage-api/internal/domain"
)

const maxWebhookBody = 1 << 20

func (s *Server) GetMe(w http.ResponseWriter, r *http.Request) {
	sub, ok := requireSubject(w, r)
	if !ok {
		return
	}
	u, err := s.Users.GetMe(r.Context(), sub)
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, wire.MeFromDomain(u))
}

// HandleIdentityWebhook mirrors identity-provider user events.
// The signature is checked over the raw body before anything is decoded.
func (s *Server) HandleIdentityWebhook(w http.ResponseWriter, r *http.Request) {
	payload, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxWebhookBody))
	if err != nil {
		writeError(w, r, http.StatusBadRequest, "INVALID_PAYLOAD", "could not read webhook body", nil)
		return
	}
	if s.Webhooks == nil {
		writeError(w, r, http.StatusBadRequest, "INVALID_SIGNATURE", "webhook signature could not be verified", nil)
		return
	}
	if err := s.Webhooks.Verify(payload, r.Header); err != nil {
		log.Printf("request_id=%s identity webhook rejected: %v", middleware.GetReqID(r.Context()), err)
		writeError(w, r, http.StatusBadRequest, "INVALID_SIGNATURE", "webhook signature could not be verified", nil)
		return
	}

	var ev wire.IdentityEvent
	if err := json.Unmarshal(payload, &ev); err != nil {
		writeError(w, r, http.StatusBadRequest, "INVALID_PAYLOAD", "malformed webhook payload", nil)
		return
	}

	out, err := s.Users.HandleEvent(r.Context(), users.Event{
		Type: ev.Type,
		User: users.EventUser{
			ExternalID: domain.ExternalUserID(ev.Data.Id),
			Email:      ev.Data.PrimaryEmail(),
			FirstName:  ev.Data.FirstName,
			LastName:   ev.Data.LastName,
			ImageURL:   ev.Data.ImageUrl,
		},
	})
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, wire.WebhookAck{Outcome: string(out)})
}
