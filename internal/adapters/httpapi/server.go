package httpapi

import (
	"net/http"

	"golang.org/x/sync/singleflight"

	"github.com/Meridian-Yachting/brokerage-api/internal/app/booking"
	"github.com/Meridian-Yachting/brokerage-api/internal/app/catalog"
	"github.com/Meridian-Yachting/brokerage-api/internal/app/leads"
	"github.com/Meridian-Yachting/brokerage-api/internal/app/uploads"
	"github.com/Meridian-Yachting/brokerage-api/internal/app/users"
	"github.com/Meridian-Yachting/brokerage-api/internal/ports/out/clock"
	"github.com/Meridian-Yachting/brokerage-api/internal/ports/out/idempotency"
)

// WebhookVerifier authenticates inbound identity-provider deliveries.
type WebhookVerifier interface {
	Verify(payload []byte, headers http.Header) error
}

// Server is the HTTP adapter. Each handler decodes the request, calls one
// application service and encodes the result.
type Server struct {
	Catalog  *catalog.Service
	Bookings *booking.Service
	Users    *users.Service
	Leads    *leads.Service
	Uploads  *uploads.Service

	Idem       idempotency.Store
	Webhooks   WebhookVerifier
	SpecSheets SpecSheetRenderer
	Clock      clock.Clock

	inflight singleflight.Group
}

type ServerDeps struct {
	Catalog  *catalog.Service
	Bookings *booking.Service
	Users    *users.Service
	Leads    *leads.Service
	Uploads  *uploads.Service

	Idem       idempotency.Store
	Webhooks   WebhookVerifier
	SpecSheets SpecSheetRenderer
	Clock      clock.Clock
}

func NewServer(d ServerDeps) *Server {
	return &Server{
		Catalog:    d.Catalog,
		Bookings:   d.Bookings,
		Users:      d.Users,
		Leads:      d.Leads,
		Uploads:    d.Uploads,
		Idem:       d.Idem,
		Webhooks:   d.Webhooks,
		SpecSheets: d.SpecSheets,
		Clock:      d.Clock,
	}
}
