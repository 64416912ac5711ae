package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

type RouterOptions struct {
	// AuthMiddleware guards the authenticated routes (bookings, upload, users/me).
	// When nil, those routes answer 401.
	AuthMiddleware func(http.Handler) http.Handler

	// CORSAllowedOrigins enables CORS for the frontend. Empty disables the CORS middleware.
	CORSAllowedOrigins []string

	// Files serves stored uploads under /files/ when set.
	Files http.Handler
}

// NewRouter constructs the API HTTP router.
func NewRouter(s *Server) http.Handler {
	return NewRouterWithOptions(s, RouterOptions{})
}

func NewRouterWithOptions(s *Server, opts RouterOptions) http.Handler {
	r := chi.NewRouter()

	// Baseline production-safe middleware (minimal but useful).
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	if len(opts.CORSAllowedOrigins) > 0 {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins:   opts.CORSAllowedOrigins,
			AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodOptions},
			AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "Idempotency-Key"},
			ExposedHeaders:   []string{"X-Request-Id"},
			AllowCredentials: true,
			MaxAge:           300,
		}))
	}

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	r.Route("/vessels", func(r chi.Router) {
		r.Get("/", s.ListVessels)
		r.Get("/adventure-yachts", s.ListAdventureYachts)
		r.Get("/manufacturers", s.ListManufacturers)
		r.Get("/{slug}", s.GetVessel)
		r.Get("/{slug}/spec-sheet.pdf", s.GetVesselSpecSheet)
	})
	r.Get("/passages", s.ListPassages)
	r.Post("/leads", s.CreateLead)
	r.Post("/webhooks/identity-provider", s.HandleIdentityWebhook)

	if opts.Files != nil {
		r.Handle("/files/*", http.StripPrefix("/files/", opts.Files))
	}

	authMW := opts.AuthMiddleware
	if authMW == nil {
		authMW = denyAll
	}
	r.Group(func(r chi.Router) {
		r.Use(authMW)
		r.Post("/bookings", s.CreateBooking)
		r.Post("/upload", s.Upload)
		r.Get("/users/me", s.GetMe)
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, r, http.StatusNotFound, "NOT_FOUND", "not found", nil)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, r, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "method not allowed", nil)
	})
	return r
}

func denyAll(http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, r, http.StatusUnauthorized, "UNAUTHORIZED", "authentication is not configured", nil)
	})
}
