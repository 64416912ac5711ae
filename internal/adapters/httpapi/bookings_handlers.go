package httpapi

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"log"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/Meridian-Yachting/brokerage-api/internal/adapters/httpapi/wire"
	"github.com/Meridian-Yachting/brokerage-api/internal/app/booking"
	"github.com/Meridian-Yachting/brokerage-api/internal/domain"
	"github.com/Meridian-Yachting/brokerage-api/internal/ports/out/idempotency"
)

const (
	bookingsRoute  = "/bookings"
	maxBookingBody = 64 << 10
)

func (s *Server) ListPassages(w http.ResponseWriter, r *http.Request) {
	ps, err := s.Bookings.ListPassages(r.Context())
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	out := make([]wire.Passage, 0, len(ps))
	for _, p := range ps {
		out = append(out, wire.PassageFromDomain(p))
	}
	writeJSON(w, http.StatusOK, wire.PassagesResponse{Passages: out})
}

func (s *Server) CreateBooking(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	sub, ok := requireSubject(w, r)
	if !ok {
		return
	}
	key := strings.TrimSpace(r.Header.Get("Idempotency-Key"))
	if key == "" {
		writeError(w, r, http.StatusUnprocessableEntity, "VALIDATION_ERROR", "missing Idempotency-Key header", map[string]any{"Idempotency-Key": "required"})
		return
	}

	var body wire.CreateBookingRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBookingBody))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&body); err != nil {
		writeError(w, r, http.StatusUnprocessableEntity, "VALIDATION_ERROR", "invalid request body", nil)
		return
	}

	bodyHash, err := hashCreateBookingBody(body)
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	ids := make([]domain.PassageID, 0, len(body.PassageIds))
	for _, id := range body.PassageIds {
		ids = append(ids, domain.PassageID(id))
	}
	in := booking.SubmitInput{
		PassageIDs:     ids,
		GuestCount:     body.GuestCount,
		IdempotencyKey: key,
	}

	if s.Idem == nil {
		c, err := s.Bookings.Submit(ctx, sub, in)
		if err != nil {
			writeAppError(w, r, err)
			return
		}
		b, err := json.Marshal(wire.CreateBookingResponse{Booking: bookingFromConfirmation(c)})
		if err != nil {
			writeAppError(w, r, err)
			return
		}
		writeBookingBody(w, b, false)
		return
	}

	fp := idempotency.Fingerprint{
		Key:      idempotency.Key(key),
		Subject:  sub,
		Method:   http.MethodPost,
		Route:    bookingsRoute,
		BodyHash: bodyHash,
	}
	// Requests sharing a fingerprint in this process wait for one submission,
	// which must outlive the request that started it.
	v, err, _ := s.inflight.Do(fingerprintKey(fp), func() (any, error) {
		return s.submitBookingOnce(context.WithoutCancel(ctx), sub, in, fp)
	})
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	out := v.(bookingOutcome)
	writeBookingBody(w, out.body, out.replayed)
}

type bookingOutcome struct {
	body     []byte
	replayed bool
}

// submitBookingOnce claims the key with a pending meta record before handing
// off, and only the claimant submits. A failed hand-off releases the claim.
func (s *Server) submitBookingOnce(ctx context.Context, sub domain.SubjectID, in booking.SubmitInput, fp idempotency.Fingerprint) (bookingOutcome, error) {
	metaFP := fp.Meta()
	now := s.now()
	claimed, err := s.Idem.Reserve(ctx, metaFP, idempotency.Record{
		StatusCode:  0,
		ContentType: "text/plain",
		Body:        []byte(fp.BodyHash),
		CreatedAt:   now,
	})
	if err != nil {
		return bookingOutcome{}, err
	}
	if !claimed {
		return s.replayBooking(ctx, fp)
	}

	c, err := s.Bookings.Submit(ctx, sub, in)
	if err != nil {
		if derr := s.Idem.Delete(ctx, metaFP); derr != nil {
			log.Printf("release idempotency key %q: %v", fp.Key, derr)
		}
		return bookingOutcome{}, err
	}
	b, err := json.Marshal(wire.CreateBookingResponse{Booking: bookingFromConfirmation(c)})
	if err != nil {
		return bookingOutcome{}, err
	}
	if err := s.Idem.Put(ctx, fp, idempotency.Record{
		StatusCode:  http.StatusCreated,
		ContentType: "application/json",
		Body:        b,
		CreatedAt:   now,
	}); err != nil {
		log.Printf("store booking %s for replay: %v", c.Reference, err)
	}
	return bookingOutcome{body: b}, nil
}

func (s *Server) replayBooking(ctx context.Context, fp idempotency.Fingerprint) (bookingOutcome, error) {
	meta, ok, err := s.Idem.Get(ctx, fp.Meta())
	if err != nil {
		return bookingOutcome{}, err
	}
	if ok && string(meta.Body) != fp.BodyHash {
		return bookingOutcome{}, &booking.Error{Status: http.StatusConflict, Code: "IDEMPOTENCY_KEY_REUSE", Message: "idempotency key reuse with different payload"}
	}
	rec, ok, err := s.Idem.Get(ctx, fp)
	if err != nil {
		return bookingOutcome{}, err
	}
	if ok && rec.StatusCode == http.StatusCreated && strings.HasPrefix(rec.ContentType, "application/json") {
		return bookingOutcome{body: rec.Body, replayed: true}, nil
	}
	return bookingOutcome{}, &booking.Error{Status: http.StatusConflict, Code: "IDEMPOTENCY_REQUEST_IN_PROGRESS", Message: "a request with this Idempotency-Key is still being processed; retry shortly"}
}

func writeBookingBody(w http.ResponseWriter, b []byte, replayed bool) {
	w.Header().Set("Content-Type", "application/json")
	if replayed {
		w.Header().Set("Idempotent-Replayed", "true")
	}
	w.WriteHeader(http.StatusCreated)
	_, _ = w.Write(b)
}

func fingerprintKey(fp idempotency.Fingerprint) string {
	return strings.Join([]string{string(fp.Subject), string(fp.Key), fp.Method, fp.Route, fp.BodyHash}, "\x00")
}

func (s *Server) now() time.Time {
	if s.Clock != nil {
		return s.Clock.Now().UTC()
	}
	return time.Now().UTC()
}

// hashCreateBookingBody hashes the request with passage IDs sorted, since the
// selection is a set.
func hashCreateBookingBody(b wire.CreateBookingRequest) (string, error) {
	canon := b
	canon.PassageIds = append([]string(nil), b.PassageIds...)
	sort.Strings(canon.PassageIds)
	raw, err := json.Marshal(canon)
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(raw)
	return hex.EncodeToString(sum[:]), nil
}

func bookingFromConfirmation(c booking.Confirmation) wire.Booking {
	ids := make([]string, 0, len(c.PassageIDs))
	for _, id := range c.PassageIDs {
		ids = append(ids, string(id))
	}
	return wire.Booking{
		Reference:                  c.Reference,
		PassageIds:                 ids,
		GuestCount:                 c.GuestCount,
		TotalPrice:                 c.TotalPrice,
		Currency:                   c.Currency,
		RequiresOffshoreCompetency: c.RequiresOffshoreCompetency,
		SubmittedAt:                c.SubmittedAt.UTC(),
		Provider:                   c.Provider,
		ExternalId:                 c.ExternalID,
	}
}
