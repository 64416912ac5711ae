package httpapi

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	svix "github.com/svix/svix-webhooks/go"

	"github.com/Meridian-Yachting/brokerage-api/internal/adapters/httpapi/wire"
	memblobstore "github.com/Meridian-Yachting/brokerage-api/internal/adapters/memory/blobstore"
	memclock "github.com/Meridian-Yachting/brokerage-api/internal/adapters/memory/clock"
	memidempotency "github.com/Meridian-Yachting/brokerage-api/internal/adapters/memory/idempotency"
	memleadrepo "github.com/Meridian-Yachting/brokerage-api/internal/adapters/memory/leadrepo"
	memuserrepo "github.com/Meridian-Yachting/brokerage-api/internal/adapters/memory/userrepo"
	memvesselrepo "github.com/Meridian-Yachting/brokerage-api/internal/adapters/memory/vesselrepo"
	"github.com/Meridian-Yachting/brokerage-api/internal/adapters/specsheet"
	"github.com/Meridian-Yachting/brokerage-api/internal/adapters/static"
	"github.com/Meridian-Yachting/brokerage-api/internal/app/booking"
	"github.com/Meridian-Yachting/brokerage-api/internal/app/catalog"
	"github.com/Meridian-Yachting/brokerage-api/internal/app/leads"
	"github.com/Meridian-Yachting/brokerage-api/internal/app/uploads"
	"github.com/Meridian-Yachting/brokerage-api/internal/app/users"
	"github.com/Meridian-Yachting/brokerage-api/internal/platform/webhooks/svixverifier"
	"github.com/Meridian-Yachting/brokerage-api/internal/ports/out/bookinghandoff"
	"github.com/Meridian-Yachting/brokerage-api/internal/ports/out/vesselrepo"
)

var testWebhookSecret = "whsec_" + base64.StdEncoding.EncodeToString([]byte("httpapi-test-webhook-secret-0001"))

type recordingHandoff struct {
	mu    sync.Mutex
	reqs  []bookinghandoff.Request
	fail  bool
	delay time.Duration
}

func (h *recordingHandoff) Submit(_ context.Context, req bookinghandoff.Request) (bookinghandoff.Receipt, error) {
	h.mu.Lock()
	delay := h.delay
	h.mu.Unlock()
	time.Sleep(delay)

	h.mu.Lock()
	defer h.mu.Unlock()
	if h.fail {
		return bookinghandoff.Receipt{}, errors.New("bus unavailable")
	}
	h.reqs = append(h.reqs, req)
	return bookinghandoff.Receipt{Provider: "test", ExternalID: "ext-" + req.Reference}, nil
}

func (h *recordingHandoff) count() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.reqs)
}

func (h *recordingHandoff) setDelay(d time.Duration) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.delay = d
}

func (h *recordingHandoff) setFail(v bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.fail = v
}

type failingVesselRepo struct{ vesselrepo.Repository }

func (failingVesselRepo) ListVisible(context.Context, vesselrepo.Filter) ([]vesselrepo.Vessel, error) {
	return nil, errors.New("connection refused")
}

func (failingVesselRepo) ListVisibleAdventureYachts(context.Context) ([]vesselrepo.Vessel, error) {
	return nil, errors.New("connection refused")
}

type testEnv struct {
	h       http.Handler
	api     *Server
	handoff *recordingHandoff
	users   *memuserrepo.Repo
	leads   *memleadrepo.Repo
	idem    *memidempotency.Store
	clock   *memclock.ManualClock
}

type envOptions struct {
	vessels vesselrepo.Repository
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	return newTestEnvWith(t, envOptions{})
}

func newTestEnvWith(t *testing.T, opts envOptions) *testEnv {
	t.Helper()

	clk := memclock.NewManualClock(time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC))
	vessels := opts.vessels
	if vessels == nil {
		seed, err := static.SeedVessels(clk.Now())
		if err != nil {
			t.Fatalf("SeedVessels: %v", err)
		}
		vessels = memvesselrepo.NewSeededRepo(seed)
	}
	passages, err := static.LoadPassageCatalog("")
	if err != nil {
		t.Fatalf("LoadPassageCatalog: %v", err)
	}
	verifier, err := svixverifier.New(testWebhookSecret)
	if err != nil {
		t.Fatalf("svixverifier.New: %v", err)
	}

	env := &testEnv{
		handoff: &recordingHandoff{},
		users:   memuserrepo.NewRepo(),
		leads:   memleadrepo.NewRepo(),
		idem:    memidempotency.NewStore(),
		clock:   clk,
	}
	bookingSvc := booking.NewService(passages, env.handoff, clk)
	var n atomic.Int64
	bookingSvc.SetNewReferenceForTest(func() string {
		return "bk_" + strconv.FormatInt(n.Add(1), 10)
	})
	uploadSvc := uploads.NewService(memblobstore.NewStore("https://blobs.example.com", clk), 1024)
	uploadSvc.SetNewSuffixForTest(func() string { return "abcd1234" })

	env.api = NewServer(ServerDeps{
		Catalog:    catalog.NewService(vessels),
		Bookings:   bookingSvc,
		Users:      users.NewService(env.users, clk),
		Leads:      leads.NewService(env.leads, nil, clk),
		Uploads:    uploadSvc,
		Idem:       env.idem,
		Webhooks:   verifier,
		SpecSheets: specsheet.NewRenderer("https://meridian.example"),
		Clock:      clk,
	})
	env.h = NewRouterWithOptions(env.api, RouterOptions{AuthMiddleware: NewDevAuthMiddleware("")})
	return env
}

func (e *testEnv) do(t *testing.T, method, target string, body []byte, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, bytes.NewReader(body))
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	e.h.ServeHTTP(rec, req)
	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) wire.ErrorResponse {
	t.Helper()
	var er wire.ErrorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &er); err != nil {
		t.Fatalf("decode error response: %v body=%s", err, rec.Body.String())
	}
	return er
}

func signWebhook(t *testing.T, msgID string, payload []byte) map[string]string {
	t.Helper()
	wh, err := svix.NewWebhook(testWebhookSecret)
	if err != nil {
		t.Fatalf("NewWebhook: %v", err)
	}
	now := time.Now()
	sig, err := wh.Sign(msgID, now, payload)
	if err != nil {
		t.Fatalf("Sign: %v", err)
	}
	return map[string]string{
		"svix-id":        msgID,
		"svix-timestamp": strconv.FormatInt(now.Unix(), 10),
		"svix-signature": sig,
		"Content-Type":   "application/json",
	}
}

func authed(sub string) map[string]string {
	return map[string]string{"X-Debug-Subject": sub}
}
