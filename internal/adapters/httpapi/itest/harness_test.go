package itest

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/Meridian-Yachting/brokerage-api/internal/adapters/handoff/logack"
	"github.com/Meridian-Yachting/brokerage-api/internal/adapters/httpapi"
	memblobstore "github.com/Meridian-Yachting/brokerage-api/internal/adapters/memory/blobstore"
	memclock "github.com/Meridian-Yachting/brokerage-api/internal/adapters/memory/clock"
	memidempotency "github.com/Meridian-Yachting/brokerage-api/internal/adapters/memory/idempotency"
	memleadrepo "github.com/Meridian-Yachting/brokerage-api/internal/adapters/memory/leadrepo"
	memuserrepo "github.com/Meridian-Yachting/brokerage-api/internal/adapters/memory/userrepo"
	memvesselrepo "github.com/Meridian-Yachting/brokerage-api/internal/adapters/memory/vesselrepo"
	mysqladapter "github.com/Meridian-Yachting/brokerage-api/internal/adapters/mysql"
	myidempotency "github.com/Meridian-Yachting/brokerage-api/internal/adapters/mysql/idempotency"
	myleadrepo "github.com/Meridian-Yachting/brokerage-api/internal/adapters/mysql/leadrepo"
	myuserrepo "github.com/Meridian-Yachting/brokerage-api/internal/adapters/mysql/userrepo"
	myvesselrepo "github.com/Meridian-Yachting/brokerage-api/internal/adapters/mysql/vesselrepo"
	pgidempotency "github.com/Meridian-Yachting/brokerage-api/internal/adapters/postgres/idempotency"
	pgleadrepo "github.com/Meridian-Yachting/brokerage-api/internal/adapters/postgres/leadrepo"
	postgres_testutil "github.com/Meridian-Yachting/brokerage-api/internal/adapters/postgres/testutil"
	pguserrepo "github.com/Meridian-Yachting/brokerage-api/internal/adapters/postgres/userrepo"
	pgvesselrepo "github.com/Meridian-Yachting/brokerage-api/internal/adapters/postgres/vesselrepo"
	"github.com/Meridian-Yachting/brokerage-api/internal/adapters/specsheet"
	"github.com/Meridian-Yachting/brokerage-api/internal/adapters/static"
	"github.com/Meridian-Yachting/brokerage-api/internal/app/booking"
	"github.com/Meridian-Yachting/brokerage-api/internal/app/catalog"
	"github.com/Meridian-Yachting/brokerage-api/internal/app/leads"
	"github.com/Meridian-Yachting/brokerage-api/internal/app/uploads"
	"github.com/Meridian-Yachting/brokerage-api/internal/app/users"
	idempotencyport "github.com/Meridian-Yachting/brokerage-api/internal/ports/out/idempotency"
	leadrepoport "github.com/Meridian-Yachting/brokerage-api/internal/ports/out/leadrepo"
	userrepoport "github.com/Meridian-Yachting/brokerage-api/internal/ports/out/userrepo"
	vesselrepoport "github.com/Meridian-Yachting/brokerage-api/internal/ports/out/vesselrepo"
)

type backend string

const (
	backendMemory   backend = "memory"
	backendPostgres backend = "postgres"
	backendMySQL    backend = "mysql"
)

func backendsFromEnv(t *testing.T) []backend {
	t.Helper()
	switch strings.ToLower(strings.TrimSpace(os.Getenv("ITEST_BACKEND"))) {
	case "", "memory":
		return []backend{backendMemory}
	case "postgres":
		return []backend{backendPostgres}
	case "mysql":
		return []backend{backendMySQL}
	case "all":
		return []backend{backendMemory, backendPostgres, backendMySQL}
	default:
		t.Fatalf("unknown ITEST_BACKEND value (expected memory|postgres|mysql|all)")
		return nil
	}
}

type testServer struct {
	baseURL string
	client  *http.Client
}

func openMySQL(t *testing.T) *sql.DB {
	t.Helper()

	dsn := os.Getenv("TEST_MYSQL_DSN")
	if dsn == "" {
		t.Skip("TEST_MYSQL_DSN not set; skipping mysql tests")
	}
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	db, err := mysqladapter.Open(ctx, dsn, mysqladapter.Options{MaxOpenConns: 4})
	if err != nil {
		t.Fatalf("open mysql: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	if err := mysqladapter.EnsureSchema(ctx, db); err != nil {
		t.Fatalf("ensure schema: %v", err)
	}
	return db
}

func newTestServer(t *testing.T, b backend) *testServer {
	t.Helper()

	clk := memclock.NewManualClock(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))

	var (
		vesselRepo vesselrepoport.Repository
		userRepo   userrepoport.Repository
		leadRepo   leadrepoport.Repository
		idemStore  idempotencyport.Store
	)

	switch b {
	case backendPostgres:
		pool := postgres_testutil.OpenMigratedPool(t)
		vesselRepo = pgvesselrepo.NewRepo(pool)
		userRepo = pguserrepo.NewRepo(pool)
		leadRepo = pgleadrepo.NewRepo(pool)
		idemStore = pgidempotency.NewStore(pool)
	case backendMySQL:
		db := openMySQL(t)
		vesselRepo = myvesselrepo.NewRepo(db)
		userRepo = myuserrepo.NewRepo(db)
		leadRepo = myleadrepo.NewRepo(db)
		idemStore = myidempotency.NewStore(db)
	case backendMemory:
		vesselRepo = memvesselrepo.NewRepo()
		userRepo = memuserrepo.NewRepo()
		leadRepo = memleadrepo.NewRepo()
		idemStore = memidempotency.NewStore()
	default:
		t.Fatalf("unknown backend: %s", b)
	}

	seed, err := static.SeedVessels(clk.Now())
	if err != nil {
		t.Fatalf("SeedVessels: %v", err)
	}
	for _, v := range seed {
		if err := vesselRepo.Upsert(context.Background(), v); err != nil {
			t.Fatalf("seed %s: %v", v.Slug, err)
		}
	}
	passages, err := static.LoadPassageCatalog("")
	if err != nil {
		t.Fatalf("LoadPassageCatalog: %v", err)
	}

	api := httpapi.NewServer(httpapi.ServerDeps{
		Catalog:    catalog.NewService(vesselRepo),
		Bookings:   booking.NewService(passages, logack.New(nil), clk),
		Users:      users.NewService(userRepo, clk),
		Leads:      leads.NewService(leadRepo, nil, clk),
		Uploads:    uploads.NewService(memblobstore.NewStore("https://blobs.itest", clk), 0),
		Idem:       idemStore,
		SpecSheets: specsheet.NewRenderer("https://meridian.itest"),
		Clock:      clk,
	})

	// Integration tests use the dev auth middleware to stay fully local and deterministic.
	// We pass empty default subject to ensure requests MUST provide X-Debug-Subject, allowing
	// auth-failure coverage.
	authMW := httpapi.NewDevAuthMiddleware("")
	handler := httpapi.NewRouterWithOptions(api, httpapi.RouterOptions{AuthMiddleware: authMW})

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	return &testServer{
		baseURL: srv.URL,
		client:  srv.Client(),
	}
}

func (s *testServer) url(path string) string {
	if strings.HasPrefix(path, "/") {
		return s.baseURL + path
	}
	return s.baseURL + "/" + path
}

func (s *testServer) doJSON(t *testing.T, method string, path string, subject string, body any, headers ...string) (int, []byte, http.Header) {
	t.Helper()

	var r io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		r = bytes.NewReader(b)
	}
	req, err := http.NewRequest(method, s.url(path), r)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	if subject != "" {
		req.Header.Set("X-Debug-Subject", subject)
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}

	resp, err := s.client.Do(req)
	if err != nil {
		t.Fatalf("do request: %v", err)
	}
	defer resp.Body.Close()
	out, _ := io.ReadAll(resp.Body)
	return resp.StatusCode, out, resp.Header
}

type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

func mustUnmarshal[T any](t *testing.T, b []byte) T {
	t.Helper()
	var out T
	if err := json.Unmarshal(b, &out); err != nil {
		t.Fatalf("unmarshal: %v\nbody=%s", err, string(b))
	}
	return out
}

func requireErrorCode(t *testing.T, status int, body []byte, wantStatus int, wantCode string) {
	t.Helper()
	if status != wantStatus {
		t.Fatalf("status=%d want=%d body=%s", status, wantStatus, string(body))
	}
	got := mustUnmarshal[errorResponse](t, body)
	if got.Code != wantCode {
		t.Fatalf("code=%q want=%q body=%s", got.Code, wantCode, string(body))
	}
}

func requireHeaderPresent(t *testing.T, h http.Header, key string) {
	t.Helper()
	if strings.TrimSpace(h.Get(key)) == "" {
		t.Fatalf("expected header %q to be present", key)
	}
}
