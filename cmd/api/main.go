package main

import (
	"context"
	"database/sql"
	"io"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	fsblobstore "github.com/Meridian-Yachting/brokerage-api/internal/adapters/filesystem/blobstore"
	handoffkafka "github.com/Meridian-Yachting/brokerage-api/internal/adapters/handoff/kafka"
	handofflog "github.com/Meridian-Yachting/brokerage-api/internal/adapters/handoff/logack"
	handoffrabbit "github.com/Meridian-Yachting/brokerage-api/internal/adapters/handoff/rabbitmq"
	handoffstripe "github.com/Meridian-Yachting/brokerage-api/internal/adapters/handoff/stripe"
	"github.com/Meridian-Yachting/brokerage-api/internal/adapters/httpapi"
	memblobstore "github.com/Meridian-Yachting/brokerage-api/internal/adapters/memory/blobstore"
	memidempotency "github.com/Meridian-Yachting/brokerage-api/internal/adapters/memory/idempotency"
	memleadrepo "github.com/Meridian-Yachting/brokerage-api/internal/adapters/memory/leadrepo"
	memuserrepo "github.com/Meridian-Yachting/brokerage-api/internal/adapters/memory/userrepo"
	memvesselrepo "github.com/Meridian-Yachting/brokerage-api/internal/adapters/memory/vesselrepo"
	mysqladapter "github.com/Meridian-Yachting/brokerage-api/internal/adapters/mysql"
	myidempotency "github.com/Meridian-Yachting/brokerage-api/internal/adapters/mysql/idempotency"
	myleadrepo "github.com/Meridian-Yachting/brokerage-api/internal/adapters/mysql/leadrepo"
	myuserrepo "github.com/Meridian-Yachting/brokerage-api/internal/adapters/mysql/userrepo"
	myvesselrepo "github.com/Meridian-Yachting/brokerage-api/internal/adapters/mysql/vesselrepo"
	notifylog "github.com/Meridian-Yachting/brokerage-api/internal/adapters/notify/lognotify"
	notifymailgun "github.com/Meridian-Yachting/brokerage-api/internal/adapters/notify/mailgun"
	postgres "github.com/Meridian-Yachting/brokerage-api/internal/adapters/postgres"
	pgidempotency "github.com/Meridian-Yachting/brokerage-api/internal/adapters/postgres/idempotency"
	pgleadrepo "github.com/Meridian-Yachting/brokerage-api/internal/adapters/postgres/leadrepo"
	pguserrepo "github.com/Meridian-Yachting/brokerage-api/internal/adapters/postgres/userrepo"
	pgvesselrepo "github.com/Meridian-Yachting/brokerage-api/internal/adapters/postgres/vesselrepo"
	"github.com/Meridian-Yachting/brokerage-api/internal/adapters/specsheet"
	"github.com/Meridian-Yachting/brokerage-api/internal/adapters/static"
	"github.com/Meridian-Yachting/brokerage-api/internal/app/booking"
	"github.com/Meridian-Yachting/brokerage-api/internal/app/catalog"
	"github.com/Meridian-Yachting/brokerage-api/internal/app/leads"
	"github.com/Meridian-Yachting/brokerage-api/internal/app/uploads"
	"github.com/Meridian-Yachting/brokerage-api/internal/app/users"
	"github.com/Meridian-Yachting/brokerage-api/internal/platform/auth/jwtverifier"
	platformclock "github.com/Meridian-Yachting/brokerage-api/internal/platform/clock"
	"github.com/Meridian-Yachting/brokerage-api/internal/platform/config"
	"github.com/Meridian-Yachting/brokerage-api/internal/platform/webhooks/svixverifier"
	blobstoreport "github.com/Meridian-Yachting/brokerage-api/internal/ports/out/blobstore"
	bookinghandoffport "github.com/Meridian-Yachting/brokerage-api/internal/ports/out/bookinghandoff"
	idempotencyport "github.com/Meridian-Yachting/brokerage-api/internal/ports/out/idempotency"
	leadrepoport "github.com/Meridian-Yachting/brokerage-api/internal/ports/out/leadrepo"
	notifierport "github.com/Meridian-Yachting/brokerage-api/internal/ports/out/notifier"
	userrepoport "github.com/Meridian-Yachting/brokerage-api/internal/ports/out/userrepo"
	vesselrepoport "github.com/Meridian-Yachting/brokerage-api/internal/ports/out/vesselrepo"
)

func main() {
	cfg, err := config.LoadAppConfigFromEnv()
	if err != nil {
		log.Fatalf("invalid config: %v", err)
	}

	// Auth configuration:
	// - Production: require JWT_* env vars and enforce bearer auth
	// - Local dev: set AUTH_MODE=dev to bypass JWT verification and use X-Debug-Subject
	var authMW func(http.Handler) http.Handler
	switch cfg.AuthMode {
	case "dev":
		authMW = httpapi.NewDevAuthMiddleware(cfg.DevSubject)
	default:
		jwtCfg, err := config.LoadJWTConfigFromEnv()
		if err != nil {
			log.Fatalf("invalid auth config: %v", err)
		}
		verifier := jwtverifier.New(jwtCfg)
		authMW = httpapi.NewAuthMiddleware(verifier)
	}

	clk := platformclock.NewSystemClock()
	startCtx, cancelStart := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancelStart()

	var (
		vesselRepo vesselrepoport.Repository
		userRepo   userrepoport.Repository
		leadRepo   leadrepoport.Repository
		idemStore  idempotencyport.Store
		closers    []io.Closer
	)

	switch cfg.StorageBackend {
	case "postgres":
		pool, err := postgres.NewPool(startCtx, cfg.DatabaseURL, postgres.PoolOptions{})
		if err != nil {
			log.Fatalf("invalid postgres config: %v", err)
		}
		closers = append(closers, poolCloser{pool})
		if err := postgres.Migrate(startCtx, pool); err != nil {
			log.Fatalf("postgres migrate: %v", err)
		}
		vesselRepo = pgvesselrepo.NewRepo(pool)
		userRepo = pguserrepo.NewRepo(pool)
		leadRepo = pgleadrepo.NewRepo(pool)
		idemStore = pgidempotency.NewStore(pool)
	case "mysql":
		db, err := mysqladapter.Open(startCtx, cfg.MySQLDSN, mysqladapter.Options{})
		if err != nil {
			log.Fatalf("invalid mysql config: %v", err)
		}
		closers = append(closers, dbCloser{db})
		if err := mysqladapter.EnsureSchema(startCtx, db); err != nil {
			log.Fatalf("mysql schema: %v", err)
		}
		vesselRepo = myvesselrepo.NewRepo(db)
		userRepo = myuserrepo.NewRepo(db)
		leadRepo = myleadrepo.NewRepo(db)
		idemStore = myidempotency.NewStore(db)
	default:
		vesselRepo = memvesselrepo.NewRepo()
		userRepo = memuserrepo.NewRepo()
		leadRepo = memleadrepo.NewRepo()
		idemStore = memidempotency.NewStore()
	}

	if cfg.StorageBackend == "memory" || cfg.SeedVessels {
		seed, err := static.SeedVessels(clk.Now())
		if err != nil {
			log.Fatalf("load seed vessels: %v", err)
		}
		for _, v := range seed {
			if err := vesselRepo.Upsert(startCtx, v); err != nil {
				log.Fatalf("seed vessel %s: %v", v.Slug, err)
			}
		}
		log.Printf("seeded %d vessels into %s storage", len(seed), cfg.StorageBackend)
	}

	passages, err := static.LoadPassageCatalog(cfg.PassagesFile)
	if err != nil {
		log.Fatalf("load passages: %v", err)
	}

	var handoff bookinghandoffport.Handoff
	switch cfg.HandoffBackend {
	case "kafka":
		h := handoffkafka.New(cfg.KafkaBrokers, cfg.KafkaTopic)
		closers = append(closers, h)
		handoff = h
	case "rabbitmq":
		h, err := handoffrabbit.Dial(cfg.RabbitMQURL, cfg.RabbitMQQueue)
		if err != nil {
			log.Fatalf("rabbitmq: %v", err)
		}
		closers = append(closers, h)
		handoff = h
	case "stripe":
		handoff = handoffstripe.New(cfg.StripeSecretKey)
	default:
		handoff = handofflog.New(log.Default())
	}

	var (
		blobs blobstoreport.Store
		files http.Handler
	)
	switch cfg.BlobBackend {
	case "filesystem":
		fs, err := fsblobstore.NewStore(cfg.BlobDir, cfg.PublicBlobBaseURL, clk)
		if err != nil {
			log.Fatalf("blob store: %v", err)
		}
		blobs = fs
		files = http.FileServer(http.Dir(fs.Root()))
	default:
		blobs = memblobstore.NewStore(cfg.PublicBlobBaseURL, clk)
	}

	var notifier notifierport.Notifier
	switch cfg.Notifier {
	case "mailgun":
		notifier = notifymailgun.New(notifymailgun.Config{
			Domain: cfg.MailgunDomain,
			APIKey: cfg.MailgunAPIKey,
			From:   cfg.MailgunFrom,
			To:     cfg.MailgunTo,
		})
	default:
		notifier = notifylog.New(log.Default())
	}

	deps := httpapi.ServerDeps{
		Catalog:    catalog.NewService(vesselRepo),
		Bookings:   booking.NewService(passages, handoff, clk),
		Users:      users.NewService(userRepo, clk),
		Leads:      leads.NewService(leadRepo, notifier, clk),
		Uploads:    uploads.NewService(blobs, cfg.UploadMaxBytes),
		Idem:       idemStore,
		SpecSheets: specsheet.NewRenderer(cfg.PublicSiteURL),
		Clock:      clk,
	}
	if cfg.IdentityWebhookSecret != "" {
		wv, err := svixverifier.New(cfg.IdentityWebhookSecret)
		if err != nil {
			log.Fatalf("identity webhook secret: %v", err)
		}
		deps.Webhooks = wv
	} else {
		log.Printf("IDENTITY_WEBHOOK_SECRET not set; identity webhooks will be rejected")
	}

	handler := httpapi.NewRouterWithOptions(
		httpapi.NewServer(deps),
		httpapi.RouterOptions{
			AuthMiddleware:     authMW,
			CORSAllowedOrigins: cfg.CORSAllowedOrigins,
			Files:              files,
		},
	)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
	}

	// Graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if p, ok := idemStore.(idempotencyport.Purger); ok && cfg.IdempotencyTTL > 0 {
		go purgeIdempotency(ctx, p, clk, cfg.IdempotencyTTL)
	}

	go func() {
		log.Printf("api listening on :%s (storage=%s handoff=%s blobs=%s notifier=%s)",
			cfg.Port, cfg.StorageBackend, cfg.HandoffBackend, cfg.BlobBackend, cfg.Notifier)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %v", err)
		}
	}()

	<-ctx.Done()
	log.Printf("shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = srv.Shutdown(shutdownCtx)

	for i := len(closers) - 1; i >= 0; i-- {
		if err := closers[i].Close(); err != nil {
			log.Printf("close: %v", err)
		}
	}
}

// purgeIdempotency drops replay records older than ttl, once an hour or per ttl if shorter.
func purgeIdempotency(ctx context.Context, p idempotencyport.Purger, clk platformclock.SystemClock, ttl time.Duration) {
	every := time.Hour
	if ttl < every {
		every = ttl
	}
	t := time.NewTicker(every)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			n, err := p.DeleteOlderThan(ctx, clk.Now().Add(-ttl))
			if err != nil {
				log.Printf("idempotency purge: %v", err)
				continue
			}
			if n > 0 {
				log.Printf("idempotency purge: removed %d records", n)
			}
		}
	}
}

type poolCloser struct{ pool *pgxpool.Pool }

func (c poolCloser) Close() error {
	c.pool.Close()
	return nil
}

type dbCloser struct{ db *sql.DB }

func (c dbCloser) Close() error { return c.db.Close() }
