package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// AppConfig selects backends and carries their settings.
type AppConfig struct {
	Port string

	// AuthMode is "jwt" (default) or "dev".
	AuthMode   string
	DevSubject string

	// StorageBackend is memory, postgres or mysql.
	StorageBackend string
	DatabaseURL    string
	MySQLDSN       string
	// SeedVessels loads the bundled fixture catalog into SQL backends at startup.
	// The memory backend is always seeded.
	SeedVessels bool

	// HandoffBackend is log, kafka, rabbitmq or stripe.
	HandoffBackend  string
	KafkaBrokers    []string
	KafkaTopic      string
	RabbitMQURL     string
	RabbitMQQueue   string
	StripeSecretKey string

	// BlobBackend is memory or filesystem.
	BlobBackend       string
	BlobDir           string
	PublicBlobBaseURL string
	UploadMaxBytes    int64

	// Notifier is log or mailgun.
	Notifier      string
	MailgunDomain string
	MailgunAPIKey string
	MailgunFrom   string
	MailgunTo     string

	PassagesFile          string
	IdentityWebhookSecret string
	CORSAllowedOrigins    []string
	PublicSiteURL         string

	IdempotencyTTL time.Duration
}

func LoadAppConfigFromEnv() (AppConfig, error) {
	cfg := AppConfig{
		Port:                  getenv("PORT", "8080"),
		AuthMode:              getenv("AUTH_MODE", "jwt"),
		DevSubject:            getenv("DEV_SUBJECT", "dev|local"),
		StorageBackend:        getenv("STORAGE_BACKEND", "memory"),
		DatabaseURL:           os.Getenv("DATABASE_URL"),
		MySQLDSN:              os.Getenv("MYSQL_DSN"),
		HandoffBackend:        getenv("HANDOFF_BACKEND", "log"),
		KafkaBrokers:          splitList(os.Getenv("KAFKA_BROKERS")),
		KafkaTopic:            getenv("KAFKA_TOPIC", "booking-requests"),
		RabbitMQURL:           os.Getenv("RABBITMQ_URL"),
		RabbitMQQueue:         getenv("RABBITMQ_QUEUE", "booking-requests"),
		StripeSecretKey:       os.Getenv("STRIPE_SECRET_KEY"),
		BlobBackend:           getenv("BLOB_BACKEND", "memory"),
		BlobDir:               getenv("BLOB_DIR", "./data/blobs"),
		PublicBlobBaseURL:     getenv("PUBLIC_BLOB_BASE_URL", "http://localhost:8080/files"),
		Notifier:              getenv("NOTIFIER", "log"),
		MailgunDomain:         os.Getenv("MAILGUN_DOMAIN"),
		MailgunAPIKey:         os.Getenv("MAILGUN_API_KEY"),
		MailgunFrom:           os.Getenv("MAILGUN_FROM"),
		MailgunTo:             os.Getenv("MAILGUN_TO"),
		PassagesFile:          os.Getenv("PASSAGES_FILE"),
		IdentityWebhookSecret: os.Getenv("IDENTITY_WEBHOOK_SECRET"),
		CORSAllowedOrigins:    splitList(os.Getenv("CORS_ALLOWED_ORIGINS")),
		PublicSiteURL:         getenv("PUBLIC_SITE_URL", "http://localhost:3000"),
		IdempotencyTTL:        24 * time.Hour,
	}

	if v := os.Getenv("UPLOAD_MAX_BYTES"); v != "" {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil || n <= 0 {
			return AppConfig{}, fmt.Errorf("UPLOAD_MAX_BYTES must be a positive integer")
		}
		cfg.UploadMaxBytes = n
	}
	if v := os.Getenv("SEED_VESSELS"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return AppConfig{}, fmt.Errorf("SEED_VESSELS must be a boolean: %w", err)
		}
		cfg.SeedVessels = b
	}
	if v := os.Getenv("IDEMPOTENCY_TTL"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return AppConfig{}, fmt.Errorf("IDEMPOTENCY_TTL must be a duration (e.g. 24h): %w", err)
		}
		cfg.IdempotencyTTL = d
	}

	if err := cfg.validate(); err != nil {
		return AppConfig{}, err
	}
	return cfg, nil
}

func (c AppConfig) validate() error {
	switch c.AuthMode {
	case "jwt", "dev":
	default:
		return fmt.Errorf("AUTH_MODE must be jwt or dev, got %q", c.AuthMode)
	}
	switch c.StorageBackend {
	case "memory":
	case "postgres":
		if c.DatabaseURL == "" {
			return fmt.Errorf("DATABASE_URL is required when STORAGE_BACKEND=postgres")
		}
	case "mysql":
		if c.MySQLDSN == "" {
			return fmt.Errorf("MYSQL_DSN is required when STORAGE_BACKEND=mysql")
		}
	default:
		return fmt.Errorf("STORAGE_BACKEND must be memory, postgres or mysql, got %q", c.StorageBackend)
	}
	switch c.HandoffBackend {
	case "log":
	case "kafka":
		if len(c.KafkaBrokers) == 0 {
			return fmt.Errorf("KAFKA_BROKERS is required when HANDOFF_BACKEND=kafka")
		}
	case "rabbitmq":
		if c.RabbitMQURL == "" {
			return fmt.Errorf("RABBITMQ_URL is required when HANDOFF_BACKEND=rabbitmq")
		}
	case "stripe":
		if c.StripeSecretKey == "" {
			return fmt.Errorf("STRIPE_SECRET_KEY is required when HANDOFF_BACKEND=stripe")
		}
	default:
		return fmt.Errorf("HANDOFF_BACKEND must be log, kafka, rabbitmq or stripe, got %q", c.HandoffBackend)
	}
	switch c.BlobBackend {
	case "memory", "filesystem":
	default:
		return fmt.Errorf("BLOB_BACKEND must be memory or filesystem, got %q", c.BlobBackend)
	}
	switch c.Notifier {
	case "log":
	case "mailgun":
		if c.MailgunDomain == "" || c.MailgunAPIKey == "" || c.MailgunFrom == "" || c.MailgunTo == "" {
			return fmt.Errorf("missing required env vars for NOTIFIER=mailgun: MAILGUN_DOMAIN, MAILGUN_API_KEY, MAILGUN_FROM, MAILGUN_TO")
		}
	default:
		return fmt.Errorf("NOTIFIER must be log or mailgun, got %q", c.Notifier)
	}
	if c.IdempotencyTTL < 0 {
		return fmt.Errorf("IDEMPOTENCY_TTL must not be negative")
	}
	return nil
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func splitList(v string) []string {
	var out []string
	for _, p := range strings.Split(v, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
