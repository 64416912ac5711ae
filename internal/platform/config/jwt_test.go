package config

import (
	"testing"
	"time"
)

func clearJWTEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{"JWT_ISSUER", "JWT_AUDIENCE", "JWT_JWKS_URL", "JWT_CLOCK_SKEW", "JWT_JWKS_REFRESH_INTERVAL", "JWT_JWKS_MIN_REFRESH_INTERVAL"} {
		t.Setenv(k, "")
	}
}

func TestLoadJWTConfigFromEnv_DerivesJWKSURLFromIssuer(t *testing.T) {
	clearJWTEnv(t)
	t.Setenv("JWT_ISSUER", "https://clerk.meridian.example/")
	t.Setenv("JWT_AUDIENCE", "meridian-brokerage")

	cfg, err := LoadJWTConfigFromEnv()
	if err != nil {
		t.Fatalf("LoadJWTConfigFromEnv: %v", err)
	}
	if cfg.Issuer != "https://clerk.meridian.example/" {
		t.Fatalf("Issuer=%q, want it kept as configured", cfg.Issuer)
	}
	if cfg.JWKSURL != "https://clerk.meridian.example/.well-known/jwks.json" {
		t.Fatalf("JWKSURL=%q", cfg.JWKSURL)
	}
	if cfg.ClockSkew != 30*time.Second {
		t.Fatalf("ClockSkew=%s", cfg.ClockSkew)
	}
}

func TestLoadJWTConfigFromEnv_IssuerWithoutSlashUnchanged(t *testing.T) {
	clearJWTEnv(t)
	t.Setenv("JWT_ISSUER", "https://clerk.meridian.example")
	t.Setenv("JWT_AUDIENCE", "meridian-brokerage")

	cfg, err := LoadJWTConfigFromEnv()
	if err != nil {
		t.Fatalf("LoadJWTConfigFromEnv: %v", err)
	}
	if cfg.Issuer != "https://clerk.meridian.example" || cfg.JWKSURL != "https://clerk.meridian.example/.well-known/jwks.json" {
		t.Fatalf("cfg=%+v", cfg)
	}
}

func TestLoadJWTConfigFromEnv_Errors(t *testing.T) {
	clearJWTEnv(t)
	if _, err := LoadJWTConfigFromEnv(); err == nil {
		t.Fatalf("expected error when issuer and audience are missing")
	}

	t.Setenv("JWT_ISSUER", "https://issuer.example")
	t.Setenv("JWT_AUDIENCE", "aud")
	t.Setenv("JWT_JWKS_URL", "not a url")
	if _, err := LoadJWTConfigFromEnv(); err == nil {
		t.Fatalf("expected error for relative JWKS URL")
	}

	t.Setenv("JWT_JWKS_URL", "https://issuer.example/keys")
	t.Setenv("JWT_CLOCK_SKEW", "soon")
	if _, err := LoadJWTConfigFromEnv(); err == nil {
		t.Fatalf("expected error for bad JWT_CLOCK_SKEW")
	}
}
