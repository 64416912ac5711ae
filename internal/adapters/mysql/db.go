// Package mysql holds the MySQL storage adapters.
package mysql

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"sort"
	"strings"
	"time"

	"github.com/go-sql-driver/mysql"
)

// Options tunes the database/sql pool. Zero values keep the package defaults below.
type Options struct {
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	ConnMaxIdleTime time.Duration
	PingTimeout     time.Duration
}

// Open parses dsn, forces parseTime and UTC, and verifies connectivity.
// The caller owns the returned pool.
func Open(ctx context.Context, dsn string, opts Options) (*sql.DB, error) {
	if dsn == "" {
		return nil, errors.New("missing MYSQL_DSN")
	}
	cfg, err := mysql.ParseDSN(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse mysql dsn: %w", err)
	}
	cfg.ParseTime = true
	cfg.Loc = time.UTC

	connector, err := mysql.NewConnector(cfg)
	if err != nil {
		return nil, fmt.Errorf("mysql connector: %w", err)
	}
	db := sql.OpenDB(connector)

	db.SetMaxOpenConns(orDefault(opts.MaxOpenConns, 25))
	db.SetMaxIdleConns(orDefault(opts.MaxIdleConns, 25))
	db.SetConnMaxLifetime(orDefaultDuration(opts.ConnMaxLifetime, 10*time.Minute))
	db.SetConnMaxIdleTime(orDefaultDuration(opts.ConnMaxIdleTime, 5*time.Minute))

	pingCtx, cancel := context.WithTimeout(ctx, orDefaultDuration(opts.PingTimeout, 3*time.Second))
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping mysql: %w", err)
	}
	return db, nil
}

//go:embed schema/*.sql
var schema embed.FS

// EnsureSchema creates missing tables. Statements are idempotent.
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	names, err := fs.Glob(schema, "schema/*.sql")
	if err != nil {
		return err
	}
	sort.Strings(names)
	for _, name := range names {
		body, err := schema.ReadFile(name)
		if err != nil {
			return err
		}
		for _, stmt := range strings.Split(string(body), ";") {
			if strings.TrimSpace(stmt) == "" {
				continue
			}
			if _, err := db.ExecContext(ctx, stmt); err != nil {
				return fmt.Errorf("apply %s: %w", name, err)
			}
		}
	}
	return nil
}

const (
	DuplicateEntryCode = 1062
)

// IsDuplicateEntry reports whether err is a MySQL unique-key violation.
func IsDuplicateEntry(err error) bool {
	var me *mysql.MySQLError
	return errors.As(err, &me) && me.Number == DuplicateEntryCode
}

func orDefault(v, def int) int {
	if v > 0 {
		return v
	}
	return def
}

func orDefaultDuration(v, def time.Duration) time.Duration {
	if v > 0 {
		return v
	}
	return def
}
