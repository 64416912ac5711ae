package idempotency

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Meridian-Yachting/brokerage-api/internal/ports/out/idempotency"
)

// Store keeps booking replay records in the idempotency_keys table.
// Subjects are identity-provider user IDs, which are unique across the single
// provider the service trusts.
type Store struct {
	pool *pgxpool.Pool
}

func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

func fingerprintArgs(fp idempotency.Fingerprint) pgx.NamedArgs {
	return pgx.NamedArgs{
		"key":       string(fp.Key),
		"subject":   string(fp.Subject),
		"method":    fp.Method,
		"route":     fp.Route,
		"body_hash": fp.BodyHash,
	}
}

func (s *Store) Get(ctx context.Context, fp idempotency.Fingerprint) (idempotency.Record, bool, error) {
	if s.pool == nil {
		return idempotency.Record{}, false, errors.New("nil postgres pool")
	}
	rows, err := s.pool.Query(ctx, `
		SELECT status_code, content_type, body, created_at
		FROM idempotency_keys
		WHERE idempotency_key = @key
		  AND subject_sub = @subject
		  AND method = @method
		  AND route = @route
		  AND body_hash = @body_hash
	`, fingerprintArgs(fp))
	if err != nil {
		return idempotency.Record{}, false, fmt.Errorf("get idempotency record: %w", err)
	}
	rec, err := pgx.CollectExactlyOneRow(rows, func(row pgx.CollectableRow) (idempotency.Record, error) {
		var r idempotency.Record
		err := row.Scan(&r.StatusCode, &r.ContentType, &r.Body, &r.CreatedAt)
		return r, err
	})
	if errors.Is(err, pgx.ErrNoRows) {
		return idempotency.Record{}, false, nil
	}
	if err != nil {
		return idempotency.Record{}, false, fmt.Errorf("get idempotency record: %w", err)
	}
	rec.CreatedAt = rec.CreatedAt.UTC()
	return rec, true, nil
}

// Put writes rec, replacing any record stored under the same fingerprint.
func (s *Store) Put(ctx context.Context, fp idempotency.Fingerprint, rec idempotency.Record) error {
	if s.pool == nil {
		return errors.New("nil postgres pool")
	}
	_, err := s.pool.Exec(ctx, `
		INSERT INTO idempotency_keys (
			idempotency_key, subject_sub, method, route, body_hash,
			status_code, content_type, body, created_at
		) VALUES (
			@key, @subject, @method, @route, @body_hash,
			@status_code, @content_type, @body, @created_at
		)
		ON CONFLICT (idempotency_key, subject_sub, method, route, body_hash)
		DO UPDATE SET
			status_code = EXCLUDED.status_code,
			content_type = EXCLUDED.content_type,
			body = EXCLUDED.body,
			created_at = EXCLUDED.created_at
	`, recordArgs(fp, rec))
	if err != nil {
		return fmt.Errorf("put idempotency record %s %s: %w", fp.Method, fp.Route, err)
	}
	return nil
}

// Reserve inserts rec unless a row already holds fp.
func (s *Store) Reserve(ctx context.Context, fp idempotency.Fingerprint, rec idempotency.Record) (bool, error) {
	if s.pool == nil {
		return false, errors.New("nil postgres pool")
	}
	ct, err := s.pool.Exec(ctx, `
		INSERT INTO idempotency_keys (
			idempotency_key, subject_sub, method, route, body_hash,
			status_code, content_type, body, created_at
		) VALUES (
			@key, @subject, @method, @route, @body_hash,
			@status_code, @content_type, @body, @created_at
		)
		ON CONFLICT (idempotency_key, subject_sub, method, route, body_hash) DO NOTHING
	`, recordArgs(fp, rec))
	if err != nil {
		return false, fmt.Errorf("reserve idempotency key %s %s: %w", fp.Method, fp.Route, err)
	}
	return ct.RowsAffected() == 1, nil
}

func (s *Store) Delete(ctx context.Context, fp idempotency.Fingerprint) error {
	if s.pool == nil {
		return errors.New("nil postgres pool")
	}
	_, err := s.pool.Exec(ctx, `
		DELETE FROM idempotency_keys
		WHERE idempotency_key = @key
		  AND subject_sub = @subject
		  AND method = @method
		  AND route = @route
		  AND body_hash = @body_hash
	`, fingerprintArgs(fp))
	if err != nil {
		return fmt.Errorf("delete idempotency record %s %s: %w", fp.Method, fp.Route, err)
	}
	return nil
}

func recordArgs(fp idempotency.Fingerprint, rec idempotency.Record) pgx.NamedArgs {
	args := fingerprintArgs(fp)
	args["status_code"] = rec.StatusCode
	args["content_type"] = rec.ContentType
	args["body"] = rec.Body
	if rec.Body == nil {
		args["body"] = []byte{}
	}
	createdAt := rec.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}
	args["created_at"] = createdAt.UTC()
	return args
}

// DeleteOlderThan removes records created before cutoff and reports how many were removed.
func (s *Store) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	if s.pool == nil {
		return 0, errors.New("nil postgres pool")
	}
	ct, err := s.pool.Exec(ctx, `DELETE FROM idempotency_keys WHERE created_at < @cutoff`, pgx.NamedArgs{"cutoff": cutoff.UTC()})
	if err != nil {
		return 0, fmt.Errorf("purge idempotency records: %w", err)
	}
	return ct.RowsAffected(), nil
}
