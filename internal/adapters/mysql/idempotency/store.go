package idempotency

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Meridian-Yachting/brokerage-api/internal/ports/out/idempotency"
)

// Store is a MySQL implementation of idempotency.Store.
type Store struct {
	db *sql.DB
}

func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

func (s *Store) Get(ctx context.Context, fp idempotency.Fingerprint) (idempotency.Record, bool, error) {
	if s.db == nil {
		return idempotency.Record{}, false, errors.New("nil mysql db")
	}
	row := s.db.QueryRowContext(ctx, `
		SELECT status_code, content_type, body, created_at
		FROM idempotency_keys
		WHERE idempotency_key = ?
		  AND subject_sub = ?
		  AND method = ?
		  AND route = ?
		  AND body_hash = ?
	`, string(fp.Key), string(fp.Subject), fp.Method, fp.Route, fp.BodyHash)

	var rec idempotency.Record
	if err := row.Scan(&rec.StatusCode, &rec.ContentType, &rec.Body, &rec.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return idempotency.Record{}, false, nil
		}
		return idempotency.Record{}, false, err
	}
	rec.CreatedAt = rec.CreatedAt.UTC()
	return rec, true, nil
}

func (s *Store) Put(ctx context.Context, fp idempotency.Fingerprint, rec idempotency.Record) error {
	if s.db == nil {
		return errors.New("nil mysql db")
	}
	createdAt := rec.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}
	body := rec.Body
	if body == nil {
		body = []byte{}
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO idempotency_keys (
			idempotency_key, subject_sub, method, route, body_hash,
			status_code, content_type, body, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON DUPLICATE KEY UPDATE
			status_code = VALUES(status_code),
			content_type = VALUES(content_type),
			body = VALUES(body),
			created_at = VALUES(created_at)
	`,
		string(fp.Key),
		string(fp.Subject),
		fp.Method,
		fp.Route,
		fp.BodyHash,
		rec.StatusCode,
		rec.ContentType,
		body,
		createdAt.UTC(),
	)
	if err != nil {
		return fmt.Errorf("put idempotency record %s %s: %w", fp.Method, fp.Route, err)
	}
	return nil
}

// Reserve relies on INSERT IGNORE, so a duplicate primary key affects no rows.
func (s *Store) Reserve(ctx context.Context, fp idempotency.Fingerprint, rec idempotency.Record) (bool, error) {
	if s.db == nil {
		return false, errors.New("nil mysql db")
	}
	createdAt := rec.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}
	body := rec.Body
	if body == nil {
		body = []byte{}
	}
	res, err := s.db.ExecContext(ctx, `
		INSERT IGNORE INTO idempotency_keys (
			idempotency_key, subject_sub, method, route, body_hash,
			status_code, content_type, body, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		string(fp.Key),
		string(fp.Subject),
		fp.Method,
		fp.Route,
		fp.BodyHash,
		rec.StatusCode,
		rec.ContentType,
		body,
		createdAt.UTC(),
	)
	if err != nil {
		return false, fmt.Errorf("reserve idempotency key %s %s: %w", fp.Method, fp.Route, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n == 1, nil
}

func (s *Store) Delete(ctx context.Context, fp idempotency.Fingerprint) error {
	if s.db == nil {
		return errors.New("nil mysql db")
	}
	_, err := s.db.ExecContext(ctx, `
		DELETE FROM idempotency_keys
		WHERE idempotency_key = ?
		  AND subject_sub = ?
		  AND method = ?
		  AND route = ?
		  AND body_hash = ?
	`, string(fp.Key), string(fp.Subject), fp.Method, fp.Route, fp.BodyHash)
	if err != nil {
		return fmt.Errorf("delete idempotency record %s %s: %w", fp.Method, fp.Route, err)
	}
	return nil
}

// DeleteOlderThan removes records created before cutoff.
func (s *Store) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	if s.db == nil {
		return 0, errors.New("nil mysql db")
	}
	res, err := s.db.ExecContext(ctx, `DELETE FROM idempotency_keys WHERE created_at < ?`, cutoff.UTC())
	if err != nil {
		return 0, fmt.Errorf("purge idempotency records: %w", err)
	}
	return res.RowsAffected()
}
