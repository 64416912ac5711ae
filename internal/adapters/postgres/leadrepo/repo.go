package leadrepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	postgres "github.com/Meridian-Yachting/brokerage-api/internal/adapters/postgres"
	"github.com/Meridian-Yachting/brokerage-api/internal/domain"
	"github.com/Meridian-Yachting/brokerage-api/internal/ports/out/leadrepo"
)

// Repo is a Postgres implementation of leadrepo.Repository.
type Repo struct {
	pool *pgxpool.Pool
}

func NewRepo(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

func (r *Repo) Create(ctx context.Context, l domain.Lead) error {
	if r.pool == nil {
		return errors.New("nil postgres pool")
	}
	id, err := uuid.Parse(string(l.ID))
	if err != nil {
		return fmt.Errorf("invalid lead id: %w", err)
	}
	var vesselSlug *string
	if l.VesselSlug != nil {
		s := string(*l.VesselSlug)
		vesselSlug = &s
	}
	_, err = r.pool.Exec(ctx, `
		INSERT INTO leads (id, email, name, phone, source, vessel_slug, message, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`, id, l.Email, l.Name, l.Phone, l.Source, vesselSlug, l.Message, l.CreatedAt.UTC())
	if err != nil {
		if pe, ok := postgres.AsPgError(err); ok && pe.Code == postgres.UniqueViolationCode {
			return leadrepo.ErrAlreadyExists
		}
		return err
	}
	return nil
}

func (r *Repo) List(ctx context.Context) ([]domain.Lead, error) {
	if r.pool == nil {
		return nil, errors.New("nil postgres pool")
	}
	rows, err := r.pool.Query(ctx, `
		SELECT id, email, name, phone, source, vessel_slug, message, created_at
		FROM leads
		ORDER BY created_at ASC, id ASC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]domain.Lead, 0)
	for rows.Next() {
		var (
			l          domain.Lead
			id         uuid.UUID
			vesselSlug *string
			createdAt  time.Time
		)
		if err := rows.Scan(&id, &l.Email, &l.Name, &l.Phone, &l.Source, &vesselSlug, &l.Message, &createdAt); err != nil {
			return nil, err
		}
		l.ID = domain.LeadID(id.String())
		if vesselSlug != nil {
			vs := domain.VesselSlug(*vesselSlug)
			l.VesselSlug = &vs
		}
		l.CreatedAt = createdAt.UTC()
		out = append(out, l)
	}
	return out, rows.Err()
}
