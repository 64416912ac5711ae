package leadrepo

import (
	"context"
	"database/sql"
	"errors"

	mysqladapter "github.com/Meridian-Yachting/brokerage-api/internal/adapters/mysql"
	"github.com/Meridian-Yachting/brokerage-api/internal/domain"
	"github.com/Meridian-Yachting/brokerage-api/internal/ports/out/leadrepo"
)

// Repo is a MySQL implementation of leadrepo.Repository.
type Repo struct {
	db *sql.DB
}

func NewRepo(db *sql.DB) *Repo {
	return &Repo{db: db}
}

func (r *Repo) Create(ctx context.Context, l domain.Lead) error {
	if r.db == nil {
		return errors.New("nil mysql db")
	}
	var vesselSlug *string
	if l.VesselSlug != nil {
		s := string(*l.VesselSlug)
		vesselSlug = &s
	}
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO leads (id, email, name, phone, source, vessel_slug, message, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, string(l.ID), l.Email, l.Name, l.Phone, l.Source, vesselSlug, l.Message, l.CreatedAt.UTC())
	if err != nil {
		if mysqladapter.IsDuplicateEntry(err) {
			return leadrepo.ErrAlreadyExists
		}
		return err
	}
	return nil
}

func (r *Repo) List(ctx context.Context) ([]domain.Lead, error) {
	if r.db == nil {
		return nil, errors.New("nil mysql db")
	}
	rows, err := r.db.QueryContext(ctx, `
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
			id         string
			name       sql.NullString
			phone      sql.NullString
			vesselSlug sql.NullString
			message    sql.NullString
		)
		if err := rows.Scan(&id, &l.Email, &name, &phone, &l.Source, &vesselSlug, &message, &l.CreatedAt); err != nil {
			return nil, err
		}
		l.ID = domain.LeadID(id)
		l.Name = nullString(name)
		l.Phone = nullString(phone)
		l.Message = nullString(message)
		if vesselSlug.Valid {
			vs := domain.VesselSlug(vesselSlug.String)
			l.VesselSlug = &vs
		}
		l.CreatedAt = l.CreatedAt.UTC()
		out = append(out, l)
	}
	return out, rows.Err()
}

func nullString(n sql.NullString) *string {
	if !n.Valid {
		return nil
	}
	v := n.String
	return &v
}
