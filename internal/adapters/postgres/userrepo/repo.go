package userrepo

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Meridian-Yachting/brokerage-api/internal/domain"
	"github.com/Meridian-Yachting/brokerage-api/internal/ports/out/userrepo"
)

// Repo is a Postgres implementation of userrepo.Repository.
type Repo struct {
	pool *pgxpool.Pool
}

func NewRepo(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

func (r *Repo) Upsert(ctx context.Context, u userrepo.User) error {
	if r.pool == nil {
		return errors.New("nil postgres pool")
	}
	// created_at is deliberately absent from the UPDATE list.
	_, err := r.pool.Exec(ctx, `
		INSERT INTO users (external_id, email, first_name, last_name, image_url, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (external_id) DO UPDATE SET
			email = EXCLUDED.email,
			first_name = EXCLUDED.first_name,
			last_name = EXCLUDED.last_name,
			image_url = EXCLUDED.image_url,
			updated_at = EXCLUDED.updated_at
	`,
		string(u.ExternalID),
		u.Email,
		u.FirstName,
		u.LastName,
		u.ImageURL,
		u.CreatedAt.UTC(),
		u.UpdatedAt.UTC(),
	)
	return err
}

func (r *Repo) GetByExternalID(ctx context.Context, id domain.ExternalUserID) (userrepo.User, error) {
	if r.pool == nil {
		return userrepo.User{}, errors.New("nil postgres pool")
	}
	row := r.pool.QueryRow(ctx, `
		SELECT external_id, email, first_name, last_name, image_url, created_at, updated_at
		FROM users
		WHERE external_id = $1
	`, string(id))
	u, err := scanUser(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return userrepo.User{}, userrepo.ErrNotFound
		}
		return userrepo.User{}, err
	}
	return u, nil
}

func (r *Repo) DeleteByExternalID(ctx context.Context, id domain.ExternalUserID) error {
	if r.pool == nil {
		return errors.New("nil postgres pool")
	}
	ct, err := r.pool.Exec(ctx, `DELETE FROM users WHERE external_id = $1`, string(id))
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return userrepo.ErrNotFound
	}
	return nil
}

func (r *Repo) List(ctx context.Context) ([]userrepo.User, error) {
	if r.pool == nil {
		return nil, errors.New("nil postgres pool")
	}
	rows, err := r.pool.Query(ctx, `
		SELECT external_id, email, first_name, last_name, image_url, created_at, updated_at
		FROM users
		ORDER BY external_id ASC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]userrepo.User, 0)
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	return out, rows.Err()
}

func scanUser(row pgx.Row) (userrepo.User, error) {
	var (
		u         userrepo.User
		extID     string
		createdAt time.Time
		updatedAt time.Time
	)
	if err := row.Scan(&extID, &u.Email, &u.FirstName, &u.LastName, &u.ImageURL, &createdAt, &updatedAt); err != nil {
		return userrepo.User{}, err
	}
	u.ExternalID = domain.ExternalUserID(extID)
	u.CreatedAt = createdAt.UTC()
	u.UpdatedAt = updatedAt.UTC()
	return u, nil
}
