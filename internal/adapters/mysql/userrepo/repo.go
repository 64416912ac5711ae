package userrepo

import (
	"context"
	"database/sql"
	"errors"

	"github.com/Meridian-Yachting/brokerage-api/internal/domain"
	"github.com/Meridian-Yachting/brokerage-api/internal/ports/out/userrepo"
)

// Repo is a MySQL implementation of userrepo.Repository.
type Repo struct {
	db *sql.DB
}

func NewRepo(db *sql.DB) *Repo {
	return &Repo{db: db}
}

func (r *Repo) Upsert(ctx context.Context, u userrepo.User) error {
	if r.db == nil {
		return errors.New("nil mysql db")
	}
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO users (external_id, email, first_name, last_name, image_url, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON DUPLICATE KEY UPDATE
			email = VALUES(email),
			first_name = VALUES(first_name),
			last_name = VALUES(last_name),
			image_url = VALUES(image_url),
			updated_at = VALUES(updated_at)
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
	if r.db == nil {
		return userrepo.User{}, errors.New("nil mysql db")
	}
	row := r.db.QueryRowContext(ctx, `
		SELECT external_id, email, first_name, last_name, image_url, created_at, updated_at
		FROM users
		WHERE external_id = ?
	`, string(id))
	u, err := scanUser(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return userrepo.User{}, userrepo.ErrNotFound
		}
		return userrepo.User{}, err
	}
	return u, nil
}

func (r *Repo) DeleteByExternalID(ctx context.Context, id domain.ExternalUserID) error {
	if r.db == nil {
		return errors.New("nil mysql db")
	}
	res, err := r.db.ExecContext(ctx, `DELETE FROM users WHERE external_id = ?`, string(id))
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return userrepo.ErrNotFound
	}
	return nil
}

func (r *Repo) List(ctx context.Context) ([]userrepo.User, error) {
	if r.db == nil {
		return nil, errors.New("nil mysql db")
	}
	rows, err := r.db.QueryContext(ctx, `
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

type scanner interface {
	Scan(dest ...any) error
}

func scanUser(s scanner) (userrepo.User, error) {
	var (
		u         userrepo.User
		extID     string
		firstName sql.NullString
		lastName  sql.NullString
		imageURL  sql.NullString
	)
	if err := s.Scan(&extID, &u.Email, &firstName, &lastName, &imageURL, &u.CreatedAt, &u.UpdatedAt); err != nil {
		return userrepo.User{}, err
	}
	u.ExternalID = domain.ExternalUserID(extID)
	u.FirstName = nullString(firstName)
	u.LastName = nullString(lastName)
	u.ImageURL = nullString(imageURL)
	u.CreatedAt = u.CreatedAt.UTC()
	u.UpdatedAt = u.UpdatedAt.UTC()
	return u, nil
}

func nullString(n sql.NullString) *string {
	if !n.Valid {
		return nil
	}
	v := n.String
	return &v
}
