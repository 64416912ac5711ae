package userrepo

import (
	"context"
	"time"

	"github.com/Meridian-Yachting/brokerage-api/internal/domain"
)

// User is the persistence shape of the identity-provider mirror.
type User struct {
	ExternalID domain.ExternalUserID
	Email      string

	FirstName *string
	LastName  *string
	ImageURL  *string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Repository stores the mirror of identity-provider users.
//
// Rows are written only by webhook deliveries, which may arrive more than once.
type Repository interface {
	// Upsert inserts u or overwrites the row with the same ExternalID.
	// On overwrite the stored CreatedAt is kept and u.CreatedAt is ignored.
	Upsert(ctx context.Context, u User) error

	GetByExternalID(ctx context.Context, id domain.ExternalUserID) (User, error)

	// DeleteByExternalID returns ErrNotFound when no row matches.
	DeleteByExternalID(ctx context.Context, id domain.ExternalUserID) error

	// List returns all mirrored users ordered by external ID.
	List(ctx context.Context) ([]User, error)
}
