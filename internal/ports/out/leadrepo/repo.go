package leadrepo

import (
	"context"
	"errors"

	"github.com/Meridian-Yachting/brokerage-api/internal/domain"
)

var (
	ErrAlreadyExists = errors.New("lead already exists")
)

// Repository stores sales leads captured from the public site.
type Repository interface {
	Create(ctx context.Context, l domain.Lead) error

	// List returns leads ordered by CreatedAt, oldest first.
	List(ctx context.Context) ([]domain.Lead, error)
}
