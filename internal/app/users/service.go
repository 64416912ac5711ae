package users

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Meridian-Yachting/brokerage-api/internal/domain"
	"github.com/Meridian-Yachting/brokerage-api/internal/ports/out/clock"
	"github.com/Meridian-Yachting/brokerage-api/internal/ports/out/userrepo"
)

type Service struct {
	users userrepo.Repository
	clock clock.Clock
}

func NewService(usersRepo userrepo.Repository, clk clock.Clock) *Service {
	return &Service{users: usersRepo, clock: clk}
}

// HandleEvent applies a webhook delivery to the user mirror.
// Deliveries may be replayed: upserts overwrite by external ID and deleting a
// missing user succeeds.
func (s *Service) HandleEvent(ctx context.Context, ev Event) (Outcome, error) {
	switch ev.Type {
	case EventUserCreated, EventUserUpdated:
		if ev.User.ExternalID == "" {
			return "", &Error{Status: 400, Code: "VALIDATION_ERROR", Message: "missing user id"}
		}
		now := s.clock.Now().UTC()
		if err := s.users.Upsert(ctx, userrepo.User{
			ExternalID: ev.User.ExternalID,
			Email:      strings.TrimSpace(ev.User.Email),
			FirstName:  normalizedName(ev.User.FirstName),
			LastName:   normalizedName(ev.User.LastName),
			ImageURL:   ev.User.ImageURL,
			CreatedAt:  now,
			UpdatedAt:  now,
		}); err != nil {
			return "", fmt.Errorf("upsert user %s: %w", ev.User.ExternalID, err)
		}
		return OutcomeUpserted, nil

	case EventUserDeleted:
		if ev.User.ExternalID == "" {
			return "", &Error{Status: 400, Code: "VALIDATION_ERROR", Message: "missing user id"}
		}
		if err := s.users.DeleteByExternalID(ctx, ev.User.ExternalID); err != nil && !errors.Is(err, userrepo.ErrNotFound) {
			return "", fmt.Errorf("delete user %s: %w", ev.User.ExternalID, err)
		}
		return OutcomeDeleted, nil

	default:
		return OutcomeIgnored, nil
	}
}

// GetMe returns the mirrored user for an authenticated subject.
// Subjects are identity-provider user IDs.
func (s *Service) GetMe(ctx context.Context, caller domain.SubjectID) (domain.User, error) {
	u, err := s.users.GetByExternalID(ctx, domain.ExternalUserID(caller))
	if err != nil {
		if errors.Is(err, userrepo.ErrNotFound) {
			return domain.User{}, &Error{Status: 404, Code: "USER_NOT_FOUND", Message: "user not found"}
		}
		return domain.User{}, err
	}
	return domain.User{
		ExternalID: u.ExternalID,
		Email:      u.Email,
		FirstName:  u.FirstName,
		LastName:   u.LastName,
		ImageURL:   u.ImageURL,
		CreatedAt:  u.CreatedAt,
		UpdatedAt:  u.UpdatedAt,
	}, nil
}

func normalizedName(p *string) *string {
	if p == nil {
		return nil
	}
	n := domain.NormalizeHumanName(*p)
	if n == "" {
		return nil
	}
	return &n
}
