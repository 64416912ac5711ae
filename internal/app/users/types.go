package users

import "github.com/Meridian-Yachting/brokerage-api/internal/domain"

const (
	EventUserCreated = "user.created"
	EventUserUpdated = "user.updated"
	EventUserDeleted = "user.deleted"
)

// Event is a verified identity-provider webhook delivery.
type Event struct {
	Type string
	User EventUser
}

// EventUser carries the fields mirrored from the identity provider.
// Only ExternalID is populated for deletions.
type EventUser struct {
	ExternalID domain.ExternalUserID
	Email      string
	FirstName  *string
	LastName   *string
	ImageURL   *string
}

type Outcome string

const (
	OutcomeUpserted Outcome = "upserted"
	OutcomeDeleted  Outcome = "deleted"
	OutcomeIgnored  Outcome = "ignored"
)
