package domain

import (
	"strings"
	"time"
)

// User is the local mirror of an identity-provider user.
// Rows are written only by identity webhooks.
type User struct {
	ExternalID ExternalUserID

	Email     string
	FirstName *string
	LastName  *string
	ImageURL  *string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// DisplayName joins the available name parts, falling back to the email address.
func (u User) DisplayName() string {
	var parts []string
	if u.FirstName != nil {
		parts = append(parts, *u.FirstName)
	}
	if u.LastName != nil {
		parts = append(parts, *u.LastName)
	}
	if n := NormalizeHumanName(strings.Join(parts, " ")); n != "" {
		return n
	}
	return u.Email
}
