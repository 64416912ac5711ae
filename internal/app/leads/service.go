package leads

import (
	"context"
	"fmt"
	"log"
	"net/mail"
	"strings"

	"github.com/google/uuid"

	"github.com/Meridian-Yachting/brokerage-api/internal/domain"
	"github.com/Meridian-Yachting/brokerage-api/internal/ports/out/clock"
	"github.com/Meridian-Yachting/brokerage-api/internal/ports/out/leadrepo"
	"github.com/Meridian-Yachting/brokerage-api/internal/ports/out/notifier"
)

const (
	maxSourceLen  = 64
	maxMessageLen = 4000
)

type CaptureInput struct {
	Email      string
	Name       *string
	Phone      *string
	Source     string
	VesselSlug *string
	Message    *string
}

type Service struct {
	leads    leadrepo.Repository
	notifier notifier.Notifier
	clock    clock.Clock

	newLeadID func() domain.LeadID
}

func NewService(leadsRepo leadrepo.Repository, n notifier.Notifier, clk clock.Clock) *Service {
	return &Service{
		leads:    leadsRepo,
		notifier: n,
		clock:    clk,
		newLeadID: func() domain.LeadID {
			return domain.LeadID(uuid.NewString())
		},
	}
}

// SetNewLeadIDForTest overrides lead ID generation for deterministic tests.
// It should not be used in production code.
func (s *Service) SetNewLeadIDForTest(fn func() domain.LeadID) {
	if fn != nil {
		s.newLeadID = fn
	}
}

// Capture stores a lead and then notifies the sales team.
// A failed notification is logged; the lead is already stored.
func (s *Service) Capture(ctx context.Context, in CaptureInput) (domain.Lead, error) {
	details := map[string]any{}

	email, err := normalizeEmail(in.Email)
	if err != nil {
		details["email"] = "must be a valid email address"
	}
	source := strings.TrimSpace(in.Source)
	if source == "" {
		details["source"] = "must be non-empty"
	} else if len(source) > maxSourceLen {
		details["source"] = fmt.Sprintf("must be at most %d characters", maxSourceLen)
	}
	message := trimmedOrNil(in.Message)
	if message != nil && len(*message) > maxMessageLen {
		details["message"] = fmt.Sprintf("must be at most %d characters", maxMessageLen)
	}
	if len(details) > 0 {
		return domain.Lead{}, &Error{Status: 422, Code: "VALIDATION_ERROR", Message: "invalid lead", Details: details}
	}

	l := domain.Lead{
		ID:        s.newLeadID(),
		Email:     email,
		Phone:     trimmedOrNil(in.Phone),
		Source:    source,
		Message:   message,
		CreatedAt: s.clock.Now().UTC(),
	}
	if in.Name != nil {
		if n := domain.NormalizeHumanName(*in.Name); n != "" {
			l.Name = &n
		}
	}
	if slug := trimmedOrNil(in.VesselSlug); slug != nil {
		vs := domain.VesselSlug(*slug)
		l.VesselSlug = &vs
	}

	if err := s.leads.Create(ctx, l); err != nil {
		return domain.Lead{}, fmt.Errorf("create lead: %w", err)
	}

	if s.notifier != nil {
		if err := s.notifier.NotifyLead(ctx, l); err != nil {
			log.Printf("leads: notify lead %s: %v", l.ID, err)
		}
	}
	return l, nil
}

// normalizeEmail accepts a bare address only ("a@b.c", not "A <a@b.c>").
func normalizeEmail(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	addr, err := mail.ParseAddress(raw)
	if err != nil {
		return "", err
	}
	if addr.Address != raw {
		return "", fmt.Errorf("not a bare address: %q", raw)
	}
	return strings.ToLower(addr.Address), nil
}

func trimmedOrNil(p *string) *string {
	if p == nil {
		return nil
	}
	v := strings.TrimSpace(*p)
	if v == "" {
		return nil
	}
	return &v
}
