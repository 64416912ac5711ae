// Package svixverifier checks Standard Webhooks (svix) signatures on identity provider events.
package svixverifier

import (
	"errors"
	"fmt"
	"net/http"

	svix "github.com/svix/svix-webhooks/go"
)

var ErrInvalidSignature = errors.New("invalid webhook signature")

type Verifier struct {
	wh *svix.Webhook
}

// New builds a verifier from a "whsec_..." signing secret.
func New(secret string) (*Verifier, error) {
	if secret == "" {
		return nil, errors.New("webhook signing secret is required")
	}
	wh, err := svix.NewWebhook(secret)
	if err != nil {
		return nil, fmt.Errorf("parse webhook secret: %w", err)
	}
	return &Verifier{wh: wh}, nil
}

// Verify checks payload against the svix-id, svix-timestamp and svix-signature headers.
func (v *Verifier) Verify(payload []byte, headers http.Header) error {
	if err := v.wh.Verify(payload, headers); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidSignature, err)
	}
	return nil
}
