// Package stripe hands booking requests to Stripe as PaymentIntents for the deposit flow.
package stripe

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/stripe/stripe-go/v74"
	"github.com/stripe/stripe-go/v74/client"

	"github.com/Meridian-Yachting/brokerage-api/internal/ports/out/bookinghandoff"
)

const Provider = "stripe"

// PaymentIntents is the subset of the Stripe PaymentIntent client the hand-off needs.
type PaymentIntents interface {
	New(params *stripe.PaymentIntentParams) (*stripe.PaymentIntent, error)
}

type Handoff struct {
	intents PaymentIntents
}

func New(apiKey string) *Handoff {
	sc := &client.API{}
	sc.Init(apiKey, nil)
	return &Handoff{intents: sc.PaymentIntents}
}

// NewWithClient allows injecting a test client.
func NewWithClient(intents PaymentIntents) *Handoff {
	return &Handoff{intents: intents}
}

func (h *Handoff) Submit(ctx context.Context, req bookinghandoff.Request) (bookinghandoff.Receipt, error) {
	if req.TotalPrice <= 0 {
		return bookinghandoff.Receipt{}, errors.New("stripe handoff: total price must be positive")
	}
	passages := make([]string, 0, len(req.PassageIDs))
	for _, id := range req.PassageIDs {
		passages = append(passages, string(id))
	}

	params := &stripe.PaymentIntentParams{
		// TotalPrice is in whole units; Stripe wants the minor unit.
		Amount:      stripe.Int64(req.TotalPrice * 100),
		Currency:    stripe.String(strings.ToLower(req.Currency)),
		Description: stripe.String(fmt.Sprintf("Passage booking %s", req.Reference)),
		AutomaticPaymentMethods: &stripe.PaymentIntentAutomaticPaymentMethodsParams{
			Enabled: stripe.Bool(true),
		},
	}
	params.Context = ctx
	if req.IdempotencyKey != "" {
		params.IdempotencyKey = stripe.String(req.Reference + ":" + req.IdempotencyKey)
	} else {
		params.IdempotencyKey = stripe.String(req.Reference)
	}
	params.AddMetadata("booking_reference", req.Reference)
	params.AddMetadata("subject", string(req.Subject))
	params.AddMetadata("passages", strings.Join(passages, ","))
	params.AddMetadata("guest_count", strconv.Itoa(req.GuestCount))
	params.AddMetadata("offshore_competency", strconv.FormatBool(req.RequiresOffshoreCompetency))

	pi, err := h.intents.New(params)
	if err != nil {
		var se *stripe.Error
		if errors.As(err, &se) {
			return bookinghandoff.Receipt{}, fmt.Errorf("stripe payment intent: %s: %w", se.Code, err)
		}
		return bookinghandoff.Receipt{}, fmt.Errorf("stripe payment intent: %w", err)
	}
	return bookinghandoff.Receipt{Provider: Provider, ExternalID: pi.ID}, nil
}
