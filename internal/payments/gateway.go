// Package payments wraps the payment processor behind a small gateway
// interface. It translates between the orchestrator's value types and the
// processor's wire format and carries no business logic.
package payments

import (
	"context"
	"errors"
	"fmt"

	"github.com/avelorn/staygo/internal/domain"
	stripe "github.com/stripe/stripe-go/v79"
	"github.com/stripe/stripe-go/v79/client"
)

var (
	// ErrUnavailable covers transport failures and processor 5xx responses.
	ErrUnavailable = errors.New("payment gateway unavailable")
	// ErrRejected covers processor client errors (invalid currency, bad amount).
	ErrRejected = errors.New("payment gateway rejected request")
	// ErrIntentNotFound is returned when the processor does not know the intent.
	ErrIntentNotFound = errors.New("payment intent not found")
)

// Gateway creates and retrieves remote payment intents.
type Gateway interface {
	CreateIntent(ctx context.Context, amountCents int64, currency string, metadata map[string]string) (*domain.PaymentIntent, error)
	RetrieveIntent(ctx context.Context, intentID string) (*domain.PaymentIntent, error)
}

// Stripe is the production Gateway over the Stripe API.
type Stripe struct {
	api *client.API
}

func NewStripe(secretKey string) *Stripe {
	api := &client.API{}
	api.Init(secretKey, nil)

	return &Stripe{api: api}
}

// CreateIntent creates a remote, chargeable payment intent. The metadata is
// carried verbatim for later reconciliation.
func (s *Stripe) CreateIntent(
	ctx context.Context,
	amountCents int64,
	currency string,
	metadata map[string]string,
) (*domain.PaymentIntent, error) {
	const op = "payments.Stripe.CreateIntent"

	params := &stripe.PaymentIntentParams{
		Amount:   stripe.Int64(amountCents),
		Currency: stripe.String(currency),
	}
	params.Context = ctx
	for k, v := range metadata {
		params.AddMetadata(k, v)
	}

	pi, err := s.api.PaymentIntents.New(params)
	if err != nil {
		return nil, fmt.Errorf("%s:%w", op, translateStripeErr(err))
	}

	return &domain.PaymentIntent{
		ID:           pi.ID,
		ClientSecret: pi.ClientSecret,
		Status:       IntentStatus(pi.Status),
	}, nil
}

func (s *Stripe) RetrieveIntent(ctx context.Context, intentID string) (*domain.PaymentIntent, error) {
	const op = "payments.Stripe.RetrieveIntent"

	params := &stripe.PaymentIntentParams{}
	params.Context = ctx

	pi, err := s.api.PaymentIntents.Get(intentID, params)
	if err != nil {
		return nil, fmt.Errorf("%s:%w", op, translateStripeErr(err))
	}

	return &domain.PaymentIntent{
		ID:     pi.ID,
		Status: IntentStatus(pi.Status),
	}, nil
}

// IntentStatus collapses Stripe's intent statuses into the domain's.
func IntentStatus(s stripe.PaymentIntentStatus) domain.IntentStatus {
	switch s {
	case stripe.PaymentIntentStatusSucceeded:
		return domain.IntentSucceeded
	case stripe.PaymentIntentStatusProcessing:
		return domain.IntentProcessing
	case stripe.PaymentIntentStatusCanceled:
		return domain.IntentCanceled
	case stripe.PaymentIntentStatusRequiresPaymentMethod,
		stripe.PaymentIntentStatusRequiresConfirmation,
		stripe.PaymentIntentStatusRequiresAction,
		stripe.PaymentIntentStatusRequiresCapture:
		return domain.IntentRequiresPayment
	default:
		return domain.IntentFailed
	}
}

func translateStripeErr(err error) error {
	var se *stripe.Error
	if errors.As(err, &se) {
		switch {
		case se.Code == stripe.ErrorCodeResourceMissing:
			return ErrIntentNotFound
		case se.HTTPStatusCode >= 500:
			return ErrUnavailable
		default:
			return ErrRejected
		}
	}

	// no structured error means the call never completed
	return ErrUnavailable
}
