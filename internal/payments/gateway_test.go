package payments

import (
	"errors"
	"testing"

	"github.com/avelorn/staygo/internal/domain"
	stripe "github.com/stripe/stripe-go/v79"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIntentStatus(t *testing.T) {
	tests := []struct {
		in   stripe.PaymentIntentStatus
		want domain.IntentStatus
	}{
		{stripe.PaymentIntentStatusSucceeded, domain.IntentSucceeded},
		{stripe.PaymentIntentStatusProcessing, domain.IntentProcessing},
		{stripe.PaymentIntentStatusCanceled, domain.IntentCanceled},
		{stripe.PaymentIntentStatusRequiresPaymentMethod, domain.IntentRequiresPayment},
		{stripe.PaymentIntentStatusRequiresConfirmation, domain.IntentRequiresPayment},
		{stripe.PaymentIntentStatusRequiresAction, domain.IntentRequiresPayment},
		{stripe.PaymentIntentStatusRequiresCapture, domain.IntentRequiresPayment},
		{"something_new", domain.IntentFailed},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, IntentStatus(tt.in), "status %s", tt.in)
	}
}

func TestTranslateStripeErr(t *testing.T) {
	t.Run("resource missing", func(t *testing.T) {
		err := translateStripeErr(&stripe.Error{Code: stripe.ErrorCodeResourceMissing, HTTPStatusCode: 404})
		require.ErrorIs(t, err, ErrIntentNotFound)
	})

	t.Run("server error", func(t *testing.T) {
		err := translateStripeErr(&stripe.Error{HTTPStatusCode: 503})
		require.ErrorIs(t, err, ErrUnavailable)
	})

	t.Run("client error", func(t *testing.T) {
		err := translateStripeErr(&stripe.Error{Code: stripe.ErrorCodeAmountTooSmall, HTTPStatusCode: 400})
		require.ErrorIs(t, err, ErrRejected)
	})

	t.Run("transport failure", func(t *testing.T) {
		err := translateStripeErr(errors.New("connection refused"))
		require.ErrorIs(t, err, ErrUnavailable)
	})
}
