// Package payment creates donation payment intents.
package payment

import (
	"context"
	"net/http"

	"github.com/stripe/stripe-go/v79"
	"github.com/stripe/stripe-go/v79/client"
	"go.uber.org/zap"

	apperrors "bookbridge.io/bookbridge/internal/pkg/errors"
	"bookbridge.io/bookbridge/internal/pkg/logger"
)

// Intent is the handle a client needs to complete a donation payment.
type Intent struct {
	ClientSecret string `json:"clientSecret"`
}

// IntentCreator creates a payment intent for an amount in the minor unit
// of the given currency (cents for usd).
type IntentCreator interface {
	CreateIntent(ctx context.Context, amount int64, currency string) (*Intent, error)
}

// StripeClient implements IntentCreator against the Stripe API.
type StripeClient struct {
	api             *client.API
	defaultCurrency string
}

// NewStripeClient builds a Stripe-backed IntentCreator. defaultCurrency
// is used when a request does not name one.
func NewStripeClient(secretKey, defaultCurrency string) *StripeClient {
	api := &client.API{}
	api.Init(secretKey, nil)
	return &StripeClient{api: api, defaultCurrency: defaultCurrency}
}

func (c *StripeClient) CreateIntent(ctx context.Context, amount int64, currency string) (*Intent, error) {
	if amount <= 0 {
		return nil, apperrors.BadRequest(apperrors.CodeInvalidRequest, "amount must be greater than zero")
	}
	if currency == "" {
		currency = c.defaultCurrency
	}

	params := &stripe.PaymentIntentParams{
		Params:   stripe.Params{Context: ctx},
		Amount:   stripe.Int64(amount),
		Currency: stripe.String(currency),
		AutomaticPaymentMethods: &stripe.PaymentIntentAutomaticPaymentMethodsParams{
			Enabled: stripe.Bool(true),
		},
	}

	pi, err := c.api.PaymentIntents.New(params)
	if err != nil {
		logger.Error("stripe payment intent failed", zap.Int64("amount", amount), zap.Error(err))
		return nil, apperrors.Wrap(err, apperrors.CodePaymentFailed, "payment provider unavailable", http.StatusInternalServerError)
	}
	return &Intent{ClientSecret: pi.ClientSecret}, nil
}
