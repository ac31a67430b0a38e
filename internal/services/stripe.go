package services

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/client"
)

// StripeService creates payment intents. One instance is shared by all requests.
type StripeService struct {
	api *client.API
}

// NewStripeService builds a Stripe client. apiURL overrides the Stripe endpoint and is
// meant for local mocks; leave it empty in production.
func NewStripeService(secretKey, apiURL string) *StripeService {
	cfg := &stripe.BackendConfig{
		HTTPClient:        &http.Client{Timeout: 30 * time.Second},
		MaxNetworkRetries: stripe.Int64(0),
		LeveledLogger:     &stripe.LeveledLogger{Level: stripe.LevelError},
	}
	if apiURL != "" {
		cfg.URL = stripe.String(apiURL)
	}

	api := &client.API{}
	api.Init(secretKey, &stripe.Backends{
		API: stripe.GetBackendWithConfig(stripe.APIBackend, cfg),
	})
	return &StripeService{api: api}
}

// CreatePaymentIntent requests a card-only intent for amount minor units and returns
// its client secret.
func (s *StripeService) CreatePaymentIntent(ctx context.Context, amount int64, currency string) (string, error) {
	params := &stripe.PaymentIntentParams{
		Amount:             stripe.Int64(amount),
		Currency:           stripe.String(currency),
		PaymentMethodTypes: stripe.StringSlice([]string{"card"}),
	}
	params.Context = ctx

	intent, err := s.api.PaymentIntents.New(params)
	if err != nil {
		return "", fmt.Errorf("create payment intent: %w", err)
	}
	return intent.ClientSecret, nil
}
