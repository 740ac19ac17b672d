package booking

import (
	"context"
	"fmt"

	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/paymentintent"
	"github.com/stripe/stripe-go/v76/refund"
	"go.uber.org/zap"
)

// PaymentProcessor is the engine's contract with the payment processor.
// Capture confirmation arrives asynchronously via webhook, not here.
type PaymentProcessor interface {
	CreatePaymentIntent(ctx context.Context, amount int64, currency string, metadata map[string]string) (reference string, clientSecret string, err error)
	Refund(ctx context.Context, paymentReference, idempotencyKey string) (refundReference string, err error)
}

// RefundIdempotencyKey derives the deterministic key that makes retried
// refund calls safe: refund:{action}:{bookingID}:{paymentReference}.
func RefundIdempotencyKey(action, bookingID, paymentReference string) string {
	return fmt.Sprintf("refund:%s:%s:%s", action, bookingID, paymentReference)
}

// StripePaymentProcessor is the production implementation.
type StripePaymentProcessor struct {
	logger *zap.Logger
}

// NewStripePaymentProcessor constructs the Stripe-backed processor; the
// API key is set globally via stripe.Key at startup.
func NewStripePaymentProcessor(logger *zap.Logger) *StripePaymentProcessor {
	return &StripePaymentProcessor{logger: logger}
}

func (p *StripePaymentProcessor) CreatePaymentIntent(ctx context.Context, amount int64, currency string, metadata map[string]string) (string, string, error) {
	params := &stripe.PaymentIntentParams{
		Amount:   stripe.Int64(amount),
		Currency: stripe.String(currency),
		AutomaticPaymentMethods: &stripe.PaymentIntentAutomaticPaymentMethodsParams{
			Enabled: stripe.Bool(true),
		},
	}
	params.Context = ctx
	for k, v := range metadata {
		params.AddMetadata(k, v)
	}

	pi, err := paymentintent.New(params)
	if err != nil {
		return "", "", fmt.Errorf("stripe payment intent creation failed: %w", err)
	}
	p.logger.Info("created payment intent", zap.String("reference", pi.ID), zap.Int64("amount", amount))
	return pi.ID, pi.ClientSecret, nil
}

func (p *StripePaymentProcessor) Refund(ctx context.Context, paymentReference, idempotencyKey string) (string, error) {
	params := &stripe.RefundParams{
		PaymentIntent: stripe.String(paymentReference),
	}
	params.Context = ctx
	params.SetIdempotencyKey(idempotencyKey)

	r, err := refund.New(params)
	if err != nil {
		return "", fmt.Errorf("stripe refund failed: %w", err)
	}
	p.logger.Info("issued refund",
		zap.String("paymentReference", paymentReference),
		zap.String("refundReference", r.ID),
		zap.String("idempotencyKey", idempotencyKey))
	return r.ID, nil
}
