package handlers

import (
	"encoding/json"
	"io"
	"net/http"

	"pawsit/config"

	"github.com/gin-gonic/gin"
	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/webhook"
	"go.uber.org/zap"
)

const maxWebhookBody = 65536

// StripeWebhook consumes payment-intent events from the processor. The
// booking id travels in the intent metadata set at intent creation.
// Signals are at-least-once: duplicate successes are absorbed by
// MarkPaid and acknowledged with 200 so the processor stops retrying.
func StripeWebhook(c *gin.Context) {
	payload, err := io.ReadAll(io.LimitReader(c.Request.Body, maxWebhookBody))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unreadable payload"})
		return
	}

	event, err := webhook.ConstructEvent(payload, c.GetHeader("Stripe-Signature"), config.AppConfig.StripeWebhookSecret)
	if err != nil {
		zap.L().Warn("stripe webhook signature verification failed", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid signature"})
		return
	}

	switch event.Type {
	case "payment_intent.succeeded", "payment_intent.payment_failed":
	default:
		c.JSON(http.StatusOK, gin.H{"status": "ignored"})
		return
	}

	var intent stripe.PaymentIntent
	if err := json.Unmarshal(event.Data.Raw, &intent); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "malformed event payload"})
		return
	}
	bookingID := intent.Metadata["bookingId"]
	if bookingID == "" {
		zap.L().Warn("payment intent without booking metadata", zap.String("intentID", intent.ID))
		c.JSON(http.StatusOK, gin.H{"status": "ignored"})
		return
	}

	ctx := c.Request.Context()
	if event.Type == "payment_intent.succeeded" {
		changed, err := BookingService.MarkPaid(ctx, bookingID)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok", "changed": changed})
		return
	}

	if err := BookingService.MarkPaymentFailed(ctx, bookingID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
