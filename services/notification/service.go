package notification

import (
	"context"
	"time"

	notificationRepo "pawsit/database/repository/notification"
	sitterRepo "pawsit/database/repository/sitter"
	"pawsit/models"
	"pawsit/utils"

	"firebase.google.com/go/v4/messaging"
	"go.uber.org/zap"
)

// Notification keys emitted by the booking lifecycle.
const (
	KeyBookingRequested     = "booking_requested"
	KeyBookingPaid          = "booking_paid"
	KeyBookingConfirmed     = "booking_confirmed"
	KeyBookingDeclined      = "booking_declined"
	KeyBookingCancelled     = "booking_cancelled"
	KeyBookingRefunded      = "booking_refunded"
	KeyBookingRefundFailed  = "booking_refund_failed"
	KeyBookingPaymentFailed = "booking_payment_failed"
	KeyBookingReminder      = "booking_reminder"
	KeyReviewRequest        = "review_request"
)

var pushTitles = map[string]string{
	KeyBookingRequested:     "New booking request",
	KeyBookingPaid:          "Booking paid",
	KeyBookingConfirmed:     "Booking confirmed",
	KeyBookingDeclined:      "Booking declined",
	KeyBookingCancelled:     "Booking cancelled",
	KeyBookingRefunded:      "Booking refunded",
	KeyBookingRefundFailed:  "Refund needs attention",
	KeyBookingPaymentFailed: "Payment failed",
	KeyBookingReminder:      "Upcoming booking",
	KeyReviewRequest:        "How did it go?",
}

// DefaultNotificationService records an in-app notification and sends an
// FCM push when the user has a registered token.
type DefaultNotificationService struct {
	Repo       notificationRepo.NotificationRepository
	SitterRepo sitterRepo.SitterRepository
	Logger     *zap.Logger
}

func (s *DefaultNotificationService) Notify(ctx context.Context, userID, key, entityID string, payload map[string]string) models.DispatchResult {
	record := &models.Notification{
		UserID:    userID,
		Key:       key,
		EntityID:  entityID,
		Payload:   payload,
		CreatedAt: time.Now(),
	}
	if err := s.Repo.Create(ctx, record); err != nil {
		s.Logger.Warn("failed to persist notification",
			zap.String("userID", userID), zap.String("key", key), zap.Error(err))
	}

	token := s.lookupToken(ctx, userID)
	if token == "" || utils.FCMClient == nil {
		return models.DispatchSkipped
	}

	data := map[string]string{"key": key, "entityId": entityID}
	for k, v := range payload {
		data[k] = v
	}
	msg := &messaging.Message{
		Token: token,
		Notification: &messaging.Notification{
			Title: pushTitles[key],
			Body:  payload["body"],
		},
		Data: data,
	}
	if _, err := utils.FCMClient.Send(ctx, msg); err != nil {
		s.Logger.Warn("failed to send push notification",
			zap.String("userID", userID), zap.String("key", key), zap.Error(err))
		return models.DispatchFailed
	}
	return models.DispatchSent
}

// lookupToken resolves the push target; users may be owners or sitters.
func (s *DefaultNotificationService) lookupToken(ctx context.Context, userID string) string {
	if owner, err := s.SitterRepo.GetOwnerByID(ctx, userID); err == nil && owner.FCMToken != "" {
		return owner.FCMToken
	}
	if sitter, err := s.SitterRepo.GetSitterByID(ctx, userID); err == nil && sitter.FCMToken != "" {
		return sitter.FCMToken
	}
	return ""
}
