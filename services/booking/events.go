package booking

import (
	"context"
	"time"

	"pawsit/models"
	"pawsit/services/notification"

	"go.uber.org/zap"
)

// LifecycleEvent is an outbox entry produced by a state transition. The
// core transition commits first; events are dispatched afterwards so
// collaborator flakiness can never roll back a booking.
type LifecycleEvent struct {
	UserID    string
	Key       string
	BookingID string
	Payload   map[string]string
}

// EventDispatcher fans lifecycle events out to the notification service,
// best-effort with a bounded timeout per event.
type EventDispatcher struct {
	Notifier notification.NotificationService
	Logger   *zap.Logger
	Timeout  time.Duration
}

func (d *EventDispatcher) Dispatch(events []LifecycleEvent) {
	if d == nil || d.Notifier == nil {
		return
	}
	for _, ev := range events {
		ctx, cancel := context.WithTimeout(context.Background(), d.Timeout)
		result := d.Notifier.Notify(ctx, ev.UserID, ev.Key, ev.BookingID, ev.Payload)
		cancel()
		if result == models.DispatchFailed {
			d.Logger.Warn("lifecycle notification failed",
				zap.String("userID", ev.UserID),
				zap.String("key", ev.Key),
				zap.String("bookingID", ev.BookingID))
		}
	}
}

func bookingEvent(userID, key string, b *models.Booking) LifecycleEvent {
	return LifecycleEvent{
		UserID:    userID,
		Key:       key,
		BookingID: b.ID,
		Payload: map[string]string{
			"serviceType": string(b.ServiceType),
			"startDate":   b.StartDate,
			"endDate":     b.EndDate,
			"status":      string(b.Status),
		},
	}
}

// fanOut builds the owner+sitter event pair for a status change.
func fanOut(key string, b *models.Booking) []LifecycleEvent {
	return []LifecycleEvent{
		bookingEvent(b.OwnerID, key, b),
		bookingEvent(b.SitterID, key, b),
	}
}
