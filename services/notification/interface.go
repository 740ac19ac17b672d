package notification

import (
	"context"

	"pawsit/models"
)

// NotificationService dispatches notifications to owners and sitters. It
// never fails fatally: delivery problems are reported in the result, not
// as errors, so lifecycle transitions are isolated from notification
// flakiness.
type NotificationService interface {
	Notify(ctx context.Context, userID, key, entityID string, payload map[string]string) models.DispatchResult
}
