package notificationRepo

import (
	"context"

	"pawsit/database"
	"pawsit/models"

	"go.mongodb.org/mongo-driver/mongo"
)

// NotificationRepository persists in-app notification records.
type NotificationRepository interface {
	Create(ctx context.Context, n *models.Notification) error
	ListByUser(ctx context.Context, userID string, limit int64) ([]models.Notification, error)
	MarkRead(ctx context.Context, userID, notificationID string) error
}

type mongoNotificationRepo struct {
	coll *mongo.Collection
}

// NewMongoNotificationRepo constructs a new MongoDB NotificationRepository.
func NewMongoNotificationRepo() NotificationRepository {
	return &mongoNotificationRepo{coll: database.DB().Collection("notifications")}
}
