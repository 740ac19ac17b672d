package messaging

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"pawsit/database"
	"pawsit/models"
)

// MessagingService ensures an owner-sitter conversation anchor exists.
// Message delivery itself is an external collaborator.
type MessagingService interface {
	EnsureThread(ctx context.Context, ownerID, sitterID string) (*models.MessageThread, error)
}

type defaultMessagingService struct {
	coll *mongo.Collection
}

// NewMessagingService constructs the Mongo-backed messaging service.
func NewMessagingService() MessagingService {
	return &defaultMessagingService{coll: database.DB().Collection("message_threads")}
}

func (s *defaultMessagingService) EnsureThread(ctx context.Context, ownerID, sitterID string) (*models.MessageThread, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{"owner_id": ownerID, "sitter_id": sitterID}
	update := bson.M{"$setOnInsert": models.MessageThread{
		ID:        uuid.New().String(),
		OwnerID:   ownerID,
		SitterID:  sitterID,
		CreatedAt: time.Now(),
	}}
	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)

	var thread models.MessageThread
	if err := s.coll.FindOneAndUpdate(ctx, filter, update, opts).Decode(&thread); err != nil {
		return nil, err
	}
	return &thread, nil
}
