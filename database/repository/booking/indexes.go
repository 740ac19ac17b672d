package bookingRepo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// EnsureIndexes creates the necessary indexes on the bookings collection.
func (r *mongoBookingRepo) EnsureIndexes() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	indexModels := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "id", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("unique_id"),
		},
		// Primary overlap-query pattern.
		{
			Keys:    bson.D{{Key: "sitter_id", Value: 1}, {Key: "status", Value: 1}, {Key: "start_at", Value: 1}, {Key: "end_at", Value: 1}},
			Options: options.Index().SetName("sitter_status_window_idx"),
		},
		{
			Keys:    bson.D{{Key: "owner_id", Value: 1}, {Key: "start_at", Value: -1}},
			Options: options.Index().SetName("owner_start_idx"),
		},
		// Scheduled-scan patterns.
		{
			Keys:    bson.D{{Key: "status", Value: 1}, {Key: "start_at", Value: 1}},
			Options: options.Index().SetName("status_start_idx"),
		},
		{
			Keys:    bson.D{{Key: "status", Value: 1}, {Key: "end_at", Value: 1}},
			Options: options.Index().SetName("status_end_idx"),
		},
	}

	if _, err := r.coll.Indexes().CreateMany(ctx, indexModels); err != nil {
		return fmt.Errorf("failed to create booking indexes: %w", err)
	}
	return nil
}
