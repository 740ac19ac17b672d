package availabilityRepo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// EnsureIndexes creates the necessary indexes on the availability collections.
func (r *mongoAvailabilityRepo) EnsureIndexes() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	ruleIdx := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "sitter_id", Value: 1}, {Key: "service_type", Value: 1}, {Key: "day_of_week", Value: 1}},
			Options: options.Index().SetName("sitter_service_dow_idx"),
		},
	}
	if _, err := r.ruleColl.Indexes().CreateMany(ctx, ruleIdx); err != nil {
		return fmt.Errorf("failed to create rule indexes: %w", err)
	}

	excIdx := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "id", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("unique_id"),
		},
		{
			Keys:    bson.D{{Key: "sitter_id", Value: 1}, {Key: "service_type", Value: 1}, {Key: "date", Value: 1}},
			Options: options.Index().SetName("sitter_service_date_idx"),
		},
	}
	if _, err := r.excColl.Indexes().CreateMany(ctx, excIdx); err != nil {
		return fmt.Errorf("failed to create exception indexes: %w", err)
	}

	cfgIdx := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "sitter_id", Value: 1}, {Key: "service_type", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("unique_sitter_service"),
		},
	}
	if _, err := r.configColl.Indexes().CreateMany(ctx, cfgIdx); err != nil {
		return fmt.Errorf("failed to create service config indexes: %w", err)
	}
	return nil
}
