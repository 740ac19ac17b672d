package sitterRepo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"

	"pawsit/models"
)

func (r *mongoSitterRepo) GetSitterByID(ctx context.Context, sitterID string) (*models.Sitter, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var s models.Sitter
	if err := r.sitterColl.FindOne(ctx, bson.M{"id": sitterID}).Decode(&s); err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *mongoSitterRepo) GetOwnerByID(ctx context.Context, ownerID string) (*models.Owner, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var o models.Owner
	if err := r.ownerColl.FindOne(ctx, bson.M{"id": ownerID}).Decode(&o); err != nil {
		return nil, err
	}
	return &o, nil
}

func (r *mongoSitterRepo) UpsertSitterPricing(ctx context.Context, sitterID string, pricing map[models.ServiceType]int64) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{"id": sitterID}
	update := bson.M{"$set": bson.M{"pricing": pricing, "updated_at": time.Now()}}
	if _, err := r.sitterColl.UpdateOne(ctx, filter, update, options.Update().SetUpsert(true)); err != nil {
		return fmt.Errorf("upsert sitter pricing failed: %w", err)
	}
	return nil
}
