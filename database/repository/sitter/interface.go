package sitterRepo

import (
	"context"

	"pawsit/database"
	"pawsit/models"

	"go.mongodb.org/mongo-driver/mongo"
)

// SitterRepository is the engine's narrow read/write surface over sitter
// and owner profiles: published pricing and push targets.
type SitterRepository interface {
	GetSitterByID(ctx context.Context, sitterID string) (*models.Sitter, error)
	GetOwnerByID(ctx context.Context, ownerID string) (*models.Owner, error)
	UpsertSitterPricing(ctx context.Context, sitterID string, pricing map[models.ServiceType]int64) error
}

type mongoSitterRepo struct {
	sitterColl *mongo.Collection
	ownerColl  *mongo.Collection
}

// NewMongoSitterRepo constructs a new MongoDB SitterRepository.
func NewMongoSitterRepo() SitterRepository {
	db := database.DB()
	return &mongoSitterRepo{
		sitterColl: db.Collection("sitters"),
		ownerColl:  db.Collection("owners"),
	}
}
