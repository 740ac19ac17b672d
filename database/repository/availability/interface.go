package availabilityRepo

import (
	"context"

	"pawsit/database"
	"pawsit/models"

	"go.mongodb.org/mongo-driver/mongo"
)

// AvailabilityRepository persists recurring rules, date exceptions and
// per-service configuration for sitters.
type AvailabilityRepository interface {
	// ReplaceRulesForDay swaps out every rule for (sitter, service, dayOfWeek).
	ReplaceRulesForDay(ctx context.Context, sitterID string, service models.ServiceType, dayOfWeek int, rules []models.AvailabilityRule) error
	GetRules(ctx context.Context, sitterID string, service models.ServiceType) ([]models.AvailabilityRule, error)
	GetRulesForDay(ctx context.Context, sitterID string, service models.ServiceType, dayOfWeek int) ([]models.AvailabilityRule, error)

	CreateException(ctx context.Context, exc *models.AvailabilityException) error
	// DeleteException removes an exception by id, scoped to the owning sitter.
	DeleteException(ctx context.Context, sitterID, excID string) error
	GetExceptionsByDate(ctx context.Context, sitterID string, service models.ServiceType, date string) ([]models.AvailabilityException, error)
	GetExceptionsInRange(ctx context.Context, sitterID string, service models.ServiceType, fromDate, toDate string) ([]models.AvailabilityException, error)

	// GetServiceConfig returns nil when the sitter never configured the service.
	GetServiceConfig(ctx context.Context, sitterID string, service models.ServiceType) (*models.ServiceConfig, error)
	UpsertServiceConfig(ctx context.Context, cfg *models.ServiceConfig) error

	EnsureIndexes() error
}

type mongoAvailabilityRepo struct {
	ruleColl   *mongo.Collection
	excColl    *mongo.Collection
	configColl *mongo.Collection
}

// NewMongoAvailabilityRepo constructs a new MongoDB AvailabilityRepository.
func NewMongoAvailabilityRepo() AvailabilityRepository {
	db := database.DB()
	return &mongoAvailabilityRepo{
		ruleColl:   db.Collection("availability_rules"),
		excColl:    db.Collection("availability_exceptions"),
		configColl: db.Collection("service_configs"),
	}
}
