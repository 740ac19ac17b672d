package availabilityRepo

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"pawsit/models"
)

func (r *mongoAvailabilityRepo) ReplaceRulesForDay(ctx context.Context, sitterID string, service models.ServiceType, dayOfWeek int, rules []models.AvailabilityRule) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{"sitter_id": sitterID, "service_type": service, "day_of_week": dayOfWeek}

	// Replace-all semantics: delete then insert inside one transaction so a
	// concurrent reader never sees a half-written day.
	sess, err := r.ruleColl.Database().Client().StartSession()
	if err != nil {
		return fmt.Errorf("could not start mongo session: %w", err)
	}
	defer sess.EndSession(ctx)

	txnFn := func(sc mongo.SessionContext) error {
		if _, err := r.ruleColl.DeleteMany(sc, filter); err != nil {
			return fmt.Errorf("delete existing rules failed: %w", err)
		}
		if len(rules) == 0 {
			return nil
		}
		docs := make([]interface{}, len(rules))
		for i, rule := range rules {
			rule.SitterID = sitterID
			rule.ServiceType = service
			rule.DayOfWeek = dayOfWeek
			docs[i] = rule
		}
		if _, err := r.ruleColl.InsertMany(sc, docs); err != nil {
			return fmt.Errorf("insert rules failed: %w", err)
		}
		return nil
	}

	if err := mongo.WithSession(ctx, sess, func(sc mongo.SessionContext) error {
		if err := sc.StartTransaction(); err != nil {
			return err
		}
		if err := txnFn(sc); err != nil {
			_ = sc.AbortTransaction(sc)
			return err
		}
		return sc.CommitTransaction(sc)
	}); err != nil {
		return fmt.Errorf("rule replacement transaction failed: %w", err)
	}
	return nil
}

func (r *mongoAvailabilityRepo) GetRules(ctx context.Context, sitterID string, service models.ServiceType) ([]models.AvailabilityRule, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{"sitter_id": sitterID, "service_type": service}
	opts := options.Find().SetSort(bson.D{{Key: "day_of_week", Value: 1}, {Key: "start_min", Value: 1}})
	cursor, err := r.ruleColl.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var rules []models.AvailabilityRule
	if err := cursor.All(ctx, &rules); err != nil {
		return nil, err
	}
	return rules, nil
}

func (r *mongoAvailabilityRepo) GetRulesForDay(ctx context.Context, sitterID string, service models.ServiceType, dayOfWeek int) ([]models.AvailabilityRule, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{"sitter_id": sitterID, "service_type": service, "day_of_week": dayOfWeek}
	opts := options.Find().SetSort(bson.D{{Key: "start_min", Value: 1}})
	cursor, err := r.ruleColl.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var rules []models.AvailabilityRule
	if err := cursor.All(ctx, &rules); err != nil {
		return nil, err
	}
	return rules, nil
}

func (r *mongoAvailabilityRepo) CreateException(ctx context.Context, exc *models.AvailabilityException) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if exc.ID == "" {
		exc.ID = uuid.New().String()
	}
	if _, err := r.excColl.InsertOne(ctx, exc); err != nil {
		return fmt.Errorf("insert exception failed: %w", err)
	}
	return nil
}

func (r *mongoAvailabilityRepo) DeleteException(ctx context.Context, sitterID, excID string) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	res, err := r.excColl.DeleteOne(ctx, bson.M{"id": excID, "sitter_id": sitterID})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

func (r *mongoAvailabilityRepo) GetExceptionsByDate(ctx context.Context, sitterID string, service models.ServiceType, date string) ([]models.AvailabilityException, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{"sitter_id": sitterID, "service_type": service, "date": date}
	opts := options.Find().SetSort(bson.D{{Key: "start_min", Value: 1}})
	cursor, err := r.excColl.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var excs []models.AvailabilityException
	if err := cursor.All(ctx, &excs); err != nil {
		return nil, err
	}
	return excs, nil
}

func (r *mongoAvailabilityRepo) GetExceptionsInRange(ctx context.Context, sitterID string, service models.ServiceType, fromDate, toDate string) ([]models.AvailabilityException, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	// Dates are "YYYY-MM-DD" so lexicographic range matches calendar order.
	filter := bson.M{
		"sitter_id":    sitterID,
		"service_type": service,
		"date":         bson.M{"$gte": fromDate, "$lte": toDate},
	}
	opts := options.Find().SetSort(bson.D{{Key: "date", Value: 1}, {Key: "start_min", Value: 1}})
	cursor, err := r.excColl.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var excs []models.AvailabilityException
	if err := cursor.All(ctx, &excs); err != nil {
		return nil, err
	}
	return excs, nil
}

func (r *mongoAvailabilityRepo) GetServiceConfig(ctx context.Context, sitterID string, service models.ServiceType) (*models.ServiceConfig, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var cfg models.ServiceConfig
	err := r.configColl.FindOne(ctx, bson.M{"sitter_id": sitterID, "service_type": service}).Decode(&cfg)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (r *mongoAvailabilityRepo) UpsertServiceConfig(ctx context.Context, cfg *models.ServiceConfig) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{"sitter_id": cfg.SitterID, "service_type": cfg.ServiceType}
	update := bson.M{"$set": cfg}
	opts := options.Update().SetUpsert(true)
	if _, err := r.configColl.UpdateOne(ctx, filter, update, opts); err != nil {
		return fmt.Errorf("upsert service config failed: %w", err)
	}
	return nil
}
