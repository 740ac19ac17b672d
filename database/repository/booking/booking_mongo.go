package bookingRepo

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"pawsit/models"
)

func (r *mongoBookingRepo) GetByID(ctx context.Context, bookingID string) (*models.Booking, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var b models.Booking
	if err := r.coll.FindOne(ctx, bson.M{"id": bookingID}).Decode(&b); err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *mongoBookingRepo) FindOverlapping(ctx context.Context, sitterID string, startAt, endAt time.Time) ([]models.Booking, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	cursor, err := r.coll.Find(ctx, overlapFilter(sitterID, startAt, endAt))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var bookings []models.Booking
	if err := cursor.All(ctx, &bookings); err != nil {
		return nil, err
	}
	return bookings, nil
}

func (r *mongoBookingRepo) FindIntersectingDates(ctx context.Context, sitterID string, fromDate, toDate time.Time) ([]models.Booking, error) {
	return r.FindOverlapping(ctx, sitterID, fromDate, toDate)
}

func (r *mongoBookingRepo) UpdateStatus(ctx context.Context, bookingID string, status models.BookingStatus, set map[string]interface{}) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	fields := bson.M{"status": status, "updated_at": time.Now()}
	for k, v := range set {
		fields[k] = v
	}
	res, err := r.coll.UpdateOne(ctx, bson.M{"id": bookingID}, bson.M{"$set": fields})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

func (r *mongoBookingRepo) SetArchived(ctx context.Context, bookingID string, archivedAt *time.Time) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var update bson.M
	if archivedAt != nil {
		update = bson.M{"$set": bson.M{"archived_at": archivedAt, "updated_at": time.Now()}}
	} else {
		update = bson.M{
			"$unset": bson.M{"archived_at": ""},
			"$set":   bson.M{"updated_at": time.Now()},
		}
	}
	res, err := r.coll.UpdateOne(ctx, bson.M{"id": bookingID}, update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

func (r *mongoBookingRepo) Delete(ctx context.Context, bookingID string) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	res, err := r.coll.DeleteOne(ctx, bson.M{"id": bookingID})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

func (r *mongoBookingRepo) ListByOwner(ctx context.Context, ownerID string, includeArchived bool) ([]models.Booking, error) {
	filter := bson.M{"owner_id": ownerID}
	if !includeArchived {
		filter["archived_at"] = bson.M{"$exists": false}
	}
	return r.list(ctx, filter)
}

func (r *mongoBookingRepo) ListBySitter(ctx context.Context, sitterID string, includeArchived bool) ([]models.Booking, error) {
	filter := bson.M{"sitter_id": sitterID}
	if !includeArchived {
		filter["archived_at"] = bson.M{"$exists": false}
	}
	return r.list(ctx, filter)
}

func (r *mongoBookingRepo) list(ctx context.Context, filter bson.M) ([]models.Booking, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "start_at", Value: -1}})
	cursor, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var bookings []models.Booking
	if err := cursor.All(ctx, &bookings); err != nil {
		return nil, err
	}
	return bookings, nil
}

func (r *mongoBookingRepo) FindDueReminders(ctx context.Context, now time.Time, leadWindow time.Duration) ([]models.Booking, error) {
	filter := bson.M{
		"status":           models.BookingConfirmed,
		"start_at":         bson.M{"$gt": now, "$lte": now.Add(leadWindow)},
		"reminder_sent_at": bson.M{"$exists": false},
	}
	return r.list(ctx, filter)
}

func (r *mongoBookingRepo) MarkReminderSent(ctx context.Context, bookingID string, at time.Time) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	_, err := r.coll.UpdateOne(ctx, bson.M{"id": bookingID}, bson.M{"$set": bson.M{"reminder_sent_at": at}})
	return err
}

func (r *mongoBookingRepo) FindDueReviewRequests(ctx context.Context, now time.Time, delay time.Duration) ([]models.Booking, error) {
	filter := bson.M{
		"status":                 models.BookingConfirmed,
		"end_at":                 bson.M{"$lte": now.Add(-delay)},
		"review_request_sent_at": bson.M{"$exists": false},
	}
	return r.list(ctx, filter)
}

func (r *mongoBookingRepo) MarkReviewRequestSent(ctx context.Context, bookingID string, at time.Time) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	_, err := r.coll.UpdateOne(ctx, bson.M{"id": bookingID}, bson.M{"$set": bson.M{"review_request_sent_at": at}})
	return err
}
