package bookingRepo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"pawsit/models"
)

// overlapFilter matches non-terminal bookings for the sitter intersecting
// the half-open interval [startAt, endAt).
func overlapFilter(sitterID string, startAt, endAt time.Time) bson.M {
	return bson.M{
		"sitter_id": sitterID,
		"status":    bson.M{"$in": models.NonTerminalStatuses},
		"start_at":  bson.M{"$lt": endAt},
		"end_at":    bson.M{"$gt": startAt},
	}
}

// InsertIfNoOverlap serializes concurrent inserts per sitter by bumping a
// lock document inside the transaction: two racing transactions touching
// the same lock conflict, one aborts and retries against the committed
// state, so the overlap re-check below is authoritative. The application's
// earlier read is only a fast path.
func (r *mongoBookingRepo) InsertIfNoOverlap(ctx context.Context, booking *models.Booking) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	sess, err := r.coll.Database().Client().StartSession()
	if err != nil {
		return fmt.Errorf("could not start mongo session: %w", err)
	}
	defer sess.EndSession(ctx)

	txnFn := func(sc mongo.SessionContext) error {
		lockFilter := bson.M{"_id": booking.SitterID}
		lockUpdate := bson.M{"$inc": bson.M{"rev": 1}}
		if _, err := r.lockColl.UpdateOne(sc, lockFilter, lockUpdate, options.Update().SetUpsert(true)); err != nil {
			return fmt.Errorf("sitter lock update failed: %w", err)
		}

		count, err := r.coll.CountDocuments(sc, overlapFilter(booking.SitterID, booking.StartAt, booking.EndAt))
		if err != nil {
			return fmt.Errorf("overlap re-check failed: %w", err)
		}
		if count > 0 {
			return ErrOverlap
		}

		if _, err := r.coll.InsertOne(sc, booking); err != nil {
			return fmt.Errorf("insert booking failed: %w", err)
		}
		return nil
	}

	runTxn := func() error {
		return mongo.WithSession(ctx, sess, func(sc mongo.SessionContext) error {
			if err := sc.StartTransaction(); err != nil {
				return err
			}
			if err := txnFn(sc); err != nil {
				_ = sc.AbortTransaction(sc)
				return err
			}
			return sc.CommitTransaction(sc)
		})
	}

	err = runTxn()
	if cmdErr, ok := err.(mongo.CommandError); ok && cmdErr.HasErrorLabel("TransientTransactionError") {
		// Lost the lock race; retry once against the committed state.
		err = runTxn()
	}
	if err == ErrOverlap {
		return ErrOverlap
	}
	if err != nil {
		return fmt.Errorf("booking transaction failed: %w", err)
	}
	return nil
}
