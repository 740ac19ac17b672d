package bookingRepo

import (
	"context"
	"errors"
	"time"

	"pawsit/database"
	"pawsit/models"

	"go.mongodb.org/mongo-driver/mongo"
)

// ErrOverlap is returned when an insert would double-book the sitter.
var ErrOverlap = errors.New("booking overlaps an existing non-terminal booking")

// BookingRepository persists bookings and enforces the no-double-booking
// invariant at the storage layer.
type BookingRepository interface {
	// InsertIfNoOverlap atomically re-checks the overlap invariant and
	// inserts the booking; returns ErrOverlap when another non-terminal
	// booking for the sitter intersects [StartAt, EndAt).
	InsertIfNoOverlap(ctx context.Context, booking *models.Booking) error

	GetByID(ctx context.Context, bookingID string) (*models.Booking, error)
	FindOverlapping(ctx context.Context, sitterID string, startAt, endAt time.Time) ([]models.Booking, error)
	// FindIntersectingDates returns non-terminal bookings whose window
	// intersects the [fromDate, toDate] calendar range.
	FindIntersectingDates(ctx context.Context, sitterID string, fromDate, toDate time.Time) ([]models.Booking, error)

	UpdateStatus(ctx context.Context, bookingID string, status models.BookingStatus, set map[string]interface{}) error
	SetArchived(ctx context.Context, bookingID string, archivedAt *time.Time) error
	Delete(ctx context.Context, bookingID string) error

	ListByOwner(ctx context.Context, ownerID string, includeArchived bool) ([]models.Booking, error)
	ListBySitter(ctx context.Context, sitterID string, includeArchived bool) ([]models.Booking, error)

	// Scheduled-scan queries; both exclude bookings already marked.
	FindDueReminders(ctx context.Context, now time.Time, leadWindow time.Duration) ([]models.Booking, error)
	MarkReminderSent(ctx context.Context, bookingID string, at time.Time) error
	FindDueReviewRequests(ctx context.Context, now time.Time, delay time.Duration) ([]models.Booking, error)
	MarkReviewRequestSent(ctx context.Context, bookingID string, at time.Time) error

	EnsureIndexes() error
}

type mongoBookingRepo struct {
	coll     *mongo.Collection
	lockColl *mongo.Collection
}

// NewMongoBookingRepo constructs a new MongoDB BookingRepository.
func NewMongoBookingRepo() BookingRepository {
	db := database.DB()
	return &mongoBookingRepo{
		coll:     db.Collection("bookings"),
		lockColl: db.Collection("booking_locks"),
	}
}
