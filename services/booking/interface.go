package booking

import (
	"context"
	"time"

	bookingRepo "pawsit/database/repository/booking"
	sitterRepo "pawsit/database/repository/sitter"
	"pawsit/models"
	"pawsit/services/availability"
	"pawsit/services/messaging"

	"go.uber.org/zap"
)

// Actor identifies who is driving a transition.
type Actor struct {
	ID   string
	Role string // "owner" or "sitter"
}

// CreateBookingRequest is a prospective booking. Daily services carry
// StartDate/EndDate ("YYYY-MM-DD"); hourly services carry RFC 3339
// StartAt/EndAt.
type CreateBookingRequest struct {
	OwnerID     string             `json:"-"`
	SitterID    string             `json:"sitterId" binding:"required"`
	ServiceType models.ServiceType `json:"serviceType" binding:"required"`
	StartDate   string             `json:"startDate,omitempty"`
	EndDate     string             `json:"endDate,omitempty"`
	StartAt     string             `json:"startAt,omitempty"`
	EndAt       string             `json:"endAt,omitempty"`
	Message     string             `json:"message,omitempty"`
}

// PaymentIntentResult is handed to the client to complete payment.
type PaymentIntentResult struct {
	Reference    string `json:"reference"`
	ClientSecret string `json:"clientSecret"`
}

// BookingService gates new bookings and owns the lifecycle state machine.
// "now" is an explicit parameter throughout so tests control the clock.
type BookingService interface {
	CreateBooking(ctx context.Context, now time.Time, req CreateBookingRequest) (*models.Booking, error)
	AttachPaymentIntent(ctx context.Context, bookingID string, actor Actor) (*PaymentIntentResult, error)
	GetBooking(ctx context.Context, bookingID string, actor Actor) (*models.Booking, error)
	ListBookings(ctx context.Context, actor Actor) ([]models.Booking, error)

	// Payment-processor driven transitions (webhook consumers).
	MarkPaid(ctx context.Context, bookingID string) (changed bool, err error)
	MarkPaymentFailed(ctx context.Context, bookingID string) error

	// Actor-driven transitions.
	Transition(ctx context.Context, now time.Time, bookingID, action string, actor Actor) (*models.Booking, error)
}

// DefaultBookingService is the production implementation.
type DefaultBookingService struct {
	Repo         bookingRepo.BookingRepository
	SitterRepo   sitterRepo.SitterRepository
	Availability availability.AvailabilityService
	Payments     PaymentProcessor
	Messaging    messaging.MessagingService
	Events       *EventDispatcher
	Logger       *zap.Logger

	Loc            *time.Location
	Currency       string
	CommissionRate float64
	MinAmount      int64
	CancelDeadline time.Duration
	CollabTimeout  time.Duration
}
