package availability

import (
	"context"
	"time"

	availabilityRepo "pawsit/database/repository/availability"
	bookingRepo "pawsit/database/repository/booking"
	"pawsit/models"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

// SlotResult is the outcome of a single-day slot computation.
type SlotResult struct {
	Slots       []models.Slot `json:"slots"`
	DurationMin int           `json:"durationMin"`
}

// AvailabilityService computes calendars and manages rules, exceptions and
// service configuration. "now" is always an explicit parameter so callers
// and tests control the clock; the location is the platform's fixed
// reference zone.
type AvailabilityService interface {
	ComputeDaySlots(ctx context.Context, now time.Time, sitterID string, service models.ServiceType, date string, durationMin int) (*SlotResult, error)
	SummarizeRange(ctx context.Context, now time.Time, sitterID string, service models.ServiceType, fromDate, toDate string) ([]models.DayStatus, error)
	// SummarizeRangeFresh bypasses the calendar cache; the booking gate
	// must see a per-request snapshot, never a shared cached one.
	SummarizeRangeFresh(ctx context.Context, now time.Time, sitterID string, service models.ServiceType, fromDate, toDate string) ([]models.DayStatus, error)

	SetRules(ctx context.Context, sitterID string, service models.ServiceType, dayOfWeek int, ranges []models.AvailabilityRule) error
	CreateException(ctx context.Context, sitterID string, exc models.AvailabilityException) (*models.AvailabilityException, error)
	DeleteException(ctx context.Context, sitterID, excID string) error
	UpsertServiceConfig(ctx context.Context, cfg models.ServiceConfig) error
}

// DefaultAvailabilityService is the production implementation.
type DefaultAvailabilityService struct {
	Repo        availabilityRepo.AvailabilityRepository
	BookingRepo bookingRepo.BookingRepository
	Cache       *redis.Client // optional short-TTL calendar cache
	CacheTTL    time.Duration
	Logger      *zap.Logger

	Loc                *time.Location
	DefaultLeadTime    int // minutes
	DefaultGranularity int // minutes
	MaxRangeDays       int
}
