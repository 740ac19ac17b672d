package availability

import (
	"context"
	"time"

	"pawsit/models"

	"go.uber.org/zap"
)

// fakeAvailRepo is an in-memory AvailabilityRepository for service tests.
type fakeAvailRepo struct {
	rules      []models.AvailabilityRule
	exceptions []models.AvailabilityException
	config     *models.ServiceConfig
}

func (f *fakeAvailRepo) ReplaceRulesForDay(_ context.Context, sitterID string, service models.ServiceType, dayOfWeek int, rules []models.AvailabilityRule) error {
	kept := f.rules[:0]
	for _, r := range f.rules {
		if r.SitterID != sitterID || r.ServiceType != service || r.DayOfWeek != dayOfWeek {
			kept = append(kept, r)
		}
	}
	f.rules = append(kept, rules...)
	return nil
}

func (f *fakeAvailRepo) GetRules(_ context.Context, sitterID string, service models.ServiceType) ([]models.AvailabilityRule, error) {
	var out []models.AvailabilityRule
	for _, r := range f.rules {
		if r.SitterID == sitterID && r.ServiceType == service {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeAvailRepo) GetRulesForDay(ctx context.Context, sitterID string, service models.ServiceType, dayOfWeek int) ([]models.AvailabilityRule, error) {
	all, _ := f.GetRules(ctx, sitterID, service)
	var out []models.AvailabilityRule
	for _, r := range all {
		if r.DayOfWeek == dayOfWeek {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeAvailRepo) CreateException(_ context.Context, exc *models.AvailabilityException) error {
	f.exceptions = append(f.exceptions, *exc)
	return nil
}

func (f *fakeAvailRepo) DeleteException(_ context.Context, sitterID, excID string) error {
	for i, e := range f.exceptions {
		if e.SitterID == sitterID && e.ID == excID {
			f.exceptions = append(f.exceptions[:i], f.exceptions[i+1:]...)
			return nil
		}
	}
	return nil
}

func (f *fakeAvailRepo) GetExceptionsByDate(_ context.Context, sitterID string, service models.ServiceType, date string) ([]models.AvailabilityException, error) {
	var out []models.AvailabilityException
	for _, e := range f.exceptions {
		if e.SitterID == sitterID && e.ServiceType == service && e.Date == date {
			out = append(out, e)
		}
	}
	return out, nil
}

func (f *fakeAvailRepo) GetExceptionsInRange(_ context.Context, sitterID string, service models.ServiceType, fromDate, toDate string) ([]models.AvailabilityException, error) {
	var out []models.AvailabilityException
	for _, e := range f.exceptions {
		if e.SitterID == sitterID && e.ServiceType == service && e.Date >= fromDate && e.Date <= toDate {
			out = append(out, e)
		}
	}
	return out, nil
}

func (f *fakeAvailRepo) GetServiceConfig(_ context.Context, _ string, _ models.ServiceType) (*models.ServiceConfig, error) {
	return f.config, nil
}

func (f *fakeAvailRepo) UpsertServiceConfig(_ context.Context, cfg *models.ServiceConfig) error {
	f.config = cfg
	return nil
}

func (f *fakeAvailRepo) EnsureIndexes() error { return nil }

// fakeBookingStore implements the BookingRepository read methods the
// availability engine touches; mutations are not exercised here.
type fakeBookingStore struct {
	bookings []models.Booking
}

func (f *fakeBookingStore) InsertIfNoOverlap(_ context.Context, b *models.Booking) error {
	f.bookings = append(f.bookings, *b)
	return nil
}

func (f *fakeBookingStore) GetByID(_ context.Context, _ string) (*models.Booking, error) {
	panic("not used in availability tests")
}

func (f *fakeBookingStore) FindOverlapping(_ context.Context, sitterID string, startAt, endAt time.Time) ([]models.Booking, error) {
	var out []models.Booking
	for _, b := range f.bookings {
		if b.SitterID == sitterID && b.Status.IsNonTerminal() && b.StartAt.Before(endAt) && b.EndAt.After(startAt) {
			out = append(out, b)
		}
	}
	return out, nil
}

func (f *fakeBookingStore) FindIntersectingDates(ctx context.Context, sitterID string, fromDate, toDate time.Time) ([]models.Booking, error) {
	return f.FindOverlapping(ctx, sitterID, fromDate, toDate)
}

func (f *fakeBookingStore) UpdateStatus(_ context.Context, _ string, _ models.BookingStatus, _ map[string]interface{}) error {
	return nil
}
func (f *fakeBookingStore) SetArchived(_ context.Context, _ string, _ *time.Time) error { return nil }
func (f *fakeBookingStore) Delete(_ context.Context, _ string) error                    { return nil }
func (f *fakeBookingStore) ListByOwner(_ context.Context, _ string, _ bool) ([]models.Booking, error) {
	return nil, nil
}
func (f *fakeBookingStore) ListBySitter(_ context.Context, _ string, _ bool) ([]models.Booking, error) {
	return nil, nil
}
func (f *fakeBookingStore) FindDueReminders(_ context.Context, _ time.Time, _ time.Duration) ([]models.Booking, error) {
	return nil, nil
}
func (f *fakeBookingStore) MarkReminderSent(_ context.Context, _ string, _ time.Time) error {
	return nil
}
func (f *fakeBookingStore) FindDueReviewRequests(_ context.Context, _ time.Time, _ time.Duration) ([]models.Booking, error) {
	return nil, nil
}
func (f *fakeBookingStore) MarkReviewRequestSent(_ context.Context, _ string, _ time.Time) error {
	return nil
}
func (f *fakeBookingStore) EnsureIndexes() error { return nil }

func newTestService(repo *fakeAvailRepo, store *fakeBookingStore) *DefaultAvailabilityService {
	return &DefaultAvailabilityService{
		Repo:               repo,
		BookingRepo:        store,
		Logger:             zap.NewNop(),
		Loc:                time.UTC,
		DefaultLeadTime:    120,
		DefaultGranularity: 60,
		MaxRangeDays:       62,
	}
}
