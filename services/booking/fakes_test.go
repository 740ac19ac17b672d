package booking

import (
	"context"
	"errors"
	"sync"
	"time"

	bookingRepo "pawsit/database/repository/booking"
	"pawsit/models"
	"pawsit/services/availability"
	"pawsit/services/notification"

	"go.uber.org/zap"
)

// memBookingRepo is an in-memory BookingRepository with the same overlap
// semantics as the Mongo implementation.
type memBookingRepo struct {
	mu       sync.Mutex
	bookings map[string]*models.Booking
}

func newMemBookingRepo() *memBookingRepo {
	return &memBookingRepo{bookings: make(map[string]*models.Booking)}
}

func (r *memBookingRepo) overlapsLocked(sitterID string, startAt, endAt time.Time) bool {
	for _, b := range r.bookings {
		if b.SitterID == sitterID && b.Status.IsNonTerminal() && b.StartAt.Before(endAt) && b.EndAt.After(startAt) {
			return true
		}
	}
	return false
}

func (r *memBookingRepo) InsertIfNoOverlap(_ context.Context, b *models.Booking) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.overlapsLocked(b.SitterID, b.StartAt, b.EndAt) {
		return bookingRepo.ErrOverlap
	}
	clone := *b
	r.bookings[b.ID] = &clone
	return nil
}

func (r *memBookingRepo) GetByID(_ context.Context, bookingID string) (*models.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.bookings[bookingID]
	if !ok {
		return nil, errors.New("not found")
	}
	clone := *b
	return &clone, nil
}

func (r *memBookingRepo) FindOverlapping(_ context.Context, sitterID string, startAt, endAt time.Time) ([]models.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Booking
	for _, b := range r.bookings {
		if b.SitterID == sitterID && b.Status.IsNonTerminal() && b.StartAt.Before(endAt) && b.EndAt.After(startAt) {
			out = append(out, *b)
		}
	}
	return out, nil
}

func (r *memBookingRepo) FindIntersectingDates(ctx context.Context, sitterID string, fromDate, toDate time.Time) ([]models.Booking, error) {
	return r.FindOverlapping(ctx, sitterID, fromDate, toDate)
}

func (r *memBookingRepo) UpdateStatus(_ context.Context, bookingID string, status models.BookingStatus, set map[string]interface{}) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.bookings[bookingID]
	if !ok {
		return errors.New("not found")
	}
	b.Status = status
	for k, v := range set {
		switch k {
		case "payment_reference":
			b.PaymentReference = v.(string)
		case "refund_reference":
			b.RefundReference = v.(string)
		case "refunded_at":
			at := v.(time.Time)
			b.RefundedAt = &at
		case "canceled_at":
			at := v.(time.Time)
			b.CanceledAt = &at
		}
	}
	return nil
}

func (r *memBookingRepo) SetArchived(_ context.Context, bookingID string, archivedAt *time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.bookings[bookingID]
	if !ok {
		return errors.New("not found")
	}
	b.ArchivedAt = archivedAt
	return nil
}

func (r *memBookingRepo) Delete(_ context.Context, bookingID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.bookings[bookingID]; !ok {
		return errors.New("not found")
	}
	delete(r.bookings, bookingID)
	return nil
}

func (r *memBookingRepo) ListByOwner(_ context.Context, ownerID string, includeArchived bool) ([]models.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Booking
	for _, b := range r.bookings {
		if b.OwnerID == ownerID && (includeArchived || b.ArchivedAt == nil) {
			out = append(out, *b)
		}
	}
	return out, nil
}

func (r *memBookingRepo) ListBySitter(_ context.Context, sitterID string, includeArchived bool) ([]models.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Booking
	for _, b := range r.bookings {
		if b.SitterID == sitterID && (includeArchived || b.ArchivedAt == nil) {
			out = append(out, *b)
		}
	}
	return out, nil
}

func (r *memBookingRepo) FindDueReminders(_ context.Context, _ time.Time, _ time.Duration) ([]models.Booking, error) {
	return nil, nil
}
func (r *memBookingRepo) MarkReminderSent(_ context.Context, _ string, _ time.Time) error { return nil }
func (r *memBookingRepo) FindDueReviewRequests(_ context.Context, _ time.Time, _ time.Duration) ([]models.Booking, error) {
	return nil, nil
}
func (r *memBookingRepo) MarkReviewRequestSent(_ context.Context, _ string, _ time.Time) error {
	return nil
}
func (r *memBookingRepo) EnsureIndexes() error { return nil }

// fakeSitterRepo serves a single sitter's pricing.
type fakeSitterRepo struct {
	sitter *models.Sitter
}

func (f *fakeSitterRepo) GetSitterByID(_ context.Context, sitterID string) (*models.Sitter, error) {
	if f.sitter == nil || f.sitter.ID != sitterID {
		return nil, errors.New("sitter not found")
	}
	return f.sitter, nil
}

func (f *fakeSitterRepo) GetOwnerByID(_ context.Context, _ string) (*models.Owner, error) {
	return &models.Owner{}, nil
}

func (f *fakeSitterRepo) UpsertSitterPricing(_ context.Context, _ string, _ map[models.ServiceType]int64) error {
	return nil
}

// fakeAvailability returns a fixed status for every requested day, with
// optional per-date overrides.
type fakeAvailability struct {
	status models.RangeStatus
	byDate map[string]models.RangeStatus
	err    error
}

func (f *fakeAvailability) statuses(fromDate, toDate string) ([]models.DayStatus, error) {
	if f.err != nil {
		return nil, f.err
	}
	from, _ := time.Parse("2006-01-02", fromDate)
	to, _ := time.Parse("2006-01-02", toDate)
	var out []models.DayStatus
	for d := from; !d.After(to); d = d.AddDate(0, 0, 1) {
		date := d.Format("2006-01-02")
		status := f.status
		if override, ok := f.byDate[date]; ok {
			status = override
		}
		out = append(out, models.DayStatus{Date: date, Status: status})
	}
	return out, nil
}

func (f *fakeAvailability) ComputeDaySlots(_ context.Context, _ time.Time, _ string, _ models.ServiceType, _ string, _ int) (*availability.SlotResult, error) {
	return &availability.SlotResult{}, nil
}

func (f *fakeAvailability) SummarizeRange(_ context.Context, _ time.Time, _ string, _ models.ServiceType, fromDate, toDate string) ([]models.DayStatus, error) {
	return f.statuses(fromDate, toDate)
}

func (f *fakeAvailability) SummarizeRangeFresh(_ context.Context, _ time.Time, _ string, _ models.ServiceType, fromDate, toDate string) ([]models.DayStatus, error) {
	return f.statuses(fromDate, toDate)
}

func (f *fakeAvailability) SetRules(_ context.Context, _ string, _ models.ServiceType, _ int, _ []models.AvailabilityRule) error {
	return nil
}

func (f *fakeAvailability) CreateException(_ context.Context, _ string, exc models.AvailabilityException) (*models.AvailabilityException, error) {
	return &exc, nil
}

func (f *fakeAvailability) DeleteException(_ context.Context, _, _ string) error { return nil }

func (f *fakeAvailability) UpsertServiceConfig(_ context.Context, _ models.ServiceConfig) error {
	return nil
}

// fakePayments records intent and refund calls.
type fakePayments struct {
	mu         sync.Mutex
	refundErr  error
	intentErr  error
	refundKeys []string
	refundRefs int
	intents    int
}

func (f *fakePayments) CreatePaymentIntent(_ context.Context, _ int64, _ string, _ map[string]string) (string, string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.intentErr != nil {
		return "", "", f.intentErr
	}
	f.intents++
	return "pi_test", "secret_test", nil
}

func (f *fakePayments) Refund(_ context.Context, _ string, idempotencyKey string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.refundErr != nil {
		return "", f.refundErr
	}
	f.refundKeys = append(f.refundKeys, idempotencyKey)
	f.refundRefs++
	return "re_test", nil
}

type fakeMessaging struct{ threads int }

func (f *fakeMessaging) EnsureThread(_ context.Context, _, _ string) (*models.MessageThread, error) {
	f.threads++
	return &models.MessageThread{}, nil
}

// recordingNotifier collects dispatched notification keys.
type recordingNotifier struct {
	mu   sync.Mutex
	keys []string
}

func (f *recordingNotifier) Notify(_ context.Context, _, key, _ string, _ map[string]string) models.DispatchResult {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.keys = append(f.keys, key)
	return models.DispatchSent
}

var _ notification.NotificationService = (*recordingNotifier)(nil)

type testEnv struct {
	svc      *DefaultBookingService
	repo     *memBookingRepo
	payments *fakePayments
	notifier *recordingNotifier
	avail    *fakeAvailability
}

func newTestEnv() *testEnv {
	repo := newMemBookingRepo()
	payments := &fakePayments{}
	notifier := &recordingNotifier{}
	avail := &fakeAvailability{status: models.StatusAvailable}
	logger := zap.NewNop()

	svc := &DefaultBookingService{
		Repo:         repo,
		SitterRepo:   &fakeSitterRepo{sitter: &models.Sitter{ID: "sitter-1", Pricing: map[models.ServiceType]int64{
			models.ServiceWalking:  2000,
			models.ServiceBoarding: 3000,
		}}},
		Availability: avail,
		Payments:     payments,
		Messaging:    &fakeMessaging{},
		Events: &EventDispatcher{
			Notifier: notifier,
			Logger:   logger,
			Timeout:  time.Second,
		},
		Logger:         logger,
		Loc:            time.UTC,
		Currency:       "EUR",
		CommissionRate: 0.15,
		MinAmount:      500,
		CancelDeadline: 24 * time.Hour,
		CollabTimeout:  time.Second,
	}
	return &testEnv{svc: svc, repo: repo, payments: payments, notifier: notifier, avail: avail}
}
