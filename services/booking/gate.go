package booking

import (
	"context"
	"fmt"
	"time"

	bookingRepo "pawsit/database/repository/booking"
	"pawsit/models"
	"pawsit/services/notification"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// bookingWindow is the parsed, zone-normalized request range.
type bookingWindow struct {
	startAt   time.Time
	endAt     time.Time // exclusive
	startDate string
	endDate   string
	days      int // covered calendar days
}

func (s *DefaultBookingService) parseWindow(now time.Time, req CreateBookingRequest) (*bookingWindow, error) {
	nowLocal := now.In(s.Loc)
	today := time.Date(nowLocal.Year(), nowLocal.Month(), nowLocal.Day(), 0, 0, 0, 0, s.Loc)

	if models.IsDailyService(req.ServiceType) {
		if req.StartDate == "" || req.EndDate == "" {
			return nil, NewGateError(CodeInvalidRequest, "daily bookings require startDate and endDate")
		}
		start, err := time.ParseInLocation("2006-01-02", req.StartDate, s.Loc)
		if err != nil {
			return nil, NewGateError(CodeInvalidDate, fmt.Sprintf("invalid startDate %q", req.StartDate))
		}
		end, err := time.ParseInLocation("2006-01-02", req.EndDate, s.Loc)
		if err != nil {
			return nil, NewGateError(CodeInvalidDate, fmt.Sprintf("invalid endDate %q", req.EndDate))
		}
		if end.Before(start) {
			return nil, NewGateError(CodeInvalidDate, "endDate precedes startDate")
		}
		if start.Before(today) {
			return nil, NewGateError(CodePastDate, "startDate is in the past")
		}
		return &bookingWindow{
			startAt:   start,
			endAt:     end.AddDate(0, 0, 1),
			startDate: req.StartDate,
			endDate:   req.EndDate,
			days:      InclusiveDays(start, end),
		}, nil
	}

	if req.StartAt == "" || req.EndAt == "" {
		return nil, NewGateError(CodeInvalidRequest, "hourly bookings require startAt and endAt")
	}
	start, err := time.Parse(time.RFC3339, req.StartAt)
	if err != nil {
		return nil, NewGateError(CodeInvalidDate, fmt.Sprintf("invalid startAt %q", req.StartAt))
	}
	end, err := time.Parse(time.RFC3339, req.EndAt)
	if err != nil {
		return nil, NewGateError(CodeInvalidDate, fmt.Sprintf("invalid endAt %q", req.EndAt))
	}
	start, end = start.In(s.Loc), end.In(s.Loc)
	if !end.After(start) {
		return nil, NewGateError(CodeInvalidDate, "endAt must be after startAt")
	}
	if start.Before(nowLocal) {
		return nil, NewGateError(CodePastDate, "startAt is in the past")
	}
	// Hourly bookings are gated on the day the visit starts; a walk that
	// runs past midnight does not need the next calendar day to be open.
	startDate := start.Format("2006-01-02")
	return &bookingWindow{
		startAt:   start,
		endAt:     end,
		startDate: startDate,
		endDate:   startDate,
		days:      1,
	}, nil
}

// CreateBooking runs the full gate: validation, pricing, availability and
// overlap checks, then persists the booking PENDING_PAYMENT. The overlap
// check here is the fast path; the store re-checks inside a per-sitter
// serialized transaction.
func (s *DefaultBookingService) CreateBooking(ctx context.Context, now time.Time, req CreateBookingRequest) (*models.Booking, error) {
	if !models.IsValidServiceType(req.ServiceType) {
		return nil, NewGateError(CodeInvalidRequest, fmt.Sprintf("unknown service type %q", req.ServiceType))
	}
	if req.OwnerID == "" || req.SitterID == "" {
		return nil, NewGateError(CodeInvalidRequest, "ownerId and sitterId are required")
	}
	if req.OwnerID == req.SitterID {
		return nil, NewGateError(CodeInvalidRequest, "owners cannot book themselves")
	}

	window, err := s.parseWindow(now, req)
	if err != nil {
		return nil, err
	}

	sitter, err := s.SitterRepo.GetSitterByID(ctx, req.SitterID)
	if err != nil {
		return nil, fmt.Errorf("failed to load sitter: %w", err)
	}
	unitPrice := sitter.UnitPrice(req.ServiceType)
	if unitPrice <= 0 {
		return nil, NewGateError(CodeServiceNotPriced, fmt.Sprintf("sitter has no price for %s", req.ServiceType))
	}

	var amount int64
	if models.IsDailyService(req.ServiceType) {
		amount = DailyAmount(unitPrice, window.days)
	} else {
		amount = HourlyAmount(unitPrice, window.endAt.Sub(window.startAt))
	}
	if amount < s.MinAmount {
		return nil, NewGateError(CodeAmountTooSmall,
			fmt.Sprintf("amount %d below minimum %d", amount, s.MinAmount))
	}
	fee := PlatformFee(amount, s.CommissionRate)

	// Every covered day must be explicitly available; hourly bookings are
	// gated on the local calendar day containing the start time.
	statuses, err := s.Availability.SummarizeRangeFresh(ctx, now, req.SitterID, req.ServiceType, window.startDate, window.endDate)
	if err != nil {
		return nil, err
	}
	for _, day := range statuses {
		if day.Status != models.StatusAvailable {
			return nil, NewGateError(CodeDateNotAvailable, fmt.Sprintf("%s is not available", day.Date))
		}
	}

	overlapping, err := s.Repo.FindOverlapping(ctx, req.SitterID, window.startAt, window.endAt)
	if err != nil {
		return nil, fmt.Errorf("overlap check failed: %w", err)
	}
	if len(overlapping) > 0 {
		return nil, NewGateError(CodeDateAlreadyBooked, "sitter already has a booking in this range")
	}

	b := &models.Booking{
		ID:                uuid.New().String(),
		OwnerID:           req.OwnerID,
		SitterID:          req.SitterID,
		ServiceType:       req.ServiceType,
		StartDate:         window.startDate,
		EndDate:           window.endDate,
		StartAt:           window.startAt,
		EndAt:             window.endAt,
		Message:           req.Message,
		Status:            models.BookingPendingPayment,
		Amount:            amount,
		Currency:          s.Currency,
		PlatformFeeAmount: fee,
		CreatedAt:         now,
		UpdatedAt:         now,
	}

	if err := s.Repo.InsertIfNoOverlap(ctx, b); err != nil {
		if err == bookingRepo.ErrOverlap {
			return nil, NewGateError(CodeDateAlreadyBooked, "sitter already has a booking in this range")
		}
		return nil, fmt.Errorf("failed to persist booking: %w", err)
	}

	// Thread creation is best-effort; a messaging outage must not fail
	// the booking.
	mctx, cancel := context.WithTimeout(ctx, s.CollabTimeout)
	if _, err := s.Messaging.EnsureThread(mctx, req.OwnerID, req.SitterID); err != nil {
		s.Logger.Warn("failed to ensure message thread",
			zap.String("bookingID", b.ID), zap.Error(err))
	}
	cancel()

	s.Events.Dispatch([]LifecycleEvent{bookingEvent(b.SitterID, notification.KeyBookingRequested, b)})

	s.Logger.Info("created booking",
		zap.String("bookingID", b.ID),
		zap.String("sitterID", b.SitterID),
		zap.Int64("amount", amount),
		zap.Int64("platformFee", fee))
	return b, nil
}
