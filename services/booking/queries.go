package booking

import (
	"context"
	"fmt"

	"pawsit/models"

	"go.uber.org/zap"
)

// load fetches a booking and enforces that the actor is a participant.
func (s *DefaultBookingService) load(ctx context.Context, bookingID string, actor Actor) (*models.Booking, error) {
	b, err := s.Repo.GetByID(ctx, bookingID)
	if err != nil {
		return nil, NewTransitionError(CodeNotFound, fmt.Sprintf("booking %s not found", bookingID))
	}
	if actor.ID != b.OwnerID && actor.ID != b.SitterID {
		return nil, NewTransitionError(CodeForbidden, "booking belongs to another user")
	}
	return b, nil
}

// AttachPaymentIntent creates (or returns the already-attached) payment
// intent for a PENDING_PAYMENT booking. Repeated calls are idempotent:
// once a reference is stored, no second intent is created.
func (s *DefaultBookingService) AttachPaymentIntent(ctx context.Context, bookingID string, actor Actor) (*PaymentIntentResult, error) {
	b, err := s.load(ctx, bookingID, actor)
	if err != nil {
		return nil, err
	}
	if actor.ID != b.OwnerID {
		return nil, NewTransitionError(CodeForbidden, "only the owner can pay for a booking")
	}
	if b.Status != models.BookingPendingPayment && b.Status != models.BookingPaymentFailed {
		return nil, NewTransitionError(CodeIllegalTransition,
			fmt.Sprintf("cannot pay a booking in status %s", b.Status))
	}
	if b.PaymentReference != "" {
		return &PaymentIntentResult{Reference: b.PaymentReference}, nil
	}

	pctx, cancel := context.WithTimeout(ctx, s.CollabTimeout)
	defer cancel()
	ref, secret, err := s.Payments.CreatePaymentIntent(pctx, b.Amount, b.Currency, map[string]string{
		"bookingId": b.ID,
		"sitterId":  b.SitterID,
	})
	if err != nil {
		s.Logger.Error("payment intent creation failed",
			zap.String("bookingID", b.ID), zap.Error(err))
		return nil, NewTransitionError(CodePaymentFailed, "could not initialize payment")
	}

	if err := s.Repo.UpdateStatus(ctx, b.ID, b.Status, map[string]interface{}{
		"payment_reference": ref,
	}); err != nil {
		return nil, fmt.Errorf("failed to store payment reference: %w", err)
	}
	return &PaymentIntentResult{Reference: ref, ClientSecret: secret}, nil
}

func (s *DefaultBookingService) GetBooking(ctx context.Context, bookingID string, actor Actor) (*models.Booking, error) {
	return s.load(ctx, bookingID, actor)
}

// ListBookings returns the actor's bookings, newest first, excluding
// archived ones. A stale or partially visible read here is tolerated:
// the list is a view, not a gate input.
func (s *DefaultBookingService) ListBookings(ctx context.Context, actor Actor) ([]models.Booking, error) {
	var (
		out []models.Booking
		err error
	)
	if actor.Role == "sitter" {
		out, err = s.Repo.ListBySitter(ctx, actor.ID, false)
	} else {
		out, err = s.Repo.ListByOwner(ctx, actor.ID, false)
	}
	if err != nil {
		s.Logger.Warn("booking list read failed",
			zap.String("userID", actor.ID), zap.Error(err))
		return []models.Booking{}, nil
	}
	if out == nil {
		out = []models.Booking{}
	}
	return out, nil
}
