package booking

import (
	"context"
	"fmt"
	"time"

	"pawsit/models"
	"pawsit/services/notification"

	"go.uber.org/zap"
)

// Lifecycle actions accepted by Transition.
const (
	ActionAccept    = "accept"
	ActionDecline   = "decline"
	ActionCancel    = "cancel"
	ActionArchive   = "archive"
	ActionUnarchive = "unarchive"
	ActionDelete    = "delete"
)

// markPaidNoOp holds the statuses for which a duplicate payment
// confirmation is silently absorbed.
var markPaidNoOp = map[models.BookingStatus]bool{
	models.BookingPaid:      true,
	models.BookingConfirmed: true,
	models.BookingCancelled: true,
	models.BookingRefunded:  true,
}

// MarkPaid applies a payment-processor success signal. Confirmations
// arrive at-least-once and out of order, so replays against an already
// settled booking return changed=false instead of an error.
func (s *DefaultBookingService) MarkPaid(ctx context.Context, bookingID string) (bool, error) {
	b, err := s.Repo.GetByID(ctx, bookingID)
	if err != nil {
		return false, NewTransitionError(CodeNotFound, fmt.Sprintf("booking %s not found", bookingID))
	}
	if markPaidNoOp[b.Status] {
		return false, nil
	}
	if b.Status != models.BookingPendingPayment && b.Status != models.BookingPaymentFailed {
		return false, NewTransitionError(CodeIllegalTransition,
			fmt.Sprintf("cannot mark a %s booking paid", b.Status))
	}

	if err := s.Repo.UpdateStatus(ctx, b.ID, models.BookingPaid, nil); err != nil {
		return false, fmt.Errorf("failed to mark booking paid: %w", err)
	}
	b.Status = models.BookingPaid
	s.Events.Dispatch(fanOut(notification.KeyBookingPaid, b))
	s.Logger.Info("booking paid", zap.String("bookingID", b.ID))
	return true, nil
}

// MarkPaymentFailed applies a payment-processor failure signal.
func (s *DefaultBookingService) MarkPaymentFailed(ctx context.Context, bookingID string) error {
	b, err := s.Repo.GetByID(ctx, bookingID)
	if err != nil {
		return NewTransitionError(CodeNotFound, fmt.Sprintf("booking %s not found", bookingID))
	}
	if b.Status == models.BookingPaymentFailed {
		return nil
	}
	if b.Status != models.BookingPendingPayment {
		return NewTransitionError(CodeIllegalTransition,
			fmt.Sprintf("cannot fail payment for a %s booking", b.Status))
	}

	if err := s.Repo.UpdateStatus(ctx, b.ID, models.BookingPaymentFailed, nil); err != nil {
		return fmt.Errorf("failed to mark payment failed: %w", err)
	}
	b.Status = models.BookingPaymentFailed
	s.Events.Dispatch([]LifecycleEvent{bookingEvent(b.OwnerID, notification.KeyBookingPaymentFailed, b)})
	return nil
}

// Transition dispatches an actor-driven lifecycle action.
func (s *DefaultBookingService) Transition(ctx context.Context, now time.Time, bookingID, action string, actor Actor) (*models.Booking, error) {
	b, err := s.load(ctx, bookingID, actor)
	if err != nil {
		return nil, err
	}

	switch action {
	case ActionAccept:
		return s.accept(ctx, b, actor)
	case ActionDecline:
		return s.decline(ctx, now, b, actor)
	case ActionCancel:
		return s.ownerCancel(ctx, now, b, actor)
	case ActionArchive:
		return s.archive(ctx, now, b)
	case ActionUnarchive:
		return s.unarchive(ctx, b)
	case ActionDelete:
		return nil, s.delete(ctx, b)
	default:
		return nil, NewTransitionError(CodeIllegalTransition, fmt.Sprintf("unknown action %q", action))
	}
}

func (s *DefaultBookingService) accept(ctx context.Context, b *models.Booking, actor Actor) (*models.Booking, error) {
	if actor.ID != b.SitterID {
		return nil, NewTransitionError(CodeForbidden, "only the sitter can accept a booking")
	}
	if b.Archived() {
		return nil, NewTransitionError(CodeArchived, "cannot accept an archived booking")
	}
	switch b.Status {
	case models.BookingPaid, models.BookingPendingAcceptance:
	case models.BookingCancelled, models.BookingRefunded:
		return nil, NewTransitionError(CodeAlreadyCancelled, "booking was already cancelled")
	default:
		return nil, NewTransitionError(CodeIllegalTransition,
			fmt.Sprintf("cannot accept a %s booking", b.Status))
	}

	if err := s.Repo.UpdateStatus(ctx, b.ID, models.BookingConfirmed, nil); err != nil {
		return nil, fmt.Errorf("failed to confirm booking: %w", err)
	}
	b.Status = models.BookingConfirmed
	s.Events.Dispatch([]LifecycleEvent{bookingEvent(b.OwnerID, notification.KeyBookingConfirmed, b)})
	s.Logger.Info("booking confirmed", zap.String("bookingID", b.ID))
	return b, nil
}

func (s *DefaultBookingService) decline(ctx context.Context, now time.Time, b *models.Booking, actor Actor) (*models.Booking, error) {
	if actor.ID != b.SitterID {
		return nil, NewTransitionError(CodeForbidden, "only the sitter can decline a booking")
	}
	if b.Archived() {
		return nil, NewTransitionError(CodeArchived, "cannot decline an archived booking")
	}
	switch b.Status {
	case models.BookingPaid, models.BookingPendingAcceptance:
	case models.BookingCancelled, models.BookingRefunded:
		return nil, NewTransitionError(CodeAlreadyCancelled, "booking was already cancelled")
	default:
		return nil, NewTransitionError(CodeIllegalTransition,
			fmt.Sprintf("cannot decline a %s booking", b.Status))
	}

	// Any captured payment is returned on decline, whatever the current
	// status; the booking must never end up cancelled with money held.
	if b.PaymentReference != "" {
		if err := s.refundAndSettle(ctx, now, b, "sitter_decline"); err != nil {
			return nil, err
		}
	} else {
		if err := s.settleCancel(ctx, now, b); err != nil {
			return nil, err
		}
	}
	s.Events.Dispatch([]LifecycleEvent{bookingEvent(b.OwnerID, notification.KeyBookingDeclined, b)})
	s.Logger.Info("booking declined",
		zap.String("bookingID", b.ID), zap.String("status", string(b.Status)))
	return b, nil
}

func (s *DefaultBookingService) ownerCancel(ctx context.Context, now time.Time, b *models.Booking, actor Actor) (*models.Booking, error) {
	if actor.ID != b.OwnerID {
		return nil, NewTransitionError(CodeForbidden, "only the owner can cancel a booking")
	}

	switch b.Status {
	case models.BookingCancelled, models.BookingRefunded:
		return nil, NewTransitionError(CodeAlreadyCancelled, "booking was already cancelled")
	case models.BookingConfirmed:
		if b.Completed(now) {
			return nil, NewTransitionError(CodeCompleted, "booking is already completed")
		}
		return nil, NewTransitionError(CodeIllegalTransition,
			"confirmed bookings cannot be cancelled unilaterally")
	case models.BookingDraft, models.BookingPendingPayment, models.BookingPaymentFailed:
		if err := s.settleCancel(ctx, now, b); err != nil {
			return nil, err
		}
	case models.BookingPaid, models.BookingPendingAcceptance:
		if b.Completed(now) {
			return nil, NewTransitionError(CodeCompleted, "booking is already completed")
		}
		if b.StartAt.Sub(now) < s.CancelDeadline {
			return nil, NewTransitionError(CodeTooLate,
				fmt.Sprintf("paid bookings can only be cancelled up to %s before start", s.CancelDeadline))
		}
		if b.PaymentReference != "" {
			if err := s.refundAndSettle(ctx, now, b, "owner_cancel"); err != nil {
				return nil, err
			}
		} else {
			if err := s.settleCancel(ctx, now, b); err != nil {
				return nil, err
			}
		}
	case models.BookingRefundFailed:
		// Retry path: a previous cancellation got the money stuck. The
		// idempotency key makes the retry safe against double refunds.
		if err := s.refundAndSettle(ctx, now, b, "owner_cancel"); err != nil {
			return nil, err
		}
	default:
		return nil, NewTransitionError(CodeIllegalTransition,
			fmt.Sprintf("cannot cancel a %s booking", b.Status))
	}

	s.Events.Dispatch([]LifecycleEvent{bookingEvent(b.SitterID, notification.KeyBookingCancelled, b)})
	s.Logger.Info("booking cancelled",
		zap.String("bookingID", b.ID), zap.String("status", string(b.Status)))
	return b, nil
}

// settleCancel moves an unpaid booking to CANCELLED.
func (s *DefaultBookingService) settleCancel(ctx context.Context, now time.Time, b *models.Booking) error {
	if err := s.Repo.UpdateStatus(ctx, b.ID, models.BookingCancelled, map[string]interface{}{
		"canceled_at": now,
	}); err != nil {
		return fmt.Errorf("failed to cancel booking: %w", err)
	}
	b.Status = models.BookingCancelled
	b.CanceledAt = &now
	return nil
}

// refundAndSettle issues the refund and moves the booking to REFUNDED,
// or to REFUND_FAILED when the processor rejects it. The failure is
// recorded before it is surfaced so support can find stuck refunds.
func (s *DefaultBookingService) refundAndSettle(ctx context.Context, now time.Time, b *models.Booking, action string) error {
	key := RefundIdempotencyKey(action, b.ID, b.PaymentReference)

	rctx, cancel := context.WithTimeout(ctx, s.CollabTimeout)
	refundRef, err := s.Payments.Refund(rctx, b.PaymentReference, key)
	cancel()
	if err != nil {
		s.Logger.Error("refund failed",
			zap.String("bookingID", b.ID),
			zap.String("paymentReference", b.PaymentReference),
			zap.Error(err))
		// The cancellation itself stands; only the money is stuck.
		if uerr := s.Repo.UpdateStatus(ctx, b.ID, models.BookingRefundFailed, map[string]interface{}{
			"canceled_at": now,
		}); uerr != nil {
			return fmt.Errorf("failed to record refund failure: %w", uerr)
		}
		b.Status = models.BookingRefundFailed
		b.CanceledAt = &now
		s.Events.Dispatch([]LifecycleEvent{bookingEvent(b.OwnerID, notification.KeyBookingRefundFailed, b)})
		return NewTransitionError(CodeRefundFailed, "refund could not be processed")
	}

	if err := s.Repo.UpdateStatus(ctx, b.ID, models.BookingRefunded, map[string]interface{}{
		"refund_reference": refundRef,
		"refunded_at":      now,
		"canceled_at":      now,
	}); err != nil {
		return fmt.Errorf("failed to record refund: %w", err)
	}
	b.Status = models.BookingRefunded
	b.RefundReference = refundRef
	b.RefundedAt = &now
	b.CanceledAt = &now
	s.Events.Dispatch([]LifecycleEvent{bookingEvent(b.OwnerID, notification.KeyBookingRefunded, b)})
	return nil
}

func (s *DefaultBookingService) archive(ctx context.Context, now time.Time, b *models.Booking) (*models.Booking, error) {
	if b.Archived() {
		return b, nil
	}
	// Active bookings stay visible until they settle or complete.
	switch b.Status {
	case models.BookingConfirmed, models.BookingPaid, models.BookingPendingAcceptance:
		if !b.Completed(now) {
			return nil, NewTransitionError(CodeIllegalTransition,
				fmt.Sprintf("cannot archive an active %s booking", b.Status))
		}
	}
	if err := s.Repo.SetArchived(ctx, b.ID, &now); err != nil {
		return nil, fmt.Errorf("failed to archive booking: %w", err)
	}
	b.ArchivedAt = &now
	return b, nil
}

func (s *DefaultBookingService) unarchive(ctx context.Context, b *models.Booking) (*models.Booking, error) {
	if !b.Archived() {
		return nil, NewTransitionError(CodeNotArchived, "booking is not archived")
	}
	if err := s.Repo.SetArchived(ctx, b.ID, nil); err != nil {
		return nil, fmt.Errorf("failed to unarchive booking: %w", err)
	}
	b.ArchivedAt = nil
	return b, nil
}

// delete hard-deletes an archived, disposable booking.
func (s *DefaultBookingService) delete(ctx context.Context, b *models.Booking) error {
	if !b.Archived() {
		return NewTransitionError(CodeNotArchived, "only archived bookings can be deleted")
	}
	if !b.Status.IsDisposable() {
		return NewTransitionError(CodeNotDisposable,
			fmt.Sprintf("%s bookings carry money movement and cannot be deleted", b.Status))
	}
	if err := s.Repo.Delete(ctx, b.ID); err != nil {
		return fmt.Errorf("failed to delete booking: %w", err)
	}
	s.Logger.Info("booking deleted", zap.String("bookingID", b.ID))
	return nil
}
