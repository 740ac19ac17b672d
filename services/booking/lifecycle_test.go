package booking

import (
	"context"
	"errors"
	"testing"
	"time"

	"pawsit/models"
	"pawsit/services/notification"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	ownerActor  = Actor{ID: "owner-1", Role: "owner"}
	sitterActor = Actor{ID: "sitter-1", Role: "sitter"}
)

// seedBooking creates a booking and walks it to the given status.
func seedBooking(t *testing.T, env *testEnv, status models.BookingStatus) *models.Booking {
	t.Helper()
	ctx := context.Background()

	b, err := env.svc.CreateBooking(ctx, testNow, dailyRequest("owner-1"))
	require.NoError(t, err)

	if status == models.BookingPendingPayment {
		return b
	}
	_, err = env.svc.AttachPaymentIntent(ctx, b.ID, ownerActor)
	require.NoError(t, err)
	require.NoError(t, env.repo.UpdateStatus(ctx, b.ID, status, nil))

	out, err := env.repo.GetByID(ctx, b.ID)
	require.NoError(t, err)
	return out
}

func TestMarkPaidIdempotent(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	b := seedBooking(t, env, models.BookingPendingPayment)

	changed, err := env.svc.MarkPaid(ctx, b.ID)
	require.NoError(t, err)
	assert.True(t, changed)

	// Replayed webhook: absorbed without error or state change.
	changed, err = env.svc.MarkPaid(ctx, b.ID)
	require.NoError(t, err)
	assert.False(t, changed)

	got, err := env.repo.GetByID(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, models.BookingPaid, got.Status)
	assert.Contains(t, env.notifier.keys, notification.KeyBookingPaid)
}

func TestMarkPaidAfterSettlementIsNoOp(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	for _, status := range []models.BookingStatus{
		models.BookingConfirmed, models.BookingCancelled, models.BookingRefunded,
	} {
		env := newTestEnv()
		b := seedBooking(t, env, status)
		changed, err := env.svc.MarkPaid(ctx, b.ID)
		require.NoError(t, err, "status %s", status)
		assert.False(t, changed, "status %s", status)
	}

	// DRAFT has never been offered for payment: a success signal is a conflict.
	b := seedBooking(t, env, models.BookingDraft)
	_, err := env.svc.MarkPaid(ctx, b.ID)
	var terr *TransitionError
	require.ErrorAs(t, err, &terr)
	assert.Equal(t, CodeIllegalTransition, terr.Code)
}

func TestMarkPaymentFailed(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	b := seedBooking(t, env, models.BookingPendingPayment)

	require.NoError(t, env.svc.MarkPaymentFailed(ctx, b.ID))
	require.NoError(t, env.svc.MarkPaymentFailed(ctx, b.ID)) // replay

	got, _ := env.repo.GetByID(ctx, b.ID)
	assert.Equal(t, models.BookingPaymentFailed, got.Status)

	// A failed payment can be retried and still succeed.
	changed, err := env.svc.MarkPaid(ctx, b.ID)
	require.NoError(t, err)
	assert.True(t, changed)
}

func TestSitterAcceptAndDecline(t *testing.T) {
	ctx := context.Background()

	t.Run("accept confirms", func(t *testing.T) {
		env := newTestEnv()
		b := seedBooking(t, env, models.BookingPaid)

		out, err := env.svc.Transition(ctx, testNow, b.ID, ActionAccept, sitterActor)
		require.NoError(t, err)
		assert.Equal(t, models.BookingConfirmed, out.Status)
		assert.Contains(t, env.notifier.keys, notification.KeyBookingConfirmed)
	})

	t.Run("owner cannot accept", func(t *testing.T) {
		env := newTestEnv()
		b := seedBooking(t, env, models.BookingPaid)

		_, err := env.svc.Transition(ctx, testNow, b.ID, ActionAccept, ownerActor)
		var terr *TransitionError
		require.ErrorAs(t, err, &terr)
		assert.Equal(t, CodeForbidden, terr.Code)
	})

	t.Run("decline of paid booking refunds", func(t *testing.T) {
		env := newTestEnv()
		b := seedBooking(t, env, models.BookingPaid)

		out, err := env.svc.Transition(ctx, testNow, b.ID, ActionDecline, sitterActor)
		require.NoError(t, err)
		assert.Equal(t, models.BookingRefunded, out.Status)
		require.Len(t, env.payments.refundKeys, 1)
		assert.Equal(t, "refund:sitter_decline:"+b.ID+":pi_test", env.payments.refundKeys[0])
		assert.Contains(t, env.notifier.keys, notification.KeyBookingDeclined)
	})

	t.Run("decline with captured payment refunds even before paid status", func(t *testing.T) {
		env := newTestEnv()
		// Payment intent attached and captured, but the webhook that would
		// move the booking to PAID has not landed yet.
		b := seedBooking(t, env, models.BookingPendingAcceptance)

		out, err := env.svc.Transition(ctx, testNow, b.ID, ActionDecline, sitterActor)
		require.NoError(t, err)
		assert.Equal(t, models.BookingRefunded, out.Status)
		require.Len(t, env.payments.refundKeys, 1)
		assert.Equal(t, "refund:sitter_decline:"+b.ID+":pi_test", env.payments.refundKeys[0])
	})

	t.Run("decline of unpaid acceptance cancels", func(t *testing.T) {
		env := newTestEnv()
		b, err := env.svc.CreateBooking(ctx, testNow, dailyRequest("owner-1"))
		require.NoError(t, err)
		require.NoError(t, env.repo.UpdateStatus(ctx, b.ID, models.BookingPendingAcceptance, nil))

		out, err := env.svc.Transition(ctx, testNow, b.ID, ActionDecline, sitterActor)
		require.NoError(t, err)
		assert.Equal(t, models.BookingCancelled, out.Status)
		assert.Empty(t, env.payments.refundKeys)
	})
}

func TestOwnerCancelDeadline(t *testing.T) {
	ctx := context.Background()

	t.Run("23h before start is too late", func(t *testing.T) {
		env := newTestEnv()
		b := seedBooking(t, env, models.BookingPaid)

		now := b.StartAt.Add(-23 * time.Hour)
		_, err := env.svc.Transition(ctx, now, b.ID, ActionCancel, ownerActor)
		var terr *TransitionError
		require.ErrorAs(t, err, &terr)
		assert.Equal(t, CodeTooLate, terr.Code)
	})

	t.Run("25h before start refunds", func(t *testing.T) {
		env := newTestEnv()
		b := seedBooking(t, env, models.BookingPaid)

		now := b.StartAt.Add(-25 * time.Hour)
		out, err := env.svc.Transition(ctx, now, b.ID, ActionCancel, ownerActor)
		require.NoError(t, err)
		assert.Equal(t, models.BookingRefunded, out.Status)
		require.Len(t, env.payments.refundKeys, 1)
		assert.Equal(t, "refund:owner_cancel:"+b.ID+":pi_test", env.payments.refundKeys[0])
		require.NotNil(t, out.RefundedAt)
		assert.Contains(t, env.notifier.keys, notification.KeyBookingRefunded)
	})

	t.Run("unpaid cancel has no deadline", func(t *testing.T) {
		env := newTestEnv()
		b := seedBooking(t, env, models.BookingPendingPayment)

		now := b.StartAt.Add(-1 * time.Hour)
		out, err := env.svc.Transition(ctx, now, b.ID, ActionCancel, ownerActor)
		require.NoError(t, err)
		assert.Equal(t, models.BookingCancelled, out.Status)
		assert.Empty(t, env.payments.refundKeys)
	})
}

func TestOwnerCancelGuards(t *testing.T) {
	ctx := context.Background()

	t.Run("confirmed is a conflict", func(t *testing.T) {
		env := newTestEnv()
		b := seedBooking(t, env, models.BookingConfirmed)

		_, err := env.svc.Transition(ctx, testNow, b.ID, ActionCancel, ownerActor)
		var terr *TransitionError
		require.ErrorAs(t, err, &terr)
		assert.Equal(t, CodeIllegalTransition, terr.Code)
	})

	t.Run("already cancelled", func(t *testing.T) {
		env := newTestEnv()
		b := seedBooking(t, env, models.BookingCancelled)

		_, err := env.svc.Transition(ctx, testNow, b.ID, ActionCancel, ownerActor)
		var terr *TransitionError
		require.ErrorAs(t, err, &terr)
		assert.Equal(t, CodeAlreadyCancelled, terr.Code)
	})

	t.Run("completed service window", func(t *testing.T) {
		env := newTestEnv()
		b := seedBooking(t, env, models.BookingPaid)

		now := b.EndAt.Add(time.Hour)
		_, err := env.svc.Transition(ctx, now, b.ID, ActionCancel, ownerActor)
		var terr *TransitionError
		require.ErrorAs(t, err, &terr)
		assert.Equal(t, CodeCompleted, terr.Code)
	})
}

func TestRefundFailureSurfacedAndRetryable(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	b := seedBooking(t, env, models.BookingPaid)
	env.payments.refundErr = errors.New("processor unavailable")

	now := b.StartAt.Add(-48 * time.Hour)
	_, err := env.svc.Transition(ctx, now, b.ID, ActionCancel, ownerActor)
	var terr *TransitionError
	require.ErrorAs(t, err, &terr)
	assert.Equal(t, CodeRefundFailed, terr.Code)

	got, _ := env.repo.GetByID(ctx, b.ID)
	assert.Equal(t, models.BookingRefundFailed, got.Status)
	assert.Contains(t, env.notifier.keys, notification.KeyBookingRefundFailed)

	// Processor recovers; retrying the cancel settles the refund.
	env.payments.refundErr = nil
	out, err := env.svc.Transition(ctx, now, b.ID, ActionCancel, ownerActor)
	require.NoError(t, err)
	assert.Equal(t, models.BookingRefunded, out.Status)
}

func TestArchiveUnarchiveDelete(t *testing.T) {
	ctx := context.Background()

	t.Run("active booking cannot be archived", func(t *testing.T) {
		env := newTestEnv()
		b := seedBooking(t, env, models.BookingConfirmed)

		_, err := env.svc.Transition(ctx, testNow, b.ID, ActionArchive, ownerActor)
		var terr *TransitionError
		require.ErrorAs(t, err, &terr)
		assert.Equal(t, CodeIllegalTransition, terr.Code)
	})

	t.Run("completed booking archives", func(t *testing.T) {
		env := newTestEnv()
		b := seedBooking(t, env, models.BookingConfirmed)

		now := b.EndAt.Add(time.Hour)
		out, err := env.svc.Transition(ctx, now, b.ID, ActionArchive, ownerActor)
		require.NoError(t, err)
		assert.NotNil(t, out.ArchivedAt)
	})

	t.Run("delete requires archive and disposable status", func(t *testing.T) {
		env := newTestEnv()
		b := seedBooking(t, env, models.BookingCancelled)

		// Not archived yet.
		_, err := env.svc.Transition(ctx, testNow, b.ID, ActionDelete, ownerActor)
		var terr *TransitionError
		require.ErrorAs(t, err, &terr)
		assert.Equal(t, CodeNotArchived, terr.Code)

		_, err = env.svc.Transition(ctx, testNow, b.ID, ActionArchive, ownerActor)
		require.NoError(t, err)
		_, err = env.svc.Transition(ctx, testNow, b.ID, ActionDelete, ownerActor)
		require.NoError(t, err)

		_, err = env.repo.GetByID(ctx, b.ID)
		require.Error(t, err)
	})

	t.Run("refunded booking is not disposable", func(t *testing.T) {
		env := newTestEnv()
		b := seedBooking(t, env, models.BookingRefunded)

		_, err := env.svc.Transition(ctx, testNow, b.ID, ActionArchive, ownerActor)
		require.NoError(t, err)
		_, err = env.svc.Transition(ctx, testNow, b.ID, ActionDelete, ownerActor)
		var terr *TransitionError
		require.ErrorAs(t, err, &terr)
		assert.Equal(t, CodeNotDisposable, terr.Code)
	})

	t.Run("unarchive restores visibility", func(t *testing.T) {
		env := newTestEnv()
		b := seedBooking(t, env, models.BookingCancelled)

		_, err := env.svc.Transition(ctx, testNow, b.ID, ActionArchive, ownerActor)
		require.NoError(t, err)
		list, err := env.svc.ListBookings(ctx, ownerActor)
		require.NoError(t, err)
		assert.Empty(t, list)

		out, err := env.svc.Transition(ctx, testNow, b.ID, ActionUnarchive, ownerActor)
		require.NoError(t, err)
		assert.Nil(t, out.ArchivedAt)
		list, err = env.svc.ListBookings(ctx, ownerActor)
		require.NoError(t, err)
		assert.Len(t, list, 1)
	})
}
