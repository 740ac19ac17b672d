package models

import "time"

// BookingStatus is the lifecycle state of a booking.
type BookingStatus string

const (
	BookingDraft             BookingStatus = "DRAFT"
	BookingPendingPayment    BookingStatus = "PENDING_PAYMENT"
	BookingPendingAcceptance BookingStatus = "PENDING_ACCEPTANCE"
	BookingPaid              BookingStatus = "PAID"
	BookingConfirmed         BookingStatus = "CONFIRMED"
	BookingCancelled         BookingStatus = "CANCELLED"
	BookingRefunded          BookingStatus = "REFUNDED"
	BookingRefundFailed      BookingStatus = "REFUND_FAILED"
	BookingPaymentFailed     BookingStatus = "PAYMENT_FAILED"
)

// NonTerminalStatuses block the sitter's calendar and participate in the
// overlap check.
var NonTerminalStatuses = []BookingStatus{
	BookingPendingPayment,
	BookingPendingAcceptance,
	BookingPaid,
	BookingConfirmed,
}

// DisposableStatuses may be hard-deleted once archived.
var DisposableStatuses = []BookingStatus{
	BookingPaymentFailed,
	BookingCancelled,
	BookingPendingPayment,
	BookingPendingAcceptance,
	BookingDraft,
}

// IsNonTerminal reports whether s still occupies the sitter's calendar.
func (s BookingStatus) IsNonTerminal() bool {
	for _, st := range NonTerminalStatuses {
		if s == st {
			return true
		}
	}
	return false
}

// IsDisposable reports whether s allows hard deletion after archiving.
func (s BookingStatus) IsDisposable() bool {
	for _, st := range DisposableStatuses {
		if s == st {
			return true
		}
	}
	return false
}

// Booking is a booking record.
type Booking struct {
	ID          string      `bson:"id" json:"id"`
	OwnerID     string      `bson:"owner_id" json:"ownerId"`
	SitterID    string      `bson:"sitter_id" json:"sitterId"`
	ServiceType ServiceType `bson:"service_type" json:"serviceType"`

	// Daily services carry StartDate/EndDate; hourly services carry the
	// exact StartAt/EndAt timestamps. Both keep StartAt/EndAt populated
	// (daily: midnight bounds, end exclusive) for overlap arithmetic.
	StartDate string    `bson:"start_date" json:"startDate"` // "YYYY-MM-DD"
	EndDate   string    `bson:"end_date" json:"endDate"`
	StartAt   time.Time `bson:"start_at" json:"startAt"`
	EndAt     time.Time `bson:"end_at" json:"endAt"`

	Message string        `bson:"message,omitempty" json:"message,omitempty"`
	Status  BookingStatus `bson:"status" json:"status"`

	Amount            int64  `bson:"amount" json:"amount"` // integer minor-currency units
	Currency          string `bson:"currency" json:"currency"`
	PlatformFeeAmount int64  `bson:"platform_fee_amount" json:"platformFeeAmount"`

	PaymentReference string     `bson:"payment_reference,omitempty" json:"paymentReference,omitempty"`
	RefundReference  string     `bson:"refund_reference,omitempty" json:"refundReference,omitempty"`
	RefundedAt       *time.Time `bson:"refunded_at,omitempty" json:"refundedAt,omitempty"`
	CanceledAt       *time.Time `bson:"canceled_at,omitempty" json:"canceledAt,omitempty"`
	ArchivedAt       *time.Time `bson:"archived_at,omitempty" json:"archivedAt,omitempty"`

	ReminderSentAt      *time.Time `bson:"reminder_sent_at,omitempty" json:"-"`
	ReviewRequestSentAt *time.Time `bson:"review_request_sent_at,omitempty" json:"-"`

	CreatedAt time.Time `bson:"created_at" json:"createdAt"`
	UpdatedAt time.Time `bson:"updated_at" json:"updatedAt"`
}

// Archived reports whether the booking is soft-hidden.
func (b *Booking) Archived() bool {
	return b.ArchivedAt != nil
}

// Completed reports whether a paid booking's service window has ended.
func (b *Booking) Completed(now time.Time) bool {
	if b.Status != BookingPaid && b.Status != BookingConfirmed {
		return false
	}
	return b.EndAt.Before(now)
}
