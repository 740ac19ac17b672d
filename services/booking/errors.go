package booking

import "fmt"

// Gate error codes: rejected before persistence, no partial state.
const (
	CodeInvalidRequest    = "INVALID_REQUEST"
	CodeInvalidDate       = "INVALID_DATE"
	CodePastDate          = "PAST_DATE"
	CodeServiceNotPriced  = "SERVICE_NOT_PRICED"
	CodeAmountTooSmall    = "AMOUNT_TOO_SMALL"
	CodeDateNotAvailable  = "DATE_NOT_AVAILABLE"
	CodeDateAlreadyBooked = "DATE_ALREADY_BOOKED"
)

// Transition error codes: state-machine conflicts and collaborator failures.
const (
	CodeIllegalTransition = "ILLEGAL_TRANSITION"
	CodeAlreadyCancelled  = "ALREADY_CANCELLED"
	CodeCompleted         = "COMPLETED"
	CodeTooLate           = "TOO_LATE"
	CodeArchived          = "ARCHIVED"
	CodeNotArchived       = "NOT_ARCHIVED"
	CodeNotDisposable     = "NOT_DISPOSABLE"
	CodeForbidden         = "FORBIDDEN"
	CodeNotFound          = "NOT_FOUND"
	CodeRefundFailed      = "REFUND_FAILED"
	CodePaymentFailed     = "PAYMENT_FAILED"
)

// GateError rejects a booking request that conflicts with availability,
// pricing or another booking.
type GateError struct {
	Code    string
	Message string
}

func (e *GateError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func NewGateError(code, msg string) error {
	return &GateError{Code: code, Message: msg}
}

// TransitionError rejects an illegal lifecycle transition or surfaces a
// collaborator failure mid-transition.
type TransitionError struct {
	Code    string
	Message string
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func NewTransitionError(code, msg string) error {
	return &TransitionError{Code: code, Message: msg}
}
