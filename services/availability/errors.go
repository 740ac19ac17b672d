package availability

import "fmt"

// Error codes for availability operations.
const (
	CodeServiceDisabled = "SERVICE_DISABLED"
	CodeInvalidService  = "INVALID_SERVICE"
	CodeInvalidDate     = "INVALID_DATE"
	CodeInvalidDuration = "INVALID_DURATION"
	CodeInvalidRange    = "INVALID_RANGE"
	CodeRangeTooLarge   = "RANGE_TOO_LARGE"
	CodeInvalidRule     = "INVALID_RULE"
	CodeNotFound        = "NOT_FOUND"
)

// AvailabilityError is a typed validation/gating error; infrastructure
// faults are wrapped with %w instead.
type AvailabilityError struct {
	Code    string
	Message string
}

func (e *AvailabilityError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func NewAvailabilityError(code, msg string) error {
	return &AvailabilityError{Code: code, Message: msg}
}
