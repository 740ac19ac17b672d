package models

// RangeStatus classifies a time range on a sitter's calendar.
type RangeStatus string

const (
	StatusAvailable   RangeStatus = "AVAILABLE"
	StatusOnRequest   RangeStatus = "ON_REQUEST"
	StatusUnavailable RangeStatus = "UNAVAILABLE"
)

// Slot status reason codes, kept for UI diagnostics only.
const (
	ReasonLeadTime        = "lead_time"
	ReasonBookingExisting = "booking_existing"
	ReasonBookingPending  = "booking_pending"
)

// AvailabilityRule is a recurring weekly availability window for a
// (sitter, service, day-of-week). Ranges within one day must not overlap;
// rules are replaced wholesale per day, never patched.
type AvailabilityRule struct {
	SitterID    string      `bson:"sitter_id" json:"sitterId"`
	ServiceType ServiceType `bson:"service_type" json:"serviceType"`
	DayOfWeek   int         `bson:"day_of_week" json:"dayOfWeek"` // 0 = Sunday .. 6 = Saturday
	StartMin    int         `bson:"start_min" json:"startMin"`    // minutes from local midnight
	EndMin      int         `bson:"end_min" json:"endMin"`
	Status      RangeStatus `bson:"status" json:"status"` // AVAILABLE or ON_REQUEST
}

// AvailabilityException overrides rules for a single calendar date.
type AvailabilityException struct {
	ID          string      `bson:"id" json:"id"`
	SitterID    string      `bson:"sitter_id" json:"sitterId"`
	ServiceType ServiceType `bson:"service_type" json:"serviceType"`
	Date        string      `bson:"date" json:"date"` // "YYYY-MM-DD"
	StartMin    int         `bson:"start_min" json:"startMin"`
	EndMin      int         `bson:"end_min" json:"endMin"`
	Status      RangeStatus `bson:"status" json:"status"`
}

// ServiceConfig governs whether a sitter's service is bookable and its
// scheduling defaults. Zero values are filled in at the boundary.
type ServiceConfig struct {
	SitterID               string      `bson:"sitter_id" json:"sitterId"`
	ServiceType            ServiceType `bson:"service_type" json:"serviceType"`
	Enabled                bool        `bson:"enabled" json:"enabled"`
	LeadTimeMinutes        int         `bson:"lead_time_minutes" json:"leadTimeMinutes"`
	SlotGranularityMinutes int         `bson:"slot_granularity_minutes" json:"slotGranularityMinutes"`
}

// Slot is a discrete time window within a day carrying an availability
// status and an optional reason code.
type Slot struct {
	Start  int         `json:"start"` // minutes from local midnight
	End    int         `json:"end"`
	Status RangeStatus `json:"status"`
	Reason string      `json:"reason,omitempty"`
}

// DayStatus is the single-status reduction of a day's slots for calendars.
type DayStatus struct {
	Date   string      `json:"date"`
	Status RangeStatus `json:"status"`
}
