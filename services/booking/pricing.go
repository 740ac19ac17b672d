package booking

import (
	"math"
	"time"
)

// HalfHourUnits returns the billable duration in half-hour units, rounded
// up, minimum one unit (0.5h).
func HalfHourUnits(d time.Duration) int64 {
	units := int64(math.Ceil(d.Minutes() / 30.0))
	if units < 1 {
		units = 1
	}
	return units
}

// HourlyAmount computes the total for an hourly service: unit price times
// the half-hour-rounded duration, in integer minor-currency units.
func HourlyAmount(unitPrice int64, d time.Duration) int64 {
	units := HalfHourUnits(d)
	return int64(math.Round(float64(unitPrice) * float64(units) / 2.0))
}

// InclusiveDays counts calendar days from start through end inclusively;
// same-day bookings count as one day. Dates are normalized to UTC midnight
// first so DST transitions in the reference zone cannot shift the count.
func InclusiveDays(start, end time.Time) int {
	s := time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, time.UTC)
	e := time.Date(end.Year(), end.Month(), end.Day(), 0, 0, 0, 0, time.UTC)
	return int(e.Sub(s).Hours()/24) + 1
}

// DailyAmount computes the total for a daily service.
func DailyAmount(unitPrice int64, days int) int64 {
	return unitPrice * int64(days)
}

// PlatformFee derives the platform commission from a booking amount,
// rounded to the nearest minor unit.
func PlatformFee(amount int64, rate float64) int64 {
	return int64(math.Round(float64(amount) * rate))
}
