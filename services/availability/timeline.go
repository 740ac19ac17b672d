package availability

import (
	"time"

	"pawsit/models"
)

const minutesPerDay = 24 * 60

// minuteSource records which signal set a minute's status; the tie-break
// order is booking > exception > lead_time > rule.
type minuteSource int

const (
	sourceNone minuteSource = iota
	sourceRule
	sourceException
	sourceLeadTime
	sourceBooking
)

type minuteState struct {
	status models.RangeStatus
	source minuteSource
	reason string
}

// daySnapshot is the read-only input set for one day's computation. The
// engine never mutates rule/exception/booking data.
type daySnapshot struct {
	dayStart   time.Time // local midnight of the target date
	rules      []models.AvailabilityRule
	exceptions []models.AvailabilityException
	bookings   []models.Booking
	config     models.ServiceConfig
}

func clampMinute(m int) int {
	if m < 0 {
		return 0
	}
	if m > minutesPerDay {
		return minutesPerDay
	}
	return m
}

// wallMinute maps an instant to its wall-clock minute offset within the day
// starting at dayStart. Rules and exceptions are stored as wall-clock
// minutes, so bookings and cutoffs must land on the same scale; elapsed-time
// arithmetic would drift an hour on DST transition days.
func wallMinute(t, dayStart time.Time) int {
	t = t.In(dayStart.Location())
	if !t.After(dayStart) {
		return 0
	}
	if !t.Before(dayStart.AddDate(0, 0, 1)) {
		return minutesPerDay
	}
	return t.Hour()*60 + t.Minute()
}

// buildTimeline produces the per-minute status of the day.
func buildTimeline(now time.Time, snap daySnapshot) []minuteState {
	tl := make([]minuteState, minutesPerDay)
	for i := range tl {
		tl[i] = minuteState{status: models.StatusUnavailable, source: sourceNone}
	}

	// 1. Base timeline from recurring rules.
	for _, r := range snap.rules {
		for m := clampMinute(r.StartMin); m < clampMinute(r.EndMin); m++ {
			tl[m] = minuteState{status: r.Status, source: sourceRule}
		}
	}

	// 2. Date exceptions fully override rule status for their minutes.
	for _, e := range snap.exceptions {
		for m := clampMinute(e.StartMin); m < clampMinute(e.EndMin); m++ {
			tl[m] = minuteState{status: e.Status, source: sourceException}
		}
	}

	// 3. Lead time forces rule-sourced minutes unavailable; an exception
	// explicitly opening the time survives.
	cutoff := now.Add(time.Duration(snap.config.LeadTimeMinutes) * time.Minute)
	if cutoff.After(snap.dayStart) {
		cutoffMin := wallMinute(cutoff, snap.dayStart)
		for m := 0; m < cutoffMin; m++ {
			if tl[m].source == sourceException {
				continue
			}
			tl[m] = minuteState{status: models.StatusUnavailable, source: sourceLeadTime, reason: models.ReasonLeadTime}
		}
	}

	// 4. Existing non-terminal bookings always win, even over an exception
	// marking the range available: a booked interval cannot be resold.
	for _, b := range snap.bookings {
		startMin := wallMinute(b.StartAt, snap.dayStart)
		endMin := wallMinute(b.EndAt, snap.dayStart)
		reason := models.ReasonBookingPending
		if b.Status == models.BookingPaid || b.Status == models.BookingConfirmed {
			reason = models.ReasonBookingExisting
		}
		for m := startMin; m < endMin; m++ {
			tl[m] = minuteState{status: models.StatusUnavailable, source: sourceBooking, reason: reason}
		}
	}

	return tl
}

// partitionSlots cuts the timeline into durationMin-wide slots. A slot is
// AVAILABLE only if every covered minute is; windows entirely outside any
// rule or exception coverage are omitted.
func partitionSlots(tl []minuteState, durationMin int) []models.Slot {
	var slots []models.Slot
	for start := 0; start+durationMin <= minutesPerDay; start += durationMin {
		covered := false
		status := models.StatusAvailable
		reason := ""
		for m := start; m < start+durationMin; m++ {
			st := tl[m]
			if st.source != sourceNone {
				covered = true
			}
			switch st.status {
			case models.StatusUnavailable:
				if status != models.StatusUnavailable {
					status = models.StatusUnavailable
					reason = st.reason
				}
			case models.StatusOnRequest:
				if status == models.StatusAvailable {
					status = models.StatusOnRequest
				}
			}
		}
		if !covered {
			continue
		}
		slots = append(slots, models.Slot{Start: start, End: start + durationMin, Status: status, Reason: reason})
	}
	return slots
}

// wholeDaySlot reduces the timeline to a single pseudo-slot for daily
// services. Any booking-covered minute blocks the day; otherwise the day
// takes the most permissive signal present.
func wholeDaySlot(tl []minuteState) models.Slot {
	slot := models.Slot{Start: 0, End: minutesPerDay, Status: models.StatusUnavailable}
	anyAvailable, anyOnRequest := false, false
	for _, st := range tl {
		if st.source == sourceBooking {
			return models.Slot{Start: 0, End: minutesPerDay, Status: models.StatusUnavailable, Reason: st.reason}
		}
		switch st.status {
		case models.StatusAvailable:
			anyAvailable = true
		case models.StatusOnRequest:
			anyOnRequest = true
		}
	}
	if anyAvailable {
		slot.Status = models.StatusAvailable
	} else if anyOnRequest {
		slot.Status = models.StatusOnRequest
	}
	return slot
}

// computeSlots is the shared pure core of the single-day and range paths.
func computeSlots(now time.Time, snap daySnapshot, service models.ServiceType, durationMin int) []models.Slot {
	tl := buildTimeline(now, snap)
	if models.IsDailyService(service) {
		return []models.Slot{wholeDaySlot(tl)}
	}
	return partitionSlots(tl, durationMin)
}
