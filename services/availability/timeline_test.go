package availability

import (
	"testing"
	"time"

	"pawsit/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dayStart(t *testing.T) time.Time {
	t.Helper()
	d, err := time.ParseInLocation("2006-01-02", "2026-09-07", time.UTC)
	require.NoError(t, err)
	return d
}

func slotAt(t *testing.T, slots []models.Slot, startMin int) models.Slot {
	t.Helper()
	for _, s := range slots {
		if s.Start == startMin {
			return s
		}
	}
	t.Fatalf("no slot starting at minute %d", startMin)
	return models.Slot{}
}

func TestExceptionOverridesRule(t *testing.T) {
	day := dayStart(t)
	snap := daySnapshot{
		dayStart: day,
		rules: []models.AvailabilityRule{
			{StartMin: 9 * 60, EndMin: 17 * 60, Status: models.StatusAvailable},
		},
		exceptions: []models.AvailabilityException{
			{StartMin: 10 * 60, EndMin: 12 * 60, Status: models.StatusUnavailable},
		},
		config: models.ServiceConfig{LeadTimeMinutes: 60, SlotGranularityMinutes: 60},
	}
	// Now is well before the day, so lead time plays no role.
	now := day.AddDate(0, 0, -2)

	slots := computeSlots(now, snap, models.ServiceWalking, 60)

	assert.Equal(t, models.StatusAvailable, slotAt(t, slots, 9*60).Status)
	assert.Equal(t, models.StatusUnavailable, slotAt(t, slots, 10*60).Status)
	assert.Equal(t, models.StatusUnavailable, slotAt(t, slots, 11*60).Status)
	assert.Equal(t, models.StatusAvailable, slotAt(t, slots, 12*60).Status)
	assert.Equal(t, models.StatusAvailable, slotAt(t, slots, 16*60).Status)

	// Windows with no rule or exception coverage are omitted entirely.
	for _, s := range slots {
		assert.GreaterOrEqual(t, s.Start, 9*60)
		assert.LessOrEqual(t, s.End, 17*60)
	}
}

func TestLeadTimeBlocksNearSlots(t *testing.T) {
	day := dayStart(t)
	snap := daySnapshot{
		dayStart: day,
		rules: []models.AvailabilityRule{
			{StartMin: 8 * 60, EndMin: 18 * 60, Status: models.StatusAvailable},
		},
		config: models.ServiceConfig{LeadTimeMinutes: 120, SlotGranularityMinutes: 60},
	}
	// 08:00 local with a 2h lead time: everything before 10:00 is blocked.
	now := day.Add(8 * time.Hour)

	slots := computeSlots(now, snap, models.ServiceWalking, 60)

	early := slotAt(t, slots, 8*60)
	assert.Equal(t, models.StatusUnavailable, early.Status)
	assert.Equal(t, models.ReasonLeadTime, early.Reason)
	assert.Equal(t, models.StatusUnavailable, slotAt(t, slots, 9*60).Status)
	assert.Equal(t, models.StatusAvailable, slotAt(t, slots, 10*60).Status)
}

func TestExceptionSurvivesLeadTime(t *testing.T) {
	day := dayStart(t)
	snap := daySnapshot{
		dayStart: day,
		exceptions: []models.AvailabilityException{
			{StartMin: 8 * 60, EndMin: 9 * 60, Status: models.StatusAvailable},
		},
		config: models.ServiceConfig{LeadTimeMinutes: 240, SlotGranularityMinutes: 60},
	}
	now := day.Add(7 * time.Hour)

	slots := computeSlots(now, snap, models.ServiceWalking, 60)

	// The sitter explicitly opened 08:00; lead time does not close it.
	assert.Equal(t, models.StatusAvailable, slotAt(t, slots, 8*60).Status)
}

func TestBookingWinsOverAvailableException(t *testing.T) {
	day := dayStart(t)
	snap := daySnapshot{
		dayStart: day,
		exceptions: []models.AvailabilityException{
			{StartMin: 14 * 60, EndMin: 16 * 60, Status: models.StatusAvailable},
		},
		bookings: []models.Booking{
			{
				Status:  models.BookingConfirmed,
				StartAt: day.Add(14 * time.Hour),
				EndAt:   day.Add(15 * time.Hour),
			},
		},
		config: models.ServiceConfig{LeadTimeMinutes: 60, SlotGranularityMinutes: 60},
	}
	now := day.AddDate(0, 0, -1)

	slots := computeSlots(now, snap, models.ServiceWalking, 60)

	booked := slotAt(t, slots, 14*60)
	assert.Equal(t, models.StatusUnavailable, booked.Status)
	assert.Equal(t, models.ReasonBookingExisting, booked.Reason)
	assert.Equal(t, models.StatusAvailable, slotAt(t, slots, 15*60).Status)
}

func TestPendingBookingReason(t *testing.T) {
	day := dayStart(t)
	snap := daySnapshot{
		dayStart: day,
		rules: []models.AvailabilityRule{
			{StartMin: 9 * 60, EndMin: 12 * 60, Status: models.StatusAvailable},
		},
		bookings: []models.Booking{
			{
				Status:  models.BookingPendingPayment,
				StartAt: day.Add(9 * time.Hour),
				EndAt:   day.Add(10 * time.Hour),
			},
		},
		config: models.ServiceConfig{LeadTimeMinutes: 60, SlotGranularityMinutes: 60},
	}
	now := day.AddDate(0, 0, -1)

	slots := computeSlots(now, snap, models.ServiceDropIn, 60)

	pending := slotAt(t, slots, 9*60)
	assert.Equal(t, models.StatusUnavailable, pending.Status)
	assert.Equal(t, models.ReasonBookingPending, pending.Reason)
}

func TestWholeDaySlotForDailyServices(t *testing.T) {
	day := dayStart(t)
	now := day.AddDate(0, 0, -1)

	t.Run("any booking blocks the day", func(t *testing.T) {
		snap := daySnapshot{
			dayStart: day,
			rules: []models.AvailabilityRule{
				{StartMin: 0, EndMin: minutesPerDay, Status: models.StatusAvailable},
			},
			bookings: []models.Booking{
				{Status: models.BookingPaid, StartAt: day.Add(10 * time.Hour), EndAt: day.Add(11 * time.Hour)},
			},
			config: models.ServiceConfig{LeadTimeMinutes: 60, SlotGranularityMinutes: 60},
		}
		slots := computeSlots(now, snap, models.ServiceBoarding, 60)
		require.Len(t, slots, 1)
		assert.Equal(t, models.StatusUnavailable, slots[0].Status)
		assert.Equal(t, 0, slots[0].Start)
		assert.Equal(t, minutesPerDay, slots[0].End)
	})

	t.Run("most permissive signal wins without bookings", func(t *testing.T) {
		snap := daySnapshot{
			dayStart: day,
			rules: []models.AvailabilityRule{
				{StartMin: 9 * 60, EndMin: 10 * 60, Status: models.StatusOnRequest},
				{StartMin: 14 * 60, EndMin: 15 * 60, Status: models.StatusAvailable},
			},
			config: models.ServiceConfig{LeadTimeMinutes: 60, SlotGranularityMinutes: 60},
		}
		slots := computeSlots(now, snap, models.ServiceHouseSitting, 60)
		require.Len(t, slots, 1)
		assert.Equal(t, models.StatusAvailable, slots[0].Status)
	})

	t.Run("on-request only day", func(t *testing.T) {
		snap := daySnapshot{
			dayStart: day,
			rules: []models.AvailabilityRule{
				{StartMin: 9 * 60, EndMin: 10 * 60, Status: models.StatusOnRequest},
			},
			config: models.ServiceConfig{LeadTimeMinutes: 60, SlotGranularityMinutes: 60},
		}
		slots := computeSlots(now, snap, models.ServiceBoarding, 60)
		require.Len(t, slots, 1)
		assert.Equal(t, models.StatusOnRequest, slots[0].Status)
	})
}

func TestBookingMinutesOnSpringForwardDay(t *testing.T) {
	berlin, err := time.LoadLocation("Europe/Berlin")
	require.NoError(t, err)
	// 2027-03-28 loses the 02:00 hour; the day is 23 elapsed hours long.
	day := time.Date(2027, 3, 28, 0, 0, 0, 0, berlin)
	snap := daySnapshot{
		dayStart: day,
		rules: []models.AvailabilityRule{
			{StartMin: 9 * 60, EndMin: 12 * 60, Status: models.StatusAvailable},
		},
		bookings: []models.Booking{
			{
				Status:  models.BookingConfirmed,
				StartAt: time.Date(2027, 3, 28, 10, 0, 0, 0, berlin),
				EndAt:   time.Date(2027, 3, 28, 11, 0, 0, 0, berlin),
			},
		},
		config: models.ServiceConfig{LeadTimeMinutes: 60, SlotGranularityMinutes: 60},
	}
	now := day.AddDate(0, 0, -2)

	slots := computeSlots(now, snap, models.ServiceWalking, 60)

	// The booking occupies 10:00 on the wall clock; only 9 elapsed hours
	// have passed by then, but it must still block the 10:00 slot, not 09:00.
	assert.Equal(t, models.StatusAvailable, slotAt(t, slots, 9*60).Status)
	booked := slotAt(t, slots, 10*60)
	assert.Equal(t, models.StatusUnavailable, booked.Status)
	assert.Equal(t, models.ReasonBookingExisting, booked.Reason)
	assert.Equal(t, models.StatusAvailable, slotAt(t, slots, 11*60).Status)
}

func TestSummarizeDayPrecedence(t *testing.T) {
	assert.Equal(t, models.StatusAvailable, SummarizeDay([]models.Slot{
		{Status: models.StatusUnavailable},
		{Status: models.StatusAvailable},
	}))
	assert.Equal(t, models.StatusOnRequest, SummarizeDay([]models.Slot{
		{Status: models.StatusUnavailable},
		{Status: models.StatusOnRequest},
	}))
	assert.Equal(t, models.StatusUnavailable, SummarizeDay(nil))
}
