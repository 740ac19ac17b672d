package booking

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestHalfHourUnits(t *testing.T) {
	cases := []struct {
		minutes int
		units   int64
	}{
		{1, 1},
		{29, 1},
		{30, 1},
		{31, 2},
		{60, 2},
		{61, 3}, // 61 min bills as 1.5h
		{90, 3}, // 90 min bills as 1.5h
		{91, 4}, // 91 min bills as 2h
		{120, 4},
	}
	for _, tc := range cases {
		got := HalfHourUnits(time.Duration(tc.minutes) * time.Minute)
		assert.Equal(t, tc.units, got, "%d minutes", tc.minutes)
	}
}

func TestHourlyAmount(t *testing.T) {
	// 2000 cents/hour, 61 minutes → 1.5h → 3000.
	assert.Equal(t, int64(3000), HourlyAmount(2000, 61*time.Minute))
	assert.Equal(t, int64(3000), HourlyAmount(2000, 90*time.Minute))
	assert.Equal(t, int64(4000), HourlyAmount(2000, 91*time.Minute))
	// Odd unit price: 1.5h at 1001 → 1501.5, rounds to 1502.
	assert.Equal(t, int64(1502), HourlyAmount(1001, 90*time.Minute))
	// Minimum half hour.
	assert.Equal(t, int64(1000), HourlyAmount(2000, 5*time.Minute))
}

func TestInclusiveDays(t *testing.T) {
	d := func(day int) time.Time { return time.Date(2026, 9, day, 0, 0, 0, 0, time.UTC) }
	assert.Equal(t, 1, InclusiveDays(d(10), d(10)))
	assert.Equal(t, 3, InclusiveDays(d(10), d(12)))
	assert.Equal(t, int64(9000), DailyAmount(3000, InclusiveDays(d(10), d(12))))

	// A spring-forward day has only 23 elapsed hours; the count must stay
	// calendar-based, not elapsed-time-based.
	berlin, err := time.LoadLocation("Europe/Berlin")
	assert.NoError(t, err)
	start := time.Date(2027, 3, 27, 0, 0, 0, 0, berlin)
	end := time.Date(2027, 3, 29, 0, 0, 0, 0, berlin)
	assert.Equal(t, 3, InclusiveDays(start, end))
	assert.Equal(t, int64(9000), DailyAmount(3000, InclusiveDays(start, end)))
}

func TestPlatformFee(t *testing.T) {
	assert.Equal(t, int64(450), PlatformFee(3000, 0.15))
	// Half-cent boundary rounds to nearest.
	assert.Equal(t, int64(15), PlatformFee(99, 0.15)) // 14.85 → 15
	assert.Equal(t, int64(0), PlatformFee(0, 0.15))
}

func TestRefundIdempotencyKey(t *testing.T) {
	key := RefundIdempotencyKey("owner_cancel", "bk-1", "pi_123")
	assert.Equal(t, "refund:owner_cancel:bk-1:pi_123", key)
}
