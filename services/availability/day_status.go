package availability

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"pawsit/models"

	"go.uber.org/zap"
)

// SummarizeDay reduces a slot sequence to one calendar status.
// Precedence: AVAILABLE > ON_REQUEST > UNAVAILABLE.
func SummarizeDay(slots []models.Slot) models.RangeStatus {
	status := models.StatusUnavailable
	for _, slot := range slots {
		switch slot.Status {
		case models.StatusAvailable:
			return models.StatusAvailable
		case models.StatusOnRequest:
			status = models.StatusOnRequest
		}
	}
	return status
}

// SummarizeRange computes per-day statuses over [fromDate, toDate] with one
// round of store reads: rules, exceptions, bookings and config are fetched
// once and joined in memory per day. The per-day result is identical to
// running the single-day path for each date.
func (s *DefaultAvailabilityService) SummarizeRange(ctx context.Context, now time.Time, sitterID string, service models.ServiceType, fromDate, toDate string) ([]models.DayStatus, error) {
	return s.summarizeRange(ctx, now, sitterID, service, fromDate, toDate, true)
}

// SummarizeRangeFresh always computes from a fresh snapshot.
func (s *DefaultAvailabilityService) SummarizeRangeFresh(ctx context.Context, now time.Time, sitterID string, service models.ServiceType, fromDate, toDate string) ([]models.DayStatus, error) {
	return s.summarizeRange(ctx, now, sitterID, service, fromDate, toDate, false)
}

func (s *DefaultAvailabilityService) summarizeRange(ctx context.Context, now time.Time, sitterID string, service models.ServiceType, fromDate, toDate string, useCache bool) ([]models.DayStatus, error) {
	if !models.IsValidServiceType(service) {
		return nil, NewAvailabilityError(CodeInvalidService, fmt.Sprintf("unknown service type %q", service))
	}
	from, err := s.parseDate(fromDate)
	if err != nil {
		return nil, err
	}
	to, err := s.parseDate(toDate)
	if err != nil {
		return nil, err
	}
	if to.Before(from) {
		return nil, NewAvailabilityError(CodeInvalidRange, "range end precedes range start")
	}
	days := daysInclusive(from, to)
	if days > s.MaxRangeDays {
		return nil, NewAvailabilityError(CodeRangeTooLarge, fmt.Sprintf("range spans %d days, cap is %d", days, s.MaxRangeDays))
	}

	if useCache {
		if cached := s.cachedRange(ctx, sitterID, service, fromDate, toDate); cached != nil {
			return cached, nil
		}
	}

	rawCfg, err := s.Repo.GetServiceConfig(ctx, sitterID, service)
	if err != nil {
		return nil, fmt.Errorf("failed to load service config: %w", err)
	}
	if rawCfg == nil || !rawCfg.Enabled {
		return nil, NewAvailabilityError(CodeServiceDisabled, fmt.Sprintf("service %s is not bookable for this sitter", service))
	}
	cfg := s.effectiveConfig(rawCfg, sitterID, service)

	rules, err := s.Repo.GetRules(ctx, sitterID, service)
	if err != nil {
		return nil, fmt.Errorf("failed to load rules: %w", err)
	}
	excs, err := s.Repo.GetExceptionsInRange(ctx, sitterID, service, fromDate, toDate)
	if err != nil {
		return nil, fmt.Errorf("failed to load exceptions: %w", err)
	}
	bookings, err := s.BookingRepo.FindIntersectingDates(ctx, sitterID, from, to.AddDate(0, 0, 1))
	if err != nil {
		return nil, fmt.Errorf("failed to load bookings: %w", err)
	}

	// In-memory indexes: rules by day-of-week, exceptions by date.
	rulesByDow := make(map[int][]models.AvailabilityRule)
	for _, r := range rules {
		rulesByDow[r.DayOfWeek] = append(rulesByDow[r.DayOfWeek], r)
	}
	excsByDate := make(map[string][]models.AvailabilityException)
	for _, e := range excs {
		excsByDate[e.Date] = append(excsByDate[e.Date], e)
	}

	nowLocal := now.In(s.Loc)
	statuses := make([]models.DayStatus, 0, days)
	for d := from; !d.After(to); d = d.AddDate(0, 0, 1) {
		dateStr := d.Format("2006-01-02")
		snap := daySnapshot{
			dayStart:   d,
			rules:      rulesByDow[int(d.Weekday())],
			exceptions: excsByDate[dateStr],
			bookings:   bookingsForDay(bookings, d),
			config:     cfg,
		}
		slots := computeSlots(nowLocal, snap, service, cfg.SlotGranularityMinutes)
		statuses = append(statuses, models.DayStatus{Date: dateStr, Status: SummarizeDay(slots)})
	}

	if useCache {
		s.storeRange(ctx, sitterID, service, fromDate, toDate, statuses)
	}
	return statuses, nil
}

// daysInclusive counts calendar days in [from, to]. Both bounds are local
// midnights; normalizing to UTC keeps the count exact across DST days,
// which are 23 or 25 elapsed hours long.
func daysInclusive(from, to time.Time) int {
	f := time.Date(from.Year(), from.Month(), from.Day(), 0, 0, 0, 0, time.UTC)
	t := time.Date(to.Year(), to.Month(), to.Day(), 0, 0, 0, 0, time.UTC)
	return int(t.Sub(f).Hours()/24) + 1
}

// bookingsForDay filters bookings intersecting [dayStart, next midnight).
func bookingsForDay(bookings []models.Booking, dayStart time.Time) []models.Booking {
	dayEnd := dayStart.AddDate(0, 0, 1)
	var out []models.Booking
	for _, b := range bookings {
		if b.StartAt.Before(dayEnd) && b.EndAt.After(dayStart) {
			out = append(out, b)
		}
	}
	return out
}

func (s *DefaultAvailabilityService) rangeCacheKey(sitterID string, service models.ServiceType, fromDate, toDate string) string {
	return fmt.Sprintf("calendar:%s:%s:%s:%s", sitterID, service, fromDate, toDate)
}

// cachedRange serves the read path only; booking gating always computes a
// fresh snapshot.
func (s *DefaultAvailabilityService) cachedRange(ctx context.Context, sitterID string, service models.ServiceType, fromDate, toDate string) []models.DayStatus {
	if s.Cache == nil {
		return nil
	}
	raw, err := s.Cache.Get(ctx, s.rangeCacheKey(sitterID, service, fromDate, toDate)).Result()
	if err != nil {
		return nil
	}
	var statuses []models.DayStatus
	if err := json.Unmarshal([]byte(raw), &statuses); err != nil {
		return nil
	}
	return statuses
}

func (s *DefaultAvailabilityService) storeRange(ctx context.Context, sitterID string, service models.ServiceType, fromDate, toDate string, statuses []models.DayStatus) {
	if s.Cache == nil || s.CacheTTL <= 0 {
		return
	}
	raw, err := json.Marshal(statuses)
	if err != nil {
		return
	}
	if err := s.Cache.Set(ctx, s.rangeCacheKey(sitterID, service, fromDate, toDate), raw, s.CacheTTL).Err(); err != nil {
		s.Logger.Warn("failed to cache calendar range", zap.Error(err))
	}
}
