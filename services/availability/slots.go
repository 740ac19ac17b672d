package availability

import (
	"context"
	"fmt"
	"time"

	"pawsit/models"

	"go.uber.org/zap"
)

// effectiveConfig fills boundary defaults: a missing config means the
// service was never enabled; zero lead time / granularity take the
// platform defaults.
func (s *DefaultAvailabilityService) effectiveConfig(cfg *models.ServiceConfig, sitterID string, service models.ServiceType) models.ServiceConfig {
	out := models.ServiceConfig{SitterID: sitterID, ServiceType: service}
	if cfg != nil {
		out = *cfg
	}
	if out.LeadTimeMinutes <= 0 {
		out.LeadTimeMinutes = s.DefaultLeadTime
	}
	if out.SlotGranularityMinutes <= 0 {
		out.SlotGranularityMinutes = s.DefaultGranularity
	}
	return out
}

func (s *DefaultAvailabilityService) parseDate(date string) (time.Time, error) {
	d, err := time.ParseInLocation("2006-01-02", date, s.Loc)
	if err != nil {
		return time.Time{}, NewAvailabilityError(CodeInvalidDate, fmt.Sprintf("invalid date %q, want YYYY-MM-DD", date))
	}
	return d, nil
}

// loadSnapshot fetches the day's read-only inputs.
func (s *DefaultAvailabilityService) loadSnapshot(ctx context.Context, sitterID string, service models.ServiceType, dayStart time.Time) (daySnapshot, error) {
	rules, err := s.Repo.GetRulesForDay(ctx, sitterID, service, int(dayStart.Weekday()))
	if err != nil {
		return daySnapshot{}, fmt.Errorf("failed to load rules: %w", err)
	}
	excs, err := s.Repo.GetExceptionsByDate(ctx, sitterID, service, dayStart.Format("2006-01-02"))
	if err != nil {
		return daySnapshot{}, fmt.Errorf("failed to load exceptions: %w", err)
	}
	bookings, err := s.BookingRepo.FindOverlapping(ctx, sitterID, dayStart, dayStart.AddDate(0, 0, 1))
	if err != nil {
		return daySnapshot{}, fmt.Errorf("failed to load bookings: %w", err)
	}
	return daySnapshot{dayStart: dayStart, rules: rules, exceptions: excs, bookings: bookings}, nil
}

// ComputeDaySlots computes the ordered slot sequence for one day.
// durationMin 0 takes the service's configured granularity; daily services
// ignore it and return a single whole-day pseudo-slot.
func (s *DefaultAvailabilityService) ComputeDaySlots(ctx context.Context, now time.Time, sitterID string, service models.ServiceType, date string, durationMin int) (*SlotResult, error) {
	if !models.IsValidServiceType(service) {
		return nil, NewAvailabilityError(CodeInvalidService, fmt.Sprintf("unknown service type %q", service))
	}
	dayStart, err := s.parseDate(date)
	if err != nil {
		return nil, err
	}

	rawCfg, err := s.Repo.GetServiceConfig(ctx, sitterID, service)
	if err != nil {
		return nil, fmt.Errorf("failed to load service config: %w", err)
	}
	if rawCfg == nil || !rawCfg.Enabled {
		return nil, NewAvailabilityError(CodeServiceDisabled, fmt.Sprintf("service %s is not bookable for this sitter", service))
	}
	cfg := s.effectiveConfig(rawCfg, sitterID, service)

	if durationMin == 0 {
		durationMin = cfg.SlotGranularityMinutes
	}
	if durationMin < 0 || durationMin > minutesPerDay {
		return nil, NewAvailabilityError(CodeInvalidDuration, fmt.Sprintf("duration %d minutes out of range", durationMin))
	}

	snap, err := s.loadSnapshot(ctx, sitterID, service, dayStart)
	if err != nil {
		return nil, err
	}
	snap.config = cfg

	slots := computeSlots(now.In(s.Loc), snap, service, durationMin)
	s.Logger.Debug("computed day slots",
		zap.String("sitterID", sitterID),
		zap.String("service", string(service)),
		zap.String("date", date),
		zap.Int("slots", len(slots)))

	return &SlotResult{Slots: slots, DurationMin: durationMin}, nil
}
