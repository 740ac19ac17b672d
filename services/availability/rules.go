package availability

import (
	"context"
	"fmt"
	"sort"
	"time"

	"pawsit/models"

	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

func validateRange(startMin, endMin int) error {
	if startMin < 0 || endMin > minutesPerDay || startMin >= endMin {
		return NewAvailabilityError(CodeInvalidRule, fmt.Sprintf("invalid time range [%d, %d)", startMin, endMin))
	}
	return nil
}

// SetRules replaces all recurring rules for (sitter, service, dayOfWeek).
// Ranges must be non-overlapping and tagged AVAILABLE or ON_REQUEST.
func (s *DefaultAvailabilityService) SetRules(ctx context.Context, sitterID string, service models.ServiceType, dayOfWeek int, ranges []models.AvailabilityRule) error {
	if !models.IsValidServiceType(service) {
		return NewAvailabilityError(CodeInvalidService, fmt.Sprintf("unknown service type %q", service))
	}
	if dayOfWeek < 0 || dayOfWeek > 6 {
		return NewAvailabilityError(CodeInvalidRule, fmt.Sprintf("day of week %d out of range", dayOfWeek))
	}

	sorted := make([]models.AvailabilityRule, len(ranges))
	copy(sorted, ranges)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].StartMin < sorted[j].StartMin })

	for i, r := range sorted {
		if err := validateRange(r.StartMin, r.EndMin); err != nil {
			return err
		}
		if r.Status != models.StatusAvailable && r.Status != models.StatusOnRequest {
			return NewAvailabilityError(CodeInvalidRule, fmt.Sprintf("rule status must be AVAILABLE or ON_REQUEST, got %q", r.Status))
		}
		if i > 0 && r.StartMin < sorted[i-1].EndMin {
			return NewAvailabilityError(CodeInvalidRule,
				fmt.Sprintf("ranges [%d, %d) and [%d, %d) overlap", sorted[i-1].StartMin, sorted[i-1].EndMin, r.StartMin, r.EndMin))
		}
	}

	if err := s.Repo.ReplaceRulesForDay(ctx, sitterID, service, dayOfWeek, sorted); err != nil {
		return fmt.Errorf("failed to replace rules: %w", err)
	}
	s.Logger.Info("replaced availability rules",
		zap.String("sitterID", sitterID),
		zap.String("service", string(service)),
		zap.Int("dayOfWeek", dayOfWeek),
		zap.Int("ranges", len(sorted)))
	return nil
}

// CreateException adds a date-specific override owned by the sitter.
func (s *DefaultAvailabilityService) CreateException(ctx context.Context, sitterID string, exc models.AvailabilityException) (*models.AvailabilityException, error) {
	if !models.IsValidServiceType(exc.ServiceType) {
		return nil, NewAvailabilityError(CodeInvalidService, fmt.Sprintf("unknown service type %q", exc.ServiceType))
	}
	if _, err := time.ParseInLocation("2006-01-02", exc.Date, s.Loc); err != nil {
		return nil, NewAvailabilityError(CodeInvalidDate, fmt.Sprintf("invalid date %q, want YYYY-MM-DD", exc.Date))
	}
	if err := validateRange(exc.StartMin, exc.EndMin); err != nil {
		return nil, err
	}
	switch exc.Status {
	case models.StatusAvailable, models.StatusOnRequest, models.StatusUnavailable:
	default:
		return nil, NewAvailabilityError(CodeInvalidRule, fmt.Sprintf("unknown exception status %q", exc.Status))
	}

	exc.SitterID = sitterID
	if err := s.Repo.CreateException(ctx, &exc); err != nil {
		return nil, fmt.Errorf("failed to create exception: %w", err)
	}
	return &exc, nil
}

// DeleteException removes an exception by id; the repository filter scopes
// the delete to the owning sitter.
func (s *DefaultAvailabilityService) DeleteException(ctx context.Context, sitterID, excID string) error {
	err := s.Repo.DeleteException(ctx, sitterID, excID)
	if err == mongo.ErrNoDocuments {
		return NewAvailabilityError(CodeNotFound, "exception not found")
	}
	if err != nil {
		return fmt.Errorf("failed to delete exception: %w", err)
	}
	return nil
}

// UpsertServiceConfig stores the sitter's per-service toggle and defaults.
func (s *DefaultAvailabilityService) UpsertServiceConfig(ctx context.Context, cfg models.ServiceConfig) error {
	if !models.IsValidServiceType(cfg.ServiceType) {
		return NewAvailabilityError(CodeInvalidService, fmt.Sprintf("unknown service type %q", cfg.ServiceType))
	}
	if cfg.LeadTimeMinutes < 0 || cfg.SlotGranularityMinutes < 0 {
		return NewAvailabilityError(CodeInvalidRule, "lead time and slot granularity must be non-negative")
	}
	if err := s.Repo.UpsertServiceConfig(ctx, &cfg); err != nil {
		return fmt.Errorf("failed to upsert service config: %w", err)
	}
	return nil
}
