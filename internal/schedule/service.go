package schedule

import (
	"context"
	"fmt"
	"time"

	"jobdeck-api/internal/config"
	"jobdeck-api/internal/logging"
	"jobdeck-api/pkg/models"
	"jobdeck-api/pkg/utils"
)

// EventRepository is the storage port the schedule service reads and
// mutates events through.
type EventRepository interface {
	ListInRange(ctx context.Context, query models.ScheduleQuery) ([]models.ScheduleEvent, error)
	ListRecurringSlots(ctx context.Context) ([]models.RecurringSlot, error)
	FindEvent(ctx context.Context, id string) (*models.ScheduleEvent, error)
	UpdateStatus(ctx context.Context, id string, status models.EventStatus) (*models.ScheduleEvent, error)
}

// Service assembles week views and drives event status transitions.
type Service struct {
	cfg    *config.Config
	repo   EventRepository
	logger logging.Logger
}

func NewService(cfg *config.Config, repo EventRepository) *Service {
	return &Service{
		cfg:    cfg,
		repo:   repo,
		logger: logging.GetGlobalLogger(),
	}
}

// WeekView builds the full seven-column layout for the week containing
// ref, merging stored events with expanded recurring slots. Type and
// status filters are optional; the empty string matches everything.
func (s *Service) WeekView(ctx context.Context, ref time.Time, typ models.EventType, status models.EventStatus) (*models.WeekView, error) {
	window := Week(ref)

	query := models.ScheduleQuery{
		Start:  window.Start,
		End:    window.End,
		Limit:  s.cfg.Schedule.DefaultLimit,
		Type:   typ,
		Status: status,
	}

	events, err := s.repo.ListInRange(ctx, query)
	if err != nil {
		s.logger.Error("Failed to list schedule events", map[string]interface{}{
			"week_start": window.Start,
			"error":      err.Error(),
		})
		return nil, utils.NewScheduleError(fmt.Sprintf("failed to load week events: %v", err))
	}

	slots, err := s.repo.ListRecurringSlots(ctx)
	if err != nil {
		s.logger.Error("Failed to list recurring slots", map[string]interface{}{
			"error": err.Error(),
		})
		return nil, utils.NewScheduleError(fmt.Sprintf("failed to load recurring slots: %v", err))
	}

	for _, occ := range ExpandSlots(slots, window) {
		if !matchesFilters(occ, typ, status) {
			continue
		}
		events = append(events, occ)
	}

	view := BuildWeekView(events, ref)
	return &view, nil
}

// Confirm transitions a pending event to confirmed.
func (s *Service) Confirm(ctx context.Context, id string) (*models.ScheduleEvent, error) {
	return s.transition(ctx, id, models.EventStatusConfirmed)
}

// Decline transitions an event to cancelled. A cancelled event stays
// visible in the week view with the cancelled style.
func (s *Service) Decline(ctx context.Context, id string) (*models.ScheduleEvent, error) {
	return s.transition(ctx, id, models.EventStatusCancelled)
}

func (s *Service) transition(ctx context.Context, id string, status models.EventStatus) (*models.ScheduleEvent, error) {
	event, err := s.repo.UpdateStatus(ctx, id, status)
	if err != nil {
		s.logger.Error("Failed to update event status", map[string]interface{}{
			"event_id": id,
			"status":   string(status),
			"error":    err.Error(),
		})
		return nil, err
	}

	s.logger.Info("Event status updated", map[string]interface{}{
		"event_id": id,
		"status":   string(status),
	})
	return event, nil
}

func matchesFilters(ev models.ScheduleEvent, typ models.EventType, status models.EventStatus) bool {
	if typ != "" && ev.Type != typ {
		return false
	}
	if status != "" && ev.Status != status {
		return false
	}
	return true
}
