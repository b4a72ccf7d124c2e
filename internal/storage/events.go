package storage

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5"

	"jobdeck-api/pkg/models"
	"jobdeck-api/pkg/utils"
)

const eventColumns = `id, type, status, title, location, notes, participants, starts_at, ends_at`

// ListInRange returns events whose start falls inside the query range,
// optionally filtered by type and status, ordered by start time.
func (s *Store) ListInRange(ctx context.Context, query models.ScheduleQuery) ([]models.ScheduleEvent, error) {
	sql := `SELECT ` + eventColumns + `
		FROM schedule_events
		WHERE starts_at >= $1 AND starts_at <= $2`
	args := []interface{}{query.Start, query.End}

	if query.Type != "" {
		args = append(args, string(query.Type))
		sql += fmt.Sprintf(" AND type = $%d", len(args))
	}
	if query.Status != "" {
		args = append(args, string(query.Status))
		sql += fmt.Sprintf(" AND status = $%d", len(args))
	}

	sql += " ORDER BY starts_at"
	if query.Limit > 0 {
		args = append(args, query.Limit)
		sql += fmt.Sprintf(" LIMIT $%d", len(args))
	}

	rows, err := s.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list events: %w", err)
	}
	defer rows.Close()

	events := make([]models.ScheduleEvent, 0)
	for rows.Next() {
		event, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		events = append(events, *event)
	}
	return events, rows.Err()
}

// FindEvent retrieves a single event by ID.
func (s *Store) FindEvent(ctx context.Context, id string) (*models.ScheduleEvent, error) {
	return scanEvent(s.pool.QueryRow(ctx,
		`SELECT `+eventColumns+` FROM schedule_events WHERE id = $1`, id))
}

// CreateEvent inserts a new schedule event.
func (s *Store) CreateEvent(ctx context.Context, event *models.ScheduleEvent) error {
	participants, err := json.Marshal(event.Participants)
	if err != nil {
		return fmt.Errorf("failed to encode participants: %w", err)
	}

	_, err = s.pool.Exec(ctx,
		`INSERT INTO schedule_events (id, type, status, title, location, notes, participants, starts_at, ends_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		event.ID, string(event.Type), string(event.Status), event.Title,
		event.Location, event.Notes, participants, event.StartsAt, event.EndsAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create event: %w", err)
	}
	return nil
}

// UpdateStatus transitions an event to the given status and returns the
// updated row.
func (s *Store) UpdateStatus(ctx context.Context, id string, status models.EventStatus) (*models.ScheduleEvent, error) {
	event, err := scanEvent(s.pool.QueryRow(ctx,
		`UPDATE schedule_events SET status = $2 WHERE id = $1
		 RETURNING `+eventColumns,
		id, string(status),
	))
	if err != nil {
		return nil, err
	}
	return event, nil
}

// ListRecurringSlots returns all recurring slot templates.
func (s *Store) ListRecurringSlots(ctx context.Context) ([]models.RecurringSlot, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, type, title, location, rrule, dtstart, duration_minutes
		 FROM schedule_recurrences`)
	if err != nil {
		return nil, fmt.Errorf("failed to list recurring slots: %w", err)
	}
	defer rows.Close()

	slots := make([]models.RecurringSlot, 0)
	for rows.Next() {
		var slot models.RecurringSlot
		var typ string
		if err := rows.Scan(&slot.ID, &typ, &slot.Title, &slot.Location, &slot.RRule, &slot.DTStart, &slot.DurationMinutes); err != nil {
			return nil, fmt.Errorf("failed to scan recurring slot: %w", err)
		}
		slot.Type = models.EventType(typ)
		slots = append(slots, slot)
	}
	return slots, rows.Err()
}

// SaveRecurringSlot inserts or replaces a recurring slot template.
func (s *Store) SaveRecurringSlot(ctx context.Context, slot *models.RecurringSlot) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO schedule_recurrences (id, type, title, location, rrule, dtstart, duration_minutes)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 ON CONFLICT (id) DO UPDATE SET
			type = $2, title = $3, location = $4, rrule = $5, dtstart = $6, duration_minutes = $7`,
		slot.ID, string(slot.Type), slot.Title, slot.Location, slot.RRule, slot.DTStart, slot.DurationMinutes,
	)
	if err != nil {
		return fmt.Errorf("failed to save recurring slot: %w", err)
	}
	return nil
}

func scanEvent(row pgx.Row) (*models.ScheduleEvent, error) {
	var event models.ScheduleEvent
	var typ, status string
	var participants []byte

	err := row.Scan(&event.ID, &typ, &status, &event.Title, &event.Location,
		&event.Notes, &participants, &event.StartsAt, &event.EndsAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, utils.NewNotFoundError("event not found")
		}
		return nil, fmt.Errorf("failed to get event: %w", err)
	}

	event.Type = models.EventType(typ)
	event.Status = models.EventStatus(status)
	if err := json.Unmarshal(participants, &event.Participants); err != nil {
		return nil, fmt.Errorf("failed to decode participants: %w", err)
	}

	return &event, nil
}
