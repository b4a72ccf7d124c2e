package schedule

import (
	"fmt"
	"time"

	"github.com/teambition/rrule-go"

	"jobdeck-api/internal/logging"
	"jobdeck-api/pkg/models"
)

// Recurring slots are capped per window so a runaway rule (e.g. FREQ=MINUTELY)
// cannot flood a week view.
const maxOccurrencesPerSlot = 64

// ExpandSlots materialises recurring slots into concrete pending events
// inside the given window. Slots with an unparseable rule are logged and
// skipped rather than failing the whole view.
func ExpandSlots(slots []models.RecurringSlot, window models.WeekWindow) []models.ScheduleEvent {
	logger := logging.GetGlobalLogger()
	out := make([]models.ScheduleEvent, 0)

	for _, slot := range slots {
		r, err := rrule.StrToRRule(slot.RRule)
		if err != nil {
			logger.Warn("Skipping recurring slot with invalid rule", map[string]interface{}{
				"slot_id": slot.ID,
				"rrule":   slot.RRule,
				"error":   err.Error(),
			})
			continue
		}
		r.DTStart(slot.DTStart)

		// Align the query range with the slot's own location before Between().
		rangeStart := window.Start.In(slot.DTStart.Location())
		rangeEnd := window.End.In(slot.DTStart.Location())

		occurrences := r.Between(rangeStart, rangeEnd, true)
		if len(occurrences) > maxOccurrencesPerSlot {
			occurrences = occurrences[:maxOccurrencesPerSlot]
			logger.Warn("Recurring slot hit the occurrence cap", map[string]interface{}{
				"slot_id": slot.ID,
				"cap":     maxOccurrencesPerSlot,
			})
		}

		duration := time.Duration(slot.DurationMinutes) * time.Minute
		for _, start := range occurrences {
			out = append(out, models.ScheduleEvent{
				ID:       occurrenceID(slot.ID, start),
				Type:     slot.Type,
				Status:   models.EventStatusPending,
				Title:    slot.Title,
				Location: slot.Location,
				StartsAt: start,
				EndsAt:   start.Add(duration),
			})
		}
	}

	return out
}

// occurrenceID derives a stable per-occurrence identifier so a given
// expansion of a slot can be confirmed or declined independently.
func occurrenceID(slotID string, start time.Time) string {
	return fmt.Sprintf("%s@%s", slotID, start.UTC().Format(time.RFC3339))
}
