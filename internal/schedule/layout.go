package schedule

import (
	"sort"
	"time"

	"jobdeck-api/pkg/models"
)

const (
	// Visible day window: 06:00 through 22:00, 960 minutes.
	dayStartHour  = 6
	dayEndHour    = 22
	windowMinutes = float64((dayEndHour - dayStartHour) * 60)

	// Events shorter than this render as an unclickable sliver, so the
	// height is floored before clipping against the bottom of the column.
	minHeightPercent = 6.0
)

// Position derives the day-column layout attributes for a single event.
// Top and height are percentages of the 06:00-22:00 window; events that
// spill past either edge are clipped, and top+height never exceeds 100.
func Position(ev models.ScheduleEvent) models.PositionedEvent {
	start := ev.StartsAt
	dayStart := time.Date(start.Year(), start.Month(), start.Day(), dayStartHour, 0, 0, 0, start.Location())

	top := start.Sub(dayStart).Minutes() / windowMinutes * 100
	if top < 0 {
		top = 0
	}
	if top > 100 {
		top = 100
	}

	duration := ev.EndsAt.Sub(ev.StartsAt).Minutes()
	if duration < 0 {
		duration = 0
	}

	height := duration / windowMinutes * 100
	if height < minHeightPercent {
		height = minHeightPercent
	}
	if height > 100-top {
		height = 100 - top
	}

	return models.PositionedEvent{
		ScheduleEvent:   ev,
		DurationMinutes: int(duration),
		TopPercent:      top,
		HeightPercent:   height,
		Style:           StyleFor(ev.Status, ev.Type),
	}
}

// BuildWeekView buckets events into the seven day columns of the week
// containing ref. An event belongs to the day its start falls on; events
// crossing midnight are not split, the overflow is simply clipped by the
// height clamp. Events outside the window are dropped. Each column is
// sorted by start time so overlapping events stack deterministically.
func BuildWeekView(events []models.ScheduleEvent, ref time.Time) models.WeekView {
	window := Week(ref)
	view := models.WeekView{Window: window}

	for i := 0; i < 7; i++ {
		view.Days[i].Date = window.Start.AddDate(0, 0, i)
		view.Days[i].Events = []models.PositionedEvent{}
	}

	for _, ev := range events {
		idx := dayIndex(window, ev.StartsAt)
		if idx < 0 {
			continue
		}
		view.Days[idx].Events = append(view.Days[idx].Events, Position(ev))
	}

	for i := range view.Days {
		day := view.Days[i].Events
		sort.Slice(day, func(a, b int) bool {
			return day[a].StartsAt.Before(day[b].StartsAt)
		})
	}

	return view
}

// dayIndex returns the 0-6 column index of t within the window, or -1 when
// t falls outside it. Comparison is by calendar date in the window's
// location, so DST transitions cannot shift an event across columns.
func dayIndex(window models.WeekWindow, t time.Time) int {
	local := t.In(window.Start.Location())
	for i := 0; i < 7; i++ {
		day := window.Start.AddDate(0, 0, i)
		if local.Year() == day.Year() && local.Month() == day.Month() && local.Day() == day.Day() {
			return i
		}
	}
	return -1
}
