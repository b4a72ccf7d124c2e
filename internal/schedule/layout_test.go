package schedule

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jobdeck-api/pkg/models"
)

func makeEvent(id string, start, end time.Time) models.ScheduleEvent {
	return models.ScheduleEvent{
		ID:       id,
		Type:     models.EventTypeInterview,
		Status:   models.EventStatusConfirmed,
		Title:    "Interview",
		StartsAt: start,
		EndsAt:   end,
	}
}

func TestPositionMidMorningEvent(t *testing.T) {
	// 09:00-10:30 sits 180 minutes into the 960-minute window and runs 90.
	ev := makeEvent("ev1",
		time.Date(2024, 3, 4, 9, 0, 0, 0, time.UTC),
		time.Date(2024, 3, 4, 10, 30, 0, 0, time.UTC),
	)

	pos := Position(ev)
	assert.InDelta(t, 18.75, pos.TopPercent, 1e-9)
	assert.InDelta(t, 9.375, pos.HeightPercent, 1e-9)
	assert.Equal(t, 90, pos.DurationMinutes)
}

func TestPositionClipsEarlyStart(t *testing.T) {
	// Starts before the visible window; top clamps to 0 and the visible
	// height is counted from the raw duration, then clipped.
	ev := makeEvent("ev2",
		time.Date(2024, 3, 4, 5, 0, 0, 0, time.UTC),
		time.Date(2024, 3, 4, 7, 0, 0, 0, time.UTC),
	)

	pos := Position(ev)
	assert.Equal(t, 0.0, pos.TopPercent)
	assert.InDelta(t, 12.5, pos.HeightPercent, 1e-9)
}

func TestPositionClipsLateEnd(t *testing.T) {
	// 21:00-23:00 starts 900 minutes in; only the last hour of the window
	// remains so the height clamps to it.
	ev := makeEvent("ev3",
		time.Date(2024, 3, 4, 21, 0, 0, 0, time.UTC),
		time.Date(2024, 3, 4, 23, 0, 0, 0, time.UTC),
	)

	pos := Position(ev)
	assert.InDelta(t, 93.75, pos.TopPercent, 1e-9)
	assert.InDelta(t, 6.25, pos.HeightPercent, 1e-9)
	assert.LessOrEqual(t, pos.TopPercent+pos.HeightPercent, 100.0)
}

func TestPositionAppliesMinimumHeight(t *testing.T) {
	// A 15-minute event is 1.5625% raw, floored to 6%.
	ev := makeEvent("ev4",
		time.Date(2024, 3, 4, 10, 0, 0, 0, time.UTC),
		time.Date(2024, 3, 4, 10, 15, 0, 0, time.UTC),
	)

	pos := Position(ev)
	assert.Equal(t, 6.0, pos.HeightPercent)
	assert.Equal(t, 15, pos.DurationMinutes)
}

func TestPositionMinimumHeightStillClipped(t *testing.T) {
	// A short event at the very bottom: the 6% floor would overflow the
	// column, so the clamp wins and the invariant holds.
	ev := makeEvent("ev5",
		time.Date(2024, 3, 4, 21, 45, 0, 0, time.UTC),
		time.Date(2024, 3, 4, 21, 50, 0, 0, time.UTC),
	)

	pos := Position(ev)
	assert.InDelta(t, 98.4375, pos.TopPercent, 1e-9)
	assert.InDelta(t, 1.5625, pos.HeightPercent, 1e-9)
	assert.LessOrEqual(t, pos.TopPercent+pos.HeightPercent, 100.0)
}

func TestPositionZeroAndNegativeDuration(t *testing.T) {
	start := time.Date(2024, 3, 4, 12, 0, 0, 0, time.UTC)

	zero := Position(makeEvent("ev6", start, start))
	assert.Equal(t, 6.0, zero.HeightPercent)
	assert.Equal(t, 0, zero.DurationMinutes)

	inverted := Position(makeEvent("ev7", start, start.Add(-time.Hour)))
	assert.Equal(t, 6.0, inverted.HeightPercent)
	assert.Equal(t, 0, inverted.DurationMinutes)
}

func TestBuildWeekViewBucketsByStartDay(t *testing.T) {
	ref := time.Date(2024, 3, 6, 12, 0, 0, 0, time.UTC)

	events := []models.ScheduleEvent{
		makeEvent("mon",
			time.Date(2024, 3, 4, 9, 0, 0, 0, time.UTC),
			time.Date(2024, 3, 4, 10, 0, 0, 0, time.UTC)),
		makeEvent("wed",
			time.Date(2024, 3, 6, 14, 0, 0, 0, time.UTC),
			time.Date(2024, 3, 6, 15, 0, 0, 0, time.UTC)),
		makeEvent("sun",
			time.Date(2024, 3, 10, 20, 0, 0, 0, time.UTC),
			time.Date(2024, 3, 10, 21, 0, 0, 0, time.UTC)),
		makeEvent("outside",
			time.Date(2024, 3, 11, 9, 0, 0, 0, time.UTC),
			time.Date(2024, 3, 11, 10, 0, 0, 0, time.UTC)),
	}

	view := BuildWeekView(events, ref)

	require.Len(t, view.Days[0].Events, 1)
	assert.Equal(t, "mon", view.Days[0].Events[0].ID)
	require.Len(t, view.Days[2].Events, 1)
	assert.Equal(t, "wed", view.Days[2].Events[0].ID)
	require.Len(t, view.Days[6].Events, 1)
	assert.Equal(t, "sun", view.Days[6].Events[0].ID)

	total := 0
	for _, day := range view.Days {
		total += len(day.Events)
	}
	assert.Equal(t, 3, total, "events outside the window are dropped")
}

func TestBuildWeekViewMidnightCrossingStaysOnStartDay(t *testing.T) {
	ref := time.Date(2024, 3, 4, 12, 0, 0, 0, time.UTC)

	ev := makeEvent("late",
		time.Date(2024, 3, 4, 23, 0, 0, 0, time.UTC),
		time.Date(2024, 3, 5, 1, 0, 0, 0, time.UTC),
	)

	view := BuildWeekView([]models.ScheduleEvent{ev}, ref)
	require.Len(t, view.Days[0].Events, 1)
	assert.Empty(t, view.Days[1].Events, "midnight-crossing events are not split")

	pos := view.Days[0].Events[0]
	assert.Equal(t, 100.0, pos.TopPercent)
	assert.Equal(t, 0.0, pos.HeightPercent)
}

func TestBuildWeekViewSortsOverlapsByStart(t *testing.T) {
	ref := time.Date(2024, 3, 4, 12, 0, 0, 0, time.UTC)

	events := []models.ScheduleEvent{
		makeEvent("second",
			time.Date(2024, 3, 4, 10, 0, 0, 0, time.UTC),
			time.Date(2024, 3, 4, 11, 0, 0, 0, time.UTC)),
		makeEvent("first",
			time.Date(2024, 3, 4, 9, 30, 0, 0, time.UTC),
			time.Date(2024, 3, 4, 10, 30, 0, 0, time.UTC)),
	}

	view := BuildWeekView(events, ref)
	require.Len(t, view.Days[0].Events, 2)
	assert.Equal(t, "first", view.Days[0].Events[0].ID)
	assert.Equal(t, "second", view.Days[0].Events[1].ID)
}

func TestBuildWeekViewDayDates(t *testing.T) {
	view := BuildWeekView(nil, time.Date(2024, 3, 6, 0, 0, 0, 0, time.UTC))

	assert.Equal(t, time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC), view.Days[0].Date)
	assert.Equal(t, time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC), view.Days[6].Date)
	for _, day := range view.Days {
		assert.NotNil(t, day.Events)
	}
}
