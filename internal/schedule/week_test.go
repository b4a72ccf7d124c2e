package schedule

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStartOfWeek(t *testing.T) {
	tests := []struct {
		name  string
		input time.Time
		want  time.Time
	}{
		{
			name:  "wednesday resolves to preceding monday",
			input: time.Date(2024, 3, 6, 15, 30, 0, 0, time.UTC),
			want:  time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC),
		},
		{
			name:  "monday resolves to itself at midnight",
			input: time.Date(2024, 3, 4, 9, 0, 0, 0, time.UTC),
			want:  time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC),
		},
		{
			name:  "sunday belongs to the week that started six days earlier",
			input: time.Date(2024, 3, 10, 23, 59, 0, 0, time.UTC),
			want:  time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC),
		},
		{
			name:  "week spanning a month boundary",
			input: time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC),
			want:  time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, StartOfWeek(tt.input))
		})
	}
}

func TestStartOfWeekIdempotent(t *testing.T) {
	for day := 0; day < 7; day++ {
		input := time.Date(2024, 3, 4+day, 13, 45, 0, 0, time.UTC)
		first := StartOfWeek(input)
		assert.Equal(t, first, StartOfWeek(first), "StartOfWeek must be a fixpoint for day offset %d", day)
	}
}

func TestEndOfWeek(t *testing.T) {
	end := EndOfWeek(time.Date(2024, 3, 6, 12, 0, 0, 0, time.UTC))
	assert.Equal(t, time.Date(2024, 3, 10, 23, 59, 59, int(999*time.Millisecond), time.UTC), end)

	start := StartOfWeek(time.Date(2024, 3, 6, 12, 0, 0, 0, time.UTC))
	span := end.Sub(start)
	assert.Equal(t, 6*24*time.Hour+23*time.Hour+59*time.Minute+59*time.Second+999*time.Millisecond, span)
}

func TestWeekWindowContains(t *testing.T) {
	window := Week(time.Date(2024, 3, 6, 12, 0, 0, 0, time.UTC))

	assert.True(t, window.Contains(time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC)))
	assert.True(t, window.Contains(time.Date(2024, 3, 10, 23, 59, 59, 0, time.UTC)))
	assert.False(t, window.Contains(time.Date(2024, 3, 3, 23, 59, 59, 0, time.UTC)))
	assert.False(t, window.Contains(time.Date(2024, 3, 11, 0, 0, 0, 0, time.UTC)))
}

func TestNavigatorNavigate(t *testing.T) {
	now := time.Date(2024, 3, 6, 10, 0, 0, 0, time.UTC)
	nav := NewNavigator(func() time.Time { return now })

	window := nav.Window()
	require.Equal(t, time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC), window.Start)

	next := nav.Navigate(1)
	assert.Equal(t, time.Date(2024, 3, 11, 0, 0, 0, 0, time.UTC), next.Start)

	prev := nav.Navigate(-1)
	assert.Equal(t, window.Start, prev.Start, "forward then back returns to the original week")

	back := nav.Navigate(-1)
	assert.Equal(t, time.Date(2024, 2, 26, 0, 0, 0, 0, time.UTC), back.Start)
}

func TestNavigatorGoToTodayClearsRangeFilter(t *testing.T) {
	now := time.Date(2024, 3, 6, 10, 0, 0, 0, time.UTC)
	nav := NewNavigator(func() time.Time { return now })

	nav.Navigate(3)
	nav.SetRangeFilter(
		time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC),
	)
	require.NotNil(t, nav.RangeFilter())
	assert.Equal(t, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), nav.EffectiveRange().Start)

	window := nav.GoToToday()
	assert.Nil(t, nav.RangeFilter())
	assert.Equal(t, time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC), window.Start)
	assert.Equal(t, window, nav.EffectiveRange())
}
