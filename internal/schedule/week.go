package schedule

import (
	"time"

	"jobdeck-api/pkg/models"
)

// StartOfWeek returns midnight of the Monday at or before d. Sunday is
// treated as the last day of the week, so a Sunday input resolves to the
// previous Monday.
func StartOfWeek(d time.Time) time.Time {
	weekday := int(d.Weekday())
	if weekday == 0 {
		weekday = 7
	}
	monday := d.AddDate(0, 0, -(weekday - 1))
	return time.Date(monday.Year(), monday.Month(), monday.Day(), 0, 0, 0, 0, d.Location())
}

// EndOfWeek returns the last representable millisecond of the Sunday that
// closes the week containing d.
func EndOfWeek(d time.Time) time.Time {
	sunday := StartOfWeek(d).AddDate(0, 0, 6)
	return time.Date(sunday.Year(), sunday.Month(), sunday.Day(), 23, 59, 59, int(999*time.Millisecond), sunday.Location())
}

// Week returns the Monday-through-Sunday window containing d.
func Week(d time.Time) models.WeekWindow {
	return models.WeekWindow{
		Start: StartOfWeek(d),
		End:   EndOfWeek(d),
	}
}

// Navigator tracks the reference date a week view is anchored on, plus an
// optional explicit date-range filter layered on top of the week window.
type Navigator struct {
	reference   time.Time
	rangeFilter *models.WeekWindow
	now         func() time.Time
}

// NewNavigator creates a navigator anchored on the current week. The clock
// is injectable for tests; pass nil to use time.Now.
func NewNavigator(now func() time.Time) *Navigator {
	if now == nil {
		now = time.Now
	}
	return &Navigator{
		reference: now(),
		now:       now,
	}
}

// Reference returns the current anchor date.
func (n *Navigator) Reference() time.Time {
	return n.reference
}

// Window returns the week window around the current reference.
func (n *Navigator) Window() models.WeekWindow {
	return Week(n.reference)
}

// Navigate moves the reference by direction weeks. Negative values move
// backwards. The reference keeps its time of day so repeated navigation
// never drifts across day boundaries.
func (n *Navigator) Navigate(direction int) models.WeekWindow {
	n.reference = n.reference.AddDate(0, 0, 7*direction)
	return n.Window()
}

// SetRangeFilter pins an explicit date range that overrides week paging
// until cleared.
func (n *Navigator) SetRangeFilter(start, end time.Time) {
	n.rangeFilter = &models.WeekWindow{Start: start, End: end}
}

// RangeFilter returns the active explicit range, or nil when none is set.
func (n *Navigator) RangeFilter() *models.WeekWindow {
	return n.rangeFilter
}

// GoToToday resets the reference to the current date and clears any
// explicit range filter.
func (n *Navigator) GoToToday() models.WeekWindow {
	n.reference = n.now()
	n.rangeFilter = nil
	return n.Window()
}

// EffectiveRange returns the window queries should run against: the
// explicit range filter when one is active, otherwise the current week.
func (n *Navigator) EffectiveRange() models.WeekWindow {
	if n.rangeFilter != nil {
		return *n.rangeFilter
	}
	return n.Window()
}
