package models

import "time"

// EventType classifies a schedule entry
type EventType string

const (
	EventTypeInterview EventType = "interview"
	EventTypeMeeting   EventType = "meeting"
)

// EventStatus is the lifecycle state of a schedule entry
type EventStatus string

const (
	EventStatusPending   EventStatus = "pending"
	EventStatusConfirmed EventStatus = "confirmed"
	EventStatusCancelled EventStatus = "cancelled"
)

// EventStyle is the visual bucket assigned to an event by the pure
// (status, type) mapping. Cancelled always overrides the type-based buckets;
// unmatched combinations fall back to StyleNeutral.
type EventStyle string

const (
	StyleInterviewPending   EventStyle = "interview-pending"
	StyleInterviewConfirmed EventStyle = "interview-confirmed"
	StyleMeetingPending     EventStyle = "meeting-pending"
	StyleMeetingConfirmed   EventStyle = "meeting-confirmed"
	StyleCancelled          EventStyle = "cancelled"
	StyleNeutral            EventStyle = "neutral"
)

// ScheduleEvent is a schedule entry (interview or meeting) for a candidate
type ScheduleEvent struct {
	ID           string      `json:"id"`
	Type         EventType   `json:"type"`
	Status       EventStatus `json:"status"`
	Title        string      `json:"title"`
	Location     string      `json:"location,omitempty"`
	Notes        string      `json:"notes,omitempty"`
	Participants []string    `json:"participants"`
	StartsAt     time.Time   `json:"starts_at"`
	EndsAt       time.Time   `json:"ends_at"`
}

// RecurringSlot is a recurring schedule template expanded into concrete
// events at read time
type RecurringSlot struct {
	ID              string    `json:"id"`
	Type            EventType `json:"type"`
	Title           string    `json:"title"`
	Location        string    `json:"location,omitempty"`
	RRule           string    `json:"rrule"`
	DTStart         time.Time `json:"dtstart"`
	DurationMinutes int       `json:"duration_minutes"`
}

// PositionedEvent wraps a schedule event with the layout attributes derived
// for the week-view day column it belongs to
type PositionedEvent struct {
	ScheduleEvent
	DurationMinutes int        `json:"duration_minutes"`
	TopPercent      float64    `json:"top_position_percent"`
	HeightPercent   float64    `json:"height_percent"`
	Style           EventStyle `json:"style"`
}

// WeekWindow is a Monday-through-Sunday window around a reference date
type WeekWindow struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// Contains reports whether t falls inside the window (inclusive)
func (w WeekWindow) Contains(t time.Time) bool {
	return !t.Before(w.Start) && !t.After(w.End)
}

// DayColumn holds the positioned events of one day of the week view
type DayColumn struct {
	Date   time.Time         `json:"date"`
	Events []PositionedEvent `json:"events"`
}

// WeekView is the full week-view layout returned by the schedule API
type WeekView struct {
	Window WeekWindow   `json:"window"`
	Days   [7]DayColumn `json:"days"`
}

// ScheduleQuery filters a schedule listing
type ScheduleQuery struct {
	Start  time.Time
	End    time.Time
	Limit  int
	Type   EventType
	Status EventStatus
}
