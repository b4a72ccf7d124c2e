package schedule

import "jobdeck-api/pkg/models"

type styleKey struct {
	Status models.EventStatus
	Type   models.EventType
}

var styleTable = map[styleKey]models.EventStyle{
	{models.EventStatusPending, models.EventTypeInterview}:   models.StyleInterviewPending,
	{models.EventStatusConfirmed, models.EventTypeInterview}: models.StyleInterviewConfirmed,
	{models.EventStatusPending, models.EventTypeMeeting}:     models.StyleMeetingPending,
	{models.EventStatusConfirmed, models.EventTypeMeeting}:   models.StyleMeetingConfirmed,
}

// StyleFor maps a (status, type) pair to its visual bucket. Cancelled
// overrides the type entirely; anything unrecognised falls back to the
// neutral bucket instead of erroring.
func StyleFor(status models.EventStatus, typ models.EventType) models.EventStyle {
	if status == models.EventStatusCancelled {
		return models.StyleCancelled
	}
	if style, ok := styleTable[styleKey{status, typ}]; ok {
		return style
	}
	return models.StyleNeutral
}
