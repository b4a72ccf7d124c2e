package ical

import (
	"fmt"

	ical "github.com/arran4/golang-ical"

	"jobdeck-api/pkg/models"
)

const calendarProdID = "-//jobdeck//schedule//EN"

// ExportWeek renders a positioned week view as an iCalendar document.
// Cancelled events are carried with STATUS:CANCELLED so subscribing
// clients reflect declines instead of silently dropping them.
func ExportWeek(view *models.WeekView) (string, error) {
	if view == nil {
		return "", fmt.Errorf("nil week view")
	}

	cal := ical.NewCalendar()
	cal.SetMethod(ical.MethodPublish)
	cal.SetProductId(calendarProdID)
	cal.SetName(fmt.Sprintf("Schedule %s", view.Window.Start.Format("2006-01-02")))

	for _, day := range view.Days {
		for _, ev := range day.Events {
			event := cal.AddEvent(ev.ID)
			event.SetSummary(ev.Title)
			event.SetStartAt(ev.StartsAt)
			event.SetEndAt(ev.EndsAt)
			if ev.Location != "" {
				event.SetLocation(ev.Location)
			}
			if ev.Notes != "" {
				event.SetDescription(ev.Notes)
			}
			event.SetStatus(eventStatus(ev.Status))
			for _, participant := range ev.Participants {
				event.AddAttendee(participant)
			}
		}
	}

	return cal.Serialize(), nil
}

func eventStatus(status models.EventStatus) ical.ObjectStatus {
	switch status {
	case models.EventStatusConfirmed:
		return ical.ObjectStatusConfirmed
	case models.EventStatusCancelled:
		return ical.ObjectStatusCancelled
	default:
		return ical.ObjectStatusTentative
	}
}
