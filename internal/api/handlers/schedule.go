package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"jobdeck-api/internal/ical"
	"jobdeck-api/internal/logging"
	"jobdeck-api/internal/schedule"
	"jobdeck-api/pkg/models"
	"jobdeck-api/pkg/utils"
)

// parseDateParam reads the ?date= query parameter, accepting a bare date
// or a full RFC3339 timestamp. Missing means "this week".
func parseDateParam(c echo.Context) (time.Time, error) {
	raw := c.QueryParam("date")
	if raw == "" {
		return time.Now().UTC(), nil
	}
	if t, err := time.Parse("2006-01-02", raw); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, raw)
}

// WeekViewHandler returns the positioned week view around the requested date
func WeekViewHandler(svc *schedule.Service) echo.HandlerFunc {
	return func(c echo.Context) error {
		requestID := utils.GenerateRequestID()
		logger := logging.LogWithRequestID(requestID)

		ref, err := parseDateParam(c)
		if err != nil {
			return c.JSON(http.StatusBadRequest, models.ErrorResponse{
				Error:     "invalid_date",
				Message:   "date must be YYYY-MM-DD or RFC3339",
				RequestID: requestID,
				Timestamp: time.Now(),
			})
		}

		view, err := svc.WeekView(
			c.Request().Context(),
			ref,
			models.EventType(c.QueryParam("type")),
			models.EventStatus(c.QueryParam("status")),
		)
		if err != nil {
			logger.Error("Failed to build week view", map[string]interface{}{
				"error": err.Error(),
			})
			return c.JSON(http.StatusUnprocessableEntity, models.ErrorResponse{
				Error:     "week_view_failed",
				Message:   err.Error(),
				RequestID: requestID,
				Timestamp: time.Now(),
			})
		}

		return c.JSON(http.StatusOK, view)
	}
}

// WeekICalHandler exports the week around the requested date as iCalendar
func WeekICalHandler(svc *schedule.Service) echo.HandlerFunc {
	return func(c echo.Context) error {
		requestID := utils.GenerateRequestID()

		ref, err := parseDateParam(c)
		if err != nil {
			return c.JSON(http.StatusBadRequest, models.ErrorResponse{
				Error:     "invalid_date",
				Message:   "date must be YYYY-MM-DD or RFC3339",
				RequestID: requestID,
				Timestamp: time.Now(),
			})
		}

		view, err := svc.WeekView(c.Request().Context(), ref, "", "")
		if err != nil {
			return c.JSON(http.StatusUnprocessableEntity, models.ErrorResponse{
				Error:     "week_view_failed",
				Message:   err.Error(),
				RequestID: requestID,
				Timestamp: time.Now(),
			})
		}

		payload, err := ical.ExportWeek(view)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, models.ErrorResponse{
				Error:     "ical_export_failed",
				Message:   err.Error(),
				RequestID: requestID,
				Timestamp: time.Now(),
			})
		}

		c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="week.ics"`)
		return c.Blob(http.StatusOK, "text/calendar; charset=utf-8", []byte(payload))
	}
}

// ConfirmEventHandler transitions an event to confirmed
func ConfirmEventHandler(svc *schedule.Service) echo.HandlerFunc {
	return eventMutationHandler(svc.Confirm, "Event confirmed")
}

// DeclineEventHandler transitions an event to cancelled
func DeclineEventHandler(svc *schedule.Service) echo.HandlerFunc {
	return eventMutationHandler(svc.Decline, "Event declined")
}

func eventMutationHandler(
	mutate func(ctx context.Context, id string) (*models.ScheduleEvent, error),
	message string,
) echo.HandlerFunc {
	return func(c echo.Context) error {
		requestID := utils.GenerateRequestID()
		logger := logging.LogWithRequestID(requestID)

		id := c.Param("id")
		if id == "" {
			return c.JSON(http.StatusBadRequest, models.ErrorResponse{
				Error:     "missing_event_id",
				Message:   "event id is required",
				RequestID: requestID,
				Timestamp: time.Now(),
			})
		}

		event, err := mutate(c.Request().Context(), id)
		if err != nil {
			logger.Error("Event mutation failed", map[string]interface{}{
				"event_id": id,
				"error":    err.Error(),
			})
			return c.JSON(statusForError(err), models.ErrorResponse{
				Error:     "event_update_failed",
				Message:   err.Error(),
				RequestID: requestID,
				Timestamp: time.Now(),
			})
		}

		return c.JSON(http.StatusOK, models.MutationResponse{
			Success: true,
			Message: message,
			Event:   event,
		})
	}
}
