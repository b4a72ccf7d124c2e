package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"jobdeck-api/internal/cv"
	"jobdeck-api/internal/logging"
	"jobdeck-api/pkg/models"
	"jobdeck-api/pkg/utils"
)

var validate = validator.New()

// OptimizeCvHandler runs one optimization pass for the CV in the path
func OptimizeCvHandler(sessions *cv.SessionManager) echo.HandlerFunc {
	return func(c echo.Context) error {
		startTime := time.Now()
		requestID := utils.GenerateRequestID()
		logger := logging.LogWithRequestID(requestID)

		cvID := c.Param("id")

		var req models.OptimizeCvRequest
		if err := c.Bind(&req); err != nil {
			logger.Error("Failed to bind optimize request", map[string]interface{}{
				"error": err.Error(),
			})
			return c.JSON(http.StatusBadRequest, models.ErrorResponse{
				Error:     "invalid_request",
				Message:   "Invalid request format",
				RequestID: requestID,
				Timestamp: time.Now(),
			})
		}

		if err := validate.Struct(&req); err != nil {
			logger.Error("Optimize request validation failed", map[string]interface{}{
				"error": err.Error(),
			})
			return c.JSON(http.StatusBadRequest, models.ErrorResponse{
				Error:     "validation_failed",
				Message:   err.Error(),
				RequestID: requestID,
				Timestamp: time.Now(),
			})
		}

		logger.Info("Optimize request received", map[string]interface{}{
			"cv_id":     cvID,
			"job_title": req.JobTitle,
		})

		session := sessions.Session(cvID)
		suggestions, err := session.Optimize(c.Request().Context(), req.JobTitle, req.JobDescription)
		if err != nil {
			return c.JSON(statusForError(err), models.OptimizeCvResponse{
				Success:        false,
				State:          string(session.State()),
				Error:          session.ErrorMessage(),
				ProcessingTime: time.Since(startTime),
				RequestID:      requestID,
			})
		}

		return c.JSON(http.StatusOK, models.OptimizeCvResponse{
			Success:        true,
			State:          string(session.State()),
			Suggestions:    suggestions,
			ProcessingTime: time.Since(startTime),
			RequestID:      requestID,
		})
	}
}

// ApplySuggestionHandler applies one addressed suggestion to the live CV
func ApplySuggestionHandler(sessions *cv.SessionManager) echo.HandlerFunc {
	return func(c echo.Context) error {
		requestID := utils.GenerateRequestID()
		logger := logging.LogWithRequestID(requestID)

		cvID := c.Param("id")

		var req models.ApplySuggestionRequest
		if err := c.Bind(&req); err != nil {
			return c.JSON(http.StatusBadRequest, models.ErrorResponse{
				Error:     "invalid_request",
				Message:   "Invalid request format",
				RequestID: requestID,
				Timestamp: time.Now(),
			})
		}

		if err := validate.Struct(&req); err != nil {
			return c.JSON(http.StatusBadRequest, models.ErrorResponse{
				Error:     "validation_failed",
				Message:   err.Error(),
				RequestID: requestID,
				Timestamp: time.Now(),
			})
		}

		session := sessions.Session(cvID)
		result, err := session.Apply(c.Request().Context(), req.Section, req.Index, req.Field)
		if err != nil {
			logger.Error("Apply suggestion failed", map[string]interface{}{
				"cv_id":   cvID,
				"section": req.Section,
				"error":   err.Error(),
			})
			return c.JSON(statusForError(err), models.ErrorResponse{
				Error:     "apply_failed",
				Message:   err.Error(),
				RequestID: requestID,
				Timestamp: time.Now(),
			})
		}

		return c.JSON(http.StatusOK, models.ApplySuggestionResponse{
			Success: true,
			Changed: result.Changed,
			Message: result.Message,
			Cv:      result.Cv,
		})
	}
}

// HistoryHandler returns a page of the CV's optimization history
func HistoryHandler(sessions *cv.SessionManager) echo.HandlerFunc {
	return func(c echo.Context) error {
		cvID := c.Param("id")

		limit := 10
		if raw := c.QueryParam("limit"); raw != "" {
			if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
				limit = parsed
			}
		}
		offset := 0
		if raw := c.QueryParam("offset"); raw != "" {
			if parsed, err := strconv.Atoi(raw); err == nil && parsed >= 0 {
				offset = parsed
			}
		}

		history := sessions.Session(cvID).History()

		page := make([]models.OptimizationRun, 0)
		for i := offset; i < len(history) && len(page) < limit; i++ {
			page = append(page, history[i])
		}

		return c.JSON(http.StatusOK, models.HistoryResponse{
			Entries: page,
			Count:   len(history),
			Limit:   limit,
			Offset:  offset,
		})
	}
}

// RestoreHistoryHandler copies a past run's suggestions into the active slot
func RestoreHistoryHandler(sessions *cv.SessionManager) echo.HandlerFunc {
	return func(c echo.Context) error {
		requestID := utils.GenerateRequestID()

		cvID := c.Param("id")
		index, err := strconv.Atoi(c.Param("index"))
		if err != nil {
			return c.JSON(http.StatusBadRequest, models.ErrorResponse{
				Error:     "invalid_index",
				Message:   "history index must be an integer",
				RequestID: requestID,
				Timestamp: time.Now(),
			})
		}

		session := sessions.Session(cvID)
		suggestions, err := session.RestoreFromHistory(index)
		if err != nil {
			return c.JSON(statusForError(err), models.ErrorResponse{
				Error:     "restore_failed",
				Message:   err.Error(),
				RequestID: requestID,
				Timestamp: time.Now(),
			})
		}

		return c.JSON(http.StatusOK, models.OptimizeCvResponse{
			Success:     true,
			State:       string(session.State()),
			Suggestions: suggestions,
			RequestID:   requestID,
		})
	}
}

// ClearSuggestionsHandler resets the CV's optimization session
func ClearSuggestionsHandler(sessions *cv.SessionManager) echo.HandlerFunc {
	return func(c echo.Context) error {
		cvID := c.Param("id")

		session := sessions.Session(cvID)
		session.Clear()

		return c.JSON(http.StatusOK, map[string]interface{}{
			"success": true,
			"state":   string(session.State()),
		})
	}
}
