package handlers

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"jobdeck-api/internal/logging"
	"jobdeck-api/internal/pricing"
	"jobdeck-api/pkg/models"
	"jobdeck-api/pkg/utils"
)

// QuoteHandler prices a visibility tier purchase
func QuoteHandler(svc *pricing.Service) echo.HandlerFunc {
	return func(c echo.Context) error {
		requestID := utils.GenerateRequestID()
		logger := logging.LogWithRequestID(requestID)

		var req models.QuoteRequest
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

		quote, err := svc.Quote(pricing.Tier(req.Tier), req.Days, req.CouponCode)
		if err != nil {
			logger.Error("Quote failed", map[string]interface{}{
				"tier":  req.Tier,
				"days":  req.Days,
				"error": err.Error(),
			})
			return c.JSON(statusForError(err), models.ErrorResponse{
				Error:     "quote_failed",
				Message:   err.Error(),
				RequestID: requestID,
				Timestamp: time.Now(),
			})
		}

		return c.JSON(http.StatusOK, quote)
	}
}

// TiersHandler lists the supported tiers and their daily rates
func TiersHandler(svc *pricing.Service) echo.HandlerFunc {
	return func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]interface{}{
			"tiers": svc.Tiers(),
		})
	}
}
