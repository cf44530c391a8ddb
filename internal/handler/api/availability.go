package api

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	resdto "resbook/internal/handler/dto/response"
	"resbook/internal/pkg/errs"
	"resbook/internal/usecase/queries"
)

type AvailabilityHandler struct {
	availabilityQueries queries.AvailabilityQueries
}

func NewAvailabilityHandler(availabilityQueries queries.AvailabilityQueries) *AvailabilityHandler {
	return &AvailabilityHandler{availabilityQueries: availabilityQueries}
}

// @Summary Get availability
// @Description Hourly availability for a resource on a given day
// @Tags availability
// @Produce json
// @Security BearerAuth
// @Param id path string true "Resource ID"
// @Param date query string true "Date (YYYY-MM-DD)"
// @Param quantity query int false "Requested quantity (default 1)"
// @Param start query string false "Desired range start (RFC3339)"
// @Param end query string false "Desired range end (RFC3339)"
// @Success 200 {object} resdto.AvailabilityResponse
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Router /resources/{id}/availability [get]
func (h *AvailabilityHandler) GetAvailability(c *gin.Context) {
	resourceID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid resource ID format",
		})
		return
	}

	params, ok := h.parseParams(c, resourceID)
	if !ok {
		return
	}

	slots, err := h.availabilityQueries.GetAvailability(c.Request.Context(), params)
	if err != nil {
		switch {
		case errors.Is(err, errs.ErrResourceNotFound):
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Resource not found",
			})
		case errors.Is(err, errs.ErrInvalidTimeRange):
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "Requested range falls outside operating hours",
			})
		case errors.Is(err, errs.ErrCapacityExceeded):
			c.JSON(http.StatusConflict, gin.H{
				"error": "Insufficient capacity for requested range",
			})
		case errors.Is(err, errs.ErrDomainValidation):
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "Invalid availability query",
			})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Internal server error",
			})
		}
		return
	}

	c.JSON(http.StatusOK, resdto.FromSlots(slots))
}

func (h *AvailabilityHandler) parseParams(c *gin.Context, resourceID uuid.UUID) (queries.GetAvailabilityParams, bool) {
	params := queries.GetAvailabilityParams{ResourceID: resourceID, Quantity: 1}

	date, err := time.Parse("2006-01-02", c.Query("date"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid or missing date, expected YYYY-MM-DD",
		})
		return params, false
	}
	params.Date = date

	if qStr := c.Query("quantity"); qStr != "" {
		quantity, err := strconv.Atoi(qStr)
		if err != nil || quantity < 1 {
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "Quantity must be a positive integer",
			})
			return params, false
		}
		params.Quantity = quantity
	}

	startStr, endStr := c.Query("start"), c.Query("end")
	if (startStr == "") != (endStr == "") {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Start and end must be provided together",
		})
		return params, false
	}
	if startStr != "" {
		start, err := time.Parse(time.RFC3339, startStr)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "Invalid start, expected RFC3339",
			})
			return params, false
		}
		end, err := time.Parse(time.RFC3339, endStr)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "Invalid end, expected RFC3339",
			})
			return params, false
		}
		params.Start, params.End = &start, &end
	}

	return params, true
}
