package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	reqdto "resbook/internal/handler/dto/request"
	resdto "resbook/internal/handler/dto/response"
	"resbook/internal/handler/middleware"
	"resbook/internal/pkg/errs"
	"resbook/internal/usecase/commands"
	"resbook/internal/usecase/queries"
)

type HoldHandler struct {
	holdCommands       commands.HoldCommands
	reservationQueries queries.ReservationQueries
}

func NewHoldHandler(holdCommands commands.HoldCommands, reservationQueries queries.ReservationQueries) *HoldHandler {
	return &HoldHandler{
		holdCommands:       holdCommands,
		reservationQueries: reservationQueries,
	}
}

// @Summary Create hold
// @Description Place a temporary capacity hold on a resource
// @Tags holds
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body reqdto.CreateHoldRequest true "Hold request"
// @Success 201 {object} resdto.HoldResponse
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Router /holds [post]
func (h *HoldHandler) CreateHold(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
		return
	}

	var req reqdto.CreateHoldRequest
	if bindErr := c.ShouldBindJSON(&req); bindErr != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request format",
		})
		return
	}

	hold, err := h.holdCommands.CreateHold(c.Request.Context(), commands.CreateHoldParams{
		ResourceID: req.ResourceID,
		UserID:     userID,
		Start:      req.StartsAt,
		End:        req.EndsAt,
		Quantity:   req.NormalizedQuantity(),
	})
	if err != nil {
		switch {
		case errors.Is(err, errs.ErrResourceNotFound):
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Resource not found",
			})
		case errors.Is(err, errs.ErrResourceClosed):
			c.JSON(http.StatusConflict, gin.H{
				"error": "Resource is closed on the requested day",
			})
		case errors.Is(err, errs.ErrInvalidTimeRange):
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "Invalid time range",
			})
		case errors.Is(err, errs.ErrCapacityExceeded):
			c.JSON(http.StatusConflict, gin.H{
				"error": "Insufficient capacity for requested range",
			})
		case errors.Is(err, errs.ErrDomainValidation):
			c.JSON(http.StatusUnprocessableEntity, gin.H{
				"error": "Domain validation failed",
			})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Internal server error",
			})
		}
		return
	}

	c.JSON(http.StatusCreated, resdto.FromHoldView(hold))
}

// @Summary Renew hold
// @Description Reset an active hold's expiry to a fresh TTL
// @Tags holds
// @Produce json
// @Security BearerAuth
// @Param id path string true "Hold ID"
// @Success 200 {object} resdto.HoldResponse
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 410 {object} map[string]string
// @Router /holds/{id}/renew [post]
func (h *HoldHandler) RenewHold(c *gin.Context) {
	userID, holdID, ok := h.holdRequestIDs(c)
	if !ok {
		return
	}

	hold, err := h.holdCommands.RenewHold(c.Request.Context(), holdID, userID)
	if err != nil {
		switch {
		case errors.Is(err, errs.ErrHoldNotFound):
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Hold not found",
			})
		case errors.Is(err, errs.ErrHoldExpired):
			c.JSON(http.StatusGone, gin.H{
				"error": "Hold has expired",
			})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Internal server error",
			})
		}
		return
	}

	c.JSON(http.StatusOK, resdto.FromHoldView(hold))
}

// @Summary Release hold
// @Description Release a hold, freeing its capacity immediately
// @Tags holds
// @Produce json
// @Security BearerAuth
// @Param id path string true "Hold ID"
// @Success 204
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /holds/{id} [delete]
func (h *HoldHandler) ReleaseHold(c *gin.Context) {
	userID, holdID, ok := h.holdRequestIDs(c)
	if !ok {
		return
	}

	if err := h.holdCommands.ReleaseHold(c.Request.Context(), holdID, userID); err != nil {
		switch {
		case errors.Is(err, errs.ErrHoldNotFound):
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Hold not found",
			})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Internal server error",
			})
		}
		return
	}

	c.Status(http.StatusNoContent)
}

// @Summary List active holds
// @Description List the current user's active, unexpired holds
// @Tags holds
// @Produce json
// @Security BearerAuth
// @Success 200 {array} resdto.HoldResponse
// @Failure 401 {object} map[string]string
// @Router /holds [get]
func (h *HoldHandler) ListActiveHolds(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
		return
	}

	holds, err := h.reservationQueries.ListActiveHolds(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
		return
	}

	c.JSON(http.StatusOK, resdto.FromHoldViews(holds))
}

func (h *HoldHandler) holdRequestIDs(c *gin.Context) (userID, holdID uuid.UUID, ok bool) {
	userID, found := middleware.GetUserID(c)
	if !found {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
		return uuid.Nil, uuid.Nil, false
	}

	holdID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid hold ID format",
		})
		return uuid.Nil, uuid.Nil, false
	}

	return userID, holdID, true
}
