package api

import (
	"context"
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

type BookingHandler struct {
	checkoutCommands   commands.CheckoutCommands
	reservationQueries queries.ReservationQueries
}

func NewBookingHandler(checkoutCommands commands.CheckoutCommands, reservationQueries queries.ReservationQueries) *BookingHandler {
	return &BookingHandler{
		checkoutCommands:   checkoutCommands,
		reservationQueries: reservationQueries,
	}
}

// @Summary Get booking
// @Description Get one of the current user's bookings by ID
// @Tags bookings
// @Produce json
// @Security BearerAuth
// @Param id path string true "Booking ID"
// @Success 200 {object} resdto.BookingResponse
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /bookings/{id} [get]
func (h *BookingHandler) GetBooking(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid booking ID format",
		})
		return
	}

	booking, err := h.reservationQueries.GetBooking(c.Request.Context(), id, userID)
	if err != nil {
		switch {
		case errors.Is(err, errs.ErrBookingNotFound):
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Booking not found",
			})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Internal server error",
			})
		}
		return
	}

	c.JSON(http.StatusOK, resdto.FromBookingView(booking))
}

// @Summary List bookings
// @Description List all bookings for the current user
// @Tags bookings
// @Produce json
// @Security BearerAuth
// @Success 200 {array} resdto.BookingResponse
// @Failure 401 {object} map[string]string
// @Router /bookings [get]
func (h *BookingHandler) ListBookings(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
		return
	}

	bookings, err := h.reservationQueries.ListUserBookings(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
		return
	}

	c.JSON(http.StatusOK, resdto.FromBookingViews(bookings))
}

// @Summary Confirm bookings
// @Description Mark pending bookings as confirmed after successful payment
// @Tags bookings
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body reqdto.BookingTransitionRequest true "Booking IDs"
// @Success 204
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 422 {object} map[string]string
// @Router /bookings/confirm [post]
func (h *BookingHandler) ConfirmBookings(c *gin.Context) {
	h.transition(c, h.checkoutCommands.ConfirmBookings)
}

// @Summary Cancel bookings
// @Description Cancel bookings, releasing their capacity
// @Tags bookings
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body reqdto.BookingTransitionRequest true "Booking IDs"
// @Success 204
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 422 {object} map[string]string
// @Router /bookings/cancel [post]
func (h *BookingHandler) CancelBookings(c *gin.Context) {
	h.transition(c, h.checkoutCommands.CancelBookings)
}

func (h *BookingHandler) transition(c *gin.Context, apply func(ctx context.Context, bookingIDs []uuid.UUID, userID uuid.UUID) error) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
		return
	}

	var req reqdto.BookingTransitionRequest
	if bindErr := c.ShouldBindJSON(&req); bindErr != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request format",
		})
		return
	}

	if err := apply(c.Request.Context(), req.BookingIDs, userID); err != nil {
		switch {
		case errors.Is(err, errs.ErrBookingNotFound):
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Booking not found",
			})
		case errors.Is(err, errs.ErrInvalidBookingState):
			c.JSON(http.StatusUnprocessableEntity, gin.H{
				"error": "Booking is not in a valid state for this transition",
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
