package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	reqdto "resbook/internal/handler/dto/request"
	resdto "resbook/internal/handler/dto/response"
	"resbook/internal/handler/httperr"
	"resbook/internal/handler/middleware"
	"resbook/internal/pkg/errs"
	"resbook/internal/usecase/commands"
)

type CheckoutHandler struct {
	checkoutCommands commands.CheckoutCommands
	metrics          *middleware.Metrics
}

func NewCheckoutHandler(checkoutCommands commands.CheckoutCommands, metrics *middleware.Metrics) *CheckoutHandler {
	return &CheckoutHandler{
		checkoutCommands: checkoutCommands,
		metrics:          metrics,
	}
}

// @Summary Commit checkout
// @Description Atomically promote a set of holds into pending-payment bookings
// @Tags checkout
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param Idempotency-Key header string true "Idempotency key for duplicate prevention"
// @Param request body reqdto.CommitCheckoutRequest true "Checkout request"
// @Success 201 {object} resdto.CommitResponse
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Failure 422 {object} map[string]string
// @Router /checkout/commit [post]
func (h *CheckoutHandler) Commit(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
		return
	}

	idempotencyKey, err := getIdempotencyKey(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": err.Error(),
		})
		return
	}

	var req reqdto.CommitCheckoutRequest
	if bindErr := c.ShouldBindJSON(&req); bindErr != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request format",
		})
		return
	}

	result, err := h.checkoutCommands.Commit(c.Request.Context(), commands.CommitParams{
		HoldIDs:        req.HoldIDs,
		UserID:         userID,
		CouponCode:     req.GetCouponCode(),
		IdempotencyKey: idempotencyKey,
	})
	if err != nil {
		h.writeCommitError(c, err)
		return
	}

	status := http.StatusCreated
	if result.IsReplayed {
		status = http.StatusOK
	}
	c.JSON(status, resdto.FromCommitResult(result))
}

func (h *CheckoutHandler) writeCommitError(c *gin.Context, err error) {
	var conflict *commands.CommitConflictError

	switch {
	case errors.As(err, &conflict):
		h.metrics.CommitConflicts.Inc()
		resp := httperr.New(http.StatusConflict, "commit_conflict", "One or more holds failed re-validation").
			WithFailedHolds(conflict.FailedHoldIDs)
		httperr.Abort(c, resp, err)
	case errors.Is(err, errs.ErrCommitConflict):
		h.metrics.CommitConflicts.Inc()
		httperr.Abort(c, httperr.New(http.StatusConflict, "commit_conflict", "Checkout conflicts with current reservation state"), err)
	case errors.Is(err, errs.ErrCouponNotFound):
		httperr.Abort(c, httperr.New(http.StatusNotFound, "coupon_not_found", "Coupon not found"), err)
	case errors.Is(err, errs.ErrCouponInactive),
		errors.Is(err, errs.ErrCouponExpired),
		errors.Is(err, errs.ErrCouponBelowMinimum):
		httperr.Abort(c, httperr.New(http.StatusUnprocessableEntity, "coupon_not_applicable", "Coupon is not applicable to this cart"), err)
	case errors.Is(err, errs.ErrDuplicateCheckout):
		httperr.Abort(c, httperr.New(http.StatusConflict, "duplicate_checkout", "Duplicate checkout request with different parameters"), err)
	case errors.Is(err, errs.ErrIdempotencyInProgress):
		httperr.Abort(c, httperr.New(http.StatusConflict, "in_progress", "Checkout request is currently being processed"), err)
	case errors.Is(err, errs.ErrInvalidTimeRange):
		httperr.Abort(c, httperr.New(http.StatusBadRequest, "invalid_request", "Invalid checkout request"), err)
	case errors.Is(err, errs.ErrDomainValidation):
		httperr.Abort(c, httperr.New(http.StatusUnprocessableEntity, "validation_failed", "Domain validation failed"), err)
	default:
		httperr.Abort(c, httperr.New(http.StatusInternalServerError, "internal", "Internal server error"), err)
	}
}

func getIdempotencyKey(c *gin.Context) (uuid.UUID, error) {
	keyStr := c.GetHeader("Idempotency-Key")
	if keyStr == "" {
		return uuid.Nil, errs.ErrIdempotencyKeyRequired
	}

	key, err := uuid.Parse(keyStr)
	if err != nil {
		return uuid.Nil, errors.New("invalid idempotency key format")
	}

	return key, nil
}
