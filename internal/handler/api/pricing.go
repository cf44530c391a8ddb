package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	reqdto "resbook/internal/handler/dto/request"
	resdto "resbook/internal/handler/dto/response"
	"resbook/internal/pkg/errs"
	"resbook/internal/usecase/queries"
)

type PricingHandler struct {
	pricingQueries queries.PricingQueries
}

func NewPricingHandler(pricingQueries queries.PricingQueries) *PricingHandler {
	return &PricingHandler{pricingQueries: pricingQueries}
}

// @Summary Price cart
// @Description Price a cart of lines with an optional coupon, without reserving anything
// @Tags pricing
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body reqdto.PriceCartRequest true "Cart"
// @Success 200 {object} resdto.PriceCartResponse
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 422 {object} map[string]string
// @Router /pricing/cart [post]
func (h *PricingHandler) PriceCart(c *gin.Context) {
	var req reqdto.PriceCartRequest
	if bindErr := c.ShouldBindJSON(&req); bindErr != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request format",
		})
		return
	}

	lines := make([]queries.LineParams, len(req.Lines))
	for i, l := range req.Lines {
		lines[i] = queries.LineParams{
			Kind:           queries.LineKind(l.Kind),
			RateCents:      l.RateCents,
			DurationHours:  l.DurationHours,
			UnitPriceCents: l.UnitPriceCents,
			Quantity:       l.Quantity,
		}
	}

	result, err := h.pricingQueries.PriceCart(c.Request.Context(), queries.PriceCartParams{
		Lines:      lines,
		CouponCode: req.GetCouponCode(),
	})
	if err != nil {
		h.writePricingError(c, err)
		return
	}

	c.JSON(http.StatusOK, resdto.FromPriceCartResult(result))
}

func (h *PricingHandler) writePricingError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, errs.ErrCouponNotFound):
		c.JSON(http.StatusNotFound, gin.H{
			"error": "Coupon not found",
		})
	case errors.Is(err, errs.ErrCouponInactive),
		errors.Is(err, errs.ErrCouponExpired),
		errors.Is(err, errs.ErrCouponBelowMinimum):
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error": "Coupon is not applicable to this cart",
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
}
