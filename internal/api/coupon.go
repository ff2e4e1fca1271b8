package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/SAGARJHA0511/MealCount/internal/middleware"
	"github.com/SAGARJHA0511/MealCount/internal/models"
	"github.com/SAGARJHA0511/MealCount/internal/service"
)

type CouponHandler struct {
	coupons *service.CouponService
}

func NewCouponHandler(coupons *service.CouponService) *CouponHandler {
	return &CouponHandler{coupons: coupons}
}

// Verify redeems a coupon code presented at the counter.
func (h *CouponHandler) Verify(c *gin.Context) {
	var req VerifyCouponRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	coupon, err := h.coupons.Verify(c.Request.Context(), req.Code,
		models.DietaryType(req.Type), middleware.VendorID(c))
	if err != nil {
		c.JSON(statusFromError(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"coupon": coupon})
}

// Verified lists redeemed coupons, newest first.
func (h *CouponHandler) Verified(c *gin.Context) {
	limit := 0
	if raw := c.Query("limit"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
			limit = parsed
		}
	}

	coupons, err := h.coupons.Verified(c.Request.Context(), limit)
	if err != nil {
		c.JSON(statusFromError(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"coupons": coupons})
}
