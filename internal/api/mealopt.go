package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/SAGARJHA0511/MealCount/internal/cutoff"
	"github.com/SAGARJHA0511/MealCount/internal/middleware"
	"github.com/SAGARJHA0511/MealCount/internal/models"
	"github.com/SAGARJHA0511/MealCount/internal/service"
)

type MealOptHandler struct {
	opts *service.MealOptService
}

func NewMealOptHandler(opts *service.MealOptService) *MealOptHandler {
	return &MealOptHandler{opts: opts}
}

// SetOpt records the caller's opt-in/opt-out decision for a service date.
func (h *MealOptHandler) SetOpt(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	var req MealOptRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	opt, err := h.opts.SetOpt(c.Request.Context(), userID, req.Date,
		models.Decision(req.Decision), models.DietaryType(req.DietaryPreference))
	if err != nil {
		c.JSON(statusFromError(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"meal_opt": opt})
}

// GetOpt returns the caller's decision for ?date=, plus the state of the
// opt-in window so the client can disable its controls.
func (h *MealOptHandler) GetOpt(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	date := c.Query("date")
	if date == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "date query parameter is required"})
		return
	}

	opt, err := h.opts.GetOpt(c.Request.Context(), userID, date)
	if err != nil {
		c.JSON(statusFromError(err), gin.H{"error": err.Error()})
		return
	}

	now := time.Now()
	c.JSON(http.StatusOK, gin.H{
		"meal_opt":       opt,
		"cutoff_passed":  cutoff.PastCutoff(now),
		"time_remaining": cutoff.TimeRemaining(now).String(),
	})
}
