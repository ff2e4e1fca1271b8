package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/SAGARJHA0511/MealCount/internal/middleware"
	"github.com/SAGARJHA0511/MealCount/internal/service"
)

type FeedbackHandler struct {
	feedback *service.FeedbackService
}

func NewFeedbackHandler(feedback *service.FeedbackService) *FeedbackHandler {
	return &FeedbackHandler{feedback: feedback}
}

// Create records meal feedback from the authenticated employee.
func (h *FeedbackHandler) Create(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}

	var req FeedbackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	fb, err := h.feedback.Create(c.Request.Context(), userID, req.Date, req.Rating, req.Comments, req.Meal)
	if err != nil {
		c.JSON(statusFromError(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"feedback": fb})
}

// List returns recent feedback for admins and vendors.
func (h *FeedbackHandler) List(c *gin.Context) {
	limit := 0
	if raw := c.Query("limit"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil {
			limit = parsed
		}
	}
	entries, err := h.feedback.List(c.Request.Context(), c.Query("date"), limit)
	if err != nil {
		c.JSON(statusFromError(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"feedback": entries})
}
