package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/SAGARJHA0511/MealCount/internal/models"
	"github.com/SAGARJHA0511/MealCount/internal/service"
)

type CountHandler struct {
	counts   *service.CountService
	feedback *service.FeedbackService
}

func NewCountHandler(counts *service.CountService, feedback *service.FeedbackService) *CountHandler {
	return &CountHandler{counts: counts, feedback: feedback}
}

// GetCounts returns the aggregated counts for ?date=, either org-wide with a
// per-department breakdown or scoped to ?department=.
func (h *CountHandler) GetCounts(c *gin.Context) {
	date := c.Query("date")
	if date == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "date query parameter is required"})
		return
	}

	if dept := c.Query("department"); dept != "" {
		count, err := h.counts.Aggregate(c.Request.Context(), date, dept)
		if err != nil {
			c.JSON(statusFromError(err), gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"date": date, "department": dept, "counts": count})
		return
	}

	departments, totals, err := h.counts.AggregateByDepartment(c.Request.Context(), date)
	if err != nil {
		c.JSON(statusFromError(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"date": date, "departments": departments, "totals": totals})
}

// GetDailyReport returns per-date report rows: counts plus average rating.
func (h *CountHandler) GetDailyReport(c *gin.Context) {
	date := c.Query("date")
	if date == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "date query parameter is required"})
		return
	}

	count, err := h.counts.Aggregate(c.Request.Context(), date, "")
	if err != nil {
		c.JSON(statusFromError(err), gin.H{"error": err.Error()})
		return
	}
	avg, err := h.feedback.AverageRating(c.Request.Context(), date)
	if err != nil {
		c.JSON(statusFromError(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"date":           date,
		"counts":         count,
		"average_rating": avg,
	})
}

// Adjust applies a manual override to one dietary component.
func (h *CountHandler) Adjust(c *gin.Context) {
	var req AdjustCountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	count, err := h.counts.Adjust(c.Request.Context(), req.Date, req.Department,
		models.DietaryType(req.Type), req.Delta)
	if err != nil {
		c.JSON(statusFromError(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"date": req.Date, "department": req.Department, "counts": count})
}
