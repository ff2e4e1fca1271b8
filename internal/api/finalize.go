package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/SAGARJHA0511/MealCount/internal/middleware"
	"github.com/SAGARJHA0511/MealCount/internal/service"
)

type FinalizeHandler struct {
	finalize *service.FinalizeService
}

func NewFinalizeHandler(finalize *service.FinalizeService) *FinalizeHandler {
	return &FinalizeHandler{finalize: finalize}
}

// Status reports the finalization state for ?date=.
func (h *FinalizeHandler) Status(c *gin.Context) {
	date := c.Query("date")
	if date == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "date query parameter is required"})
		return
	}

	fin, err := h.finalize.Status(c.Request.Context(), date)
	if err != nil {
		c.JSON(statusFromError(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"finalization": fin})
}

// Finalize sets the lock marker for ?date=.
func (h *FinalizeHandler) Finalize(c *gin.Context) {
	date := c.Query("date")
	if date == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "date query parameter is required"})
		return
	}

	fin, err := h.finalize.Finalize(c.Request.Context(), date)
	if err != nil {
		c.JSON(statusFromError(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"finalization": fin})
}

// Submit freezes the current totals into a snapshot and hands it to the
// vendor. Before cutoff it requires the explicit override flag.
func (h *FinalizeHandler) Submit(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	var req SubmitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	snapshot, err := h.finalize.Submit(c.Request.Context(), req.Date, userID, req.Override)
	if err != nil {
		c.JSON(statusFromError(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"submission": snapshot})
}

// Reset reopens a submitted date.
func (h *FinalizeHandler) Reset(c *gin.Context) {
	date := c.Query("date")
	if date == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "date query parameter is required"})
		return
	}

	fin, err := h.finalize.Reset(c.Request.Context(), date)
	if err != nil {
		c.JSON(statusFromError(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"finalization": fin})
}

// VendorReport returns the latest submitted snapshot for ?date=.
func (h *FinalizeHandler) VendorReport(c *gin.Context) {
	date := c.Query("date")
	if date == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "date query parameter is required"})
		return
	}

	snapshot, departments, err := h.finalize.Submission(c.Request.Context(), date)
	if err != nil {
		c.JSON(statusFromError(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"submission": snapshot, "departments": departments})
}
