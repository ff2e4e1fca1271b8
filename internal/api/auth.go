package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/SAGARJHA0511/MealCount/internal/models"
	"github.com/SAGARJHA0511/MealCount/internal/service"
)

type AuthHandler struct {
	auth *service.AuthService
}

func NewAuthHandler(auth *service.AuthService) *AuthHandler {
	return &AuthHandler{auth: auth}
}

func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var vendorID *uuid.UUID
	if req.VendorID != "" {
		id, err := uuid.Parse(req.VendorID)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid vendor ID"})
			return
		}
		vendorID = &id
	}

	user, err := h.auth.Register(c.Request.Context(), req.Name, req.Email, req.Password,
		models.Role(req.Role), req.Department, vendorID)
	if err != nil {
		c.JSON(statusFromError(err), gin.H{"error": err.Error()})
		return
	}

	token, err := h.auth.GenerateToken(user)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to generate token"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"user": user, "token": token})
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := h.auth.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		c.JSON(statusFromError(err), gin.H{"error": err.Error()})
		return
	}

	token, err := h.auth.GenerateToken(user)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to generate token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": user, "token": token})
}
