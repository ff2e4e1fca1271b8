package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/SAGARJHA0511/MealCount/internal/models"
)

// TokenClaims is the identity the core trusts on every call.
type TokenClaims struct {
	UserID     uuid.UUID
	Role       models.Role
	Department string
	VendorID   *uuid.UUID
}

// TokenValidator is an interface for validating JWT tokens.
type TokenValidator interface {
	ValidateToken(token string) (*TokenClaims, error)
}

// AuthMiddleware validates the bearer token and stores the claims on the
// request context.
func AuthMiddleware(validator TokenValidator) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "missing authorization header"})
			c.Abort()
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid authorization header format"})
			c.Abort()
			return
		}

		claims, err := validator.ValidateToken(parts[1])
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
			c.Abort()
			return
		}

		c.Set("user_id", claims.UserID)
		c.Set("role", claims.Role)
		c.Set("department", claims.Department)
		if claims.VendorID != nil {
			c.Set("vendor_id", *claims.VendorID)
		}
		c.Next()
	}
}

// UserID returns the authenticated user's ID from the request context.
func UserID(c *gin.Context) (uuid.UUID, bool) {
	value, exists := c.Get("user_id")
	if !exists {
		return uuid.Nil, false
	}
	id, ok := value.(uuid.UUID)
	return id, ok
}

// VendorID returns the linked vendor ID from the request context, if any.
func VendorID(c *gin.Context) *uuid.UUID {
	value, exists := c.Get("vendor_id")
	if !exists {
		return nil
	}
	id, ok := value.(uuid.UUID)
	if !ok {
		return nil
	}
	return &id
}
