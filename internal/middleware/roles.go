package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/SAGARJHA0511/MealCount/internal/models"
)

// RequireRole rejects requests whose token role is not one of the allowed
// roles. It must run after AuthMiddleware.
func RequireRole(allowed ...models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		value, exists := c.Get("role")
		if !exists {
			c.JSON(http.StatusForbidden, gin.H{"error": "role missing from token"})
			c.Abort()
			return
		}
		role, ok := value.(models.Role)
		if !ok {
			c.JSON(http.StatusForbidden, gin.H{"error": "role missing from token"})
			c.Abort()
			return
		}
		for _, a := range allowed {
			if role == a {
				c.Next()
				return
			}
		}
		c.JSON(http.StatusForbidden, gin.H{"error": "insufficient permissions"})
		c.Abort()
	}
}
