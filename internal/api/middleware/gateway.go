package middleware

import (
	"net/http"

	"github.com/Conceptual-Machines/storyforge-api/internal/middleware"
	"github.com/gin-gonic/gin"
)

// GatewayAuth trusts user info from gateway headers (X-User-ID, X-User-Email).
// The gateway in front of the API validates credentials; this should ONLY be
// used with proper network isolation.
func GatewayAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		userIDStr := c.GetHeader("X-User-ID")
		if userIDStr == "" {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error":   "Authentication required",
				"message": "Missing X-User-ID header from gateway",
			})
			c.Abort()
			return
		}

		c.Set(middleware.UserIDKey, userIDStr)
		if email := c.GetHeader("X-User-Email"); email != "" {
			c.Set("user_email", email)
		}

		c.Next()
	}
}
