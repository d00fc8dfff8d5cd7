package middleware

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/Conceptual-Machines/storyforge-api/internal/config"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

const (
	bearerPrefix = "Bearer"
	// UserIDKey is the gin context key holding the authenticated user id
	UserIDKey = "user_id_str"
	// AnonymousUserID is set when authentication is disabled
	AnonymousUserID = "anonymous"
)

type Claims struct {
	UserID string `json:"user_id"`
	Email  string `json:"email,omitempty"`
	jwt.RegisteredClaims
}

// subject returns the user id carried by the token, preferring user_id over sub
func (c *Claims) subject() string {
	if c.UserID != "" {
		return c.UserID
	}
	return c.Subject
}

// JWTAuth middleware validates HS256 tokens signed with cfg.JWTSecret and
// attaches the user id to the context
func JWTAuth(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := extractToken(c)
		if tokenString == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Authorization required"})
			c.Abort()
			return
		}

		claims := &Claims{}
		token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
			}
			return []byte(cfg.JWTSecret), nil
		})

		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
			c.Abort()
			return
		}

		if !token.Valid || claims.subject() == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
			c.Abort()
			return
		}

		c.Set(UserIDKey, claims.subject())
		if claims.Email != "" {
			c.Set("user_email", claims.Email)
		}

		c.Next()
	}
}

// extractToken reads the bearer token from the Authorization header, falling
// back to the access_token cookie
func extractToken(c *gin.Context) string {
	if authHeader := c.GetHeader("Authorization"); authHeader != "" {
		parts := strings.Split(authHeader, " ")
		if len(parts) == 2 && parts[0] == bearerPrefix {
			return parts[1]
		}
	}

	tokenString, _ := c.Cookie("access_token")
	return tokenString
}

// GetCurrentUserID retrieves the authenticated user id from context
func GetCurrentUserID(c *gin.Context) (string, bool) {
	userIDVal, exists := c.Get(UserIDKey)
	if !exists {
		return "", false
	}
	userID, ok := userIDVal.(string)
	return userID, ok && userID != ""
}

// IsAuthenticated reports whether a real (non-anonymous) user is attached
func IsAuthenticated(c *gin.Context) bool {
	userID, ok := GetCurrentUserID(c)
	return ok && userID != AnonymousUserID
}
