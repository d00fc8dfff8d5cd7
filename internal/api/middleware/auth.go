package middleware

import (
	"github.com/Conceptual-Machines/storyforge-api/internal/config"
	"github.com/Conceptual-Machines/storyforge-api/internal/middleware"
	"github.com/gin-gonic/gin"
)

// Authenticate selects the auth middleware for the configured AUTH_MODE
func Authenticate(cfg *config.Config) gin.HandlerFunc {
	switch cfg.AuthMode {
	case config.AuthModeGateway:
		return GatewayAuth()
	case config.AuthModeJWT:
		return middleware.JWTAuth(cfg)
	default:
		return NoAuth()
	}
}
