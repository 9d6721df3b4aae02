package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/asamblea-eventos/backend/internal/auth"
	"github.com/asamblea-eventos/backend/pkg/response"
)

// JWT returns a middleware that validates the bearer token and stores its claims.
func JWT(jwtService *auth.JWTService) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			response.Unauthorized(c, "missing authorization header")
			c.Abort()
			return
		}
		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			response.Unauthorized(c, "invalid authorization header")
			c.Abort()
			return
		}
		claims, err := jwtService.Validate(strings.TrimSpace(parts[1]))
		if err != nil {
			response.Unauthorized(c, "invalid or expired token")
			c.Abort()
			return
		}
		c.Set(auth.ContextClaims, claims)
		c.Next()
	}
}
