package middleware

import (
	"strings"

	"ad-panel/internal/models"
	"ad-panel/internal/services"

	"github.com/gin-gonic/gin"
)

func AuthMiddleware(authService *services.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			abortError(c, 401, "Authorization header required")
			return
		}

		// Extract token from "Bearer <token>"
		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			abortError(c, 401, "Invalid authorization header format")
			return
		}

		token := parts[1]

		session, err := authService.GetSession(token)
		if err != nil {
			abortError(c, 401, "Invalid or expired token")
			return
		}

		c.Set("user", &session.User)
		c.Set("user_id", session.UserID)
		c.Set("session", session)

		c.Next()
	}
}

// RequireRole enforces the role hierarchy: admin covers operator covers
// viewer.
func RequireRole(requiredRole string) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, exists := c.Get("user")
		if !exists {
			abortError(c, 401, "Unauthorized")
			return
		}

		if !models.HasPermission(user.(*models.User).Role, requiredRole) {
			abortError(c, 403, "Forbidden: insufficient permissions")
			return
		}

		c.Next()
	}
}

func abortError(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{
		"success": false,
		"error":   gin.H{"message": message, "status": status},
	})
	c.Abort()
}
