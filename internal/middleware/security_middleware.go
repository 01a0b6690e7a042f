package middleware

import (
	"net/http"
	"os"
	"strings"

	"go-drug-pricing/internal/auth"
	"go-drug-pricing/internal/utils"

	"github.com/gin-gonic/gin"
)

// RequireAPIKey gates the store API with the caller-supplied key. The key
// may arrive as the ?apiKey= query parameter or the X-API-Key header.
func RequireAPIKey() gin.HandlerFunc {
	return func(c *gin.Context) {
		configured := os.Getenv("API_KEY")
		if configured == "" {
			c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": "Server API key is not configured"})
			c.Abort()
			return
		}

		presented := c.Query("apiKey")
		if presented == "" {
			presented = c.GetHeader("X-API-Key")
		}

		if presented == "" || !utils.KeysMatch(presented, configured) {
			c.JSON(http.StatusUnauthorized, gin.H{"ok": false, "error": "Invalid or missing API key"})
			c.Abort()
			return
		}

		c.Next()
	}
}

// AuthMiddleware checks if the user has a valid JWT token
func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		// 1. Get the token from the "Authorization" header
		// Format: "Bearer <token>"
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Authorization header is required"})
			c.Abort()
			return
		}

		// 2. Remove the "Bearer " prefix
		tokenString := strings.TrimPrefix(authHeader, "Bearer ")
		if tokenString == authHeader {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Authorization header must start with Bearer"})
			c.Abort()
			return
		}

		// 3. Validate the token using our auth package
		claims, err := auth.ValidateToken(tokenString)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
			c.Abort()
			return
		}

		// 4. Store user info in the context for the next handler to use
		c.Set("userID", claims.UserID)
		c.Set("username", claims.Username)
		c.Set("role", claims.Role)

		c.Next()
	}
}

// RequireRole is a secondary guard that checks for specific permissions
func RequireRole(allowedRole string) gin.HandlerFunc {
	return func(c *gin.Context) {
		role, exists := c.Get("role")
		if !exists || role != allowedRole {
			c.JSON(http.StatusForbidden, gin.H{"error": "You do not have permission to access this resource"})
			c.Abort()
			return
		}
		c.Next()
	}
}
