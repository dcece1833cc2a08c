package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const TokenContextKey = "token"

// BearerAuth requires a bearer token and stores it for forwarding to the catalog API.
// The token is not verified here; the catalog API does that.
func BearerAuth(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "missing authorization header"})
			c.Abort()
			return
		}

		// Extract Bearer token
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			logger.Warn("Rejected authorization header", zap.String("path", c.Request.URL.Path))
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid authorization header format"})
			c.Abort()
			return
		}

		token := strings.TrimSpace(parts[1])
		if token == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "missing token"})
			c.Abort()
			return
		}

		c.Set(TokenContextKey, token)
		c.Next()
	}
}

// GetTokenFromContext retrieves the bearer token from the Gin context
func GetTokenFromContext(c *gin.Context) (string, bool) {
	token, exists := c.Get(TokenContextKey)
	if !exists {
		return "", false
	}
	s, ok := token.(string)
	return s, ok && s != ""
}
