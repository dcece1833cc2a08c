package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/rebilt/catalogadmin/internal/api/middleware"
	apperrors "github.com/rebilt/catalogadmin/pkg/errors"
)

// respondError writes err with the status of its error type
func respondError(c *gin.Context, logger *zap.Logger, err error) {
	status := apperrors.HTTPStatus(err)

	var ve *apperrors.ValidationError
	if errors.As(err, &ve) {
		c.JSON(status, gin.H{
			"error":   "validation failed",
			"details": ve.Fields,
		})
		return
	}

	if status >= http.StatusInternalServerError {
		logger.Error("Request failed",
			zap.String("path", c.Request.URL.Path), zap.Int("status", status), zap.Error(err))
	}
	if status == http.StatusInternalServerError {
		c.JSON(status, gin.H{"error": "internal error"})
		return
	}
	c.JSON(status, gin.H{"error": err.Error()})
}

// token returns the bearer token or answers 401
func token(c *gin.Context) (string, bool) {
	t, ok := middleware.GetTokenFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return "", false
	}
	return t, true
}
