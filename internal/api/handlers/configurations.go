package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/rebilt/catalogadmin/internal/domain"
	"github.com/rebilt/catalogadmin/internal/service"
)

// HandleListConfigurations handles GET /v1/configurations?fieldType=color
func HandleListConfigurations(svc *service.Services, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		tok, ok := token(c)
		if !ok {
			return
		}

		configs, err := svc.Catalog.ListConfigurations(c.Request.Context(), tok, domain.FieldType(c.Query("fieldType")))
		if err != nil {
			respondError(c, logger, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"configurations": configs,
			"count":          len(configs),
		})
	}
}
