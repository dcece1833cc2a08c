package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/rebilt/catalogadmin/internal/domain"
	"github.com/rebilt/catalogadmin/internal/service"
)

// CreateOptionRequest is the payload for a new option, e.g. a new color
type CreateOptionRequest struct {
	Name  string  `json:"name" binding:"required"`
	Type  string  `json:"type"`
	Price float64 `json:"price" binding:"min=0"`
}

// HandleCreateOption handles POST /v1/options
func HandleCreateOption(svc *service.Services, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		tok, ok := token(c)
		if !ok {
			return
		}

		var req CreateOptionRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusUnprocessableEntity, gin.H{
				"error":   "validation failed",
				"details": err.Error(),
			})
			return
		}

		option, err := svc.Catalog.CreateOption(c.Request.Context(), tok, domain.Option{
			Name:  req.Name,
			Type:  req.Type,
			Price: req.Price,
		})
		if err != nil {
			respondError(c, logger, err)
			return
		}

		c.JSON(http.StatusCreated, option)
	}
}
