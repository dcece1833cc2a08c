package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/rebilt/catalogadmin/internal/service"
)

// HandleGetProduct handles GET /v1/products/:id
func HandleGetProduct(svc *service.Services, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		tok, ok := token(c)
		if !ok {
			return
		}

		product, err := svc.Catalog.GetProduct(c.Request.Context(), tok, c.Param("id"))
		if err != nil {
			respondError(c, logger, err)
			return
		}

		c.JSON(http.StatusOK, product)
	}
}

// HandleCreateProduct handles POST /v1/partners/:id/products
func HandleCreateProduct(svc *service.Services, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		tok, ok := token(c)
		if !ok {
			return
		}

		var req service.CreateProductRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"error":   "invalid request body",
				"details": err.Error(),
			})
			return
		}
		// The path decides the partner
		req.Draft.PartnerID = c.Param("id")

		result, err := svc.Flow.CreateProduct(c.Request.Context(), tok, req)
		if err != nil {
			respondError(c, logger, err)
			return
		}

		c.JSON(http.StatusCreated, result)
	}
}
