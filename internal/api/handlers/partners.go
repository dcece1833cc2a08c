package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/rebilt/catalogadmin/internal/service"
)

// HandleGetPartner handles GET /v1/partners/:id
func HandleGetPartner(svc *service.Services, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		tok, ok := token(c)
		if !ok {
			return
		}

		partner, err := svc.Catalog.GetPartner(c.Request.Context(), tok, c.Param("id"))
		if err != nil {
			respondError(c, logger, err)
			return
		}

		c.JSON(http.StatusOK, partner)
	}
}

// HandleFindPartner handles GET /v1/partners?name=Acme
func HandleFindPartner(svc *service.Services, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		tok, ok := token(c)
		if !ok {
			return
		}

		partner, err := svc.Catalog.FindPartnerByName(c.Request.Context(), tok, c.Query("name"))
		if err != nil {
			respondError(c, logger, err)
			return
		}

		c.JSON(http.StatusOK, partner)
	}
}

// HandleGetConfigurations handles GET /v1/partners/:id/configurations
func HandleGetConfigurations(svc *service.Services, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		tok, ok := token(c)
		if !ok {
			return
		}

		tree, err := svc.Catalog.ConfigurationTree(c.Request.Context(), tok, c.Param("id"))
		if err != nil {
			respondError(c, logger, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{"configurations": tree})
	}
}

// HandleListProducts handles GET /v1/partners/:id/products?type=
func HandleListProducts(svc *service.Services, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		tok, ok := token(c)
		if !ok {
			return
		}

		products, err := svc.Catalog.ListProducts(c.Request.Context(), tok, c.Param("id"), c.Query("type"))
		if err != nil {
			respondError(c, logger, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"products": products,
			"count":    len(products),
		})
	}
}

// HandleProductTypes handles GET /v1/partners/:id/product-types
func HandleProductTypes(svc *service.Services, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		tok, ok := token(c)
		if !ok {
			return
		}

		types, err := svc.Catalog.PartnerProductTypes(c.Request.Context(), tok, c.Param("id"))
		if err != nil {
			respondError(c, logger, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{"productTypes": types})
	}
}

// HandleUsedOptions handles GET /v1/partners/:id/options/used
func HandleUsedOptions(svc *service.Services, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		tok, ok := token(c)
		if !ok {
			return
		}

		options, warnings, err := svc.Catalog.UsedOptions(c.Request.Context(), tok, c.Param("id"))
		if err != nil {
			respondError(c, logger, err)
			return
		}
		if warnings == nil {
			warnings = []service.Warning{}
		}

		c.JSON(http.StatusOK, service.UsedOptionsResult{Options: options, Warnings: warnings})
	}
}

// HandleListSubmissions handles GET /v1/partners/:id/submissions. The audit rows
// are only served to callers the catalog lets read the partner.
func HandleListSubmissions(svc *service.Services, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		tok, ok := token(c)
		if !ok {
			return
		}
		if _, err := svc.Catalog.GetPartner(c.Request.Context(), tok, c.Param("id")); err != nil {
			respondError(c, logger, err)
			return
		}

		// Parse pagination
		limit := 50
		offset := 0
		if limitStr := c.Query("limit"); limitStr != "" {
			if l, err := strconv.Atoi(limitStr); err == nil && l > 0 && l <= 100 {
				limit = l
			}
		}
		if offsetStr := c.Query("offset"); offsetStr != "" {
			if o, err := strconv.Atoi(offsetStr); err == nil && o >= 0 {
				offset = o
			}
		}

		events, err := svc.Events.ListByPartnerID(c.Request.Context(), c.Param("id"), limit, offset)
		if err != nil {
			logger.Error("Failed to list submissions", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list submissions"})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"submissions": events,
			"limit":       limit,
			"offset":      offset,
		})
	}
}
