package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/timatix/autoworks-backend/internal/models"
	"github.com/timatix/autoworks-backend/internal/services"
)

type CatalogInput struct {
	Name                     string          `json:"name" binding:"required"`
	Description              string          `json:"description"`
	BasePrice                decimal.Decimal `json:"basePrice"`
	EstimatedDurationMinutes int             `json:"estimatedDurationMinutes"`
	IsActive                 *bool           `json:"isActive"`
}

func CreateCatalogEntry(svc *services.CatalogService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input CatalogInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}

		entry := &models.ServiceCatalog{
			Name:                     input.Name,
			Description:              input.Description,
			BasePrice:                input.BasePrice,
			EstimatedDurationMinutes: input.EstimatedDurationMinutes,
			IsActive:                 true,
		}
		if input.IsActive != nil {
			entry.IsActive = *input.IsActive
		}

		created, err := svc.Create(entry)
		if err != nil {
			respondError(c, err)
			return
		}

		c.JSON(201, created)
	}
}

func ListCatalog(svc *services.CatalogService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var (
			entries []models.ServiceCatalog
			err     error
		)
		if c.Query("all") == "true" {
			entries, err = svc.ListAll()
		} else {
			entries, err = svc.ListActive()
		}
		if err != nil {
			respondError(c, err)
			return
		}

		c.JSON(200, entries)
	}
}

func GetCatalogEntry(svc *services.CatalogService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := pathID(c, "id")
		if !ok {
			return
		}

		entry, err := svc.GetByID(id)
		if err != nil {
			respondError(c, err)
			return
		}

		c.JSON(200, entry)
	}
}

func UpdateCatalogEntry(svc *services.CatalogService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := pathID(c, "id")
		if !ok {
			return
		}

		var input CatalogInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}

		details := &models.ServiceCatalog{
			Name:                     input.Name,
			Description:              input.Description,
			BasePrice:                input.BasePrice,
			EstimatedDurationMinutes: input.EstimatedDurationMinutes,
		}
		if input.IsActive != nil {
			details.IsActive = *input.IsActive
		} else {
			details.IsActive = true
		}

		updated, err := svc.Update(id, details)
		if err != nil {
			respondError(c, err)
			return
		}

		c.JSON(200, updated)
	}
}

func DeactivateCatalogEntry(svc *services.CatalogService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := pathID(c, "id")
		if !ok {
			return
		}

		if err := svc.Deactivate(id); err != nil {
			respondError(c, err)
			return
		}

		c.JSON(200, gin.H{"message": "Service deactivated"})
	}
}

func DeleteCatalogEntry(svc *services.CatalogService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := pathID(c, "id")
		if !ok {
			return
		}

		if err := svc.Delete(id); err != nil {
			respondError(c, err)
			return
		}

		c.JSON(200, gin.H{"message": "Service deleted"})
	}
}
