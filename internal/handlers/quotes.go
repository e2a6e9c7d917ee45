package handlers

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/timatix/autoworks-backend/internal/models"
	"github.com/timatix/autoworks-backend/internal/services"
)

type CreateQuoteBody struct {
	RequestID   uint             `json:"requestId" binding:"required"`
	LabourCost  decimal.Decimal  `json:"labourCost"`
	PartsCost   decimal.Decimal  `json:"partsCost"`
	TotalAmount *decimal.Decimal `json:"totalAmount"`
	Notes       string           `json:"notes"`
	ValidUntil  *time.Time       `json:"validUntil"`
}

func CreateQuote(svc *services.QuoteService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var body CreateQuoteBody
		if err := c.ShouldBindJSON(&body); err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}

		quote, err := svc.Create(services.CreateQuoteInput{
			RequestID:   body.RequestID,
			MechanicID:  c.GetUint("userId"),
			LabourCost:  body.LabourCost,
			PartsCost:   body.PartsCost,
			TotalAmount: body.TotalAmount,
			Notes:       body.Notes,
			ValidUntil:  body.ValidUntil,
		})
		if err != nil {
			respondError(c, err)
			return
		}

		c.JSON(201, quote)
	}
}

func GetQuote(svc *services.QuoteService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := pathID(c, "id")
		if !ok {
			return
		}

		quote, err := svc.GetByID(id)
		if err != nil {
			respondError(c, err)
			return
		}

		c.JSON(200, quote)
	}
}

func GetQuoteForRequest(svc *services.QuoteService) gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID, ok := pathID(c, "id")
		if !ok {
			return
		}

		quote, err := svc.GetByRequest(requestID)
		if err != nil {
			respondError(c, err)
			return
		}

		c.JSON(200, quote)
	}
}

func ListMyQuotes(svc *services.QuoteService) gin.HandlerFunc {
	return func(c *gin.Context) {
		quotes, err := svc.ListByMechanic(c.GetUint("userId"))
		if err != nil {
			respondError(c, err)
			return
		}

		c.JSON(200, quotes)
	}
}

func ListQuotesByStatus(svc *services.QuoteService) gin.HandlerFunc {
	return func(c *gin.Context) {
		status := c.Query("status")
		if status == "" {
			status = string(models.ApprovalStatusPending)
		}

		quotes, err := svc.ListByStatus(status)
		if err != nil {
			respondError(c, err)
			return
		}

		c.JSON(200, quotes)
	}
}

func ApproveQuote(svc *services.QuoteService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := pathID(c, "id")
		if !ok {
			return
		}

		quote, err := svc.Approve(id)
		if err != nil {
			respondError(c, err)
			return
		}

		c.JSON(200, quote)
	}
}

func DeclineQuote(svc *services.QuoteService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := pathID(c, "id")
		if !ok {
			return
		}

		quote, err := svc.Decline(id)
		if err != nil {
			respondError(c, err)
			return
		}

		c.JSON(200, quote)
	}
}

type UpdateQuoteBody struct {
	LabourCost  *decimal.Decimal `json:"labourCost"`
	PartsCost   *decimal.Decimal `json:"partsCost"`
	TotalAmount *decimal.Decimal `json:"totalAmount"`
	Notes       *string          `json:"notes"`
	ValidUntil  *time.Time       `json:"validUntil"`
}

func UpdateQuote(svc *services.QuoteService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := pathID(c, "id")
		if !ok {
			return
		}

		var body UpdateQuoteBody
		if err := c.ShouldBindJSON(&body); err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}

		quote, err := svc.Update(id, services.UpdateQuoteInput{
			LabourCost:  body.LabourCost,
			PartsCost:   body.PartsCost,
			TotalAmount: body.TotalAmount,
			Notes:       body.Notes,
			ValidUntil:  body.ValidUntil,
		})
		if err != nil {
			respondError(c, err)
			return
		}

		c.JSON(200, quote)
	}
}

func DeleteQuote(svc *services.QuoteService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := pathID(c, "id")
		if !ok {
			return
		}

		if err := svc.Delete(id); err != nil {
			respondError(c, err)
			return
		}

		c.JSON(200, gin.H{"message": "Quote deleted"})
	}
}
