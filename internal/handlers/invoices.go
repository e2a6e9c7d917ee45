package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/timatix/autoworks-backend/internal/models"
	"github.com/timatix/autoworks-backend/internal/services"
)

type CreateInvoiceBody struct {
	RequestID uint `json:"requestId" binding:"required"`
}

func CreateInvoice(svc *services.InvoiceService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var body CreateInvoiceBody
		if err := c.ShouldBindJSON(&body); err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}

		invoice, err := svc.CreateFromQuote(body.RequestID)
		if err != nil {
			respondError(c, err)
			return
		}

		c.JSON(201, invoice)
	}
}

func GetInvoice(svc *services.InvoiceService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := pathID(c, "id")
		if !ok {
			return
		}

		invoice, err := svc.GetByID(id)
		if err != nil {
			respondError(c, err)
			return
		}

		c.JSON(200, invoice)
	}
}

func GetInvoiceForRequest(svc *services.InvoiceService) gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID, ok := pathID(c, "id")
		if !ok {
			return
		}

		invoice, err := svc.GetByRequest(requestID)
		if err != nil {
			respondError(c, err)
			return
		}

		c.JSON(200, invoice)
	}
}

func ListInvoicesByStatus(svc *services.InvoiceService) gin.HandlerFunc {
	return func(c *gin.Context) {
		status := c.Query("status")
		if status == "" {
			status = string(models.InvoiceStatusUnpaid)
		}

		invoices, err := svc.ListByStatus(status)
		if err != nil {
			respondError(c, err)
			return
		}

		c.JSON(200, invoices)
	}
}

func ListOverdueInvoices(svc *services.InvoiceService) gin.HandlerFunc {
	return func(c *gin.Context) {
		invoices, err := svc.ListOverdue()
		if err != nil {
			respondError(c, err)
			return
		}

		c.JSON(200, invoices)
	}
}

// MarkInvoicePaid is the manual settlement path for cash and EFT payments
// recorded outside the gateway.
func MarkInvoicePaid(svc *services.InvoiceService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := pathID(c, "id")
		if !ok {
			return
		}

		invoice, err := svc.MarkAsPaid(id)
		if err != nil {
			respondError(c, err)
			return
		}

		c.JSON(200, invoice)
	}
}
