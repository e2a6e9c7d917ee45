package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/timatix/autoworks-backend/internal/services"
)

type ProcessPaymentBody struct {
	InvoiceID     uint            `json:"invoiceId" binding:"required"`
	Amount        decimal.Decimal `json:"amount" binding:"required"`
	PaymentMethod string          `json:"paymentMethod" binding:"required"`
}

func ProcessPayment(svc *services.PaymentService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var body ProcessPaymentBody
		if err := c.ShouldBindJSON(&body); err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}

		payment, err := svc.ProcessPayment(c.Request.Context(), body.InvoiceID, body.Amount, body.PaymentMethod)
		if err != nil {
			respondError(c, err)
			return
		}

		c.JSON(201, payment)
	}
}

type RefundPaymentBody struct {
	Amount decimal.Decimal `json:"amount" binding:"required"`
	Reason string          `json:"reason"`
}

func RefundPayment(svc *services.PaymentService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := pathID(c, "id")
		if !ok {
			return
		}

		var body RefundPaymentBody
		if err := c.ShouldBindJSON(&body); err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}

		refund, err := svc.RefundPayment(c.Request.Context(), id, body.Amount, body.Reason)
		if err != nil {
			respondError(c, err)
			return
		}

		c.JSON(201, refund)
	}
}

func ListInvoicePayments(svc *services.PaymentService) gin.HandlerFunc {
	return func(c *gin.Context) {
		invoiceID, ok := pathID(c, "id")
		if !ok {
			return
		}

		payments, err := svc.ListByInvoice(invoiceID)
		if err != nil {
			respondError(c, err)
			return
		}

		c.JSON(200, payments)
	}
}

func ListPendingPayments(svc *services.PaymentService) gin.HandlerFunc {
	return func(c *gin.Context) {
		payments, err := svc.ListPending()
		if err != nil {
			respondError(c, err)
			return
		}

		c.JSON(200, payments)
	}
}
