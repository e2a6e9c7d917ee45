package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// PaymentStatus constants for payments
const (
	PaymentStatusPending   = "PENDING"
	PaymentStatusCompleted = "COMPLETED"
	PaymentStatusFailed    = "FAILED"
	PaymentStatusCancelled = "CANCELLED"
	PaymentStatusRefunded  = "REFUNDED"
)

// Payment is a single posting against an invoice. Refunds are postings with a
// negative amount referencing the original completed payment.
type Payment struct {
	gorm.Model
	InvoiceID         uint            `json:"invoiceId" gorm:"not null"`
	TransactionID     string          `json:"transactionId" gorm:"uniqueIndex;not null"`
	Amount            decimal.Decimal `json:"amount" gorm:"type:decimal(12,2);not null"`
	PaymentMethod     string          `json:"paymentMethod" gorm:"not null"`
	Status            string          `json:"status" gorm:"not null;default:'PENDING'"`
	GatewayReference  string          `json:"gatewayReference,omitempty"`
	FailureReason     string          `json:"failureReason,omitempty"`
	RefundReason      string          `json:"refundReason,omitempty"`
	OriginalPaymentID *uint           `json:"originalPaymentId,omitempty"`
	ProcessedAt       *time.Time      `json:"processedAt,omitempty"`
	Invoice           *Invoice        `json:"invoice,omitempty" gorm:"foreignKey:InvoiceID"`
	OriginalPayment   *Payment        `json:"originalPayment,omitempty" gorm:"foreignKey:OriginalPaymentID"`
}

// TableName specifies the table name
func (Payment) TableName() string {
	return "payments"
}

// BeforeSave stamps ProcessedAt the first time a payment reaches COMPLETED.
func (p *Payment) BeforeSave(tx *gorm.DB) error {
	if p.Status == PaymentStatusCompleted && p.ProcessedAt == nil {
		now := time.Now()
		p.ProcessedAt = &now
	}
	return nil
}

// IsRefund reports whether this posting reverses an earlier payment.
func (p *Payment) IsRefund() bool {
	return p.Amount.IsNegative()
}
