package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// PaymentStatus constants for invoices
const (
	InvoiceStatusUnpaid    = "UNPAID"
	InvoiceStatusPartial   = "PARTIAL"
	InvoiceStatusPaid      = "PAID"
	InvoiceStatusOverdue   = "OVERDUE"
	InvoiceStatusCancelled = "CANCELLED"
)

// VATRate is the fixed 15% tax applied to invoice subtotals.
var VATRate = decimal.NewFromFloat(0.15)

// InvoiceDueTerm is the default payment window.
const InvoiceDueTerm = 30 * 24 * time.Hour

// Invoice is the billing document derived from an accepted quote.
type Invoice struct {
	gorm.Model
	RequestID     uint            `json:"requestId" gorm:"not null;uniqueIndex"`
	InvoiceNumber string          `json:"invoiceNumber" gorm:"uniqueIndex;not null"`
	Subtotal      decimal.Decimal `json:"subtotal" gorm:"type:decimal(12,2);not null"`
	TaxAmount     decimal.Decimal `json:"taxAmount" gorm:"type:decimal(12,2);not null"`
	TotalAmount   decimal.Decimal `json:"totalAmount" gorm:"type:decimal(12,2);not null"`
	PaymentStatus string          `json:"paymentStatus" gorm:"not null;default:'UNPAID'"`
	DueDate       time.Time       `json:"dueDate" gorm:"not null"`
	PaidDate      *time.Time      `json:"paidDate,omitempty"`
	Request       *ServiceRequest `json:"request,omitempty" gorm:"foreignKey:RequestID"`
}

// TableName specifies the table name
func (Invoice) TableName() string {
	return "invoices"
}
