package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ApprovalStatus constants
const (
	ApprovalStatusPending  = "PENDING"
	ApprovalStatusAccepted = "ACCEPTED"
	ApprovalStatusDeclined = "DECLINED"
	ApprovalStatusExpired  = "EXPIRED"
)

// QuoteValidity is the default window a client has to approve a quote.
const QuoteValidity = 7 * 24 * time.Hour

// ServiceQuote is a mechanic's priced proposal for a service request. Exactly
// one quote exists per request.
type ServiceQuote struct {
	gorm.Model
	RequestID      uint            `json:"requestId" gorm:"not null;uniqueIndex"`
	MechanicID     uint            `json:"mechanicId" gorm:"not null"`
	LabourCost     decimal.Decimal `json:"labourCost" gorm:"type:decimal(12,2);not null"`
	PartsCost      decimal.Decimal `json:"partsCost" gorm:"type:decimal(12,2);not null"`
	TotalAmount    decimal.Decimal `json:"totalAmount" gorm:"type:decimal(12,2);not null"`
	Notes          string          `json:"notes"`
	ApprovalStatus string          `json:"approvalStatus" gorm:"not null;default:'PENDING'"`
	ValidUntil     time.Time       `json:"validUntil" gorm:"not null"`
	ApprovedAt     *time.Time      `json:"approvedAt,omitempty"`
	Request        *ServiceRequest `json:"request,omitempty" gorm:"foreignKey:RequestID"`
	Mechanic       *User           `json:"mechanic,omitempty" gorm:"foreignKey:MechanicID"`
}

// TableName specifies the table name
func (ServiceQuote) TableName() string {
	return "service_quotes"
}

// Expired reports whether the quote's validity window has passed.
func (q *ServiceQuote) Expired(now time.Time) bool {
	return q.ValidUntil.Before(now)
}
