package models

import (
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ServiceCatalog is a bookable service offering managed by administrators.
type ServiceCatalog struct {
	gorm.Model
	Name                     string          `json:"name" gorm:"not null"`
	Description              string          `json:"description"`
	BasePrice                decimal.Decimal `json:"basePrice" gorm:"type:decimal(12,2);not null"`
	EstimatedDurationMinutes int             `json:"estimatedDurationMinutes"`
	IsActive                 bool            `json:"isActive" gorm:"not null"`
}

// TableName specifies the table name
func (ServiceCatalog) TableName() string {
	return "service_catalog"
}
