package models

import "gorm.io/gorm"

type Vehicle struct {
	gorm.Model
	Make         string  `json:"make" gorm:"not null"`
	VehicleModel string  `json:"model" gorm:"column:vehicle_model;not null"`
	Year         string  `json:"year"`
	LicensePlate string  `json:"licensePlate" gorm:"uniqueIndex;not null"`
	Vin          *string `json:"vin,omitempty" gorm:"uniqueIndex"` // optional; nil so absent VINs never collide
	Color        string  `json:"color"`
	OwnerID      uint    `json:"ownerId" gorm:"not null"`
	Owner        *User   `json:"owner,omitempty" gorm:"foreignKey:OwnerID"`
}

// TableName specifies the table name
func (Vehicle) TableName() string {
	return "vehicles"
}
