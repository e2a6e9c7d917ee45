package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/timatix/autoworks-backend/internal/models"
	"gorm.io/gorm"
)

type VehicleInput struct {
	Make         string `json:"make" binding:"required"`
	Model        string `json:"model" binding:"required"`
	Year         string `json:"year" binding:"required"`
	LicensePlate string `json:"licensePlate" binding:"required"`
	Vin          string `json:"vin"`
	Color        string `json:"color"`
}

// vin is stored as NULL when absent so the unique index only applies to real
// VINs.
func (in *VehicleInput) vin() *string {
	if in.Vin == "" {
		return nil
	}
	return &in.Vin
}

func CreateVehicle(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input VehicleInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}

		vehicle := models.Vehicle{
			Make:         input.Make,
			VehicleModel: input.Model,
			Year:         input.Year,
			LicensePlate: input.LicensePlate,
			Vin:          input.vin(),
			Color:        input.Color,
			OwnerID:      c.GetUint("userId"),
		}

		if err := db.Create(&vehicle).Error; err != nil {
			c.JSON(500, gin.H{"error": "Failed to create vehicle: " + err.Error()})
			return
		}

		c.JSON(201, vehicle)
	}
}

func ListMyVehicles(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var vehicles []models.Vehicle
		if err := db.Where("owner_id = ?", c.GetUint("userId")).Find(&vehicles).Error; err != nil {
			c.JSON(500, gin.H{"error": "Failed to fetch vehicles"})
			return
		}

		c.JSON(200, vehicles)
	}
}

func GetVehicle(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := pathID(c, "id")
		if !ok {
			return
		}

		var vehicle models.Vehicle
		if err := db.Preload("Owner").First(&vehicle, id).Error; err != nil {
			c.JSON(404, gin.H{"error": "Vehicle not found"})
			return
		}

		c.JSON(200, vehicle)
	}
}

func UpdateVehicle(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := pathID(c, "id")
		if !ok {
			return
		}

		var vehicle models.Vehicle
		if err := db.First(&vehicle, id).Error; err != nil {
			c.JSON(404, gin.H{"error": "Vehicle not found"})
			return
		}

		if vehicle.OwnerID != c.GetUint("userId") {
			c.JSON(403, gin.H{"error": "Not your vehicle"})
			return
		}

		var input VehicleInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}

		vehicle.Make = input.Make
		vehicle.VehicleModel = input.Model
		vehicle.Year = input.Year
		vehicle.LicensePlate = input.LicensePlate
		vehicle.Vin = input.vin()
		vehicle.Color = input.Color

		if err := db.Save(&vehicle).Error; err != nil {
			c.JSON(500, gin.H{"error": "Failed to update vehicle"})
			return
		}

		c.JSON(200, vehicle)
	}
}

func DeleteVehicle(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := pathID(c, "id")
		if !ok {
			return
		}

		var vehicle models.Vehicle
		if err := db.First(&vehicle, id).Error; err != nil {
			c.JSON(404, gin.H{"error": "Vehicle not found"})
			return
		}

		if vehicle.OwnerID != c.GetUint("userId") {
			c.JSON(403, gin.H{"error": "Not your vehicle"})
			return
		}

		var count int64
		db.Model(&models.ServiceRequest{}).Where("vehicle_id = ?", id).Count(&count)
		if count > 0 {
			c.JSON(409, gin.H{"error": "Vehicle has service requests and cannot be deleted"})
			return
		}

		if err := db.Delete(&vehicle).Error; err != nil {
			c.JSON(500, gin.H{"error": "Failed to delete vehicle"})
			return
		}

		c.JSON(200, gin.H{"message": "Vehicle deleted"})
	}
}
