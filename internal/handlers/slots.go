package handlers

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/timatix/autoworks-backend/internal/services"
)

type CreateSlotBody struct {
	Date        string `json:"date" binding:"required"` // YYYY-MM-DD
	TimeSlot    string `json:"timeSlot" binding:"required"`
	MaxBookings int    `json:"maxBookings"`
}

func CreateSlot(svc *services.SlotService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var body CreateSlotBody
		if err := c.ShouldBindJSON(&body); err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}

		date, err := time.Parse("2006-01-02", body.Date)
		if err != nil {
			c.JSON(400, gin.H{"error": "date must be YYYY-MM-DD"})
			return
		}

		slot, err := svc.CreateSlot(date, body.TimeSlot, body.MaxBookings)
		if err != nil {
			respondError(c, err)
			return
		}

		c.JSON(201, slot)
	}
}

func ListSlots(svc *services.SlotService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if dateParam := c.Query("date"); dateParam != "" {
			date, err := time.Parse("2006-01-02", dateParam)
			if err != nil {
				c.JSON(400, gin.H{"error": "date must be YYYY-MM-DD"})
				return
			}

			slots, err := svc.ListByDate(date)
			if err != nil {
				respondError(c, err)
				return
			}
			c.JSON(200, slots)
			return
		}

		slots, err := svc.ListAvailable()
		if err != nil {
			respondError(c, err)
			return
		}

		c.JSON(200, slots)
	}
}

func GetSlot(svc *services.SlotService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := pathID(c, "id")
		if !ok {
			return
		}

		slot, err := svc.GetByID(id)
		if err != nil {
			respondError(c, err)
			return
		}

		c.JSON(200, slot)
	}
}

func BookSlot(svc *services.SlotService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := pathID(c, "id")
		if !ok {
			return
		}

		slot, err := svc.BookSlot(id)
		if err != nil {
			respondError(c, err)
			return
		}

		c.JSON(200, slot)
	}
}

func CancelSlotBooking(svc *services.SlotService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := pathID(c, "id")
		if !ok {
			return
		}

		slot, err := svc.CancelBooking(id)
		if err != nil {
			respondError(c, err)
			return
		}

		c.JSON(200, slot)
	}
}

func DeleteSlot(svc *services.SlotService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := pathID(c, "id")
		if !ok {
			return
		}

		if err := svc.DeleteSlot(id); err != nil {
			respondError(c, err)
			return
		}

		c.JSON(200, gin.H{"message": "Slot deleted"})
	}
}

type GenerateSlotsBody struct {
	StartDate    string   `json:"startDate" binding:"required"`
	EndDate      string   `json:"endDate" binding:"required"`
	TimeSlots    []string `json:"timeSlots" binding:"required,min=1"`
	MaxBookings  int      `json:"maxBookings"`
	WeekdaysOnly bool     `json:"weekdaysOnly"`
}

// GenerateSlots bulk-creates slots over a date range, skipping any that
// already exist.
func GenerateSlots(svc *services.SlotService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var body GenerateSlotsBody
		if err := c.ShouldBindJSON(&body); err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}

		startDate, err := time.Parse("2006-01-02", body.StartDate)
		if err != nil {
			c.JSON(400, gin.H{"error": "startDate must be YYYY-MM-DD"})
			return
		}
		endDate, err := time.Parse("2006-01-02", body.EndDate)
		if err != nil {
			c.JSON(400, gin.H{"error": "endDate must be YYYY-MM-DD"})
			return
		}

		created, err := svc.GenerateRange(startDate, endDate, body.TimeSlots, body.MaxBookings, body.WeekdaysOnly)
		if err != nil {
			respondError(c, err)
			return
		}

		c.JSON(201, gin.H{"created": created})
	}
}
