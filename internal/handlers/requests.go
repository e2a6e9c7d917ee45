package handlers

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/timatix/autoworks-backend/internal/models"
	"github.com/timatix/autoworks-backend/internal/services"
)

type CreateRequestBody struct {
	VehicleID     uint   `json:"vehicleId" binding:"required"`
	ServiceID     uint   `json:"serviceId" binding:"required"`
	PreferredDate string `json:"preferredDate" binding:"required"` // YYYY-MM-DD
	PreferredTime string `json:"preferredTime"`
	Notes         string `json:"notes"`
	PhotoURL      string `json:"photoUrl"`
}

func CreateRequest(svc *services.RequestService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var body CreateRequestBody
		if err := c.ShouldBindJSON(&body); err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}

		preferredDate, err := time.Parse("2006-01-02", body.PreferredDate)
		if err != nil {
			c.JSON(400, gin.H{"error": "preferredDate must be YYYY-MM-DD"})
			return
		}

		request, err := svc.Create(services.CreateRequestInput{
			ClientID:      c.GetUint("userId"),
			VehicleID:     body.VehicleID,
			ServiceID:     body.ServiceID,
			PreferredDate: preferredDate,
			PreferredTime: body.PreferredTime,
			Notes:         body.Notes,
			PhotoURL:      body.PhotoURL,
		})
		if err != nil {
			respondError(c, err)
			return
		}

		c.JSON(201, request)
	}
}

func GetRequest(svc *services.RequestService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := pathID(c, "id")
		if !ok {
			return
		}

		request, err := svc.GetByID(id)
		if err != nil {
			respondError(c, err)
			return
		}

		c.JSON(200, request)
	}
}

func ListMyRequests(svc *services.RequestService) gin.HandlerFunc {
	return func(c *gin.Context) {
		requests, err := svc.ListByClient(c.GetUint("userId"))
		if err != nil {
			respondError(c, err)
			return
		}

		c.JSON(200, requests)
	}
}

func ListAssignedRequests(svc *services.RequestService) gin.HandlerFunc {
	return func(c *gin.Context) {
		requests, err := svc.ListByMechanic(c.GetUint("userId"))
		if err != nil {
			respondError(c, err)
			return
		}

		c.JSON(200, requests)
	}
}

func ListRequestsByStatus(svc *services.RequestService) gin.HandlerFunc {
	return func(c *gin.Context) {
		status := c.Query("status")
		if status == "" {
			status = string(models.RequestStatusPendingQuote)
		}

		requests, err := svc.ListByStatus(status)
		if err != nil {
			respondError(c, err)
			return
		}

		c.JSON(200, requests)
	}
}

type UpdateRequestBody struct {
	PreferredDate string `json:"preferredDate"`
	PreferredTime string `json:"preferredTime"`
	Notes         string `json:"notes"`
}

func UpdateRequest(svc *services.RequestService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := pathID(c, "id")
		if !ok {
			return
		}

		var body UpdateRequestBody
		if err := c.ShouldBindJSON(&body); err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}

		var preferredDate time.Time
		if body.PreferredDate != "" {
			var err error
			preferredDate, err = time.Parse("2006-01-02", body.PreferredDate)
			if err != nil {
				c.JSON(400, gin.H{"error": "preferredDate must be YYYY-MM-DD"})
				return
			}
		}

		request, err := svc.UpdateDetails(id, preferredDate, body.PreferredTime, body.Notes)
		if err != nil {
			respondError(c, err)
			return
		}

		c.JSON(200, request)
	}
}

type AssignMechanicBody struct {
	MechanicID uint `json:"mechanicId" binding:"required"`
}

func AssignMechanic(svc *services.RequestService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := pathID(c, "id")
		if !ok {
			return
		}

		var body AssignMechanicBody
		if err := c.ShouldBindJSON(&body); err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}

		request, err := svc.AssignMechanic(id, body.MechanicID)
		if err != nil {
			respondError(c, err)
			return
		}

		c.JSON(200, request)
	}
}

type UpdateStatusBody struct {
	Status string `json:"status" binding:"required"`
}

func UpdateRequestStatus(svc *services.RequestService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := pathID(c, "id")
		if !ok {
			return
		}

		var body UpdateStatusBody
		if err := c.ShouldBindJSON(&body); err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}

		request, err := svc.UpdateStatus(id, body.Status)
		if err != nil {
			respondError(c, err)
			return
		}

		c.JSON(200, request)
	}
}

func DeleteRequest(svc *services.RequestService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := pathID(c, "id")
		if !ok {
			return
		}

		if err := svc.Delete(id); err != nil {
			respondError(c, err)
			return
		}

		c.JSON(200, gin.H{"message": "Service request deleted"})
	}
}

// UploadRequestPhoto stores a condition photo for the request and saves its
// URL on the record.
func UploadRequestPhoto(svc *services.RequestService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := pathID(c, "id")
		if !ok {
			return
		}

		file, err := c.FormFile("photo")
		if err != nil {
			c.JSON(400, gin.H{"error": "photo file is required"})
			return
		}

		url, err := services.UploadImage(file, "requests")
		if err != nil {
			c.JSON(500, gin.H{"error": "Failed to upload photo: " + err.Error()})
			return
		}

		request, err := svc.SetPhotoURL(id, url)
		if err != nil {
			respondError(c, err)
			return
		}

		c.JSON(200, request)
	}
}
