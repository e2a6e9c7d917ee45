package handlers

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/timatix/autoworks-backend/internal/services"
)

type RecordProgressBody struct {
	Phase               string     `json:"phase" binding:"required"`
	Comment             string     `json:"comment"`
	EstimatedCompletion *time.Time `json:"estimatedCompletion"`
}

// RecordProgress logs a workshop phase entry against a request. An optional
// photo of the work can be attached as multipart instead of JSON.
func RecordProgress(svc *services.ProgressService) gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID, ok := pathID(c, "id")
		if !ok {
			return
		}

		var body RecordProgressBody
		var photoURL string

		if file, err := c.FormFile("photo"); err == nil {
			body.Phase = c.PostForm("phase")
			body.Comment = c.PostForm("comment")
			if body.Phase == "" {
				c.JSON(400, gin.H{"error": "phase is required"})
				return
			}

			photoURL, err = services.UploadImage(file, "progress")
			if err != nil {
				c.JSON(500, gin.H{"error": "Failed to upload photo: " + err.Error()})
				return
			}
		} else if err := c.ShouldBindJSON(&body); err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}

		entry, err := svc.Record(requestID, c.GetUint("userId"), body.Phase, body.Comment, photoURL, body.EstimatedCompletion)
		if err != nil {
			respondError(c, err)
			return
		}

		c.JSON(201, entry)
	}
}

func GetProgressHistory(svc *services.ProgressService) gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID, ok := pathID(c, "id")
		if !ok {
			return
		}

		history, err := svc.History(requestID)
		if err != nil {
			respondError(c, err)
			return
		}

		c.JSON(200, history)
	}
}
