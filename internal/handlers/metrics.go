package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/timatix/autoworks-backend/internal/services"
)

// GetMetricsSummary serves the admin dashboard counters.
func GetMetricsSummary(svc *services.MetricsService) gin.HandlerFunc {
	return func(c *gin.Context) {
		summary, err := svc.Summary()
		if err != nil {
			respondError(c, err)
			return
		}

		c.JSON(200, summary)
	}
}
