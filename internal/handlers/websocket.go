package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/timatix/autoworks-backend/internal/services"
)

// WebSocketHandler upgrades the connection and registers the client on the
// hub. Auth runs before this, so userId and role are already set.
func WebSocketHandler(hub *services.Hub) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetUint("userId")
		role := c.GetString("role")

		services.HandleWebSocket(hub, c.Writer, c.Request, userID, role)
	}
}

// WebSocketStats reports how many clients are connected.
func WebSocketStats(hub *services.Hub) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(200, gin.H{"connectedClients": hub.GetConnectedClients()})
	}
}
