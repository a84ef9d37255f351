package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/kwesiamoo/travelhub-backend/internal/services"
)

// WebSocketHandler attaches an authenticated client to the event hub. Only
// admin sessions receive reservation updates; other roles may connect but
// get no broadcasts.
func WebSocketHandler(hub *services.Hub) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetUint("userId")
		role := c.GetString("userRole")

		services.HandleWebSocket(hub, c.Writer, c.Request, userID, role)
	}
}
