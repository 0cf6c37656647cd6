package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/playpong/backend/internal/game"
	"github.com/playpong/backend/internal/ws"
)

// GetStats reports live room and connection counts.
func GetStats(registry *game.Registry, hub *ws.Hub) gin.HandlerFunc {
	return func(c *gin.Context) {
		rooms, players := registry.Stats()
		c.JSON(http.StatusOK, gin.H{
			"rooms":       rooms,
			"players":     players,
			"connections": hub.ClientCount(),
		})
	}
}
