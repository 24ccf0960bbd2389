package routes

import (
	"github.com/bellapacxx/bingo-rooms/controllers"
	"github.com/gin-gonic/gin"
)

func SetupRoutes(r *gin.Engine, h *controllers.Handler) {
	api := r.Group("/api")

	// ----------------------
	// Room routes
	// ----------------------
	api.GET("/rooms", h.ListRooms)              // List recent rooms
	api.GET("/rooms/:code", h.GetRoom)          // Room detail (live or stored)
	api.GET("/rooms/:code/cards", h.ListCards)  // Cards dealt in the room's session
	api.GET("/patterns", h.ListPatterns)        // Win-pattern catalog
}
