package main

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/bellapacxx/bingo-rooms/config"
	"github.com/bellapacxx/bingo-rooms/controllers"
	"github.com/bellapacxx/bingo-rooms/game"
	"github.com/bellapacxx/bingo-rooms/routes"
	"github.com/bellapacxx/bingo-rooms/services"
	"github.com/bellapacxx/bingo-rooms/utils/logger"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func main() {
	cfg := config.Load()
	defer logger.Sync()

	// Collaborators: store, pub/sub backbone, result queue.
	db := config.SetupDatabase(cfg.DatabaseURL)
	rdb := config.SetupRedis(cfg.RedisAddr, cfg.RedisPassword)

	hub := services.NewHub()
	broadcaster := services.NewRedisBroadcaster(context.Background(), rdb, hub)
	store := services.NewGormStore(db)
	queue := services.NewResultQueue(rdb)

	defaults := game.Settings{
		Duration:          cfg.GameDuration,
		DrawInterval:      cfg.DrawInterval,
		MinPlayers:        cfg.MinPlayers,
		MaxPlayers:        cfg.MaxPlayers,
		EnabledPatterns:   nil, // whole catalog
		CallablePatterns:  game.DefaultCallablePatterns,
		AllowMultipleWins: true,
	}
	registry := game.NewSessionRegistry(broadcaster, store, queue, defaults, cfg.PrizePool)
	gateway := services.NewGateway(registry, hub)

	r := gin.Default()
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{cfg.CORSOrigin},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	routes.SetupRoutes(r, controllers.NewHandler(db, registry, store))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "rooms": registry.Len(), "timestamp": time.Now()})
	})

	// WebSocket room endpoint
	r.GET("/ws/:room", gateway.HandleWebSocket)

	log.Printf("🚀 Bingo room server starting on port %s", cfg.Port)
	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatalf("[FATAL] Failed to start server: %v", err)
	}
}
