package controllers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/bellapacxx/bingo-rooms/game"
	"github.com/bellapacxx/bingo-rooms/models"
	"github.com/bellapacxx/bingo-rooms/services"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// Handler serves read-only room queries. Live rooms come from the
// registry; finished rooms from the store.
type Handler struct {
	DB       *gorm.DB
	Registry *game.SessionRegistry
	Store    *services.GormStore
	Patterns *game.PatternMatcher
}

func NewHandler(db *gorm.DB, registry *game.SessionRegistry, store *services.GormStore) *Handler {
	return &Handler{DB: db, Registry: registry, Store: store, Patterns: game.NewPatternMatcher()}
}

// ListRooms returns the most recent room snapshots.
func (h *Handler) ListRooms(c *gin.Context) {
	var rooms []models.Room
	if err := h.DB.Order("updated_at DESC").Limit(100).Find(&rooms).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list rooms"})
		return
	}
	c.JSON(http.StatusOK, rooms)
}

// GetRoom returns a room by code: the live snapshot when this instance
// owns it, the stored one otherwise.
func (h *Handler) GetRoom(c *gin.Context) {
	code := c.Param("code")

	if coord, ok := h.Registry.Get(code); ok {
		c.JSON(http.StatusOK, coord.Snapshot())
		return
	}

	var row models.Room
	if err := h.DB.Where("room_code = ?", code).First(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "room not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load room"})
		return
	}

	var winners []game.Winner
	var draws []game.Draw
	_ = json.Unmarshal(row.WinnersJSON, &winners)
	_ = json.Unmarshal(row.DrawsJSON, &draws)
	c.JSON(http.StatusOK, gin.H{
		"room":           row.RoomCode,
		"sessionId":      row.SessionID,
		"hostId":         row.HostID,
		"status":         row.Status,
		"currentPlayers": row.CurrentPlayers,
		"maxPlayers":     row.MaxPlayers,
		"prizePool":      row.PrizePool,
		"winners":        winners,
		"drawHistory":    draws,
		"startTime":      row.StartTime,
		"endTime":        row.EndTime,
	})
}

// ListCards returns the cards dealt in a room's current or last
// session.
func (h *Handler) ListCards(c *gin.Context) {
	code := c.Param("code")

	var sessionID string
	if coord, ok := h.Registry.Get(code); ok {
		sessionID = coord.Snapshot().SessionID
	} else {
		var row models.Room
		if err := h.DB.Where("room_code = ?", code).First(&row).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "room not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load room"})
			return
		}
		sessionID = row.SessionID
	}

	cards, err := h.Store.LoadCards(c.Request.Context(), sessionID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load cards"})
		return
	}
	c.JSON(http.StatusOK, cards)
}

// ListPatterns returns the win-pattern catalog.
func (h *Handler) ListPatterns(c *gin.Context) {
	c.JSON(http.StatusOK, h.Patterns.List())
}
