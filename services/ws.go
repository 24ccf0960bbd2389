package services

import (
	"net/http"

	"github.com/bellapacxx/bingo-rooms/game"
	"github.com/bellapacxx/bingo-rooms/utils/logger"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Gateway wires sockets to room coordinators. Identity is supplied by
// the upstream auth layer; this layer trusts player_id and name.
type Gateway struct {
	registry *game.SessionRegistry
	hub      *Hub
}

func NewGateway(registry *game.SessionRegistry, hub *Hub) *Gateway {
	return &Gateway{registry: registry, hub: hub}
}

// HandleWebSocket upgrades /ws/:room and attaches the socket to the
// room's coordinator, creating or restoring it on first join.
func (g *Gateway) HandleWebSocket(c *gin.Context) {
	room := c.Param("room")
	playerID := c.Query("player_id")
	name := c.Query("name")
	if room == "" || playerID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "room and player_id are required"})
		return
	}
	if name == "" {
		name = playerID
	}

	coord, err := g.registry.GetOrCreate(c.Request.Context(), room)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to open room"})
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		logger.Errorf("[WS] upgrade error: %v", err)
		return
	}

	client := &Client{
		playerID: playerID,
		name:     name,
		room:     room,
		coord:    coord,
		gateway:  g,
		conn:     conn,
		send:     make(chan []byte, 32),
	}
	logger.Infof("[WS] new client: player=%s room=%s", playerID, room)

	coord.Attach()
	g.hub.Join(room, client)
	go client.writePump()
	go client.readPump()
}

// detach releases a closed socket. Membership survives a dropped
// connection; the room is evicted only once it is terminal and
// unwatched.
func (g *Gateway) detach(c *Client) {
	g.hub.Leave(c.room, c)
	c.coord.Detach()
	g.registry.MaybeEvict(c.room)
	c.Close()
}
