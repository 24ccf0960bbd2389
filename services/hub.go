package services

import (
	"encoding/json"
	"sync"

	"github.com/bellapacxx/bingo-rooms/game"
	"github.com/bellapacxx/bingo-rooms/utils/logger"
)

// Hub tracks which local sockets watch which room and delivers
// broadcast events to them. Cross-instance delivery arrives through
// the broadcaster's subscription and lands here too.
type Hub struct {
	mu    sync.RWMutex
	rooms map[string]map[*Client]bool
}

func NewHub() *Hub {
	return &Hub{rooms: make(map[string]map[*Client]bool)}
}

func (h *Hub) Join(room string, c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.rooms[room] == nil {
		h.rooms[room] = make(map[*Client]bool)
	}
	h.rooms[room][c] = true
}

func (h *Hub) Leave(room string, c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.rooms[room], c)
	if len(h.rooms[room]) == 0 {
		delete(h.rooms, room)
	}
}

// Deliver fans one event out to the room's local sockets. Events with
// a To address reach only that player's sockets. Slow consumers are
// dropped rather than allowed to stall the room.
func (h *Hub) Deliver(room string, ev game.Event) {
	raw, err := json.Marshal(ev)
	if err != nil {
		logger.Errorf("[Hub] marshal %s failed: %v", ev.Type, err)
		return
	}

	h.mu.RLock()
	clients := make([]*Client, 0, len(h.rooms[room]))
	for c := range h.rooms[room] {
		if ev.To == "" || ev.To == c.playerID {
			clients = append(clients, c)
		}
	}
	h.mu.RUnlock()

	for _, c := range clients {
		func(c *Client) {
			// A client can close its send channel between the snapshot
			// above and this send.
			defer func() {
				if r := recover(); r != nil {
					logger.Warnf("[Hub] recovered delivery to player %s in room %s: %v", c.playerID, room, r)
				}
			}()
			select {
			case c.send <- raw:
			default:
				logger.Warnf("[Hub] dropping %s to player %s in room %s", ev.Type, c.playerID, room)
			}
		}(c)
	}
}
