package services

import (
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/bellapacxx/bingo-rooms/game"
	"github.com/bellapacxx/bingo-rooms/utils/logger"
	"github.com/gorilla/websocket"
)

// Client is one websocket attached to one room.
type Client struct {
	playerID string
	name     string
	room     string
	coord    *game.RoomCoordinator
	gateway  *Gateway
	conn     *websocket.Conn
	send     chan []byte
	once     sync.Once
}

func (c *Client) Close() {
	c.once.Do(func() {
		close(c.send)
		c.conn.Close()
	})
}

// Malformed commands are rejected before they reach the coordinator.
var (
	errBadMessage     = fmt.Errorf("%w: invalid message", game.ErrValidation)
	errRowColRequired = fmt.Errorf("%w: row and col are required", game.ErrValidation)
	errPatternID      = fmt.Errorf("%w: patternId is required", game.ErrValidation)
	errBadSettings    = fmt.Errorf("%w: invalid settings", game.ErrValidation)
)

// command is the incoming client message shape.
type command struct {
	Action    string          `json:"action"`
	Row       *int            `json:"row,omitempty"`
	Col       *int            `json:"col,omitempty"`
	PatternID string          `json:"patternId,omitempty"`
	Settings  json.RawMessage `json:"settings,omitempty"`
}

// settingsMsg is the wire form of a settings patch: durations in
// milliseconds.
type settingsMsg struct {
	DurationMS        *int64   `json:"durationMs,omitempty"`
	DrawIntervalMS    *int64   `json:"drawIntervalMs,omitempty"`
	MinPlayers        *int     `json:"minPlayers,omitempty"`
	MaxPlayers        *int     `json:"maxPlayers,omitempty"`
	Patterns          []string `json:"patterns,omitempty"`
	CallablePatterns  []string `json:"callablePatterns,omitempty"`
	AllowMultipleWins *bool    `json:"allowMultipleWins,omitempty"`
}

func (m settingsMsg) patch() game.SettingsPatch {
	p := game.SettingsPatch{
		MinPlayers:        m.MinPlayers,
		MaxPlayers:        m.MaxPlayers,
		EnabledPatterns:   m.Patterns,
		CallablePatterns:  m.CallablePatterns,
		AllowMultipleWins: m.AllowMultipleWins,
	}
	if m.DurationMS != nil {
		d := time.Duration(*m.DurationMS) * time.Millisecond
		p.Duration = &d
	}
	if m.DrawIntervalMS != nil {
		d := time.Duration(*m.DrawIntervalMS) * time.Millisecond
		p.DrawInterval = &d
	}
	return p
}

// --------------------
// Client read/write pumps
// --------------------
func (c *Client) readPump() {
	defer func() {
		c.gateway.detach(c)
		c.conn.Close()
	}()

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				logger.Debugf("[Client %s] disconnected normally", c.playerID)
			} else {
				logger.Debugf("[Client %s] read error: %v", c.playerID, err)
			}
			return
		}
		c.handle(message)
	}
}

func (c *Client) handle(message []byte) {
	defer func() {
		if r := recover(); r != nil {
			logger.Errorf("[Client %s] recovered from panic: %v", c.playerID, r)
		}
	}()

	var cmd command
	if err := json.Unmarshal(message, &cmd); err != nil {
		c.sendError(errBadMessage)
		return
	}

	switch cmd.Action {
	case "join":
		c.reply(c.coord.Join(c.playerID, c.name))
	case "leave":
		c.reply(c.coord.Leave(c.playerID))
	case "start":
		c.reply(c.coord.Start(c.playerID))
	case "pause":
		c.reply(c.coord.Pause(c.playerID))
	case "resume":
		c.reply(c.coord.Resume(c.playerID))
	case "daub":
		if cmd.Row == nil || cmd.Col == nil {
			c.sendError(errRowColRequired)
			return
		}
		c.reply(c.coord.Daub(c.playerID, *cmd.Row, *cmd.Col))
	case "claim":
		if cmd.PatternID == "" {
			c.sendError(errPatternID)
			return
		}
		c.reply(c.coord.Claim(c.playerID, cmd.PatternID))
	case "update_settings":
		var msg settingsMsg
		if err := json.Unmarshal(cmd.Settings, &msg); err != nil {
			c.sendError(errBadSettings)
			return
		}
		c.reply(c.coord.UpdateSettings(c.playerID, msg.patch()))
	case "get_game_state":
		c.sendEvent(game.Event{
			Type:      game.EvGameState,
			Room:      c.room,
			To:        c.playerID,
			Timestamp: time.Now(),
			Payload:   c.coord.Snapshot(),
		})
	default:
		c.sendError(fmt.Errorf("%w: unknown action %q", game.ErrValidation, cmd.Action))
	}
}

func (c *Client) reply(err error) {
	if err != nil {
		c.sendError(err)
	}
}

// errorKind maps an engine error onto its client-facing class.
func errorKind(err error) string {
	switch {
	case errors.Is(err, game.ErrValidation):
		return "validation"
	case errors.Is(err, game.ErrPrecondition):
		return "precondition"
	case errors.Is(err, game.ErrExhausted):
		return "exhausted"
	case errors.Is(err, game.ErrNotFound):
		return "not_found"
	default:
		return "internal"
	}
}

func (c *Client) sendError(err error) {
	c.sendEvent(game.Event{
		Type:      game.EvError,
		Room:      c.room,
		To:        c.playerID,
		Timestamp: time.Now(),
		Payload: map[string]string{
			"kind":    errorKind(err),
			"message": err.Error(),
		},
	})
}

// sendEvent writes one event straight to this socket, bypassing the
// broadcaster. Used for acks and errors addressed to the caller only.
func (c *Client) sendEvent(ev game.Event) {
	raw, err := json.Marshal(ev)
	if err != nil {
		logger.Errorf("[Client %s] marshal %s failed: %v", c.playerID, ev.Type, err)
		return
	}
	select {
	case c.send <- raw:
	default:
		logger.Warnf("[Client %s] dropping %s", c.playerID, ev.Type)
	}
}

func (c *Client) writePump() {
	defer c.conn.Close()
	for msg := range c.send {
		if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
			logger.Debugf("[Client %s] write error: %v", c.playerID, err)
			return
		}
	}
}
