package game

import "time"

// Event types on the wire. Names follow the client protocol.
const (
	EvPlayerJoined    = "player_joined"
	EvPlayerLeft      = "player_left"
	EvNewHost         = "new_host"
	EvGameStarted     = "game_started"
	EvNumberDrawn     = "number_drawn"
	EvPatternMatched  = "pattern_matched"
	EvCanCallBingo    = "can_call_bingo"
	EvBingoCalled     = "bingo_called"
	EvGameEnded       = "game_ended"
	EvGamePaused      = "game_paused"
	EvGameResumed     = "game_resumed"
	EvSettingsUpdated = "settings_updated"
	EvRoomJoined      = "room_joined"
	EvRoomLeft        = "room_left"
	EvCellDaubed      = "cell_daubed"
	EvHostControls    = "host_controls"
	EvGameState       = "game_state"
	EvError           = "error"
)

// Event is one room broadcast. To is empty for room-wide fan-out, or a
// player id for events addressed to a single member's sockets.
type Event struct {
	Type      string    `json:"type"`
	Room      string    `json:"room"`
	To        string    `json:"to,omitempty"`
	Timestamp time.Time `json:"timestamp"`
	Payload   any       `json:"payload,omitempty"`
}

func newEvent(room, typ string, payload any) Event {
	return Event{Type: typ, Room: room, Timestamp: time.Now(), Payload: payload}
}

func newDirectEvent(room, playerID, typ string, payload any) Event {
	ev := newEvent(room, typ, payload)
	ev.To = playerID
	return ev
}

// Payloads.

type PlayerJoinedPayload struct {
	PlayerID       string `json:"playerId"`
	Name           string `json:"name"`
	CurrentPlayers int    `json:"currentPlayers"`
}

type PlayerLeftPayload struct {
	PlayerID       string `json:"playerId"`
	Name           string `json:"name"`
	CurrentPlayers int    `json:"currentPlayers"`
}

type NewHostPayload struct {
	HostID string `json:"hostId"`
}

type GameStartedPayload struct {
	StartTime    time.Time     `json:"startTime"`
	Duration     time.Duration `json:"duration"`
	DrawInterval time.Duration `json:"drawInterval"`
	TotalNumbers int           `json:"totalNumbers"`
}

type NumberDrawnPayload struct {
	Number     int    `json:"number"`
	Letter     string `json:"letter"`
	TotalDrawn int    `json:"totalDrawn"`
}

type PatternMatchedPayload struct {
	PlayerID    string `json:"playerId"`
	PatternID   string `json:"patternId"`
	PatternName string `json:"patternName"`
	TriggeredBy int    `json:"triggeredBy,omitempty"`
}

type CanCallBingoPayload struct {
	PlayerID  string `json:"playerId"`
	PatternID string `json:"patternId"`
}

type BingoCalledPayload struct {
	PlayerID     string  `json:"playerId"`
	Name         string  `json:"username"`
	PatternID    string  `json:"pattern"`
	Prize        float64 `json:"prize"`
	WinnersCount int     `json:"winnersCount"`
}

type GameEndedPayload struct {
	Winners     []Winner `json:"winners"`
	DrawHistory []Draw   `json:"drawHistory"`
}

type PausePayload struct {
	RemainingTime time.Duration `json:"remainingTime"`
}

type SettingsUpdatedPayload struct {
	Settings  Settings `json:"settings"`
	UpdatedBy string   `json:"updatedBy"`
}

type RoomJoinedPayload struct {
	Room           string   `json:"room"`
	SessionID      string   `json:"sessionId"`
	HostID         string   `json:"hostId"`
	Status         Status   `json:"status"`
	CurrentPlayers int      `json:"currentPlayers"`
	MaxPlayers     int      `json:"maxPlayers"`
	Settings       Settings `json:"settings"`
	Card           *Card    `json:"card"`
	Marks          MarkGrid `json:"marks"`
}

type HostControlsPayload struct {
	CanStart     bool `json:"canStart"`
	CanConfigure bool `json:"canConfigure"`
}

type CellDaubedPayload struct {
	PlayerID string `json:"playerId"`
	Row      int    `json:"row"`
	Col      int    `json:"col"`
	Marked   bool   `json:"marked"`
}

// Snapshot is the full externally visible room state, served for
// get_game_state and the REST room query. RemainingTime is the
// unspent session budget at snapshot time; restoring a room re-arms
// its clock from it, so time spent paused or offline is never charged
// against the session.
type Snapshot struct {
	Room           string        `json:"room"`
	SessionID      string        `json:"sessionId"`
	HostID         string        `json:"hostId"`
	Status         Status        `json:"status"`
	CurrentPlayers int           `json:"currentPlayers"`
	MaxPlayers     int           `json:"maxPlayers"`
	Members        []*Member     `json:"members"`
	DrawHistory    []Draw        `json:"drawHistory"`
	Winners        []Winner      `json:"winners"`
	Settings       Settings      `json:"settings"`
	PrizePool      float64       `json:"prizePool"`
	RemainingTime  time.Duration `json:"remainingTime,omitempty"`
	StartTime      time.Time     `json:"startTime,omitempty"`
	EndTime        time.Time     `json:"endTime,omitempty"`
}
