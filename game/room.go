package game

import (
	"sort"
	"time"
)

// Status is the room lifecycle phase.
type Status string

const (
	StatusWaiting   Status = "waiting"
	StatusActive    Status = "active"
	StatusPaused    Status = "paused"
	StatusCompleted Status = "completed"
	StatusCancelled Status = "cancelled"
)

// Terminal reports whether a room can never transition again.
func (s Status) Terminal() bool {
	return s == StatusCompleted || s == StatusCancelled
}

// Settings is the host-tunable room configuration. Frozen once the
// game leaves the waiting phase.
type Settings struct {
	Duration          time.Duration `json:"duration"`
	DrawInterval      time.Duration `json:"drawInterval"`
	MinPlayers        int           `json:"minPlayers"`
	MaxPlayers        int           `json:"maxPlayers"`
	EnabledPatterns   []string      `json:"patterns"`
	CallablePatterns  []string      `json:"callablePatterns"`
	AllowMultipleWins bool          `json:"allowMultipleWins"`
}

// DefaultCallablePatterns are the matches that let a player call
// bingo: the five rows and the full house.
var DefaultCallablePatterns = []string{"line1", "line2", "line3", "line4", "line5", "full_house"}

// SettingsPatch carries a partial settings update from the host. Nil
// fields leave the current value untouched.
type SettingsPatch struct {
	Duration          *time.Duration `json:"duration,omitempty"`
	DrawInterval      *time.Duration `json:"drawInterval,omitempty"`
	MinPlayers        *int           `json:"minPlayers,omitempty"`
	MaxPlayers        *int           `json:"maxPlayers,omitempty"`
	EnabledPatterns   []string       `json:"patterns,omitempty"`
	CallablePatterns  []string       `json:"callablePatterns,omitempty"`
	AllowMultipleWins *bool          `json:"allowMultipleWins,omitempty"`
}

func (p SettingsPatch) apply(s *Settings) {
	if p.Duration != nil && *p.Duration > 0 {
		s.Duration = *p.Duration
	}
	if p.DrawInterval != nil && *p.DrawInterval > 0 {
		s.DrawInterval = *p.DrawInterval
	}
	if p.MinPlayers != nil && *p.MinPlayers > 0 {
		s.MinPlayers = *p.MinPlayers
	}
	if p.MaxPlayers != nil && *p.MaxPlayers > 0 {
		s.MaxPlayers = *p.MaxPlayers
	}
	if p.EnabledPatterns != nil {
		s.EnabledPatterns = append([]string(nil), p.EnabledPatterns...)
	}
	if p.CallablePatterns != nil {
		s.CallablePatterns = append([]string(nil), p.CallablePatterns...)
	}
	if p.AllowMultipleWins != nil {
		s.AllowMultipleWins = *p.AllowMultipleWins
	}
}

// Member is one player inside a room.
type Member struct {
	PlayerID string    `json:"playerId"`
	Name     string    `json:"name"`
	Card     *Card     `json:"card"`
	Marks    MarkGrid  `json:"marks"`
	JoinedAt time.Time `json:"joinedAt"`

	// Matched patterns in announcement order, plus a set for lookups.
	Matched    []string        `json:"matchedPatterns"`
	matchedSet map[string]bool
}

func (m *Member) recordMatch(patternID string) {
	if m.matchedSet == nil {
		m.matchedSet = make(map[string]bool)
	}
	if m.matchedSet[patternID] {
		return
	}
	m.matchedSet[patternID] = true
	m.Matched = append(m.Matched, patternID)
}

func (m *Member) hasMatched(patternID string) bool {
	return m.matchedSet[patternID]
}

// Draw is one entry of the draw history.
type Draw struct {
	Number    int       `json:"number"`
	Timestamp time.Time `json:"timestamp"`
}

// Winner is one accepted bingo call.
type Winner struct {
	PlayerID  string    `json:"playerId"`
	Name      string    `json:"username"`
	PatternID string    `json:"pattern"`
	Prize     float64   `json:"prize"`
	Claimed   bool      `json:"claimed"`
	ClaimedAt time.Time `json:"claimedAt"`
}

// RoomState is the authoritative per-room aggregate. It is mutated
// only by the owning RoomCoordinator under its lock.
type RoomState struct {
	RoomCode    string
	SessionID   string
	HostID      string
	Status      Status
	Members     map[string]*Member
	DrawHistory []Draw
	Winners     []Winner
	Settings    Settings
	PrizePool   float64
	CreatedAt   time.Time
	StartTime   time.Time
	EndTime     time.Time
}

// membersByJoin returns members ordered by join time. Ties break on
// player id so the order is deterministic.
func (r *RoomState) membersByJoin() []*Member {
	out := make([]*Member, 0, len(r.Members))
	for _, m := range r.Members {
		out = append(out, m)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].JoinedAt.Equal(out[j].JoinedAt) {
			return out[i].PlayerID < out[j].PlayerID
		}
		return out[i].JoinedAt.Before(out[j].JoinedAt)
	})
	return out
}

// earliestMember is the host-reassignment candidate.
func (r *RoomState) earliestMember() *Member {
	ordered := r.membersByJoin()
	if len(ordered) == 0 {
		return nil
	}
	return ordered[0]
}

// drawnNumbers flattens the history into draw order.
func (r *RoomState) drawnNumbers() []int {
	out := make([]int, len(r.DrawHistory))
	for i, d := range r.DrawHistory {
		out[i] = d.Number
	}
	return out
}
