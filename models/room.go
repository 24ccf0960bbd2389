package models

import (
	"time"

	"gorm.io/datatypes"
)

// Room is the durable snapshot of one session, written on every status
// transition and on completion. Membership, draws, winners, and
// settings travel as JSON documents; live mutation never happens here.
type Room struct {
	ID             uint   `gorm:"primaryKey"`
	RoomCode       string `gorm:"uniqueIndex;size:32"`
	SessionID      string `gorm:"index;size:64"`
	HostID         string `gorm:"size:64"`
	Status         string `gorm:"index;size:16"` // waiting | active | paused | completed | cancelled
	CurrentPlayers int
	MaxPlayers     int
	PrizePool      float64
	MembersJSON    datatypes.JSON
	DrawsJSON      datatypes.JSON
	WinnersJSON    datatypes.JSON
	SettingsJSON   datatypes.JSON
	RemainingTime  time.Duration // unspent session budget at snapshot time
	StartTime      time.Time
	EndTime        time.Time
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
