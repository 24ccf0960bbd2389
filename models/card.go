package models

import (
	"time"

	"gorm.io/datatypes"
)

// Card is the durable copy of one dealt card. Marks are not stored:
// they replay from the room's draw history.
type Card struct {
	ID          uint   `gorm:"primaryKey"`
	CardID      string `gorm:"uniqueIndex;size:64"`
	SessionID   string `gorm:"index;size:64"`
	PlayerID    string `gorm:"index;size:64"`
	NumbersJSON datatypes.JSON
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
