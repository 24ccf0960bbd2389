package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/bellapacxx/bingo-rooms/game"
	"github.com/bellapacxx/bingo-rooms/models"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormStore is the Store collaborator: durable room and card snapshots
// in Postgres. Writes are keyed upserts so retries and replays land on
// the same row.
type GormStore struct {
	db *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

func (s *GormStore) SaveRoom(ctx context.Context, snap *game.Snapshot) error {
	members, err := json.Marshal(snap.Members)
	if err != nil {
		return err
	}
	draws, err := json.Marshal(snap.DrawHistory)
	if err != nil {
		return err
	}
	winners, err := json.Marshal(snap.Winners)
	if err != nil {
		return err
	}
	settings, err := json.Marshal(snap.Settings)
	if err != nil {
		return err
	}

	row := models.Room{
		RoomCode:       snap.Room,
		SessionID:      snap.SessionID,
		HostID:         snap.HostID,
		Status:         string(snap.Status),
		CurrentPlayers: snap.CurrentPlayers,
		MaxPlayers:     snap.MaxPlayers,
		PrizePool:      snap.PrizePool,
		MembersJSON:    datatypes.JSON(members),
		DrawsJSON:      datatypes.JSON(draws),
		WinnersJSON:    datatypes.JSON(winners),
		SettingsJSON:   datatypes.JSON(settings),
		RemainingTime:  snap.RemainingTime,
		StartTime:      snap.StartTime,
		EndTime:        snap.EndTime,
	}
	return s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "room_code"}},
		UpdateAll: true,
	}).Create(&row).Error
}

func (s *GormStore) LoadRoom(ctx context.Context, room string) (*game.Snapshot, error) {
	var row models.Room
	if err := s.db.WithContext(ctx).Where("room_code = ?", room).First(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: room %s", game.ErrNotFound, room)
		}
		return nil, err
	}

	snap := &game.Snapshot{
		Room:           row.RoomCode,
		SessionID:      row.SessionID,
		HostID:         row.HostID,
		Status:         game.Status(row.Status),
		CurrentPlayers: row.CurrentPlayers,
		MaxPlayers:     row.MaxPlayers,
		PrizePool:      row.PrizePool,
		RemainingTime:  row.RemainingTime,
		StartTime:      row.StartTime,
		EndTime:        row.EndTime,
	}
	if err := json.Unmarshal(row.MembersJSON, &snap.Members); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(row.DrawsJSON, &snap.DrawHistory); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(row.WinnersJSON, &snap.Winners); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(row.SettingsJSON, &snap.Settings); err != nil {
		return nil, err
	}
	return snap, nil
}

func (s *GormStore) SaveCard(ctx context.Context, sessionID, playerID string, card *game.Card) error {
	numbers, err := json.Marshal(card.Numbers)
	if err != nil {
		return err
	}
	row := models.Card{
		CardID:      card.ID,
		SessionID:   sessionID,
		PlayerID:    playerID,
		NumbersJSON: datatypes.JSON(numbers),
	}
	return s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "card_id"}},
		UpdateAll: true,
	}).Create(&row).Error
}

// LoadCards returns the cards dealt in one session, for history
// queries.
func (s *GormStore) LoadCards(ctx context.Context, sessionID string) ([]models.Card, error) {
	var rows []models.Card
	err := s.db.WithContext(ctx).Where("session_id = ?", sessionID).Find(&rows).Error
	return rows, err
}
