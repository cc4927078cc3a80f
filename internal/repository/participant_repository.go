package repository

import (
	"context"

	"gorm.io/gorm"

	"debate_room/internal/repository/models"
	"debate_room/internal/storage"
)

type ParticipantRepository interface {
	// ReplaceForRoom 以新的列表整體取代房間內的參與者
	ReplaceForRoom(ctx context.Context, roomID string, participants []models.Participant) error
}

type participantRepository struct {
	db *storage.PostgresDB
}

func NewParticipantRepository(db *storage.PostgresDB) ParticipantRepository {
	return &participantRepository{db: db}
}

func (r *participantRepository) ReplaceForRoom(ctx context.Context, roomID string, participants []models.Participant) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("room_id = ?", roomID).Delete(&models.Participant{}).Error; err != nil {
			return err
		}
		if len(participants) == 0 {
			return nil
		}
		return tx.Create(&participants).Error
	})
}
