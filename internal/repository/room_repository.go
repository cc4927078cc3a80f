package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"debate_room/internal/repository/models"
	"debate_room/internal/storage"
)

type RoomRepository interface {
	// Upsert 寫入房間狀態，不會覆蓋票數欄位
	Upsert(ctx context.Context, room *models.Room) error
	UpdateVotes(ctx context.Context, roomID string, votesFor, votesAgainst int) error
	// Delete 刪除房間及其參與者，論點保留作為歷史記錄
	Delete(ctx context.Context, roomID string) error
}

type roomRepository struct {
	db *storage.PostgresDB
}

func NewRoomRepository(db *storage.PostgresDB) RoomRepository {
	return &roomRepository{db: db}
}

func (r *roomRepository) Upsert(ctx context.Context, room *models.Room) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{"topic_title", "status", "message", "start_time", "duration_seconds", "updated_at"}),
	}).Create(room).Error
}

func (r *roomRepository) UpdateVotes(ctx context.Context, roomID string, votesFor, votesAgainst int) error {
	return r.db.WithContext(ctx).Model(&models.Room{}).
		Where("id = ?", roomID).
		Updates(map[string]interface{}{"votes_for": votesFor, "votes_against": votesAgainst}).Error
}

func (r *roomRepository) Delete(ctx context.Context, roomID string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("room_id = ?", roomID).Delete(&models.Participant{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Room{}, "id = ?", roomID).Error
	})
}
