package repository

import (
	"context"

	"gorm.io/gorm/clause"

	"debate_room/internal/repository/models"
	"debate_room/internal/storage"
)

type TopicRepository interface {
	Count(ctx context.Context) (int64, error)
	FindAll(ctx context.Context) ([]models.Topic, error)
	// Create 標題已存在時不做任何事
	Create(ctx context.Context, topic *models.Topic) error
}

type topicRepository struct {
	db *storage.PostgresDB
}

func NewTopicRepository(db *storage.PostgresDB) TopicRepository {
	return &topicRepository{db: db}
}

func (r *topicRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&models.Topic{}).Count(&n).Error
	return n, err
}

func (r *topicRepository) FindAll(ctx context.Context) ([]models.Topic, error) {
	var topics []models.Topic
	err := r.db.WithContext(ctx).Order("id asc").Find(&topics).Error
	return topics, err
}

func (r *topicRepository) Create(ctx context.Context, topic *models.Topic) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "title"}}, DoNothing: true}).
		Create(topic).Error
}
