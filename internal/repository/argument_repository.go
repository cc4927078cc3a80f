package repository

import (
	"context"

	"debate_room/internal/repository/models"
	"debate_room/internal/storage"
)

type ArgumentRepository interface {
	Create(ctx context.Context, argument *models.Argument) error
}

type argumentRepository struct {
	db *storage.PostgresDB
}

func NewArgumentRepository(db *storage.PostgresDB) ArgumentRepository {
	return &argumentRepository{db: db}
}

func (r *argumentRepository) Create(ctx context.Context, argument *models.Argument) error {
	return r.db.WithContext(ctx).Create(argument).Error
}
