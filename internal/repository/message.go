package repository

import (
	"context"

	"hachiko/internal/models"

	"gorm.io/gorm"
)

// MessageRepository defines the interface for message data operations
type MessageRepository interface {
	Create(ctx context.Context, msg *models.Message) error
	Recent(ctx context.Context, limit int) ([]models.Message, error)
	ListNewest(ctx context.Context, limit int) ([]models.Message, error)
	Delete(ctx context.Context, id string) error
}

type messageRepository struct {
	db *gorm.DB
}

// NewMessageRepository creates a new message repository
func NewMessageRepository(db *gorm.DB) MessageRepository {
	return &messageRepository{db: db}
}

func (r *messageRepository) Create(ctx context.Context, msg *models.Message) error {
	return r.db.WithContext(ctx).Create(msg).Error
}

// Recent returns the newest `limit` messages in chronological ascending
// order: the window is selected newest-first, then reversed so the oldest of
// the window renders first.
func (r *messageRepository) Recent(ctx context.Context, limit int) ([]models.Message, error) {
	messages, err := r.ListNewest(ctx, limit)
	if err != nil {
		return nil, err
	}
	for i, j := 0, len(messages)-1; i < j; i, j = i+1, j-1 {
		messages[i], messages[j] = messages[j], messages[i]
	}
	return messages, nil
}

// ListNewest returns the newest `limit` messages in descending order, the
// shape the admin dashboard displays.
func (r *messageRepository) ListNewest(ctx context.Context, limit int) ([]models.Message, error) {
	var messages []models.Message
	err := r.db.WithContext(ctx).
		Order("created_at DESC, id DESC").
		Limit(limit).
		Find(&messages).Error
	return messages, err
}

func (r *messageRepository) Delete(ctx context.Context, id string) error {
	result := r.db.WithContext(ctx).Delete(&models.Message{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return models.NewNotFoundError("Message", id)
	}
	return nil
}
