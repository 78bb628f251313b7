// Package repository contains the persistence layer over GORM.
package repository

import (
	"context"
	"time"

	"hachiko/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// UserSummary is a user row with its live message count, for admin views.
type UserSummary struct {
	models.User
	MessageCount int64 `json:"messageCount"`
}

// UserRepository defines the interface for user data operations
type UserRepository interface {
	GetOrCreate(ctx context.Context, username string) (*models.User, error)
	GetByID(ctx context.Context, id string) (*models.User, error)
	List(ctx context.Context) ([]UserSummary, error)
}

type userRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

// GetOrCreate returns the user owning username, creating it on first use.
// The race between two first-time posters with the same name is settled by
// the unique constraint: the insert upserts on username, bumping last-active,
// and the canonical row is read back afterwards.
func (r *userRepository) GetOrCreate(ctx context.Context, username string) (*models.User, error) {
	now := time.Now().UTC()
	user := models.User{Username: username, LastActiveAt: now}

	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "username"}},
			DoUpdates: clause.Assignments(map[string]interface{}{"last_active_at": now}),
		}).
		Create(&user).Error
	if err != nil {
		return nil, err
	}

	// The conflict path updates the existing row without backfilling our
	// struct, so re-read to get the stable identifier.
	var out models.User
	if err := r.db.WithContext(ctx).Where("username = ?", username).First(&out).Error; err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *userRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).First(&user, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, models.NewNotFoundError("User", id)
		}
		return nil, err
	}
	return &user, nil
}

// List returns all users newest-first with their message counts computed
// live, so administrative message deletion needs no count bookkeeping.
func (r *userRepository) List(ctx context.Context) ([]UserSummary, error) {
	var summaries []UserSummary
	err := r.db.WithContext(ctx).
		Model(&models.User{}).
		Select("users.*, COUNT(messages.id) AS message_count").
		Joins("LEFT JOIN messages ON messages.user_id = users.id").
		Group("users.id").
		Order("users.created_at DESC").
		Scan(&summaries).Error
	return summaries, err
}
