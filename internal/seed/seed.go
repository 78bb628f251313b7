// Package seed provides helpers to create demo chat data for the application
// database. These helpers are intended for development and testing only.
package seed

import (
	"context"
	"fmt"
	"math/rand"
	"strings"
	"time"

	"hachiko/internal/models"
	"hachiko/internal/moderation"
	"hachiko/internal/repository"

	"github.com/brianvoe/gofakeit/v6"
	"gorm.io/gorm"
)

// Options controls how much demo data is generated.
type Options struct {
	Users    int
	Messages int
	Clean    bool
}

// Run populates the database with demo users and chat messages spread over
// the last few days. Message bodies pass through the moderator's scrubber so
// seeded content matches what real ingestion would have stored.
func Run(ctx context.Context, db *gorm.DB, opts Options) error {
	gofakeit.Seed(time.Now().UnixNano())

	if opts.Clean {
		if err := db.WithContext(ctx).Exec("DELETE FROM messages").Error; err != nil {
			return fmt.Errorf("cleaning messages: %w", err)
		}
		if err := db.WithContext(ctx).Exec("DELETE FROM users").Error; err != nil {
			return fmt.Errorf("cleaning users: %w", err)
		}
	}

	users := repository.NewUserRepository(db)

	created := make([]*models.User, 0, opts.Users)
	for len(created) < opts.Users {
		name := demoUsername()
		if !moderation.IsValidUsername(name) {
			continue
		}
		user, err := users.GetOrCreate(ctx, name)
		if err != nil {
			return fmt.Errorf("seeding user %q: %w", name, err)
		}
		created = append(created, user)
	}

	now := time.Now().UTC()
	for i := 0; i < opts.Messages; i++ {
		user := created[rand.Intn(len(created))]
		msg := &models.Message{
			UserID:    user.ID,
			Username:  user.Username,
			Body:      moderation.Scrub(gofakeit.Sentence(rand.Intn(12) + 3)),
			IP:        gofakeit.IPv4Address(),
			CreatedAt: now.Add(-time.Duration(opts.Messages-i) * time.Minute),
		}
		if err := db.WithContext(ctx).Create(msg).Error; err != nil {
			return fmt.Errorf("seeding message: %w", err)
		}
	}

	return nil
}

// demoUsername builds names that satisfy the username rules more often than
// raw gofakeit output does.
func demoUsername() string {
	name := strings.ReplaceAll(gofakeit.Username(), ".", "_")
	if len(name) > moderation.MaxUsernameLength {
		name = name[:moderation.MaxUsernameLength]
	}
	return name
}
