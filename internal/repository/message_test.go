package repository

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hachiko/internal/models"
)

func seedMessages(t *testing.T, repo MessageRepository, n int) []models.Message {
	t.Helper()

	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	out := make([]models.Message, 0, n)
	for i := 0; i < n; i++ {
		msg := models.Message{
			UserID:    "user-1",
			Username:  "Yuki_99",
			Body:      fmt.Sprintf("message %d", i),
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
		}
		require.NoError(t, repo.Create(context.Background(), &msg))
		out = append(out, msg)
	}
	return out
}

func TestMessageRepository_CreateAssignsID(t *testing.T) {
	repo := NewMessageRepository(setupTestDB(t))

	msg := models.Message{UserID: "user-1", Username: "Yuki_99", Body: "woof"}
	require.NoError(t, repo.Create(context.Background(), &msg))
	assert.NotEmpty(t, msg.ID)
}

func TestMessageRepository_Recent_AscendingWindow(t *testing.T) {
	repo := NewMessageRepository(setupTestDB(t))
	seedMessages(t, repo, 10)

	got, err := repo.Recent(context.Background(), 4)
	require.NoError(t, err)
	require.Len(t, got, 4)

	// Newest four of ten, oldest of the window first.
	assert.Equal(t, "message 6", got[0].Body)
	assert.Equal(t, "message 9", got[3].Body)
	for i := 1; i < len(got); i++ {
		assert.False(t, got[i].CreatedAt.Before(got[i-1].CreatedAt), "window must ascend")
	}
}

func TestMessageRepository_Recent_FewerThanLimit(t *testing.T) {
	repo := NewMessageRepository(setupTestDB(t))
	seedMessages(t, repo, 3)

	got, err := repo.Recent(context.Background(), 50)
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, "message 0", got[0].Body)
	assert.Equal(t, "message 2", got[2].Body)
}

func TestMessageRepository_Recent_Empty(t *testing.T) {
	repo := NewMessageRepository(setupTestDB(t))

	got, err := repo.Recent(context.Background(), 50)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestMessageRepository_ListNewest_DescendingWindow(t *testing.T) {
	repo := NewMessageRepository(setupTestDB(t))
	seedMessages(t, repo, 5)

	got, err := repo.ListNewest(context.Background(), 3)
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, "message 4", got[0].Body)
	assert.Equal(t, "message 2", got[2].Body)
}

func TestMessageRepository_Delete(t *testing.T) {
	repo := NewMessageRepository(setupTestDB(t))
	seeded := seedMessages(t, repo, 2)
	ctx := context.Background()

	require.NoError(t, repo.Delete(ctx, seeded[0].ID))

	remaining, err := repo.Recent(ctx, 10)
	require.NoError(t, err)
	require.Len(t, remaining, 1)
	assert.Equal(t, seeded[1].ID, remaining[0].ID)
}

func TestMessageRepository_Delete_NotFound(t *testing.T) {
	repo := NewMessageRepository(setupTestDB(t))

	err := repo.Delete(context.Background(), "no-such-id")
	require.Error(t, err)
	appErr, ok := err.(*models.AppError)
	require.True(t, ok)
	assert.Equal(t, models.CodeNotFound, appErr.Code)
}

func TestMessageRepository_AttachmentRoundTrip(t *testing.T) {
	repo := NewMessageRepository(setupTestDB(t))
	ctx := context.Background()

	msg := models.Message{
		UserID:   "user-1",
		Username: "Yuki_99",
		Body:     "look at this",
		Attachment: &models.Attachment{
			URL:  "https://cdn.example.com/chat-uploads/abc.png",
			Name: "dog.png",
			Type: "image/png",
			Size: 2048,
		},
	}
	require.NoError(t, repo.Create(ctx, &msg))

	got, err := repo.Recent(ctx, 1)
	require.NoError(t, err)
	require.Len(t, got, 1)
	require.NotNil(t, got[0].Attachment)
	assert.Equal(t, "dog.png", got[0].Attachment.Name)
	assert.Equal(t, int64(2048), got[0].Attachment.Size)
}
