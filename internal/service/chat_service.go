// Package service contains the application's orchestration logic.
package service

import (
	"context"
	"log/slog"

	"hachiko/internal/middleware"
	"hachiko/internal/models"
	"hachiko/internal/moderation"
	"hachiko/internal/ratelimit"
	"hachiko/internal/repository"
)

// DefaultFetchLimit is the message window returned when the caller does not
// ask for a specific size.
const DefaultFetchLimit = 50

// MaxFetchLimit caps a single retrieval window.
const MaxFetchLimit = 200

// PostMessageInput carries one inbound chat submission through the pipeline.
type PostMessageInput struct {
	UserID     string
	Username   string
	Body       string
	IP         string
	Attachment *models.Attachment
}

// ChatService runs the message ingestion pipeline:
// validate -> rate-limit -> moderate -> persist.
type ChatService struct {
	users     repository.UserRepository
	messages  repository.MessageRepository
	limiter   *ratelimit.Limiter
	moderator *moderation.Moderator
	log       *slog.Logger
}

// NewChatService wires the pipeline stages together.
func NewChatService(
	users repository.UserRepository,
	messages repository.MessageRepository,
	limiter *ratelimit.Limiter,
	moderator *moderation.Moderator,
	log *slog.Logger,
) *ChatService {
	return &ChatService{
		users:     users,
		messages:  messages,
		limiter:   limiter,
		moderator: moderator,
		log:       log,
	}
}

// PostMessage runs one submission through the pipeline and returns the
// persisted message. Each rejection class surfaces as a distinct AppError so
// the boundary can keep them apart. The pipeline never retries; that is the
// caller's decision.
func (s *ChatService) PostMessage(ctx context.Context, in PostMessageInput) (*models.Message, error) {
	if in.UserID == "" || in.Username == "" || in.Body == "" {
		middleware.MessagesRejected.WithLabelValues("missing_fields").Inc()
		return nil, models.NewMissingFieldsError("Missing required fields: userId, username, message")
	}

	if !moderation.IsValidUsername(in.Username) {
		middleware.MessagesRejected.WithLabelValues("invalid_username").Inc()
		return nil, models.NewInvalidUsernameError()
	}

	// The subject is the client-supplied opaque id, checked before the user
	// row exists so a rejected poster never creates one.
	if s.limiter.IsLimited(ctx, in.UserID) {
		middleware.MessagesRejected.WithLabelValues("rate_limited").Inc()
		return nil, models.NewRateLimitError()
	}

	verdict := s.moderator.Moderate(in.Body)
	if !verdict.Allowed {
		// The cleaned text is discarded along with the raw input; nothing
		// about a vetoed message is stored.
		middleware.MessagesRejected.WithLabelValues("content").Inc()
		return nil, models.NewContentRejectedError()
	}

	// Get-or-create must precede the insert for the foreign key. If the
	// message insert then fails, the created user is accepted residue: a
	// retry with the same name is side-effect-free.
	user, err := s.users.GetOrCreate(ctx, in.Username)
	if err != nil {
		middleware.MessagesRejected.WithLabelValues("storage").Inc()
		s.log.ErrorContext(ctx, "get-or-create user failed", "username", in.Username, "err", err)
		return nil, models.NewInternalError(err)
	}

	msg := &models.Message{
		UserID:     user.ID,
		Username:   in.Username,
		Body:       verdict.Cleaned,
		IP:         in.IP,
		Attachment: in.Attachment,
	}
	if err := s.messages.Create(ctx, msg); err != nil {
		middleware.MessagesRejected.WithLabelValues("storage").Inc()
		s.log.ErrorContext(ctx, "message insert failed", "user_id", user.ID, "err", err)
		return nil, models.NewInternalError(err)
	}

	middleware.MessagesIngested.Inc()
	return msg, nil
}

// RecentMessages returns the newest `limit` messages in chronological
// ascending order, clamping the window to sane bounds.
func (s *ChatService) RecentMessages(ctx context.Context, limit int) ([]models.Message, error) {
	if limit <= 0 {
		limit = DefaultFetchLimit
	}
	if limit > MaxFetchLimit {
		limit = MaxFetchLimit
	}

	messages, err := s.messages.Recent(ctx, limit)
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return messages, nil
}
