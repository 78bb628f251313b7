package server

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"hachiko/internal/config"
	"hachiko/internal/kv"
	"hachiko/internal/middleware"
	"hachiko/internal/models"
	"hachiko/internal/moderation"
	"hachiko/internal/ratelimit"
	"hachiko/internal/repository"
	"hachiko/internal/service"
)

func setupTestServer(t *testing.T) (*Server, *fiber.App) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.User{}, &models.Message{}))

	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	users := repository.NewUserRepository(db)
	messages := repository.NewMessageRepository(db)
	limiter := ratelimit.NewLimiter(kv.NewMemoryStore(), ratelimit.DefaultLimit, ratelimit.DefaultWindow, log)
	moderator, err := moderation.NewModerator()
	require.NoError(t, err)

	cfg := &config.Config{
		Port:              "8080",
		Env:               "test",
		JWTSecret:         "test-secret",
		ChatRateLimit:     ratelimit.DefaultLimit,
		ChatRateWindowSec: 60,
	}
	middleware.InitMiddleware(cfg)

	srv := &Server{
		config:   cfg,
		db:       db,
		users:    users,
		messages: messages,
		chat:     service.NewChatService(users, messages, limiter, moderator, log),
		log:      log,
	}

	app := fiber.New()
	srv.SetupRoutes(app)
	return srv, app
}

func postChat(t *testing.T, app *fiber.App, body map[string]any) *http.Response {
	t.Helper()

	payload, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, "/api/chat", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func decodeJSON(t *testing.T, resp *http.Response) map[string]any {
	t.Helper()

	var out map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

func TestPostChatMessage_Success(t *testing.T) {
	_, app := setupTestServer(t)

	resp := postChat(t, app, map[string]any{
		"userId":   "client-abc",
		"username": "Yuki_99",
		"message":  "hello fellow dog lovers",
	})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	body := decodeJSON(t, resp)
	assert.Equal(t, true, body["success"])

	msg, ok := body["message"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "Yuki_99", msg["username"])
	assert.Equal(t, "hello fellow dog lovers", msg["message"])
	assert.NotEmpty(t, msg["id"])
	assert.NotEmpty(t, msg["userId"])
}

func TestPostChatMessage_MissingFields(t *testing.T) {
	_, app := setupTestServer(t)

	resp := postChat(t, app, map[string]any{"username": "Yuki_99"})
	require.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	body := decodeJSON(t, resp)
	assert.Equal(t, models.CodeMissingFields, body["code"])
}

func TestPostChatMessage_InvalidUsername(t *testing.T) {
	_, app := setupTestServer(t)

	resp := postChat(t, app, map[string]any{
		"userId":   "client-abc",
		"username": "admin2",
		"message":  "hi",
	})
	require.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	body := decodeJSON(t, resp)
	assert.Equal(t, models.CodeInvalidUsername, body["code"])
}

func TestPostChatMessage_ContentRejected(t *testing.T) {
	_, app := setupTestServer(t)

	resp := postChat(t, app, map[string]any{
		"userId":   "client-abc",
		"username": "Yuki_99",
		"message":  "buy now buy now http://x.co",
	})
	require.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	body := decodeJSON(t, resp)
	assert.Equal(t, models.CodeContentRejected, body["code"])
}

func TestPostChatMessage_RateLimited(t *testing.T) {
	_, app := setupTestServer(t)

	for i := 0; i < ratelimit.DefaultLimit; i++ {
		resp := postChat(t, app, map[string]any{
			"userId":   "client-abc",
			"username": "Yuki_99",
			"message":  fmt.Sprintf("message %d", i),
		})
		require.Equal(t, fiber.StatusOK, resp.StatusCode, "message %d within quota", i+1)
	}

	resp := postChat(t, app, map[string]any{
		"userId":   "client-abc",
		"username": "Yuki_99",
		"message":  "one too many",
	})
	require.Equal(t, fiber.StatusTooManyRequests, resp.StatusCode)
	body := decodeJSON(t, resp)
	assert.Equal(t, models.CodeRateLimited, body["code"])
}

func TestPostChatMessage_ScrubbedBodyPersisted(t *testing.T) {
	_, app := setupTestServer(t)

	resp := postChat(t, app, map[string]any{
		"userId":   "client-abc",
		"username": "Yuki_99",
		"message":  "look at http://example.com please",
	})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	body := decodeJSON(t, resp)
	msg := body["message"].(map[string]any)
	assert.Equal(t, "look at [MODERATED] please", msg["message"])
}

func TestPostChatMessage_MalformedBody(t *testing.T) {
	_, app := setupTestServer(t)

	req := httptest.NewRequest(http.MethodPost, "/api/chat", bytes.NewReader([]byte("{not json")))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestGetChatMessages_AscendingOrder(t *testing.T) {
	_, app := setupTestServer(t)

	for i := 0; i < 3; i++ {
		resp := postChat(t, app, map[string]any{
			"userId":   "client-abc",
			"username": "Yuki_99",
			"message":  fmt.Sprintf("message %d", i),
		})
		require.Equal(t, fiber.StatusOK, resp.StatusCode)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/chat", nil)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	body := decodeJSON(t, resp)
	messages, ok := body["messages"].([]any)
	require.True(t, ok)
	require.Len(t, messages, 3)

	first := messages[0].(map[string]any)
	last := messages[2].(map[string]any)
	assert.Equal(t, "message 0", first["message"])
	assert.Equal(t, "message 2", last["message"])
}

func TestGetChatMessages_LimitQuery(t *testing.T) {
	_, app := setupTestServer(t)

	for i := 0; i < 5; i++ {
		postChat(t, app, map[string]any{
			"userId":   "client-abc",
			"username": "Yuki_99",
			"message":  fmt.Sprintf("message %d", i),
		})
	}

	req := httptest.NewRequest(http.MethodGet, "/api/chat?limit=2", nil)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	body := decodeJSON(t, resp)
	messages := body["messages"].([]any)
	require.Len(t, messages, 2)
	// Newest two, oldest of the pair first.
	assert.Equal(t, "message 3", messages[0].(map[string]any)["message"])
	assert.Equal(t, "message 4", messages[1].(map[string]any)["message"])
}

func TestGetChatMessages_Empty(t *testing.T) {
	_, app := setupTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/api/chat", nil)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestHealthCheck(t *testing.T) {
	_, app := setupTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	body := decodeJSON(t, resp)
	assert.Equal(t, "hachiko", body["service"])
	checks := body["checks"].(map[string]any)
	assert.Equal(t, "healthy", checks["database"])
	assert.Equal(t, "unavailable", checks["redis"])
}
