package server

import (
	"hachiko/internal/models"
	"hachiko/internal/service"

	"github.com/gofiber/fiber/v2"
)

// PostChatMessage handles POST /api/chat
func (s *Server) PostChatMessage(c *fiber.Ctx) error {
	var req struct {
		UserID     string             `json:"userId"`
		Username   string             `json:"username"`
		Message    string             `json:"message"`
		Attachment *models.Attachment `json:"attachment,omitempty"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	msg, err := s.chat.PostMessage(c.Context(), service.PostMessageInput{
		UserID:     req.UserID,
		Username:   req.Username,
		Body:       req.Message,
		IP:         clientIP(c),
		Attachment: req.Attachment,
	})
	if err != nil {
		return models.RespondWithError(c, models.StatusForError(err), err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": msg,
	})
}

// GetChatMessages handles GET /api/chat
func (s *Server) GetChatMessages(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", service.DefaultFetchLimit)

	messages, err := s.chat.RecentMessages(c.Context(), limit)
	if err != nil {
		return models.RespondWithError(c, models.StatusForError(err), err)
	}

	return c.JSON(fiber.Map{
		"messages": messages,
	})
}

// clientIP returns the best-effort origin address, honoring the proxy
// headers the hosting platform sets.
func clientIP(c *fiber.Ctx) string {
	if forwarded := c.Get("X-Forwarded-For"); forwarded != "" {
		return forwarded
	}
	if real := c.Get("X-Real-IP"); real != "" {
		return real
	}
	return c.IP()
}
