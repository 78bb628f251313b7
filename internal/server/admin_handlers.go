package server

import (
	"hachiko/internal/models"

	"github.com/gofiber/fiber/v2"
)

const adminDefaultMessageLimit = 100

// AdminListMessages handles GET /api/admin/messages
func (s *Server) AdminListMessages(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", adminDefaultMessageLimit)
	if limit <= 0 {
		limit = adminDefaultMessageLimit
	}

	messages, err := s.messages.ListNewest(c.Context(), limit)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError,
			models.NewInternalError(err))
	}

	return c.JSON(fiber.Map{
		"messages": messages,
	})
}

// AdminDeleteMessage handles DELETE /api/admin/messages/:id
func (s *Server) AdminDeleteMessage(c *fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Message ID is required"))
	}

	if err := s.messages.Delete(c.Context(), id); err != nil {
		return models.RespondWithError(c, models.StatusForError(err), err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Message deleted successfully",
	})
}

// AdminListUsers handles GET /api/admin/users
func (s *Server) AdminListUsers(c *fiber.Ctx) error {
	users, err := s.users.List(c.Context())
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError,
			models.NewInternalError(err))
	}

	return c.JSON(fiber.Map{
		"users": users,
	})
}
