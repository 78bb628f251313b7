package server

import (
	"hachiko/internal/models"

	"github.com/gofiber/fiber/v2"
)

// GetTokenData handles GET /api/token-data. It relays DexScreener pair data
// for the chart widget; the address defaults to the Hachiko token.
func (s *Server) GetTokenData(c *fiber.Ctx) error {
	address := c.Query("address")
	if address == "" {
		address = s.config.TokenAddress
	}

	payload, err := s.market.TokenPairs(c.Context(), address)
	if err != nil {
		s.log.Error("token data fetch failed", "address", address, "err", err)
		return models.RespondWithError(c, fiber.StatusBadGateway,
			models.NewValidationError("Token data is currently unavailable"))
	}

	c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	return c.Send(payload)
}
