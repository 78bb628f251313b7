package server

import (
	"fmt"
	"path/filepath"

	"hachiko/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

const maxUploadSize = 10 * 1024 * 1024 // 10MB

// allowedUploadTypes are the MIME types the chat accepts as attachments:
// images, PDF, plain text and Word documents.
var allowedUploadTypes = map[string]bool{
	"image/jpeg":         true,
	"image/jpg":          true,
	"image/png":          true,
	"image/gif":          true,
	"image/webp":         true,
	"application/pdf":    true,
	"text/plain":         true,
	"application/msword": true,
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document": true,
}

// UploadAttachment handles POST /api/upload. The file lands in the object
// bucket and the response carries the attachment descriptor the chat widget
// sends back with its next message.
func (s *Server) UploadAttachment(c *fiber.Ctx) error {
	if s.uploads == nil {
		return models.RespondWithError(c, fiber.StatusServiceUnavailable,
			models.NewValidationError("File uploads are not configured"))
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("No file provided"))
	}

	if fileHeader.Size > maxUploadSize {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError(fmt.Sprintf("File size exceeds maximum allowed size of %dMB", maxUploadSize/1024/1024)))
	}

	contentType := fileHeader.Header.Get("Content-Type")
	if !allowedUploadTypes[contentType] {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("File type not allowed. Allowed types: images, PDF, text, Word documents"))
	}

	file, err := fileHeader.Open()
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError,
			models.NewInternalError(err))
	}
	defer file.Close()

	key := fmt.Sprintf("chat-uploads/%s%s", uuid.NewString(), filepath.Ext(fileHeader.Filename))
	url, err := s.uploads.Put(c.Context(), key, file, fileHeader.Size, contentType)
	if err != nil {
		s.log.Error("attachment upload failed", "key", key, "err", err)
		return models.RespondWithError(c, fiber.StatusInternalServerError,
			models.NewInternalError(err))
	}

	return c.JSON(fiber.Map{
		"success": true,
		"file": models.Attachment{
			URL:  url,
			Name: fileHeader.Filename,
			Type: contentType,
			Size: fileHeader.Size,
		},
	})
}
