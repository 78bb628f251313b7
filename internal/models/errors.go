package models

import (
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"
)

// Error codes carried by AppError. Handlers map these onto HTTP statuses and
// the chat widget uses them to pick the right user-facing prompt, so distinct
// failure classes must stay distinct here.
const (
	CodeMissingFields   = "MISSING_FIELDS"
	CodeInvalidUsername = "INVALID_USERNAME"
	CodeRateLimited     = "RATE_LIMITED"
	CodeContentRejected = "CONTENT_REJECTED"
	CodeNotFound        = "NOT_FOUND"
	CodeUnauthorized    = "UNAUTHORIZED"
	CodeValidation      = "VALIDATION_ERROR"
	CodeInternal        = "INTERNAL_ERROR"
)

// ErrorResponse represents a standardized API error response
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

// AppError represents a custom application error
type AppError struct {
	Code    string
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// Predefined error constructors

func NewMissingFieldsError(message string) *AppError {
	return &AppError{Code: CodeMissingFields, Message: message}
}

func NewInvalidUsernameError() *AppError {
	return &AppError{Code: CodeInvalidUsername, Message: "Invalid username"}
}

func NewRateLimitError() *AppError {
	return &AppError{Code: CodeRateLimited, Message: "Rate limit exceeded. Please wait before sending another message."}
}

func NewContentRejectedError() *AppError {
	return &AppError{Code: CodeContentRejected, Message: "Message contains inappropriate content"}
}

func NewNotFoundError(resource string, id interface{}) *AppError {
	return &AppError{Code: CodeNotFound, Message: fmt.Sprintf("%s with ID %v not found", resource, id)}
}

func NewValidationError(message string) *AppError {
	return &AppError{Code: CodeValidation, Message: message}
}

func NewUnauthorizedError(message string) *AppError {
	return &AppError{Code: CodeUnauthorized, Message: message}
}

func NewInternalError(err error) *AppError {
	return &AppError{Code: CodeInternal, Message: "Internal server error", Err: err}
}

// StatusForError maps an application error to the HTTP status the boundary
// reports: 400 for caller-correctable input, 429 for rate limiting, 404 for
// missing resources, 500 for storage and other infrastructure failures.
func StatusForError(err error) int {
	var appErr *AppError
	if !errors.As(err, &appErr) {
		return fiber.StatusInternalServerError
	}
	switch appErr.Code {
	case CodeMissingFields, CodeInvalidUsername, CodeContentRejected, CodeValidation:
		return fiber.StatusBadRequest
	case CodeRateLimited:
		return fiber.StatusTooManyRequests
	case CodeNotFound:
		return fiber.StatusNotFound
	case CodeUnauthorized:
		return fiber.StatusUnauthorized
	default:
		return fiber.StatusInternalServerError
	}
}

// RespondWithError writes a standardized error response
func RespondWithError(c *fiber.Ctx, status int, err error) error {
	var response ErrorResponse

	var appErr *AppError
	if errors.As(err, &appErr) {
		response = ErrorResponse{Error: appErr.Message, Code: appErr.Code}
	} else {
		response = ErrorResponse{Error: err.Error()}
	}

	return c.Status(status).JSON(response)
}
