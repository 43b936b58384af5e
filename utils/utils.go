package utils

import (
	"errors"
	"fmt"

	"funnelapi/errs"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// NewID generates identifiers for new records. Tests may replace it.
var NewID = func() string {
	return uuid.NewString()
}

// GenerateRateLimitKey creates a unique key for rate limiting
func GenerateRateLimitKey(userID, path string) string {
	return fmt.Sprintf("rl:%s:%s", userID, path)
}

// Pointer returns a pointer to the given value
func Pointer[T any](v T) *T {
	return &v
}

// ErrorResponse creates a standardized error response
func ErrorResponse(c *fiber.Ctx, status int, message string, err error) error {
	response := fiber.Map{
		"success": false,
		"error":   message,
	}
	if err != nil {
		response["details"] = err.Error()
	}
	return c.Status(status).JSON(response)
}

// HandleError maps application errors onto HTTP responses. Server-side failures are reported
// and their details are not echoed back.
func HandleError(c *fiber.Ctx, err error) error {
	var (
		validationErr *errs.ValidationError
		formatErr     *errs.FormatError
		storageErr    *errs.StorageError
	)

	switch {
	case errors.As(err, &validationErr):
		return ErrorResponse(c, fiber.StatusBadRequest, "Validation failed", validationErr.Err)
	case errors.Is(err, errs.ErrNotAuthorized):
		return ErrorResponse(c, fiber.StatusUnauthorized, "Unauthorized", nil)
	case errors.Is(err, errs.ErrNotFound):
		return ErrorResponse(c, fiber.StatusNotFound, "Not found", nil)
	case errors.Is(err, errs.ErrConflict):
		return ErrorResponse(c, fiber.StatusConflict, "Resource was modified concurrently, please retry", nil)
	case errors.As(err, &formatErr):
		LogError("settings_format", err, requestContext(c))
		return ErrorResponse(c, fiber.StatusInternalServerError, "Stored settings are corrupt", nil)
	case errors.As(err, &storageErr):
		LogError("storage", err, requestContext(c))
		return ErrorResponse(c, fiber.StatusInternalServerError, "Storage failure", nil)
	default:
		LogError("internal", err, requestContext(c))
		return ErrorResponse(c, fiber.StatusInternalServerError, "Internal server error", nil)
	}
}

func requestContext(c *fiber.Ctx) map[string]interface{} {
	return map[string]interface{}{
		"method": c.Method(),
		"path":   c.Path(),
	}
}
