package utils

import (
	"time"

	"github.com/gofiber/fiber/v2"
)

// Error codes returned by the HTTP boundary.
const (
	CodeMissingEmail     = "MISSING_EMAIL"
	CodeInvalidBody      = "INVALID_BODY"
	CodeMethodNotAllowed = "METHOD_NOT_ALLOWED"
	CodeRateLimited      = "RATE_LIMITED"
	CodeUnauthorized     = "UNAUTHORIZED"
	CodeValidationError  = "VALIDATION_ERROR"
	CodeNotFound         = "NOT_FOUND"
	CodeMissingDomain    = "MISSING_DOMAIN"
)

// ErrorResponse writes the standard {error, code} body.
func ErrorResponse(c *fiber.Ctx, status int, code, message string) error {
	return c.Status(status).JSON(fiber.Map{
		"error": message,
		"code":  code,
	})
}

// ServerErrorResponse is the body for faults outside the verification
// verdict; it carries a timestamp for correlation with logs.
func ServerErrorResponse(c *fiber.Ctx) error {
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"error":     "Internal server error during email validation",
		"code":      CodeValidationError,
		"timestamp": time.Now().UTC().Format(time.RFC3339Nano),
	})
}

// MethodNotAllowed rejects any method other than the allowed one.
func MethodNotAllowed(allowed string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		return ErrorResponse(c, fiber.StatusMethodNotAllowed, CodeMethodNotAllowed, "Method not allowed. Use "+allowed+".")
	}
}

// Pointer returns a pointer to the given value
func Pointer[T any](v T) *T {
	return &v
}
