package middleware

import (
	"fmt"
	"runtime/debug"

	"github.com/gofiber/fiber/v2"

	"github.com/nibirhossain/email-validator-api/utils"
)

// Recover turns a panic in a handler into a 500 VALIDATION_ERROR response
// and reports it.
func Recover() fiber.Handler {
	return func(c *fiber.Ctx) (err error) {
		defer func() {
			if r := recover(); r != nil {
				utils.LogError("panic", fmt.Errorf("%v", r), map[string]interface{}{
					"path":   c.Path(),
					"method": c.Method(),
					"stack":  string(debug.Stack()),
				})
				err = utils.ServerErrorResponse(c)
			}
		}()
		return c.Next()
	}
}

// ErrorHandler is the fiber.Config error handler. It keeps fiber's own
// status codes and maps anything else to the internal error body.
func ErrorHandler(c *fiber.Ctx, err error) error {
	if e, ok := err.(*fiber.Error); ok {
		code := utils.CodeValidationError
		switch e.Code {
		case fiber.StatusNotFound:
			code = utils.CodeNotFound
		case fiber.StatusMethodNotAllowed:
			code = utils.CodeMethodNotAllowed
		case fiber.StatusBadRequest:
			code = utils.CodeInvalidBody
		}
		return utils.ErrorResponse(c, e.Code, code, e.Message)
	}
	utils.LogError("request_failed", err, map[string]interface{}{
		"path":   c.Path(),
		"method": c.Method(),
	})
	return utils.ServerErrorResponse(c)
}
