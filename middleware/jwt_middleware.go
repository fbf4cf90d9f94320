package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/nibirhossain/email-validator-api/utils"
)

// Protected requires a Bearer token signed with secret. An empty secret
// turns authentication off.
func Protected(secret string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if secret == "" {
			return c.Next()
		}

		var token string
		authHeader := c.Get(fiber.HeaderAuthorization)
		if authHeader != "" {
			tokenParts := strings.Split(authHeader, " ")
			if len(tokenParts) != 2 || tokenParts[0] != "Bearer" {
				return utils.ErrorResponse(c, fiber.StatusUnauthorized, utils.CodeUnauthorized, "Invalid authorization format")
			}
			token = tokenParts[1]
		} else {
			token = c.Query("token")
			if token == "" {
				return utils.ErrorResponse(c, fiber.StatusUnauthorized, utils.CodeUnauthorized, "Authorization required")
			}
		}

		claims, err := utils.ParseJWTToken(token, secret)
		if err != nil {
			return utils.ErrorResponse(c, fiber.StatusUnauthorized, utils.CodeUnauthorized, "Invalid or expired token")
		}

		c.Locals("clientID", claims.ClientID)
		return c.Next()
	}
}
