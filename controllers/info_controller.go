package controller

import (
	"time"

	"github.com/gofiber/fiber/v2"
)

const (
	serviceName    = "Email Validation API"
	serviceVersion = "1.0.0"
)

// InfoController serves the static welcome, health and documentation bodies.
type InfoController struct {
	Environment    string
	SMTPValidation bool
}

func NewInfoController(environment string, smtpValidation bool) *InfoController {
	return &InfoController{
		Environment:    environment,
		SMTPValidation: smtpValidation,
	}
}

func baseURL(c *fiber.Ctx) string {
	return c.Protocol() + "://" + c.Hostname()
}

func (ic *InfoController) Index(c *fiber.Ctx) error {
	base := baseURL(c)
	return c.JSON(fiber.Map{
		"service":     serviceName,
		"version":     serviceVersion,
		"description": "A comprehensive email validation service for checking email deliverability, syntax, and more.",
		"status":      "operational",
		"endpoints": fiber.Map{
			"health":        base + "/api/health",
			"documentation": base + "/api/docs",
			"verify":        base + "/api/verify (POST)",
			"domain":        base + "/api/domain?domain=example.com",
			"stream":        "ws://" + c.Hostname() + "/api/verify/stream",
		},
		"quickStart": fiber.Map{
			"example":       `curl -X POST ` + base + `/api/verify -H "Content-Type: application/json" -d '{"email":"test@gmail.com"}'`,
			"documentation": "Visit " + base + "/api/docs for complete API documentation",
		},
		"features": []string{
			"Email syntax validation",
			"Domain and MX validation",
			"SMTP connectivity testing",
			"Disposable email detection",
			"Role account identification",
			"Comprehensive scoring system",
		},
	})
}

func (ic *InfoController) Health(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":          "healthy",
		"timestamp":       time.Now().UTC().Format(time.RFC3339Nano),
		"environment":     ic.Environment,
		"smtp_validation": ic.SMTPValidation,
		"service":         serviceName,
		"version":         serviceVersion,
	})
}

func (ic *InfoController) Docs(c *fiber.Ctx) error {
	base := baseURL(c)
	return c.JSON(fiber.Map{
		"title":       serviceName + " Documentation",
		"version":     serviceVersion,
		"description": "Checks syntax, domain validity, MX records, SMTP connectivity, and deliverability.",
		"baseUrl":     base,
		"endpoints": []fiber.Map{
			{
				"method":      "GET",
				"path":        "/api/health",
				"description": "Check API health status",
			},
			{
				"method":      "GET",
				"path":        "/api/docs",
				"description": "View this documentation",
			},
			{
				"method":      "POST",
				"path":        "/api/verify",
				"description": "Validate an email address",
				"requestBody": fiber.Map{
					"required":    true,
					"contentType": "application/json",
					"schema":      fiber.Map{"email": "string (required) - The email address to validate"},
					"example":     fiber.Map{"email": "user@example.com"},
				},
				"responses": fiber.Map{
					"200": fiber.Map{
						"description": "Validation result",
						"schema": fiber.Map{
							"status":              "string - 'safe', 'risky', or 'bad'",
							"overall_score":       "number - Score from 0-100",
							"overall_score_label": "string - Score with label (e.g., '85/100')",
							"is_safe_to_send":     "boolean - True if email is safe to send to",
							"is_valid_syntax":     "boolean - Valid email format",
							"is_disposable":       "boolean - Temporary/disposable email",
							"is_role_account":     "boolean - Role-based email (admin, support, etc.)",
							"mx_accepts_mail":     "boolean - Domain has valid MX records",
							"mx_records":          "array - List of MX record hostnames",
							"can_connect_smtp":    "boolean - SMTP server is reachable",
							"has_inbox_full":      "boolean - Mailbox appears to be full",
							"is_catch_all":        "boolean - Domain accepts all emails (catch-all)",
							"is_deliverable":      "boolean - Email appears to be deliverable",
							"is_disabled":         "boolean - Mailbox appears to be disabled",
							"is_free_email":       "boolean - Free email provider (Gmail, Yahoo, etc.)",
							"smtp_checked":        "boolean - An SMTP dialog was attempted",
							"smtp_reason":         "string - Last SMTP reply or failure, when any",
							"checked_at":          "string - ISO timestamp of validation",
							"normalized":          "string - Normalized email address",
							"input":               "string - Original input email",
							"error":               "string - Normalization failure code, when any",
						},
					},
					"400": fiber.Map{
						"description": "Bad request - missing or invalid email",
						"example":     fiber.Map{"error": "Missing required field: email", "code": "MISSING_EMAIL"},
					},
					"429": fiber.Map{
						"description": "Rate limit exceeded",
						"example":     fiber.Map{"error": "Too many requests. Please wait before trying again.", "code": "RATE_LIMITED"},
					},
					"500": fiber.Map{
						"description": "Server error",
						"example": fiber.Map{
							"error":     "Internal server error during email validation",
							"code":      "VALIDATION_ERROR",
							"timestamp": "2023-12-07T10:30:00.000Z",
						},
					},
				},
			},
			{
				"method":      "GET",
				"path":        "/api/verify/stream",
				"description": "WebSocket: send {\"email\": \"...\"}, receive one verdict per message",
			},
			{
				"method":      "GET",
				"path":        "/api/domain",
				"description": "Domain report: registrable domain, provider flags, MX hosts, optional WHOIS (whois=true)",
			},
		},
		"support": fiber.Map{
			"documentation": base + "/api/docs",
			"health_check":  base + "/api/health",
		},
	})
}
