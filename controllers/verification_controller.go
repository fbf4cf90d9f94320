// controller/verification_controller.go
package controller

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/likexian/whois"
	"github.com/sirupsen/logrus"

	"github.com/nibirhossain/email-validator-api/models"
	"github.com/nibirhossain/email-validator-api/utils"
	"github.com/nibirhossain/email-validator-api/verifier"
)

// EmailVerifier is the part of *verifier.Verifier the handlers use.
type EmailVerifier interface {
	VerifyInput(ctx context.Context, in any) models.Verdict
	InspectDomain(ctx context.Context, domain string) (models.DomainReport, error)
}

// WhoisFunc looks up raw WHOIS text for a domain.
type WhoisFunc func(domain string, servers ...string) (string, error)

type VerificationController struct {
	Verifier EmailVerifier
	Whois    WhoisFunc
	Logger   *logrus.Entry
}

func NewVerificationController(v EmailVerifier, logger *logrus.Entry) *VerificationController {
	return &VerificationController{
		Verifier: v,
		Whois:    whois.Whois,
		Logger:   logger,
	}
}

type verifyRequest struct {
	Email any `json:"email"`
}

// missingEmail reports the values rejected before the pipeline runs.
func missingEmail(v any) bool {
	if v == nil {
		return true
	}
	s, ok := v.(string)
	return ok && s == ""
}

// VerifyEmail handles single email verification. Any email that reaches the
// pipeline gets a 200 with a verdict, including unusable ones.
func (vc *VerificationController) VerifyEmail(c *fiber.Ctx) error {
	var request verifyRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&request); err != nil {
			return utils.ErrorResponse(c, fiber.StatusBadRequest, utils.CodeInvalidBody, "Request body must be JSON")
		}
	}

	if missingEmail(request.Email) {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, utils.CodeMissingEmail, "Missing required field: email")
	}

	verdict := vc.Verifier.VerifyInput(c.UserContext(), request.Email)
	return c.JSON(verdict)
}

// DomainReport returns registrable domain, provider flags and MX hosts for
// ?domain=, plus raw WHOIS text when ?whois=true.
func (vc *VerificationController) DomainReport(c *fiber.Ctx) error {
	domain := strings.TrimSpace(c.Query("domain"))
	if domain == "" {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, utils.CodeMissingDomain, "Missing required query parameter: domain")
	}

	report, err := vc.Verifier.InspectDomain(c.UserContext(), domain)
	if err != nil {
		var normErr *verifier.NormalizeError
		if errors.As(err, &normErr) {
			return utils.ErrorResponse(c, fiber.StatusBadRequest, utils.CodeInvalidBody, "Invalid domain: "+normErr.Code)
		}
		return err
	}

	if c.QueryBool("whois") && vc.Whois != nil {
		start := time.Now()
		raw, err := vc.Whois(report.RegistrableDomain)
		if err != nil {
			vc.Logger.WithError(err).WithField("domain", report.RegistrableDomain).Warn("whois lookup failed")
		} else {
			report.WHOIS = raw
		}
		vc.Logger.WithField("duration", time.Since(start).String()).Debug("whois lookup finished")
	}

	return c.JSON(report)
}
