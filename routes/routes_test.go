package routes

import (
	"context"
	"encoding/json"
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nibirhossain/email-validator-api/middleware"
	"github.com/nibirhossain/email-validator-api/models"
)

type stubVerifier struct{}

func (stubVerifier) VerifyInput(_ context.Context, in any) models.Verdict {
	s, _ := in.(string)
	return models.NewVerdict(s, s, models.SignalFlags{IsValidSyntax: true, MXAcceptsMail: true}, 100, models.StatusSafe, nil, time.Now())
}

func (stubVerifier) InspectDomain(_ context.Context, domain string) (models.DomainReport, error) {
	return models.DomainReport{Domain: domain, MXRecords: []string{}}, nil
}

func newApp(t *testing.T, secret string) *fiber.App {
	t.Helper()
	l := logrus.New()
	l.SetOutput(io.Discard)

	reg := prometheus.NewRegistry()
	reg.MustRegister(prometheus.NewCounter(prometheus.CounterOpts{Name: "routes_test_total", Help: "test"}))

	app := fiber.New(fiber.Config{ErrorHandler: middleware.ErrorHandler})
	app.Use(middleware.CORS())
	SetupRoutes(app, Dependencies{
		Verifier:       stubVerifier{},
		Environment:    "test",
		SMTPValidation: true,
		JWTSecret:      secret,
		RateLimit:      100,
		Gatherer:       reg,
		Logger:         logrus.NewEntry(l),
	})
	return app
}

func request(t *testing.T, app *fiber.App, method, target, body string) (int, string) {
	t.Helper()
	var rd io.Reader
	if body != "" {
		rd = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, rd)
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	resp, err := app.Test(req)
	require.NoError(t, err)
	b, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, string(b)
}

func code(t *testing.T, body string) string {
	t.Helper()
	var out map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(body), &out))
	s, _ := out["code"].(string)
	return s
}

func TestRoutes(t *testing.T) {
	app := newApp(t, "")

	tests := []struct {
		method string
		target string
		body   string
		status int
		code   string
	}{
		{fiber.MethodGet, "/api", "", fiber.StatusOK, ""},
		{fiber.MethodGet, "/api/health", "", fiber.StatusOK, ""},
		{fiber.MethodGet, "/api/docs", "", fiber.StatusOK, ""},
		{fiber.MethodPost, "/api/verify", `{"email":"a@b.test"}`, fiber.StatusOK, ""},
		{fiber.MethodPost, "/api/verify", `{}`, fiber.StatusBadRequest, "MISSING_EMAIL"},
		{fiber.MethodGet, "/api/verify", "", fiber.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED"},
		{fiber.MethodPost, "/api/health", "", fiber.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED"},
		{fiber.MethodGet, "/api/domain?domain=b.test", "", fiber.StatusOK, ""},
		{fiber.MethodGet, "/api/verify/stream", "", fiber.StatusUpgradeRequired, ""},
		{fiber.MethodGet, "/api/nothing", "", fiber.StatusNotFound, "NOT_FOUND"},
	}

	for _, tt := range tests {
		t.Run(tt.method+" "+tt.target, func(t *testing.T) {
			status, body := request(t, app, tt.method, tt.target, tt.body)
			assert.Equal(t, tt.status, status, body)
			if tt.code != "" {
				assert.Equal(t, tt.code, code(t, body))
			}
		})
	}
}

func TestRoutesPreflight(t *testing.T) {
	status, _ := request(t, newApp(t, ""), fiber.MethodOptions, "/api/verify", "")
	assert.Equal(t, fiber.StatusOK, status)
}

func TestRoutesMetrics(t *testing.T) {
	status, body := request(t, newApp(t, ""), fiber.MethodGet, "/metrics", "")
	assert.Equal(t, fiber.StatusOK, status)
	assert.Contains(t, body, "routes_test_total")
}

func TestRoutesRequireTokenWhenConfigured(t *testing.T) {
	app := newApp(t, "s3cret")

	status, body := request(t, app, fiber.MethodPost, "/api/verify", `{"email":"a@b.test"}`)
	assert.Equal(t, fiber.StatusUnauthorized, status)
	assert.Equal(t, "UNAUTHORIZED", code(t, body))

	status, _ = request(t, app, fiber.MethodGet, "/api/health", "")
	assert.Equal(t, fiber.StatusOK, status)
}
