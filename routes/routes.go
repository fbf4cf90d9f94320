package routes

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/websocket/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"

	controller "github.com/nibirhossain/email-validator-api/controllers"
	"github.com/nibirhossain/email-validator-api/middleware"
	"github.com/nibirhossain/email-validator-api/utils"
)

// Dependencies carries what the routes need from main.
type Dependencies struct {
	Verifier       controller.EmailVerifier
	Environment    string
	SMTPValidation bool
	JWTSecret      string
	RateLimit      int
	LimiterStorage fiber.Storage
	Gatherer       prometheus.Gatherer
	Logger         *logrus.Entry
}

func SetupRoutes(app *fiber.App, deps Dependencies) {
	info := controller.NewInfoController(deps.Environment, deps.SMTPValidation)
	verification := controller.NewVerificationController(deps.Verifier, deps.Logger.WithField("component", "verification"))

	api := app.Group("/api", logger.New(logger.Config{
		Format: "[${time}] ${status} - ${latency} ${method} ${path}\n",
	}))

	api.Get("/", info.Index)
	api.Get("/health", info.Health)
	api.Get("/docs", info.Docs)

	auth := middleware.Protected(deps.JWTSecret)
	limit := middleware.RateLimiter(deps.RateLimit, deps.LimiterStorage)

	api.Post("/verify", auth, limit, verification.VerifyEmail)
	api.Get("/domain", auth, limit, verification.DomainReport)

	// WebSocket route for streaming single verifications
	api.Get("/verify/stream", auth, func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	}, websocket.New(verification.HandleVerifyStreamWS))

	// Anything else on a known path is a wrong method.
	api.All("/verify", utils.MethodNotAllowed("POST"))
	for _, path := range []string{"/", "/health", "/docs", "/domain"} {
		api.All(path, utils.MethodNotAllowed("GET"))
	}

	if deps.Gatherer != nil {
		app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(deps.Gatherer, promhttp.HandlerOpts{})))
	}

	app.Use(func(c *fiber.Ctx) error {
		return utils.ErrorResponse(c, fiber.StatusNotFound, utils.CodeNotFound, "Route not found")
	})

	deps.Logger.Info("Verification routes initialized successfully")
}
