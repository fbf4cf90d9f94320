package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/sirupsen/logrus"

	"github.com/nibirhossain/email-validator-api/config"
	"github.com/nibirhossain/email-validator-api/metrics"
	"github.com/nibirhossain/email-validator-api/middleware"
	"github.com/nibirhossain/email-validator-api/routes"
	"github.com/nibirhossain/email-validator-api/utils"
	"github.com/nibirhossain/email-validator-api/verifier"
	"github.com/nibirhossain/email-validator-api/worker"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logrus.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize logger
	logger := utils.SetupLogger(cfg.LogLevel, cfg.IsProduction())
	log := logger.WithField("service", "email-validator-api")
	cfg.Log(log)

	if cfg.SentryDSN != "" {
		if err := sentry.Init(sentry.ClientOptions{
			Dsn:         cfg.SentryDSN,
			Environment: cfg.Environment,
		}); err != nil {
			log.WithError(err).Warn("Sentry initialization failed")
		}
		defer sentry.Flush(2 * time.Second)
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	recorder := metrics.New(registry)

	list := verifier.NewDisposableList()
	v, err := verifier.New(cfg.VerifierOptions(),
		verifier.WithResolver(verifier.NewResolver(cfg.DNSServer, cfg.SMTP.ConnectTimeout)),
		verifier.WithDisposableList(list),
		verifier.WithRecorder(recorder),
		verifier.WithLogger(log.WithField("component", "verifier")),
	)
	if err != nil {
		log.Fatalf("Failed to create verifier: %v", err)
	}

	// Create Fiber app
	app := fiber.New(fiber.Config{
		AppName:      "Email Validation API",
		ErrorHandler: middleware.ErrorHandler,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: cfg.RequestTimeout + 5*time.Second,
	})
	app.Use(middleware.Recover())
	app.Use(middleware.CORS(middleware.CORSConfig{
		AllowedOrigins: cfg.AllowedOrigins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Content-Type", "Authorization"},
		MaxAge:         3600,
	}))

	storage := middleware.NewRateLimitStorage(cfg.Redis)
	routes.SetupRoutes(app, routes.Dependencies{
		Verifier:       v,
		Environment:    cfg.Environment,
		SMTPValidation: cfg.SMTP.Validate,
		JWTSecret:      cfg.JWTSecret,
		RateLimit:      cfg.RateLimit,
		LimiterStorage: storage,
		Gatherer:       registry,
		Logger:         log,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	disposableWorker := worker.NewDisposableWorker(list, cfg.DisposableListURL, cfg.DisposableRefreshInterval, log.WithField("component", "disposable_worker"))
	go disposableWorker.Start(ctx)

	go func() {
		<-ctx.Done()
		log.Info("Shutting down server...")
		if err := app.ShutdownWithTimeout(cfg.RequestTimeout); err != nil {
			log.WithError(err).Error("Server shutdown failed")
		}
	}()

	// Start server
	log.Infof("Server starting on port %s", cfg.ServerPort)
	if err := app.Listen(":" + cfg.ServerPort); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}

	if storage != nil {
		if err := storage.Close(); err != nil {
			log.WithError(err).Warn("Failed to close rate limit storage")
		}
	}
	log.Info("Server stopped")
}
