package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/nibirhossain/email-validator-api/utils"
	"github.com/nibirhossain/email-validator-api/verifier"
)

const defaultDisposableListURL = "https://raw.githubusercontent.com/disposable/disposable-email-domains/master/domains.json"

type RedisConfig struct {
	Enabled  bool   `json:"enabled"`
	Address  string `json:"address" validate:"required_if=Enabled true"`
	Password string `json:"-"`
	DB       int    `json:"db" validate:"min=0"`
}

type SMTPConfig struct {
	Validate        bool          `json:"validate"`
	Sender          string        `json:"sender" validate:"required,email"`
	HelloName       string        `json:"hello_name" validate:"required,hostname_rfc1123"`
	Port            string        `json:"port" validate:"required,numeric"`
	Proxy           string        `json:"proxy" validate:"omitempty,url"`
	ConnectTimeout  time.Duration `json:"connect_timeout" validate:"gt=0"`
	Timeout         time.Duration `json:"timeout" validate:"gt=0"`
	CatchAllTimeout time.Duration `json:"catch_all_timeout" validate:"gt=0"`
}

// Config is read once at start and never changed afterwards.
type Config struct {
	Environment    string        `json:"environment"`
	ServerPort     string        `json:"server_port" validate:"required,numeric"`
	LogLevel       string        `json:"log_level" validate:"oneof=trace debug info warn error"`
	SentryDSN      string        `json:"-"`
	JWTSecret      string        `json:"-"`
	AllowedOrigins []string      `json:"allowed_origins"`
	RateLimit      int           `json:"rate_limit_per_minute" validate:"min=0"`
	RequestTimeout time.Duration `json:"request_timeout" validate:"gt=0"`
	DNSServer      string        `json:"dns_server" validate:"omitempty,hostname_port"`
	SMTP           SMTPConfig    `json:"smtp"`
	Redis          RedisConfig   `json:"redis"`

	CheckDisposable           bool          `json:"check_disposable"`
	CheckTypo                 bool          `json:"check_typo"`
	DisposableListURL         string        `json:"disposable_list_url" validate:"omitempty,url"`
	DisposableRefreshInterval time.Duration `json:"disposable_refresh_interval" validate:"gt=0"`

	SafeThreshold int              `json:"safe_threshold" validate:"min=1,max=100"`
	Weights       verifier.Weights `json:"weights"`
}

// Load reads .env when present, then the environment, and validates the
// result.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Environment:    getEnv("ENVIRONMENT", "production"),
		ServerPort:     getEnv("SERVER_PORT", "3000"),
		LogLevel:       strings.ToLower(getEnv("LOG_LEVEL", "info")),
		SentryDSN:      getEnv("SENTRY_DSN", ""),
		JWTSecret:      getEnv("JWT_SECRET", ""),
		AllowedOrigins: getEnvAsList("CORS_ALLOWED_ORIGINS"),
		RateLimit:      getEnvAsInt("RATE_LIMIT_PER_MINUTE", 60),
		RequestTimeout: getEnvAsMillis("REQUEST_TIMEOUT_MS", 20000),
		DNSServer:      getEnv("DNS_SERVER", ""),
		SMTP: SMTPConfig{
			Validate:        getEnvAsBool("VALIDATE_SMTP", true),
			Sender:          getEnv("SMTP_SENDER", verifier.DefaultSender),
			HelloName:       getEnv("SMTP_HELO_NAME", verifier.DefaultHelloName),
			Port:            getEnv("SMTP_PORT", "25"),
			Proxy:           getEnv("SMTP_PROXY", ""),
			ConnectTimeout:  getEnvAsMillis("SMTP_CONNECT_TIMEOUT_MS", 5000),
			Timeout:         getEnvAsMillis("SMTP_TIMEOUT_MS", 8000),
			CatchAllTimeout: getEnvAsMillis("CATCHALL_TIMEOUT_MS", 5000),
		},
		Redis: RedisConfig{
			Enabled:  getEnvAsBool("REDIS_ENABLED", false),
			Address:  getEnv("REDIS_ADDRESS", "localhost:6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
		},
		CheckDisposable:           getEnvAsBool("CHECK_DISPOSABLE", true),
		CheckTypo:                 getEnvAsBool("CHECK_TYPO", false),
		DisposableListURL:         getEnv("DISPOSABLE_LIST_URL", defaultDisposableListURL),
		DisposableRefreshInterval: getEnvAsDuration("DISPOSABLE_REFRESH_INTERVAL", 24*time.Hour),
		SafeThreshold:             getEnvAsInt("SAFE_SCORE_THRESHOLD", verifier.DefaultSafeThreshold),
		Weights:                   verifier.DefaultWeights,
	}

	if err := utils.ValidateStruct(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// IsProduction reports whether the service runs with production defaults.
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// VerifierOptions maps the configuration onto the core's options.
func (c *Config) VerifierOptions() verifier.Options {
	return verifier.Options{
		Probe: verifier.ProbeOptions{
			Sender:          c.SMTP.Sender,
			HelloName:       c.SMTP.HelloName,
			CheckDisposable: c.CheckDisposable,
			CheckMX:         true,
			CheckSMTP:       c.SMTP.Validate,
			CheckTypo:       c.CheckTypo,
			Port:            c.SMTP.Port,
			ProxyURL:        c.SMTP.Proxy,
			ConnectTimeout:  c.SMTP.ConnectTimeout,
			Timeout:         c.SMTP.Timeout,
			CatchAllTimeout: c.SMTP.CatchAllTimeout,
		},
		RequestTimeout: c.RequestTimeout,
		SafeThreshold:  c.SafeThreshold,
		Weights:        c.Weights,
	}
}

// Log prints the effective configuration without secrets.
func (c *Config) Log(log *logrus.Entry) {
	log.WithFields(logrus.Fields{
		"environment":      c.Environment,
		"port":             c.ServerPort,
		"smtp_validation":  c.SMTP.Validate,
		"smtp_timeout":     c.SMTP.Timeout.String(),
		"catch_all":        c.SMTP.CatchAllTimeout.String(),
		"request_timeout":  c.RequestTimeout.String(),
		"dns_server":       c.DNSServer,
		"smtp_proxy":       c.SMTP.Proxy != "",
		"redis":            c.Redis.Enabled,
		"auth":             c.JWTSecret != "",
		"check_disposable": c.CheckDisposable,
	}).Info("loaded configuration")
}

// Helper functions
func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	value, err := strconv.Atoi(getEnv(key, ""))
	if err != nil {
		return fallback
	}
	return value
}

func getEnvAsBool(key string, fallback bool) bool {
	value, err := strconv.ParseBool(strings.TrimSpace(getEnv(key, "")))
	if err != nil {
		return fallback
	}
	return value
}

func getEnvAsMillis(key string, fallback int) time.Duration {
	return time.Duration(getEnvAsInt(key, fallback)) * time.Millisecond
}

func getEnvAsDuration(key string, fallback time.Duration) time.Duration {
	value, err := time.ParseDuration(getEnv(key, ""))
	if err != nil {
		return fallback
	}
	return value
}

func getEnvAsList(key string) []string {
	var out []string
	for _, v := range strings.Split(getEnv(key, ""), ",") {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}
