package config

import (
	"errors"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// DefaultSessionSecret signs session tokens when SESSION_SECRET is unset.
const DefaultSessionSecret = "secure"

var ErrDefaultSessionSecret = errors.New("SESSION_SECRET must be set in production")

type Config struct {
	App       AppConfig
	Database  DatabaseConfig
	Session   SessionConfig
	Inference InferenceConfig
	Events    EventsConfig
	Telemetry TelemetryConfig
}

type AppConfig struct {
	Port        string
	BaseURL     string
	Environment string
	LogFilePath string

	// TrustBodyUsername restores the legacy unguarded POST /predict that
	// takes the account name from the form instead of the session.
	TrustBodyUsername bool
}

type DatabaseConfig struct {
	Driver     string // "memory" or "postgres"
	Connection string
}

type SessionConfig struct {
	Driver       string // "memory" or "redis"
	RedisURL     string
	Secret       string
	CookieName   string
	CookieSecure bool
	TTL          time.Duration // 0 keeps sessions until logout
}

type InferenceConfig struct {
	URL         string
	Timeout     time.Duration
	MaxAttempts int
}

type EventsConfig struct {
	Driver  string // "none", "local" or "nats"
	NatsURL string
}

type TelemetryConfig struct {
	Enabled      bool
	OTLPEndpoint string
	ServiceName  string
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, usage system environment")
	}
	return FromEnv()
}

// FromEnv reads the process environment only.
func FromEnv() *Config {
	return &Config{
		App: AppConfig{
			Port:              getEnv("APP_PORT", "3000"),
			BaseURL:           getEnv("APP_BASE_URL", "http://localhost:3000"),
			Environment:       getEnv("GO_ENV", "development"),
			LogFilePath:       getEnv("LOG_FILE_PATH", "logs/app.log"),
			TrustBodyUsername: getEnvAsBool("PREDICT_TRUST_BODY_USERNAME", false),
		},
		Database: DatabaseConfig{
			Driver:     getEnv("STORE_DRIVER", "memory"),
			Connection: getEnv("DB_CONNECTION_STRING", ""),
		},
		Session: SessionConfig{
			Driver:       getEnv("SESSION_DRIVER", "memory"),
			RedisURL:     getEnv("REDIS_URL", "redis://localhost:6379"),
			Secret:       getEnv("SESSION_SECRET", DefaultSessionSecret),
			CookieName:   getEnv("SESSION_COOKIE_NAME", "sid"),
			CookieSecure: getEnvAsBool("SESSION_COOKIE_SECURE", false),
			TTL:          getEnvAsDuration("SESSION_TTL", 0),
		},
		Inference: InferenceConfig{
			URL:         getEnv("INFERENCE_URL", "http://127.0.0.1:5000/predict"),
			Timeout:     getEnvAsDuration("INFERENCE_TIMEOUT", 10*time.Second),
			MaxAttempts: getEnvAsInt("INFERENCE_MAX_ATTEMPTS", 2),
		},
		Events: EventsConfig{
			Driver:  getEnv("EVENTS_DRIVER", "local"),
			NatsURL: getEnv("NATS_URL", "nats://localhost:4222"),
		},
		Telemetry: TelemetryConfig{
			Enabled:      getEnvAsBool("OTEL_ENABLED", false),
			OTLPEndpoint: getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4318"),
			ServiceName:  getEnv("OTEL_SERVICE_NAME", "disease-predictor-be"),
		},
	}
}

func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}

// Validate rejects settings that are only acceptable outside production.
func (c *Config) Validate() error {
	if c.IsProduction() && c.Session.Secret == DefaultSessionSecret {
		return ErrDefaultSessionSecret
	}
	return nil
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists && value != "" {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	strValue := getEnv(key, "")
	if value, err := strconv.Atoi(strValue); err == nil {
		return value
	}
	return fallback
}

func getEnvAsBool(key string, fallback bool) bool {
	strValue := getEnv(key, "")
	if value, err := strconv.ParseBool(strValue); err == nil {
		return value
	}
	return fallback
}

func getEnvAsDuration(key string, fallback time.Duration) time.Duration {
	strValue := getEnv(key, "")
	if value, err := time.ParseDuration(strValue); err == nil {
		return value
	}
	return fallback
}
