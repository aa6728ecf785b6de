package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config is centralized process configuration.
// Keep infra values here and pass typed config into builders.
type Config struct {
	ServiceName  string
	HTTPPort     string
	PostgresDSN  string
	RedisAddr    string
	KafkaBrokers []string

	IdentityBaseURL      string
	IdentityClientID     string
	IdentityClientSecret string
	OrganisationBaseURL  string
	NotifierBaseURL      string
	TokenSigningSecret   string

	OtpTTL          time.Duration
	OtpRequestRate  float64
	OtpRequestBurst int

	WorkerPollInterval time.Duration

	EnableOutboxRelay          bool
	EnableNotificationConsumer bool
}

func Load() (Config, error) {
	// .env is a local-dev convenience; absence is not an error.
	_ = godotenv.Load()

	service := os.Getenv("SERVICE_NAME")
	if service == "" {
		service = "caravan"
	}

	port := os.Getenv("HTTP_PORT")
	if port == "" {
		port = "8080"
	}

	var brokers []string
	for _, value := range strings.Split(os.Getenv("KAFKA_BROKERS"), ",") {
		value = strings.TrimSpace(value)
		if value != "" {
			brokers = append(brokers, value)
		}
	}

	return Config{
		ServiceName:  service,
		HTTPPort:     port,
		PostgresDSN:  os.Getenv("POSTGRES_DSN"),
		RedisAddr:    os.Getenv("REDIS_ADDR"),
		KafkaBrokers: brokers,

		IdentityBaseURL:      os.Getenv("IDENTITY_BASE_URL"),
		IdentityClientID:     os.Getenv("IDENTITY_CLIENT_ID"),
		IdentityClientSecret: os.Getenv("IDENTITY_CLIENT_SECRET"),
		OrganisationBaseURL:  os.Getenv("ORGANISATION_BASE_URL"),
		NotifierBaseURL:      os.Getenv("NOTIFIER_BASE_URL"),
		TokenSigningSecret:   os.Getenv("TOKEN_SIGNING_SECRET"),

		OtpTTL:          envDuration("OTP_TTL", 10*time.Minute),
		OtpRequestRate:  envFloat("OTP_REQUEST_RATE", 0.2),
		OtpRequestBurst: envInt("OTP_REQUEST_BURST", 3),

		WorkerPollInterval: envDuration("WORKER_POLL_INTERVAL", 5*time.Second),

		EnableOutboxRelay:          envBool("ENABLE_OUTBOX_RELAY", true),
		EnableNotificationConsumer: envBool("ENABLE_NOTIFICATION_CONSUMER", true),
	}, nil
}

func envBool(key string, fallback bool) bool {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback
	}
	value, err := strconv.ParseBool(raw)
	if err != nil {
		return fallback
	}
	return value
}

func envInt(key string, fallback int) int {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return value
}

func envFloat(key string, fallback float64) float64 {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback
	}
	value, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return fallback
	}
	return value
}

func envDuration(key string, fallback time.Duration) time.Duration {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback
	}
	value, err := time.ParseDuration(raw)
	if err != nil {
		return fallback
	}
	return value
}
