package app

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	Issuer         string // Issuer claim for client tokens (default: arcana-auth)
	SigningKeyFile string // Path to the Ed25519 signing key PEM; generated if absent (default: ./signing.key)
	DatabaseFile   string // Path to SQLite database file (default: ./arcana.db)
	PepperFile     string // Path to the secret-hashing pepper file (default: ./pepper)

	ClientTokenTTL time.Duration // Default client token lifetime when a client has no override (default: 1h)
	SessionTTL     time.Duration // Standard session lifetime (default: 12h)
	RememberTTL    time.Duration // Session lifetime with keep-me-logged-in (default: 720h)
	CodeTTL        time.Duration // Verification code lifetime (default: 15m)
	ResendCooldown time.Duration // Minimum gap between codes for the same email (default: 60s)
	MaxAttempts    int           // Invalid code submissions before the record is burned (default: 3)

	Env                  string        // Environment (dev, staging, prod) (default: dev)
	LogLevel             string        // Log level (debug, info, warn, error) (default: info)
	LogFormat            string        // Log format (json, text) (default: json)
	Port                 int           // HTTP server port (default: 8080)
	ShutdownGracePeriod  time.Duration // Graceful shutdown timeout (default: 10s)
	HousekeepingInterval time.Duration // Expired-row sweep interval (default: 1h)
}

func LoadConfig() Config {
	return Config{
		Issuer:         getEnvOrDefault("AUTH_ISSUER", "arcana-auth"),
		SigningKeyFile: getEnvOrDefault("AUTH_SIGNING_KEY_FILE", "signing.key"),
		DatabaseFile:   getEnvOrDefault("AUTH_DATABASE_FILE", "arcana.db"),
		PepperFile:     getEnvOrDefault("AUTH_PEPPER_FILE", "pepper"),

		ClientTokenTTL: getEnvDurationOrDefault("AUTH_CLIENT_TOKEN_TTL", time.Hour),
		SessionTTL:     getEnvDurationOrDefault("AUTH_SESSION_TTL", 12*time.Hour),
		RememberTTL:    getEnvDurationOrDefault("AUTH_REMEMBER_TTL", 30*24*time.Hour),
		CodeTTL:        getEnvDurationOrDefault("AUTH_CODE_TTL", 15*time.Minute),
		ResendCooldown: getEnvDurationOrDefault("AUTH_CODE_COOLDOWN", time.Minute),
		MaxAttempts:    getEnvIntOrDefault("AUTH_CODE_MAX_ATTEMPTS", 3),

		Env:                  getEnvOrDefault("ENV", "dev"),
		LogLevel:             getEnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:            getEnvOrDefault("LOG_FORMAT", "json"),
		Port:                 getEnvIntOrDefault("PORT", 8080),
		ShutdownGracePeriod:  getEnvDurationOrDefault("SHUTDOWN_GRACE_PERIOD", 10*time.Second),
		HousekeepingInterval: getEnvDurationOrDefault("HOUSEKEEPING_INTERVAL", time.Hour),
	}
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if intValue, err := strconv.Atoi(value); err == nil {
		return intValue
	}

	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	// Try parsing as duration (e.g., "1h", "30m", "90s")
	if duration, err := time.ParseDuration(value); err == nil {
		return duration
	}

	// Try parsing as integer seconds
	if seconds, err := strconv.Atoi(value); err == nil {
		return time.Duration(seconds) * time.Second
	}

	return defaultValue
}
