package app

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"github.com/silverbirch/portal/internal/auth/service"
	"github.com/silverbirch/portal/pkg/jwtx"
)

type Config struct {
	BaseURL   string // Externally visible origin used in reset links (default: http://localhost:8080)
	Issuer    string // Issuer claim for session tokens (default: portal-auth)
	JWTSecret string // HMAC secret for session tokens; generated at startup when empty

	AccessTokenTTL       time.Duration // Session token lifetime (default: 15m)
	ResetTokenValidity   time.Duration // Reset link lifetime (default: 1h)
	HousekeepingInterval time.Duration // Expired-token sweep interval (default: 1h)

	DatabaseFile string // Path to SQLite database file (default: ./portal.db)

	SESRegion    string // AWS region for SES delivery (default: ap-southeast-2)
	SESFromEmail string // Verified SES sender; email delivery disabled when empty
	SESFromName  string // Display name for outbound email

	Env                 string        // Environment (dev, staging, prod) (default: dev)
	LogLevel            string        // Log level (debug, info, warn, error) (default: info)
	LogFormat           string        // Log format (json, text) (default: json)
	Port                int           // HTTP server port (default: 8080)
	ShutdownGracePeriod time.Duration // Graceful shutdown timeout (default: 10s)
}

func LoadConfig() Config {
	// Local development convenience; missing .env is fine.
	_ = godotenv.Load()

	return Config{
		BaseURL:   getEnvOrDefault("PORTAL_BASE_URL", "http://localhost:8080"),
		Issuer:    getEnvOrDefault("PORTAL_ISSUER", "portal-auth"),
		JWTSecret: os.Getenv("PORTAL_JWT_SECRET"),

		AccessTokenTTL:       getEnvDurationOrDefault("PORTAL_ACCESS_TOKEN_TTL", jwtx.DefaultAccessTokenTTL),
		ResetTokenValidity:   getEnvDurationOrDefault("PORTAL_RESET_TOKEN_VALIDITY", service.DefaultResetTokenValidity),
		HousekeepingInterval: getEnvDurationOrDefault("HOUSEKEEPING_INTERVAL", 1*time.Hour),

		DatabaseFile: getEnvOrDefault("PORTAL_DATABASE_FILE", "portal.db"),

		SESRegion:    getEnvOrDefault("SES_REGION", "ap-southeast-2"),
		SESFromEmail: os.Getenv("SES_FROM_EMAIL"),
		SESFromName:  getEnvOrDefault("SES_FROM_NAME", "Portal"),

		Env:                 getEnvOrDefault("ENV", "dev"),
		LogLevel:            getEnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:           getEnvOrDefault("LOG_FORMAT", "json"),
		Port:                getEnvIntOrDefault("PORT", 8080),
		ShutdownGracePeriod: getEnvDurationOrDefault("SHUTDOWN_GRACE_PERIOD", 10*time.Second),
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

	if duration, err := time.ParseDuration(value); err == nil {
		return duration
	}

	// Plain integers are read as minutes.
	if minutes, err := strconv.Atoi(value); err == nil {
		return time.Duration(minutes) * time.Minute
	}

	return defaultValue
}
