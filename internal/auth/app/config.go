package app

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	Issuer string // Issuer claim for tokens (default: clinicore-auth)

	KeyStorageMode string // Key storage mode (ephemeral, persistent) (default: ephemeral)
	SigningKeyFile string // Path to the Ed25519 signing key file, persistent mode only (default: ./signing.key)
	AccessTTL      time.Duration
	RefreshTTL     time.Duration

	DatabaseFile string // Path to SQLite database file (default: ./auth.db)
	PepperFile   string // Path to file containing pepper for password hashing (default: ./pepper)

	// Initial admin seeded when the users table is empty. Registration only
	// ever creates patients, so the first admin has to come from here.
	AdminUsername string
	AdminEmail    string
	AdminPassword string

	Env                  string        // Environment (dev, staging, prod) (default: dev)
	LogLevel             string        // Log level (debug, info, warn, error) (default: info)
	LogFormat            string        // Log format (json, text) (default: json)
	Port                 int           // HTTP server port (default: 8080)
	ShutdownGracePeriod  time.Duration // Graceful shutdown timeout (default: 10s)
	HousekeepingInterval time.Duration // Housekeeping interval (default: 1h)

	// Rate limit overrides, mainly for test environments where the
	// production limits would trip.
	RateLimitStrictRequests   int
	RateLimitStrictBurst      int
	RateLimitModerateRequests int
	RateLimitModerateBurst    int
}

func LoadConfig() Config {
	cfg := Config{
		Issuer:         getEnvOrDefault("AUTH_ISSUER", "clinicore-auth"),
		KeyStorageMode: getEnvOrDefault("AUTH_KEY_STORAGE_MODE", "ephemeral"),
		SigningKeyFile: getEnvOrDefault("AUTH_SIGNING_KEY_FILE", "signing.key"),
		AccessTTL:      getEnvDurationOrDefault("AUTH_ACCESS_TTL", 0),
		RefreshTTL:     getEnvDurationOrDefault("AUTH_REFRESH_TTL", 0),

		DatabaseFile: getEnvOrDefault("AUTH_DATABASE_FILE", "auth.db"),
		PepperFile:   getEnvOrDefault("AUTH_PEPPER_FILE", "pepper"),

		AdminUsername: os.Getenv("AUTH_ADMIN_USERNAME"),
		AdminEmail:    os.Getenv("AUTH_ADMIN_EMAIL"),
		AdminPassword: os.Getenv("AUTH_ADMIN_PASSWORD"),

		Env:                  getEnvOrDefault("ENV", "dev"),
		LogLevel:             getEnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:            getEnvOrDefault("LOG_FORMAT", "json"),
		Port:                 getEnvIntOrDefault("PORT", 8080),
		ShutdownGracePeriod:  getEnvDurationOrDefault("SHUTDOWN_GRACE_PERIOD", 10*time.Second),
		HousekeepingInterval: getEnvDurationOrDefault("HOUSEKEEPING_INTERVAL", 1*time.Hour),

		RateLimitStrictRequests:   getEnvIntOrDefault("RATELIMIT_STRICT_REQUESTS", 0),
		RateLimitStrictBurst:      getEnvIntOrDefault("RATELIMIT_STRICT_BURST", 0),
		RateLimitModerateRequests: getEnvIntOrDefault("RATELIMIT_MODERATE_REQUESTS", 0),
		RateLimitModerateBurst:    getEnvIntOrDefault("RATELIMIT_MODERATE_BURST", 0),
	}

	return cfg
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

	// Try parsing as integer minutes (for backwards compatibility)
	if minutes, err := strconv.Atoi(value); err == nil {
		return time.Duration(minutes) * time.Minute
	}

	return defaultValue
}
