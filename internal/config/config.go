package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"
)

// MinSecretLength is the shortest JWT_SECRET accepted at startup.
const MinSecretLength = 32

var ErrSecretTooShort = errors.New("JWT_SECRET must be at least 32 bytes")

// Config holds the application configuration.
type Config struct {
	ServerPort   int
	DatabasePath string
	AppEnv       string

	JWTSecret      []byte
	AccessTokenTTL time.Duration
	BcryptCost     int

	ReportsPath           string
	ReportRetention       time.Duration
	ReportCleanupSchedule string

	CORSAllowedOrigins []string

	LogLevel string
	LogFile  string // JSON lines go here when set, console output otherwise
}

// Load loads configuration from environment variables or sets defaults.
func Load() (*Config, error) {
	port, err := strconv.Atoi(getEnv("PORT", "8080"))
	if err != nil {
		return nil, fmt.Errorf("invalid PORT: %w", err)
	}

	secret := getEnv("JWT_SECRET", "")
	if len(secret) < MinSecretLength {
		return nil, ErrSecretTooShort
	}

	ttl, err := time.ParseDuration(getEnv("ACCESS_TOKEN_TTL", "15m"))
	if err != nil {
		return nil, fmt.Errorf("invalid ACCESS_TOKEN_TTL: %w", err)
	}
	if ttl <= 0 {
		return nil, fmt.Errorf("invalid ACCESS_TOKEN_TTL: must be positive")
	}

	cost, err := strconv.Atoi(getEnv("BCRYPT_COST", strconv.Itoa(bcrypt.DefaultCost)))
	if err != nil {
		return nil, fmt.Errorf("invalid BCRYPT_COST: %w", err)
	}
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		return nil, fmt.Errorf("invalid BCRYPT_COST: must be between %d and %d", bcrypt.MinCost, bcrypt.MaxCost)
	}

	retention, err := time.ParseDuration(getEnv("REPORT_RETENTION", "24h"))
	if err != nil {
		return nil, fmt.Errorf("invalid REPORT_RETENTION: %w", err)
	}
	if retention <= 0 {
		return nil, fmt.Errorf("invalid REPORT_RETENTION: must be positive")
	}

	return &Config{
		ServerPort:            port,
		DatabasePath:          getEnv("DATABASE_PATH", "./hrdesk.db"),
		AppEnv:                getEnv("APP_ENV", "development"),
		JWTSecret:             []byte(secret),
		AccessTokenTTL:        ttl,
		BcryptCost:            cost,
		ReportsPath:           getEnv("REPORTS_PATH", "./reports"),
		ReportRetention:       retention,
		ReportCleanupSchedule: getEnv("REPORT_CLEANUP_SCHEDULE", "@hourly"),
		CORSAllowedOrigins:    splitList(getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:3000")),
		LogLevel:              getEnv("LOG_LEVEL", "info"),
		LogFile:               getEnv("LOG_FILE", ""),
	}, nil
}

// IsProduction reports whether APP_ENV is "production".
func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

// Helper to get an environment variable with a default value.
func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
