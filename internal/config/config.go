package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds application configuration
type Config struct {
	Port               string
	Env                string
	LogLevel           string
	DatabaseURL        string
	RedisAddr          string
	RedisPassword      string
	RedisTLS           bool
	AuthJWTSecret      string
	CORSAllowedOrigins []string
	CatalogCacheTTL    time.Duration
	DashboardPath      string

	// SendGrid email configuration
	SendGridAPIKey    string
	SendGridFromEmail string
	SendGridFromName  string
}

// Load reads configuration from environment variables
func Load() *Config {
	return &Config{
		Port:               getEnv("PORT", "8080"),
		Env:                getEnv("ENV", "development"),
		LogLevel:           getEnv("LOG_LEVEL", "info"),
		DatabaseURL:        getEnv("DATABASE_URL", ""),
		RedisAddr:          getEnv("REDIS_ADDR", ""),
		RedisPassword:      getEnv("REDIS_PASSWORD", ""),
		RedisTLS:           getEnvAsBool("REDIS_TLS", false),
		AuthJWTSecret:      getEnv("AUTH_JWT_SECRET", ""),
		CORSAllowedOrigins: getEnvAsList("CORS_ALLOWED_ORIGINS", nil),
		CatalogCacheTTL:    getEnvAsDuration("CATALOG_CACHE_TTL", 5*time.Minute),
		DashboardPath:      getEnv("DASHBOARD_PATH", "/dashboard"),

		SendGridAPIKey:    getEnv("SENDGRID_API_KEY", ""),
		SendGridFromEmail: getEnv("SENDGRID_FROM_EMAIL", ""),
		SendGridFromName:  getEnv("SENDGRID_FROM_NAME", "AutoShop"),
	}
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsBool retrieves an environment variable as a boolean or returns a default value
func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseBool(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	if value, err := time.ParseDuration(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsList(key string, defaultValue []string) []string {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	var out []string
	for _, part := range strings.Split(valueStr, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
