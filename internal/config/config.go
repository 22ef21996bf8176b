package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds the application configuration
type Config struct {
	Port        int
	LogLevel    string
	LogFormat   string
	LogDir      string
	Environment string
	Version     string
	ServiceName string

	DBUser     string
	DBPassword string
	DBHost     string
	DBPort     string
	DBName     string

	APIKey string // API key for authentication

	// TrustedProxies lists proxy IPs whose X-Forwarded-For header is honored.
	TrustedProxies []string

	// ClaimBaseURL is the public URL prefix shareable claim links are built from.
	ClaimBaseURL string

	// TransferTTL is how long a transfer grant stays claimable.
	TransferTTL time.Duration
	// TransferSweepInterval is how often overdue pending grants are expired.
	TransferSweepInterval time.Duration
}

// Load loads the configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists, but don't fail if it doesn't (could be real env vars)
	_ = godotenv.Load()

	cfg := &Config{
		LogLevel:     getEnv("LOG_LEVEL", "INFO"),
		LogFormat:    getEnv("LOG_FORMAT", "text"),
		LogDir:       getEnv("LOG_DIR", DefaultLogDir),
		Environment:  getEnv("ENVIRONMENT", "dev"),
		Version:      getEnv("VERSION", "dev"),
		ServiceName:  getEnv("SERVICE_NAME", DefaultServiceName),
		DBUser:       getEnv("DB_USER", "postgres"),
		DBPassword:   getEnv("DB_PASSWORD", "postgres"),
		DBHost:       getEnv("DB_HOST", "localhost"),
		DBPort:       getEnv("DB_PORT", "5432"),
		DBName:       getEnv("DB_NAME", "collectroom"),
		APIKey:       getEnv("API_KEY", ""),
		ClaimBaseURL: getEnv("CLAIM_BASE_URL", DefaultClaimBaseURL),
	}

	if proxies := getEnv("TRUSTED_PROXIES", ""); proxies != "" {
		for _, p := range strings.Split(proxies, ",") {
			if p = strings.TrimSpace(p); p != "" {
				cfg.TrustedProxies = append(cfg.TrustedProxies, p)
			}
		}
	}

	portStr := getEnv("PORT", "8080")
	port, err := strconv.Atoi(portStr)
	if err != nil {
		return nil, fmt.Errorf("invalid PORT value: %w", err)
	}
	cfg.Port = port

	ttl, err := getEnvDuration("TRANSFER_TTL", DefaultTransferTTL)
	if err != nil {
		return nil, fmt.Errorf("invalid TRANSFER_TTL value: %w", err)
	}
	cfg.TransferTTL = ttl

	sweep, err := getEnvDuration("TRANSFER_SWEEP_INTERVAL", DefaultTransferSweepInterval)
	if err != nil {
		return nil, fmt.Errorf("invalid TRANSFER_SWEEP_INTERVAL value: %w", err)
	}
	cfg.TransferSweepInterval = sweep

	// Validate API key is set
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("API_KEY environment variable must be set for security")
	}

	return cfg, nil
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

// getEnvDuration retrieves a duration environment variable or returns a default
func getEnvDuration(key string, defaultValue time.Duration) (time.Duration, error) {
	value, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue, nil
	}
	return time.ParseDuration(value)
}

// GetDBConnString returns the PostgreSQL connection string
func (c *Config) GetDBConnString() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable",
		c.DBUser,
		c.DBPassword,
		c.DBHost,
		c.DBPort,
		c.DBName,
	)
}
