package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	Provider  ProviderConfig
	Reconcile ReconcileConfig
	Auth      AuthConfig
	Log       LogConfig
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Port         string
	Host         string
	ReadTimeout  int
	WriteTimeout int
	IdleTimeout  int
	CORSOrigins  []string
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Driver       string
	DSN          string
	MaxOpenConns int
	MaxIdleConns int
}

// ProviderConfig holds Git provider configuration
type ProviderConfig struct {
	// BaseURL is empty for the public provider; set it for self-hosted
	// (enterprise) installations.
	BaseURL string
	// RequestTimeout is the per-call timeout in seconds.
	RequestTimeout int
}

// ReconcileConfig holds reconciliation engine configuration
type ReconcileConfig struct {
	// DefaultTargets are the target branches used when a request supplies
	// none, in role order: development, quality, production.
	DefaultTargets []string
	// MaxConcurrentBranches bounds the branch fan-out; 0 means unbounded.
	MaxConcurrentBranches int
}

// AuthConfig holds optional service authentication configuration
type AuthConfig struct {
	// JWTSecret enables service auth on mutating routes when non-empty.
	JWTSecret string
	Issuer    string
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level       string
	Development bool
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		// .env file is optional, so we don't return error if it doesn't exist
		fmt.Println("No .env file found, using environment variables")
	}

	config := &Config{
		Server: ServerConfig{
			Port:         getEnv("SERVER_PORT", "8080"),
			Host:         getEnv("SERVER_HOST", "0.0.0.0"),
			ReadTimeout:  getEnvAsInt("SERVER_READ_TIMEOUT", 30),
			WriteTimeout: getEnvAsInt("SERVER_WRITE_TIMEOUT", 120),
			IdleTimeout:  getEnvAsInt("SERVER_IDLE_TIMEOUT", 120),
			CORSOrigins:  getEnvAsSlice("SERVER_CORS_ORIGINS", ",", []string{"*"}),
		},
		Database: DatabaseConfig{
			Driver:       getEnv("DB_DRIVER", "postgres"),
			DSN:          getEnv("DB_DSN", ""),
			MaxOpenConns: getEnvAsInt("DB_MAX_OPEN_CONNS", 25),
			MaxIdleConns: getEnvAsInt("DB_MAX_IDLE_CONNS", 5),
		},
		Provider: ProviderConfig{
			BaseURL:        getEnv("PROVIDER_BASE_URL", ""),
			RequestTimeout: getEnvAsInt("PROVIDER_REQUEST_TIMEOUT", 30),
		},
		Reconcile: ReconcileConfig{
			DefaultTargets:        getEnvAsSlice("RECONCILE_TARGETS", ",", []string{"development", "quality", "production"}),
			MaxConcurrentBranches: getEnvAsInt("RECONCILE_MAX_CONCURRENT", 16),
		},
		Auth: AuthConfig{
			JWTSecret: getEnv("AUTH_JWT_SECRET", ""),
			Issuer:    getEnv("AUTH_JWT_ISSUER", "branchboard"),
		},
		Log: LogConfig{
			Level:       getEnv("LOG_LEVEL", "info"),
			Development: getEnvAsBool("LOG_DEVELOPMENT", false),
		},
	}

	// Validate required configuration
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if len(c.Reconcile.DefaultTargets) != 3 {
		return fmt.Errorf("RECONCILE_TARGETS must list exactly 3 branches, got %d", len(c.Reconcile.DefaultTargets))
	}
	for i, target := range c.Reconcile.DefaultTargets {
		if strings.TrimSpace(target) == "" {
			return fmt.Errorf("RECONCILE_TARGETS entry %d is empty", i+1)
		}
	}
	if c.Reconcile.MaxConcurrentBranches < 0 {
		return fmt.Errorf("RECONCILE_MAX_CONCURRENT must not be negative")
	}
	if c.Provider.RequestTimeout <= 0 {
		return fmt.Errorf("PROVIDER_REQUEST_TIMEOUT must be positive")
	}
	return nil
}

// RecentsEnabled reports whether the recent-repositories store is configured.
func (c *Config) RecentsEnabled() bool {
	return c.Database.DSN != ""
}

// GetServerAddress returns the server address
func (c *Config) GetServerAddress() string {
	return fmt.Sprintf("%s:%s", c.Server.Host, c.Server.Port)
}

// getEnv gets an environment variable with a fallback value
func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

// getEnvAsInt gets an environment variable as integer with a fallback value
func getEnvAsInt(key string, fallback int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return fallback
}

// getEnvAsBool gets an environment variable as boolean with a fallback value
func getEnvAsBool(key string, fallback bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return fallback
}

// getEnvAsSlice gets an environment variable as slice with a fallback value
func getEnvAsSlice(key, separator string, fallback []string) []string {
	if value := os.Getenv(key); value != "" {
		return strings.Split(value, separator)
	}
	return fallback
}
