package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// Config holds all configuration for the application
type Config struct {
	// Server configuration
	ServerPort string
	ServerHost string

	// Database configuration
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string

	// Redis configuration
	RedisHost     string
	RedisPort     string
	RedisPassword string
	RedisDB       int

	// JWT configuration
	JWTSecret string

	// SMTP configuration for feedback notifications
	SMTPHost     string
	SMTPPort     string
	SMTPUsername string
	SMTPPassword string
	SMTPFrom     string
	AdminEmail   string
}

// LoadConfig creates a new Config instance with values from environment
// variables, falling back to Docker secrets in production.
func LoadConfig() (*Config, error) {
	cfg := &Config{
		ServerPort:    valueFor("SERVER_PORT", "server_port"),
		ServerHost:    valueFor("SERVER_HOST", "server_host"),
		DBHost:        valueFor("DB_HOST", "db_host"),
		DBPort:        valueFor("DB_PORT", "db_port"),
		DBUser:        valueFor("DB_USER", "db_user"),
		DBPassword:    valueFor("DB_PASSWORD", "db_password"),
		DBName:        valueFor("DB_NAME", "db_name"),
		DBSSLMode:     valueFor("DB_SSL_MODE", "db_ssl_mode"),
		RedisHost:     valueFor("REDIS_HOST", "redis_host"),
		RedisPort:     valueFor("REDIS_PORT", "redis_port"),
		RedisPassword: valueFor("REDIS_PASSWORD", "redis_password"),
		JWTSecret:     valueFor("JWT_SECRET", "jwt_secret"),
		SMTPHost:      os.Getenv("SMTP_HOST"),
		SMTPPort:      os.Getenv("SMTP_PORT"),
		SMTPUsername:  os.Getenv("SMTP_USERNAME"),
		SMTPPassword:  os.Getenv("SMTP_PASSWORD"),
		SMTPFrom:      os.Getenv("SMTP_FROM"),
		AdminEmail:    os.Getenv("ADMIN_EMAIL"),
	}

	if raw := os.Getenv("REDIS_DB"); raw != "" {
		db, err := strconv.Atoi(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid REDIS_DB %q: %w", raw, err)
		}
		cfg.RedisDB = db
	}

	applyDefaults(cfg)

	if err := ValidateConfig(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.ServerPort == "" {
		cfg.ServerPort = "8080"
	}
	if cfg.ServerHost == "" {
		cfg.ServerHost = "0.0.0.0"
	}
	if cfg.DBHost == "" {
		cfg.DBHost = "localhost"
	}
	if cfg.DBPort == "" {
		cfg.DBPort = "5432"
	}
	if cfg.DBUser == "" {
		cfg.DBUser = "postgres"
	}
	if cfg.DBName == "" {
		cfg.DBName = "mealcount"
	}
	if cfg.DBSSLMode == "" {
		cfg.DBSSLMode = "disable"
	}
	if cfg.RedisHost == "" {
		cfg.RedisHost = "localhost"
	}
	if cfg.RedisPort == "" {
		cfg.RedisPort = "6379"
	}
}

// DatabaseDSN builds the Postgres connection string.
func (c *Config) DatabaseDSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName, c.DBSSLMode)
}

// RedisAddr builds the Redis address.
func (c *Config) RedisAddr() string {
	return c.RedisHost + ":" + c.RedisPort
}

// valueFor reads an environment variable, falling back to a Docker secret
// file of the given name.
func valueFor(envName, secretName string) string {
	if value := os.Getenv(envName); value != "" {
		return value
	}
	return readSecret(secretName)
}

// readSecret reads a Docker secret from the secrets directory
func readSecret(name string) string {
	secretsDir := os.Getenv("SECRETS_DIR")
	if secretsDir == "" {
		secretsDir = "/run/secrets"
	}
	if data, err := os.ReadFile(filepath.Join(secretsDir, name)); err == nil {
		return strings.TrimSpace(string(data))
	}
	return ""
}
