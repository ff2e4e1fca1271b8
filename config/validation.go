package config

import (
	"fmt"
)

// ValidationError represents a configuration validation error
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidateConfig checks that required configuration is present. The JWT
// secret is always required; a database password is only enforced in
// production, where trust auth is never acceptable.
func ValidateConfig(cfg *Config) error {
	if cfg.JWTSecret == "" {
		return ValidationError{Field: "JWTSecret", Message: "JWT_SECRET is required"}
	}
	if IsProduction() {
		if cfg.DBPassword == "" {
			return ValidationError{Field: "DBPassword", Message: "DB_PASSWORD is required in production"}
		}
		if cfg.DBSSLMode == "disable" {
			return ValidationError{Field: "DBSSLMode", Message: "SSL must be enabled in production"}
		}
	}
	return nil
}
