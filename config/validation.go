package config

import (
	"errors"
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

// ValidateConfig checks if the configuration meets the requirements for its environment
func ValidateConfig(cfg *Config) error {
	var errs []error
	required := func(field, value string) {
		if value == "" {
			errs = append(errs, ValidationError{Field: field, Message: "is required"})
		}
	}

	required("JWT_SECRET", cfg.JWTSecret)

	switch cfg.DBDriver {
	case DriverPostgres:
		required("DB_HOST", cfg.DBHost)
		required("DB_USER", cfg.DBUser)
		required("DB_NAME", cfg.DBName)
		if cfg.Env == Production || cfg.Env == CI {
			required("DB_PASSWORD", cfg.DBPassword)
		}
	case DriverSQLite:
		if cfg.Env == Production {
			errs = append(errs, ValidationError{Field: "DB_DRIVER", Message: "sqlite is not supported in production"})
		}
		required("SQLITE_PATH", cfg.SQLitePath)
	default:
		errs = append(errs, ValidationError{Field: "DB_DRIVER", Message: fmt.Sprintf("unsupported driver %q", cfg.DBDriver)})
	}

	if cfg.Env == Production && len(cfg.JWTSecret) > 0 && len(cfg.JWTSecret) < 32 {
		errs = append(errs, ValidationError{Field: "JWT_SECRET", Message: "must be at least 32 characters in production"})
	}
	if cfg.QueryRateLimit < 0 {
		errs = append(errs, ValidationError{Field: "QUERY_RATE_LIMIT", Message: "must not be negative"})
	}
	if cfg.QueryRateWindow < 0 {
		errs = append(errs, ValidationError{Field: "QUERY_RATE_WINDOW", Message: "must not be negative"})
	}
	if cfg.S3Enabled() && cfg.AWSRegion == "" {
		errs = append(errs, ValidationError{Field: "AWS_REGION", Message: "is required when S3_BUCKET_NAME is set"})
	}

	return errors.Join(errs...)
}
