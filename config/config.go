package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// Config holds all configuration for the application
type Config struct {
	Env Environment

	// Server configuration
	ServerPort  string
	ServerHost  string
	CORSOrigins []string

	// Database configuration
	DBDriver   string
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string
	SQLitePath string

	MigrationsDir string

	// Redis configuration; rate limiting is off when neither URL nor host is set
	RedisHost     string
	RedisPort     string
	RedisPassword string
	RedisDB       int
	RedisURL      string

	// JWT configuration
	JWTSecret string

	// Recipe images
	S3BucketName   string
	AWSRegion      string
	ImageURLExpiry time.Duration

	// Per-caller query limit
	QueryRateLimit  int
	QueryRateWindow time.Duration
}

// PostgresDSN builds the key/value connection string for the gorm postgres driver.
func (c *Config) PostgresDSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName, c.DBSSLMode,
	)
}

// RedisEnabled reports whether a Redis server is configured.
func (c *Config) RedisEnabled() bool {
	return c.RedisURL != "" || c.RedisHost != ""
}

// S3Enabled reports whether recipe image signing is configured.
func (c *Config) S3Enabled() bool {
	return c.S3BucketName != ""
}

// LoadConfig creates a new Config instance with values from environment variables or secrets
func LoadConfig() (*Config, error) {
	// A missing .env file is normal outside local development.
	_ = godotenv.Load()

	env := GetEnvironment()
	cfg := &Config{Env: env}

	var err error
	switch env {
	case CI, Development, Test:
		err = loadFromEnv(cfg)
	case Production:
		err = loadProdConfig(cfg)
	default:
		return nil, fmt.Errorf("unknown environment: %s", env)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load %s configuration: %w", env, err)
	}

	applyDefaults(cfg)

	if err := ValidateConfig(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// loadFromEnv reads every setting from environment variables
func loadFromEnv(cfg *Config) error {
	return load(cfg, os.Getenv)
}

// loadProdConfig reads settings from Docker secrets, falling back to the environment
func loadProdConfig(cfg *Config) error {
	return load(cfg, func(key string) string {
		if v := readSecret(strings.ToLower(key)); v != "" {
			return v
		}
		return os.Getenv(key)
	})
}

func load(cfg *Config, get func(string) string) error {
	cfg.ServerPort = get("SERVER_PORT")
	cfg.ServerHost = get("SERVER_HOST")
	if origins := get("CORS_ORIGINS"); origins != "" {
		for _, o := range strings.Split(origins, ",") {
			if o = strings.TrimSpace(o); o != "" {
				cfg.CORSOrigins = append(cfg.CORSOrigins, o)
			}
		}
	}

	cfg.DBDriver = strings.ToLower(get("DB_DRIVER"))
	cfg.DBHost = get("DB_HOST")
	cfg.DBPort = get("DB_PORT")
	cfg.DBUser = get("DB_USER")
	cfg.DBPassword = get("DB_PASSWORD")
	cfg.DBName = get("DB_NAME")
	cfg.DBSSLMode = get("DB_SSL_MODE")
	cfg.SQLitePath = get("SQLITE_PATH")
	cfg.MigrationsDir = get("MIGRATIONS_DIR")

	cfg.RedisHost = get("REDIS_HOST")
	cfg.RedisPort = get("REDIS_PORT")
	cfg.RedisPassword = get("REDIS_PASSWORD")
	cfg.RedisURL = get("REDIS_URL")
	if v := get("REDIS_DB"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return ValidationError{Field: "REDIS_DB", Message: "must be an integer"}
		}
		cfg.RedisDB = n
	}

	cfg.JWTSecret = get("JWT_SECRET")

	cfg.S3BucketName = get("S3_BUCKET_NAME")
	cfg.AWSRegion = get("AWS_REGION")
	if v := get("IMAGE_URL_EXPIRY"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return ValidationError{Field: "IMAGE_URL_EXPIRY", Message: "must be a duration such as 15m"}
		}
		cfg.ImageURLExpiry = d
	}

	if v := get("QUERY_RATE_LIMIT"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return ValidationError{Field: "QUERY_RATE_LIMIT", Message: "must be an integer"}
		}
		cfg.QueryRateLimit = n
	}
	if v := get("QUERY_RATE_WINDOW"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return ValidationError{Field: "QUERY_RATE_WINDOW", Message: "must be a duration such as 1m"}
		}
		cfg.QueryRateWindow = d
	}

	return nil
}

func applyDefaults(cfg *Config) {
	if cfg.ServerPort == "" {
		cfg.ServerPort = "8080"
	}
	if cfg.DBDriver == "" {
		cfg.DBDriver = DriverPostgres
	}
	if cfg.DBPort == "" {
		cfg.DBPort = "5432"
	}
	if cfg.DBSSLMode == "" {
		cfg.DBSSLMode = "disable"
	}
	if cfg.DBDriver == DriverSQLite && cfg.SQLitePath == "" {
		cfg.SQLitePath = "recipes.db"
	}
	if cfg.MigrationsDir == "" {
		cfg.MigrationsDir = "migrations"
	}
	if cfg.RedisHost != "" && cfg.RedisPort == "" {
		cfg.RedisPort = "6379"
	}
	if len(cfg.CORSOrigins) == 0 {
		cfg.CORSOrigins = []string{"http://localhost:5173"}
	}
	if cfg.ImageURLExpiry == 0 {
		cfg.ImageURLExpiry = 15 * time.Minute
	}
	if cfg.QueryRateLimit == 0 {
		cfg.QueryRateLimit = 60
	}
	if cfg.QueryRateWindow == 0 {
		cfg.QueryRateWindow = time.Minute
	}
}

// readSecret reads a Docker secret from the secrets directory
func readSecret(name string) string {
	secretsDir := os.Getenv("SECRETS_DIR")
	if secretsDir == "" {
		secretsDir = "/run/secrets"
	}
	secretPath := filepath.Join(secretsDir, name)
	if data, err := os.ReadFile(secretPath); err == nil {
		return strings.TrimSpace(string(data))
	}
	return ""
}
