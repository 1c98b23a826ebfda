package config

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig(t *testing.T) {
	t.Setenv("CI", "")
	t.Setenv("ENV", "test")
	t.Setenv("DB_HOST", "localhost")
	t.Setenv("DB_PORT", "5433")
	t.Setenv("DB_USER", "postgres")
	t.Setenv("DB_PASSWORD", "postgres")
	t.Setenv("DB_NAME", "alchemorsel")
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("REDIS_URL", "redis://localhost:6379")
	t.Setenv("CORS_ORIGINS", "http://localhost:5173, http://frontend:5173")
	t.Setenv("QUERY_RATE_LIMIT", "10")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, Test, cfg.Env)
	assert.Equal(t, DriverPostgres, cfg.DBDriver)
	assert.Equal(t, "localhost", cfg.DBHost)
	assert.Equal(t, "5433", cfg.DBPort)
	assert.Equal(t, "disable", cfg.DBSSLMode)
	assert.Equal(t, "test-secret", cfg.JWTSecret)
	assert.Equal(t, "redis://localhost:6379", cfg.RedisURL)
	assert.True(t, cfg.RedisEnabled())
	assert.Equal(t, []string{"http://localhost:5173", "http://frontend:5173"}, cfg.CORSOrigins)
	assert.Equal(t, 10, cfg.QueryRateLimit)
	assert.Equal(t, time.Minute, cfg.QueryRateWindow)
	assert.Equal(t, "8080", cfg.ServerPort)
	assert.Contains(t, cfg.PostgresDSN(), "dbname=alchemorsel")
}

func TestLoadConfigSQLiteDefaults(t *testing.T) {
	t.Setenv("CI", "")
	t.Setenv("ENV", "development")
	t.Setenv("DB_DRIVER", "sqlite")
	t.Setenv("JWT_SECRET", "dev-secret")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, DriverSQLite, cfg.DBDriver)
	assert.Equal(t, "recipes.db", cfg.SQLitePath)
	assert.False(t, cfg.S3Enabled())
}

func TestLoadConfigMissingSecret(t *testing.T) {
	t.Setenv("CI", "")
	t.Setenv("ENV", "test")
	t.Setenv("DB_DRIVER", "sqlite")
	t.Setenv("JWT_SECRET", "")

	_, err := LoadConfig()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "JWT_SECRET")
}

func TestLoadConfigBadDuration(t *testing.T) {
	t.Setenv("CI", "")
	t.Setenv("ENV", "test")
	t.Setenv("DB_DRIVER", "sqlite")
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("QUERY_RATE_WINDOW", "soon")

	_, err := LoadConfig()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "QUERY_RATE_WINDOW")
}

func TestLoadProdConfigFromSecrets(t *testing.T) {
	secretsDir := t.TempDir()
	t.Setenv("SECRETS_DIR", secretsDir)
	t.Setenv("CI", "")
	t.Setenv("ENV", "production")
	t.Setenv("DB_HOST", "db.internal")
	t.Setenv("DB_NAME", "recipes")

	secrets := map[string]string{
		"db_user":     "app",
		"db_password": "s3cret",
		"jwt_secret":  strings.Repeat("x", 40),
	}
	for name, value := range secrets {
		require.NoError(t, os.WriteFile(filepath.Join(secretsDir, name), []byte(value+"\n"), 0o600))
	}

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, Production, cfg.Env)
	assert.Equal(t, "app", cfg.DBUser)
	assert.Equal(t, "s3cret", cfg.DBPassword)
	assert.Equal(t, "db.internal", cfg.DBHost)
}

func TestValidateConfig(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr string
	}{
		{
			name: "valid sqlite",
			cfg:  Config{Env: Development, DBDriver: DriverSQLite, SQLitePath: "x.db", JWTSecret: "s"},
		},
		{
			name:    "sqlite in production",
			cfg:     Config{Env: Production, DBDriver: DriverSQLite, SQLitePath: "x.db", JWTSecret: strings.Repeat("s", 32)},
			wantErr: "DB_DRIVER",
		},
		{
			name:    "unknown driver",
			cfg:     Config{Env: Development, DBDriver: "mysql", JWTSecret: "s"},
			wantErr: "unsupported driver",
		},
		{
			name:    "short production secret",
			cfg:     Config{Env: Production, DBDriver: DriverPostgres, DBHost: "h", DBUser: "u", DBName: "n", DBPassword: "p", JWTSecret: "short"},
			wantErr: "at least 32",
		},
		{
			name:    "negative rate limit",
			cfg:     Config{Env: Development, DBDriver: DriverSQLite, SQLitePath: "x.db", JWTSecret: "s", QueryRateLimit: -1},
			wantErr: "QUERY_RATE_LIMIT",
		},
		{
			name:    "negative rate window",
			cfg:     Config{Env: Development, DBDriver: DriverSQLite, SQLitePath: "x.db", JWTSecret: "s", QueryRateWindow: -time.Minute},
			wantErr: "QUERY_RATE_WINDOW",
		},
		{
			name:    "bucket without region",
			cfg:     Config{Env: Development, DBDriver: DriverSQLite, SQLitePath: "x.db", JWTSecret: "s", S3BucketName: "images"},
			wantErr: "AWS_REGION",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateConfig(&tt.cfg)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLoadConfigNegativeRateWindow(t *testing.T) {
	t.Setenv("CI", "")
	t.Setenv("ENV", "test")
	t.Setenv("DB_DRIVER", "sqlite")
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("QUERY_RATE_WINDOW", "-1m")

	_, err := LoadConfig()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "QUERY_RATE_WINDOW: must not be negative")
}

func TestParseEnvironment(t *testing.T) {
	assert.Equal(t, Production, ParseEnvironment("prod"))
	assert.Equal(t, Test, ParseEnvironment(" TEST "))
	assert.Equal(t, Development, ParseEnvironment(""))
}

func TestPresignImage(t *testing.T) {
	client := s3.New(s3.Options{
		Region: "us-east-1",
		Credentials: aws.CredentialsProviderFunc(func(context.Context) (aws.Credentials, error) {
			return aws.Credentials{AccessKeyID: "AKIDEXAMPLE", SecretAccessKey: "secret"}, nil
		}),
	})
	s := &S3Config{Client: client, BucketName: "recipe-images", Expiry: 5 * time.Minute}

	url, err := s.PresignImage(context.Background(), "recipes/pancakes.png")
	require.NoError(t, err)
	assert.Contains(t, url, "recipe-images")
	assert.Contains(t, url, "recipes/pancakes.png")
	assert.Contains(t, url, "X-Amz-Expires=300")
}
