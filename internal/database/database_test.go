package database

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/pageza/alchemorsel-v2/recipetool/config"
	"github.com/pageza/alchemorsel-v2/recipetool/internal/model"
	"github.com/pageza/alchemorsel-v2/recipetool/internal/testhelpers"
)

func TestOpenSQLiteAndMigrate(t *testing.T) {
	cfg := &config.Config{
		Env:        config.Test,
		DBDriver:   config.DriverSQLite,
		SQLitePath: filepath.Join(t.TempDir(), "recipes.db"),
	}

	db, err := Open(cfg, zap.NewNop())
	require.NoError(t, err)
	require.NoError(t, RunMigrations(db, cfg.MigrationsDir, zap.NewNop()))
	require.NoError(t, HealthCheck(context.Background(), db))

	user := model.User{Name: "Test User", Email: "test@example.com", PasswordHash: "hash"}
	require.NoError(t, db.Create(&user).Error)
	assert.NotEqual(t, uuid.Nil, user.ID)

	recipe := model.Recipe{UserID: user.ID, Title: "Toast"}
	require.NoError(t, db.Create(&recipe).Error)

	var count int64
	require.NoError(t, db.Model(&model.Recipe{}).Where("user_id = ?", user.ID).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestOpenUnsupportedDriver(t *testing.T) {
	_, err := Open(&config.Config{DBDriver: "oracle"}, zap.NewNop())
	assert.Error(t, err)
}

func TestPostgresMigrations(t *testing.T) {
	db := testhelpers.SetupPostgres(t)

	require.NoError(t, RunMigrations(db, filepath.Join("..", "..", "migrations"), zap.NewNop()))
	// Second run is a no-op.
	require.NoError(t, RunMigrations(db, filepath.Join("..", "..", "migrations"), zap.NewNop()))

	var applied int64
	require.NoError(t, db.Table("migrations").Count(&applied).Error)
	assert.Equal(t, int64(2), applied)

	user := model.User{Name: "pg", Email: "pg@example.com", PasswordHash: "hash"}
	require.NoError(t, db.Create(&user).Error)
	require.NoError(t, db.Create(&model.Recipe{UserID: user.ID, Title: "Ramen"}).Error)
}
