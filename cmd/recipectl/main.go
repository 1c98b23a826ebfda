// Command recipectl queries a user's saved recipes and issues API tokens
// from the command line, using the same configuration as the API server.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/pageza/alchemorsel-v2/recipetool/config"
	"github.com/pageza/alchemorsel-v2/recipetool/internal/database"
	"github.com/pageza/alchemorsel-v2/recipetool/internal/logging"
	"github.com/pageza/alchemorsel-v2/recipetool/internal/model"
)

var rootCmd = &cobra.Command{
	Use:   "recipectl",
	Short: "Inspect saved recipes from the command line",
	Long: "recipectl reads the same environment as the API server (DB_DRIVER, DB_HOST, SQLITE_PATH, JWT_SECRET, ...)\n" +
		"and talks to the database directly.",
	SilenceUsage: true,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

type env struct {
	cfg    *config.Config
	db     *gorm.DB
	logger *zap.Logger
}

func setup() (*env, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, err
	}
	logger := logging.Must(cfg.Env)
	db, err := database.Open(cfg, logger)
	if err != nil {
		return nil, err
	}
	if err := database.RunMigrations(db, cfg.MigrationsDir, logger); err != nil {
		return nil, err
	}
	return &env{cfg: cfg, db: db, logger: logger}, nil
}

func (e *env) close() {
	_ = e.logger.Sync()
	if sqlDB, err := e.db.DB(); err == nil {
		_ = sqlDB.Close()
	}
}

func (e *env) userByEmail(email string) (*model.User, error) {
	var user model.User
	if err := e.db.Where("email = ?", email).First(&user).Error; err != nil {
		return nil, fmt.Errorf("failed to find user %s: %w", email, err)
	}
	return &user, nil
}
