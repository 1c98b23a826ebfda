package main

import (
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	_ "github.com/lib/pq"
	"go.uber.org/zap"

	"github.com/pageza/alchemorsel-v2/recipetool/config"
	"github.com/pageza/alchemorsel-v2/recipetool/internal/logging"
)

func main() {
	rollback := flag.Bool("rollback", false, "Rollback the last applied migration")
	migrationsDir := flag.String("dir", "migrations", "Directory holding the .sql migration files")
	flag.Parse()

	logger := logging.Must(config.GetEnvironment())
	defer func() { _ = logger.Sync() }()

	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		logger.Fatal("DATABASE_URL environment variable is not set")
	}

	db, err := sql.Open("postgres", dsn)
	if err != nil {
		logger.Fatal("failed to open database", zap.Error(err))
	}
	defer db.Close()

	if _, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS migrations (
			id SERIAL PRIMARY KEY,
			name VARCHAR(255) NOT NULL UNIQUE,
			applied_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT CURRENT_TIMESTAMP
		)
	`); err != nil {
		logger.Fatal("failed to create migrations table", zap.Error(err))
	}

	if *rollback {
		name, err := rollbackLast(db, *migrationsDir)
		if err != nil {
			logger.Fatal("rollback failed", zap.Error(err))
		}
		logger.Info("rolled back migration", zap.String("migration", name))
		return
	}

	applied, err := applyPending(db, *migrationsDir, logger)
	if err != nil {
		logger.Fatal("migration failed", zap.Error(err))
	}
	logger.Info("all migrations applied", zap.Int("applied", applied))
}

func applyPending(db *sql.DB, dir string, logger *zap.Logger) (int, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return 0, fmt.Errorf("failed to read migrations directory: %w", err)
	}
	var files []string
	for _, e := range entries {
		if filepath.Ext(e.Name()) == ".sql" && !strings.HasSuffix(e.Name(), "_rollback.sql") {
			files = append(files, e.Name())
		}
	}
	sort.Strings(files)

	applied := 0
	for _, file := range files {
		var exists bool
		if err := db.QueryRow("SELECT EXISTS (SELECT 1 FROM migrations WHERE name = $1)", file).Scan(&exists); err != nil {
			return applied, fmt.Errorf("failed to check migration status: %w", err)
		}
		if exists {
			logger.Debug("migration already applied", zap.String("migration", file))
			continue
		}

		content, err := os.ReadFile(filepath.Join(dir, file))
		if err != nil {
			return applied, fmt.Errorf("failed to read migration %s: %w", file, err)
		}
		if err := inTx(db, string(content), "INSERT INTO migrations (name) VALUES ($1)", file); err != nil {
			return applied, fmt.Errorf("failed to apply migration %s: %w", file, err)
		}
		logger.Info("applied migration", zap.String("migration", file))
		applied++
	}
	return applied, nil
}

func rollbackLast(db *sql.DB, dir string) (string, error) {
	var name string
	err := db.QueryRow("SELECT name FROM migrations ORDER BY applied_at DESC, id DESC LIMIT 1").Scan(&name)
	if errors.Is(err, sql.ErrNoRows) {
		return "", errors.New("no migrations to rollback")
	}
	if err != nil {
		return "", fmt.Errorf("failed to get last migration: %w", err)
	}

	path := filepath.Join(dir, strings.TrimSuffix(name, ".sql")+"_rollback.sql")
	content, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read rollback file: %w", err)
	}
	if err := inTx(db, string(content), "DELETE FROM migrations WHERE name = $1", name); err != nil {
		return "", err
	}
	return name, nil
}

// inTx runs script and then the bookkeeping statement in one transaction.
func inTx(db *sql.DB, script, record, name string) error {
	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("failed to start transaction: %w", err)
	}
	if _, err := tx.Exec(script); err != nil {
		_ = tx.Rollback()
		return err
	}
	if _, err := tx.Exec(record, name); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}
