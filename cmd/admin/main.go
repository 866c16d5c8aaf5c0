package main

import (
	"database/sql"
	"fmt"
	"os"

	"github.com/infinito/platform/internal/auth/service"
	"github.com/infinito/platform/internal/config"
	"github.com/infinito/platform/internal/database"
	"github.com/infinito/platform/internal/logger"
	"github.com/infinito/platform/internal/repositories"
	"github.com/infinito/platform/internal/services"
)

func main() {
	root := newRootCommand(connect)
	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

// connect loads the configuration and opens the database for one command
func connect() (*backend, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	if err := logger.Init(cfg.Logging.Level); err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	db, err := database.Connect(cfg.DSN())
	if err != nil {
		return nil, err
	}

	tokenGenerator := service.NewTokenGenerator(cfg.JWT.Secret, cfg.JWT.AccessTokenExpiry)
	profileRepo := repositories.NewProfileRepository(db)

	return &backend{
		accounts: services.NewAuthService(profileRepo, tokenGenerator, logger.Logger),
		migrator: sqlMigrator{db: db},
		close: func() {
			db.Close()
			logger.Sync()
		},
	}, nil
}

// sqlMigrator runs the migrations directory against a MySQL connection
type sqlMigrator struct {
	db *sql.DB
}

func (m sqlMigrator) Up() error {
	return database.MigrateUp(m.db)
}

func (m sqlMigrator) Down(steps int) error {
	return database.MigrateDown(m.db, steps)
}
