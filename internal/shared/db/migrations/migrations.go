package migrations

import (
	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/openmotors/auctionhouse/internal/shared/config"
	"github.com/openmotors/auctionhouse/internal/shared/logger"
	"go.uber.org/zap"
)

var log = logger.GetLogger()

func RunMigrations(cfg config.Config) error {
	dbURL := cfg.PostgresDSN()
	log.Info("RunMigrations", zap.String("database", cfg.DBName))

	m, err := migrate.New(
		"file://internal/shared/db/migrations/sql",
		dbURL,
	)
	if err != nil {
		return err
	}
	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		return err
	}
	return nil
}
