package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"os"
	"time"

	_ "github.com/lib/pq"
	"github.com/sirupsen/logrus"

	"github.com/pageza/cookwithfriends/backend/config"
	"github.com/pageza/cookwithfriends/backend/internal/database"
	"github.com/pageza/cookwithfriends/backend/internal/logging"
	"github.com/pageza/cookwithfriends/backend/migrations"
)

var errSQLiteDriver = errors.New("sqlite databases are auto-migrated by the API at startup, this command only targets postgres")

// postgresDSN prefers DATABASE_URL and otherwise builds the DSN from the loaded configuration.
func postgresDSN(driver, databaseURL string, load func() (*config.Config, error)) (string, error) {
	if driver == "sqlite" {
		return "", errSQLiteDriver
	}
	if databaseURL != "" {
		return databaseURL, nil
	}
	cfg, err := load()
	if err != nil {
		return "", fmt.Errorf("DATABASE_URL is not set and configuration could not be loaded: %w", err)
	}
	if cfg.DBDriver == "sqlite" {
		return "", errSQLiteDriver
	}
	return database.PostgresDSN(cfg), nil
}

func main() {
	// Parse command line flags
	status := flag.Bool("status", false, "List pending migrations without applying them")
	flag.Parse()

	log := logging.New(os.Getenv("LOG_LEVEL"), config.IsProduction())

	dsn, err := postgresDSN(os.Getenv("DB_DRIVER"), os.Getenv("DATABASE_URL"), config.LoadConfig)
	if err != nil {
		log.WithError(err).Fatal("Cannot run migrations")
	}

	db, err := sql.Open("postgres", dsn)
	if err != nil {
		log.WithError(err).Fatal("Failed to open database")
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		log.WithError(err).Fatal("Failed to connect to database")
	}

	migrator := database.NewMigrator(db, migrations.FS, log)

	if *status {
		pending, err := migrator.Pending(ctx)
		if err != nil {
			log.WithError(err).Fatal("Failed to read migration status")
		}
		if len(pending) == 0 {
			log.Info("Schema is up to date")
			return
		}
		for _, name := range pending {
			log.WithField("migration", name).Info("Pending migration")
		}
		return
	}

	applied, err := migrator.Up(ctx)
	if err != nil {
		log.WithError(err).Fatal("Failed to apply migrations")
	}
	log.WithFields(logrus.Fields{"applied": len(applied)}).Info("All migrations applied successfully")
}
