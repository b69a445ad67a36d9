package database

import (
	"context"
	"database/sql"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/pageza/cookwithfriends/backend/internal/models"
	"github.com/pageza/cookwithfriends/backend/migrations"
)

// RunMigrations brings the schema up to date. SQLite uses gorm auto-migration,
// postgres applies the embedded SQL files.
func RunMigrations(ctx context.Context, db *gorm.DB, log *logrus.Logger) error {
	if db.Dialector.Name() == "sqlite" {
		log.Info("Using GORM auto-migration for SQLite")
		return db.AutoMigrate(models.All()...)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	_, err = NewMigrator(sqlDB, migrations.FS, log).Up(ctx)
	return err
}

// Migrator applies *.sql files in name order, recording each one in schema_migrations.
type Migrator struct {
	db          *sql.DB
	files       fs.FS
	log         *logrus.Logger
	Placeholder func(n int) string
}

func NewMigrator(db *sql.DB, files fs.FS, log *logrus.Logger) *Migrator {
	return &Migrator{
		db:          db,
		files:       files,
		log:         log,
		Placeholder: func(n int) string { return fmt.Sprintf("$%d", n) },
	}
}

// Pending lists migration files that have not been applied yet.
func (m *Migrator) Pending(ctx context.Context) ([]string, error) {
	if err := m.ensureTable(ctx); err != nil {
		return nil, err
	}

	names, err := fs.Glob(m.files, "*.sql")
	if err != nil {
		return nil, fmt.Errorf("failed to list migrations: %w", err)
	}
	sort.Strings(names)

	var pending []string
	for _, name := range names {
		var count int
		q := "SELECT COUNT(*) FROM schema_migrations WHERE name = " + m.Placeholder(1)
		if err := m.db.QueryRowContext(ctx, q, name).Scan(&count); err != nil {
			return nil, fmt.Errorf("failed to check migration status: %w", err)
		}
		if count == 0 {
			pending = append(pending, name)
		}
	}
	return pending, nil
}

// Up applies every pending migration, each in its own transaction, and returns their names.
func (m *Migrator) Up(ctx context.Context) ([]string, error) {
	pending, err := m.Pending(ctx)
	if err != nil {
		return nil, err
	}

	for _, name := range pending {
		content, err := fs.ReadFile(m.files, path.Clean(name))
		if err != nil {
			return nil, fmt.Errorf("failed to read migration file %s: %w", name, err)
		}
		if err := m.apply(ctx, name, string(content)); err != nil {
			return nil, err
		}
		m.log.WithField("migration", name).Info("Applied migration")
	}
	return pending, nil
}

func (m *Migrator) apply(ctx context.Context, name, body string) error {
	tx, err := m.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to start transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for _, stmt := range splitStatements(body) {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to execute migration %s: %w", name, err)
		}
	}

	q := "INSERT INTO schema_migrations (name) VALUES (" + m.Placeholder(1) + ")"
	if _, err := tx.ExecContext(ctx, q, name); err != nil {
		return fmt.Errorf("failed to record migration %s: %w", name, err)
	}
	return tx.Commit()
}

func (m *Migrator) ensureTable(ctx context.Context) error {
	_, err := m.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS schema_migrations (
			name VARCHAR(255) PRIMARY KEY,
			applied_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`)
	if err != nil {
		return fmt.Errorf("failed to create migrations table: %w", err)
	}
	return nil
}

// splitStatements splits on ';'. Migration files must not contain semicolons inside literals.
func splitStatements(body string) []string {
	var out []string
	for _, stmt := range strings.Split(body, ";") {
		if s := strings.TrimSpace(stmt); s != "" {
			out = append(out, s)
		}
	}
	return out
}
