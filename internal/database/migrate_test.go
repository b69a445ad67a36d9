package database_test

import (
	"context"
	"database/sql"
	"io"
	"testing"
	"testing/fstest"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/pageza/cookwithfriends/backend/internal/database"
	"github.com/pageza/cookwithfriends/backend/internal/models"
	"github.com/pageza/cookwithfriends/backend/internal/testhelpers"
)

func quietLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func openSQLite(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	return db
}

func sqliteMigrator(t *testing.T, files fstest.MapFS) (*database.Migrator, *sql.DB) {
	t.Helper()
	sqlDB, err := openSQLite(t).DB()
	require.NoError(t, err)

	m := database.NewMigrator(sqlDB, files, quietLogger())
	m.Placeholder = func(int) string { return "?" }
	return m, sqlDB
}

func TestMigratorUp(t *testing.T) {
	files := fstest.MapFS{
		"0002_items.sql":   {Data: []byte("ALTER TABLE widgets ADD COLUMN size INTEGER;\nCREATE TABLE items (id INTEGER PRIMARY KEY);")},
		"0001_widgets.sql": {Data: []byte("CREATE TABLE widgets (id INTEGER PRIMARY KEY, name TEXT);")},
		"README.md":        {Data: []byte("not a migration")},
	}
	m, sqlDB := sqliteMigrator(t, files)
	ctx := context.Background()

	pending, err := m.Pending(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"0001_widgets.sql", "0002_items.sql"}, pending)

	applied, err := m.Up(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"0001_widgets.sql", "0002_items.sql"}, applied)

	_, err = sqlDB.ExecContext(ctx, "INSERT INTO widgets (name, size) VALUES ('a', 1)")
	require.NoError(t, err)
	_, err = sqlDB.ExecContext(ctx, "INSERT INTO items (id) VALUES (1)")
	require.NoError(t, err)

	applied, err = m.Up(ctx)
	require.NoError(t, err)
	assert.Empty(t, applied)

	var count int
	require.NoError(t, sqlDB.QueryRowContext(ctx, "SELECT COUNT(*) FROM schema_migrations").Scan(&count))
	assert.Equal(t, 2, count)
}

func TestMigratorFailedMigrationIsNotRecorded(t *testing.T) {
	files := fstest.MapFS{
		"0001_ok.sql":     {Data: []byte("CREATE TABLE ok (id INTEGER PRIMARY KEY);")},
		"0002_broken.sql": {Data: []byte("CREATE TABLE broken (id INTEGER PRIMARY KEY);\nNOT VALID SQL;")},
	}
	m, sqlDB := sqliteMigrator(t, files)
	ctx := context.Background()

	_, err := m.Up(ctx)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "0002_broken.sql")

	pending, err := m.Pending(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"0002_broken.sql"}, pending)

	var count int
	err = sqlDB.QueryRowContext(ctx, "SELECT COUNT(*) FROM sqlite_master WHERE name = 'broken'").Scan(&count)
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestRunMigrationsSQLite(t *testing.T) {
	db := openSQLite(t)
	require.NoError(t, database.RunMigrations(context.Background(), db, quietLogger()))

	for _, model := range models.All() {
		assert.True(t, db.Migrator().HasTable(model))
	}
}

func TestRunMigrationsPostgres(t *testing.T) {
	// SetupPostgresDB applies the embedded migrations.
	db := testhelpers.SetupPostgresDB(t)
	ctx := context.Background()

	for _, model := range models.All() {
		assert.True(t, db.Migrator().HasTable(model))
	}

	require.NoError(t, database.RunMigrations(ctx, db, quietLogger()))

	var count int64
	require.NoError(t, db.Table("schema_migrations").Count(&count).Error)
	assert.Equal(t, int64(2), count)
}
