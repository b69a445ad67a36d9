package main

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pageza/cookwithfriends/backend/config"
)

func TestPostgresDSN(t *testing.T) {
	load := func(driver string) func() (*config.Config, error) {
		return func() (*config.Config, error) {
			return &config.Config{
				DBDriver:   driver,
				DBHost:     "db",
				DBPort:     "5432",
				DBUser:     "cook",
				DBPassword: "pw",
				DBName:     "recipes",
				DBSSLMode:  "disable",
			}, nil
		}
	}
	failing := func() (*config.Config, error) { return nil, errors.New("JWT_SECRET is required") }

	dsn, err := postgresDSN("", "postgres://u:p@h/db", failing)
	require.NoError(t, err)
	assert.Equal(t, "postgres://u:p@h/db", dsn)

	dsn, err = postgresDSN("", "", load("postgres"))
	require.NoError(t, err)
	assert.Equal(t, "host=db port=5432 user=cook password=pw dbname=recipes sslmode=disable", dsn)

	_, err = postgresDSN("", "", failing)
	assert.ErrorContains(t, err, "JWT_SECRET")
}

func TestPostgresDSNRejectsSQLite(t *testing.T) {
	_, err := postgresDSN("sqlite", "postgres://u:p@h/db", nil)
	assert.ErrorIs(t, err, errSQLiteDriver)

	_, err = postgresDSN("", "", func() (*config.Config, error) {
		return &config.Config{DBDriver: "sqlite"}, nil
	})
	assert.ErrorIs(t, err, errSQLiteDriver)
}
