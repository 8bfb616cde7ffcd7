package database_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hsandamith/School-Management-System/core"
	"github.com/hsandamith/School-Management-System/storage/database"
	"github.com/hsandamith/School-Management-System/storage/database/dbtest"
)

func TestDialect(t *testing.T) {
	for driver, want := range map[string][2]string{
		database.SQLite:   {"sqlite3", "migrations/sqlite"},
		database.Postgres: {"postgres", "migrations/postgres"},
		database.Pgx:      {"postgres", "migrations/postgres"},
	} {
		dialect, dir := database.Dialect(driver)
		assert.Equal(t, want[0], dialect, driver)
		assert.Equal(t, want[1], dir, driver)
	}
}

func TestOpen_unsupportedEngine(t *testing.T) {
	conf := core.NewTestConfig()
	conf.Database.Engine = "oracle"
	_, err := database.Open(conf)
	assert.Error(t, err)
}

func TestIsUniqueViolation(t *testing.T) {
	ctx := context.Background()
	db := dbtest.Open(t)

	insert := `INSERT INTO library_book (title, author, isbn, available_status, book_condition) VALUES (?, ?, ?, ?, ?)`
	_, err := db.ExecContext(ctx, insert, "Holes", "Louis Sachar", "9780747544593", true, "good")
	require.NoError(t, err)

	_, err = db.ExecContext(ctx, insert, "Holes", "Louis Sachar", "9780747544593", true, "good")
	require.Error(t, err)
	assert.True(t, database.IsUniqueViolation(err))

	_, err = db.ExecContext(ctx, insert, "Holes", nil, "9780747544594", true, "good")
	require.Error(t, err) // NOT NULL, not UNIQUE
	assert.False(t, database.IsUniqueViolation(err))

	assert.False(t, database.IsUniqueViolation(errors.New("UNIQUE constraint failed")))
}

func TestRunMigrations(t *testing.T) {
	db := dbtest.Open(t)

	ctx := context.Background()
	require.NoError(t, database.RunMigrations(ctx, db, "down"))
	_, err := db.ExecContext(ctx, "SELECT COUNT(*) FROM class")
	assert.Error(t, err)

	require.NoError(t, database.RunMigrations(ctx, db, "up"))
	_, err = db.ExecContext(ctx, "SELECT COUNT(*) FROM class")
	assert.NoError(t, err)

	assert.Error(t, database.RunMigrations(ctx, db, "sideways"))
}
