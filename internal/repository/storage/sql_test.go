package storage

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStorage_Rebind(t *testing.T) {
	sqlite := &Storage{Driver: DriverSQLite}
	postgres := &Storage{Driver: DriverPostgres}

	query := `UPDATE rooms SET status = ? WHERE id = ? AND player2_id IS NULL`

	assert.Equal(t, query, sqlite.Rebind(query))
	assert.Equal(t, `UPDATE rooms SET status = $1 WHERE id = $2 AND player2_id IS NULL`, postgres.Rebind(query))
}

func TestStorage_Init(t *testing.T) {
	ctx := context.Background()

	// Given: a sqlite file in a directory that does not exist yet
	path := filepath.Join(t.TempDir(), "nested", "battleship.db")

	db, err := New(ctx, DriverSQLite, path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	// When: migrations run twice
	require.NoError(t, db.Init(ctx))
	require.NoError(t, db.Init(ctx))

	// Then: each migration is recorded once and the schema exists
	var applied int
	require.NoError(t, db.Connection.QueryRowContext(ctx, `SELECT COUNT(*) FROM schema_migrations`).Scan(&applied))
	assert.Equal(t, 1, applied)

	for _, table := range []string{"users", "rooms", "games", "turns"} {
		var name string
		err = db.Connection.QueryRowContext(ctx, `SELECT name FROM sqlite_master WHERE type = 'table' AND name = ?`, table).Scan(&name)
		require.NoError(t, err, table)
	}

	// And: foreign keys are enforced
	var enabled int
	require.NoError(t, db.Connection.QueryRowContext(ctx, `PRAGMA foreign_keys`).Scan(&enabled))
	assert.Equal(t, 1, enabled)
}

func TestIsUniqueViolation(t *testing.T) {
	ctx := context.Background()

	db, err := New(ctx, DriverSQLite, filepath.Join(t.TempDir(), "battleship.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, db.Init(ctx))

	insert := `INSERT INTO users (full_name, email, password_hash, created_at, updated_at)
		VALUES ('A', 'a@example.com', 'x', CURRENT_TIMESTAMP, CURRENT_TIMESTAMP)`

	_, err = db.Connection.ExecContext(ctx, insert)
	require.NoError(t, err)

	_, err = db.Connection.ExecContext(ctx, insert)
	assert.True(t, IsUniqueViolation(err))
	assert.False(t, IsUniqueViolation(nil))
}
