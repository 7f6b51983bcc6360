package db

import (
	"context"
	"database/sql"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	database, err := Open(t.TempDir(), DefaultOpenOptions())
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close() })
	return database
}

func openRawConn(t *testing.T) *sql.DB {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), FileName)
	conn, err := sql.Open("sqlite", fmt.Sprintf("file:%s?_pragma=journal_mode(WAL)", dbPath))
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func TestMigrateUp_FreshDB(t *testing.T) {
	database := openTestDB(t)
	ctx := context.Background()

	applied, err := appliedVersions(ctx, database.Conn())
	require.NoError(t, err)

	migrations, err := loadMigrations()
	require.NoError(t, err)

	require.Len(t, applied, len(migrations))
	for _, m := range migrations {
		assert.True(t, applied[m.Version], "version %d should be applied", m.Version)
	}

	_, err = database.Conn().ExecContext(ctx, "SELECT 1 FROM kv_store LIMIT 0")
	require.NoError(t, err, "kv_store table should exist")
}

func TestMigrateUp_Idempotent(t *testing.T) {
	database := openTestDB(t)

	err := migrateUp(context.Background(), database.Conn())
	assert.NoError(t, err, "second migrateUp should be a no-op")
}

func TestOpen_ReopenKeepsData(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	first, err := Open(dir, DefaultOpenOptions())
	require.NoError(t, err)
	require.NoError(t, first.Queries().KVSet(ctx, KVSetParams{Key: "k", Value: []byte(`"v"`), CreatedAt: 1, UpdatedAt: 1}))
	require.NoError(t, first.Close())

	second, err := Open(dir, DefaultOpenOptions())
	require.NoError(t, err)
	t.Cleanup(func() { _ = second.Close() })

	row, err := second.Queries().KVGet(ctx, "k")
	require.NoError(t, err)
	assert.JSONEq(t, `"v"`, string(row.Value))
}

func TestMigrateUp_RecordsEachVersionOnce(t *testing.T) {
	conn := openRawConn(t)
	ctx := context.Background()

	require.NoError(t, migrateUp(ctx, conn))
	require.NoError(t, migrateUp(ctx, conn))

	migrations, err := loadMigrations()
	require.NoError(t, err)

	var n int
	require.NoError(t, conn.QueryRowContext(ctx, "SELECT COUNT(*) FROM schema_migrations").Scan(&n))
	assert.Equal(t, len(migrations), n)
}

func TestLoadMigrations_Valid(t *testing.T) {
	migrations, err := loadMigrations()
	require.NoError(t, err)
	require.NotEmpty(t, migrations)

	for i := 1; i < len(migrations); i++ {
		assert.Greater(t, migrations[i].Version, migrations[i-1].Version,
			"migrations should be in ascending version order")
	}

	for _, m := range migrations {
		assert.NotEmpty(t, m.SQL, "migration %d SQL should not be empty", m.Version)
		assert.NotEmpty(t, m.Name, "migration %d name should not be empty", m.Version)
	}
}

func TestParseFilename(t *testing.T) {
	tests := []struct {
		filename    string
		wantVersion int
		wantName    string
		wantErr     bool
	}{
		{"0001_kv_store.sql", 1, "kv_store", false},
		{"0100_big_version.sql", 100, "big_version", false},
		{"bad.sql", 0, "", true},
		{"0001_kv_store.txt", 0, "", true},
		{"0000_zero.sql", 0, "", true},
		{"abc_notnumber.sql", 0, "", true},
		{"0001_.sql", 0, "", true},
	}

	for _, tt := range tests {
		t.Run(tt.filename, func(t *testing.T) {
			version, name, err := parseFilename(tt.filename)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantVersion, version)
			assert.Equal(t, tt.wantName, name)
		})
	}
}
