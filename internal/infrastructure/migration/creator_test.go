package migration

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/boardinghouse/backend/migrations"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSanitizeName(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"add rooms table", "add_rooms_table"},
		{"Add-Rooms-Table", "add_rooms_table"},
		{"add__rooms__table", "add_rooms_table"},
		{"   spaces   ", "spaces"},
		{"special!@#$chars", "specialchars"},
		{"trailing_", "trailing"},
		{"_leading", "leading"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, sanitizeName(tt.input))
		})
	}
}

func TestCreateMigration(t *testing.T) {
	t.Run("numbers migrations sequentially", func(t *testing.T) {
		dir := t.TempDir()

		first, err := CreateMigration(dir, "init occupancy", "initial schema")
		require.NoError(t, err)
		assert.Equal(t, "000001", first.Version)
		assert.Equal(t, filepath.Join(dir, "000001_init_occupancy.up.sql"), first.UpPath)

		second, err := CreateMigration(dir, "add room notes", "")
		require.NoError(t, err)
		assert.Equal(t, "000002", second.Version)

		content, err := os.ReadFile(second.UpPath)
		require.NoError(t, err)
		assert.Contains(t, string(content), "-- Migration: add_room_notes")
		assert.FileExists(t, second.DownPath)
	})

	t.Run("creates the directory", func(t *testing.T) {
		dir := filepath.Join(t.TempDir(), "nested", "migrations")
		_, err := CreateMigration(dir, "init", "")
		require.NoError(t, err)
		assert.DirExists(t, dir)
	})

	t.Run("rejects names without letters or digits", func(t *testing.T) {
		_, err := CreateMigration(t.TempDir(), "!!!", "")
		assert.Error(t, err)
	})
}

func TestListMigrations(t *testing.T) {
	t.Run("orders by version and ignores other files", func(t *testing.T) {
		dir := t.TempDir()
		for _, name := range []string{
			"000010_later.up.sql", "000010_later.down.sql",
			"000002_second.up.sql", "000002_second.down.sql",
			"README.md", "notes.up.sql",
		} {
			require.NoError(t, os.WriteFile(filepath.Join(dir, name), nil, 0o644))
		}
		require.NoError(t, os.Mkdir(filepath.Join(dir, "000003_dir.up.sql"), 0o755))

		list, err := ListMigrations(dir)
		require.NoError(t, err)
		assert.Equal(t, []string{"000002_second", "000010_later"}, list)
	})

	t.Run("missing directory is empty", func(t *testing.T) {
		list, err := ListMigrations(filepath.Join(t.TempDir(), "missing"))
		require.NoError(t, err)
		assert.Empty(t, list)
	})
}

func TestEmbeddedMigrationsArePaired(t *testing.T) {
	up, err := migrations.FS.ReadFile("000001_init_occupancy.up.sql")
	require.NoError(t, err)
	assert.Contains(t, string(up), "idx_requests_pending_family")
	assert.Contains(t, string(up), "idx_room_occupants_tenant")

	_, err = migrations.FS.ReadFile("000001_init_occupancy.down.sql")
	assert.NoError(t, err)
}
