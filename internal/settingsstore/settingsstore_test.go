package settingsstore

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrlokans/filmlog/internal/database"
	"github.com/mrlokans/filmlog/internal/database/settings"
)

func setupTestStore(t *testing.T) (*SettingsStore, *settings.Repository) {
	t.Helper()
	db, err := database.NewQuietDatabase(filepath.Join(t.TempDir(), "settings.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	repo := settings.NewRepository(db.DB)
	return New(repo), repo
}

func TestTMDBAPIKey(t *testing.T) {
	t.Run("defaults to empty", func(t *testing.T) {
		t.Setenv("TMDB_API_KEY", "")
		store, _ := setupTestStore(t)

		assert.Empty(t, store.GetTMDBAPIKey())
		info := store.GetTMDBAPIKeyInfo()
		assert.False(t, info.HasKey)
		assert.Equal(t, SourceDefault, info.Source)
	})

	t.Run("environment value is used when database is empty", func(t *testing.T) {
		t.Setenv("TMDB_API_KEY", "env-key-123456789")
		store, _ := setupTestStore(t)

		assert.Equal(t, "env-key-123456789", store.GetTMDBAPIKey())
		info := store.GetTMDBAPIKeyInfo()
		assert.Equal(t, SourceEnvironment, info.Source)
		assert.Equal(t, "env-****6789", info.Key)
	})

	t.Run("database overrides environment", func(t *testing.T) {
		t.Setenv("TMDB_API_KEY", "env-key")
		store, _ := setupTestStore(t)

		require.NoError(t, store.SetTMDBAPIKey("db-key"))
		assert.Equal(t, "db-key", store.GetTMDBAPIKey())
		assert.Equal(t, SourceDatabase, store.GetTMDBAPIKeyInfo().Source)

		require.NoError(t, store.ClearTMDBAPIKey())
		assert.Equal(t, "env-key", store.GetTMDBAPIKey())
	})
}

func TestMaskToken(t *testing.T) {
	assert.Equal(t, "", maskToken(""))
	assert.Equal(t, "****", maskToken("short"))
	assert.Equal(t, "abcd****wxyz", maskToken("abcdefghijklmnopqrstuvwxyz"))
}
