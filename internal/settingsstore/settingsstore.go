package settingsstore

import (
	"log"
	"os"

	"github.com/mrlokans/filmlog/internal/database/settings"
	"github.com/mrlokans/filmlog/internal/entities"
)

// Value sources, in priority order.
const (
	SourceDatabase    = "database"
	SourceEnvironment = "environment"
	SourceDefault     = "default"
)

// SettingsStore resolves runtime-editable settings.
// Priority: database > environment > default
type SettingsStore struct {
	repo *settings.Repository
}

func New(repo *settings.Repository) *SettingsStore {
	return &SettingsStore{repo: repo}
}

// resolve looks key up in the database, then envKey in the environment, then falls back to def.
func (s *SettingsStore) resolve(key, envKey, def string) (string, string) {
	value, ok, err := s.repo.GetValue(key)
	if err != nil {
		log.Printf("Failed to read setting %s: %v", key, err)
	}
	if ok {
		return value, SourceDatabase
	}
	if envVal := os.Getenv(envKey); envVal != "" {
		return envVal, SourceEnvironment
	}
	return def, SourceDefault
}

// TMDBKeyInfo describes the effective TMDB API key without exposing it.
type TMDBKeyInfo struct {
	HasKey bool   `json:"has_key"`
	Key    string `json:"key"` // masked
	Source string `json:"source"`
}

// GetTMDBAPIKey returns the TMDB API key (database > TMDB_API_KEY > "").
func (s *SettingsStore) GetTMDBAPIKey() string {
	key, _ := s.resolve(entities.SettingKeyTMDBAPIKey, "TMDB_API_KEY", "")
	return key
}

func (s *SettingsStore) GetTMDBAPIKeyInfo() TMDBKeyInfo {
	key, source := s.resolve(entities.SettingKeyTMDBAPIKey, "TMDB_API_KEY", "")
	return TMDBKeyInfo{
		HasKey: key != "",
		Key:    maskToken(key),
		Source: source,
	}
}

func (s *SettingsStore) SetTMDBAPIKey(key string) error {
	return s.repo.SetSetting(entities.SettingKeyTMDBAPIKey, key)
}

// ClearTMDBAPIKey removes the database override, reverting to env/default.
func (s *SettingsStore) ClearTMDBAPIKey() error {
	return s.repo.DeleteSetting(entities.SettingKeyTMDBAPIKey)
}

// maskToken returns a masked version of the token for display
func maskToken(token string) string {
	if token == "" {
		return ""
	}
	if len(token) <= 8 {
		return "****"
	}
	return token[:4] + "****" + token[len(token)-4:]
}
