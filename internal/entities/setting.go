package entities

import (
	"time"
)

type Setting struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Key       string    `gorm:"uniqueIndex;size:100" json:"key"`
	Value     string    `gorm:"type:text" json:"value"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Setting) TableName() string {
	return "settings"
}

// Known setting keys
const (
	// TMDB settings
	SettingKeyTMDBAPIKey = "tmdb_api_key"

	// Catalog seed settings
	SettingKeyCatalogSeedEnabled     = "catalog_seed_enabled"
	SettingKeyCatalogSeedSchedule    = "catalog_seed_schedule"
	SettingKeyCatalogSeedLastAt      = "catalog_seed_last_at"
	SettingKeyCatalogSeedLastStatus  = "catalog_seed_last_status"
	SettingKeyCatalogSeedLastMessage = "catalog_seed_last_message"
	SettingKeyCatalogSeedMoviesAdded = "catalog_seed_movies_added"
)
