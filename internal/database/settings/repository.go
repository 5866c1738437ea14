// Package settings provides database operations for runtime-editable application settings.
//
// # Usage
//
//	repo := settings.NewRepository(db)
//	key, ok, err := repo.GetValue(entities.SettingKeyTMDBAPIKey)
package settings

import (
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/mrlokans/filmlog/internal/entities"
)

var ErrSettingNotFound = errors.New("setting not found")

// Repository handles all settings database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new settings repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// GetSetting retrieves a setting by key.
func (r *Repository) GetSetting(key string) (*entities.Setting, error) {
	var setting entities.Setting
	err := r.db.Where("key = ?", key).First(&setting).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrSettingNotFound
	}
	if err != nil {
		return nil, err
	}
	return &setting, nil
}

// GetValue returns the stored value for key. ok is false when the key is
// absent or stored as an empty string.
func (r *Repository) GetValue(key string) (value string, ok bool, err error) {
	setting, err := r.GetSetting(key)
	if errors.Is(err, ErrSettingNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return setting.Value, setting.Value != "", nil
}

// SetSetting creates or updates a setting.
func (r *Repository) SetSetting(key, value string) error {
	return r.SetSettings(map[string]string{key: value})
}

// SetSettings upserts several settings in one transaction.
func (r *Repository) SetSettings(values map[string]string) error {
	now := time.Now()
	return r.db.Transaction(func(tx *gorm.DB) error {
		for key, value := range values {
			setting := entities.Setting{Key: key, Value: value, CreatedAt: now, UpdatedAt: now}
			err := tx.Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "key"}},
				DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
			}).Create(&setting).Error
			if err != nil {
				return err
			}
		}
		return nil
	})
}

// DeleteSetting removes a setting by key. Deleting a missing key is not an error.
func (r *Repository) DeleteSetting(keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	return r.db.Where("key IN ?", keys).Delete(&entities.Setting{}).Error
}
