// Package users provides database operations for user profiles and their
// Letterboxd integration records.
//
// Identities come from the upstream identity provider; this package never
// creates credentials.
//
// # Usage
//
//	repo := users.NewRepository(db)
//	profile, err := repo.GetProfile(userID)
package users

import (
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/mrlokans/filmlog/internal/entities"
)

// ErrProfileNotFound is returned when no profile exists for a user id.
var ErrProfileNotFound = errors.New("profile not found")

// Repository handles all user database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new users repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// GetProfile retrieves a user profile by id.
func (r *Repository) GetProfile(userID string) (*entities.UserProfile, error) {
	var profile entities.UserProfile
	err := r.db.Where("id = ?", userID).First(&profile).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrProfileNotFound
	}
	if err != nil {
		return nil, err
	}
	return &profile, nil
}

// UpsertProfile creates the profile or updates its display name and email.
func (r *Repository) UpsertProfile(profile *entities.UserProfile) error {
	now := time.Now()
	profile.UpdatedAt = now
	if profile.CreatedAt.IsZero() {
		profile.CreatedAt = now
	}
	return r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{"display_name", "email", "updated_at"}),
	}).Create(profile).Error
}

// GetLetterboxdIntegration returns the user's integration record, or a zero
// record (with UserID set) when none has been saved yet.
func (r *Repository) GetLetterboxdIntegration(userID string) (*entities.LetterboxdIntegration, error) {
	var integration entities.LetterboxdIntegration
	err := r.db.Where("user_id = ?", userID).First(&integration).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return &entities.LetterboxdIntegration{UserID: userID}, nil
	}
	if err != nil {
		return nil, err
	}
	return &integration, nil
}

// SetLetterboxdUsername stores the feed handle the user imports from.
func (r *Repository) SetLetterboxdUsername(userID, username string) error {
	now := time.Now()
	integration := entities.LetterboxdIntegration{
		UserID:    userID,
		Username:  username,
		CreatedAt: now,
		UpdatedAt: now,
	}
	return r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"username", "updated_at"}),
	}).Create(&integration).Error
}

// RecordLetterboxdImport stamps the last import time and adds imported to the
// running total. The handle is stored as well so a first import via an explicit
// handle remembers it.
func (r *Repository) RecordLetterboxdImport(userID, username string, imported int, at time.Time) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var integration entities.LetterboxdIntegration
		err := tx.Where("user_id = ?", userID).First(&integration).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			integration = entities.LetterboxdIntegration{UserID: userID, CreatedAt: at}
		} else if err != nil {
			return err
		}

		if username != "" {
			integration.Username = username
		}
		integration.LastImportDate = &at
		integration.TotalReviewsImported += imported
		integration.UpdatedAt = at
		return tx.Save(&integration).Error
	})
}
