package entities

import "time"

// UserProfile holds the public-facing details of an externally authenticated user.
// ID is the identity provider's subject, not a local sequence.
type UserProfile struct {
	ID          string    `gorm:"primaryKey;size:255" json:"id"`
	DisplayName string    `gorm:"size:255" json:"display_name,omitempty"`
	Email       string    `gorm:"size:255" json:"email,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (UserProfile) TableName() string {
	return "user_profiles"
}

// LetterboxdIntegration is the per-user import configuration and summary.
type LetterboxdIntegration struct {
	UserID               string     `gorm:"primaryKey;size:255" json:"user_id"`
	Username             string     `gorm:"size:100" json:"username"`
	LastImportDate       *time.Time `json:"last_import_date,omitempty"`
	TotalReviewsImported int        `json:"total_reviews_imported"`
	CreatedAt            time.Time  `json:"created_at"`
	UpdatedAt            time.Time  `json:"updated_at"`
}

func (LetterboxdIntegration) TableName() string {
	return "letterboxd_integrations"
}
