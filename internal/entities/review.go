package entities

import (
	"fmt"
	"time"
)

type ReviewSource string

const (
	ReviewSourceManual     ReviewSource = "manual"
	ReviewSourceLetterboxd ReviewSource = "letterboxd"
)

// Review is a user's rating and write-up of one movie. There is at most one
// review per (user, movie): the primary key is derived from both.
type Review struct {
	ID                 string       `gorm:"primaryKey;size:300" json:"id"`
	UserID             string       `gorm:"index;index:idx_reviews_user_source,priority:1;size:255" json:"user_id"`
	MovieID            string       `gorm:"index;size:20" json:"movie_id"`
	Rating             float64      `json:"rating"`
	Text               string       `gorm:"type:text" json:"text"`
	WatchedDate        *time.Time   `json:"watched_date,omitempty"`
	Rewatch            bool         `json:"rewatch"`
	Source             ReviewSource `gorm:"size:20" json:"source"`
	LetterboxdLink     string       `gorm:"size:1024" json:"letterboxd_link,omitempty"`
	LetterboxdReviewID string       `gorm:"index:idx_reviews_user_source,priority:2;size:255" json:"letterboxd_review_id,omitempty"`
	CreatedAt          time.Time    `gorm:"autoCreateTime:false" json:"created_at"`
	UpdatedAt          time.Time    `gorm:"autoUpdateTime:false" json:"updated_at"`
}

func (Review) TableName() string {
	return "reviews"
}

// ReviewKey builds the deterministic review identity for a user and movie.
func ReviewKey(userID, movieID string) string {
	return fmt.Sprintf("%s_%s", userID, movieID)
}
