package entities

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// CastMember is one billed performer of a movie, ordered by Order.
type CastMember struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	Character   string `json:"character"`
	ProfilePath string `json:"profile_path,omitempty"`
	Order       int    `json:"order"`
}

// CastList is stored as a JSON column.
type CastList []CastMember

func (c CastList) Value() (driver.Value, error) {
	if c == nil {
		return "[]", nil
	}
	b, err := json.Marshal(c)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func (c *CastList) Scan(value any) error {
	return scanJSON(value, c)
}

// StringList is stored as a JSON column.
type StringList []string

func (s StringList) Value() (driver.Value, error) {
	if s == nil {
		return "[]", nil
	}
	b, err := json.Marshal(s)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func (s *StringList) Scan(value any) error {
	return scanJSON(value, s)
}

func scanJSON(value any, dest any) error {
	var raw []byte
	switch v := value.(type) {
	case nil:
		return nil
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return fmt.Errorf("unsupported JSON column type %T", value)
	}
	if len(raw) == 0 {
		return nil
	}
	return json.Unmarshal(raw, dest)
}

// Movie is a catalog entry keyed by its TMDB identifier.
// Once created it is never overwritten by the import pipeline.
type Movie struct {
	ID               string     `gorm:"primaryKey;size:20" json:"id"`
	Title            string     `gorm:"index;size:512" json:"title"`
	OriginalTitle    string     `gorm:"size:512" json:"original_title,omitempty"`
	Overview         string     `gorm:"type:text" json:"overview"`
	PosterPath       string     `gorm:"size:255" json:"poster_path,omitempty"`
	BackdropPath     string     `gorm:"size:255" json:"backdrop_path,omitempty"`
	VoteAverage      float64    `json:"vote_average"`
	VoteCount        int        `json:"vote_count"`
	Popularity       float64    `gorm:"index" json:"popularity"`
	ReleaseDate      string     `gorm:"index;size:10" json:"release_date"`
	Genres           StringList `gorm:"type:text" json:"genres"`
	Cast             CastList   `gorm:"type:text" json:"cast"`
	Director         *string    `gorm:"size:255" json:"director"`
	Runtime          int        `json:"runtime,omitempty"`
	Budget           int64      `json:"budget,omitempty"`
	Revenue          int64      `json:"revenue,omitempty"`
	Tagline          string     `gorm:"size:512" json:"tagline,omitempty"`
	Status           string     `gorm:"size:50" json:"status,omitempty"`
	IMDbID           string     `gorm:"size:20" json:"imdb_id,omitempty"`
	OriginalLanguage string     `gorm:"size:10" json:"original_language,omitempty"`
	Adult            bool       `json:"adult"`
	CachedAt         time.Time  `json:"cached_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
}

func (Movie) TableName() string {
	return "movies"
}

// Year returns the release year, or "" when the release date is unknown.
func (m Movie) Year() string {
	if len(m.ReleaseDate) >= 4 {
		return m.ReleaseDate[:4]
	}
	return ""
}
