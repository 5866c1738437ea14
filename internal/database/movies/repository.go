// Package movies provides database operations for the movie catalog.
//
// Catalog entries are written once and treated as immutable afterwards:
// CreateMovie never overwrites an existing row.
//
// # Usage
//
//	repo := movies.NewRepository(db)
//	exists, err := repo.MovieExists("603")
package movies

import (
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/mrlokans/filmlog/internal/entities"
)

// ErrMovieNotFound is returned when a catalog entry does not exist.
var ErrMovieNotFound = errors.New("movie not found")

// SortOrder selects the ordering of catalog listings.
type SortOrder string

const (
	SortByPopularity SortOrder = "popularity"
	SortByRating     SortOrder = "rating"
	SortByRelease    SortOrder = "release"
)

// ListOptions filters and paginates ListMovies.
type ListOptions struct {
	Genre  string
	Sort   SortOrder
	Limit  int
	Offset int
}

// Repository handles all movie catalog database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new movies repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// GetMovie retrieves a catalog entry by its TMDB id.
func (r *Repository) GetMovie(id string) (*entities.Movie, error) {
	var movie entities.Movie
	err := r.db.Where("id = ?", id).First(&movie).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrMovieNotFound
	}
	if err != nil {
		return nil, err
	}
	return &movie, nil
}

// MovieExists reports whether a catalog entry is stored under id.
func (r *Repository) MovieExists(id string) (bool, error) {
	var count int64
	err := r.db.Model(&entities.Movie{}).Where("id = ?", id).Count(&count).Error
	return count > 0, err
}

// CreateMovie inserts a catalog entry. An entry that already exists is left untouched.
func (r *Repository) CreateMovie(movie *entities.Movie) error {
	now := time.Now()
	if movie.CachedAt.IsZero() {
		movie.CachedAt = now
	}
	movie.UpdatedAt = now
	return r.db.Clauses(clause.OnConflict{DoNothing: true}).Create(movie).Error
}

// likeEscaper makes user input match literally inside a LIKE pattern.
var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// ListMovies returns catalog entries and the total count matching opts.
// Genre filtering matches the quoted genre name inside the JSON genre list.
func (r *Repository) ListMovies(opts ListOptions) ([]entities.Movie, int64, error) {
	query := r.db.Model(&entities.Movie{})
	if opts.Genre != "" {
		query = query.Where(`genres LIKE ? ESCAPE '\'`, `%"`+likeEscaper.Replace(opts.Genre)+`"%`)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	switch opts.Sort {
	case SortByRating:
		query = query.Order("vote_average DESC").Order("vote_count DESC")
	case SortByRelease:
		query = query.Order("release_date DESC")
	default:
		query = query.Order("popularity DESC")
	}

	limit := opts.Limit
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	offset := opts.Offset
	if offset < 0 {
		offset = 0
	}

	var list []entities.Movie
	err := query.Limit(limit).Offset(offset).Find(&list).Error
	return list, total, err
}

// CountMovies returns the number of catalog entries.
func (r *Repository) CountMovies() (int64, error) {
	var count int64
	err := r.db.Model(&entities.Movie{}).Count(&count).Error
	return count, err
}
