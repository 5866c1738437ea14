// Package reviews implements manual review management and the per-movie review
// listing with author names.
package reviews

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sort"
	"strconv"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/sync/errgroup"

	reviewsRepo "github.com/mrlokans/filmlog/internal/database/reviews"
	"github.com/mrlokans/filmlog/internal/database/users"
	"github.com/mrlokans/filmlog/internal/entities"
	"github.com/mrlokans/filmlog/internal/tmdb"
)

const (
	anonymousAuthor   = "Anonymous"
	authorCacheSize   = 1024
	authorLookupLimit = 8
)

var (
	ErrReviewNotFound = reviewsRepo.ErrReviewNotFound
	ErrInvalidMovieID = errors.New("invalid movie id")
	ErrMovieNotFound  = errors.New("movie not found")
)

// SortOrder controls how ListForMovie orders reviews.
type SortOrder string

const (
	SortRecent  SortOrder = "recent"
	SortHighest SortOrder = "highest"
	SortLowest  SortOrder = "lowest"
)

// Input is a manual review as submitted by its author.
type Input struct {
	Rating      float64 `json:"rating" validate:"required,gte=1,lte=10"`
	Text        string  `json:"text" validate:"max=10000"`
	WatchedDate string  `json:"watched_date" validate:"omitempty,datetime=2006-01-02"`
	Rewatch     bool    `json:"rewatch"`
}

// ValidationError lists the input fields that failed validation.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	names := make([]string, 0, len(e.Fields))
	for name := range e.Fields {
		names = append(names, name)
	}
	sort.Strings(names)
	parts := make([]string, 0, len(names))
	for _, name := range names {
		parts = append(parts, name+" "+e.Fields[name])
	}
	return "invalid review: " + strings.Join(parts, ", ")
}

// AuthoredReview is a review together with its author's display name.
type AuthoredReview struct {
	entities.Review
	AuthorName string `json:"author_name"`
}

// MovieReviews is the review listing of one movie.
type MovieReviews struct {
	MovieID       string           `json:"movie_id"`
	Reviews       []AuthoredReview `json:"reviews"`
	Count         int              `json:"count"`
	AverageRating float64          `json:"average_rating"`
}

type ReviewStore interface {
	GetReview(userID, movieID string) (*entities.Review, error)
	SaveReview(review *entities.Review) error
	DeleteReview(userID, movieID string) error
	ListByUser(userID string) ([]entities.Review, error)
	ListByMovie(movieID string) ([]entities.Review, error)
}

type ProfileStore interface {
	GetProfile(userID string) (*entities.UserProfile, error)
}

// MovieResolver returns the catalog entry for a TMDB id, fetching it when missing.
type MovieResolver interface {
	Resolve(ctx context.Context, tmdbID int) (*entities.Movie, error)
}

type Auditor interface {
	LogReview(userID, action, movieID string)
}

// Service manages reviews written in the app.
type Service struct {
	reviews  ReviewStore
	profiles ProfileStore
	movies   MovieResolver
	auditor  Auditor
	validate *validator.Validate
	authors  *lru.Cache[string, string]
	now      func() time.Time
}

func NewService(reviews ReviewStore, profiles ProfileStore, movies MovieResolver) *Service {
	authors, err := lru.New[string, string](authorCacheSize)
	if err != nil {
		panic(fmt.Sprintf("create author cache: %v", err))
	}
	return &Service{
		reviews:  reviews,
		profiles: profiles,
		movies:   movies,
		validate: validator.New(),
		authors:  authors,
		now:      time.Now,
	}
}

// SetAuditor enables audit events for review changes.
func (s *Service) SetAuditor(auditor Auditor) {
	s.auditor = auditor
}

// Get returns the user's review of a movie.
func (s *Service) Get(userID, movieID string) (*entities.Review, error) {
	return s.reviews.GetReview(userID, movieID)
}

// ListForUser returns the user's reviews, newest first.
func (s *Service) ListForUser(userID string) ([]entities.Review, error) {
	return s.reviews.ListByUser(userID)
}

// Save creates or fully replaces the user's review of a movie. The creation
// time of an existing review is kept.
func (s *Service) Save(ctx context.Context, userID, movieID string, input Input) (*entities.Review, error) {
	if err := s.validateInput(input); err != nil {
		return nil, err
	}
	tmdbID, err := strconv.Atoi(movieID)
	if err != nil || tmdbID <= 0 {
		return nil, ErrInvalidMovieID
	}
	if _, err := s.movies.Resolve(ctx, tmdbID); err != nil {
		if errors.Is(err, tmdb.ErrNotFound) {
			return nil, ErrMovieNotFound
		}
		return nil, fmt.Errorf("resolve movie: %w", err)
	}

	now := s.now()
	createdAt := now
	existing, err := s.reviews.GetReview(userID, movieID)
	switch {
	case err == nil:
		createdAt = existing.CreatedAt
	case !errors.Is(err, ErrReviewNotFound):
		return nil, fmt.Errorf("load existing review: %w", err)
	}

	review := &entities.Review{
		UserID:      userID,
		MovieID:     movieID,
		Rating:      input.Rating,
		Text:        input.Text,
		WatchedDate: parseDate(input.WatchedDate),
		Rewatch:     input.Rewatch,
		Source:      entities.ReviewSourceManual,
		CreatedAt:   createdAt,
		UpdatedAt:   now,
	}
	if err := s.reviews.SaveReview(review); err != nil {
		return nil, fmt.Errorf("save review: %w", err)
	}

	if s.auditor != nil {
		s.auditor.LogReview(userID, "save", movieID)
	}
	return review, nil
}

// Delete removes the user's review of a movie.
func (s *Service) Delete(userID, movieID string) error {
	if err := s.reviews.DeleteReview(userID, movieID); err != nil {
		return err
	}
	if s.auditor != nil {
		s.auditor.LogReview(userID, "delete", movieID)
	}
	return nil
}

// ListForMovie returns every review of a movie with author names, the review
// count and the average rating of rated reviews.
func (s *Service) ListForMovie(ctx context.Context, movieID string, order SortOrder) (*MovieReviews, error) {
	list, err := s.reviews.ListByMovie(movieID)
	if err != nil {
		return nil, err
	}
	sortReviews(list, order)

	names, err := s.authorNames(ctx, list)
	if err != nil {
		return nil, err
	}

	result := &MovieReviews{
		MovieID: movieID,
		Reviews: make([]AuthoredReview, 0, len(list)),
		Count:   len(list),
	}
	var sum float64
	var rated int
	for _, review := range list {
		result.Reviews = append(result.Reviews, AuthoredReview{Review: review, AuthorName: names[review.UserID]})
		if review.Rating > 0 {
			sum += review.Rating
			rated++
		}
	}
	if rated > 0 {
		result.AverageRating = sum / float64(rated)
	}
	return result, nil
}

// ForgetAuthor drops the cached display name of a user whose profile changed.
func (s *Service) ForgetAuthor(userID string) {
	s.authors.Remove(userID)
}

// authorNames looks up the display name of every distinct author concurrently.
func (s *Service) authorNames(ctx context.Context, list []entities.Review) (map[string]string, error) {
	var ids []string
	seen := make(map[string]bool)
	for _, review := range list {
		if !seen[review.UserID] {
			seen[review.UserID] = true
			ids = append(ids, review.UserID)
		}
	}

	resolved := make([]string, len(ids))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(authorLookupLimit)
	for i, userID := range ids {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			resolved[i] = s.authorName(userID)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	names := make(map[string]string, len(ids))
	for i, userID := range ids {
		names[userID] = resolved[i]
	}
	return names, nil
}

func (s *Service) authorName(userID string) string {
	if name, ok := s.authors.Get(userID); ok {
		return name
	}
	profile, err := s.profiles.GetProfile(userID)
	if errors.Is(err, users.ErrProfileNotFound) {
		s.authors.Add(userID, anonymousAuthor)
		return anonymousAuthor
	}
	if err != nil {
		log.Printf("Failed to load profile for %s: %v", userID, err)
		return anonymousAuthor
	}
	name := DisplayName(profile)
	s.authors.Add(userID, name)
	return name
}

// DisplayName picks the public name of a profile: its display name, else the
// capitalized local part of its email, else "Anonymous".
func DisplayName(profile *entities.UserProfile) string {
	if name := strings.TrimSpace(profile.DisplayName); name != "" {
		return name
	}
	local, _, _ := strings.Cut(strings.TrimSpace(profile.Email), "@")
	if local == "" {
		return anonymousAuthor
	}
	r, size := utf8.DecodeRuneInString(local)
	return string(unicode.ToUpper(r)) + local[size:]
}

func sortReviews(list []entities.Review, order SortOrder) {
	switch order {
	case SortHighest:
		sort.SliceStable(list, func(i, j int) bool { return list[i].Rating > list[j].Rating })
	case SortLowest:
		sort.SliceStable(list, func(i, j int) bool { return list[i].Rating < list[j].Rating })
	default:
		sort.SliceStable(list, func(i, j int) bool { return list[i].CreatedAt.After(list[j].CreatedAt) })
	}
}

func (s *Service) validateInput(input Input) error {
	err := s.validate.Struct(input)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}
	fields := make(map[string]string, len(fieldErrs))
	for _, fe := range fieldErrs {
		fields[jsonName(fe.Field())] = describe(fe)
	}
	return &ValidationError{Fields: fields}
}

func jsonName(field string) string {
	switch field {
	case "Rating":
		return "rating"
	case "Text":
		return "text"
	case "WatchedDate":
		return "watched_date"
	default:
		return strings.ToLower(field)
	}
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "gte":
		return "must be at least " + fe.Param()
	case "lte":
		return "must be at most " + fe.Param()
	case "max":
		return "must be at most " + fe.Param() + " characters"
	case "datetime":
		return "must be a YYYY-MM-DD date"
	default:
		return "is invalid"
	}
}

func parseDate(value string) *time.Time {
	if value == "" {
		return nil
	}
	t, err := time.Parse("2006-01-02", value)
	if err != nil {
		return nil
	}
	return &t
}
