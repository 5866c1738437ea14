package http

import (
	"context"

	"github.com/mikestefanello/backlite"

	"github.com/mrlokans/filmlog/internal/catalog"
	"github.com/mrlokans/filmlog/internal/database/movies"
	"github.com/mrlokans/filmlog/internal/entities"
	"github.com/mrlokans/filmlog/internal/importers"
	"github.com/mrlokans/filmlog/internal/reviews"
	"github.com/mrlokans/filmlog/internal/settingsstore"
)

// This file consolidates the store and service interfaces used by HTTP controllers.
// Each controller depends only on the methods it calls.

// --- Profiles ---

// ProfileStore reads and writes user profiles.
type ProfileStore interface {
	GetProfile(userID string) (*entities.UserProfile, error)
	UpsertProfile(profile *entities.UserProfile) error
}

// AuthorCache drops cached author names after a profile change.
type AuthorCache interface {
	ForgetAuthor(userID string)
}

// --- Catalog ---

// MovieLister pages through the local catalog.
type MovieLister interface {
	ListMovies(opts movies.ListOptions) ([]entities.Movie, int64, error)
}

// MovieResolver returns a catalog entry, fetching it from TMDB when missing.
type MovieResolver interface {
	Resolve(ctx context.Context, tmdbID int) (*entities.Movie, error)
}

// --- Reviews ---

// ReviewService manages the user's own reviews and per-movie listings.
type ReviewService interface {
	Get(userID, movieID string) (*entities.Review, error)
	ListForUser(userID string) ([]entities.Review, error)
	Save(ctx context.Context, userID, movieID string, input reviews.Input) (*entities.Review, error)
	Delete(userID, movieID string) error
	ListForMovie(ctx context.Context, movieID string, order reviews.SortOrder) (*reviews.MovieReviews, error)
}

// --- Letterboxd ---

// LetterboxdSettingsStore holds per-user Letterboxd integration settings.
type LetterboxdSettingsStore interface {
	GetLetterboxdIntegration(userID string) (*entities.LetterboxdIntegration, error)
	SetLetterboxdUsername(userID, username string) error
}

// LetterboxdImporter starts and executes import runs.
type LetterboxdImporter interface {
	ResolveHandle(userID, handle string) (string, error)
	BeginRun(userID string) (string, error)
	ExecuteRun(ctx context.Context, runID, userID, handle string, onProgress importers.ProgressFunc) importers.ImportResult
}

// RunStore reads run progress and closes runs that never reached a worker.
type RunStore interface {
	GetRun(runID string) (*entities.SyncProgress, error)
	CompleteRun(runID string, succeeded bool, itemErrors []string, errorMsg string) error
}

// --- Settings ---

// TMDBKeyStore manages the runtime TMDB API key.
type TMDBKeyStore interface {
	GetTMDBAPIKeyInfo() settingsstore.TMDBKeyInfo
	SetTMDBAPIKey(key string) error
	ClearTMDBAPIKey() error
}

// CatalogSeedSettingsStore manages the catalog seed schedule.
type CatalogSeedSettingsStore interface {
	GetCatalogSeedConfigInfo() settingsstore.CatalogSeedConfigInfo
	GetCatalogSeedStatus() settingsstore.CatalogSeedStatus
	SetCatalogSeedEnabled(enabled bool) error
	SetCatalogSeedSchedule(schedule string) error
}

// SeedScheduler runs and reschedules catalog seeding.
type SeedScheduler interface {
	Reschedule() error
	RunNow(ctx context.Context, trigger string) (*catalog.SeedResult, error)
	IsSeeding() bool
}

// SettingsAuditor records settings changes.
type SettingsAuditor interface {
	LogSettings(userID, action, description string)
}

// --- Audit ---

// AuditReader pages through a user's audit events.
type AuditReader interface {
	GetEvents(userID string, limit, offset int) ([]entities.AuditEvent, int64, error)
	GetEventsByType(eventType entities.AuditEventType, userID string, limit, offset int) ([]entities.AuditEvent, int64, error)
}

// --- Tasks ---

// TaskQueue enqueues background tasks and reports their status.
type TaskQueue interface {
	Enqueue(task backlite.Task) (string, error)
	Status(ctx context.Context, taskID string) (backlite.TaskStatus, error)
}
