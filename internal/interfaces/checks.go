package interfaces

// This file contains compile-time interface implementation checks.
// These ensure that concrete types satisfy their interfaces at compile time,
// catching missing methods before runtime.
//
// To verify all checks pass: go build ./internal/interfaces/...

import (
	"github.com/mrlokans/filmlog/internal/audit"
	"github.com/mrlokans/filmlog/internal/catalog"
	"github.com/mrlokans/filmlog/internal/database"
	"github.com/mrlokans/filmlog/internal/database/movies"
	reviewsRepo "github.com/mrlokans/filmlog/internal/database/reviews"
	"github.com/mrlokans/filmlog/internal/database/sync"
	"github.com/mrlokans/filmlog/internal/database/users"
	"github.com/mrlokans/filmlog/internal/http"
	"github.com/mrlokans/filmlog/internal/importers"
	"github.com/mrlokans/filmlog/internal/letterboxd"
	"github.com/mrlokans/filmlog/internal/reviews"
	"github.com/mrlokans/filmlog/internal/scheduler"
	"github.com/mrlokans/filmlog/internal/settingsstore"
	"github.com/mrlokans/filmlog/internal/tasks"
	"github.com/mrlokans/filmlog/internal/tmdb"
)

// =============================================================================
// Data Access Layer
// =============================================================================

var _ catalog.MovieStore = (*movies.Repository)(nil)
var _ http.MovieLister = (*movies.Repository)(nil)

var _ reviews.ReviewStore = (*reviewsRepo.Repository)(nil)
var _ importers.ReviewStore = (*reviewsRepo.Repository)(nil)

var _ reviews.ProfileStore = (*users.Repository)(nil)
var _ http.ProfileStore = (*users.Repository)(nil)
var _ http.LetterboxdSettingsStore = (*users.Repository)(nil)
var _ importers.IntegrationStore = (*users.Repository)(nil)

var _ http.Pinger = (*database.Database)(nil)

// =============================================================================
// External Services
// =============================================================================

var _ importers.FeedSource = (*letterboxd.Client)(nil)
var _ catalog.MovieFetcher = (*tmdb.Client)(nil)
var _ catalog.ListFetcher = (*tmdb.Client)(nil)

// =============================================================================
// Progress Tracking
// =============================================================================

var _ importers.RunTracker = (*sync.Repository)(nil)
var _ http.RunStore = (*sync.Repository)(nil)

// =============================================================================
// Import Pipeline and Catalog
// =============================================================================

var _ importers.MovieResolver = (*catalog.Resolver)(nil)
var _ reviews.MovieResolver = (*catalog.Resolver)(nil)
var _ http.MovieResolver = (*catalog.Resolver)(nil)
var _ importers.FeedArchiver = (*audit.Archive)(nil)

var _ http.LetterboxdImporter = (*importers.LetterboxdService)(nil)
var _ tasks.LetterboxdRunner = (*importers.LetterboxdService)(nil)

var _ http.ReviewService = (*reviews.Service)(nil)
var _ http.AuthorCache = (*reviews.Service)(nil)

var _ scheduler.Seeder = (*catalog.Seeder)(nil)
var _ scheduler.SeedSettings = (*settingsstore.SettingsStore)(nil)
var _ http.SeedScheduler = (*scheduler.CatalogSeedScheduler)(nil)
var _ tasks.CatalogSeedRunner = (*scheduler.CatalogSeedScheduler)(nil)

// =============================================================================
// Settings, Audit and Tasks
// =============================================================================

var _ http.TMDBKeyStore = (*settingsstore.SettingsStore)(nil)
var _ http.CatalogSeedSettingsStore = (*settingsstore.SettingsStore)(nil)

var _ http.AuditReader = (*audit.Service)(nil)
var _ http.SettingsAuditor = (*audit.Service)(nil)
var _ importers.ImportAuditor = (*audit.Service)(nil)
var _ reviews.Auditor = (*audit.Service)(nil)
var _ scheduler.SeedAuditor = (*audit.Service)(nil)
var _ tasks.AuditEventCleaner = (*audit.Service)(nil)

var _ http.TaskQueue = (*tasks.Client)(nil)
