package entrypoint

import (
	"log"

	"github.com/mrlokans/filmlog/internal/audit"
	"github.com/mrlokans/filmlog/internal/catalog"
	"github.com/mrlokans/filmlog/internal/config"
	"github.com/mrlokans/filmlog/internal/database"
	auditRepo "github.com/mrlokans/filmlog/internal/database/audit"
	"github.com/mrlokans/filmlog/internal/database/movies"
	reviewsRepo "github.com/mrlokans/filmlog/internal/database/reviews"
	"github.com/mrlokans/filmlog/internal/database/settings"
	"github.com/mrlokans/filmlog/internal/database/sync"
	"github.com/mrlokans/filmlog/internal/database/users"
	"github.com/mrlokans/filmlog/internal/importers"
	"github.com/mrlokans/filmlog/internal/letterboxd"
	"github.com/mrlokans/filmlog/internal/reviews"
	"github.com/mrlokans/filmlog/internal/scheduler"
	"github.com/mrlokans/filmlog/internal/settingsstore"
	"github.com/mrlokans/filmlog/internal/tmdb"
)

// Services holds the application's wired repositories and services.
// It is shared by the HTTP server and the CLI commands.
type Services struct {
	Movies   *movies.Repository
	Reviews  *reviewsRepo.Repository
	Users    *users.Repository
	Runs     *sync.Repository
	Settings *settingsstore.SettingsStore
	Audit    *audit.Service

	TMDB     *tmdb.Client
	Resolver *catalog.Resolver

	ReviewService *reviews.Service
	Letterboxd    *importers.LetterboxdService
	SeedScheduler *scheduler.CatalogSeedScheduler
}

// NewServices wires every service on top of an opened database.
func NewServices(cfg *config.Config, db *database.Database) *Services {
	s := &Services{
		Movies:   movies.NewRepository(db.DB),
		Reviews:  reviewsRepo.NewRepository(db.DB),
		Users:    users.NewRepository(db.DB),
		Runs:     sync.NewRepository(db.DB),
		Settings: settingsstore.New(settings.NewRepository(db.DB)),
		Audit:    audit.NewService(auditRepo.NewRepository(db.DB)),
	}

	// The key is looked up per request so a key saved in settings applies without a restart.
	s.TMDB = tmdb.NewClient(tmdb.Options{
		BaseURL:           cfg.TMDB.BaseURL,
		APIKey:            s.Settings.GetTMDBAPIKey,
		RequestsPerSecond: cfg.TMDB.RequestsPerSecond,
		CacheTTL:          cfg.TMDB.CacheTTL,
	})
	s.Resolver = catalog.NewResolver(s.Movies, s.TMDB)

	s.ReviewService = reviews.NewService(s.Reviews, s.Users, s.Resolver)
	s.ReviewService.SetAuditor(s.Audit)

	feed := letterboxd.NewClient(cfg.Letterboxd.FeedBaseURL, cfg.Letterboxd.Relay())
	orchestrator := importers.NewOrchestrator(feed, s.Resolver, s.Reviews, cfg.Import.RecordDelay)
	if cfg.Audit.Dir != "" {
		orchestrator.SetFeedArchiver(audit.NewArchive(cfg.Audit.Dir))
		log.Printf("Raw Letterboxd feeds will be archived to %s", cfg.Audit.Dir)
	}
	s.Letterboxd = importers.NewLetterboxdService(orchestrator, s.Users, s.Runs)
	s.Letterboxd.SetAuditor(s.Audit)

	seeder := catalog.NewSeeder(s.Movies, s.TMDB, cfg.Catalog.SeedDelay)
	s.SeedScheduler = scheduler.NewCatalogSeedScheduler(seeder, s.Settings, s.Audit)

	return s
}
