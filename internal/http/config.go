package http

import (
	"context"

	"github.com/mrlokans/filmlog/internal/auth"
	"github.com/mrlokans/filmlog/internal/config"
)

// RouterConfig contains all dependencies and configuration needed
// to create the HTTP router. Optional dependencies may be nil and
// their routes are then not registered.
type RouterConfig struct {
	// Context detached background work started by handlers inherits
	Context context.Context

	// Core dependencies
	Database Pinger
	Version  string

	// Identity
	AuthMiddleware *auth.Middleware

	// Catalog and reviews
	Movies   MovieLister
	Resolver MovieResolver
	Reviews  ReviewService
	Authors  AuthorCache
	Profiles ProfileStore

	// Letterboxd import
	Importer   LetterboxdImporter
	Runs       RunStore
	Letterboxd LetterboxdSettingsStore

	// Runtime settings
	TMDBKey     TMDBKeyStore
	CatalogSeed CatalogSeedSettingsStore
	Seeder      SeedScheduler

	// Audit trail
	AuditReader     AuditReader
	SettingsAuditor SettingsAuditor
	Audit           config.Audit

	// Task queue client (optional)
	TaskQueue TaskQueue
}
