// Package database provides the data access layer for the application.
//
// # Architecture
//
// The database layer is organized into domain-specific sub-packages:
//
//	database/
//	├── database.go      # Connection setup, migrations, raw settings access
//	├── movies/          # Movie catalog entries
//	├── reviews/         # Reviews and the import duplicate checks
//	├── users/           # User profiles and Letterboxd integration records
//	├── sync/            # Background run progress tracking
//	├── settings/        # Application settings
//	└── audit/           # Audit events
//
// # Using Sub-packages
//
// Each sub-package provides a Repository type with domain-specific operations:
//
//	db, err := database.NewDatabase("./filmlog.db")
//
//	moviesRepo := movies.NewRepository(db.DB)
//	reviewsRepo := reviews.NewRepository(db.DB)
//
//	movie, err := moviesRepo.GetMovie("603")
//	imported, err := reviewsRepo.ExistsBySourceID(userID, reviewID)
//
// # Interface Implementations
//
//   - movies.Repository: implements catalog.MovieStore
//   - reviews.Repository: implements importers.ReviewStore and reviews.ReviewStore
//   - users.Repository: implements reviews.ProfileStore and importers.IntegrationStore
//   - sync.Repository: implements importers.RunTracker and http.RunStore
//
// # Adding a New Domain
//
//  1. Create a new sub-package: internal/database/watchlist/
//  2. Define a Repository struct with a *gorm.DB field
//  3. Add NewRepository(db *gorm.DB) constructor
//  4. Implement the required interface
//  5. Add compile-time interface check in internal/interfaces/checks.go
package database
