// Package interfaces documents the core abstractions used throughout the application.
//
// # Interface Categories
//
// ## Data Access Interfaces
//
//   - catalog.MovieStore: catalog persistence (internal/catalog/resolver.go)
//   - reviews.ReviewStore, importers.ReviewStore: review persistence
//   - importers.IntegrationStore: per-user Letterboxd settings (internal/importers/service.go)
//   - importers.RunTracker: run progress that clients poll (internal/importers/service.go)
//
// ## External Service Interfaces
//
//   - importers.FeedSource: raw Letterboxd RSS feeds (internal/letterboxd)
//   - catalog.MovieFetcher, catalog.ListFetcher: TMDB movie details and lists (internal/tmdb)
//
// ## HTTP Interfaces
//
// Controllers depend on the narrow interfaces in internal/http/stores.go.
//
// # Adding a New Review Source
//
//  1. Implement a feed client next to internal/letterboxd that returns raw records.
//
//  2. Map the records onto entities.Review in internal/importers, reusing
//     importers.MovieResolver so every review points at a catalog entry.
//
//  3. Register the HTTP handler in internal/http/router.go and, for background
//     runs, a backlite queue in internal/tasks.
//
// # Compile-Time Interface Checks
//
// All implementations should include compile-time checks to ensure they satisfy
// their interfaces. This catches missing methods at compile time rather than runtime:
//
//	var _ SomeInterface = (*MyImplementation)(nil)
//
// See checks.go for the full list.
package interfaces
