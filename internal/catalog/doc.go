// Package catalog keeps the local movie catalog populated from TMDB.
//
// Two writers add catalog entries:
//
//   - Resolver materializes a single movie on demand, when an import or a
//     manual review references a movie the catalog does not have yet.
//   - Seeder bulk-loads trending, now-playing, upcoming, popular and top-rated
//     movies on a schedule or from the command line.
//
// Both treat an existing entry as final: nothing here refreshes or overwrites
// a movie once it is stored.
package catalog
