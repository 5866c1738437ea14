// Package importers brings reviews from external services into the local review store.
//
// # Architecture
//
// A Letterboxd import run flows through these stages:
//
//	Feed (fetch) → letterboxd.ParseFeed → per record: Resolver → duplicate check → ReviewStore
//
// The Orchestrator drives one run for one user. It processes records strictly in
// feed order, one at a time, and reports a progress snapshot after every record.
// A run moves through the states
//
//	idle → fetching → parsing → importing → complete | failed
//
// and only a fetch or parse failure (or cancellation) ends in failed. Problems with
// a single record are classified and the run continues:
//
//   - failed: the movie could not be resolved, or storage returned an error
//   - skipped: the review was imported before, or the user already reviewed the movie
//   - imported: a new review was written
//
// Nothing is retried. Running the same import again is safe because every record
// that made it in the first time is skipped by the duplicate check.
//
// LetterboxdService wraps the Orchestrator with the surrounding bookkeeping: it
// picks the saved handle when none is given, records the integration summary after
// a successful run, tracks progress rows for background runs and writes an audit
// event.
//
// # Example Usage
//
//	orchestrator := importers.NewOrchestrator(feedClient, resolver, reviewsRepo, 300*time.Millisecond)
//	result := orchestrator.Run(ctx, userID, "dave", func(p importers.ImportProgress) {
//		log.Printf("%d/%d %s", p.Processed, p.Total, p.CurrentMovie)
//	})
package importers
