package importers

import (
	"context"
	"fmt"
	"log"
	"strconv"
	"time"

	"github.com/mrlokans/filmlog/internal/entities"
	"github.com/mrlokans/filmlog/internal/letterboxd"
)

// DefaultRecordDelay spaces consecutive records to stay under the TMDB rate limit.
const DefaultRecordDelay = 300 * time.Millisecond

// FeedSource retrieves the raw Letterboxd feed for a member handle.
type FeedSource interface {
	Fetch(ctx context.Context, handle string) ([]byte, error)
}

// MovieResolver makes sure a catalog entry exists for a TMDB id.
type MovieResolver interface {
	EnsureMovie(ctx context.Context, tmdbID int) error
}

// ReviewStore is the review persistence an import needs.
type ReviewStore interface {
	ExistsByUserMovie(userID, movieID string) (bool, error)
	ExistsBySourceID(userID, sourceReviewID string) (bool, error)
	SaveReview(review *entities.Review) error
}

// FeedArchiver keeps a copy of each fetched feed.
type FeedArchiver interface {
	SaveRaw(data []byte, ext string) (string, error)
}

// Orchestrator runs Letterboxd imports.
type Orchestrator struct {
	feed     FeedSource
	resolver MovieResolver
	reviews  ReviewStore
	archive  FeedArchiver
	delay    time.Duration
	now      func() time.Time
	sleep    func(ctx context.Context, d time.Duration) error
}

// NewOrchestrator creates an orchestrator that waits delay between records.
func NewOrchestrator(feed FeedSource, resolver MovieResolver, reviews ReviewStore, delay time.Duration) *Orchestrator {
	return &Orchestrator{
		feed:     feed,
		resolver: resolver,
		reviews:  reviews,
		delay:    delay,
		now:      time.Now,
		sleep:    sleepContext,
	}
}

// SetFeedArchiver enables archiving of every fetched feed.
func (o *Orchestrator) SetFeedArchiver(archive FeedArchiver) {
	o.archive = archive
}

// Run imports the handle's feed for userID. It never returns an error: a fetch
// or parse failure yields Success=false with the reason as the only error line.
// onProgress may be nil.
func (o *Orchestrator) Run(ctx context.Context, userID, handle string, onProgress ProgressFunc) ImportResult {
	if onProgress == nil {
		onProgress = func(ImportProgress) {}
	}

	raw, err := o.feed.Fetch(ctx, handle)
	if err != nil {
		log.Printf("Letterboxd import: %s for %q failed: %v", StateFetching, handle, err)
		return failedResult(err.Error())
	}
	o.archiveFeed(raw)

	feed, err := letterboxd.ParseFeed(raw)
	if err != nil {
		log.Printf("Letterboxd import: %s for %q failed: %v", StateParsing, handle, err)
		return failedResult(err.Error())
	}
	if feed.Dropped > 0 {
		log.Printf("Letterboxd import: dropped %d feed entries without a movie id or guid", feed.Dropped)
	}

	result := ImportResult{
		Total:   len(feed.Records),
		Dropped: feed.Dropped,
		Errors:  []string{},
		Records: make([]RecordOutcome, 0, len(feed.Records)),
	}
	progress := ImportProgress{State: StateImporting, Total: len(feed.Records)}
	onProgress(progress)

	for i, record := range feed.Records {
		if err := ctx.Err(); err != nil {
			return o.cancelled(result, progress, err)
		}

		progress.CurrentMovie = record.Label()
		outcome := o.importRecord(ctx, userID, record)
		result.Records = append(result.Records, outcome)

		switch outcome.Outcome {
		case OutcomeImported:
			progress.Imported++
		case OutcomeSkipped:
			progress.Skipped++
		case OutcomeFailed:
			progress.Failed++
			result.Errors = append(result.Errors, fmt.Sprintf("%s: %s", record.FilmTitle, outcome.Reason))
		}
		progress.Processed++
		onProgress(progress)

		if i < len(feed.Records)-1 {
			if err := o.sleep(ctx, o.delay); err != nil {
				return o.cancelled(result, progress, err)
			}
		}
	}

	result.Success = true
	result.State = StateComplete
	applyCounters(&result, progress)
	log.Printf("Letterboxd import: %s finished for user %s: %d imported, %d skipped, %d failed",
		handle, userID, result.Imported, result.Skipped, result.Failed)
	return result
}

func (o *Orchestrator) cancelled(result ImportResult, progress ImportProgress, err error) ImportResult {
	result.Success = false
	result.State = StateFailed
	result.Errors = append(result.Errors, fmt.Sprintf("import cancelled: %v", err))
	applyCounters(&result, progress)
	return result
}

func applyCounters(result *ImportResult, progress ImportProgress) {
	result.Processed = progress.Processed
	result.Imported = progress.Imported
	result.Skipped = progress.Skipped
	result.Failed = progress.Failed
}

func (o *Orchestrator) archiveFeed(raw []byte) {
	if o.archive == nil {
		return
	}
	if _, err := o.archive.SaveRaw(raw, "xml"); err != nil {
		log.Printf("Letterboxd import: failed to archive feed: %v", err)
	}
}

// importRecord resolves, deduplicates and stores a single record.
func (o *Orchestrator) importRecord(ctx context.Context, userID string, record letterboxd.ReviewRecord) RecordOutcome {
	movieID := strconv.Itoa(record.TMDBID)
	outcome := RecordOutcome{Label: record.Label(), MovieID: movieID}

	if err := o.resolver.EnsureMovie(ctx, record.TMDBID); err != nil {
		log.Printf("Letterboxd import: resolve %s (%s): %v", record.Label(), movieID, err)
		outcome.Outcome = OutcomeFailed
		outcome.Reason = fmt.Sprintf("Movie not found on TMDB: %s", record.Label())
		return outcome
	}

	dup, err := o.checkDuplicate(userID, movieID, record.ReviewID)
	if err != nil {
		outcome.Outcome = OutcomeFailed
		outcome.Reason = err.Error()
		return outcome
	}
	if dup != DuplicateNone {
		outcome.Outcome = OutcomeSkipped
		outcome.Reason = dup.String()
		return outcome
	}

	if err := o.reviews.SaveReview(o.buildReview(userID, movieID, record)); err != nil {
		outcome.Outcome = OutcomeFailed
		outcome.Reason = fmt.Sprintf("save review: %v", err)
		return outcome
	}

	outcome.Outcome = OutcomeImported
	return outcome
}

// checkDuplicate consults the source id first, then the (user, movie) key.
func (o *Orchestrator) checkDuplicate(userID, movieID, sourceReviewID string) (Duplicate, error) {
	if sourceReviewID != "" {
		exists, err := o.reviews.ExistsBySourceID(userID, sourceReviewID)
		if err != nil {
			return DuplicateNone, fmt.Errorf("check imported reviews: %w", err)
		}
		if exists {
			return DuplicateBySourceID, nil
		}
	}

	exists, err := o.reviews.ExistsByUserMovie(userID, movieID)
	if err != nil {
		return DuplicateNone, fmt.Errorf("check existing review: %w", err)
	}
	if exists {
		return DuplicateByUserMovie, nil
	}
	return DuplicateNone, nil
}

func (o *Orchestrator) buildReview(userID, movieID string, record letterboxd.ReviewRecord) *entities.Review {
	now := o.now()
	createdAt, ok := parsePubDate(record.PubDate)
	if !ok {
		createdAt = now
	}

	return &entities.Review{
		UserID:             userID,
		MovieID:            movieID,
		Rating:             record.Rating,
		Text:               record.Review,
		WatchedDate:        parseWatchedDate(record.WatchedDate),
		Rewatch:            record.Rewatch,
		Source:             entities.ReviewSourceLetterboxd,
		LetterboxdLink:     record.Link,
		LetterboxdReviewID: record.ReviewID,
		CreatedAt:          createdAt,
		UpdatedAt:          now,
	}
}

var pubDateLayouts = []string{
	time.RFC1123Z,
	"Mon, 2 Jan 2006 15:04:05 -0700",
	time.RFC1123,
	"Mon, 2 Jan 2006 15:04:05 MST",
	time.RFC3339,
}

func parsePubDate(value string) (time.Time, bool) {
	if value == "" {
		return time.Time{}, false
	}
	for _, layout := range pubDateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// parseWatchedDate reads a YYYY-MM-DD calendar date. Invalid or empty dates yield nil.
func parseWatchedDate(value string) *time.Time {
	if value == "" {
		return nil
	}
	t, err := time.Parse("2006-01-02", value)
	if err != nil {
		return nil
	}
	return &t
}
