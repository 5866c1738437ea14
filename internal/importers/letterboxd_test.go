package importers

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrlokans/filmlog/internal/entities"
	"github.com/mrlokans/filmlog/internal/letterboxd"
)

var (
	heat = feedItem{
		tmdbID: "949", title: "Heat", year: "1995", rating: "4.5",
		watched: "2024-03-10", rewatch: "Yes", guid: "letterboxd-review-101",
		pubDate: "Sun, 10 Mar 2024 21:15:00 +1300", review: "<p>The <b>diner</b> scene.</p>",
		link: "https://letterboxd.com/member/film/heat/",
	}
	paddington = feedItem{
		tmdbID: "346648", title: "Paddington 2", year: "2017", rating: "5.0",
		guid: "letterboxd-review-102", review: "<p>Perfect.</p>",
		link: "https://letterboxd.com/member/film/paddington-2/",
	}
	missing = feedItem{
		tmdbID: "999999", title: "Lost Reel", year: "1921", rating: "3.0",
		guid: "letterboxd-review-103", review: "<p>Gone.</p>",
	}
)

func newTestOrchestrator(feed []byte, reviews *memoryReviews, known ...int) (*Orchestrator, *fakeResolver) {
	resolver := &fakeResolver{known: make(map[int]bool)}
	for _, id := range known {
		resolver.known[id] = true
	}
	o := NewOrchestrator(&fakeFeed{data: feed}, resolver, reviews, 0)
	o.sleep = noSleep
	o.now = func() time.Time { return time.Date(2024, 4, 1, 12, 0, 0, 0, time.UTC) }
	return o, resolver
}

func TestOrchestrator_ImportedSkippedFailed(t *testing.T) {
	reviews := newMemoryReviews()
	reviews.put(&entities.Review{
		UserID: "u1", MovieID: "346648", Rating: 10,
		Source: entities.ReviewSourceLetterboxd, LetterboxdReviewID: "letterboxd-review-102",
	})
	o, _ := newTestOrchestrator(buildFeed(heat, paddington, missing), reviews, 949, 346648)

	result := o.Run(context.Background(), "u1", "member", nil)

	assert.True(t, result.Success)
	assert.Equal(t, StateComplete, result.State)
	assert.Equal(t, 3, result.Total)
	assert.Equal(t, 3, result.Processed)
	assert.Equal(t, 1, result.Imported)
	assert.Equal(t, 1, result.Skipped)
	assert.Equal(t, 1, result.Failed)
	assert.Equal(t, []string{"Lost Reel: Movie not found on TMDB: Lost Reel (1921)"}, result.Errors)

	require.Len(t, result.Records, 3)
	assert.Equal(t, OutcomeImported, result.Records[0].Outcome)
	assert.Equal(t, OutcomeSkipped, result.Records[1].Outcome)
	assert.Equal(t, "Already imported", result.Records[1].Reason)
	assert.Equal(t, OutcomeFailed, result.Records[2].Outcome)
}

func TestOrchestrator_StoresImportedReview(t *testing.T) {
	reviews := newMemoryReviews()
	o, _ := newTestOrchestrator(buildFeed(heat), reviews, 949)

	result := o.Run(context.Background(), "u1", "member", nil)
	require.True(t, result.Success)

	review, ok := reviews.reviews["u1_949"]
	require.True(t, ok)
	assert.Equal(t, "949", review.MovieID)
	assert.Equal(t, 9.0, review.Rating)
	assert.Equal(t, "The diner scene.", review.Text)
	assert.True(t, review.Rewatch)
	assert.Equal(t, entities.ReviewSourceLetterboxd, review.Source)
	assert.Equal(t, "letterboxd-review-101", review.LetterboxdReviewID)
	assert.Equal(t, "https://letterboxd.com/member/film/heat/", review.LetterboxdLink)
	require.NotNil(t, review.WatchedDate)
	assert.Equal(t, "2024-03-10", review.WatchedDate.Format("2006-01-02"))
	assert.True(t, review.CreatedAt.Equal(time.Date(2024, 3, 10, 8, 15, 0, 0, time.UTC)))
	assert.Equal(t, time.Date(2024, 4, 1, 12, 0, 0, 0, time.UTC), review.UpdatedAt)
}

func TestOrchestrator_SecondRunIsIdempotent(t *testing.T) {
	reviews := newMemoryReviews()
	o, _ := newTestOrchestrator(buildFeed(heat, paddington), reviews, 949, 346648)

	first := o.Run(context.Background(), "u1", "member", nil)
	require.Equal(t, 2, first.Imported)

	second := o.Run(context.Background(), "u1", "member", nil)
	assert.True(t, second.Success)
	assert.Equal(t, 0, second.Imported)
	assert.Equal(t, 2, second.Skipped)
	assert.Equal(t, 2, reviews.saves)
}

func TestOrchestrator_DoesNotOverwriteManualReview(t *testing.T) {
	reviews := newMemoryReviews()
	manual := &entities.Review{UserID: "u1", MovieID: "949", Rating: 6, Text: "mine", Source: entities.ReviewSourceManual}
	reviews.put(manual)
	o, _ := newTestOrchestrator(buildFeed(heat), reviews, 949)

	result := o.Run(context.Background(), "u1", "member", nil)

	assert.Equal(t, 1, result.Skipped)
	assert.Equal(t, "Review already exists for this movie", result.Records[0].Reason)
	assert.Equal(t, "mine", reviews.reviews["u1_949"].Text)
	assert.Equal(t, 0, reviews.saves)
}

func TestOrchestrator_UnresolvedMovieIsNotSaved(t *testing.T) {
	reviews := newMemoryReviews()
	o, _ := newTestOrchestrator(buildFeed(missing), reviews)

	result := o.Run(context.Background(), "u1", "member", nil)

	assert.True(t, result.Success)
	assert.Equal(t, 1, result.Failed)
	assert.Empty(t, reviews.reviews)
}

func TestOrchestrator_UnratedEntryKeepsZero(t *testing.T) {
	item := paddington
	item.rating = ""
	reviews := newMemoryReviews()
	o, _ := newTestOrchestrator(buildFeed(item), reviews, 346648)

	o.Run(context.Background(), "u1", "member", nil)

	assert.Equal(t, 0.0, reviews.reviews["u1_346648"].Rating)
	assert.Nil(t, reviews.reviews["u1_346648"].WatchedDate)
	assert.Equal(t, time.Date(2024, 4, 1, 12, 0, 0, 0, time.UTC), reviews.reviews["u1_346648"].CreatedAt)
}

func TestOrchestrator_DroppedEntriesAreNotCounted(t *testing.T) {
	noID := heat
	noID.tmdbID = ""
	noGUID := paddington
	noGUID.guid = ""
	reviews := newMemoryReviews()
	o, resolver := newTestOrchestrator(buildFeed(noID, noGUID, missing), reviews)

	result := o.Run(context.Background(), "u1", "member", nil)

	assert.Equal(t, 1, result.Total)
	assert.Equal(t, 2, result.Dropped)
	assert.Equal(t, []int{999999}, resolver.calls)
}

func TestOrchestrator_FetchFailure(t *testing.T) {
	fetchErr := &letterboxd.FeedUnavailableError{StatusCode: 404, Status: "404 Not Found"}
	resolver := &fakeResolver{}
	o := NewOrchestrator(&fakeFeed{err: fetchErr}, resolver, newMemoryReviews(), 0)

	result := o.Run(context.Background(), "u1", "nobody", nil)

	assert.False(t, result.Success)
	assert.Equal(t, StateFailed, result.State)
	assert.Equal(t, []string{fetchErr.Error()}, result.Errors)
	assert.Zero(t, result.Imported+result.Skipped+result.Failed)
	assert.Empty(t, resolver.calls)
}

func TestOrchestrator_ParseFailure(t *testing.T) {
	o, resolver := newTestOrchestrator([]byte("<html><body>not a feed"), newMemoryReviews())

	result := o.Run(context.Background(), "u1", "member", nil)

	assert.False(t, result.Success)
	require.Len(t, result.Errors, 1)
	assert.Empty(t, resolver.calls)
}

func TestOrchestrator_EmptyFeed(t *testing.T) {
	o, _ := newTestOrchestrator(buildFeed(), newMemoryReviews())

	result := o.Run(context.Background(), "u1", "member", nil)

	assert.True(t, result.Success)
	assert.Equal(t, 0, result.Total)
	assert.Empty(t, result.Errors)
}

func TestOrchestrator_ProgressIsMonotonic(t *testing.T) {
	o, _ := newTestOrchestrator(buildFeed(heat, paddington, missing), newMemoryReviews(), 949, 346648)

	var snapshots []ImportProgress
	o.Run(context.Background(), "u1", "member", func(p ImportProgress) {
		snapshots = append(snapshots, p)
	})

	require.Len(t, snapshots, 4)
	assert.Equal(t, 0, snapshots[0].Processed)
	for i := 1; i < len(snapshots); i++ {
		assert.Equal(t, snapshots[i-1].Processed+1, snapshots[i].Processed)
		assert.Equal(t, 3, snapshots[i].Total)
		p := snapshots[i]
		assert.Equal(t, p.Processed, p.Imported+p.Skipped+p.Failed)
	}
	assert.Equal(t, "Lost Reel (1921)", snapshots[3].CurrentMovie)
}

func TestOrchestrator_SleepsBetweenRecordsOnly(t *testing.T) {
	o, _ := newTestOrchestrator(buildFeed(heat, paddington, missing), newMemoryReviews(), 949, 346648)
	o.delay = time.Second
	sleeps := 0
	o.sleep = func(ctx context.Context, d time.Duration) error {
		sleeps++
		assert.Equal(t, time.Second, d)
		return nil
	}

	o.Run(context.Background(), "u1", "member", nil)

	assert.Equal(t, 2, sleeps)
}

func TestOrchestrator_Cancellation(t *testing.T) {
	o, _ := newTestOrchestrator(buildFeed(heat, paddington, missing), newMemoryReviews(), 949, 346648)
	ctx, cancel := context.WithCancel(context.Background())
	o.sleep = func(ctx context.Context, d time.Duration) error {
		cancel()
		return ctx.Err()
	}

	result := o.Run(ctx, "u1", "member", nil)

	assert.False(t, result.Success)
	assert.Equal(t, StateFailed, result.State)
	assert.Equal(t, 1, result.Processed)
	assert.Equal(t, 1, result.Imported)
	assert.Contains(t, result.Errors[len(result.Errors)-1], "import cancelled")
}

func TestOrchestrator_SaveFailureFailsRecordOnly(t *testing.T) {
	reviews := newMemoryReviews()
	reviews.saveErr = errors.New("disk full")
	o, _ := newTestOrchestrator(buildFeed(heat), reviews, 949)

	result := o.Run(context.Background(), "u1", "member", nil)

	assert.True(t, result.Success)
	assert.Equal(t, 1, result.Failed)
	assert.Equal(t, []string{"Heat: save review: disk full"}, result.Errors)
}

func TestOrchestrator_ArchivesFeed(t *testing.T) {
	feed := buildFeed(heat)
	o, _ := newTestOrchestrator(feed, newMemoryReviews(), 949)
	archive := &memoryArchive{}
	o.SetFeedArchiver(archive)

	o.Run(context.Background(), "u1", "member", nil)

	require.Len(t, archive.saved, 1)
	assert.Equal(t, feed, archive.saved[0])
}

func TestParsePubDate(t *testing.T) {
	tests := []struct {
		name  string
		value string
		ok    bool
	}{
		{"rfc1123z", "Sun, 10 Mar 2024 21:15:00 +1300", true},
		{"single digit day", "Sat, 2 Mar 2024 21:15:00 +0000", true},
		{"rfc1123", "Sun, 10 Mar 2024 21:15:00 GMT", true},
		{"rfc3339", "2024-03-10T21:15:00Z", true},
		{"empty", "", false},
		{"garbage", "yesterday", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, ok := parsePubDate(tt.value)
			assert.Equal(t, tt.ok, ok)
		})
	}
}

func TestParseWatchedDate(t *testing.T) {
	d := parseWatchedDate("2024-03-10")
	require.NotNil(t, d)
	assert.Equal(t, time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC), *d)

	assert.Nil(t, parseWatchedDate(""))
	assert.Nil(t, parseWatchedDate("10/03/2024"))
}
