package importers

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/mrlokans/filmlog/internal/entities"
)

type feedItem struct {
	tmdbID  string
	title   string
	year    string
	rating  string
	watched string
	rewatch string
	guid    string
	pubDate string
	review  string
	link    string
}

func buildFeed(items ...feedItem) []byte {
	var b strings.Builder
	b.WriteString(`<?xml version="1.0" encoding="utf-8"?>
<rss version="2.0" xmlns:letterboxd="https://letterboxd.com" xmlns:tmdb="https://themoviedb.org">
<channel><title>Letterboxd - test</title>`)
	for _, it := range items {
		b.WriteString("<item>")
		fmt.Fprintf(&b, "<title>%s, %s</title>", it.title, it.year)
		fmt.Fprintf(&b, "<link>%s</link>", it.link)
		fmt.Fprintf(&b, `<guid isPermaLink="false">%s</guid>`, it.guid)
		if it.pubDate != "" {
			fmt.Fprintf(&b, "<pubDate>%s</pubDate>", it.pubDate)
		}
		if it.watched != "" {
			fmt.Fprintf(&b, "<letterboxd:watchedDate>%s</letterboxd:watchedDate>", it.watched)
		}
		if it.rewatch != "" {
			fmt.Fprintf(&b, "<letterboxd:rewatch>%s</letterboxd:rewatch>", it.rewatch)
		}
		fmt.Fprintf(&b, "<letterboxd:filmTitle>%s</letterboxd:filmTitle>", it.title)
		fmt.Fprintf(&b, "<letterboxd:filmYear>%s</letterboxd:filmYear>", it.year)
		if it.rating != "" {
			fmt.Fprintf(&b, "<letterboxd:memberRating>%s</letterboxd:memberRating>", it.rating)
		}
		fmt.Fprintf(&b, "<tmdb:movieId>%s</tmdb:movieId>", it.tmdbID)
		fmt.Fprintf(&b, "<description><![CDATA[%s]]></description>", it.review)
		b.WriteString("</item>")
	}
	b.WriteString("</channel></rss>")
	return []byte(b.String())
}

type fakeFeed struct {
	data  []byte
	err   error
	calls int
}

func (f *fakeFeed) Fetch(ctx context.Context, handle string) ([]byte, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.data, nil
}

type fakeResolver struct {
	known map[int]bool
	calls []int
}

func (r *fakeResolver) EnsureMovie(ctx context.Context, tmdbID int) error {
	r.calls = append(r.calls, tmdbID)
	if !r.known[tmdbID] {
		return errors.New("movie not found on TMDB")
	}
	return nil
}

type memoryReviews struct {
	mu      sync.Mutex
	reviews map[string]*entities.Review
	saves   int
	saveErr error
}

func newMemoryReviews() *memoryReviews {
	return &memoryReviews{reviews: make(map[string]*entities.Review)}
}

func (m *memoryReviews) put(r *entities.Review) {
	r.ID = entities.ReviewKey(r.UserID, r.MovieID)
	m.reviews[r.ID] = r
}

func (m *memoryReviews) ExistsByUserMovie(userID, movieID string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.reviews[entities.ReviewKey(userID, movieID)]
	return ok, nil
}

func (m *memoryReviews) ExistsBySourceID(userID, sourceReviewID string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, r := range m.reviews {
		if r.UserID == userID && r.LetterboxdReviewID == sourceReviewID {
			return true, nil
		}
	}
	return false, nil
}

func (m *memoryReviews) SaveReview(review *entities.Review) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.saveErr != nil {
		return m.saveErr
	}
	m.saves++
	review.ID = entities.ReviewKey(review.UserID, review.MovieID)
	m.reviews[review.ID] = review
	return nil
}

type memoryArchive struct {
	saved [][]byte
}

func (a *memoryArchive) SaveRaw(data []byte, ext string) (string, error) {
	a.saved = append(a.saved, data)
	return fmt.Sprintf("feed-%d.%s", len(a.saved), ext), nil
}

type memoryIntegrations struct {
	integrations map[string]*entities.LetterboxdIntegration
	records      int
}

func newMemoryIntegrations() *memoryIntegrations {
	return &memoryIntegrations{integrations: make(map[string]*entities.LetterboxdIntegration)}
}

func (m *memoryIntegrations) GetLetterboxdIntegration(userID string) (*entities.LetterboxdIntegration, error) {
	if i, ok := m.integrations[userID]; ok {
		return i, nil
	}
	return &entities.LetterboxdIntegration{UserID: userID}, nil
}

func (m *memoryIntegrations) RecordLetterboxdImport(userID, username string, imported int, at time.Time) error {
	m.records++
	i, ok := m.integrations[userID]
	if !ok {
		i = &entities.LetterboxdIntegration{UserID: userID}
		m.integrations[userID] = i
	}
	i.Username = username
	i.TotalReviewsImported += imported
	i.LastImportDate = &at
	return nil
}

type memoryRuns struct {
	running   bool
	started   []string
	updates   int
	completed map[string]bool
	errors    map[string][]string
	messages  map[string]string
}

func newMemoryRuns() *memoryRuns {
	return &memoryRuns{
		completed: make(map[string]bool),
		errors:    make(map[string][]string),
		messages:  make(map[string]string),
	}
}

func (m *memoryRuns) StartRun(runID, userID string, syncType entities.SyncType) error {
	m.started = append(m.started, runID)
	return nil
}

func (m *memoryRuns) UpdateProgress(runID string, total, processed, succeeded, failed, skipped int, currentItem string) error {
	m.updates++
	return nil
}

func (m *memoryRuns) CompleteRun(runID string, succeeded bool, itemErrors []string, errorMsg string) error {
	m.completed[runID] = succeeded
	m.errors[runID] = itemErrors
	m.messages[runID] = errorMsg
	return nil
}

func (m *memoryRuns) IsRunning(userID string, syncType entities.SyncType) (bool, error) {
	return m.running, nil
}

type auditCall struct {
	userID   string
	imported int
	skipped  int
	failed   int
	err      error
}

type memoryAuditor struct {
	calls []auditCall
}

func (a *memoryAuditor) LogImport(userID, source, description string, imported, skipped, failed int, err error) {
	a.calls = append(a.calls, auditCall{userID: userID, imported: imported, skipped: skipped, failed: failed, err: err})
}

func noSleep(ctx context.Context, d time.Duration) error {
	return ctx.Err()
}
