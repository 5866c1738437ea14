package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sort"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/mikestefanello/backlite"

	"github.com/mrlokans/filmlog/internal/catalog"
	"github.com/mrlokans/filmlog/internal/database/movies"
	syncRepo "github.com/mrlokans/filmlog/internal/database/sync"
	"github.com/mrlokans/filmlog/internal/database/users"
	"github.com/mrlokans/filmlog/internal/entities"
	"github.com/mrlokans/filmlog/internal/importers"
	"github.com/mrlokans/filmlog/internal/reviews"
	"github.com/mrlokans/filmlog/internal/settingsstore"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// performRequest sends a request with an optional JSON body through the router.
func performRequest(router http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decode[T any](w *httptest.ResponseRecorder) T {
	var v T
	_ = json.Unmarshal(w.Body.Bytes(), &v)
	return v
}

// --- Profiles ---

type memoryProfiles struct {
	profiles map[string]*entities.UserProfile
	err      error
}

func newMemoryProfiles() *memoryProfiles {
	return &memoryProfiles{profiles: make(map[string]*entities.UserProfile)}
}

func (m *memoryProfiles) GetProfile(userID string) (*entities.UserProfile, error) {
	if m.err != nil {
		return nil, m.err
	}
	p, ok := m.profiles[userID]
	if !ok {
		return nil, users.ErrProfileNotFound
	}
	return p, nil
}

func (m *memoryProfiles) UpsertProfile(profile *entities.UserProfile) error {
	if m.err != nil {
		return m.err
	}
	m.profiles[profile.ID] = profile
	return nil
}

type forgetfulAuthors struct {
	forgotten []string
}

func (f *forgetfulAuthors) ForgetAuthor(userID string) {
	f.forgotten = append(f.forgotten, userID)
}

// --- Catalog ---

type fakeCatalog struct {
	movies   []entities.Movie
	lastOpts movies.ListOptions
}

func (f *fakeCatalog) ListMovies(opts movies.ListOptions) ([]entities.Movie, int64, error) {
	f.lastOpts = opts
	end := opts.Offset + opts.Limit
	if end > len(f.movies) {
		end = len(f.movies)
	}
	if opts.Offset >= len(f.movies) {
		return []entities.Movie{}, int64(len(f.movies)), nil
	}
	return f.movies[opts.Offset:end], int64(len(f.movies)), nil
}

type fakeResolver struct {
	movies map[int]*entities.Movie
	err    error
}

func (f *fakeResolver) Resolve(ctx context.Context, tmdbID int) (*entities.Movie, error) {
	if f.err != nil {
		return nil, f.err
	}
	if m, ok := f.movies[tmdbID]; ok {
		return m, nil
	}
	return nil, catalog.ErrMovieNotResolvable
}

// --- Reviews ---

type fakeReviews struct {
	mu      sync.Mutex
	reviews map[string]*entities.Review
	saveErr error
	listing *reviews.MovieReviews
	order   reviews.SortOrder
}

func newFakeReviews() *fakeReviews {
	return &fakeReviews{reviews: make(map[string]*entities.Review)}
}

func (f *fakeReviews) Get(userID, movieID string) (*entities.Review, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	r, ok := f.reviews[entities.ReviewKey(userID, movieID)]
	if !ok {
		return nil, reviews.ErrReviewNotFound
	}
	return r, nil
}

func (f *fakeReviews) ListForUser(userID string) ([]entities.Review, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var list []entities.Review
	for _, r := range f.reviews {
		if r.UserID == userID {
			list = append(list, *r)
		}
	}
	sort.Slice(list, func(i, j int) bool { return list[i].MovieID < list[j].MovieID })
	return list, nil
}

func (f *fakeReviews) Save(ctx context.Context, userID, movieID string, input reviews.Input) (*entities.Review, error) {
	if f.saveErr != nil {
		return nil, f.saveErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	r := &entities.Review{
		ID:      entities.ReviewKey(userID, movieID),
		UserID:  userID,
		MovieID: movieID,
		Rating:  input.Rating,
		Text:    input.Text,
		Source:  entities.ReviewSourceManual,
	}
	f.reviews[r.ID] = r
	return r, nil
}

func (f *fakeReviews) Delete(userID, movieID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	key := entities.ReviewKey(userID, movieID)
	if _, ok := f.reviews[key]; !ok {
		return reviews.ErrReviewNotFound
	}
	delete(f.reviews, key)
	return nil
}

func (f *fakeReviews) ListForMovie(ctx context.Context, movieID string, order reviews.SortOrder) (*reviews.MovieReviews, error) {
	f.order = order
	if f.listing != nil {
		return f.listing, nil
	}
	return &reviews.MovieReviews{MovieID: movieID, Reviews: []reviews.AuthoredReview{}}, nil
}

// --- Letterboxd ---

type fakeImporter struct {
	savedHandle string
	running     bool
	result      importers.ImportResult
	executed    []string
	begun       int
}

func (f *fakeImporter) ResolveHandle(userID, handle string) (string, error) {
	if handle != "" {
		return handle, nil
	}
	if f.savedHandle == "" {
		return "", importers.ErrNoHandle
	}
	return f.savedHandle, nil
}

func (f *fakeImporter) BeginRun(userID string) (string, error) {
	if f.running {
		return "", importers.ErrImportRunning
	}
	f.begun++
	return "run-1", nil
}

func (f *fakeImporter) ExecuteRun(ctx context.Context, runID, userID, handle string, onProgress importers.ProgressFunc) importers.ImportResult {
	f.executed = append(f.executed, handle)
	return f.result
}

type memoryRuns struct {
	runs   map[string]*entities.SyncProgress
	closed map[string]string
}

func newMemoryRuns() *memoryRuns {
	return &memoryRuns{
		runs:   make(map[string]*entities.SyncProgress),
		closed: make(map[string]string),
	}
}

func (m *memoryRuns) GetRun(runID string) (*entities.SyncProgress, error) {
	run, ok := m.runs[runID]
	if !ok {
		return nil, syncRepo.ErrRunNotFound
	}
	return run, nil
}

func (m *memoryRuns) CompleteRun(runID string, succeeded bool, itemErrors []string, errorMsg string) error {
	m.closed[runID] = errorMsg
	return nil
}

type memoryIntegrations struct {
	integrations map[string]*entities.LetterboxdIntegration
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

func (m *memoryIntegrations) SetLetterboxdUsername(userID, username string) error {
	i, ok := m.integrations[userID]
	if !ok {
		i = &entities.LetterboxdIntegration{UserID: userID}
		m.integrations[userID] = i
	}
	i.Username = username
	return nil
}

// --- Settings ---

type memoryTMDBKey struct {
	key string
}

func (m *memoryTMDBKey) GetTMDBAPIKeyInfo() settingsstore.TMDBKeyInfo {
	if m.key == "" {
		return settingsstore.TMDBKeyInfo{Source: settingsstore.SourceDefault}
	}
	return settingsstore.TMDBKeyInfo{HasKey: true, Key: "****", Source: settingsstore.SourceDatabase}
}

func (m *memoryTMDBKey) SetTMDBAPIKey(key string) error {
	m.key = key
	return nil
}

func (m *memoryTMDBKey) ClearTMDBAPIKey() error {
	m.key = ""
	return nil
}

type memorySeedSettings struct {
	enabled  bool
	schedule string
}

func (m *memorySeedSettings) GetCatalogSeedConfigInfo() settingsstore.CatalogSeedConfigInfo {
	return settingsstore.CatalogSeedConfigInfo{Enabled: m.enabled, Schedule: m.schedule}
}

func (m *memorySeedSettings) GetCatalogSeedStatus() settingsstore.CatalogSeedStatus {
	return settingsstore.CatalogSeedStatus{Status: "success", MoviesAdded: 12}
}

func (m *memorySeedSettings) SetCatalogSeedEnabled(enabled bool) error {
	m.enabled = enabled
	return nil
}

func (m *memorySeedSettings) SetCatalogSeedSchedule(schedule string) error {
	m.schedule = schedule
	return nil
}

type fakeSeedScheduler struct {
	mu          sync.Mutex
	seeding     bool
	reschedules int
	runs        chan string
}

func (f *fakeSeedScheduler) Reschedule() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.reschedules++
	return nil
}

func (f *fakeSeedScheduler) RunNow(ctx context.Context, trigger string) (*catalog.SeedResult, error) {
	if f.runs != nil {
		f.runs <- trigger
	}
	return &catalog.SeedResult{}, nil
}

func (f *fakeSeedScheduler) IsSeeding() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.seeding
}

type settingsAuditCall struct {
	userID string
	action string
}

type memorySettingsAuditor struct {
	calls []settingsAuditCall
}

func (m *memorySettingsAuditor) LogSettings(userID, action, description string) {
	m.calls = append(m.calls, settingsAuditCall{userID: userID, action: action})
}

// --- Audit ---

type memoryAuditReader struct {
	events []entities.AuditEvent
}

func (m *memoryAuditReader) GetEvents(userID string, limit, offset int) ([]entities.AuditEvent, int64, error) {
	return m.filter(userID, ""), int64(len(m.filter(userID, ""))), nil
}

func (m *memoryAuditReader) GetEventsByType(eventType entities.AuditEventType, userID string, limit, offset int) ([]entities.AuditEvent, int64, error) {
	events := m.filter(userID, eventType)
	return events, int64(len(events)), nil
}

func (m *memoryAuditReader) filter(userID string, eventType entities.AuditEventType) []entities.AuditEvent {
	out := []entities.AuditEvent{}
	for _, e := range m.events {
		if e.UserID == userID && (eventType == "" || e.EventType == eventType) {
			out = append(out, e)
		}
	}
	return out
}

// --- Tasks ---

type memoryQueue struct {
	enqueued []backlite.Task
	statuses map[string]backlite.TaskStatus
	err      error
}

func newMemoryQueue() *memoryQueue {
	return &memoryQueue{statuses: make(map[string]backlite.TaskStatus)}
}

func (m *memoryQueue) Enqueue(task backlite.Task) (string, error) {
	if m.err != nil {
		return "", m.err
	}
	m.enqueued = append(m.enqueued, task)
	return "task-1", nil
}

func (m *memoryQueue) Status(ctx context.Context, taskID string) (backlite.TaskStatus, error) {
	status, ok := m.statuses[taskID]
	if !ok {
		return backlite.TaskStatusNotFound, nil
	}
	return status, nil
}

var errBoom = errors.New("boom")
