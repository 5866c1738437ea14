package catalog

import (
	"context"
	"fmt"
	"log"
	"net/url"
	"strconv"
	"time"

	"github.com/mrlokans/filmlog/internal/tmdb"
)

// DefaultSeedDelay spaces consecutive TMDB detail fetches.
const DefaultSeedDelay = 300 * time.Millisecond

// SeedSource is one TMDB list endpoint and how many of its pages to walk.
type SeedSource struct {
	Name     string
	Endpoint string
	Params   url.Values
	MaxPages int
}

// DefaultSeedSources are the lists the catalog is seeded from.
var DefaultSeedSources = []SeedSource{
	{Name: "Trending Movies", Endpoint: "trending/movie/week", MaxPages: 2},
	{Name: "Now Playing", Endpoint: "movie/now_playing", Params: url.Values{"region": {"US"}}, MaxPages: 2},
	{Name: "Upcoming", Endpoint: "movie/upcoming", Params: url.Values{"region": {"US"}}, MaxPages: 2},
	{Name: "Popular", Endpoint: "movie/popular", MaxPages: 5},
	{Name: "Top Rated", Endpoint: "movie/top_rated", MaxPages: 3},
}

// ListFetcher is the part of the TMDB client the seeder needs.
type ListFetcher interface {
	MovieFetcher
	ListMovies(ctx context.Context, endpoint string, page int, params url.Values) (*tmdb.MovieList, error)
}

// SeedResult summarizes a seeding run.
type SeedResult struct {
	Added   int      `json:"added"`
	Skipped int      `json:"skipped"`
	Failed  int      `json:"failed"`
	Errors  []string `json:"errors,omitempty"`
}

// Seeder bulk-loads TMDB list endpoints into the catalog.
type Seeder struct {
	store   MovieStore
	client  ListFetcher
	sources []SeedSource
	delay   time.Duration
	sleep   func(ctx context.Context, d time.Duration) error
}

// NewSeeder creates a seeder over DefaultSeedSources.
func NewSeeder(store MovieStore, client ListFetcher, delay time.Duration) *Seeder {
	return &Seeder{
		store:   store,
		client:  client,
		sources: DefaultSeedSources,
		delay:   delay,
		sleep:   sleepContext,
	}
}

// WithSources replaces the list endpoints the seeder walks.
func (s *Seeder) WithSources(sources []SeedSource) *Seeder {
	s.sources = sources
	return s
}

// Run walks every source. A failing list page ends that source only; a failing
// movie is counted and skipped. Only context cancellation aborts the run.
func (s *Seeder) Run(ctx context.Context) (*SeedResult, error) {
	result := &SeedResult{}
	seen := make(map[int]bool)

	for _, source := range s.sources {
		added, err := s.seedSource(ctx, source, seen, result)
		if err != nil {
			return result, err
		}
		log.Printf("Catalog seed: %s added %d new movies", source.Name, added)
	}
	return result, nil
}

func (s *Seeder) seedSource(ctx context.Context, source SeedSource, seen map[int]bool, result *SeedResult) (int, error) {
	added := 0
	for page := 1; page <= source.MaxPages; page++ {
		list, err := s.client.ListMovies(ctx, source.Endpoint, page, source.Params)
		if err != nil {
			if ctx.Err() != nil {
				return added, ctx.Err()
			}
			log.Printf("Catalog seed: %s page %d failed: %v", source.Name, page, err)
			result.Errors = append(result.Errors, fmt.Sprintf("%s page %d: %v", source.Name, page, err))
			break
		}
		if len(list.Results) == 0 {
			break
		}

		for _, summary := range list.Results {
			if seen[summary.ID] {
				continue
			}
			seen[summary.ID] = true

			ok, err := s.cacheMovie(ctx, summary.ID)
			if err != nil {
				if ctx.Err() != nil {
					return added, ctx.Err()
				}
				result.Failed++
				result.Errors = append(result.Errors, fmt.Sprintf("movie %d: %v", summary.ID, err))
				continue
			}
			if ok {
				added++
				result.Added++
			} else {
				result.Skipped++
			}
		}

		if page >= list.TotalPages {
			break
		}
	}
	return added, nil
}

// cacheMovie stores one movie. It reports false when the movie was already cached.
func (s *Seeder) cacheMovie(ctx context.Context, tmdbID int) (bool, error) {
	key := strconv.Itoa(tmdbID)
	exists, err := s.store.MovieExists(key)
	if err != nil {
		return false, err
	}
	if exists {
		return false, nil
	}

	details, err := s.client.GetMovie(ctx, tmdbID)
	if sleepErr := s.sleep(ctx, s.delay); sleepErr != nil {
		return false, sleepErr
	}
	if err != nil {
		return false, err
	}

	return true, s.store.CreateMovie(details.ToCatalogEntry(tmdb.SeederCastLimit))
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
