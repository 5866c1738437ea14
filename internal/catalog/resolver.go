package catalog

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/mrlokans/filmlog/internal/entities"
	"github.com/mrlokans/filmlog/internal/tmdb"
)

// ErrMovieNotResolvable indicates a movie is neither in the catalog nor obtainable from TMDB.
var ErrMovieNotResolvable = errors.New("movie could not be resolved")

// fetchTimeout bounds a shared fetch independently of the callers waiting on it.
const fetchTimeout = 30 * time.Second

// MovieStore is the catalog persistence used by the resolver and seeder.
type MovieStore interface {
	GetMovie(id string) (*entities.Movie, error)
	MovieExists(id string) (bool, error)
	CreateMovie(movie *entities.Movie) error
}

// MovieFetcher fetches full movie details by TMDB id.
type MovieFetcher interface {
	GetMovie(ctx context.Context, id int) (*tmdb.MovieDetails, error)
}

// Resolver guarantees catalog entries exist, fetching them from TMDB when missing.
// Concurrent requests for the same movie share one fetch.
type Resolver struct {
	store   MovieStore
	fetcher MovieFetcher
	group   singleflight.Group
}

// NewResolver creates a resolver backed by the given catalog store and TMDB fetcher.
func NewResolver(store MovieStore, fetcher MovieFetcher) *Resolver {
	return &Resolver{store: store, fetcher: fetcher}
}

// EnsureMovie makes sure the movie with the given TMDB id is in the catalog.
// An entry that already exists is accepted as is. Errors wrap ErrMovieNotResolvable
// when TMDB could not supply the movie; storage failures are returned wrapped as well.
// Nothing is retried.
func (r *Resolver) EnsureMovie(ctx context.Context, tmdbID int) error {
	_, err := r.Resolve(ctx, tmdbID)
	return err
}

// Resolve returns the catalog entry for tmdbID, creating it from TMDB when missing.
// A caller whose ctx ends stops waiting, but the shared fetch carries on for the others.
func (r *Resolver) Resolve(ctx context.Context, tmdbID int) (*entities.Movie, error) {
	if tmdbID <= 0 {
		return nil, fmt.Errorf("%w: invalid TMDB id %d", ErrMovieNotResolvable, tmdbID)
	}
	key := strconv.Itoa(tmdbID)

	ch := r.group.DoChan(key, func() (any, error) {
		fetchCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), fetchTimeout)
		defer cancel()
		return r.resolve(fetchCtx, key, tmdbID)
	})

	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("resolve movie %s: %w", key, ctx.Err())
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(*entities.Movie), nil
	}
}

func (r *Resolver) resolve(ctx context.Context, key string, tmdbID int) (*entities.Movie, error) {
	exists, err := r.store.MovieExists(key)
	if err != nil {
		return nil, fmt.Errorf("check catalog for movie %s: %w", key, err)
	}
	if exists {
		return r.store.GetMovie(key)
	}

	details, err := r.fetcher.GetMovie(ctx, tmdbID)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMovieNotResolvable, err)
	}

	movie := details.ToCatalogEntry(tmdb.ResolverCastLimit)
	if err := r.store.CreateMovie(movie); err != nil {
		return nil, fmt.Errorf("save movie %s: %w", key, err)
	}
	return movie, nil
}
