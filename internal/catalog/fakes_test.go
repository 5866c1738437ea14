package catalog

import (
	"context"
	"errors"
	"net/url"
	"strconv"
	"sync"

	"github.com/mrlokans/filmlog/internal/entities"
	"github.com/mrlokans/filmlog/internal/tmdb"
)

type memoryStore struct {
	mu        sync.Mutex
	movies    map[string]*entities.Movie
	createErr error
	creates   int
}

func newMemoryStore() *memoryStore {
	return &memoryStore{movies: make(map[string]*entities.Movie)}
}

func (s *memoryStore) GetMovie(id string) (*entities.Movie, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	m, ok := s.movies[id]
	if !ok {
		return nil, errors.New("movie not found")
	}
	return m, nil
}

func (s *memoryStore) MovieExists(id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.movies[id]
	return ok, nil
}

func (s *memoryStore) CreateMovie(movie *entities.Movie) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.createErr != nil {
		return s.createErr
	}
	s.creates++
	if _, ok := s.movies[movie.ID]; !ok {
		s.movies[movie.ID] = movie
	}
	return nil
}

type fakeTMDB struct {
	mu      sync.Mutex
	movies  map[int]*tmdb.MovieDetails
	lists   map[string][]tmdb.MovieList
	listErr map[string]error
	calls   map[int]int
}

func newFakeTMDB() *fakeTMDB {
	return &fakeTMDB{
		movies:  make(map[int]*tmdb.MovieDetails),
		lists:   make(map[string][]tmdb.MovieList),
		listErr: make(map[string]error),
		calls:   make(map[int]int),
	}
}

func (f *fakeTMDB) addMovie(id int, title string, castSize int) {
	d := &tmdb.MovieDetails{ID: id, Title: title}
	for i := 0; i < castSize; i++ {
		d.Credits.Cast = append(d.Credits.Cast, tmdb.CastCredit{ID: i, Name: "Actor " + strconv.Itoa(i), Order: i})
	}
	f.movies[id] = d
}

func (f *fakeTMDB) GetMovie(ctx context.Context, id int) (*tmdb.MovieDetails, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls[id]++
	d, ok := f.movies[id]
	if !ok {
		return nil, tmdb.ErrNotFound
	}
	return d, nil
}

func (f *fakeTMDB) ListMovies(ctx context.Context, endpoint string, page int, params url.Values) (*tmdb.MovieList, error) {
	if err := f.listErr[endpoint]; err != nil {
		return nil, err
	}
	pages := f.lists[endpoint]
	if page-1 >= len(pages) {
		return &tmdb.MovieList{Page: page, TotalPages: len(pages)}, nil
	}
	list := pages[page-1]
	return &list, nil
}
