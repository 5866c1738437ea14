package http

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/filmlog/internal/catalog"
	"github.com/mrlokans/filmlog/internal/database/movies"
	"github.com/mrlokans/filmlog/internal/reviews"
	"github.com/mrlokans/filmlog/internal/tmdb"
)

// resolveTimeout bounds an on-demand TMDB fetch inside a request.
const resolveTimeout = 20 * time.Second

type MoviesController struct {
	catalog  MovieLister
	resolver MovieResolver
	reviews  ReviewService
}

func NewMoviesController(catalog MovieLister, resolver MovieResolver, reviews ReviewService) *MoviesController {
	return &MoviesController{catalog: catalog, resolver: resolver, reviews: reviews}
}

// ListMovies handles GET /api/movies
// Query: sort=popularity|rating|release, genre, limit, offset.
func (mc *MoviesController) ListMovies(c *gin.Context) {
	sort := movies.SortOrder(c.DefaultQuery("sort", string(movies.SortByPopularity)))
	switch sort {
	case movies.SortByPopularity, movies.SortByRating, movies.SortByRelease:
	default:
		respondBadRequest(c, "sort must be one of popularity, rating, release")
		return
	}

	limit, offset := parsePagination(c)
	list, total, err := mc.catalog.ListMovies(movies.ListOptions{
		Genre:  c.Query("genre"),
		Sort:   sort,
		Limit:  limit,
		Offset: offset,
	})
	if err != nil {
		respondInternalError(c, err, "list movies")
		return
	}

	respondPage(c, list, total, limit, offset)
}

// GetMovie handles GET /api/movies/:id
// Movies missing from the catalog are fetched from TMDB and cached.
func (mc *MoviesController) GetMovie(c *gin.Context) {
	id, ok := parseMovieIDParam(c, "id")
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), resolveTimeout)
	defer cancel()

	movie, err := mc.resolver.Resolve(ctx, id)
	if err != nil {
		respondResolveError(c, err, id)
		return
	}

	c.JSON(http.StatusOK, movie)
}

// respondResolveError maps a failed catalog lookup to a response.
func respondResolveError(c *gin.Context, err error, id int) {
	switch {
	case errors.Is(err, tmdb.ErrNotFound):
		respondNotFound(c, "movie")
	case errors.Is(err, tmdb.ErrMissingAPIKey), errors.Is(err, tmdb.ErrInvalidAPIKey):
		respondError(c, http.StatusServiceUnavailable, "TMDB is not configured")
	case errors.Is(err, catalog.ErrMovieNotResolvable):
		log.Printf("Movie lookup %d failed: %v", id, err)
		respondError(c, http.StatusBadGateway, "movie lookup failed")
	default:
		respondInternalError(c, err, "resolve movie "+strconv.Itoa(id))
	}
}

// GetMovieReviews handles GET /api/movies/:id/reviews
// Query: sort=recent|highest|lowest.
func (mc *MoviesController) GetMovieReviews(c *gin.Context) {
	id, ok := parseMovieIDParam(c, "id")
	if !ok {
		return
	}

	order := reviews.SortOrder(c.DefaultQuery("sort", string(reviews.SortRecent)))
	switch order {
	case reviews.SortRecent, reviews.SortHighest, reviews.SortLowest:
	default:
		respondBadRequest(c, "sort must be one of recent, highest, lowest")
		return
	}

	listing, err := mc.reviews.ListForMovie(c.Request.Context(), strconv.Itoa(id), order)
	if err != nil {
		respondInternalError(c, err, "list movie reviews")
		return
	}

	c.JSON(http.StatusOK, listing)
}
