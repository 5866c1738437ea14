package http

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/filmlog/internal/reviews"
)

type ReviewsController struct {
	reviews ReviewService
}

func NewReviewsController(reviews ReviewService) *ReviewsController {
	return &ReviewsController{reviews: reviews}
}

// ListReviews handles GET /api/reviews
// Returns the caller's reviews, newest first.
func (rc *ReviewsController) ListReviews(c *gin.Context) {
	list, err := rc.reviews.ListForUser(GetUserID(c))
	if err != nil {
		respondInternalError(c, err, "list reviews")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"reviews": list,
		"count":   len(list),
	})
}

// GetReview handles GET /api/reviews/:movieId
func (rc *ReviewsController) GetReview(c *gin.Context) {
	id, ok := parseMovieIDParam(c, "movieId")
	if !ok {
		return
	}

	review, err := rc.reviews.Get(GetUserID(c), strconv.Itoa(id))
	if errors.Is(err, reviews.ErrReviewNotFound) {
		respondNotFound(c, "review")
		return
	}
	if err != nil {
		respondInternalError(c, err, "get review")
		return
	}

	c.JSON(http.StatusOK, review)
}

// SaveReview handles PUT /api/reviews/:movieId
// Creates or fully replaces the caller's review.
func (rc *ReviewsController) SaveReview(c *gin.Context) {
	id, ok := parseMovieIDParam(c, "movieId")
	if !ok {
		return
	}

	var input reviews.Input
	if err := c.ShouldBindJSON(&input); err != nil {
		respondBadRequest(c, "invalid request body")
		return
	}

	review, err := rc.reviews.Save(c.Request.Context(), GetUserID(c), strconv.Itoa(id), input)
	var validationErr *reviews.ValidationError
	switch {
	case err == nil:
		c.JSON(http.StatusOK, review)
	case errors.As(err, &validationErr):
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "invalid review",
			Code:    "validation_failed",
			Details: validationErr.Fields,
		})
	case errors.Is(err, reviews.ErrInvalidMovieID):
		respondBadRequest(c, "invalid movieId")
	case errors.Is(err, reviews.ErrMovieNotFound):
		respondNotFound(c, "movie")
	default:
		respondResolveError(c, err, id)
	}
}

// DeleteReview handles DELETE /api/reviews/:movieId
func (rc *ReviewsController) DeleteReview(c *gin.Context) {
	id, ok := parseMovieIDParam(c, "movieId")
	if !ok {
		return
	}

	err := rc.reviews.Delete(GetUserID(c), strconv.Itoa(id))
	if errors.Is(err, reviews.ErrReviewNotFound) {
		respondNotFound(c, "review")
		return
	}
	if err != nil {
		respondInternalError(c, err, "delete review")
		return
	}

	respondSuccess(c, "review deleted")
}
