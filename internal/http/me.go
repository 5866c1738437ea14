package http

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"github.com/mrlokans/filmlog/internal/database/users"
	"github.com/mrlokans/filmlog/internal/entities"
	"github.com/mrlokans/filmlog/internal/reviews"
)

// ProfileResponse is the caller's profile with the name shown on their reviews.
type ProfileResponse struct {
	entities.UserProfile
	AuthorName string `json:"author_name"`
}

// UpdateProfileRequest is the body of PUT /api/me.
// Fields are validated after surrounding whitespace is trimmed.
type UpdateProfileRequest struct {
	DisplayName string `json:"display_name" validate:"max=100"`
	Email       string `json:"email" validate:"omitempty,email,max=255"`
}

type ProfileController struct {
	profiles ProfileStore
	authors  AuthorCache
	validate *validator.Validate
}

func NewProfileController(profiles ProfileStore, authors AuthorCache) *ProfileController {
	return &ProfileController{profiles: profiles, authors: authors, validate: validator.New()}
}

// GetProfile handles GET /api/me
// A user without a saved profile gets an empty one.
func (pc *ProfileController) GetProfile(c *gin.Context) {
	userID := GetUserID(c)
	profile, err := pc.profiles.GetProfile(userID)
	if errors.Is(err, users.ErrProfileNotFound) {
		profile = &entities.UserProfile{ID: userID}
	} else if err != nil {
		respondInternalError(c, err, "get profile")
		return
	}

	c.JSON(http.StatusOK, ProfileResponse{UserProfile: *profile, AuthorName: reviews.DisplayName(profile)})
}

// UpdateProfile handles PUT /api/me
func (pc *ProfileController) UpdateProfile(c *gin.Context) {
	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid profile: "+err.Error())
		return
	}
	req.DisplayName = strings.TrimSpace(req.DisplayName)
	req.Email = strings.TrimSpace(req.Email)
	if err := pc.validate.Struct(req); err != nil {
		respondBadRequest(c, "invalid profile: "+err.Error())
		return
	}

	userID := GetUserID(c)
	profile := &entities.UserProfile{
		ID:          userID,
		DisplayName: req.DisplayName,
		Email:       req.Email,
	}
	if err := pc.profiles.UpsertProfile(profile); err != nil {
		respondInternalError(c, err, "update profile")
		return
	}
	if pc.authors != nil {
		pc.authors.ForgetAuthor(userID)
	}

	c.JSON(http.StatusOK, ProfileResponse{UserProfile: *profile, AuthorName: reviews.DisplayName(profile)})
}
