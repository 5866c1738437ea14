package http

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/filmlog/internal/scheduler"
	"github.com/mrlokans/filmlog/internal/settingsstore"
)

// LetterboxdSettingsRequest is the body of PUT /api/settings/letterboxd.
type LetterboxdSettingsRequest struct {
	Username string `json:"username" binding:"max=100"`
}

// TMDBSettingsRequest is the body of PUT /api/settings/tmdb.
type TMDBSettingsRequest struct {
	APIKey string `json:"api_key" binding:"required,max=512"`
}

// CatalogSeedSettingsRequest is the body of PUT /api/settings/catalog-seed.
// Omitted fields are left unchanged.
type CatalogSeedSettingsRequest struct {
	Enabled  *bool   `json:"enabled"`
	Schedule *string `json:"schedule"`
}

// CatalogSeedSettingsResponse combines the effective config with the last run.
type CatalogSeedSettingsResponse struct {
	Config  settingsstore.CatalogSeedConfigInfo `json:"config"`
	Status  settingsstore.CatalogSeedStatus     `json:"status"`
	Running bool                                `json:"running"`
}

type SettingsController struct {
	letterboxd  LetterboxdSettingsStore
	tmdbKey     TMDBKeyStore
	catalogSeed CatalogSeedSettingsStore
	seeder      SeedScheduler
	auditor     SettingsAuditor
	baseCtx     context.Context
}

func NewSettingsController(letterboxd LetterboxdSettingsStore, tmdbKey TMDBKeyStore, catalogSeed CatalogSeedSettingsStore, seeder SeedScheduler) *SettingsController {
	return &SettingsController{
		letterboxd:  letterboxd,
		tmdbKey:     tmdbKey,
		catalogSeed: catalogSeed,
		seeder:      seeder,
		baseCtx:     context.Background(),
	}
}

// SetBaseContext sets the context detached seed runs inherit, so they stop on shutdown.
func (sc *SettingsController) SetBaseContext(ctx context.Context) {
	sc.baseCtx = ctx
}

// SetAuditor enables audit events for settings changes.
func (sc *SettingsController) SetAuditor(auditor SettingsAuditor) {
	sc.auditor = auditor
}

func (sc *SettingsController) audit(userID, action, description string) {
	if sc.auditor != nil {
		sc.auditor.LogSettings(userID, action, description)
	}
}

// GetLetterboxd handles GET /api/settings/letterboxd
func (sc *SettingsController) GetLetterboxd(c *gin.Context) {
	integration, err := sc.letterboxd.GetLetterboxdIntegration(GetUserID(c))
	if err != nil {
		respondInternalError(c, err, "get Letterboxd settings")
		return
	}
	c.JSON(http.StatusOK, integration)
}

// UpdateLetterboxd handles PUT /api/settings/letterboxd
// An empty username disconnects the feed.
func (sc *SettingsController) UpdateLetterboxd(c *gin.Context) {
	var req LetterboxdSettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request body")
		return
	}

	username := strings.TrimSpace(req.Username)
	if strings.ContainsAny(username, "/?#& ") {
		respondBadRequest(c, "invalid Letterboxd username")
		return
	}

	userID := GetUserID(c)
	if err := sc.letterboxd.SetLetterboxdUsername(userID, username); err != nil {
		respondInternalError(c, err, "save Letterboxd settings")
		return
	}
	if username == "" {
		sc.audit(userID, "letterboxd_username_cleared", "Letterboxd username cleared")
	} else {
		sc.audit(userID, "letterboxd_username_set", "Letterboxd username set to "+username)
	}

	sc.GetLetterboxd(c)
}

// GetTMDB handles GET /api/settings/tmdb
// The key is always masked.
func (sc *SettingsController) GetTMDB(c *gin.Context) {
	c.JSON(http.StatusOK, sc.tmdbKey.GetTMDBAPIKeyInfo())
}

// UpdateTMDB handles PUT /api/settings/tmdb
func (sc *SettingsController) UpdateTMDB(c *gin.Context) {
	var req TMDBSettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "api_key is required")
		return
	}

	if err := sc.tmdbKey.SetTMDBAPIKey(strings.TrimSpace(req.APIKey)); err != nil {
		respondInternalError(c, err, "save TMDB API key")
		return
	}
	sc.audit(GetUserID(c), "tmdb_api_key_set", "TMDB API key updated")

	c.JSON(http.StatusOK, sc.tmdbKey.GetTMDBAPIKeyInfo())
}

// ClearTMDB handles DELETE /api/settings/tmdb
// The key falls back to TMDB_API_KEY afterwards.
func (sc *SettingsController) ClearTMDB(c *gin.Context) {
	if err := sc.tmdbKey.ClearTMDBAPIKey(); err != nil {
		respondInternalError(c, err, "clear TMDB API key")
		return
	}
	sc.audit(GetUserID(c), "tmdb_api_key_cleared", "TMDB API key cleared")

	c.JSON(http.StatusOK, sc.tmdbKey.GetTMDBAPIKeyInfo())
}

// GetCatalogSeed handles GET /api/settings/catalog-seed
func (sc *SettingsController) GetCatalogSeed(c *gin.Context) {
	resp := CatalogSeedSettingsResponse{
		Config: sc.catalogSeed.GetCatalogSeedConfigInfo(),
		Status: sc.catalogSeed.GetCatalogSeedStatus(),
	}
	if sc.seeder != nil {
		resp.Running = sc.seeder.IsSeeding()
	}
	c.JSON(http.StatusOK, resp)
}

// UpdateCatalogSeed handles PUT /api/settings/catalog-seed
// The scheduler picks up the new settings immediately.
func (sc *SettingsController) UpdateCatalogSeed(c *gin.Context) {
	var req CatalogSeedSettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request body")
		return
	}

	if req.Schedule != nil {
		schedule := strings.TrimSpace(*req.Schedule)
		if err := settingsstore.ValidateCronSchedule(schedule); err != nil {
			respondBadRequest(c, err.Error())
			return
		}
		if err := sc.catalogSeed.SetCatalogSeedSchedule(schedule); err != nil {
			respondInternalError(c, err, "save catalog seed schedule")
			return
		}
	}
	if req.Enabled != nil {
		if err := sc.catalogSeed.SetCatalogSeedEnabled(*req.Enabled); err != nil {
			respondInternalError(c, err, "save catalog seed flag")
			return
		}
	}

	if sc.seeder != nil {
		if err := sc.seeder.Reschedule(); err != nil {
			log.Printf("Catalog seed: failed to reschedule: %v", err)
		}
	}

	info := sc.catalogSeed.GetCatalogSeedConfigInfo()
	sc.audit(GetUserID(c), "catalog_seed_settings_updated",
		fmt.Sprintf("Catalog seed enabled=%t schedule=%q", info.Enabled, info.Schedule))

	sc.GetCatalogSeed(c)
}

// RunCatalogSeed handles POST /api/catalog/seed
// Seeding takes minutes, so it runs detached from the request.
func (sc *SettingsController) RunCatalogSeed(c *gin.Context) {
	if sc.seeder == nil {
		respondError(c, http.StatusServiceUnavailable, "catalog seeding is not configured")
		return
	}
	if sc.seeder.IsSeeding() {
		respondConflict(c, "seed_running", scheduler.ErrSeedInProgress.Error())
		return
	}

	go func() {
		if _, err := sc.seeder.RunNow(sc.baseCtx, "manual"); err != nil && !errors.Is(err, scheduler.ErrSeedInProgress) {
			log.Printf("Catalog seed: manual run failed: %v", err)
		}
	}()

	respondAccepted(c, "catalog seed started", nil)
}
