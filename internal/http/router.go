package http

import (
	"github.com/gin-gonic/gin"

	"github.com/mrlokans/filmlog/internal/auth"
	"github.com/mrlokans/filmlog/internal/config"
)

// NewRouter creates and configures the HTTP router with all endpoints.
func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())

	// Apply security headers to all responses
	router.Use(auth.SecurityHeadersMiddleware())

	authMiddleware := cfg.AuthMiddleware
	if authMiddleware == nil {
		authMiddleware = auth.NewMiddleware(config.Auth{Mode: config.AuthModeNone})
	}
	router.Use(authMiddleware.Handler())

	health := NewHealthController(cfg.Database, cfg.Version)
	router.GET("/health", health.Status)

	api := router.Group("/api")

	if cfg.Profiles != nil {
		profiles := NewProfileController(cfg.Profiles, cfg.Authors)
		api.GET("/me", profiles.GetProfile)
		api.PUT("/me", profiles.UpdateProfile)
	}

	if cfg.Reviews != nil {
		if cfg.Movies != nil && cfg.Resolver != nil {
			movies := NewMoviesController(cfg.Movies, cfg.Resolver, cfg.Reviews)
			api.GET("/movies", movies.ListMovies)
			api.GET("/movies/:id", movies.GetMovie)
			api.GET("/movies/:id/reviews", movies.GetMovieReviews)
		}

		reviews := NewReviewsController(cfg.Reviews)
		api.GET("/reviews", reviews.ListReviews)
		api.GET("/reviews/:movieId", reviews.GetReview)
		api.PUT("/reviews/:movieId", reviews.SaveReview)
		api.DELETE("/reviews/:movieId", reviews.DeleteReview)
	}

	if cfg.Importer != nil && cfg.Runs != nil {
		importer := NewLetterboxdImportController(cfg.Importer, cfg.Runs, cfg.TaskQueue)
		api.POST("/import/letterboxd", importer.Import)
		api.GET("/import/letterboxd/runs/:id", importer.GetRun)
	}

	if cfg.Letterboxd != nil && cfg.TMDBKey != nil && cfg.CatalogSeed != nil {
		settings := NewSettingsController(cfg.Letterboxd, cfg.TMDBKey, cfg.CatalogSeed, cfg.Seeder)
		if cfg.SettingsAuditor != nil {
			settings.SetAuditor(cfg.SettingsAuditor)
		}
		if cfg.Context != nil {
			settings.SetBaseContext(cfg.Context)
		}
		api.GET("/settings/letterboxd", settings.GetLetterboxd)
		api.PUT("/settings/letterboxd", settings.UpdateLetterboxd)
		api.GET("/settings/tmdb", settings.GetTMDB)
		api.PUT("/settings/tmdb", settings.UpdateTMDB)
		api.DELETE("/settings/tmdb", settings.ClearTMDB)
		api.GET("/settings/catalog-seed", settings.GetCatalogSeed)
		api.PUT("/settings/catalog-seed", settings.UpdateCatalogSeed)
		api.POST("/catalog/seed", settings.RunCatalogSeed)
	}

	if cfg.AuditReader != nil {
		audit := NewAuditController(cfg.AuditReader)
		api.GET("/audit", audit.GetAuditEvents)
	}

	// Task management endpoints
	if cfg.TaskQueue != nil {
		tasksController := NewTasksController(cfg.TaskQueue, cfg.Audit.RetentionDays)
		api.GET("/tasks", tasksController.ListTaskTypes)
		api.GET("/tasks/:id", tasksController.GetTaskStatus)
		api.POST("/tasks/:type/run", tasksController.RunTask)
	}

	return router
}
