package entrypoint

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/filmlog/internal/auth"
	"github.com/mrlokans/filmlog/internal/config"
	"github.com/mrlokans/filmlog/internal/database"
	http_controllers "github.com/mrlokans/filmlog/internal/http"
	"github.com/mrlokans/filmlog/internal/tasks"
)

// ShutdownFunc is called during graceful shutdown to clean up resources.
type ShutdownFunc func(ctx context.Context)

func Serve(router *gin.Engine, cfg *config.Config, onShutdown ShutdownFunc) {
	timeout := time.Duration(cfg.Global.ShutdownTimeoutInSeconds) * time.Second

	srv := &http.Server{
		Addr:    fmt.Sprintf("%s:%d", cfg.HTTP.Host, cfg.HTTP.Port),
		Handler: router,
	}

	go func() {
		fmt.Printf("Starting server at %s:%d\n", cfg.HTTP.Host, cfg.HTTP.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s\n", err)
		}
	}()

	// SIGKILL can't be caught, so only SIGINT and SIGTERM trigger a graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Printf("Shutdown Server, waiting %v before killing\n", timeout)

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	// Stop background work before the listener goes away
	if onShutdown != nil {
		onShutdown(ctx)
	}

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server Shutdown:", err)
	}

	log.Println("Server exiting")
}

func Run(cfg *config.Config, version string) {
	log.Printf("Starting Filmlog v%s", version)

	db, err := database.NewDatabase(cfg.Database.Path)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Printf("Error closing database: %v", err)
		}
	}()

	svc := NewServices(cfg, db)

	if svc.Settings.GetTMDBAPIKey() == "" {
		log.Printf("WARNING: TMDB API key is not set. Movie lookups will fail until 'TMDB_API_KEY' is set or a key is saved in settings.")
	}

	// Cancelled on shutdown; background work started by handlers and the scheduler derives from it
	appCtx, appCancel := context.WithCancel(context.Background())
	defer appCancel()

	if err := svc.SeedScheduler.Start(appCtx); err != nil {
		log.Printf("WARNING: Catalog seed scheduler not started: %v", err)
	}

	routerCfg := http_controllers.RouterConfig{
		Context:         appCtx,
		Database:        db,
		Version:         version,
		AuthMiddleware:  auth.NewMiddleware(cfg.Auth),
		Movies:          svc.Movies,
		Resolver:        svc.Resolver,
		Reviews:         svc.ReviewService,
		Authors:         svc.ReviewService,
		Profiles:        svc.Users,
		Importer:        svc.Letterboxd,
		Runs:            svc.Runs,
		Letterboxd:      svc.Users,
		TMDBKey:         svc.Settings,
		CatalogSeed:     svc.Settings,
		Seeder:          svc.SeedScheduler,
		AuditReader:     svc.Audit,
		SettingsAuditor: svc.Audit,
		Audit:           cfg.Audit,
	}
	log.Printf("Authentication mode: %s", cfg.Auth.Mode)

	var taskClient *tasks.Client
	if cfg.Tasks.Enabled {
		tasksDBPath := cfg.Tasks.DatabasePath
		if tasksDBPath == "" {
			tasksDBPath = tasks.TasksDatabasePath(cfg.Database.Path)
		}

		taskClient, err = tasks.NewClient(tasksDBPath, tasks.ConfigFrom(cfg.Tasks))
		if err != nil {
			log.Fatalf("Failed to initialize task queue: %v", err)
		}
		defer func() {
			if err := taskClient.Close(); err != nil {
				log.Printf("Error closing task client: %v", err)
			}
		}()

		taskClient.Register(
			tasks.NewImportLetterboxdQueue(svc.Letterboxd),
			tasks.NewSeedCatalogQueue(svc.SeedScheduler),
			tasks.NewCleanupAuditEventsQueue(svc.Audit),
		)

		go taskClient.Start(appCtx)

		// Assigned only when enabled: a nil *tasks.Client in the interface would not compare equal to nil
		routerCfg.TaskQueue = taskClient
	}

	router := http_controllers.NewRouter(routerCfg)

	onShutdown := func(ctx context.Context) {
		svc.SeedScheduler.Stop()
		if taskClient != nil {
			taskClient.Stop(ctx)
		}
		appCancel()
	}

	Serve(router, cfg, onShutdown)
}
