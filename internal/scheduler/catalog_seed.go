package scheduler

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/mrlokans/filmlog/internal/catalog"
	"github.com/mrlokans/filmlog/internal/settingsstore"
)

// ErrSeedInProgress is returned by RunNow while another seed run is active.
var ErrSeedInProgress = errors.New("catalog seed already in progress")

const seedTimeout = 2 * time.Hour

// Seeder fills the catalog from TMDB lists.
type Seeder interface {
	Run(ctx context.Context) (*catalog.SeedResult, error)
}

// SeedSettings is the settings storage the scheduler reads its config from and reports to.
type SeedSettings interface {
	GetCatalogSeedConfig() settingsstore.CatalogSeedConfig
	SetCatalogSeedStatus(status, message string, moviesAdded int) error
}

// SeedAuditor records finished seed runs.
type SeedAuditor interface {
	LogCatalogSeed(trigger string, added, skipped, failed int, err error)
}

// CatalogSeedScheduler runs the catalog seeder on a cron schedule and on demand.
type CatalogSeedScheduler struct {
	seeder   Seeder
	settings SeedSettings
	auditor  SeedAuditor

	cron      *cron.Cron
	entryID   cron.EntryID
	ctx       context.Context
	mu        sync.RWMutex
	isRunning bool
	isSeeding bool
}

// NewCatalogSeedScheduler creates a new scheduler instance. auditor may be nil.
func NewCatalogSeedScheduler(seeder Seeder, settings SeedSettings, auditor SeedAuditor) *CatalogSeedScheduler {
	return &CatalogSeedScheduler{
		seeder:   seeder,
		settings: settings,
		auditor:  auditor,
		cron:     cron.New(cron.WithParser(cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow))),
	}
}

// Start begins the scheduler if seeding is enabled. The scheduler stops when ctx is done.
func (s *CatalogSeedScheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return nil
	}

	if s.ctx != ctx {
		s.ctx = ctx
		go func() {
			<-ctx.Done()
			s.Stop()
		}()
	}

	config := s.settings.GetCatalogSeedConfig()
	if !config.Enabled {
		log.Printf("Catalog seed scheduler: disabled")
		return nil
	}

	if err := settingsstore.ValidateCronSchedule(config.Schedule); err != nil {
		return fmt.Errorf("invalid cron schedule '%s': %w", config.Schedule, err)
	}

	entryID, err := s.cron.AddFunc(config.Schedule, func() {
		if _, err := s.RunNow(ctx, "schedule"); err != nil && !errors.Is(err, ErrSeedInProgress) {
			log.Printf("Catalog seed: scheduled run failed: %v", err)
		}
	})
	if err != nil {
		return fmt.Errorf("failed to schedule seed job: %w", err)
	}
	s.entryID = entryID

	s.cron.Start()
	s.isRunning = true

	nextRun, _ := settingsstore.GetNextRunTime(config.Schedule)
	log.Printf("Catalog seed scheduler: started with schedule '%s' (%s). Next run: %v",
		config.Schedule,
		settingsstore.GetCronDescription(config.Schedule),
		nextRun)

	return nil
}

// Stop stops the scheduler and waits for a running seed job to finish.
func (s *CatalogSeedScheduler) Stop() {
	s.mu.Lock()
	if !s.isRunning {
		s.mu.Unlock()
		return
	}
	s.isRunning = false
	entryID := s.entryID
	s.mu.Unlock()

	// The lock is released first: a finishing job takes it to clear isSeeding.
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.cron.Remove(entryID)

	log.Printf("Catalog seed scheduler: stopped")
}

// Reschedule applies changed settings, keeping the context given to Start.
func (s *CatalogSeedScheduler) Reschedule() error {
	s.Stop()

	s.mu.RLock()
	ctx := s.ctx
	s.mu.RUnlock()
	if ctx == nil {
		ctx = context.Background()
	}
	return s.Start(ctx)
}

// IsRunning returns whether the scheduler is active
func (s *CatalogSeedScheduler) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isRunning
}

// IsSeeding returns whether a seed run is in progress
func (s *CatalogSeedScheduler) IsSeeding() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isSeeding
}

// GetNextRunTime returns when the next scheduled run will occur
func (s *CatalogSeedScheduler) GetNextRunTime() *time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.isRunning {
		return nil
	}
	for _, entry := range s.cron.Entries() {
		if entry.ID == s.entryID {
			t := entry.Next
			return &t
		}
	}
	return nil
}

// RunNow seeds the catalog in the caller's goroutine and records the outcome.
// trigger names what started the run ("schedule", "manual", "task", "cli").
func (s *CatalogSeedScheduler) RunNow(ctx context.Context, trigger string) (*catalog.SeedResult, error) {
	s.mu.Lock()
	if s.isSeeding {
		s.mu.Unlock()
		log.Printf("Catalog seed: skipped (already seeding)")
		return nil, ErrSeedInProgress
	}
	s.isSeeding = true
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.isSeeding = false
		s.mu.Unlock()
	}()

	ctx, cancel := context.WithTimeout(ctx, seedTimeout)
	defer cancel()

	log.Printf("Catalog seed: starting (%s)", trigger)
	startTime := time.Now()

	result, err := s.seeder.Run(ctx)
	if err != nil {
		errMsg := fmt.Sprintf("Catalog seed failed: %v", err)
		log.Printf("Catalog seed: %s", errMsg)
		_ = s.settings.SetCatalogSeedStatus("failed", errMsg, 0)
		s.logAudit(trigger, &catalog.SeedResult{}, err)
		return nil, err
	}

	msg := fmt.Sprintf("Added %d movies (%d already cached, %d failed) in %v",
		result.Added, result.Skipped, result.Failed, time.Since(startTime).Round(time.Millisecond))
	log.Printf("Catalog seed: %s", msg)
	_ = s.settings.SetCatalogSeedStatus("success", msg, result.Added)
	s.logAudit(trigger, result, nil)
	return result, nil
}

func (s *CatalogSeedScheduler) logAudit(trigger string, result *catalog.SeedResult, err error) {
	if s.auditor == nil {
		return
	}
	s.auditor.LogCatalogSeed(trigger, result.Added, result.Skipped, result.Failed, err)
}
