package tasks

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/mikestefanello/backlite"

	"github.com/mrlokans/filmlog/internal/catalog"
)

// CatalogSeedRunner runs one catalog seed, recording status and audit events.
type CatalogSeedRunner interface {
	RunNow(ctx context.Context, trigger string) (*catalog.SeedResult, error)
}

// SeedCatalogTask fills the local movie catalog from TMDB lists.
type SeedCatalogTask struct{}

// Config returns the queue configuration for catalog seeding tasks.
func (t SeedCatalogTask) Config() backlite.QueueConfig {
	return backlite.QueueConfig{
		Name:        "seed_catalog",
		MaxAttempts: 2,
		Backoff:     10 * time.Minute,
		Timeout:     2 * time.Hour,
		Retention: &backlite.Retention{
			Duration:   24 * time.Hour,
			OnlyFailed: false,
			Data:       &backlite.RetainData{OnlyFailed: true},
		},
	}
}

// SeedCatalogProcessor creates a processor function for SeedCatalogTask.
func SeedCatalogProcessor(runner CatalogSeedRunner) backlite.QueueProcessor[SeedCatalogTask] {
	return func(ctx context.Context, task SeedCatalogTask) error {
		if runner == nil {
			return fmt.Errorf("catalog seeder not configured")
		}

		result, err := runner.RunNow(ctx, "task")
		if err != nil {
			return fmt.Errorf("seed catalog: %w", err)
		}

		log.Printf("[TASK] Catalog seed added %d movies (%d skipped, %d failed)",
			result.Added, result.Skipped, result.Failed)
		return nil
	}
}

// NewSeedCatalogQueue creates a backlite queue for catalog seeding tasks.
func NewSeedCatalogQueue(runner CatalogSeedRunner) backlite.Queue {
	return backlite.NewQueue(SeedCatalogProcessor(runner))
}
