package tasks

import (
	"time"

	"github.com/mrlokans/filmlog/internal/config"
)

// Config holds configuration for the task queue system.
// Per-queue attempts, timeouts and retention live on each task's Config method.
type Config struct {
	// Workers is the number of concurrent task workers. Default: 2
	Workers int

	// ReleaseAfter is when stuck tasks are released back to queue.
	// It must exceed the longest queue timeout. Default: 3h
	ReleaseAfter time.Duration

	// CleanupInterval is how often to clean up completed tasks. Default: 1h
	CleanupInterval time.Duration
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Workers:         2,
		ReleaseAfter:    3 * time.Hour,
		CleanupInterval: 1 * time.Hour,
	}
}

// ConfigFrom builds the queue configuration from application settings,
// falling back to defaults for unset values.
func ConfigFrom(cfg config.Tasks) Config {
	c := DefaultConfig()
	if cfg.Workers > 0 {
		c.Workers = cfg.Workers
	}
	if cfg.ReleaseAfter > 0 {
		c.ReleaseAfter = cfg.ReleaseAfter
	}
	if cfg.CleanupInterval > 0 {
		c.CleanupInterval = cfg.CleanupInterval
	}
	return c
}
