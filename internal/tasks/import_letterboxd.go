package tasks

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/mikestefanello/backlite"

	"github.com/mrlokans/filmlog/internal/importers"
)

// LetterboxdRunner executes an import run that was already registered.
type LetterboxdRunner interface {
	ExecuteRun(ctx context.Context, runID, userID, handle string, onProgress importers.ProgressFunc) importers.ImportResult
}

// ImportLetterboxdTask imports a user's Letterboxd feed in the background.
// RunID refers to the sync progress row the caller polls.
type ImportLetterboxdTask struct {
	RunID  string `json:"run_id"`
	UserID string `json:"user_id"`
	Handle string `json:"handle"`
}

// Config returns the queue configuration for Letterboxd imports.
// A retry would duplicate the already-closed run, so there is a single attempt.
func (t ImportLetterboxdTask) Config() backlite.QueueConfig {
	return backlite.QueueConfig{
		Name:        "import_letterboxd",
		MaxAttempts: 1,
		Timeout:     30 * time.Minute,
		Retention: &backlite.Retention{
			Duration:   24 * time.Hour,
			OnlyFailed: false,
			Data:       &backlite.RetainData{OnlyFailed: true},
		},
	}
}

// ImportLetterboxdProcessor creates a processor function for ImportLetterboxdTask.
func ImportLetterboxdProcessor(runner LetterboxdRunner) backlite.QueueProcessor[ImportLetterboxdTask] {
	return func(ctx context.Context, task ImportLetterboxdTask) error {
		if runner == nil {
			return fmt.Errorf("letterboxd importer not configured")
		}

		log.Printf("[TASK] Importing Letterboxd feed %q for user %s (run %s)", task.Handle, task.UserID, task.RunID)
		result := runner.ExecuteRun(ctx, task.RunID, task.UserID, task.Handle, nil)
		if !result.Success {
			return fmt.Errorf("letterboxd import run %s failed: %v", task.RunID, result.Errors)
		}

		log.Printf("[TASK] Letterboxd run %s finished: %d imported, %d skipped, %d failed",
			task.RunID, result.Imported, result.Skipped, result.Failed)
		return nil
	}
}

// NewImportLetterboxdQueue creates a backlite queue for Letterboxd import tasks.
func NewImportLetterboxdQueue(runner LetterboxdRunner) backlite.Queue {
	return backlite.NewQueue(ImportLetterboxdProcessor(runner))
}
