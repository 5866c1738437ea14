// Package sync provides database operations for background run progress tracking.
//
// Every import or seed run gets its own row keyed by a run id, so clients can
// poll a specific run while older runs stay available as history.
//
// # Usage
//
//	repo := sync.NewRepository(db)
//	err := repo.StartRun(runID, userID, entities.SyncTypeLetterboxdImport)
//	running, err := repo.IsRunning(userID, entities.SyncTypeLetterboxdImport)
package sync

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/mrlokans/filmlog/internal/entities"
)

// ErrRunNotFound is returned when no run exists for a run id.
var ErrRunNotFound = errors.New("run not found")

// staleAfter marks a running row as abandoned when it has not been updated for this long.
const staleAfter = 10 * time.Minute

// Repository handles all sync progress database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new sync repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// GetRun retrieves the progress of a single run.
func (r *Repository) GetRun(runID string) (*entities.SyncProgress, error) {
	var progress entities.SyncProgress
	err := r.db.Where("run_id = ?", runID).First(&progress).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrRunNotFound
	}
	if err != nil {
		return nil, err
	}
	return &progress, nil
}

// LatestRun returns the most recently started run of a type for a user.
func (r *Repository) LatestRun(userID string, syncType entities.SyncType) (*entities.SyncProgress, error) {
	var progress entities.SyncProgress
	err := r.db.Where("user_id = ? AND sync_type = ?", userID, syncType).
		Order("started_at DESC").
		First(&progress).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrRunNotFound
	}
	if err != nil {
		return nil, err
	}
	return &progress, nil
}

// StartRun creates a running progress row. The total is unknown until the feed is parsed.
func (r *Repository) StartRun(runID, userID string, syncType entities.SyncType) error {
	now := time.Now()
	progress := entities.SyncProgress{
		RunID:     runID,
		UserID:    userID,
		SyncType:  syncType,
		Status:    entities.SyncStatusRunning,
		Errors:    entities.StringList{},
		StartedAt: now,
		UpdatedAt: now,
	}
	return r.db.Create(&progress).Error
}

// UpdateProgress stores the latest counters of a running run.
func (r *Repository) UpdateProgress(runID string, total, processed, succeeded, failed, skipped int, currentItem string) error {
	return r.db.Model(&entities.SyncProgress{}).
		Where("run_id = ?", runID).
		Updates(map[string]any{
			"total_items":  total,
			"processed":    processed,
			"succeeded":    succeeded,
			"failed":       failed,
			"skipped":      skipped,
			"current_item": currentItem,
			"updated_at":   time.Now(),
		}).Error
}

// CompleteRun marks a run as completed or failed and stores its per-item error lines.
func (r *Repository) CompleteRun(runID string, succeeded bool, itemErrors []string, errorMsg string) error {
	now := time.Now()
	status := entities.SyncStatusCompleted
	if !succeeded {
		status = entities.SyncStatusFailed
	}

	updates := map[string]any{
		"status":       status,
		"current_item": "",
		"errors":       entities.StringList(itemErrors),
		"updated_at":   now,
		"completed_at": now,
	}
	if errorMsg != "" {
		updates["error"] = errorMsg
	}
	return r.db.Model(&entities.SyncProgress{}).
		Where("run_id = ?", runID).
		Updates(updates).Error
}

// IsRunning checks whether the user has a live run of the given type.
// Runs not updated within ten minutes are marked failed and ignored.
func (r *Repository) IsRunning(userID string, syncType entities.SyncType) (bool, error) {
	var running []entities.SyncProgress
	err := r.db.Where("user_id = ? AND sync_type = ? AND status = ?", userID, syncType, entities.SyncStatusRunning).
		Find(&running).Error
	if err != nil {
		return false, err
	}

	staleThreshold := time.Now().Add(-staleAfter)
	live := false
	for _, progress := range running {
		if progress.UpdatedAt.Before(staleThreshold) {
			_ = r.CompleteRun(progress.RunID, false, progress.Errors, "run was interrupted")
			continue
		}
		live = true
	}
	return live, nil
}
