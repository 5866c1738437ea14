package entities

import (
	"time"
)

type SyncType string

const (
	SyncTypeLetterboxdImport SyncType = "letterboxd_import"
	SyncTypeCatalogSeed      SyncType = "catalog_seed"
)

type SyncStatus string

const (
	SyncStatusRunning   SyncStatus = "running"
	SyncStatusCompleted SyncStatus = "completed"
	SyncStatusFailed    SyncStatus = "failed"
)

// SyncProgress tracks one background run so clients can poll it.
type SyncProgress struct {
	RunID       string     `gorm:"primaryKey;size:36" json:"run_id"`
	UserID      string     `gorm:"index;size:255" json:"user_id"`
	SyncType    SyncType   `gorm:"index;size:50" json:"sync_type"`
	Status      SyncStatus `gorm:"index;size:20" json:"status"`
	TotalItems  int        `json:"total_items"`
	Processed   int        `json:"processed"`
	Succeeded   int        `json:"succeeded"`
	Failed      int        `json:"failed"`
	Skipped     int        `json:"skipped"`
	CurrentItem string     `gorm:"size:512" json:"current_item,omitempty"`
	Errors      StringList `gorm:"type:text" json:"errors"`
	Error       string     `gorm:"type:text" json:"error,omitempty"`
	StartedAt   time.Time  `json:"started_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}

func (SyncProgress) TableName() string {
	return "sync_progress"
}
