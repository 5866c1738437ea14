package importers

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/mrlokans/filmlog/internal/entities"
)

// ErrNoHandle indicates neither the request nor the user's settings name a Letterboxd account.
var ErrNoHandle = errors.New("no Letterboxd username configured")

// ErrImportRunning indicates the user already has a live import run.
var ErrImportRunning = errors.New("a Letterboxd import is already running for this user")

// IntegrationStore holds the per-user Letterboxd settings and import summary.
type IntegrationStore interface {
	GetLetterboxdIntegration(userID string) (*entities.LetterboxdIntegration, error)
	RecordLetterboxdImport(userID, username string, imported int, at time.Time) error
}

// RunTracker persists the progress of individual runs so clients can poll them.
type RunTracker interface {
	StartRun(runID, userID string, syncType entities.SyncType) error
	UpdateProgress(runID string, total, processed, succeeded, failed, skipped int, currentItem string) error
	CompleteRun(runID string, succeeded bool, itemErrors []string, errorMsg string) error
	IsRunning(userID string, syncType entities.SyncType) (bool, error)
}

// ImportAuditor records finished imports.
type ImportAuditor interface {
	LogImport(userID, source, description string, imported, skipped, failed int, err error)
}

// LetterboxdService runs imports with settings, progress tracking and auditing around them.
type LetterboxdService struct {
	orchestrator *Orchestrator
	integrations IntegrationStore
	runs         RunTracker
	auditor      ImportAuditor
	now          func() time.Time
}

// NewLetterboxdService creates the service.
func NewLetterboxdService(orchestrator *Orchestrator, integrations IntegrationStore, runs RunTracker) *LetterboxdService {
	return &LetterboxdService{
		orchestrator: orchestrator,
		integrations: integrations,
		runs:         runs,
		now:          time.Now,
	}
}

// SetAuditor enables audit events for finished imports.
func (s *LetterboxdService) SetAuditor(auditor ImportAuditor) {
	s.auditor = auditor
}

// ResolveHandle returns handle when given, otherwise the username saved in the user's settings.
func (s *LetterboxdService) ResolveHandle(userID, handle string) (string, error) {
	handle = strings.TrimSpace(handle)
	if handle != "" {
		return handle, nil
	}
	integration, err := s.integrations.GetLetterboxdIntegration(userID)
	if err != nil {
		return "", fmt.Errorf("load Letterboxd settings: %w", err)
	}
	if integration.Username == "" {
		return "", ErrNoHandle
	}
	return integration.Username, nil
}

// BeginRun registers a new run for the user and returns its id.
// The running check is advisory: two callers racing past it can both start.
func (s *LetterboxdService) BeginRun(userID string) (string, error) {
	running, err := s.runs.IsRunning(userID, entities.SyncTypeLetterboxdImport)
	if err != nil {
		return "", fmt.Errorf("check running imports: %w", err)
	}
	if running {
		return "", ErrImportRunning
	}

	runID := uuid.NewString()
	if err := s.runs.StartRun(runID, userID, entities.SyncTypeLetterboxdImport); err != nil {
		return "", fmt.Errorf("start run: %w", err)
	}
	return runID, nil
}

// Import runs a complete import in the caller's goroutine.
func (s *LetterboxdService) Import(ctx context.Context, userID, handle string, onProgress ProgressFunc) (string, ImportResult, error) {
	handle, err := s.ResolveHandle(userID, handle)
	if err != nil {
		return "", ImportResult{}, err
	}
	runID, err := s.BeginRun(userID)
	if err != nil {
		return "", ImportResult{}, err
	}
	return runID, s.ExecuteRun(ctx, runID, userID, handle, onProgress), nil
}

// ExecuteRun performs a run started with BeginRun. It mirrors every progress
// snapshot into the run tracker, stores the integration summary when reviews
// were imported and closes the run.
func (s *LetterboxdService) ExecuteRun(ctx context.Context, runID, userID, handle string, onProgress ProgressFunc) ImportResult {
	result := s.orchestrator.Run(ctx, userID, handle, func(p ImportProgress) {
		if err := s.runs.UpdateProgress(runID, p.Total, p.Processed, p.Imported, p.Failed, p.Skipped, p.CurrentMovie); err != nil {
			log.Printf("Letterboxd import: failed to record progress for run %s: %v", runID, err)
		}
		if onProgress != nil {
			onProgress(p)
		}
	})

	var runErr error
	errorMsg := ""
	if !result.Success {
		errorMsg = strings.Join(result.Errors, "; ")
		runErr = errors.New(errorMsg)
	}

	if result.Success && result.Imported > 0 {
		if err := s.integrations.RecordLetterboxdImport(userID, handle, result.Imported, s.now()); err != nil {
			log.Printf("Letterboxd import: failed to update settings for user %s: %v", userID, err)
		}
	}

	itemErrors := result.Errors
	if !result.Success {
		itemErrors = nil
	}
	if err := s.runs.CompleteRun(runID, result.Success, itemErrors, errorMsg); err != nil {
		log.Printf("Letterboxd import: failed to complete run %s: %v", runID, err)
	}

	if s.auditor != nil {
		description := fmt.Sprintf("Imported %d reviews from Letterboxd user %s (%d skipped, %d failed)",
			result.Imported, handle, result.Skipped, result.Failed)
		s.auditor.LogImport(userID, "letterboxd", description, result.Imported, result.Skipped, result.Failed, runErr)
	}

	return result
}
