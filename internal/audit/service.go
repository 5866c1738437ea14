package audit

import (
	"encoding/json"
	"log"
	"time"

	"github.com/mrlokans/filmlog/internal/database/audit"
	"github.com/mrlokans/filmlog/internal/entities"
)

const maxErrorLen = 500

// Service provides high-level audit logging functionality.
type Service struct {
	repo  *audit.Repository
	async bool
}

// NewService creates a new audit service that writes events in the background.
func NewService(repo *audit.Repository) *Service {
	return &Service{repo: repo, async: true}
}

// Log records a generic audit event.
func (s *Service) Log(event *entities.AuditEvent) error {
	return s.repo.LogEvent(event)
}

// LogAsync records an audit event in the background (non-blocking).
func (s *Service) LogAsync(event *entities.AuditEvent) {
	if !s.async {
		s.write(event)
		return
	}
	go s.write(event)
}

func (s *Service) write(event *entities.AuditEvent) {
	if err := s.repo.LogEvent(event); err != nil {
		log.Printf("Failed to log audit event: %v", err)
	}
}

// LogImport records a finished review import. Runs with failed records are partial.
func (s *Service) LogImport(userID, source, description string, imported, skipped, failed int, err error) {
	event := &entities.AuditEvent{
		UserID:      userID,
		EventType:   entities.AuditEventImport,
		Action:      source + "_import",
		Description: description,
		EntityType:  "review",
		Status:      entities.AuditStatusSuccess,
		Metadata:    counts("imported", imported, skipped, failed),
	}

	switch {
	case err != nil:
		event.Status = entities.AuditStatusFailed
		event.ErrorMsg = truncate(err.Error(), maxErrorLen)
	case failed > 0:
		event.Status = entities.AuditStatusPartial
	}

	s.LogAsync(event)
}

// LogCatalogSeed records a catalog seeding run. trigger is "schedule", "manual", "task" or "cli".
func (s *Service) LogCatalogSeed(trigger string, added, skipped, failed int, err error) {
	event := &entities.AuditEvent{
		EventType:   entities.AuditEventCatalogSeed,
		Action:      "catalog_seed_" + trigger,
		Description: "Catalog seed",
		EntityType:  "movie",
		Status:      entities.AuditStatusSuccess,
		Metadata:    counts("added", added, skipped, failed),
	}

	switch {
	case err != nil:
		event.Status = entities.AuditStatusFailed
		event.ErrorMsg = truncate(err.Error(), maxErrorLen)
	case failed > 0:
		event.Status = entities.AuditStatusPartial
	}

	s.LogAsync(event)
}

// LogReview records a manual review change. action is "save" or "delete".
func (s *Service) LogReview(userID, action, movieID string) {
	event := &entities.AuditEvent{
		UserID:      userID,
		EventType:   entities.AuditEventReview,
		Action:      "review_" + action,
		Description: "Review " + action + " for movie " + movieID,
		EntityType:  "review",
		EntityID:    entities.ReviewKey(userID, movieID),
		Status:      entities.AuditStatusSuccess,
	}

	s.LogAsync(event)
}

// LogSettings records a settings change event.
func (s *Service) LogSettings(userID, action, description string) {
	event := &entities.AuditEvent{
		UserID:      userID,
		EventType:   entities.AuditEventSettings,
		Action:      action,
		Description: description,
		Status:      entities.AuditStatusSuccess,
	}

	s.LogAsync(event)
}

// GetEvents retrieves paginated audit events.
func (s *Service) GetEvents(userID string, limit, offset int) ([]entities.AuditEvent, int64, error) {
	return s.repo.GetEvents(userID, limit, offset)
}

// GetEventsByType retrieves audit events filtered by type.
func (s *Service) GetEventsByType(eventType entities.AuditEventType, userID string, limit, offset int) ([]entities.AuditEvent, int64, error) {
	return s.repo.GetEventsByType(eventType, userID, limit, offset)
}

// DeleteOldEvents removes events older than the specified duration.
func (s *Service) DeleteOldEvents(retention time.Duration) (int64, error) {
	cutoff := time.Now().Add(-retention)
	return s.repo.DeleteOldEvents(cutoff)
}

// counts renders run counters as the event's JSON metadata.
func counts(succeededKey string, succeeded, skipped, failed int) string {
	b, err := json.Marshal(map[string]int{
		succeededKey: succeeded,
		"skipped":    skipped,
		"failed":     failed,
	})
	if err != nil {
		return ""
	}
	return string(b)
}

// truncate shortens a string to max length.
func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}
