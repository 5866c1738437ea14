package settingsstore

import (
	"strconv"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/mrlokans/filmlog/internal/config"
	"github.com/mrlokans/filmlog/internal/entities"
)

// CatalogSeedConfig is the effective configuration for scheduled catalog seeding.
type CatalogSeedConfig struct {
	Enabled  bool   `json:"enabled"`
	Schedule string `json:"schedule"`
}

// CatalogSeedConfigInfo includes source information for each field.
type CatalogSeedConfigInfo struct {
	Enabled       bool   `json:"enabled"`
	EnabledSource string `json:"enabled_source"`

	Schedule            string     `json:"schedule"`
	ScheduleSource      string     `json:"schedule_source"`
	ScheduleDescription string     `json:"schedule_description"`
	NextRunAt           *time.Time `json:"next_run_at,omitempty"`
}

// CatalogSeedStatus is the outcome of the most recent seeding run.
type CatalogSeedStatus struct {
	LastSeedAt  *time.Time `json:"last_seed_at,omitempty"`
	Status      string     `json:"status,omitempty"`  // "success", "failed", ""
	Message     string     `json:"message,omitempty"` // Error message or stats summary
	MoviesAdded int        `json:"movies_added"`
}

func parseBool(value string) bool {
	return value == "true" || value == "1"
}

// GetCatalogSeedEnabled returns whether scheduled seeding is enabled (database > env > disabled).
func (s *SettingsStore) GetCatalogSeedEnabled() bool {
	value, _ := s.resolve(entities.SettingKeyCatalogSeedEnabled, "CATALOG_SEED_ENABLED", "false")
	return parseBool(value)
}

func (s *SettingsStore) SetCatalogSeedEnabled(enabled bool) error {
	return s.repo.SetSetting(entities.SettingKeyCatalogSeedEnabled, strconv.FormatBool(enabled))
}

// GetCatalogSeedSchedule returns the cron schedule (database > env > weekly).
func (s *SettingsStore) GetCatalogSeedSchedule() string {
	value, _ := s.resolve(entities.SettingKeyCatalogSeedSchedule, "CATALOG_SEED_SCHEDULE", config.DefaultCatalogSeedSchedule)
	return value
}

// SetCatalogSeedSchedule validates and saves the schedule.
func (s *SettingsStore) SetCatalogSeedSchedule(schedule string) error {
	if err := ValidateCronSchedule(schedule); err != nil {
		return err
	}
	return s.repo.SetSetting(entities.SettingKeyCatalogSeedSchedule, schedule)
}

func (s *SettingsStore) GetCatalogSeedConfig() CatalogSeedConfig {
	return CatalogSeedConfig{
		Enabled:  s.GetCatalogSeedEnabled(),
		Schedule: s.GetCatalogSeedSchedule(),
	}
}

func (s *SettingsStore) GetCatalogSeedConfigInfo() CatalogSeedConfigInfo {
	enabled, enabledSource := s.resolve(entities.SettingKeyCatalogSeedEnabled, "CATALOG_SEED_ENABLED", "false")
	schedule, scheduleSource := s.resolve(entities.SettingKeyCatalogSeedSchedule, "CATALOG_SEED_SCHEDULE", config.DefaultCatalogSeedSchedule)

	info := CatalogSeedConfigInfo{
		Enabled:             parseBool(enabled),
		EnabledSource:       enabledSource,
		Schedule:            schedule,
		ScheduleSource:      scheduleSource,
		ScheduleDescription: GetCronDescription(schedule),
	}
	if next, err := GetNextRunTime(schedule); err == nil {
		info.NextRunAt = next
	}
	return info
}

// GetCatalogSeedStatus returns the last seeding status.
func (s *SettingsStore) GetCatalogSeedStatus() CatalogSeedStatus {
	status := CatalogSeedStatus{}

	if value, ok, _ := s.repo.GetValue(entities.SettingKeyCatalogSeedLastAt); ok {
		if ts, err := time.Parse(time.RFC3339, value); err == nil {
			status.LastSeedAt = &ts
		}
	}
	status.Status, _, _ = s.repo.GetValue(entities.SettingKeyCatalogSeedLastStatus)
	status.Message, _, _ = s.repo.GetValue(entities.SettingKeyCatalogSeedLastMessage)
	if value, ok, _ := s.repo.GetValue(entities.SettingKeyCatalogSeedMoviesAdded); ok {
		status.MoviesAdded, _ = strconv.Atoi(value)
	}

	return status
}

// SetCatalogSeedStatus records the outcome of a seeding run.
func (s *SettingsStore) SetCatalogSeedStatus(status, message string, moviesAdded int) error {
	return s.repo.SetSettings(map[string]string{
		entities.SettingKeyCatalogSeedLastAt:      time.Now().UTC().Format(time.RFC3339),
		entities.SettingKeyCatalogSeedLastStatus:  status,
		entities.SettingKeyCatalogSeedLastMessage: message,
		entities.SettingKeyCatalogSeedMoviesAdded: strconv.Itoa(moviesAdded),
	})
}

// ClearCatalogSeedSettings clears all database overrides, reverting to env/default.
func (s *SettingsStore) ClearCatalogSeedSettings() error {
	return s.repo.DeleteSetting(
		entities.SettingKeyCatalogSeedEnabled,
		entities.SettingKeyCatalogSeedSchedule,
	)
}

var cronParser = cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)

// ValidateCronSchedule validates a cron schedule string
func ValidateCronSchedule(schedule string) error {
	_, err := cronParser.Parse(schedule)
	return err
}

// GetCronDescription returns a human-readable description of a cron schedule
func GetCronDescription(schedule string) string {
	switch schedule {
	case "0 * * * *":
		return "Every hour at :00"
	case "0 */6 * * *":
		return "Every 6 hours"
	case "0 0 * * *":
		return "Daily at midnight"
	case "0 4 * * *":
		return "Daily at 04:00"
	case "0 4 * * 0":
		return "Weekly on Sunday at 04:00"
	default:
		return "Custom schedule: " + schedule
	}
}

// GetNextRunTime calculates when the next run will happen based on the schedule
func GetNextRunTime(schedule string) (*time.Time, error) {
	sched, err := cronParser.Parse(schedule)
	if err != nil {
		return nil, err
	}
	next := sched.Next(time.Now())
	return &next, nil
}
