package config

import (
	"errors"
	"io/fs"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type AuthMode string

const (
	AuthModeNone   AuthMode = "none"   // Every request acts as Auth.DefaultUser (default)
	AuthModeHeader AuthMode = "header" // Identity comes from a header set by a trusted proxy
)

type (
	Config struct {
		HTTP
		Global
		Database
		TMDB
		Letterboxd
		Import
		Catalog
		Audit
		Tasks
		Auth
	}

	HTTP struct {
		Port int32
		Host string
	}
	Global struct {
		ShutdownTimeoutInSeconds int
	}
	Database struct {
		Path string
	}
	TMDB struct {
		APIKey            string
		BaseURL           string
		RequestsPerSecond float64
		CacheTTL          time.Duration
	}
	Letterboxd struct {
		FeedBaseURL string
		RelayURL    string // "off" fetches feeds directly
	}
	Import struct {
		RecordDelay time.Duration // Pause between feed records
	}
	Catalog struct {
		SeedEnabled  bool
		SeedSchedule string // Cron format: "0 4 * * 0" = Sundays at 04:00
		SeedDelay    time.Duration
	}
	Audit struct {
		Dir           string // Raw feed archive; empty disables archiving
		RetentionDays int    // Days to keep audit events (default: 90)
	}
	Tasks struct {
		Enabled         bool
		DatabasePath    string // Empty derives "<database>-tasks.db" from Database.Path
		Workers         int
		ReleaseAfter    time.Duration
		CleanupInterval time.Duration
	}
	Auth struct {
		Mode        AuthMode
		UserHeader  string
		DefaultUser string
	}
)

// Relay returns the relay endpoint, or "" when feeds are fetched directly.
func (l Letterboxd) Relay() string {
	if l.RelayURL == "off" {
		return ""
	}
	return l.RelayURL
}

// LoadDotEnv loads variables from path into the process environment without
// overriding variables that are already set. A missing file is not an error.
func LoadDotEnv(path string) error {
	err := godotenv.Load(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return err
}

func NewConfig() *Config {
	v := viper.New()
	v.AutomaticEnv()
	v.SetDefault("http_port", 8080)
	v.SetDefault("http_host", "0.0.0.0")
	v.SetDefault("shutdown_timeout_in_seconds", 5)
	v.SetDefault("database_path", DefaultDatabasePath)

	// TMDB defaults
	v.SetDefault("tmdb_api_key", "")
	v.SetDefault("tmdb_base_url", DefaultTMDBBaseURL)
	v.SetDefault("tmdb_requests_per_second", 4)
	v.SetDefault("tmdb_cache_ttl", "30m")

	// Letterboxd defaults
	v.SetDefault("letterboxd_feed_base_url", DefaultLetterboxdFeedBaseURL)
	v.SetDefault("letterboxd_relay_url", DefaultLetterboxdRelayURL)
	v.SetDefault("import_record_delay", "300ms")

	// Catalog seeding defaults
	v.SetDefault("catalog_seed_enabled", false)
	v.SetDefault("catalog_seed_schedule", DefaultCatalogSeedSchedule)
	v.SetDefault("catalog_seed_delay", "300ms")

	v.SetDefault("audit_dir", "")
	v.SetDefault("audit_retention_days", 90)

	// Task queue defaults
	v.SetDefault("tasks_enabled", true)
	v.SetDefault("tasks_database_path", "")
	v.SetDefault("tasks_workers", 2)
	v.SetDefault("tasks_release_after", "3h")
	v.SetDefault("tasks_cleanup_interval", "1h")

	// Auth defaults
	v.SetDefault("auth_mode", "none")
	v.SetDefault("auth_user_header", "X-User-ID")
	v.SetDefault("auth_default_user", DefaultUserID)

	return &Config{
		HTTP: HTTP{
			Port: v.GetInt32("HTTP_PORT"),
			Host: v.GetString("HTTP_HOST"),
		},
		Global: Global{
			ShutdownTimeoutInSeconds: v.GetInt("SHUTDOWN_TIMEOUT_IN_SECONDS"),
		},
		Database: Database{
			Path: v.GetString("DATABASE_PATH"),
		},
		TMDB: TMDB{
			APIKey:            v.GetString("TMDB_API_KEY"),
			BaseURL:           v.GetString("TMDB_BASE_URL"),
			RequestsPerSecond: v.GetFloat64("TMDB_REQUESTS_PER_SECOND"),
			CacheTTL:          v.GetDuration("TMDB_CACHE_TTL"),
		},
		Letterboxd: Letterboxd{
			FeedBaseURL: v.GetString("LETTERBOXD_FEED_BASE_URL"),
			RelayURL:    v.GetString("LETTERBOXD_RELAY_URL"),
		},
		Import: Import{
			RecordDelay: v.GetDuration("IMPORT_RECORD_DELAY"),
		},
		Catalog: Catalog{
			SeedEnabled:  v.GetBool("CATALOG_SEED_ENABLED"),
			SeedSchedule: v.GetString("CATALOG_SEED_SCHEDULE"),
			SeedDelay:    v.GetDuration("CATALOG_SEED_DELAY"),
		},
		Audit: Audit{
			Dir:           v.GetString("AUDIT_DIR"),
			RetentionDays: v.GetInt("AUDIT_RETENTION_DAYS"),
		},
		Tasks: Tasks{
			Enabled:         v.GetBool("TASKS_ENABLED"),
			DatabasePath:    v.GetString("TASKS_DATABASE_PATH"),
			Workers:         v.GetInt("TASKS_WORKERS"),
			ReleaseAfter:    v.GetDuration("TASKS_RELEASE_AFTER"),
			CleanupInterval: v.GetDuration("TASKS_CLEANUP_INTERVAL"),
		},
		Auth: Auth{
			Mode:        AuthMode(v.GetString("AUTH_MODE")),
			UserHeader:  v.GetString("AUTH_USER_HEADER"),
			DefaultUser: v.GetString("AUTH_DEFAULT_USER"),
		},
	}
}
