package config

const (
	// DefaultDatabasePath is the default path for the main application database
	DefaultDatabasePath = "./filmlog.db"

	// DefaultUserID owns all data when authentication is off
	DefaultUserID = "local"

	DefaultTMDBBaseURL           = "https://api.themoviedb.org/3"
	DefaultLetterboxdFeedBaseURL = "https://letterboxd.com"
	DefaultLetterboxdRelayURL    = "https://api.allorigins.win/raw"

	// DefaultCatalogSeedSchedule runs the seeder weekly, Sundays at 04:00
	DefaultCatalogSeedSchedule = "0 4 * * 0"
)
