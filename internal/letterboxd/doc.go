// Package letterboxd fetches and parses a member's public Letterboxd review feed.
//
// The feed is RSS 2.0 with two private namespaces: "https://letterboxd.com"
// carries the member's rating, watched date, rewatch flag and film title/year,
// and "https://themoviedb.org" carries the TMDB movie id that ties an entry to
// the catalog.
//
// # Pipeline
//
//	Client.Fetch(ctx, handle)  ->  raw RSS bytes (via the relay)
//	ParseFeed(raw)             ->  []ReviewRecord, in feed order
//	Sanitize(description)      ->  plain review text (applied during parsing)
//
// Entries without a TMDB movie id or a guid are dropped during parsing. They are
// counted in Feed.Dropped and never become records.
//
// # Usage
//
//	client := letterboxd.NewClient(cfg.Letterboxd.FeedBaseURL, cfg.Letterboxd.Relay())
//	raw, err := client.Fetch(ctx, "dave")
//	feed, err := letterboxd.ParseFeed(raw)
package letterboxd
