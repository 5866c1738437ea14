package cli

import (
	"flag"
	"fmt"
	"io"
	"os"
)

// SeedCatalogCommand fills the local movie catalog from TMDB lists once.
type SeedCatalogCommand struct {
	DatabasePath string

	out io.Writer
}

func NewSeedCatalogCommand() *SeedCatalogCommand {
	return &SeedCatalogCommand{out: os.Stdout}
}

func (cmd *SeedCatalogCommand) ParseFlags(args []string) error {
	fs := flag.NewFlagSet("seed-catalog", flag.ContinueOnError)

	fs.StringVar(&cmd.DatabasePath, "db", "", "Path to the database file (defaults to DATABASE_PATH)")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s seed-catalog [options]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Cache trending, popular and top rated movies from TMDB in the local catalog.\n")
		fmt.Fprintf(os.Stderr, "Requires a TMDB API key (TMDB_API_KEY or the key saved in settings).\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		fs.PrintDefaults()
	}

	return fs.Parse(args)
}

func (cmd *SeedCatalogCommand) Run() error {
	svc, closeDB, err := openServices(cmd.DatabasePath)
	if err != nil {
		return err
	}
	defer closeDB()

	ctx, stop := interruptContext()
	defer stop()

	fmt.Fprintln(cmd.out, "Seeding catalog from TMDB...")

	result, err := svc.SeedScheduler.RunNow(ctx, "cli")
	if err != nil {
		return fmt.Errorf("catalog seed failed: %w", err)
	}

	fmt.Fprintf(cmd.out, "Added %d movies, skipped %d, failed %d\n", result.Added, result.Skipped, result.Failed)
	for _, e := range result.Errors {
		fmt.Fprintf(cmd.out, "  ! %s\n", e)
	}
	return nil
}
