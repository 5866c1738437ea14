package cli

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mrlokans/filmlog/internal/config"
	"github.com/mrlokans/filmlog/internal/importers"
)

// LetterboxdImportCommand imports a member's Letterboxd reviews from the command line.
type LetterboxdImportCommand struct {
	UserID       string
	Handle       string
	DatabasePath string
	Verbose      bool

	out io.Writer
}

func NewLetterboxdImportCommand() *LetterboxdImportCommand {
	return &LetterboxdImportCommand{out: os.Stdout}
}

func (cmd *LetterboxdImportCommand) ParseFlags(args []string) error {
	fs := flag.NewFlagSet("letterboxd-import", flag.ContinueOnError)

	fs.StringVar(&cmd.UserID, "user", config.DefaultUserID, "User the imported reviews belong to")
	fs.StringVar(&cmd.Handle, "handle", "", "Letterboxd username (defaults to the one saved in the user's settings)")
	fs.StringVar(&cmd.DatabasePath, "db", "", "Path to the database file (defaults to DATABASE_PATH)")
	fs.BoolVar(&cmd.Verbose, "verbose", false, "Print the outcome of every feed record")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s letterboxd-import [options]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Import reviews from a Letterboxd member's public RSS feed.\n\n")
		fmt.Fprintf(os.Stderr, "The feed only carries the member's most recent activity, so run the import\n")
		fmt.Fprintf(os.Stderr, "regularly. Reviews that were already imported are skipped.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  %s letterboxd-import -handle dave\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s letterboxd-import -user alice -handle alice_lb -verbose\n", os.Args[0])
	}

	if err := fs.Parse(args); err != nil {
		return err
	}

	cmd.UserID = strings.TrimSpace(cmd.UserID)
	if cmd.UserID == "" {
		return fmt.Errorf("flag -user must not be empty")
	}

	return nil
}

func (cmd *LetterboxdImportCommand) Run() error {
	svc, closeDB, err := openServices(cmd.DatabasePath)
	if err != nil {
		return err
	}
	defer closeDB()

	ctx, stop := interruptContext()
	defer stop()

	fmt.Fprintln(cmd.out, "Letterboxd Import")
	fmt.Fprintln(cmd.out, "=================")

	runID, result, err := svc.Letterboxd.Import(ctx, cmd.UserID, cmd.Handle, cmd.printProgress)
	if err != nil {
		return err
	}

	cmd.printResult(runID, result)

	if !result.Success {
		return fmt.Errorf("import failed: %s", strings.Join(result.Errors, "; "))
	}
	return nil
}

func (cmd *LetterboxdImportCommand) printProgress(p importers.ImportProgress) {
	if p.Total == 0 {
		return
	}
	fmt.Fprintf(cmd.out, "\r[%d/%d] imported %d, skipped %d, failed %d",
		p.Processed, p.Total, p.Imported, p.Skipped, p.Failed)
}

func (cmd *LetterboxdImportCommand) printResult(runID string, result importers.ImportResult) {
	fmt.Fprintln(cmd.out)
	fmt.Fprintf(cmd.out, "Run: %s (%s)\n", runID, result.State)
	fmt.Fprintf(cmd.out, "  Imported: %d\n", result.Imported)
	fmt.Fprintf(cmd.out, "  Skipped:  %d\n", result.Skipped)
	fmt.Fprintf(cmd.out, "  Failed:   %d\n", result.Failed)
	if result.Dropped > 0 {
		fmt.Fprintf(cmd.out, "  Dropped:  %d (no TMDB id)\n", result.Dropped)
	}

	if cmd.Verbose {
		for _, r := range result.Records {
			line := fmt.Sprintf("  - %s: %s", r.Label, r.Outcome)
			if r.Reason != "" {
				line += " (" + r.Reason + ")"
			}
			fmt.Fprintln(cmd.out, line)
		}
	}

	for _, e := range result.Errors {
		fmt.Fprintf(cmd.out, "  ! %s\n", e)
	}
}
