package main

import (
	"errors"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/mrlokans/filmlog/internal/cli"
	"github.com/mrlokans/filmlog/internal/config"
	"github.com/mrlokans/filmlog/internal/entrypoint"
)

// Version information - set at build time via ldflags
var (
	Version = "dev"
	Commit  = "unknown"
)

// command is implemented by every CLI subcommand.
type command interface {
	ParseFlags(args []string) error
	Run() error
}

func main() {
	if err := config.LoadDotEnv(".env"); err != nil {
		log.Printf("WARNING: failed to load .env: %v", err)
	}

	// If no arguments or "serve" command, run the HTTP server
	if len(os.Args) < 2 || os.Args[1] == "serve" {
		cfg := config.NewConfig()
		entrypoint.Run(cfg, Version)
		return
	}

	name := os.Args[1]
	args := os.Args[2:]

	switch name {
	case "letterboxd-import":
		run(cli.NewLetterboxdImportCommand(), args)

	case "seed-catalog":
		run(cli.NewSeedCatalogCommand(), args)

	case "version":
		fmt.Printf("filmlog %s (%s)\n", Version, Commit)

	case "-h", "--help", "help":
		printUsage()

	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", name)
		printUsage()
		os.Exit(1)
	}
}

func run(cmd command, args []string) {
	if err := cmd.ParseFlags(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if err := cmd.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Fprintf(os.Stderr, "Usage: %s <command> [options]\n\n", os.Args[0])
	fmt.Fprintf(os.Stderr, "Commands:\n")
	fmt.Fprintf(os.Stderr, "  serve              Start the HTTP server (default if no command given)\n")
	fmt.Fprintf(os.Stderr, "  letterboxd-import  Import reviews from a Letterboxd member's RSS feed\n")
	fmt.Fprintf(os.Stderr, "  seed-catalog       Fill the movie catalog from TMDB lists\n")
	fmt.Fprintf(os.Stderr, "  version            Print version information\n")
	fmt.Fprintf(os.Stderr, "\nUse '%s <command> -h' for help on a specific command.\n", os.Args[0])
}
