package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/mrlokans/filmlog/internal/config"
	"github.com/mrlokans/filmlog/internal/database"
	"github.com/mrlokans/filmlog/internal/entrypoint"
)

// openServices opens the database quietly and wires the application services.
// The returned close function releases the database.
func openServices(databasePath string) (*entrypoint.Services, func(), error) {
	cfg := config.NewConfig()
	if databasePath != "" {
		cfg.Database.Path = databasePath
	}

	db, err := database.NewQuietDatabase(cfg.Database.Path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open database: %w", err)
	}

	closeDB := func() {
		if err := db.Close(); err != nil {
			fmt.Fprintf(os.Stderr, "Error closing database: %v\n", err)
		}
	}

	return entrypoint.NewServices(cfg, db), closeDB, nil
}

// interruptContext is cancelled on SIGINT or SIGTERM so long commands stop between records.
func interruptContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}
