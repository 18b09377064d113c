// Package main implements the entry point for the flashcard session server,
// which resolves words to images in a Drive folder and serves gallery,
// presentation and memory game sessions over HTTP.
package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/phrazzld/scry-flashcards/internal/app"
	"github.com/phrazzld/scry-flashcards/internal/config"
	"github.com/phrazzld/scry-flashcards/internal/platform/logger"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}

// run loads configuration, sets up logging, builds the application and
// serves until ctx is cancelled.
func run(ctx context.Context) error {
	cfg, err := initializeApp()
	if err != nil {
		return err
	}

	application, err := app.New(ctx, cfg, slog.Default())
	if err != nil {
		return fmt.Errorf("failed to initialize application: %w", err)
	}
	return application.Run(ctx)
}

// initializeApp loads configuration and sets up structured logging.
func initializeApp() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	if _, err := logger.Setup(cfg.Server); err != nil {
		return nil, fmt.Errorf("failed to set up logger: %w", err)
	}

	slog.Info("Server configuration loaded",
		"port", cfg.Server.Port,
		"log_level", cfg.Server.LogLevel,
		"asset_source", cfg.Assets.Source)

	if cfg.Assets.CredentialsFile != "" {
		slog.Debug("Drive configuration", "credentials_file_present", true)
	}

	return cfg, nil
}
