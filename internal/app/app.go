// Package app wires configuration, the asset catalog, the session service
// and the HTTP API into a runnable application.
package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/phrazzld/scry-flashcards/internal/assets"
	"github.com/phrazzld/scry-flashcards/internal/config"
	"github.com/phrazzld/scry-flashcards/internal/events"
	"github.com/phrazzld/scry-flashcards/internal/platform/gdrive"
	"github.com/phrazzld/scry-flashcards/internal/service"
)

// Application holds the shared dependencies so they can be cleaned up
// together on shutdown.
type Application struct {
	config *config.Config
	logger *slog.Logger

	catalog  *assets.Catalog
	emitter  *events.InMemoryEventEmitter
	sessions service.SessionService
}

// NewSource builds the asset source selected by cfg.Assets.Source.
func NewSource(ctx context.Context, cfg *config.Config, logger *slog.Logger) (assets.Source, error) {
	switch cfg.Assets.Source {
	case "dir":
		logger.Info("using local asset directory", slog.String("dir", cfg.Assets.Dir))
		return assets.DirSource{}, nil
	case "drive", "":
		src, err := gdrive.NewSource(ctx, cfg.Assets, logger)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize drive source: %w", err)
		}
		logger.Info("drive asset source initialized",
			slog.Bool("credentials_file_present", cfg.Assets.CredentialsFile != ""))
		return src, nil
	default:
		return nil, fmt.Errorf("unknown asset source %q", cfg.Assets.Source)
	}
}

// New creates an Application using the source configured in cfg.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Application, error) {
	source, err := NewSource(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}
	return NewWithSource(cfg, logger, source)
}

// NewWithSource creates an Application around an explicit asset source.
func NewWithSource(cfg *config.Config, logger *slog.Logger, source assets.Source) (*Application, error) {
	catalog, err := assets.NewCatalog(source, cfg.Assets, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create asset catalog: %w", err)
	}

	emitter := events.NewInMemoryEventEmitter(logger)

	sessions, err := service.NewSessionService(catalog, emitter, service.OptionsFromConfig(cfg), logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create session service: %w", err)
	}

	logger.Info("Application initialized successfully",
		slog.String("asset_source", cfg.Assets.Source),
		slog.Int("max_sessions", cfg.Session.MaxSessions))

	return &Application{
		config:   cfg,
		logger:   logger,
		catalog:  catalog,
		emitter:  emitter,
		sessions: sessions,
	}, nil
}

// Catalog returns the application's asset catalog.
func (a *Application) Catalog() *assets.Catalog { return a.catalog }

// Sessions returns the session service.
func (a *Application) Sessions() service.SessionService { return a.sessions }

// Cleanup stops every live session.
func (a *Application) Cleanup() {
	if a.sessions != nil {
		a.sessions.Close()
	}
	a.logger.Info("Application shutdown completed")
}
