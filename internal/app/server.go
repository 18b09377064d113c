package app

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"
)

const (
	readHeaderTimeout = 10 * time.Second
	shutdownTimeout   = 10 * time.Second
)

// Run listens on the configured port and serves until ctx is cancelled.
func (a *Application) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", fmt.Sprintf(":%d", a.config.Server.Port))
	if err != nil {
		return fmt.Errorf("failed to listen on port %d: %w", a.config.Server.Port, err)
	}
	return a.Serve(ctx, ln)
}

// Serve runs the HTTP server on ln with graceful shutdown when ctx is
// cancelled. Sessions are closed after the server stops accepting requests.
func (a *Application) Serve(ctx context.Context, ln net.Listener) error {
	server := &http.Server{
		Handler:           a.Router(),
		ReadHeaderTimeout: readHeaderTimeout,
	}

	serverCtx, cancelServer := context.WithCancel(ctx)
	defer cancelServer()

	serveErr := make(chan error, 1)
	go func() {
		a.logger.Info("Starting server", "addr", ln.Addr().String())
		if err := server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.logger.Error("Server failed", "error", err)
			serveErr <- err
			cancelServer()
		}
	}()

	<-serverCtx.Done()
	a.logger.Info("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		a.logger.Error("Server shutdown failed", "error", err)
		a.Cleanup()
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	a.Cleanup()

	select {
	case err := <-serveErr:
		return fmt.Errorf("server error: %w", err)
	default:
	}

	a.logger.Info("Server shutdown completed")
	return nil
}
