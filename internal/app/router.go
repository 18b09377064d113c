package app

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/phrazzld/scry-flashcards/internal/api"
	apiMiddleware "github.com/phrazzld/scry-flashcards/internal/api/middleware"
)

// Router creates the application router with all routes and middleware.
func (a *Application) Router() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(apiMiddleware.NewTraceMiddleware(a.logger))

	sessionHandler := api.NewSessionHandler(a.sessions, a.logger)
	eventsHandler := api.NewEventsHandler(a.sessions, a.emitter, a.logger)
	uiHandler := api.NewUIHandler(a.config.UI)
	assetsHandler := api.NewAssetsHandler(a.catalog, a.logger)

	r.Route("/api", func(r chi.Router) {
		r.Get("/ui", uiHandler.GetLayout)
		r.Post("/assets/refresh", assetsHandler.Refresh)
		api.RegisterSessionRoutes(r, sessionHandler, eventsHandler)
	})

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("OK")); err != nil {
			a.logger.Error("Failed to write health check response", "error", err)
		}
	})

	return r
}
