package api

import "github.com/go-chi/chi/v5"

// RegisterSessionRoutes mounts the session endpoints under /sessions on r.
func RegisterSessionRoutes(r chi.Router, sessions *SessionHandler, stream *EventsHandler) {
	r.Post("/sessions", sessions.CreateSession)
	r.Route("/sessions/{id}", func(r chi.Router) {
		r.Get("/", sessions.GetSession)
		r.Delete("/", sessions.DeleteSession)

		r.Post("/search", sessions.Search)
		r.Post("/cards", sessions.AddCards)
		r.Put("/selection", sessions.SelectAll)
		r.Put("/selection/{assetID}", sessions.SelectCard)
		r.Post("/shuffle", sessions.Shuffle)
		r.Post("/clear", sessions.Clear)
		r.Post("/home", sessions.GoHome)

		r.Put("/gallery", sessions.SetGalleryView)
		r.Post("/gallery/page", sessions.TurnPage)

		r.Post("/presentation", sessions.StartPresentation)
		r.Delete("/presentation", sessions.ExitPresentation)
		r.Post("/presentation/advance", sessions.Advance)
		r.Put("/presentation/autoplay", sessions.SetAutoPlay)

		r.Post("/memory", sessions.StartMemoryGame)
		r.Delete("/memory", sessions.ExitMemoryGame)
		r.Post("/memory/flip", sessions.Flip)
		r.Post("/memory/reshuffle", sessions.Reshuffle)

		if stream != nil {
			r.Get("/events", stream.Stream)
		}
	})
}
