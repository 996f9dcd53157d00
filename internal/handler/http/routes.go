package http

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

func (h *Handler) Init() *chi.Mux {
	router := chi.NewRouter()
	router.Use(middleware.Recoverer)
	router.Use(h.withTraceID)
	router.Use(h.withLogging)

	router.Route("/api/sync", func(r chi.Router) {
		r.Get("/changes", h.changeSummary)
		r.Post("/roots/{docID}", h.registerRoot)
		r.Delete("/roots/{docID}", h.unregisterRoot)
		r.Delete("/cache", h.invalidateCache)
		r.Get("/scroll", h.scroll)
	})

	return router
}
