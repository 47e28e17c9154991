package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(recoveryMiddleware)
	r.Use(loggingMiddleware)
	r.Use(securityHeadersMiddleware)

	r.Get("/healthz", s.handleHealth)
	r.Get("/readyz", s.handleReady)

	r.Route("/api/v1", func(r chi.Router) {
		if s.RequestTimeout > 0 {
			r.Use(timeoutMiddleware(s.RequestTimeout))
		}
		r.Use(s.deviceMiddleware)

		r.Post("/captures", s.handleCapture)
		r.Get("/missions", s.handleMissions)
		r.Get("/quota", s.handleQuota)
		r.Get("/progress", s.handleProgress)

		r.Post("/translations", s.handleTranslate)
		r.Get("/translations/latest", s.handleLatestTranslation)

		r.Get("/learning", s.handleLearning)
		r.Delete("/learning", s.handleResetLearning)

		r.Get("/preferences/language", s.handleGetLanguage)
		r.Put("/preferences/language", s.handleSetLanguage)
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		handleError(w, r, errNoRoute(r))
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		handleError(w, r, errMethodNotAllowed(r))
	})
	return r
}
