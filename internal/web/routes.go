package web

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(s.middlewareStack()...)

	r.Get("/", s.handleIndex)
	r.Get("/healthz", s.handleHealth)
	r.Post("/input", s.handleInput)
	r.Post("/reset", s.handleReset)

	r.Group(func(gr chi.Router) {
		gr.Use(s.triggerLimiter())
		gr.Post("/sample", s.handleSample)
		gr.Post("/analyze", s.handleAnalyze)
	})

	r.Route("/api", func(api chi.Router) {
		api.Use(s.apiCORS())
		api.Get("/state", s.handleState)
		api.NotFound(func(w http.ResponseWriter, r *http.Request) {
			problem(w, http.StatusNotFound, "Not Found", "no such endpoint")
		})
		api.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
			problem(w, http.StatusMethodNotAllowed, "Method Not Allowed", r.Method+" is not supported here")
		})
	})

	return r
}
