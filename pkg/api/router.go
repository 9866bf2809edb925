package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// NewRouter wires the ledger endpoints under /api/v1 plus a health check.
func NewRouter(h *Handler) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/init", h.Init)

		r.Route("/roommates", func(r chi.Router) {
			r.Get("/", h.ListRoommates)
			r.Post("/", h.AddRoommate)
			r.Get("/{id}/contribution", h.GetContribution)
			r.Get("/{id}/debt", h.GetDebt)
		})

		r.Get("/stats", h.Stats)
		r.Get("/log", h.GetLog)
		r.Post("/payments", h.AddPayment)
		r.Get("/settlements", h.Settlements)
	})

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})

	return r
}
