// Package api exposes a bank over HTTP.
package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	log "github.com/sirupsen/logrus"

	"github.com/Tarjei400/actors-vs-locks/bank"
)

// NewRouter creates and configures the HTTP router of the bank.
func NewRouter(b *bank.Bank) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(requestLogger)

	// Health check endpoint
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("healthy"))
	})

	h := NewHandler(b)
	r.Route("/accounts", func(r chi.Router) {
		r.Post("/", h.OpenAccount)
		r.Get("/", h.ListAccounts)
		r.Get("/{id}", h.GetAccount)
		r.Post("/{id}/deposit", h.Deposit)
		r.Post("/{id}/withdraw", h.Withdraw)
	})
	r.Post("/transfers", h.Transfer)
	r.Get("/audit", h.Audit)

	return r
}

func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		log.WithFields(log.Fields{
			"method":     r.Method,
			"path":       r.URL.Path,
			"status":     ww.Status(),
			"duration":   time.Since(start),
			"request_id": middleware.GetReqID(r.Context()),
		}).Debug("request")
	})
}
