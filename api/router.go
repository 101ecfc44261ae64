package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	log "github.com/sirupsen/logrus"
)

// Config holds what the router needs
type Config struct {
	Ledger      Ledger
	DB          Pinger
	AdminAPIKey string
}

// NewRouter builds the read and admin HTTP surface of the ledger
func NewRouter(cfg Config) http.Handler {
	h := &handlers{ledger: cfg.Ledger, db: cfg.DB, now: time.Now}

	r := chi.NewRouter()
	r.Use(recoverer)
	r.Use(requestID)
	r.Use(logRequests)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", requestIDHeader, apiKeyHeader},
		ExposedHeaders: []string{requestIDHeader},
		MaxAge:         300,
	}))

	r.Get("/health", h.health)

	r.Route("/guilds/{guildID}", func(r chi.Router) {
		r.Get("/leaderboard", h.leaderboard)
		r.Get("/market", h.market)

		r.Route("/accounts/{userID}", func(r chi.Router) {
			r.Get("/", h.getAccount)
			r.Get("/history", h.history)

			r.With(requireAPIKey(cfg.AdminAPIKey)).Post("/credit", h.credit)
		})
	})

	return r
}

// Server runs the router until its context ends
type Server struct {
	httpServer *http.Server
}

func NewServer(addr string, handler http.Handler) *Server {
	return &Server{
		httpServer: &http.Server{
			Addr:              addr,
			Handler:           handler,
			ReadHeaderTimeout: 5 * time.Second,
		},
	}
}

// Start serves in the background; listen errors other than shutdown are logged
func (s *Server) Start() {
	go func() {
		log.WithField("addr", s.httpServer.Addr).Info("HTTP API listening")
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Error("HTTP API stopped")
		}
	}()
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}
