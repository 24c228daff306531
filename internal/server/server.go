// Package server exposes the relay over HTTP: query and page-creation
// passthrough, sync status and the websocket push channel. The upstream
// access token never reaches the browser; requests may carry their own
// bearer token, otherwise the configured default is used.
package server

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/gorilla/websocket"

	"sync_relay/internal/broadcast"
	"sync_relay/internal/config"
	"sync_relay/internal/service"
)

type Server struct {
	service      *service.SyncService
	registry     *broadcast.Registry
	cfg          config.ServerConfig
	defaultToken string
	logger       *slog.Logger
	upgrader     websocket.Upgrader
}

func New(svc *service.SyncService, registry *broadcast.Registry, cfg config.ServerConfig, defaultToken string, logger *slog.Logger) *Server {
	allowAll := false
	for _, origin := range cfg.AllowedOrigins {
		if origin == "*" {
			allowAll = true
		}
	}

	allowed := cfg.AllowedOrigins
	return &Server{
		service:      svc,
		registry:     registry,
		cfg:          cfg,
		defaultToken: defaultToken,
		logger:       logger.With("component", "server"),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
			CheckOrigin: func(r *http.Request) bool {
				if allowAll {
					return true
				}
				origin := r.Header.Get("Origin")
				if origin == "" {
					return true
				}
				for _, o := range allowed {
					if o == origin {
						return true
					}
				}
				return false
			},
		},
	}
}

// Router builds the chi mux with all routes mounted.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: s.cfg.AllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Authorization", "Content-Type"},
	}))
	r.Use(s.logRequests)

	r.Get("/healthz", s.handleHealth)
	r.Post("/api/query", s.handleQuery)
	r.Get("/api/changes/{dataSourceID}", s.handleChanges)
	r.Post("/api/pages", s.handleCreatePage)
	r.Get("/api/status", s.handleStatus)
	r.Get("/ws", s.handleWS)

	return r
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		next.ServeHTTP(w, r)
		s.logger.Debug("request handled",
			"method", r.Method,
			"path", r.URL.Path,
		)
	})
}
