// Package web serves the JSON API over chi.
package web

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/JonMunkholm/ropeworks/internal/config"
	"github.com/JonMunkholm/ropeworks/internal/core"
	"github.com/JonMunkholm/ropeworks/internal/web/middleware"
)

var errRateLimited = errors.New("rate limit exceeded")

// Server is the HTTP server for the operations API.
type Server struct {
	service *core.Service
	cfg     *config.Config
	router  *chi.Mux
	server  *http.Server

	// stops the rate limiter cleanup loops
	stop context.CancelFunc
}

// NewServer wires middleware and routes for service.
func NewServer(service *core.Service, cfg *config.Config) *Server {
	ctx, stop := context.WithCancel(context.Background())
	s := &Server{
		service: service,
		cfg:     cfg,
		router:  chi.NewRouter(),
		stop:    stop,
	}
	s.setupMiddleware(ctx)
	s.setupRoutes(ctx)
	return s
}

func (s *Server) setupMiddleware(ctx context.Context) {
	s.router.Use(chimw.RequestID)
	s.router.Use(middleware.TrustedRealIP(s.cfg.Security.TrustedProxies))
	s.router.Use(middleware.Logger)
	s.router.Use(chimw.Recoverer)
	s.router.Use(chimw.Compress(5))
	s.router.Use(s.securityHeaders)

	if s.cfg.Rate.Enabled {
		s.router.Use(s.rateLimit(ctx, s.cfg.Rate.RequestsPerMinute))
	}
}

func (s *Server) setupRoutes(ctx context.Context) {
	s.router.With(s.requestTimeout).Get("/healthz", s.handleHealth)

	s.router.Route("/api", func(r chi.Router) {
		r.Route("/work-jobs", func(r chi.Router) {
			// Imports are bounded by IMPORT_TIMEOUT inside the service.
			r.Group(func(r chi.Router) {
				if s.cfg.Rate.Enabled {
					r.Use(s.rateLimit(ctx, s.cfg.Rate.ImportLimit))
				}
				r.Post("/import", s.handleImportWorkJobs)
			})

			r.Group(func(r chi.Router) {
				r.Use(s.requestTimeout)
				r.Get("/", s.handleListWorkJobs)
				r.Post("/", s.handleCreateWorkJob)
				r.Get("/imports", s.handleListImportRuns)
				r.Get("/{id}", s.handleGetWorkJob)
				r.Put("/{id}", s.handleUpdateWorkJob)
			})
		})

		r.Group(func(r chi.Router) {
			r.Use(s.requestTimeout)

			r.Get("/import-status", s.handleImportStatus)

			r.Route("/daily-reports", func(r chi.Router) {
				r.Get("/", s.handleListDailyReports)
				r.Post("/", s.handleCreateDailyReport)
				r.Get("/{id}", s.handleGetDailyReport)
				r.Put("/{id}", s.handleUpdateDailyReport)
				r.Delete("/{id}", s.handleDeleteDailyReport)
				r.Post("/{id}/entries", s.handleAddWorkEntry)
				r.Put("/{id}/entries/{entryID}", s.handleUpdateWorkEntry)
				r.Delete("/{id}/entries/{entryID}", s.handleRemoveWorkEntry)
			})

			r.Route("/employees", func(r chi.Router) {
				r.Get("/", s.handleListEmployees)
				r.Post("/", s.handleCreateEmployee)
				r.Get("/{id}", s.handleGetEmployee)
				r.Put("/{id}", s.handleUpdateEmployee)
				r.Put("/{id}/work-types", s.handleSetEmployeeWorkTypes)
			})

			r.Route("/vehicles", func(r chi.Router) {
				r.Get("/", s.handleListVehicles)
				r.Post("/", s.handleCreateVehicle)
				r.Get("/{id}", s.handleGetVehicle)
				r.Put("/{id}", s.handleUpdateVehicle)
			})

			r.Route("/work-categories", func(r chi.Router) {
				r.Get("/", s.handleListWorkCategories)
				r.Post("/", s.handleCreateWorkCategory)
				r.Get("/{id}", s.handleGetWorkCategory)
				r.Put("/{id}", s.handleUpdateWorkCategory)
			})

			r.Route("/work-types", func(r chi.Router) {
				r.Get("/", s.handleListWorkTypes)
				r.Post("/", s.handleCreateWorkType)
				r.Get("/{id}", s.handleGetWorkType)
				r.Put("/{id}", s.handleUpdateWorkType)
			})
		})
	})

	s.router.NotFound(func(w http.ResponseWriter, r *http.Request) {
		s.respondError(w, r, core.ErrNotFound, http.StatusNotFound)
	})
}

// Start listens on the configured address until Shutdown.
func (s *Server) Start() error {
	s.server = &http.Server{
		Addr:         s.cfg.Server.Addr(),
		Handler:      s.router,
		ReadTimeout:  s.cfg.Server.ReadTimeout,
		WriteTimeout: s.cfg.Server.WriteTimeout,
		IdleTimeout:  s.cfg.Server.IdleTimeout,
	}

	slog.Info("starting server", "addr", s.server.Addr)
	return s.server.ListenAndServe()
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.stop()
	if s.server == nil {
		return nil
	}
	return s.server.Shutdown(ctx)
}

// Router returns the underlying chi router for testing.
func (s *Server) Router() *chi.Mux {
	return s.router
}

// requestTimeout applies SERVER_REQUEST_TIMEOUT. A zero timeout disables it.
func (s *Server) requestTimeout(next http.Handler) http.Handler {
	if s.cfg.Server.RequestTimeout <= 0 {
		return next
	}
	return chimw.Timeout(s.cfg.Server.RequestTimeout)(next)
}

// securityHeaders adds hardening headers to every response.
func (s *Server) securityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := w.Header()
		h.Set("X-Content-Type-Options", "nosniff")
		h.Set("X-Frame-Options", "DENY")
		h.Set("Referrer-Policy", "strict-origin-when-cross-origin")
		if s.cfg.Security.EnableCSP {
			// JSON only; nothing should ever be loaded from a response
			h.Set("Content-Security-Policy", "default-src 'none'; frame-ancestors 'none'")
		}
		next.ServeHTTP(w, r)
	})
}

// rateLimit returns per-IP limiting middleware allowing perMinute requests.
func (s *Server) rateLimit(ctx context.Context, perMinute int) func(http.Handler) http.Handler {
	rl := middleware.NewRateLimiter(perMinute, time.Minute)
	go rl.Cleanup(ctx)
	return rl.Handler(func(w http.ResponseWriter, r *http.Request) {
		s.respondError(w, r, errRateLimited, http.StatusTooManyRequests)
	})
}

// writeJSON encodes v with status. Encoding errors are only logged since
// the header is already sent.
func writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logFor(r).Error("json encode error", "error", err)
	}
}
